package trend

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// zScores scores every point against the whole series using the population
// standard deviation. A flat series scores zero everywhere.
func zScores(values []float64) []float64 {
	scores := make([]float64, len(values))

	mean, stdDev := stat.PopMeanStdDev(values, nil)
	if stdDev == 0 {
		return scores
	}

	for i, v := range values {
		scores[i] = math.Abs(v-mean) / stdDev
	}
	return scores
}

func (d *Detector) outliers(scores []float64) []int {
	var idx []int
	for i, z := range scores {
		if d.isOutlier(z) {
			idx = append(idx, i)
		}
	}
	return idx
}

func (d *Detector) isOutlier(z float64) bool {
	return z > d.cfg.Sensitivity
}
