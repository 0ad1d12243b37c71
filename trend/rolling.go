package trend

import (
	"gonum.org/v1/gonum/stat"
)

// rollingStats computes the trailing-window mean and least-squares slope at
// every position. Early positions use the shorter window that is available.
func rollingStats(values, periods []float64, windowSize int) (means, slopes []float64) {
	means = make([]float64, len(values))
	slopes = make([]float64, len(values))

	for i := range values {
		start := i - windowSize + 1
		if start < 0 {
			start = 0
		}
		ys := values[start : i+1]
		xs := periods[start : i+1]

		means[i] = stat.Mean(ys, nil)
		slopes[i] = windowSlope(xs, ys)
	}
	return means, slopes
}

func windowSlope(xs, ys []float64) float64 {
	if len(ys) < 2 {
		return 0
	}
	// A constant time index leaves the regression undefined.
	if _, xVar := stat.PopMeanVariance(xs, nil); xVar == 0 {
		return 0
	}
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	return beta
}
