package trend

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

func (d *Detector) trendChanges(slopes []float64) []int {
	var idx []int
	for i := 1; i < len(slopes); i++ {
		if changed, _ := d.slopeShift(slopes[i-1], slopes[i]); changed {
			idx = append(idx, i)
		}
	}
	return idx
}

// slopeShift compares two consecutive rolling slopes. changed covers both a
// direction flip and a large change of speed; reversed only the flip.
func (d *Detector) slopeShift(prev, cur float64) (changed, reversed bool) {
	reversed = prev*cur < 0
	changed = reversed || math.Abs(cur-prev) > d.cfg.MinChangeMagnitude
	return changed, reversed
}

// flatSpread is the relative spread below which the first differences count
// as equal. Float steps such as 0.1 leave a stddev around 1e-17.
const flatSpread = 1e-9

// suddenThreshold derives the jump threshold from the spread of the first
// differences. ok is false when the differences are all equal, in which case
// no jump is ever flagged.
func (d *Detector) suddenThreshold(values []float64) (threshold float64, ok bool) {
	if len(values) < 2 {
		return 0, false
	}
	diffs := make([]float64, len(values)-1)
	for i := range diffs {
		diffs[i] = values[i+1] - values[i]
	}
	diffMean, diffStd := stat.PopMeanStdDev(diffs, nil)
	if diffStd <= flatSpread*math.Max(1, math.Abs(diffMean)) {
		return 0, false
	}
	return diffStd * d.cfg.Sensitivity, true
}

func suddenChanges(values []float64, threshold float64, ok bool) []int {
	if !ok {
		return nil
	}
	var idx []int
	for i := 0; i+1 < len(values); i++ {
		if isJump(values[i+1]-values[i], threshold, ok) {
			idx = append(idx, i+1)
		}
	}
	return idx
}

func isJump(diff, threshold float64, ok bool) bool {
	return ok && math.Abs(diff) > threshold
}

func fuse(sets ...[]int) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, set := range sets {
		for _, i := range set {
			if _, dup := seen[i]; dup {
				continue
			}
			seen[i] = struct{}{}
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}
