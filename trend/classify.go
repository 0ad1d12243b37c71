package trend

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// classify re-checks every detector at idx against its predecessor. Which
// detector first put idx on the list is not recorded.
func (d *Detector) classify(idx int, values, periods, scores, slopes []float64, jumpThreshold float64, hasJumps bool) AnomalyDetail {
	detail := AnomalyDetail{
		Index:      idx,
		TimePeriod: periods[idx],
		Value:      values[idx],
	}
	var parts []string

	if d.isOutlier(scores[idx]) {
		detail.Types = append(detail.Types, TypeStatisticalOutlier)
		parts = append(parts, fmt.Sprintf("Statistical outlier (z-score: %.2f)", scores[idx]))
	}

	if idx > 0 {
		prev, cur := slopes[idx-1], slopes[idx]
		if changed, reversed := d.slopeShift(prev, cur); changed {
			detail.Types = append(detail.Types, TypeTrendChange)
			if reversed {
				detail.Types = append(detail.Types, TypeTrendReversal)
				parts = append(parts, fmt.Sprintf("Trend reversal (slope %.2f -> %.2f)", prev, cur))
			} else {
				parts = append(parts, fmt.Sprintf("Trend change (slope %.2f -> %.2f)", prev, cur))
			}
		}

		diff := values[idx] - values[idx-1]
		if isJump(diff, jumpThreshold, hasJumps) {
			detail.Types = append(detail.Types, TypeSuddenChange)
			direction := "increase"
			if diff < 0 {
				direction = "decrease"
			}
			parts = append(parts, fmt.Sprintf("Sudden %s of %.2f", direction, math.Abs(diff)))
		}
	}

	detail.Description = strings.Join(parts, "; ")
	return detail
}

func summarize(statName string, details []AnomalyDetail) string {
	if len(details) == 0 {
		return "No significant anomalies detected"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Detected %d anomalies in %s:", len(details), statName)
	for _, a := range details {
		fmt.Fprintf(&b, "\nPeriod %s: %s (value: %s)", formatNumber(a.TimePeriod), a.Description, formatNumber(a.Value))
	}
	return b.String()
}

// formatNumber prints whole numbers without a fractional part and everything
// else with at most two decimals.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
