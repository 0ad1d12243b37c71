package trend

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultWindowSize         = 6
	DefaultSensitivity        = 2.0
	DefaultMinChangeMagnitude = 0.3
)

var (
	ErrLengthMismatch = errors.New("series and time index lengths differ")
	ErrNonFiniteValue = errors.New("series contains a non-finite value")
	ErrNonFiniteTime  = errors.New("time index contains a non-finite value")
	ErrTimeIndexOrder = errors.New("time index must be non-decreasing")
	ErrInvalidConfig  = errors.New("invalid detector config")
)

type Config struct {
	WindowSize         int     `json:"window_size"`
	Sensitivity        float64 `json:"sensitivity"`
	MinChangeMagnitude float64 `json:"min_change_magnitude"`
}

func DefaultConfig() Config {
	return Config{
		WindowSize:         DefaultWindowSize,
		Sensitivity:        DefaultSensitivity,
		MinChangeMagnitude: DefaultMinChangeMagnitude,
	}
}

func (c Config) Validate() error {
	if c.WindowSize < 1 {
		return fmt.Errorf("%w: window size must be at least 1, got %d", ErrInvalidConfig, c.WindowSize)
	}
	if math.IsNaN(c.Sensitivity) || math.IsInf(c.Sensitivity, 0) || c.Sensitivity <= 0 {
		return fmt.Errorf("%w: sensitivity must be positive, got %v", ErrInvalidConfig, c.Sensitivity)
	}
	if math.IsNaN(c.MinChangeMagnitude) || math.IsInf(c.MinChangeMagnitude, 0) || c.MinChangeMagnitude < 0 {
		return fmt.Errorf("%w: min change magnitude must be non-negative, got %v", ErrInvalidConfig, c.MinChangeMagnitude)
	}
	return nil
}

// Detector flags outliers, trend changes and sudden jumps in a numeric
// series. It holds only its configuration, so one instance can serve any
// number of goroutines.
type Detector struct {
	cfg Config
}

func NewDetector() *Detector {
	return &Detector{cfg: DefaultConfig()}
}

func NewDetectorWithConfig(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{cfg: cfg}, nil
}

func (d *Detector) Config() Config {
	return d.cfg
}

// Detect runs the full pipeline over series. timeIndex may be nil, in which
// case periods 1..N are used. Malformed input is reported as an error; a
// series shorter than the window comes back as an insufficient-data result.
func (d *Detector) Detect(statName string, series, timeIndex []float64) (*DetectionResult, error) {
	if err := validateInput(series, timeIndex); err != nil {
		return nil, err
	}

	values := append([]float64(nil), series...)
	var periods []float64
	if timeIndex == nil {
		periods = defaultTimeIndex(len(values))
	} else {
		periods = append([]float64(nil), timeIndex...)
	}

	if len(values) < d.cfg.WindowSize {
		return &DetectionResult{
			Status:    StatusInsufficientData,
			StatName:  statName,
			Series:    values,
			TimeIndex: periods,
			Summary: fmt.Sprintf("Insufficient data: need at least %d points, have %d",
				d.cfg.WindowSize, len(values)),
			Insufficient: &InsufficientData{Required: d.cfg.WindowSize, Actual: len(values)},
		}, nil
	}

	rollingMean, rollingSlope := rollingStats(values, periods, d.cfg.WindowSize)
	scores := zScores(values)

	outliers := d.outliers(scores)
	trendChanges := d.trendChanges(rollingSlope)
	threshold, hasJumps := d.suddenThreshold(values)
	sudden := suddenChanges(values, threshold, hasJumps)

	anomalies := fuse(outliers, trendChanges, sudden)
	details := make([]AnomalyDetail, 0, len(anomalies))
	for _, idx := range anomalies {
		details = append(details, d.classify(idx, values, periods, scores, rollingSlope, threshold, hasJumps))
	}

	return &DetectionResult{
		Status:       StatusOK,
		StatName:     statName,
		Series:       values,
		TimeIndex:    periods,
		Anomalies:    anomalies,
		Details:      details,
		RollingMean:  rollingMean,
		RollingSlope: rollingSlope,
		ZScores:      scores,
		Summary:      summarize(statName, details),
	}, nil
}

func validateInput(series, timeIndex []float64) error {
	if timeIndex != nil && len(timeIndex) != len(series) {
		return fmt.Errorf("%w: series has %d points, time index has %d",
			ErrLengthMismatch, len(series), len(timeIndex))
	}
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w at position %d", ErrNonFiniteValue, i)
		}
	}
	for i, t := range timeIndex {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("%w at position %d", ErrNonFiniteTime, i)
		}
		if i > 0 && t < timeIndex[i-1] {
			return fmt.Errorf("%w: position %d (%v) precedes %v", ErrTimeIndexOrder, i, t, timeIndex[i-1])
		}
	}
	return nil
}

func defaultTimeIndex(n int) []float64 {
	periods := make([]float64, n)
	for i := range periods {
		periods[i] = float64(i + 1)
	}
	return periods
}
