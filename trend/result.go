package trend

type Status string

const (
	StatusOK               Status = "ok"
	StatusInsufficientData Status = "insufficient_data"
)

type AnomalyType string

const (
	TypeStatisticalOutlier AnomalyType = "statistical_outlier"
	TypeTrendChange        AnomalyType = "trend_change"
	TypeTrendReversal      AnomalyType = "trend_reversal"
	TypeSuddenChange       AnomalyType = "sudden_change"
)

// InsufficientData reports how many points detection needs and how many it got.
type InsufficientData struct {
	Required int `json:"required"`
	Actual   int `json:"actual"`
}

type AnomalyDetail struct {
	Index       int           `json:"index"`
	TimePeriod  float64       `json:"time_period"`
	Value       float64       `json:"value"`
	Types       []AnomalyType `json:"types"`
	Description string        `json:"description"`
}

func (a AnomalyDetail) Has(t AnomalyType) bool {
	for _, at := range a.Types {
		if at == t {
			return true
		}
	}
	return false
}

// DetectionResult is either an ok result carrying every derived array, or an
// insufficient-data result with Insufficient set and the derived arrays nil.
type DetectionResult struct {
	Status       Status            `json:"status"`
	StatName     string            `json:"stat_name"`
	Series       []float64         `json:"series"`
	TimeIndex    []float64         `json:"time_index"`
	Anomalies    []int             `json:"anomalies,omitempty"`
	Details      []AnomalyDetail   `json:"details,omitempty"`
	RollingMean  []float64         `json:"rolling_mean,omitempty"`
	RollingSlope []float64         `json:"rolling_slope,omitempty"`
	ZScores      []float64         `json:"z_scores,omitempty"`
	Summary      string            `json:"summary"`
	Insufficient *InsufficientData `json:"insufficient,omitempty"`
}

func (r *DetectionResult) IsInsufficient() bool {
	return r == nil || r.Status == StatusInsufficientData
}

// Narrative is an ordered list of sentences describing a result.
type Narrative []string
