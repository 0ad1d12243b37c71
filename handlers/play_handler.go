package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"gridiron-trends/analytics"
	"gridiron-trends/models"
	"gridiron-trends/trend"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	anomaliesDetectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anomalies_detected_total",
			Help: "Total number of newly emerged trend anomalies",
		},
		[]string{"series", "type"},
	)

	playsDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plays_dropped_total",
			Help: "Plays dropped because the analytics queue was full",
		},
	)
)

type ReportStore interface {
	analytics.ReportStore
	GetReport(gameID, team, series string) (*models.TrendReport, error)
	ListReports(gameID string) ([]models.TrendReport, error)
}

type PlayHandler struct {
	store     ReportStore
	detector  *trend.Detector
	narrator  *trend.Narrator
	analytics *analytics.AnalyticsEngine
}

func NewPlayHandler(store ReportStore, detector *trend.Detector, narrator *trend.Narrator, cfg analytics.EngineConfig) *PlayHandler {

	onAnomaly := func(snap analytics.SeriesSnapshot, anomaly trend.AnomalyDetail) {
		for _, t := range anomaly.Types {
			anomaliesDetectedTotal.WithLabelValues(snap.Series, string(t)).Inc()
		}
	}

	return &PlayHandler{
		store:     store,
		detector:  detector,
		narrator:  narrator,
		analytics: analytics.NewAnalyticsEngine(store, detector, narrator, cfg, onAnomaly),
	}
}

// Close drains the analytics queue.
func (h *PlayHandler) Close() {
	h.analytics.Close()
}

func (h *PlayHandler) HandlePlay(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK

	defer func() {
		observe(r, "/play", status, start)
	}()

	var play models.Play
	if err := json.NewDecoder(r.Body).Decode(&play); err != nil {
		status = http.StatusBadRequest
		http.Error(w, "Invalid JSON format", status)
		return
	}

	if err := play.Validate(); err != nil {
		status = http.StatusBadRequest
		http.Error(w, err.Error(), status)
		return
	}

	if !h.analytics.ProcessPlay(play) {
		playsDroppedTotal.Inc()
		status = http.StatusServiceUnavailable
		http.Error(w, "analytics queue is full", status)
		return
	}

	writeJSON(w, status, map[string]string{
		"status":  "accepted",
		"game_id": play.GameID,
	})
}

// HandleFinishGame queues the end of the game so its final drive is
// analysed once the pending plays are processed.
func (h *PlayHandler) HandleFinishGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["game_id"]
	if !h.analytics.FinishGame(gameID) {
		http.Error(w, "analytics queue full", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "finished",
		"game_id": gameID,
	})
}

func (h *PlayHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	gameID, team, series := q.Get("game_id"), q.Get("team"), q.Get("series")
	if gameID == "" || team == "" || series == "" {
		http.Error(w, "game_id, team and series parameters are required", http.StatusBadRequest)
		return
	}

	report, err := h.store.GetReport(gameID, team, series)
	if err != nil {
		http.Error(w, "Failed to get report: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if report == nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *PlayHandler) HandleGameReports(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["game_id"]

	reports, err := h.store.ListReports(gameID)
	if err != nil {
		http.Error(w, "Failed to list reports: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"game_id": gameID,
		"reports": reports,
	})
}

type detectRequest struct {
	StatName           string    `json:"stat_name"`
	Series             []float64 `json:"series"`
	TimeIndex          []float64 `json:"time_index,omitempty"`
	WindowSize         *int      `json:"window_size,omitempty"`
	Sensitivity        *float64  `json:"sensitivity,omitempty"`
	MinChangeMagnitude *float64  `json:"min_change_magnitude,omitempty"`
}

type detectResponse struct {
	Result    *trend.DetectionResult `json:"result"`
	Narrative trend.Narrative        `json:"narrative"`
}

// HandleDetect runs the detector on a posted series without touching any
// game state. Per-request parameters override the server defaults.
func (h *PlayHandler) HandleDetect(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK

	defer func() {
		observe(r, "/detect", status, start)
	}()

	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = http.StatusBadRequest
		http.Error(w, "Invalid JSON format", status)
		return
	}

	detector, err := h.detectorFor(req)
	if err != nil {
		status = http.StatusBadRequest
		http.Error(w, err.Error(), status)
		return
	}

	result, err := detector.Detect(req.StatName, req.Series, req.TimeIndex)
	if err != nil {
		status = http.StatusInternalServerError
		if isValidationError(err) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	writeJSON(w, status, detectResponse{
		Result:    result,
		Narrative: h.narrator.Narrate(result),
	})
}

func (h *PlayHandler) detectorFor(req detectRequest) (*trend.Detector, error) {
	if req.WindowSize == nil && req.Sensitivity == nil && req.MinChangeMagnitude == nil {
		return h.detector, nil
	}
	cfg := h.detector.Config()
	if req.WindowSize != nil {
		cfg.WindowSize = *req.WindowSize
	}
	if req.Sensitivity != nil {
		cfg.Sensitivity = *req.Sensitivity
	}
	if req.MinChangeMagnitude != nil {
		cfg.MinChangeMagnitude = *req.MinChangeMagnitude
	}
	return trend.NewDetectorWithConfig(cfg)
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func observe(r *http.Request, endpoint string, status int, start time.Time) {
	httpRequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
	requestDurationSeconds.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func isValidationError(err error) bool {
	return errors.Is(err, trend.ErrLengthMismatch) ||
		errors.Is(err, trend.ErrNonFiniteValue) ||
		errors.Is(err, trend.ErrNonFiniteTime) ||
		errors.Is(err, trend.ErrTimeIndexOrder) ||
		errors.Is(err, trend.ErrInvalidConfig)
}
