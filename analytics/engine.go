package analytics

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"gridiron-trends/models"
	"gridiron-trends/trend"
)

type ReportStore interface {
	SaveReport(report models.TrendReport) error
}

// AnomalyCallback fires once for every anomaly that was not present the last
// time the same series was analysed.
type AnomalyCallback func(snapshot SeriesSnapshot, anomaly trend.AnomalyDetail)

type EngineConfig struct {
	Workers   int
	QueueSize int
	Retention int
}

// AnalyticsEngine feeds plays into per-game drive trackers and re-runs trend
// detection on every series a play changes. Plays are sharded by game so
// each game is processed by a single worker, in arrival order.
type AnalyticsEngine struct {
	store     ReportStore
	detector  *trend.Detector
	narrator  *trend.Narrator
	retention int
	onAnomaly AnomalyCallback

	mu       sync.Mutex
	trackers map[string]*DriveTracker
	seen     map[string]map[float64]struct{}

	shards []chan event
	wg     sync.WaitGroup
}

// event is either a play or, when finish is set, the end of a game.
type event struct {
	play   models.Play
	finish bool
}

func NewAnalyticsEngine(store ReportStore, detector *trend.Detector, narrator *trend.Narrator, cfg EngineConfig, onAnomaly AnomalyCallback) *AnalyticsEngine {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1000
	}

	engine := &AnalyticsEngine{
		store:     store,
		detector:  detector,
		narrator:  narrator,
		retention: cfg.Retention,
		onAnomaly: onAnomaly,
		trackers:  make(map[string]*DriveTracker),
		seen:      make(map[string]map[float64]struct{}),
		shards:    make([]chan event, cfg.Workers),
	}

	log.Printf("Starting %d analytics workers", cfg.Workers)
	for i := range engine.shards {
		engine.shards[i] = make(chan event, cfg.QueueSize/cfg.Workers+1)
		engine.wg.Add(1)
		go engine.processPlays(engine.shards[i])
	}

	return engine
}

// ProcessPlay queues a play without blocking. It returns false when the
// game's queue is full and the play was dropped.
func (ae *AnalyticsEngine) ProcessPlay(play models.Play) bool {
	select {
	case ae.shard(play.GameID) <- event{play: play}:
		return true
	default:
		log.Printf("WARNING: Play queue is full, dropping play from game %s", play.GameID)
		return false
	}
}

// FinishGame queues the end of gameID behind its pending plays. The drive in
// progress is then closed and analysed. It returns false when the queue is
// full.
func (ae *AnalyticsEngine) FinishGame(gameID string) bool {
	select {
	case ae.shard(gameID) <- event{play: models.Play{GameID: gameID}, finish: true}:
		return true
	default:
		log.Printf("WARNING: Play queue is full, dropping finish of game %s", gameID)
		return false
	}
}

func (ae *AnalyticsEngine) shard(gameID string) chan event {
	return ae.shards[xxhash.Sum64String(gameID)%uint64(len(ae.shards))]
}

func (ae *AnalyticsEngine) finishGame(gameID string) {
	ae.mu.Lock()
	tracker, ok := ae.trackers[gameID]
	ae.mu.Unlock()
	if !ok {
		return
	}
	for _, snap := range tracker.Finish() {
		ae.analyze(snap)
	}
	ae.release(gameID)
}

// release drops the in-memory state of a finished game. Its stored reports
// stay in the ReportStore until they expire.
func (ae *AnalyticsEngine) release(gameID string) {
	ae.mu.Lock()
	defer ae.mu.Unlock()

	delete(ae.trackers, gameID)
	prefix := gameID + "|"
	for key := range ae.seen {
		if strings.HasPrefix(key, prefix) {
			delete(ae.seen, key)
		}
	}
}

// Close stops accepting plays and waits for queued ones to be processed.
func (ae *AnalyticsEngine) Close() {
	for _, shard := range ae.shards {
		close(shard)
	}
	ae.wg.Wait()
}

func (ae *AnalyticsEngine) processPlays(events <-chan event) {
	defer ae.wg.Done()
	for ev := range events {
		if ev.finish {
			ae.finishGame(ev.play.GameID)
			continue
		}
		ae.processPlay(ev.play)
	}
}

func (ae *AnalyticsEngine) processPlay(play models.Play) {
	for _, snap := range ae.tracker(play.GameID).Observe(play) {
		ae.analyze(snap)
	}
}

func (ae *AnalyticsEngine) tracker(gameID string) *DriveTracker {
	ae.mu.Lock()
	defer ae.mu.Unlock()

	tracker, ok := ae.trackers[gameID]
	if !ok {
		tracker = NewDriveTracker(gameID, ae.retention)
		ae.trackers[gameID] = tracker
	}
	return tracker
}

func (ae *AnalyticsEngine) analyze(snap SeriesSnapshot) {
	result, err := ae.detector.Detect(snap.Series, snap.Values, snap.Periods)
	if err != nil {
		log.Printf("ERROR: trend detection failed for %s/%s/%s: %v", snap.GameID, snap.Team, snap.Series, err)
		return
	}

	report := models.TrendReport{
		GameID:    snap.GameID,
		Team:      snap.Team,
		Series:    snap.Series,
		Result:    result,
		Narrative: ae.narrator.Narrate(result),
		UpdatedAt: time.Now().UTC(),
	}
	if err := ae.store.SaveReport(report); err != nil {
		log.Printf("ERROR: Failed to save trend report for %s/%s/%s: %v", snap.GameID, snap.Team, snap.Series, err)
	}

	for _, anomaly := range ae.newAnomalies(snap, result.Details) {
		log.Printf("ANOMALY DETECTED: game=%s, team=%s, series=%q, period=%v, value=%.2f, types=%v",
			snap.GameID, snap.Team, snap.Series, anomaly.TimePeriod, anomaly.Value, anomaly.Types)
		if ae.onAnomaly != nil {
			ae.onAnomaly(snap, anomaly)
		}
	}
}

// newAnomalies filters details down to periods not reported before for the
// same series. Periods are stable across retention trimming, indices are not.
func (ae *AnalyticsEngine) newAnomalies(snap SeriesSnapshot, details []trend.AnomalyDetail) []trend.AnomalyDetail {
	key := fmt.Sprintf("%s|%s|%s", snap.GameID, snap.Team, snap.Series)

	ae.mu.Lock()
	defer ae.mu.Unlock()

	seen, ok := ae.seen[key]
	if !ok {
		seen = make(map[float64]struct{})
		ae.seen[key] = seen
	}

	var fresh []trend.AnomalyDetail
	for _, d := range details {
		if _, dup := seen[d.TimePeriod]; dup {
			continue
		}
		seen[d.TimePeriod] = struct{}{}
		fresh = append(fresh, d)
	}
	return fresh
}
