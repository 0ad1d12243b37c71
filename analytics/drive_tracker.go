package analytics

import (
	"sort"
	"sync"

	"gridiron-trends/models"
)

const (
	SeriesYardsPerPlay       = "yards per play"
	SeriesRushesPerDrive     = "rushes per drive"
	SeriesPassesPerDrive     = "passes per drive"
	SeriesFirstDownsPerDrive = "first downs per drive"
	SeriesYardsPerDrive      = "yards per drive"
)

var driveSeries = []string{
	SeriesRushesPerDrive,
	SeriesPassesPerDrive,
	SeriesFirstDownsPerDrive,
	SeriesYardsPerDrive,
}

// SeriesSnapshot is a copy of one team's series at a point in time, ready to
// be handed to the detector.
type SeriesSnapshot struct {
	GameID  string
	Team    string
	Series  string
	Values  []float64
	Periods []float64
}

type driveCounters struct {
	rushes     int
	passes     int
	firstDowns int
	yards      float64
	snaps      int
}

type teamState struct {
	drives int
	snaps  int
	drive  *driveCounters
	series map[string]*SeriesBuffer
}

// DriveTracker turns the play feed of one game into per-team numeric series.
// A drive ends when the offense changes hands; drives without a single rush
// or pass (kickoffs, onside attempts) are not recorded.
type DriveTracker struct {
	mu        sync.Mutex
	gameID    string
	retention int
	offense   string
	teams     map[string]*teamState
}

func NewDriveTracker(gameID string, retention int) *DriveTracker {
	return &DriveTracker{
		gameID:    gameID,
		retention: retention,
		teams:     make(map[string]*teamState),
	}
}

// Observe applies one play and returns snapshots of every series it changed.
func (dt *DriveTracker) Observe(play models.Play) []SeriesSnapshot {
	dt.mu.Lock()
	defer dt.mu.Unlock()

	changed := make(map[string]map[string]bool)
	mark := func(team, series string) {
		if changed[team] == nil {
			changed[team] = make(map[string]bool)
		}
		changed[team][series] = true
	}

	if dt.offense != "" && dt.offense != play.OffenseTeam {
		if dt.closeDrive(dt.offense) {
			for _, s := range driveSeries {
				mark(dt.offense, s)
			}
		}
	}
	dt.offense = play.OffenseTeam

	ts := dt.team(play.OffenseTeam)
	if ts.drive == nil {
		ts.drive = &driveCounters{}
	}

	if play.IsScrimmage() {
		switch play.Kind() {
		case models.KindRush:
			ts.drive.rushes++
		case models.KindPass:
			ts.drive.passes++
		}
		if play.GainedFirstDown() {
			ts.drive.firstDowns++
		}
		ts.drive.snaps++
		ts.drive.yards += play.YardsGained

		ts.snaps++
		ts.series[SeriesYardsPerPlay].Add(float64(ts.snaps), play.YardsGained)
		mark(play.OffenseTeam, SeriesYardsPerPlay)
	}

	return dt.snapshots(changed)
}

// Finish closes the drive in progress, typically at the end of the game.
func (dt *DriveTracker) Finish() []SeriesSnapshot {
	dt.mu.Lock()
	defer dt.mu.Unlock()

	if dt.offense == "" || !dt.closeDrive(dt.offense) {
		return nil
	}
	changed := map[string]map[string]bool{dt.offense: {}}
	for _, s := range driveSeries {
		changed[dt.offense][s] = true
	}
	return dt.snapshots(changed)
}

func (dt *DriveTracker) Snapshot(team, series string) (SeriesSnapshot, bool) {
	dt.mu.Lock()
	defer dt.mu.Unlock()

	ts, ok := dt.teams[team]
	if !ok {
		return SeriesSnapshot{}, false
	}
	buf, ok := ts.series[series]
	if !ok {
		return SeriesSnapshot{}, false
	}
	return dt.snapshot(team, series, buf), true
}

func (dt *DriveTracker) closeDrive(team string) bool {
	ts := dt.team(team)
	d := ts.drive
	ts.drive = nil
	if d == nil || d.snaps == 0 {
		return false
	}

	ts.drives++
	period := float64(ts.drives)
	ts.series[SeriesRushesPerDrive].Add(period, float64(d.rushes))
	ts.series[SeriesPassesPerDrive].Add(period, float64(d.passes))
	ts.series[SeriesFirstDownsPerDrive].Add(period, float64(d.firstDowns))
	ts.series[SeriesYardsPerDrive].Add(period, d.yards)
	return true
}

func (dt *DriveTracker) team(name string) *teamState {
	ts, ok := dt.teams[name]
	if ok {
		return ts
	}
	ts = &teamState{series: make(map[string]*SeriesBuffer)}
	for _, s := range append([]string{SeriesYardsPerPlay}, driveSeries...) {
		ts.series[s] = NewSeriesBuffer(dt.retention)
	}
	dt.teams[name] = ts
	return ts
}

func (dt *DriveTracker) snapshots(changed map[string]map[string]bool) []SeriesSnapshot {
	var out []SeriesSnapshot
	for team, series := range changed {
		for s := range series {
			out = append(out, dt.snapshot(team, s, dt.teams[team].series[s]))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Team != out[j].Team {
			return out[i].Team < out[j].Team
		}
		return out[i].Series < out[j].Series
	})
	return out
}

func (dt *DriveTracker) snapshot(team, series string, buf *SeriesBuffer) SeriesSnapshot {
	values, periods := buf.Points()
	return SeriesSnapshot{
		GameID:  dt.gameID,
		Team:    team,
		Series:  series,
		Values:  values,
		Periods: periods,
	}
}
