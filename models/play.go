package models

import (
	"errors"
	"math"
	"strings"
	"time"

	"gridiron-trends/trend"
)

type PlayKind int

const (
	KindOther PlayKind = iota
	KindRush
	KindPass
)

func (k PlayKind) String() string {
	switch k {
	case KindRush:
		return "rush"
	case KindPass:
		return "pass"
	default:
		return "other"
	}
}

// Play is one snap from the live play feed. Time is the total number of
// game seconds remaining when the play started.
type Play struct {
	GameID      string  `json:"game_id"`
	Quarter     int     `json:"quarter"`
	Time        int     `json:"time"`
	Description string  `json:"description"`
	YardsGained float64 `json:"yards_gained"`
	OffenseTeam string  `json:"offense_team"`
	DefenseTeam string  `json:"defense_team"`
	Down        int     `json:"down"`
	YardsToGo   int     `json:"yards_to_go"`
	YardLine    int     `json:"yard_line"`
	PlayType    string  `json:"play_type,omitempty"`
}

func (p *Play) Validate() error {
	if p.GameID == "" {
		return errors.New("game_id is required")
	}

	if p.OffenseTeam == "" {
		return errors.New("offense_team is required")
	}

	if p.Quarter < 1 || p.Quarter > 5 {
		return errors.New("quarter must be between 1 and 5")
	}

	if p.Time < 0 {
		return errors.New("time must be non-negative")
	}

	if p.Down < 0 || p.Down > 4 {
		return errors.New("down must be between 0 and 4")
	}

	if math.IsNaN(p.YardsGained) || math.IsInf(p.YardsGained, 0) {
		return errors.New("yards_gained must be a finite number")
	}

	return nil
}

// Kind tells rushing and passing plays apart. An explicit play_type wins;
// otherwise the description is inspected.
func (p *Play) Kind() PlayKind {
	switch strings.ToUpper(strings.TrimSpace(p.PlayType)) {
	case "RUSH", "SCRAMBLE":
		return KindRush
	case "PASS", "SACK":
		return KindPass
	case "":
	default:
		return KindOther
	}

	desc := strings.ToUpper(p.Description)
	switch {
	case desc == "":
		return KindOther
	case strings.Contains(desc, "PUNT"), strings.Contains(desc, "KICKS"),
		strings.Contains(desc, "FIELD GOAL"), strings.Contains(desc, "EXTRA POINT"),
		strings.Contains(desc, "TIMEOUT"), strings.Contains(desc, "KNEELS"),
		strings.Contains(desc, "SPIKED"), strings.Contains(desc, "END OF"),
		strings.HasPrefix(desc, "PENALTY"), strings.Contains(desc, "NO PLAY"):
		return KindOther
	case strings.Contains(desc, "SCRAMBLES"):
		return KindRush
	case strings.Contains(desc, " PASS") || strings.Contains(desc, "SACKED"):
		return KindPass
	case strings.Contains(desc, " TO ") && strings.Contains(desc, " FOR "):
		return KindRush
	default:
		return KindOther
	}
}

// IsScrimmage reports whether the play counts toward rushing or passing
// production.
func (p *Play) IsScrimmage() bool {
	return p.Kind() != KindOther
}

// GainedFirstDown reports a scrimmage play that reached the line to gain.
func (p *Play) GainedFirstDown() bool {
	return p.IsScrimmage() && p.Down > 0 && p.YardsToGo > 0 && p.YardsGained >= float64(p.YardsToGo)
}

type TrendReport struct {
	GameID    string                 `json:"game_id"`
	Team      string                 `json:"team"`
	Series    string                 `json:"series"`
	Result    *trend.DetectionResult `json:"result"`
	Narrative trend.Narrative        `json:"narrative"`
	UpdatedAt time.Time              `json:"updated_at"`
}
