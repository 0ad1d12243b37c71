package models

import (
	"math"
	"testing"
)

func validPlay() Play {
	return Play{
		GameID:      "2024090500",
		Quarter:     1,
		Time:        3540,
		Description: "(14:00) 26-S.BARKLEY RIGHT END TO PHI 38 FOR 7 YARDS",
		YardsGained: 7,
		OffenseTeam: "PHI",
		DefenseTeam: "GB",
		Down:        1,
		YardsToGo:   10,
		YardLine:    31,
	}
}

func TestPlay_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Play)
		wantErr bool
	}{
		{"valid", func(p *Play) {}, false},
		{"kickoff has no down", func(p *Play) { p.Down = 0 }, false},
		{"overtime", func(p *Play) { p.Quarter = 5 }, false},
		{"missing game", func(p *Play) { p.GameID = "" }, true},
		{"missing offense", func(p *Play) { p.OffenseTeam = "" }, true},
		{"quarter zero", func(p *Play) { p.Quarter = 0 }, true},
		{"quarter six", func(p *Play) { p.Quarter = 6 }, true},
		{"negative time", func(p *Play) { p.Time = -1 }, true},
		{"fifth down", func(p *Play) { p.Down = 5 }, true},
		{"nan yards", func(p *Play) { p.YardsGained = math.NaN() }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPlay()
			tt.mutate(&p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPlay_Kind(t *testing.T) {
	tests := []struct {
		playType    string
		description string
		want        PlayKind
	}{
		{"RUSH", "", KindRush},
		{"pass", "", KindPass},
		{"SACK", "", KindPass},
		{"SCRAMBLE", "", KindRush},
		{"PUNT", "26-S.BARKLEY RIGHT END TO PHI 38 FOR 7 YARDS", KindOther},
		{"", "26-S.BARKLEY RIGHT END TO PHI 38 FOR 7 YARDS", KindRush},
		{"", "(SHOTGUN) 1-J.HURTS PASS SHORT LEFT TO 11-A.BROWN TO GB 40 FOR 12 YARDS", KindPass},
		{"", "(SHOTGUN) 1-J.HURTS PASS INCOMPLETE DEEP RIGHT TO 6-D.SMITH", KindPass},
		{"", "1-J.HURTS SACKED AT PHI 20 FOR -8 YARDS", KindPass},
		{"", "1-J.HURTS SCRAMBLES LEFT END TO PHI 45 FOR 9 YARDS", KindRush},
		{"", "8-B.MANN PUNTS 45 YARDS TO GB 20", KindOther},
		{"", "TIMEOUT #1 BY GB AT 02:00.", KindOther},
		{"", "PENALTY ON GB-23-J.ALEXANDER, DEFENSIVE PASS INTERFERENCE, 15 YARDS, ENFORCED AT GB 40.", KindOther},
		{"", "(SHOTGUN) 1-J.HURTS PASS SHORT RIGHT TO 11-A.BROWN. PENALTY ON PHI-62-J.KELCE, ILLEGAL FORMATION, 5 YARDS, NO PLAY.", KindOther},
		{"", "", KindOther},
	}

	for _, tt := range tests {
		p := Play{PlayType: tt.playType, Description: tt.description}
		if got := p.Kind(); got != tt.want {
			t.Errorf("Kind(%q, %q) = %s, want %s", tt.playType, tt.description, got, tt.want)
		}
	}
}

func TestPlay_GainedFirstDown(t *testing.T) {
	p := validPlay()
	if p.GainedFirstDown() {
		t.Error("7 yards on 1st and 10 is not a first down")
	}

	p.YardsGained = 10
	if !p.GainedFirstDown() {
		t.Error("10 yards on 1st and 10 is a first down")
	}

	p.PlayType = "PUNT"
	if p.GainedFirstDown() {
		t.Error("non-scrimmage plays never gain a first down")
	}
}
