package trend

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/stat"
)

const (
	LabelRushing    = "rushing"
	LabelPassing    = "passing"
	LabelFirstDowns = "first down production"
	LabelYardage    = "yards per play"
)

const (
	strongSlope = 0.5
	slightSlope = 0.2
)

// defaultSynonyms maps compacted stat names (lower-case, letters and digits
// only) to a canonical label.
var defaultSynonyms = map[string]string{
	"rushing":              LabelRushing,
	"rush":                 LabelRushing,
	"rushes":               LabelRushing,
	"carries":              LabelRushing,
	"rushattempts":         LabelRushing,
	"rushingattempts":      LabelRushing,
	"rushesperdrive":       LabelRushing,
	"rushattemptsperdrive": LabelRushing,
	"passing":              LabelPassing,
	"pass":                 LabelPassing,
	"passes":               LabelPassing,
	"passattempts":         LabelPassing,
	"passingattempts":      LabelPassing,
	"passesperdrive":       LabelPassing,
	"passattemptsperdrive": LabelPassing,
	"dropbacks":            LabelPassing,
	"firstdown":            LabelFirstDowns,
	"firstdowns":           LabelFirstDowns,
	"firstdownsperdrive":   LabelFirstDowns,
	"firstdownproduction":  LabelFirstDowns,
	"yardsperplay":         LabelYardage,
	"yardsgained":          LabelYardage,
	"yardsgainedperplay":   LabelYardage,
}

// phrasebook holds the sentence templates for one label. Templates may use
// the placeholders {Label}, {label}, {period}, {value} and {delta}; {delta}
// is the jump size for spikes and drops and the slope for trend sentences.
type phrasebook struct {
	consistent   string
	insufficient string

	reversalUp   string
	reversalDown string
	strongUp     string
	strongDown   string
	slightUp     string
	slightDown   string

	spike string
	drop  string
	high  string
	low   string
}

var genericPhrases = phrasebook{
	consistent:   "{Label} has remained fairly consistent.",
	insufficient: "There is not enough data yet to describe trends in {label}.",
	reversalUp:   "{Label} has picked up significantly, reversing its earlier slide (slope {delta} per period).",
	reversalDown: "{Label} has dropped off notably after trending upward (slope {delta} per period).",
	strongUp:     "{Label} is increasing steadily (slope {delta} per period).",
	strongDown:   "{Label} has decreased steadily (slope {delta} per period).",
	slightUp:     "There is a slight uptick in {label}.",
	slightDown:   "There is a slight downtick in {label}.",
	spike:        "{Label} saw a sudden spike in period {period}, up {delta} to {value}.",
	drop:         "{Label} saw a sudden drop in period {period}, down {delta} to {value}.",
	high:         "{Label} was unusually high at {value} in period {period}.",
	low:          "{Label} was unusually low at {value} in period {period}.",
}

// Label-specific overrides; empty fields fall back to genericPhrases.
var labelPhrases = map[string]phrasebook{
	LabelRushing: {
		consistent: "The rushing attack has remained fairly consistent.",
		spike:      "The offense leaned on the run in period {period}: a sudden spike in rushing, up {delta} to {value}.",
		drop:       "Rushing saw a sudden drop in period {period}, down {delta} to {value} as the offense moved away from the run.",
		high:       "Rushing was unusually heavy in period {period} at {value}.",
		low:        "Rushing was unusually light in period {period} at {value}.",
	},
	LabelPassing: {
		consistent: "The passing game has remained fairly consistent.",
		spike:      "Passing spiked in period {period}, up {delta} to {value} as the offense took to the air.",
		drop:       "Passing saw a sudden drop in period {period}, down {delta} to {value}.",
		high:       "The passing game was unusually busy in period {period} at {value}.",
		low:        "Passing was unusually quiet in period {period} at {value}.",
	},
	LabelFirstDowns: {
		spike: "First down production spiked in period {period}, up {delta} to {value}.",
		drop:  "First down production saw a sudden drop in period {period}, down {delta} to {value}.",
		high:  "First down production was unusually strong in period {period} at {value}.",
		low:   "First down production stalled in period {period} at {value}.",
	},
}

func (p phrasebook) over(base phrasebook) phrasebook {
	pick := func(own, fallback string) string {
		if own != "" {
			return own
		}
		return fallback
	}
	return phrasebook{
		consistent:   pick(p.consistent, base.consistent),
		insufficient: pick(p.insufficient, base.insufficient),
		reversalUp:   pick(p.reversalUp, base.reversalUp),
		reversalDown: pick(p.reversalDown, base.reversalDown),
		strongUp:     pick(p.strongUp, base.strongUp),
		strongDown:   pick(p.strongDown, base.strongDown),
		slightUp:     pick(p.slightUp, base.slightUp),
		slightDown:   pick(p.slightDown, base.slightDown),
		spike:        pick(p.spike, base.spike),
		drop:         pick(p.drop, base.drop),
		high:         pick(p.high, base.high),
		low:          pick(p.low, base.low),
	}
}

// Narrator turns detection results into sentences. The zero value is not
// usable; build one with NewNarrator.
type Narrator struct {
	synonyms map[string]string
}

var defaultNarrator = NewNarrator(nil)

// NewNarrator returns a narrator using the built-in synonym table extended by
// extra (alias -> label). Aliases are compacted the same way stat names are.
func NewNarrator(extra map[string]string) *Narrator {
	synonyms := make(map[string]string, len(defaultSynonyms)+len(extra))
	for k, v := range defaultSynonyms {
		synonyms[k] = v
	}
	for alias, label := range extra {
		key := compact(alias)
		label = strings.ToLower(strings.TrimSpace(label))
		if key == "" || label == "" {
			continue
		}
		synonyms[key] = label
	}
	return &Narrator{synonyms: synonyms}
}

// Narrate describes r using the default synonym table.
func Narrate(r *DetectionResult) Narrative {
	return defaultNarrator.Narrate(r)
}

// Label normalises a free-text stat name to its canonical label. Unknown
// names come back lower-cased.
func (n *Narrator) Label(statName string) string {
	if label, ok := n.synonyms[compact(statName)]; ok {
		return label
	}
	label := strings.ToLower(strings.TrimSpace(statName))
	if label == "" {
		return "this stat"
	}
	return label
}

func (n *Narrator) Narrate(r *DetectionResult) Narrative {
	statName := ""
	if r != nil {
		statName = r.StatName
	}
	label := n.Label(statName)
	book := labelPhrases[label].over(genericPhrases)
	say := func(tmpl, period, value, delta string) string {
		return strings.NewReplacer(
			"{Label}", capitalize(label),
			"{label}", label,
			"{period}", period,
			"{value}", value,
			"{delta}", delta,
		).Replace(tmpl)
	}

	if r.IsInsufficient() {
		return Narrative{say(book.insufficient, "", "", "")}
	}
	if len(r.Details) == 0 {
		return Narrative{say(book.consistent, "", "", "")}
	}

	var out Narrative

	if sentence, ok := trendSentence(r, book, say); ok {
		out = append(out, sentence)
	}

	for _, a := range r.Details {
		if !a.Has(TypeSuddenChange) || a.Index == 0 {
			continue
		}
		diff := r.Series[a.Index] - r.Series[a.Index-1]
		tmpl := book.spike
		if diff < 0 {
			tmpl = book.drop
		}
		out = append(out, say(tmpl, formatNumber(a.TimePeriod), formatNumber(a.Value), formatNumber(math.Abs(diff))))
	}

	mean := stat.Mean(r.Series, nil)
	for _, a := range r.Details {
		if !a.Has(TypeStatisticalOutlier) {
			continue
		}
		tmpl := book.high
		if a.Value < mean {
			tmpl = book.low
		}
		out = append(out, say(tmpl, formatNumber(a.TimePeriod), formatNumber(a.Value), ""))
	}

	return out
}

// trendSentence describes the most recent trend change, if its slope is
// steep enough to be worth mentioning.
// trendSentence describes the most recent trend point whose slope is steep
// enough to phrase, skipping flatter ones.
func trendSentence(r *DetectionResult, book phrasebook, say func(tmpl, period, value, delta string) string) (string, bool) {
	for i := len(r.Details) - 1; i >= 0; i-- {
		a := r.Details[i]
		if !a.Has(TypeTrendChange) && !a.Has(TypeTrendReversal) {
			continue
		}
		slope := r.RollingSlope[a.Index]
		period, value, slopeText := formatNumber(a.TimePeriod), formatNumber(a.Value), fmt.Sprintf("%.2f", slope)

		var tmpl string
		switch {
		case a.Has(TypeTrendReversal) && slope > 0:
			tmpl = book.reversalUp
		case a.Has(TypeTrendReversal) && slope < 0:
			tmpl = book.reversalDown
		case slope > strongSlope:
			tmpl = book.strongUp
		case slope < -strongSlope:
			tmpl = book.strongDown
		case slope > slightSlope:
			tmpl = book.slightUp
		case slope < -slightSlope:
			tmpl = book.slightDown
		default:
			continue
		}
		return say(tmpl, period, value, slopeText), true
	}
	return "", false
}

func compact(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
