package simulation

import (
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"

	"github.com/DhavalSuthar-24/cricksim/internal/match"
	"gopkg.in/yaml.v3"
)

// Outcome is the result of one delivery before any bookkeeping.
type Outcome struct {
	Runs      int
	ExtraType match.ExtraType
	ExtraRuns int
	IsWicket  bool
	Dismissal match.DismissalType
	IsFour    bool
	IsSix     bool
}

// OutcomeSource draws the next delivery outcome.
type OutcomeSource interface {
	NextOutcome() Outcome
}

// OutcomeBand maps an inclusive range of a 1..100 draw onto an outcome.
type OutcomeBand struct {
	From      int    `yaml:"from"`
	To        int    `yaml:"to"`
	Label     string `yaml:"label"`
	Runs      int    `yaml:"runs"`
	Extra     string `yaml:"extra"`
	ExtraRuns int    `yaml:"extra_runs"`
	Wicket    bool   `yaml:"wicket"`
}

// DismissalWeight is the relative likelihood of a dismissal mode.
type DismissalWeight struct {
	Type   match.DismissalType `yaml:"type"`
	Weight int                 `yaml:"weight"`
}

// OutcomeTable is the weighted distribution the engine draws from.
type OutcomeTable struct {
	Bands      []OutcomeBand     `yaml:"bands"`
	Dismissals []DismissalWeight `yaml:"dismissals"`
}

// DefaultOutcomeTable is the built-in distribution for a limited-overs game.
func DefaultOutcomeTable() OutcomeTable {
	return OutcomeTable{
		Bands: []OutcomeBand{
			{From: 1, To: 5, Label: "wicket", Wicket: true},
			{From: 6, To: 10, Label: "six", Runs: 6},
			{From: 11, To: 20, Label: "four", Runs: 4},
			{From: 21, To: 25, Label: "wide", Extra: string(match.ExtraWide), ExtraRuns: 1},
			{From: 26, To: 30, Label: "three", Runs: 3},
			{From: 31, To: 45, Label: "two", Runs: 2},
			{From: 46, To: 70, Label: "one", Runs: 1},
			{From: 71, To: 100, Label: "dot"},
		},
		Dismissals: []DismissalWeight{
			{Type: match.DismissalBowled, Weight: 30},
			{Type: match.DismissalCaught, Weight: 45},
			{Type: match.DismissalLBW, Weight: 15},
			{Type: match.DismissalRunOut, Weight: 5},
			{Type: match.DismissalStumped, Weight: 5},
		},
	}
}

// LoadOutcomeTable reads and validates a YAML table from disk.
func LoadOutcomeTable(path string) (OutcomeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return OutcomeTable{}, fmt.Errorf("read outcome table: %w", err)
	}
	return ParseOutcomeTable(data)
}

// ParseOutcomeTable decodes and validates a YAML table.
func ParseOutcomeTable(data []byte) (OutcomeTable, error) {
	var t OutcomeTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return OutcomeTable{}, fmt.Errorf("parse outcome table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return OutcomeTable{}, err
	}
	return t, nil
}

var validExtras = map[string]bool{
	"":                        true,
	string(match.ExtraWide):   true,
	string(match.ExtraNoBall): true,
	string(match.ExtraBye):    true,
	string(match.ExtraLegBye): true,
}

// Validate checks the bands cover 1..100 exactly once and are internally consistent.
func (t OutcomeTable) Validate() error {
	if len(t.Bands) == 0 {
		return fmt.Errorf("outcome table has no bands")
	}
	bands := make([]OutcomeBand, len(t.Bands))
	copy(bands, t.Bands)
	sort.Slice(bands, func(i, j int) bool { return bands[i].From < bands[j].From })

	next := 1
	for _, b := range bands {
		if b.From != next || b.To < b.From {
			return fmt.Errorf("outcome band %q must start at %d and end at or after its start", b.Label, next)
		}
		if !validExtras[b.Extra] {
			return fmt.Errorf("outcome band %q has unknown extra %q", b.Label, b.Extra)
		}
		if b.Wicket && !match.ExtraType(b.Extra).IsLegal() {
			return fmt.Errorf("outcome band %q cannot be a wicket off a %s", b.Label, b.Extra)
		}
		if b.Runs < 0 || b.Runs > 6 || b.ExtraRuns < 0 {
			return fmt.Errorf("outcome band %q has invalid runs", b.Label)
		}
		if b.Extra != "" && b.ExtraRuns == 0 {
			return fmt.Errorf("outcome band %q must award at least one extra run", b.Label)
		}
		next = b.To + 1
	}
	if next != 101 {
		return fmt.Errorf("outcome bands cover 1..%d, want 1..100", next-1)
	}

	total := 0
	for _, d := range t.Dismissals {
		if d.Weight < 0 {
			return fmt.Errorf("dismissal %s has negative weight", d.Type)
		}
		total += d.Weight
	}
	if total == 0 {
		for _, b := range bands {
			if b.Wicket {
				return fmt.Errorf("outcome table has wicket bands but no dismissal weights")
			}
		}
	}
	return nil
}

// Resolve maps a draw in 1..100 and a dismissal draw in [0, total weight) onto an outcome.
func (t OutcomeTable) Resolve(draw, dismissalDraw int) Outcome {
	for _, b := range t.Bands {
		if draw < b.From || draw > b.To {
			continue
		}
		o := Outcome{
			Runs:      b.Runs,
			ExtraType: match.ExtraType(b.Extra),
			ExtraRuns: b.ExtraRuns,
			IsWicket:  b.Wicket,
			IsFour:    b.Runs == 4 && b.Extra == "",
			IsSix:     b.Runs == 6 && b.Extra == "",
		}
		if b.Wicket {
			o.Dismissal = t.dismissal(dismissalDraw)
		}
		return o
	}
	return Outcome{}
}

func (t OutcomeTable) dismissalWeight() int {
	total := 0
	for _, d := range t.Dismissals {
		total += d.Weight
	}
	return total
}

func (t OutcomeTable) dismissal(draw int) match.DismissalType {
	for _, d := range t.Dismissals {
		if draw < d.Weight {
			return d.Type
		}
		draw -= d.Weight
	}
	return match.DismissalBowled
}

// TableSource draws outcomes from an OutcomeTable with a seeded generator.
type TableSource struct {
	table OutcomeTable

	mu  sync.Mutex
	rng *rand.Rand
}

func NewTableSource(table OutcomeTable, seed int64) *TableSource {
	return &TableSource{table: table, rng: rand.New(rand.NewSource(seed))}
}

func (s *TableSource) NextOutcome() Outcome {
	s.mu.Lock()
	draw := s.rng.Intn(100) + 1
	dismissalDraw := 0
	if w := s.table.dismissalWeight(); w > 0 {
		dismissalDraw = s.rng.Intn(w)
	}
	s.mu.Unlock()
	return s.table.Resolve(draw, dismissalDraw)
}

// ScriptedSource replays fixed outcomes, then repeats Fallback forever.
type ScriptedSource struct {
	mu       sync.Mutex
	script   []Outcome
	Fallback Outcome
}

func NewScriptedSource(fallback Outcome, script ...Outcome) *ScriptedSource {
	return &ScriptedSource{script: script, Fallback: fallback}
}

// Push appends outcomes to the end of the script.
func (s *ScriptedSource) Push(outcomes ...Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = append(s.script, outcomes...)
}

func (s *ScriptedSource) NextOutcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.script) == 0 {
		return s.Fallback
	}
	o := s.script[0]
	s.script = s.script[1:]
	return o
}

// Common outcomes, handy for scripting.
var (
	Dot    = Outcome{}
	Single = Outcome{Runs: 1}
	Two    = Outcome{Runs: 2}
	Four   = Outcome{Runs: 4, IsFour: true}
	Six    = Outcome{Runs: 6, IsSix: true}
	Wide   = Outcome{ExtraType: match.ExtraWide, ExtraRuns: 1}
)

// Wicket is a dismissal of the given type.
func Wicket(d match.DismissalType) Outcome {
	return Outcome{IsWicket: true, Dismissal: d}
}
