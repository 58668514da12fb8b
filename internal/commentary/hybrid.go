package commentary

import (
	"context"
	_ "embed"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplates []byte

// TemplateSet is the hand-authored vocabulary used by the hybrid tier.
type TemplateSet struct {
	Directions []string           `yaml:"directions"`
	Deliveries []string           `yaml:"deliveries"`
	Events     map[Event][]string `yaml:"events"`
}

// ParseTemplates decodes a YAML template set.
func ParseTemplates(data []byte) (*TemplateSet, error) {
	var ts TemplateSet
	if err := yaml.Unmarshal(data, &ts); err != nil {
		return nil, fmt.Errorf("parse commentary templates: %w", err)
	}
	if len(ts.Events) == 0 {
		return nil, fmt.Errorf("commentary templates define no events")
	}
	return &ts, nil
}

// DefaultTemplates returns the embedded template set.
func DefaultTemplates() *TemplateSet {
	ts, err := ParseTemplates(defaultTemplates)
	if err != nil {
		panic(err)
	}
	return ts
}

// HybridGenerator classifies the ball then fills a randomly chosen template.
type HybridGenerator struct {
	templates *TemplateSet

	mu  sync.Mutex
	rng *rand.Rand
}

func NewHybridGenerator(templates *TemplateSet, seed int64) *HybridGenerator {
	if templates == nil {
		templates = DefaultTemplates()
	}
	return &HybridGenerator{templates: templates, rng: rand.New(rand.NewSource(seed))}
}

func (g *HybridGenerator) Name() string { return "hybrid" }

func (g *HybridGenerator) Generate(_ context.Context, ball BallContext) (string, error) {
	options := g.templates.Events[Classify(ball)]
	if len(options) == 0 {
		return "", nil
	}

	g.mu.Lock()
	tmpl := options[g.rng.Intn(len(options))]
	direction := pick(g.rng, g.templates.Directions, "into the outfield")
	delivery := pick(g.rng, g.templates.Deliveries, "delivery")
	distance := 70 + g.rng.Intn(41)
	speed := 125 + g.rng.Intn(26)
	g.mu.Unlock()

	extras := ball.ExtraRuns
	if extras == 0 {
		extras = 1
	}
	r := strings.NewReplacer(
		"{batsman}", orDefault(ball.Batsman, "the batsman"),
		"{bowler}", orDefault(ball.Bowler, "the bowler"),
		"{fielder}", orDefault(ball.Fielder, "the fielder"),
		"{direction}", direction,
		"{delivery}", delivery,
		"{distance}", strconv.Itoa(distance),
		"{speed}", strconv.Itoa(speed),
		"{runs}", strconv.Itoa(ball.Runs),
		"{extras}", strconv.Itoa(extras),
	)
	return r.Replace(tmpl), nil
}

func pick(rng *rand.Rand, options []string, def string) string {
	if len(options) == 0 {
		return def
	}
	return options[rng.Intn(len(options))]
}
