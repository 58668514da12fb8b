package commentary

import (
	"bufio"
	"context"
	_ "embed"
	"math/rand"
	"strings"
	"sync"
)

//go:embed corpus.txt
var defaultCorpus string

// seedWords are the chain's starting points per event category.
var seedWords = map[Event][]string{
	EventWicketBowled:    {"Bowled"},
	EventWicketCaught:    {"Caught", "Edged"},
	EventWicketLBW:       {"Trapped"},
	EventWicketRunOut:    {"Run"},
	EventWicketStumped:   {"Stumped"},
	EventWicketHitWicket: {"Bowled"},
	EventSix:             {"Lofted", "Huge"},
	EventFour:            {"Driven", "Glorious", "Swept"},
	EventDot:             {"Dot", "Beaten"},
	EventSingle:          {"Pushed", "Quick"},
	EventDouble:          {"Tucked", "Quick"},
	EventTriple:          {"Three"},
	EventWide:            {"Wide"},
	EventNoBall:          {"Wide"},
}

// chainFallback is used when the learned chain cannot produce a usable phrase.
var chainFallback = map[Event]string{
	EventSix:    "Into the stands! {batsman} clears the ropes.",
	EventFour:   "Four runs to {batsman}, beautifully placed.",
	EventDot:    "Tight from {bowler}, nothing doing.",
	EventSingle: "{batsman} nudges it away for one.",
	EventDouble: "Two more for {batsman}.",
	EventTriple: "Three runs, well run by {batsman}.",
	EventWide:   "{bowler} sprays it wide.",
	EventNoBall: "{bowler} oversteps, no ball.",
	EventBye:    "Byes, the ball evades everyone.",
	EventLegBye: "Leg byes off the pad.",
}

// MarkovGenerator walks a word-adjacency chain learned from sample commentary.
type MarkovGenerator struct {
	chain    map[string][]string
	minWords int
	maxWords int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMarkovGenerator trains on corpus, or the embedded sample when corpus is empty.
func NewMarkovGenerator(corpus string, seed int64) *MarkovGenerator {
	if strings.TrimSpace(corpus) == "" {
		corpus = defaultCorpus
	}
	return &MarkovGenerator{
		chain:    Train(corpus),
		minWords: 5,
		maxWords: 18,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

func (g *MarkovGenerator) Name() string { return "markov" }

// Train builds the adjacency table, one sentence per line. Sentence ends map to "".
func Train(corpus string) map[string][]string {
	chain := make(map[string][]string)
	scanner := bufio.NewScanner(strings.NewReader(corpus))
	for scanner.Scan() {
		words := strings.Fields(scanner.Text())
		for i, w := range words {
			next := ""
			if i+1 < len(words) {
				next = words[i+1]
			}
			chain[w] = append(chain[w], next)
		}
	}
	return chain
}

func (g *MarkovGenerator) Generate(_ context.Context, ball BallContext) (string, error) {
	ev := Classify(ball)
	if phrase := g.walk(ev); phrase != "" {
		return phrase, nil
	}
	if tmpl, ok := chainFallback[ev]; ok {
		return fillNames(tmpl, ball), nil
	}
	if ev.IsWicketEvent() {
		return fillNames("Gone! {batsman} has to walk back.", ball), nil
	}
	return "", nil
}

func (g *MarkovGenerator) walk(ev Event) string {
	seeds := seedWords[ev]
	if len(seeds) == 0 || len(g.chain) == 0 {
		return ""
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	word := seeds[g.rng.Intn(len(seeds))]
	if _, ok := g.chain[word]; !ok {
		return ""
	}
	words := []string{word}
	for len(words) < g.maxWords {
		nexts := g.chain[word]
		if len(nexts) == 0 {
			break
		}
		word = nexts[g.rng.Intn(len(nexts))]
		if word == "" {
			break
		}
		words = append(words, word)
		if strings.HasSuffix(word, ".") || strings.HasSuffix(word, "!") {
			break
		}
	}
	if len(words) < g.minWords {
		return ""
	}

	phrase := strings.Join(words, " ")
	if !strings.HasSuffix(phrase, ".") && !strings.HasSuffix(phrase, "!") {
		phrase += "."
	}
	return phrase
}

func fillNames(tmpl string, ball BallContext) string {
	return strings.NewReplacer(
		"{batsman}", orDefault(ball.Batsman, "the batsman"),
		"{bowler}", orDefault(ball.Bowler, "the bowler"),
	).Replace(tmpl)
}
