package simulation

import (
	"math/rand"
	"sync"

	"github.com/DhavalSuthar-24/cricksim/internal/match"
	"github.com/DhavalSuthar-24/cricksim/internal/team"
)

// Rand is the subset of math/rand the selection policies need.
type Rand interface {
	Intn(n int) int
}

// lockedRand makes a *rand.Rand safe to share across matches.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(seed int64) *lockedRand {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// BowlerOverCap is the most overs one bowler may deliver in an innings.
func BowlerOverCap(oversLimit int) int {
	limit := (oversLimit + 4) / 5
	if limit < 1 {
		return 1
	}
	return limit
}

func pickPlayer(rng Rand, players []team.Player) team.Player {
	return players[rng.Intn(len(players))]
}

// SelectOpeners picks two distinct openers, preferring top-order roles.
func SelectOpeners(rng Rand, squad []team.Player) (striker, nonStriker team.Player, err error) {
	if len(squad) < 2 {
		return team.Player{}, team.Player{}, newError(KindInsufficientPlayers, "a side needs at least 2 players to bat, has %d", len(squad))
	}

	var preferred []team.Player
	for _, p := range squad {
		if p.Role.CanOpen() {
			preferred = append(preferred, p)
		}
	}
	pool := squad
	if len(preferred) >= 2 {
		pool = preferred
	}

	first := rng.Intn(len(pool))
	second := rng.Intn(len(pool) - 1)
	if second >= first {
		second++
	}
	return pool[first], pool[second], nil
}

// SelectOpeningBowler picks the first bowler, preferring specialist roles.
func SelectOpeningBowler(rng Rand, squad []team.Player) (team.Player, error) {
	if len(squad) == 0 {
		return team.Player{}, newError(KindInsufficientPlayers, "bowling side has no players")
	}
	var preferred []team.Player
	for _, p := range squad {
		if p.Role.CanBowl() {
			preferred = append(preferred, p)
		}
	}
	if len(preferred) > 0 {
		return pickPlayer(rng, preferred), nil
	}
	return pickPlayer(rng, squad), nil
}

// SelectNextBowler picks the bowler for a new over. The bowler who just finished
// is never eligible and nobody may exceed the over cap. Specialists are preferred.
func SelectNextBowler(rng Rand, squad []team.Player, stats map[uint]*match.PlayerMatchStats, currentBowlerID uint, oversLimit int) (team.Player, error) {
	limit := BowlerOverCap(oversLimit)

	var preferred, fallback []team.Player
	for _, p := range squad {
		if p.ID == currentBowlerID {
			continue
		}
		if s, ok := stats[p.ID]; ok && s.CompletedOvers() >= limit {
			continue
		}
		if p.Role.CanBowl() {
			preferred = append(preferred, p)
		} else {
			fallback = append(fallback, p)
		}
	}

	switch {
	case len(preferred) > 0:
		return pickPlayer(rng, preferred), nil
	case len(fallback) > 0:
		return pickPlayer(rng, fallback), nil
	default:
		return team.Player{}, newError(KindRotationExhausted, "no bowler other than %d is under the %d-over cap", currentBowlerID, limit)
	}
}

// SelectNewBatsman picks a player who has not batted yet. ok is false when the
// batting order is exhausted.
func SelectNewBatsman(rng Rand, squad []team.Player, stats map[uint]*match.PlayerMatchStats, exclude ...uint) (team.Player, bool) {
	skip := make(map[uint]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	var candidates []team.Player
	for _, p := range squad {
		if skip[p.ID] {
			continue
		}
		if s, ok := stats[p.ID]; ok && s.DidBat {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return team.Player{}, false
	}
	return pickPlayer(rng, candidates), true
}

// strikeRotates reports whether the batters crossed an odd number of times.
func strikeRotates(o Outcome) bool {
	var ran int
	switch o.ExtraType {
	case match.ExtraBye, match.ExtraLegBye:
		ran = o.ExtraRuns
	case match.ExtraWide:
		ran = o.ExtraRuns - 1
	default:
		ran = o.Runs
	}
	return ran%2 == 1
}
