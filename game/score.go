package game

import (
	"sort"

	"cattletrail/player"
)

const (
	hazardPoints    = 2
	objectivePoints = 3
	dollarsPerPoint = 5
	woodsBonus      = 1
)

// Score is a player's victory points by source.
type Score struct {
	Dollars    int
	Cattle     int
	Railroad   int // Deliveries and upgraded stations
	Buildings  int
	Hazards    int
	Teepees    int
	Objectives int
}

func (s Score) Total() int {
	return s.Dollars + s.Cattle + s.Railroad + s.Buildings + s.Hazards + s.Teepees + s.Objectives
}

// Score tallies the points a player would finish with now.
func (gs *GameState) Score(p player.ID) Score {
	ps, ok := gs.Players[p]
	if !ok {
		return Score{}
	}
	return Score{
		Dollars:    ps.Balance / dollarsPerPoint,
		Cattle:     ps.CattlePoints,
		Railroad:   gs.Track.Score(p),
		Buildings:  len(gs.Trail.Buildings(p)) + woodsBonus*gs.Trail.BuildingsInWoods(p),
		Hazards:    hazardPoints * len(ps.Hazards),
		Teepees:    teepeePoints(ps.Teepees),
		Objectives: objectivePoints * ps.Objectives,
	}
}

// teepeePoints scores each blue and green pair 3, and every other teepee 1.
func teepeePoints(teepees []string) int {
	counts := make(map[string]int)
	for _, t := range teepees {
		counts[t]++
	}
	pairs := min(counts["BLUE"], counts["GREEN"])
	return 3*pairs + len(teepees) - 2*pairs
}

// Ranking orders players by total score, best first. Ties keep seating order.
func (gs *GameState) Ranking() []player.ID {
	out := append([]player.ID(nil), gs.Order...)
	sort.SliceStable(out, func(i, j int) bool {
		return gs.Score(out[i]).Total() > gs.Score(out[j]).Total()
	})
	return out
}

// Evaluate scores the current player against the best opponent, between -1
// and 1.
func (gs *GameState) Evaluate() float64 {
	current := gs.Player()
	mine := gs.Score(current).Total()
	best := 0
	for _, p := range gs.Order {
		if p != current {
			best = max(best, gs.Score(p).Total())
		}
	}
	return normalize(float64(max(0, mine)), float64(max(0, best)))
}

// normalize normalizes value relative to otherValue to a score between -1 and 1
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}
