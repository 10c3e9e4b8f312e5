package game

import "cattletrail/track"

type StandardRules struct {
	FirstBalance   int
	Steps          int
	StepsFourUp    int
	EngineSteps    int
	HireDollars    int
	CowboyLimit    int
	GainedDollars  int
	BuildDollars   int
	Toll           int
	RemovalDollars int
}

func NewStandardRules() *StandardRules {
	return &StandardRules{
		FirstBalance:   6,
		Steps:          3,
		StepsFourUp:    4,
		EngineSteps:    3,
		HireDollars:    6,
		CowboyLimit:    6,
		GainedDollars:  2,
		BuildDollars:   2,
		Toll:           1,
		RemovalDollars: 7,
	}
}

// StartingBalance gives each seat one dollar more than the seat before.
func (sr *StandardRules) StartingBalance(seat int) int {
	return sr.FirstBalance + seat
}

func (sr *StandardRules) StepLimit(playerCount int) int {
	if playerCount >= 4 {
		return sr.StepsFourUp
	}
	return sr.Steps
}

func (sr *StandardRules) EngineWindow(track.Direction) (int, int) {
	return 1, sr.EngineSteps
}

func (sr *StandardRules) HireCost() int         { return sr.HireDollars }
func (sr *StandardRules) MaxCowboys() int       { return sr.CowboyLimit }
func (sr *StandardRules) DollarsGained() int    { return sr.GainedDollars }
func (sr *StandardRules) BuildCost() int        { return sr.BuildDollars }
func (sr *StandardRules) BuildingToll() int     { return sr.Toll }
func (sr *StandardRules) HazardToll() int       { return sr.Toll }
func (sr *StandardRules) RemoveHazardCost() int { return sr.RemovalDollars }

// TeepeeToll is zero: teepees are walked past for free.
func (sr *StandardRules) TeepeeToll() int { return 0 }
