package game

import "cattletrail/track"

// Rules holds the numbers of the game that are not part of a component.
type Rules interface {
	StartingBalance(seat int) int
	StepLimit(playerCount int) int
	EngineWindow(dir track.Direction) (minSteps, maxSteps int)
	HireCost() int
	MaxCowboys() int
	DollarsGained() int
	BuildCost() int
	BuildingToll() int
	HazardToll() int
	TeepeeToll() int
	RemoveHazardCost() int
}
