package game

import (
	"cattletrail/market"
	"cattletrail/player"
	"cattletrail/track"
	"cattletrail/trail"
)

// PossibleRoutes lists the routes the current player can afford to a
// location within this game's step limit.
func (gs *GameState) PossibleRoutes(to string) ([]trail.Route, error) {
	p := gs.Player()
	from, ok := gs.Trail.PlayerLocation(p)
	if !ok {
		for _, name := range gs.Trail.FirstMoves() {
			if name == to {
				return []trail.Route{{Path: []string{to}, Steps: 1, Fees: map[player.ID]int{}}}, nil
			}
		}
		return nil, nil
	}
	return gs.Trail.PossibleMoves(from, to, p, gs.PlayerState().Balance, 1, gs.Rules.StepLimit(len(gs.Order)))
}

// PossibleBuys lists what the current player can buy from the market.
func (gs *GameState) PossibleBuys() []market.PossibleBuy {
	ps := gs.PlayerState()
	return gs.Market.PossibleBuys(ps.Cowboys, ps.Balance)
}

// PossibleDeliveries lists the cities the current player's herd can reach.
func (gs *GameState) PossibleDeliveries() []track.PossibleDelivery {
	ps := gs.PlayerState()
	return gs.Track.PossibleDeliveries(ps.ID, ps.HandValue(), ps.Certificates)
}

// ReachableSpaces lists where the current player's engine can move.
func (gs *GameState) ReachableSpaces(dir track.Direction) ([]string, error) {
	minSteps, maxSteps := gs.Rules.EngineWindow(dir)
	return gs.Track.Reachable(gs.Track.CurrentSpace(gs.Player()), minSteps, maxSteps, dir)
}
