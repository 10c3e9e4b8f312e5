// Package game composes the trail, the railroad and the cattle market into one
// game state, and defines what each action kind does to it.
package game

import (
	"cattletrail/obligation"
	"cattletrail/player"
)

// StateHash fingerprints a game state; equal states hash equally.
type StateHash uint64

// State is the read-only view of a game.
type State interface {
	Player() player.ID
	PossibleActions() []obligation.Kind
	Hash() StateHash
}

var _ State = (*GameState)(nil)
