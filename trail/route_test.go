package trail

import (
	"errors"
	"testing"

	"cattletrail/errs"
	"cattletrail/player"

	"github.com/stretchr/testify/require"
)

const (
	alice player.ID = "alice"
	bob   player.ID = "bob"
)

func diamond(t *testing.T, opts ...Option) *Board {
	t.Helper()
	b, err := NewBoard(Layout{
		Start: "S",
		Locations: []LocationLayout{
			{Name: "S", Kind: StartLocation, Next: []string{"A"}},
			{Name: "A", Kind: BuildingLocation, Next: []string{"A-1", "FLOOD-1"}},
			{Name: "A-1", Kind: BuildingLocation, Next: []string{"A-2"}},
			{Name: "A-2", Kind: BuildingLocation, Next: []string{"B"}},
			{Name: "FLOOD-1", Kind: HazardLocation, Hazard: "FLOOD", Number: 1, Next: []string{"FLOOD-2"}},
			{Name: "FLOOD-2", Kind: HazardLocation, Hazard: "FLOOD", Number: 2, Next: []string{"B"}},
			{Name: "B", Kind: BuildingLocation, Next: []string{"KC"}},
			{Name: "KC", Kind: KansasCityLocation},
		},
	}, opts...)
	require.NoError(t, err)
	return b
}

func paths(routes []Route) [][]string {
	out := make([][]string, len(routes))
	for i, r := range routes {
		out[i] = r.Path
	}
	return out
}

func TestPossibleMoves(t *testing.T) {
	t.Run("both branches of a fork are enumerated", func(t *testing.T) {
		b := diamond(t)

		routes, err := b.PossibleMoves("A", "B", alice, 0, 1, 6)

		require.NoError(t, err)
		require.Equal(t, [][]string{
			{"A-1", "A-2", "B"},
			{"FLOOD-1", "FLOOD-2", "B"},
		}, paths(routes))
		for _, r := range routes {
			require.Equal(t, 3, r.Steps)
			require.Zero(t, r.Cost)
			require.NotNil(t, r.Fees)
		}
	})

	t.Run("routes longer than maxSteps are dropped", func(t *testing.T) {
		b := diamond(t)

		routes, err := b.PossibleMoves("A", "B", alice, 0, 1, 2)

		require.NoError(t, err)
		require.Empty(t, routes)
	})

	t.Run("routes shorter than minSteps are dropped", func(t *testing.T) {
		b := diamond(t)

		routes, err := b.PossibleMoves("A", "B", alice, 0, 4, 6)

		require.NoError(t, err)
		require.Empty(t, routes)
	})

	t.Run("moving to the same location yields nothing", func(t *testing.T) {
		b := diamond(t)

		routes, err := b.PossibleMoves("A", "A", alice, 10, 0, 6)

		require.NoError(t, err)
		require.Empty(t, routes)
	})

	t.Run("the start location is never a target", func(t *testing.T) {
		b := diamond(t)

		routes, err := b.PossibleMoves("A", "S", alice, 10, 0, 6)

		require.NoError(t, err)
		require.Empty(t, routes)
	})

	t.Run("unknown locations fail", func(t *testing.T) {
		b := diamond(t)

		_, err := b.PossibleMoves("A", "NOWHERE", alice, 10, 0, 6)

		require.ErrorIs(t, err, errs.ErrUnknownLocation)
		var e *errs.Error
		require.True(t, errors.As(err, &e))
		require.Equal(t, "NOWHERE", e.Metadata["location"])
	})

	t.Run("tolls of other players are charged and split by owner", func(t *testing.T) {
		b := diamond(t)
		require.NoError(t, b.Place("A-1", Occupant{Owner: bob, Toll: 2, Label: "bob-1"}))
		require.NoError(t, b.Place("FLOOD-1", Occupant{Toll: 1, Label: "FLOOD"}))

		routes, err := b.PossibleMoves("A", "B", alice, 10, 1, 6)

		require.NoError(t, err)
		require.Len(t, routes, 2)
		require.Equal(t, 2, routes[0].Cost)
		require.Equal(t, map[player.ID]int{bob: 2}, routes[0].Fees)
		require.Equal(t, 1, routes[1].Cost)
		require.Empty(t, routes[1].Fees, "Hazard tolls go to the bank")
	})

	t.Run("own buildings are free", func(t *testing.T) {
		b := diamond(t)
		require.NoError(t, b.Place("A-1", Occupant{Owner: alice, Toll: 2, Label: "alice-1"}))

		routes, err := b.PossibleMoves("A", "B", alice, 0, 1, 6)

		require.NoError(t, err)
		require.Len(t, routes, 2)
		require.Zero(t, routes[0].Cost)
	})

	t.Run("routes over budget are pruned", func(t *testing.T) {
		b := diamond(t)
		require.NoError(t, b.Place("A-1", Occupant{Owner: bob, Toll: 2, Label: "bob-1"}))

		routes, err := b.PossibleMoves("A", "B", alice, 1, 1, 6)

		require.NoError(t, err)
		require.Equal(t, [][]string{{"FLOOD-1", "FLOOD-2", "B"}}, paths(routes))
	})

	t.Run("enumeration does not change the board", func(t *testing.T) {
		b := diamond(t)
		require.NoError(t, b.Place("A-2", Occupant{Owner: bob, Toll: 1, Label: "bob-1"}))

		first, err := b.PossibleMoves("A", "KC", alice, 5, 1, 6)
		require.NoError(t, err)
		second, err := b.PossibleMoves("A", "KC", alice, 5, 1, 6)
		require.NoError(t, err)

		require.Equal(t, first, second)
	})

	t.Run("empty locations are free steps when configured", func(t *testing.T) {
		b := diamond(t, WithEmptyLocationsFree())
		require.NoError(t, b.Place("A-1", Occupant{Owner: bob, Label: "bob-1"}))

		routes, err := b.PossibleMoves("A", "KC", alice, 0, 1, 1)

		require.NoError(t, err)
		require.Equal(t, [][]string{{"FLOOD-1", "FLOOD-2", "B", "KC"}}, paths(routes))
		require.Equal(t, 1, routes[0].Steps)
	})

	t.Run("empty targets are not reachable when empty locations are free", func(t *testing.T) {
		b := diamond(t, WithEmptyLocationsFree())

		routes, err := b.PossibleMoves("A", "B", alice, 0, 0, 6)

		require.NoError(t, err)
		require.Empty(t, routes)
	})
}

func TestReachable(t *testing.T) {
	b := diamond(t)

	names, err := b.Reachable("A", 2)

	require.NoError(t, err)
	require.Equal(t, []string{"A-1", "A-2", "FLOOD-1", "FLOOD-2"}, names)
}
