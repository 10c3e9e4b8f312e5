package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cattletrail/engine"
	"cattletrail/game"
	"cattletrail/player"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func playoutConfig() Config {
	return Config{Players: []player.ID{"alice", "bob"}, Beginner: true, Turns: 8}
}

func quiet() engine.Option {
	return engine.WithLogger(zerolog.Nop())
}

func TestPlayout(t *testing.T) {
	ctx := context.Background()

	t.Run("a playout plays the requested turns", func(t *testing.T) {
		r, err := Playout(ctx, playoutConfig(), 1, quiet())

		require.NoError(t, err)
		require.Equal(t, 8, r.Engine.State().Turn)
		require.Equal(t, r.Game.TotalMoves, len(r.Moves))
		require.Equal(t, r.Game.TotalMoves-r.Game.Rejections, len(r.Engine.Log()))
		require.Equal(t, r.Engine.ID().String(), r.Game.ID)
	})

	t.Run("equal seeds play equal games", func(t *testing.T) {
		a, err := Playout(ctx, playoutConfig(), 5, quiet())
		require.NoError(t, err)
		b, err := Playout(ctx, playoutConfig(), 5, quiet())
		require.NoError(t, err)

		require.Equal(t, a.Engine.ID(), b.Engine.ID())
		require.Equal(t, a.Engine.Log(), b.Engine.Log())
		require.Equal(t, a.Engine.Hash(), b.Engine.Hash())
	})

	t.Run("the log of a playout replays to the same state", func(t *testing.T) {
		r, err := Playout(ctx, playoutConfig(), 3, quiet())
		require.NoError(t, err)

		replayed, err := engine.Replay(ctx, r.Engine.Config(), r.Engine.Log(), quiet())

		require.NoError(t, err)
		require.Equal(t, r.Engine.Hash(), replayed.Hash())
	})

	t.Run("a cancelled context stops the playout", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := Playout(cancelled, playoutConfig(), 1, quiet())

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestCandidates(t *testing.T) {
	t.Run("a new player may enter at any occupied location", func(t *testing.T) {
		e, err := engine.New(engine.Config{Seed: 1, Players: []player.ID{"alice", "bob"}, Beginner: true}, quiet())
		require.NoError(t, err)

		moves := Candidates(context.Background(), e)

		require.Len(t, moves, len(e.State().Trail.FirstMoves()))
		for _, m := range moves {
			require.Equal(t, game.MoveAction, m.Kind)
			require.Equal(t, []string{m.To}, m.Via)
		}
	})
}

func TestRunPlayouts(t *testing.T) {
	t.Run("records are written for every game", func(t *testing.T) {
		dir := t.TempDir()

		results, err := RunPlayouts(context.Background(), playoutConfig(), 2, 11, dir, quiet())

		require.NoError(t, err)
		require.Len(t, results, 2)
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		for _, name := range []string{"game_records.csv", "move_records.csv"} {
			_, err := os.Stat(filepath.Join(dir, entries[0].Name(), name))
			require.NoError(t, err)
		}
	})
}
