package engine

import (
	"context"
	"strings"
	"testing"

	"cattletrail/errs"
	"cattletrail/experiments/metrics"
	"cattletrail/game"
	"cattletrail/obligation"
	"cattletrail/player"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const (
	alice player.ID = "alice"
	bob   player.ID = "bob"
)

func config() Config {
	return Config{Seed: 1, Players: []player.ID{alice, bob}, Beginner: true}
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(config(), append([]Option{WithLogger(zerolog.Nop())}, opts...)...)
	require.NoError(t, err)
	return e
}

func moveTo(location string) game.Move {
	return game.Move{Kind: game.MoveAction, To: location}
}

// playTurns plays two short turns: alice takes dollars at A, bob hires at A.
func playTurns(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.Perform(ctx, alice, moveTo("A"), 1))
	require.NoError(t, e.Perform(ctx, alice, game.Move{Kind: game.GainDollarsAction}, 2))
	require.NoError(t, e.EndTurn(ctx, alice))
	require.NoError(t, e.Perform(ctx, bob, moveTo("A"), 3))
	require.NoError(t, e.Skip(ctx, bob))
	require.NoError(t, e.EndTurn(ctx, bob))
}

func TestNew(t *testing.T) {
	t.Run("a missing game id is generated", func(t *testing.T) {
		e := newEngine(t)

		require.NotEqual(t, uuid.Nil, e.ID())
		require.Equal(t, e.ID(), e.Config().ID)
		require.Equal(t, alice, e.Player())
		require.Equal(t, []obligation.Kind{game.MoveAction}, e.PossibleActions())
	})

	t.Run("an invalid setup is rejected", func(t *testing.T) {
		_, err := New(Config{Players: []player.ID{alice}}, WithLogger(zerolog.Nop()))

		require.ErrorIs(t, err, errs.ErrInvalidConfig)
	})
}

func TestCalls(t *testing.T) {
	ctx := context.Background()

	t.Run("only the current player may act", func(t *testing.T) {
		e := newEngine(t)
		before := e.Hash()

		err := e.Perform(ctx, bob, moveTo("A"), 1)

		require.ErrorIs(t, err, errs.ErrNotYourTurn)
		require.Equal(t, "alice", err.(*errs.Error).Metadata["current"])
		require.Equal(t, before, e.Hash())
		require.ErrorIs(t, e.EndTurn(ctx, bob), errs.ErrNotYourTurn)
		require.ErrorIs(t, e.Skip(ctx, bob), errs.ErrNotYourTurn)
	})

	t.Run("rejected calls leave the game and log untouched", func(t *testing.T) {
		e := newEngine(t)
		require.NoError(t, e.Perform(ctx, alice, moveTo("A"), 1))
		before := e.Hash()

		err := e.Perform(ctx, alice, game.Move{Kind: game.DeliverAction}, 1)

		require.ErrorIs(t, err, errs.ErrIllegalAction)
		require.Equal(t, before, e.Hash())
		require.Len(t, e.Log(), 1)
		require.Len(t, e.Moves(), 2)
		require.Equal(t, errs.CodeIllegalAction, e.Moves()[1].Code)
		require.Equal(t, uint64(before), e.Moves()[1].Hash)
	})

	t.Run("a full round returns play to the first player", func(t *testing.T) {
		e := newEngine(t)

		playTurns(t, e)

		require.Equal(t, alice, e.Player())
		require.Equal(t, 2, e.State().Turn)
		require.Equal(t, 8, e.State().Players[alice].Balance)
		require.Len(t, e.Log(), 6)
	})

	t.Run("the returned state is a copy", func(t *testing.T) {
		e := newEngine(t)
		before := e.Hash()

		e.State().Players[alice].Balance = 100

		require.Equal(t, before, e.Hash())
	})

	t.Run("route queries see the current player", func(t *testing.T) {
		e := newEngine(t)

		routes, err := e.PossibleRoutes(ctx, "A")

		require.NoError(t, err)
		require.Len(t, routes, 1)
		require.Equal(t, []string{"A"}, routes[0].Path)
	})
}

func TestReplay(t *testing.T) {
	ctx := context.Background()

	t.Run("replaying the log reaches the same state", func(t *testing.T) {
		e := newEngine(t)
		playTurns(t, e)

		replayed, err := Replay(ctx, e.Config(), e.Log(), WithLogger(zerolog.Nop()))

		require.NoError(t, err)
		require.Equal(t, e.Hash(), replayed.Hash())
		require.Equal(t, e.Log(), replayed.Log())
	})

	t.Run("a script survives yaml", func(t *testing.T) {
		e := newEngine(t)
		playTurns(t, e)
		data, err := e.Script().Marshal()
		require.NoError(t, err)

		script, err := LoadScript(data)
		require.NoError(t, err)
		replayed, err := Replay(ctx, script.Config, script.Entries, WithLogger(zerolog.Nop()))

		require.NoError(t, err)
		require.Equal(t, e.ID(), replayed.ID())
		require.Equal(t, e.Hash(), replayed.Hash())
	})

	t.Run("replay stops at the first bad entry", func(t *testing.T) {
		entries := []Entry{
			{Call: PerformCall, Player: alice, Move: moveTo("A")},
			{Call: EndTurnCall, Player: bob},
			{Call: EndTurnCall, Player: alice},
		}

		e, err := Replay(ctx, config(), entries, WithLogger(zerolog.Nop()))

		require.ErrorIs(t, err, errs.ErrNotYourTurn)
		require.Contains(t, err.Error(), "replay entry 1")
		require.Len(t, e.Log(), 1)
	})

	t.Run("unknown calls are rejected", func(t *testing.T) {
		e := newEngine(t)

		err := e.Apply(ctx, Entry{Call: "undo", Player: alice})

		require.ErrorIs(t, err, errs.ErrInvalidMove)
	})
}

func TestTelemetry(t *testing.T) {
	ctx := context.Background()

	t.Run("every call opens a span and failures are marked", func(t *testing.T) {
		recorder := tracetest.NewSpanRecorder()
		provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
		e := newEngine(t, WithTracer(provider.Tracer("test")))

		require.NoError(t, e.Perform(ctx, alice, moveTo("A"), 1))
		require.Error(t, e.EndTurn(ctx, bob))

		spans := recorder.Ended()
		require.Len(t, spans, 2)
		require.Equal(t, "engine.perform", spans[0].Name())
		require.NotEqual(t, codes.Error, spans[0].Status().Code)
		require.Equal(t, "engine.end-turn", spans[1].Name())
		require.Equal(t, codes.Error, spans[1].Status().Code)
		require.Equal(t, string(errs.CodeNotYourTurn), spans[1].Status().Description)
	})

	t.Run("calls are counted by kind and outcome", func(t *testing.T) {
		registry := prometheus.NewRegistry()
		e := newEngine(t, WithCollector(metrics.NewCollector(registry)))

		_, err := e.PossibleRoutes(ctx, "A")
		require.NoError(t, err)
		playTurns(t, e)
		require.Error(t, e.Perform(ctx, bob, moveTo("B"), 1))

		expected := `
# HELP cattletrail_actions_performed_total Total number of actions performed, partitioned by kind.
# TYPE cattletrail_actions_performed_total counter
cattletrail_actions_performed_total{kind="gain-dollars"} 1
cattletrail_actions_performed_total{kind="move"} 2
# HELP cattletrail_actions_rejected_total Total number of rejected engine calls, partitioned by kind and error code.
# TYPE cattletrail_actions_rejected_total counter
cattletrail_actions_rejected_total{code="NOT_YOUR_TURN",kind="move"} 1
# HELP cattletrail_routes_enumerated_total Total number of trail routes enumerated by queries.
# TYPE cattletrail_routes_enumerated_total counter
cattletrail_routes_enumerated_total 1
# HELP cattletrail_turns_total Total number of turns ended.
# TYPE cattletrail_turns_total counter
cattletrail_turns_total 2
`
		require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected),
			"cattletrail_actions_performed_total",
			"cattletrail_actions_rejected_total",
			"cattletrail_routes_enumerated_total",
			"cattletrail_turns_total",
		))
	})
}
