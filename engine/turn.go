package engine

import (
	"context"
	"time"

	"cattletrail/errs"
	"cattletrail/experiments/metrics"
	"cattletrail/game"
	"cattletrail/obligation"
	"cattletrail/player"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/rand"
)

// Perform applies a move for p. The per-action seed drives any randomness the
// action needs. On error the game is unchanged.
func (e *Engine) Perform(ctx context.Context, p player.ID, m game.Move, seed uint64) error {
	return e.apply(ctx, Entry{Call: PerformCall, Player: p, Move: m, Seed: seed}, func(gs *game.GameState) (*game.GameState, error) {
		return gs.Play(m, rand.New(rand.NewSource(seed)))
	})
}

// Skip skips the head obligation of p's turn.
func (e *Engine) Skip(ctx context.Context, p player.ID) error {
	return e.apply(ctx, Entry{Call: SkipCall, Player: p}, (*game.GameState).Skip)
}

// EndTurn passes play to the next player.
func (e *Engine) EndTurn(ctx context.Context, p player.ID) error {
	err := e.apply(ctx, Entry{Call: EndTurnCall, Player: p}, (*game.GameState).EndTurn)
	if err == nil {
		e.collector.TurnEnded()
	}
	return err
}

// Apply replays a single logged call.
func (e *Engine) Apply(ctx context.Context, entry Entry) error {
	switch entry.Call {
	case PerformCall:
		return e.Perform(ctx, entry.Player, entry.Move, entry.Seed)
	case SkipCall:
		return e.Skip(ctx, entry.Player)
	case EndTurnCall:
		return e.EndTurn(ctx, entry.Player)
	}
	return errs.WithMetadata(errs.CodeInvalidMove, "unknown call: "+string(entry.Call),
		map[string]string{"call": string(entry.Call)})
}

func (e *Engine) apply(ctx context.Context, entry Entry, step func(*game.GameState) (*game.GameState, error)) error {
	_, span := e.tracer.Start(ctx, "engine."+string(entry.Call), trace.WithAttributes(
		attribute.String("game", e.cfg.ID.String()),
		attribute.String("player", string(entry.Player)),
		attribute.String("kind", string(entry.Move.Kind)),
		attribute.Int("turn", e.state.Turn),
	))
	defer span.End()

	start := time.Now()
	next, err := e.step(entry, step)
	duration := time.Since(start)

	metric := metrics.MoveMetric{
		Step:     len(e.moves),
		Player:   entry.Player,
		Kind:     entry.Move.Kind,
		Duration: duration,
	}
	if err != nil {
		metric.Code = errs.CodeOf(err)
		metric.Hash = uint64(e.state.Hash())
		e.moves = append(e.moves, metric)
		e.collector.Rejected(entry.Move.Kind, metric.Code)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(metric.Code))
		e.logger.Warn().
			Err(err).
			Str("call", string(entry.Call)).
			Str("player", string(entry.Player)).
			Str("move", entry.Move.String()).
			Msg("call rejected")
		return err
	}

	e.state = next
	e.entries = append(e.entries, entry)
	metric.Hash = uint64(next.Hash())
	e.moves = append(e.moves, metric)
	event := e.logger.Info()
	if entry.Call == PerformCall {
		e.collector.Performed(entry.Move.Kind, duration)
		event = event.Str("move", entry.Move.String())
	}
	span.SetAttributes(attribute.Int64("hash", int64(metric.Hash)))
	event.
		Str("call", string(entry.Call)).
		Str("player", string(entry.Player)).
		Int("turn", next.Turn).
		Dur("duration", duration).
		Msg("call applied")
	return nil
}

func (e *Engine) step(entry Entry, step func(*game.GameState) (*game.GameState, error)) (*game.GameState, error) {
	if current := e.state.Player(); entry.Player != current {
		return nil, errs.WithMetadata(errs.CodeNotYourTurn, "not your turn", map[string]string{
			"player":  string(entry.Player),
			"current": string(current),
		})
	}
	return step(e.state)
}

// Remaining lists the obligation kinds still open this turn.
func (e *Engine) Remaining() []obligation.Kind {
	return e.state.Stack.PossibleActions()
}
