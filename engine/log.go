package engine

import (
	"context"
	"fmt"

	"cattletrail/game"
	"cattletrail/player"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"
)

type Call string

const (
	PerformCall Call = "perform"
	SkipCall    Call = "skip"
	EndTurnCall Call = "end-turn"
)

// Entry is one accepted engine call.
type Entry struct {
	Call   Call      `yaml:"call"`
	Player player.ID `yaml:"player"`
	Move   game.Move `yaml:"move,omitempty"`
	Seed   uint64    `yaml:"seed,omitempty"`
}

// Script is a game setup plus the calls played on it.
type Script struct {
	Config  Config  `yaml:"config"`
	Entries []Entry `yaml:"entries"`
}

// Log returns the accepted calls in order. Rejected calls are not logged.
func (e *Engine) Log() []Entry {
	return append([]Entry(nil), e.entries...)
}

// Script returns the setup and log of this game.
func (e *Engine) Script() Script {
	return Script{Config: e.Config(), Entries: e.Log()}
}

func LoadScript(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("parse script: %w", err)
	}
	return s, nil
}

func (s Script) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// Replay sets up cfg and applies entries in order. It stops at the first
// entry that fails and returns the engine reached so far.
func Replay(ctx context.Context, cfg Config, entries []Entry, opts ...Option) (*Engine, error) {
	e, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	ctx, span := e.tracer.Start(ctx, "engine.Replay", trace.WithAttributes(
		attribute.String("game", e.cfg.ID.String()),
		attribute.Int("entries", len(entries)),
	))
	defer span.End()

	for i, entry := range entries {
		if err := e.Apply(ctx, entry); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "replay failed")
			return e, fmt.Errorf("replay entry %d: %w", i, err)
		}
	}
	e.logger.Info().Int("entries", len(entries)).Uint64("hash", uint64(e.Hash())).Msg("game replayed")
	return e, nil
}
