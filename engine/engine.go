// Package engine runs one game: it checks whose turn it is, applies actions
// atomically, and records every call so the game can be replayed.
package engine

import (
	"context"

	"cattletrail/experiments/metrics"
	"cattletrail/game"
	"cattletrail/market"
	"cattletrail/obligation"
	"cattletrail/player"
	"cattletrail/track"
	"cattletrail/trail"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/rand"
)

const tracerName = "cattletrail/engine"

// Config is everything needed to set up a game. Together with the log it
// determines the game completely.
type Config struct {
	ID        uuid.UUID   `yaml:"id"` // Generated when zero
	Seed      uint64      `yaml:"seed"`
	Players   []player.ID `yaml:"players"`
	Beginner  bool        `yaml:"beginner"`
	Simmental bool        `yaml:"simmental"`
}

type Engine struct {
	cfg       Config
	state     *game.GameState
	entries   []Entry
	moves     []metrics.MoveMetric
	rules     game.Rules
	logger    zerolog.Logger
	collector metrics.Collector
	tracer    trace.Tracer
}

type Option func(*Engine)

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithCollector(collector metrics.Collector) Option {
	return func(e *Engine) {
		e.collector = collector
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// WithRules replaces the standard rules.
func WithRules(rules game.Rules) Option {
	return func(e *Engine) {
		e.rules = rules
	}
}

// New sets up a game from cfg. Setup randomness comes from cfg.Seed only.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	cfg.Players = append([]player.ID(nil), cfg.Players...)

	e := &Engine{
		cfg:       cfg,
		logger:    log.Logger,
		collector: metrics.NewDummyCollector(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}

	state, err := game.New(game.Setup{
		ID:        cfg.ID,
		Players:   cfg.Players,
		Beginner:  cfg.Beginner,
		Simmental: cfg.Simmental,
		Rules:     e.rules,
	}, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		e.logger.Warn().Err(err).Msg("game setup rejected")
		return nil, err
	}
	e.state = state
	e.logger = e.logger.With().Str("game", cfg.ID.String()).Logger()
	e.logger.Info().
		Uint64("seed", cfg.Seed).
		Int("players", len(cfg.Players)).
		Bool("beginner", cfg.Beginner).
		Bool("simmental", cfg.Simmental).
		Msg("game created")
	return e, nil
}

func (e *Engine) ID() uuid.UUID {
	return e.cfg.ID
}

func (e *Engine) Config() Config {
	c := e.cfg
	c.Players = append([]player.ID(nil), e.cfg.Players...)
	return c
}

// State returns a deep copy of the current state for inspection.
func (e *Engine) State() *game.GameState {
	return e.state.Copy()
}

func (e *Engine) Hash() game.StateHash {
	return e.state.Hash()
}

// Player is the player whose turn it is.
func (e *Engine) Player() player.ID {
	return e.state.Player()
}

// Moves returns the metrics of every call made so far, rejected ones included.
func (e *Engine) Moves() []metrics.MoveMetric {
	return append([]metrics.MoveMetric(nil), e.moves...)
}

// PossibleActions lists the kinds the current player may perform next.
func (e *Engine) PossibleActions() []obligation.Kind {
	kinds := e.state.PossibleActions()
	e.logger.Debug().Str("player", string(e.state.Player())).Int("actions", len(kinds)).Msg("possible actions")
	return kinds
}

// PossibleRoutes lists the routes the current player can afford to a location.
func (e *Engine) PossibleRoutes(ctx context.Context, to string) ([]trail.Route, error) {
	_, span := e.tracer.Start(ctx, "engine.PossibleRoutes", trace.WithAttributes(attribute.String("to", to)))
	defer span.End()

	routes, err := e.state.PossibleRoutes(to)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	e.collector.RoutesEnumerated(len(routes))
	e.logger.Debug().Str("to", to).Int("routes", len(routes)).Msg("routes enumerated")
	return routes, nil
}

func (e *Engine) PossibleBuys() []market.PossibleBuy {
	return e.state.PossibleBuys()
}

func (e *Engine) PossibleDeliveries() []track.PossibleDelivery {
	return e.state.PossibleDeliveries()
}

func (e *Engine) ReachableSpaces(dir track.Direction) ([]string, error) {
	return e.state.ReachableSpaces(dir)
}
