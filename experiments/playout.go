// Package experiments plays seeded random games through the engine and
// records what happened, for throughput measurements and replay checks.
package experiments

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cattletrail/engine"
	"cattletrail/errs"
	"cattletrail/experiments/metrics"
	"cattletrail/game"
	"cattletrail/obligation"
	"cattletrail/player"
	"cattletrail/track"
	"cattletrail/trail"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// maxCallsPerTurn bounds a single turn. A turn needing more is stuck.
const maxCallsPerTurn = 64

type Config struct {
	Players   []player.ID
	Beginner  bool
	Simmental bool
	Turns     int // Turns per game
}

// Result is one finished playout.
type Result struct {
	Engine *engine.Engine
	Game   metrics.GameRecord
	Moves  []metrics.MoveRecord
}

// Playout plays cfg.Turns turns choosing uniformly among the moves the
// engine's queries offer. Everything is drawn from seed, so equal seeds play
// equal games.
func Playout(ctx context.Context, cfg Config, seed uint64, opts ...engine.Option) (Result, error) {
	rnd := rand.New(rand.NewSource(seed))
	id, err := uuid.NewRandomFromReader(rnd)
	if err != nil {
		return Result{}, err
	}
	e, err := engine.New(engine.Config{
		ID:        id,
		Seed:      rnd.Uint64(),
		Players:   cfg.Players,
		Beginner:  cfg.Beginner,
		Simmental: cfg.Simmental,
	}, opts...)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	for turn := 0; turn < cfg.Turns; turn++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if err := playTurn(ctx, e, rnd); err != nil {
			return Result{}, fmt.Errorf("turn %d: %w", turn, err)
		}
	}
	end := time.Now()

	gameID := e.ID().String()
	moves := e.Moves()
	record := metrics.GameRecord{
		ID:   gameID,
		Seed: e.Config().Seed,
		GameMetric: metrics.GameMetric{
			Players:    len(cfg.Players),
			StartTime:  start,
			EndTime:    end,
			Duration:   end.Sub(start),
			TotalMoves: len(moves),
		},
	}
	records := make([]metrics.MoveRecord, len(moves))
	for i, m := range moves {
		if m.Code != "" {
			record.Rejections++
		}
		records[i] = metrics.MoveRecord{Game: gameID, MoveMetric: m}
	}
	return Result{Engine: e, Game: record, Moves: records}, nil
}

// playTurn performs random moves until nothing more succeeds, then ends the
// turn, skipping obligations that block it.
func playTurn(ctx context.Context, e *engine.Engine, rnd *rand.Rand) error {
	p := e.Player()
	for calls := 0; calls < maxCallsPerTurn; calls++ {
		if performRandom(ctx, e, rnd) {
			continue
		}
		if err := e.EndTurn(ctx, p); err == nil {
			return nil
		}
		if err := e.Skip(ctx, p); err != nil {
			return err
		}
	}
	return errs.WithMetadata(errs.CodeSkipNotAllowed, "turn did not finish",
		map[string]string{"player": string(p), "calls": strconv.Itoa(maxCallsPerTurn)})
}

// performRandom tries the candidate moves in random order and reports
// whether one was accepted.
func performRandom(ctx context.Context, e *engine.Engine, rnd *rand.Rand) bool {
	moves := Candidates(ctx, e)
	rnd.Shuffle(len(moves), func(i, j int) { moves[i], moves[j] = moves[j], moves[i] })
	for _, m := range moves {
		if err := e.Perform(ctx, e.Player(), m, rnd.Uint64()); err == nil {
			return true
		}
	}
	return false
}

// Candidates lists concrete moves for every kind the current player may
// perform. Not every candidate is guaranteed to succeed.
func Candidates(ctx context.Context, e *engine.Engine) []game.Move {
	gs := e.State()
	ps := gs.PlayerState()

	var out []game.Move
	for _, kind := range e.PossibleActions() {
		switch kind {
		case game.MoveAction:
			for _, l := range gs.Trail.Locations() {
				if !l.OnTrail || l.Name == gs.Trail.Start() {
					continue
				}
				routes, err := e.PossibleRoutes(ctx, l.Name)
				if err != nil {
					continue
				}
				for _, r := range routes {
					out = append(out, game.Move{Kind: kind, To: l.Name, Via: r.Path})
				}
			}
		case game.BuyCattleAction:
			for _, b := range e.PossibleBuys() {
				var cards []int
				for _, c := range gs.Market.Available() {
					if c.Value == b.Tier && len(cards) < b.Quantity() {
						cards = append(cards, c.ID)
					}
				}
				out = append(out, game.Move{Kind: kind, Cards: cards})
			}
		case game.BuildAction:
			building := fmt.Sprintf("%s-%d", ps.ID, len(gs.Trail.Buildings(ps.ID))+1)
			for _, l := range gs.Trail.Locations() {
				if l.Kind == trail.BuildingLocation && !l.Neutral && l.OnTrail && gs.Trail.IsEmpty(l.Name) {
					out = append(out, game.Move{Kind: kind, To: l.Name, Building: building})
				}
			}
		case game.MoveEngineForwardAction, game.MoveEngineBackwardAction:
			dir := track.Forward
			if kind == game.MoveEngineBackwardAction {
				dir = track.Backward
			}
			spaces, err := e.ReachableSpaces(dir)
			if err != nil {
				continue
			}
			for _, s := range spaces {
				out = append(out, game.Move{Kind: kind, To: s})
			}
		case game.DeliverAction:
			for _, d := range e.PossibleDeliveries() {
				out = append(out, game.Move{Kind: kind, City: d.City})
			}
		case game.RemoveHazardAction:
			out = append(out, occupiedMoves(gs, kind, trail.HazardLocation)...)
		case game.TradeWithTeepeeAction:
			out = append(out, occupiedMoves(gs, kind, trail.TeepeeLocation)...)
		default:
			out = append(out, game.Move{Kind: kind})
		}
	}
	return out
}

func occupiedMoves(gs *game.GameState, kind obligation.Kind, locationKind trail.LocationKind) []game.Move {
	var out []game.Move
	for _, l := range gs.Trail.Locations() {
		if l.Kind != locationKind {
			continue
		}
		if _, ok := gs.Trail.Occupant(l.Name); ok {
			out = append(out, game.Move{Kind: kind, To: l.Name})
		}
	}
	return out
}

// RunPlayouts plays games playouts seeded from seed and writes their records
// to dir when it is not empty.
func RunPlayouts(ctx context.Context, cfg Config, games int, seed uint64, dir string, opts ...engine.Option) ([]Result, error) {
	log.Info().Int("games", games).Int("turns", cfg.Turns).Msg("starting playouts")

	results := make([]Result, 0, games)
	for i := 0; i < games; i++ {
		r, err := Playout(ctx, cfg, seed+uint64(i), opts...)
		if err != nil {
			return results, fmt.Errorf("playout %d: %w", i, err)
		}
		results = append(results, r)
		log.Info().
			Str("game", r.Game.ID).
			Int("moves", r.Game.TotalMoves).
			Int("rejections", r.Game.Rejections).
			Dur("duration", r.Game.Duration).
			Msg("playout completed")
	}

	if dir == "" {
		return results, nil
	}
	writer, err := metrics.NewWriter(dir)
	if err != nil {
		return results, err
	}
	var gameRecords []metrics.GameRecord
	var moveRecords []metrics.MoveRecord
	for _, r := range results {
		gameRecords = append(gameRecords, r.Game)
		moveRecords = append(moveRecords, r.Moves...)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return results, err
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return results, err
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored playout records")
	return results, nil
}
