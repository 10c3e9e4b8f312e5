package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"cattletrail/config"
	"cattletrail/engine"
	"cattletrail/experiments"
	"cattletrail/experiments/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	script := flag.String("script", "", "YAML game script to replay")
	dump := flag.String("dump", "", "Write the played game as a YAML script to this file")
	playouts := flag.Int("playouts", 0, "Number of random playouts to run")
	turns := flag.Int("turns", 20, "Turns per playout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	collector := metrics.NewCollector(prometheus.NewRegistry())

	if *playouts > 0 {
		_, err := experiments.RunPlayouts(ctx, experiments.Config{
			Players:   cfg.PlayerIDs(),
			Beginner:  cfg.Beginner,
			Simmental: cfg.Simmental,
			Turns:     *turns,
		}, *playouts, cfg.Seed, cfg.MetricsDir, engine.WithCollector(collector))
		if err != nil {
			log.Fatal().Err(err).Msg("playouts failed")
		}
		return
	}

	e, err := replay(ctx, cfg, *script, collector)
	if err != nil {
		log.Fatal().Err(err).Msg("replay failed")
	}
	report(e)

	if *dump != "" {
		data, err := e.Script().Marshal()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to encode script")
		}
		if err := os.WriteFile(*dump, data, 0o644); err != nil {
			log.Fatal().Err(err).Str("path", *dump).Msg("failed to write script")
		}
	}
}

func setupLogger(cfg config.Config) {
	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// replay sets up the game of a script, or a fresh game from the environment
// when no script is given.
func replay(ctx context.Context, cfg config.Config, path string, collector metrics.Collector) (*engine.Engine, error) {
	s := engine.Script{Config: engine.Config{
		Seed:      cfg.Seed,
		Players:   cfg.PlayerIDs(),
		Beginner:  cfg.Beginner,
		Simmental: cfg.Simmental,
	}}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if s, err = engine.LoadScript(data); err != nil {
			return nil, err
		}
	}
	e, err := engine.Replay(ctx, s.Config, s.Entries, engine.WithLogger(log.Logger), engine.WithCollector(collector))
	if err != nil {
		return nil, err
	}

	if cfg.MetricsDir != "" {
		w, err := metrics.NewWriter(cfg.MetricsDir)
		if err != nil {
			return nil, err
		}
		moves := e.Moves()
		records := make([]metrics.MoveRecord, len(moves))
		for i, m := range moves {
			records[i] = metrics.MoveRecord{Game: e.ID().String(), MoveMetric: m}
		}
		if err := w.WriteMoveRecords(records); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func report(e *engine.Engine) {
	gs := e.State()
	for rank, p := range gs.Ranking() {
		score := gs.Score(p)
		log.Info().
			Int("rank", rank+1).
			Str("player", string(p)).
			Int("score", score.Total()).
			Int("balance", gs.Players[p].Balance).
			Msg("standing")
	}
	log.Info().
		Str("game", e.ID().String()).
		Str("player", string(e.Player())).
		Int("turn", gs.Turn).
		Interface("actions", e.PossibleActions()).
		Msg("next to act")
}
