// Package config reads the command line configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"cattletrail/player"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error disabled"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	Seed      uint64   `env:"GAME_SEED" envDefault:"1"`
	Players   []string `env:"GAME_PLAYERS" envDefault:"alice,bob" envSeparator:"," validate:"min=2,max=4,unique,dive,required"`
	Beginner  bool     `env:"GAME_BEGINNER" envDefault:"false"`
	Simmental bool     `env:"GAME_SIMMENTAL" envDefault:"false"`

	// Per-game CSV records are written here when set.
	MetricsDir string `env:"METRICS_CSV_DIR"`
}

// Load reads an optional .env file, then the environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return Parse()
}

// Parse reads and validates the environment.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Level is the parsed log level.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func (c Config) PlayerIDs() []player.ID {
	ids := make([]player.ID, len(c.Players))
	for i, p := range c.Players {
		ids[i] = player.ID(p)
	}
	return ids
}
