package config

import (
	"os"
	"path/filepath"
	"testing"

	"cattletrail/player"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("defaults describe a two player game", func(t *testing.T) {
		cfg, err := Parse()

		require.NoError(t, err)
		require.Equal(t, []player.ID{"alice", "bob"}, cfg.PlayerIDs())
		require.Equal(t, uint64(1), cfg.Seed)
		require.Equal(t, zerolog.InfoLevel, cfg.Level())
		require.Empty(t, cfg.MetricsDir)
	})

	t.Run("the environment overrides the defaults", func(t *testing.T) {
		t.Setenv("GAME_PLAYERS", "ann,ben,cat")
		t.Setenv("GAME_SEED", "42")
		t.Setenv("GAME_SIMMENTAL", "true")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := Parse()

		require.NoError(t, err)
		require.Equal(t, []player.ID{"ann", "ben", "cat"}, cfg.PlayerIDs())
		require.Equal(t, uint64(42), cfg.Seed)
		require.True(t, cfg.Simmental)
		require.Equal(t, zerolog.DebugLevel, cfg.Level())
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		for name, value := range map[string]string{
			"GAME_PLAYERS": "solo",
			"LOG_LEVEL":    "loud",
			"GAME_SEED":    "minus one",
		} {
			t.Setenv(name, value)
			_, err := Parse()
			require.Error(t, err, name)
			os.Unsetenv(name)
		}
	})

	t.Run("duplicate players are rejected", func(t *testing.T) {
		t.Setenv("GAME_PLAYERS", "ann,ann")

		_, err := Parse()

		require.ErrorContains(t, err, "validate config")
	})
}

func TestLoad(t *testing.T) {
	t.Run("a missing env file is fine", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), ".env"))

		require.NoError(t, err)
	})

	t.Run("values come from the env file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("GAME_SEED=9\nGAME_BEGINNER=true\n"), 0o600))
		t.Setenv("GAME_SEED", "")
		os.Unsetenv("GAME_SEED")
		t.Setenv("GAME_BEGINNER", "")
		os.Unsetenv("GAME_BEGINNER")

		cfg, err := Load(path)

		require.NoError(t, err)
		require.Equal(t, uint64(9), cfg.Seed)
		require.True(t, cfg.Beginner)
	})
}
