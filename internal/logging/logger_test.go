package logging

import (
	"os"
	"path/filepath"
	"testing"

	"staffcal/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	app := config.AppConfig{Name: "staffcal", Environment: "test", Version: "dev"}

	t.Run("DefaultsToInfoJSON", func(t *testing.T) {
		logger, closer, err := New(config.LoggingConfig{}, app)
		require.NoError(t, err)
		require.NotNil(t, logger)
		assert.Nil(t, closer)
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})

	t.Run("ExplicitLevel", func(t *testing.T) {
		logger, _, err := New(config.LoggingConfig{Level: "debug"}, app)
		require.NoError(t, err)
		assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
	})

	t.Run("UnknownLevelFallsBackToInfo", func(t *testing.T) {
		logger, _, err := New(config.LoggingConfig{Level: "loud"}, app)
		require.NoError(t, err)
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})

	t.Run("FileOutput", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		logger, closer, err := New(config.LoggingConfig{Output: "file", FilePath: path}, app)
		require.NoError(t, err)
		require.NotNil(t, closer)
		defer closer.Close()

		logger.Info().Msg("hello")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "hello")
		assert.Contains(t, string(data), `"app":"staffcal"`)
	})

	t.Run("FileOutputRequiresPath", func(t *testing.T) {
		_, _, err := New(config.LoggingConfig{Output: "file"}, app)
		assert.Error(t, err)
	})
}
