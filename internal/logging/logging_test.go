package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coderefine/internal/config"
)

func TestNew_FileJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "coderefine.log")
	logger, closeFn, err := New(config.LoggingConfig{Level: "debug", Format: "json", File: path})
	require.NoError(t, err)

	logger.Debug().Str("file", "a.py").Msg("analyzed")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"analyzed"`)
	assert.Contains(t, string(data), `"service":"coderefine"`)
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}

func TestNew_BadLevel(t *testing.T) {
	t.Parallel()

	_, _, err := New(config.LoggingConfig{Level: "shout"})
	require.Error(t, err)
}
