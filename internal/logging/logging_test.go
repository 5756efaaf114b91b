package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)

	lvl, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, lvl)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestSetupFile(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.DebugLevel)
	path := filepath.Join(t.TempDir(), "logs", "tui.log")

	closer, err := Setup("info", path, nil)
	require.NoError(t, err)
	log.Info().Str("run", "1").Msg("hello")
	log.Debug().Msg("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run":"1"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestSetupConsole(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.DebugLevel)
	var buf bytes.Buffer

	_, err := Setup("debug", "", &buf)
	require.NoError(t, err)
	log.Debug().Msg("to console")
	assert.Contains(t, buf.String(), "to console")
}
