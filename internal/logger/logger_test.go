package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIncludesServiceAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug")
	log.Debug().Str("reminder", "abc").Msg("checked")

	var payload map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, ServiceName, payload["service"])
	assert.Equal(t, "debug", payload["level"])
	assert.Equal(t, "abc", payload["reminder"])
	assert.Contains(t, payload, "time")
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "chatty")
	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "remindly.log")
	log, closer, err := File(path, "info")
	require.NoError(t, err)
	log.Info().Msg("first")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"first"`)
}

func TestFileWithoutPathDiscards(t *testing.T) {
	log, closer, err := File("", "info")
	require.NoError(t, err)
	log.Info().Msg("nowhere")
	assert.NoError(t, closer.Close())
}
