package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	saved := log.Logger
	t.Cleanup(func() {
		log.Logger = saved
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})

	path := filepath.Join(t.TempDir(), "points.log")
	require.NoError(t, Setup(LogConfig{Level: "debug", Format: "json", Output: path}))
	require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	l := WithComponent("scoring")
	l.Info().Msg("scored")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	require.Equal(t, "scoring", entry["component"])
	require.Equal(t, "scored", entry["message"])

	require.Error(t, Setup(LogConfig{Level: "loud"}))
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf).With().Str("request_id", "abc").Logger()
	ctx := base.WithContext(context.Background())

	l := FromContext(ctx, "server")
	l.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "abc", entry["request_id"])
	require.Equal(t, "server", entry["component"])

	// No logger in context falls back to the global one.
	require.NotPanics(t, func() {
		l := FromContext(context.Background(), "server")
		l.Debug().Msg("fallback")
	})
}
