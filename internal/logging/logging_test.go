package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn, true)

	logger.Info("hidden")
	logger.Warn("shown", slog.String("component", "penalty"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WRN shown")
	assert.Contains(t, out, "component=penalty")
}

func TestSetup_RejectsUnknownLevel(t *testing.T) {
	before := slog.Default()
	_, err := Setup(&bytes.Buffer{}, "verbose", true)
	require.Error(t, err)
	assert.Same(t, before, slog.Default())
}
