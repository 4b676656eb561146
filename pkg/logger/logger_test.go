package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "info")

	l.Info("snapshot computed",
		String("benchmark", "^GSPC"),
		Int("rows", 480),
		Float64("gap", 0.12),
		Bool("trigger_a", false),
		Duration("duration_ms", 1500*time.Millisecond),
		Error(errors.New("boom")),
	)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "snapshot computed", got["message"])
	assert.Equal(t, "^GSPC", got["benchmark"])
	assert.Equal(t, float64(480), got["rows"])
	assert.Equal(t, 0.12, got["gap"])
	assert.Equal(t, false, got["trigger_a"])
	assert.Equal(t, float64(1500), got["duration_ms"])
	assert.Equal(t, "boom", got["error"])
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "warn")
	l.Info("hidden")
	l.Debug("hidden")
	assert.Zero(t, buf.Len())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "info").With(String("run_id", "abc"))
	l.Info("run started")
	assert.Contains(t, buf.String(), `"run_id":"abc"`)
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	Nop().Error("nothing", String("k", "v"))
}
