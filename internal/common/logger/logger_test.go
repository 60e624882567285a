package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNewWithOutput_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker.log")

	l := NewWithOutput("info", "json", path)
	NewZapAdapter(l).Info("draw completed", map[string]interface{}{
		"random": 42,
		"cause":  errors.New("none"),
	})
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "draw completed")
	assert.Contains(t, string(data), `"random":42`)
}

func TestNewWithOutput_BadPathFallsBackToNop(t *testing.T) {
	l := NewWithOutput("info", "json", filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	require.NotNil(t, l)
	l.Info("dropped")
}

func TestWrapper_WithFieldsChains(t *testing.T) {
	log := NewTestLogger(t)

	child := log.WithFields(map[string]interface{}{"taskType": "true-random-number"}).
		WithError(errors.New("boom")).
		With(map[string]interface{}{"iteration": 1})

	assert.NotNil(t, child)
	child.Debug("debug", nil)
	child.Warn("warn", map[string]interface{}{"k": "v"})
	child.Error("error", nil)
}

func TestMapToZapFields_Empty(t *testing.T) {
	assert.Nil(t, mapToZapFields(nil))
	assert.Len(t, mapToZapFields(map[string]interface{}{"a": 1, "b": "c"}), 2)
}
