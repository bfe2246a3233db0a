package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewRespectsLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"bogus": zapcore.InfoLevel,
	}
	for level, want := range cases {
		t.Setenv("LOG_LEVEL", level)
		logger, err := New("ingestor")
		require.NoError(t, err, level)
		assert.True(t, logger.Core().Enabled(want), level)
		if want > zapcore.DebugLevel {
			assert.False(t, logger.Core().Enabled(want-1), level)
		}
	}
}

func TestNewWithoutServiceName(t *testing.T) {
	t.Setenv("LOG_LEVEL", "info")
	logger, err := New("")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
