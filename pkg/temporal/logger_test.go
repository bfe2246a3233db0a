package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapterNamesAndForwards(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	adapter := NewZapAdapter(zap.New(core))

	adapter.Info("Workflow started", "workflow_id", "freshness_all_1721901600")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "temporal", entries[0].LoggerName)
	assert.Equal(t, "Workflow started", entries[0].Message)
	assert.Equal(t, "freshness_all_1721901600", entries[0].ContextMap()["workflow_id"])
}

func TestZapAdapterWithCarriesKeyvals(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	adapter := NewZapAdapter(zap.New(core))

	child := adapter.With("task_queue", "ops")
	child.Warn("Activity retry")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "ops", entries[0].ContextMap()["task_queue"])
}
