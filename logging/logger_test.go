package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Level(t *testing.T) {
	logger, err := NewLogger(false)
	assert.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))

	logger, err = NewLogger(true)
	assert.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestWithRequest_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	WithRequest(zap.New(core), "evaluate", "req-1").Info("done")
	WithRequest(zap.New(core), "evaluate", "").Info("done")

	entries := logs.All()
	assert.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, "evaluate", fields["operation"])
	assert.Equal(t, "req-1", fields["request_id"])

	_, ok := entries[1].ContextMap()["request_id"]
	assert.False(t, ok)
}
