package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	logger, err := New(Config{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "verbose"})
	assert.Error(t, err)
}

func TestNewFromLevel(t *testing.T) {
	logger := NewFromLevel("debug", false)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger = NewFromLevel("nonsense", false)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel), "invalid level falls back to info")

	logger = NewFromLevel("", true)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestComponent(t *testing.T) {
	named := NewNop().Component("calculation")
	assert.NotNil(t, named)
}
