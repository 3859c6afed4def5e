package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTruncateForLog(t *testing.T) {
	assert.Equal(t, "", TruncateForLog("abc", 0))
	assert.Equal(t, "abc", TruncateForLog("  abc  ", 5))
	assert.Equal(t, "ab...", TruncateForLog("abcdef", 2))
	assert.Equal(t, "пр...", TruncateForLog("привет", 2))
}

func TestNew(t *testing.T) {
	l, err := New(true, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New(false, false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestWithModel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	WithModel(zap.New(core), "anthropic", " ").Info("call")

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "anthropic", ctx[FieldProvider])
	assert.NotContains(t, ctx, FieldModel)
}

func TestWithModelNilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		WithModel(nil, "", "").Info("ignored")
	})
}
