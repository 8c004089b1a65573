package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCallerIsCallSite(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := L()
	setGlobal(fromZap(zap.New(core, callerOpts...)))
	t.Cleanup(func() { setGlobal(prev) })

	Info("shortcut")
	L().Warn("method")

	entries := logs.All()
	require.Len(t, entries, 2)
	for _, e := range entries {
		require.True(t, e.Caller.Defined, e.Message)
		assert.Equal(t, "logger_test.go", filepath.Base(e.Caller.File), e.Message)
	}
}

func TestNew_ModeSelectsLevel(t *testing.T) {
	prod, err := New("production")
	require.NoError(t, err)
	assert.False(t, prod.SugaredLogger.Desugar().Core().Enabled(zap.DebugLevel))

	dev, err := New("development")
	require.NoError(t, err)
	assert.True(t, dev.SugaredLogger.Desugar().Core().Enabled(zap.DebugLevel))
}
