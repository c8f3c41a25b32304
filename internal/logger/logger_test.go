package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"", "dev", "debug", "prod", "PRODUCTION"} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		require.NotNil(t, l.SugaredLogger)
	}
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).With("user_id", "u1")

	l.Info("profile updated", "version", 3)
	l.Debug("detail")
	l.Warn("slow")
	l.Error("failed", "err", "boom")

	entries := logs.All()
	require.Len(t, entries, 4)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "u1", ctx["user_id"])
	assert.EqualValues(t, 3, ctx["version"])
	assert.Equal(t, "profile updated", entries[0].Message)
	assert.Equal(t, zap.ErrorLevel, entries[3].Level)
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Info("ignored", "k", "v")
	l.Sync()
}
