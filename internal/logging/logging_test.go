package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWarnAndError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	Warn(CantSerializeFunction, zap.String("key", "fill"))
	Error(NoFeatureInModule, zap.String("type", "bubble"))

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, string(CantSerializeFunction), entries[0].Message)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "fill", entries[0].ContextMap()["key"])
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	}
}

func TestSetNilRestoresNop(t *testing.T) {
	Set(nil)
	assert.NotNil(t, L())
	Warn(GeoDataInvalid)
}

func TestNew(t *testing.T) {
	l, err := New(true)
	if assert.NoError(t, err) {
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	}
}
