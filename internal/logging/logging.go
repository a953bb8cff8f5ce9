// Package logging holds the process logger and the warning/error channel
// used by chart components for recoverable problems.
package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Code identifies a recoverable problem.
type Code string

const (
	// CantSerializeFunction: a function-valued setting was left out of a
	// serialized config.
	CantSerializeFunction Code = "CANT_SERIALIZE_FUNCTION"
	// NoFeatureInModule: a series type is not registered.
	NoFeatureInModule Code = "NO_FEATURE_IN_MODULE"
	// GeoDataInvalid: geo data could not be parsed.
	GeoDataInvalid Code = "GEO_DATA_INVALID"
	// SetupInvalid: a setup value had the wrong shape and was skipped.
	SetupInvalid Code = "SETUP_INVALID"
)

var current atomic.Pointer[zap.Logger]

func init() { current.Store(zap.NewNop()) }

// L returns the current logger.
func L() *zap.Logger { return current.Load() }

// Set replaces the logger. nil restores the no-op logger.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

// New builds a production logger, at debug level when verbose is set.
func New(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// Warn reports a recoverable problem.
func Warn(code Code, fields ...zap.Field) {
	L().Warn(string(code), fields...)
}

// Error reports a failed operation that returned a null result.
func Error(code Code, fields ...zap.Field) {
	L().Error(string(code), fields...)
}
