// Package loggertest provides loggers for tests.
package loggertest

import (
	"testing"

	"github.com/ghaniswara/algolove/internal/logger"
	"go.uber.org/zap/zaptest"
)

// New writes through t, so output shows only for failing tests.
func New(t testing.TB) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}
