// Package logging builds the zap loggers used by the CLI and the language
// server. Logs always go to stderr or a caller-provided writer: stdout
// carries LSP frames.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps debug|info|warn|error onto a zap level; anything else is error.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	}
	return zapcore.ErrorLevel
}

// New returns a console logger at level writing to w (stderr when nil).
func New(level string, w io.Writer) *zap.Logger {
	if w == nil {
		w = os.Stderr
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.Lock(zapcore.AddSync(w)),
		ParseLevel(level),
	)
	return zap.New(core)
}

// Nop returns a logger that drops everything.
func Nop() *zap.Logger { return zap.NewNop() }
