// Package log is the structured logging facade used throughout
// kvstored. It keeps the call-site shape of a printf-style logger
// (Debug/Info/Warn/Error/Success/Fatal) while backing onto zap for
// actual structured output, instead of hand-rolling level filtering
// and formatting.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

var base *zap.SugaredLogger

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	base = l.Sugar()
}

// SetDevelopment switches to zap's human-readable development encoder,
// used by core/main.go when KVSTORED_LOG_DEV is set.
func SetDevelopment() {
	l, err := zap.NewDevelopment()
	if err != nil {
		return
	}
	base = l.Sugar()
}

// Sync flushes any buffered log entries. Callers should defer it in
// main; the error is deliberately ignored, since on most platforms
// syncing a console fd returns a harmless ENOTTY.
func Sync() {
	_ = base.Sync()
}

func Debug(format string, args ...interface{}) { base.Debugf(format, args...) }
func Info(format string, args ...interface{})  { base.Infof(format, args...) }
func Warn(format string, args ...interface{})  { base.Warnf(format, args...) }
func Error(format string, args ...interface{}) { base.Errorf(format, args...) }

// Success logs at info level tagged with an "outcome" field, since zap
// has no dedicated success level.
func Success(format string, args ...interface{}) {
	base.Infow(fmt.Sprintf(format, args...), "outcome", "success")
}

// Fatal logs at fatal level and terminates the process, matching the
// teacher logger's contract.
func Fatal(format string, args ...interface{}) { base.Fatalf(format, args...) }

// Section logs a named phase boundary (e.g. "startup", "shutdown").
func Section(title string) {
	base.Infow("——— "+title+" ———", "section", title)
}

// Banner logs the startup identification line.
func Banner(title, version string) {
	base.Infow(title, "version", version)
}
