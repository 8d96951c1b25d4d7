package jwtinspect

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Logger defines an optional logging interface compatible with log/slog.
// It is the interface used by core, so one logger serves the whole stack.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NewLogrusLogger returns a Logger writing to l. Key-value arguments become
// logrus fields.
func NewLogrusLogger(l logrus.FieldLogger) Logger {
	return &logrusLoggerAdapter{l}
}

type logrusLoggerAdapter struct{ l logrus.FieldLogger }

func (a *logrusLoggerAdapter) Debug(msg string, args ...any) { a.with(args).Debug(msg) }
func (a *logrusLoggerAdapter) Info(msg string, args ...any)  { a.with(args).Info(msg) }
func (a *logrusLoggerAdapter) Warn(msg string, args ...any)  { a.with(args).Warn(msg) }
func (a *logrusLoggerAdapter) Error(msg string, args ...any) { a.with(args).Error(msg) }

func (a *logrusLoggerAdapter) with(args []any) logrus.FieldLogger {
	if len(args) == 0 {
		return a.l
	}
	return a.l.WithFields(fieldsOf(args))
}

// fieldsOf pairs up slog style arguments. A key without a value is logged
// under "!BADKEY", like slog does.
func fieldsOf(args []any) logrus.Fields {
	fields := make(logrus.Fields, (len(args)+1)/2)
	for len(args) > 0 {
		if len(args) == 1 {
			fields["!BADKEY"] = args[0]
			break
		}
		key, ok := args[0].(string)
		if !ok {
			key = fmt.Sprint(args[0])
		}
		if err, ok := args[1].(error); ok {
			fields[key] = err.Error()
		} else {
			fields[key] = args[1]
		}
		args = args[2:]
	}
	return fields
}
