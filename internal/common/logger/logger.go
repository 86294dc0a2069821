package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type Logger struct {
	service string
	zl      zerolog.Logger
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

func New(service string) *Logger { return NewWithWriter(service, os.Stdout) }

// NewWithWriter is New with an explicit sink, mostly for tests.
func NewWithWriter(service string, w io.Writer) *Logger {
	zl := zerolog.New(w).With().
		Timestamp().
		Str("service", service).
		Str("hostname", hostname()).
		Logger()
	return &Logger{service: service, zl: zl}
}

// Nop discards everything.
func Nop() *Logger { return &Logger{zl: zerolog.Nop()} }

// With returns a child logger carrying extra fields on every line.
func (l *Logger) With(fields map[string]any) *Logger {
	return &Logger{service: l.service, zl: l.zl.With().Fields(fields).Logger()}
}

func (l *Logger) log(ev *zerolog.Event, action string, fields map[string]any, err error) {
	if fields != nil {
		ev = ev.Fields(fields)
	}
	if err != nil {
		ev = ev.Dict("error", zerolog.Dict().Str("msg", err.Error()).Str("type", fmt.Sprintf("%T", err)))
	}
	ev.Str("action", action).Msg(action)
}

func (l *Logger) Info(action string, fields map[string]any)  { l.log(l.zl.Info(), action, fields, nil) }
func (l *Logger) Debug(action string, fields map[string]any) { l.log(l.zl.Debug(), action, fields, nil) }
func (l *Logger) Warn(action string, fields map[string]any)  { l.log(l.zl.Warn(), action, fields, nil) }
func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.log(l.zl.Error(), action, fields, err)
}

// SetLevel sets the process-wide minimum level ("debug", "info", ...).
func SetLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

func hostname() string { h, _ := os.Hostname(); return h }
