// Package stdlogger adapts the global zerolog logger to printf style logger
// interfaces, such as the writer of the gorm logger.
package stdlogger

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger forwards printf style calls to the global zerolog logger.
type Logger struct {
	component string
	level     zerolog.Level
}

// New returns an adapter logging Printf calls at debug level with component set.
func New(component string) *Logger {
	return &Logger{component: component, level: zerolog.DebugLevel}
}

// WithLevel returns a copy logging Printf calls at level.
func (l *Logger) WithLevel(level zerolog.Level) *Logger {
	c := *l
	c.level = level

	return &c
}

func (l *Logger) logf(level zerolog.Level, format string, args ...any) {
	log.WithLevel(level).
		Str("component", l.component).
		Msgf(strings.TrimSpace(format), args...)
}

// Printf implements gorm.io/gorm/logger.Writer.
func (l *Logger) Printf(format string, args ...any) {
	l.logf(l.level, format, args...)
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.logf(zerolog.DebugLevel, format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.logf(zerolog.InfoLevel, format, args...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, args ...any) {
	l.logf(zerolog.WarnLevel, format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.logf(zerolog.ErrorLevel, format, args...)
}
