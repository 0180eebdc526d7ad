package util

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogFromContext returns the logger attached to ctx or the global logger if ctx carries none.
func LogFromContext(ctx context.Context) *zerolog.Logger {
	l := log.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &log.Logger
	}

	return l
}

// WithLogFields returns a copy of ctx whose logger carries the given string fields.
func WithLogFields(ctx context.Context, fields map[string]string) context.Context {
	logCtx := LogFromContext(ctx).With()
	for k, v := range fields {
		logCtx = logCtx.Str(k, v)
	}

	return logCtx.Logger().WithContext(ctx)
}

// LogLevelFromString parses a zerolog level name, falling back to debug on unknown input.
func LogLevelFromString(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		log.Error().Err(err).Str("level", s).Msg("Failed to parse log level, defaulting to debug")
		return zerolog.DebugLevel
	}

	return level
}
