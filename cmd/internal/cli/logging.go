package cli

import (
	"io"
	"log/slog"

	"github.com/golang-cz/devslog"
)

const (
	EnvLogLevel  = "MOCKBOOTSTRAP_LOG_LEVEL"
	EnvLogFormat = "MOCKBOOTSTRAP_LOG_FORMAT"
)

// SetupLogger returns a logger for the bootstrap's own diagnostics.
// These never go to the result stream, so w is normally stderr.
func SetupLogger(level, format string, w io.Writer) *slog.Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{}

	switch level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelWarn
	}

	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "dev":
		handler = devslog.NewHandler(w, &devslog.Options{
			HandlerOptions: opts,
		})
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func LoggerFromEnv(env Env, w io.Writer) *slog.Logger {
	return SetupLogger(GetOrDefault(env, EnvLogLevel, ""), GetOrDefault(env, EnvLogFormat, ""), w)
}
