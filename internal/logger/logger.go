package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Log is the global logger instance
var Log *slog.Logger

// Init installs the process-wide logger.
// Development: text on stdout at debug level. Production: JSON at info level.
// When sentryDSN is set, error records are also forwarded to Sentry.
func Init(isDev bool, sentryDSN string) {
	level := slog.LevelInfo
	if isDev {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{stdoutHandler(isDev, level)}

	if sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              sentryDSN,
			AttachStacktrace: true,
		})
		if err != nil {
			slog.New(handlers[0]).Warn("sentry init failed, continuing without it", "error", err)
		} else {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

func stdoutHandler(isDev bool, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if isDev {
		return slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.NewJSONHandler(os.Stdout, opts)
}

// Flush waits for buffered Sentry events. Safe to call when Sentry was never initialised.
func Flush() {
	sentry.Flush(2 * time.Second)
}
