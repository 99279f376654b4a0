package main

import (
	"log/slog"
	"os"
	"time"

	"carz/pkg/search"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
		TimeFormat: time.Kitchen,
		Level:      level,
	}))
}

// requestLogger replaces gin's default logger with one line per request on slog.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// notificationLevel maps a widget notification to a log level for headless use.
func notificationLevel(l search.Level) slog.Level {
	if l == search.LevelError {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
