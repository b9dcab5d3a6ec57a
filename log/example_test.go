package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/rogeriochaves/rubber/log"
)

func Example_basic() {
	logger := log.Make(os.Stderr)
	logger.Info("session started", slog.String("version", "1.0.0"))
}

func Example_configuration() {
	logger := log.Make(os.Stderr,
		log.WithLevel(log.LevelTrace),
		log.WithTimeLayout("StampMilli"),
		log.WithCaller(true))

	logger.Trace("statement parsed", slog.Int("count", 3))
}

func Example_levels() {
	logger := log.Make(os.Stderr, log.WithLevel(log.LevelWarn))

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warning message", slog.String("key", "value"))
	logger.Error("error message", slog.String("error", "something failed"))
}

func Example_jsonFormat() {
	logger := log.Make(os.Stderr,
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false))
	logger.Info("machine readable", slog.String("user", "alice"))
}

func Example_withAttributes() {
	logger := log.Make(os.Stderr)
	logger = logger.With(slog.String("component", "eval"))

	logger.Info("evaluating program")
	logger.Debug("binding resolved", slog.String("name", "x"))
}

func Example_withContext() {
	type sessionKey struct{}

	ctx := context.WithValue(context.Background(), sessionKey{}, "repl-1")

	logger := log.Make(os.Stderr)

	logger.InfoContext(ctx, "evaluating statement")
	logger.DebugContext(ctx, "scope updated", slog.Int("bindings", 2))
}
