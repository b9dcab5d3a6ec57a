// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Output format, minimum level, time layout, call-site reporting, and
// colorization are fixed at logger creation time using functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("listening", slog.String("addr", addr))
//	logger.Error("read failed", slog.Any("error", err))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("StampMilli"),
//		log.WithCaller(true))
//
// # Adding Attributes
//
// Attributes included in every subsequent message are added with
// [Logger.With]:
//
//	logger = logger.With(slog.String("component", "eval"))
//	logger.Info("ready") // includes component=eval
//
// # Context-Aware Logging
//
// Each level has a context-aware and a context-unaware variant:
//
//	logger.InfoContext(ctx, "parsing input")
//	logger.Info("parsing input") // uses DefaultContextProvider
//
// Context-unaware functions call their context-aware counterparts with
// the context returned by [DefaultContextProvider], [context.TODO] by
// default.
//
// # Levels
//
// Five levels are defined: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace sits below slog's debug level and
// is rendered as "TRACE" rather than slog's "DEBUG-4". Messages below the
// configured level are discarded.
//
// # Formats
//
// Two output formats are supported, [FormatText] (default) and
// [FormatJSON]. Both have a colorized variant for human consumption,
// enabled by default and controlled with [WithPretty].
//
// # Default Logger
//
// The package-level functions ([Info], [Error], ...) share a default
// logger writing to stderr. [Config] adjusts its configuration.
package log
