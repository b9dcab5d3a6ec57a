// Package cli contains the command line interface for rubber.
//
// # Usage
//
// Programs are read from file arguments or from standard input:
//
//	rubber run program.rubber
//	echo '1 + 2' | rubber
//
// The fmt command reformats programs or dumps their syntax trees:
//
//	rubber fmt program.rubber
//	rubber fmt json --indent=2 program.rubber
//
// The repl command starts an interactive session. Definitions made on
// one line remain visible on later lines.
//
// # Sources and the prelude
//
// The --source flag names files that are evaluated before any command
// input. If a file named prelude.rubber exists in the configuration
// directory, it is loaded first; pass --no-prelude to skip it.
//
// # Configuration
//
// Flag defaults are read from config.json in the configuration
// directory, which is created with the init command. The configuration
// directory defaults to the user config directory joined with the
// executable name, e.g. ~/.config/rubber.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Enable colorized pretty printing
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu,
//     goroutine, heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/rubber/pprof)
package cli
