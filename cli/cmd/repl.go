package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/rogeriochaves/rubber/cli/cmd/repl"
	"github.com/rogeriochaves/rubber/log"
)

// Repl starts an interactive session. Definitions made on one line
// remain visible on later lines, and any source files given with the
// --source flag (plus the user prelude) are evaluated before the first
// prompt.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	ktx := kongContextFrom(ctx)

	cacheDir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok {
		panic("internal error: cache directory undefined")
	}

	var preload io.Reader
	if src := sourceFilesFrom(ctx); src != nil && !src.IsZero() {
		preload = src
	}

	return repl.Run(ctx, preload, cacheDir,
		maxDepthFrom(ctx),
		log.With(slog.String("command", "repl")),
	)
}
