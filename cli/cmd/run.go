package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rogeriochaves/rubber/lang"
	"github.com/rogeriochaves/rubber/log"
)

// Run parses programs and prints the value of each expression
// statement, one per line, in source order. Declarations bind names for
// later statements and print nothing.
type Run struct {
	Sources []string `arg:"" help:"Program file(s) or '-' for stdin" name:"source" optional:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	input, closeInput, err := openSources(ctx, r.Sources)
	if err != nil {
		return err
	}
	defer closeInput()

	prog, err := lang.ParseReader(ctx, bufio.NewReader(input),
		lang.WithMaxDepth(maxDepthFrom(ctx)),
		lang.WithLogger(log.With(slog.String("command", "run"))),
	)
	if err != nil {
		return err
	}

	values, err := prog.Evaluate(ctx)
	if err != nil {
		return err
	}

	for _, v := range values {
		fmt.Println(v.String())
	}

	return nil
}

// openSources opens the named program files in order, separated by
// newlines so the last statement of one file never runs into the first
// statement of the next. "-" names stdin. Source files stored in ctx by
// the --source flag are read first. With no names at all, openSources
// falls back to stdin.
func openSources(
	ctx context.Context,
	sources []string,
) (io.Reader, func(), error) {
	var files []*os.File

	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	readers := make([]io.Reader, 0, 2*len(sources)+1)

	if src := sourceFilesFrom(ctx); src != nil && !src.IsZero() {
		readers = append(readers, src)
	}

	hasStdin := false

	for _, src := range sources {
		var r io.Reader

		if src == stdinSource {
			if hasStdin {
				continue
			}

			hasStdin = true
			r = os.Stdin
		} else {
			file, err := os.Open(src)
			if err != nil {
				closeAll()

				return nil, nil, err
			}

			files = append(files, file)
			r = file
		}

		if len(readers) > 0 {
			readers = append(readers, strings.NewReader("\n"))
		}

		readers = append(readers, r)
	}

	if len(readers) == 0 {
		return os.Stdin, closeAll, nil
	}

	return io.MultiReader(readers...), closeAll, nil
}
