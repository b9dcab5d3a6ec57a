package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/rogeriochaves/rubber/cli"
	"github.com/rogeriochaves/rubber/lang"
	"github.com/rogeriochaves/rubber/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		// Parse errors carry a caret snippet laid out over multiple
		// lines, which a structured log record would mangle.
		var perr *lang.ParseError
		if errors.As(err, &perr) {
			fmt.Fprintln(os.Stderr, perr)
		} else {
			log.Error(
				"run failed",
				slog.Any("error", err),
			) // slog automatically uses LogValue()
		}

		os.Exit(1)
	}
}
