package cmd

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/rogeriochaves/rubber/lang"
)

// Fmt parses a program and rewrites it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical source notation (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as an abstract syntax tree."`
}

// openSource opens the named program file, or stdin for "-".
func openSource(src string) (io.Reader, func() error, error) {
	if src == stdinSource {
		return os.Stdin, func() error { return nil }, nil
	}

	file, err := os.Open(src)
	if err != nil {
		return nil, nil, err
	}

	return file, file.Close, nil
}

// parseSource parses the named program file for reformatting.
func parseSource(ctx context.Context, src, format string) (*lang.Program, error) {
	file, closeFile, err := openSource(src)
	if err != nil {
		return nil, err
	}
	defer closeFile()

	prog, err := lang.ParseReader(ctx, bufio.NewReader(file))
	if err != nil {
		return nil, lang.WrapError(err).
			With(slog.String("format", format))
	}

	return prog, nil
}

// Native rewrites a program in canonical source notation, one statement
// per line.
type Native struct {
	Source string `arg:"" default:"-" help:"Program file or '-' for stdin." name:"source"`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	prog, err := parseSource(ctx, f.Source, "native")
	if err != nil {
		return err
	}

	return prog.Format(ctx, os.Stdout)
}

// JSON rewrites a program as a JSON document.
type JSON struct {
	Indent int `default:"2" help:"Indent width, 0 for compact output" short:"i"`

	Source string `arg:"" default:"-" help:"Program file or '-' for stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	prog, err := parseSource(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	return prog.FormatJSON(ctx, os.Stdout, j.Indent)
}

// YAML rewrites a program as a YAML document.
type YAML struct {
	Indent int  `default:"2" help:"Indent width for block style" short:"i"`
	Flow   bool `            help:"Use flow style on a single line"`

	Source string `arg:"" default:"-" help:"Program file or '-' for stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	prog, err := parseSource(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	indent := y.Indent
	if y.Flow {
		indent = 0
	}

	return prog.FormatYAML(ctx, os.Stdout, indent)
}

// AST dumps a program's abstract syntax tree.
type AST struct {
	Source string `arg:"" default:"-" help:"Program file or '-' for stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	prog, err := parseSource(ctx, a.Source, "ast")
	if err != nil {
		return err
	}

	prog.Print(ctx, os.Stdout)

	return nil
}
