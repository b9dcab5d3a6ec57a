package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/rogeriochaves/rubber/lang"
	"github.com/rogeriochaves/rubber/log"
)

const defaultEditor = "vi"

// editScopeCommand implements [tea.ExecCommand] for the full
// edit-evaluate-retry loop. It renders the current definitions to a
// temp file, opens the user's editor, and re-parses and re-evaluates
// the result into a fresh scope. On error the user is prompted to
// re-edit; declining exits the program.
type editScopeCommand struct {
	scope    *lang.Scope
	ctxFunc  func() context.Context
	newScope *lang.Scope
	logger   log.Logger
	maxDepth int
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editScopeCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editScopeCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editScopeCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-evaluate-retry loop. It renders the scope's
// declarations, opens the editor, evaluates the result, and prompts on
// error. If the user declines to re-edit, it returns [ErrEditDeclined].
func (c *editScopeCommand) Run() error {
	ctx := c.ctxFunc()

	content := renderScope(c.scope)

	// Create a single temp file for the entire loop.
	f, err := os.CreateTemp(os.TempDir(), "rubber-repl-*.rubber")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		// Write current content to temp file.
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		// An emptied file means the user cleared the content; treat as a
		// cancelled edit rather than discarding every definition.
		if len(data) == 0 {
			return nil
		}

		scope, evalErr := evaluateSource(ctx, string(data), c.maxDepth, c.logger)
		c.logger.TraceContext(
			ctx,
			"editor evaluate attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", evalErr == nil),
		)

		if evalErr == nil {
			c.newScope = scope

			return nil
		}

		// Show error and prompt.
		fmt.Fprintf(c.stderr, "\nError: %s\n", evalErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		// Re-read the (failed) content for the next editor iteration.
		data, readErr := os.ReadFile(tmpPath)
		if readErr != nil {
			return readErr
		}

		content = string(data)
	}
}

// renderScope writes every binding as a declaration in source notation,
// one statement per line. Declarations bind names without evaluating
// their bodies, so the alphabetical order is safe even when a function
// refers to a name declared after it.
func renderScope(scope *lang.Scope) string {
	var prog lang.Program

	for _, name := range scope.Names() {
		if fn, ok := scope.Function(name); ok {
			prog.Statements = append(prog.Statements, lang.NewDoubleArity(
				lang.OpAssignment,
				lang.NewVariable(lang.Scalar(name)),
				fn,
			))

			continue
		}

		v, ok := scope.Lookup(name)
		if !ok {
			continue
		}

		prog.Statements = append(prog.Statements, declarationOf(name, v))
	}

	return prog.String()
}

// declarationOf builds the declaration statement binding name to the
// given value.
func declarationOf(name string, v lang.Value) *lang.Expression {
	if v.Kind == lang.ValueVector {
		items := make([]*lang.Expression, len(v.Vec))
		for i, n := range v.Vec {
			items[i] = lang.NewNumber(n)
		}

		return lang.NewDoubleArity(
			lang.OpAssignment,
			lang.NewVariable(lang.Vec(name)),
			lang.NewVector(items...),
		)
	}

	return lang.NewDoubleArity(
		lang.OpAssignment,
		lang.NewVariable(lang.Scalar(name)),
		lang.NewNumber(v.Num),
	)
}

// evaluateSource parses and evaluates source into a fresh scope.
func evaluateSource(
	ctx context.Context,
	source string,
	maxDepth int,
	logger log.Logger,
) (*lang.Scope, error) {
	prog, err := lang.ParseString(ctx, source,
		lang.WithMaxDepth(maxDepth),
		lang.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	scope := lang.NewScope()
	if _, err := prog.EvaluateIn(ctx, scope); err != nil {
		return nil, err
	}

	return scope, nil
}

// runEditor launches the user's editor on the given file path and returns
// the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
