package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/rogeriochaves/rubber/lang"
)

// captureRunOutput executes the command with stdout redirected to a
// pipe and returns everything it printed.
func captureRunOutput(t *testing.T, run *Run) (string, error) {
	t.Helper()

	oldStdout := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	os.Stdout = w

	runErr := run.Run(context.Background())

	w.Close()

	os.Stdout = oldStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatal(err)
	}

	return buf.String(), runErr
}

// writeSource writes a program to a temp file and returns its path.
func writeSource(t *testing.T, content string) string {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "rubber-test-*.rubber")
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { os.Remove(tmpfile.Name()) })

	if _, err := tmpfile.WriteString(content); err != nil {
		t.Fatal(err)
	}

	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	return tmpfile.Name()
}

// TestRunExpressions tests that expression statements print one value
// per line and declarations print nothing.
func TestRunExpressions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single expression",
			input: "1 + 2\n",
			want:  "3\n",
		},
		{
			name: "multiple expressions in source order",
			input: `1 + 2
3 * 4
`,
			want: "3\n12\n",
		},
		{
			name: "declarations are silent",
			input: `a = 2
a * 3
`,
			want: "6\n",
		},
		{
			name: "control sequences",
			input: `\frac{6}{2}
\sum_{i = 1}^{3} i
`,
			want: "3\n6\n",
		},
		{
			name: "vector value",
			input: `\vec{v} = (1, 2)
\vec{v}
`,
			want: "(1, 2)\n",
		},
		{
			name:  "only declarations",
			input: "a = 1\n",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSource(t, tt.input)

			output, err := captureRunOutput(t, &Run{Sources: []string{path}})
			if err != nil {
				t.Fatalf("Run.Run() unexpected error = %v", err)
			}

			if output != tt.want {
				t.Errorf("Run.Run() output = %q, want %q", output, tt.want)
			}
		})
	}
}

// TestRunMultipleSources tests that declarations from an earlier file
// are visible to a later file.
func TestRunMultipleSources(t *testing.T) {
	first := writeSource(t, "a = 2") // no trailing newline
	second := writeSource(t, "a + 5\n")

	output, err := captureRunOutput(t, &Run{Sources: []string{first, second}})
	if err != nil {
		t.Fatalf("Run.Run() unexpected error = %v", err)
	}

	if output != "7\n" {
		t.Errorf("Run.Run() output = %q, want %q", output, "7\n")
	}
}

// TestRunStdin tests reading the program from stdin.
func TestRunStdin(t *testing.T) {
	tests := []struct {
		name    string
		sources []string
	}{
		{
			name:    "explicit dash",
			sources: []string{"-"},
		},
		{
			name:    "no sources falls back to stdin",
			sources: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldStdin := os.Stdin
			defer func() { os.Stdin = oldStdin }()

			r, w, err := os.Pipe()
			if err != nil {
				t.Fatal(err)
			}
			os.Stdin = r

			go func() {
				defer w.Close()
				io.WriteString(w, "1 + 1\n")
			}()

			output, err := captureRunOutput(t, &Run{Sources: tt.sources})
			if err != nil {
				t.Fatalf("Run.Run() unexpected error = %v", err)
			}

			if output != "2\n" {
				t.Errorf("Run.Run() output = %q, want %q", output, "2\n")
			}
		})
	}
}

// TestRunParseError tests that malformed input surfaces a parse error
// with position information.
func TestRunParseError(t *testing.T) {
	path := writeSource(t, "1 +\n")

	_, err := captureRunOutput(t, &Run{Sources: []string{path}})
	if err == nil {
		t.Fatal("Run.Run() expected error, got nil")
	}

	var perr *lang.ParseError
	if !errors.As(err, &perr) {
		t.Errorf("Run.Run() error = %v, want *lang.ParseError", err)
	}
}

// TestRunUndefinedVariable tests that evaluation errors are returned.
func TestRunUndefinedVariable(t *testing.T) {
	path := writeSource(t, "x + 1\n")

	_, err := captureRunOutput(t, &Run{Sources: []string{path}})
	if !errors.Is(err, lang.ErrUndefined) {
		t.Errorf("Run.Run() error = %v, want lang.ErrUndefined", err)
	}
}

// TestRunMissingFile tests that a nonexistent source file is an error.
func TestRunMissingFile(t *testing.T) {
	run := &Run{Sources: []string{"/nonexistent/program.rubber"}}

	err := run.Run(context.Background())
	if err == nil {
		t.Error("Run.Run() expected error for missing file, got nil")
	}
}
