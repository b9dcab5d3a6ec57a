package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rogeriochaves/rubber/lang"
)

// TestWithMaxDepth tests that the evaluation depth limit round-trips
// through the context, falling back to the default when unset or
// nonsensical.
func TestWithMaxDepth(t *testing.T) {
	ctx := WithMaxDepth(context.Background(), 25)
	if got := maxDepthFrom(ctx); got != 25 {
		t.Errorf("maxDepthFrom() = %d, want 25", got)
	}

	if got := maxDepthFrom(context.Background()); got != lang.DefaultMaxDepth {
		t.Errorf("maxDepthFrom() without value = %d, want %d", got, lang.DefaultMaxDepth)
	}

	ctx = WithMaxDepth(context.Background(), 0)
	if got := maxDepthFrom(ctx); got != lang.DefaultMaxDepth {
		t.Errorf("maxDepthFrom() with zero = %d, want %d", got, lang.DefaultMaxDepth)
	}
}

// TestWithSourceFilesEmpty tests that an empty source list returns nil reader.
func TestWithSourceFilesEmpty(t *testing.T) {
	ctx := WithSourceFiles(context.Background(), nil)
	reader := sourceFilesFrom(ctx)

	if reader != nil {
		t.Error("WithSourceFiles(nil) should store nil reader")
	}

	ctx = WithSourceFiles(context.Background(), []string{})
	reader = sourceFilesFrom(ctx)

	if reader != nil {
		t.Error("WithSourceFiles([]) should store nil reader")
	}
}

// TestWithSourceFilesSingleFile tests reading from a single file.
func TestWithSourceFilesSingleFile(t *testing.T) {
	// Create temp file
	tmpfile, err := os.CreateTemp("", "rubber-test-*.rubber")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := "a = 1"
	if _, err := tmpfile.WriteString(content); err != nil {
		t.Fatal(err)
	}

	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	ctx := WithSourceFiles(context.Background(), []string{tmpfile.Name()})
	reader := sourceFilesFrom(ctx)

	if reader == nil {
		t.Fatal("WithSourceFiles should return non-nil reader for valid file")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading from source files: %v", err)
	}

	if string(data) != content {
		t.Errorf("got %q, want %q", string(data), content)
	}
}

// TestWithSourceFilesMultipleFiles tests that multiple files are joined
// with a newline so the statement ending one file does not run into the
// statement starting the next.
func TestWithSourceFilesMultipleFiles(t *testing.T) {
	// Create temp files
	tmpdir := t.TempDir()

	file1 := filepath.Join(tmpdir, "file1.rubber")
	file2 := filepath.Join(tmpdir, "file2.rubber")

	if err := os.WriteFile(file1, []byte("a = 1"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(file2, []byte("b = 2"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := WithSourceFiles(context.Background(), []string{file1, file2})
	reader := sourceFilesFrom(ctx)

	if reader == nil {
		t.Fatal("WithSourceFiles should return non-nil reader")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading from source files: %v", err)
	}

	if string(data) != "a = 1\nb = 2" {
		t.Errorf("got %q, want %q", string(data), "a = 1\nb = 2")
	}
}

// TestWithSourceFilesDuplicatePaths tests deduplication of identical paths.
func TestWithSourceFilesDuplicatePaths(t *testing.T) {
	// Create temp file
	tmpfile, err := os.CreateTemp("", "rubber-test-*.rubber")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := "x = 7"
	if _, err := tmpfile.WriteString(content); err != nil {
		t.Fatal(err)
	}

	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Pass same file multiple times
	ctx := WithSourceFiles(context.Background(), []string{
		tmpfile.Name(),
		tmpfile.Name(),
		tmpfile.Name(),
	})
	reader := sourceFilesFrom(ctx)

	if reader == nil {
		t.Fatal("WithSourceFiles should return non-nil reader")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading from source files: %v", err)
	}

	// Should only read once despite being listed 3 times
	if string(data) != content {
		t.Errorf("got %q, want %q (file should only be read once)", string(data), content)
	}
}

// TestWithSourceFilesRelativeAbsoluteDuplicates tests dedup of relative and
// absolute paths pointing to the same file.
func TestWithSourceFilesRelativeAbsoluteDuplicates(t *testing.T) {
	tmpdir := t.TempDir()

	filename := "shared.rubber"
	absPath := filepath.Join(tmpdir, filename)
	content := "s = 3"

	if err := os.WriteFile(absPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	// Change to temp directory to test relative paths
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldWd)

	if err := os.Chdir(tmpdir); err != nil {
		t.Fatal(err)
	}

	// Pass both relative and absolute paths
	ctx := WithSourceFiles(context.Background(), []string{
		filename, // relative
		absPath,  // absolute
	})
	reader := sourceFilesFrom(ctx)

	if reader == nil {
		t.Fatal("WithSourceFiles should return non-nil reader")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading from source files: %v", err)
	}

	// Should only read once
	if string(data) != content {
		t.Errorf("got %q, want %q (file should only be read once)", string(data), content)
	}
}

// TestWithSourceFilesSymlinkDuplicates tests dedup of symlinks pointing to the
// same file.
func TestWithSourceFilesSymlinkDuplicates(t *testing.T) {
	tmpdir := t.TempDir()

	// Create actual file
	realFile := filepath.Join(tmpdir, "real.rubber")
	content := "r = 2"

	if err := os.WriteFile(realFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	// Create symlink
	symlink := filepath.Join(tmpdir, "link.rubber")
	if err := os.Symlink(realFile, symlink); err != nil {
		t.Fatal(err)
	}

	// Pass both real file and symlink
	ctx := WithSourceFiles(context.Background(), []string{
		realFile,
		symlink,
	})
	reader := sourceFilesFrom(ctx)

	if reader == nil {
		t.Fatal("WithSourceFiles should return non-nil reader")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading from source files: %v", err)
	}

	// Should only read once
	if string(data) != content {
		t.Errorf("got %q, want %q (file should only be read once)", string(data), content)
	}
}

// TestWithSourceFilesStdinLast tests that stdin is placed last and joined
// with a newline like any other source.
func TestWithSourceFilesStdinLast(t *testing.T) {
	tmpdir := t.TempDir()

	file1 := filepath.Join(tmpdir, "file1.rubber")
	if err := os.WriteFile(file1, []byte("a = 1"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Save and restore stdin
	oldStdin := os.Stdin
	defer func() { os.Stdin = oldStdin }()

	// Create pipe for stdin
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdin = r

	// Write to stdin in goroutine
	go func() {
		defer w.Close()
		io.WriteString(w, "a + 1")
	}()

	// Pass stdin first, then file - stdin should still be read last
	ctx := WithSourceFiles(context.Background(), []string{"-", file1})
	reader := sourceFilesFrom(ctx)

	if reader == nil {
		t.Fatal("WithSourceFiles should return non-nil reader")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading from source files: %v", err)
	}

	// File should be first, stdin last
	if string(data) != "a = 1\na + 1" {
		t.Errorf("got %q, want %q (stdin should be last)", string(data), "a = 1\na + 1")
	}
}

// TestWithSourceFilesMultipleStdinCollapsed tests that multiple "-" entries are
// collapsed to a single stdin reader.
func TestWithSourceFilesMultipleStdinCollapsed(t *testing.T) {
	// Save and restore stdin
	oldStdin := os.Stdin
	defer func() { os.Stdin = oldStdin }()

	// Create pipe for stdin
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdin = r

	content := "1 + 2"
	go func() {
		defer w.Close()
		io.WriteString(w, content)
	}()

	// Pass multiple stdin indicators
	ctx := WithSourceFiles(context.Background(), []string{"-", "-", "-"})
	reader := sourceFilesFrom(ctx)

	if reader == nil {
		t.Fatal("WithSourceFiles should return non-nil reader for stdin")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading from source files: %v", err)
	}

	// Should only read stdin once
	if string(data) != content {
		t.Errorf("got %q, want %q (stdin should only be read once)", string(data), content)
	}
}

// TestWithSourceFilesNonexistentFile tests that nonexistent files are skipped.
func TestWithSourceFilesNonexistentFile(t *testing.T) {
	// Create one real file
	tmpfile, err := os.CreateTemp("", "rubber-test-*.rubber")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := "e = 9"
	if _, err := tmpfile.WriteString(content); err != nil {
		t.Fatal(err)
	}

	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Pass mix of existing and nonexistent files
	ctx := WithSourceFiles(context.Background(), []string{
		"/nonexistent/path/file.rubber",
		tmpfile.Name(),
		"/another/nonexistent.rubber",
	})
	reader := sourceFilesFrom(ctx)

	if reader == nil {
		t.Fatal("WithSourceFiles should return non-nil reader when at least one file exists")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading from source files: %v", err)
	}

	if string(data) != content {
		t.Errorf("got %q, want %q", string(data), content)
	}
}

// TestWithSourceFilesAllNonexistent tests that all nonexistent files results in
// nil reader.
func TestWithSourceFilesAllNonexistent(t *testing.T) {
	ctx := WithSourceFiles(context.Background(), []string{
		"/nonexistent/path/file1.rubber",
		"/nonexistent/path/file2.rubber",
	})
	reader := sourceFilesFrom(ctx)

	if reader != nil {
		t.Error("WithSourceFiles should return nil reader when all files nonexistent")
	}
}
