package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/rogeriochaves/rubber/lang"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given
// kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// maxDepthKey is used to store the evaluation depth limit in
// [context.Context].
type maxDepthKey struct{}

// WithMaxDepth returns a new context.Context carrying the maximum
// function call depth for evaluation.
func WithMaxDepth(ctx context.Context, depth int) context.Context {
	return context.WithValue(ctx, maxDepthKey{}, depth)
}

func maxDepthFrom(ctx context.Context) int {
	depth, ok := ctx.Value(maxDepthKey{}).(int)
	if !ok || depth <= 0 {
		return lang.DefaultMaxDepth
	}

	return depth
}

type (
	sourceFilesKey struct{}
	sourceFiles    struct {
		read     []io.Reader
		combined io.Reader
		hasStdin bool
	}

	SourceFiles interface {
		IsZero() bool
		Stdin() io.Reader
		io.Reader
		io.WriterTo
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.read) == 0 && !s.hasStdin }

// Stdin returns os.Stdin if stdin was included as a source, or nil
// otherwise.
func (s *sourceFiles) Stdin() io.Reader {
	if s.hasStdin {
		return os.Stdin
	}

	return nil
}

// readers returns all source readers in order, with newline separators
// between them. Statements are newline-terminated, so the separators
// keep the last statement of one file from running into the first
// statement of the next when files are concatenated.
func (s *sourceFiles) readers() []io.Reader {
	rs := make([]io.Reader, 0, 2*len(s.read)+2)

	for _, r := range s.read {
		if len(rs) > 0 {
			rs = append(rs, strings.NewReader("\n"))
		}

		rs = append(rs, r)
	}

	if s.hasStdin {
		if len(rs) > 0 {
			rs = append(rs, strings.NewReader("\n"))
		}

		rs = append(rs, os.Stdin)
	}

	return rs
}

// combinedReader returns a single reader over all sources. It is built
// once so that the separator readers are not replayed across calls.
func (s *sourceFiles) combinedReader() io.Reader {
	if s.combined == nil {
		s.combined = io.MultiReader(s.readers()...)
	}

	return s.combined
}

// Read implements io.Reader by reading from all source files in order,
// including stdin if present.
func (s *sourceFiles) Read(p []byte) (n int, err error) {
	return s.combinedReader().Read(p)
}

// WriteTo implements io.WriterTo by writing all source files to w in
// order, including stdin if present.
func (s *sourceFiles) WriteTo(w io.Writer) (n int64, err error) {
	return io.Copy(w, s.combinedReader())
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths,
// and special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context containing an
// [io.Reader] that reads from the given source files.
//
// The function deduplicates readers by resolving symlinks and comparing
// device/inode pairs. All occurrences of "-" are replaced with a single
// stdin reader. The stdin reader is placed last so it reads after all
// regular files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

// buildSourceFiles constructs a SourceFiles from the given source
// paths. It deduplicates readers by resolving symlinks and comparing
// device/inode pairs. All occurrences of "-" are replaced with a single
// stdin reader placed last so it reads after all regular files.
func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.read = make([]io.Reader, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		reader, ok := openUniqueFile(src, seen)
		if !ok {
			continue
		}

		srcs.read = append(srcs.read, reader)
	}

	// Stdin may have been included via "-" or as a named file.
	// Both are represented by stdinKey in seen.
	_, srcs.hasStdin = seen[stdinKey]
	delete(seen, stdinKey)

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// Returns the opened file and true if successful, or nil and false if
// the file is a duplicate or cannot be opened.
func openUniqueFile(path string, seen map[fileKey]struct{}) (io.Reader, bool) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false
	}

	// Get file info to extract device and inode.
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return nil, false
	}

	if _, exists := seen[key]; exists {
		return nil, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false
	}

	return file, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type
// *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}

// sourceFilesFrom retrieves the io.Reader stored in ctx by
// WithSourceFiles. Returns nil if no reader was stored.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}
