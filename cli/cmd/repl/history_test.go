package repl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestHistoryWriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)

	if _, err := h.WriteWithMode("1 + 2", modeEval); err != nil {
		t.Fatalf("WriteWithMode() error = %v", err)
	}

	if _, err := h.WriteWithMode("list", modeCtrl); err != nil {
		t.Fatalf("WriteWithMode() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if got, want := string(data), "E:1 + 2\nC:list\n"; got != want {
		t.Errorf("history file = %q, want %q", got, want)
	}

	// A fresh instance must read the same entries back.
	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	entries := reloaded.Entries()
	if len(entries) != 2 {
		t.Fatalf("Entries() length = %d, want 2", len(entries))
	}

	if entries[0].Line != "1 + 2" || entries[0].Mode != modeEval {
		t.Errorf("entries[0] = %+v, want eval entry %q", entries[0], "1 + 2")
	}

	if entries[1].Line != "list" || entries[1].Mode != modeCtrl {
		t.Errorf("entries[1] = %+v, want ctrl entry %q", entries[1], "list")
	}
}

func TestHistoryDuplicateMovesToEnd(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	for _, line := range []string{"a = 1", "b = 2", "a = 1"} {
		if _, err := h.WriteWithMode(line, modeEval); err != nil {
			t.Fatalf("WriteWithMode(%q) error = %v", line, err)
		}
	}

	entries := h.Entries()
	if len(entries) != 2 {
		t.Fatalf("Entries() length = %d, want 2", len(entries))
	}

	if entries[0].Line != "b = 2" || entries[1].Line != "a = 1" {
		t.Errorf("entries = [%q, %q], want [%q, %q]",
			entries[0].Line, entries[1].Line, "b = 2", "a = 1")
	}
}

func TestHistorySkipsConsecutiveDuplicate(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	for range 2 {
		if _, err := h.WriteWithMode("x", modeEval); err != nil {
			t.Fatalf("WriteWithMode() error = %v", err)
		}
	}

	if got := h.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestHistorySameLineDifferentModes(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	if _, err := h.WriteWithMode("list", modeEval); err != nil {
		t.Fatalf("WriteWithMode() error = %v", err)
	}

	if _, err := h.WriteWithMode("list", modeCtrl); err != nil {
		t.Fatalf("WriteWithMode() error = %v", err)
	}

	// Same text in different modes is two distinct entries.
	if got := h.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestHistoryLoadMissingFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "does-not-exist"))

	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v, want nil for missing file", err)
	}

	if got := h.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}

func TestHistoryLoadLegacyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	if err := os.WriteFile(path, []byte("x + 1\nE:y * 2\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	entries := h.Entries()
	if len(entries) != 2 {
		t.Fatalf("Entries() length = %d, want 2", len(entries))
	}

	// Unprefixed legacy lines load as eval entries.
	if entries[0].Line != "x + 1" || entries[0].Mode != modeEval {
		t.Errorf("entries[0] = %+v, want legacy eval entry", entries[0])
	}
}

func TestHistoryGetEntryOutOfBounds(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	if _, err := h.GetEntry(0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("GetEntry(0) error = %v, want ErrOutOfBounds", err)
	}

	if _, err := h.GetEntry(-1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("GetEntry(-1) error = %v, want ErrOutOfBounds", err)
	}
}
