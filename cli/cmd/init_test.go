package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

// TestInitRun tests the Init.Run command.
func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		setup   func(t *testing.T, path string) // setup function to prepare test
		wantErr error
	}{
		{
			name:  "create_new_config",
			force: false,
			setup: nil, // no pre-existing file
		},
		{
			name:  "overwrite_existing_with_force",
			force: true,
			setup: func(t *testing.T, path string) {
				// Create existing file
				if err := os.WriteFile(path, []byte("existing content"), 0644); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name:  "fail_without_force",
			force: false,
			setup: func(t *testing.T, path string) {
				// Create existing file
				if err := os.WriteFile(path, []byte("existing content"), 0644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: ErrFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Create temp directory for config
			tmpDir, err := os.MkdirTemp("", "rubber-init-test-*")
			if err != nil {
				t.Fatal(err)
			}
			defer os.RemoveAll(tmpDir)

			confPath := filepath.Join(tmpDir, "config.json")

			// Run setup if provided
			if tt.setup != nil {
				tt.setup(t, confPath)
			}

			// Create a Kong context with vars
			var cli struct{}
			parser, err := kong.New(&cli, kong.Vars{
				ConfigIdentifier: confPath,
			})
			if err != nil {
				t.Fatal(err)
			}

			kctx, err := parser.Parse(nil)
			if err != nil {
				t.Fatal(err)
			}

			// Create context with kong context
			ctx := WithContext(context.Background(), kctx)

			// Run init command
			initCmd := &Init{Force: tt.force}
			err = initCmd.Run(ctx)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Errorf("Init.Run() unexpected error = %v", err)
				return
			}

			// Verify file was created if no error expected
			if _, err := os.Stat(confPath); os.IsNotExist(err) {
				t.Error("Init.Run() did not create config file")
			}

			// Verify file content is valid JSON for kong's config loader
			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var decoded map[string]any
			if err := json.Unmarshal(content, &decoded); err != nil {
				t.Errorf("Generated config is not valid JSON: %v", err)
			}
		})
	}
}

// TestInitFlagValues tests that flagValues collects set flags and skips
// empty and internal ones.
func TestInitFlagValues(t *testing.T) {
	t.Parallel()

	var cli struct {
		Verbose bool     `name:"verbose" help:"Enable verbose output"`
		Output  string   `name:"output" help:"Output file"`
		Count   int      `name:"count" help:"Number of items"`
		Tags    []string `name:"tags" help:"Tag list"`
		Empty   string   `name:"empty" help:"Unset string"`
		Secret  string   `name:"secret" hidden:""`
	}

	parser, err := kong.New(&cli)
	if err != nil {
		t.Fatal(err)
	}

	kctx, err := parser.Parse([]string{
		"--verbose",
		"--output=test.txt",
		"--count=5",
		"--tags=a,b",
	})
	if err != nil {
		t.Fatal(err)
	}

	values := flagValues(kctx)

	if values == nil {
		t.Fatal("flagValues() returned nil")
	}

	for _, name := range []string{"verbose", "output", "count", "tags"} {
		if _, ok := values[name]; !ok {
			t.Errorf("flagValues() missing %q", name)
		}
	}

	// Unset strings, hidden flags, and kong's help flag are not
	// persisted.
	for _, name := range []string{"empty", "secret", "help"} {
		if _, ok := values[name]; ok {
			t.Errorf("flagValues() should not contain %q", name)
		}
	}
}

// TestInitWithInvalidPath tests init with an invalid file path.
func TestInitWithInvalidPath(t *testing.T) {
	t.Parallel()

	// Use an invalid path (directory that doesn't exist)
	invalidPath := "/nonexistent/directory/config.json"

	// Create a Kong context with vars
	var cli struct{}
	parser, err := kong.New(&cli, kong.Vars{
		ConfigIdentifier: invalidPath,
	})
	if err != nil {
		t.Fatal(err)
	}

	kctx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithContext(context.Background(), kctx)

	// Run init command
	initCmd := &Init{Force: false}
	err = initCmd.Run(ctx)

	// Should fail because directory doesn't exist
	if err == nil {
		t.Error("Init.Run() expected error for invalid path, got nil")
	}
}

// TestInitFormatOutput tests that init generates properly formatted output.
func TestInitFormatOutput(t *testing.T) {
	t.Parallel()

	// Create temp directory
	tmpDir, err := os.MkdirTemp("", "rubber-init-format-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	confPath := filepath.Join(tmpDir, "config.json")

	// Create a Kong context with vars
	var cli struct {
		Test string `name:"test" help:"Test flag"`
	}
	parser, err := kong.New(&cli, kong.Vars{
		ConfigIdentifier: confPath,
	})
	if err != nil {
		t.Fatal(err)
	}

	kctx, err := parser.Parse([]string{"--test=value"})
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithContext(context.Background(), kctx)

	// Run init command
	initCmd := &Init{Force: false}
	err = initCmd.Run(ctx)
	if err != nil {
		t.Fatalf("Init.Run() unexpected error = %v", err)
	}

	// Read generated content
	content, err := os.ReadFile(confPath)
	if err != nil {
		t.Fatal(err)
	}

	output := string(content)

	var decoded map[string]any
	if err := json.Unmarshal(content, &decoded); err != nil {
		t.Fatalf("Generated config is not valid JSON: %v", err)
	}

	if got, ok := decoded["test"]; !ok || got != "value" {
		t.Errorf("Generated config test = %v, want %q", got, "value")
	}

	// Verify proper indentation (should be 2 spaces by default)
	if !strings.Contains(output, strings.Repeat(" ", defaultConfigIndent)) {
		t.Error("Output missing expected indentation")
	}
}
