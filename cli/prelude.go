package cli

import (
	"os"
)

// basePrelude is the name of the optional per-user prelude file in the
// configuration directory. Definitions it contains are evaluated before
// any other input.
const basePrelude = "prelude.rubber"

// prelude prepends the user prelude file to sources when enabled and
// the file exists.
func prelude(sources []string, enabled bool) []string {
	if !enabled {
		return sources
	}

	path := configPath(basePrelude)
	if _, err := os.Stat(path); err != nil {
		return sources
	}

	return append([]string{path}, sources...)
}
