// Package cmd implements the subcommands of the rubber command-line
// tool.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the
	// path to the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the
	// path to the configuration file.
	ConfigIdentifier = "config"
)
