package cmd

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/rogeriochaves/rubber/log"
	"github.com/rogeriochaves/rubber/profile"
)

// defaultConfigIndent is the number of spaces used for indentation when
// generating the configuration file.
const defaultConfigIndent = 2

// Init writes a configuration file populated with the current values of
// every global flag. Kong reads the file back on later runs, so flags
// given alongside init become persistent defaults.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: configuration path undefined")
	}

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	buf, err := json.MarshalIndent(
		flagValues(ktx),
		"",
		strings.Repeat(" ", defaultConfigIndent),
	)
	if err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	err = os.WriteFile(confPath, append(buf, '\n'), 0o600)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// flagValues collects the current value of every configurable global
// flag, keyed by flag name as kong's JSON loader expects.
func flagValues(ktx *kong.Context) map[string]any {
	prefixIgnore := []string{"help", profile.Tag}

	values := make(map[string]any)

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := ktx.FlagValue(flag)
		if val == nil {
			continue
		}

		switch v := val.(type) {
		case string:
			if v == "" {
				continue
			}
		case []string:
			if len(v) == 0 {
				continue
			}
		}

		values[flag.Name] = val
	}

	return values
}
