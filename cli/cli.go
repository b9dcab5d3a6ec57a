package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/rogeriochaves/rubber/cli/cmd"
	"github.com/rogeriochaves/rubber/lang"
	"github.com/rogeriochaves/rubber/pkg"
)

// CLI is the top-level command-line interface for rubber.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Source   []string `help:"Source file(s) evaluated before command input ('-' for stdin)" name:"source" short:"s"`
	MaxDepth int      `default:"${maxDepth}" help:"Maximum function call depth during evaluation"`
	Prelude  bool     `default:"true" help:"Load definitions from the user prelude file" negatable:""`

	Init    cmd.Init    `cmd:"" help:"Write a configuration file populated with current flag values"`
	Fmt     cmd.Fmt     `cmd:"" help:"Reformat programs or dump their syntax trees"`
	Repl    cmd.Repl    `cmd:"" help:"Start an interactive session"`
	Version cmd.Version `cmd:"" help:"Print the version and exit"`

	Run cmd.Run `cmd:"" default:"withargs" help:"Evaluate programs and print their results"`
}

// Run executes the rubber CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon
// completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".json")

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so the logger is configured before Kong
	// parses, regardless of flag position. TextUnmarshaler on logFormat
	// and logLevel handles those flags during normal parsing, but the
	// early scan also catches boolean flags like --log-pretty.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values, including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// Stuff additional context values for use by commands.
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, prelude(cli.Source, cli.Prelude))
	ctx = cmd.WithMaxDepth(ctx, cli.MaxDepth)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	stop := cli.Pprof.start(ctx)
	defer stop()

	// Execute the selected command.
	return ktx.Run(ctx, &cli)
}
