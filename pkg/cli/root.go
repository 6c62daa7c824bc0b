package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"
	"github.com/mywio/odyssey-build/pkg/config"
	"github.com/mywio/odyssey-build/pkg/version"
)

// Represents the root command.
type RootCmd struct {
	Quiet   bool       `short:"q" help:"Only log warnings and errors."`
	Verbose bool       `short:"v" help:"Include source locations in log records."`
	Debug   bool       `short:"d" help:"Enable debug logging."`
	Config  string     `short:"c" env:"BUILD_CONFIG" default:"${config_file}" help:"Path to the YAML config file." placeholder:"PATH"`
	Build   BuildCmd   `cmd:"" default:"withargs" help:"Stage the front-end into the output directory."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Runtime carries the process streams and logger into subcommands.
type Runtime struct {
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	ConfigPath string
}

// Parses args, configures logging, and runs the selected subcommand.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer, opts ...kong.Option) error {
	var root RootCmd

	options := append([]kong.Option{
		kong.Name(version.Name),
		kong.Description("Injects the API key into the front-end template and stages the site for deployment."),
		kong.Writers(stdout, stderr),
		kong.Vars{
			"version":     version.String(),
			"config_file": config.DefaultConfigFile,
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	}, opts...)

	parser, err := kong.New(&root, options...)
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, root)
	slog.SetDefault(logger)

	return kongCtx.Run(&Runtime{
		Stdout:     stdout,
		Stderr:     stderr,
		Logger:     logger,
		ConfigPath: root.Config,
	})
}

// Builds the logger from the global flags.
func newLogger(w io.Writer, root RootCmd) *slog.Logger {
	level := slog.LevelInfo
	if root.Debug {
		level = slog.LevelDebug
	} else if root.Quiet {
		level = slog.LevelWarn
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: root.Verbose,
	})
	return slog.New(handler).With("app", version.Name)
}
