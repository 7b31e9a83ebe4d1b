// Package cmd implements the xsltdep command line interface
package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ngld/xsltdep/pkg/config"
	"github.com/ngld/xsltdep/pkg/depfile"
	"github.com/ngld/xsltdep/pkg/wrapper"
)

var version = "dev"

type rootOptions struct {
	xsltproc   string
	targets    []string
	depfile    string
	exclude    []string
	configFile string
	dryRun     bool
}

type rootEnv struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	fs     afero.Fs
	logger *zerolog.Logger
}

func newRootCmd(env *rootEnv) *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "xsltdep --xsltproc <path> [flags] [--] [xsltproc arguments...]",
		Short: "Runs xsltproc and records the documents it loads in a depfile",
		Long: `Runs xsltproc with the passed arguments and exits with its exit code.

If --depfile is passed, xsltproc's load trace is captured and every local document
it loaded is written to the depfile as a dependency of the --targetname targets.
Everything after the first positional argument or "--" is passed to xsltproc unchanged.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd.Context(), env, opts, args)
		},
	}

	flags := rootCmd.Flags()
	flags.SetInterspersed(false)
	flags.StringVar(&opts.xsltproc, "xsltproc", "", "path to the xsltproc executable (required unless set in the config)")
	flags.StringArrayVar(&opts.targets, "targetname", nil, "build target(s) the generated dependencies belong to")
	flags.StringVar(&opts.depfile, "depfile", "", "write a depfile listing the documents xsltproc loaded")
	flags.StringArrayVar(&opts.exclude, "exclude", nil, "ignore trace lines matching this glob (in addition to the configured ones)")
	flags.StringVar(&opts.configFile, "config", "", "config file to load")
	flags.BoolVarP(&opts.dryRun, "dry", "n", false, "dry run; only print the command, don't execute anything")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})
	rootCmd.SetIn(env.stdin)
	rootCmd.SetOut(env.stdout)
	rootCmd.SetErr(env.stderr)

	return rootCmd
}

func runRoot(ctx context.Context, env *rootEnv, opts *rootOptions, args []string) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return &UsageError{Err: err}
	}
	*env.logger = newLogger(env.stderr, cfg)

	executable := opts.xsltproc
	if executable == "" {
		executable = cfg.Xsltproc
	}
	if executable == "" {
		return &UsageError{Err: eris.New("--xsltproc is required")}
	}

	if opts.depfile != "" && len(opts.targets) == 0 {
		return &UsageError{Err: depfile.ErrNoTargets}
	}

	patterns := make([]string, 0, len(cfg.Trace.Exclude)+len(opts.exclude))
	patterns = append(patterns, cfg.Trace.Exclude...)
	patterns = append(patterns, opts.exclude...)
	filter, err := depfile.NewFilter(patterns...)
	if err != nil {
		return &UsageError{Err: err}
	}

	ctx = wrapper.WithLogger(ctx, env.logger)
	code, err := wrapper.Run(ctx, wrapper.Options{
		Executable: executable,
		Args:       args,
		TraceFlag:  cfg.Trace.Flag,
		Depfile:    opts.depfile,
		Targets:    opts.targets,
		Filter:     filter,
		DryRun:     opts.dryRun,
		Fs:         env.fs,
		Stdin:      env.stdin,
		Stdout:     env.stdout,
		Stderr:     env.stderr,
	})
	if err != nil {
		return err
	}

	if code != ExitSuccess {
		return &ExitError{Code: code}
	}
	return nil
}

// Execute runs xsltdep with the passed arguments (without the program name) and returns the exit code
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return execute(ctx, args, &rootEnv{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		fs:     afero.NewOsFs(),
	})
}

func execute(ctx context.Context, args []string, env *rootEnv) int {
	logger := bootstrapLogger(env.stderr)
	env.logger = &logger

	rootCmd := newRootCmd(env)
	rootCmd.SetArgs(normalizeArgs(rootCmd.Flags(), args))

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		env.logger.Error().Err(usageErr.Err).Msg("Invalid arguments (see --help)")
		return ExitUsage
	}

	env.logger.Error().Err(err).Msg("Failed to run xsltproc")
	return ExitFailure
}
