// Package wrapper ties the xsltproc runner and the depfile generator together.
package wrapper

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"

	"github.com/ngld/xsltdep/pkg/depfile"
	"github.com/ngld/xsltdep/pkg/xsltproc"
)

// Options configures a single wrapped xsltproc run
type Options struct {
	Executable string
	Args       []string
	TraceFlag  string

	// Depfile enables dependency tracking when set. Targets must not be empty in that case.
	Depfile string
	Targets []string
	Filter  *depfile.Filter

	// DryRun prints the command line to Stdout instead of running it
	DryRun bool

	Fs     afero.Fs
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (o Options) invocation() xsltproc.Invocation {
	return xsltproc.Invocation{
		Executable: o.Executable,
		Args:       o.Args,
		Trace:      o.Depfile != "",
		TraceFlag:  o.TraceFlag,
		Stdin:      o.Stdin,
		Stdout:     o.Stdout,
		Stderr:     o.Stderr,
	}
}

// Run executes xsltproc as described by opts and returns its exit code. The returned error is only
// set if the wrapper itself failed; a failing xsltproc is reported through the exit code alone.
func Run(ctx context.Context, opts Options) (int, error) {
	if opts.Depfile != "" && len(opts.Targets) == 0 {
		return 0, depfile.ErrNoTargets
	}

	inv := opts.invocation()
	log(ctx).Debug().
		Bool("trace", inv.Trace).
		Msgf("running %s", inv.CommandLine())

	if opts.DryRun {
		_, err := fmt.Fprintln(opts.Stdout, inv.CommandLine())
		return 0, eris.Wrap(err, "failed to print command")
	}

	result, err := xsltproc.Run(ctx, inv)
	if err != nil {
		return 0, err
	}

	if !inv.Trace {
		return result.ExitCode, nil
	}

	if result.ExitCode != 0 {
		log(ctx).Debug().
			Int("code", result.ExitCode).
			Str("depfile", opts.Depfile).
			Msg("xsltproc failed, skipping depfile")

		// the trace is mixed with the actual error messages so pass everything on
		_, err = io.WriteString(opts.Stderr, result.Stderr)
		if err != nil {
			log(ctx).Warn().Err(err).Msg("failed to forward xsltproc output")
		}
		return result.ExitCode, nil
	}

	trace, err := depfile.ParseTrace(strings.NewReader(result.Stderr), opts.Filter)
	if err != nil {
		return 0, err
	}

	for _, line := range trace.Diagnostics {
		_, err = fmt.Fprintln(opts.Stderr, line)
		if err != nil {
			log(ctx).Warn().Err(err).Msg("failed to forward xsltproc output")
			break
		}
	}

	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	err = depfile.Write(fs, opts.Depfile, opts.Targets, trace.Deps)
	if err != nil {
		return 0, eris.Wrapf(err, "failed to write depfile %s", opts.Depfile)
	}

	log(ctx).Debug().
		Str("depfile", opts.Depfile).
		Strs("targets", opts.Targets).
		Int("deps", len(trace.Deps)).
		Int("excluded", trace.Excluded).
		Msg("depfile written")

	return 0, nil
}
