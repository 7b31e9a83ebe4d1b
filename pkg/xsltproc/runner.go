// Package xsltproc runs the XSLT processor either transparently or with its load trace captured.
package xsltproc

import (
	"context"
	"io"
	"strconv"
	"strings"

	execute "github.com/alexellis/go-execute/v2"
	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/syntax"
)

// DefaultTraceFlag makes xsltproc print every document it loads to stderr
const DefaultTraceFlag = "--load-trace"

// Invocation describes a single xsltproc run
type Invocation struct {
	Executable string
	Args       []string
	// Trace enables the load trace and captures stderr instead of forwarding it
	Trace     bool
	TraceFlag string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Result holds the outcome of a finished run. Stderr is only populated in trace mode.
type Result struct {
	ExitCode int
	Stderr   string
}

// Argv returns the full command line including the executable
func (inv Invocation) Argv() []string {
	argv := make([]string, 0, len(inv.Args)+2)
	argv = append(argv, inv.Executable)
	if inv.Trace {
		flag := inv.TraceFlag
		if flag == "" {
			flag = DefaultTraceFlag
		}
		argv = append(argv, flag)
	}

	return append(argv, inv.Args...)
}

// CommandLine renders Argv as a single shell-quoted string
func (inv Invocation) CommandLine() string {
	argv := inv.Argv()
	parts := make([]string, len(argv))
	for idx, arg := range argv {
		// bash quoting covers control characters through $'...'
		quoted, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			// NUL bytes can't be passed as an argument anyway
			quoted = strconv.Quote(arg)
		}
		parts[idx] = quoted
	}

	return strings.Join(parts, " ")
}

func (inv Invocation) validate() error {
	if inv.Executable == "" {
		return eris.New("no xsltproc executable given")
	}

	// go-execute splits commands on spaces
	if strings.ContainsAny(inv.Executable, " \t\n") {
		return eris.Errorf("xsltproc path %q must not contain whitespace", inv.Executable)
	}

	return nil
}

// Run executes the invocation and waits for it to finish. A non-zero exit status
// is reported through Result.ExitCode, not as an error.
func Run(ctx context.Context, inv Invocation) (Result, error) {
	if err := inv.validate(); err != nil {
		return Result{}, err
	}

	argv := inv.Argv()
	task := execute.ExecTask{
		Command:      argv[0],
		Args:         argv[1:],
		Stdin:        inv.Stdin,
		StdOutWriter: writerOrDiscard(inv.Stdout),
	}

	// in trace mode stderr only goes to go-execute's internal buffer
	if !inv.Trace {
		task.StdErrWriter = writerOrDiscard(inv.Stderr)
		task.DisableStdioBuffer = true
	}

	res, err := task.Execute(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{ExitCode: res.ExitCode}, eris.Wrapf(ctxErr, "%s was interrupted", inv.Executable)
	}
	if err != nil {
		return Result{}, eris.Wrapf(err, "failed to run %s", inv.Executable)
	}

	result := Result{ExitCode: res.ExitCode}
	if result.ExitCode < 0 {
		// killed by a signal
		result.ExitCode = 1
	}
	if inv.Trace {
		result.Stderr = res.Stderr
	}

	return result, nil
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
