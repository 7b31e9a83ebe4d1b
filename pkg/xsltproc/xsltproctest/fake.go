// Package xsltproctest provides a scriptable stand-in for xsltproc.
package xsltproctest

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"mvdan.cc/sh/v3/syntax"
)

// Fake describes how the fake xsltproc behaves
type Fake struct {
	// Trace is printed to stderr if the first argument is TraceFlag
	Trace     []string
	TraceFlag string
	Stdout    string
	// Stderr is always printed, after the trace
	Stderr   string
	ExitCode int
}

// Tool is an installed fake
type Tool struct {
	Path     string
	argsFile string
}

// Install writes a shell script implementing fake to a temporary directory
func Install(t testing.TB, fake Fake) *Tool {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("the fake xsltproc is a POSIX shell script")
	}

	dir := t.TempDir()
	tool := &Tool{
		Path:     filepath.Join(dir, "xsltproc"),
		argsFile: filepath.Join(dir, "args.txt"),
	}

	traceFlag := fake.TraceFlag
	if traceFlag == "" {
		traceFlag = "--load-trace"
	}

	var script strings.Builder
	script.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&script, ": > %s\n", quote(t, tool.argsFile))
	fmt.Fprintf(&script, "for arg in \"$@\"; do printf '%%s\\n' \"$arg\" >> %s; done\n", quote(t, tool.argsFile))
	// payloads live in files so that they reach the caller byte for byte
	if len(fake.Trace) > 0 {
		tracePath := writePayload(t, dir, "trace.txt", strings.Join(fake.Trace, "\n")+"\n")
		fmt.Fprintf(&script, "if [ \"$1\" = %s ]; then cat %s >&2; fi\n", quote(t, traceFlag), quote(t, tracePath))
	}
	if fake.Stdout != "" {
		stdoutPath := writePayload(t, dir, "stdout.txt", fake.Stdout)
		fmt.Fprintf(&script, "cat %s\n", quote(t, stdoutPath))
	}
	if fake.Stderr != "" {
		stderrPath := writePayload(t, dir, "stderr.txt", fake.Stderr)
		fmt.Fprintf(&script, "cat %s >&2\n", quote(t, stderrPath))
	}
	fmt.Fprintf(&script, "exit %d\n", fake.ExitCode)

	err := os.WriteFile(tool.Path, []byte(script.String()), 0755)
	if err != nil {
		t.Fatalf("failed to write fake xsltproc: %v", err)
	}

	return tool
}

// Args returns the arguments of the last run or nil if the tool never ran
func (tool *Tool) Args(t testing.TB) []string {
	t.Helper()

	data, err := os.ReadFile(tool.argsFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("failed to read recorded arguments: %v", err)
	}

	content := strings.TrimSuffix(string(data), "\n")
	if content == "" {
		return []string{}
	}
	return strings.Split(content, "\n")
}

// Ran reports whether the tool has been executed
func (tool *Tool) Ran() bool {
	_, err := os.Stat(tool.argsFile)
	return err == nil
}

func writePayload(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func quote(t testing.TB, s string) string {
	quoted, err := syntax.Quote(s, syntax.LangPOSIX)
	if err != nil {
		t.Fatalf("can't quote %q: %v", s, err)
	}
	return quoted
}
