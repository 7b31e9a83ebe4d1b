// Package depfile turns xsltproc's load trace into a Makefile-style dependency file.
package depfile

import (
	"bufio"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// Trace is the parsed result of a load trace
type Trace struct {
	// Deps lists every referenced local document, in the order it was first loaded
	Deps []string
	// Diagnostics holds stderr lines that aren't part of the trace (warnings, messages from the stylesheet)
	Diagnostics []string
	// Excluded counts the lines dropped by the filter
	Excluded int
}

// ParseTrace reads a load trace as printed by "xsltproc --load-trace", one document per line:
//
//	Loaded URL="postgres.sgml" ID="(null)"
//
// The dependency is the first double-quoted value on each line.
func ParseTrace(r io.Reader, filter *Filter) (Trace, error) {
	result := Trace{
		Deps: make([]string, 0),
	}
	seen := make(map[string]bool)

	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return result, eris.Wrap(err, "failed to read load trace")
		}

		result.add(strings.TrimRight(line, "\r\n"), filter, seen)

		if err == io.EOF {
			return result, nil
		}
	}
}

func (t *Trace) add(line string, filter *Filter, seen map[string]bool) {
	if line == "" {
		return
	}

	if filter.Excluded(line) {
		t.Excluded++
		return
	}

	path, ok := quotedValue(line)
	if !ok {
		t.Diagnostics = append(t.Diagnostics, line)
		return
	}

	if !seen[path] {
		seen[path] = true
		t.Deps = append(t.Deps, path)
	}
}

func quotedValue(line string) (string, bool) {
	start := strings.IndexByte(line, '"')
	if start == -1 {
		return "", false
	}

	end := strings.IndexByte(line[start+1:], '"')
	if end < 1 {
		return "", false
	}

	return line[start+1 : start+1+end], true
}
