package xsltproc

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngld/xsltdep/pkg/xsltproc/xsltproctest"
)

var sampleTrace = []string{
	`Loaded URL="postgres.sgml" ID="(null)"`,
	`Loaded URL="http://www.oasis-open.org/docbook/xml/4.5/docbookx.dtd" ID="-//OASIS//DTD DocBook XML V4.5//EN"`,
}

func TestArgvWithoutTrace(t *testing.T) {
	inv := Invocation{
		Executable: "/usr/bin/xsltproc",
		Args:       []string{"--nonet", "stylesheet.xsl", "postgres.sgml"},
	}

	assert.Equal(t, []string{"/usr/bin/xsltproc", "--nonet", "stylesheet.xsl", "postgres.sgml"}, inv.Argv())
}

func TestArgvWithTrace(t *testing.T) {
	inv := Invocation{
		Executable: "xsltproc",
		Args:       []string{"a.xsl"},
		Trace:      true,
	}
	assert.Equal(t, []string{"xsltproc", "--load-trace", "a.xsl"}, inv.Argv())

	inv.TraceFlag = "--trace-loads"
	assert.Equal(t, []string{"xsltproc", "--trace-loads", "a.xsl"}, inv.Argv())
}

func TestCommandLineQuotesArguments(t *testing.T) {
	inv := Invocation{
		Executable: "xsltproc",
		Args:       []string{"--stringparam", "pg.version", "17 devel", "a.xsl"},
	}

	assert.Equal(t, `xsltproc --stringparam pg.version '17 devel' a.xsl`, inv.CommandLine())
}

func TestCommandLineQuotesControlCharacters(t *testing.T) {
	inv := Invocation{
		Executable: "xsltproc",
		Args:       []string{"--stringparam", "x", "a\nb", "a.xsl"},
	}

	assert.Equal(t, `xsltproc --stringparam x $'a\nb' a.xsl`, inv.CommandLine())
}

func TestRunRejectsEmptyExecutable(t *testing.T) {
	_, err := Run(context.Background(), Invocation{})
	assert.Error(t, err)
}

func TestRunRejectsWhitespaceInPath(t *testing.T) {
	_, err := Run(context.Background(), Invocation{Executable: "/opt/my tools/xsltproc"})
	assert.Error(t, err)
}

func TestRunPassThrough(t *testing.T) {
	tool := xsltproctest.Install(t, xsltproctest.Fake{
		Trace:  sampleTrace,
		Stdout: "<html/>",
		Stderr: "warning: something\n",
	})

	var stdout, stderr bytes.Buffer
	res, err := Run(context.Background(), Invocation{
		Executable: tool.Path,
		Args:       []string{"--nonet", "a.xsl", "b.xml"},
		Stdout:     &stdout,
		Stderr:     &stderr,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.Empty(t, res.Stderr)
	assert.Equal(t, "<html/>", stdout.String())
	assert.Equal(t, "warning: something\n", stderr.String())
	assert.Equal(t, []string{"--nonet", "a.xsl", "b.xml"}, tool.Args(t))
}

func TestRunTraceCapturesStderr(t *testing.T) {
	tool := xsltproctest.Install(t, xsltproctest.Fake{
		Trace:  sampleTrace,
		Stdout: "<html/>",
	})

	var stdout, stderr bytes.Buffer
	res, err := Run(context.Background(), Invocation{
		Executable: tool.Path,
		Args:       []string{"a.xsl"},
		Trace:      true,
		Stdout:     &stdout,
		Stderr:     &stderr,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, sampleTrace[0]+"\n"+sampleTrace[1]+"\n", res.Stderr)
	assert.Equal(t, "<html/>", stdout.String())
	assert.Empty(t, stderr.String())
	assert.Equal(t, []string{"--load-trace", "a.xsl"}, tool.Args(t))
}

func TestRunReportsExitCode(t *testing.T) {
	tool := xsltproctest.Install(t, xsltproctest.Fake{ExitCode: 6})

	for _, trace := range []bool{false, true} {
		res, err := Run(context.Background(), Invocation{
			Executable: tool.Path,
			Trace:      trace,
		})
		require.NoError(t, err)
		assert.Equal(t, 6, res.ExitCode)
	}
}

func TestRunMissingExecutable(t *testing.T) {
	_, err := Run(context.Background(), Invocation{
		Executable: "/nonexistent/xsltproc",
	})
	assert.Error(t, err)
}

func TestRunCancelledContext(t *testing.T) {
	tool := xsltproctest.Install(t, xsltproctest.Fake{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Invocation{Executable: tool.Path})
	assert.Error(t, err)
	assert.False(t, tool.Ran())
}
