package cmd

import (
	"bytes"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleWriterPlain(t *testing.T) {
	var out bytes.Buffer
	logger := zerolog.New(NewConsoleWriter(&out, false, false))

	logger.Warn().Str("depfile", "html.d").Msg("something odd")
	assert.Equal(t, "xsltdep: something odd\n", out.String())
}

func TestConsoleWriterError(t *testing.T) {
	setErrorMarshaler(false)

	var out bytes.Buffer
	logger := zerolog.New(NewConsoleWriter(&out, false, false))

	logger.Error().Err(eris.New("boom")).Msg("Failed to run xsltproc")
	assert.Contains(t, out.String(), "xsltdep: Error: Failed to run xsltproc\n")
	assert.Contains(t, out.String(), "boom")
}

func TestConsoleWriterColor(t *testing.T) {
	var out bytes.Buffer
	logger := zerolog.New(NewConsoleWriter(&out, true, false))

	logger.Error().Msg("failed")
	assert.Contains(t, out.String(), "\x1b[31m")
}

func TestConsoleWriterVerbose(t *testing.T) {
	var out bytes.Buffer
	logger := zerolog.New(NewConsoleWriter(&out, false, true))

	logger.Info().Int("deps", 3).Msg("depfile written")
	assert.Contains(t, out.String(), "deps: 3")
}

func TestConsoleWriterInvalidEvent(t *testing.T) {
	var out bytes.Buffer
	w := NewConsoleWriter(&out, false, false)

	_, err := w.Write([]byte("not json"))
	require.Error(t, err)
	assert.Empty(t, out.String())
}
