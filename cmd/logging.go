package cmd

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/ngld/xsltdep/pkg/config"
)

// bootstrapLogger is used until the config has been loaded
func bootstrapLogger(out io.Writer) zerolog.Logger {
	return zerolog.New(NewConsoleWriter(out, true, false)).Level(zerolog.WarnLevel)
}

func newLogger(out io.Writer, cfg *config.Config) zerolog.Logger {
	setErrorMarshaler(cfg.Debug)

	var logger zerolog.Logger
	if cfg.Log.JSON {
		logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(NewConsoleWriter(out, cfg.Log.Color, cfg.Debug))
	}

	return logger.Level(cfg.LogLevel())
}

func setErrorMarshaler(withTrace bool) {
	zerolog.ErrorMarshalFunc = func(err error) interface{} {
		return eris.ToString(err, withTrace)
	}
}

func init() {
	setErrorMarshaler(os.Getenv("XSLTDEP_DEBUG") != "")
}
