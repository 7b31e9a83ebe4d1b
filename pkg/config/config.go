package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/ngld/xsltdep/pkg/depfile"
)

// Config describes all configuration options
type Config struct {
	Xsltproc string `env:"XSLTPROC" toml:"xsltproc" usage:"Path to the xsltproc executable"`
	Debug    bool   `env:"DEBUG" toml:"debug" default:"false" usage:"Include stack traces in error messages"`
	Log      struct {
		Level string `env:"LEVEL" toml:"level" default:"warn"`
		JSON  bool   `env:"JSON" toml:"json" default:"false" usage:"Output JSONND instead of pretty console messages"`
		Color bool   `env:"COLOR" toml:"color" default:"true" usage:"Colorize console messages"`
	} `env:"LOG" toml:"log"`
	Trace struct {
		Flag    string   `env:"FLAG" toml:"flag" default:"--load-trace" usage:"xsltproc flag that prints each loaded document"`
		Exclude []string `env:"EXCLUDE" toml:"exclude" default:"*http:*,*https:*,*ftp:*" usage:"Trace lines matching these globs are ignored"`
	} `env:"TRACE" toml:"trace"`
}

var logLevels = map[string]zerolog.Level{
	"trace":   zerolog.TraceLevel,
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
}

// DefaultFiles lists the config files that are checked if no explicit file is passed
func DefaultFiles() []string {
	return []string{
		"xsltdep.toml",
		filepath.Join(xdg.ConfigHome, "xsltdep", "config.toml"),
	}
}

// Loader initializes an empty config object and returns a new Loader for this object.
// If file is empty, DefaultFiles() are used.
func Loader(file string) (*Config, *aconfig.Loader) {
	files := DefaultFiles()
	if file != "" {
		files = []string{file}
	}

	cfg := Config{}
	return &cfg, aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "XSLTDEP",
		SkipFlags: true,
		// other tools may share the prefix
		AllowUnknownEnvs: true,
		Files:            files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
		},
	})
}

// Load reads the configuration from the environment and the first config file found
func Load(file string) (*Config, error) {
	if file != "" {
		_, err := os.Stat(file)
		if err != nil {
			return nil, eris.Wrapf(err, "Could not open config file %s", file)
		}
	}

	cfg, loader := Loader(file)
	if err := loader.Load(); err != nil {
		return nil, eris.Wrap(err, "Failed to load config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate verifies that all config fields have valid values
func (cfg *Config) Validate() error {
	_, ok := logLevels[cfg.Log.Level]
	if !ok {
		return eris.Errorf(`Invalid value for log.level: %s`, cfg.Log.Level)
	}

	if !strings.HasPrefix(cfg.Trace.Flag, "-") {
		return eris.Errorf(`Invalid value for trace.flag: %s (must start with "-")`, cfg.Trace.Flag)
	}

	if _, err := depfile.NewFilter(cfg.Trace.Exclude...); err != nil {
		return eris.Wrap(err, `Invalid value for trace.exclude`)
	}

	return nil
}

// LogLevel converts the .Log.Level field to a zerolog.Level
func (cfg *Config) LogLevel() zerolog.Level {
	return logLevels[cfg.Log.Level]
}
