package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug        bool   `split_words:"true" default:"false"`
	PrettyFormat bool   `split_words:"true" default:"false"`
	Service      string `split_words:"true" default:"bearing-assistant"`
}

var DefaultConfig = &Config{
	Service: "bearing-assistant",
}

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

// Init replaces the global logger and makes it the fallback for log.Ctx on
// contexts that carry no request logger.
func Init(opts ...Config) {
	log.Logger = New(os.Stdout, opts...)
	zerolog.DefaultContextLogger = &log.Logger
}

func New(w io.Writer, opts ...Config) zerolog.Logger {
	conf := safe(opts...)

	if conf.PrettyFormat {
		w = zerolog.ConsoleWriter{Out: w}
	}

	level := zerolog.InfoLevel
	if conf.Debug {
		level = zerolog.DebugLevel
	}

	lc := zerolog.New(w).Level(level).With().Timestamp()
	if conf.Service != "" {
		lc = lc.Str("service", conf.Service)
	}
	return lc.Caller().Stack().Logger()
}
