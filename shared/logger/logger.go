package logger

import (
	"io"
	"os"
	"salonbook/config"
	"salonbook/shared/constant"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultLevel = zerolog.TraceLevel

// InitLogger installs a human readable console logger. It runs before the
// configuration is loaded, so everything is logged until Configure narrows it.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(defaultLevel)

	log.Logger = log.Output(console(os.Stdout))
	log.Trace().Msg("Zerolog initialized.")
}

func console(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
}

// ErrorWithStack logs err with the stack of the caller attached.
func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil {
		log.Trace().Str("loglevel", config.Server.LogLevel).Msg("Unknown log level, keeping trace.")

		level = defaultLevel
	}

	zerolog.SetGlobalLevel(level)
}

// Configure applies the configured level. In production the console writer is
// replaced by JSON lines tagged with the application name.
func Configure(config *config.Config) {
	SetLogLevel(config)

	if config.Server.Env != constant.ServerEnvProduction {
		return
	}

	log.Logger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("app", config.App.Name).
		Logger()
}
