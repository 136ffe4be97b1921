package logger

import (
	"os"
	"time"

	"hostel/config"
	"hostel/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// InitLogger installs a human-readable console logger at trace level. SetLogLevel
// narrows it once the configuration is known.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

// ErrorWithStack logs err with the stack of the caller attached.
func ErrorWithStack(err error) {
	log.Error().Stack().Err(errors.WithStack(err)).Msg(err.Error())
}

// SetLogLevel applies SERVER_LOG_LEVEL. Production switches to JSON lines tagged with the
// app name and environment.
func SetLogLevel(config *config.Config) {
	if config.Server.Env == constant.ServerEnvProduction {
		log.Logger = zerolog.New(os.Stdout).With().
			Timestamp().
			Str("app", config.App.Name).
			Str("env", config.Server.Env).
			Logger()
	}

	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
	}

	zerolog.SetGlobalLevel(level)
	log.Trace().Str("loglevel", level.String()).Bool("fallback", err != nil).Msg("Log level applied.")
}
