package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

type (
	Logger struct {
		zerolog.Logger
	}

	LoggerOptions struct {
		Debug bool
	}

	logLevel string
)

const (
	DebugLevel logLevel = "DEBUG"
	InfoLevel  logLevel = "INFO"
	WarnLevel  logLevel = "WARN"
	ErrorLevel logLevel = "ERROR"
)

// Nop returns a Logger that discards everything written to it, for use as
// a zero-configuration default before a caller opts into real output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

func NewLogger(options LoggerOptions) *Logger {
	var output io.Writer = os.Stdout
	var logLevel = zerolog.InfoLevel
	if options.Debug {
		logLevel = zerolog.DebugLevel
	}

	zerolog.TimestampFieldName = "T"
	zerolog.LevelFieldName = "L"
	zerolog.MessageFieldName = "M"
	zerolog.LevelDebugValue = string(DebugLevel)
	zerolog.LevelInfoValue = string(InfoLevel)
	zerolog.LevelWarnValue = string(WarnLevel)
	zerolog.LevelErrorValue = string(ErrorLevel)

	logger := zerolog.New(output).
		Level(logLevel).
		With().
		Timestamp().
		Logger()

	return &Logger{logger}
}

// SpawnForFacade tags every subsequent log line with which simulator facade
// (statevector/densityoperator/noisy) emitted it.
func (l *Logger) SpawnForFacade(facade string) *Logger {
	return &Logger{l.With().Str("facade", facade).Logger()}
}

// SpawnForShot tags every subsequent log line with a shot count (or index)
// and a per-run identifier, mirroring the teacher's request-scoped logger.
func (l *Logger) SpawnForShot(shots int, runID string) *Logger {
	return &Logger{l.With().Int("shots", shots).Str("runID", runID).Logger()}
}
