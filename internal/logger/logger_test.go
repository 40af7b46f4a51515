package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerDefaultsToInfoLevel(t *testing.T) {
	l := NewLogger(LoggerOptions{})
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
}

func TestNewLoggerDebugOptionEnablesDebugLevel(t *testing.T) {
	l := NewLogger(LoggerOptions{Debug: true})
	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())
}

func TestNopDiscardsEverything(t *testing.T) {
	l := Nop()
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}

func bufLogger(buf *bytes.Buffer) *Logger {
	return &Logger{zerolog.New(buf)}
}

func TestSpawnForFacadeTagsSubsequentLines(t *testing.T) {
	var buf bytes.Buffer
	l := bufLogger(&buf).SpawnForFacade("statevector")
	l.Info().Msg("ready")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "statevector", line["facade"])
}

func TestSpawnForShotTagsShotsAndRunID(t *testing.T) {
	var buf bytes.Buffer
	l := bufLogger(&buf).SpawnForShot(100, "run-1")
	l.Info().Msg("starting")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, float64(100), line["shots"])
	assert.Equal(t, "run-1", line["runID"])
}

func TestSpawnChainsAreAdditive(t *testing.T) {
	var buf bytes.Buffer
	l := bufLogger(&buf).SpawnForFacade("noisy").SpawnForShot(5, "run-2")
	l.Info().Msg("chained")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "noisy", line["facade"])
	assert.Equal(t, float64(5), line["shots"])
}
