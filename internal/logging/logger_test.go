package logging

import (
	"bytes"
	"testing"

	"goanova/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn).With("AnalysisService")

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %d", 3)
	l.Error("shown %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] [AnalysisService] shown 3")
	assert.Contains(t, out, "[ERROR] [AnalysisService] shown 4")
}

func TestLogger_WithDoesNotMutate(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, LevelDebug)
	_ = base.With("DataReader")

	base.Debug("plain")
	assert.Contains(t, buf.String(), "[DEBUG] plain")
	assert.NotContains(t, buf.String(), "DataReader")
}

func TestLogger_NilIsSilent(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Info("nothing") })
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel(" debug ")
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, level)

	_, err = ParseLevel("TRACE")
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
