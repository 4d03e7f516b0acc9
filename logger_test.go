package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLogger(level int) (*Logger, *bytes.Buffer) {
	var out bytes.Buffer
	l := NewLogger()
	l.SetOutput(&out)
	l.SetLevel(level)
	return l, &out
}

func TestLoggerNoneSilencesEverything(t *testing.T) {
	l, out := captureLogger(LOG_NONE)

	l.Error("tag", "boom")
	l.Info("tag", "hello")
	l.Debug("tag", "detail")
	assert.Empty(t, out.String())
}

func TestLoggerErrorLevelFiltersLower(t *testing.T) {
	l, out := captureLogger(LOG_ERROR)

	l.Debug("tag", "detail")
	l.Info("tag", "hello")
	assert.Empty(t, out.String())

	l.Error("tag", "boom")
	assert.Contains(t, out.String(), "ERROR - tag: boom")
}

func TestLoggerDebugLevelPassesEverything(t *testing.T) {
	l, out := captureLogger(LOG_DEBUG)

	l.Error("tag", "boom")
	l.Info("tag", "hello")
	l.Debug("tag", "detail")

	s := out.String()
	assert.Contains(t, s, "ERROR - tag: boom")
	assert.Contains(t, s, "INFO - tag: hello")
	assert.Contains(t, s, "DEBUG - tag: detail")
}

func TestLogLevelByName(t *testing.T) {
	assert.Equal(t, LOG_NONE, logLevelByName("none"))
	assert.Equal(t, LOG_ERROR, logLevelByName("error"))
	assert.Equal(t, LOG_INFO, logLevelByName("info"))
	assert.Equal(t, LOG_DEBUG, logLevelByName("debug"))
	assert.Equal(t, LOG_ERROR, logLevelByName("chatty"))
}
