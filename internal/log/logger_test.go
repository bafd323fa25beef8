package log_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battleroid/dwms/internal/log"
)

func TestWithComponent_AddsFields(t *testing.T) {
	var buf bytes.Buffer
	log.Configure(log.Config{Level: "debug", Output: &buf, Service: "dwms-test"})
	t.Cleanup(func() { log.Configure(log.Config{}) })

	l := log.WithComponent("check")
	l.Info().Str("cluster", "es1").Msg("evaluated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "dwms-test", entry["service"])
	assert.Equal(t, "check", entry["component"])
	assert.Equal(t, "es1", entry["cluster"])
	assert.Equal(t, "evaluated", entry["message"])
}

func TestConfigure_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log.Configure(log.Config{Level: "warn", Output: &buf})
	t.Cleanup(func() { log.Configure(log.Config{}) })

	l := log.Base()
	l.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfigure_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log.Configure(log.Config{Format: "console", Output: &buf})
	t.Cleanup(func() { log.Configure(log.Config{}) })

	l := log.Base()
	l.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}
