package logrus

import (
	"bytes"
	"testing"

	"github.com/raykavin/chartscript/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogrusAdapter_Fields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(buf, "debug", true)

	log.WithField("script", "rsi").WithFields(map[string]any{"pane": "p1"}).Info("drawn")

	out := buf.String()
	require.Contains(t, out, `"script":"rsi"`)
	assert.Contains(t, out, `"pane":"p1"`)
	assert.Contains(t, out, `"msg":"drawn"`)
}

func TestLogrusAdapter_Level(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(buf, "warn", false)
	assert.Equal(t, logger.WarnLevel, log.GetLevel())

	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogrusAdapter_SevereLevelsDoNotPanic(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(buf, "info", false)

	require.NotPanics(t, func() { log.Log(logger.PanicLevel, "overlay lost") })
	assert.Contains(t, buf.String(), "level=error")
	assert.Contains(t, buf.String(), "overlay lost")
}
