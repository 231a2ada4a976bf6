package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type captured struct {
	levels []Level
	msgs   []string
}

func (c *captured) Emit(level Level, msg string) {
	c.levels = append(c.levels, level)
	c.msgs = append(c.msgs, msg)
}

func TestLeveled(t *testing.T) {
	c := &captured{}
	l := Leveled{c}

	l.Trace("a")
	l.Debug("b")
	l.Info("c")
	l.Warn("d")
	l.Error("e", 1)
	l.Log(WarnLevel, "f")

	assert.Equal(t, []Level{TraceLevel, DebugLevel, InfoLevel, WarnLevel, ErrorLevel, WarnLevel}, c.levels)
	assert.Equal(t, []string{"a", "b", "c", "d", "e1", "f"}, c.msgs)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, WarnLevel, ParseLevel("warning"))
	assert.Equal(t, Disabled, ParseLevel("off"))
	assert.Equal(t, InfoLevel, ParseLevel("loud"))
}

func TestNop(t *testing.T) {
	log := NewNop().WithField("k", 1).WithError(nil)
	log.Error("dropped")
	assert.Equal(t, Disabled, log.GetLevel())
}
