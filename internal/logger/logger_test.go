package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock(l Logger) {
	l.(*leveled).sink.now = func() time.Time {
		return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.Debug("hidden")
	l.Info("hidden too")
	l.Warn("shown")
	l.Error("also shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN  shown")
	assert.Contains(t, out, "ERROR also shown")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelDebug, &buf)
	fixedClock(l)

	l.With(F("tool", "docker")).Debug("fallback", F("path", "/tmp/my dir/x86-any.bin"), F("n", 2))

	assert.Equal(t, "09:30:00 DEBUG fallback | tool=docker path=\"/tmp/my dir/x86-any.bin\" n=2\n", buf.String())
}

func TestLogger_WithDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := New(LevelInfo, &buf)
	_ = base.With(F("scope", "child"))

	base.Info("parent")
	assert.NotContains(t, buf.String(), "scope=child")
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing happens")
	l.With(F("a", 1)).Debug("still nothing")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "SILENT", LevelSilent.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}
