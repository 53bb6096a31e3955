package bsplog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: WARN, Component: "test", Output: &buf})

	l.Info("should not appear")
	l.Warn("should appear", String("k", "v"))

	out := buf.String()
	assert.NotContains(t, out, "should not appear")
	assert.Contains(t, out, "should appear")
	assert.Contains(t, out, `k="v"`)
}

func TestLogger_Named(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: DEBUG, Component: "runtime", Output: &buf})
	child := base.Named("proc-2")

	child.Debug("hello")

	out := buf.String()
	assert.True(t, strings.Contains(out, "[proc-2]"))
	assert.False(t, strings.Contains(out, "[runtime]"))
}

func TestLogger_FieldFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: DEBUG, Component: "", Output: &buf})

	l.Error("boom", Err(assert.AnError), Int("n", 3))

	out := buf.String()
	assert.Contains(t, out, "error=")
	assert.Contains(t, out, "n=3")
}
