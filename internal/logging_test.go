package internal

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitLogging(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := InitLogging(&buf, false)
	logger.Debug("hidden")
	slog.Info("fetched", "resource", "vessellocations")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "resource=vessellocations")

	buf.Reset()
	InitLogging(&buf, true).Debug("shown")
	assert.Contains(t, buf.String(), "level=DEBUG")
}
