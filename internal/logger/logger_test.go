package logger_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/flashdeck/internal/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.DEBUG, logger.ParseLevel("debug"))
	assert.Equal(t, logger.WARN, logger.ParseLevel(" warning "))
	assert.Equal(t, logger.ERROR, logger.ParseLevel("ERROR"))
	assert.Equal(t, logger.INFO, logger.ParseLevel("nonsense"))
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.WARN))

	log.Info("hidden")
	log.Warn("shown %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 1")
	assert.Contains(t, out, "WARN")
}

func TestLogger_PrefixAndSortedFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false)).
		WithPrefix("deck").
		WithFields(map[string]any{"zeta": 1, "alpha": "a"})

	log.Info("hello")

	out := buf.String()
	assert.Contains(t, out, "[deck] ")
	assert.True(t, strings.HasSuffix(out, "hello alpha=a zeta=1\n"), out)
}

func TestLogger_WithFieldDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := logger.New(logger.WithOutput(&buf))
	_ = base.WithField("request_id", "abc")

	base.Info("plain")

	assert.NotContains(t, buf.String(), "request_id")
}

func TestContext_RoundTrip(t *testing.T) {
	log := logger.New().WithPrefix("ctx")
	ctx := logger.NewContext(context.Background(), log)

	assert.Same(t, log, logger.FromContext(ctx))
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
}
