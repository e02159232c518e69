package logger_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/edatlas/edatlas/internal/logger"
)

func newTestLogger(buf *bytes.Buffer, level logger.Level) *logger.Logger {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return logger.New(
		logger.WithOutput(buf),
		logger.WithLevel(level),
		logger.WithColors(false),
		logger.WithCaller(false),
		logger.WithClock(func() time.Time { return fixed }),
	)
}

func TestLogger_FormatsLine(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, logger.DEBUG).WithPrefix("store")

	log.Info("added mistake: id=%s", "abc")

	assert.Equal(t, "2024-01-02 03:04:05.000 INFO  [store] added mistake: id=abc\n", buf.String())
}

func TestLogger_FieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, logger.DEBUG).WithFields(map[string]any{
		"zeta":  1,
		"alpha": "x",
	}).WithError(errors.New("boom"))

	log.Warn("save failed")

	assert.Contains(t, buf.String(), "save failed alpha=x error=boom zeta=1\n")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, logger.WARN)

	log.Debug("hidden")
	log.Info("hidden")
	log.Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogger_DerivedLoggersDoNotShareFields(t *testing.T) {
	var buf bytes.Buffer
	base := newTestLogger(&buf, logger.DEBUG)
	_ = base.WithField("request_id", "r1")

	base.Info("plain")

	assert.NotContains(t, buf.String(), "request_id")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logger.Level
	}{
		{"debug", logger.DEBUG},
		{"INFO", logger.INFO},
		{"warning", logger.WARN},
		{"ERROR", logger.ERROR},
		{"nonsense", logger.INFO},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.ParseLevel(tt.in))
		})
	}
	assert.False(t, logger.ValidLevel("nonsense"))
	assert.True(t, logger.ValidLevel("warn"))
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, logger.DEBUG)

	ctx := logger.NewContext(context.Background(), log)

	assert.Same(t, log, logger.FromContext(ctx))
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
}
