package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		assert.Equal(t, 2, handler.Count())
		assert.True(t, handler.ContainsMessage("test message"))
		assert.True(t, handler.ContainsAttr("key", "value"))
		assert.True(t, handler.ContainsAttr("code", int64(500)))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		assert.Len(t, handler.RecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.RecordsByLevel(slog.LevelError), 1)
	})

	t.Run("derived loggers share records and keep attrs", func(t *testing.T) {
		logger, handler := NewTestLogger(nil)

		logger.With("component", "cleaner").WithGroup("report").Info("grouped", "kept", 3)
		logger.Info("plain")

		records := handler.Records()
		require.Len(t, records, 2)
		assert.Equal(t, "cleaner", records[0].Attrs["component"])
		assert.Equal(t, int64(3), records[0].Attrs["report.kept"])
		assert.NotContains(t, records[1].Attrs, "component")
	})

	t.Run("no errors", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger.Info("fine")
		AssertNoErrors(t, handler)
	})
}
