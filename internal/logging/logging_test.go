package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want slog.Level
	}{
		{"error", slog.LevelError},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" info ", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"", slog.LevelDebug},
		{"garbage", slog.LevelDebug},
	}
	for _, tc := range cases {
		if got := levelFromString(tc.in); got != tc.want {
			t.Errorf("levelFromString(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewHonorsLevel(t *testing.T) {
	t.Parallel()

	logger := New("warn", "text")
	ctx := context.Background()

	if logger.Enabled(ctx, slog.LevelInfo) {
		t.Fatal("info should be disabled at warn level")
	}
	if !logger.Enabled(ctx, slog.LevelError) {
		t.Fatal("error should be enabled at warn level")
	}

	jsonLogger := New("info", "JSON")
	if !jsonLogger.Enabled(ctx, slog.LevelInfo) {
		t.Fatal("info should be enabled at info level")
	}
}
