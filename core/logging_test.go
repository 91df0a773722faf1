package core

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSetupLoggingWritesFile(t *testing.T) {
	prev, prevOut, prevErr := slog.Default(), gin.DefaultWriter, gin.DefaultErrorWriter
	t.Cleanup(func() {
		slog.SetDefault(prev)
		gin.DefaultWriter, gin.DefaultErrorWriter = prevOut, prevErr
	})

	dir := filepath.Join(t.TempDir(), "logs")
	cfg := Config{LogDir: dir, LogLevel: "warn"}
	logger, closer, err := SetupLogging(cfg, "test.log")
	if err != nil {
		t.Fatalf("SetupLogging error: %v", err)
	}

	logger.Info("dropped by level")
	logger.Warn("kept", "user_id", "u-1")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "dropped by level") {
		t.Fatalf("info line written at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"kept"`) || !strings.Contains(out, `"user_id":"u-1"`) {
		t.Fatalf("expected JSON warn line, got: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
