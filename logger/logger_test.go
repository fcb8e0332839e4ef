package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestInterceptCapturesAndFileKeepsRecords(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{Enabled: true, Level: "debug", File: "logs/test.log"}, dir); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() {
		Restore()
		Close()
	})

	var panel syncBuffer
	Intercept(&panel)
	Debug("fetch failed", "status", 500)
	Restore()

	if !strings.Contains(panel.String(), "fetch failed") {
		t.Fatalf("intercepted output = %q, want log line", panel.String())
	}
	data, err := os.ReadFile(filepath.Join(dir, "logs", "test.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "status=500") {
		t.Fatalf("log file = %q, want status attr", data)
	}
}

func TestDisabledLoggerDropsRecords(t *testing.T) {
	if err := Init(Config{Enabled: false}, ""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = Init(Config{Enabled: true, Level: "info"}, "") })

	var panel syncBuffer
	Intercept(&panel)
	defer Restore()
	Error("should not appear")

	if panel.String() != "" {
		t.Fatalf("disabled logger wrote %q", panel.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	if got := expandPath("logs/a.log", "/etc/cloudchat"); got != filepath.Join("/etc/cloudchat", "logs/a.log") {
		t.Fatalf("expandPath(relative) = %q", got)
	}
	if got := expandPath("/var/log/a.log", "/etc/cloudchat"); got != "/var/log/a.log" {
		t.Fatalf("expandPath(absolute) = %q", got)
	}
	if got := expandPath("a.log", ""); got != "a.log" {
		t.Fatalf("expandPath(no dir) = %q", got)
	}
}
