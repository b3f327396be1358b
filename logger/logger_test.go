package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelDebug,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q): expected %v, got %v", in, want, got)
		}
	}
}

func TestSetupWritesToFile(t *testing.T) {
	orig := Log
	defer func() { Log = orig }()

	path := filepath.Join(t.TempDir(), "service.log")
	closer, err := Setup("info", path)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	Log.Debug("[test] hidden")
	Log.Info("[test] visible")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(raw)
	if !strings.Contains(out, "[test] visible") {
		t.Fatalf("expected info line in log file, got %q", out)
	}
	if strings.Contains(out, "[test] hidden") {
		t.Fatalf("expected debug line to be filtered, got %q", out)
	}
}
