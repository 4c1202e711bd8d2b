package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		"INFO":    log.InfoLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"":        log.InfoLevel,
		"bogus":   log.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	if ParseFormatter("json") != log.JSONFormatter {
		t.Error("json formatter not selected")
	}
	if ParseFormatter("logfmt") != log.LogfmtFormatter {
		t.Error("logfmt formatter not selected")
	}
	if ParseFormatter("") != log.TextFormatter {
		t.Error("text formatter should be the default")
	}
}

func TestNewWritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Level: "debug"})
	logger.Debug("fetched checklist", "categories", 3)
	out := buf.String()
	if !strings.Contains(out, "fetched checklist") || !strings.Contains(out, "categories=3") {
		t.Fatalf("unexpected log output: %q", out)
	}
	if !strings.Contains(out, "secboard") {
		t.Fatalf("missing default prefix: %q", out)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "secboard.log")
	logger, closer, err := Open(Options{Path: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	logger.Warn("webhook failed", "endpoint", "/progress")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "webhook failed") {
		t.Fatalf("log file missing entry: %q", data)
	}
}

func TestOpenWithoutPathDiscards(t *testing.T) {
	logger, closer, err := Open(Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	logger.Error("dropped")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
