package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"":        log.InfoLevel,
		"debug":   log.DebugLevel,
		"WARN":    log.WarnLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestParseFormatter(t *testing.T) {
	if f, err := ParseFormatter("json"); err != nil || f != log.JSONFormatter {
		t.Errorf("ParseFormatter(json) = %v, %v", f, err)
	}
	if _, err := ParseFormatter("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestNewWritesStructuredFields(t *testing.T) {
	defer log.SetDefault(log.Default())

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = "logfmt"
	opts.ReportTimestamp = false
	opts.Output = &buf
	logger, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("reloaded", "rows", 3)
	logger.Debug("hidden")
	out := buf.String()
	if !strings.Contains(out, "msg=reloaded") || !strings.Contains(out, "rows=3") {
		t.Errorf("unexpected output %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug output should be filtered at info level")
	}
}
