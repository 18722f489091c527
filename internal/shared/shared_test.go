package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLogLevel(t *testing.T) {
	tc := []struct {
		name  string
		level string
		want  log.Level
	}{
		{name: "debug", level: "debug", want: log.DebugLevel},
		{name: "mixed case", level: " WARN ", want: log.WarnLevel},
		{name: "error", level: "error", want: log.ErrorLevel},
		{name: "unknown falls back to info", level: "chatty", want: log.InfoLevel},
		{name: "empty falls back to info", level: "", want: log.InfoLevel},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLogLevel(tt.level); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := WithLogger(NewLogger(&buf), "component", "test")

	logger.Info("seeded", "uid", "ann01")

	out := buf.String()
	if !strings.Contains(out, "seeded") || !strings.Contains(out, "uid=ann01") || !strings.Contains(out, "component=test") {
		t.Errorf("unexpected log output: %s", out)
	}

	SetLogLevel(logger, log.ErrorLevel)
	buf.Reset()
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at error level, got %s", buf.String())
	}
}

func TestMarshalJSON(t *testing.T) {
	compact, err := MarshalJSON(map[string]int{"a": 1}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(compact) != `{"a":1}` {
		t.Errorf("unexpected compact output: %s", compact)
	}

	pretty, err := MarshalJSON(map[string]int{"a": 1}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(pretty) != "{\n  \"a\": 1\n}" {
		t.Errorf("unexpected pretty output: %s", pretty)
	}
}

func TestNewRotatingWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "musicpref.log")
	w := NewRotatingWriter(LoggingConfig{File: path, MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 7})
	t.Cleanup(func() { w.Close() })

	logger := NewLogger(w)
	logger.Info("restore finished", "restored", 2)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file to be written: %v", err)
	}
	if !strings.Contains(string(data), "restore finished") {
		t.Errorf("expected log line in file, got %q", data)
	}
	if w.MaxSize != 1 || w.MaxBackups != 2 || w.MaxAge != 7 {
		t.Errorf("rotation settings not applied: %+v", w)
	}
}
