package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/erpstack/erpstack/internal/errors"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"ERROR", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if got := ParseFormat("json"); got != FormatJSON {
		t.Errorf("ParseFormat(json) = %v, want FormatJSON", got)
	}
	if got := ParseFormat("text"); got != FormatText {
		t.Errorf("ParseFormat(text) = %v, want FormatText", got)
	}
	if got := ParseFormat("anything else"); got != FormatText {
		t.Errorf("ParseFormat should default to text, got %v", got)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelWarn,
		Format: FormatText,
		Output: NewOutput(&buf),
	})

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged below the configured level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing from output: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelInfo,
		Format: FormatJSON,
		Output: NewOutput(&buf),
	})

	logger.Info("pulling images", "run_id", "ab12cd34")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "pulling images" {
		t.Errorf("msg = %v, want %q", entry["msg"], "pulling images")
	}
	if entry["run_id"] != "ab12cd34" {
		t.Errorf("run_id = %v, want %q", entry["run_id"], "ab12cd34")
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelInfo,
		Format: FormatJSON,
		Output: NewOutput(&buf),
	})

	deployErr := errors.NewHealthTimeoutError("2m0s")
	logger.WithError(deployErr).Error("bring-up failed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["error_code"] != string(errors.ErrCodeHealthTimeout) {
		t.Errorf("error_code = %v, want %v", entry["error_code"], errors.ErrCodeHealthTimeout)
	}
	if entry["error"] == nil {
		t.Error("error attribute missing")
	}
}

func TestWithErrorNil(t *testing.T) {
	logger := Default()
	if got := logger.WithError(nil); got != logger {
		t.Error("WithError(nil) should return the receiver unchanged")
	}
}

func TestDefaultLoggerFallback(t *testing.T) {
	SetDefaultLogger(nil)
	t.Cleanup(func() { SetDefaultLogger(nil) })

	if DefaultLogger() == nil {
		t.Fatal("DefaultLogger must never return nil")
	}
}
