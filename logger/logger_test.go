package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]interface{}{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid json line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.Service() != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.Service())
	}
}

func TestNewInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "invalid-level", Format: FormatJSON}, "test")
	l.Debug("hidden")
	l.Info("shown")
	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected info level fallback, got %d lines", len(lines))
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	l := NewFromEnv("env-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewWithWriter_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "info", Format: FormatJSON}, "orders")

	l.Info("Executing step", StepFields("exec-1", "charge", 2))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	got := lines[0]
	if got["message"] != "Executing step" {
		t.Errorf("unexpected message %v", got["message"])
	}
	if got[FieldWorkflow] != "orders" {
		t.Errorf("expected workflow field, got %v", got[FieldWorkflow])
	}
	if got[FieldStep] != "charge" || got[FieldExecutionID] != "exec-1" {
		t.Errorf("missing step fields: %v", got)
	}
	if got[FieldStepIndex] != float64(2) {
		t.Errorf("expected index 2, got %v", got[FieldStepIndex])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "warn", Format: FormatJSON}, "")
	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")
	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines at warn level, got %d", len(lines))
	}
	if lines[0]["level"] != "warn" || lines[1]["level"] != "error" {
		t.Errorf("unexpected levels: %v %v", lines[0]["level"], lines[1]["level"])
	}
}

func TestErrorValueField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Format: FormatJSON}, "")
	l.Error("Step failed", map[string]interface{}{FieldError: errors.New("boom")})
	lines := decodeLines(t, &buf)
	if lines[0][FieldError] != "boom" {
		t.Errorf("expected error text, got %v", lines[0][FieldError])
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Format: FormatJSON}, "test")
	cl := l.WithComponent("engine")
	if cl.Service() != "test" {
		t.Errorf("service should be preserved, got %q", cl.Service())
	}
	cl.Info("x")
	if decodeLines(t, &buf)[0][FieldComponent] != "engine" {
		t.Error("expected component field")
	}
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Format: FormatJSON}, "")
	l.WithFields(map[string]interface{}{"k": "v"}).WithError(errors.New("bad")).Info("x")
	got := decodeLines(t, &buf)[0]
	if got["k"] != "v" || got["error"] != "bad" {
		t.Errorf("unexpected fields %v", got)
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Format: FormatConsole, NoColor: true}, "orders")
	l.Info("Executing step", Fields(FieldStep, "charge"))
	out := buf.String()
	if !strings.Contains(out, "[INF]") || !strings.Contains(out, "Executing step") {
		t.Errorf("unexpected console output %q", out)
	}
	if !strings.Contains(out, "step:charge") {
		t.Errorf("expected step field in %q", out)
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("nothing")
	l.Error("nothing")
}

func TestConfig_ApplyDefaultsAndValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != FormatJSON || cfg.Output != "stdout" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid defaults, got %v", err)
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad level", Config{Level: "loud", Format: FormatJSON}},
		{"bad format", Config{Level: "info", Format: "xml"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "skipped", "dangling")
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected map %v", m)
	}
	if len(m) != 2 {
		t.Errorf("expected 2 keys, got %d", len(m))
	}
}

func TestMergeHelpers(t *testing.T) {
	m := MergeWithError(nil, errors.New("x"))
	if m[FieldError] != "x" {
		t.Errorf("expected error field, got %v", m)
	}
	m = MergeWithDuration(m, 1500*time.Millisecond)
	if m[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", m[FieldDuration])
	}
}
