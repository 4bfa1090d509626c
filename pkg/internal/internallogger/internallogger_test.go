package internallogger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/joeydtaylor/muedit/pkg/internal/internallogger"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"github.com/joeydtaylor/muedit/pkg/logschema"
)

func TestNewLogger_DefaultLevel(t *testing.T) {
	logger := internallogger.NewLogger()
	if got := logger.GetLevel(); got != types.InfoLevel {
		t.Fatalf("expected InfoLevel, got %v", got)
	}
}

func TestNewLogger_WithLevel(t *testing.T) {
	logger := internallogger.NewLogger(internallogger.LoggerWithLevel("debug"))
	if got := logger.GetLevel(); got != types.DebugLevel {
		t.Fatalf("expected DebugLevel, got %v", got)
	}

	logger = internallogger.NewLogger(internallogger.LoggerWithLevel("unknown"))
	if got := logger.GetLevel(); got != types.InfoLevel {
		t.Fatalf("expected InfoLevel on unknown level, got %v", got)
	}
}

func TestLogger_SetLevel(t *testing.T) {
	logger := internallogger.NewLogger()
	logger.SetLevel(types.ErrorLevel)
	if got := logger.GetLevel(); got != types.ErrorLevel {
		t.Fatalf("expected ErrorLevel, got %v", got)
	}
}

func TestLogger_AddRemoveListSinks(t *testing.T) {
	logger := internallogger.NewLogger(internallogger.LoggerWithLevel("debug"), internallogger.LoggerWithOutput(&bytes.Buffer{}))

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "app.log")

	if err := logger.AddSink("file", types.SinkConfig{Type: "file", Config: map[string]interface{}{"path": path}}); err != nil {
		t.Fatalf("AddSink(file) error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}

	if err := logger.AddSink("stdout", types.SinkConfig{Type: "stdout"}); err != nil {
		t.Fatalf("AddSink(stdout) error: %v", err)
	}

	sinks, err := logger.ListSinks()
	if err != nil {
		t.Fatalf("ListSinks error: %v", err)
	}
	if len(sinks) != 2 {
		t.Fatalf("expected 2 sinks, got %d", len(sinks))
	}

	if err := logger.RemoveSink("stdout"); err != nil {
		t.Fatalf("RemoveSink error: %v", err)
	}
	if err := logger.RemoveSink("missing"); err == nil {
		t.Fatalf("expected error removing missing sink")
	}
}

func TestLogger_AddSinkInvalidConfig(t *testing.T) {
	logger := internallogger.NewLogger()

	if err := logger.AddSink("file", types.SinkConfig{Type: "file", Config: map[string]interface{}{}}); err == nil {
		t.Fatalf("expected error for missing file path")
	}
	if err := logger.AddSink("network", types.SinkConfig{Type: "network"}); err == nil {
		t.Fatalf("expected error for unsupported sink type")
	}
}

func TestLogger_LogHandlesOddKeys(t *testing.T) {
	logger := internallogger.NewLogger(internallogger.LoggerWithLevel("debug"))

	logger.Log(types.InfoLevel, "odd keys", "key", "value", "orphan")
	logger.Log(types.InfoLevel, "non-string key", 123, "value")
}

func TestLogger_Flush(t *testing.T) {
	logger := internallogger.NewLogger()
	if err := logger.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}
}

func TestLogger_OptionsCoverage(t *testing.T) {
	logger := internallogger.NewLogger(
		internallogger.LoggerWithDevelopment(true),
		internallogger.ZapAdapterWithCallerSkip(1),
	)
	logger.Info("options")
}

func TestLogger_WritesSchemaAndComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := internallogger.NewLogger(
		internallogger.LoggerWithOutput(&buf),
		internallogger.LoggerWithFields(map[string]interface{}{"recording": "training40"}),
	)

	logger.Info("Recalculated",
		logschema.FieldComponent, types.ComponentMetadata{ID: "s1", Type: "SESSION"},
		logschema.FieldUnit, 2,
		logschema.FieldError, errors.New("none"),
	)

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if line[logschema.FieldSchema] != logschema.SchemaID {
		t.Fatalf("expected schema %q, got %v", logschema.SchemaID, line[logschema.FieldSchema])
	}
	if line["recording"] != "training40" {
		t.Fatalf("expected base field, got %v", line["recording"])
	}
	comp, ok := line[logschema.FieldComponent].(map[string]interface{})
	if !ok || comp["type"] != "SESSION" {
		t.Fatalf("expected component map, got %v", line[logschema.FieldComponent])
	}
	if line[logschema.FieldUnit] != float64(2) {
		t.Fatalf("expected unit 2, got %v", line[logschema.FieldUnit])
	}
	if line[logschema.FieldError] != "none" {
		t.Fatalf("expected error string, got %v", line[logschema.FieldError])
	}
}

func TestLogger_IsLevelEnabled(t *testing.T) {
	logger := internallogger.NewLogger(internallogger.LoggerWithLevel("warn"))
	if logger.IsLevelEnabled(types.InfoLevel) {
		t.Fatalf("info must be disabled at warn level")
	}
	if !logger.IsLevelEnabled(types.ErrorLevel) {
		t.Fatalf("error must be enabled at warn level")
	}
}

func TestLogger_SinkLevelFloor(t *testing.T) {
	logger := internallogger.NewLogger(internallogger.LoggerWithLevel("debug"), internallogger.LoggerWithOutput(&bytes.Buffer{}))
	path := filepath.Join(t.TempDir(), "errors.log")

	if err := logger.AddSink("errors", types.SinkConfig{Type: "file", Config: map[string]interface{}{
		"path":  path,
		"level": "warn",
	}}); err != nil {
		t.Fatalf("AddSink(file) error: %v", err)
	}
	logger.Info("Unit recalculated", "unit", 0)
	logger.Warn("Deletion limit reached", "unit", 0)
	if err := logger.RemoveSink("errors"); err != nil {
		t.Fatalf("RemoveSink error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if n := bytes.Count(data, []byte("\n")); n != 1 {
		t.Fatalf("expected 1 line in the warn sink, got %d: %s", n, data)
	}
	if !bytes.Contains(data, []byte("Deletion limit reached")) {
		t.Fatalf("expected the warning, got %s", data)
	}
}

func TestLogger_ListSinksSorted(t *testing.T) {
	logger := internallogger.NewLogger(internallogger.LoggerWithOutput(&bytes.Buffer{}))
	for _, id := range []string{"stdout", "audit", "errors"} {
		if err := logger.AddSink(id, types.SinkConfig{Type: "stderr"}); err != nil {
			t.Fatalf("AddSink(%s) error: %v", id, err)
		}
	}
	ids, _ := logger.ListSinks()
	if len(ids) != 3 || ids[0] != "audit" || ids[1] != "errors" || ids[2] != "stdout" {
		t.Fatalf("unexpected sink order %v", ids)
	}
}
