// Package internallogger adapts zap to types.Logger. Every line carries the
// log schema id, and extra sinks (files, stdout, Kafka) can be attached and
// detached at runtime.
package internallogger

import (
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"github.com/joeydtaylor/muedit/pkg/logschema"
)

// LoggerOption configures NewLogger.
type LoggerOption func(*loggerConfig)

type loggerConfig struct {
	level       zapcore.Level
	development bool
	fields      map[string]interface{}
	callerDepth int
	caller      bool
	output      io.Writer
}

// ZapLoggerAdapter implements types.Logger on top of zap.
type ZapLoggerAdapter struct {
	mu          sync.Mutex
	logger      *zap.Logger
	atomicLevel zap.AtomicLevel
	encConfig   zapcore.EncoderConfig
	baseCore    zapcore.Core
	baseFields  []zap.Field
	callerOn    bool
	callerDepth int
	sinks       map[string]sinkEntry
}

var _ types.Logger = (*ZapLoggerAdapter)(nil)

// NewLogger returns a JSON logger writing to stdout at info level.
func NewLogger(options ...LoggerOption) *ZapLoggerAdapter {
	cfg := loggerConfig{
		level:       zapcore.InfoLevel,
		fields:      map[string]interface{}{logschema.FieldSchema: logschema.SchemaID},
		callerDepth: 3,
		caller:      true,
		output:      os.Stdout,
	}
	for _, opt := range options {
		opt(&cfg)
	}

	z := &ZapLoggerAdapter{
		atomicLevel: zap.NewAtomicLevelAt(cfg.level),
		encConfig:   encoderConfig(),
		baseFields:  constantFields(cfg.fields),
		callerOn:    cfg.caller,
		callerDepth: cfg.callerDepth,
		sinks:       make(map[string]sinkEntry),
	}
	var enc zapcore.Encoder = zapcore.NewJSONEncoder(z.encConfig)
	if cfg.development {
		enc = zapcore.NewConsoleEncoder(z.encConfig)
	}
	z.baseCore = zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(cfg.output)), z.atomicLevel)

	z.mu.Lock()
	z.rebuildLoggerLocked()
	z.mu.Unlock()
	return z
}

// encoderConfig names every key after the log schema and stamps times in UTC.
func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = logschema.FieldTimestamp
	cfg.LevelKey = logschema.FieldLevel
	cfg.NameKey = logschema.FieldLogger
	cfg.CallerKey = logschema.FieldCaller
	cfg.MessageKey = logschema.FieldMessage
	cfg.StacktraceKey = logschema.FieldStack
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.RFC3339Nano))
	}
	return cfg
}

// constantFields turns the configured map into fields in key order, so every
// line starts with the same layout.
func constantFields(fields map[string]interface{}) []zap.Field {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, field(k, fields[k]))
	}
	return out
}

var levels = [...]struct {
	own types.LogLevel
	zap zapcore.Level
}{
	{types.DebugLevel, zapcore.DebugLevel},
	{types.InfoLevel, zapcore.InfoLevel},
	{types.WarnLevel, zapcore.WarnLevel},
	{types.ErrorLevel, zapcore.ErrorLevel},
	{types.DPanicLevel, zapcore.DPanicLevel},
	{types.PanicLevel, zapcore.PanicLevel},
	{types.FatalLevel, zapcore.FatalLevel},
}

// ConvertLevel maps a types.LogLevel onto zap. Unknown levels map to info.
func ConvertLevel(level types.LogLevel) zapcore.Level {
	for _, l := range levels {
		if l.own == level {
			return l.zap
		}
	}
	return zapcore.InfoLevel
}

func convertZapLevel(level zapcore.Level) types.LogLevel {
	for _, l := range levels {
		if l.zap == level {
			return l.own
		}
	}
	return types.InfoLevel
}

// parseLogLevel accepts zap's level names. Anything else is info.
func parseLogLevel(name string) types.LogLevel {
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return types.InfoLevel
	}
	return convertZapLevel(lvl)
}
