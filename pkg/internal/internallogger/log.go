package internallogger

import (
	"strings"
	"time"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/gonum/floats"
)

// Log emits a log entry at the requested level. Keys must be strings; a
// trailing key without a value is dropped.
func (z *ZapLoggerAdapter) Log(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	z.mu.Lock()
	logger := z.logger
	z.mu.Unlock()

	if logger == nil || logger.Core() == nil {
		return
	}
	ce := logger.Check(ConvertLevel(level), msg)
	if ce == nil {
		return
	}

	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, field(key, keysAndValues[i+1]))
	}
	ce.Write(fields...)
}

// field renders the records the session logs as compact objects. Pulse and
// discharge trains are summarized rather than dumped.
func field(key string, value interface{}) zap.Field {
	switch v := value.(type) {
	case types.ComponentMetadata:
		return zap.Object(key, componentMarshaler(v))
	case *types.ComponentMetadata:
		if v == nil {
			return zap.Skip()
		}
		return zap.Object(key, componentMarshaler(*v))
	case types.DischargeTrain:
		return zap.Object(key, dischargeMarshaler(v))
	case types.PulseTrain:
		return zap.Object(key, pulseMarshaler(v))
	case types.SILScore:
		return zap.Object(key, silMarshaler(v))
	case types.SILBand:
		return zap.Stringer(key, v)
	case types.EditState:
		return zap.Stringer(key, v)
	case types.Selection:
		return zap.Object(key, selectionMarshaler(v))
	case time.Duration:
		return zap.Duration(key, v)
	case []int:
		return zap.Ints(key, v)
	case error:
		return zap.NamedError(key, v)
	}
	return zap.Any(key, value)
}

func componentMarshaler(m types.ComponentMetadata) zapcore.ObjectMarshalerFunc {
	return func(enc zapcore.ObjectEncoder) error {
		enc.AddString("id", m.ID)
		enc.AddString("type", m.Type)
		if m.Name != "" {
			enc.AddString("name", m.Name)
		}
		return nil
	}
}

func dischargeMarshaler(d types.DischargeTrain) zapcore.ObjectMarshalerFunc {
	return func(enc zapcore.ObjectEncoder) error {
		enc.AddInt("count", len(d))
		if len(d) > 0 {
			enc.AddInt("first", d[0])
			enc.AddInt("last", d[len(d)-1])
		}
		return nil
	}
}

func pulseMarshaler(p types.PulseTrain) zapcore.ObjectMarshalerFunc {
	return func(enc zapcore.ObjectEncoder) error {
		enc.AddInt("samples", len(p))
		if len(p) > 0 {
			enc.AddFloat64("peak", floats.Max(p))
		}
		return nil
	}
}

func silMarshaler(s types.SILScore) zapcore.ObjectMarshalerFunc {
	return func(enc zapcore.ObjectEncoder) error {
		enc.AddFloat64("before", s.Before)
		enc.AddFloat64("after", s.After)
		enc.AddFloat64("delta", s.Delta())
		return nil
	}
}

func selectionMarshaler(s types.Selection) zapcore.ObjectMarshalerFunc {
	return func(enc zapcore.ObjectEncoder) error {
		enc.AddInt("from", s.FromSample)
		enc.AddInt("to", s.ToSample)
		enc.AddFloat64("min", s.MinAmp)
		enc.AddFloat64("max", s.MaxAmp)
		return nil
	}
}

// Debug logs a debug message.
func (z *ZapLoggerAdapter) Debug(msg string, keysAndValues ...interface{}) {
	z.Log(types.DebugLevel, msg, keysAndValues...)
}

// Info logs an informational message.
func (z *ZapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	z.Log(types.InfoLevel, msg, keysAndValues...)
}

// Warn logs a warning message.
func (z *ZapLoggerAdapter) Warn(msg string, keysAndValues ...interface{}) {
	z.Log(types.WarnLevel, msg, keysAndValues...)
}

// Error logs an error message.
func (z *ZapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	z.Log(types.ErrorLevel, msg, keysAndValues...)
}

// DPanic logs a critical message.
func (z *ZapLoggerAdapter) DPanic(msg string, keysAndValues ...interface{}) {
	z.Log(types.DPanicLevel, msg, keysAndValues...)
}

// Panic logs a message and panics.
func (z *ZapLoggerAdapter) Panic(msg string, keysAndValues ...interface{}) {
	z.Log(types.PanicLevel, msg, keysAndValues...)
}

// Fatal logs a fatal message.
func (z *ZapLoggerAdapter) Fatal(msg string, keysAndValues ...interface{}) {
	z.Log(types.FatalLevel, msg, keysAndValues...)
}

// IsLevelEnabled reports whether a message at level would be written.
func (z *ZapLoggerAdapter) IsLevelEnabled(level types.LogLevel) bool {
	return z.atomicLevel.Enabled(ConvertLevel(level))
}

// GetLevel returns the configured log level.
func (z *ZapLoggerAdapter) GetLevel() types.LogLevel {
	return convertZapLevel(z.atomicLevel.Level())
}

// SetLevel updates the logger's minimum level.
func (z *ZapLoggerAdapter) SetLevel(level types.LogLevel) {
	zapLevel := ConvertLevel(level)
	z.atomicLevel.SetLevel(zapLevel)
}

// Flush syncs the logger's outputs.
func (z *ZapLoggerAdapter) Flush() error {
	z.mu.Lock()
	logger := z.logger
	z.mu.Unlock()

	if logger == nil {
		return nil
	}

	if err := logger.Sync(); err != nil {
		if strings.Contains(err.Error(), "inappropriate ioctl for device") ||
			strings.Contains(err.Error(), "bad file descriptor") ||
			strings.Contains(err.Error(), "invalid argument") {
			return nil
		}
		return err
	}
	return nil
}
