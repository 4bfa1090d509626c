package builder

import (
	"io"

	internalLogger "github.com/joeydtaylor/muedit/pkg/internal/internallogger"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"github.com/joeydtaylor/muedit/pkg/logschema"
)

type LoggerOption = internalLogger.LoggerOption

type Logger = types.Logger

type SinkConfig = types.SinkConfig

type SinkType = types.SinkType

const (
	FileSink   = types.FileSink
	StdoutSink = types.StdoutSink
	StderrSink = types.StderrSink
	KafkaSink  = types.KafkaSink
)

func NewLogger(options ...internalLogger.LoggerOption) types.Logger {
	return internalLogger.NewLogger(options...)
}

// WithLevel configures the logger to use the specified log level
func LoggerWithLevel(levelStr string) LoggerOption {
	return internalLogger.LoggerWithLevel(levelStr)
}

// WithDevelopment enables or disables development mode
func LoggerWithDevelopment(dev bool) LoggerOption {
	return internalLogger.LoggerWithDevelopment(dev)
}

// LoggerWithFields attaches fields to every log line.
func LoggerWithFields(fields map[string]interface{}) LoggerOption {
	return internalLogger.LoggerWithFields(fields)
}

// LoggerWithSchema overrides the log schema identifier field.
func LoggerWithSchema(schema string) LoggerOption {
	return internalLogger.LoggerWithSchema(schema)
}

// LoggerWithOutput replaces stdout as the base output.
func LoggerWithOutput(w io.Writer) LoggerOption {
	return internalLogger.LoggerWithOutput(w)
}

func LoggerWithCaller(on bool) LoggerOption {
	return internalLogger.LoggerWithCaller(on)
}

// KafkaSinkConfig builds the sink config that ships every log line to a
// Kafka topic.
func KafkaSinkConfig(brokers []string, topic string) SinkConfig {
	return SinkConfig{
		Type: string(KafkaSink),
		Config: map[string]interface{}{
			"brokers": brokers,
			"topic":   topic,
		},
	}
}

// FileSinkConfig builds the sink config for an append-only log file.
func FileSinkConfig(path string) SinkConfig {
	return SinkConfig{
		Type:   string(FileSink),
		Config: map[string]interface{}{"path": path},
	}
}

// Log schema constants for the standard muedit log format.
const (
	LogSchemaID    = logschema.SchemaID
	LogSchemaField = logschema.FieldSchema
)

// LogLevel is exported from the internal types package.
type LogLevel = types.LogLevel

// Export log levels to be accessible under the builder package
const (
	DebugLevel  = types.DebugLevel
	InfoLevel   = types.InfoLevel
	WarnLevel   = types.WarnLevel
	ErrorLevel  = types.ErrorLevel
	DPanicLevel = types.DPanicLevel
	PanicLevel  = types.PanicLevel
	FatalLevel  = types.FatalLevel
)
