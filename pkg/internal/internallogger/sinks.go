package internallogger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
)

type sinkEntry struct {
	core zapcore.Core
	stop func()
}

type sinkOpener func(cfg map[string]interface{}) (zapcore.WriteSyncer, func(), error)

var sinkOpeners = map[types.SinkType]sinkOpener{
	types.FileSink:   openFileSink,
	types.StdoutSink: func(map[string]interface{}) (zapcore.WriteSyncer, func(), error) { return zapcore.Lock(os.Stdout), nil, nil },
	types.StderrSink: func(map[string]interface{}) (zapcore.WriteSyncer, func(), error) { return zapcore.Lock(os.Stderr), nil, nil },
	types.KafkaSink: func(cfg map[string]interface{}) (zapcore.WriteSyncer, func(), error) {
		sink, err := newKafkaWriteSyncer(cfg)
		if err != nil {
			return nil, nil, err
		}
		return sink, sink.Close, nil
	},
}

func openFileSink(cfg map[string]interface{}) (zapcore.WriteSyncer, func(), error) {
	path, ok := cfg["path"].(string)
	if !ok || path == "" {
		return nil, nil, fmt.Errorf("file path configuration is missing or invalid")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory %s: %w", filepath.Dir(path), err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return zapcore.AddSync(file), func() { _ = file.Close() }, nil
}

// AddSink attaches an extra output. Supported types are "file" (config
// "path"), "stdout", "stderr" and "kafka" (config "brokers", "topic"). Any
// sink may carry a "level" entry; it then only receives entries at or above
// that level, on top of the logger's own level.
func (z *ZapLoggerAdapter) AddSink(identifier string, config types.SinkConfig) error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if _, exists := z.sinks[identifier]; exists {
		return fmt.Errorf("sink already exists: %s", identifier)
	}
	open, ok := sinkOpeners[types.SinkType(config.Type)]
	if !ok {
		return fmt.Errorf("unsupported sink type: %s", config.Type)
	}
	cfg := config.Config
	if cfg == nil {
		cfg = map[string]interface{}{}
	}

	var enabler zapcore.LevelEnabler = z.atomicLevel
	if name, ok := cfg["level"].(string); ok && name != "" {
		floor := ConvertLevel(parseLogLevel(name))
		level := z.atomicLevel
		enabler = zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= floor && level.Enabled(l)
		})
	}

	ws, stop, err := open(cfg)
	if err != nil {
		return err
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(z.encConfig), ws, enabler)
	z.sinks[identifier] = sinkEntry{core: core, stop: stop}

	z.rebuildLoggerLocked()
	return nil
}

// RemoveSink detaches a sink and releases its output.
func (z *ZapLoggerAdapter) RemoveSink(identifier string) error {
	z.mu.Lock()
	defer z.mu.Unlock()

	entry, ok := z.sinks[identifier]
	if !ok {
		return fmt.Errorf("sink not found: %s", identifier)
	}
	delete(z.sinks, identifier)
	if entry.stop != nil {
		entry.stop()
	}

	z.rebuildLoggerLocked()
	return nil
}

// ListSinks returns the attached sink identifiers in sorted order.
func (z *ZapLoggerAdapter) ListSinks() ([]string, error) {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.sinkIDsLocked(), nil
}

func (z *ZapLoggerAdapter) sinkIDsLocked() []string {
	ids := make([]string, 0, len(z.sinks))
	for id := range z.sinks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (z *ZapLoggerAdapter) rebuildLoggerLocked() {
	cores := []zapcore.Core{z.baseCore}
	for _, id := range z.sinkIDsLocked() {
		cores = append(cores, z.sinks[id].core)
	}
	opts := []zap.Option{zap.AddCallerSkip(z.callerDepth)}
	if z.callerOn {
		opts = append(opts, zap.AddCaller())
	}
	z.logger = zap.New(zapcore.NewTee(cores...), opts...).With(z.baseFields...)
}
