package s3client

import "github.com/joeydtaylor/muedit/pkg/internal/types"

// ConnectLogger attaches loggers to the store. Nil loggers are ignored.
func (s *SnapshotStore) ConnectLogger(loggers ...types.Logger) {
	s.loggersMu.Lock()
	defer s.loggersMu.Unlock()
	for _, l := range loggers {
		if l != nil {
			s.loggers = append(s.loggers, l)
		}
	}
}

// NotifyLoggers sends a message to all attached loggers.
func (s *SnapshotStore) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	s.loggersMu.Lock()
	loggers := append([]types.Logger(nil), s.loggers...)
	s.loggersMu.Unlock()

	for _, logger := range loggers {
		if logger.GetLevel() > level {
			continue
		}
		switch level {
		case types.DebugLevel:
			logger.Debug(msg, keysAndValues...)
		case types.InfoLevel:
			logger.Info(msg, keysAndValues...)
		case types.WarnLevel:
			logger.Warn(msg, keysAndValues...)
		case types.ErrorLevel:
			logger.Error(msg, keysAndValues...)
		case types.DPanicLevel:
			logger.DPanic(msg, keysAndValues...)
		case types.PanicLevel:
			logger.Panic(msg, keysAndValues...)
		case types.FatalLevel:
			logger.Fatal(msg, keysAndValues...)
		}
	}
}

// GetComponentMetadata returns the store metadata.
func (s *SnapshotStore) GetComponentMetadata() types.ComponentMetadata { return s.componentMetadata }

// SetComponentMetadata overrides name and id while preserving the type.
func (s *SnapshotStore) SetComponentMetadata(name, id string) {
	s.componentMetadata = types.ComponentMetadata{
		Name: name,
		ID:   id,
		Type: s.componentMetadata.Type,
	}
}
