package session

import (
	"context"
	"time"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
)

// ConnectLogger attaches loggers to the session. Nil loggers are ignored.
func (s *Session) ConnectLogger(loggers ...types.Logger) {
	s.loggersMu.Lock()
	defer s.loggersMu.Unlock()
	for _, l := range loggers {
		if l != nil {
			s.loggers = append(s.loggers, l)
		}
	}
}

func (s *Session) snapshotLoggers() []types.Logger {
	s.loggersMu.Lock()
	defer s.loggersMu.Unlock()
	if len(s.loggers) == 0 {
		return nil
	}
	out := make([]types.Logger, len(s.loggers))
	copy(out, s.loggers)
	return out
}

// NotifyLoggers sends a log message with the specified level to every
// attached logger whose level allows it.
func (s *Session) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	loggers := s.snapshotLoggers()
	if len(loggers) == 0 {
		return
	}

	type levelChecker interface {
		IsLevelEnabled(types.LogLevel) bool
	}

	for _, logger := range loggers {
		if lc, ok := logger.(levelChecker); ok && !lc.IsLevelEnabled(level) {
			continue
		}
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

// GetComponentMetadata returns the metadata.
func (s *Session) GetComponentMetadata() types.ComponentMetadata {
	return s.componentMetadata
}

// SetComponentMetadata sets the session name and id.
func (s *Session) SetComponentMetadata(name string, id string) {
	s.componentMetadata.Name = name
	s.componentMetadata.ID = id
}

func (s *Session) count(metricName string, n uint64) {
	if s.meter == nil || n == 0 {
		return
	}
	s.meter.AddToCount(metricName, n)
}

// publish hands ev to the event sink. Failures are logged and counted; the
// edit that produced ev stays applied.
func (s *Session) publish(ctx context.Context, ev types.EditEvent) {
	if s.sink == nil {
		return
	}
	ev.SessionID = s.componentMetadata.ID
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}
	if err := s.sink.Publish(ctx, ev); err != nil {
		s.count(types.MetricEventPublishFailures, 1)
		s.NotifyLoggers(types.WarnLevel, "Edit event not published",
			"component", s.componentMetadata,
			"event", "Publish",
			"result", "FAILURE",
			"unit", ev.Unit,
			"kind", ev.Kind,
			"error", err,
		)
	}
}
