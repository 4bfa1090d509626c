package kafkaclient

import "github.com/joeydtaylor/muedit/pkg/internal/types"

func notify(loggers []types.Logger, level types.LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range loggers {
		if logger == nil || logger.GetLevel() > level {
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

// ConnectLogger attaches loggers to the publisher.
func (p *EventPublisher) ConnectLogger(loggers ...types.Logger) {
	p.loggersMu.Lock()
	defer p.loggersMu.Unlock()
	for _, l := range loggers {
		if l != nil {
			p.loggers = append(p.loggers, l)
		}
	}
}

// NotifyLoggers sends a message to all attached loggers.
func (p *EventPublisher) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	p.loggersMu.Lock()
	loggers := append([]types.Logger(nil), p.loggers...)
	p.loggersMu.Unlock()
	notify(loggers, level, msg, keysAndValues...)
}

// GetComponentMetadata returns the publisher metadata.
func (p *EventPublisher) GetComponentMetadata() types.ComponentMetadata { return p.componentMetadata }

// SetComponentMetadata overrides name and id while preserving the type.
func (p *EventPublisher) SetComponentMetadata(name, id string) {
	p.componentMetadata = types.ComponentMetadata{Name: name, ID: id, Type: p.componentMetadata.Type}
}

// ConnectLogger attaches loggers to the consumer.
func (c *EventConsumer) ConnectLogger(loggers ...types.Logger) {
	c.loggersMu.Lock()
	defer c.loggersMu.Unlock()
	for _, l := range loggers {
		if l != nil {
			c.loggers = append(c.loggers, l)
		}
	}
}

// NotifyLoggers sends a message to all attached loggers.
func (c *EventConsumer) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	c.loggersMu.Lock()
	loggers := append([]types.Logger(nil), c.loggers...)
	c.loggersMu.Unlock()
	notify(loggers, level, msg, keysAndValues...)
}
