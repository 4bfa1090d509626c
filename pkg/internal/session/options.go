package session

import "github.com/joeydtaylor/muedit/pkg/internal/types"

// WithConfig replaces the recalculation constants. Zero fields fall back to
// the defaults; see RecalcConfig.WithDefaults for turning steps off.
func WithConfig(cfg types.RecalcConfig) types.Option[*Session] {
	return func(s *Session) {
		s.cfg = cfg
	}
}

// WithLogger attaches loggers to the session.
func WithLogger(loggers ...types.Logger) types.Option[*Session] {
	return func(s *Session) {
		s.ConnectLogger(loggers...)
	}
}

// WithEventSink publishes every applied edit to sink.
func WithEventSink(sink types.EventSink) types.Option[*Session] {
	return func(s *Session) {
		s.sink = sink
	}
}

// WithMeter records counters and timings into m.
func WithMeter(m types.Meter) types.Option[*Session] {
	return func(s *Session) {
		s.meter = m
	}
}

// WithMetadata overrides the metadata carried by the decomposition.
func WithMetadata(md types.SessionMetadata) types.Option[*Session] {
	return func(s *Session) {
		s.metadata = md
	}
}

// WithComponentMetadata sets the session name and id.
func WithComponentMetadata(name string, id string) types.Option[*Session] {
	return func(s *Session) {
		s.SetComponentMetadata(name, id)
	}
}
