package builder

import (
	"context"

	"github.com/joeydtaylor/muedit/pkg/internal/session"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
)

type (
	Session            = session.Session
	SessionOption      = types.Option[*session.Session]
	RecalcConfig       = types.RecalcConfig
	BandPassConfig     = types.BandPassConfig
	ClusterConfig      = types.ClusterConfig
	Decomposition      = types.Decomposition
	UnitInput          = types.UnitInput
	SessionMetadata    = types.SessionMetadata
	MultichannelSignal = types.MultichannelSignal
	MotorUnit          = types.MotorUnit
	UnitView           = types.UnitView
	Selection          = types.Selection
	Snapshot           = types.Snapshot
	EditEvent          = types.EditEvent
	EventKind          = types.EventKind
	EventSink          = types.EventSink
	SnapshotStore      = types.SnapshotStore
	Confirmer          = types.Confirmer
	ConfirmFunc        = types.ConfirmFunc
)

const (
	EventAdded        = types.EventAdded
	EventRemoved      = types.EventRemoved
	EventRecalculated = types.EventRecalculated
	EventDeleted      = types.EventDeleted
	EventSaved        = types.EventSaved
)

// DefaultRecalcConfig returns the reference recalculation constants.
func DefaultRecalcConfig() RecalcConfig {
	return types.DefaultRecalcConfig()
}

// NewMultichannelSignal copies rows (one per channel) into a signal.
func NewMultichannelSignal(rows [][]float64, sampleRate float64) (*MultichannelSignal, error) {
	return types.NewMultichannelSignal(rows, sampleRate)
}

// NewSession opens an editing session over a decomposition.
func NewSession(decomp Decomposition, options ...types.Option[*session.Session]) (*Session, error) {
	return session.New(decomp, options...)
}

func SessionWithConfig(cfg RecalcConfig) types.Option[*session.Session] {
	return session.WithConfig(cfg)
}

func SessionWithLogger(loggers ...types.Logger) types.Option[*session.Session] {
	return session.WithLogger(loggers...)
}

// SessionWithEventSink publishes every applied edit to sink.
func SessionWithEventSink(sink EventSink) types.Option[*session.Session] {
	return session.WithEventSink(sink)
}

func SessionWithMeter(m types.Meter) types.Option[*session.Session] {
	return session.WithMeter(m)
}

func SessionWithMetadata(md SessionMetadata) types.Option[*session.Session] {
	return session.WithMetadata(md)
}

func SessionWithComponentMetadata(name string, id string) types.Option[*session.Session] {
	return session.WithComponentMetadata(name, id)
}

// AlwaysConfirm approves every deletion. Intended for batch tools.
var AlwaysConfirm Confirmer = ConfirmFunc(alwaysConfirm)

func alwaysConfirm(context.Context, string) (bool, error) { return true, nil }
