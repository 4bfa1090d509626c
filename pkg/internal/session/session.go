// Package session owns one editing session over a decomposed recording: the
// raw signal, the motor units with their pulse and discharge trains, and the
// whitening state shared by every recalculation.
//
// The whitening state is built on the first recalculation and reused until
// the session is dropped. Every operation is scoped to a single unit; an
// error never leaves a unit half-updated.
package session

import (
	"fmt"
	"math"
	"sync"

	"github.com/joeydtaylor/muedit/pkg/internal/quality"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"github.com/joeydtaylor/muedit/pkg/internal/utils"
)

// Session holds one decomposition open for editing. It is safe for
// concurrent use; operations on different units serialize on one lock.
type Session struct {
	componentMetadata types.ComponentMetadata

	raw       *types.MultichannelSignal
	reference *types.MultichannelSignal
	metadata  types.SessionMetadata
	cfg       types.RecalcConfig

	mu      sync.Mutex
	order   []int
	units   map[int]*types.MotorUnit
	removed map[int]struct{}

	whiteningOnce  sync.Once
	whiteningState *types.WhiteningState
	whiteningErr   error
	whiteningBuilt int

	sink  types.EventSink
	meter types.Meter

	loggers   []types.Logger
	loggersMu sync.Mutex
}

// New opens a session over a decomposition. Every pulse train must match the
// raw sample count; discharges are sorted, deduplicated and clipped to the
// signal. The initial SIL of each unit becomes both its before and after
// score.
func New(decomp types.Decomposition, options ...types.Option[*Session]) (*Session, error) {
	if decomp.Raw == nil {
		return nil, types.ErrEmptySignal
	}
	n := decomp.Raw.Samples()

	s := &Session{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "SESSION",
		},
		raw:       decomp.Raw,
		reference: decomp.Reference,
		metadata:  decomp.Metadata,
		cfg:       types.DefaultRecalcConfig(),
		units:     make(map[int]*types.MotorUnit, len(decomp.Units)),
		removed:   make(map[int]struct{}),
		order:     make([]int, 0, len(decomp.Units)),
		loggers:   make([]types.Logger, 0),
	}

	for id, in := range decomp.Units {
		if len(in.Pulse) != n {
			return nil, fmt.Errorf("session: unit %d has %d pulse samples, signal has %d: %w", id, len(in.Pulse), n, types.ErrLengthMismatch)
		}
		u := &types.MotorUnit{
			ID:         id,
			Pulse:      types.PulseTrain(in.Pulse).Clone(),
			Discharges: types.NewDischargeTrain(in.Discharges, n),
			State:      types.StateLoaded,
		}
		if id < len(decomp.Accuracy) && !math.IsNaN(decomp.Accuracy[id]) {
			u.SIL = types.SILScore{Before: decomp.Accuracy[id], After: decomp.Accuracy[id]}
		} else if sil, err := quality.SIL(u.Pulse, u.Discharges); err == nil {
			u.SIL = types.SILScore{Before: sil, After: sil}
		}
		s.units[id] = u
		s.order = append(s.order, id)
	}

	for _, opt := range options {
		opt(s)
	}

	s.cfg = s.cfg.WithDefaults()
	if s.metadata.IED <= 0 {
		s.metadata.IED = s.cfg.IED
	}
	if s.metadata.GridName == "" {
		s.metadata.GridName = types.DefaultGridName
	}

	s.NotifyLoggers(types.InfoLevel, "Session opened",
		"component", s.componentMetadata,
		"event", "New",
		"result", "SUCCESS",
		"units", len(s.order),
		"channels", s.raw.Channels(),
		"samples", n,
		"sampleRate", s.raw.SampleRate,
	)
	return s, nil
}
