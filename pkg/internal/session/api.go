package session

import (
	"context"
	"fmt"

	"github.com/joeydtaylor/muedit/pkg/internal/quality"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
)

// Config returns the effective recalculation constants.
func (s *Session) Config() types.RecalcConfig {
	return s.cfg
}

// Metadata returns the session metadata.
func (s *Session) Metadata() types.SessionMetadata {
	return s.metadata
}

// Raw returns the raw recording.
func (s *Session) Raw() *types.MultichannelSignal {
	return s.raw
}

// Units returns copies of the remaining units in import order.
func (s *Session) Units() []*types.MotorUnit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.MotorUnit, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.units[id].Clone())
	}
	return out
}

// Unit returns a copy of one unit.
func (s *Session) Unit(id int) (*types.MotorUnit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	return u.Clone(), nil
}

func (s *Session) lookupLocked(id int) (*types.MotorUnit, error) {
	if u, ok := s.units[id]; ok {
		return u, nil
	}
	if _, ok := s.removed[id]; ok {
		return nil, fmt.Errorf("unit %d: %w", id, ErrUnitRemoved)
	}
	return nil, fmt.Errorf("unit %d: %w", id, types.ErrUnknownUnit)
}

// selectionRange clips a normalized selection to the sample indices that can
// lie strictly inside it.
func selectionRange(sel types.Selection, n int) (lo, hi int) {
	lo, hi = sel.FromSample+1, sel.ToSample-1
	if lo < 0 {
		lo = 0
	}
	if hi > n-1 {
		hi = n - 1
	}
	return lo, hi
}

// AddInSelection adds the highest pulse sample strictly inside sel to the
// unit's discharges. It returns the added index, or nothing when the box
// holds no sample or its maximum is already a discharge.
func (s *Session) AddInSelection(ctx context.Context, id int, sel types.Selection) ([]int, error) {
	s.mu.Lock()
	u, err := s.lookupLocked(id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	sel = sel.Normalized()
	lo, hi := selectionRange(sel, len(u.Pulse))
	best := -1
	for i := lo; i <= hi; i++ {
		v := u.Pulse[i]
		if !sel.Contains(i, v) {
			continue
		}
		if best < 0 || v > u.Pulse[best] {
			best = i
		}
	}
	if best < 0 {
		s.mu.Unlock()
		return nil, nil
	}
	next, ok := u.Discharges.Insert(best)
	if !ok {
		s.mu.Unlock()
		return nil, nil
	}
	u.Discharges = next
	u.State = types.StateEdited
	ev := s.editEventLocked(u, types.EventAdded, []int{best})
	s.mu.Unlock()

	s.count(types.MetricDischargesAdded, 1)
	s.NotifyLoggers(types.DebugLevel, "Discharge added",
		"component", s.componentMetadata,
		"event", "AddInSelection",
		"result", "SUCCESS",
		"unit", id,
		"sample", best,
		"selection", sel,
		"discharges", ev.Discharges,
	)
	s.publish(ctx, ev)
	return []int{best}, nil
}

// RemoveInSelection removes the discharges whose pulse sample lies strictly
// inside sel, at most MaxDeletions per call. It returns the removed indices.
func (s *Session) RemoveInSelection(ctx context.Context, id int, sel types.Selection) ([]int, error) {
	s.mu.Lock()
	u, err := s.lookupLocked(id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	sel = sel.Normalized()
	lo, hi := selectionRange(sel, len(u.Pulse))
	var removed []int
	next := u.Discharges
	for i := lo; i <= hi && len(removed) < s.cfg.MaxDeletions; i++ {
		if !sel.Contains(i, u.Pulse[i]) {
			continue
		}
		var ok bool
		if next, ok = next.Remove(i); ok {
			removed = append(removed, i)
		}
	}
	if len(removed) == 0 {
		s.mu.Unlock()
		return nil, nil
	}
	u.Discharges = next
	u.State = types.StateEdited
	ev := s.editEventLocked(u, types.EventRemoved, removed)
	s.mu.Unlock()

	s.count(types.MetricDischargesRemoved, uint64(len(removed)))
	if len(removed) == s.cfg.MaxDeletions {
		s.NotifyLoggers(types.InfoLevel, "Deletion limit reached",
			"component", s.componentMetadata,
			"event", "RemoveInSelection",
			"unit", id,
			"limit", s.cfg.MaxDeletions,
		)
	}
	s.NotifyLoggers(types.DebugLevel, "Discharges removed",
		"component", s.componentMetadata,
		"event", "RemoveInSelection",
		"result", "SUCCESS",
		"unit", id,
		"removed", removed,
		"discharges", ev.Discharges,
	)
	s.publish(ctx, ev)
	return removed, nil
}

// View returns what the display shows for a unit. Right after a
// recalculation it carries the SIL delta and its band; reading it clears the
// recalculated flag and makes the new score the reference for the next edit,
// so a second View reports no change.
func (s *Session) View(id int) (*types.UnitView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.lookupLocked(id)
	if err != nil {
		return nil, err
	}

	view := &types.UnitView{Band: types.BandNone}
	if u.Recalculated {
		view.Delta = u.SIL.Delta()
		view.Band = quality.Classify(view.Delta, s.cfg.BandThreshold)
	}
	view.Unit = u.Clone()
	view.Rate, view.RateTime = quality.DischargeRate(u.Discharges, s.raw.SampleRate)

	u.SIL.Before = u.SIL.After
	u.Recalculated = false
	return view, nil
}

func (s *Session) editEventLocked(u *types.MotorUnit, kind types.EventKind, changed []int) types.EditEvent {
	return types.EditEvent{
		Kind:       kind,
		Unit:       u.ID,
		Discharges: len(u.Discharges),
		Changed:    append([]int(nil), changed...),
		SILBefore:  u.SIL.Before,
		SILAfter:   u.SIL.After,
	}
}
