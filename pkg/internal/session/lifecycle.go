package session

import (
	"context"
	"fmt"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
)

// Delete removes a unit after confirm approves it. A declined confirmation
// returns (false, nil) and changes nothing. On approval the unit's pulse
// train, discharges and scores are dropped together and the returned record
// is in StateRemoved.
func (s *Session) Delete(ctx context.Context, id int, confirm types.Confirmer) (*types.MotorUnit, bool, error) {
	s.mu.Lock()
	_, err := s.lookupLocked(id)
	s.mu.Unlock()
	if err != nil {
		return nil, false, err
	}
	if confirm == nil {
		return nil, false, fmt.Errorf("session: delete unit %d: no confirmer", id)
	}

	ok, err := confirm.Confirm(ctx, fmt.Sprintf("Delete motor unit %d?", id))
	if err != nil {
		return nil, false, err
	}
	if !ok {
		s.NotifyLoggers(types.InfoLevel, "Deletion declined",
			"component", s.componentMetadata,
			"event", "Delete",
			"result", "DECLINED",
			"unit", id,
		)
		return nil, false, nil
	}

	s.mu.Lock()
	u, err := s.lookupLocked(id)
	if err != nil {
		s.mu.Unlock()
		return nil, false, err
	}
	delete(s.units, id)
	s.removed[id] = struct{}{}
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	u.State = types.StateRemoved
	u.Recalculated = false
	ev := s.editEventLocked(u, types.EventDeleted, nil)
	s.mu.Unlock()

	s.count(types.MetricUnitsDeleted, 1)
	s.NotifyLoggers(types.InfoLevel, "Unit deleted",
		"component", s.componentMetadata,
		"event", "Delete",
		"result", "SUCCESS",
		"unit", id,
	)
	s.publish(ctx, ev)
	return u, true, nil
}

// Snapshot builds the persisted document of every remaining unit. Accuracy
// carries each unit's current SIL.
func (s *Session) Snapshot() *types.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() *types.Snapshot {
	n := s.raw.Samples()
	snap := &types.Snapshot{
		Source:     s.metadata.Source,
		Filename:   s.metadata.Filename,
		Raw:        s.raw,
		Reference:  s.reference,
		Accuracy:   make([]float64, 0, len(s.order)),
		Pulses:     make([]types.PulseTrain, 0, len(s.order)),
		Discharges: make([]types.DischargeTrain, 0, len(s.order)),
		SampleRate: s.raw.SampleRate,
		IED:        s.metadata.IED,
		Length:     n,
		Units:      len(s.order),
		Extras:     make(map[string]string, len(s.metadata.Extras)+1),
	}
	for k, v := range s.metadata.Extras {
		snap.Extras[k] = v
	}
	if s.metadata.GridName != "" {
		snap.Extras["grid"] = s.metadata.GridName
	}
	for _, id := range s.order {
		u := s.units[id]
		snap.Accuracy = append(snap.Accuracy, u.SIL.After)
		snap.Pulses = append(snap.Pulses, u.Pulse.Clone())
		snap.Discharges = append(snap.Discharges, u.Discharges.Clone())
	}
	snap.Firing = types.BinaryFiring(snap.Discharges, n)
	return snap
}

// Save writes a snapshot of every remaining unit through store under name
// and returns where it landed. A store failure is returned as is and leaves
// the session untouched; on success recalculated units move to StateSaved.
func (s *Session) Save(ctx context.Context, store types.SnapshotStore, name string) (string, error) {
	if store == nil {
		return "", fmt.Errorf("session: save %q: no snapshot store", name)
	}
	if name == "" {
		name = s.metadata.Filename
	}

	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	location, err := store.Save(ctx, name, snap)
	if err != nil {
		s.count(types.MetricSaveFailures, 1)
		s.NotifyLoggers(types.ErrorLevel, "Save failed",
			"component", s.componentMetadata,
			"event", "Save",
			"result", "FAILURE",
			"name", name,
			"error", err,
		)
		return "", err
	}

	s.mu.Lock()
	for _, id := range s.order {
		if u := s.units[id]; u.State == types.StateRecalculated {
			u.State = types.StateSaved
		}
	}
	s.mu.Unlock()

	s.count(types.MetricSaves, 1)
	s.NotifyLoggers(types.InfoLevel, "Session saved",
		"component", s.componentMetadata,
		"event", "Save",
		"result", "SUCCESS",
		"location", location,
		"units", snap.Units,
	)
	s.publish(ctx, types.EditEvent{Kind: types.EventSaved, Unit: -1, Discharges: countDischarges(snap), Location: location})
	return location, nil
}

func countDischarges(snap *types.Snapshot) int {
	total := 0
	for _, d := range snap.Discharges {
		total += len(d)
	}
	return total
}
