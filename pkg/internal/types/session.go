package types

import (
	"context"
	"time"
)

// Confirmer gates destructive operations. It returns true when the caller
// approved the action described by prompt.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// EventKind names what happened to a unit.
type EventKind string

const (
	EventAdded        EventKind = "discharge_added"
	EventRemoved      EventKind = "discharge_removed"
	EventRecalculated EventKind = "recalculated"
	EventDeleted      EventKind = "unit_deleted"
	EventSaved        EventKind = "saved"
)

// EditEvent describes one applied edit for audit consumers.
type EditEvent struct {
	SessionID  string    `json:"session_id"`
	Kind       EventKind `json:"kind"`
	Unit       int       `json:"unit"`
	Discharges int       `json:"discharges"`
	Changed    []int     `json:"changed,omitempty"`
	SILBefore  float64   `json:"sil_before"`
	SILAfter   float64   `json:"sil_after"`
	Band       string    `json:"band,omitempty"`
	Location   string    `json:"location,omitempty"`
	Time       time.Time `json:"time"`
}

// EventSink receives edit events. Publishing failures never roll back an
// edit; implementations report them through their own loggers.
type EventSink interface {
	Publish(ctx context.Context, ev EditEvent) error
}

// SnapshotStore persists and restores session snapshots.
type SnapshotStore interface {
	Save(ctx context.Context, name string, snap *Snapshot) (string, error)
	Load(ctx context.Context, location string) (*Snapshot, error)
}
