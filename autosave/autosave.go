// Package autosave snapshots game state on a frame interval. It is the
// stock composition of the frame dispatcher and the save store: register
// the observer on the late-update phase and it persists a snapshot every
// N frames, after the frame's game logic has run.
package autosave

import (
	"context"
	"log"

	"github.com/KirkDiggler/gameobject-toolkit/frames"
	gkerr "github.com/KirkDiggler/gameobject-toolkit/internal/errors"
	"github.com/KirkDiggler/gameobject-toolkit/saves"
)

// SnapshotFunc captures the current game state as a JSON-marshalable
// document.
type SnapshotFunc func() (any, error)

// Observer persists a snapshot every Interval frames.
type Observer struct {
	store    saves.Store
	slot     string
	interval uint64
	snapshot SnapshotFunc
}

// Config holds construction options for an autosave Observer.
type Config struct {
	// Store receives the snapshots. Required.
	Store saves.Store

	// Slot is the save key to write. Required.
	Slot string

	// Interval is the number of frames between saves. Zero means 300.
	Interval uint64

	// Snapshot captures the state to persist. Required.
	Snapshot SnapshotFunc
}

// New creates an autosave observer.
func New(cfg *Config) (*Observer, error) {
	if cfg == nil || cfg.Store == nil {
		return nil, gkerr.New(gkerr.CodeInvalidArgument, "store is required")
	}
	if cfg.Slot == "" {
		return nil, gkerr.New(gkerr.CodeInvalidArgument, "slot is required")
	}
	if cfg.Snapshot == nil {
		return nil, gkerr.New(gkerr.CodeInvalidArgument, "snapshot func is required")
	}

	interval := cfg.Interval
	if interval == 0 {
		interval = 300
	}

	return &Observer{
		store:    cfg.Store,
		slot:     cfg.Slot,
		interval: interval,
		snapshot: cfg.Snapshot,
	}, nil
}

// OnTick saves a snapshot on interval frames. A failed save is logged and
// retried on the next interval rather than propagated; losing one
// autosave must not abort the frame.
func (o *Observer) OnTick(frame frames.Frame) error {
	if frame.Number%o.interval != 0 {
		return nil
	}

	state, err := o.snapshot()
	if err != nil {
		log.Printf("Autosave: snapshot for %q failed: %v", o.slot, err)
		return nil
	}
	if err := o.store.Save(context.Background(), o.slot, state); err != nil {
		log.Printf("Autosave: save to %q failed: %v", o.slot, err)
	}
	return nil
}
