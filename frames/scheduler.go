package frames

import (
	"context"
	"time"

	gkerr "github.com/KirkDiggler/gameobject-toolkit/internal/errors"
)

// Scheduler owns one dispatcher per phase and steps them in the fixed
// per-frame order: fixed-update, update, late-update. Dispatchers are
// provisioned lazily on first use and live for the scheduler's lifetime,
// so callers register observers without any wiring step.
//
// The scheduler is the explicitly owned replacement for per-phase global
// singletons: tests create a fresh one per case, and the host driver owns
// exactly one.
type Scheduler struct {
	dispatchers map[Phase]*Dispatcher
	work        *WorkQueue
	frame       uint64
}

// NewScheduler creates a scheduler with an empty work queue and no
// dispatchers provisioned yet.
func NewScheduler() *Scheduler {
	return &Scheduler{
		dispatchers: make(map[Phase]*Dispatcher),
		work:        NewWorkQueue(),
	}
}

// Dispatcher returns the dispatcher for a phase, creating it on first use.
func (s *Scheduler) Dispatcher(phase Phase) *Dispatcher {
	d, ok := s.dispatchers[phase]
	if !ok {
		d = NewDispatcher(phase)
		s.dispatchers[phase] = d
	}
	return d
}

// Work returns the scheduler's frame-thread work queue.
func (s *Scheduler) Work() *WorkQueue {
	return s.work
}

// FrameNumber returns the number of completed steps.
func (s *Scheduler) FrameNumber() uint64 {
	return s.frame
}

// Step runs one frame: drains marshaled work, then dispatches each
// provisioned phase in order. The first observer error aborts the
// remaining phases of this frame and propagates.
func (s *Scheduler) Step(delta time.Duration) error {
	s.frame++
	s.work.Drain()

	frame := Frame{Number: s.frame, Delta: delta}
	for _, phase := range phaseOrder {
		d, ok := s.dispatchers[phase]
		if !ok {
			continue
		}
		if err := d.Dispatch(frame); err != nil {
			return err
		}
	}
	return nil
}

// Run steps the scheduler at the given tick rate until ctx is cancelled
// or a step fails. The host driver decides whether a returned error is
// fatal.
func (s *Scheduler) Run(ctx context.Context, tickRate int) error {
	if tickRate <= 0 {
		return gkerr.Newf(gkerr.CodeInvalidArgument, "tick rate must be positive, got %d", tickRate)
	}

	interval := time.Second / time.Duration(tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if err := s.Step(now.Sub(last)); err != nil {
				return err
			}
			last = now
		}
	}
}
