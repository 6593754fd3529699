package frames

import (
	"fmt"
	"log"

	gkerr "github.com/KirkDiggler/gameobject-toolkit/internal/errors"
)

// Dispatcher notifies the observers of one phase, once per frame.
//
// Mutation during a pass is safe: Dispatch traverses a snapshot of the
// active list taken at pass start and checks each entry is still registered
// before invoking it. An observer unregistered mid-pass (by itself or by
// another observer) is skipped for the rest of the pass, and no other
// observer is skipped or double-invoked. Observers registered mid-pass are
// buffered and first notified on the following pass.
//
// Traversal is in reverse insertion order, so with observers [A, B, C] a
// pass runs C, B, A. Pending additions are appended after existing entries
// when the pass completes.
//
// The dispatcher is frame-thread-only; it takes no locks. Cross-thread
// registration must be marshaled through a WorkQueue.
type Dispatcher struct {
	phase Phase

	active      []Observer
	activeSet   map[Observer]struct{}
	pending     []Observer
	pendingSet  map[Observer]struct{}
	dispatching bool
}

// NewDispatcher creates an idle dispatcher for the given phase.
func NewDispatcher(phase Phase) *Dispatcher {
	return &Dispatcher{
		phase:      phase,
		activeSet:  make(map[Observer]struct{}),
		pendingSet: make(map[Observer]struct{}),
	}
}

// Phase returns the phase this dispatcher serves.
func (d *Dispatcher) Phase() Phase {
	return d.phase
}

// Register adds an observer. While a pass is in progress the observer is
// buffered and first notified on the next pass; while idle it joins the
// active list directly and is notified starting the next pass either way.
// Registering an observer already present in the active list or the
// pending buffer is a logged no-op.
func (d *Dispatcher) Register(o Observer) error {
	if o == nil {
		return gkerr.New(gkerr.CodeInvalidArgument, "observer is required")
	}

	if _, ok := d.activeSet[o]; ok {
		log.Printf("FrameDispatcher(%s): duplicate register ignored", d.phase)
		return nil
	}
	if _, ok := d.pendingSet[o]; ok {
		log.Printf("FrameDispatcher(%s): duplicate register ignored (pending)", d.phase)
		return nil
	}

	if d.dispatching {
		d.pending = append(d.pending, o)
		d.pendingSet[o] = struct{}{}
		return nil
	}

	d.active = append(d.active, o)
	d.activeSet[o] = struct{}{}
	return nil
}

// Unregister removes an observer from the active list, or drops it from
// the pending buffer if it was registered mid-pass and never dispatched.
// Unregistering an absent observer is a logged no-op.
func (d *Dispatcher) Unregister(o Observer) {
	if o == nil {
		log.Printf("FrameDispatcher(%s): unregister of nil observer ignored", d.phase)
		return
	}

	if _, ok := d.activeSet[o]; ok {
		delete(d.activeSet, o)
		for i, existing := range d.active {
			if existing == o {
				d.active = append(d.active[:i], d.active[i+1:]...)
				break
			}
		}
		return
	}

	if _, ok := d.pendingSet[o]; ok {
		delete(d.pendingSet, o)
		for i, existing := range d.pending {
			if existing == o {
				d.pending = append(d.pending[:i], d.pending[i+1:]...)
				break
			}
		}
		return
	}

	log.Printf("FrameDispatcher(%s): unregister ignored, observer not registered", d.phase)
}

// Dispatch runs one notification pass. An observer error stops the pass
// and propagates, but the pending buffer is still merged and the
// dispatcher returns to idle.
func (d *Dispatcher) Dispatch(frame Frame) error {
	if d.dispatching {
		return gkerr.Newf(gkerr.CodeInternal, "reentrant dispatch on %s", d.phase)
	}

	d.dispatching = true
	defer func() {
		d.mergePending()
		d.dispatching = false
	}()

	snapshot := make([]Observer, len(d.active))
	copy(snapshot, d.active)

	frame.Phase = d.phase
	for i := len(snapshot) - 1; i >= 0; i-- {
		o := snapshot[i]
		if _, alive := d.activeSet[o]; !alive {
			continue
		}
		if err := o.OnTick(frame); err != nil {
			return fmt.Errorf("dispatching %s frame %d: %w", d.phase, frame.Number, err)
		}
	}
	return nil
}

// Len returns the active observer count. Pending observers are not counted
// until their first merge.
func (d *Dispatcher) Len() int {
	return len(d.active)
}

func (d *Dispatcher) mergePending() {
	if len(d.pending) == 0 {
		return
	}
	for _, o := range d.pending {
		d.active = append(d.active, o)
		d.activeSet[o] = struct{}{}
		delete(d.pendingSet, o)
	}
	d.pending = d.pending[:0]
}
