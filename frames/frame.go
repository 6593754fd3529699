package frames

import "time"

// Phase identifies one of the three per-frame dispatch phases. Each frame
// runs fixed-update first, then update, then late-update, matching the
// host's simulation/render cadence.
type Phase string

const (
	PhaseFixedUpdate Phase = "fixed_update"
	PhaseUpdate      Phase = "update"
	PhaseLateUpdate  Phase = "late_update"
)

// phaseOrder is the per-frame dispatch order.
var phaseOrder = []Phase{PhaseFixedUpdate, PhaseUpdate, PhaseLateUpdate}

// Frame carries per-tick context to observers.
type Frame struct {
	// Number is the frame counter, incremented once per scheduler step
	Number uint64

	// Phase is the dispatch phase this notification belongs to
	Phase Phase

	// Delta is the time elapsed since the previous frame
	Delta time.Duration
}

// Observer receives one notification per registered phase per frame.
// Identity is Go interface equality; the same observer value must be passed
// to Register and Unregister.
type Observer interface {
	OnTick(frame Frame) error
}
