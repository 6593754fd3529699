package frames_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/gameobject-toolkit/frames"
	gkerr "github.com/KirkDiggler/gameobject-toolkit/internal/errors"
)

// tickRecorder counts invocations and runs an optional hook per tick
type tickRecorder struct {
	name  string
	calls int
	hook  func()
	err   error
}

func (r *tickRecorder) OnTick(frames.Frame) error {
	r.calls++
	if r.hook != nil {
		r.hook()
	}
	return r.err
}

func TestDispatcher_ReverseInsertionOrder(t *testing.T) {
	d := frames.NewDispatcher(frames.PhaseUpdate)

	var order []string
	for _, name := range []string{"A", "B", "C"} {
		rec := &tickRecorder{name: name}
		n := name
		rec.hook = func() { order = append(order, n) }
		require.NoError(t, d.Register(rec))
	}

	require.NoError(t, d.Dispatch(frames.Frame{Number: 1}))
	assert.Equal(t, []string{"C", "B", "A"}, order)
}

func TestDispatcher_DuplicateRegisterIsNoOp(t *testing.T) {
	d := frames.NewDispatcher(frames.PhaseUpdate)
	rec := &tickRecorder{}

	require.NoError(t, d.Register(rec))
	require.NoError(t, d.Register(rec))
	assert.Equal(t, 1, d.Len())

	require.NoError(t, d.Dispatch(frames.Frame{Number: 1}))
	assert.Equal(t, 1, rec.calls)
}

func TestDispatcher_RegisterNilFails(t *testing.T) {
	d := frames.NewDispatcher(frames.PhaseUpdate)
	assert.True(t, gkerr.IsInvalidArgument(d.Register(nil)))
}

func TestDispatcher_UnregisterAbsentIsNoOp(t *testing.T) {
	d := frames.NewDispatcher(frames.PhaseUpdate)
	d.Unregister(&tickRecorder{})
	assert.Equal(t, 0, d.Len())
}

func TestDispatcher_SelfUnregistration(t *testing.T) {
	// The removing observer unregisters itself inside its own callback. It
	// must not be invoked again in the pass, no other observer may be
	// skipped or double-invoked, and the next pass must exclude it.
	counts := []int{1, 2, 50}
	positions := map[string]func(n int) int{
		"first":  func(n int) int { return 0 },
		"middle": func(n int) int { return n / 2 },
		"last":   func(n int) int { return n - 1 },
	}

	for _, n := range counts {
		for posName, posFn := range positions {
			t.Run(fmt.Sprintf("count=%d/%s", n, posName), func(t *testing.T) {
				d := frames.NewDispatcher(frames.PhaseUpdate)
				observers := make([]*tickRecorder, n)
				removeIdx := posFn(n)

				for i := 0; i < n; i++ {
					rec := &tickRecorder{name: fmt.Sprintf("o%d", i)}
					observers[i] = rec
					require.NoError(t, d.Register(rec))
				}
				remover := observers[removeIdx]
				remover.hook = func() { d.Unregister(remover) }

				require.NoError(t, d.Dispatch(frames.Frame{Number: 1}))
				for i, rec := range observers {
					assert.Equal(t, 1, rec.calls, "observer %d first pass", i)
				}

				require.NoError(t, d.Dispatch(frames.Frame{Number: 2}))
				for i, rec := range observers {
					want := 2
					if i == removeIdx {
						want = 1
					}
					assert.Equal(t, want, rec.calls, "observer %d second pass", i)
				}
			})
		}
	}
}

func TestDispatcher_UnregisterOtherMidPass(t *testing.T) {
	// Observers [A, B, C]; C unregisters B during its callback. Reverse
	// traversal runs C first, B is skipped, A still runs: {C, A}.
	d := frames.NewDispatcher(frames.PhaseUpdate)

	var order []string
	a := &tickRecorder{name: "A"}
	a.hook = func() { order = append(order, "A") }
	b := &tickRecorder{name: "B"}
	b.hook = func() { order = append(order, "B") }
	c := &tickRecorder{name: "C"}

	require.NoError(t, d.Register(a))
	require.NoError(t, d.Register(b))
	require.NoError(t, d.Register(c))

	c.hook = func() {
		order = append(order, "C")
		d.Unregister(b)
	}

	require.NoError(t, d.Dispatch(frames.Frame{Number: 1}))
	assert.Equal(t, []string{"C", "A"}, order)
	assert.Equal(t, 0, b.calls)
	assert.Equal(t, 2, d.Len())
}

func TestDispatcher_DeferredRegistration(t *testing.T) {
	d := frames.NewDispatcher(frames.PhaseUpdate)

	newcomer := &tickRecorder{name: "newcomer"}
	registrar := &tickRecorder{name: "registrar"}
	registrar.hook = func() {
		require.NoError(t, d.Register(newcomer))
	}
	require.NoError(t, d.Register(registrar))

	require.NoError(t, d.Dispatch(frames.Frame{Number: 1}))
	assert.Equal(t, 0, newcomer.calls, "not invoked in the registering pass")

	require.NoError(t, d.Dispatch(frames.Frame{Number: 2}))
	assert.Equal(t, 1, newcomer.calls, "invoked starting the next pass")
}

func TestDispatcher_PendingAppendsAfterExisting(t *testing.T) {
	d := frames.NewDispatcher(frames.PhaseUpdate)

	var order []string
	newcomer := &tickRecorder{name: "new"}
	newcomer.hook = func() { order = append(order, "new") }

	existing := &tickRecorder{name: "old"}
	existing.hook = func() {
		order = append(order, "old")
		if newcomer.calls == 0 && len(order) == 1 {
			require.NoError(t, d.Register(newcomer))
		}
	}
	require.NoError(t, d.Register(existing))

	require.NoError(t, d.Dispatch(frames.Frame{Number: 1}))
	require.NoError(t, d.Dispatch(frames.Frame{Number: 2}))

	// Appended after existing entries, so reverse traversal runs it first.
	assert.Equal(t, []string{"old", "new", "old"}, order)
}

func TestDispatcher_UnregisterPendingObserver(t *testing.T) {
	d := frames.NewDispatcher(frames.PhaseUpdate)

	pending := &tickRecorder{name: "pending"}
	registrar := &tickRecorder{name: "registrar"}
	registrar.hook = func() {
		require.NoError(t, d.Register(pending))
		d.Unregister(pending)
	}
	require.NoError(t, d.Register(registrar))

	require.NoError(t, d.Dispatch(frames.Frame{Number: 1}))
	require.NoError(t, d.Dispatch(frames.Frame{Number: 2}))
	assert.Equal(t, 0, pending.calls, "dropped from pending, never dispatched")
	assert.Equal(t, 1, d.Len())
}

func TestDispatcher_ObserverErrorPropagates(t *testing.T) {
	d := frames.NewDispatcher(frames.PhaseUpdate)

	boom := errors.New("observer exploded")
	failing := &tickRecorder{err: boom}
	require.NoError(t, d.Register(failing))

	err := d.Dispatch(frames.Frame{Number: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	// Dispatcher returned to idle; later passes still work.
	failing.err = nil
	require.NoError(t, d.Dispatch(frames.Frame{Number: 2}))
	assert.Equal(t, 2, failing.calls)
}

func TestDispatcher_PendingMergedEvenWhenPassFails(t *testing.T) {
	d := frames.NewDispatcher(frames.PhaseUpdate)

	newcomer := &tickRecorder{name: "newcomer"}
	boom := errors.New("observer exploded")
	failing := &tickRecorder{err: boom}
	failing.hook = func() {
		require.NoError(t, d.Register(newcomer))
	}
	require.NoError(t, d.Register(failing))

	require.Error(t, d.Dispatch(frames.Frame{Number: 1}))

	failing.err = nil
	require.NoError(t, d.Dispatch(frames.Frame{Number: 2}))
	assert.Equal(t, 1, newcomer.calls)
}

func TestDispatcher_FramePhaseStamped(t *testing.T) {
	d := frames.NewDispatcher(frames.PhaseLateUpdate)

	var seen frames.Frame
	rec := &frameCapturingObserver{onFrame: func(f frames.Frame) { seen = f }}
	require.NoError(t, d.Register(rec))

	require.NoError(t, d.Dispatch(frames.Frame{Number: 9}))
	assert.Equal(t, frames.PhaseLateUpdate, seen.Phase)
	assert.Equal(t, uint64(9), seen.Number)
}

type frameCapturingObserver struct {
	onFrame func(frames.Frame)
}

func (f *frameCapturingObserver) OnTick(frame frames.Frame) error {
	f.onFrame(frame)
	return nil
}
