package frames_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/gameobject-toolkit/frames"
	gkerr "github.com/KirkDiggler/gameobject-toolkit/internal/errors"
)

func TestScheduler_PhaseOrder(t *testing.T) {
	s := frames.NewScheduler()

	var order []frames.Phase
	for _, phase := range []frames.Phase{frames.PhaseLateUpdate, frames.PhaseUpdate, frames.PhaseFixedUpdate} {
		p := phase
		rec := &frameCapturingObserver{onFrame: func(f frames.Frame) {
			order = append(order, p)
		}}
		require.NoError(t, s.Dispatcher(p).Register(rec))
	}

	require.NoError(t, s.Step(16*time.Millisecond))
	assert.Equal(t, []frames.Phase{frames.PhaseFixedUpdate, frames.PhaseUpdate, frames.PhaseLateUpdate}, order)
}

func TestScheduler_LazyDispatcherProvisioning(t *testing.T) {
	s := frames.NewScheduler()

	d := s.Dispatcher(frames.PhaseUpdate)
	require.NotNil(t, d)
	assert.Same(t, d, s.Dispatcher(frames.PhaseUpdate), "same instance on repeat lookup")
}

func TestScheduler_FrameNumberIncrements(t *testing.T) {
	s := frames.NewScheduler()

	var numbers []uint64
	rec := &frameCapturingObserver{onFrame: func(f frames.Frame) {
		numbers = append(numbers, f.Number)
	}}
	require.NoError(t, s.Dispatcher(frames.PhaseUpdate).Register(rec))

	require.NoError(t, s.Step(time.Millisecond))
	require.NoError(t, s.Step(time.Millisecond))
	assert.Equal(t, []uint64{1, 2}, numbers)
	assert.Equal(t, uint64(2), s.FrameNumber())
}

func TestScheduler_DrainsWorkBeforeDispatch(t *testing.T) {
	s := frames.NewScheduler()

	var order []string
	s.Work().Post(func() { order = append(order, "work") })

	rec := &frameCapturingObserver{onFrame: func(frames.Frame) {
		order = append(order, "fixed")
	}}
	require.NoError(t, s.Dispatcher(frames.PhaseFixedUpdate).Register(rec))

	require.NoError(t, s.Step(time.Millisecond))
	assert.Equal(t, []string{"work", "fixed"}, order)
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	s := frames.NewScheduler()

	ticks := 0
	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	rec := &frameCapturingObserver{onFrame: func(frames.Frame) {
		ticks++
		if ticks == 3 {
			cancel()
		}
	}}
	require.NoError(t, s.Dispatcher(frames.PhaseUpdate).Register(rec))

	go func() {
		defer close(done)
		err := s.Run(ctx, 200)
		assert.ErrorIs(t, err, context.Canceled)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
	assert.GreaterOrEqual(t, ticks, 3)
}

func TestScheduler_RunRejectsNonPositiveTickRate(t *testing.T) {
	s := frames.NewScheduler()

	for _, rate := range []int{0, -1} {
		err := s.Run(context.Background(), rate)
		require.Error(t, err)
		assert.True(t, gkerr.IsInvalidArgument(err), "tick rate %d", rate)
	}
}

func TestWorkQueue_PostFromOtherGoroutine(t *testing.T) {
	wq := frames.NewWorkQueue()

	done := make(chan struct{})
	ran := false
	go func() {
		wq.Post(func() { ran = true })
		close(done)
	}()
	<-done

	require.Equal(t, 1, wq.Len())
	wq.Drain()
	assert.True(t, ran)
	assert.Equal(t, 0, wq.Len())
}

func TestWorkQueue_WorkPostedDuringDrainRunsNextDrain(t *testing.T) {
	wq := frames.NewWorkQueue()

	second := false
	wq.Post(func() {
		wq.Post(func() { second = true })
	})

	wq.Drain()
	assert.False(t, second)
	wq.Drain()
	assert.True(t, second)
}
