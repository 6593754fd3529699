package autosave_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/gameobject-toolkit/autosave"
	"github.com/KirkDiggler/gameobject-toolkit/frames"
	gkerr "github.com/KirkDiggler/gameobject-toolkit/internal/errors"
	mocksaves "github.com/KirkDiggler/gameobject-toolkit/saves/mock"
)

type worldState struct {
	Score int `json:"score"`
}

func TestObserver_SavesOnInterval(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocksaves.NewMockStore(ctrl)

	state := worldState{Score: 10}
	obs, err := autosave.New(&autosave.Config{
		Store:    store,
		Slot:     "autosave",
		Interval: 3,
		Snapshot: func() (any, error) { return state, nil },
	})
	require.NoError(t, err)

	store.EXPECT().Save(gomock.Any(), "autosave", state).Return(nil).Times(2)

	for frame := uint64(1); frame <= 6; frame++ {
		require.NoError(t, obs.OnTick(frames.Frame{Number: frame, Phase: frames.PhaseLateUpdate}))
	}
}

func TestObserver_SaveFailureDoesNotAbortFrame(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocksaves.NewMockStore(ctrl)

	obs, err := autosave.New(&autosave.Config{
		Store:    store,
		Slot:     "autosave",
		Interval: 1,
		Snapshot: func() (any, error) { return worldState{}, nil },
	})
	require.NoError(t, err)

	store.EXPECT().Save(gomock.Any(), "autosave", worldState{}).Return(errors.New("disk full"))

	assert.NoError(t, obs.OnTick(frames.Frame{Number: 1}))
}

func TestObserver_SnapshotFailureSkipsSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocksaves.NewMockStore(ctrl)
	// No Save expectation: a failed snapshot must not reach the store.

	obs, err := autosave.New(&autosave.Config{
		Store:    store,
		Slot:     "autosave",
		Interval: 1,
		Snapshot: func() (any, error) { return nil, errors.New("world locked") },
	})
	require.NoError(t, err)

	assert.NoError(t, obs.OnTick(frames.Frame{Number: 1}))
}

func TestNew_Preconditions(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocksaves.NewMockStore(ctrl)
	snap := func() (any, error) { return nil, nil }

	_, err := autosave.New(nil)
	assert.True(t, gkerr.IsInvalidArgument(err))

	_, err = autosave.New(&autosave.Config{Slot: "s", Snapshot: snap})
	assert.True(t, gkerr.IsInvalidArgument(err))

	_, err = autosave.New(&autosave.Config{Store: store, Snapshot: snap})
	assert.True(t, gkerr.IsInvalidArgument(err))

	_, err = autosave.New(&autosave.Config{Store: store, Slot: "s"})
	assert.True(t, gkerr.IsInvalidArgument(err))
}
