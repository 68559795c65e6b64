package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerLifecycle(t *testing.T) {
	tr := NewTracker()

	_, ok := tr.Current()
	assert.False(t, ok, "a fresh tracker must report no progress")

	tr.Set(30, "Generating visual scenes with Imagen model...")
	state, ok := tr.Current()
	require.True(t, ok)
	assert.Equal(t, 30, state.Percent)
	assert.Equal(t, "Generating visual scenes with Imagen model...", state.Stage)

	tr.Clear()
	_, ok = tr.Current()
	assert.False(t, ok, "cleared tracker must report no progress")
}

func TestTrackerCyclingPublishesImmediately(t *testing.T) {
	tr := NewTracker()
	stop := tr.StartCycling(time.Hour)
	defer stop()

	state, ok := tr.Current()
	require.True(t, ok)
	assert.Equal(t, loadingMessages[0], state.Stage)
	assert.Zero(t, state.Percent)
}

func TestTrackerCyclingAdvancesInOrder(t *testing.T) {
	tr := NewTracker()
	stop := tr.StartCycling(5 * time.Millisecond)
	defer stop()

	deadline := time.After(2 * time.Second)
	seen := map[string]bool{}
	for len(seen) < 3 {
		select {
		case <-deadline:
			t.Fatalf("cycling never advanced, saw %d distinct messages", len(seen))
		default:
		}
		if state, ok := tr.Current(); ok {
			seen[state.Stage] = true
		}
		time.Sleep(time.Millisecond)
	}
	for stage := range seen {
		assert.Contains(t, loadingMessages, stage)
	}
}

func TestTrackerStopIsIdempotent(t *testing.T) {
	tr := NewTracker()
	stop := tr.StartCycling(time.Millisecond)
	stop()
	stop()
}
