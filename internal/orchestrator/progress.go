package orchestrator

import (
	"sync"
	"time"

	"server/internal/domain"
)

// cycleInterval is the cadence at which ambient loading messages rotate while
// a generation with no finer-grained progress signal is in flight.
const cycleInterval = 2 * time.Second

var loadingMessages = []string{
	"Warming up the cameras...",
	"Syncing the visuals to the beat...",
	"Composing the first shot...",
	"Applying stylistic filters...",
	"Rendering the scene...",
	"Animating the lyrics...",
	"Editing the sequence...",
	"Polishing the final cut...",
	"Almost there, the masterpiece is coming!",
}

// Tracker holds the progress state of the single in-flight generation. It is
// safe for concurrent use: the generation goroutine writes while HTTP readers
// poll Current.
type Tracker struct {
	mu    sync.Mutex
	state *domain.ProgressState
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Current returns a copy of the live progress state. The second return is
// false when no generation is in flight.
func (t *Tracker) Current() (domain.ProgressState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == nil {
		return domain.ProgressState{}, false
	}
	return *t.state, true
}

// Set records a checkpoint with an explicit percentage and stage label.
func (t *Tracker) Set(percent int, stage string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = &domain.ProgressState{Percent: percent, Stage: stage}
}

// Clear wipes the progress state once a generation settles, so a finished or
// failed run never leaks stale progress into the next one.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = nil
}

// StartCycling rotates through the ambient loading messages in order until
// the returned stop function is called. The first message is published
// immediately. Percent stays at zero; cycling paths have no reliable
// percentage to report.
func (t *Tracker) StartCycling(interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = cycleInterval
	}
	t.Set(0, loadingMessages[0])

	done := make(chan struct{})
	var once sync.Once
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		next := 1
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				t.Set(0, loadingMessages[next])
				next = (next + 1) % len(loadingMessages)
			}
		}
	}()
	return func() { once.Do(func() { close(done) }) }
}
