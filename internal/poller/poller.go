// Package poller implements the submit-then-check loop shared by every
// video-producing operation.
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

// DefaultInterval matches the cadence the remote jobs are designed around.
// The interval is a rate courtesy, not a correctness mechanism, so there is
// no backoff.
const DefaultInterval = 10 * time.Second

// CheckFunc performs a single status check and returns the updated job.
type CheckFunc func(ctx context.Context, job *domain.VideoJob) (*domain.VideoJob, error)

// Poller drives a pending job to a terminal state with strictly serialized
// checks at a fixed interval. MaxAttempts bounds the wait: a remote job the
// service never completes must not be polled forever.
type Poller struct {
	interval    time.Duration
	maxAttempts int
	logger      zerolog.Logger
}

// New constructs a Poller. maxAttempts is required and must be positive.
func New(interval time.Duration, maxAttempts int, logger zerolog.Logger) (*Poller, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxAttempts <= 0 {
		return nil, errors.New("poller: maxAttempts must be positive")
	}
	return &Poller{interval: interval, maxAttempts: maxAttempts, logger: logger}, nil
}

// Wait polls the job until it reaches a terminal state, the context is
// cancelled, or the attempt budget is exhausted. An already-terminal job is
// returned unchanged without invoking check. The context is consulted before
// each sleep and before each check, so tearing down the caller stops the
// loop without orphaned timers.
func (p *Poller) Wait(ctx context.Context, job *domain.VideoJob, check CheckFunc) (*domain.VideoJob, error) {
	if job == nil {
		return nil, errors.New("poller: job is required")
	}
	if job.Terminal() {
		return job, nil
	}

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-timer.C:
		}

		if err := ctx.Err(); err != nil {
			return job, err
		}

		updated, err := check(ctx, job)
		if err != nil {
			return job, err
		}
		job = updated

		if job.Terminal() {
			p.logger.Debug().
				Str("job_id", job.ID).
				Str("status", string(job.Status)).
				Int("attempts", attempt).
				Msg("poller: job reached terminal state")
			return job, nil
		}

		timer.Reset(p.interval)
	}

	return job, fmt.Errorf("%w: gave up after %d checks", domain.ErrPollTimeout, p.maxAttempts)
}
