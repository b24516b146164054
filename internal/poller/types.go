package poller

import (
	"context"
	"time"
)

// Fetcher retrieves the raw homework status payload.
type Fetcher interface {
	Fetch(ctx context.Context, since time.Time) (any, error)
}

// Notifier delivers chat messages; failures are its own business.
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// Outcome classifies how a cycle ended.
type Outcome string

const (
	OutcomeNotified Outcome = "notified"
	OutcomeNoChange Outcome = "no_change"
	OutcomeEmpty    Outcome = "empty"
	OutcomeFailed   Outcome = "failed"
)

// CycleReport summarizes one fetch/validate/parse/notify cycle.
type CycleReport struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcome    Outcome
	// Status is the last known status after the cycle.
	Status string
	Err    error
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
