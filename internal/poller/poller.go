// Package poller runs the homework status loop: fetch, validate, compare
// with the last known status, notify, sleep, repeat.
//
// The loop is strictly sequential. Last known status lives on the Poller and
// is only touched by RunCycle, so a failed cycle leaves it as it was.
package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"hwbot/internal/homework"
	logx "hwbot/pkg/logx"
)

// FailurePrefix starts every cycle failure notification.
const FailurePrefix = "Сбой в работе программы: "

type scheduleBox struct{ s Schedule }

type Poller struct {
	log    logx.Logger
	fetch  Fetcher
	check  *homework.Checker
	notify Notifier

	sched   atomic.Pointer[scheduleBox]
	sleep   SleepFunc
	now     func() time.Time
	onCycle func(CycleReport)

	// Owned by the loop goroutine.
	lastStatus string
	lastPoll   time.Time
}

type Option func(*Poller)

func WithSleep(fn SleepFunc) Option {
	return func(p *Poller) {
		if fn != nil {
			p.sleep = fn
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Poller) {
		if now != nil {
			p.now = now
		}
	}
}

// WithReportHook registers fn to receive every CycleReport from Run.
func WithReportHook(fn func(CycleReport)) Option {
	return func(p *Poller) { p.onCycle = fn }
}

func New(fetch Fetcher, check *homework.Checker, notify Notifier, sched Schedule, log logx.Logger, opts ...Option) *Poller {
	if log.IsZero() {
		log = logx.Nop()
	}
	if check == nil {
		check = homework.NewChecker(log)
	}
	p := &Poller{
		log:    log,
		fetch:  fetch,
		check:  check,
		notify: notify,
		sleep:  sleepCtx,
		now:    time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	p.SetSchedule(sched)
	p.lastPoll = p.now()
	return p
}

// SetSchedule swaps the retry schedule; it takes effect after the current cycle.
// A nil schedule restores DefaultRetryPeriod.
func (p *Poller) SetSchedule(s Schedule) {
	if s == nil {
		s, _ = ParseRetryPeriod("")
	}
	p.sched.Store(&scheduleBox{s: s})
}

func (p *Poller) schedule() Schedule { return p.sched.Load().s }

// LastStatus returns the last status a notification was sent for.
// Not safe to call concurrently with Run.
func (p *Poller) LastStatus() string { return p.lastStatus }

// Run executes cycles until ctx is cancelled. The pause after each cycle is
// unconditional, whether the cycle succeeded or not.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info("poll loop started")
	for {
		rep := p.RunCycle(ctx)
		if p.onCycle != nil {
			p.onCycle(rep)
		}
		if ctx.Err() != nil {
			break
		}

		wait := untilNext(p.schedule(), p.now())
		p.log.Debug("sleeping until next cycle", logx.Duration("wait", wait))
		if err := p.sleep(ctx, wait); err != nil {
			break
		}
	}
	p.log.Info("poll loop stopped")
	return nil
}

// RunCycle performs one fetch/validate/compare/notify pass. Errors are
// reported to the chat and logged; they never escape.
func (p *Poller) RunCycle(ctx context.Context) CycleReport {
	rep := CycleReport{ID: uuid.NewString(), StartedAt: p.now()}
	log := p.log.With(logx.String("cycle", rep.ID))

	outcome, err := p.cycle(ctx, log, rep.StartedAt)
	rep.FinishedAt = p.now()
	rep.Outcome = outcome
	rep.Status = p.lastStatus
	if err == nil {
		return rep
	}

	rep.Outcome = OutcomeFailed
	rep.Err = err
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		log.Debug("cycle interrupted by shutdown", logx.Err(err))
		return rep
	}
	p.notify.Notify(ctx, FailurePrefix+err.Error())
	log.Error("cycle failed", logx.Err(err))
	return rep
}

func (p *Poller) cycle(ctx context.Context, log logx.Logger, started time.Time) (Outcome, error) {
	payload, err := p.fetch.Fetch(ctx, p.lastPoll)
	if err != nil {
		return OutcomeFailed, err
	}
	list, err := p.check.Validate(payload)
	if err != nil {
		return OutcomeFailed, err
	}
	if len(list) == 0 {
		p.lastPoll = started
		log.Info("no update")
		return OutcomeEmpty, nil
	}

	// Index 0 is the newest submission.
	newest := list[0]
	status := homework.StatusOf(newest)
	if status != "" && status == p.lastStatus {
		p.lastPoll = started
		log.Info("no change", logx.String("status", status))
		return OutcomeNoChange, nil
	}

	msg, err := p.check.Parse(newest)
	if err != nil {
		return OutcomeFailed, err
	}
	p.notify.Notify(ctx, msg)
	log.Info("status changed", logx.String("from", p.lastStatus), logx.String("to", status))
	p.lastStatus = status
	p.lastPoll = started
	return OutcomeNotified, nil
}
