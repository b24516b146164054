package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hwbot/internal/config"
	"hwbot/internal/homework"
	"hwbot/internal/notifier"
	"hwbot/internal/poller"
	"hwbot/internal/practicum"
	"hwbot/internal/runtime/supervisor"
	kit "hwbot/internal/transport"
	telegram "hwbot/internal/transport/telegram/adapter"
	logx "hwbot/pkg/logx"
)

// ErrMissingCredentials is returned by New after every missing credential
// has been logged at critical level. Callers exit without an error code.
var ErrMissingCredentials = errors.New("required credentials missing")

type Options struct {
	ConfigPath string
	EnvFile    string
	// Env overrides environment lookup (tests).
	Env func(string) (string, bool)
}

type App struct {
	cfgm *config.Manager
	log  logx.Logger
	logs *logx.Service

	client *practicum.Client
	notif  *notifier.Service
	poll   *poller.Poller
	lock   *instanceLock
	sd     sdNotifier
}

func New(opts Options) (*App, error) {
	if err := config.LoadDotEnv(opts.EnvFile); err != nil {
		return nil, err
	}

	cfgm := config.NewManager(opts.ConfigPath)
	if opts.Env != nil {
		cfgm.SetEnv(opts.Env)
	}
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logSvc, log := logx.New(mapLogging(cfg))
	appLog := log.With(logx.String("comp", "app"))

	creds := cfg.Credentials()
	if missing := creds.Missing(); len(missing) > 0 {
		for _, name := range missing {
			appLog.Critical("required environment variable missing", logx.String("name", name))
		}
		appLog.Critical("notifier stopped: credentials missing")
		_ = logSvc.Close()
		return nil, ErrMissingCredentials
	}

	a, err := build(cfg, creds, log)
	if err != nil {
		_ = logSvc.Close()
		return nil, err
	}
	a.cfgm = cfgm
	a.logs = logSvc
	a.log = appLog
	return a, nil
}

func build(cfg *config.Config, creds config.Credentials, log logx.Logger) (*App, error) {
	sched, err := poller.ParseRetryPeriod(cfg.Poller.RetryPeriod)
	if err != nil {
		return nil, fmt.Errorf("poller.retry_period: %w", err)
	}
	reqTimeout, sendTimeout, err := cfg.Timeouts()
	if err != nil {
		return nil, err
	}

	ad, err := telegram.New(telegram.Config{
		Token:       creds.TelegramToken,
		APIURL:      cfg.Telegram.APIURL,
		SendTimeout: sendTimeout,
	}, log.With(logx.String("comp", "telegram")))
	if err != nil {
		return nil, err
	}

	notif := notifier.New(notifier.Config{
		Target:      kit.ChatTarget{ChatID: creds.TelegramChatID, ThreadID: cfg.Telegram.ThreadID},
		RatePerSec:  cfg.Telegram.RatePerSec,
		SendTimeout: 2 * sendTimeout,
	}, ad, log.With(logx.String("comp", "notifier")))

	client := practicum.New(practicum.Config{
		Endpoint:      cfg.Practicum.Endpoint,
		Token:         creds.PracticumToken,
		Timeout:       reqTimeout,
		HonorFromDate: cfg.Practicum.HonorFromDate,
	}, log.With(logx.String("comp", "practicum")))

	a := &App{
		client: client,
		notif:  notif,
		lock:   newInstanceLock(cfg.Runtime.LockFile),
		sd:     sdNotifier{enabled: cfg.Runtime.SystemdNotify, log: log.With(logx.String("comp", "systemd"))},
	}
	a.poll = poller.New(client,
		homework.NewChecker(log.With(logx.String("comp", "homework"))),
		notif, sched,
		log.With(logx.String("comp", "poller")),
		poller.WithReportHook(a.onCycle),
	)
	return a, nil
}

func mapLogging(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}

// Run starts the poll loop and the config watcher and blocks until ctx is
// cancelled or a supervised goroutine fails.
func (a *App) Run(ctx context.Context) error {
	if err := a.lock.acquire(); err != nil {
		a.log.Error("startup aborted", logx.Err(err))
		return err
	}
	defer a.lock.release(a.log)

	sup := supervisor.New(ctx, supervisor.WithLogger(a.log), supervisor.WithCancelOnError(true))

	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	a.cfgm.SetValidator(func(_ context.Context, cfg *config.Config) error {
		if _, err := poller.ParseRetryPeriod(cfg.Poller.RetryPeriod); err != nil {
			return fmt.Errorf("poller.retry_period: %w", err)
		}
		return nil
	})
	sub := a.cfgm.Subscribe(4)

	sup.Go("config.watch", a.cfgm.Watch)
	sup.Go0("config.reload", func(c context.Context) {
		defer a.cfgm.Unsubscribe(sub)
		a.reloadLoop(c, sub)
	})
	sup.Go("poller.run", a.poll.Run)
	sup.Go0("systemd.watchdog", a.sd.watchdog)

	a.sd.ready()
	a.log.Info("homework notifier started",
		logx.String("endpoint", a.client.Endpoint()),
		logx.String("retry_period", a.cfgm.Get().Poller.RetryPeriod),
	)

	<-sup.Context().Done()
	a.sd.stopping()

	wctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := sup.Wait(wctx)
	if errors.Is(err, context.DeadlineExceeded) {
		a.log.Warn("shutdown timed out")
		return nil
	}
	if err != nil {
		return err
	}
	a.log.Info("homework notifier stopped")
	return nil
}

func (a *App) reloadLoop(ctx context.Context, sub <-chan *config.Config) {
	last := a.cfgm.Get()
	for {
		select {
		case <-ctx.Done():
			return
		case next, ok := <-sub:
			if !ok {
				return
			}
			changed, restart, attrs := config.SummarizeChange(last, next)
			if len(changed) == 0 {
				a.log.Debug("config reload received, but no effective changes detected")
				continue
			}
			fields := append([]logx.Field{logx.String("changed", strings.Join(changed, ","))}, attrs...)
			a.log.Info("config reloaded", fields...)
			if len(restart) > 0 {
				a.log.Warn("config sections changed that need a restart", logx.String("sections", strings.Join(restart, ",")))
			}

			a.logs.Apply(mapLogging(next))
			if sched, err := poller.ParseRetryPeriod(next.Poller.RetryPeriod); err == nil {
				a.poll.SetSchedule(sched)
			}
			last = next
		}
	}
}

func (a *App) onCycle(rep poller.CycleReport) {
	status := rep.Status
	if status == "" {
		status = "unknown"
	}
	line := fmt.Sprintf("last cycle %s: %s, homework status %s", rep.FinishedAt.Format(time.RFC3339), rep.Outcome, status)
	if rep.Err != nil {
		line += ", error: " + rep.Err.Error()
	}
	a.sd.status(line)
	a.log.Debug("cycle finished",
		logx.String("cycle", rep.ID),
		logx.String("outcome", string(rep.Outcome)),
		logx.Duration("took", rep.FinishedAt.Sub(rep.StartedAt)),
	)
}

// Close releases log sinks and idle connections.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	if a.client != nil {
		a.client.Close()
	}
	if a.logs != nil {
		return a.logs.Close()
	}
	return nil
}
