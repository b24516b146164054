package notifier

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	kit "hwbot/internal/transport"
	logx "hwbot/pkg/logx"
)

// Service sends notifications to a single configured chat.
//
// It is safe for concurrent use.
type Service struct {
	log    logx.Logger
	sender kit.Sender

	mu      sync.Mutex
	cfg     Config
	limiter *rate.Limiter
	stats   Stats
}

func New(cfg Config, sender kit.Sender, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	s := &Service{sender: sender, log: log}
	s.applyLocked(cfg)
	return s
}

func (s *Service) Apply(cfg Config) {
	s.mu.Lock()
	s.applyLocked(cfg)
	s.mu.Unlock()
}

func (s *Service) applyLocked(cfg Config) {
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 1
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 30 * time.Second
	}
	s.cfg = cfg
	s.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec)
}

// Notify delivers text to the configured chat. Failures are logged, never returned.
func (s *Service) Notify(ctx context.Context, text string) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	cfg := s.cfg
	lim := s.limiter
	s.mu.Unlock()

	if s.sender == nil {
		s.fail(errors.New("no sender configured"), cfg.Target)
		return
	}

	sctx, cancel := context.WithTimeout(ctx, cfg.SendTimeout)
	defer cancel()

	if err := lim.Wait(sctx); err != nil {
		s.fail(err, cfg.Target)
		return
	}

	ref, err := s.sender.SendText(sctx, cfg.Target, text, &kit.SendOptions{DisablePreview: true})
	if err != nil {
		s.fail(err, cfg.Target)
		return
	}

	s.mu.Lock()
	s.stats.Sent++
	s.stats.LastSent = time.Now()
	s.mu.Unlock()
	s.log.Debug("message sent",
		logx.String("chat_id", cfg.Target.ChatID),
		logx.Int("message_id", ref.MessageID),
		logx.String("text", text),
	)
}

func (s *Service) fail(err error, to kit.ChatTarget) {
	s.mu.Lock()
	s.stats.Failed++
	s.stats.LastErr = err.Error()
	s.mu.Unlock()
	s.log.Error("message not sent", logx.String("chat_id", to.ChatID), logx.Err(err))
}

func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
