package notifier

import (
	"time"

	kit "hwbot/internal/transport"
)

// Config controls notification delivery.
type Config struct {
	Target kit.ChatTarget
	// RatePerSec is the sustained send rate; burst equals the rate. Default 1.
	RatePerSec int
	// SendTimeout bounds one delivery attempt, including rate-limit waiting. Default 30s.
	SendTimeout time.Duration
}

// Stats are best-effort delivery counters.
type Stats struct {
	Sent     uint64
	Failed   uint64
	LastSent time.Time
	LastErr  string
}
