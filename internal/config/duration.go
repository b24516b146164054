package config

import (
	"fmt"
	"strings"
	"time"
)

func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

func ParseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	d, err := ParseDurationField(path, raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return def, nil
	}
	return d, nil
}

const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultSendTimeout    = 15 * time.Second
)

// Timeouts resolves the practicum request and Telegram send timeouts,
// falling back to the defaults when unset or zero.
func (c *Config) Timeouts() (request, send time.Duration, err error) {
	request, err = ParseDurationOrDefault("practicum.request_timeout", c.Practicum.RequestTimeout, DefaultRequestTimeout)
	if err != nil {
		return 0, 0, err
	}
	send, err = ParseDurationOrDefault("telegram.send_timeout", c.Telegram.SendTimeout, DefaultSendTimeout)
	if err != nil {
		return 0, 0, err
	}
	return request, send, nil
}
