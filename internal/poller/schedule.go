package poller

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultRetryPeriod is the pause between cycles when none is configured.
const DefaultRetryPeriod = 10 * time.Minute

// Schedule decides when the next cycle starts, given the end of the last one.
type Schedule = cron.Schedule

var reHHMM = regexp.MustCompile(`^\s*(\d{1,3}):(\d{2})\s*$`)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseRetryPeriod parses a retry period into a Schedule.
//
// Supported forms:
//   - Go duration: "600s", "10m"
//   - HH:MM: "00:10" (10 minutes)
//   - Cron: "@every 10m", "*/10 * * * *"
//
// Empty input yields DefaultRetryPeriod.
func ParseRetryPeriod(raw string) (Schedule, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return cron.Every(DefaultRetryPeriod), nil
	}

	// any whitespace or leading '@' => cron
	if strings.ContainsAny(s, " \t") || strings.HasPrefix(s, "@") {
		sched, err := cronParser.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid retry period %q: %w", raw, err)
		}
		return sched, nil
	}

	if m := reHHMM.FindStringSubmatch(s); m != nil {
		hh, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if mm > 59 {
			return nil, fmt.Errorf("invalid minutes in %q", raw)
		}
		return every(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, fmt.Errorf(
			"invalid retry period %q (use a duration like '10m', HH:MM like '00:10', or cron like '@every 10m')",
			raw,
		)
	}
	return every(d)
}

func every(d time.Duration) (Schedule, error) {
	// cron.Every rounds to whole seconds.
	if d < time.Second {
		return nil, fmt.Errorf("retry period must be >= 1s, got %s", d)
	}
	return cron.Every(d), nil
}

// untilNext returns how long to sleep after a cycle that ended at now.
func untilNext(s Schedule, now time.Time) time.Duration {
	d := s.Next(now).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
