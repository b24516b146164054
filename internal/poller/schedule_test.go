package poller

import (
	"testing"
	"time"
)

func TestParseRetryPeriod(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"", DefaultRetryPeriod},
		{"600s", 10 * time.Minute},
		{"90s", 90 * time.Second},
		{"00:10", 10 * time.Minute},
		{"01:30", 90 * time.Minute},
		{"@every 5m", 5 * time.Minute},
		{"*/15 * * * *", 15 * time.Minute},
	}
	for _, tc := range cases {
		s, err := ParseRetryPeriod(tc.raw)
		if err != nil {
			t.Fatalf("ParseRetryPeriod(%q): %v", tc.raw, err)
		}
		if got := untilNext(s, base); got != tc.want {
			t.Fatalf("ParseRetryPeriod(%q) wait = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestParseRetryPeriodErrors(t *testing.T) {
	for _, raw := range []string{"soon", "500ms", "-1m", "00:75", "@weekly-ish", "* * *"} {
		if _, err := ParseRetryPeriod(raw); err == nil {
			t.Fatalf("ParseRetryPeriod(%q) should fail", raw)
		}
	}
}
