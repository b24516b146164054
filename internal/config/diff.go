package config

import (
	"strings"

	logx "hwbot/pkg/logx"
)

// SummarizeChange lists changed sections plus safe log fields (never secrets).
// The second return lists sections that only take effect after a restart.
func SummarizeChange(oldCfg, newCfg *Config) (changed []string, restart []string, attrs []logx.Field) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	if oldCfg.Logging != newCfg.Logging {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logging.level", newCfg.Logging.Level),
			logx.Bool("logging.console", newCfg.Logging.Console),
			logx.Bool("logging.file_enabled", newCfg.Logging.File.Enabled),
		)
	}
	if strings.TrimSpace(oldCfg.Poller.RetryPeriod) != strings.TrimSpace(newCfg.Poller.RetryPeriod) {
		changed = append(changed, "poller")
		attrs = append(attrs, logx.String("poller.retry_period", newCfg.Poller.RetryPeriod))
	}
	if oldCfg.Practicum != newCfg.Practicum {
		changed = append(changed, "practicum")
		restart = append(restart, "practicum")
		attrs = append(attrs,
			logx.String("practicum.endpoint", newCfg.Practicum.Endpoint),
			logx.Bool("practicum.token_set", strings.TrimSpace(newCfg.Practicum.Token) != ""),
		)
	}
	if oldCfg.Telegram != newCfg.Telegram {
		changed = append(changed, "telegram")
		restart = append(restart, "telegram")
		attrs = append(attrs,
			logx.Bool("telegram.token_set", strings.TrimSpace(newCfg.Telegram.Token) != ""),
			logx.Int("telegram.thread_id", newCfg.Telegram.ThreadID),
		)
	}
	if oldCfg.Runtime != newCfg.Runtime {
		changed = append(changed, "runtime")
		restart = append(restart, "runtime")
	}
	return changed, restart, attrs
}
