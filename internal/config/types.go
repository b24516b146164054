package config

// Config is the on-disk configuration. Secrets may be left empty here and
// supplied through the environment instead (see ApplyEnv).
type Config struct {
	Practicum PracticumConfig `json:"practicum"`
	Telegram  TelegramConfig  `json:"telegram"`
	Poller    PollerConfig    `json:"poller"`
	Logging   LoggingConfig   `json:"logging"`
	Runtime   RuntimeConfig   `json:"runtime"`
}

type PracticumConfig struct {
	Endpoint string `json:"endpoint,omitempty"`
	Token    string `json:"token,omitempty"`
	// RequestTimeout is a Go duration string (e.g. "30s").
	RequestTimeout string `json:"request_timeout,omitempty"`
	// HonorFromDate sends the last successful poll time as from_date instead
	// of the current time.
	HonorFromDate bool `json:"honor_from_date,omitempty"`
}

type TelegramConfig struct {
	Token string `json:"token,omitempty"`
	// ChatID is a numeric id or an "@channel" username.
	ChatID     string `json:"chat_id,omitempty"`
	ThreadID   int    `json:"thread_id,omitempty"`
	RatePerSec int    `json:"rate_per_sec,omitempty"`
	// SendTimeout is a Go duration string (e.g. "15s").
	SendTimeout string `json:"send_timeout,omitempty"`
	APIURL      string `json:"api_url,omitempty"`
}

type PollerConfig struct {
	// RetryPeriod accepts "10m", "00:10", "@every 10m" or a 5-field cron expression.
	RetryPeriod string `json:"retry_period,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type RuntimeConfig struct {
	// LockFile guards against two notifiers running for the same chat.
	// "-" disables locking.
	LockFile      string `json:"lock_file,omitempty"`
	SystemdNotify bool   `json:"systemd_notify,omitempty"`
}

// Default mirrors the behaviour of running with no config file at all.
func Default() *Config {
	return &Config{
		Poller: PollerConfig{RetryPeriod: "10m"},
		Logging: LoggingConfig{
			Level:   "debug",
			Console: true,
			File:    LoggingFile{Enabled: true, Path: "./bot.log"},
		},
		Runtime: RuntimeConfig{LockFile: "./hwbot.lock", SystemdNotify: true},
	}
}
