package app

import (
	"context"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	logx "hwbot/pkg/logx"
)

// sdNotifier reports lifecycle to systemd. Outside a notify-type unit every
// call is a no-op.
type sdNotifier struct {
	enabled bool
	log     logx.Logger
}

func (n sdNotifier) send(state string) {
	if !n.enabled {
		return
	}
	if _, err := daemon.SdNotify(false, state); err != nil {
		n.log.Debug("sd_notify failed", logx.String("state", state), logx.Err(err))
	}
}

func (n sdNotifier) ready()             { n.send(daemon.SdNotifyReady) }
func (n sdNotifier) stopping()          { n.send(daemon.SdNotifyStopping) }
func (n sdNotifier) status(line string) { n.send("STATUS=" + line) }

// watchdog pings systemd at half the configured WatchdogSec until ctx is done.
func (n sdNotifier) watchdog(ctx context.Context) {
	if !n.enabled {
		return
	}
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval <= 0 {
		return
	}
	t := time.NewTicker(interval / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n.send(daemon.SdNotifyWatchdog)
		}
	}
}
