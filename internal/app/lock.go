package app

import (
	"fmt"
	"strings"

	"github.com/gofrs/flock"

	logx "hwbot/pkg/logx"
)

// instanceLock keeps a second notifier from polling and messaging the same chat.
type instanceLock struct {
	path string
	fl   *flock.Flock
}

func newInstanceLock(path string) *instanceLock {
	path = strings.TrimSpace(path)
	if path == "" || path == "-" {
		return &instanceLock{}
	}
	return &instanceLock{path: path, fl: flock.New(path)}
}

func (l *instanceLock) acquire() error {
	if l == nil || l.fl == nil {
		return nil
	}
	ok, err := l.fl.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", l.path, err)
	}
	if !ok {
		return fmt.Errorf("another hwbot instance holds %s", l.path)
	}
	return nil
}

func (l *instanceLock) release(log logx.Logger) {
	if l == nil || l.fl == nil {
		return
	}
	if err := l.fl.Unlock(); err != nil {
		log.Warn("failed to release instance lock", logx.String("path", l.path), logx.Err(err))
	}
}
