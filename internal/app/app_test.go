package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"hwbot/internal/config"
	"hwbot/internal/homework"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

var fullEnv = map[string]string{
	config.EnvPracticumToken: "p-token",
	config.EnvTelegramToken:  "123:abc",
	config.EnvTelegramChatID: "42",
}

func writeConfig(t *testing.T, dir, practicumURL, telegramURL string) string {
	t.Helper()
	body := strings.Join([]string{
		"practicum:",
		"  endpoint: " + practicumURL,
		"  request_timeout: 2s",
		"telegram:",
		"  api_url: " + telegramURL,
		"  rate_per_sec: 10",
		"poller:",
		"  retry_period: 1s",
		"logging:",
		"  level: debug",
		"  console: false",
		"  file:",
		"    enabled: true",
		"    path: " + filepath.Join(dir, "bot.log"),
		"runtime:",
		"  lock_file: " + filepath.Join(dir, "hwbot.lock"),
		"  systemd_notify: false",
		"",
	}, "\n")
	path := filepath.Join(dir, "hwbot.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

type telegramStub struct {
	mu    sync.Mutex
	texts []string
	chats []string
}

func (s *telegramStub) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var m map[string]any
		_ = json.Unmarshal(body, &m)
		if text, _ := m["text"].(string); text != "" {
			s.mu.Lock()
			s.texts = append(s.texts, text)
			s.chats = append(s.chats, fmt.Sprint(m["chat_id"]))
			s.mu.Unlock()
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
	})
}

func (s *telegramStub) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

func TestNewMissingCredentialsLogsEachAndStops(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "http://127.0.0.1:1/", "http://127.0.0.1:1")

	_, err := New(Options{ConfigPath: path, Env: envMap(map[string]string{config.EnvTelegramToken: "x"})})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "bot.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	log := string(b)
	for _, name := range []string{config.EnvPracticumToken, config.EnvTelegramChatID} {
		if !strings.Contains(log, name) {
			t.Fatalf("missing credential %s not logged: %s", name, log)
		}
	}
	if strings.Contains(log, `"name":"`+config.EnvTelegramToken+`"`) {
		t.Fatalf("present credential reported as missing: %s", log)
	}
	if !strings.Contains(log, `"level":"fatal"`) {
		t.Fatalf("expected critical level entries: %s", log)
	}
}

func TestRunDeliversToChannelUsername(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"homeworks":[{"homework_name":"sprint_9","status":"approved"}]}`))
	}))
	defer api.Close()

	tg := &telegramStub{}
	tgSrv := httptest.NewServer(tg.handler())
	defer tgSrv.Close()

	dir := t.TempDir()
	path := writeConfig(t, dir, api.URL+"/", tgSrv.URL)
	env := map[string]string{
		config.EnvPracticumToken: "p-token",
		config.EnvTelegramToken:  "123:abc",
		config.EnvTelegramChatID: "@my_channel",
	}
	a, err := New(Options{ConfigPath: path, Env: envMap(env)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	tg.mu.Lock()
	defer tg.mu.Unlock()
	if len(tg.chats) != 1 || tg.chats[0] != "@my_channel" {
		t.Fatalf("expected one message to @my_channel, got chats %q texts %q", tg.chats, tg.texts)
	}
}

func TestRunNotifiesOnStatusChange(t *testing.T) {
	var calls atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "OAuth p-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		status := homework.StatusReviewing
		if calls.Add(1) > 1 {
			status = homework.StatusApproved
		}
		_, _ = w.Write([]byte(`{"homeworks":[{"homework_name":"sprint_9","status":"` + status + `"}]}`))
	}))
	defer api.Close()

	tg := &telegramStub{}
	tgSrv := httptest.NewServer(tg.handler())
	defer tgSrv.Close()

	dir := t.TempDir()
	path := writeConfig(t, dir, api.URL+"/api/user_api/homework_statuses/", tgSrv.URL)

	a, err := New(Options{ConfigPath: path, Env: envMap(fullEnv)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	msgs := tg.messages()
	if len(msgs) != 2 {
		t.Fatalf("expected reviewing + approved notifications, got %q", msgs)
	}
	reviewing, _ := homework.Verdict(homework.StatusReviewing)
	approved, _ := homework.Verdict(homework.StatusApproved)
	if !strings.Contains(msgs[0], reviewing) || !strings.Contains(msgs[1], approved) {
		t.Fatalf("unexpected notifications: %q", msgs)
	}
	if calls.Load() < 3 {
		t.Fatalf("expected the loop to keep polling, got %d calls", calls.Load())
	}
}

func TestRunReportsFetchFailure(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer api.Close()

	tg := &telegramStub{}
	tgSrv := httptest.NewServer(tg.handler())
	defer tgSrv.Close()

	dir := t.TempDir()
	path := writeConfig(t, dir, api.URL+"/", tgSrv.URL)
	a, err := New(Options{ConfigPath: path, Env: envMap(fullEnv)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	msgs := tg.messages()
	if len(msgs) == 0 || !strings.HasPrefix(msgs[0], "Сбой в работе программы: ") || !strings.Contains(msgs[0], "502") {
		t.Fatalf("expected failure notification, got %q", msgs)
	}
}

func TestRunRefusesSecondInstance(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "http://127.0.0.1:1/", "http://127.0.0.1:1")

	held := flock.New(filepath.Join(dir, "hwbot.lock"))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("pre-lock: %v %v", ok, err)
	}
	defer held.Unlock()

	a, err := New(Options{ConfigPath: path, Env: envMap(fullEnv)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := a.Run(ctx); err == nil || !strings.Contains(err.Error(), "another hwbot instance") {
		t.Fatalf("expected lock error, got %v", err)
	}
}
