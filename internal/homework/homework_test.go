package homework

import (
	"errors"
	"strings"
	"testing"

	logx "hwbot/pkg/logx"
)

func newChecker() *Checker { return NewChecker(logx.Nop()) }

func TestParseKnownStatuses(t *testing.T) {
	c := newChecker()
	for _, status := range Statuses() {
		msg, err := c.Parse(map[string]any{
			"homework_name": "hw_python_oop",
			"status":        status,
			"reviewer":      "someone",
		})
		if err != nil {
			t.Fatalf("Parse(%s): %v", status, err)
		}
		want, _ := Verdict(status)
		if !strings.Contains(msg, `"hw_python_oop"`) {
			t.Fatalf("message lacks homework name: %q", msg)
		}
		if !strings.HasSuffix(msg, want) {
			t.Fatalf("message lacks verdict %q: %q", want, msg)
		}
		for _, other := range Statuses() {
			if other == status {
				continue
			}
			v, _ := Verdict(other)
			if strings.Contains(msg, v) {
				t.Fatalf("message for %s contains verdict of %s: %q", status, other, msg)
			}
		}
	}
}

func TestParseExactFormat(t *testing.T) {
	msg, err := newChecker().Parse(map[string]any{"homework_name": "final", "status": StatusApproved})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := `Изменился статус проверки работы "final". Работа проверена: ревьюеру всё понравилось. Ура!`
	if msg != want {
		t.Fatalf("got %q, want %q", msg, want)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name   string
		record any
		want   error
	}{
		{"missing name", map[string]any{"status": "approved"}, ErrMissingKey},
		{"missing status", map[string]any{"homework_name": "x"}, ErrMissingKey},
		{"empty name", map[string]any{"homework_name": "", "status": "approved"}, ErrMissingKey},
		{"empty status", map[string]any{"homework_name": "x", "status": ""}, ErrMissingKey},
		{"non-string status", map[string]any{"homework_name": "x", "status": 3.0}, ErrUnknownStatus},
		{"boolean status", map[string]any{"homework_name": "x", "status": true}, ErrUnknownStatus},
		{"zero status", map[string]any{"homework_name": "x", "status": 0.0}, ErrMissingKey},
		{"null status", map[string]any{"homework_name": "x", "status": nil}, ErrMissingKey},
		{"unknown status", map[string]any{"homework_name": "x", "status": "lost"}, ErrUnknownStatus},
		{"not an object", []any{"x"}, ErrTypeMismatch},
		{"nil", nil, ErrTypeMismatch},
	}
	c := newChecker()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Parse(tc.record)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	c := newChecker()
	cases := []struct {
		name    string
		payload any
		want    error
	}{
		{"array payload", []any{}, ErrTypeMismatch},
		{"string payload", "homeworks", ErrTypeMismatch},
		{"null payload", nil, ErrTypeMismatch},
		{"no homeworks key", map[string]any{"current_date": 1.0}, ErrMissingKey},
		{"homeworks is object", map[string]any{"homeworks": map[string]any{}}, ErrTypeMismatch},
		{"homeworks is string", map[string]any{"homeworks": "[]"}, ErrTypeMismatch},
		{"homeworks is null", map[string]any{"homeworks": nil}, ErrTypeMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := c.Validate(tc.payload); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestValidateReturnsListUnchanged(t *testing.T) {
	c := newChecker()
	rec := map[string]any{"homework_name": "x", "status": "reviewing"}
	list, err := c.Validate(map[string]any{"homeworks": []any{rec}, "current_date": 1.0})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(list) != 1 || StatusOf(list[0]) != "reviewing" {
		t.Fatalf("unexpected list: %v", list)
	}

	empty, err := c.Validate(map[string]any{"homeworks": []any{}})
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty list should validate, got %v %v", empty, err)
	}
}

func TestValidationFailuresAreLogged(t *testing.T) {
	var buf strings.Builder
	c := NewChecker(logx.NewWriter(&buf, "debug"))
	_, _ = c.Validate(42.0)
	if !strings.Contains(buf.String(), "invalid api response") {
		t.Fatalf("expected diagnostic log entry, got %q", buf.String())
	}
}

func TestCatalog(t *testing.T) {
	if got := Statuses(); len(got) != 3 {
		t.Fatalf("expected 3 statuses, got %v", got)
	}
	if !Known(StatusRejected) || Known("pending") {
		t.Fatal("catalog membership mismatch")
	}
	if StatusOf("not a record") != "" {
		t.Fatal("StatusOf on non-object should be empty")
	}
}
