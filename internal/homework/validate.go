package homework

import (
	"fmt"

	logx "hwbot/pkg/logx"
)

// KeyHomeworks is the top-level key holding the submission list.
const KeyHomeworks = "homeworks"

// Checker validates API payloads and turns records into notification text.
// Every failure is logged before it is returned.
type Checker struct {
	log logx.Logger
}

// NewChecker returns a Checker that logs rejected payloads to log.
func NewChecker(log logx.Logger) *Checker {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Checker{log: log}
}

// Validate checks the decoded payload shape and returns the homeworks list
// unchanged. An empty list is valid.
func (c *Checker) Validate(payload any) ([]any, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		err := fmt.Errorf("%w: response is %s, want object", ErrTypeMismatch, typeName(payload))
		c.log.Error("invalid api response", logx.Err(err))
		return nil, err
	}
	raw, ok := obj[KeyHomeworks]
	if !ok {
		err := fmt.Errorf("%w: %q not in api response", ErrMissingKey, KeyHomeworks)
		c.log.Error("invalid api response", logx.Err(err))
		return nil, err
	}
	list, ok := raw.([]any)
	if !ok {
		err := fmt.Errorf("%w: %q is %s, want array", ErrTypeMismatch, KeyHomeworks, typeName(raw))
		c.log.Error("invalid api response", logx.Err(err))
		return nil, err
	}
	return list, nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "bool"
	case float64, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
