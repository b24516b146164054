package homework

import (
	"fmt"

	logx "hwbot/pkg/logx"
)

const (
	KeyName   = "homework_name"
	KeyStatus = "status"
)

// StatusOf returns the record's status string, or "" when the record is not
// an object or the field is absent. It never fails; Parse does the checking.
func StatusOf(record any) string {
	obj, ok := record.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := obj[KeyStatus].(string)
	return s
}

// Parse builds the status-change message for one homework record.
func (c *Checker) Parse(record any) (string, error) {
	obj, ok := record.(map[string]any)
	if !ok {
		err := fmt.Errorf("%w: homework record is %s, want object", ErrTypeMismatch, typeName(record))
		c.log.Error("invalid homework record", logx.Err(err))
		return "", err
	}

	name, _ := obj[KeyName].(string)
	rawStatus := obj[KeyStatus]
	if name == "" || blank(rawStatus) {
		missing := KeyName
		if name != "" {
			missing = KeyStatus
		}
		err := fmt.Errorf("%w: %q empty or absent in homework record", ErrMissingKey, missing)
		c.log.Error("invalid homework record", logx.Err(err))
		return "", err
	}

	status, isString := rawStatus.(string)
	if !isString {
		status = fmt.Sprint(rawStatus)
	}
	verdict, ok := Verdict(status)
	if !isString || !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownStatus, status)
		c.log.Error("homework status not in catalog", logx.Err(err), logx.String("homework", name))
		return "", err
	}
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", name, verdict), nil
}

// blank reports an absent, null, empty or zero value. Any other value counts
// as present, even when it is not a string.
func blank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}
