package homework

import "errors"

var (
	ErrTypeMismatch  = errors.New("unexpected payload type")
	ErrMissingKey    = errors.New("required key missing")
	ErrUnknownStatus = errors.New("unknown homework status")
)
