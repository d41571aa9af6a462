package datastore

import (
	"errors"
	"fmt"
)

// ErrInvalidKey is matched by every InvalidKeyError via errors.Is.
var ErrInvalidKey = errors.New("invalid key")

// InvalidKeyError is returned when a key cannot be built or decoded.
type InvalidKeyError struct {
	Input  string // Encoded input, if the error came from decoding
	Reason string
	Err    error
}

func (e *InvalidKeyError) Error() string {
	msg := "invalid key"
	if e.Input != "" {
		msg += fmt.Sprintf(" %q", e.Input)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidKeyError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidKey) hold for any InvalidKeyError.
func (e *InvalidKeyError) Is(target error) bool {
	return target == ErrInvalidKey
}
