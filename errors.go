package shelfcache

import (
	"errors"
	"fmt"
)

// ValidationError rejects malformed input before it reaches the store or the
// queue: empty bulk batches, empty updates, payloads failing the configured
// item validator. Map it to a 400-equivalent at the request layer.
type ValidationError struct {
	Reason string
	Field  string // optional; set when one payload field failed
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("shelfcache: invalid input: %s (field %q)", e.Reason, e.Field)
	}
	return "shelfcache: invalid input: " + e.Reason
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
