package shelfcache

import (
	"github.com/go-playground/validator/v10"

	"github.com/unkn0wn-root/shelfcache/store"
)

// ItemValidator checks one payload before it reaches the store - on Create
// and again per-item when the processor applies a queued batch. Return a
// *ValidationError (or any error) to reject the payload.
type ItemValidator func(store.Payload) error

// NonEmpty rejects nil and empty payloads. The default.
func NonEmpty() ItemValidator {
	return func(p store.Payload) error {
		if len(p) == 0 {
			return &ValidationError{Reason: "payload must not be empty"}
		}
		return nil
	}
}

// Required builds a validator demanding that each named field is present and
// non-zero ("required" semantics of go-playground/validator: no empty
// strings, nils, or zero numbers).
//
//	svc, _ := shelfcache.New(shelfcache.Options{
//	    ...
//	    Validate: shelfcache.Required("title", "author"),
//	})
func Required(fields ...string) ItemValidator {
	v := validator.New()
	return func(p store.Payload) error {
		if len(p) == 0 {
			return &ValidationError{Reason: "payload must not be empty"}
		}
		for _, f := range fields {
			val, ok := p[f]
			if !ok {
				return &ValidationError{Reason: "missing required field", Field: f}
			}
			if val == nil {
				return &ValidationError{Reason: "empty required field", Field: f}
			}
			if err := v.Var(val, "required"); err != nil {
				return &ValidationError{Reason: "empty required field", Field: f}
			}
		}
		return nil
	}
}
