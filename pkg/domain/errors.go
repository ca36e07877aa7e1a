package domain

import (
	"errors"
	"fmt"
)

// Kind classifies failures so the transport can map them without
// inspecting concrete error types.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error is the tagged error carried out of the store and app layers.
type Error struct {
	Kind   Kind
	Entity string
	ID     int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindNotFound:
		return fmt.Sprintf("%s with ID '%d' not found", e.Entity, e.ID)
	case e.Err != nil && e.Msg != "":
		return e.Msg + ": " + e.Err.Error()
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Msg
	}
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports a missing id in the entity's collection.
func NotFound(entity string, id int) error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id}
}

// Validation reports a violated business rule detected before a write.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// Persistence wraps a failure reading or writing a backing document.
func Persistence(op string, err error) error {
	return &Error{Kind: KindPersistence, Msg: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
