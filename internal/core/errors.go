package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks a record that failed validation.
	ErrValidation = errors.New("invalid record")

	// ErrIndexOutOfRange is returned by index-based operations on a missing record.
	ErrIndexOutOfRange = errors.New("record index out of range")

	// ErrSessionNotFound is returned for unknown or expired sessions.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTooManySessions is returned when the session limit is reached.
	ErrTooManySessions = errors.New("too many sessions")
)

// ErrorMap maps a field name to its error message. Only failing fields are present.
type ErrorMap map[string]string

func (m ErrorMap) add(field, msg string) {
	if _, exists := m[field]; !exists {
		m[field] = msg
	}
}

// Valid reports whether no field failed.
func (m ErrorMap) Valid() bool {
	return len(m) == 0
}

// Has reports whether the field failed.
func (m ErrorMap) Has(field string) bool {
	_, ok := m[field]
	return ok
}

// Get returns the message for a field, or "".
func (m ErrorMap) Get(field string) string {
	return m[field]
}

// Fields returns the failing field names in form order.
func (m ErrorMap) Fields() []string {
	var out []string
	for _, f := range fieldOrder {
		if m.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Clone returns an independent copy.
func (m ErrorMap) Clone() ErrorMap {
	out := make(ErrorMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Err returns nil for a valid map, otherwise an *InvalidRecordError.
func (m ErrorMap) Err() error {
	if m.Valid() {
		return nil
	}
	return &InvalidRecordError{Errors: m.Clone()}
}

// InvalidRecordError carries the field errors of a rejected record.
type InvalidRecordError struct {
	Errors ErrorMap
}

func (e *InvalidRecordError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, f := range e.Errors.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Errors[f]))
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *InvalidRecordError) Unwrap() error {
	return ErrValidation
}
