// Package apperr is the error taxonomy shared by stores and handlers.
package apperr

import (
	"errors"
	"sort"
)

// Kind classifies an error by its cause.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindStorage:
		return "storage"
	default:
		return "internal"
	}
}

// Fields maps a request field name to its validation messages.
type Fields map[string][]string

// Add appends msg to the messages of field.
func (f Fields) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// Has reports whether field already carries a message.
func (f Fields) Has(field string) bool {
	return len(f[field]) > 0
}

// Merge copies every message of other into f.
func (f Fields) Merge(other Fields) {
	for field, msgs := range other {
		f[field] = append(f[field], msgs...)
	}
}

// Keys returns the field names in sorted order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Fields  Fields
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return e.Message + ": " + e.Err.Error()
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports field-level constraint violations.
func Validation(fields Fields) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// Invalid is a Validation error carrying a single field message.
func Invalid(field, msg string) *Error {
	return Validation(Fields{field: {msg}})
}

// NotFound reports a missing row of the named resource.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// Conflict reports an operation refused to keep references intact.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Storage wraps a failure of the image store.
func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Message: "image storage failed", Err: err}
}

// Internal wraps a persistence or unexpected failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal failure", Err: err}
}

// As extracts the *Error in err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// KindOf returns the kind of err; unclassified errors are internal.
func KindOf(err error) Kind {
	if ae, ok := As(err); ok {
		return ae.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool   { return err != nil && KindOf(err) == KindNotFound }
func IsValidation(err error) bool { return err != nil && KindOf(err) == KindValidation }
func IsConflict(err error) bool   { return err != nil && KindOf(err) == KindConflict }
