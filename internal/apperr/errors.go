// Package apperr classifies the failures a user-triggered action can end with.
package apperr

import (
	"errors"
	"fmt"
)

// Kind groups errors by where they originate.
type Kind string

const (
	KindInput  Kind = "input"
	KindEngine Kind = "engine"
	KindExport Kind = "export"
	KindConfig Kind = "config"
)

var (
	ErrNotExist   = errors.New("image file does not exist")
	ErrNoText     = errors.New("no text detected in the image")
	ErrEmptyText  = errors.New("no text to save")
	ErrBusy       = errors.New("an extraction is already running")
	ErrNotFound   = errors.New("not found")
	ErrNotEnabled = errors.New("engine not compiled in")
)

// Error carries a Kind alongside the wrapped cause.
type Error struct {
	Kind    Kind
	Op      string
	Cause   error
	Context map[string]interface{}
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return t.Op == "" && t.Cause == nil && e.Kind == t.Kind
	}
	return false
}

// WithContext attaches a diagnostic field that ends up in the log entry.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func New(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Cause: cause}
}

func Input(cause error) *Error { return New(KindInput, "", cause) }

func Engine(op string, cause error) *Error { return New(KindEngine, op, cause) }

func Export(op string, cause error) *Error { return New(KindExport, op, cause) }

func Config(op string, cause error) *Error { return New(KindConfig, op, cause) }

// KindOf reports the Kind of err, defaulting to KindEngine for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindEngine
}

// Fields flattens err into log fields.
func Fields(err error) map[string]interface{} {
	fields := map[string]interface{}{"kind": string(KindOf(err))}
	var e *Error
	if errors.As(err, &e) {
		for k, v := range e.Context {
			fields[k] = v
		}
	}
	return fields
}
