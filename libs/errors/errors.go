// Package errors wraps github.com/pkg/errors with annotations. Trace records
// a stack once per error chain and Annotate attaches human context that is
// rendered after the original message.
package errors

import (
	stderrors "errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

type aerr struct {
	err         error
	annotations []string
}

func (e aerr) Error() string {
	if len(e.annotations) == 0 {
		return e.err.Error()
	}
	s := e.err.Error() + " ("
	for i, a := range e.annotations {
		if i != 0 {
			s += ", "
		}
		s += a
	}
	return s + ")"
}

func (e aerr) Unwrap() error { return e.err }

func (e aerr) Cause() error { return e.err }

// New returns an error with a recorded stack.
func New(msg string) error {
	return pkgerrors.New(msg)
}

// Errorf formats an error with a recorded stack.
func Errorf(format string, args ...interface{}) error {
	return pkgerrors.Errorf(format, args...)
}

// Trace records the current stack on err unless one is already present in
// the chain. Trace(nil) is nil.
func Trace(err error) error {
	if err == nil {
		return nil
	}
	var st stackTracer
	if stderrors.As(err, &st) {
		return err
	}
	return pkgerrors.WithStack(err)
}

// Cause returns the innermost error of the chain.
func Cause(err error) error {
	return pkgerrors.Cause(err)
}

// Is and As mirror the standard library so callers need a single import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }

// Annotate adds context to an error. It can be used to attach more information that is useful for debugging.
func Annotate(err error, msg string) error {
	if err == nil {
		return nil
	}
	e := wrap(err)
	e.annotations = append(e.annotations, msg)
	return e
}

// Annotatef adds context to an error. It can be used to attach more information that is useful for debugging.
func Annotatef(err error, f string, v ...interface{}) error {
	if err == nil {
		return nil
	}
	return Annotate(err, fmt.Sprintf(f, v...))
}

// Annotations returns all annotations attached to an error.
func Annotations(err error) []string {
	var e aerr
	if stderrors.As(err, &e) {
		return e.annotations
	}
	return nil
}

func wrap(err error) aerr {
	if e, ok := err.(aerr); ok {
		a := make([]string, len(e.annotations), len(e.annotations)+1)
		copy(a, e.annotations)
		return aerr{err: e.err, annotations: a}
	}
	return aerr{err: err}
}
