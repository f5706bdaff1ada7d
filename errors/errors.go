// Package errors provides a const-friendly string error type so packages can
// declare sentinel errors as untyped constants.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Separator sits between a sentinel's message and the cause it wraps.
const Separator = " -- "

// Error is a string based error type allowing the definition of const errors.
type Error string

func (e Error) Error() string {
	return string(e)
}

// Is reports whether target is this sentinel or a wrap of it.
func (e Error) Is(target error) bool {
	return e.Error() == target.Error() || strings.HasPrefix(target.Error(), e.Error()+Separator)
}

// Wrap attaches err as the cause of this sentinel.
func (e Error) Wrap(err error) error {
	return wrapped{cause: err, msg: string(e)}
}

type wrapped struct {
	cause error
	msg   string
}

func (w wrapped) Error() string {
	if w.cause != nil {
		return fmt.Sprintf("%s%s%v", w.msg, Separator, w.cause)
	}
	return w.msg
}

func (w wrapped) Is(target error) bool {
	return Error(w.msg).Is(target)
}

func (w wrapped) Unwrap() error {
	return w.cause
}

// Is wraps the stdlib errors.Is as we take over the errors namespace.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps the stdlib errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns a new error with the specified message.
func New(message string) error {
	return errors.New(message)
}
