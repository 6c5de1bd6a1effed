package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrConfiguration is returned when a run parameter is missing or
	// invalid. It is always reported before any network activity.
	ErrConfiguration = Register(2, "invalid configuration")

	// ErrUserAbort is returned when the operator declined to confirm a
	// transaction.
	ErrUserAbort = Register(3, "aborted by user")

	// ErrBroadcast is returned when the ledger rejected or failed to
	// execute a submitted transaction.
	ErrBroadcast = Register(4, "broadcast failed")

	// ErrNetwork is returned when the ledger could not be reached or
	// returned an unexpected transport level response.
	ErrNetwork = Register(5, "network")

	// ErrNotFound is used when a requested resource does not exist.
	ErrNotFound = Register(6, "not found")

	// ErrInput stands for general input problems indication.
	ErrInput = Register(7, "invalid input")

	// ErrEmpty is returned when a value fails a not empty assertion.
	ErrEmpty = Register(8, "value is empty")

	// ErrInvalidState is returned when an object is in invalid state.
	ErrInvalidState = Register(9, "invalid state")

	// ErrEncoding is returned when a value cannot be serialized or
	// deserialized.
	ErrEncoding = Register(10, "encoding")

	// ErrSequence is returned when a transaction sequence number cannot be
	// determined or is not valid for the account.
	ErrSequence = Register(11, "invalid sequence")

	// ErrPanic is returned by Recover.
	ErrPanic = Register(111222, "panic")
)

// Register declares a root error. Codes identify root errors and must be
// unique, reusing one panics. Call it from package level declarations only.
func Register(code uint32, description string) *Error {
	if prev, ok := registered[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, prev.desc))
	}
	e := &Error{code: code, desc: description}
	registered[code] = e
	return e
}

// Code 1 stands for unclassified errors and cannot be registered.
var registered = map[uint32]*Error{1: {code: 1, desc: "unclassified"}}

// Error is a root error. Errors created at runtime wrap one of them, which
// lets callers classify a failure with Is.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// New returns an error of this kind with a description, the same as
// Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrap(e, fmt.Sprintf(format, args...))
}

// Is returns true if err is of this kind. Wrapped errors are followed
// through their causes and a multi error matches if any of its members does.
// A nil kind matches only nil errors.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		return isNilErr(err)
	}
	for err != nil {
		if err == kind {
			return true
		}
		if u, ok := err.(unpacker); ok {
			for _, member := range u.Unpack() {
				if kind.Is(member) {
					return true
				}
			}
			return false
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// Wrap prefixes err with a description. Nil is returned for a nil err. The
// stack is recorded by the innermost wrap only.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Unwrap lets the standard library errors package walk the chain.
func (e *wrappedError) Unwrap() error {
	return e.parent
}

// Recover turns a panic into an ErrPanic assigned to err. It must be
// deferred.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

// unpacker is implemented by multi errors.
type unpacker interface {
	Unpack() []error
}

// stackTrace returns the stack recorded by err or by any error it wraps.
func stackTrace(err error) errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return nil
}

// isNilErr returns true for nil and for a nil pointer stored in the error
// interface.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
