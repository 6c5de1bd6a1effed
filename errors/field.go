package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// AppendField adds err, attributed to the named field, to errs. A nil err
// leaves errs unchanged.
//
// Name fields the way Go does, with a dot for nested values, for example
// Batch.MaxOperationsPerMessage or Networks.testnet.
func AppendField(errs error, field string, err error) error {
	if isNilErr(err) {
		return errs
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return Append(errs, &fieldError{field: field, err: err})
}

type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.field, e.err)
}

func (e *fieldError) Cause() error {
	return e.err
}

func (e *fieldError) Unwrap() error {
	return e.err
}

// FieldErrors returns the errors attributed to the named field. Wrapped and
// combined errors are searched too.
func FieldErrors(err error, field string) []error {
	if isNilErr(err) {
		return nil
	}
	switch e := err.(type) {
	case *fieldError:
		if e.field == field {
			return []error{e}
		}
		return FieldErrors(e.err, field)
	case unpacker:
		var res []error
		for _, inner := range e.Unpack() {
			res = append(res, FieldErrors(inner, field)...)
		}
		return res
	case causer:
		return FieldErrors(e.Cause(), field)
	}
	return nil
}
