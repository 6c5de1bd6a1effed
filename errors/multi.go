package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no error is provided, nil is returned. If a single error is left after
// ignoring nil values, that error is returned as it is. Multi errors that are
// appended are flattened, so the result never contains another multi error.
func Append(errs ...error) error {
	var res multiErr
	for _, err := range errs {
		if isNilErr(err) {
			continue
		}
		if m, ok := err.(multiErr); ok {
			res = append(res, m...)
			continue
		}
		res = append(res, err)
	}

	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

// multiErr is a collection of errors that is itself an error. Use Append to
// create a new instance.
type multiErr []error

var _ unpacker = multiErr(nil)

func (m multiErr) Error() string {
	if len(m) == 1 {
		return fmt.Sprintf("1 error occurred:\n\t* %s\n", m[0])
	}

	points := make([]string, len(m))
	for i, err := range m {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(m), strings.Join(points, "\n\t"))
}

// Unpack returns all errors contained by this collection.
func (m multiErr) Unpack() []error {
	return m
}

// Unpack returns all errors that given error consists of. For a single error,
// a one element slice is returned. For nil, nil is returned.
func Unpack(err error) []error {
	if isNilErr(err) {
		return nil
	}
	if u, ok := err.(unpacker); ok {
		return u.Unpack()
	}
	return []error{err}
}
