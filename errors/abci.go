package errors

import "fmt"

// ABCIError returns an error instance describing a failed ledger response.
// The ledger code space is independent from the codes registered in this
// package, therefore the result always wraps ErrBroadcast and carries both
// the ledger code and the raw log.
//
// A zero code means success and nil is returned.
func ABCIError(code uint32, log string) error {
	if code == 0 {
		return nil
	}
	return &ledgerError{code: code, log: log}
}

// ledgerError represents a failure reported by the ledger.
type ledgerError struct {
	code uint32
	log  string
}

func (e *ledgerError) Error() string {
	return fmt.Sprintf("ledger code %d: %s", e.code, e.log)
}

// Cause implements the causer interface so that ErrBroadcast.Is(err)
// returns true.
func (e *ledgerError) Cause() error {
	return ErrBroadcast
}

// RawLog returns the raw ledger log.
func (e *ledgerError) RawLog() string {
	return e.log
}

// RawLog returns the raw ledger log carried by given error or any error it
// wraps. An empty string is returned if no ledger response is attached.
func RawLog(err error) string {
	type rawLogger interface {
		RawLog() string
	}
	for err != nil {
		if r, ok := err.(rawLogger); ok {
			return r.RawLog()
		}
		c, ok := err.(causer)
		if !ok {
			return ""
		}
		err = c.Cause()
	}
	return ""
}
