/*
Package errors implements the error taxonomy used across nftdrop.

Every error returned by this module should wrap one of the root errors
declared here, so that callers can classify a failure. The important split
is between ErrConfiguration, which is fatal and reported before the ledger
is contacted, ErrUserAbort, which is returned when the operator declines a
transaction, and ErrBroadcast/ErrNetwork, which describe failed
submissions.

If you want to register a custom error - use Register(code, description).
For reusing errors - use Errxxx.New and Errxxx.Newf.

There is also support for stacktraces. Please ensure you create the custom
error using ErrXyz.New("...") or errors.Wrap(err, "...") at the point of
creation to ensure we attach a stacktrace. If you wrap multiple times, we
only record the first wrap with the stacktrace.

Ledger responses are converted using ABCIError, which keeps the raw ledger
log available through RawLog.
*/
package errors
