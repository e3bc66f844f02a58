package perunerr

import goerrors "github.com/go-errors/errors"

// Wrapped attaches diagnostic context (the offending cell index, a mismatched
// hash, etc.) to a Code without losing the code itself. The host ledger only
// ever sees the exit status reported by Code; the wrapped message is for
// whoever is replaying a rejected transaction through a local simulator.
type Wrapped struct {
	code  Code
	cause *goerrors.Error
}

// Wrap records cause alongside code, capturing a stack trace the way
// discovery/validation.go's callers do when they construct a
// go-errors/errors value.
func Wrap(code Code, format string, args ...interface{}) *Wrapped {
	return &Wrapped{
		code:  code,
		cause: goerrors.Errorf(format, args...),
	}
}

// Code returns the taxonomy code this error reports to the ledger.
func (w *Wrapped) Code() Code {
	return w.code
}

// Error satisfies the error interface with the detailed, human-readable
// message; the ledger-facing exit status is w.Code().
func (w *Wrapped) Error() string {
	return w.code.Error() + ": " + w.cause.Error()
}

// Unwrap allows errors.As/errors.Is to reach the underlying cause.
func (w *Wrapped) Unwrap() error {
	return w.cause.Err
}

// CodeOf extracts the taxonomy Code from any error produced by this package,
// defaulting to Encoding for errors that never passed through Wrap (e.g. a
// bare io error from a malformed ledger accessor response).
func CodeOf(err error) Code {
	if err == nil {
		return 0
	}
	if c, ok := err.(Code); ok {
		return c
	}
	if w, ok := err.(*Wrapped); ok {
		return w.code
	}
	return Encoding
}
