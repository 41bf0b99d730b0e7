package engine

import "errors"

// nonRetryableError marks a decision whose events failed validation or
// folding. The same command against the same state fails the same way.
type nonRetryableError struct {
	err error
}

func (e *nonRetryableError) Error() string { return e.err.Error() }
func (e *nonRetryableError) Unwrap() error { return e.err }

// NonRetryable reports true.
func (e *nonRetryableError) NonRetryable() bool { return true }

func wrapNonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &nonRetryableError{err: err}
}

// IsNonRetryable reports whether a command that returned err must not be
// issued again.
func IsNonRetryable(err error) bool {
	var target interface{ NonRetryable() bool }
	return errors.As(err, &target) && target.NonRetryable()
}
