package scenario

import (
	"fmt"
	"log"

	apperrors "github.com/louisbranch/brinkmanship/internal/platform/errors"
)

// AssertionMode controls how failed expectations are handled.
type AssertionMode int

const (
	// AssertionStrict stops the scenario at the first failed expectation.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs failed expectations and keeps going.
	AssertionLogOnly
)

// Assertions reports expectation failures according to Mode.
type Assertions struct {
	Mode   AssertionMode
	Logger *log.Logger
}

// Failf reports a malformed scenario. It fails in every mode.
func (a Assertions) Failf(format string, args ...any) error {
	return apperrors.New(apperrors.CodeScenarioInvalid, fmt.Sprintf(format, args...))
}

// Assertf reports a failed expectation. In log-only mode it is logged and
// nil is returned.
func (a Assertions) Assertf(format string, args ...any) error {
	message := fmt.Sprintf(format, args...)
	if a.Mode == AssertionLogOnly {
		if a.Logger != nil {
			a.Logger.Printf("expectation failed: %s", message)
		}
		return nil
	}
	return apperrors.New(apperrors.CodeScenarioAssertion, message)
}
