package scenario

import (
	"fmt"
	"log"
)

// AssertionMode controls how expectation mismatches are reported.
type AssertionMode int

const (
	// AssertionStrict stops the scenario at the first mismatch.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs mismatches and keeps running.
	AssertionLogOnly
)

// Assertions reports failures according to Mode.
type Assertions struct {
	Mode   AssertionMode
	Logger *log.Logger
}

// Failf reports a failure that stops the scenario in every mode.
func (a Assertions) Failf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Assertf reports an expectation mismatch. In log-only mode the mismatch is
// logged and nil is returned.
func (a Assertions) Assertf(format string, args ...any) error {
	message := fmt.Sprintf(format, args...)
	if a.Mode == AssertionLogOnly {
		if a.Logger != nil {
			a.Logger.Printf("expectation failed: %s", message)
		}
		return nil
	}
	return fmt.Errorf("expectation failed: %s", message)
}
