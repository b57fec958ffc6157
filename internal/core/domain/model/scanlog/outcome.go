package scanlog

import (
	"fmt"

	"traceflow/internal/pkg/errs"
)

// Outcome classifies how a scan attempt ended. Every scan, accepted or
// not, produces exactly one log entry carrying its outcome.
type Outcome int

const (
	// UnknownOutcome represents an invalid or undefined outcome.
	// This value (0) helps catch uninitialized Outcome values.
	UnknownOutcome Outcome = iota

	// Success means the scan advanced the order one station. Aggregates
	// count Success entries as completed work.
	Success

	// Rejected means the order did not move: a repeat of an already
	// passed station, unknown order or scanner, a malformed payload,
	// an out-of-sequence station, or an already completed order.
	Rejected
)

func getOutcomeStrings() map[Outcome]string {
	return map[Outcome]string{
		UnknownOutcome: "Unknown",
		Success:        "Success",
		Rejected:       "Rejected",
	}
}

func getValidOutcomeStrings() map[Outcome]string {
	//nolint:exhaustive // UnknownOutcome is intentionally excluded as it's invalid
	return map[Outcome]string{
		Success:  "Success",
		Rejected: "Rejected",
	}
}

// Validate checks if the Outcome value is valid.
// Valid outcomes are Success and Rejected.
func (o Outcome) Validate() error {
	if _, ok := getValidOutcomeStrings()[o]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"outcome",
			fmt.Errorf("%d is not a valid outcome", o),
		)
	}
	return nil
}

// String returns the human-readable name of the outcome.
// Implements fmt.Stringer and is safe on any Outcome value.
func (o Outcome) String() string {
	if str, ok := getOutcomeStrings()[o]; ok {
		return str
	}
	return "Unknown"
}
