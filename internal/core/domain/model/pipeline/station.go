package pipeline

import (
	"strings"

	"traceflow/internal/pkg/errs"
)

// Station is a value object naming one step of the production pipeline,
// for example "下料" or "封面". Stations carry no behavior of their own;
// their position and ordering semantics live in Pipeline.
//
// The zero value is invalid; construct through NewStation or obtain
// stations from a Pipeline.
type Station struct {
	name string
}

// NewStation creates a Station from its display name. Leading and trailing
// whitespace is trimmed. Returns an error for an empty name.
func NewStation(name string) (Station, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Station{}, errs.NewValueIsRequiredError("station name")
	}
	return Station{name: trimmed}, nil
}

// Name returns the station's display name.
func (s Station) Name() string {
	return s.name
}

// String implements fmt.Stringer.
func (s Station) String() string {
	return s.name
}

// IsEqual compares two stations by name.
func (s Station) IsEqual(other Station) bool {
	return s.name == other.name
}

// Validate checks that the Station was constructed through NewStation.
func (s Station) Validate() error {
	if s.name == "" {
		return errs.NewValueIsRequiredError("station name")
	}
	return nil
}
