package pipeline

import (
	"errors"
	"fmt"

	"traceflow/internal/pkg/errs"
)

var (
	// ErrPipelineIsNotConstructed is returned when a Pipeline instance was not
	// created through the NewPipeline factory method.
	ErrPipelineIsNotConstructed = errors.New("Pipeline must be created via NewPipeline constructor")
)

// DefaultStationNames is the production sequence used when no custom
// pipeline is configured. Orders enter at the first station and advance
// one station at a time until the terminal station.
var DefaultStationNames = []string{
	"待下料",
	"下料",
	"裁面",
	"封面",
	"待送货",
	"待收款",
	"已完成",
}

// Pipeline is the ordered sequence of stations an order travels through.
// It is the authority on station ordering: every question about "what
// comes next", "is this station ahead or behind", and "is this the end"
// is answered here.
//
// Pipeline follows these invariants:
//   - At least two stations (an entry and a terminal)
//   - Station names are non-empty and unique
//   - Ordering is fixed at construction time
//
// Pipeline is immutable after construction and safe for concurrent use.
type Pipeline struct {
	// stations holds the stations in workflow order
	stations []Station

	// ordinals maps station name to its zero-based position
	ordinals map[string]int

	// isConstructed ensures the pipeline was created via NewPipeline
	isConstructed bool
}

// NewPipeline creates a Pipeline from an ordered list of station names.
//
// Validation rules:
//   - At least two names (a pipeline needs an entry and a terminal station)
//   - Every name is non-empty after trimming whitespace
//   - No duplicate names
//
// Returns the created pipeline or a validation error.
func NewPipeline(names []string) (*Pipeline, error) {
	if len(names) < 2 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"stations",
			fmt.Errorf("a pipeline needs at least 2 stations, got %d", len(names)),
		)
	}

	stations := make([]Station, 0, len(names))
	ordinals := make(map[string]int, len(names))
	for i, name := range names {
		station, err := NewStation(name)
		if err != nil {
			return nil, err
		}
		if _, exists := ordinals[station.Name()]; exists {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"stations",
				fmt.Errorf("duplicate station %q", station.Name()),
			)
		}
		stations = append(stations, station)
		ordinals[station.Name()] = i
	}

	return &Pipeline{
		stations:      stations,
		ordinals:      ordinals,
		isConstructed: true,
	}, nil
}

// Default returns the standard production pipeline built from
// DefaultStationNames.
func Default() *Pipeline {
	p, err := NewPipeline(DefaultStationNames)
	if err != nil {
		// DefaultStationNames is a valid fixed list; this cannot happen.
		panic(err)
	}
	return p
}

// Validate ensures the Pipeline instance was properly constructed through
// NewPipeline.
func (p *Pipeline) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPipelineIsNotConstructed
	}
	return nil
}

// Stations returns a copy of the stations in workflow order.
func (p *Pipeline) Stations() []Station {
	out := make([]Station, len(p.stations))
	copy(out, p.stations)
	return out
}

// Len returns the number of stations.
func (p *Pipeline) Len() int {
	return len(p.stations)
}

// First returns the entry station where new orders start.
func (p *Pipeline) First() Station {
	return p.stations[0]
}

// Terminal returns the last station. An order standing here is finished.
func (p *Pipeline) Terminal() Station {
	return p.stations[len(p.stations)-1]
}

// IsValidStation reports whether a station with the given name is part of
// this pipeline.
func (p *Pipeline) IsValidStation(name string) bool {
	_, ok := p.ordinals[name]
	return ok
}

// IsTerminal reports whether the given name is the terminal station.
func (p *Pipeline) IsTerminal(name string) bool {
	return name == p.Terminal().Name()
}

// StationNamed returns the station with the given name.
// Returns an error if the name is not part of the pipeline.
func (p *Pipeline) StationNamed(name string) (Station, error) {
	i, ok := p.ordinals[name]
	if !ok {
		return Station{}, errs.NewObjectNotFoundError("station", name)
	}
	return p.stations[i], nil
}

// Ordinal returns the zero-based position of the named station.
// Returns an error if the name is not part of the pipeline.
func (p *Pipeline) Ordinal(name string) (int, error) {
	i, ok := p.ordinals[name]
	if !ok {
		return 0, errs.NewObjectNotFoundError("station", name)
	}
	return i, nil
}

// Next returns the station that follows the named one in workflow order.
// Returns an error if the name is not part of the pipeline or names the
// terminal station, which has no successor.
func (p *Pipeline) Next(name string) (Station, error) {
	i, ok := p.ordinals[name]
	if !ok {
		return Station{}, errs.NewObjectNotFoundError("station", name)
	}
	if i == len(p.stations)-1 {
		return Station{}, errs.NewValueIsOutOfRangeError("station ordinal", i, 0, len(p.stations)-2)
	}
	return p.stations[i+1], nil
}
