package services

import (
	"traceflow/internal/core/domain/model/order"
	"traceflow/internal/core/domain/model/pipeline"
)

// DecisionKind classifies the outcome of judging one scan against the
// pipeline ordering rules.
type DecisionKind int

const (
	// UnknownDecision represents an invalid or undefined decision.
	UnknownDecision DecisionKind = iota

	// Advance means the worker stands where the order stands: the work
	// at this station is confirmed and the order moves to the next one.
	Advance

	// Duplicate means the order already passed the worker's station.
	// The scan is a harmless repeat and changes nothing.
	Duplicate

	// OutOfSequence means the worker's station is ahead of the order.
	// At least one station in between has not confirmed its work yet.
	OutOfSequence

	// AlreadyCompleted means the order has finished the whole pipeline.
	AlreadyCompleted
)

// String returns the human-readable name of the decision kind.
func (k DecisionKind) String() string {
	switch k {
	case Advance:
		return "Advance"
	case Duplicate:
		return "Duplicate"
	case OutOfSequence:
		return "OutOfSequence"
	case AlreadyCompleted:
		return "AlreadyCompleted"
	default:
		return "Unknown"
	}
}

// Decision is the verdict for one scan. Target is only set for Advance
// and names the station the order should move to.
type Decision struct {
	Kind   DecisionKind
	Target pipeline.Station
}

// ScanPolicy is the domain service that judges scans against the pipeline
// ordering rules. It decides whether a worker's scan advances an order,
// repeats an already confirmed station, or violates the sequence.
//
// The policy itself never mutates anything. Callers apply an Advance
// decision to the order and persist it; the other kinds translate into
// duplicate handling or rejections.
//
// Example usage:
//
//	policy, _ := services.NewScanPolicy(pipeline.Default())
//	decision, err := policy.Evaluate(o, worker.Station())
//	if err != nil {
//	    // worker's station is not part of the pipeline
//	}
//	if decision.Kind == services.Advance {
//	    _ = o.AdvanceTo(policy.Pipeline(), decision.Target, time.Now())
//	}
type ScanPolicy struct {
	pipeline *pipeline.Pipeline
}

// NewScanPolicy creates a ScanPolicy bound to the given pipeline.
func NewScanPolicy(pl *pipeline.Pipeline) (ScanPolicy, error) {
	if err := pl.Validate(); err != nil {
		return ScanPolicy{}, err
	}
	return ScanPolicy{pipeline: pl}, nil
}

// Pipeline returns the pipeline the policy judges against.
func (p ScanPolicy) Pipeline() *pipeline.Pipeline {
	return p.pipeline
}

// Evaluate judges a scan submitted by a worker standing at workerStation
// against the order's current position.
//
// Decision rules, with cur = the order's station ordinal and ws = the
// worker's station ordinal:
//   - order completed: AlreadyCompleted
//   - ws == cur: Advance to the next station
//   - ws < cur: Duplicate
//   - ws > cur: OutOfSequence
//
// Returns an error when the order is invalid, the worker's station is
// not part of the pipeline, or the order's persisted station is not part
// of the pipeline.
func (p ScanPolicy) Evaluate(o *order.Order, workerStation string) (Decision, error) {
	if err := o.Validate(); err != nil {
		return Decision{}, err
	}

	workerOrdinal, err := p.pipeline.Ordinal(workerStation)
	if err != nil {
		return Decision{}, err
	}
	currentOrdinal, err := p.pipeline.Ordinal(o.CurrentStation())
	if err != nil {
		return Decision{}, err
	}

	if o.IsCompleted() || p.pipeline.IsTerminal(o.CurrentStation()) {
		return Decision{Kind: AlreadyCompleted}, nil
	}

	switch {
	case workerOrdinal == currentOrdinal:
		target, targetErr := p.pipeline.Next(o.CurrentStation())
		if targetErr != nil {
			return Decision{}, targetErr
		}
		return Decision{Kind: Advance, Target: target}, nil
	case workerOrdinal < currentOrdinal:
		return Decision{Kind: Duplicate}, nil
	default:
		return Decision{Kind: OutOfSequence}, nil
	}
}
