package worker

import (
	"errors"

	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/pkg/errs"
	"traceflow/internal/pkg/guard"
)

var (
	// ErrWorkerIsNotConstructed is returned when a Worker instance was not
	// created through NewWorker or RestoreWorker.
	ErrWorkerIsNotConstructed = errors.New("Worker must be created via NewWorker or RestoreWorker constructor")
)

// Worker is an operator assigned to one pipeline station. Each worker may
// own a registered handheld scanner, identified by the scanner code the
// device prepends to every scan (for example "XL1#"). A scan submitted
// with that code is attributed to this worker and judged against this
// worker's station.
type Worker struct {
	// id is the unique identifier for the worker
	id kernel.UUID

	// name is the worker's display name
	name string

	// station names the pipeline station the worker operates
	station string

	// scannerCode is the identity prefix of the worker's handheld
	// scanner, including the trailing '#'. Empty if the worker scans
	// through the app instead of a registered device.
	scannerCode string

	// phone is the worker's contact number (may be empty)
	phone string

	guard guard.ConstructorGuard
}

// NewWorker creates a Worker assigned to a station.
//
// Parameters:
//   - id: unique identifier for the worker
//   - name: display name (required)
//   - station: pipeline station the worker operates (required)
//   - scannerCode: registered scanner prefix including '#' (optional)
//   - phone: contact number (optional)
func NewWorker(id kernel.UUID, name, station, scannerCode, phone string) (*Worker, error) {
	w := &Worker{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		w.setID(id),
		w.setName(name),
		w.setStation(station),
	); err != nil {
		return nil, err
	}

	w.scannerCode = scannerCode
	w.phone = phone

	return w, nil
}

// RestoreWorker reconstructs a Worker from persistent storage.
func RestoreWorker(id kernel.UUID, name, station, scannerCode, phone string) (*Worker, error) {
	return NewWorker(id, name, station, scannerCode, phone)
}

// Validate ensures the Worker instance was properly constructed.
func (w *Worker) Validate() error {
	if w == nil {
		return ErrWorkerIsNotConstructed
	}
	return w.guard.Validate(ErrWorkerIsNotConstructed)
}

// IsEqual compares two workers by their unique identifiers.
func (w *Worker) IsEqual(other *Worker) bool {
	return other != nil && w.id.IsEqual(other.id)
}

// ID returns the worker's unique identifier.
func (w *Worker) ID() kernel.UUID {
	return w.id
}

// Name returns the worker's display name.
func (w *Worker) Name() string {
	return w.name
}

// Station returns the name of the pipeline station the worker operates.
func (w *Worker) Station() string {
	return w.station
}

// ScannerCode returns the identity prefix of the worker's registered
// scanner including the trailing '#', or the empty string if none.
func (w *Worker) ScannerCode() string {
	return w.scannerCode
}

// HasScanner reports whether the worker owns a registered scanner.
func (w *Worker) HasScanner() bool {
	return w.scannerCode != ""
}

// Phone returns the worker's contact number. May be empty.
func (w *Worker) Phone() string {
	return w.phone
}

// Reassign moves the worker to a different pipeline station.
func (w *Worker) Reassign(station string) error {
	return w.setStation(station)
}

func (w *Worker) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	w.id = id
	return nil
}

func (w *Worker) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("worker name")
	}
	w.name = name
	return nil
}

func (w *Worker) setStation(station string) error {
	if station == "" {
		return errs.NewValueIsRequiredError("worker station")
	}
	w.station = station
	return nil
}
