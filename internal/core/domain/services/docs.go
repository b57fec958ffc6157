// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the workflow engine.
// It implements business logic that doesn't naturally belong to a single
// aggregate root.
//
// The package includes:
//   - ScanPolicy: judges worker scans against the pipeline ordering rules
//
// Domain services coordinate between aggregates, implementing business
// logic that spans multiple bounded contexts following Domain-Driven
// Design principles.
package services
