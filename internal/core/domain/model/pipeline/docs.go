// Package pipeline defines the ordered station sequence that production
// orders travel through.
//
// The package contains two value objects:
//   - Station: a single named step of the workflow
//   - Pipeline: the immutable ordered list of stations
//
// Pipeline is the single authority on station ordering. Domain services
// and aggregates never compare station names positionally themselves;
// they ask the pipeline for ordinals, successors, and terminality.
//
// The sequence is configurable at startup. Default() provides the
// standard production sequence used when no custom configuration is
// supplied.
package pipeline
