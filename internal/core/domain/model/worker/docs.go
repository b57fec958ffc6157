// Package worker provides the Worker aggregate: an operator assigned to
// one pipeline station, optionally carrying a registered handheld scanner
// whose identity prefix attributes scans to them.
package worker
