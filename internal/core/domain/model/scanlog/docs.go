// Package scanlog provides the ScanLog entity, the append-only audit
// record of scan attempts. One entry is written per attempt regardless
// of outcome, with weak references to the order and worker involved.
package scanlog
