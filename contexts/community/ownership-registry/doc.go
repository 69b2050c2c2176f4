// Package ownershipregistry tracks per-unit ownership records: owner of
// record, fractional voting weight, and occupancy status. It supplies the
// registry snapshots the election engine consumes at call time.
package ownershipregistry
