// Package position provides the Position Log: the time-ordered record of
// GPS reports sent by each registered device.
//
// Reports are append-only. Each one references a device through a foreign
// key, so appending for a device that does not exist, or that is deleted
// concurrently, fails atomically with ErrDeviceNotFound. Deleting a device
// cascades to its reports in the store.
//
// Ordering is by the caller-supplied reported_at instant, newest first, with
// the larger id winning a tie. LatestFor and HistoryFor both use that order.
package position
