package work

import "time"

// Tick is the minimum spacing between two modification timestamps of
// the same item. Timestamps are persisted with millisecond precision,
// so one millisecond is the smallest strictly-ordered step.
const Tick = time.Millisecond

// Touch advances the item's version and modification timestamp.
//
// The timestamp is max(now, previous + Tick): when updates arrive
// faster than the clock resolves, or the clock steps backwards, the
// new value is still strictly greater than the old one. Conflict
// detection and audit replay rely on that strict ordering.
func Touch(item *WorkItem) {
	now := timeNow().UTC()
	if floor := item.ModifiedAt.Add(Tick); now.Before(floor) {
		now = floor
	}
	item.ModifiedAt = now
	item.Version++
}
