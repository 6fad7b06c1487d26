package work

import "time"

// timeNow is a package-level variable for testability.
// Tests can replace this to control time in assertions.
var timeNow = time.Now

// Now returns the current UTC time through the package clock, so
// callers that stamp new items stay consistent with the mutation
// guard (and with tests that freeze the clock).
func Now() time.Time {
	return timeNow().UTC()
}
