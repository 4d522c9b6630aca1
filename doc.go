// Package timebombs implements dead-man's-switch markers for temporary code.
//
// A Marker carries a deadline (the exploding instant) and an earlier arming
// instant. At any instant it is Disarmed, Armed or Exploded. New builds a
// Marker at a call site and returns a Check that evaluates the current state
// and dispatches to one of three reactions:
//
//	var legacyFlag = timebombs.Must(timebombs.New(
//		"P-1", timebombs.On("2020-11-30"), "remove legacy flag",
//		timebombs.Reactions[struct{}]{},
//		timebombs.WithRegistry(Registry),
//	))
//
// Registries collect markers so the timebombs CLI can fail CI builds once
// markers cross configurable thresholds.
package timebombs
