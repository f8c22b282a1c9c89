package statv

import "github.com/zoobzio/capitan"

// Field keys for statv events.
var (
	// KeyStatID is the id of the stat a change event concerns.
	KeyStatID = capitan.NewStringKey("stat_id")

	// KeyPast is the string form of the value before a change.
	KeyPast = capitan.NewStringKey("past")

	// KeyCurrent is the string form of the value after a change.
	KeyCurrent = capitan.NewStringKey("current")

	// KeyStats is the number of stats a schema declares.
	KeyStats = capitan.NewIntKey("stats")

	// KeyWaiters is the number of waiters resolved by a broadcast.
	KeyWaiters = capitan.NewIntKey("waiters")

	// KeyOldState is the previous feed state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new feed state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyDebounce is the configured debounce duration of a feed.
	KeyDebounce = capitan.NewDurationKey("debounce")
)
