package statv

import "github.com/zoobzio/capitan"

// Container signals.
var (
	// ContainerConstructed is emitted when New resolves every declared
	// stat and produces a container.
	ContainerConstructed = capitan.NewSignal(
		"statv.container.constructed",
		"Container constructed with all stats initialized",
	)

	// StatChanged is emitted when a write's accepted value differs from
	// the stored one, after monitor dispatch.
	StatChanged = capitan.NewSignal(
		"statv.stat.changed",
		"Stat value changed",
	)

	// BroadcastIssued is emitted once per completed write or UpdateMulti
	// call, after pending waiters are resolved.
	BroadcastIssued = capitan.NewSignal(
		"statv.broadcast.issued",
		"Pending waiters resolved",
	)
)

// Feed lifecycle signals.
var (
	// FeedStarted is emitted when a Feed begins watching its source.
	FeedStarted = capitan.NewSignal(
		"statv.feed.started",
		"Feed watching started",
	)

	// FeedStopped is emitted when a Feed stops watching.
	FeedStopped = capitan.NewSignal(
		"statv.feed.stopped",
		"Feed watching stopped",
	)

	// FeedStateChanged is emitted when a Feed transitions between states.
	FeedStateChanged = capitan.NewSignal(
		"statv.feed.state.changed",
		"Feed state transition",
	)
)

// Feed payload signals.
var (
	// FeedPayloadReceived is emitted when raw data is received from the
	// watcher.
	FeedPayloadReceived = capitan.NewSignal(
		"statv.feed.payload.received",
		"Raw payload received from watcher",
	)

	// FeedDecodeFailed is emitted when a payload cannot be decoded or
	// mapped onto declared stats.
	FeedDecodeFailed = capitan.NewSignal(
		"statv.feed.decode.failed",
		"Payload decode failed",
	)

	// FeedApplyFailed is emitted when applying a decoded payload to the
	// container fails.
	FeedApplyFailed = capitan.NewSignal(
		"statv.feed.apply.failed",
		"Payload apply failed",
	)

	// FeedApplySucceeded is emitted when a payload is applied to the
	// container.
	FeedApplySucceeded = capitan.NewSignal(
		"statv.feed.apply.succeeded",
		"Payload applied to container",
	)
)
