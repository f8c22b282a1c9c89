package statv

// FeedState represents the current state of a Feed.
type FeedState int32

const (
	// FeedLoading indicates the Feed is initializing and has not yet
	// processed any payload.
	FeedLoading FeedState = iota

	// FeedLive indicates the Feed's last payload was applied to the
	// container.
	FeedLive

	// FeedDegraded indicates the last payload failed to decode or apply.
	// The container keeps the values from the last good payload.
	FeedDegraded

	// FeedEmpty indicates the initial payload failed and no payload has
	// ever been applied. The Feed continues watching for valid updates.
	FeedEmpty
)

// String returns the string representation of the state.
func (s FeedState) String() string {
	switch s {
	case FeedLoading:
		return "loading"
	case FeedLive:
		return "live"
	case FeedDegraded:
		return "degraded"
	case FeedEmpty:
		return "empty"
	default:
		return "unknown"
	}
}
