package statv

import "context"

// Watcher observes an external source of stat payloads and emits raw
// bytes on a channel whenever the source changes.
//
// Implementations should emit the current value immediately when Watch
// is called, so a Feed can resolve its initial payload without waiting
// for the source to change.
type Watcher interface {
	// Watch begins observing the source. The returned channel emits raw
	// payload bytes and is closed when the context is canceled or the
	// source becomes permanently unreadable.
	Watch(ctx context.Context) (<-chan []byte, error)
}
