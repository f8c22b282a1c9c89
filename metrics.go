package statv

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus
// or StatsD. Implement this interface to receive callbacks on key feed
// events.
type MetricsProvider interface {
	// OnStateChange is called when the feed transitions between states.
	OnStateChange(from, to FeedState)

	// OnApplySuccess is called when a payload is applied to the
	// container. Duration covers decode, coercion, and apply.
	OnApplySuccess(duration time.Duration)

	// OnApplyFailure is called when a payload fails at any stage.
	// Stage is "decode", "coerce", or "apply".
	OnApplyFailure(stage string, duration time.Duration)

	// OnPayloadReceived is called when raw data arrives from the watcher.
	OnPayloadReceived()
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Embed it to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_, _ FeedState)             {}
func (NoOpMetricsProvider) OnApplySuccess(_ time.Duration)           {}
func (NoOpMetricsProvider) OnApplyFailure(_ string, _ time.Duration) {}
func (NoOpMetricsProvider) OnPayloadReceived()                       {}
