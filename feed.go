package statv

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultDebounce is the default debounce duration for feed payloads.
const DefaultDebounce = 100 * time.Millisecond

// Feed drives a container from an external source. It watches a Watcher
// for raw payloads, decodes each one as a flat mapping of stat id to
// value, coerces every entry onto its declared stat, and applies the
// result through UpdateMulti, so one external change produces one
// broadcast to the container's waiters.
//
// A payload naming an id the schema does not declare, or carrying a
// value the stat cannot hold, is rejected whole: the container keeps the
// values from the last good payload and the Feed goes degraded while it
// continues watching.
type Feed struct {
	sv       *Statv
	watcher  Watcher
	codec    Codec
	debounce time.Duration
	syncMode bool
	clock    clockz.Clock
	metrics  MetricsProvider
	history  *errorRing

	state     atomic.Int32
	applied   atomic.Bool
	lastError atomic.Pointer[error]

	mu      sync.Mutex
	started bool

	// For sync mode: channel to receive payloads
	changes <-chan []byte
}

// feedConfig holds configuration options for a Feed.
type feedConfig struct {
	codec    Codec
	debounce time.Duration
	syncMode bool
	clock    clockz.Clock
	metrics  MetricsProvider
	history  int
}

// FeedOption configures a Feed.
type FeedOption func(*feedConfig)

// WithDebounce sets the debounce duration for payload processing.
// Payloads arriving within this duration are coalesced into a single
// apply.
func WithDebounce(d time.Duration) FeedOption {
	return func(c *feedConfig) {
		c.debounce = d
	}
}

// WithSyncMode enables synchronous processing for testing. In sync mode,
// payloads are processed by explicit Process calls, without debouncing
// or background goroutines.
func WithSyncMode() FeedOption {
	return func(c *feedConfig) {
		c.syncMode = true
	}
}

// WithClock sets a custom clock for time operations. Use with
// clockz.FakeClock for deterministic debounce testing.
func WithClock(clock clockz.Clock) FeedOption {
	return func(c *feedConfig) {
		c.clock = clock
	}
}

// WithCodec fixes the payload codec. Without it the format is detected
// per payload from the leading byte.
func WithCodec(codec Codec) FeedOption {
	return func(c *feedConfig) {
		c.codec = codec
	}
}

// WithMetrics sets the metrics provider for feed events.
func WithMetrics(m MetricsProvider) FeedOption {
	return func(c *feedConfig) {
		c.metrics = m
	}
}

// WithErrorHistory retains the last n feed errors, readable via Errors.
// The default is 0, which disables retention.
func WithErrorHistory(n int) FeedOption {
	return func(c *feedConfig) {
		c.history = n
	}
}

// NewFeed creates a Feed that applies payloads from the watcher to the
// container.
func NewFeed(sv *Statv, watcher Watcher, opts ...FeedOption) *Feed {
	cfg := &feedConfig{
		debounce: DefaultDebounce,
		clock:    clockz.RealClock,
		metrics:  NoOpMetricsProvider{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	f := &Feed{
		sv:       sv,
		watcher:  watcher,
		codec:    cfg.codec,
		debounce: cfg.debounce,
		syncMode: cfg.syncMode,
		clock:    cfg.clock,
		metrics:  cfg.metrics,
		history:  newErrorRing(cfg.history),
	}
	f.state.Store(int32(FeedLoading))

	return f
}

// State returns the current state of the Feed.
func (f *Feed) State() FeedState {
	return FeedState(f.state.Load())
}

// LastError returns the last error encountered, or nil.
func (f *Feed) LastError() error {
	ptr := f.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// Errors returns the retained error history, oldest first. Empty unless
// WithErrorHistory was set.
func (f *Feed) Errors() []error {
	return f.history.all()
}

// Start begins watching. It blocks until the first payload is processed
// (success or failure), then continues watching asynchronously. If the
// initial payload fails, Start returns the error but keeps watching for
// valid updates.
//
// In sync mode, Start only processes the initial payload; use Process to
// pump subsequent ones.
//
// Start can only be called once.
func (f *Feed) Start(ctx context.Context) error {
	f.mu.Lock()
	if f.started {
		f.mu.Unlock()
		return fmt.Errorf("feed already started")
	}
	f.started = true
	f.mu.Unlock()

	capitan.Emit(ctx, FeedStarted,
		KeyDebounce.Field(f.debounce),
	)

	changes, err := f.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	var initialErr error
	select {
	case <-ctx.Done():
		return ctx.Err()
	case raw, ok := <-changes:
		if !ok {
			return fmt.Errorf("watcher closed before emitting initial payload")
		}
		capitan.Emit(ctx, FeedPayloadReceived)
		f.metrics.OnPayloadReceived()
		initialErr = f.process(ctx, raw)
	}

	if f.syncMode {
		f.changes = changes
		return initialErr
	}

	go f.watch(ctx, changes)

	return initialErr
}

// Process reads and processes the next payload from the watcher. Only
// available in sync mode; used for deterministic testing. Returns false
// if no payload is pending or the channel is closed.
func (f *Feed) Process(ctx context.Context) bool {
	if !f.syncMode {
		return false
	}

	select {
	case raw, ok := <-f.changes:
		if !ok {
			return false
		}
		capitan.Emit(ctx, FeedPayloadReceived)
		f.metrics.OnPayloadReceived()
		_ = f.process(ctx, raw) //nolint:errcheck // Errors stored via setError
		return true
	default:
		return false
	}
}

// process decodes, coerces, and applies a single payload.
func (f *Feed) process(ctx context.Context, raw []byte) error {
	start := time.Now()
	oldState := f.State()

	codec := f.codec
	if codec == nil {
		codec = detectCodec(raw)
	}

	var payload map[string]any
	if err := codec.Unmarshal(raw, &payload); err != nil {
		return f.fail(ctx, oldState, "decode", start, FeedDecodeFailed,
			fmt.Errorf("decode failed: %w", err))
	}

	// Apply in a stable order regardless of map iteration.
	ids := make([]string, 0, len(payload))
	for id := range payload {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	updates := make([]Update, 0, len(ids))
	for _, id := range ids {
		d := f.sv.Schema().Lookup(id)
		if d == nil {
			return f.fail(ctx, oldState, "coerce", start, FeedDecodeFailed,
				fmt.Errorf("payload names undeclared stat %q", id))
		}
		v, err := d.decodeValue(payload[id])
		if err != nil {
			return f.fail(ctx, oldState, "coerce", start, FeedDecodeFailed,
				fmt.Errorf("payload value for %q: %w", id, err))
		}
		updates = append(updates, Update{Stat: d, Value: v})
	}

	if err := f.sv.UpdateMulti(updates...); err != nil {
		return f.fail(ctx, oldState, "apply", start, FeedApplyFailed,
			fmt.Errorf("apply failed: %w", err))
	}

	f.applied.Store(true)
	f.lastError.Store(nil)
	f.transitionState(ctx, oldState, FeedLive)
	f.metrics.OnApplySuccess(time.Since(start))
	capitan.Emit(ctx, FeedApplySucceeded)

	return nil
}

// fail records a payload failure and moves the Feed to its failure state.
func (f *Feed) fail(ctx context.Context, oldState FeedState, stage string, start time.Time, signal capitan.Signal, err error) error {
	f.setError(err)
	f.history.push(err)
	f.transitionState(ctx, oldState, f.failureState())
	f.metrics.OnApplyFailure(stage, time.Since(start))
	capitan.Emit(ctx, signal,
		KeyError.Field(err.Error()),
	)
	return err
}

// failureState returns FeedEmpty until a payload has ever been applied,
// FeedDegraded afterward.
func (f *Feed) failureState() FeedState {
	if !f.applied.Load() {
		return FeedEmpty
	}
	return FeedDegraded
}

// transitionState updates the state and emits a transition event if changed.
func (f *Feed) transitionState(ctx context.Context, oldState, newState FeedState) {
	if oldState == newState {
		return
	}
	f.state.Store(int32(newState))
	f.metrics.OnStateChange(oldState, newState)
	capitan.Emit(ctx, FeedStateChanged,
		KeyOldState.Field(oldState.String()),
		KeyNewState.Field(newState.String()),
	)
}

// setError stores an error atomically.
func (f *Feed) setError(err error) {
	e := err
	f.lastError.Store(&e)
}

// watch processes payloads from the watcher channel with debouncing.
func (f *Feed) watch(ctx context.Context, changes <-chan []byte) {
	defer func() {
		capitan.Emit(ctx, FeedStopped,
			KeyNewState.Field(f.State().String()),
		)
	}()

	var (
		timer      clockz.Timer
		pending    []byte
		hasPending bool
	)

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case raw, ok := <-changes:
			if !ok {
				if hasPending {
					_ = f.process(ctx, pending) //nolint:errcheck // Errors stored via setError
				}
				return
			}

			capitan.Emit(ctx, FeedPayloadReceived)
			f.metrics.OnPayloadReceived()
			pending = raw
			hasPending = true

			if timer == nil {
				timer = f.clock.NewTimer(f.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(f.debounce)
			}

		case <-timerC:
			if hasPending {
				_ = f.process(ctx, pending) //nolint:errcheck // Errors stored via setError
				hasPending = false
			}
		}
	}
}
