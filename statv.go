package statv

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/zoobzio/capitan"
)

// Statv owns the live values for one instance of a container type: the
// value map, the per-stat monitor lists, and the set of consumers
// currently suspended in WaitForUpdate.
//
// All three collections are guarded by a single mutex, held across
// validator application, monitor dispatch, commit, and broadcast for one
// logical write. Monitors therefore must not call Set or UpdateMulti on
// the same container.
type Statv struct {
	schema    *Schema
	available func(*Statv) bool

	mu       sync.Mutex
	values   map[string]any
	monitors map[string][]monitorFunc
	waiters  map[*waiter]struct{}
}

// monitorFunc is the untyped dispatch form of a Monitor, closed over the
// descriptor and the typed callback.
type monitorFunc func(sv *Statv, past, current any)

// config holds construction options for a Statv.
type config struct {
	init      map[string]any
	available func(*Statv) bool
}

// Option configures a Statv at construction.
type Option func(*config)

// WithInit supplies externally sourced initial values, keyed by stat id.
// The map is consulted only for stats with neither a literal default nor
// a factory.
func WithInit(init map[string]any) Option {
	return func(c *config) {
		c.init = init
	}
}

// WithAvailable overrides the availability predicate consulted by
// WaitForAvailable and WaitForUnavailable. Without it the container is
// always available.
//
// The predicate runs outside the container's lock and may read stats.
func WithAvailable(fn func(*Statv) bool) Option {
	return func(c *config) {
		c.available = fn
	}
}

// New constructs a container for the given schema. Every declared stat is
// resolved to an initial value, in declaration order: the literal default
// if present, else the factory's product, else the init map entry for the
// stat's id. A stat with none of the three fails construction with
// ErrCodeMissingInitialValue and no container is produced.
func New(schema *Schema, opts ...Option) (*Statv, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	sv := &Statv{
		schema:    schema,
		available: cfg.available,
		values:    make(map[string]any, len(schema.stats)),
		monitors:  make(map[string][]monitorFunc),
		waiters:   make(map[*waiter]struct{}),
	}

	for _, d := range schema.stats {
		v, err := d.resolveInitial(cfg.init)
		if err != nil {
			return nil, err
		}
		sv.values[d.ID()] = v
	}

	capitan.Emit(context.Background(), ContainerConstructed,
		KeyStats.Field(len(schema.stats)),
	)

	return sv, nil
}

// Schema returns the container's declared stat set.
func (sv *Statv) Schema() *Schema {
	return sv.schema
}

// Available reports the container's domain readiness. The base behavior
// is always true; containers express their own readiness via the
// WithAvailable option.
func (sv *Statv) Available() bool {
	if sv.available == nil {
		return true
	}
	return sv.available(sv)
}

// Update names one stat write within an UpdateMulti call. Build values
// of this type with Pair to keep the stat and value types aligned.
type Update struct {
	Stat  Descriptor
	Value any
}

// Pair builds a typed Update for UpdateMulti.
func Pair[T any](s *Stat[T], v T) Update {
	return Update{Stat: s, Value: v}
}

// UpdateMulti writes several stats with a single broadcast. Every
// descriptor must be declared by the container's schema; if any is
// foreign the whole call fails with ErrCodeForeignStat before any stat
// is written. Updates are applied in the order supplied, each with the
// same validator/monitor/commit logic as Set, and the waiters are woken
// exactly once, after the last update commits.
//
// UpdateMulti is not transactional: if a monitor panics partway through,
// stats already committed stay committed, the remaining updates are not
// attempted, and the broadcast for the call is skipped.
func (sv *Statv) UpdateMulti(updates ...Update) error {
	for _, u := range updates {
		if !sv.schema.owns(u.Stat) {
			return errForeignStat(u.Stat.ID())
		}
	}

	sv.mu.Lock()
	defer sv.mu.Unlock()

	for _, u := range updates {
		if err := sv.applyLocked(u.Stat, u.Value); err != nil {
			return err
		}
	}

	sv.broadcastLocked()
	return nil
}

// load returns the current value for a stat id.
func (sv *Statv) load(id string) (any, error) {
	sv.mu.Lock()
	defer sv.mu.Unlock()

	v, ok := sv.values[id]
	if !ok {
		return nil, errUninitializedAccess(id)
	}
	return v, nil
}

// write performs one stat write followed by a broadcast. The broadcast
// happens even when the accepted value equals the stored one: it signals
// "a write attempt completed", and waiters re-check their own predicate
// on every wake.
func (sv *Statv) write(d Descriptor, proposed any) error {
	sv.mu.Lock()
	defer sv.mu.Unlock()

	if err := sv.applyLocked(d, proposed); err != nil {
		return err
	}

	sv.broadcastLocked()
	return nil
}

// applyLocked runs the per-stat write logic: validator, equality check,
// monitor dispatch on change, commit. A monitor panic propagates to the
// writer and skips the commit of this stat.
func (sv *Statv) applyLocked(d Descriptor, proposed any) error {
	id := d.ID()

	past, ok := sv.values[id]
	if !ok {
		return errUninitializedAccess(id)
	}

	accepted := d.applyValidator(past, proposed)

	if !reflect.DeepEqual(past, accepted) {
		for _, m := range sv.monitors[id] {
			m(sv, past, accepted)
		}
		capitan.Emit(context.Background(), StatChanged,
			KeyStatID.Field(id),
			KeyPast.Field(fmt.Sprint(past)),
			KeyCurrent.Field(fmt.Sprint(accepted)),
		)
	}

	sv.values[id] = accepted
	return nil
}

// OnUpdate registers a monitor for a stat. Monitors fire in registration
// order, only for writes whose accepted value differs from the stored
// one. There is no removal: monitors live as long as the container.
func OnUpdate[T any](sv *Statv, s *Stat[T], fn Monitor[T]) {
	sv.mu.Lock()
	defer sv.mu.Unlock()

	sv.monitors[s.id] = append(sv.monitors[s.id], func(sv *Statv, past, current any) {
		fn(sv, s, past.(T), current.(T))
	})
}
