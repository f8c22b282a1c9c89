package statv

import (
	"fmt"
	"reflect"

	"github.com/agilira/go-errors"
)

// Validator transforms every proposed write to a stat before the value is
// compared against the stored one and committed. A validator may clamp or
// coerce but cannot reject with an error; rejection is expressed by
// returning a value equal to past.
type Validator[T any] func(s *Stat[T], past, proposed T) T

// Monitor observes committed changes to a stat. It runs synchronously on
// the writing goroutine, in registration order, and only when the accepted
// value differs from the stored one.
//
// A monitor must not call Set or UpdateMulti on the same container: the
// container's lock is held across dispatch and is not reentrant.
type Monitor[T any] func(sv *Statv, s *Stat[T], past, current T)

// Descriptor is the untyped view of a stat definition, used where a
// container handles stats of mixed value types (Schema, UpdateMulti).
// The only implementation is *Stat[T].
type Descriptor interface {
	// ID returns the stat identifier, unique within a Schema.
	ID() string

	resolveInitial(init map[string]any) (any, error)
	applyValidator(past, proposed any) any
	decodeValue(raw any) (any, error)
}

// Stat is the immutable definition of one named, typed slot: identity,
// default resolution policy, and a single-assignment validator slot.
// A Stat is created once, at package level, and shared read-only across
// every container whose Schema declares it.
type Stat[T any] struct {
	id         string
	def        T
	hasDefault bool
	factory    func() T
	validator  Validator[T]
}

// StatOption configures a Stat at definition time.
type StatOption[T any] func(*Stat[T])

// WithDefault sets the literal default value. A zero value is a legal
// default and is distinct from no default at all.
func WithDefault[T any](v T) StatOption[T] {
	return func(s *Stat[T]) {
		s.def = v
		s.hasDefault = true
	}
}

// WithFactory sets a default factory, invoked exactly once per container
// construction when no literal default is present. It is never invoked
// on reads.
func WithFactory[T any](fn func() T) StatOption[T] {
	return func(s *Stat[T]) {
		s.factory = fn
	}
}

// WithValidator installs the validator at definition time. The validator
// slot accepts exactly one assignment; combining WithValidator with a
// later SetValidator call fails the same way a second SetValidator does.
func WithValidator[T any](fn Validator[T]) StatOption[T] {
	return func(s *Stat[T]) {
		if s.validator != nil {
			panic(fmt.Sprintf("statv: %s already has a validator", s.id))
		}
		s.validator = fn
	}
}

// NewStat defines a stat with the given id.
func NewStat[T any](id string, opts ...StatOption[T]) *Stat[T] {
	s := &Stat[T]{id: id}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the stat identifier.
func (s *Stat[T]) ID() string {
	return s.id
}

// SetValidator installs the validator after definition. The slot accepts
// exactly one assignment: a second call fails with ErrCodeDuplicateValidator
// and leaves the original validator installed.
//
// Validators are installed at definition time, before any container is
// constructed; installation is not synchronized against concurrent writes.
func (s *Stat[T]) SetValidator(fn Validator[T]) error {
	if s.validator != nil {
		return errDuplicateValidator(s.id)
	}
	s.validator = fn
	return nil
}

// Get returns the container's current value for this stat. It fails with
// ErrCodeUninitializedAccess if the stat is not declared by the
// container's schema.
func (s *Stat[T]) Get(sv *Statv) (T, error) {
	raw, err := sv.load(s.id)
	if err != nil {
		var zero T
		return zero, err
	}
	return raw.(T), nil
}

// Set writes a value to the container. The proposed value passes through
// the validator, monitors fire if the accepted value differs from the
// stored one, the value is committed, and every pending waiter is woken,
// in that order. The broadcast happens even when the write is a no-op.
//
// Set fails with ErrCodeUninitializedAccess if the stat is not declared
// by the container's schema.
func (s *Stat[T]) Set(sv *Statv, value T) error {
	return sv.write(s, value)
}

// resolveInitial produces the construction-time value: the literal
// default if present, else the factory's product, else the init map entry
// for this id, else an ErrCodeMissingInitialValue failure.
func (s *Stat[T]) resolveInitial(init map[string]any) (any, error) {
	if s.hasDefault {
		return s.def, nil
	}
	if s.factory != nil {
		return s.factory(), nil
	}
	if raw, ok := init[s.id]; ok {
		v, err := s.decodeValue(raw)
		if err != nil {
			return nil, errors.Wrap(err, ErrCodeMissingInitialValue, s.id+" initial value has wrong type")
		}
		return v, nil
	}
	return nil, errMissingInitialValue(s.id)
}

// applyValidator runs the validator, or passes the proposal through
// unchanged when none is installed. Callers guarantee both values are of
// the stat's value type.
func (s *Stat[T]) applyValidator(past, proposed any) any {
	if s.validator == nil {
		return proposed
	}
	return s.validator(s, past.(T), proposed.(T))
}

// decodeValue coerces an untyped value onto the stat's value type.
// Exact matches pass through; numeric values are converted between
// numeric kinds, which covers the int/int64/float64 skew of decoded
// JSON and YAML payloads.
func (s *Stat[T]) decodeValue(raw any) (any, error) {
	if v, ok := raw.(T); ok {
		return v, nil
	}

	var zero T
	target := reflect.TypeOf(zero)
	if raw == nil || target == nil {
		return nil, fmt.Errorf("cannot use %v as value for %s", raw, s.id)
	}

	rv := reflect.ValueOf(raw)
	if isNumericKind(rv.Kind()) && isNumericKind(target.Kind()) && rv.Type().ConvertibleTo(target) {
		return rv.Convert(target).Interface().(T), nil
	}

	return nil, fmt.Errorf("cannot use %T as %s value for %s", raw, target, s.id)
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
