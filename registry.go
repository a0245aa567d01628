package erased

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"reflect"
	"slices"

	"github.com/oliverbestmann/erased/erasure"
	"github.com/oliverbestmann/erased/fmtseq"
	"github.com/oliverbestmann/erased/internal/set"
	"github.com/oliverbestmann/erased/internal/typedpool"
)

type registryConfig struct {
	describe erasure.Describer
	borrowed bool
	logger   *slog.Logger
}

type RegistryOption func(config *registryConfig)

// WithDescriber replaces the function used to derive the type token of a value.
func WithDescriber(describe erasure.Describer) RegistryOption {
	return func(config *registryConfig) {
		config.describe = describe
	}
}

// WithBorrowed creates a registry that does not own its values. Values are
// never destroyed when they are removed or replaced.
func WithBorrowed() RegistryOption {
	return func(config *registryConfig) {
		config.borrowed = true
	}
}

func WithLogger(logger *slog.Logger) RegistryOption {
	return func(config *registryConfig) {
		config.logger = logger
	}
}

// Registry is a hash based collection of erased values. Each value must be a
// non nil pointer assignable to B. The KeyPolicy of the registry decides which values
// are considered to be the same entry. At most one entry exists per key,
// inserting a value with an existing key replaces and destroys the previous value.
//
// A Registry is not safe for concurrent use.
type Registry[B any] struct {
	policy   KeyPolicy
	describe erasure.Describer
	owns     bool
	logger   *slog.Logger

	// set for registries of an Index, values must be inserted using Index.Insert
	indexed bool

	buckets map[uint64][]*erasure.Slot[B]
	len     int

	scratch *typedpool.Pool[[]located[B]]
}

// located is a slot together with the hash of the bucket it is stored in.
type located[B any] struct {
	hash uint64
	slot *erasure.Slot[B]
}

// New creates a new empty registry using the given KeyPolicy.
func New[B any](policy KeyPolicy, options ...RegistryOption) *Registry[B] {
	config := registryConfig{
		describe: erasure.DefaultDescriber,
		logger:   slog.Default(),
	}

	for _, option := range options {
		option(&config)
	}

	return &Registry[B]{
		policy:   policy,
		describe: config.describe,
		owns:     !config.borrowed,
		logger:   config.logger,
		buckets:  map[uint64][]*erasure.Slot[B]{},

		scratch: typedpool.New(func(slots *[]located[B]) {
			clear(*slots)
			*slots = (*slots)[:0]
		}),
	}
}

func (r *Registry[B]) Policy() KeyPolicy {
	return r.policy
}

// Owns reports whether the registry destroys values it removes.
func (r *Registry[B]) Owns() bool {
	return r.owns
}

func (r *Registry[B]) Len() int {
	return r.len
}

func (r *Registry[B]) Empty() bool {
	return r.len == 0
}

// Insert adds a value to the registry. The registry takes ownership of the value.
// An existing entry with the same key is destroyed and replaced. Inserting a
// value that is already part of the registry has no effect.
func (r *Registry[B]) Insert(value B) {
	r.InsertWithDeleter(value, nil)
}

// InsertWithDeleter is like Insert, but destroys the value
// using deleter instead of its default destroy function.
func (r *Registry[B]) InsertWithDeleter(value B, deleter func(B)) {
	if r.indexed {
		panic("values of an Index must be inserted using Index.Insert")
	}

	r.insert(value, deleter)
}

func (r *Registry[B]) insert(value B, deleter func(B)) {
	desc := erasure.DescOf(any(value))

	slot := erasure.NewSlotWithToken(value, r.describe(desc.Elem), r.owns)
	slot.SetDeleter(deleter)

	r.insertSlot(slot)
}

func (r *Registry[B]) insertSlot(slot *erasure.Slot[B]) {
	key := keyOf(slot)
	hash := r.policy.Hash(key)

	entries := r.buckets[hash]
	for idx, existing := range entries {
		if !r.policy.Equal(keyOf(existing), key) {
			continue
		}

		if existing.Address() == key.Address {
			// the same value was inserted again
			slot.Release()
			return
		}

		r.logger.Debug(
			"Replacing entry",
			slog.String("policy", r.policy.Name()),
			slog.String("token", key.Token.String()),
			slog.String("previous", existing.String()),
		)

		_ = r.destroy(existing)
		entries[idx] = slot

		return
	}

	r.buckets[hash] = append(entries, slot)
	r.len += 1
}

// Erase removes and destroys the entry matching value.
// Returns false if there was no such entry.
func (r *Registry[B]) Erase(value B) bool {
	hash, idx, ok := r.lookup(value)
	if !ok {
		return false
	}

	slot := r.removeAt(hash, idx)
	_ = r.destroy(slot)

	return true
}

// Contains reports whether an entry matching value exists.
func (r *Registry[B]) Contains(value B) bool {
	_, _, ok := r.lookup(value)
	return ok
}

// Find returns the value of the entry matching value. The returned value
// is still owned by the registry and is valid until it is removed from the registry.
func (r *Registry[B]) Find(value B) Option[B] {
	hash, idx, ok := r.lookup(value)
	if !ok {
		return None[B]()
	}

	return Some(r.buckets[hash][idx].Value())
}

// ContainsToken reports whether an entry with the given type token exists.
func (r *Registry[B]) ContainsToken(token erasure.Token) bool {
	for range r.slotsWithToken(token) {
		return true
	}

	return false
}

// FindToken returns the value of an entry with the given type token. If
// multiple entries exist, it is not defined which one is returned.
func (r *Registry[B]) FindToken(token erasure.Token) Option[B] {
	for _, slot := range r.slotsWithToken(token) {
		return Some(slot.Value())
	}

	return None[B]()
}

// EraseToken removes and destroys all entries with the given type token.
func (r *Registry[B]) EraseToken(token erasure.Token) bool {
	return r.eraseWhere(token, func(*erasure.Slot[B]) bool { return true })
}

// Clear removes and destroys all entries.
func (r *Registry[B]) Clear() {
	_ = r.clear()
}

// Close destroys all entries and returns the errors of values that failed to close.
// A registry can be used again after closing it. Close allows an owning registry to
// be stored in another registry.
func (r *Registry[B]) Close() error {
	return r.clear()
}

func (r *Registry[B]) clear() error {
	if r.len == 0 {
		return nil
	}

	buckets, count := r.buckets, r.len

	r.buckets = map[uint64][]*erasure.Slot[B]{}
	r.len = 0

	r.logger.Debug(
		"Clearing registry",
		slog.String("policy", r.policy.Name()),
		slog.Int("len", count),
	)

	var errs []error
	for _, entries := range buckets {
		for _, slot := range entries {
			if err := r.destroy(slot); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

// destroy destroys the slot and logs a failure to close its value.
func (r *Registry[B]) destroy(slot *erasure.Slot[B]) error {
	name := slot.String()

	err := slot.Destroy()
	if err != nil {
		r.logger.Warn(
			"Failed to destroy entry",
			slog.String("policy", r.policy.Name()),
			slog.String("entry", name),
			slog.String("err", err.Error()),
		)
	}

	return err
}

// All iterates over all values in an unspecified order.
// The registry must not be modified during iteration.
func (r *Registry[B]) All() iter.Seq[B] {
	return func(yield func(B) bool) {
		for _, entries := range r.buckets {
			for _, slot := range entries {
				if !yield(slot.Value()) {
					return
				}
			}
		}
	}
}

// Tokens iterates over the distinct type tokens of all values.
func (r *Registry[B]) Tokens() iter.Seq[erasure.Token] {
	return func(yield func(erasure.Token) bool) {
		var seen set.Set[erasure.Token]

		for _, entries := range r.buckets {
			for _, slot := range entries {
				if !seen.Insert(slot.Token()) {
					continue
				}

				if !yield(slot.Token()) {
					return
				}
			}
		}
	}
}

func (r *Registry[B]) String() string {
	names := func(yield func(string) bool) {
		for _, entries := range r.buckets {
			for _, slot := range entries {
				if !yield(slot.Token().String()) {
					return
				}
			}
		}
	}

	return r.policy.Name() + fmtseq.MustFormat("{`, `}<%s>", iter.Seq[string](names))
}

// ContainsType reports whether the registry contains a *U.
func ContainsType[U, B any](r *Registry[B]) bool {
	return FindType[U](r).IsSome()
}

// FindType returns a value of type *U. If multiple values of type *U exist,
// it is not defined which one is returned.
func FindType[U, B any](r *Registry[B]) Option[*U] {
	for value := range FindAllType[U](r) {
		return Some(value)
	}

	return None[*U]()
}

// FindAllType iterates over all values of type *U.
func FindAllType[U, B any](r *Registry[B]) iter.Seq[*U] {
	token := r.describe(reflect.TypeFor[U]())

	return func(yield func(*U) bool) {
		for _, slot := range r.slotsWithToken(token) {
			value, ok := erasure.SlotValue[U](slot)
			if !ok {
				continue
			}

			if !yield(value) {
				return
			}
		}
	}
}

// EraseType removes and destroys all values of type *U. Returns false
// if the registry did not contain any value of type *U.
func EraseType[U, B any](r *Registry[B]) bool {
	token := r.describe(reflect.TypeFor[U]())

	return r.eraseWhere(token, func(slot *erasure.Slot[B]) bool {
		_, ok := erasure.SlotValue[U](slot)
		return ok
	})
}

func (r *Registry[B]) eraseWhere(token erasure.Token, predicate func(*erasure.Slot[B]) bool) bool {
	victims := r.scratch.Get()
	defer r.scratch.Put(victims)

	for hash, slot := range r.slotsWithToken(token) {
		if predicate(slot) {
			*victims = append(*victims, located[B]{hash: hash, slot: slot})
		}
	}

	// remove all slots first, then destroy them
	for _, victim := range *victims {
		r.removeSlot(victim.hash, victim.slot)
	}

	for _, victim := range *victims {
		_ = r.destroy(victim.slot)
	}

	return len(*victims) > 0
}

// slotsWithToken iterates over all slots with the given token.
// For type hashed policies, only a single bucket needs to be checked.
func (r *Registry[B]) slotsWithToken(token erasure.Token) iter.Seq2[uint64, *erasure.Slot[B]] {
	return func(yield func(uint64, *erasure.Slot[B]) bool) {
		if token.IsZero() {
			return
		}

		if r.policy.TypeHashed() {
			hash := r.policy.Hash(Key{Token: token})
			for _, slot := range r.buckets[hash] {
				if slot.Token() == token && !yield(hash, slot) {
					return
				}
			}

			return
		}

		for hash, entries := range r.buckets {
			for _, slot := range entries {
				if slot.Token() == token && !yield(hash, slot) {
					return
				}
			}
		}
	}
}

func (r *Registry[B]) lookup(value B) (uint64, int, bool) {
	if isNil(any(value)) {
		return 0, 0, false
	}

	desc := erasure.DescOf(any(value))

	key := Key{
		Token:   r.describe(desc.Elem),
		Desc:    desc,
		Value:   any(value),
		Address: erasure.AddressOf(any(value)),
	}

	hash := r.policy.Hash(key)

	for idx, slot := range r.buckets[hash] {
		if r.policy.Equal(keyOf(slot), key) {
			return hash, idx, true
		}
	}

	return 0, 0, false
}

func (r *Registry[B]) removeAt(hash uint64, idx int) *erasure.Slot[B] {
	entries := r.buckets[hash]
	slot := entries[idx]

	entries = slices.Delete(entries, idx, idx+1)
	if len(entries) == 0 {
		delete(r.buckets, hash)
	} else {
		r.buckets[hash] = entries
	}

	r.len -= 1

	return slot
}

func (r *Registry[B]) removeSlot(hash uint64, slot *erasure.Slot[B]) {
	idx := slices.Index(r.buckets[hash], slot)
	if idx < 0 {
		panic(fmt.Sprintf("slot %s not found in registry", slot))
	}

	r.removeAt(hash, idx)
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
