package erasure

import (
	"fmt"
	"log/slog"
)

// control is shared by all Shared and Weak handles of the same value.
type control[B any] struct {
	slot   *Slot[B]
	strong int
	weak   int
}

// Shared is a reference counted handle to a value owned by a Slot. Each
// Shared handle holds one strong reference. The value is destroyed once the
// last strong reference is released.
type Shared[B any] struct {
	ctrl     *control[B]
	released bool
}

// Share moves the content of slot into a new control block and
// returns the first strong handle to it.
func Share[B any](slot *Slot[B]) *Shared[B] {
	if slot.IsEmpty() {
		panic("can not share an empty slot")
	}

	ctrl := &control[B]{slot: slot.Move(), strong: 1}
	return &Shared[B]{ctrl: ctrl}
}

// NewShared is a shortcut for Share(NewSlot(value, true)).
func NewShared[B any](value B) *Shared[B] {
	return Share(NewSlot(value, true))
}

// Value returns the shared value. Panics if this handle was released.
func (s *Shared[B]) Value() B {
	s.mustBeAlive()
	return s.ctrl.slot.Value()
}

// Slot gives access to the underlying slot. The slot stays owned by the control block.
func (s *Shared[B]) Slot() *Slot[B] {
	s.mustBeAlive()
	return s.ctrl.slot
}

// Clone returns a new strong handle to the same value.
func (s *Shared[B]) Clone() *Shared[B] {
	s.mustBeAlive()

	s.ctrl.strong += 1
	return &Shared[B]{ctrl: s.ctrl}
}

// Release gives up this handles strong reference. It returns true, if the
// call released the last strong reference and the value was destroyed.
// Releasing a handle twice panics.
func (s *Shared[B]) Release() bool {
	s.mustBeAlive()

	s.released = true
	s.ctrl.strong -= 1

	if s.ctrl.strong > 0 {
		return false
	}

	if err := s.ctrl.slot.Destroy(); err != nil {
		slog.Warn("Failed to destroy shared value", slog.String("err", err.Error()))
	}

	return true
}

// Count returns the number of strong references to the value.
func (s *Shared[B]) Count() int {
	return s.ctrl.strong
}

func (s *Shared[B]) Released() bool {
	return s.released
}

// Weak returns a handle that does not keep the value alive.
func (s *Shared[B]) Weak() *Weak[B] {
	s.mustBeAlive()

	s.ctrl.weak += 1
	return &Weak[B]{ctrl: s.ctrl}
}

func (s *Shared[B]) String() string {
	return fmt.Sprintf("Shared(%s, strong=%d, weak=%d)", s.ctrl.slot, s.ctrl.strong, s.ctrl.weak)
}

func (s *Shared[B]) mustBeAlive() {
	if s.released {
		panic(fmt.Sprintf("shared handle to %s was already released", s.ctrl.slot.Name()))
	}
}

// Weak references a shared value without keeping it alive.
type Weak[B any] struct {
	ctrl     *control[B]
	released bool
}

// Upgrade returns a new strong handle if the value is still alive.
// Upgrading a released weak handle panics.
func (w *Weak[B]) Upgrade() (*Shared[B], bool) {
	w.mustBeAlive()

	if w.ctrl.strong == 0 {
		return nil, false
	}

	w.ctrl.strong += 1
	return &Shared[B]{ctrl: w.ctrl}, true
}

// Alive reports whether at least one strong handle still exists.
func (w *Weak[B]) Alive() bool {
	return w.ctrl.strong > 0
}

// Release gives up this weak reference. Releasing a weak handle twice panics.
func (w *Weak[B]) Release() {
	w.mustBeAlive()

	w.released = true
	w.ctrl.weak -= 1
}

// WeakCount returns the number of unreleased weak handles of the value.
func (s *Shared[B]) WeakCount() int {
	return s.ctrl.weak
}

func (w *Weak[B]) mustBeAlive() {
	if w.released {
		panic("weak handle was already released")
	}
}
