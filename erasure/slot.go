package erasure

import (
	"fmt"

	"github.com/oliverbestmann/erased/internal/assert"
)

// Slot holds exactly one pointer together with everything required to
// destroy it and to recover its original type.
//
// A Slot is move only: use Move to transfer ownership to a new Slot. Copying a Slot
// by value would result in two owners of the same pointer.
type Slot[B any] struct {
	noCopy noCopy

	value   B
	desc    *Desc
	token   Token
	deleter func(B)

	owns bool
	full bool
}

// NewSlot wraps value, which must be a non nil pointer. If owns is true,
// the value is destroyed once the slot is destroyed.
func NewSlot[B any](value B, owns bool) *Slot[B] {
	desc := mustDescOf(any(value))
	return newSlot(value, desc, desc.Token, owns)
}

// NewSlotWithToken is like NewSlot but uses the given token instead of
// the default token of the values type.
func NewSlotWithToken[B any](value B, token Token, owns bool) *Slot[B] {
	return newSlot(value, mustDescOf(any(value)), token, owns)
}

func newSlot[B any](value B, desc *Desc, token Token, owns bool) *Slot[B] {
	assert.IsNonNilPointer(any(value))

	if token.IsZero() {
		panic(fmt.Sprintf("slot for %s requires a non zero token", desc.Name))
	}

	return &Slot[B]{
		value: value,
		desc:  desc,
		token: token,
		owns:  owns,
		full:  true,
	}
}

// SlotValue returns the value of the slot as a *T. This is a checked cast, it returns false if
// the slot is empty or if the value held by the slot is not a *T.
func SlotValue[T, B any](s *Slot[B]) (*T, bool) {
	if !s.full {
		return nil, false
	}

	value, ok := any(s.value).(*T)
	return value, ok
}

// Value returns the value held by the slot. This is the
// zero value if the slot is empty.
func (s *Slot[B]) Value() B {
	return s.value
}

func (s *Slot[B]) Token() Token {
	return s.token
}

// Desc returns the erased type descriptor of the value. This is
// nil if the slot is empty.
func (s *Slot[B]) Desc() *Desc {
	return s.desc
}

// Address returns the address of the value held by this slot.
func (s *Slot[B]) Address() uintptr {
	if !s.full {
		return 0
	}

	return AddressOf(any(s.value))
}

func (s *Slot[B]) Owns() bool {
	return s.owns
}

func (s *Slot[B]) IsEmpty() bool {
	return !s.full
}

func (s *Slot[B]) Name() string {
	if !s.full {
		return "<empty>"
	}

	return s.desc.Name
}

func (s *Slot[B]) String() string {
	if !s.full {
		return "Slot(<empty>)"
	}

	return fmt.Sprintf("Slot(%s@%#x)", s.token, s.Address())
}

// SetDeleter overrides the function called to destroy the value.
// Passing nil restores the default behaviour of the values Desc.
func (s *Slot[B]) SetDeleter(deleter func(B)) {
	s.deleter = deleter
}

// Destroy destroys the value if the slot owns it. The slot is empty afterward,
// calling Destroy again has no effect. Returns the error of io.Closer.Close
// for values that are closed.
func (s *Slot[B]) Destroy() error {
	if !s.full {
		return nil
	}

	value, desc, deleter, owns := s.value, s.desc, s.deleter, s.owns

	// reset first, a deleter might observe the slot
	s.reset()

	if !owns {
		return nil
	}

	if deleter != nil {
		deleter(value)
		return nil
	}

	return desc.Destroy(any(value))
}

// Release empties the slot without destroying the value.
// The caller takes over ownership of the returned value.
func (s *Slot[B]) Release() B {
	value := s.value
	s.reset()
	return value
}

// Move transfers the content of this slot into a new slot. This slot
// is empty afterward.
func (s *Slot[B]) Move() *Slot[B] {
	moved := &Slot[B]{
		value:   s.value,
		desc:    s.desc,
		token:   s.token,
		deleter: s.deleter,
		owns:    s.owns,
		full:    s.full,
	}

	s.reset()

	return moved
}

func (s *Slot[B]) reset() {
	var zeroValue B
	s.value = zeroValue
	s.desc = nil
	s.token = Token{}
	s.deleter = nil
	s.owns = false
	s.full = false
}
