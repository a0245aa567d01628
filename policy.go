package erased

import (
	"github.com/oliverbestmann/erased/erasure"
)

// Key is what a KeyPolicy sees of an entry or of a value used for a lookup.
// Type hashed policies are also asked to hash keys that only have a Token.
type Key struct {
	Token   erasure.Token
	Desc    *erasure.Desc
	Value   any
	Address uintptr
}

func keyOf[B any](slot *erasure.Slot[B]) Key {
	return Key{
		Token:   slot.Token(),
		Desc:    slot.Desc(),
		Value:   any(slot.Value()),
		Address: slot.Address(),
	}
}

// KeyPolicy decides which entries of a Registry are considered the same.
// Keys that are Equal must have the same Hash.
type KeyPolicy interface {
	Hash(key Key) uint64
	Equal(a, b Key) bool

	// TypeHashed returns true if Hash only depends on the Token of a key.
	// Lookups by type are then restricted to a single hash bucket.
	TypeHashed() bool

	Name() string
}

var (
	// ByAddress identifies entries by the address of their value.
	ByAddress KeyPolicy = byAddress{}

	// ByType identifies entries by their type token. A registry using
	// this policy holds at most one value per type.
	ByType KeyPolicy = byType{}

	// ByTypeAndValue identifies entries by their type and by the value they point to.
	// Values of types that are not comparable are compared by address.
	ByTypeAndValue KeyPolicy = byTypeAndValue{}

	// ByTypeThenValue has the same notion of equality as ByTypeAndValue, but
	// groups all values of the same type into the same bucket.
	ByTypeThenValue KeyPolicy = byTypeThenValue{}
)

type byAddress struct{}

func (byAddress) Hash(key Key) uint64 {
	return uint64(key.Address)
}

func (byAddress) Equal(a, b Key) bool {
	return a.Address == b.Address
}

func (byAddress) TypeHashed() bool {
	return false
}

func (byAddress) Name() string {
	return "ByAddress"
}

type byType struct{}

func (byType) Hash(key Key) uint64 {
	return key.Token.Hash()
}

func (byType) Equal(a, b Key) bool {
	return a.Token == b.Token
}

func (byType) TypeHashed() bool {
	return true
}

func (byType) Name() string {
	return "ByType"
}

type byTypeAndValue struct{}

func (byTypeAndValue) Hash(key Key) uint64 {
	return key.Token.Hash() ^ key.Desc.Hash(key.Value)
}

func (byTypeAndValue) Equal(a, b Key) bool {
	return a.Token == b.Token && valueEqual(a, b)
}

func (byTypeAndValue) TypeHashed() bool {
	return false
}

func (byTypeAndValue) Name() string {
	return "ByTypeAndValue"
}

type byTypeThenValue struct{}

func (byTypeThenValue) Hash(key Key) uint64 {
	return key.Token.Hash()
}

func (byTypeThenValue) Equal(a, b Key) bool {
	return a.Token == b.Token && valueEqual(a, b)
}

func (byTypeThenValue) TypeHashed() bool {
	return true
}

func (byTypeThenValue) Name() string {
	return "ByTypeThenValue"
}

// valueEqual compares the values of two keys. A custom Describer may map
// different go types onto the same token, values of different go types are never equal.
func valueEqual(a, b Key) bool {
	if a.Desc != b.Desc {
		return false
	}

	return a.Address == b.Address || a.Desc.Equal(a.Value, b.Value)
}
