package erased

import (
	"github.com/oliverbestmann/erased/erasure"
)

// NewValueSet creates a registry that identifies values by their address.
// Distinct values of the same type are distinct entries.
func NewValueSet[B any](values ...B) *Registry[B] {
	return newWith(New[B](ByAddress), values)
}

// NewTypeSet creates a registry that holds at most one value per type.
// Inserting a second value of the same type replaces and destroys the first one.
func NewTypeSet[B any](values ...B) *Registry[B] {
	return newWith(New[B](ByType), values)
}

// NewTypeValueMap creates a registry that holds at most one value per type and value.
// Values that compare equal using == replace each other.
func NewTypeValueMap[B any](values ...B) *Registry[B] {
	return newWith(New[B](ByTypeAndValue), values)
}

// NewObjectList creates a registry that holds any number of distinct values per type.
// All values of a type are kept together, which makes iterating over them
// using FindAllType cheap.
func NewObjectList[B any](values ...B) *Registry[B] {
	return newWith(New[B](ByTypeThenValue), values)
}

// NewExternalKeyMap creates a registry that holds at most one value per token, where
// tokens are derived using describe. Use InsertWithDeleter to destroy a value using a
// custom deleter.
func NewExternalKeyMap[B any](describe erasure.Describer, options ...RegistryOption) *Registry[B] {
	options = append([]RegistryOption{WithDescriber(describe)}, options...)
	return New[B](ByType, options...)
}

func newWith[B any](r *Registry[B], values []B) *Registry[B] {
	for _, value := range values {
		r.Insert(value)
	}

	return r
}
