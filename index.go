package erased

import (
	"github.com/oliverbestmann/erased/erasure"
)

// Index is a registry of shared values. The index holds its own strong
// reference to every value it contains, a value is destroyed once it was
// removed from the index and all other handles were released.
//
// Lookups are performed directly on the embedded Registry. Values can only be
// added using Index.Insert, inserting into the embedded Registry panics.
type Index[B any] struct {
	*Registry[B]
}

// NewValueIndex creates an Index identifying values by address.
func NewValueIndex[B any](handles ...*erasure.Shared[B]) *Index[B] {
	return newIndex(New[B](ByAddress), handles)
}

// NewTypeIndex creates an Index holding at most one value per type.
func NewTypeIndex[B any](handles ...*erasure.Shared[B]) *Index[B] {
	return newIndex(New[B](ByType), handles)
}

func newIndex[B any](r *Registry[B], handles []*erasure.Shared[B]) *Index[B] {
	r.indexed = true
	index := &Index[B]{Registry: r}

	for _, handle := range handles {
		index.Insert(handle)
	}

	return index
}

// Insert adds the value of handle to the index. The index clones the handle, the
// caller keeps its own reference.
func (x *Index[B]) Insert(handle *erasure.Shared[B]) {
	value := handle.Value()

	// a value already in the index must not take another reference
	if existing, ok := x.Find(value).Get(); ok && erasure.AddressOf(any(existing)) == erasure.AddressOf(any(value)) {
		return
	}

	clone := handle.Clone()

	x.Registry.insert(value, func(B) {
		clone.Release()
	})
}
