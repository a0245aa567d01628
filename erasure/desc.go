package erasure

import (
	"fmt"
	"hash/maphash"
	"io"
	"log/slog"
	"maps"
	"reflect"
	"sync/atomic"

	"github.com/oliverbestmann/erased/internal/assert"
	"github.com/oliverbestmann/erased/traits"
)

// Destroyer is implemented by values that need to release resources when
// they are removed from an owning container.
type Destroyer interface {
	Destroy()
}

type DescId uint32

// Desc describes a pointer type *U in an erased way. A Desc captures everything needed
// to work with a value of type *U that is only known as an interface value.
type Desc struct {
	Name string

	// Type is the pointer type *U, Elem is the type U.
	Type reflect.Type
	Elem reflect.Type

	// The default token of U
	Token Token

	// The Id of the descriptor
	Id DescId

	// Comparable indicates if values of U can be compared using ==.
	// If not, Equal and Hash fall back to the address of the value.
	Comparable bool

	// Destroyable indicates that Destroy has any effect.
	Destroyable bool

	// Equal compares the values pointed to by a and b. Both
	// values must be of type *U.
	Equal func(a, b any) bool

	// Hash calculates a hash of the value pointed to by value.
	// Values that are Equal have the same Hash. Values that are not equal to
	// themselves, e.g. because they hold a NaN, are hashed by address.
	Hash func(value any) uint64

	// Destroy releases the value. This calls Destroyer.Destroy or io.Closer.Close
	// if *U implements one of those, and does nothing otherwise. The error
	// returned by Close is passed on.
	Destroy func(value any) error
}

func (d *Desc) String() string {
	return d.Name
}

var descs atomic.Pointer[map[reflect.Type]*Desc]

func init() {
	// initialize the lookup table
	descs.Store(&map[reflect.Type]*Desc{})
}

// DescFor returns the Desc for *U.
func DescFor[U any]() *Desc {
	ptrType := reflect.TypeFor[*U]()

	if cached, ok := (*descs.Load())[ptrType]; ok {
		return cached
	}

	return ensureDesc(ptrType, makeTypedDesc[U])
}

// DescOf returns the Desc for the dynamic type of value.
// The value must be a pointer.
func DescOf(value any) *Desc {
	ptrType := reflect.TypeOf(value)

	if cached, ok := (*descs.Load())[ptrType]; ok {
		return cached
	}

	assert.IsPointerType(ptrType)

	return ensureDesc(ptrType, func(id DescId) *Desc {
		return makeReflectDesc(ptrType, id)
	})
}

func ensureDesc(ptrType reflect.Type, makeDesc func(id DescId) *Desc) *Desc {
	for {
		previous := descs.Load()
		if cached, ok := (*previous)[ptrType]; ok {
			return cached
		}

		newDesc := makeDesc(DescId(len(*previous) + 1))

		updated := maps.Clone(*previous)
		updated[ptrType] = newDesc

		if descs.CompareAndSwap(previous, &updated) {
			slog.Debug(
				"New erased type registered",
				slog.String("name", newDesc.Name),
				slog.Int("id", int(newDesc.Id)),
				slog.Bool("comparable", newDesc.Comparable),
			)

			return newDesc
		}
	}
}

func makeTypedDesc[U any](id DescId) *Desc {
	desc := newDesc(reflect.TypeFor[*U](), id)

	if desc.Comparable {
		desc.Equal = func(a, b any) bool {
			return any(*a.(*U)) == any(*b.(*U))
		}

		desc.Hash = func(value any) uint64 {
			pointee := any(*value.(*U))
			if pointee != pointee {
				// NaN inside, hashing is not stable
				return hashAddress(value)
			}

			return maphash.Comparable(seed, pointee)
		}
	}

	return desc
}

func makeReflectDesc(ptrType reflect.Type, id DescId) *Desc {
	desc := newDesc(ptrType, id)

	if desc.Comparable {
		desc.Equal = func(a, b any) bool {
			return reflect.ValueOf(a).Elem().Interface() == reflect.ValueOf(b).Elem().Interface()
		}

		desc.Hash = func(value any) uint64 {
			pointee := reflect.ValueOf(value).Elem().Interface()
			if pointee != pointee {
				return hashAddress(value)
			}

			return maphash.Comparable(seed, pointee)
		}
	}

	return desc
}

func newDesc(ptrType reflect.Type, id DescId) *Desc {
	elem := ptrType.Elem()

	desc := &Desc{
		Id:         id,
		Name:       ptrType.String(),
		Type:       ptrType,
		Elem:       elem,
		Token:      TokenOf(elem),
		Comparable: traits.IsStrictlyComparable(elem),
		Equal:      equalAddress,
		Hash:       hashAddress,
		Destroy:    func(any) error { return nil },
	}

	switch {
	case ptrType.Implements(reflect.TypeFor[Destroyer]()):
		desc.Destroyable = true
		desc.Destroy = func(value any) error {
			value.(Destroyer).Destroy()
			return nil
		}

	case ptrType.Implements(reflect.TypeFor[io.Closer]()):
		desc.Destroyable = true
		desc.Destroy = func(value any) error {
			if err := value.(io.Closer).Close(); err != nil {
				return fmt.Errorf("close %s: %w", desc.Name, err)
			}

			return nil
		}
	}

	return desc
}

func equalAddress(a, b any) bool {
	return pointerTo(a) == pointerTo(b)
}

func hashAddress(value any) uint64 {
	return maphash.Comparable(seed, pointerTo(value))
}

// mustDescOf is DescOf with a readable panic for nil values.
func mustDescOf(value any) *Desc {
	if value == nil {
		panic(fmt.Sprintf("expected non nil pointer, got %v", value))
	}

	return DescOf(value)
}
