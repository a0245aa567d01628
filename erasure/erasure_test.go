package erasure

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type Foo struct {
	Value     int
	destroyed *int
}

func (f *Foo) Destroy() {
	*f.destroyed += 1
}

type Bar struct {
	Values []int
}

type closer struct {
	closed int
	err    error
}

func (c *closer) Close() error {
	c.closed += 1
	return c.err
}

type Measurement struct {
	Value float64
}

type Shape interface {
	Area() float64
}

type Square struct {
	Size float64
}

func (s *Square) Area() float64 {
	return s.Size * s.Size
}

func TestTokens(t *testing.T) {
	require.Equal(t, TokenFor[Foo](), TokenOf(reflect.TypeFor[Foo]()))
	require.NotEqual(t, TokenFor[Foo](), TokenFor[Bar]())
	require.NotEqual(t, TokenFor[Foo](), NamedToken("erasure.Foo"))

	require.Equal(t, "erasure.Foo", TokenFor[Foo]().String())
	require.Equal(t, TokenFor[Foo]().Hash(), TokenFor[Foo]().Hash())

	require.True(t, Token{}.IsZero())
	require.True(t, TokenOf(nil).IsZero())
	require.Equal(t, "<none>", Token{}.String())
	require.Nil(t, NamedToken("foo").Type())
}

func TestDesc(t *testing.T) {
	t.Run("typed and reflected descriptors are the same", func(t *testing.T) {
		require.Same(t, DescFor[Foo](), DescOf(&Foo{}))
		require.Same(t, DescOf(&Bar{}), DescFor[Bar]())
	})

	t.Run("comparable value equality", func(t *testing.T) {
		desc := DescFor[Square]()
		require.True(t, desc.Comparable)

		a, b, c := &Square{Size: 2}, &Square{Size: 2}, &Square{Size: 3}
		require.True(t, desc.Equal(a, b))
		require.False(t, desc.Equal(a, c))
		require.Equal(t, desc.Hash(a), desc.Hash(b))
	})

	t.Run("non comparable falls back to address", func(t *testing.T) {
		desc := DescOf(&Bar{})
		require.False(t, desc.Comparable)

		a, b := &Bar{}, &Bar{}
		require.True(t, desc.Equal(a, a))
		require.False(t, desc.Equal(a, b))
		require.Equal(t, desc.Hash(a), desc.Hash(a))
	})

	t.Run("hash is stable for values not equal to themselves", func(t *testing.T) {
		nan := &Measurement{Value: math.NaN()}

		for _, desc := range []*Desc{DescFor[Measurement](), makeReflectDesc(reflect.TypeFor[*Measurement](), 0)} {
			require.True(t, desc.Comparable)
			require.Equal(t, desc.Hash(nan), desc.Hash(nan))
			require.False(t, desc.Equal(nan, &Measurement{Value: math.NaN()}))

			regular := &Measurement{Value: 1.5}
			require.Equal(t, desc.Hash(regular), desc.Hash(&Measurement{Value: 1.5}))
		}
	})

	t.Run("destroy uses Destroyer", func(t *testing.T) {
		var count int
		desc := DescOf(&Foo{})
		require.True(t, desc.Destroyable)

		desc.Destroy(&Foo{destroyed: &count})
		require.Equal(t, 1, count)
	})

	t.Run("destroy uses io.Closer", func(t *testing.T) {
		value := &closer{err: errors.New("already closed")}

		desc := DescOf(value)
		require.True(t, desc.Destroyable)

		err := desc.Destroy(value)
		require.ErrorContains(t, err, "already closed")
		require.Equal(t, 1, value.closed)
	})

	t.Run("destroy without capability", func(t *testing.T) {
		desc := DescFor[Bar]()
		require.False(t, desc.Destroyable)
		require.NotPanics(t, func() { desc.Destroy(&Bar{}) })
	})

	t.Run("non pointer panics", func(t *testing.T) {
		require.Panics(t, func() { DescOf(Square{}) })
	})
}

func TestSlot(t *testing.T) {
	t.Run("destroy exactly once", func(t *testing.T) {
		var count int
		slot := NewSlot[any](&Foo{destroyed: &count}, true)

		slot.Destroy()
		slot.Destroy()

		require.Equal(t, 1, count)
		require.True(t, slot.IsEmpty())
		require.Zero(t, slot.Address())
	})

	t.Run("non owning slot never destroys", func(t *testing.T) {
		var count int
		slot := NewSlot[any](&Foo{destroyed: &count}, false)

		slot.Destroy()
		require.Equal(t, 0, count)
		require.True(t, slot.IsEmpty())
	})

	t.Run("move transfers ownership", func(t *testing.T) {
		var count int
		foo := &Foo{destroyed: &count}

		source := NewSlot[any](foo, true)
		moved := source.Move()

		require.True(t, source.IsEmpty())
		require.Equal(t, AddressOf(foo), moved.Address())
		require.Equal(t, TokenFor[Foo](), moved.Token())

		source.Destroy()
		require.Equal(t, 0, count)

		moved.Destroy()
		require.Equal(t, 1, count)
	})

	t.Run("checked value access", func(t *testing.T) {
		square := &Square{Size: 4}
		slot := NewSlot[Shape](square, true)

		value, ok := SlotValue[Square](slot)
		require.True(t, ok)
		require.Same(t, square, value)

		_, ok = SlotValue[Foo](slot)
		require.False(t, ok)

		require.Equal(t, 16.0, slot.Value().Area())
		require.Same(t, DescFor[Square](), slot.Desc())
		require.Equal(t, "*erasure.Square", slot.Name())
	})

	t.Run("custom deleter", func(t *testing.T) {
		var deleted []Shape
		slot := NewSlot[Shape](&Square{}, true)
		slot.SetDeleter(func(shape Shape) { deleted = append(deleted, shape) })

		slot.Destroy()
		require.Len(t, deleted, 1)
	})

	t.Run("release does not destroy", func(t *testing.T) {
		var count int
		foo := &Foo{destroyed: &count}

		slot := NewSlot[any](foo, true)
		require.Same(t, foo, slot.Release())

		slot.Destroy()
		require.Equal(t, 0, count)
	})

	t.Run("custom token", func(t *testing.T) {
		slot := NewSlotWithToken[any](&Square{}, NamedToken("shape"), true)
		require.Equal(t, NamedToken("shape"), slot.Token())
	})

	t.Run("invalid values panic", func(t *testing.T) {
		var nilSquare *Square
		require.Panics(t, func() { NewSlot[Shape](nilSquare, true) })
		require.Panics(t, func() { NewSlot[any](nil, true) })
		require.Panics(t, func() { NewSlot[any](Square{}, true) })
		require.Panics(t, func() { NewSlotWithToken[any](&Square{}, Token{}, true) })
	})
}

func TestShared(t *testing.T) {
	t.Run("destroyed with last strong reference", func(t *testing.T) {
		var count int
		first := NewShared[any](&Foo{destroyed: &count})

		second := first.Clone()
		require.Equal(t, 2, first.Count())

		require.False(t, first.Release())
		require.Equal(t, 0, count)

		require.True(t, second.Release())
		require.Equal(t, 1, count)
	})

	t.Run("double release panics", func(t *testing.T) {
		shared := NewShared[any](&Square{})
		shared.Release()

		require.True(t, shared.Released())
		require.Panics(t, func() { shared.Release() })
		require.Panics(t, func() { shared.Clone() })
	})

	t.Run("weak handles", func(t *testing.T) {
		var count int
		shared := NewShared[any](&Foo{destroyed: &count})

		weak := shared.Weak()
		require.True(t, weak.Alive())

		upgraded, ok := weak.Upgrade()
		require.True(t, ok)
		require.Equal(t, 2, shared.Count())

		shared.Release()
		upgraded.Release()
		require.Equal(t, 1, count)

		require.False(t, weak.Alive())

		_, ok = weak.Upgrade()
		require.False(t, ok)
	})

	t.Run("release weak handles", func(t *testing.T) {
		shared := NewShared[any](&Square{})

		first, second := shared.Weak(), shared.Weak()
		require.Equal(t, 2, shared.WeakCount())

		first.Release()
		require.Equal(t, 1, shared.WeakCount())
		require.Panics(t, func() { first.Release() })
		require.Panics(t, func() { first.Upgrade() })

		upgraded, ok := second.Upgrade()
		require.True(t, ok)
		upgraded.Release()

		second.Release()
		require.Equal(t, 0, shared.WeakCount())
	})

	t.Run("share consumes the slot", func(t *testing.T) {
		slot := NewSlot[any](&Square{}, true)
		shared := Share(slot)

		require.True(t, slot.IsEmpty())
		require.False(t, shared.Slot().IsEmpty())
		require.Panics(t, func() { Share(slot) })
	})
}
