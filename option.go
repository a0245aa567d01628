package erased

import "fmt"

// Option either holds a value (Some) or is empty (None).
// The zero value of an Option is None.
type Option[T any] struct {
	value T
	some  bool
}

func Some[T any](value T) Option[T] {
	return Option[T]{value: value, some: true}
}

func None[T any]() Option[T] {
	return Option[T]{}
}

// OptionOf creates an Option from the common (value, ok) pair.
func OptionOf[T any](value T, ok bool) Option[T] {
	if !ok {
		return None[T]()
	}

	return Some(value)
}

func (o Option[T]) IsSome() bool {
	return o.some
}

func (o Option[T]) IsNone() bool {
	return !o.some
}

func (o Option[T]) Get() (T, bool) {
	return o.value, o.some
}

// Unwrap returns the value, or panics if the Option is None.
func (o Option[T]) Unwrap() T {
	if !o.some {
		panic(fmt.Sprintf("unwrap called on None[%T]", o.value))
	}

	return o.value
}

// Or returns the value if present, or the fallback otherwise.
func (o Option[T]) Or(fallback T) T {
	if o.some {
		return o.value
	}

	return fallback
}

func (o Option[T]) OrElse(fallback func() T) T {
	if o.some {
		return o.value
	}

	return fallback()
}

func (o Option[T]) OrDefault() T {
	var tZero T
	return o.Or(tZero)
}

func (o Option[T]) String() string {
	if !o.some {
		return "None"
	}

	return fmt.Sprintf("Some(%v)", o.value)
}

// MapOption applies fn to the value of a Some.
func MapOption[T, R any](o Option[T], fn func(T) R) Option[R] {
	if !o.some {
		return None[R]()
	}

	return Some(fn(o.value))
}
