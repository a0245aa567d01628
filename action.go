package erased

import (
	"reflect"
	"slices"

	"github.com/oliverbestmann/erased/internal/set"
)

// Action is a register of callbacks that are all invoked together.
//
// Subscribers are identified by their code pointer: two closures created from
// the same function literal, or two method values of the same method, count as the
// same subscriber, even if they capture different values.
type Action[T any] struct {
	keys        set.Set[uintptr]
	subscribers []subscriber[T]
}

type subscriber[T any] struct {
	key uintptr
	fn  func(T)
}

// NewAction creates an Action with the given initial subscribers.
func NewAction[T any](fns ...func(T)) *Action[T] {
	var action Action[T]

	for _, fn := range fns {
		action.Add(fn)
	}

	return &action
}

// Add subscribes fn. Returns false if fn was already subscribed.
func (a *Action[T]) Add(fn func(T)) bool {
	key := funcKey(fn)

	if !a.keys.Insert(key) {
		return false
	}

	a.subscribers = append(a.subscribers, subscriber[T]{key: key, fn: fn})
	return true
}

// Remove unsubscribes fn. Returns false if fn was not subscribed.
func (a *Action[T]) Remove(fn func(T)) bool {
	key := funcKey(fn)

	if !a.keys.Remove(key) {
		return false
	}

	a.subscribers = slices.DeleteFunc(a.subscribers, func(sub subscriber[T]) bool {
		return sub.key == key
	})

	return true
}

// Set replaces all subscribers with fn.
func (a *Action[T]) Set(fn func(T)) {
	a.Clear()
	a.Add(fn)
}

func (a *Action[T]) Clear() {
	a.keys.Clear()
	a.subscribers = nil
}

func (a *Action[T]) Len() int {
	return len(a.subscribers)
}

// Invoke calls all subscribers in the order they were added. Subscribers
// added or removed during Invoke take effect with the next call to Invoke.
func (a *Action[T]) Invoke(value T) {
	for _, sub := range slices.Clone(a.subscribers) {
		sub.fn(value)
	}
}

func funcKey(fn any) uintptr {
	value := reflect.ValueOf(fn)
	if value.IsNil() {
		panic("can not subscribe a nil function")
	}

	return uintptr(value.UnsafePointer())
}
