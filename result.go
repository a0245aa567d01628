package erased

import "fmt"

// Result holds either a value (Ok) or an error (Err).
type Result[T any] struct {
	value T
	err   error
}

func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err creates a failed Result. Panics if err is nil.
func Err[T any](err error) Result[T] {
	if err == nil {
		panic("Err requires a non nil error")
	}

	return Result[T]{err: err}
}

// ResultOf creates a Result from the common (value, err) pair.
func ResultOf[T any](value T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}

	return Ok(value)
}

func (r Result[T]) IsOk() bool {
	return r.err == nil
}

func (r Result[T]) IsErr() bool {
	return r.err != nil
}

// Value returns the value of an Ok, or the zero value for an Err.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the error of an Err, or nil for an Ok.
func (r Result[T]) Err() error {
	return r.err
}

func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}

// Unwrap returns the value, or panics with the error.
func (r Result[T]) Unwrap() T {
	if r.err != nil {
		panic(r.err)
	}

	return r.value
}

// Expect returns the value, or panics with msg and the error.
func (r Result[T]) Expect(msg string) T {
	if r.err != nil {
		panic(fmt.Errorf("%s: %w", msg, r.err))
	}

	return r.value
}

func (r Result[T]) Or(fallback T) T {
	if r.err != nil {
		return fallback
	}

	return r.value
}

func (r Result[T]) UnwrapOrElse(fallback func(err error) T) T {
	if r.err != nil {
		return fallback(r.err)
	}

	return r.value
}

// Ok converts the Result into an Option, dropping the error.
func (r Result[T]) Ok() Option[T] {
	return OptionOf(r.value, r.err == nil)
}

func (r Result[T]) String() string {
	if r.err != nil {
		return fmt.Sprintf("Err(%s)", r.err)
	}

	return fmt.Sprintf("Ok(%v)", r.value)
}
