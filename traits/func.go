package traits

import (
	"fmt"
	"reflect"
	"slices"
)

// Signature describes the shape of a function type.
type Signature struct {
	In       []reflect.Type
	Out      []reflect.Type
	Variadic bool
}

// SignatureOf returns the signature of the function fn. Method values are
// described without their receiver. Panics if fn is not a function.
func SignatureOf(fn any) Signature {
	ty := reflect.TypeOf(fn)
	if ty == nil || ty.Kind() != reflect.Func {
		panic(fmt.Sprintf("expected function, got %s", ty))
	}

	var sig Signature
	sig.Variadic = ty.IsVariadic()

	for idx := range ty.NumIn() {
		sig.In = append(sig.In, ty.In(idx))
	}

	for idx := range ty.NumOut() {
		sig.Out = append(sig.Out, ty.Out(idx))
	}

	return sig
}

// NumArgs returns the number of parameters of fn.
func NumArgs(fn any) int {
	return len(SignatureOf(fn).In)
}

// SameArguments reports whether all functions accept the same parameter types.
// At least two functions are required.
func SameArguments(fns ...any) bool {
	return sameBy(fns, func(sig Signature) []reflect.Type { return sig.In })
}

// SameReturns reports whether all functions return the same result types.
// At least two functions are required.
func SameReturns(fns ...any) bool {
	return sameBy(fns, func(sig Signature) []reflect.Type { return sig.Out })
}

// SameSignature reports whether all functions have the same parameter and result types.
func SameSignature(fns ...any) bool {
	return SameArguments(fns...) && SameReturns(fns...)
}

func sameBy(fns []any, project func(Signature) []reflect.Type) bool {
	if len(fns) < 2 {
		panic("at least two functions are required for comparison")
	}

	first := project(SignatureOf(fns[0]))
	for _, fn := range fns[1:] {
		if !slices.Equal(first, project(SignatureOf(fn))) {
			return false
		}
	}

	return true
}
