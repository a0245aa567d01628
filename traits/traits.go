// Package traits answers questions about types at runtime: are two types the same,
// is one convertible to another, is a type a pointer, a string or a number,
// and do two functions share a signature.
package traits

import (
	"iter"
	"reflect"
)

// Same reports whether A and B are the identical type.
func Same[A, B any]() bool {
	return reflect.TypeFor[A]() == reflect.TypeFor[B]()
}

// SameAll reports whether all given types are identical to the first one.
// It returns false if no type is given.
func SameAll(types ...reflect.Type) bool {
	if len(types) == 0 {
		return false
	}

	for _, ty := range types[1:] {
		if ty != types[0] {
			return false
		}
	}

	return true
}

// AnyOf reports whether ty is one of the candidates.
func AnyOf(ty reflect.Type, candidates ...reflect.Type) bool {
	for _, candidate := range candidates {
		if candidate == ty {
			return true
		}
	}

	return false
}

// ConvertibleTo reports whether a value of type From can be converted to To
// using a Go conversion expression.
func ConvertibleTo[From, To any]() bool {
	return reflect.TypeFor[From]().ConvertibleTo(reflect.TypeFor[To]())
}

// AssignableTo reports whether a value of type From can be assigned to a variable
// of type To without a conversion.
func AssignableTo[From, To any]() bool {
	return reflect.TypeFor[From]().AssignableTo(reflect.TypeFor[To]())
}

// AllConvertibleTo reports whether each of the types converts to target.
func AllConvertibleTo(target reflect.Type, types ...reflect.Type) bool {
	if len(types) == 0 {
		return false
	}

	for _, ty := range types {
		if !ty.ConvertibleTo(target) {
			return false
		}
	}

	return true
}

// AnyConvertibleTo reports whether at least one of the types converts to target.
func AnyConvertibleTo(target reflect.Type, types ...reflect.Type) bool {
	for _, ty := range types {
		if ty.ConvertibleTo(target) {
			return true
		}
	}

	return false
}

func IsPointer[T any]() bool {
	return IsPointerType(reflect.TypeFor[T]())
}

func IsPointerType(ty reflect.Type) bool {
	return ty != nil && ty.Kind() == reflect.Pointer
}

// IsString reports whether T is a string like type: a string, a byte or rune slice
// or a pointer to a string.
func IsString[T any]() bool {
	return IsStringType(reflect.TypeFor[T]())
}

func IsStringType(ty reflect.Type) bool {
	switch ty.Kind() {
	case reflect.String:
		return true

	case reflect.Slice:
		elem := ty.Elem().Kind()
		return elem == reflect.Uint8 || elem == reflect.Int32

	case reflect.Pointer:
		return ty.Elem().Kind() == reflect.String

	default:
		return false
	}
}

// IsNonStringPointer reports whether T is a pointer but not a pointer to a string.
func IsNonStringPointer[T any]() bool {
	ty := reflect.TypeFor[T]()
	return IsPointerType(ty) && !IsStringType(ty)
}

// IsNumber reports whether T is an integer, a float or a complex number.
func IsNumber[T any]() bool {
	return IsNumberType(reflect.TypeFor[T]())
}

func IsNumberType(ty reflect.Type) bool {
	switch ty.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true

	default:
		return false
	}
}

// IsComparable reports whether two values of type T can be compared using == without
// risking a runtime panic.
func IsComparable[T any]() bool {
	return IsStrictlyComparable(reflect.TypeFor[T]())
}

// IsStrictlyComparable is like reflect.Type.Comparable, but also rejects types
// that contain interface values. Comparing two interface values panics if
// their dynamic type is not comparable.
func IsStrictlyComparable(ty reflect.Type) bool {
	if !ty.Comparable() {
		return false
	}

	switch ty.Kind() {
	case reflect.Interface:
		return false

	case reflect.Array:
		return IsStrictlyComparable(ty.Elem())

	case reflect.Struct:
		for field := range Fields(ty) {
			if !IsStrictlyComparable(field.Type) {
				return false
			}
		}

		return true

	default:
		return true
	}
}

// Implements reports whether T implements the interface I.
func Implements[T, I any]() bool {
	return reflect.TypeFor[T]().Implements(reflect.TypeFor[I]())
}

// Nude strips pointers, slices and arrays from ty, e.g. **[]int becomes int.
func Nude(ty reflect.Type) reflect.Type {
	for {
		switch ty.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array:
			ty = ty.Elem()

		default:
			return ty
		}
	}
}

func Fields(ty reflect.Type) iter.Seq[reflect.StructField] {
	return func(yield func(reflect.StructField) bool) {
		for idx := range ty.NumField() {
			if !yield(ty.Field(idx)) {
				return
			}
		}
	}
}

// ImplementsDirectly reports whether ty implements If, but not by embedding
// a field that already implements it.
func ImplementsDirectly[If any](ty reflect.Type) bool {
	iface := reflect.TypeFor[If]()

	if !ty.Implements(iface) {
		return false
	}

	for ty.Kind() == reflect.Pointer {
		ty = ty.Elem()
	}

	if ty.Kind() != reflect.Struct {
		return true
	}

	for field := range Fields(ty) {
		if !field.Anonymous {
			continue
		}

		if field.Type.Implements(iface) {
			return false
		}

		if reflect.PointerTo(field.Type).Implements(iface) {
			return false
		}
	}

	return true
}
