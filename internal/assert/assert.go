package assert

import (
	"fmt"
	"reflect"
)

func IsPointerType(t reflect.Type) {
	if t == nil || t.Kind() != reflect.Pointer {
		panic(fmt.Sprintf("expected pointer type, got %s", t))
	}
}

// IsNonNilPointer panics if value is not a pointer or is a nil pointer.
func IsNonNilPointer(value any) {
	IsPointerType(reflect.TypeOf(value))

	if reflect.ValueOf(value).IsNil() {
		panic(fmt.Sprintf("expected non nil pointer of type %T", value))
	}
}
