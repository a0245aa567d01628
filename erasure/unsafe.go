package erasure

import "unsafe"

// pointerTo returns the data word of an interface value. For values holding
// a pointer, this is the pointer itself.
func pointerTo(value any) unsafe.Pointer {
	type iface struct{ typ, val unsafe.Pointer }
	return (*iface)(unsafe.Pointer(&value)).val
}

// AddressOf returns the address a pointer stored in value points to.
func AddressOf(value any) uintptr {
	return uintptr(pointerTo(value))
}
