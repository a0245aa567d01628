// Package erased provides containers for values whose type is only known at runtime.
//
// A Registry stores pointers to values of arbitrary types behind a common base type B,
// e.g. any or an interface all values implement. Each value is wrapped into an erasure.Slot,
// which remembers the original type of the value and knows how to destroy it.
// The registry owns its values: a value is destroyed when it is erased, replaced
// by another value with the same key, or when the registry is cleared.
//
// What "the same key" means is decided by the KeyPolicy of the registry:
//
//	registry := erased.NewTypeSet[any]()
//	registry.Insert(&Config{Name: "first"})
//	registry.Insert(&Config{Name: "second"}) // replaces and destroys the first config
//
//	config := erased.FindType[Config](registry).Unwrap()
//
// Values are destroyed by calling Destroy if they implement erasure.Destroyer,
// or Close if they implement io.Closer. Other values are left to the garbage collector.
//
// None of the types in this package are safe for concurrent use.
package erased
