package erasure

import (
	"hash/maphash"
	"reflect"
)

var seed = maphash.MakeSeed()

// Token identifies a type. Tokens are comparable and can be used as map keys.
// The zero Token identifies no type at all.
type Token struct {
	typ  reflect.Type
	name string
}

// TokenFor returns the Token of the static type T.
func TokenFor[T any]() Token {
	return TokenOf(reflect.TypeFor[T]())
}

// TokenOf returns the Token of the given reflect type.
func TokenOf(ty reflect.Type) Token {
	if ty == nil {
		return Token{}
	}

	return Token{typ: ty, name: ty.String()}
}

// NamedToken creates a Token that is only identified by its name. Use this in a Describer
// to map multiple go types onto the same Token.
func NamedToken(name string) Token {
	return Token{name: name}
}

// Type returns the reflect type of the Token. This is nil
// for tokens created using NamedToken.
func (t Token) Type() reflect.Type {
	return t.typ
}

func (t Token) Name() string {
	return t.name
}

func (t Token) IsZero() bool {
	return t == Token{}
}

func (t Token) Hash() uint64 {
	return maphash.Comparable(seed, t)
}

func (t Token) String() string {
	if t.IsZero() {
		return "<none>"
	}

	return t.name
}

// Describer derives the Token for a type. It is called with the
// non-pointer type of a value, e.g. Foo for a *Foo.
type Describer func(ty reflect.Type) Token

// DefaultDescriber derives tokens from the go type itself.
func DefaultDescriber(ty reflect.Type) Token {
	return TokenOf(ty)
}
