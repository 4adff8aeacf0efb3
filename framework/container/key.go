package container

import (
	"reflect"
	"strings"
)

// Key identifies an abstraction inside a Registry.
//
// It wraps the abstraction's reflect.Type, so two interfaces never share a Key
// even when they have the same name in different packages.
//
//	key := container.KeyOf[Logger]()
//	key.Name()   // "Logger"
//	key.String() // "github.com/acme/app/logging.Logger"
type Key struct {
	t reflect.Type
}

// KeyOf returns the Key for I. I is usually an interface type but any type
// works, e.g. KeyOf[*config.Config]().
func KeyOf[I any]() Key {
	return Key{t: reflect.TypeOf((*I)(nil)).Elem()}
}

// IsZero reports whether k was not produced by KeyOf.
func (k Key) IsZero() bool { return k.t == nil }

// Name returns the bare type name. Unnamed types (pointers, literals) fall
// back to their short reflect form such as "*config.Config".
func (k Key) Name() string {
	if k.t == nil {
		return ""
	}
	if n := k.t.Name(); n != "" {
		return n
	}
	return k.t.String()
}

// String returns the package-qualified identifier of the type.
func (k Key) String() string {
	if k.t == nil {
		return "<nil>"
	}
	t := k.t
	var stars strings.Builder
	for t.Kind() == reflect.Ptr {
		stars.WriteByte('*')
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return k.t.String()
	}
	return stars.String() + t.PkgPath() + "." + t.Name()
}
