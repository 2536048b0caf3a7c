package bus

import (
	"fmt"
	"reflect"
)

// Key identifies a handler shape in the registry.
// Response is nil for notification keys.
type Key struct {
	Message  reflect.Type
	Response reflect.Type
}

// KeyFor returns the request key for request type Q answered with R.
func KeyFor[Q Request, R any]() Key {
	return Key{Message: reflect.TypeFor[Q](), Response: reflect.TypeFor[R]()}
}

// NotificationKey returns the key for notification type N.
func NotificationKey[N Notification]() Key {
	return Key{Message: reflect.TypeFor[N]()}
}

// IsNotification reports whether the key has no response type.
func (k Key) IsNotification() bool { return k.Response == nil }

func (k Key) String() string {
	if k.IsNotification() {
		return TypeName(k.Message)
	}

	return fmt.Sprintf("%s -> %s", TypeName(k.Message), TypeName(k.Response))
}

// TypeOf returns the type identity of a message value: its dynamic type.
func TypeOf(v any) reflect.Type { return reflect.TypeOf(v) }

// TypeName renders a type identity for errors and logs.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}

// ShortName returns the bare name of the type behind v, dereferencing pointers.
// Unnamed types fall back to their full string form.
func ShortName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}

	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	name := t.Name()
	if name == "" {
		name = t.String()
	}

	return name
}
