package tnetstring

// Override interfaces allow types to bypass reflection-based conversion.
// When a type implements one of these interfaces, Marshal and Unmarshal call
// the interface method instead of walking the type's fields.

// Marshaler is implemented by types that build their own Value.
type Marshaler interface {
	// MarshalTNetstring returns the value to encode in place of the receiver.
	MarshalTNetstring() (Value, error)
}

// Unmarshaler is implemented by types that assign themselves from a Value.
type Unmarshaler interface {
	// UnmarshalTNetstring populates the receiver from a decoded value.
	// The value's contents must be copied if they are retained.
	UnmarshalTNetstring(Value) error
}
