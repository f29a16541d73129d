package tnetstring

import "fmt"

// Transcoder converts between tnetstring values and another wire format.
// Implementations live in the json, msgpack, yaml and bson subpackages.
type Transcoder interface {
	// ContentType returns the MIME type of the foreign format.
	ContentType() string

	// ToValue parses a foreign document into a Value.
	ToValue(data []byte) (Value, error)

	// FromValue renders v as a foreign document.
	FromValue(v Value) ([]byte, error)
}

// Import converts a foreign document into a tnetstring.
func Import(t Transcoder, data []byte) ([]byte, error) {
	val, err := t.ToValue(data)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", t.ContentType(), err)
	}
	return Encode(val)
}

// Export converts a tnetstring into a foreign document.
// data must hold exactly one unit.
func Export(t Transcoder, data []byte) ([]byte, error) {
	val, err := DecodeOne(data)
	if err != nil {
		return nil, err
	}
	out, err := t.FromValue(val)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", t.ContentType(), err)
	}
	return out, nil
}
