package tnetstring

// ContentType is the MIME type of tnetstring payloads.
const ContentType = "application/tnetstring"

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/tnetstring").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// tnetCodec implements Codec for tnetstrings.
type tnetCodec struct {
	dec *Decoder
}

// New returns a tnetstring Codec. Options configure its decoder.
func New(opts ...Option) Codec {
	return &tnetCodec{dec: NewDecoder(opts...)}
}

// ContentType returns the MIME type for tnetstrings.
func (c *tnetCodec) ContentType() string {
	return ContentType
}

// Marshal encodes v as a tnetstring.
func (c *tnetCodec) Marshal(v any) ([]byte, error) {
	return Marshal(v)
}

// Unmarshal decodes a single tnetstring unit into v.
func (c *tnetCodec) Unmarshal(data []byte, v any) error {
	val, err := c.dec.DecodeOne(data)
	if err != nil {
		return err
	}
	return FromValue(val, v)
}
