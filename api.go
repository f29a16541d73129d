// Package tnetstring implements the tagged netstring serialization format.
//
// A tnetstring unit is a length-prefixed, type-tagged byte string:
//
//	<length>:<payload><tag>
//
// where <length> is the decimal byte length of <payload> and <tag> is one
// byte naming the payload's type. Units nest: a list or dictionary payload is
// the concatenation of its elements' units.
//
// # Types
//
//	~  null        payload must be empty
//	!  bool        "true" (case-insensitive) or anything else for false
//	#  integer     canonical base-10 int64
//	^  float       decimal float64
//	,  string      raw bytes, binary safe
//	]  list        concatenated units
//	}  dictionary  alternating string keys and values
//
// Unknown tags decode to strings holding the raw payload.
//
// # Values
//
// Value is a closed tagged union built with Null, Bool, Int, Float, Bytes,
// String, List and Dict. Dictionary keeps insertion order.
//
//	d := tnetstring.NewDictionary()
//	d.Set("hello", tnetstring.List(tnetstring.Int(12345), tnetstring.String("this")))
//	data, _ := tnetstring.Encode(tnetstring.Dict(d))
//	// 27:5:hello,15:5:12345#4:this,]}
//
// # Decoding
//
// Decode parses every unit in a buffer and always returns a slice; DecodeOne
// requires exactly one unit. A Decoder built with NewDecoder can bound
// nesting depth (MaxDepth) and payload length (MaxLength). Every failure is
// a *DecodeError wrapping a sentinel such as ErrTruncatedPayload or
// ErrIntegerOverflow:
//
//	if errors.Is(err, tnetstring.ErrIntegerOverflow) { ... }
//
// # Go Values
//
// Marshal and Unmarshal convert between Go values and tnetstrings using
// reflection. Struct fields are keyed by name or by a `tnet:"name,omitempty"`
// tag. Types can take over with the Marshaler and Unmarshaler interfaces.
// New returns the same conversion behind the Codec interface.
//
// # Processor
//
// Processor[T] wraps Unmarshal and Marshal for data crossing a trust
// boundary. Fields tagged receive.hash are hashed on Receive; fields tagged
// send.mask or send.redact are rewritten on Send:
//
//	type Account struct {
//	    ID       string `tnet:"id"`
//	    Email    string `tnet:"email" send.mask:"email"`
//	    Password string `tnet:"password" receive.hash:"argon2" send.redact:"***"`
//	}
//
//	proc, _ := tnetstring.NewProcessor[Account]()
//	acct, _ := proc.Receive(ctx, data) // password hashed
//	out, _ := proc.Send(ctx, acct)     // password redacted
//
// # Transcoders
//
// The json, msgpack, yaml and bson subpackages implement Transcoder. Import
// and Export convert whole documents between those formats and tnetstrings.
//
// # Legacy API
//
// EncodeOrNil, DecodeOrNil, LastError and ClearLastError reproduce the
// historical error-suppressing interface with a process-wide error slot.
package tnetstring
