// Package testing provides shared fixtures for tnetstring tests.
package testing

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"

	"github.com/zoobzio/tnetstring"
)

// ThrashSample is the dictionary decoded and re-encoded by thrash workloads.
const ThrashSample = "51:5:hello,39:11:12345678901#4:this,4:true!0:~4:\x00\x00\x00\x00,]}"

// Vector pairs a value with its canonical encoding.
type Vector struct {
	Name    string
	Value   tnetstring.Value
	Encoded string
}

// Vectors returns the reference vectors. Every vector encodes to Encoded and
// Encoded decodes back to Value.
func Vectors() []Vector {
	hello := tnetstring.NewDictionary()
	hello.Set("hello", tnetstring.List(
		tnetstring.Int(12345),
		tnetstring.String("this"),
		tnetstring.Bool(true),
		tnetstring.Null(),
		tnetstring.String("\x00\x00\x00\x00"),
	))

	return []Vector{
		{"empty list", tnetstring.List(), "0:]"},
		{"empty dictionary", tnetstring.Dict(nil), "0:}"},
		{"nested dictionary", tnetstring.Dict(hello), "44:5:hello,32:5:12345#4:this,4:true!0:~4:\x00\x00\x00\x00,]}"},
		{"integer", tnetstring.Int(12345), "5:12345#"},
		{"negative integer", tnetstring.Int(-42), "3:-42#"},
		{"string", tnetstring.String("this is cool"), "12:this is cool,"},
		{"empty string", tnetstring.String(""), "0:,"},
		{"null", tnetstring.Null(), "0:~"},
		{"true", tnetstring.Bool(true), "4:true!"},
		{"false", tnetstring.Bool(false), "5:false!"},
		{"binary string", tnetstring.String("\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"), "10:\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00,"},
		{"list", tnetstring.List(tnetstring.Int(12345), tnetstring.Int(67890), tnetstring.String("xxxxx")), "24:5:12345#5:67890#5:xxxxx,]"},
		{"float", tnetstring.Float(1.5), "3:1.5^"},
	}
}

// SimpleUser is a test type with no transformation tags.
type SimpleUser struct {
	ID   string `tnet:"id"`
	Name string `tnet:"name"`
}

// SanitizedUser is a test type carrying hash and redact tags.
type SanitizedUser struct {
	ID       string `tnet:"id"`
	Email    string `tnet:"email"`
	Password string `tnet:"password" receive.hash:"sha256" send.redact:"***"`
	Note     string `tnet:"note,omitempty" send.redact:"[REDACTED]"`
}

// CountingHasher is a deterministic SHA-256 hasher that counts its calls.
type CountingHasher struct {
	calls atomic.Int64
}

// Hash implements tnetstring.Hasher.
func (h *CountingHasher) Hash(plaintext []byte) (string, error) {
	h.calls.Add(1)
	sum := sha256.Sum256(plaintext)
	return hex.EncodeToString(sum[:]), nil
}

// Calls returns how many times Hash has run.
func (h *CountingHasher) Calls() int64 {
	return h.calls.Load()
}
