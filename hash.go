package tnetstring

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Hasher performs one-way hashing of received fields.
type Hasher interface {
	// Hash returns the hash of plaintext as a string. Salted hashers embed
	// their salt and parameters in the result.
	Hash(plaintext []byte) (string, error)
}

// Argon2Params configures Argon2id hashing.
type Argon2Params struct {
	Time    uint32 // Number of iterations
	Memory  uint32 // Memory usage in KiB
	Threads uint8  // Parallelism factor
	KeyLen  uint32 // Output key length
	SaltLen uint32 // Salt length
}

// DefaultArgon2Params returns the OWASP-recommended Argon2id parameters.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:    1,
		Memory:  64 * 1024,
		Threads: 4,
		KeyLen:  32,
		SaltLen: 16,
	}
}

type argon2Hasher struct {
	params Argon2Params
}

// Argon2 returns an Argon2id hasher with default parameters.
func Argon2() Hasher {
	return Argon2WithParams(DefaultArgon2Params())
}

// Argon2WithParams returns an Argon2id hasher with custom parameters.
func Argon2WithParams(params Argon2Params) Hasher {
	return &argon2Hasher{params: params}
}

// Hash produces a PHC string: $argon2id$v=19$m=<mem>,t=<time>,p=<threads>$<salt>$<key>.
func (h *argon2Hasher) Hash(plaintext []byte) (string, error) {
	p := h.params
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey(plaintext, salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// BcryptCost represents the bcrypt cost factor.
type BcryptCost int

// Bcrypt cost bounds.
const (
	BcryptMinCost     = BcryptCost(bcrypt.MinCost)
	BcryptDefaultCost = BcryptCost(bcrypt.DefaultCost)
	BcryptMaxCost     = BcryptCost(bcrypt.MaxCost)
)

type bcryptHasher struct {
	cost int
}

// Bcrypt returns a bcrypt hasher with default cost.
func Bcrypt() Hasher {
	return BcryptWithCost(BcryptDefaultCost)
}

// BcryptWithCost returns a bcrypt hasher with a specific cost factor.
func BcryptWithCost(cost BcryptCost) Hasher {
	return &bcryptHasher{cost: int(cost)}
}

func (h *bcryptHasher) Hash(plaintext []byte) (string, error) {
	out, err := bcrypt.GenerateFromPassword(plaintext, h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(out), nil
}

// digestHasher hex-encodes an unsalted digest.
type digestHasher struct {
	newHash func() hash.Hash
}

// SHA256Hasher returns a hasher producing a 64-character hex SHA-256 digest.
func SHA256Hasher() Hasher {
	return &digestHasher{newHash: sha256.New}
}

// SHA512Hasher returns a hasher producing a 128-character hex SHA-512 digest.
func SHA512Hasher() Hasher {
	return &digestHasher{newHash: sha512.New}
}

func (h *digestHasher) Hash(plaintext []byte) (string, error) {
	d := h.newHash()
	d.Write(plaintext)
	return hex.EncodeToString(d.Sum(nil)), nil
}

func builtinHashers() map[HashAlgo]Hasher {
	return map[HashAlgo]Hasher{
		HashArgon2: Argon2(),
		HashBcrypt: Bcrypt(),
		HashSHA256: SHA256Hasher(),
		HashSHA512: SHA512Hasher(),
	}
}
