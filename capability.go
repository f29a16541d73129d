package tnetstring

// HashAlgo names a hashing algorithm usable in `receive.hash` tags.
type HashAlgo string

const (
	// HashArgon2 uses Argon2id for password hashing (salted, slow).
	HashArgon2 HashAlgo = "argon2"

	// HashBcrypt uses bcrypt for password hashing (salted, slow).
	HashBcrypt HashAlgo = "bcrypt"

	// HashSHA256 uses SHA-256 for deterministic fingerprints. Not for passwords.
	HashSHA256 HashAlgo = "sha256"

	// HashSHA512 uses SHA-512 for deterministic fingerprints. Not for passwords.
	HashSHA512 HashAlgo = "sha512"
)

var validHashAlgos = map[HashAlgo]bool{
	HashArgon2: true,
	HashBcrypt: true,
	HashSHA256: true,
	HashSHA512: true,
}

// IsValidHashAlgo returns true if the algorithm is a known hash algorithm.
func IsValidHashAlgo(algo HashAlgo) bool {
	return validHashAlgos[algo]
}

// MaskType names a masking rule usable in `send.mask` tags.
type MaskType string

const (
	MaskEmail MaskType = "email" // alice@example.com -> a***@example.com
	MaskCard  MaskType = "card"  // 4111 1111 1111 1111 -> **** **** **** 1111
	MaskPhone MaskType = "phone" // (555) 123-4567 -> (***) ***-4567
	MaskIP    MaskType = "ip"    // 192.168.1.100 -> 192.168.x.x
	MaskName  MaskType = "name"  // John Smith -> J*** S****
)

var validMaskTypes = map[MaskType]bool{
	MaskEmail: true,
	MaskCard:  true,
	MaskPhone: true,
	MaskIP:    true,
	MaskName:  true,
}

// IsValidMaskType returns true if mt is a known mask type.
func IsValidMaskType(mt MaskType) bool {
	return validMaskTypes[mt]
}
