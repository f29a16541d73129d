package tnetstring

const (
	// Default maximum nesting depth of lists and dictionaries.
	defaultMaxDepth = 512
)

// config holds decoder configuration.
type config struct {
	maxDepth  int
	maxLength int
}

// Option configures a Decoder.
type Option func(*config)

// MaxDepth sets the maximum nesting depth of lists and dictionaries.
// Deeper input fails with ErrTooDeep instead of exhausting the stack.
// A value of zero or less disables the check.
//
// Default: 512
func MaxDepth(n int) Option {
	return func(c *config) {
		c.maxDepth = n
	}
}

// MaxLength sets the maximum length prefix the decoder accepts.
// Units declaring a longer payload fail with ErrTooLarge.
// A value of zero or less disables the check.
//
// Default: unlimited
func MaxLength(n int) Option {
	return func(c *config) {
		c.maxLength = n
	}
}
