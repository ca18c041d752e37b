package pool

type config struct {
	blockBytes int
	sizeHint   int
}

// Option configures a Pool.
type Option func(*config)

// WithBlockBytes sets the byte budget used to size each block.
func WithBlockBytes(n int) Option {
	return func(c *config) {
		c.blockBytes = n
	}
}

// WithSizeHint requests n slots per block. The hint is clamped to the
// block limits and has no effect on correctness.
func WithSizeHint(n int) Option {
	return func(c *config) {
		c.sizeHint = n
	}
}
