package evalcore

// DefaultBatchSize is the row-block size used when no [Option]
// overrides it. 64 rows x 8 bytes keeps a node's working
// column comfortably inside L1.
const DefaultBatchSize = 64

// evalConfig is the resolved set of options for [Evaluate], [Jacobian]
// and [EvaluateMany].
type evalConfig struct {
	batchSize int
	threads   int
	dualChunk int
}

// DefaultDualChunk is the number of parameters swept per dual-number
// pass in [Jacobian] when no [Option] overrides it. A wider chunk does
// more derivative bookkeeping per row but fewer passes over the tree.
const DefaultDualChunk = 8

func defaultConfig() evalConfig {
	return evalConfig{batchSize: DefaultBatchSize, dualChunk: DefaultDualChunk}
}

func resolveConfig(opts []Option) evalConfig {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Option configures [Evaluate], [Jacobian] or [EvaluateMany].
type Option func(*evalConfig)

// WithBatchSize overrides the row-block size. n <= 0 is ignored (the
// default is kept).
func WithBatchSize(n int) Option {
	return func(c *evalConfig) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithThreads sets the worker count for [EvaluateMany]. 0 (the
// default) means "let the pool size itself to GOMAXPROCS".
func WithThreads(n int) Option {
	return func(c *evalConfig) {
		if n >= 0 {
			c.threads = n
		}
	}
}

// WithDualChunk overrides the number of parameters [Jacobian] sweeps
// per dual-number pass. n <= 0 is ignored (the default is kept).
func WithDualChunk(n int) Option {
	return func(c *evalConfig) {
		if n > 0 {
			c.dualChunk = n
		}
	}
}
