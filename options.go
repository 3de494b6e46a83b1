package huffman

import (
	"runtime"
	"strconv"
)

// UnknownSymbolPolicy selects what Compress does with a token that has no
// code in the Encoder.
type UnknownSymbolPolicy byte

const (
	// RejectUnknown fails the whole compression with an
	// *UnknownSymbolError.
	RejectUnknown UnknownSymbolPolicy = iota

	// SkipUnknown drops the token, logs a warning, and counts it in
	// Payload.Skipped.
	SkipUnknown
)

// String returns the name of this policy.
func (p UnknownSymbolPolicy) String() string {
	switch p {
	case RejectUnknown:
		return "reject"
	case SkipUnknown:
		return "skip"
	default:
		return "UnknownSymbolPolicy(" + strconv.Itoa(int(p)) + ")"
	}
}

type config struct {
	workers   int
	unknown   UnknownSymbolPolicy
	logger    Logger
	lineCache int
}

// Option configures Count and Compress.
type Option func(*config)

// WithWorkers sets the number of goroutines used for counting and encoding.
// Values below 1 select runtime.GOMAXPROCS(0), which is also the default.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithUnknownSymbols sets the policy for tokens without a code.  The default
// is RejectUnknown.
func WithUnknownSymbols(policy UnknownSymbolPolicy) Option {
	return func(c *config) {
		c.unknown = policy
	}
}

// WithLogger sets the Logger.  The default discards all messages.
func WithLogger(logger Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithLineCache makes Compress remember the encoding of up to n distinct
// lines, so that repeated lines are encoded once.  The default, 0, disables
// the cache.
func WithLineCache(n int) Option {
	return func(c *config) {
		c.lineCache = n
	}
}

func makeConfig(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers < 1 {
		cfg.workers = runtime.GOMAXPROCS(0)
	}
	if cfg.logger == nil {
		cfg.logger = DiscardLogger()
	}
	if cfg.lineCache < 0 {
		cfg.lineCache = 0
	}
	return cfg
}
