package algorithm

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// FailurePolicy decides what happens when a single value cannot be transformed.
type FailurePolicy int

const (
	// PassThrough logs the failure and returns the original value unchanged.
	// This keeps the statement running but can store or compare cleartext,
	// so deployments that cannot tolerate that should use Strict.
	PassThrough FailurePolicy = iota

	// Strict returns a *RuntimeError and fails the statement.
	Strict
)

func (p FailurePolicy) String() string {
	switch p {
	case PassThrough:
		return "pass-through"
	case Strict:
		return "strict"
	default:
		return "unknown"
	}
}

// Option is a functional option for configuring algorithms and the Registry.
type Option func(*config)

// config holds algorithm and registry configuration options.
type config struct {
	provider             KeyProvider
	logger               logrus.FieldLogger
	policy               FailurePolicy
	compressionThreshold int
	compressionDisabled  bool
}

func newConfig(opts []Option) *config {
	c := &config{
		logger:               logrus.StandardLogger(),
		policy:               PassThrough,
		compressionThreshold: defaultCompressionThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithKeyProvider resolves "key-id" properties through p.
// Keys are fetched once, when the algorithm is created.
func WithKeyProvider(p KeyProvider) Option {
	return func(c *config) {
		c.provider = p
	}
}

// WithLogger sets the logger used to report pass-through failures.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithFailurePolicy selects how registry algorithms react to per-value failures.
// Default is PassThrough.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithCompressionThreshold sets the minimum plaintext size in bytes before a
// SECRETBOX algorithm attempts compression. Default is 1024.
func WithCompressionThreshold(bytes int) Option {
	return func(c *config) {
		if bytes > 0 {
			c.compressionThreshold = bytes
		}
	}
}

// WithCompressionDisabled disables SECRETBOX compression entirely.
func WithCompressionDisabled() Option {
	return func(c *config) {
		c.compressionDisabled = true
	}
}

// sortedMapKeys returns map keys sorted alphabetically.
func sortedMapKeys[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
