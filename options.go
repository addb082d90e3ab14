package encryptsql

import (
	"github.com/sirupsen/logrus"

	"github.com/ai8future/encryptsql/algorithm"
	"github.com/ai8future/encryptsql/metadata"
)

// Option is a functional option for configuring a Rewriter.
type Option func(*config)

type config struct {
	logger  logrus.FieldLogger
	schema  *metadata.Schema
	algOpts []algorithm.Option
}

func newConfig(opts []Option) *config {
	c := &config{logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithLogger sets the logger used by every component. Default is
// logrus.StandardLogger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSchema supplies table metadata, typically from metadata.Load.
// Without it, "*" is not expanded and unqualified columns in multi-table
// queries bind only when they are encrypted columns.
func WithSchema(s *metadata.Schema) Option {
	return func(c *config) {
		c.schema = s
	}
}

// WithKeyProvider resolves SECRETBOX keys that are not given inline.
func WithKeyProvider(p algorithm.KeyProvider) Option {
	return func(c *config) {
		c.algOpts = append(c.algOpts, algorithm.WithKeyProvider(p))
	}
}

// WithFailurePolicy decides what happens when a value cannot be encrypted.
// Default is algorithm.PassThrough.
func WithFailurePolicy(p algorithm.FailurePolicy) Option {
	return func(c *config) {
		c.algOpts = append(c.algOpts, algorithm.WithFailurePolicy(p))
	}
}

// WithAlgorithmOptions passes further options to the algorithm registry,
// e.g. algorithm.WithCompressionThreshold.
func WithAlgorithmOptions(opts ...algorithm.Option) Option {
	return func(c *config) {
		c.algOpts = append(c.algOpts, opts...)
	}
}
