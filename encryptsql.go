package encryptsql

import (
	"io"

	"github.com/ai8future/encryptsql/algorithm"
	"github.com/ai8future/encryptsql/rewrite"
	"github.com/ai8future/encryptsql/rule"
	"github.com/ai8future/encryptsql/statement"
	"github.com/ai8future/encryptsql/token"
)

// Rewriter rewrites statements for one encrypt rule. It is safe for
// concurrent use.
type Rewriter struct {
	rule      *rule.Rule
	generator *rewrite.Generator
}

// New builds a Rewriter from a parsed configuration. Every encryptor is
// created, and its key material resolved, before New returns.
func New(cfg *rule.Config, opts ...Option) (*Rewriter, error) {
	c := newConfig(opts)
	algOpts := append([]algorithm.Option{algorithm.WithLogger(c.logger)}, c.algOpts...)
	registry, err := rule.NewRegistry(cfg, algOpts...)
	if err != nil {
		return nil, err
	}
	r, err := rule.New(cfg, registry, rule.WithLogger(c.logger))
	if err != nil {
		return nil, err
	}
	return &Rewriter{
		rule:      r,
		generator: rewrite.New(r, rewrite.WithSchema(c.schema), rewrite.WithLogger(c.logger)),
	}, nil
}

// Load reads a YAML configuration and builds a Rewriter.
func Load(r io.Reader, opts ...Option) (*Rewriter, error) {
	cfg, err := rule.LoadConfig(r)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// LoadFile reads a YAML configuration file and builds a Rewriter.
func LoadFile(path string, opts ...Option) (*Rewriter, error) {
	cfg, err := rule.LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// Rule returns the encrypt rule.
func (rw *Rewriter) Rule() *rule.Rule { return rw.rule }

// Rewrite returns the tokens for ctx and, when params is not nil, the
// rewritten bind parameters.
func (rw *Rewriter) Rewrite(ctx *statement.Context, params []any) (*rewrite.Result, error) {
	return rw.generator.Rewrite(ctx, params)
}

// Tokens returns the tokens for ctx, sorted by start index.
func (rw *Rewriter) Tokens(ctx *statement.Context) ([]token.Token, error) {
	return rw.generator.Generate(ctx)
}

// Parameters returns the rewritten bind parameters for ctx.
func (rw *Rewriter) Parameters(ctx *statement.Context, params []any) ([]any, error) {
	return rw.generator.Parameters(ctx, params)
}

// Decrypt decrypts values read from the cipher column of table.column.
// Values of columns that are not encrypted are returned unchanged.
func (rw *Rewriter) Decrypt(table, column string, values ...any) ([]any, error) {
	return rw.rule.DecryptValues(table, column, values)
}
