// Package rewrite generates the tokens that turn a statement written against
// logical columns into one over the cipher, assisted-query and plain
// physical columns, and rewrites its bind parameters to match.
package rewrite

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ai8future/encryptsql/metadata"
	"github.com/ai8future/encryptsql/projection"
	"github.com/ai8future/encryptsql/rule"
	"github.com/ai8future/encryptsql/statement"
	"github.com/ai8future/encryptsql/token"
)

// Generator produces rewrite tokens for statements. It is read-only after
// construction and safe for concurrent use.
type Generator struct {
	rule   *rule.Rule
	schema *metadata.Schema
	logger logrus.FieldLogger
}

// Option configures a Generator.
type Option func(*Generator)

// WithSchema supplies table metadata used to expand "*" and to bind
// unqualified columns in multi-table queries.
func WithSchema(s *metadata.Schema) Option {
	return func(g *Generator) {
		g.schema = s
	}
}

// WithLogger sets the logger. The default is logrus.StandardLogger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// New returns a Generator for r.
func New(r *rule.Rule, opts ...Option) *Generator {
	g := &Generator{rule: r, logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Result is the outcome of rewriting one statement.
type Result struct {
	// Tokens are deduplicated and sorted by start index.
	Tokens []token.Token
	// Parameters are the rewritten bind parameters, nil when none were given.
	Parameters []any
}

// Generate returns the tokens for one statement.
func (g *Generator) Generate(ctx *statement.Context) ([]token.Token, error) {
	p, err := g.run(ctx)
	if err != nil {
		return nil, err
	}
	return token.Normalize(p.tokens), nil
}

// Parameters rewrites bind parameters for one statement. Placeholders
// compared with an encrypted column receive the cipher or assisted-query
// value; placeholders assigned to an encrypted column are expanded in place
// to one value per physical column. params is not modified.
func (g *Generator) Parameters(ctx *statement.Context, params []any) ([]any, error) {
	p, err := g.run(ctx)
	if err != nil {
		return nil, err
	}
	return p.bind(params)
}

// Rewrite combines Generate and Parameters in a single analysis.
func (g *Generator) Rewrite(ctx *statement.Context, params []any) (*Result, error) {
	p, err := g.run(ctx)
	if err != nil {
		return nil, err
	}
	res := &Result{Tokens: token.Normalize(p.tokens)}
	if params != nil {
		if res.Parameters, err = p.bind(params); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// generator is one entry of the dispatch table.
type generator struct {
	name       string
	applicable func(statement.Statement) bool
	generate   func(*pass, statement.Statement) error
}

var generators = []generator{
	{name: "assignment", applicable: isWrite, generate: (*pass).assignments},
	{name: "predicate-column", applicable: isQuery, generate: (*pass).predicateColumns},
	{name: "predicate-value", applicable: isQuery, generate: (*pass).predicateValues},
	{name: "order-by", applicable: isQuery, generate: (*pass).orderByColumns},
	{name: "projection", applicable: isQuery, generate: (*pass).projectionColumns},
	{name: "alter-table", applicable: isAlter, generate: (*pass).alterTable},
}

func isWrite(s statement.Statement) bool {
	switch s.(type) {
	case *statement.Insert, *statement.Update, *statement.UpdateBatch:
		return true
	}
	return false
}

func isQuery(s statement.Statement) bool {
	switch s.(type) {
	case *statement.Select, *statement.Update, *statement.UpdateBatch, *statement.Delete:
		return true
	}
	return false
}

func isAlter(s statement.Statement) bool {
	_, ok := s.(*statement.AlterTable)
	return ok
}

func (g *Generator) run(ctx *statement.Context) (*pass, error) {
	p := &pass{
		g:      g,
		ctx:    ctx,
		engine: projection.NewEngine(g.schema, projection.WithKnownColumns(g.rule.IsEncrypted), projection.WithEngineLogger(g.logger)),
		params: make(map[int]paramPlan),
	}
	if ctx == nil || ctx.Statement == nil {
		return p, nil
	}
	applied := false
	for _, gen := range generators {
		if !gen.applicable(ctx.Statement) {
			continue
		}
		applied = true
		if err := gen.generate(p, ctx.Statement); err != nil {
			var unsupportedErr *UnsupportedRewriteError
			if errors.As(err, &unsupportedErr) {
				g.logger.WithFields(logrus.Fields{
					"generator": gen.name,
					"database":  ctx.DatabaseType.String(),
					"start":     unsupportedErr.Start,
					"stop":      unsupportedErr.Stop,
				}).Debug(unsupportedErr.Reason)
			}
			return nil, err
		}
	}
	if !applied {
		g.logger.WithField("statement", fmt.Sprintf("%T", ctx.Statement)).Debug("statement kind not rewritten")
	}
	return p, nil
}
