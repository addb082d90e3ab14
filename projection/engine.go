package projection

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ai8future/encryptsql/metadata"
	"github.com/ai8future/encryptsql/statement"
)

// Engine creates projections for one statement. Derived alias numbering
// is per Engine, so use a fresh Engine for each statement. Not safe for
// concurrent use.
type Engine struct {
	schema        *metadata.Schema
	known         func(table, column string) bool
	logger        logrus.FieldLogger
	avgIndex      int
	distinctIndex int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithKnownColumns adds a membership test consulted, together with the
// schema, when binding unqualified columns. Typically the encrypt rule's
// logical columns.
func WithKnownColumns(fn func(table, column string) bool) EngineOption {
	return func(e *Engine) {
		e.known = fn
	}
}

// WithEngineLogger sets the logger that reports unqualified columns bound
// to an enclosing scope by inference. The default is
// logrus.StandardLogger().
func WithEngineLogger(l logrus.FieldLogger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine returns an Engine backed by schema, which may be nil.
func NewEngine(schema *metadata.Schema, opts ...EngineOption) *Engine {
	e := &Engine{schema: schema, logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) hasColumn(table, column string) bool {
	if e.schema.HasColumn(table, column) {
		return true
	}
	return e.known != nil && e.known(table, column)
}

// Create converts a select-list item into a Projection, expanding
// shorthands against from and decomposing AVG.
func (e *Engine) Create(from statement.TableSegment, item statement.Projection) (Projection, bool) {
	switch x := item.(type) {
	case *statement.ColumnItem:
		if x.Column == nil {
			return nil, false
		}
		return &ColumnProjection{Owner: x.Column.OwnerName(), Name: x.Column.Name.Value, Alias: aliasOf(x.Alias)}, true
	case *statement.ShorthandItem:
		owner := aliasOf(x.Owner)
		return &ShorthandProjection{Owner: owner, Columns: e.expand(from, owner)}, true
	case *statement.AggregationItem:
		return e.aggregation(x), true
	case *statement.ExpressionItem:
		return &ExpressionProjection{Text: x.Text, Alias: aliasOf(x.Alias)}, true
	case *statement.SubqueryItem:
		return &SubqueryProjection{Alias: aliasOf(x.Alias)}, true
	default:
		return nil, false
	}
}

// CreateAll creates every projection of a select list, in order.
func (e *Engine) CreateAll(from statement.TableSegment, items *statement.Projections) []Projection {
	if items == nil {
		return nil
	}
	out := make([]Projection, 0, len(items.Items))
	for _, item := range items.Items {
		if p, ok := e.Create(from, item); ok {
			out = append(out, p)
		}
	}
	return out
}

func (e *Engine) aggregation(x *statement.AggregationItem) *AggregationProjection {
	p := &AggregationProjection{
		Func:     x.Func,
		Distinct: x.Distinct,
		Inner:    x.Inner,
		Alias:    aliasOf(x.Alias),
	}
	if x.Distinct && p.Alias == "" {
		p.Alias = derivedAlias(DistinctDerivedAliasPrefix, e.distinctIndex)
		e.distinctIndex++
	}
	if x.Func == statement.AggAvg {
		n := e.avgIndex
		e.avgIndex++
		p.Derived = []*AggregationProjection{
			{Func: statement.AggCount, Distinct: x.Distinct, Inner: x.Inner, Alias: derivedAlias(AvgDerivedCountPrefix, n)},
			{Func: statement.AggSum, Distinct: x.Distinct, Inner: x.Inner, Alias: derivedAlias(AvgDerivedSumPrefix, n)},
		}
	}
	return p
}

// expand lists the columns "owner.*" (or "*" when owner is empty) covers.
func (e *Engine) expand(from statement.TableSegment, owner string) []*ColumnProjection {
	switch t := from.(type) {
	case *statement.SimpleTable:
		if owner != "" && !matchesTable(t, owner) {
			return nil
		}
		var out []*ColumnProjection
		for _, c := range e.schema.Columns(t.Name.Value) {
			out = append(out, &ColumnProjection{Owner: t.AliasOrName(), Name: c})
		}
		return out
	case *statement.SubqueryTable:
		alias := t.AliasName()
		if owner != "" && !strings.EqualFold(owner, alias) {
			return nil
		}
		var out []*ColumnProjection
		for _, label := range e.outputLabels(t.Subquery.Select) {
			out = append(out, &ColumnProjection{Owner: alias, Name: label})
		}
		return out
	case *statement.JoinTable:
		return append(e.expand(t.Left, owner), e.expand(t.Right, owner)...)
	default:
		return nil
	}
}

// outputLabels lists the column labels a SELECT exposes. Set operations
// take their labels from the first branch.
func (e *Engine) outputLabels(sel *statement.Select) []string {
	if sel == nil || sel.Projections == nil {
		return nil
	}
	var labels []string
	for _, item := range sel.Projections.Items {
		switch x := item.(type) {
		case *statement.ColumnItem:
			if x.Alias != nil {
				labels = append(labels, x.Alias.Value)
			} else if x.Column != nil {
				labels = append(labels, x.Column.Name.Value)
			}
		case *statement.ShorthandItem:
			for _, c := range e.expand(sel.From, aliasOf(x.Owner)) {
				labels = append(labels, c.Label())
			}
		case *statement.AggregationItem:
			if x.Alias != nil {
				labels = append(labels, x.Alias.Value)
			} else {
				labels = append(labels, aggregationText(x.Func, x.Distinct, x.Inner))
			}
		case *statement.ExpressionItem:
			if x.Alias != nil {
				labels = append(labels, x.Alias.Value)
			} else {
				labels = append(labels, x.Text)
			}
		case *statement.SubqueryItem:
			if x.Alias != nil {
				labels = append(labels, x.Alias.Value)
			}
		}
	}
	return labels
}

func matchesTable(t *statement.SimpleTable, owner string) bool {
	if t.Alias != nil {
		return strings.EqualFold(t.Alias.Value, owner)
	}
	return strings.EqualFold(t.Name.Value, owner)
}

func aliasOf(id *statement.Identifier) string {
	if id == nil {
		return ""
	}
	return id.Value
}
