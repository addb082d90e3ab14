// Package projection models select-list projections and resolves column
// references to the physical tables that own them.
package projection

import (
	"strconv"

	"github.com/ai8future/encryptsql/statement"
)

// Projection is one resolved select-list item.
type Projection interface {
	// Label is the output column name: the alias if any, else the expression.
	Label() string
	// Expression is the projection as it would be written without alias.
	Expression() string
}

// ColumnProjection is a column projection: owner.name [AS alias].
type ColumnProjection struct {
	Owner string
	Name  string
	Alias string
}

func (p *ColumnProjection) Label() string {
	if p.Alias != "" {
		return p.Alias
	}
	return p.Name
}

func (p *ColumnProjection) Expression() string {
	if p.Owner != "" {
		return p.Owner + "." + p.Name
	}
	return p.Name
}

// ShorthandProjection is "*" or "owner.*" with its expanded columns.
type ShorthandProjection struct {
	Owner   string
	Columns []*ColumnProjection
}

func (p *ShorthandProjection) Label() string { return p.Expression() }

func (p *ShorthandProjection) Expression() string {
	if p.Owner != "" {
		return p.Owner + ".*"
	}
	return "*"
}

// AggregationProjection is an aggregate call. An AVG carries the derived
// COUNT and SUM projections needed to recombine partial results.
type AggregationProjection struct {
	Func     statement.AggregationFunc
	Distinct bool
	Inner    string
	Alias    string
	Derived  []*AggregationProjection
}

func (p *AggregationProjection) Label() string {
	if p.Alias != "" {
		return p.Alias
	}
	return p.Expression()
}

func (p *AggregationProjection) Expression() string {
	return aggregationText(p.Func, p.Distinct, p.Inner)
}

func aggregationText(f statement.AggregationFunc, distinct bool, inner string) string {
	if distinct {
		return f.String() + "(DISTINCT " + inner + ")"
	}
	return f.String() + "(" + inner + ")"
}

// ExpressionProjection is any other expression.
type ExpressionProjection struct {
	Text  string
	Alias string
}

func (p *ExpressionProjection) Label() string {
	if p.Alias != "" {
		return p.Alias
	}
	return p.Text
}

func (p *ExpressionProjection) Expression() string { return p.Text }

// SubqueryProjection is a scalar subquery.
type SubqueryProjection struct {
	Text  string
	Alias string
}

func (p *SubqueryProjection) Label() string {
	if p.Alias != "" {
		return p.Alias
	}
	return p.Text
}

func (p *SubqueryProjection) Expression() string { return p.Text }

// Derived alias prefixes.
const (
	AvgDerivedCountPrefix      = "AVG_DERIVED_COUNT_"
	AvgDerivedSumPrefix        = "AVG_DERIVED_SUM_"
	DistinctDerivedAliasPrefix = "AGGREGATION_DISTINCT_DERIVED_"
)

func derivedAlias(prefix string, n int) string {
	return prefix + strconv.Itoa(n)
}
