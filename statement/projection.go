package statement

// Projections is the select list.
type Projections struct {
	Span
	Distinct bool
	Items    []Projection
}

// Projection is one select-list item.
type Projection interface {
	Segment
	projection()
}

// ColumnItem projects a column, optionally aliased.
type ColumnItem struct {
	Span
	Column *Column
	Alias  *Identifier
}

// ShorthandItem is "*" or "owner.*".
type ShorthandItem struct {
	Span
	Owner *Identifier
}

// AggregationFunc identifies an aggregate function.
type AggregationFunc int

const (
	AggCount AggregationFunc = iota
	AggSum
	AggAvg
	AggMin
	AggMax
)

func (f AggregationFunc) String() string {
	switch f {
	case AggCount:
		return "COUNT"
	case AggSum:
		return "SUM"
	case AggAvg:
		return "AVG"
	case AggMin:
		return "MIN"
	case AggMax:
		return "MAX"
	default:
		return "UNKNOWN"
	}
}

// AggregationItem is an aggregate call. Inner is the argument text between
// the parentheses with any DISTINCT keyword removed, e.g. "price" for
// "AVG(DISTINCT price)".
type AggregationItem struct {
	Span
	Func     AggregationFunc
	Distinct bool
	Inner    string
	Args     []Expr
	Alias    *Identifier
}

// ExpressionItem is any other expression. Text is the expression as written.
type ExpressionItem struct {
	Span
	Expr  Expr
	Text  string
	Alias *Identifier
}

// SubqueryItem is a scalar subquery in the select list.
type SubqueryItem struct {
	Span
	Subquery *Subquery
	Alias    *Identifier
}

func (*ColumnItem) projection()      {}
func (*ShorthandItem) projection()   {}
func (*AggregationItem) projection() {}
func (*ExpressionItem) projection()  {}
func (*SubqueryItem) projection()    {}
