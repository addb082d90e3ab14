package statement

import "strings"

// Segment is anything that occupies a span of the original SQL text.
type Segment interface {
	StartIndex() int
	StopIndex() int
}

// Span is an inclusive [Start, Stop] byte range of the original SQL text.
type Span struct {
	Start int
	Stop  int
}

// StartIndex implements Segment.
func (s Span) StartIndex() int { return s.Start }

// StopIndex implements Segment.
func (s Span) StopIndex() int { return s.Stop }

// QuoteCharacter is the delimiter an identifier was written with.
type QuoteCharacter int

const (
	QuoteNone QuoteCharacter = iota
	QuoteBacktick
	QuoteDouble
	QuoteBracket
)

// Wrap delimits s with the quote character, doubling embedded delimiters.
func (q QuoteCharacter) Wrap(s string) string {
	switch q {
	case QuoteBacktick:
		return "`" + strings.ReplaceAll(s, "`", "``") + "`"
	case QuoteDouble:
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	case QuoteBracket:
		return "[" + strings.ReplaceAll(s, "]", "]]") + "]"
	default:
		return s
	}
}

// Identifier is a table, column, owner or alias name. Value is unquoted.
type Identifier struct {
	Span
	Value string
	Quote QuoteCharacter
}

// String returns the identifier as written.
func (i *Identifier) String() string {
	if i == nil {
		return ""
	}
	return i.Quote.Wrap(i.Value)
}

// Expr is an expression node.
type Expr interface {
	Segment
	expr()
}

// Column is a possibly owner-qualified column reference. Span covers the
// owner prefix; Name.Span covers the column name only.
type Column struct {
	Span
	Owner *Identifier
	Name  Identifier
}

// OwnerName returns the owner value or "".
func (c *Column) OwnerName() string {
	if c.Owner == nil {
		return ""
	}
	return c.Owner.Value
}

// Literal is a constant. A nil Value is SQL NULL.
type Literal struct {
	Span
	Value any
}

// ParameterMarker is a bind placeholder. Index is its zero-based position
// in the statement's parameter list.
type ParameterMarker struct {
	Span
	Index int
}

// BinaryOperation is a comparison or logical operation. Operator is
// upper-cased, e.g. "=", "<>", "AND", "OR", "LIKE".
type BinaryOperation struct {
	Span
	Left     Expr
	Operator string
	Right    Expr
}

// In is "left [NOT] IN right" where right is a *List or a *Subquery.
type In struct {
	Span
	Left   Expr
	Right  Expr
	Negate bool
}

// Between is "left [NOT] BETWEEN low AND high".
type Between struct {
	Span
	Left   Expr
	Low    Expr
	High   Expr
	Negate bool
}

// List is a parenthesized, comma separated expression list. It is used
// both for IN value lists and for row constructors such as (a, b).
type List struct {
	Span
	Items []Expr
}

// Subquery is a parenthesized SELECT.
type Subquery struct {
	Span
	Select *Select
}

// Exists is "[NOT] EXISTS (subquery)".
type Exists struct {
	Span
	Subquery *Subquery
	Negate   bool
}

// Function is a function call. Text is the call as written.
type Function struct {
	Span
	Name string
	Args []Expr
	Text string
}

// Raw is any other expression, kept as written.
type Raw struct {
	Span
	Text string
}

func (*Column) expr()          {}
func (*Literal) expr()         {}
func (*ParameterMarker) expr() {}
func (*BinaryOperation) expr() {}
func (*In) expr()              {}
func (*Between) expr()         {}
func (*List) expr()            {}
func (*Subquery) expr()        {}
func (*Exists) expr()          {}
func (*Function) expr()        {}
func (*Raw) expr()             {}
