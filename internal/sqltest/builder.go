// Package sqltest builds position-annotated statements from SQL text for
// tests, and applies tokens back to the text.
//
// A Builder walks the SQL forward: every lookup finds the next occurrence of
// its text after the previous one, so nodes must be built in source order.
// Go evaluates composite literal elements left to right, which makes nested
// literals follow source order naturally.
package sqltest

import (
	"fmt"
	"strings"

	"github.com/ai8future/encryptsql/statement"
)

// Builder locates fragments of one SQL text.
type Builder struct {
	SQL    string
	pos    int
	params int
}

// New returns a Builder positioned at the start of sql.
func New(sql string) *Builder {
	return &Builder{SQL: sql}
}

// Span finds the next occurrence of text and moves past it.
func (b *Builder) Span(text string) statement.Span {
	i := strings.Index(b.SQL[b.pos:], text)
	if i < 0 {
		panic(fmt.Sprintf("sqltest: %q not found after offset %d in %q", text, b.pos, b.SQL))
	}
	start := b.pos + i
	b.pos = start + len(text)
	return statement.Span{Start: start, Stop: start + len(text) - 1}
}

// Skip moves past the next occurrence of text.
func (b *Builder) Skip(text string) {
	b.Span(text)
}

// Ident builds an identifier. Backtick, double quote and bracket delimiters
// are recognised.
func (b *Builder) Ident(text string) *statement.Identifier {
	return identAt(text, b.Span(text))
}

func identAt(text string, span statement.Span) *statement.Identifier {
	id := &statement.Identifier{Span: span, Value: text}
	if len(text) >= 2 {
		switch {
		case text[0] == '`' && text[len(text)-1] == '`':
			id.Value, id.Quote = text[1:len(text)-1], statement.QuoteBacktick
		case text[0] == '"' && text[len(text)-1] == '"':
			id.Value, id.Quote = text[1:len(text)-1], statement.QuoteDouble
		case text[0] == '[' && text[len(text)-1] == ']':
			id.Value, id.Quote = text[1:len(text)-1], statement.QuoteBracket
		}
	}
	return id
}

// Column builds "name" or "owner.name".
func (b *Builder) Column(text string) *statement.Column {
	span := b.Span(text)
	c := &statement.Column{Span: span}
	if dot := strings.LastIndex(text, "."); dot >= 0 {
		c.Owner = identAt(text[:dot], statement.Span{Start: span.Start, Stop: span.Start + dot - 1})
		c.Name = *identAt(text[dot+1:], statement.Span{Start: span.Start + dot + 1, Stop: span.Stop})
		return c
	}
	c.Name = *identAt(text, span)
	return c
}

// Table builds "name", "name alias" or "name AS alias".
func (b *Builder) Table(text string) *statement.SimpleTable {
	span := b.Span(text)
	fields := strings.Fields(text)
	t := &statement.SimpleTable{Span: span}
	t.Name = *identAt(fields[0], statement.Span{Start: span.Start, Stop: span.Start + len(fields[0]) - 1})
	if len(fields) > 1 {
		alias := fields[len(fields)-1]
		at := span.Start + strings.LastIndex(text, alias)
		t.Alias = identAt(alias, statement.Span{Start: at, Stop: at + len(alias) - 1})
	}
	return t
}

// Literal builds a literal whose source text is text.
func (b *Builder) Literal(text string, v any) *statement.Literal {
	return &statement.Literal{Span: b.Span(text), Value: v}
}

// Param builds the next "?" placeholder, numbering from zero.
func (b *Builder) Param() *statement.ParameterMarker {
	p := &statement.ParameterMarker{Span: b.Span("?"), Index: b.params}
	b.params++
	return p
}

// Raw builds an opaque expression.
func (b *Builder) Raw(text string) *statement.Raw {
	return &statement.Raw{Span: b.Span(text), Text: text}
}

// Open moves past the next "(" and returns its offset.
func (b *Builder) Open() int {
	return b.Span("(").Start
}

// Close moves past the next ")" and returns its offset.
func (b *Builder) Close() int {
	return b.Span(")").Start
}

// List builds a parenthesized list whose "(" is at open; the closing
// parenthesis is the next one.
func (b *Builder) List(open int, items ...statement.Expr) *statement.List {
	return &statement.List{Span: statement.Span{Start: open, Stop: b.Close()}, Items: items}
}

// Subquery wraps sel in the parentheses starting at open.
func (b *Builder) Subquery(open int, sel *statement.Select) *statement.Subquery {
	return &statement.Subquery{Span: statement.Span{Start: open, Stop: b.Close()}, Select: sel}
}

// Function builds a call whose source text is text; args must already have
// been built or be nil.
func (b *Builder) Function(name, text string, args ...statement.Expr) *statement.Function {
	return &statement.Function{Span: b.Span(text), Name: name, Text: text, Args: args}
}

// Bin builds a binary operation spanning both operands.
func Bin(left statement.Expr, op string, right statement.Expr) *statement.BinaryOperation {
	return &statement.BinaryOperation{
		Span:     statement.Span{Start: left.StartIndex(), Stop: right.StopIndex()},
		Left:     left,
		Operator: op,
		Right:    right,
	}
}

// And joins predicates with AND.
func And(left, right statement.Expr) *statement.BinaryOperation { return Bin(left, "AND", right) }

// Or joins predicates with OR.
func Or(left, right statement.Expr) *statement.BinaryOperation { return Bin(left, "OR", right) }

// In builds "left IN right".
func In(left, right statement.Expr, negate bool) *statement.In {
	return &statement.In{Span: statement.Span{Start: left.StartIndex(), Stop: right.StopIndex()}, Left: left, Right: right, Negate: negate}
}

// Between builds "left BETWEEN low AND high".
func Between(left, low, high statement.Expr) *statement.Between {
	return &statement.Between{Span: statement.Span{Start: left.StartIndex(), Stop: high.StopIndex()}, Left: left, Low: low, High: high}
}

// Exists builds "EXISTS sub" starting at the keyword offset.
func Exists(keyword statement.Span, sub *statement.Subquery, negate bool) *statement.Exists {
	return &statement.Exists{Span: statement.Span{Start: keyword.Start, Stop: sub.Stop}, Subquery: sub, Negate: negate}
}

// Where builds a WHERE clause starting at the keyword.
func Where(keyword statement.Span, e statement.Expr) *statement.Where {
	return &statement.Where{Span: statement.Span{Start: keyword.Start, Stop: e.StopIndex()}, Expr: e}
}

// Items builds a select list spanning its items.
func Items(items ...statement.Projection) *statement.Projections {
	p := &statement.Projections{Items: items}
	if len(items) > 0 {
		p.Span = statement.Span{Start: items[0].StartIndex(), Stop: items[len(items)-1].StopIndex()}
	}
	return p
}

// ColumnItem builds a column projection. alias may be nil.
func ColumnItem(c *statement.Column, alias *statement.Identifier) *statement.ColumnItem {
	item := &statement.ColumnItem{Span: c.Span, Column: c, Alias: alias}
	if alias != nil {
		item.Stop = alias.Stop
	}
	return item
}

// Star builds "*" or "owner.*".
func (b *Builder) Star(text string) *statement.ShorthandItem {
	span := b.Span(text)
	item := &statement.ShorthandItem{Span: span}
	if owner, ok := strings.CutSuffix(text, ".*"); ok {
		item.Owner = identAt(owner, statement.Span{Start: span.Start, Stop: span.Start + len(owner) - 1})
	}
	return item
}

// Order builds an ORDER BY / GROUP BY item over a column.
func Order(c *statement.Column, desc bool) *statement.OrderItem {
	return &statement.OrderItem{Span: c.Span, Expr: c, Desc: desc}
}

// Assign builds "column = value".
func Assign(c *statement.Column, v statement.Expr) *statement.Assignment {
	return &statement.Assignment{Span: statement.Span{Start: c.Start, Stop: v.StopIndex()}, Column: c, Value: v}
}

// Set builds a SET clause spanning its assignments.
func Set(assignments ...*statement.Assignment) *statement.SetAssignments {
	s := &statement.SetAssignments{Assignments: assignments}
	if len(assignments) > 0 {
		s.Span = statement.Span{Start: assignments[0].Start, Stop: assignments[len(assignments)-1].Stop}
	}
	return s
}
