package rewrite

import (
	"fmt"

	"github.com/ai8future/encryptsql/projection"
	"github.com/ai8future/encryptsql/rule"
	"github.com/ai8future/encryptsql/statement"
	"github.com/ai8future/encryptsql/token"
)

// pass holds the state of rewriting one statement.
type pass struct {
	g       *Generator
	ctx     *statement.Context
	engine  *projection.Engine
	scopes  []*scope
	scanned bool
	tokens  []token.Token
	params  map[int]paramPlan
}

// valueKind is the physical column a value is written to or compared with.
type valueKind int

const (
	cipherValue valueKind = iota
	assistedValue
	plainValue
)

// target is an encrypted logical column and the physical column a read of
// it uses.
type target struct {
	table  string
	column string
	kind   valueKind
}

// paramPlan replaces the parameter at one index with one value per kind.
type paramPlan struct {
	table  string
	column string
	kinds  []valueKind
}

type write struct {
	name string
	kind valueKind
}

// writeColumns lists the physical columns a write of c fills, in the order
// cipher, assisted-query, plain.
func writeColumns(c *rule.Column) []write {
	out := []write{{name: c.CipherColumn, kind: cipherValue}}
	if c.AssistedQueryColumn != "" {
		out = append(out, write{name: c.AssistedQueryColumn, kind: assistedValue})
	}
	if c.PlainColumn != "" {
		out = append(out, write{name: c.PlainColumn, kind: plainValue})
	}
	return out
}

// readColumn picks the physical column for reads of table.column: the plain
// column when the table disallows cipher reads and one exists, else the
// assisted-query column, else the cipher column.
func (p *pass) readColumn(table, column string) (string, valueKind, bool) {
	c, ok := p.g.rule.FindColumn(table, column)
	if !ok {
		return "", 0, false
	}
	if !p.g.rule.IsQueryWithCipherColumn(table) && c.PlainColumn != "" {
		return c.PlainColumn, plainValue, true
	}
	if c.AssistedQueryColumn != "" {
		return c.AssistedQueryColumn, assistedValue, true
	}
	return c.CipherColumn, cipherValue, true
}

// readTarget resolves col and reports the read choice when it is encrypted.
// References through aliased derived-table outputs count: their values
// still belong to the underlying column.
func (p *pass) readTarget(tables *projection.Tables, col *statement.Column) (target, bool) {
	b, ok := tables.Resolve(col)
	if !ok {
		return target{}, false
	}
	_, kind, ok := p.readColumn(b.Table, b.Column)
	if !ok {
		return target{}, false
	}
	return target{table: b.Table, column: b.Column, kind: kind}, true
}

// substitute replaces span, a reference to col, with the physical read
// column. The owner as written is kept when withOwner is set.
func (p *pass) substitute(tables *projection.Tables, col *statement.Column, span statement.Span, withOwner bool) {
	if col == nil {
		return
	}
	b, ok := tables.Resolve(col)
	if !ok || !b.Direct {
		return
	}
	name, _, ok := p.readColumn(b.Table, b.Column)
	if !ok {
		return
	}
	c := token.Column{Name: name, Quote: col.Name.Quote}
	if withOwner {
		c.Owner = col.Owner.String()
	}
	p.tokens = append(p.tokens, &token.ColumnSubstitution{Start: span.Start, Stop: span.Stop, Columns: []token.Column{c}})
}

// values transforms plain values for the physical column of the given kind.
func (p *pass) values(table, column string, kind valueKind, plain []any) ([]any, error) {
	switch kind {
	case cipherValue:
		return p.g.rule.EncryptValues(table, column, plain)
	case assistedValue:
		return p.g.rule.EncryptAssistedQueryValues(table, column, plain)
	default:
		return plain, nil
	}
}

// comparable reports whether values read through t can be matched in SQL.
// A cipher column written by a randomized algorithm never equals a freshly
// encrypted value.
func (p *pass) comparable(t target) bool {
	if t.kind != cipherValue {
		return true
	}
	c, ok := p.g.rule.FindColumn(t.table, t.column)
	return !ok || p.g.rule.Registry().IsDeterministic(c.EncryptorName)
}

// operand rewrites a literal or placeholder compared with t.
func (p *pass) operand(t target, e statement.Expr) error {
	if isValue(e) && !p.comparable(t) {
		return unsupported(e, "encrypted column %s is randomized and needs an assisted-query column to be compared", t.column)
	}
	switch v := e.(type) {
	case *statement.Literal:
		out, err := p.values(t.table, t.column, t.kind, []any{v.Value})
		if err != nil {
			return err
		}
		p.tokens = append(p.tokens, &token.Replace{Start: v.Start, Stop: v.Stop, Text: token.DialectLiteral(p.ctx.DatabaseType, out[0])})
	case *statement.ParameterMarker:
		p.params[v.Index] = paramPlan{table: t.table, column: t.column, kinds: []valueKind{t.kind}}
	default:
		return unsupported(e, "value compared with encrypted column %s must be a literal or parameter", t.column)
	}
	return nil
}

// bind applies the parameter plans to params.
func (p *pass) bind(params []any) ([]any, error) {
	for i := range p.params {
		if i < 0 || i >= len(params) {
			return nil, fmt.Errorf("%w: index %d, %d parameters", ErrParameterIndex, i, len(params))
		}
	}
	out := make([]any, 0, len(params))
	for i, v := range params {
		plan, ok := p.params[i]
		if !ok {
			out = append(out, v)
			continue
		}
		for _, kind := range plan.kinds {
			vals, err := p.values(plan.table, plan.column, kind, []any{v})
			if err != nil {
				return nil, err
			}
			out = append(out, vals[0])
		}
	}
	return out, nil
}
