package rewrite

import (
	"strings"

	"github.com/ai8future/encryptsql/projection"
	"github.com/ai8future/encryptsql/statement"
)

// predicateColumns substitutes every encrypted column compared in a
// predicate with its physical read column, keeping the owner.
func (p *pass) predicateColumns(statement.Statement) error {
	for _, sc := range p.collectScopes() {
		for _, pred := range sc.predicates {
			for _, atom := range statement.Atoms(pred) {
				for _, col := range statement.Columns(atom) {
					p.substitute(sc.tables, col, col.Span, true)
				}
			}
		}
	}
	return nil
}

// predicateValues encrypts the literals and placeholders compared with
// encrypted columns.
func (p *pass) predicateValues(statement.Statement) error {
	for _, sc := range p.collectScopes() {
		for _, pred := range sc.predicates {
			for _, atom := range statement.Atoms(pred) {
				if err := p.atomValues(sc.tables, atom); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (p *pass) atomValues(tables *projection.Tables, atom statement.Expr) error {
	switch x := atom.(type) {
	case *statement.BinaryOperation:
		col, value := operands(x)
		if col == nil || isNullTest(x.Operator, value) {
			return nil
		}
		t, ok := p.readTarget(tables, col)
		if !ok || t.kind == plainValue {
			return nil
		}
		if !isEquality(x.Operator) {
			return unsupported(x, "operator %s on encrypted column %s", x.Operator, t.column)
		}
		return p.operand(t, value)
	case *statement.In:
		switch left := x.Left.(type) {
		case *statement.Column:
			t, ok := p.readTarget(tables, left)
			if !ok || t.kind == plainValue {
				return nil
			}
			list, ok := x.Right.(*statement.List)
			if !ok {
				return nil
			}
			for _, item := range list.Items {
				if err := p.operand(t, item); err != nil {
					return err
				}
			}
		case *statement.List:
			return p.tupleValues(tables, left, x.Right)
		}
	case *statement.Between:
		col, ok := x.Left.(*statement.Column)
		if !ok {
			return nil
		}
		if t, ok := p.readTarget(tables, col); ok && t.kind != plainValue {
			return unsupported(x, "BETWEEN on encrypted column %s", t.column)
		}
	}
	return nil
}

// operands returns the column and the literal or placeholder of a
// comparison, whichever side each is on.
func operands(b *statement.BinaryOperation) (*statement.Column, statement.Expr) {
	if col, ok := b.Left.(*statement.Column); ok && isValue(b.Right) {
		return col, b.Right
	}
	if col, ok := b.Right.(*statement.Column); ok && isValue(b.Left) {
		return col, b.Left
	}
	return nil, nil
}

func isValue(e statement.Expr) bool {
	switch e.(type) {
	case *statement.Literal, *statement.ParameterMarker:
		return true
	}
	return false
}

// isNullTest reports "col IS [NOT] NULL" and comparisons with a NULL
// literal, which keep their value as written.
func isNullTest(op string, value statement.Expr) bool {
	switch strings.ToUpper(strings.Join(strings.Fields(op), " ")) {
	case "IS", "IS NOT":
		return true
	}
	lit, ok := value.(*statement.Literal)
	return ok && lit.Value == nil
}

func isEquality(op string) bool {
	switch strings.ToUpper(op) {
	case "=", "<>", "!=", "<=>":
		return true
	}
	return false
}

// tupleValues handles "(a, b) IN ((1, 2), (3, 4))": each row position is
// encrypted for the column at the same position of the left tuple.
func (p *pass) tupleValues(tables *projection.Tables, left *statement.List, right statement.Expr) error {
	targets := make([]*target, len(left.Items))
	encrypted, unencrypted := 0, 0
	for i, item := range left.Items {
		if col, ok := item.(*statement.Column); ok {
			if t, ok := p.readTarget(tables, col); ok {
				targets[i] = &t
				encrypted++
				continue
			}
		}
		unencrypted++
	}
	if encrypted == 0 {
		return nil
	}
	switch r := right.(type) {
	case *statement.Subquery:
		if unencrypted > 0 {
			return unsupported(r, "tuple mixing encrypted and unencrypted columns compared with a subquery")
		}
	case *statement.List:
		for _, item := range r.Items {
			row, ok := item.(*statement.List)
			if !ok || len(row.Items) != len(left.Items) {
				return unsupported(item, "row does not match the %d-column tuple", len(left.Items))
			}
			for i, v := range row.Items {
				t := targets[i]
				if t == nil || t.kind == plainValue {
					continue
				}
				if err := p.operand(*t, v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// orderByColumns substitutes encrypted ORDER BY and GROUP BY columns. Only
// the name is replaced; an owner prefix stays as written.
func (p *pass) orderByColumns(statement.Statement) error {
	for _, sc := range p.collectScopes() {
		for _, item := range sc.ordering {
			if col, ok := item.Expr.(*statement.Column); ok {
				p.substitute(sc.tables, col, col.Name.Span, false)
			}
		}
	}
	return nil
}

// projectionColumns substitutes encrypted column projections of nested
// SELECTs so derived tables and subqueries expose comparable values. An
// alias, if any, is kept; an unaliased projection is renamed, which the
// enclosing scope's references follow.
func (p *pass) projectionColumns(statement.Statement) error {
	for _, sc := range p.collectScopes() {
		if !sc.nested || sc.sel == nil || sc.sel.Projections == nil {
			continue
		}
		for _, item := range sc.sel.Projections.Items {
			if x, ok := item.(*statement.ColumnItem); ok && x.Column != nil {
				p.substitute(sc.tables, x.Column, x.Column.Span, true)
			}
		}
	}
	return nil
}
