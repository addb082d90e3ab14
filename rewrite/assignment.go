package rewrite

import (
	"github.com/ai8future/encryptsql/projection"
	"github.com/ai8future/encryptsql/statement"
	"github.com/ai8future/encryptsql/token"
)

// assignments rewrites "col = value" pairs of INSERT ... SET and UPDATE.
// Predicates of an UPDATE, including subqueries in its WHERE clause, are
// handled by the query generators.
func (p *pass) assignments(s statement.Statement) error {
	switch x := s.(type) {
	case *statement.Insert:
		if x.Table == nil {
			return nil
		}
		return p.setAssignments(p.engine.Tables(x.Table, nil), x.Set)
	case *statement.Update:
		return p.setAssignments(p.engine.Tables(x.Table, nil), x.Set)
	case *statement.UpdateBatch:
		for _, u := range x.Statements {
			if err := p.assignments(u); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *pass) setAssignments(tables *projection.Tables, set *statement.SetAssignments) error {
	if set == nil {
		return nil
	}
	for _, a := range set.Assignments {
		if err := p.assignment(tables, a); err != nil {
			return err
		}
	}
	return nil
}

func (p *pass) assignment(tables *projection.Tables, a *statement.Assignment) error {
	b, ok := tables.Resolve(a.Column)
	if !ok {
		return nil
	}
	c, ok := p.g.rule.FindColumn(b.Table, b.Column)
	if !ok {
		return nil
	}
	writes := writeColumns(c)
	owner := ""
	if a.Column.Owner != nil {
		owner = a.Column.Owner.String() + "."
	}

	switch v := a.Value.(type) {
	case *statement.ParameterMarker:
		names := make([]string, len(writes))
		kinds := make([]valueKind, len(writes))
		for i, w := range writes {
			names[i] = owner + a.Column.Name.Quote.Wrap(w.name)
			kinds[i] = w.kind
		}
		p.tokens = append(p.tokens, &token.ParameterAssignment{Start: a.Column.Start, Stop: v.Stop, Columns: names})
		p.params[v.Index] = paramPlan{table: b.Table, column: b.Column, kinds: kinds}
	case *statement.Literal:
		pairs := make([]token.Assignment, len(writes))
		for i, w := range writes {
			vals, err := p.values(b.Table, b.Column, w.kind, []any{v.Value})
			if err != nil {
				return err
			}
			pairs[i] = token.Assignment{Column: owner + a.Column.Name.Quote.Wrap(w.name), Value: vals[0]}
		}
		p.tokens = append(p.tokens, &token.LiteralAssignment{
			Start:        a.Column.Start,
			Stop:         v.Stop,
			Assignments:  pairs,
			DatabaseType: p.ctx.DatabaseType,
		})
	default:
		return unsupported(a.Value, "value assigned to encrypted column %s must be a literal or parameter", b.Column)
	}
	return nil
}
