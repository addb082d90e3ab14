package rewrite

import (
	"github.com/ai8future/encryptsql/projection"
	"github.com/ai8future/encryptsql/statement"
)

// scope is one query level: its alias index, the predicates rewritten
// against it and its ORDER BY / GROUP BY items.
type scope struct {
	tables     *projection.Tables
	predicates []statement.Expr
	ordering   []*statement.OrderItem
	// sel is nil for the top level of UPDATE and DELETE.
	sel *statement.Select
	// nested is false for the outermost SELECT and its set-operation
	// branches, whose projections are left alone.
	nested bool
}

type job struct {
	sel    *statement.Select
	parent *projection.Tables
	nested bool
}

// collectScopes discovers every query level of the statement with a
// worklist: derived tables, subqueries in predicates, subqueries in select
// lists and set-operation branches.
func (p *pass) collectScopes() []*scope {
	if p.scanned {
		return p.scopes
	}
	p.scanned = true

	var queue []job
	switch s := p.ctx.Statement.(type) {
	case *statement.Select:
		queue = append(queue, job{sel: s})
	case *statement.Update:
		queue = p.dmlScope(s.Table, s.Where, s.OrderBy, queue)
	case *statement.UpdateBatch:
		for _, u := range s.Statements {
			queue = p.dmlScope(u.Table, u.Where, u.OrderBy, queue)
		}
	case *statement.Delete:
		queue = p.dmlScope(s.Table, s.Where, nil, queue)
	}

	visited := make(map[*statement.Select]bool)
	for len(queue) > 0 {
		j := queue[0]
		queue = queue[1:]
		if j.sel == nil || visited[j.sel] {
			continue
		}
		visited[j.sel] = true
		queue = p.selectScope(j, queue)
	}
	return p.scopes
}

func (p *pass) dmlScope(from statement.TableSegment, where *statement.Where, order []*statement.OrderItem, queue []job) []job {
	sc := &scope{
		tables:     p.engine.Tables(from, nil),
		predicates: joinConditions(from),
		ordering:   order,
	}
	if where != nil && where.Expr != nil {
		sc.predicates = append(sc.predicates, where.Expr)
	}
	p.scopes = append(p.scopes, sc)
	return children(sc, from, queue)
}

func (p *pass) selectScope(j job, queue []job) []job {
	sel := j.sel
	tables := p.engine.Tables(sel.From, nil)
	if j.parent != nil {
		tables = j.parent.Child(sel.From)
	}
	sc := &scope{
		tables:     tables,
		predicates: joinConditions(sel.From),
		sel:        sel,
		nested:     j.nested,
	}
	for _, w := range []*statement.Where{sel.Where, sel.Having} {
		if w != nil && w.Expr != nil {
			sc.predicates = append(sc.predicates, w.Expr)
		}
	}
	sc.ordering = append(append(sc.ordering, sel.GroupBy...), sel.OrderBy...)
	p.scopes = append(p.scopes, sc)

	queue = children(sc, sel.From, queue)
	if sel.Projections != nil {
		for _, item := range sel.Projections.Items {
			switch x := item.(type) {
			case *statement.SubqueryItem:
				if x.Subquery != nil {
					queue = append(queue, job{sel: x.Subquery.Select, parent: sc.tables, nested: true})
				}
			case *statement.ExpressionItem:
				for _, sub := range statement.Subqueries(x.Expr) {
					queue = append(queue, job{sel: sub.Select, parent: sc.tables, nested: true})
				}
			}
		}
	}
	for _, c := range sel.Combines {
		queue = append(queue, job{sel: c.Select, parent: j.parent, nested: j.nested})
	}
	return queue
}

// children queues the derived tables of from and the subqueries of the
// scope's predicates. Derived tables are not correlated with the scope.
func children(sc *scope, from statement.TableSegment, queue []job) []job {
	for _, d := range derivedTables(from) {
		queue = append(queue, job{sel: d.Subquery.Select, nested: true})
	}
	for _, pred := range sc.predicates {
		for _, sub := range statement.Subqueries(pred) {
			queue = append(queue, job{sel: sub.Select, parent: sc.tables, nested: true})
		}
	}
	return queue
}

func derivedTables(from statement.TableSegment) []*statement.SubqueryTable {
	switch x := from.(type) {
	case *statement.SubqueryTable:
		if x.Subquery == nil {
			return nil
		}
		return []*statement.SubqueryTable{x}
	case *statement.JoinTable:
		return append(derivedTables(x.Left), derivedTables(x.Right)...)
	default:
		return nil
	}
}

// joinConditions lists the ON conditions of a join tree, in source order.
func joinConditions(from statement.TableSegment) []statement.Expr {
	j, ok := from.(*statement.JoinTable)
	if !ok {
		return nil
	}
	out := append(joinConditions(j.Left), joinConditions(j.Right)...)
	if j.Condition != nil {
		out = append(out, j.Condition)
	}
	return out
}
