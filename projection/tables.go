package projection

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ai8future/encryptsql/statement"
)

// Binding is the physical owner of a column reference.
type Binding struct {
	// Table is the physical table name.
	Table string
	// Column is the column name in Table.
	Column string
	// Direct is false when the reference reaches Table.Column through an
	// aliased derived-table output. Such a reference keeps its text, but
	// values compared with it still belong to Table.Column.
	Direct bool
}

// Tables is the alias index of one query scope. Scopes nested inside
// subqueries point at their enclosing scope so correlated references
// resolve outward.
type Tables struct {
	engine  *Engine
	parent  *Tables
	entries []*tableEntry
}

type tableEntry struct {
	name    string
	table   *statement.SimpleTable
	derived *derivedTable
}

type derivedTable struct {
	scope     *Tables
	outputs   []derivedOutput
	shorthand bool
}

type derivedOutput struct {
	label   string
	source  *statement.Column
	aliased bool
}

// Tables builds the alias index for a FROM clause. parent is the enclosing
// scope, or nil for a top-level statement.
func (e *Engine) Tables(from statement.TableSegment, parent *Tables) *Tables {
	t := &Tables{engine: e, parent: parent}
	t.add(from)
	return t
}

func (t *Tables) add(from statement.TableSegment) {
	switch x := from.(type) {
	case *statement.SimpleTable:
		t.entries = append(t.entries, &tableEntry{name: x.AliasOrName(), table: x})
	case *statement.SubqueryTable:
		if x.Subquery == nil || x.Subquery.Select == nil {
			return
		}
		sel := x.Subquery.Select
		scope := t.engine.Tables(sel.From, nil)
		t.entries = append(t.entries, &tableEntry{
			name:    x.AliasName(),
			derived: &derivedTable{scope: scope, outputs: t.engine.derivedOutputs(sel), shorthand: hasShorthand(sel)},
		})
	case *statement.JoinTable:
		t.add(x.Left)
		t.add(x.Right)
	}
}

// Parent returns the enclosing scope, or nil.
func (t *Tables) Parent() *Tables { return t.parent }

// Engine returns the engine the index was built with.
func (t *Tables) Engine() *Engine { return t.engine }

// Child builds the alias index of a nested query scope.
func (t *Tables) Child(from statement.TableSegment) *Tables {
	return t.engine.Tables(from, t)
}

// Resolve binds a column reference. Owner-qualified references match a
// table alias, or the table name when unaliased, searching outward through
// enclosing scopes. Unqualified references bind to the first table known to
// have the column, innermost scope first; failing that, to the only table
// of the innermost single-table scope.
func (t *Tables) Resolve(col *statement.Column) (Binding, bool) {
	if col == nil {
		return Binding{}, false
	}
	name := col.Name.Value
	if owner := col.OwnerName(); owner != "" {
		for s := t; s != nil; s = s.parent {
			if en := s.find(owner); en != nil {
				return en.bind(name)
			}
		}
		return Binding{}, false
	}
	for s := t; s != nil; s = s.Parent() {
		for _, en := range s.entries {
			if s.has(en, name) {
				return t.inferred(s, en, name, "known column")
			}
		}
	}
	for s := t; s != nil; s = s.Parent() {
		if len(s.entries) == 1 {
			return t.inferred(s, s.entries[0], name, "single table")
		}
	}
	return Binding{}, false
}

// inferred binds an unqualified column found in scope s and logs when s
// encloses t, since the query never says the reference is correlated.
func (t *Tables) inferred(s *Tables, en *tableEntry, name, reason string) (Binding, bool) {
	b, ok := en.bind(name)
	if ok && s != t {
		t.Engine().logger.WithFields(logrus.Fields{
			"column": name,
			"table":  b.Table,
			"owner":  en.name,
			"reason": reason,
		}).Debug("unqualified column bound to enclosing scope")
	}
	return b, ok
}

func (t *Tables) find(owner string) *tableEntry {
	for _, en := range t.entries {
		if strings.EqualFold(en.name, owner) {
			return en
		}
	}
	return nil
}

func (t *Tables) has(en *tableEntry, column string) bool {
	if en.table != nil {
		return t.engine.hasColumn(en.table.Name.Value, column)
	}
	if _, ok := en.derived.output(column); ok {
		return true
	}
	return en.derived.shorthand && en.derived.scope.knows(column)
}

// knows reports whether a table of this scope, not its parents, is known to
// have the column.
func (t *Tables) knows(column string) bool {
	for _, en := range t.entries {
		if t.has(en, column) {
			return true
		}
	}
	return false
}

func (en *tableEntry) bind(column string) (Binding, bool) {
	if en.table != nil {
		return Binding{Table: en.table.Name.Value, Column: column, Direct: true}, true
	}
	out, ok := en.derived.output(column)
	if !ok && en.derived.shorthand {
		// "*" over a table the schema does not describe
		return en.derived.scope.Resolve(&statement.Column{Name: statement.Identifier{Value: column}})
	}
	if !ok || out.source == nil {
		return Binding{}, false
	}
	b, ok := en.derived.scope.Resolve(out.source)
	if !ok {
		return Binding{}, false
	}
	b.Direct = b.Direct && !out.aliased
	return b, true
}

func (d *derivedTable) output(label string) (derivedOutput, bool) {
	for _, o := range d.outputs {
		if strings.EqualFold(o.label, label) {
			return o, true
		}
	}
	return derivedOutput{}, false
}

// derivedOutputs lists what a derived table exposes and where each output
// comes from.
func (e *Engine) derivedOutputs(sel *statement.Select) []derivedOutput {
	if sel.Projections == nil {
		return nil
	}
	var out []derivedOutput
	for _, item := range sel.Projections.Items {
		switch x := item.(type) {
		case *statement.ColumnItem:
			if x.Column == nil {
				continue
			}
			o := derivedOutput{label: x.Column.Name.Value, source: x.Column}
			if x.Alias != nil {
				// the column token keeps the alias, so the output name
				// stays as written even when it equals the column name
				o.label = x.Alias.Value
				o.aliased = true
			}
			out = append(out, o)
		case *statement.ShorthandItem:
			for _, c := range e.expand(sel.From, aliasOf(x.Owner)) {
				out = append(out, derivedOutput{
					label:  c.Name,
					source: &statement.Column{Owner: &statement.Identifier{Value: c.Owner}, Name: statement.Identifier{Value: c.Name}},
				})
			}
		default:
			for _, label := range e.outputLabels(&statement.Select{From: sel.From, Projections: &statement.Projections{Items: []statement.Projection{item}}}) {
				out = append(out, derivedOutput{label: label})
			}
		}
	}
	return out
}

func hasShorthand(sel *statement.Select) bool {
	if sel.Projections == nil {
		return false
	}
	for _, item := range sel.Projections.Items {
		if _, ok := item.(*statement.ShorthandItem); ok {
			return true
		}
	}
	return false
}
