package rewrite

import (
	"sort"
	"strings"

	"github.com/ai8future/encryptsql/statement"
	"github.com/ai8future/encryptsql/token"
)

// alterTable rewrites column definitions of ALTER TABLE on an encrypted
// table: added columns expand to their physical columns, modified and
// renamed columns map to the cipher column and dropped columns drop every
// physical column.
func (p *pass) alterTable(s statement.Statement) error {
	alter := s.(*statement.AlterTable)
	if alter.Table == nil {
		return nil
	}
	table := alter.Table.Name.Value
	if _, ok := p.g.rule.FindEncryptTable(table); !ok {
		return nil
	}
	for _, add := range alter.Adds {
		p.addColumn(table, add)
	}
	for _, m := range alter.Modifies {
		if m.Previous != nil {
			p.cipherName(table, m.Previous)
		}
		if m.Definition != nil {
			p.cipherName(table, m.Definition.Column)
		}
		p.position(table, m.Position)
	}
	switch p.ctx.DatabaseType {
	case statement.SQLServer, statement.Oracle:
		for _, run := range dropRuns(alter) {
			p.mergeDrops(table, run)
		}
	default:
		for _, d := range alter.Drops {
			p.expandDrop(table, d)
		}
	}
	return nil
}

func (p *pass) addColumn(table string, add *statement.AddColumn) {
	sep := ", ADD COLUMN "
	if add.Parenthesized || p.ctx.DatabaseType == statement.SQLServer {
		sep = ", "
	}
	for _, def := range add.Definitions {
		c, ok := p.g.rule.FindColumn(table, def.Column.Name.Value)
		if !ok {
			continue
		}
		writes := writeColumns(c)
		parts := make([]string, len(writes))
		for i, w := range writes {
			parts[i] = definition(def, w.name)
		}
		p.tokens = append(p.tokens, &token.Replace{Start: def.Start, Stop: def.Stop, Text: strings.Join(parts, sep)})
	}
	p.position(table, add.Position)
}

// definition re-emits def under another column name.
func definition(def *statement.ColumnDefinition, name string) string {
	s := def.Column.Name.Quote.Wrap(name)
	if def.DataType != "" {
		s += " " + def.DataType
	}
	return s
}

func (p *pass) position(table string, pos *statement.ColumnPosition) {
	if pos != nil && pos.After != nil {
		p.cipherName(table, pos.After)
	}
}

// cipherName replaces the name of an encrypted column with its cipher column.
func (p *pass) cipherName(table string, col *statement.Column) {
	if col == nil {
		return
	}
	c, ok := p.g.rule.FindColumn(table, col.Name.Value)
	if !ok {
		return
	}
	p.tokens = append(p.tokens, &token.ColumnSubstitution{
		Start:   col.Name.Start,
		Stop:    col.Name.Stop,
		Columns: []token.Column{{Name: c.CipherColumn, Quote: col.Name.Quote}},
	})
}

// dropNames lists the physical columns dropped for cols, in source order.
// It reports whether any of them is encrypted.
func (p *pass) dropNames(table string, cols []*statement.Column) ([]string, bool) {
	var names []string
	encrypted := false
	for _, col := range cols {
		c, ok := p.g.rule.FindColumn(table, col.Name.Value)
		if !ok {
			names = append(names, col.Name.String())
			continue
		}
		encrypted = true
		for _, w := range writeColumns(c) {
			names = append(names, col.Name.Quote.Wrap(w.name))
		}
	}
	return names, encrypted
}

func (p *pass) expandDrop(table string, d *statement.DropColumn) {
	names, ok := p.dropNames(table, d.Columns)
	if !ok {
		return
	}
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = "DROP COLUMN " + n
	}
	p.tokens = append(p.tokens, &token.Replace{Start: d.Start, Stop: d.Stop, Text: strings.Join(parts, ", ")})
}

// mergeDrops rewrites a run of drop definitions as a single drop list on
// the first definition and removes the others with their separators.
func (p *pass) mergeDrops(table string, run []*statement.DropColumn) {
	var cols []*statement.Column
	for _, d := range run {
		cols = append(cols, d.Columns...)
	}
	names, ok := p.dropNames(table, cols)
	if !ok {
		return
	}
	text := "DROP COLUMN " + strings.Join(names, ", ")
	if p.ctx.DatabaseType == statement.Oracle {
		text = "DROP (" + strings.Join(names, ", ") + ")"
	}
	p.tokens = append(p.tokens, &token.Replace{Start: run[0].Start, Stop: run[0].Stop, Text: text})
	for i := 1; i < len(run); i++ {
		p.tokens = append(p.tokens, &token.Remove{Start: run[i-1].Stop + 1, Stop: run[i].Stop})
	}
}

// dropRuns groups drop definitions that follow each other with no ADD or
// MODIFY clause in between.
func dropRuns(alter *statement.AlterTable) [][]*statement.DropColumn {
	drops := append([]*statement.DropColumn(nil), alter.Drops...)
	sort.Slice(drops, func(i, j int) bool { return drops[i].Start < drops[j].Start })
	var others []int
	for _, a := range alter.Adds {
		others = append(others, a.Start)
	}
	for _, m := range alter.Modifies {
		others = append(others, m.Start)
	}

	var runs [][]*statement.DropColumn
	for i, d := range drops {
		if i == 0 || separated(others, drops[i-1].Stop, d.Start) {
			runs = append(runs, []*statement.DropColumn{d})
			continue
		}
		runs[len(runs)-1] = append(runs[len(runs)-1], d)
	}
	return runs
}

func separated(starts []int, after, before int) bool {
	for _, s := range starts {
		if s > after && s < before {
			return true
		}
	}
	return false
}
