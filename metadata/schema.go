// Package metadata holds the physical column lists of tables, used to
// expand "*" and to bind unqualified column references.
package metadata

import (
	"sort"
	"strings"
)

// Schema maps table names to their ordered column names. Lookups are
// case-insensitive. A nil *Schema is empty and safe to use.
type Schema struct {
	tables map[string]*tableColumns
}

type tableColumns struct {
	name    string
	columns []string
	index   map[string]struct{}
}

// NewSchema builds a Schema from table -> columns, preserving column order.
func NewSchema(tables map[string][]string) *Schema {
	s := &Schema{tables: make(map[string]*tableColumns, len(tables))}
	for name, columns := range tables {
		s.add(name, columns)
	}
	return s
}

func (s *Schema) add(name string, columns []string) {
	tc := &tableColumns{
		name:    name,
		columns: append([]string(nil), columns...),
		index:   make(map[string]struct{}, len(columns)),
	}
	for _, c := range columns {
		tc.index[strings.ToLower(c)] = struct{}{}
	}
	s.tables[strings.ToLower(name)] = tc
}

func (s *Schema) lookup(table string) (*tableColumns, bool) {
	if s == nil {
		return nil, false
	}
	tc, ok := s.tables[strings.ToLower(table)]
	return tc, ok
}

// HasTable reports whether the table is known.
func (s *Schema) HasTable(table string) bool {
	_, ok := s.lookup(table)
	return ok
}

// Columns returns a copy of the table's columns in definition order.
func (s *Schema) Columns(table string) []string {
	tc, ok := s.lookup(table)
	if !ok {
		return nil
	}
	return append([]string(nil), tc.columns...)
}

// HasColumn reports whether the table has the column.
func (s *Schema) HasColumn(table, column string) bool {
	tc, ok := s.lookup(table)
	if !ok {
		return false
	}
	_, ok = tc.index[strings.ToLower(column)]
	return ok
}

// Tables returns the table names as given, sorted.
func (s *Schema) Tables() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.tables))
	for _, tc := range s.tables {
		names = append(names, tc.name)
	}
	sort.Strings(names)
	return names
}
