// Package token defines the position-addressed edits produced by the
// rewriter. A token replaces the inclusive span [StartIndex, StopIndex] of
// the original SQL text with String(); an empty String deletes the span.
package token

import (
	"sort"
	"strings"

	"github.com/ai8future/encryptsql/statement"
)

// Token is one edit of the original SQL text.
type Token interface {
	StartIndex() int
	StopIndex() int
	String() string
}

// Remove deletes a span.
type Remove struct {
	Start int
	Stop  int
}

func (t *Remove) StartIndex() int { return t.Start }
func (t *Remove) StopIndex() int  { return t.Stop }
func (t *Remove) String() string  { return "" }

// Replace substitutes literal text for a span.
type Replace struct {
	Start int
	Stop  int
	Text  string
}

func (t *Replace) StartIndex() int { return t.Start }
func (t *Replace) StopIndex() int  { return t.Stop }
func (t *Replace) String() string  { return t.Text }

// Column is a rendered column reference. Owner and Alias are kept as
// written in the source; Name is the physical column.
type Column struct {
	Owner string
	Name  string
	Quote statement.QuoteCharacter
	Alias string
}

func (c Column) String() string {
	s := c.Quote.Wrap(c.Name)
	if c.Owner != "" {
		s = c.Owner + "." + s
	}
	if c.Alias != "" {
		s += " AS " + c.Alias
	}
	return s
}

// ColumnSubstitution replaces a column reference or projection with one or
// more physical columns, comma separated.
type ColumnSubstitution struct {
	Start   int
	Stop    int
	Columns []Column
}

func (t *ColumnSubstitution) StartIndex() int { return t.Start }
func (t *ColumnSubstitution) StopIndex() int  { return t.Stop }

func (t *ColumnSubstitution) String() string {
	parts := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// ParameterAssignment replaces "col = ?" with one placeholder assignment
// per physical column. Bind parameters must be expanded to match.
type ParameterAssignment struct {
	Start   int
	Stop    int
	Columns []string
}

func (t *ParameterAssignment) StartIndex() int { return t.Start }
func (t *ParameterAssignment) StopIndex() int  { return t.Stop }

func (t *ParameterAssignment) String() string {
	parts := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		parts[i] = c + " = ?"
	}
	return strings.Join(parts, ", ")
}

// Assignment is one "column = literal" pair.
type Assignment struct {
	Column string
	Value  any
}

// LiteralAssignment replaces "col = literal" with one literal assignment
// per physical column. Values are rendered for DatabaseType.
type LiteralAssignment struct {
	Start        int
	Stop         int
	Assignments  []Assignment
	DatabaseType statement.DatabaseType
}

func (t *LiteralAssignment) StartIndex() int { return t.Start }
func (t *LiteralAssignment) StopIndex() int  { return t.Stop }

func (t *LiteralAssignment) String() string {
	parts := make([]string, len(t.Assignments))
	for i, a := range t.Assignments {
		parts[i] = a.Column + " = " + DialectLiteral(t.DatabaseType, a.Value)
	}
	return strings.Join(parts, ", ")
}

type tokenKey struct {
	start, stop int
	text        string
}

// Normalize removes duplicate tokens (same span and text) and sorts the
// rest by start index, then stop index. The input slice is not modified.
func Normalize(tokens []Token) []Token {
	seen := make(map[tokenKey]struct{}, len(tokens))
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		k := tokenKey{t.StartIndex(), t.StopIndex(), t.String()}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartIndex() != out[j].StartIndex() {
			return out[i].StartIndex() < out[j].StartIndex()
		}
		return out[i].StopIndex() < out[j].StopIndex()
	})
	return out
}
