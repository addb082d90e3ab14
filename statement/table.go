package statement

// TableSegment is an entry of a FROM clause or of an UPDATE/DELETE target.
type TableSegment interface {
	Segment
	table()
}

// SimpleTable is a physical table reference with an optional alias.
type SimpleTable struct {
	Span
	Owner *Identifier
	Name  Identifier
	Alias *Identifier
}

// AliasOrName returns the alias value, or the table name when unaliased.
func (t *SimpleTable) AliasOrName() string {
	if t.Alias != nil {
		return t.Alias.Value
	}
	return t.Name.Value
}

// SubqueryTable is a derived table: "(SELECT ...) alias".
type SubqueryTable struct {
	Span
	Subquery *Subquery
	Alias    *Identifier
}

// AliasName returns the alias value or "".
func (t *SubqueryTable) AliasName() string {
	if t.Alias == nil {
		return ""
	}
	return t.Alias.Value
}

// JoinTable is "left [type] JOIN right [ON condition | USING (...)]".
type JoinTable struct {
	Span
	Left      TableSegment
	Right     TableSegment
	JoinType  string
	Condition Expr
	Using     []*Column
}

func (*SimpleTable) table()   {}
func (*SubqueryTable) table() {}
func (*JoinTable) table()     {}

// SimpleTables flattens join trees into their simple tables, in source order.
// Derived tables are not entered.
func SimpleTables(t TableSegment) []*SimpleTable {
	switch x := t.(type) {
	case *SimpleTable:
		return []*SimpleTable{x}
	case *JoinTable:
		return append(SimpleTables(x.Left), SimpleTables(x.Right)...)
	default:
		return nil
	}
}
