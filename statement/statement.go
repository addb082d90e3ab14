package statement

// Statement is a bound SQL statement.
type Statement interface {
	statement()
}

// Context is one parsed and bound statement together with its dialect.
// All spans refer to the SQL text the statement was parsed from.
type Context struct {
	Statement    Statement
	DatabaseType DatabaseType
}

// Where is a WHERE or HAVING clause.
type Where struct {
	Span
	Expr Expr
}

// OrderItem is an ORDER BY or GROUP BY item. Expr is a *Column for column
// items and any other expression otherwise.
type OrderItem struct {
	Span
	Expr Expr
	Desc bool
}

// CombineType is the set operator joining two SELECTs.
type CombineType int

const (
	Union CombineType = iota
	UnionAll
	Intersect
	Except
)

// Combine is a set operation branch appended to a SELECT.
type Combine struct {
	Span
	Type   CombineType
	Select *Select
}

// Select is a SELECT statement or a nested SELECT.
type Select struct {
	Span
	Projections *Projections
	From        TableSegment
	Where       *Where
	GroupBy     []*OrderItem
	Having      *Where
	OrderBy     []*OrderItem
	Combines    []*Combine
}

// Assignment is "column = value" in a SET clause.
type Assignment struct {
	Span
	Column *Column
	Value  Expr
}

// SetAssignments is a SET clause.
type SetAssignments struct {
	Span
	Assignments []*Assignment
}

// Insert is "INSERT INTO table SET ...". The VALUES form is not modelled.
type Insert struct {
	Span
	Table *SimpleTable
	Set   *SetAssignments
}

// Update is an UPDATE statement. Table may be a join.
type Update struct {
	Span
	Table   TableSegment
	Set     *SetAssignments
	Where   *Where
	OrderBy []*OrderItem
}

// UpdateBatch is several UPDATE statements submitted as one text.
type UpdateBatch struct {
	Statements []*Update
}

// Delete is a DELETE statement.
type Delete struct {
	Span
	Table TableSegment
	Where *Where
}

// ColumnDefinition is "column type [constraints...]". DataType holds the
// text after the column name, exactly as written.
type ColumnDefinition struct {
	Span
	Column   *Column
	DataType string
}

// ColumnPosition is "FIRST" (After == nil) or "AFTER column".
type ColumnPosition struct {
	Span
	After *Column
}

// AddColumn is "ADD [COLUMN] definition [position]" or, when Parenthesized,
// "ADD (definition, ...)".
type AddColumn struct {
	Span
	Definitions   []*ColumnDefinition
	Position      *ColumnPosition
	Parenthesized bool
}

// ModifyColumn is "MODIFY [COLUMN] definition" or, when Previous is set,
// "CHANGE [COLUMN] previous definition".
type ModifyColumn struct {
	Span
	Previous   *Column
	Definition *ColumnDefinition
	Position   *ColumnPosition
}

// DropColumn is "DROP [COLUMN] name[, name...]".
type DropColumn struct {
	Span
	Columns []*Column
}

// AlterTable is an ALTER TABLE statement.
type AlterTable struct {
	Span
	Table    *SimpleTable
	Adds     []*AddColumn
	Modifies []*ModifyColumn
	Drops    []*DropColumn
}

func (*Select) statement()      {}
func (*Insert) statement()      {}
func (*Update) statement()      {}
func (*UpdateBatch) statement() {}
func (*Delete) statement()      {}
func (*AlterTable) statement()  {}
