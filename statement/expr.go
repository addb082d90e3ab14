package statement

import "strings"

// Atoms flattens AND/OR trees into their leaf predicates, in source order.
func Atoms(e Expr) []Expr {
	if e == nil {
		return nil
	}
	if b, ok := e.(*BinaryOperation); ok && isLogical(b.Operator) {
		return append(Atoms(b.Left), Atoms(b.Right)...)
	}
	return []Expr{e}
}

func isLogical(op string) bool {
	switch strings.ToUpper(op) {
	case "AND", "OR", "&&", "||":
		return true
	}
	return false
}

// Columns returns the column references a predicate atom compares:
// both sides of a binary operation, the left side (or left row) of IN and
// the left side of BETWEEN.
func Columns(e Expr) []*Column {
	var out []*Column
	switch x := e.(type) {
	case *BinaryOperation:
		if c, ok := x.Left.(*Column); ok {
			out = append(out, c)
		}
		if c, ok := x.Right.(*Column); ok {
			out = append(out, c)
		}
	case *In:
		switch l := x.Left.(type) {
		case *Column:
			out = append(out, l)
		case *List:
			for _, item := range l.Items {
				if c, ok := item.(*Column); ok {
					out = append(out, c)
				}
			}
		}
	case *Between:
		if c, ok := x.Left.(*Column); ok {
			out = append(out, c)
		}
	}
	return out
}

// Subqueries returns the subqueries directly reachable from e without
// entering another subquery: IN and EXISTS operands, scalar comparison
// operands, function arguments and list items.
func Subqueries(e Expr) []*Subquery {
	var out []*Subquery
	var walk func(Expr)
	walk = func(e Expr) {
		switch x := e.(type) {
		case *Subquery:
			out = append(out, x)
		case *Exists:
			if x.Subquery != nil {
				out = append(out, x.Subquery)
			}
		case *BinaryOperation:
			walk(x.Left)
			walk(x.Right)
		case *In:
			walk(x.Left)
			walk(x.Right)
		case *Between:
			walk(x.Left)
			walk(x.Low)
			walk(x.High)
		case *List:
			for _, item := range x.Items {
				walk(item)
			}
		case *Function:
			for _, arg := range x.Args {
				walk(arg)
			}
		}
	}
	walk(e)
	return out
}
