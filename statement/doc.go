// Package statement models bound SQL statements as produced by an external
// parser: position-annotated expressions, table segments, select lists and
// the statement kinds the rewriter understands.
//
// Every node records the inclusive byte span it occupies in the original
// SQL text. The model carries no behaviour beyond small traversal helpers;
// rewriting happens in package rewrite.
package statement
