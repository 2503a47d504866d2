// Package ast defines the abstract syntax tree produced by the parser:
// a sum type of expression nodes and a sum type of statement nodes, each
// carrying the token.Span it was parsed from.
//
// Node identity matters: the resolver's side-table is keyed by the pointer
// identity of Expr nodes (not by their structural content), exactly as two
// textually identical "x" references in different places in the source are
// distinct AST nodes and may resolve to different bindings.
package ast

import "github.com/mna/loxide/lang/token"

// Node is any AST node: every expression and every statement.
type Node interface {
	// Span reports the source range the node was parsed from.
	Span() token.Span

	// Walk visits the node's direct children with v.
	Walk(v Visitor)
}

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Program is the result of parsing a whole source file: a flat list of
// top-level statements.
type Program struct {
	Stmts []Stmt
}

// Visitor defines the callback invoked for every node visited by Walk. If
// Visit returns a nil Visitor, the node's children are not visited.
type Visitor interface {
	Visit(n Node) (w Visitor)
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(n Node) Visitor

func (f VisitorFunc) Visit(n Node) Visitor { return f(n) }

// Walk visits node and, if v.Visit(node) returns a non-nil Visitor,
// recursively walks its children with that visitor.
func Walk(v Visitor, node Node) {
	if node == nil {
		return
	}
	if w := v.Visit(node); w != nil {
		node.Walk(w)
	}
}
