package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer renders a Program as an indented tree, one node per line, used by
// the "parse" and "resolve" debug subcommands to inspect the pipeline.
type Printer struct {
	Output io.Writer

	// Distances, when non-nil, annotates each Variable/Assignment/This node
	// with its resolver scope distance (or "global" when absent), as
	// produced by the resolver's Locals table.
	Distances map[Expr]int
}

// Print walks prog and writes its indented tree representation.
func (p *Printer) Print(prog *Program) error {
	pp := &printer{w: p.Output, distances: p.Distances}
	for _, s := range prog.Stmts {
		if pp.err != nil {
			break
		}
		pp.print(s, 0)
	}
	return pp.err
}

type printer struct {
	w         io.Writer
	err       error
	distances map[Expr]int
}

func (p *printer) print(n Node, depth int) {
	if p.err != nil || n == nil {
		return
	}
	label := describe(n)
	if p.distances != nil {
		if e, ok := n.(Expr); ok {
			if dist, ok := p.distances[e]; ok {
				label += fmt.Sprintf(" @%d", dist)
			} else if _, ok := e.(*VariableExpr); ok {
				label += " @global"
			} else if _, ok := e.(*AssignExpr); ok {
				label += " @global"
			} else if _, ok := e.(*ThisExpr); ok {
				label += " @global"
			}
		}
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat(". ", depth), label)
	if p.err != nil {
		return
	}
	for _, child := range children(n) {
		p.print(child, depth+1)
	}
}

// children returns the direct child nodes of n, in source order, for
// printing purposes. This duplicates Walk's traversal but tracks depth,
// which the single-direction Visitor interface cannot do on its own.
func children(n Node) []Node {
	switch n := n.(type) {
	case *GroupingExpr:
		return []Node{n.Inner}
	case *UnaryExpr:
		return []Node{n.Right}
	case *BinaryExpr:
		return []Node{n.Left, n.Right}
	case *LogicalExpr:
		return []Node{n.Left, n.Right}
	case *AssignExpr:
		return []Node{n.Value}
	case *CallExpr:
		nodes := make([]Node, 0, len(n.Args)+1)
		nodes = append(nodes, n.Callee)
		for _, a := range n.Args {
			nodes = append(nodes, a)
		}
		return nodes
	case *GetExpr:
		return []Node{n.Object}
	case *SetExpr:
		return []Node{n.Object, n.Value}
	case *ExpressionStmt:
		return []Node{n.Expr}
	case *PrintStmt:
		return []Node{n.Expr}
	case *VarStmt:
		if n.Init != nil {
			return []Node{n.Init}
		}
		return nil
	case *BlockStmt:
		nodes := make([]Node, len(n.Stmts))
		for i, s := range n.Stmts {
			nodes[i] = s
		}
		return nodes
	case *IfStmt:
		nodes := []Node{n.Cond, n.Then}
		if n.Else != nil {
			nodes = append(nodes, n.Else)
		}
		return nodes
	case *WhileStmt:
		return []Node{n.Cond, n.Body}
	case *FunStmt:
		nodes := make([]Node, len(n.Body))
		for i, s := range n.Body {
			nodes[i] = s
		}
		return nodes
	case *ReturnStmt:
		if n.Value != nil {
			return []Node{n.Value}
		}
		return nil
	case *ClassStmt:
		nodes := make([]Node, len(n.Methods))
		for i, m := range n.Methods {
			nodes[i] = m
		}
		return nodes
	default:
		return nil
	}
}

func describe(n Node) string {
	switch n := n.(type) {
	case *LiteralExpr:
		return fmt.Sprintf("literal %v", n.Value)
	case *GroupingExpr:
		return "group"
	case *UnaryExpr:
		return "unary " + n.Op.Kind.String()
	case *BinaryExpr:
		return "binary " + n.Op.Kind.String()
	case *LogicalExpr:
		return "logical " + n.Op.Kind.String()
	case *VariableExpr:
		return "var " + n.Name.Lexeme
	case *AssignExpr:
		return "assign " + n.Name.Lexeme
	case *CallExpr:
		return fmt.Sprintf("call (%d args)", len(n.Args))
	case *GetExpr:
		return "get ." + n.Name.Lexeme
	case *SetExpr:
		return "set ." + n.Name.Lexeme
	case *ThisExpr:
		return "this"
	case *ExpressionStmt:
		return "expr-stmt"
	case *PrintStmt:
		return "print"
	case *VarStmt:
		return "var-decl " + n.Name.Lexeme
	case *BlockStmt:
		return "block"
	case *IfStmt:
		return "if"
	case *WhileStmt:
		return "while"
	case *FunStmt:
		return "fun " + n.Name.Lexeme
	case *ReturnStmt:
		return "return"
	case *ClassStmt:
		return "class " + n.Name.Lexeme
	default:
		return fmt.Sprintf("%T", n)
	}
}
