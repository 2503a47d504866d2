package ast

import "github.com/mna/loxide/lang/token"

type (
	// LiteralExpr is a literal value: nil, a bool, a number, or a string.
	// Value holds one of nil, bool, float64 or string.
	LiteralExpr struct {
		Value any
		Tok   token.Token
	}

	// GroupingExpr is a parenthesized expression, e.g. (1 + 2).
	GroupingExpr struct {
		Lparen, Rparen token.Token
		Inner          Expr
	}

	// UnaryExpr is a prefix unary operator expression, e.g. -x or !x.
	UnaryExpr struct {
		Op    token.Token
		Right Expr
	}

	// BinaryExpr is a binary operator expression, e.g. x + y. Logical and/or
	// are represented separately by LogicalExpr since they short-circuit.
	BinaryExpr struct {
		Left  Expr
		Op    token.Token
		Right Expr
	}

	// LogicalExpr is an "and" or "or" expression; unlike BinaryExpr it
	// short-circuits and yields one of its operand's values, not a coerced
	// boolean.
	LogicalExpr struct {
		Left  Expr
		Op    token.Token
		Right Expr
	}

	// VariableExpr reads the value bound to a name.
	VariableExpr struct {
		Name token.Token
	}

	// AssignExpr assigns Value to the variable Name, yielding Value.
	AssignExpr struct {
		Name  token.Token
		Value Expr
	}

	// CallExpr calls Callee with Args. Paren is the closing ')' token, used to
	// report the call's position in runtime diagnostics.
	CallExpr struct {
		Callee Expr
		Paren  token.Token
		Args   []Expr
	}

	// GetExpr reads property Name off Object, e.g. x.y.
	GetExpr struct {
		Object Expr
		Name   token.Token
	}

	// SetExpr writes Value to property Name on Object, e.g. x.y = z.
	SetExpr struct {
		Object Expr
		Name   token.Token
		Value  Expr
	}

	// ThisExpr is a reference to the receiver inside a method body.
	ThisExpr struct {
		Keyword token.Token
	}
)

func (*LiteralExpr) exprNode()  {}
func (*GroupingExpr) exprNode() {}
func (*UnaryExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*LogicalExpr) exprNode()  {}
func (*VariableExpr) exprNode() {}
func (*AssignExpr) exprNode()   {}
func (*CallExpr) exprNode()     {}
func (*GetExpr) exprNode()      {}
func (*SetExpr) exprNode()      {}
func (*ThisExpr) exprNode()     {}

func (e *LiteralExpr) Span() token.Span { return e.Tok.Span }
func (e *GroupingExpr) Span() token.Span {
	return span(e.Lparen.Span, e.Rparen.Span)
}
func (e *UnaryExpr) Span() token.Span { return span(e.Op.Span, e.Right.Span()) }
func (e *BinaryExpr) Span() token.Span {
	return span(e.Left.Span(), e.Right.Span())
}
func (e *LogicalExpr) Span() token.Span {
	return span(e.Left.Span(), e.Right.Span())
}
func (e *VariableExpr) Span() token.Span { return e.Name.Span }
func (e *AssignExpr) Span() token.Span {
	return span(e.Name.Span, e.Value.Span())
}
func (e *CallExpr) Span() token.Span { return span(e.Callee.Span(), e.Paren.Span) }
func (e *GetExpr) Span() token.Span  { return span(e.Object.Span(), e.Name.Span) }
func (e *SetExpr) Span() token.Span {
	return span(e.Object.Span(), e.Value.Span())
}
func (e *ThisExpr) Span() token.Span { return e.Keyword.Span }

func (e *LiteralExpr) Walk(_ Visitor)  {}
func (e *GroupingExpr) Walk(v Visitor) { Walk(v, e.Inner) }
func (e *UnaryExpr) Walk(v Visitor)    { Walk(v, e.Right) }
func (e *BinaryExpr) Walk(v Visitor) {
	Walk(v, e.Left)
	Walk(v, e.Right)
}
func (e *LogicalExpr) Walk(v Visitor) {
	Walk(v, e.Left)
	Walk(v, e.Right)
}
func (e *VariableExpr) Walk(_ Visitor) {}
func (e *AssignExpr) Walk(v Visitor)   { Walk(v, e.Value) }
func (e *CallExpr) Walk(v Visitor) {
	Walk(v, e.Callee)
	for _, a := range e.Args {
		Walk(v, a)
	}
}
func (e *GetExpr) Walk(v Visitor) { Walk(v, e.Object) }
func (e *SetExpr) Walk(v Visitor) {
	Walk(v, e.Object)
	Walk(v, e.Value)
}
func (e *ThisExpr) Walk(_ Visitor) {}

// span merges two spans into the smallest span covering both.
func span(a, b token.Span) token.Span {
	end := a.End()
	if b.End() > end {
		end = b.End()
	}
	return token.Span{Offset: a.Offset, Len: end - a.Offset}
}
