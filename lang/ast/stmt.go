package ast

import "github.com/mna/loxide/lang/token"

type (
	// ExpressionStmt is an expression evaluated for its side effect, then
	// discarded.
	ExpressionStmt struct {
		Expr Expr
		Semi token.Token
	}

	// PrintStmt evaluates Expr and writes its display form to stdout.
	PrintStmt struct {
		Keyword token.Token
		Expr    Expr
		Semi    token.Token
	}

	// VarStmt declares Name, bound to Init's value (or nil if Init is absent).
	VarStmt struct {
		Keyword token.Token
		Name    token.Token
		Init    Expr
		Semi    token.Token
	}

	// BlockStmt is a brace-delimited sequence of statements, its own lexical
	// scope.
	BlockStmt struct {
		Lbrace, Rbrace token.Token
		Stmts          []Stmt
	}

	// IfStmt is a conditional with an optional else branch.
	IfStmt struct {
		Keyword   token.Token
		Cond      Expr
		Then      Stmt
		Else      Stmt // nil if there is no else branch
	}

	// WhileStmt repeats Body while Cond is truthy.
	WhileStmt struct {
		Keyword token.Token
		Cond    Expr
		Body    Stmt
	}

	// FunStmt declares a named function (or, as a ClassStmt method, binds a
	// name inside the class body).
	FunStmt struct {
		Keyword token.Token // zero Token for methods, which omit "fun"
		Name    token.Token
		Params  []token.Token
		Body    []Stmt
		Rbrace  token.Token
	}

	// ReturnStmt exits the enclosing function, optionally with a value.
	ReturnStmt struct {
		Keyword token.Token
		Value   Expr // nil if no value was given
		Semi    token.Token
	}

	// ClassStmt declares a class and its methods.
	ClassStmt struct {
		Keyword token.Token
		Name    token.Token
		Methods []*FunStmt
		Rbrace  token.Token
	}
)

func (*ExpressionStmt) stmtNode() {}
func (*PrintStmt) stmtNode()      {}
func (*VarStmt) stmtNode()        {}
func (*BlockStmt) stmtNode()      {}
func (*IfStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}
func (*FunStmt) stmtNode()        {}
func (*ReturnStmt) stmtNode()     {}
func (*ClassStmt) stmtNode()      {}

func (s *ExpressionStmt) Span() token.Span { return span(s.Expr.Span(), s.Semi.Span) }
func (s *PrintStmt) Span() token.Span      { return span(s.Keyword.Span, s.Semi.Span) }
func (s *VarStmt) Span() token.Span        { return span(s.Keyword.Span, s.Semi.Span) }
func (s *BlockStmt) Span() token.Span      { return span(s.Lbrace.Span, s.Rbrace.Span) }
func (s *IfStmt) Span() token.Span {
	if s.Else != nil {
		return span(s.Keyword.Span, s.Else.Span())
	}
	return span(s.Keyword.Span, s.Then.Span())
}
func (s *WhileStmt) Span() token.Span  { return span(s.Keyword.Span, s.Body.Span()) }
func (s *FunStmt) Span() token.Span    { return span(s.Name.Span, s.Rbrace.Span) }
func (s *ReturnStmt) Span() token.Span { return span(s.Keyword.Span, s.Semi.Span) }
func (s *ClassStmt) Span() token.Span  { return span(s.Keyword.Span, s.Rbrace.Span) }

func (s *ExpressionStmt) Walk(v Visitor) { Walk(v, s.Expr) }
func (s *PrintStmt) Walk(v Visitor)      { Walk(v, s.Expr) }
func (s *VarStmt) Walk(v Visitor) {
	if s.Init != nil {
		Walk(v, s.Init)
	}
}
func (s *BlockStmt) Walk(v Visitor) {
	for _, st := range s.Stmts {
		Walk(v, st)
	}
}
func (s *IfStmt) Walk(v Visitor) {
	Walk(v, s.Cond)
	Walk(v, s.Then)
	if s.Else != nil {
		Walk(v, s.Else)
	}
}
func (s *WhileStmt) Walk(v Visitor) {
	Walk(v, s.Cond)
	Walk(v, s.Body)
}
func (s *FunStmt) Walk(v Visitor) {
	for _, st := range s.Body {
		Walk(v, st)
	}
}
func (s *ReturnStmt) Walk(v Visitor) {
	if s.Value != nil {
		Walk(v, s.Value)
	}
}
func (s *ClassStmt) Walk(v Visitor) {
	for _, m := range s.Methods {
		Walk(v, m)
	}
}
