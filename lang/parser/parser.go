// Package parser implements the recursive-descent parser that transforms a
// token stream into an abstract syntax tree (ast.Program). It follows an
// expect/error/panic-and-recover idiom: a failed expectation reports a
// diagnostic and panics with a sentinel value that is recovered at the
// declaration level, where the parser synchronizes to the next probable
// statement boundary and keeps parsing so a single run can surface every
// syntax error in a file.
package parser

import (
	"errors"

	"github.com/mna/loxide/lang/ast"
	"github.com/mna/loxide/lang/diag"
	"github.com/mna/loxide/lang/scanner"
	"github.com/mna/loxide/lang/token"
)

const maxArgs = 255

// Parse tokenizes and parses src, returning the resulting program and a
// SourceMap for rendering diagnostics. The returned error, when non-nil, is
// an *diag.ErrorList accumulating every diagnostic from both scanning and
// parsing.
func Parse(filename string, src []byte) (*ast.Program, *token.SourceMap, error) {
	sm := token.NewSourceMap(filename, src)
	var errs diag.ErrorList

	var p parser
	p.errs = &errs
	p.sc.Init(src, &errs)
	p.advance()

	prog := p.parseProgram()
	errs.Sort()
	return prog, sm, errs.Err()
}

type parser struct {
	sc   scanner.Scanner
	errs *diag.ErrorList

	cur token.Token
}

var errPanicMode = errors.New("parser: syntax error, recovering")

func (p *parser) advance() { p.cur = p.sc.Next() }

func (p *parser) check(k token.Kind) bool { return p.cur.Kind == k }

func (p *parser) match(ks ...token.Kind) bool {
	for _, k := range ks {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes and returns the current token if it has kind k, otherwise
// it reports a diagnostic and panics with errPanicMode, to be recovered by
// synchronize at the declaration level.
func (p *parser) expect(k token.Kind) token.Token {
	if !p.check(k) {
		p.errorExpected(k)
		panic(errPanicMode)
	}
	tok := p.cur
	p.advance()
	return tok
}

func (p *parser) error(span token.Span, format string, args ...any) {
	p.errs.Add(diag.Syntactic, span, format, args...)
}

func (p *parser) errorExpected(k token.Kind) {
	found := p.cur.Kind.GoString()
	if p.cur.Lexeme != "" && p.cur.Kind != token.EOF {
		found = p.cur.Lexeme
	}
	p.error(p.cur.Span, "expected %s, found %s", k.GoString(), found)
}

// synchronize discards tokens until it reaches a likely statement boundary:
// just past a ';', or a keyword that begins a new declaration or statement.
func (p *parser) synchronize() {
	for p.cur.Kind != token.EOF {
		if p.cur.Kind == token.SEMI {
			p.advance()
			return
		}
		switch p.cur.Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}

func (p *parser) parseProgram() *ast.Program {
	var prog ast.Program
	for p.cur.Kind != token.EOF {
		if stmt, ok := p.declarationRecover(); ok {
			prog.Stmts = append(prog.Stmts, stmt)
		}
	}
	return &prog
}

// declarationRecover runs declaration and recovers from errPanicMode,
// synchronizing and reporting that this declaration produced no statement.
func (p *parser) declarationRecover() (stmt ast.Stmt, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if r != errPanicMode {
				panic(r)
			}
			p.synchronize()
			ok = false
		}
	}()
	return p.declaration(), true
}

func (p *parser) declaration() ast.Stmt {
	switch {
	case p.check(token.VAR):
		return p.varDecl()
	case p.check(token.FUN):
		fun := p.cur
		p.advance()
		return p.function(fun)
	case p.check(token.CLASS):
		return p.classDecl()
	default:
		return p.statement()
	}
}

func (p *parser) varDecl() ast.Stmt {
	kw := p.expect(token.VAR)
	name := p.expect(token.IDENT)
	var init ast.Expr
	if p.match(token.EQ) {
		init = p.expression()
	}
	semi := p.expect(token.SEMI)
	return &ast.VarStmt{Keyword: kw, Name: name, Init: init, Semi: semi}
}

// function parses the "IDENT ( params? ) block" production shared by
// top-level function declarations and class methods. fun is the zero Token
// for methods, which have no leading "fun" keyword.
func (p *parser) function(fun token.Token) *ast.FunStmt {
	name := p.expect(token.IDENT)
	p.expect(token.LPAREN)

	var params []token.Token
	if !p.check(token.RPAREN) {
		for {
			if len(params) >= maxArgs {
				p.error(p.cur.Span, "can't have more than %d parameters", maxArgs)
			}
			params = append(params, p.expect(token.IDENT))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RPAREN)

	body, rbrace := p.block()
	return &ast.FunStmt{Keyword: fun, Name: name, Params: params, Body: body, Rbrace: rbrace}
}

func (p *parser) classDecl() ast.Stmt {
	kw := p.expect(token.CLASS)
	name := p.expect(token.IDENT)
	p.expect(token.LBRACE)

	var methods []*ast.FunStmt
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		methods = append(methods, p.function(token.Token{}))
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.ClassStmt{Keyword: kw, Name: name, Methods: methods, Rbrace: rbrace}
}

func (p *parser) statement() ast.Stmt {
	switch {
	case p.check(token.PRINT):
		return p.printStmt()
	case p.check(token.LBRACE):
		lbrace := p.cur
		stmts, rbrace := p.block()
		return &ast.BlockStmt{Lbrace: lbrace, Rbrace: rbrace, Stmts: stmts}
	case p.check(token.IF):
		return p.ifStmt()
	case p.check(token.WHILE):
		return p.whileStmt()
	case p.check(token.FOR):
		return p.forStmt()
	case p.check(token.RETURN):
		return p.returnStmt()
	default:
		return p.exprStmt()
	}
}

func (p *parser) printStmt() ast.Stmt {
	kw := p.expect(token.PRINT)
	expr := p.expression()
	semi := p.expect(token.SEMI)
	return &ast.PrintStmt{Keyword: kw, Expr: expr, Semi: semi}
}

func (p *parser) ifStmt() ast.Stmt {
	kw := p.expect(token.IF)
	p.expect(token.LPAREN)
	cond := p.expression()
	p.expect(token.RPAREN)
	then := p.statement()
	var els ast.Stmt
	if p.match(token.ELSE) {
		els = p.statement()
	}
	return &ast.IfStmt{Keyword: kw, Cond: cond, Then: then, Else: els}
}

func (p *parser) whileStmt() ast.Stmt {
	kw := p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.expression()
	p.expect(token.RPAREN)
	body := p.statement()
	return &ast.WhileStmt{Keyword: kw, Cond: cond, Body: body}
}

// forStmt desugars "for (init; cond; incr) body" into:
//
//	{ init; while (cond-or-true) { body; incr; } }
func (p *parser) forStmt() ast.Stmt {
	kw := p.expect(token.FOR)
	p.expect(token.LPAREN)

	var init ast.Stmt
	switch {
	case p.match(token.SEMI):
		// no initializer
	case p.check(token.VAR):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond ast.Expr
	if !p.check(token.SEMI) {
		cond = p.expression()
	}
	p.expect(token.SEMI)

	var incr ast.Expr
	if !p.check(token.RPAREN) {
		incr = p.expression()
	}
	p.expect(token.RPAREN)

	body := p.statement()

	if incr != nil {
		body = &ast.BlockStmt{Stmts: []ast.Stmt{body, &ast.ExpressionStmt{Expr: incr}}}
	}
	if cond == nil {
		cond = &ast.LiteralExpr{Value: true, Tok: kw}
	}
	loop := ast.Stmt(&ast.WhileStmt{Keyword: kw, Cond: cond, Body: body})
	if init != nil {
		loop = &ast.BlockStmt{Stmts: []ast.Stmt{init, loop}}
	}
	return loop
}

func (p *parser) returnStmt() ast.Stmt {
	kw := p.expect(token.RETURN)
	var val ast.Expr
	if !p.check(token.SEMI) {
		val = p.expression()
	}
	semi := p.expect(token.SEMI)
	return &ast.ReturnStmt{Keyword: kw, Value: val, Semi: semi}
}

func (p *parser) exprStmt() ast.Stmt {
	expr := p.expression()
	semi := p.expect(token.SEMI)
	return &ast.ExpressionStmt{Expr: expr, Semi: semi}
}

// block parses "{ declaration* }" and returns the statements together with
// the closing brace token.
func (p *parser) block() ([]ast.Stmt, token.Token) {
	p.expect(token.LBRACE)
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		if stmt, ok := p.declarationRecover(); ok {
			stmts = append(stmts, stmt)
		}
	}
	rbrace := p.expect(token.RBRACE)
	return stmts, rbrace
}

func (p *parser) expression() ast.Expr { return p.assignment() }

// assignment parses "target = value", rewriting the already-parsed left-hand
// expression into an assignment target. Since the grammar cannot tell an
// assignment target from an arbitrary expression until it sees the '=', the
// left side is parsed as a full logicOr expression and then validated: only
// a VariableExpr (plain assignment) or a GetExpr (property assignment)
// are legal targets.
func (p *parser) assignment() ast.Expr {
	expr := p.logicOr()

	if p.check(token.EQ) {
		eq := p.cur
		p.advance()
		value := p.assignment()

		switch t := expr.(type) {
		case *ast.VariableExpr:
			return &ast.AssignExpr{Name: t.Name, Value: value}
		case *ast.GetExpr:
			return &ast.SetExpr{Object: t.Object, Name: t.Name, Value: value}
		default:
			p.error(eq.Span, "invalid assignment target")
			return expr
		}
	}
	return expr
}

func (p *parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.check(token.OR) {
		op := p.cur
		p.advance()
		right := p.logicAnd()
		expr = &ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.check(token.AND) {
		op := p.cur
		p.advance()
		right := p.equality()
		expr = &ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) equality() ast.Expr {
	expr := p.comparison()
	for p.check(token.BANGEQ) || p.check(token.EQEQ) {
		op := p.cur
		p.advance()
		right := p.comparison()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) comparison() ast.Expr {
	expr := p.term()
	for p.check(token.GT) || p.check(token.GTEQ) || p.check(token.LT) || p.check(token.LTEQ) {
		op := p.cur
		p.advance()
		right := p.term()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) term() ast.Expr {
	expr := p.factor()
	for p.check(token.PLUS) || p.check(token.MINUS) {
		op := p.cur
		p.advance()
		right := p.factor()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) factor() ast.Expr {
	expr := p.unary()
	for p.check(token.STAR) || p.check(token.SLASH) {
		op := p.cur
		p.advance()
		right := p.unary()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) unary() ast.Expr {
	if p.check(token.BANG) || p.check(token.MINUS) {
		op := p.cur
		p.advance()
		right := p.unary()
		return &ast.UnaryExpr{Op: op, Right: right}
	}
	return p.call()
}

// call parses a primary expression followed by any number of call and
// property-access suffixes: f(a)(b).x(c).
func (p *parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.check(token.LPAREN):
			p.advance()
			expr = p.finishCall(expr)
		case p.check(token.DOT):
			p.advance()
			name := p.expect(token.IDENT)
			expr = &ast.GetExpr{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			if len(args) >= maxArgs {
				p.error(p.cur.Span, "can't have more than %d arguments", maxArgs)
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.expect(token.RPAREN)
	return &ast.CallExpr{Callee: callee, Paren: paren, Args: args}
}

func (p *parser) primary() ast.Expr {
	switch {
	case p.check(token.FALSE):
		tok := p.cur
		p.advance()
		return &ast.LiteralExpr{Value: false, Tok: tok}
	case p.check(token.TRUE):
		tok := p.cur
		p.advance()
		return &ast.LiteralExpr{Value: true, Tok: tok}
	case p.check(token.NIL):
		tok := p.cur
		p.advance()
		return &ast.LiteralExpr{Value: nil, Tok: tok}
	case p.check(token.NUMBER):
		tok := p.cur
		p.advance()
		return &ast.LiteralExpr{Value: tok.Value.Num, Tok: tok}
	case p.check(token.STRING):
		tok := p.cur
		p.advance()
		return &ast.LiteralExpr{Value: tok.Value.Str, Tok: tok}
	case p.check(token.THIS):
		tok := p.cur
		p.advance()
		return &ast.ThisExpr{Keyword: tok}
	case p.check(token.IDENT):
		tok := p.cur
		p.advance()
		return &ast.VariableExpr{Name: tok}
	case p.check(token.LPAREN):
		lparen := p.cur
		p.advance()
		inner := p.expression()
		rparen := p.expect(token.RPAREN)
		return &ast.GroupingExpr{Lparen: lparen, Rparen: rparen, Inner: inner}
	default:
		p.error(p.cur.Span, "expected expression, found %s", p.cur.Kind.GoString())
		panic(errPanicMode)
	}
}
