// Package resolver implements the static pass that runs between parsing and
// interpretation: a single walk of the AST that computes, for every variable,
// assignment and "this" reference, how many enclosing scopes separate it
// from the scope that declares it. The interpreter consults this distance
// table instead of re-walking the environment chain, which is what makes
// closures over shadowed names behave correctly.
//
// The table is keyed by the identity of the ast.Expr node, not by name: two
// syntactically identical references to "x" in different places are
// distinct keys and may resolve to different scopes.
package resolver

import (
	"github.com/mna/loxide/lang/ast"
	"github.com/mna/loxide/lang/diag"
	"github.com/mna/loxide/lang/token"
)

// Locals maps a Variable, Assignment or This expression to the number of
// enclosing scopes between its use and the scope that declares it. Names
// absent from this table are globals, resolved at the root environment.
type Locals map[ast.Expr]int

// functionKind tracks the kind of function a method/function body is being
// resolved in, so "this" can be rejected outside a method.
type functionKind int

const (
	fkNone functionKind = iota
	fkFunction
	fkMethod
)

// scope maps a name to whether its declaration has been fully processed yet.
// An entry present with value false means the name has been declared but its
// initializer has not yet finished resolving; reading it in that window is
// the read-in-own-initializer error.
type scope map[string]bool

// Resolver performs the single-pass static resolution described in the
// package doc and accumulates any errors it finds.
type Resolver struct {
	errs        *diag.ErrorList
	scopes      []scope
	locals      Locals
	currentFunc functionKind
}

// New creates a Resolver that reports diagnostics to errs.
func New(errs *diag.ErrorList) *Resolver {
	return &Resolver{errs: errs, locals: make(Locals)}
}

// Resolve walks prog and returns the completed distance table.
func (r *Resolver) Resolve(prog *ast.Program) Locals {
	r.resolveStmts(prog.Stmts)
	return r.locals
}

func (r *Resolver) pushScope() { r.scopes = append(r.scopes, scope{}) }
func (r *Resolver) popScope()  { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	sc := r.scopes[len(r.scopes)-1]
	if _, ok := sc[name.Lexeme]; ok {
		r.error(name.Span, "variable %q already declared in this scope", name.Lexeme)
	}
	sc[name.Lexeme] = false
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

// resolveName walks the scope stack from innermost outward and, if found,
// records the distance in the table keyed by expr's identity. A name not
// found in any scope is left out of the table: it is global.
func (r *Resolver) resolveName(expr ast.Expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) error(span token.Span, format string, args ...any) {
	r.errs.Add(diag.Resolution, span, format, args...)
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		r.resolveExpr(s.Expr)
	case *ast.PrintStmt:
		r.resolveExpr(s.Expr)
	case *ast.VarStmt:
		r.declare(s.Name)
		if s.Init != nil {
			r.resolveExpr(s.Init)
		}
		r.define(s.Name.Lexeme)
	case *ast.BlockStmt:
		r.pushScope()
		r.resolveStmts(s.Stmts)
		r.popScope()
	case *ast.IfStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *ast.WhileStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)
	case *ast.FunStmt:
		r.declare(s.Name)
		r.define(s.Name.Lexeme)
		r.resolveFunction(s, fkFunction)
	case *ast.ReturnStmt:
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}
	case *ast.ClassStmt:
		r.declare(s.Name)
		r.define(s.Name.Lexeme)

		r.pushScope()
		r.scopes[len(r.scopes)-1]["this"] = true
		for _, m := range s.Methods {
			r.resolveFunction(m, fkMethod)
		}
		r.popScope()
	}
}

// resolveFunction resolves a function or method body in a fresh scope that
// declares its parameters, restoring the enclosing function kind on return
// so nested functions don't leak their kind to their continuation.
func (r *Resolver) resolveFunction(fn *ast.FunStmt, kind functionKind) {
	enclosing := r.currentFunc
	r.currentFunc = kind
	defer func() { r.currentFunc = enclosing }()

	r.pushScope()
	for _, p := range fn.Params {
		r.declare(p)
		r.define(p.Lexeme)
	}
	r.resolveStmts(fn.Body)
	r.popScope()
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		// nothing to resolve
	case *ast.GroupingExpr:
		r.resolveExpr(e.Inner)
	case *ast.UnaryExpr:
		r.resolveExpr(e.Right)
	case *ast.BinaryExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.LogicalExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.VariableExpr:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.error(e.Name.Span, "can't read local variable %q in its own initializer", e.Name.Lexeme)
			}
		}
		r.resolveName(e, e.Name.Lexeme)
	case *ast.AssignExpr:
		r.resolveExpr(e.Value)
		r.resolveName(e, e.Name.Lexeme)
	case *ast.CallExpr:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}
	case *ast.GetExpr:
		r.resolveExpr(e.Object)
	case *ast.SetExpr:
		r.resolveExpr(e.Object)
		r.resolveExpr(e.Value)
	case *ast.ThisExpr:
		if r.currentFunc != fkMethod {
			r.error(e.Keyword.Span, "can't use 'this' outside of a method")
			return
		}
		r.resolveName(e, "this")
	}
}
