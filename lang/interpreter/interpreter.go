// Package interpreter walks the AST produced by the parser and resolved by
// the resolver, executing it directly: there is no intermediate bytecode.
// It owns the global environment, the current environment, and the
// resolver's distance table, and evaluates expressions and executes
// statements by a straightforward recursive type switch over the AST nodes.
package interpreter

import (
	"fmt"
	"io"
	"time"

	"github.com/mna/loxide/lang/ast"
	"github.com/mna/loxide/lang/resolver"
	"github.com/mna/loxide/lang/token"
)

// RuntimeError is a diagnosable error raised while executing a program: a
// type mismatch, an undefined variable, an arity mismatch, and so on.
type RuntimeError struct {
	Span    token.Span
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

// returnSignal is not a user-visible error: it is how a Return statement
// unwinds the Go call stack back to the enclosing Function.Call, carrying
// the returned value along the same error channel used for real errors.
type returnSignal struct{ value Value }

func (r *returnSignal) Error() string { return "return outside of function" }

// Interpreter executes resolved programs against one global environment.
// Construct one with NewInterpreter; successive Run calls (the REPL makes one
// per line) share its globals and its distance table.
type Interpreter struct {
	Globals *Environment
	env     *Environment
	locals  resolver.Locals
	stdout  io.Writer
}

// NewInterpreter creates an interpreter whose globals contain the clock
// native function, writing Print output to stdout.
func NewInterpreter(stdout io.Writer) *Interpreter {
	globals := NewEnvironment(nil)
	globals.Define("clock", &NativeFunction{
		Name: "clock",
		Arit: 0,
		Fn: func(*Interpreter, []Value) (Value, error) {
			return float64(time.Now().UnixNano()) / float64(time.Second), nil
		},
	})
	return &Interpreter{Globals: globals, env: globals, stdout: stdout}
}

// Run executes prog's statements in program order, stopping at the first
// runtime error. locals is added to the distances kept from earlier runs, so
// functions declared by an earlier program still find their locals.
func (in *Interpreter) Run(prog *ast.Program, locals resolver.Locals) error {
	if in.locals == nil {
		in.locals = make(resolver.Locals, len(locals))
	}
	for e, d := range locals {
		in.locals[e] = d
	}
	for _, stmt := range prog.Stmts {
		if err := in.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execute(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := in.eval(s.Expr)
		return err

	case *ast.PrintStmt:
		v, err := in.eval(s.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(in.stdout, Stringify(v))
		return nil

	case *ast.VarStmt:
		var v Value
		if s.Init != nil {
			var err error
			v, err = in.eval(s.Init)
			if err != nil {
				return err
			}
		}
		in.env.Define(s.Name.Lexeme, v)
		return nil

	case *ast.BlockStmt:
		return in.executeBlock(s.Stmts, NewEnvironment(in.env))

	case *ast.IfStmt:
		cond, err := in.eval(s.Cond)
		if err != nil {
			return err
		}
		if IsTruthy(cond) {
			return in.execute(s.Then)
		}
		if s.Else != nil {
			return in.execute(s.Else)
		}
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := in.eval(s.Cond)
			if err != nil {
				return err
			}
			if !IsTruthy(cond) {
				return nil
			}
			if err := in.execute(s.Body); err != nil {
				return err
			}
		}

	case *ast.FunStmt:
		fn := &Function{Decl: s, Closure: in.env}
		in.env.Define(s.Name.Lexeme, fn)
		return nil

	case *ast.ReturnStmt:
		var v Value
		if s.Value != nil {
			var err error
			v, err = in.eval(s.Value)
			if err != nil {
				return err
			}
		}
		return &returnSignal{value: v}

	case *ast.ClassStmt:
		in.env.Define(s.Name.Lexeme, nil)

		methods := make(map[string]*Function, len(s.Methods))
		for _, m := range s.Methods {
			methods[m.Name.Lexeme] = &Function{Decl: m, Closure: in.env}
		}
		class := &Class{Name: s.Name, Methods: methods}
		in.env.Assign(s.Name.Lexeme, class)
		return nil

	default:
		return fmt.Errorf("interpreter: unhandled statement type %T", stmt)
	}
}

// executeBlock runs stmts with env as the current environment, restoring the
// previous environment when done, including when a statement errors or
// returns: the defer runs in every case.
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) error {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, stmt := range stmts {
		if err := in.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) eval(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return e.Value, nil

	case *ast.GroupingExpr:
		return in.eval(e.Inner)

	case *ast.UnaryExpr:
		right, err := in.eval(e.Right)
		if err != nil {
			return nil, err
		}
		switch e.Op.Kind {
		case token.BANG:
			return !IsTruthy(right), nil
		case token.MINUS:
			n, ok := right.(float64)
			if !ok {
				return nil, in.typeError(e.Op.Span, fmt.Sprintf("operand of %q must be a number", e.Op.Lexeme), right)
			}
			return -n, nil
		}
		return nil, fmt.Errorf("interpreter: unhandled unary operator %s", e.Op.Kind)

	case *ast.BinaryExpr:
		return in.evalBinary(e)

	case *ast.LogicalExpr:
		left, err := in.eval(e.Left)
		if err != nil {
			return nil, err
		}
		if e.Op.Kind == token.OR {
			if IsTruthy(left) {
				return left, nil
			}
		} else {
			if !IsTruthy(left) {
				return left, nil
			}
		}
		return in.eval(e.Right)

	case *ast.VariableExpr:
		return in.lookUpVariable(e.Name, e)

	case *ast.AssignExpr:
		v, err := in.eval(e.Value)
		if err != nil {
			return nil, err
		}
		if dist, ok := in.locals[e]; ok {
			in.env.AssignAt(dist, e.Name.Lexeme, v)
		} else if !in.Globals.Assign(e.Name.Lexeme, v) {
			return nil, in.undefined(e.Name)
		}
		return v, nil

	case *ast.CallExpr:
		return in.evalCall(e)

	case *ast.GetExpr:
		obj, err := in.eval(e.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, &RuntimeError{Span: e.Name.Span, Message: "only instances have properties"}
		}
		return inst.Get(e.Name)

	case *ast.SetExpr:
		obj, err := in.eval(e.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, &RuntimeError{Span: e.Name.Span, Message: "only instances have fields"}
		}
		v, err := in.eval(e.Value)
		if err != nil {
			return nil, err
		}
		inst.Set(e.Name, v)
		return v, nil

	case *ast.ThisExpr:
		return in.lookUpVariable(e.Keyword, e)

	default:
		return nil, fmt.Errorf("interpreter: unhandled expression type %T", expr)
	}
}

func (in *Interpreter) lookUpVariable(name token.Token, expr ast.Expr) (Value, error) {
	if dist, ok := in.locals[expr]; ok {
		return in.env.GetAt(dist, name.Lexeme), nil
	}
	if v, ok := in.Globals.Get(name.Lexeme); ok {
		return v, nil
	}
	return nil, in.undefined(name)
}

func (in *Interpreter) undefined(name token.Token) error {
	return &RuntimeError{Span: name.Span, Message: fmt.Sprintf("undefined variable %q", name.Lexeme)}
}

func (in *Interpreter) typeError(span token.Span, msg string, vs ...Value) error {
	return &RuntimeError{Span: span, Message: fmt.Sprintf("%s (got %s)", msg, joinTypes(vs...))}
}

func (in *Interpreter) evalBinary(e *ast.BinaryExpr) (Value, error) {
	left, err := in.eval(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.eval(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.EQEQ:
		return IsEqual(left, right), nil
	case token.BANGEQ:
		return !IsEqual(left, right), nil
	case token.PLUS:
		if ln, ok := left.(float64); ok {
			if rn, ok := right.(float64); ok {
				return ln + rn, nil
			}
		}
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
		return nil, in.typeError(e.Op.Span, fmt.Sprintf("operator %q requires two numbers or two strings", e.Op.Lexeme), left, right)
	}

	ln, lok := left.(float64)
	rn, rok := right.(float64)
	if !lok || !rok {
		return nil, in.typeError(e.Op.Span, fmt.Sprintf("operator %q requires numbers", e.Op.Lexeme), left, right)
	}

	switch e.Op.Kind {
	case token.MINUS:
		return ln - rn, nil
	case token.STAR:
		return ln * rn, nil
	case token.SLASH:
		return ln / rn, nil
	case token.GT:
		return ln > rn, nil
	case token.GTEQ:
		return ln >= rn, nil
	case token.LT:
		return ln < rn, nil
	case token.LTEQ:
		return ln <= rn, nil
	}
	return nil, fmt.Errorf("interpreter: unhandled binary operator %s", e.Op.Kind)
}

func (in *Interpreter) evalCall(e *ast.CallExpr) (Value, error) {
	callee, err := in.eval(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := in.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, &RuntimeError{Span: e.Paren.Span, Message: "can only call functions and classes"}
	}
	if len(args) != fn.Arity() {
		return nil, &RuntimeError{
			Span:    e.Paren.Span,
			Message: fmt.Sprintf("expected %d arguments but got %d", fn.Arity(), len(args)),
		}
	}
	return fn.Call(in, args)
}
