package interpreter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mna/loxide/lang/ast"
	"github.com/mna/loxide/lang/token"
)

// Value is a runtime value: nil, bool, float64, string, *Function,
// *NativeFunction, *Class or *Instance. There is no separate tagged-union
// wrapper; Go's empty interface plus a type switch at each use site plays
// that role, matching how the language's runtime values are untyped until
// they meet an operation that cares.
type Value = any

// Callable is implemented by every value that can appear as a Call
// expression's callee.
type Callable interface {
	Value
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
	String() string
}

// Function is a user-defined function or method: its declaration plus the
// environment that was active when it was declared, which is what makes
// closures work.
type Function struct {
	Decl    *ast.FunStmt
	Closure *Environment
}

func (f *Function) Arity() int { return len(f.Decl.Params) }

func (f *Function) String() string { return fmt.Sprintf("<function %s>", f.Decl.Name.Lexeme) }

// Call invokes f with args already evaluated. A frame is pushed with parent
// set to f.Closure, never the caller's environment, so the function only
// ever sees the lexical scope where it was declared.
func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for i, p := range f.Decl.Params {
		env.Define(p.Lexeme, args[i])
	}

	err := in.executeBlock(f.Decl.Body, env)
	if ret, ok := err.(*returnSignal); ok {
		return ret.value, nil
	}
	if err != nil {
		return nil, err
	}
	return nil, nil
}

// bind returns a copy of f whose closure has an extra frame defining "this"
// as instance. It is produced fresh every time a method is read off an
// instance, so repeated reads of the same method yield distinct (but
// behaviorally identical) function values.
func (f *Function) bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	return &Function{Decl: f.Decl, Closure: env}
}

// NativeFunction wraps a Go function as a callable Lox value, used for
// intrinsics like clock that have no Lox-level definition.
type NativeFunction struct {
	Name string
	Arit int
	Fn   func(in *Interpreter, args []Value) (Value, error)
}

func (n *NativeFunction) Arity() int { return n.Arit }
func (n *NativeFunction) String() string { return fmt.Sprintf("<native fn: %s>", n.Name) }
func (n *NativeFunction) Call(in *Interpreter, args []Value) (Value, error) {
	return n.Fn(in, args)
}

// Class is a callable value; calling it constructs a fresh Instance. There
// is no initializer support in this core: construction always takes zero
// arguments.
type Class struct {
	Name    token.Token
	Methods map[string]*Function
}

func (c *Class) Arity() int      { return 0 }
func (c *Class) String() string  { return c.Name.Lexeme }
func (c *Class) Call(in *Interpreter, args []Value) (Value, error) {
	return &Instance{Class: c, Fields: make(map[string]Value)}, nil
}

// findMethod looks up name in the class's own method table. There is no
// inheritance in this core, so no superclass chain to walk.
func (c *Class) findMethod(name string) (*Function, bool) {
	m, ok := c.Methods[name]
	return m, ok
}

// Instance is a shared, interior-mutable record. Two instance values are
// equal only when they are the same underlying record, which Go's pointer
// equality gives for free.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func (i *Instance) String() string { return "[" + i.Class.Name.Lexeme + "]" }

// Get reads a property off the instance: fields take precedence over
// methods, and a method read binds "this" fresh on every access.
func (i *Instance) Get(name token.Token) (Value, error) {
	if v, ok := i.Fields[name.Lexeme]; ok {
		return v, nil
	}
	if m, ok := i.Class.findMethod(name.Lexeme); ok {
		return m.bind(i), nil
	}
	return nil, &RuntimeError{Span: name.Span, Message: fmt.Sprintf("undefined property %q", name.Lexeme)}
}

func (i *Instance) Set(name token.Token, value Value) {
	i.Fields[name.Lexeme] = value
}

// IsTruthy implements the language's truthiness rule: nil and false are
// falsy, everything else (including 0 and "") is truthy.
func IsTruthy(v Value) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// IsEqual implements LoxValue equality: nil equals only nil, numbers and
// strings and bools compare by value, and everything else (functions,
// classes, instances) compares by identity.
func IsEqual(a, b Value) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return a == b
	}
}

// Stringify renders v in the display form used by print and the REPL.
func Stringify(v Value) string {
	switch vv := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(vv)
	case float64:
		s := strconv.FormatFloat(vv, 'f', -1, 64)
		return s
	case string:
		return vv
	case fmt.Stringer:
		return vv.String()
	default:
		return fmt.Sprintf("%v", vv)
	}
}

// TypeName returns the human-readable type name of v, used in runtime type
// error messages.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "nil"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case *Function, *NativeFunction:
		return "function"
	case *Class:
		return "class"
	case *Instance:
		return "instance"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// joinTypes is a small helper for multi-operand type error messages.
func joinTypes(vs ...Value) string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = TypeName(v)
	}
	return strings.Join(names, ", ")
}
