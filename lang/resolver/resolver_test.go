package resolver_test

import (
	"testing"

	"github.com/mna/loxide/lang/ast"
	"github.com/mna/loxide/lang/diag"
	"github.com/mna/loxide/lang/parser"
	"github.com/mna/loxide/lang/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, src string) (*ast.Program, resolver.Locals, error) {
	t.Helper()
	prog, _, err := parser.Parse("test.lox", []byte(src))
	require.NoError(t, err)

	var errs diag.ErrorList
	r := resolver.New(&errs)
	locals := r.Resolve(prog)
	return prog, locals, errs.Err()
}

func TestResolveGlobalIsAbsentFromTable(t *testing.T) {
	prog, locals, err := resolve(t, `var x = 1; print x;`)
	require.NoError(t, err)
	printStmt := prog.Stmts[1].(*ast.PrintStmt)
	varExpr := printStmt.Expr.(*ast.VariableExpr)
	_, ok := locals[varExpr]
	assert.False(t, ok)
}

func TestResolveLocalDistanceZero(t *testing.T) {
	prog, locals, err := resolve(t, `{ var x = 1; print x; }`)
	require.NoError(t, err)
	block := prog.Stmts[0].(*ast.BlockStmt)
	printStmt := block.Stmts[1].(*ast.PrintStmt)
	varExpr := printStmt.Expr.(*ast.VariableExpr)
	assert.Equal(t, 0, locals[varExpr])
}

func TestResolveOuterBlockDistance(t *testing.T) {
	prog, locals, err := resolve(t, `{ var x = 1; { print x; } }`)
	require.NoError(t, err)
	outer := prog.Stmts[0].(*ast.BlockStmt)
	inner := outer.Stmts[1].(*ast.BlockStmt)
	printStmt := inner.Stmts[0].(*ast.PrintStmt)
	varExpr := printStmt.Expr.(*ast.VariableExpr)
	assert.Equal(t, 1, locals[varExpr])
}

func TestResolveFunctionParamDistance(t *testing.T) {
	prog, locals, err := resolve(t, `fun f(a) { print a; }`)
	require.NoError(t, err)
	fn := prog.Stmts[0].(*ast.FunStmt)
	printStmt := fn.Body[0].(*ast.PrintStmt)
	varExpr := printStmt.Expr.(*ast.VariableExpr)
	assert.Equal(t, 0, locals[varExpr])
}

func TestResolveClosureCapturesEnclosingDistance(t *testing.T) {
	prog, locals, err := resolve(t, `
fun outer() {
  var x = 1;
  fun inner() {
    print x;
  }
}
`)
	require.NoError(t, err)
	outer := prog.Stmts[0].(*ast.FunStmt)
	inner := outer.Body[1].(*ast.FunStmt)
	printStmt := inner.Body[0].(*ast.PrintStmt)
	varExpr := printStmt.Expr.(*ast.VariableExpr)
	// one scope for inner's own (empty) body scope push from resolveFunction
	// plus inner's param scope sits at distance 1 above that.
	assert.Equal(t, 1, locals[varExpr])
}

func TestResolveReadInOwnInitializerIsAnError(t *testing.T) {
	_, _, err := resolve(t, `{ var x = x; }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "own initializer")
}

func TestResolveShadowingInNestedScopeIsFine(t *testing.T) {
	_, _, err := resolve(t, `var x = 1; { var x = x; }`)
	require.NoError(t, err)
}

func TestResolveRedeclareInSameScopeIsAnError(t *testing.T) {
	_, _, err := resolve(t, `{ var x = 1; var x = 2; }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already declared")
}

func TestResolveRedeclareAtTopLevelIsAllowed(t *testing.T) {
	_, _, err := resolve(t, `var x = 1; var x = 2;`)
	require.NoError(t, err)
}

func TestResolveThisInsideMethodResolves(t *testing.T) {
	prog, locals, err := resolve(t, `
class Greeter {
  greet() {
    print this;
  }
}
`)
	require.NoError(t, err)
	cls := prog.Stmts[0].(*ast.ClassStmt)
	method := cls.Methods[0]
	printStmt := method.Body[0].(*ast.PrintStmt)
	thisExpr := printStmt.Expr.(*ast.ThisExpr)
	assert.Equal(t, 1, locals[thisExpr])
}

func TestResolveThisOutsideMethodIsAnError(t *testing.T) {
	_, _, err := resolve(t, `print this;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'this' outside")
}

func TestResolveAssignmentDistance(t *testing.T) {
	prog, locals, err := resolve(t, `{ var x = 1; x = 2; }`)
	require.NoError(t, err)
	block := prog.Stmts[0].(*ast.BlockStmt)
	exprStmt := block.Stmts[1].(*ast.ExpressionStmt)
	assign := exprStmt.Expr.(*ast.AssignExpr)
	assert.Equal(t, 0, locals[assign])
}

func TestResolveGlobalAssignmentIsAbsentFromTable(t *testing.T) {
	prog, locals, err := resolve(t, `var x = 1; x = 2;`)
	require.NoError(t, err)
	exprStmt := prog.Stmts[1].(*ast.ExpressionStmt)
	assign := exprStmt.Expr.(*ast.AssignExpr)
	_, ok := locals[assign]
	assert.False(t, ok)
}
