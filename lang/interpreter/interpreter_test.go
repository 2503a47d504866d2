package interpreter_test

import (
	"bytes"
	"testing"

	"github.com/mna/loxide/lang/diag"
	"github.com/mna/loxide/lang/interpreter"
	"github.com/mna/loxide/lang/parser"
	"github.com/mna/loxide/lang/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	prog, _, err := parser.Parse("test.lox", []byte(src))
	require.NoError(t, err)

	var errs diag.ErrorList
	locals := resolver.New(&errs).Resolve(prog)
	require.NoError(t, errs.Err())

	var out bytes.Buffer
	in := interpreter.NewInterpreter(&out)
	runErr := in.Run(prog, locals)
	return out.String(), runErr
}

func TestInterpretArithmeticPrecedence(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestInterpretStringConcatenation(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	require.NoError(t, err)
	assert.Equal(t, "foobar\n", out)
}

func TestInterpretMixedPlusIsTypeError(t *testing.T) {
	_, err := run(t, `print "foo" + 1;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `operator "+" requires two numbers or two strings`)
}

func TestInterpretComparisons(t *testing.T) {
	out, err := run(t, `print 1 < 2; print 2 <= 2; print 3 > 4;`)
	require.NoError(t, err)
	assert.Equal(t, "true\ntrue\nfalse\n", out)
}

func TestInterpretEqualityAcrossTypesNeverErrors(t *testing.T) {
	out, err := run(t, `print 1 == "1"; print nil == false;`)
	require.NoError(t, err)
	assert.Equal(t, "false\nfalse\n", out)
}

func TestInterpretTruthiness(t *testing.T) {
	out, err := run(t, `
if (0) print "zero is truthy"; else print "unreachable";
if ("") print "empty string is truthy"; else print "unreachable";
if (nil) print "unreachable"; else print "nil is falsy";
if (false) print "unreachable"; else print "false is falsy";
`)
	require.NoError(t, err)
	assert.Equal(t, "zero is truthy\nempty string is truthy\nnil is falsy\nfalse is falsy\n", out)
}

func TestInterpretLogicalReturnsOperandValueNotBoolean(t *testing.T) {
	out, err := run(t, `print nil or "fallback"; print "first" and "second";`)
	require.NoError(t, err)
	assert.Equal(t, "fallback\nsecond\n", out)
}

func TestInterpretVarAndBlockScoping(t *testing.T) {
	out, err := run(t, `
var x = "global";
{
  var x = "local";
  print x;
}
print x;
`)
	require.NoError(t, err)
	assert.Equal(t, "local\nglobal\n", out)
}

func TestInterpretWhileLoop(t *testing.T) {
	out, err := run(t, `
var i = 0;
while (i < 3) {
  print i;
  i = i + 1;
}
`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestInterpretForLoop(t *testing.T) {
	out, err := run(t, `
for (var i = 0; i < 3; i = i + 1) print i;
`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestInterpretFunctionReturnValue(t *testing.T) {
	out, err := run(t, `
fun add(a, b) { return a + b; }
print add(1, 2);
`)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestInterpretFunctionWithoutReturnYieldsNil(t *testing.T) {
	out, err := run(t, `
fun noop() {}
print noop();
`)
	require.NoError(t, err)
	assert.Equal(t, "nil\n", out)
}

func TestInterpretClosureCapturesDeclarationEnvironment(t *testing.T) {
	out, err := run(t, `
fun makeCounter() {
  var count = 0;
  fun counter() {
    count = count + 1;
    return count;
  }
  return counter;
}
var c = makeCounter();
print c();
print c();
print c();
`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestInterpretRecursion(t *testing.T) {
	out, err := run(t, `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(10);
`)
	require.NoError(t, err)
	assert.Equal(t, "55\n", out)
}

func TestInterpretClassConstructionAndMethod(t *testing.T) {
	out, err := run(t, `
class Greeter {
  greet() {
    print "hello";
  }
}
var g = Greeter();
g.greet();
`)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestInterpretInstanceFields(t *testing.T) {
	out, err := run(t, `
class Box {
  empty() {
    return this.value == nil;
  }
}
var b = Box();
b.value = nil;
print b.empty();
b.value = 42;
print b.value;
print b.empty();
`)
	require.NoError(t, err)
	assert.Equal(t, "true\n42\nfalse\n", out)
}

func TestInterpretMethodBindingCapturesReceiver(t *testing.T) {
	out, err := run(t, `
class Counter {
  increment() {
    this.count = this.count + 1;
    return this.count;
  }
}
var c = Counter();
c.count = 0;
print c.increment();
print c.increment();
`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", out)
}

func TestInterpretUndefinedVariableIsRuntimeError(t *testing.T) {
	_, err := run(t, `print undefined_name;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined variable")
}

func TestInterpretUndefinedPropertyIsRuntimeError(t *testing.T) {
	_, err := run(t, `
class Box {}
var b = Box();
print b.missing;
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined property")
}

func TestInterpretCallingNonCallableIsRuntimeError(t *testing.T) {
	_, err := run(t, `var x = 1; x();`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can only call functions and classes")
}

func TestInterpretArityMismatchIsRuntimeError(t *testing.T) {
	_, err := run(t, `
fun f(a, b) { return a + b; }
f(1);
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 arguments but got 1")
}

func TestInterpretNativeClockIsCallableAndReturnsNumber(t *testing.T) {
	out, err := run(t, `
var t = clock();
print t >= 0;
`)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestInterpretUnaryNegationRequiresNumber(t *testing.T) {
	_, err := run(t, `-"foo";`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `operand of "-" must be a number`)
}

func TestInterpretAssignmentToUndefinedGlobalIsRuntimeError(t *testing.T) {
	_, err := run(t, `x = 1;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined variable")
}
