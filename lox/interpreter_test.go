package lox

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

// runLox evaluates src in a fresh session and returns what it printed.
func runLox(src string) (string, *Lox, error) {
	var out bytes.Buffer
	l := NewLoxWithGlobals(NewGlobals(), &out, nil)
	err := l.EvalString(src)
	return out.String(), l, err
}

func runtimeKind(err error) RuntimeErrorKind {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Kind
	}
	return 0
}

func Test400PrintRendersValues(t *testing.T) {

	cv.Convey(`print should render numbers without trailing zeros, strings raw, nil as null and functions by name`, t, func() {

		out, _, err := runLox(`
print 1 + 2;
print 7 / 2;
print -3 * 2;
print "a" + "b";
print nil;
print true;
print !nil;
print 1 / 0;
print -1 / 0;
print 0 / 0;
fun f() {}
print f;
print clock;
`)
		cv.So(err, cv.ShouldBeNil)
		cv.So(out, cv.ShouldEqual, "3\n3.5\n-6\nab\nnull\ntrue\ntrue\ninf\n-inf\nNaN\n<fn f>\n<native fn clock>\n")
	})
}

func Test401EqualityAndTruthiness(t *testing.T) {

	cv.Convey(`Equality never crosses types, and only nil and false are falsy`, t, func() {

		out, _, err := runLox(`
print 1 == 1;
print "a" == "a";
print nil == nil;
print nil == false;
print 1 == "1";
print 1 != 2;
if (0) print "zero is truthy";
if ("") print "empty string is truthy";
if (nil) print "no"; else print "nil is falsy";
`)
		cv.So(err, cv.ShouldBeNil)
		cv.So(out, cv.ShouldEqual, "true\ntrue\ntrue\nfalse\nfalse\ntrue\nzero is truthy\nempty string is truthy\nnil is falsy\n")
	})
}

func Test402LogicalOperatorsShortCircuitAndReturnOperands(t *testing.T) {

	cv.Convey(`and/or should return the operand that decided the result and skip the other side`, t, func() {

		out, _, err := runLox(`
print nil or "x";
print 1 and 2;
print false and 1;
var hit = false;
fun touch() { hit = true; return true; }
print true or touch();
print hit;
print false and touch();
print hit;
`)
		cv.So(err, cv.ShouldBeNil)
		cv.So(out, cv.ShouldEqual, "x\n2\nfalse\ntrue\nfalse\nfalse\nfalse\n")
	})
}

func Test403BlocksShadowAndRestore(t *testing.T) {

	cv.Convey(`A block should shadow outer names and the outer binding should return afterwards`, t, func() {

		out, _, err := runLox(`
var a = "outer";
{
  var a = "inner";
  print a;
  {
    a = "assigned";
    print a;
  }
  print a;
}
print a;
`)
		cv.So(err, cv.ShouldBeNil)
		cv.So(out, cv.ShouldEqual, "inner\nassigned\nassigned\nouter\n")
	})
}

func Test404LoopsForMatchesWhile(t *testing.T) {

	cv.Convey(`A for loop should print exactly what the equivalent hand-written while loop prints`, t, func() {

		forOut, _, err := runLox(`for (var i = 0; i < 3; i = i + 1) print i;`)
		cv.So(err, cv.ShouldBeNil)
		whileOut, _, err := runLox(`{ var i = 0; while (i < 3) { print i; i = i + 1; } }`)
		cv.So(err, cv.ShouldBeNil)
		cv.So(forOut, cv.ShouldEqual, "0\n1\n2\n")
		cv.So(forOut, cv.ShouldEqual, whileOut)

		cv.Convey(`and the loop variable does not leak`, func() {
			_, _, err := runLox(`for (var i = 0; i < 1; i = i + 1) {} print i;`)
			cv.So(runtimeKind(err), cv.ShouldEqual, UndefinedVariable)
		})
	})
}

func Test405FunctionsRecursionAndReturn(t *testing.T) {

	cv.Convey(`Functions should recurse, return values, and return nil when they fall off the end`, t, func() {

		out, _, err := runLox(`
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(10);
fun early(x) {
  while (true) {
    if (x > 3) return x;
    x = x + 1;
  }
}
print early(0);
fun none() { return; }
print none();
fun empty() {}
print empty();
`)
		cv.So(err, cv.ShouldBeNil)
		cv.So(out, cv.ShouldEqual, "55\n4\nnull\nnull\n")
	})
}

func Test406ClosuresCaptureTheirDeclaringScope(t *testing.T) {

	cv.Convey(`Each counter should keep its own captured variable alive across calls`, t, func() {

		out, _, err := runLox(`
fun makeCounter() {
  var i = 0;
  fun count() {
    i = i + 1;
    return i;
  }
  return count;
}
var c = makeCounter();
print c();
print c();
var d = makeCounter();
print d();
print c();
`)
		cv.So(err, cv.ShouldBeNil)
		cv.So(out, cv.ShouldEqual, "1\n2\n1\n3\n")

		cv.Convey(`and arguments are bound in the closure, not the caller`, func() {
			out, _, err := runLox(`
fun adder(n) {
  fun add(x) { return x + n; }
  return add;
}
var add2 = adder(2);
var n = 100;
print add2(1);
{
  var n = 1000;
  print add2(5);
}
`)
			cv.So(err, cv.ShouldBeNil)
			cv.So(out, cv.ShouldEqual, "3\n7\n")
		})
	})
}

func Test407RuntimeErrorsEndOnlyTheirStatement(t *testing.T) {

	cv.Convey(`A runtime error should stop its own top-level statement and the rest of the program should still run`, t, func() {

		out, l, err := runLox(`
print 1 + "a";
print 2;
fun bad() { var x = 1; return x + nil; }
bad();
var after = 3;
print after;
`)
		cv.So(out, cv.ShouldEqual, "2\n3\n")
		cv.So(runtimeKind(err), cv.ShouldEqual, TypeMismatch)
		cv.So(strings.Count(err.Error(), "type mismatch"), cv.ShouldEqual, 2)

		// the failed call must not leave its scopes behind.
		interp := l.Interpreter()
		cv.So(interp.Env().Top, cv.ShouldEqual, interp.Globals())
		cv.So(interp.Globals().Map["after"], cv.ShouldResemble, LoxNumber(3))
	})
}

func Test408RuntimeErrorKinds(t *testing.T) {

	cv.Convey(`Each kind of runtime failure should be reported with its own kind and line`, t, func() {

		cases := []struct {
			src  string
			kind RuntimeErrorKind
		}{
			{`print -"a";`, TypeMismatch},
			{`print 1 < "2";`, TypeMismatch},
			{`print y;`, UndefinedVariable},
			{`y = 1;`, UndefinedVariable},
			{`"a"();`, NotCallable},
			{`fun f(a) {} f(1, 2);`, ArityMismatch},
			{`clock(1);`, ArityMismatch},
			{`return 1;`, ReturnOutsideFunction},
		}
		for _, c := range cases {
			_, _, err := runLox(c.src)
			cv.So(runtimeKind(err), cv.ShouldEqual, c.kind)
		}

		_, _, err := runLox("var a = 1;\n\nprint a + nil;")
		var re *RuntimeError
		cv.So(errors.As(err, &re), cv.ShouldBeTrue)
		cv.So(re.Line, cv.ShouldEqual, 3)

		_, _, err = runLox(`print nope;`)
		cv.So(errors.Is(err, ErrUndefinedVariable), cv.ShouldBeTrue)
	})
}

func Test409ScanErrorsRunNothing(t *testing.T) {

	cv.Convey(`A scan error anywhere in the source should prevent every statement from running`, t, func() {

		out, _, err := runLox("print 1;\nprint @;")
		cv.So(out, cv.ShouldEqual, "")
		cv.So(errors.Is(err, ErrScanFailed), cv.ShouldBeTrue)
		var se *ScanError
		cv.So(errors.As(err, &se), cv.ShouldBeTrue)
		cv.So(se.Line, cv.ShouldEqual, 2)
	})
}

func Test410ParseErrorsDropOnlyTheBrokenStatement(t *testing.T) {

	cv.Convey(`The statements that parsed should run even when another one did not`, t, func() {

		out, l, err := runLox("print 1;\nprint ;\nprint 3;")
		cv.So(out, cv.ShouldEqual, "1\n3\n")
		var perrs ParseErrors
		cv.So(errors.As(err, &perrs), cv.ShouldBeTrue)
		cv.So(len(l.Diagnostics().Diags), cv.ShouldEqual, 1)
	})
}

func Test411InjectedNativeFunctions(t *testing.T) {

	cv.Convey(`A host should be able to seed the global scope with its own natives`, t, func() {

		globals := NewGlobals()
		globals.Map["add"] = MakeNativeFunction("add", 2, func(interp *Interpreter, args []Value) (Value, error) {
			a, _ := castToNumber(args[0])
			b, _ := castToNumber(args[1])
			return LoxNumber(a + b), nil
		})
		globals.Map["nothing"] = MakeNativeFunction("nothing", 0, func(interp *Interpreter, args []Value) (Value, error) {
			return nil, nil
		})

		var out bytes.Buffer
		l := NewLoxWithGlobals(globals, &out, nil)
		err := l.EvalString(`print add(2, 3); print nothing(); print clock() > 0;`)
		cv.So(err, cv.ShouldBeNil)
		cv.So(out.String(), cv.ShouldEqual, "5\nnull\ntrue\n")

		cv.So(l.EvalString(`fun mine() {}`), cv.ShouldBeNil)
		for name, native := range map[string]bool{"add": true, "clock": true, "mine": false} {
			fn, ok := l.Interpreter().Globals().Map[name].(*LoxFunction)
			cv.So(ok, cv.ShouldBeTrue)
			cv.So(fn.IsNative(), cv.ShouldEqual, native)
		}
	})
}

func Test412SessionKeepsGlobalsBetweenChunks(t *testing.T) {

	cv.Convey(`Evaluating source in pieces should see earlier definitions, as the repl does`, t, func() {

		var out bytes.Buffer
		l := NewLoxWithGlobals(NewGlobals(), &out, nil)
		cv.So(l.EvalString(`var x = 1;`), cv.ShouldBeNil)
		cv.So(l.EvalString(`fun f() { var y = 1; return x + y; }`), cv.ShouldBeNil)
		cv.So(l.EvalString(`x = 10;`), cv.ShouldBeNil)
		cv.So(l.EvalString(`print f();`), cv.ShouldBeNil)
		cv.So(out.String(), cv.ShouldEqual, "11\n")
	})
}

func Test413TraceDumpsScopes(t *testing.T) {

	cv.Convey(`DumpEnvironment should show the bindings of the current chain`, t, func() {

		_, l, err := runLox(`var answer = 42;`)
		cv.So(err, cv.ShouldBeNil)
		dump := l.Interpreter().DumpEnvironment()
		cv.So(dump, cv.ShouldContainSubstring, "answer")
		cv.So(dump, cv.ShouldContainSubstring, "42")
	})
}

func Test414VerboseLogsEachStage(t *testing.T) {

	cv.Convey(`With Verbose on, every pipeline stage should log a timed line, and trace mode should log each statement`, t, func() {

		var log bytes.Buffer
		OurStdout = &log
		Verbose = true
		defer func() {
			OurStdout = os.Stdout
			Verbose = false
		}()

		var out bytes.Buffer
		l := NewLoxWithGlobals(NewGlobals(), &out, nil)
		l.SetTrace(true)
		cv.So(l.EvalString(`var a = 1; print a;`), cv.ShouldBeNil)

		cv.So(out.String(), cv.ShouldEqual, "1\n")
		for _, stage := range []string{"scan:", "parse:", "resolve:", "runtime:"} {
			cv.So(log.String(), cv.ShouldContainSubstring, stage)
		}
		cv.So(log.String(), cv.ShouldContainSubstring, "exec (print a)")
	})
}

func Test415FreeVariableSeesALaterBlockLocal(t *testing.T) {

	cv.Convey(`A closure's unresolved free variable should find a block local declared after it, and the resolver should say so`, t, func() {

		var out, errOut bytes.Buffer
		l := NewLoxWithGlobals(NewGlobals(), &out, &errOut)
		err := l.EvalString(`var a = "global"; { fun show() { print a; } show(); var a = "block"; show(); }`)
		cv.So(err, cv.ShouldBeNil)
		cv.So(out.String(), cv.ShouldEqual, "global\nblock\n")
		cv.So(len(l.Diagnostics().Warnings()), cv.ShouldEqual, 1)
		cv.So(errOut.String(), cv.ShouldContainSubstring, "shadows the global")
	})
}
