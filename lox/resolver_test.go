package lox

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func resolveString(src string) ([]Stmt, Locals, *Collector) {
	stmts, diags, err := parseString(src)
	panicOn(err)
	r := NewResolver(diags)
	return stmts, r.Resolve(stmts), diags
}

func Test200ResolverCountsHopsToTheDeclaringScope(t *testing.T) {

	cv.Convey(`Given nested blocks, a reference should resolve to the number of scopes between it and its declaration`, t, func() {

		stmts, locals, diags := resolveString(`
var g = 0;
{
  var a = 1;
  {
    print a;
    print g;
  }
}`)
		inner := stmts[1].(*BlockStmt).Stmts[1].(*BlockStmt)
		a := inner.Stmts[0].(*PrintStmt).Expression
		g := inner.Stmts[1].(*PrintStmt).Expression

		depth, ok := locals[a]
		cv.So(ok, cv.ShouldBeTrue)
		cv.So(depth, cv.ShouldEqual, 1)

		// globals get no entry.
		_, ok = locals[g]
		cv.So(ok, cv.ShouldBeFalse)
		cv.So(len(diags.Diags), cv.ShouldEqual, 0)
	})
}

func Test201ResolverParametersSitBelowTheBodyBlock(t *testing.T) {

	cv.Convey(`Inside a function body, parameters should be one hop out and body locals zero hops`, t, func() {

		stmts, locals, _ := resolveString(`
fun f(x) {
  var y = x;
  print y;
}`)
		fun := stmts[0].(*FunctionStmt)
		x := fun.Body[0].(*VarStmt).Init
		y := fun.Body[1].(*PrintStmt).Expression
		cv.So(locals[x], cv.ShouldEqual, 1)
		cv.So(locals[y], cv.ShouldEqual, 0)
	})
}

func Test202ResolverKeysAssignmentsOnTheAssignNode(t *testing.T) {

	cv.Convey(`An assignment to a captured local should be recorded against the assignment expression`, t, func() {

		stmts, locals, _ := resolveString(`
fun counter() {
  var i = 0;
  fun count() { i = i + 1; return i; }
  return count;
}`)
		count := stmts[0].(*FunctionStmt).Body[1].(*FunctionStmt)
		assign := count.Body[0].(*ExpressionStmt).Expression.(*Assign)
		read := count.Body[1].(*ReturnStmt).Value

		cv.So(locals[assign], cv.ShouldEqual, 2)
		cv.So(locals[assign.Value.(*Binary).Left], cv.ShouldEqual, 2)
		cv.So(locals[read], cv.ShouldEqual, 2)
	})
}

func Test203ResolverDiagnosticsDoNotStopResolution(t *testing.T) {

	cv.Convey(`A local read in its own initializer is a warning and a top-level return is an error, but neither stops resolution`, t, func() {

		_, locals, diags := resolveString(`
{ var a = a; }
return 1;
{ var b = 2; print b; }`)
		cv.So(len(diags.Diags), cv.ShouldEqual, 2)
		cv.So(diags.Diags[0].Warning, cv.ShouldBeTrue)
		cv.So(diags.Diags[0].Line, cv.ShouldEqual, 2)
		cv.So(diags.Diags[1].Warning, cv.ShouldBeFalse)
		cv.So(diags.Diags[1].Stage, cv.ShouldEqual, StageResolve)
		cv.So(diags.Diags[1].Line, cv.ShouldEqual, 3)

		// the later block was still resolved.
		cv.So(len(locals), cv.ShouldEqual, 2)
	})
}

func Test204ResolverAccumulatesAcrossCalls(t *testing.T) {

	cv.Convey(`Resolving a second chunk should add to the same table, as the repl does line by line`, t, func() {

		r := NewResolver(nil)
		first, _, _ := parseString(`{ var a = 1; print a; }`)
		second, _, _ := parseString(`{ var b = 1; print b; }`)
		r.Resolve(first)
		locals := r.Resolve(second)
		cv.So(len(locals), cv.ShouldEqual, 2)
		cv.So(len(r.Locals()), cv.ShouldEqual, 2)
	})
}

func Test205ResolverWarnsWhenALaterLocalShadowsACapturedGlobal(t *testing.T) {

	cv.Convey(`A block local declared after a closure that reads the global of the same name should draw one warning`, t, func() {

		_, _, diags := resolveString(`
var a = "global";
{
  fun show() { print a; print a; }
  show();
  var a = "block";
  show();
}`)
		ws := diags.Warnings()
		cv.So(len(ws), cv.ShouldEqual, 1)
		cv.So(ws[0].Line, cv.ShouldEqual, 6)
		cv.So(ws[0].Message, cv.ShouldContainSubstring, "line 4")

		cv.Convey(`but not when the local comes first, or sits inside the closure itself`, func() {
			_, _, diags := resolveString(`
{
  var a = 1;
  fun show() { print a; }
}
{
  fun f() { print b; var b = 2; }
}`)
			cv.So(len(diags.Diags), cv.ShouldEqual, 0)
		})
	})
}
