package lox

import (
	"fmt"
	"time"
)

// NativeFunction is the Go side of a host-provided callable.
type NativeFunction func(interp *Interpreter, args []Value) (Value, error)

// LoxFunction is the one callable value type. native selects between a
// Go implementation and a declaration plus the scope it closed over.
type LoxFunction struct {
	name    string
	nargs   int
	native  bool
	userfun NativeFunction

	decl    *FunctionStmt
	closure *Scope[Value]
}

func MakeUserFunction(decl *FunctionStmt, closure *Scope[Value]) *LoxFunction {
	return &LoxFunction{
		name:    decl.Name.Str,
		nargs:   len(decl.Params),
		decl:    decl,
		closure: closure,
	}
}

func MakeNativeFunction(name string, nargs int, fun NativeFunction) *LoxFunction {
	return &LoxFunction{
		name:    name,
		nargs:   nargs,
		native:  true,
		userfun: fun,
	}
}

func (f *LoxFunction) Name() string   { return f.name }
func (f *LoxFunction) Arity() int     { return f.nargs }
func (f *LoxFunction) IsNative() bool { return f.native }

func (f *LoxFunction) ValueString() string {
	if f.IsNative() {
		return fmt.Sprintf("<native fn %s>", f.name)
	}
	return fmt.Sprintf("<fn %s>", f.name)
}

func (f *LoxFunction) TypeName() string { return "function" }

// Call runs f with already-evaluated arguments. Arity has been checked.
func (f *LoxFunction) Call(interp *Interpreter, args []Value) (Value, error) {
	if f.IsNative() {
		val, err := f.userfun(interp, args)
		if val == nil {
			val = Nil
		}
		return val, err
	}

	// parameters live in their own scope on top of the captured
	// chain; the body block then pushes one more, as the resolver expects.
	params := NewNamedScope(f.name, f.closure)
	for i, param := range f.decl.Params {
		params.Map[param.Str] = args[i]
	}

	saved := interp.env.Top
	interp.env.Top = params
	defer func() {
		interp.env.Top = saved
	}()

	err := interp.executeBlock(f.decl.Body)
	if err != nil {
		if ret, ok := err.(*returnSignal); ok {
			return ret.value, nil
		}
		return Nil, err
	}
	return Nil, nil
}

// ClockFunction returns wall-clock milliseconds since the Unix epoch.
func ClockFunction(interp *Interpreter, args []Value) (Value, error) {
	return LoxNumber(float64(time.Now().UnixMilli())), nil
}

// NativeFunctions is the full host binding table seeded into globals.
func NativeFunctions() map[string]*LoxFunction {
	return map[string]*LoxFunction{
		"clock": MakeNativeFunction("clock", 0, ClockFunction),
	}
}

// NewGlobals builds the bottom scope, seeded with the native bindings.
func NewGlobals() *Scope[Value] {
	glob := NewNamedScope[Value]("global", nil)
	for name, fun := range NativeFunctions() {
		glob.Map[name] = fun
	}
	return glob
}
