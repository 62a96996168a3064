package lox

import (
	"fmt"
	"io"
	"os"

	"github.com/shurcooL/go-goon"
)

// Interpreter walks the tree. The global scope is built by the caller
// and handed in, so tests can inject their own bindings.
type Interpreter struct {
	globals *Scope[Value]
	env     *Environment[Value]
	locals  Locals
	out     io.Writer

	// Trace logs each top-level statement and dumps the scope chain
	// when one fails.
	Trace bool
}

func NewInterpreter(globals *Scope[Value], out io.Writer) *Interpreter {
	if globals == nil {
		globals = NewGlobals()
	}
	if out == nil {
		out = os.Stdout
	}
	return &Interpreter{
		globals: globals,
		env:     NewEnvironment(globals),
		locals:  make(Locals),
		out:     out,
	}
}

func (interp *Interpreter) Globals() *Scope[Value] {
	return interp.globals
}

func (interp *Interpreter) Env() *Environment[Value] {
	return interp.env
}

// Resolve merges resolver output into the table consulted at run time.
func (interp *Interpreter) Resolve(locals Locals) {
	for expr, depth := range locals {
		interp.locals[expr] = depth
	}
}

// Interpret runs each top-level statement in turn. A runtime error
// ends only the statement it happened in; the rest still run.
func (interp *Interpreter) Interpret(stmts []Stmt) []error {
	var errs []error
	for _, stmt := range stmts {
		if interp.Trace {
			TSPrintf("exec %s", stmt.String())
		}
		err := interp.ExecuteTopLevel(stmt)
		if err != nil {
			if interp.Trace {
				TSPrintf("%v\n%s", err, interp.DumpEnvironment())
			}
			errs = append(errs, err)
		}
	}
	return errs
}

// ExecuteTopLevel is Execute plus the check that no return escaped.
func (interp *Interpreter) ExecuteTopLevel(stmt Stmt) error {
	err := interp.Execute(stmt)
	if ret, ok := err.(*returnSignal); ok {
		return runtimeErrorf(ReturnOutsideFunction, ret.line, "can't return from top-level code")
	}
	return err
}

func (interp *Interpreter) DumpEnvironment() string {
	return goon.Sdump(interp.env.Snapshot())
}

// statements

func (interp *Interpreter) Execute(stmt Stmt) error {
	switch s := stmt.(type) {
	case *ExpressionStmt:
		_, err := interp.Evaluate(s.Expression)
		return err
	case *PrintStmt:
		val, err := interp.Evaluate(s.Expression)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(interp.out, Render(val))
		return err
	case *VarStmt:
		val, err := interp.Evaluate(s.Init)
		if err != nil {
			return err
		}
		interp.env.Define(s.Name.Str, val)
		return nil
	case *FunctionStmt:
		interp.env.Define(s.Name.Str, MakeUserFunction(s, interp.env.Top))
		return nil
	case *ReturnStmt:
		val, err := interp.Evaluate(s.Value)
		if err != nil {
			return err
		}
		return &returnSignal{value: val, line: s.Keyword.Line}
	case *BlockStmt:
		return interp.executeBlock(s.Stmts)
	case *IfStmt:
		cond, err := interp.Evaluate(s.Cond)
		if err != nil {
			return err
		}
		if IsTruthy(cond) {
			return interp.Execute(s.Then)
		}
		if s.Else != nil {
			return interp.Execute(s.Else)
		}
		return nil
	case *WhileStmt:
		for {
			cond, err := interp.Evaluate(s.Cond)
			if err != nil {
				return err
			}
			if !IsTruthy(cond) {
				return nil
			}
			if err = interp.Execute(s.Body); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("unknown statement type %T", stmt)
}

// executeBlock pushes one scope and pops it on every exit path,
// including errors and returns.
func (interp *Interpreter) executeBlock(stmts []Stmt) (err error) {
	interp.env.PushScope()
	defer func() {
		popErr := interp.env.PopScope()
		if err == nil && popErr != nil {
			err = &RuntimeError{Kind: ScopeUnderflow, Msg: popErr.Error(), err: popErr}
		}
	}()
	for _, stmt := range stmts {
		if err = interp.Execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// expressions

func (interp *Interpreter) Evaluate(expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *Literal:
		return literalValue(e.Tok), nil
	case *Grouping:
		return interp.Evaluate(e.Inner)
	case *Variable:
		return interp.lookUpVariable(e.Name, e)
	case *Assign:
		val, err := interp.Evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if depth, ok := interp.locals[e]; ok {
			err = interp.env.AssignAt(depth, e.Name.Str, val)
		} else {
			err = interp.env.Assign(e.Name.Str, val)
		}
		if err != nil {
			return nil, wrapEnvError(err, e.Name)
		}
		return val, nil
	case *Unary:
		return interp.evalUnary(e)
	case *Binary:
		return interp.evalBinary(e)
	case *Logical:
		left, err := interp.Evaluate(e.Left)
		if err != nil {
			return nil, err
		}
		if e.Op.Type == TokenOr {
			if IsTruthy(left) {
				return left, nil
			}
		} else if !IsTruthy(left) {
			return left, nil
		}
		return interp.Evaluate(e.Right)
	case *Call:
		return interp.evalCall(e)
	}
	return nil, fmt.Errorf("unknown expression type %T", expr)
}

func literalValue(tok Token) Value {
	switch tok.Type {
	case TokenNumber:
		return LoxNumber(tok.Num)
	case TokenString:
		return LoxString(tok.Str)
	case TokenTrue:
		return LoxBool(true)
	case TokenFalse:
		return LoxBool(false)
	}
	return Nil
}

// lookUpVariable jumps straight to the resolved scope when there is
// one; otherwise it scans the whole chain outward.
func (interp *Interpreter) lookUpVariable(name Token, expr Expr) (Value, error) {
	var val Value
	var err error
	if depth, ok := interp.locals[expr]; ok {
		val, err = interp.env.GetAt(depth, name.Str)
	} else {
		val, err = interp.env.Get(name.Str)
	}
	if err != nil {
		return nil, wrapEnvError(err, name)
	}
	return val, nil
}

func (interp *Interpreter) evalUnary(e *Unary) (Value, error) {
	operand, err := interp.Evaluate(e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Op.Type {
	case TokenBang:
		return LoxBool(!IsTruthy(operand)), nil
	case TokenMinus:
		n, ok := castToNumber(operand)
		if !ok {
			return nil, runtimeErrorf(TypeMismatch, e.Op.Line,
				"operand of '-' must be a number, got %s", operand.TypeName())
		}
		return LoxNumber(-n), nil
	}
	return nil, runtimeErrorf(TypeMismatch, e.Op.Line, "unknown unary operator '%v'", e.Op.Type)
}

func (interp *Interpreter) evalBinary(e *Binary) (Value, error) {
	left, err := interp.Evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := interp.Evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Type {
	case TokenEqualEqual:
		return LoxBool(IsEqual(left, right)), nil
	case TokenBangEqual:
		return LoxBool(!IsEqual(left, right)), nil
	case TokenPlus:
		ln, lok := castToNumber(left)
		rn, rok := castToNumber(right)
		if lok && rok {
			return LoxNumber(ln + rn), nil
		}
		ls, lok := castToString(left)
		rs, rok := castToString(right)
		if lok && rok {
			return LoxString(ls + rs), nil
		}
		return nil, runtimeErrorf(TypeMismatch, e.Op.Line,
			"operands of '+' must be two numbers or two strings, got %s and %s",
			left.TypeName(), right.TypeName())
	}

	ln, lok := castToNumber(left)
	rn, rok := castToNumber(right)
	if !lok || !rok {
		return nil, runtimeErrorf(TypeMismatch, e.Op.Line,
			"operands of '%v' must be numbers, got %s and %s",
			e.Op.Type, left.TypeName(), right.TypeName())
	}
	switch e.Op.Type {
	case TokenMinus:
		return LoxNumber(ln - rn), nil
	case TokenStar:
		return LoxNumber(ln * rn), nil
	case TokenSlash:
		return LoxNumber(ln / rn), nil
	case TokenGreater:
		return LoxBool(ln > rn), nil
	case TokenGreaterEqual:
		return LoxBool(ln >= rn), nil
	case TokenLess:
		return LoxBool(ln < rn), nil
	case TokenLessEqual:
		return LoxBool(ln <= rn), nil
	}
	return nil, runtimeErrorf(TypeMismatch, e.Op.Line, "unknown binary operator '%v'", e.Op.Type)
}

func (interp *Interpreter) evalCall(e *Call) (Value, error) {
	callee, err := interp.Evaluate(e.Callee)
	if err != nil {
		return nil, err
	}
	fun, ok := callee.(*LoxFunction)
	if !ok {
		return nil, runtimeErrorf(NotCallable, e.Paren.Line,
			"can only call functions, got %s", callee.TypeName())
	}

	args := make([]Value, 0, len(e.Args))
	for _, arg := range e.Args {
		val, err := interp.Evaluate(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	if len(args) != fun.Arity() {
		return nil, runtimeErrorf(ArityMismatch, e.Paren.Line,
			"%s expected %d arguments, got %d", fun.Name(), fun.Arity(), len(args))
	}
	return fun.Call(interp, args)
}
