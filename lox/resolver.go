package lox

// Locals is the resolution table: expression identity to the number of
// scopes between the reference and its declaring scope. Expressions
// with no entry are globals.
type Locals map[Expr]int

// Resolver computes Locals in one pass. It mirrors the interpreter's
// scope structure with its own Scope[bool] chain, where false means
// declared but not yet initialized. Top-level declarations are not
// tracked; they are globals.
type Resolver struct {
	scopes    *Environment[bool]
	locals    Locals
	diags     *Collector
	funcDepth int

	// free parallels the open scopes. It records names a nested
	// function read without resolving them, so a later declaration
	// in that scope can be flagged: the run time fallback scan would
	// find the local, not the global.
	free []freeRefs
}

type freeRefs struct {
	funcDepth int
	lines     map[string]int
}

func NewResolver(diags *Collector) *Resolver {
	return &Resolver{
		scopes: NewEnvironment[bool](nil),
		locals: make(Locals),
		diags:  diags,
	}
}

// Resolve walks stmts and returns the accumulated table. Calling it
// again (one REPL line at a time) keeps adding to the same table.
func (r *Resolver) Resolve(stmts []Stmt) Locals {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
	return r.locals
}

func (r *Resolver) Locals() Locals {
	return r.locals
}

func (r *Resolver) beginScope() {
	r.scopes.PushScope()
	r.free = append(r.free, freeRefs{funcDepth: r.funcDepth, lines: map[string]int{}})
}

func (r *Resolver) endScope() {
	r.scopes.PopScope()
	r.free = r.free[:len(r.free)-1]
}

func (r *Resolver) declare(name Token) {
	if r.scopes.IsEmpty() {
		return
	}
	top := r.free[len(r.free)-1]
	if line, ok := top.lines[name.Str]; ok {
		r.diags.Warn(StageResolve, name.Line,
			"local '%s' shadows the global read by the closure on line %d; calls made from here on will see the local",
			name.Str, line)
		delete(top.lines, name.Str)
	}
	r.scopes.Define(name.Str, false)
}

func (r *Resolver) define(name Token) {
	if r.scopes.IsEmpty() {
		return
	}
	r.scopes.Define(name.Str, true)
}

func (r *Resolver) resolveLocal(expr Expr, name Token) {
	if depth, ok := r.scopes.ResolveDepth(name.Str); ok {
		r.locals[expr] = depth
		return
	}
	for _, f := range r.free {
		if f.funcDepth < r.funcDepth {
			if _, seen := f.lines[name.Str]; !seen {
				f.lines[name.Str] = name.Line
			}
		}
	}
}

func (r *Resolver) resolveBlock(stmts []Stmt) {
	r.beginScope()
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
	r.endScope()
}

// resolveFunction opens the parameter scope, then resolves the body as
// a block, matching the two scopes a call pushes at run time.
func (r *Resolver) resolveFunction(fun *FunctionStmt) {
	r.funcDepth++
	r.beginScope()
	for _, param := range fun.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveBlock(fun.Body)
	r.endScope()
	r.funcDepth--
}

func (r *Resolver) resolveStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *BlockStmt:
		r.resolveBlock(s.Stmts)
	case *VarStmt:
		r.declare(s.Name)
		r.resolveExpr(s.Init)
		r.define(s.Name)
	case *FunctionStmt:
		// defined before the body so the function can recurse.
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s)
	case *ExpressionStmt:
		r.resolveExpr(s.Expression)
	case *PrintStmt:
		r.resolveExpr(s.Expression)
	case *ReturnStmt:
		if r.funcDepth == 0 {
			r.diags.Error(StageResolve, s.Keyword.Line, "can't return from top-level code")
		}
		r.resolveExpr(s.Value)
	case *IfStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *WhileStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)
	}
}

func (r *Resolver) resolveExpr(expr Expr) {
	switch e := expr.(type) {
	case *Variable:
		if !r.scopes.IsEmpty() {
			if initialized, declared := r.scopes.Top.Map[e.Name.Str]; declared && !initialized {
				r.diags.Warn(StageResolve, e.Name.Line,
					"can't read local variable '%s' in its own initializer", e.Name.Str)
			}
		}
		r.resolveLocal(e, e.Name)
	case *Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	case *Grouping:
		r.resolveExpr(e.Inner)
	case *Unary:
		r.resolveExpr(e.Operand)
	case *Literal:
	}
}
