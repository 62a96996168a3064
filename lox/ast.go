package lox

import (
	"strings"
)

// Expr nodes are always pointers. The pointer is the node's identity
// and is what the resolver keys its depth table on.
type Expr interface {
	String() string
	exprNode()
}

type Stmt interface {
	String() string
	stmtNode()
}

type Literal struct {
	Tok Token
}

type Variable struct {
	Name Token
}

type Assign struct {
	Name  Token
	Value Expr
}

type Unary struct {
	Op      Token
	Operand Expr
}

type Binary struct {
	Op    Token
	Left  Expr
	Right Expr
}

// Logical is and/or; the right side is evaluated only when needed.
type Logical struct {
	Op    Token
	Left  Expr
	Right Expr
}

type Grouping struct {
	Inner Expr
}

type Call struct {
	Callee Expr
	Paren  Token // closing paren, for error lines
	Args   []Expr
}

func (*Literal) exprNode()  {}
func (*Variable) exprNode() {}
func (*Assign) exprNode()   {}
func (*Unary) exprNode()    {}
func (*Binary) exprNode()   {}
func (*Logical) exprNode()  {}
func (*Grouping) exprNode() {}
func (*Call) exprNode()     {}

type ExpressionStmt struct {
	Expression Expr
}

type FunctionStmt struct {
	Name   Token
	Params []Token
	Body   []Stmt
}

type ReturnStmt struct {
	Keyword Token
	Value   Expr // a nil literal when omitted
}

type PrintStmt struct {
	Expression Expr
}

type VarStmt struct {
	Name Token
	Init Expr // a nil literal when omitted
}

type BlockStmt struct {
	Stmts []Stmt
}

type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // may be nil
}

type WhileStmt struct {
	Cond Expr
	Body Stmt
}

func (*ExpressionStmt) stmtNode() {}
func (*FunctionStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode()     {}
func (*PrintStmt) stmtNode()      {}
func (*VarStmt) stmtNode()        {}
func (*BlockStmt) stmtNode()      {}
func (*IfStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}

// s-expression renderings, one line per node.

func parenthesize(head string, parts ...string) string {
	return "(" + head + " " + strings.Join(parts, " ") + ")"
}

func (e *Literal) String() string {
	return e.Tok.String()
}

func (e *Variable) String() string {
	return e.Name.Str
}

func (e *Assign) String() string {
	return parenthesize("=", e.Name.Str, e.Value.String())
}

func (e *Unary) String() string {
	return parenthesize(e.Op.Type.String(), e.Operand.String())
}

func (e *Binary) String() string {
	return parenthesize(e.Op.Type.String(), e.Left.String(), e.Right.String())
}

func (e *Logical) String() string {
	return parenthesize(e.Op.Type.String(), e.Left.String(), e.Right.String())
}

func (e *Grouping) String() string {
	return parenthesize("group", e.Inner.String())
}

func (e *Call) String() string {
	parts := []string{e.Callee.String()}
	for _, a := range e.Args {
		parts = append(parts, a.String())
	}
	return parenthesize("call", parts...)
}

func (s *ExpressionStmt) String() string {
	return parenthesize(";", s.Expression.String())
}

func (s *FunctionStmt) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.Str
	}
	return parenthesize("fun", s.Name.Str, "["+strings.Join(params, " ")+"]", stmtList(s.Body))
}

func (s *ReturnStmt) String() string {
	return parenthesize("return", s.Value.String())
}

func (s *PrintStmt) String() string {
	return parenthesize("print", s.Expression.String())
}

func (s *VarStmt) String() string {
	return parenthesize("var", s.Name.Str, s.Init.String())
}

func (s *BlockStmt) String() string {
	return "(block" + prefixSpace(stmtList(s.Stmts)) + ")"
}

func (s *IfStmt) String() string {
	if s.Else == nil {
		return parenthesize("if", s.Cond.String(), s.Then.String())
	}
	return parenthesize("if", s.Cond.String(), s.Then.String(), s.Else.String())
}

func (s *WhileStmt) String() string {
	return parenthesize("while", s.Cond.String(), s.Body.String())
}

func stmtList(stmts []Stmt) string {
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}

func prefixSpace(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}

// Program renders a whole statement list, one statement per line.
func Program(stmts []Stmt) string {
	var b strings.Builder
	for _, s := range stmts {
		b.WriteString(s.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// NodeTree converts an AST into plain maps and slices so it can be
// handed to an encoder without losing node kinds.
func NodeTree(node interface{}) interface{} {
	switch n := node.(type) {
	case []Stmt:
		out := make([]interface{}, len(n))
		for i, s := range n {
			out[i] = NodeTree(s)
		}
		return out
	case []Expr:
		out := make([]interface{}, len(n))
		for i, e := range n {
			out[i] = NodeTree(e)
		}
		return out
	case *Literal:
		m := map[string]interface{}{"node": "Literal", "line": n.Tok.Line}
		switch n.Tok.Type {
		case TokenNumber:
			m["value"] = n.Tok.Num
		case TokenString:
			m["value"] = n.Tok.Str
		case TokenTrue:
			m["value"] = true
		case TokenFalse:
			m["value"] = false
		default:
			m["value"] = nil
		}
		return m
	case *Variable:
		return map[string]interface{}{"node": "Variable", "name": n.Name.Str, "line": n.Name.Line}
	case *Assign:
		return map[string]interface{}{"node": "Assign", "name": n.Name.Str, "value": NodeTree(n.Value)}
	case *Unary:
		return map[string]interface{}{"node": "Unary", "op": n.Op.Type.String(), "operand": NodeTree(n.Operand)}
	case *Binary:
		return map[string]interface{}{"node": "Binary", "op": n.Op.Type.String(),
			"left": NodeTree(n.Left), "right": NodeTree(n.Right)}
	case *Logical:
		return map[string]interface{}{"node": "Logical", "op": n.Op.Type.String(),
			"left": NodeTree(n.Left), "right": NodeTree(n.Right)}
	case *Grouping:
		return map[string]interface{}{"node": "Grouping", "inner": NodeTree(n.Inner)}
	case *Call:
		return map[string]interface{}{"node": "Call", "callee": NodeTree(n.Callee), "args": NodeTree(n.Args)}
	case *ExpressionStmt:
		return map[string]interface{}{"node": "Expression", "expr": NodeTree(n.Expression)}
	case *FunctionStmt:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Str
		}
		return map[string]interface{}{"node": "Function", "name": n.Name.Str,
			"params": params, "body": NodeTree(n.Body)}
	case *ReturnStmt:
		return map[string]interface{}{"node": "Return", "value": NodeTree(n.Value)}
	case *PrintStmt:
		return map[string]interface{}{"node": "Print", "expr": NodeTree(n.Expression)}
	case *VarStmt:
		return map[string]interface{}{"node": "Var", "name": n.Name.Str, "init": NodeTree(n.Init)}
	case *BlockStmt:
		return map[string]interface{}{"node": "Block", "stmts": NodeTree(n.Stmts)}
	case *IfStmt:
		m := map[string]interface{}{"node": "If", "cond": NodeTree(n.Cond), "then": NodeTree(n.Then)}
		if n.Else != nil {
			m["else"] = NodeTree(n.Else)
		}
		return m
	case *WhileStmt:
		return map[string]interface{}{"node": "While", "cond": NodeTree(n.Cond), "body": NodeTree(n.Body)}
	}
	return nil
}
