// statements.go contains all the statement AST nodes. A statement node
// does not itself produce a value.

package ast

import (
	"barracuda/token"
	"barracuda/types"
)

// ExpressionStmt is a statement consisting of a single expression,
// evaluated and discarded — the parser recognises a bare function call as
// this form (a "naked" call statement).
type ExpressionStmt struct {
	Pos
	Expression Expression
}

func (e *ExpressionStmt) Position() Pos            { return e.Pos }
func (e *ExpressionStmt) Accept(v StmtVisitor) any { return v.VisitExpressionStmt(e) }

// PrintStmt outputs the result of evaluating an expression.
type PrintStmt struct {
	Pos
	Expression Expression
}

func (p *PrintStmt) Position() Pos            { return p.Pos }
func (p *PrintStmt) Accept(v StmtVisitor) any { return v.VisitPrintStmt(p) }

// LetStmt is a `let` binding, covering all six surface forms: with or
// without an explicit type annotation, with or without an initializer,
// and with or without an explicit `mut`/`const` qualifier (defaulting to
// `const` when omitted).
type LetStmt struct {
	Pos
	Name         token.Token
	Qualifier    types.Qualifier
	HasQualifier bool
	TypeAnn      TypeExpr // nil if the type is to be inferred from Init
	Init         Expression
}

func (l *LetStmt) Position() Pos            { return l.Pos }
func (l *LetStmt) Accept(v StmtVisitor) any { return v.VisitLetStmt(l) }

// LValue is an assignment target: zero or more leading pointer
// dereferences applied to a named binding, followed by zero or more index
// suffixes.
type LValue struct {
	Pos
	Derefs  int
	Name    token.Token
	Indices []Expression
}

// AssignStmt assigns Value to Target. Assignment in Barracuda is
// statement-level (it cannot be nested inside another expression), since
// an lvalue may carry derefs and index suffixes that only make sense as a
// standalone statement target.
type AssignStmt struct {
	Pos
	Target LValue
	Value  Expression
}

func (a *AssignStmt) Position() Pos            { return a.Pos }
func (a *AssignStmt) Accept(v StmtVisitor) any { return v.VisitAssignStmt(a) }

// BlockStmt is a `{ ... }` block of statements, introducing a new scope.
type BlockStmt struct {
	Pos
	Statements []Stmt
}

func (b *BlockStmt) Position() Pos            { return b.Pos }
func (b *BlockStmt) Accept(v StmtVisitor) any { return v.VisitBlockStmt(b) }

// IfStmt is an `if`/`elif`/`else` chain; each `elif` is represented as a
// nested IfStmt stored in Else, threaded through the parser's
// `ifStatement` recursion.
type IfStmt struct {
	Pos
	Condition Expression
	Then      Stmt
	Else      Stmt // nil, a BlockStmt, or a nested *IfStmt for elif/else
}

func (i *IfStmt) Position() Pos            { return i.Pos }
func (i *IfStmt) Accept(v StmtVisitor) any { return v.VisitIfStmt(i) }

// WhileStmt is a `while (cond) body` loop.
type WhileStmt struct {
	Pos
	Condition Expression
	Body      Stmt
}

func (w *WhileStmt) Position() Pos            { return w.Pos }
func (w *WhileStmt) Accept(v StmtVisitor) any { return v.VisitWhileStmt(w) }

// ForStmt is a three-clause `for (init; cond; step) body` loop. Init and
// Step may be nil.
type ForStmt struct {
	Pos
	Init Stmt
	Cond Expression
	Step Stmt
	Body Stmt
}

func (f *ForStmt) Position() Pos            { return f.Pos }
func (f *ForStmt) Accept(v StmtVisitor) any { return v.VisitForStmt(f) }

// ReturnStmt returns from the enclosing function, optionally with a value.
type ReturnStmt struct {
	Pos
	Value Expression // nil for a bare `return;`
}

func (r *ReturnStmt) Position() Pos            { return r.Pos }
func (r *ReturnStmt) Accept(v StmtVisitor) any { return v.VisitReturnStmt(r) }

// BreakStmt exits the nearest enclosing `for`/`while` loop.
type BreakStmt struct {
	Pos
}

func (b *BreakStmt) Position() Pos            { return b.Pos }
func (b *BreakStmt) Accept(v StmtVisitor) any { return v.VisitBreakStmt(b) }

// Param is a single function parameter: a name, qualifier, and type.
type Param struct {
	Name      token.Token
	Qualifier types.Qualifier
	Type      TypeExpr
}

// FuncDecl is a `fn name(params...) -> ReturnType { body }` declaration.
// ReturnType is nil for a function with no return value (`none`).
type FuncDecl struct {
	Pos
	Name       token.Token
	Params     []Param
	ReturnType TypeExpr
	Body       *BlockStmt
}

func (f *FuncDecl) Position() Pos            { return f.Pos }
func (f *FuncDecl) Accept(v StmtVisitor) any { return v.VisitFuncDecl(f) }

// ExternDecl declares a host-environment variable by name, to be resolved
// against the caller-supplied envtable.Request at compile time.
type ExternDecl struct {
	Pos
	Name token.Token
	Type TypeExpr
}

func (e *ExternDecl) Position() Pos            { return e.Pos }
func (e *ExternDecl) Accept(v StmtVisitor) any { return v.VisitExternDecl(e) }
