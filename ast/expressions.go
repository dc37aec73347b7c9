// expressions.go contains all the expression AST nodes. An expression node
// always evaluates to a value. Node types are pointers so that a
// semantic.Info side table can be keyed by node identity without mutating
// the (otherwise immutable) parsed tree.

package ast

import "barracuda/token"

// Binary represents a binary operation expression (e.g., "a + b").
type Binary struct {
	Pos
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (b *Binary) Position() Pos                  { return b.Pos }
func (b *Binary) Accept(v ExpressionVisitor) any { return v.VisitBinary(b) }

// Logical represents a short-circuiting `and`/`or` expression.
type Logical struct {
	Pos
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (l *Logical) Position() Pos                  { return l.Pos }
func (l *Logical) Accept(v ExpressionVisitor) any { return v.VisitLogicalExpression(l) }

// Unary represents a unary operation expression (e.g., "!a" or "-b").
type Unary struct {
	Pos
	Operator token.Token
	Right    Expression
}

func (u *Unary) Position() Pos                  { return u.Pos }
func (u *Unary) Accept(v ExpressionVisitor) any { return v.VisitUnary(u) }

// Literal represents a literal value in the source code: an integer,
// float, bool, string, or `none`.
type Literal struct {
	Pos
	Value any
}

func (l *Literal) Position() Pos                  { return l.Pos }
func (l *Literal) Accept(v ExpressionVisitor) any { return v.VisitLiteral(l) }

// Grouping represents a parenthesized expression (e.g., "(a + b)").
type Grouping struct {
	Pos
	Expression Expression
}

func (g *Grouping) Position() Pos                  { return g.Pos }
func (g *Grouping) Accept(v ExpressionVisitor) any { return v.VisitGrouping(g) }

// Variable represents the retrieval of a value bound to an identifier: a
// local, global, parameter, function, or environment-variable name.
type Variable struct {
	Pos
	Name token.Token
}

func (va *Variable) Position() Pos                  { return va.Pos }
func (va *Variable) Accept(v ExpressionVisitor) any { return v.VisitVariableExpression(va) }

// Ternary represents a `cond ? then : else` expression.
type Ternary struct {
	Pos
	Condition Expression
	Then      Expression
	Else      Expression
}

func (t *Ternary) Position() Pos                  { return t.Pos }
func (t *Ternary) Accept(v ExpressionVisitor) any { return v.VisitTernary(t) }

// Reference represents `&name`, producing a pointer to the named storage.
type Reference struct {
	Pos
	Operand *Variable
}

func (r *Reference) Position() Pos                  { return r.Pos }
func (r *Reference) Accept(v ExpressionVisitor) any { return v.VisitReference(r) }

// Deref represents a leading-`*` pointer dereference used as an rvalue.
type Deref struct {
	Pos
	Operand Expression
}

func (d *Deref) Position() Pos                  { return d.Pos }
func (d *Deref) Accept(v ExpressionVisitor) any { return v.VisitDeref(d) }

// Index represents `target[index]` array element access.
type Index struct {
	Pos
	Target Expression
	Index  Expression
}

func (ix *Index) Position() Pos                  { return ix.Pos }
func (ix *Index) Accept(v ExpressionVisitor) any { return v.VisitIndex(ix) }

// ArrayLiteral represents a bracketed array literal `[e1, e2, ...]`.
type ArrayLiteral struct {
	Pos
	Elements []Expression
}

func (a *ArrayLiteral) Position() Pos                  { return a.Pos }
func (a *ArrayLiteral) Accept(v ExpressionVisitor) any { return v.VisitArrayLiteral(a) }

// Call represents a function call expression, `name(args...)`.
type Call struct {
	Pos
	Callee token.Token
	Args   []Expression
}

func (c *Call) Position() Pos                  { return c.Pos }
func (c *Call) Accept(v ExpressionVisitor) any { return v.VisitCall(c) }
