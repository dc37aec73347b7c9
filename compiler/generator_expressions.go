package compiler

import (
	"fmt"

	"barracuda/ast"
	"barracuda/scope"
	"barracuda/token"
	"barracuda/types"
)

func (g *generator) VisitLiteral(lit *ast.Literal) any {
	if str, ok := lit.Value.(string); ok {
		// A string literal has no distinct runtime type: it types
		// as a plain pointer to its element precision, so it is
		// materialised into user-space exactly like a mut array literal
		// and yields the base address of its zero-terminated run of
		// packed values.
		packed := ast.PackString([]rune(str), g.builder.precision)
		base := g.builder.AllocUserSpace(len(packed))
		for i, v := range packed {
			g.builder.Emit(OP_CONST, g.builder.AddValue(v))
			g.builder.Emit(OP_STORE_GLOBAL, base+i)
		}
		g.builder.Emit(OP_ADDR_GLOBAL, base)
		return nil
	}
	g.builder.Emit(OP_CONST, g.builder.AddValue(packValue(lit.Value, g.builder.precision)))
	return nil
}

func (g *generator) VisitGrouping(gr *ast.Grouping) any {
	return g.genExpr(gr.Expression)
}

func (g *generator) VisitVariableExpression(v *ast.Variable) any {
	sym := g.resolve(v.Name.Lexeme)
	g.loadSymbolValue(sym)
	return nil
}

func (g *generator) VisitReference(r *ast.Reference) any {
	sym := g.resolve(r.Operand.Name.Lexeme)
	g.addrOfSymbol(sym)
	return nil
}

func (g *generator) VisitDeref(d *ast.Deref) any {
	g.genExpr(d.Operand)
	g.builder.Emit(OP_LOAD_INDIRECT)
	return nil
}

// VisitIndex compiles target[index]. A direct index into an environment
// variable (`envvar[i]`) has no flat-memory address at all — environment
// storage is addressed by host index, not by the user-space addresses
// OP_INDEX_ADDR composes — so it is resolved straight to an OP_LOAD_ENV
// with a literal-folded operand (see envIndexOperand) instead of going
// through the general address-chain path below.
func (g *generator) VisitIndex(ix *ast.Index) any {
	if v, ok := ix.Target.(*ast.Variable); ok {
		if sym := g.resolve(v.Name.Lexeme); sym.Storage == scope.StorageEnvVar {
			g.builder.Emit(OP_LOAD_ENV, envIndexOperand(sym, []ast.Expression{ix.Index}))
			return nil
		}
	}
	g.emitElementAddress(ix.Target, ix.Index)
	g.builder.Emit(OP_LOAD_INDIRECT)
	return nil
}

// emitElementAddress emits the instructions that leave the address of
// target[index] on top of the stack: target's own address (a plain array
// variable) or target's value (an expression that is itself a pointer),
// followed by the index arithmetic via OP_INDEX_ADDR. Callers have already
// ruled out target being a direct reference to an environment variable.
func (g *generator) emitElementAddress(target ast.Expression, index ast.Expression) {
	switch t := target.(type) {
	case *ast.Variable:
		sym := g.resolve(t.Name.Lexeme)
		if _, isArray := sym.Type.(types.ArrayType); isArray {
			g.addrOfSymbol(sym)
		} else {
			// A pointer-typed variable indexed directly (`p[i]`): its
			// value already is the address to index from.
			g.loadSymbolValue(sym)
		}
	default:
		// Any other addressable expression (e.g. a nested index, a deref)
		// evaluates to the address/pointer value to index from.
		g.genExpr(target)
	}
	g.genExpr(index)
	g.builder.Emit(OP_INDEX_ADDR)
}

// VisitArrayLiteral handles an array literal appearing somewhere other
// than the initialiser of its own `let` binding (a call argument, a nested
// expression): it has no named symbol to bind storage to, so it
// materialises its elements into a freshly reserved user-space region and
// pushes a pointer to its base address. An array literal that directly
// initialises a `let` (mut or const) skips this path entirely — genLetStmt
// binds the array's storage straight to the let's own symbol slot instead
// of allocating a second region and an extra pointer indirection.
func (g *generator) VisitArrayLiteral(a *ast.ArrayLiteral) any {
	elemType := g.typeOf(a).(types.ArrayType).Elem
	base := g.builder.AllocUserSpace(elemType.Size() * len(a.Elements))
	for i, elem := range a.Elements {
		g.genExpr(elem)
		g.builder.Emit(OP_STORE_GLOBAL, base+i)
	}
	g.builder.Emit(OP_ADDR_GLOBAL, base)
	return nil
}

func (g *generator) VisitCall(c *ast.Call) any {
	argTypes := make([]types.Type, len(c.Args))
	argQualifiers := make([]types.Qualifier, len(c.Args))
	for i, arg := range c.Args {
		argTypes[i] = g.typeOf(arg)
		argQualifiers[i] = g.qualifierOf(arg)
	}
	impl, err := g.functions.Resolve(c.Callee.Lexeme, argTypes, argQualifiers)
	if err != nil {
		panic(DeveloperError{Message: fmt.Sprintf("generator: %s (should have failed semantic analysis)", err.Error())})
	}
	for _, arg := range c.Args {
		g.genExpr(arg)
	}
	g.builder.EmitJumpPlaceholder(OP_CALL, impl.Label)
	return nil
}

func (g *generator) VisitUnary(u *ast.Unary) any {
	g.genExpr(u.Right)
	switch u.Operator.TokenType {
	case token.SUB:
		g.builder.EmitOperator(OP_UNARY, OperatorNeg)
	case token.BANG:
		g.builder.EmitOperator(OP_UNARY, OperatorNot)
	}
	return nil
}

var binaryOperators = map[token.TokenType]Operator{
	token.ADD: OperatorAdd, token.SUB: OperatorSub, token.MULT: OperatorMul, token.DIV: OperatorDiv,
	token.MOD: OperatorMod, token.EXP: OperatorExp,
	token.SHIFT_LEFT: OperatorShl, token.SHIFT_RIGHT: OperatorShr,
	token.EQUAL_EQUAL: OperatorEq, token.NOT_EQUAL: OperatorNeq,
	token.LESS: OperatorLt, token.LESS_EQUAL: OperatorLte,
	token.LARGER: OperatorGt, token.LARGER_EQUAL: OperatorGte,
}

func (g *generator) VisitBinary(b *ast.Binary) any {
	g.genExpr(b.Left)
	g.genExpr(b.Right)
	operator, ok := binaryOperators[b.Operator.TokenType]
	if !ok {
		panic(DeveloperError{Message: fmt.Sprintf("generator: unhandled binary operator %s", b.Operator.TokenType)})
	}
	g.builder.EmitOperator(OP_BINARY, operator)
	return nil
}

// VisitLogicalExpression compiles short-circuiting `and`/`or` using a jump
// pattern where OP_JUMP_IF_FALSE only peeks at the condition (it never pops
// it), so whichever operand short-circuits the expression is left on the
// stack as its result untouched, and the other branch is responsible for
// popping it before substituting its own value.
func (g *generator) VisitLogicalExpression(l *ast.Logical) any {
	g.genExpr(l.Left)
	switch l.Operator.TokenType {
	case token.OR:
		// If Left is truthy, skip evaluating Right entirely (Left's value
		// is already the result); otherwise pop it and evaluate Right.
		rightLabel := g.builder.NewLabel("or_eval_right")
		end := g.builder.NewLabel("or_end")
		g.builder.EmitJumpPlaceholder(OP_JUMP_IF_FALSE, rightLabel)
		g.builder.EmitJumpPlaceholder(OP_JUMP, end)
		g.builder.PlaceLabel(rightLabel)
		g.builder.Emit(OP_POP)
		g.genExpr(l.Right)
		g.builder.PlaceLabel(end)
	case token.AND:
		// If Left is falsy, skip Right (Left's falsy value is the
		// result); otherwise pop it and evaluate Right.
		end := g.builder.NewLabel("and_end")
		g.builder.EmitJumpPlaceholder(OP_JUMP_IF_FALSE, end)
		g.builder.Emit(OP_POP)
		g.genExpr(l.Right)
		g.builder.PlaceLabel(end)
	}
	return nil
}

func (g *generator) VisitTernary(t *ast.Ternary) any {
	g.genExpr(t.Condition)
	elseLabel := g.builder.NewLabel("ternary_else")
	end := g.builder.NewLabel("ternary_end")
	g.builder.EmitJumpPlaceholder(OP_JUMP_IF_FALSE, elseLabel)
	g.builder.Emit(OP_POP)
	g.genExpr(t.Then)
	g.builder.EmitJumpPlaceholder(OP_JUMP, end)
	g.builder.PlaceLabel(elseLabel)
	g.builder.Emit(OP_POP)
	g.genExpr(t.Else)
	g.builder.PlaceLabel(end)
	return nil
}
