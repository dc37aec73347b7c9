package semantic

import (
	"fmt"

	"barracuda/ast"
	"barracuda/scope"
	"barracuda/token"
	"barracuda/types"
)

// typeOfExpr walks expr via the visitor dispatch and returns its resolved
// type, recorded as a side effect in a.info.
func (a *Analyser) typeOfExpr(expr ast.Expression) types.Type {
	return expr.Accept(a).(types.Type)
}

// record annotates node with its resolved type and qualifier and returns
// the type, so every Visit* method can end with `return a.record(...)`.
func (a *Analyser) record(node ast.Expression, t types.Type, q types.Qualifier) any {
	a.info[node] = Info{Type: t, Qualifier: q}
	return t
}

func (a *Analyser) qualifierOf(expr ast.Expression) types.Qualifier {
	return a.info[expr].Qualifier
}

// unwrapEnvVar returns the underlying element type of an environment
// variable's pseudo-type so arithmetic/comparison/logical rules, which are
// defined over ordinary primitives, can apply uniformly to `extern`
// bindings used as rvalues.
func unwrapEnvVar(t types.Type) types.Type {
	if ev, ok := t.(types.EnvVarType); ok {
		return ev.Elem
	}
	return t
}

func (a *Analyser) VisitLiteral(lit *ast.Literal) any {
	switch v := lit.Value.(type) {
	case bool:
		return a.record(lit, types.Primitive{K: types.Bool}, types.ConstQualifier)
	case nil:
		return a.record(lit, types.Primitive{K: types.None}, types.ConstQualifier)
	case int64:
		return a.record(lit, types.Primitive{K: narrowestIntKind(v)}, types.ConstQualifier)
	case float64:
		kind := types.F64
		if a.precision == types.PrecisionF32 {
			kind = types.F32
		}
		return a.record(lit, types.Primitive{K: kind}, types.ConstQualifier)
	case string:
		kind := types.F64
		if a.precision == types.PrecisionF32 {
			kind = types.F32
		}
		return a.record(lit, types.PointerType{Elem: types.Primitive{K: kind}}, types.ConstQualifier)
	default:
		a.fail(CreateTypeError(lit.Line, lit.Column, fmt.Sprintf("unrecognised literal value %#v", lit.Value)))
		return nil
	}
}

func narrowestIntKind(v int64) types.Kind {
	switch {
	case v >= -128 && v <= 127:
		return types.I8
	case v >= -32768 && v <= 32767:
		return types.I16
	case v >= -2147483648 && v <= 2147483647:
		return types.I32
	default:
		return types.I64
	}
}

func (a *Analyser) VisitGrouping(g *ast.Grouping) any {
	t := a.typeOfExpr(g.Expression)
	return a.record(g, t, a.qualifierOf(g.Expression))
}

func (a *Analyser) VisitVariableExpression(v *ast.Variable) any {
	sym, ok := a.tree.Resolve(a.tracker.Current(), v.Name.Lexeme)
	if !ok {
		a.fail(CreateResolutionError(v.Name.Line, v.Name.Column, fmt.Sprintf("undefined identifier %q", v.Name.Lexeme)))
	}
	return a.record(v, sym.Type, sym.Qualifier)
}

func (a *Analyser) VisitReference(ref *ast.Reference) any {
	sym, ok := a.tree.Resolve(a.tracker.Current(), ref.Operand.Name.Lexeme)
	if !ok {
		a.fail(CreateResolutionError(ref.Operand.Name.Line, ref.Operand.Name.Column,
			fmt.Sprintf("undefined identifier %q", ref.Operand.Name.Lexeme)))
	}
	a.record(ref.Operand, sym.Type, sym.Qualifier)
	return a.record(ref, types.PointerType{Elem: sym.Type}, types.ConstQualifier)
}

func (a *Analyser) VisitDeref(d *ast.Deref) any {
	operandType := a.typeOfExpr(d.Operand)
	ptr, ok := unwrapEnvVar(operandType).(types.PointerType)
	if !ok {
		pos := d.Operand.Position()
		a.fail(CreateTypeError(pos.Line, pos.Column, fmt.Sprintf("cannot dereference non-pointer type %s", operandType.String())))
	}
	return a.record(d, ptr.Elem, a.qualifierOf(d.Operand))
}

func (a *Analyser) VisitIndex(ix *ast.Index) any {
	targetType := a.typeOfExpr(ix.Target)
	indexType := a.typeOfExpr(ix.Index)
	if prim, ok := indexType.(types.Primitive); !ok || !types.IsInteger(prim.K) {
		pos := ix.Index.Position()
		a.fail(CreateTypeError(pos.Line, pos.Column, "array/pointer index must be an integer"))
	}

	var elem types.Type
	switch t := unwrapEnvVar(targetType).(type) {
	case types.ArrayType:
		elem = t.Elem
		if lit, ok := ix.Index.(*ast.Literal); ok {
			if n, ok := lit.Value.(int64); ok && (n < 0 || int(n) >= t.Len) {
				pos := ix.Index.Position()
				a.fail(CreateTypeError(pos.Line, pos.Column, fmt.Sprintf("array index %d out of bounds for length %d", n, t.Len)))
			}
		}
	case types.PointerType:
		elem = t.Elem
	default:
		pos := ix.Target.Position()
		a.fail(CreateTypeError(pos.Line, pos.Column, fmt.Sprintf("cannot index non-array, non-pointer type %s", targetType.String())))
	}
	return a.record(ix, elem, a.qualifierOf(ix.Target))
}

func (a *Analyser) VisitArrayLiteral(arr *ast.ArrayLiteral) any {
	if len(arr.Elements) == 0 {
		a.fail(CreateTypeError(arr.Line, arr.Column, "array literal must have at least one element"))
	}
	elemType := a.typeOfExpr(arr.Elements[0])
	for _, el := range arr.Elements[1:] {
		t := a.typeOfExpr(el)
		if !types.Equal(t, elemType) {
			pos := el.Position()
			a.fail(CreateTypeError(pos.Line, pos.Column, "array literal elements must share a common type"))
		}
	}
	return a.record(arr, types.ArrayType{Elem: elemType, Len: len(arr.Elements)}, types.ConstQualifier)
}

func (a *Analyser) VisitCall(c *ast.Call) any {
	argTypes := make([]types.Type, 0, len(c.Args))
	argQuals := make([]types.Qualifier, 0, len(c.Args))
	for _, arg := range c.Args {
		argTypes = append(argTypes, unwrapEnvVar(a.typeOfExpr(arg)))
		argQuals = append(argQuals, a.qualifierOf(arg))
	}
	impl, err := a.functions.Resolve(c.Callee.Lexeme, argTypes, argQuals)
	if err != nil {
		a.fail(CreateOverloadError(c.Callee.Line, c.Callee.Column, err.Error()))
	}
	return a.record(c, impl.ReturnType, types.ConstQualifier)
}

func (a *Analyser) VisitUnary(u *ast.Unary) any {
	rightType := unwrapEnvVar(a.typeOfExpr(u.Right))
	switch u.Operator.TokenType {
	case token.BANG:
		if prim, ok := rightType.(types.Primitive); !ok || prim.K != types.Bool {
			a.fail(CreateTypeError(u.Operator.Line, u.Operator.Column, "'!' requires a bool operand"))
		}
		return a.record(u, types.Primitive{K: types.Bool}, types.ConstQualifier)
	case token.SUB:
		prim, ok := rightType.(types.Primitive)
		if !ok || !types.IsNumeric(prim.K) {
			a.fail(CreateTypeError(u.Operator.Line, u.Operator.Column, "unary '-' requires a numeric operand"))
		}
		return a.record(u, rightType, types.ConstQualifier)
	default:
		a.fail(CreateTypeError(u.Operator.Line, u.Operator.Column, fmt.Sprintf("unsupported unary operator %q", u.Operator.Lexeme)))
		return nil
	}
}

var arithmeticOperators = map[token.TokenType]bool{
	token.ADD: true, token.SUB: true, token.MULT: true, token.DIV: true,
	token.MOD: true, token.EXP: true, token.SHIFT_LEFT: true, token.SHIFT_RIGHT: true,
}

var comparisonOperators = map[token.TokenType]bool{
	token.LESS: true, token.LESS_EQUAL: true, token.LARGER: true, token.LARGER_EQUAL: true,
	token.EQUAL_EQUAL: true, token.NOT_EQUAL: true,
}

func (a *Analyser) VisitBinary(b *ast.Binary) any {
	leftType := unwrapEnvVar(a.typeOfExpr(b.Left))
	rightType := unwrapEnvVar(a.typeOfExpr(b.Right))
	op := b.Operator.TokenType

	if arithmeticOperators[op] {
		common, ok := types.Widen(leftType, rightType)
		if !ok {
			a.fail(CreateTypeError(b.Operator.Line, b.Operator.Column,
				fmt.Sprintf("operator %q requires numeric operands, got %s and %s", b.Operator.Lexeme, leftType.String(), rightType.String())))
		}
		if (op == token.DIV || op == token.MOD) && isLiteralZero(b.Right) {
			a.fail(CreateTypeError(b.Operator.Line, b.Operator.Column, "division by literal zero"))
		}
		return a.record(b, common, types.ConstQualifier)
	}

	if comparisonOperators[op] {
		leftPrim, leftOk := leftType.(types.Primitive)
		rightPrim, rightOk := rightType.(types.Primitive)
		if !leftOk || !rightOk || primitiveFamily(leftPrim.K) != primitiveFamily(rightPrim.K) {
			a.fail(CreateTypeError(b.Operator.Line, b.Operator.Column,
				fmt.Sprintf("operator %q requires operands of the same primitive family, got %s and %s", b.Operator.Lexeme, leftType.String(), rightType.String())))
		}
		return a.record(b, types.Primitive{K: types.Bool}, types.ConstQualifier)
	}

	a.fail(CreateTypeError(b.Operator.Line, b.Operator.Column, fmt.Sprintf("unsupported binary operator %q", b.Operator.Lexeme)))
	return nil
}

// primitiveFamily groups kinds into integer/float/bool/none/other so
// comparison and equality can require "same primitive family" without
// requiring identical width.
func primitiveFamily(k types.Kind) int {
	switch {
	case types.IsInteger(k):
		return 0
	case types.IsFloat(k):
		return 1
	case k == types.Bool:
		return 2
	default:
		return 3
	}
}

func isLiteralZero(expr ast.Expression) bool {
	lit, ok := expr.(*ast.Literal)
	if !ok {
		return false
	}
	switch v := lit.Value.(type) {
	case int64:
		return v == 0
	case float64:
		return v == 0
	default:
		return false
	}
}

func (a *Analyser) VisitLogicalExpression(l *ast.Logical) any {
	leftType := unwrapEnvVar(a.typeOfExpr(l.Left))
	rightType := unwrapEnvVar(a.typeOfExpr(l.Right))
	leftPrim, leftOk := leftType.(types.Primitive)
	rightPrim, rightOk := rightType.(types.Primitive)
	if !leftOk || !rightOk || leftPrim.K != types.Bool || rightPrim.K != types.Bool {
		a.fail(CreateTypeError(l.Operator.Line, l.Operator.Column,
			fmt.Sprintf("operator %q requires bool operands, got %s and %s", l.Operator.Lexeme, leftType.String(), rightType.String())))
	}
	return a.record(l, types.Primitive{K: types.Bool}, types.ConstQualifier)
}

func (a *Analyser) VisitTernary(t *ast.Ternary) any {
	condType := unwrapEnvVar(a.typeOfExpr(t.Condition))
	if prim, ok := condType.(types.Primitive); !ok || prim.K != types.Bool {
		pos := t.Condition.Position()
		a.fail(CreateTypeError(pos.Line, pos.Column, "ternary condition must be bool"))
	}
	thenType := unwrapEnvVar(a.typeOfExpr(t.Then))
	elseType := unwrapEnvVar(a.typeOfExpr(t.Else))
	if types.Equal(thenType, elseType) {
		return a.record(t, thenType, types.ConstQualifier)
	}
	common, ok := types.Widen(thenType, elseType)
	if !ok {
		a.fail(CreateTypeError(t.Pos.Line, t.Pos.Column,
			fmt.Sprintf("ternary branches have incompatible types %s and %s", thenType.String(), elseType.String())))
	}
	return a.record(t, common, types.ConstQualifier)
}

// resolveAssignTarget is a small helper the statement visitors use to check
// mutability before an assignment; kept here alongside the other
// identifier-resolution helpers.
func (a *Analyser) resolveAssignTarget(name token.Token) *scope.Symbol {
	sym, ok := a.tree.Resolve(a.tracker.Current(), name.Lexeme)
	if !ok {
		a.fail(CreateResolutionError(name.Line, name.Column, fmt.Sprintf("undefined identifier %q", name.Lexeme)))
	}
	return sym
}
