package semantic

import (
	"fmt"

	"barracuda/ast"
	"barracuda/scope"
	"barracuda/types"
)

// bodyPass type-checks every statement that isn't a pure declaration
// already fully resolved by declarePass: function bodies, and any
// executable statement living at the top level (the "global body" of
// the body pass).
func (a *Analyser) bodyPass(statements []ast.Stmt) {
	for _, stmt := range statements {
		switch stmt.(type) {
		case *ast.LetStmt, *ast.ExternDecl:
			// fully handled by declarePass
			continue
		}
		a.analyseStmt(stmt)
	}
}

func (a *Analyser) analyseStmt(stmt ast.Stmt) {
	stmt.Accept(a)
}

// bindLet implements the six `let` surface forms: qualifier
// optional (defaulting to const), explicit/inferred type, with/without an
// initialiser. It is shared by the declare pass (global lets) and the body
// pass (local lets inside a function or block).
func (a *Analyser) bindLet(stmt *ast.LetStmt, storage scope.Storage) *scope.Symbol {
	var declaredType types.Type
	if stmt.TypeAnn != nil {
		declaredType = a.resolveTypeExpr(stmt.TypeAnn)
	}

	var qualifier types.Qualifier = types.ConstQualifier
	if stmt.HasQualifier {
		qualifier = stmt.Qualifier
	}

	if stmt.Init != nil {
		initType := a.typeOfExpr(stmt.Init)
		if declaredType != nil {
			if !types.AssignableTo(initType, declaredType) {
				pos := stmt.Init.Position()
				a.fail(CreateTypeError(pos.Line, pos.Column,
					fmt.Sprintf("cannot assign %s to %s binding %q", initType.String(), declaredType.String(), stmt.Name.Lexeme)))
			}
		} else {
			declaredType = initType
		}
	} else if declaredType == nil {
		a.fail(CreateTypeError(stmt.Name.Line, stmt.Name.Column,
			fmt.Sprintf("'let %s' with no initialiser requires an explicit type", stmt.Name.Lexeme)))
	}

	sym := &scope.Symbol{
		Name: stmt.Name.Lexeme, Type: declaredType, Qualifier: qualifier,
		Storage: storage, Initialized: stmt.Init != nil,
	}
	if err := a.tree.Declare(a.tracker.Current(), sym); err != nil {
		a.fail(CreateResolutionError(stmt.Name.Line, stmt.Name.Column, err.Error()))
	}
	return sym
}

func (a *Analyser) VisitLetStmt(stmt *ast.LetStmt) any {
	a.bindLet(stmt, scope.StorageLocal)
	return nil
}

func (a *Analyser) VisitAssignStmt(stmt *ast.AssignStmt) any {
	sym := a.resolveAssignTarget(stmt.Target.Name)
	currentType := sym.Type
	mutable := sym.IsMutable() || sym.Storage == scope.StorageEnvVar

	for i := 0; i < stmt.Target.Derefs; i++ {
		ptr, ok := unwrapEnvVar(currentType).(types.PointerType)
		if !ok {
			a.fail(CreateTypeError(stmt.Target.Name.Line, stmt.Target.Name.Column,
				fmt.Sprintf("cannot dereference non-pointer type %s", currentType.String())))
		}
		currentType = ptr.Elem
		mutable = true // storage reached through a pointer is always writable
	}

	for _, idxExpr := range stmt.Target.Indices {
		idxType := a.typeOfExpr(idxExpr)
		if prim, ok := idxType.(types.Primitive); !ok || !types.IsInteger(prim.K) {
			pos := idxExpr.Position()
			a.fail(CreateTypeError(pos.Line, pos.Column, "array/pointer index must be an integer"))
		}
		switch t := unwrapEnvVar(currentType).(type) {
		case types.ArrayType:
			currentType = t.Elem
		case types.PointerType:
			currentType = t.Elem
		default:
			a.fail(CreateTypeError(stmt.Target.Name.Line, stmt.Target.Name.Column,
				fmt.Sprintf("cannot index non-array, non-pointer type %s", currentType.String())))
		}
	}

	if !mutable {
		a.fail(CreateQualifierError(stmt.Target.Name.Line, stmt.Target.Name.Column,
			fmt.Sprintf("cannot assign to const-qualified %q", stmt.Target.Name.Lexeme)))
	}

	valueType := a.typeOfExpr(stmt.Value)
	if !types.AssignableTo(unwrapEnvVar(valueType), unwrapEnvVar(currentType)) {
		pos := stmt.Value.Position()
		a.fail(CreateTypeError(pos.Line, pos.Column,
			fmt.Sprintf("cannot assign %s to %s", valueType.String(), currentType.String())))
	}
	return nil
}

func (a *Analyser) VisitExpressionStmt(stmt *ast.ExpressionStmt) any {
	a.typeOfExpr(stmt.Expression)
	return nil
}

func (a *Analyser) VisitPrintStmt(stmt *ast.PrintStmt) any {
	t := unwrapEnvVar(a.typeOfExpr(stmt.Expression))
	if _, ok := t.(types.ArrayType); ok {
		pos := stmt.Expression.Position()
		a.fail(CreateTypeError(pos.Line, pos.Column, "print requires a scalar value, got an array"))
	}
	return nil
}

func (a *Analyser) VisitBlockStmt(stmt *ast.BlockStmt) any {
	a.tracker.OpenNew()
	for _, s := range stmt.Statements {
		a.analyseStmt(s)
	}
	a.tracker.Close()
	return nil
}

func (a *Analyser) requireBool(expr ast.Expression, context string) {
	t := unwrapEnvVar(a.typeOfExpr(expr))
	if prim, ok := t.(types.Primitive); !ok || prim.K != types.Bool {
		pos := expr.Position()
		a.fail(CreateTypeError(pos.Line, pos.Column, fmt.Sprintf("%s must be bool, got %s", context, t.String())))
	}
}

func (a *Analyser) VisitIfStmt(stmt *ast.IfStmt) any {
	a.requireBool(stmt.Condition, "if condition")
	a.analyseStmt(stmt.Then)
	if stmt.Else != nil {
		a.analyseStmt(stmt.Else)
	}
	return nil
}

func (a *Analyser) VisitWhileStmt(stmt *ast.WhileStmt) any {
	a.requireBool(stmt.Condition, "while condition")
	a.loopDepth++
	a.analyseStmt(stmt.Body)
	a.loopDepth--
	return nil
}

func (a *Analyser) VisitForStmt(stmt *ast.ForStmt) any {
	a.tracker.OpenNew()
	if stmt.Init != nil {
		a.analyseStmt(stmt.Init)
	}
	if stmt.Cond != nil {
		a.requireBool(stmt.Cond, "for condition")
	}
	a.loopDepth++
	a.analyseStmt(stmt.Body)
	if stmt.Step != nil {
		a.analyseStmt(stmt.Step)
	}
	a.loopDepth--
	a.tracker.Close()
	return nil
}

func (a *Analyser) VisitReturnStmt(stmt *ast.ReturnStmt) any {
	if !a.hasCurrentReturn {
		a.fail(CreateTypeError(stmt.Line, stmt.Column, "'return' outside of a function"))
	}
	noneReturn := isNoneType(a.currentReturn)

	if stmt.Value == nil {
		if !noneReturn {
			a.fail(CreateTypeError(stmt.Line, stmt.Column, fmt.Sprintf("function must return a value of type %s", a.currentReturn.String())))
		}
		return nil
	}
	if noneReturn {
		pos := stmt.Value.Position()
		a.fail(CreateTypeError(pos.Line, pos.Column, "function has no return type; 'return' must not carry a value"))
	}
	valueType := a.typeOfExpr(stmt.Value)
	if !types.AssignableTo(valueType, a.currentReturn) {
		pos := stmt.Value.Position()
		a.fail(CreateTypeError(pos.Line, pos.Column,
			fmt.Sprintf("cannot return %s from a function declared to return %s", valueType.String(), a.currentReturn.String())))
	}
	return nil
}

func isNoneType(t types.Type) bool {
	if t == nil {
		return true
	}
	prim, ok := t.(types.Primitive)
	return ok && prim.K == types.None
}

func (a *Analyser) VisitBreakStmt(stmt *ast.BreakStmt) any {
	if a.loopDepth == 0 {
		a.fail(CreateTypeError(stmt.Line, stmt.Column, "'break' outside of a loop"))
	}
	return nil
}

func (a *Analyser) VisitFuncDecl(decl *ast.FuncDecl) any {
	impl, ok := a.implByDecl[decl]
	if !ok {
		a.fail(CreateResolutionError(decl.Name.Line, decl.Name.Column, fmt.Sprintf("internal error: no declared signature for %q", decl.Name.Lexeme)))
	}

	previousReturn, previousHas := a.currentReturn, a.hasCurrentReturn
	a.currentReturn, a.hasCurrentReturn = impl.ReturnType, true

	handle := a.tracker.OpenNew()
	for i, param := range decl.Params {
		sym := &scope.Symbol{
			Name: param.Name.Lexeme, Type: impl.Params[i].Type, Qualifier: param.Qualifier,
			Storage: scope.StorageParam, Initialized: true, Slot: i,
		}
		if err := a.tree.Declare(handle, sym); err != nil {
			a.fail(CreateResolutionError(param.Name.Line, param.Name.Column, err.Error()))
		}
	}
	for _, s := range decl.Body.Statements {
		a.analyseStmt(s)
	}
	a.tracker.Close()

	a.currentReturn, a.hasCurrentReturn = previousReturn, previousHas
	return nil
}

func (a *Analyser) VisitExternDecl(decl *ast.ExternDecl) any {
	return nil
}
