package compiler

import (
	"fmt"

	"barracuda/ast"
	"barracuda/scope"
	"barracuda/types"
)

// genLetStmt binds a `let`'s storage and, if present, emits its
// initialiser. An array-typed let (mut or const alike) is special-cased:
// its elements are stored directly into its own symbol's slot rather than
// through the general VisitArrayLiteral path, which would otherwise
// allocate a second region and return a pointer to it for nothing.
func (g *generator) genLetStmt(stmt *ast.LetStmt) {
	sym, ok := g.tree.ResolveLocal(g.tracker.Current(), stmt.Name.Lexeme)
	if !ok {
		panic(DeveloperError{Message: fmt.Sprintf("generator: %q not declared in its own scope (should have failed semantic analysis)", stmt.Name.Lexeme)})
	}

	if arrType, isArray := sym.Type.(types.ArrayType); isArray {
		g.genArrayLet(stmt, sym, arrType)
		return
	}

	if sym.Storage == scope.StorageLocal {
		sym.Slot = g.localSlot
		g.localSlot++
	}
	if stmt.Init == nil {
		return
	}
	g.genExpr(stmt.Init)
	g.storeSymbolValue(sym)
}

func (g *generator) genArrayLet(stmt *ast.LetStmt, sym *scope.Symbol, arrType types.ArrayType) {
	storeOp := OP_STORE_GLOBAL
	if sym.Storage == scope.StorageLocal {
		sym.Slot = g.localSlot
		g.localSlot += arrType.Size()
		storeOp = OP_STORE_LOCAL
	}

	if stmt.Init == nil {
		return
	}
	lit, ok := stmt.Init.(*ast.ArrayLiteral)
	if !ok {
		panic(GenerationError{Message: fmt.Sprintf("array let %q initialised from a non-literal expression is unsupported", stmt.Name.Lexeme)})
	}
	for i, elem := range lit.Elements {
		g.genExpr(elem)
		g.builder.Emit(storeOp, sym.Slot+i)
	}
}

func (g *generator) VisitLetStmt(stmt *ast.LetStmt) any {
	g.genLetStmt(stmt)
	return nil
}

// VisitAssignStmt compiles assignment to an LValue. A plain name with no
// leading deref and no index suffix stores straight into the symbol; a
// direct index into an environment variable resolves through envIndexOperand
// instead of the general address-chain path (environment storage has no
// flat-memory address at all); every other shape evaluates the value, then
// the target's address chain, then stores indirectly.
func (g *generator) VisitAssignStmt(stmt *ast.AssignStmt) any {
	sym := g.resolve(stmt.Target.Name.Lexeme)

	if stmt.Target.Derefs == 0 && len(stmt.Target.Indices) == 0 {
		g.genExpr(stmt.Value)
		g.storeSymbolValue(sym)
		return nil
	}

	if stmt.Target.Derefs == 0 && sym.Storage == scope.StorageEnvVar {
		g.genExpr(stmt.Value)
		g.builder.Emit(OP_STORE_ENV, envIndexOperand(sym, stmt.Target.Indices))
		return nil
	}

	g.genExpr(stmt.Value)
	g.emitLValueAddress(sym, stmt.Target)
	g.builder.Emit(OP_STORE_INDIRECT)
	return nil
}

// emitLValueAddress is the assignment-target counterpart of
// emitElementAddress: it leaves the address stmt.Target refers to on top
// of the stack, built the same way — sym's own address if indexed
// directly, sym's value if dereferenced first (a pointer value is itself
// the address to index from or store through), then each index suffix
// composed with OP_INDEX_ADDR.
func (g *generator) emitLValueAddress(sym *scope.Symbol, target ast.LValue) {
	if target.Derefs == 0 {
		g.addrOfSymbol(sym)
	} else {
		g.loadSymbolValue(sym)
		for i := 1; i < target.Derefs; i++ {
			g.builder.Emit(OP_LOAD_INDIRECT)
		}
	}
	for _, idx := range target.Indices {
		g.genExpr(idx)
		g.builder.Emit(OP_INDEX_ADDR)
	}
}

// VisitExpressionStmt discards the bare expression-statement's value — but
// only if it left one. A call to a `none`-returning function pushes
// nothing (genFuncDecl's OP_RETURN carries no value on every one of that
// function's exit paths), so popping unconditionally here would discard
// whatever the enclosing context had on the stack instead.
func (g *generator) VisitExpressionStmt(stmt *ast.ExpressionStmt) any {
	g.genExpr(stmt.Expression)
	if prim, ok := g.typeOf(stmt.Expression).(types.Primitive); ok && prim.K == types.None {
		return nil
	}
	g.builder.Emit(OP_POP)
	return nil
}

// VisitPrintStmt prints the expression's value. A string literal's value
// is the base address of its packed characters rather than its
// contents — rendering those characters to a host console is a runtime
// concern of the VM/host, not something this compiler resolves at
// generation time, so print is uniform over every scalar expression.
func (g *generator) VisitPrintStmt(stmt *ast.PrintStmt) any {
	g.genExpr(stmt.Expression)
	g.builder.Emit(OP_PRINT)
	return nil
}

func (g *generator) VisitBlockStmt(stmt *ast.BlockStmt) any {
	g.tracker.Reenter()
	for _, s := range stmt.Statements {
		g.genStmt(s)
	}
	g.tracker.Close()
	return nil
}

// VisitIfStmt uses a peek-only OP_JUMP_IF_FALSE convention
// (see VisitLogicalExpression/VisitTernary): the condition is left on the
// stack by both the taken and not-taken path, so each branch pops it
// explicitly before running.
func (g *generator) VisitIfStmt(stmt *ast.IfStmt) any {
	g.genExpr(stmt.Condition)
	elseLabel := g.builder.NewLabel("if_else")
	end := g.builder.NewLabel("if_end")
	g.builder.EmitJumpPlaceholder(OP_JUMP_IF_FALSE, elseLabel)
	g.builder.Emit(OP_POP)
	g.genStmt(stmt.Then)
	g.builder.EmitJumpPlaceholder(OP_JUMP, end)
	g.builder.PlaceLabel(elseLabel)
	g.builder.Emit(OP_POP)
	if stmt.Else != nil {
		g.genStmt(stmt.Else)
	}
	g.builder.PlaceLabel(end)
	return nil
}

// VisitWhileStmt desugars `while (cond) body` into a labelled back-edge.
// The falsy-exit label performs the condition pop and sits immediately
// before `end`; `break` jumps straight to `end`, skipping that pop, since
// a break never leaves an extra condition value on the stack to begin
// with — both arrival paths reach `end` at the same stack depth.
func (g *generator) VisitWhileStmt(stmt *ast.WhileStmt) any {
	start := g.builder.NewLabel("while_start")
	falsyExit := g.builder.NewLabel("while_falsy_exit")
	end := g.builder.NewLabel("while_end")

	g.builder.PlaceLabel(start)
	g.genExpr(stmt.Condition)
	g.builder.EmitJumpPlaceholder(OP_JUMP_IF_FALSE, falsyExit)
	g.builder.Emit(OP_POP)

	g.loopEnds = append(g.loopEnds, end)
	g.genStmt(stmt.Body)
	g.loopEnds = g.loopEnds[:len(g.loopEnds)-1]

	g.builder.EmitJumpPlaceholder(OP_JUMP, start)
	g.builder.PlaceLabel(falsyExit)
	g.builder.Emit(OP_POP)
	g.builder.PlaceLabel(end)
	return nil
}

// VisitForStmt desugars the three-clause `for` the same way, reentering
// the scope the analyser opened for init/cond/body/step (VisitForStmt in
// semantic/statements.go).
func (g *generator) VisitForStmt(stmt *ast.ForStmt) any {
	g.tracker.Reenter()
	if stmt.Init != nil {
		g.genStmt(stmt.Init)
	}

	start := g.builder.NewLabel("for_start")
	end := g.builder.NewLabel("for_end")
	g.builder.PlaceLabel(start)

	if stmt.Cond != nil {
		falsyExit := g.builder.NewLabel("for_falsy_exit")
		g.genExpr(stmt.Cond)
		g.builder.EmitJumpPlaceholder(OP_JUMP_IF_FALSE, falsyExit)
		g.builder.Emit(OP_POP)

		g.loopEnds = append(g.loopEnds, end)
		g.genStmt(stmt.Body)
		g.loopEnds = g.loopEnds[:len(g.loopEnds)-1]
		if stmt.Step != nil {
			g.genStmt(stmt.Step)
		}

		g.builder.EmitJumpPlaceholder(OP_JUMP, start)
		g.builder.PlaceLabel(falsyExit)
		g.builder.Emit(OP_POP)
		g.builder.PlaceLabel(end)
	} else {
		g.loopEnds = append(g.loopEnds, end)
		g.genStmt(stmt.Body)
		g.loopEnds = g.loopEnds[:len(g.loopEnds)-1]
		if stmt.Step != nil {
			g.genStmt(stmt.Step)
		}
		g.builder.EmitJumpPlaceholder(OP_JUMP, start)
		g.builder.PlaceLabel(end)
	}

	g.tracker.Close()
	return nil
}

func (g *generator) VisitReturnStmt(stmt *ast.ReturnStmt) any {
	if stmt.Value != nil {
		g.genExpr(stmt.Value)
	}
	g.builder.Emit(OP_RETURN)
	return nil
}

func (g *generator) VisitBreakStmt(stmt *ast.BreakStmt) any {
	if len(g.loopEnds) == 0 {
		panic(DeveloperError{Message: "generator: 'break' outside of a loop (should have failed semantic analysis)"})
	}
	g.builder.EmitJumpPlaceholder(OP_JUMP, g.loopEnds[len(g.loopEnds)-1])
	return nil
}

// VisitFuncDecl is a no-op: generator.run collects every top-level
// FuncDecl up front and generates each one with genFuncDecl after the
// entry sequence, so a FuncDecl is never reached through the ordinary
// genStmt dispatch.
func (g *generator) VisitFuncDecl(decl *ast.FuncDecl) any { return nil }

// VisitExternDecl is a no-op, matching the analyser: an environment
// variable carries everything generation needs (its host Slot) on the
// *scope.Symbol the declare pass already created.
func (g *generator) VisitExternDecl(decl *ast.ExternDecl) any { return nil }

// genFuncDecl generates one function's entry point, argument-unpacking
// prologue, body, and fallback epilogue. It reenters the scope
// semantic.Analyser.VisitFuncDecl opened for this declaration (handle,
// captured by generator.run before genFuncDecl is reached) directly via
// EnterHandle rather than Reenter, since the positional Reenter call that
// discovered it already happened during run's first pass.
func (g *generator) genFuncDecl(decl *ast.FuncDecl, impl *scope.FunctionImpl, handle scope.Handle) {
	g.builder.PlaceLabel(impl.Label)
	g.tracker.EnterHandle(handle)

	previousLocalSlot := g.localSlot
	g.localSlot = len(decl.Params)

	// The caller pushes arguments left-to-right, so the last argument
	// pushed sits on top of the stack; popping in reverse order lands
	// each argument in the slot semantic.Analyser.VisitFuncDecl already
	// assigned its parameter (Slot = its position in decl.Params).
	for i := len(decl.Params) - 1; i >= 0; i-- {
		g.builder.Emit(OP_STORE_LOCAL, i)
	}

	for _, stmt := range decl.Body.Statements {
		g.genStmt(stmt)
	}

	// A function whose control falls off the end without an explicit
	// `return` implicitly returns no value; semantic analysis does not
	// currently enforce that every path through a typed function returns
	// a value, so this same fallback also covers that unchecked case.
	g.builder.Emit(OP_RETURN)

	g.localSlot = previousLocalSlot
	g.tracker.Close()
}
