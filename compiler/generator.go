package compiler

import (
	"fmt"

	"barracuda/ast"
	"barracuda/scope"
	"barracuda/semantic"
	"barracuda/types"
)

// Generate walks a fully analysed program and produces its Bytecode. It
// implements ast.ExpressionVisitor/ast.StmtVisitor — the same dispatch
// idiom the semantic package's Analyser uses — but where the analyser
// annotates, Generate emits. It re-enters the
// exact scopes the analyser created via a fresh scope.Tracker positioned
// with Reenter (Design Notes: "a Tracker cursor that lets the analyser
// create scopes while the generator re-enters the same scopes in the same
// order"), so symbol lookups during generation resolve to the very same
// *scope.Symbol values the analyser typed, including the frame slot /
// user-space address Generate assigns onto them as it goes.
func Generate(statements []ast.Stmt, result *semantic.Result, precision types.Precision) (Bytecode, error) {
	g := &generator{
		builder:   NewBuilder(precision),
		tree:      result.Tree,
		tracker:   scope.NewTracker(result.Tree),
		functions: result.Functions,
		info:      result.Info,
	}
	return g.run(statements, result)
}

type generator struct {
	builder   *Builder
	tree      *scope.Tree
	tracker   *scope.Tracker
	functions *scope.FunctionTable
	info      map[ast.Expression]semantic.Info

	localSlot int // next free frame slot in the function currently being generated
	loopEnds  []string
}

func (g *generator) run(statements []ast.Stmt, result *semantic.Result) (b Bytecode, err error) {
	defer func() {
		if r := recover(); r != nil {
			if asErr, ok := r.(error); ok {
				err = asErr
				return
			}
			err = GenerationError{Message: fmt.Sprintf("%v", r)}
		}
	}()

	// Global slots (and the labels every declared function will jump to)
	// are assigned before any statement is emitted, exactly mirroring the
	// analyser's declarePass: a function body referencing a global or
	// calling a sibling function never has to wait for that global or
	// function to be textually reached.
	for _, sym := range result.Globals {
		sym.Slot = g.builder.AllocUserSpace(sym.Type.Size())
	}
	for _, stmt := range statements {
		if decl, ok := stmt.(*ast.FuncDecl); ok {
			impl := result.Impls[decl]
			impl.Label = g.builder.NewLabel("fn_" + decl.Name.Lexeme)
		}
	}

	// Function bodies are generated after the top-level statements so the
	// program's entry sequence runs first; OP_END terminates the main
	// sequence before any function body's instructions (which are only
	// ever reached via OP_CALL). The analyser's bodyPass opened one child
	// scope per top-level statement in strict source order, FuncDecls
	// included (semantic/statements.go VisitFuncDecl calls tracker.OpenNew
	// just like VisitBlockStmt/VisitForStmt do); Reentering only the
	// non-FuncDecl statements here would desync the tracker against that
	// order, so a FuncDecl's scope is Reentered (and immediately closed)
	// in its original position and remembered for genFuncDecl to push
	// back later with EnterHandle.
	var funcs []*ast.FuncDecl
	funcScopes := map[*ast.FuncDecl]scope.Handle{}
	for _, stmt := range statements {
		if decl, ok := stmt.(*ast.FuncDecl); ok {
			funcs = append(funcs, decl)
			funcScopes[decl] = g.tracker.Reenter()
			g.tracker.Close()
			continue
		}
		g.genStmt(stmt)
	}
	g.builder.Emit(OP_END)
	for _, decl := range funcs {
		g.genFuncDecl(decl, result.Impls[decl], funcScopes[decl])
	}

	return g.builder.Finalize()
}

func (g *generator) genStmt(stmt ast.Stmt) { stmt.Accept(g) }
func (g *generator) genExpr(expr ast.Expression) any { return expr.Accept(g) }

func (g *generator) typeOf(expr ast.Expression) types.Type   { return g.info[expr].Type }
func (g *generator) qualifierOf(expr ast.Expression) types.Qualifier { return g.info[expr].Qualifier }

func (g *generator) resolve(name string) *scope.Symbol {
	sym, ok := g.tree.Resolve(g.tracker.Current(), name)
	if !ok {
		panic(DeveloperError{Message: fmt.Sprintf("generator: unresolved identifier %q (should have failed semantic analysis)", name)})
	}
	return sym
}

// loadSymbolValue emits the load instruction appropriate to sym's storage
// class: identifier loads pick a load instruction by storage class.
func (g *generator) loadSymbolValue(sym *scope.Symbol) {
	switch sym.Storage {
	case scope.StorageLocal, scope.StorageParam:
		g.builder.Emit(OP_LOAD_LOCAL, sym.Slot)
	case scope.StorageGlobal:
		g.builder.Emit(OP_LOAD_GLOBAL, sym.Slot)
	case scope.StorageEnvVar:
		g.builder.Emit(OP_LOAD_ENV, sym.Slot)
	}
}

func (g *generator) storeSymbolValue(sym *scope.Symbol) {
	switch sym.Storage {
	case scope.StorageLocal, scope.StorageParam:
		g.builder.Emit(OP_STORE_LOCAL, sym.Slot)
	case scope.StorageGlobal:
		g.builder.Emit(OP_STORE_GLOBAL, sym.Slot)
	case scope.StorageEnvVar:
		g.builder.Emit(OP_STORE_ENV, sym.Slot)
	}
}

// addrOfSymbol emits the address-of instruction for sym itself (used by
// `&name` and by the first step of an index chain with no leading deref).
func (g *generator) addrOfSymbol(sym *scope.Symbol) {
	switch sym.Storage {
	case scope.StorageLocal, scope.StorageParam:
		g.builder.Emit(OP_ADDR_LOCAL, sym.Slot)
	case scope.StorageGlobal:
		g.builder.Emit(OP_ADDR_GLOBAL, sym.Slot)
	default:
		panic(SemanticError{Message: "cannot take the address of an environment variable"})
	}
}

// packValue converts a literal's raw Go value into the single float
// representation every value in the constant pool and value stack uses:
// integer values are emitted as floats. A decimal literal is narrowed
// through float32 first when precision is f32, so its stored value
// actually carries that precision's rounding instead of silently keeping
// full float64 accuracy.
func packValue(v any, precision types.Precision) float64 {
	switch val := v.(type) {
	case int64:
		return float64(val)
	case int:
		return float64(val)
	case float64:
		if precision == types.PrecisionF32 {
			return float64(float32(val))
		}
		return val
	case bool:
		if val {
			return 1
		}
		return 0
	case nil:
		return 0
	default:
		panic(DeveloperError{Message: fmt.Sprintf("generator: literal of unsupported Go type %T", v)})
	}
}
