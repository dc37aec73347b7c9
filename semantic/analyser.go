// Package semantic implements a two-pass analyser: a
// declare pass that collects global fn/extern/let symbols so that forward
// references resolve, followed by a body pass that walks every function
// body (and the global body) bottom-up, annotating each expression with
// its resolved type via the ast.ExpressionVisitor/ast.StmtVisitor pattern —
// the same dispatch idiom a tree-walking evaluator uses, here driving
// type-checking instead of evaluation.
package semantic

import (
	"fmt"

	"barracuda/ast"
	"barracuda/scope"
	"barracuda/types"
)

// Analyser walks a parsed program once to declare its globals, then again
// to type-check every statement and expression. Errors are raised as
// panics internal to the Visit* methods and recovered at Analyse —
// convenient here because a visitor's `any` return type leaves
// no room to thread a Go error back through a deeply nested Accept chain.
type Analyser struct {
	precision types.Precision

	tree      *scope.Tree
	tracker   *scope.Tracker
	functions *scope.FunctionTable
	info      map[ast.Expression]Info

	implByDecl map[*ast.FuncDecl]*scope.FunctionImpl

	globals []*scope.Symbol
	envVars []*scope.Symbol

	requestedIndices map[string]int // caller-supplied host indices, from envtable.Request
	usedIndices      map[int]string
	nextEnvIndex     int

	currentReturn    types.Type
	hasCurrentReturn bool
	loopDepth        int
}

// NewAnalyser creates an analyser configured with the compiler's numeric
// precision and the caller-supplied environment-variable host indices
// (identifier -> host index; nil or missing entries are assigned
// sequentially starting at 0, skipping any index already claimed).
func NewAnalyser(precision types.Precision, requestedIndices map[string]int) *Analyser {
	tree := scope.NewTree()
	return &Analyser{
		precision:        precision,
		tree:             tree,
		tracker:          scope.NewTracker(tree),
		functions:        scope.NewFunctionTable(),
		info:             map[ast.Expression]Info{},
		implByDecl:       map[*ast.FuncDecl]*scope.FunctionImpl{},
		requestedIndices: requestedIndices,
		usedIndices:      map[int]string{},
	}
}

// Analyse runs the declare pass then the body pass over the whole program,
// returning the accumulated Result or the first semantic error encountered.
func (a *Analyser) Analyse(statements []ast.Stmt) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			if asErr, ok := r.(error); ok {
				err = asErr
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()

	a.declarePass(statements)
	a.bodyPass(statements)

	return &Result{
		Tree:      a.tree,
		Functions: a.functions,
		Info:      a.info,
		Globals:   a.globals,
		EnvVars:   a.envVars,
		Impls:     a.implByDecl,
	}, nil
}

// declarePass collects every global fn signature, extern binding, and
// global let binding so that later references (including a function
// calling one declared after it) resolve regardless of source order.
func (a *Analyser) declarePass(statements []ast.Stmt) {
	for _, stmt := range statements {
		switch decl := stmt.(type) {
		case *ast.FuncDecl:
			a.declareFunc(decl)
		case *ast.ExternDecl:
			a.declareExtern(decl)
		}
	}
	for _, stmt := range statements {
		if letStmt, ok := stmt.(*ast.LetStmt); ok {
			a.declareGlobalLet(letStmt)
		}
	}
}

func (a *Analyser) declareFunc(decl *ast.FuncDecl) {
	params := make([]scope.FuncParam, 0, len(decl.Params))
	for _, p := range decl.Params {
		params = append(params, scope.FuncParam{Type: a.resolveTypeExpr(p.Type), Qualifier: p.Qualifier})
	}
	var returnType types.Type = types.Primitive{K: types.None}
	if decl.ReturnType != nil {
		returnType = a.resolveTypeExpr(decl.ReturnType)
	}
	impl := &scope.FunctionImpl{Name: decl.Name.Lexeme, Params: params, ReturnType: returnType}
	if err := a.functions.Declare(impl); err != nil {
		a.fail(CreateOverloadError(decl.Name.Line, decl.Name.Column, err.Error()))
	}
	a.implByDecl[decl] = impl
}

func (a *Analyser) declareExtern(decl *ast.ExternDecl) {
	name := decl.Name.Lexeme
	index, ok := a.requestedIndices[name]
	if !ok {
		for {
			if _, taken := a.usedIndices[a.nextEnvIndex]; !taken {
				index = a.nextEnvIndex
				break
			}
			a.nextEnvIndex++
		}
	}
	if existing, taken := a.usedIndices[index]; taken && existing != name {
		a.fail(CreateResolutionError(decl.Name.Line, decl.Name.Column,
			fmt.Sprintf("environment variable host index %d is already assigned to %q", index, existing)))
	}
	a.usedIndices[index] = name
	a.nextEnvIndex = index + 1

	var elem types.Type = types.Primitive{K: types.F64}
	if decl.Type != nil {
		elem = a.resolveTypeExpr(decl.Type)
	}
	sym := &scope.Symbol{
		Name: name, Type: types.EnvVarType{Elem: elem}, Qualifier: types.MutQualifier,
		Storage: scope.StorageEnvVar, Initialized: true, Slot: index,
	}
	if err := a.tree.Declare(a.tree.Root(), sym); err != nil {
		a.fail(CreateResolutionError(decl.Name.Line, decl.Name.Column, err.Error()))
	}
	a.envVars = append(a.envVars, sym)
}

func (a *Analyser) declareGlobalLet(letStmt *ast.LetStmt) {
	sym := a.bindLet(letStmt, scope.StorageGlobal)
	a.globals = append(a.globals, sym)
}

// resolveTypeExpr turns a syntactic ast.TypeExpr into a types.Type. Array
// lengths must fold to a non-negative integer literal — Barracuda has no
// general constant-folding pass, so only a bare literal length is
// supported, matching invariant I4 (const arrays are fully static).
func (a *Analyser) resolveTypeExpr(expr ast.TypeExpr) types.Type {
	switch te := expr.(type) {
	case ast.NamedType:
		kind, ok := namedTypeKinds[te.Name]
		if !ok {
			a.fail(CreateTypeError(0, 0, fmt.Sprintf("unknown type name %q", te.Name)))
		}
		return types.Primitive{K: kind}
	case ast.PointerTypeExpr:
		return types.PointerType{Elem: a.resolveTypeExpr(te.Elem)}
	case ast.ArrayTypeExpr:
		length, ok := constIntLiteral(te.Len)
		if !ok {
			pos := te.Len.Position()
			a.fail(CreateTypeError(pos.Line, pos.Column, "array length must be a non-negative integer literal"))
		}
		return types.ArrayType{Elem: a.resolveTypeExpr(te.Elem), Len: length}
	default:
		a.fail(CreateTypeError(0, 0, "unrecognised type annotation"))
		return nil
	}
}

var namedTypeKinds = map[string]types.Kind{
	"i8": types.I8, "i16": types.I16, "i32": types.I32, "i64": types.I64, "i128": types.I128,
	"f8": types.F8, "f16": types.F16, "f32": types.F32, "f64": types.F64, "f128": types.F128,
	"bool": types.Bool, "none": types.None,
}

// constIntLiteral extracts a non-negative int from a bare integer literal
// expression, the only array-length form this compiler folds.
func constIntLiteral(expr ast.Expression) (int, bool) {
	lit, ok := expr.(*ast.Literal)
	if !ok {
		return 0, false
	}
	switch v := lit.Value.(type) {
	case int64:
		if v < 0 {
			return 0, false
		}
		return int(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// fail raises a semantic error, unwound to Analyse's recover.
func (a *Analyser) fail(err error) {
	panic(err)
}
