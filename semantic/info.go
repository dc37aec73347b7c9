package semantic

import (
	"barracuda/ast"
	"barracuda/scope"
	"barracuda/types"
)

// Info is the per-expression annotation the analyser attaches to every
// expression node it type-checks. It is kept in a side table keyed by node
// identity (ast's node types are pointers for exactly this reason) rather
// than on the node itself, so the AST stays a plain syntax tree and typing
// is a separate, optional decoration of it — the same separation
// `go/types` draws between `ast.Expr` and `types.Info`.
type Info struct {
	Type      types.Type
	Qualifier types.Qualifier
}

// Result is everything the bytecode generator needs from a successful
// analysis: the scope tree (re-walked by the generator via scope.Tracker),
// the resolved function overload sets, the expression type side table, and
// the declaration-ordered lists of globals and environment variables.
type Result struct {
	Tree      *scope.Tree
	Functions *scope.FunctionTable
	Info      map[ast.Expression]Info
	Globals   []*scope.Symbol
	EnvVars   []*scope.Symbol

	// Impls maps each function declaration to the FunctionImpl overload it
	// registered, so the generator can assign it a label without
	// re-resolving its signature from scratch.
	Impls map[*ast.FuncDecl]*scope.FunctionImpl
}
