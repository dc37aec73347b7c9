package compiler

import (
	"fmt"

	"barracuda/ast"
	"barracuda/scope"
)

// envIndexOperand resolves a direct `envvar[i]` access (sym itself is
// StorageEnvVar) to a single static OP_LOAD_ENV/OP_STORE_ENV operand.
// Indexing into an environment variable only supports a compile-time
// integer literal index: the host's declared per-variable stride/layout
// ("stride equal to the host's declared env-var count") is a runtime
// property this compiler has no way to fold a dynamic index against, so a
// non-literal index is a generation error rather than a silently wrong
// offset.
func envIndexOperand(sym *scope.Symbol, indices []ast.Expression) int {
	if len(indices) != 1 {
		panic(GenerationError{Message: fmt.Sprintf("environment variable %q supports only a single index", sym.Name)})
	}
	n, ok := literalIntValue(indices[0])
	if !ok {
		panic(GenerationError{Message: fmt.Sprintf("index into environment variable %q must be a compile-time integer literal", sym.Name)})
	}
	return sym.Slot + n
}

// literalIntValue extracts a non-negative int from a bare integer literal
// expression, mirroring semantic's own unexported constIntLiteral for the
// generator's compile-time-literal requirements.
func literalIntValue(expr ast.Expression) (int, bool) {
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
