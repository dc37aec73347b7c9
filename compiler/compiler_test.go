package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"barracuda/lexer"
	"barracuda/parser"
	"barracuda/semantic"
	"barracuda/types"
)

// generate runs the full front end (lex, parse, analyse) over source and
// hands the result to Generate, failing the test on any stage's error —
// the same shape as semantic's own analyser_test.go helper, one stage
// further down the pipeline.
func generate(t *testing.T, source string) Bytecode {
	t.Helper()
	tokens, lexErr := lexer.New(source).Scan()
	require.NoError(t, lexErr)
	statements, parseErrors := parser.Make(tokens).Parse()
	require.Empty(t, parseErrors)
	result, semErr := semantic.NewAnalyser(types.PrecisionF64, nil).Analyse(statements)
	require.NoError(t, semErr)
	bc, err := Generate(statements, result, types.PrecisionF64)
	require.NoError(t, err)
	return bc
}

// opsOf decodes bc's instruction stream into its bare opcode sequence, for
// asserting shape without hand-computing every byte offset.
func opsOf(t *testing.T, bc Bytecode) []Opcode {
	t.Helper()
	decoded, err := decodeInstructions(bc.Instructions)
	require.NoError(t, err)
	ops := make([]Opcode, len(decoded))
	for i, in := range decoded {
		ops[i] = in.op
	}
	return ops
}

func TestGenerateArithmeticRespectsPrecedence(t *testing.T) {
	// 2 + 3 * 4 -> the multiplication's operands are pushed and combined
	// before the addition combines that result with 2.
	bc := generate(t, `let x = 2 + 3 * 4; print(x);`)
	require.Equal(t, []Opcode{
		OP_CONST, OP_CONST, OP_CONST, OP_BINARY, OP_BINARY,
		OP_STORE_GLOBAL, OP_LOAD_GLOBAL, OP_PRINT, OP_END,
	}, opsOf(t, bc))

	binaryOperators := []Operator{}
	for i, op := range opsOf(t, bc) {
		if op == OP_BINARY {
			binaryOperators = append(binaryOperators, bc.Operators[i])
		}
	}
	require.Equal(t, []Operator{OperatorMul, OperatorAdd}, binaryOperators)
	require.Equal(t, []float64{2, 3, 4}, bc.ConstantsPool)
}

func TestGenerateLetAndAssign(t *testing.T) {
	bc := generate(t, `let mut x = 1; x = 2;`)
	require.Equal(t, []Opcode{
		OP_CONST, OP_STORE_GLOBAL, OP_CONST, OP_STORE_GLOBAL, OP_END,
	}, opsOf(t, bc))
}

func TestGenerateVoidCallDoesNotPopPhantomValue(t *testing.T) {
	// A none-returning function's call, used as a bare expression
	// statement, must not be followed by an OP_POP: the callee never
	// pushed anything for that OP_POP to discard.
	bc := generate(t, `
		fn noop() { }
		noop();
	`)
	ops := opsOf(t, bc)
	// Entry sequence is just the call, then OP_END; no OP_POP in between.
	idx := -1
	for i, op := range ops {
		if op == OP_CALL {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	require.Less(t, idx+1, len(ops))
	require.Equal(t, OP_END, ops[idx+1])
}

func TestGenerateValueReturningCallStillPops(t *testing.T) {
	// A call to a value-returning function used as a bare statement DOES
	// leave a value behind, so it must still be popped.
	bc := generate(t, `
		fn one() -> i32 { return 1; }
		one();
	`)
	ops := opsOf(t, bc)
	idx := -1
	for i, op := range ops {
		if op == OP_CALL {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	require.Equal(t, OP_POP, ops[idx+1])
}

func TestGenerateIfElseProducesBalancedJumps(t *testing.T) {
	bc := generate(t, `
		let x = 1;
		if (x == 1) { print(1); } else { print(2); }
	`)
	// Finalize succeeds only if every label fixup resolved, which is the
	// real assertion here — an unbalanced if/else would leave a fixup
	// dangling and Generate would have already failed inside generate().
	ops := opsOf(t, bc)
	require.Contains(t, ops, OP_JUMP_IF_FALSE)
	require.Contains(t, ops, OP_JUMP)
}

func TestGenerateWhileLoopBackEdge(t *testing.T) {
	bc := generate(t, `
		let mut i = 0;
		while (i < 10) { i = i + 1; }
	`)
	decoded, err := decodeInstructions(bc.Instructions)
	require.NoError(t, err)
	var backEdge bool
	for _, in := range decoded {
		if in.op == OP_JUMP && in.operand < in.offset {
			backEdge = true
		}
	}
	require.True(t, backEdge, "expected a back-edge OP_JUMP targeting an earlier offset")
}

func TestGenerateBreakJumpsToLoopEnd(t *testing.T) {
	bc := generate(t, `
		while (true) { break; }
	`)
	require.Contains(t, opsOf(t, bc), OP_JUMP)
}

func TestGeneratePointerAddrAndDeref(t *testing.T) {
	bc := generate(t, `
		let x = 9;
		let p = &x;
		print(*p);
	`)
	ops := opsOf(t, bc)
	require.Contains(t, ops, OP_ADDR_GLOBAL)
	require.Contains(t, ops, OP_LOAD_INDIRECT)
}

func TestGenerateStoreThroughPointer(t *testing.T) {
	bc := generate(t, `
		let x = 9;
		let p = &x;
		*p = 1;
	`)
	require.Contains(t, opsOf(t, bc), OP_STORE_INDIRECT)
}

func TestGenerateArrayLiteralMaterialisesIntoOwnBinding(t *testing.T) {
	bc := generate(t, `
		let arr = [1, 2, 3];
		print(arr[1]);
	`)
	ops := opsOf(t, bc)
	// genArrayLet stores each element directly, with no separate
	// OP_ADDR_GLOBAL indirection for the let's own storage.
	require.Equal(t, 3, countOp(ops, OP_STORE_GLOBAL))
	require.Contains(t, ops, OP_INDEX_ADDR)
	require.Contains(t, ops, OP_LOAD_INDIRECT)
}

func TestGenerateFunctionCallReturnsSumOfArgs(t *testing.T) {
	bc := generate(t, `
		fn add(a: i32, b: i32) -> i32 { return a + b; }
		print(add(2, 3));
	`)
	ops := opsOf(t, bc)
	require.Contains(t, ops, OP_CALL)
	require.Contains(t, ops, OP_RETURN)
	require.Contains(t, ops, OP_STORE_LOCAL)
	require.Contains(t, ops, OP_LOAD_LOCAL)
}

func TestGenerateExternLoadAndStore(t *testing.T) {
	bc := generate(t, `
		extern count;
		print(count);
		count = count + 1;
	`)
	ops := opsOf(t, bc)
	require.Contains(t, ops, OP_LOAD_ENV)
	require.Contains(t, ops, OP_STORE_ENV)
}

func TestGenerateSymbolicAndKeywordLogicalOperatorsAgree(t *testing.T) {
	symbolic := generate(t, `let x = true && false || true; print(x);`)
	keyword := generate(t, `let x = true and false or true; print(x);`)
	require.Equal(t, opsOf(t, symbolic), opsOf(t, keyword))
}

func TestGenerateStringLiteralYieldsBaseAddress(t *testing.T) {
	bc := generate(t, `print("hi");`)
	require.Contains(t, opsOf(t, bc), OP_ADDR_GLOBAL)
}

// TestGenerateStringLiteralPacksOneSlotAtF32Precision is the S6 scenario:
// "hi\n" plus its zero terminator is exactly 4 bytes, which must collapse
// into a single f32 slot rather than one slot per character.
func TestGenerateStringLiteralPacksOneSlotAtF32Precision(t *testing.T) {
	tokens, lexErr := lexer.New(`let s = "hi\n"; print(s);`).Scan()
	require.NoError(t, lexErr)
	statements, parseErrors := parser.Make(tokens).Parse()
	require.Empty(t, parseErrors)
	result, semErr := semantic.NewAnalyser(types.PrecisionF32, nil).Analyse(statements)
	require.NoError(t, semErr)
	bc, err := Generate(statements, result, types.PrecisionF32)
	require.NoError(t, err)

	ops := opsOf(t, bc)
	// One OP_STORE_GLOBAL packs the string's single body slot, the other
	// binds `s` itself to the returned base address; packing one float per
	// character would instead need 4 stores for the body alone.
	require.Equal(t, 2, countOp(ops, OP_STORE_GLOBAL))

	want := float64(uint64('h') | uint64('i')<<8 | uint64('\n')<<16 | uint64(0)<<24)
	require.Contains(t, bc.ConstantsPool, want)
}

func countOp(ops []Opcode, want Opcode) int {
	n := 0
	for _, op := range ops {
		if op == want {
			n++
		}
	}
	return n
}
