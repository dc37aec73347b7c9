package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"barracuda/compiler"
)

func assemble(t *testing.T, ops ...[]int) compiler.Instructions {
	t.Helper()
	var ins compiler.Instructions
	for _, o := range ops {
		op := compiler.Opcode(o[0])
		encoded, err := compiler.AssembleInstruction(op, o[1:]...)
		require.NoError(t, err)
		ins = append(ins, encoded...)
	}
	return ins
}

func op(o compiler.Opcode, operands ...int) []int {
	out := []int{int(o)}
	return append(out, operands...)
}

func TestVMConstantsAndArithmetic(t *testing.T) {
	// 2 + 3 * 4, printed.
	bc := compiler.Bytecode{
		Operators: []compiler.Operator{
			compiler.OperatorNone,
			compiler.OperatorNone,
			compiler.OperatorNone,
			compiler.OperatorMul,
			compiler.OperatorAdd,
			compiler.OperatorNone,
			compiler.OperatorNone,
		},
		ConstantsPool: []float64{2, 3, 4},
	}
	bc.Instructions = assemble(t,
		op(compiler.OP_CONST, 0),
		op(compiler.OP_CONST, 1),
		op(compiler.OP_CONST, 2),
		op(compiler.OP_BINARY),
		op(compiler.OP_BINARY),
		op(compiler.OP_PRINT),
		op(compiler.OP_END),
	)

	var out bytes.Buffer
	machine := New(0, nil)
	machine.Stdout = &out
	require.NoError(t, machine.Run(bc))
	require.Equal(t, "14\n", out.String())
}

func TestVMGlobalsAndPointers(t *testing.T) {
	// let x = 7; let p = &x; *p = 9; print(x);
	bc := compiler.Bytecode{
		Operators: []compiler.Operator{
			compiler.OperatorNone, compiler.OperatorNone,
			compiler.OperatorNone, compiler.OperatorNone,
			compiler.OperatorNone, compiler.OperatorNone,
			compiler.OperatorNone, compiler.OperatorNone,
		},
		ConstantsPool: []float64{7, 9},
		UserSpaceSize: 1,
	}
	bc.Instructions = assemble(t,
		op(compiler.OP_CONST, 0),
		op(compiler.OP_STORE_GLOBAL, 0),
		op(compiler.OP_CONST, 1),
		op(compiler.OP_ADDR_GLOBAL, 0),
		op(compiler.OP_STORE_INDIRECT),
		op(compiler.OP_LOAD_GLOBAL, 0),
		op(compiler.OP_PRINT),
		op(compiler.OP_END),
	)

	var out bytes.Buffer
	machine := New(bc.UserSpaceSize, nil)
	machine.Stdout = &out
	require.NoError(t, machine.Run(bc))
	require.Equal(t, "9\n", out.String())
}

func TestVMCallAndReturn(t *testing.T) {
	// fn add(a, b) { return a + b; } print(add(2, 3));
	//
	//   0: OP_CONST 0       (2)
	//   3: OP_CONST 1       (3)
	//   6: OP_CALL  11      -> fn entry at byte 11
	//   9: OP_PRINT
	//  10: OP_END
	//  11: OP_STORE_LOCAL 1 (pop b into slot 1)
	//  14: OP_STORE_LOCAL 0 (pop a into slot 0)
	//  17: OP_LOAD_LOCAL 0
	//  20: OP_LOAD_LOCAL 1
	//  23: OP_BINARY          (add)
	//  24: OP_RETURN
	fnEntry := len(assemble(t,
		op(compiler.OP_CONST, 0),
		op(compiler.OP_CONST, 1),
		op(compiler.OP_CALL, 0),
		op(compiler.OP_PRINT),
		op(compiler.OP_END),
	))

	bc := compiler.Bytecode{
		Operators: []compiler.Operator{
			compiler.OperatorNone, compiler.OperatorNone, compiler.OperatorNone,
			compiler.OperatorNone, compiler.OperatorNone,
			compiler.OperatorNone, compiler.OperatorNone,
			compiler.OperatorNone, compiler.OperatorNone,
			compiler.OperatorAdd, compiler.OperatorNone,
		},
		ConstantsPool: []float64{2, 3},
	}
	bc.Instructions = assemble(t,
		op(compiler.OP_CONST, 0),
		op(compiler.OP_CONST, 1),
		op(compiler.OP_CALL, fnEntry),
		op(compiler.OP_PRINT),
		op(compiler.OP_END),
		op(compiler.OP_STORE_LOCAL, 1),
		op(compiler.OP_STORE_LOCAL, 0),
		op(compiler.OP_LOAD_LOCAL, 0),
		op(compiler.OP_LOAD_LOCAL, 1),
		op(compiler.OP_BINARY),
		op(compiler.OP_RETURN),
	)

	var out bytes.Buffer
	machine := New(0, nil)
	machine.Stdout = &out
	require.NoError(t, machine.Run(bc))
	require.Equal(t, "5\n", out.String())
}

func TestVMJumpIfFalseSkipsThenBranch(t *testing.T) {
	// if (0) { print(1); } print(2); — mirrors VisitIfStmt's own shape:
	// OP_JUMP_IF_FALSE peeks, each branch starts by popping the condition.
	cond := assemble(t, op(compiler.OP_CONST, 0))
	jump := assemble(t, op(compiler.OP_JUMP_IF_FALSE, 0)) // placeholder, patched below
	thenPart := assemble(t, op(compiler.OP_POP), op(compiler.OP_CONST, 1), op(compiler.OP_PRINT))
	elseTarget := len(cond) + len(jump) + len(thenPart)
	jump = assemble(t, op(compiler.OP_JUMP_IF_FALSE, elseTarget))
	elsePart := assemble(t, op(compiler.OP_POP), op(compiler.OP_CONST, 2), op(compiler.OP_PRINT), op(compiler.OP_END))

	bc := compiler.Bytecode{
		Operators:     make([]compiler.Operator, 9),
		ConstantsPool: []float64{0, 1, 2},
	}
	bc.Instructions = append(append(append(append(compiler.Instructions{}, cond...), jump...), thenPart...), elsePart...)

	var out bytes.Buffer
	machine := New(0, nil)
	machine.Stdout = &out
	require.NoError(t, machine.Run(bc))
	require.Equal(t, "2\n", out.String())
}

func TestVMEnvRoundTrip(t *testing.T) {
	// extern count; print(count); count = count + 1;
	bc := compiler.Bytecode{
		Operators:     []compiler.Operator{compiler.OperatorNone, compiler.OperatorNone, compiler.OperatorNone, compiler.OperatorNone, compiler.OperatorAdd, compiler.OperatorNone, compiler.OperatorNone},
		ConstantsPool: []float64{1},
	}
	bc.Instructions = assemble(t,
		op(compiler.OP_LOAD_ENV, 0),
		op(compiler.OP_PRINT),
		op(compiler.OP_LOAD_ENV, 0),
		op(compiler.OP_CONST, 0),
		op(compiler.OP_BINARY),
		op(compiler.OP_STORE_ENV, 0),
		op(compiler.OP_END),
	)

	var out bytes.Buffer
	machine := New(0, []float64{10})
	machine.Stdout = &out
	require.NoError(t, machine.Run(bc))
	require.Equal(t, "10\n", out.String())
	require.Equal(t, []float64{11}, machine.Env())
}

func TestFormatNumberTrimsWholeFloats(t *testing.T) {
	require.Equal(t, "3", formatNumber(3.0))
	require.True(t, strings.Contains(formatNumber(3.5), "3.5"))
}

func TestVMUnknownOpcodeIsRuntimeError(t *testing.T) {
	bc := compiler.Bytecode{Instructions: compiler.Instructions{0xFF}, Operators: []compiler.Operator{compiler.OperatorNone}}
	machine := New(0, nil)
	err := machine.Run(bc)
	require.Error(t, err)
	require.IsType(t, RuntimeError{}, err)
}
