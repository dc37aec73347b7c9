package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"barracuda/types"
)

func TestEstimateStackLinearSequence(t *testing.T) {
	var ins Instructions
	ins = append(ins, MakeInstruction(OP_CONST, 0)...)
	ins = append(ins, MakeInstruction(OP_CONST, 1)...)
	ins = append(ins, MakeInstruction(OP_BINARY)...)
	ins = append(ins, MakeInstruction(OP_POP)...)
	ins = append(ins, MakeInstruction(OP_END)...)

	depth, err := EstimateStack(Bytecode{
		Instructions: ins,
		Operators:    []Operator{OperatorNone, OperatorNone, OperatorAdd, OperatorNone, OperatorNone},
	})
	require.NoError(t, err)
	require.Equal(t, 2, depth)
}

func TestEstimateStackEmptyProgramIsZero(t *testing.T) {
	depth, err := EstimateStack(Bytecode{})
	require.NoError(t, err)
	require.Zero(t, depth)
}

func TestEstimateStackJoinsBranchesAtTheMax(t *testing.T) {
	b := NewBuilder(types.PrecisionF64)
	elseLabel := b.NewLabel("else")
	end := b.NewLabel("end")

	b.Emit(OP_CONST, b.AddValue(1)) // condition
	b.EmitJumpPlaceholder(OP_JUMP_IF_FALSE, elseLabel)
	b.Emit(OP_CONST, b.AddValue(1)) // then: pushes one value
	b.Emit(OP_POP)
	b.EmitJumpPlaceholder(OP_JUMP, end)
	b.PlaceLabel(elseLabel)
	b.Emit(OP_CONST, b.AddValue(2))
	b.Emit(OP_CONST, b.AddValue(3)) // else: pushes two values
	b.Emit(OP_POP)
	b.Emit(OP_POP)
	b.PlaceLabel(end)
	b.Emit(OP_END)

	bc, err := b.Finalize()
	require.NoError(t, err)

	depth, err := EstimateStack(bc)
	require.NoError(t, err)
	// OP_JUMP_IF_FALSE only peeks, so the condition value is still live
	// going into each branch: else pushes two more on top of it, for 3.
	require.Equal(t, 3, depth)
}

func TestEstimateStackTreatsCallTargetAsIndependentEntry(t *testing.T) {
	b := NewBuilder(types.PrecisionF64)
	fn := b.NewLabel("fn")
	end := b.NewLabel("end")

	b.EmitJumpPlaceholder(OP_JUMP, end)
	b.PlaceLabel(fn)
	b.Emit(OP_CONST, b.AddValue(1))
	b.Emit(OP_CONST, b.AddValue(2))
	b.Emit(OP_RETURN)
	b.PlaceLabel(end)
	b.EmitJumpPlaceholder(OP_CALL, fn)
	b.Emit(OP_END)

	bc, err := b.Finalize()
	require.NoError(t, err)

	depth, err := EstimateStack(bc)
	require.NoError(t, err)
	require.GreaterOrEqual(t, depth, 2)
}

func TestEstimateStackRejectsBadJumpTarget(t *testing.T) {
	ins := MakeInstruction(OP_JUMP, 999)
	_, err := EstimateStack(Bytecode{Instructions: ins, Operators: []Operator{OperatorNone}})
	require.Error(t, err)
	require.IsType(t, GenerationError{}, err)
}

func TestEstimateStackPropagatesDecodeError(t *testing.T) {
	_, err := EstimateStack(Bytecode{Instructions: []byte{0xFF}})
	require.Error(t, err)
}
