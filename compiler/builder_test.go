package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"barracuda/types"
)

func TestBuilderEmitTracksOffsetAndOperators(t *testing.T) {
	b := NewBuilder(types.PrecisionF64)
	first := b.Emit(OP_CONST, 0)
	require.Equal(t, 0, first)
	second := b.EmitOperator(OP_BINARY, OperatorAdd)
	require.Equal(t, 3, second) // OP_CONST is a 3-byte instruction
	require.Equal(t, 4, b.Len())

	bc, err := b.Finalize()
	require.NoError(t, err)
	require.Equal(t, []Operator{OperatorNone, OperatorAdd}, bc.Operators)
}

func TestBuilderAddValueReturnsPoolIndex(t *testing.T) {
	b := NewBuilder(types.PrecisionF64)
	require.Equal(t, 0, b.AddValue(1))
	require.Equal(t, 1, b.AddValue(2))
	require.Equal(t, 2, b.AddValue(3))

	bc, err := b.Finalize()
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3}, bc.ConstantsPool)
}

func TestBuilderAllocUserSpaceAdvancesCursor(t *testing.T) {
	b := NewBuilder(types.PrecisionF64)
	first := b.AllocUserSpace(1)
	second := b.AllocUserSpace(3)
	require.Equal(t, 0, first)
	require.Equal(t, 1, second)

	bc, err := b.Finalize()
	require.NoError(t, err)
	require.Equal(t, 4, bc.UserSpaceSize)
}

func TestBuilderNewLabelIsMonotonicallyUnique(t *testing.T) {
	b := NewBuilder(types.PrecisionF64)
	require.NotEqual(t, b.NewLabel("loop"), b.NewLabel("loop"))
}

func TestBuilderFixupPatchesForwardJump(t *testing.T) {
	b := NewBuilder(types.PrecisionF64)
	end := b.NewLabel("end")
	b.EmitJumpPlaceholder(OP_JUMP, end)
	b.Emit(OP_POP)
	b.PlaceLabel(end)
	b.Emit(OP_END)

	bc, err := b.Finalize()
	require.NoError(t, err)

	decoded, err := decodeInstructions(bc.Instructions)
	require.NoError(t, err)
	require.Equal(t, OP_JUMP, decoded[0].op)
	require.Equal(t, decoded[2].offset, decoded[0].operand) // patched to OP_END's offset
}

func TestBuilderFinalizeRejectsUnresolvedLabel(t *testing.T) {
	b := NewBuilder(types.PrecisionF64)
	b.EmitJumpPlaceholder(OP_JUMP, "never_placed")
	_, err := b.Finalize()
	require.Error(t, err)
	require.IsType(t, GenerationError{}, err)
}
