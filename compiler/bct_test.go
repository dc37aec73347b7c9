package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteBCTRoundTripsThroughReadBCT(t *testing.T) {
	bc := generate(t, `
		fn add(a: i32, b: i32) -> i32 { return a + b; }
		let x = 1;
		print(add(x, 2));
	`)

	text, err := WriteBCT(bc)
	require.NoError(t, err)

	back, err := ReadBCT(text)
	require.NoError(t, err)

	require.Equal(t, bc.Instructions, back.Instructions)
	require.Equal(t, bc.Operators, back.Operators)
	require.Equal(t, bc.ConstantsPool, back.ConstantsPool)
	// UserSpaceSize is deliberately not part of the .bct format.
	require.Zero(t, back.UserSpaceSize)
}

func TestWriteBCTProducesThreeLabelledSections(t *testing.T) {
	bc := generate(t, `let x = 1 + 2; print(x);`)
	text, err := WriteBCT(bc)
	require.NoError(t, err)
	require.True(t, strings.Contains(text, "# values\n"))
	require.True(t, strings.Contains(text, "# operators\n"))
	require.True(t, strings.Contains(text, "# instructions\n"))
}

func TestWriteBCTRendersOperandlessAndOperandInstructions(t *testing.T) {
	bc := Bytecode{
		Instructions: append(MakeInstruction(OP_CONST, 0), MakeInstruction(OP_END)...),
		Operators:    []Operator{OperatorNone, OperatorNone},
		ConstantsPool: []float64{42},
	}
	text, err := WriteBCT(bc)
	require.NoError(t, err)
	require.True(t, strings.Contains(text, "OP_CONST 0\n"))
	require.True(t, strings.Contains(text, "OP_END\n"))
}

func TestReadBCTIgnoresBlankLinesAndComments(t *testing.T) {
	text := strings.Join([]string{
		"# a leading comment, ignored",
		"",
		"# values",
		"1",
		"# a comment inside the values section",
		"",
		"# operators",
		"NONE",
		"",
		"# instructions",
		"OP_CONST 0",
		"OP_END",
		"",
	}, "\n")

	bc, err := ReadBCT(text)
	require.NoError(t, err)
	require.Equal(t, []float64{1}, bc.ConstantsPool)
	require.Equal(t, []Operator{OperatorNone}, bc.Operators)
	require.Equal(t, MakeInstruction(OP_CONST, 0), []byte(bc.Instructions[:3]))
}

func TestReadBCTFloatsRoundTripExactly(t *testing.T) {
	text := "# values\n3.5\n-2\n0.1\n\n# operators\n\n# instructions\n"
	bc, err := ReadBCT(text)
	require.NoError(t, err)
	require.Equal(t, []float64{3.5, -2, 0.1}, bc.ConstantsPool)
}

func TestReadBCTRejectsUnknownOpcode(t *testing.T) {
	_, err := ReadBCT("# instructions\nOP_DOES_NOT_EXIST\n")
	require.Error(t, err)
}

func TestReadBCTRejectsUnknownOperator(t *testing.T) {
	_, err := ReadBCT("# operators\nBOGUS\n")
	require.Error(t, err)
}

func TestReadBCTRejectsContentBeforeAnySection(t *testing.T) {
	_, err := ReadBCT("stray line\n# values\n1\n")
	require.Error(t, err)
}
