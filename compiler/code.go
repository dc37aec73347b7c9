package compiler

import (
	"encoding/binary"
	"fmt"
)

// Bytecode is the generator's output artifact: the instruction stream, the
// operator stream aligned 1:1 with it (most instructions carry
// OperatorNone; the generic OP_BINARY/OP_UNARY instructions carry the
// intended operator in the same slot), the value pool (constant floats at
// the configured precision), and the size of the user-space region the
// host must allocate before running the program.
type Bytecode struct {
	Instructions  Instructions
	Operators     []Operator
	ConstantsPool []float64
	UserSpaceSize int
}

type Opcode byte

type Instructions []byte

// opcodes, using the Opcode/OpCodeDefinition/MakeInstruction shape
// (iota-numbered big-endian-operand encoding); the opcode set itself is
// authored fresh, carrying one generic OP_BINARY/OP_UNARY pair instead of
// a one-opcode-per-operator scheme (OP_ADD, OP_SUBTRACT, OP_JUMP, ...)
// revision. This table instead uses a single generic
// OP_BINARY/OP_UNARY that carries its specific operator in the aligned Operator
// stream instead of minting an opcode per operator, and loads/stores are
// split by storage class (local/global/env/constant) plus an
// address-indirection pair for pointers and array indexing.
const (
	// OP_CONST loads a value from the constant pool onto the operand stack
	// (load constant, unindexed). A const array or
	// string literal is not given a separate constant-pointer opcode: it
	// materialises into user-space like any other array (one OP_CONST +
	// OP_STORE_GLOBAL/OP_STORE_LOCAL per element) and is addressed the same
	// way afterwards, keeping a single flat addressable memory model
	// instead of a second constant-memory address space.
	OP_CONST Opcode = iota

	OP_LOAD_LOCAL
	OP_LOAD_GLOBAL
	OP_LOAD_ENV

	OP_STORE_LOCAL
	OP_STORE_GLOBAL
	OP_STORE_ENV

	// OP_ADDR_LOCAL/OP_ADDR_GLOBAL push the address of a local slot
	// (frame-relative) or a global (absolute) as a pointer value, for `&name`.
	OP_ADDR_LOCAL
	OP_ADDR_GLOBAL

	// OP_LOAD_INDIRECT/OP_STORE_INDIRECT dereference an address already on
	// the operand stack (`*p`, and the final store of an assignment
	// through a deref/index chain).
	OP_LOAD_INDIRECT
	OP_STORE_INDIRECT

	// OP_INDEX_ADDR pops an index and a base address and pushes
	// base+index, the element address for `target[index]`.
	OP_INDEX_ADDR

	// OP_BINARY/OP_UNARY perform the operator named in the aligned
	// Operator stream entry at this instruction's index.
	OP_BINARY
	OP_UNARY

	OP_POP
	OP_PRINT

	OP_JUMP
	OP_JUMP_IF_FALSE

	// OP_CALL invokes a function (operand: the callee's entry-point byte
	// offset, resolved by the same label-fixup mechanism as OP_JUMP) after
	// its arguments have been pushed left-to-right; OP_RETURN restores the
	// caller's frame and leaves the return value (if any) on top of stack.
	OP_CALL
	OP_RETURN

	OP_END
)

var opcodeNames = map[Opcode]string{
	OP_CONST:      "OP_CONST",
	OP_LOAD_LOCAL: "OP_LOAD_LOCAL", OP_LOAD_GLOBAL: "OP_LOAD_GLOBAL", OP_LOAD_ENV: "OP_LOAD_ENV",
	OP_STORE_LOCAL: "OP_STORE_LOCAL", OP_STORE_GLOBAL: "OP_STORE_GLOBAL", OP_STORE_ENV: "OP_STORE_ENV",
	OP_ADDR_LOCAL: "OP_ADDR_LOCAL", OP_ADDR_GLOBAL: "OP_ADDR_GLOBAL",
	OP_LOAD_INDIRECT: "OP_LOAD_INDIRECT", OP_STORE_INDIRECT: "OP_STORE_INDIRECT",
	OP_INDEX_ADDR: "OP_INDEX_ADDR",
	OP_BINARY:     "OP_BINARY", OP_UNARY: "OP_UNARY",
	OP_POP: "OP_POP", OP_PRINT: "OP_PRINT",
	OP_JUMP: "OP_JUMP", OP_JUMP_IF_FALSE: "OP_JUMP_IF_FALSE",
	OP_CALL: "OP_CALL", OP_RETURN: "OP_RETURN",
	OP_END: "OP_END",
}

var opcodeByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		m[name] = op
	}
	return m
}()

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("OP_UNKNOWN(%d)", byte(op))
}

// Operator names the specific arithmetic/comparison/unary operator an
// OP_BINARY or OP_UNARY instruction performs — the aligned-stream value.
// OperatorNone fills the slot for every other instruction.
type Operator byte

const (
	OperatorNone Operator = iota
	OperatorAdd
	OperatorSub
	OperatorMul
	OperatorDiv
	OperatorMod
	OperatorExp
	OperatorShl
	OperatorShr
	OperatorEq
	OperatorNeq
	OperatorLt
	OperatorLte
	OperatorGt
	OperatorGte
	OperatorNeg
	OperatorNot
)

var operatorNames = map[Operator]string{
	OperatorNone: "NONE", OperatorAdd: "ADD", OperatorSub: "SUB", OperatorMul: "MUL",
	OperatorDiv: "DIV", OperatorMod: "MOD", OperatorExp: "EXP",
	OperatorShl: "SHL", OperatorShr: "SHR",
	OperatorEq: "EQ", OperatorNeq: "NEQ", OperatorLt: "LT", OperatorLte: "LTE",
	OperatorGt: "GT", OperatorGte: "GTE", OperatorNeg: "NEG", OperatorNot: "NOT",
}

var operatorByName = func() map[string]Operator {
	m := make(map[string]Operator, len(operatorNames))
	for op, name := range operatorNames {
		m[name] = op
	}
	return m
}()

func (o Operator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return fmt.Sprintf("OP_UNKNOWN(%d)", byte(o))
}

// OPCODE_TOTAL_BYTES is the fixed width of an opcode byte, used in
// addressing arithmetic (`ip + OPCODE_TOTAL_BYTES`).
const OPCODE_TOTAL_BYTES = 1

// OperandWidth is the fixed width (in bytes) of every instruction's single
// operand. Every opcode below either carries no operand or one
// `uint16`-width operand.
const OperandWidth = 2

// THREE_BYTE_INSTRUCTION_LENGTH is the total width (opcode + operand) of
// every operand-carrying instruction in this table.
const THREE_BYTE_INSTRUCTION_LENGTH = OPCODE_TOTAL_BYTES + OperandWidth

// OpCodeDefinition describes an opcode's human-readable name and operand
// widths.
type OpCodeDefinition struct {
	Name          string
	OperandWidths []int
}

var noOperand = []int{}
var oneOperand = []int{OperandWidth}

var definitions = map[Opcode]*OpCodeDefinition{
	OP_CONST: {Name: "OP_CONST", OperandWidths: oneOperand},

	OP_LOAD_LOCAL:  {Name: "OP_LOAD_LOCAL", OperandWidths: oneOperand},
	OP_LOAD_GLOBAL: {Name: "OP_LOAD_GLOBAL", OperandWidths: oneOperand},
	OP_LOAD_ENV:    {Name: "OP_LOAD_ENV", OperandWidths: oneOperand},

	OP_STORE_LOCAL:  {Name: "OP_STORE_LOCAL", OperandWidths: oneOperand},
	OP_STORE_GLOBAL: {Name: "OP_STORE_GLOBAL", OperandWidths: oneOperand},
	OP_STORE_ENV:    {Name: "OP_STORE_ENV", OperandWidths: oneOperand},

	OP_ADDR_LOCAL:  {Name: "OP_ADDR_LOCAL", OperandWidths: oneOperand},
	OP_ADDR_GLOBAL: {Name: "OP_ADDR_GLOBAL", OperandWidths: oneOperand},

	OP_LOAD_INDIRECT:  {Name: "OP_LOAD_INDIRECT", OperandWidths: noOperand},
	OP_STORE_INDIRECT: {Name: "OP_STORE_INDIRECT", OperandWidths: noOperand},

	OP_INDEX_ADDR: {Name: "OP_INDEX_ADDR", OperandWidths: noOperand},

	OP_BINARY: {Name: "OP_BINARY", OperandWidths: noOperand},
	OP_UNARY:  {Name: "OP_UNARY", OperandWidths: noOperand},

	OP_POP:   {Name: "OP_POP", OperandWidths: noOperand},
	OP_PRINT: {Name: "OP_PRINT", OperandWidths: noOperand},

	OP_JUMP:          {Name: "OP_JUMP", OperandWidths: oneOperand},
	OP_JUMP_IF_FALSE: {Name: "OP_JUMP_IF_FALSE", OperandWidths: oneOperand},

	OP_CALL:   {Name: "OP_CALL", OperandWidths: oneOperand},
	OP_RETURN: {Name: "OP_RETURN", OperandWidths: noOperand},

	OP_END: {Name: "OP_END", OperandWidths: noOperand},
}

func Get(op Opcode) (*OpCodeDefinition, error) {
	def, ok := definitions[op]
	if !ok {
		return nil, fmt.Errorf("opcode: '%d' undefined", op)
	}
	return def, nil
}

// MakeInstruction constructs a bytecode instruction from an opcode and its
// operands, using a fixed big-endian encoding.
func MakeInstruction(op Opcode, operands ...int) []byte {
	def, err := Get(op)
	if err != nil {
		return []byte{}
	}

	instructionLength := OPCODE_TOTAL_BYTES
	for _, w := range def.OperandWidths {
		instructionLength += w
	}

	instruction := make([]byte, instructionLength)
	instruction[0] = byte(op)

	byteOffset := OPCODE_TOTAL_BYTES
	for i, o := range operands {
		width := def.OperandWidths[i]
		switch width {
		case 2:
			binary.BigEndian.PutUint16(instruction[byteOffset:], uint16(o))
		}
		byteOffset += width
	}
	return instruction
}

// AssembleInstruction is MakeInstruction with an error return: assembly
// failure is reported as a DeveloperError, since an unknown opcode can
// only be a bug in this package, never a user program.
func AssembleInstruction(op Opcode, operands ...int) ([]byte, error) {
	if _, err := Get(op); err != nil {
		return nil, DeveloperError{Message: err.Error()}
	}
	return MakeInstruction(op, operands...), nil
}

// DisassembleInstruction renders a single instruction (opcode plus decoded
// operand, if any) starting at the beginning of instr.
func DisassembleInstruction(instr []byte) (string, error) {
	if len(instr) == 0 {
		return "", DeveloperError{Message: "cannot disassemble an empty instruction"}
	}
	op := Opcode(instr[0])
	def, err := Get(op)
	if err != nil {
		return "", DeveloperError{Message: err.Error()}
	}
	if len(def.OperandWidths) == 0 {
		return def.Name, nil
	}
	if len(instr) < THREE_BYTE_INSTRUCTION_LENGTH {
		return "", DeveloperError{Message: fmt.Sprintf("truncated %s instruction", def.Name)}
	}
	operand := binary.BigEndian.Uint16(instr[OPCODE_TOTAL_BYTES:])
	return fmt.Sprintf("%s %d", def.Name, operand), nil
}
