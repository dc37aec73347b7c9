package compiler

import (
	"encoding/binary"
	"fmt"

	"barracuda/types"
)

// fixup is one forward reference recorded while emitting a jump or call:
// the byte offset of its operand, and the label it must resolve to once
// the label's address is known.
type fixup struct {
	operandPos int
	label      string
}

// Builder owns every mutable piece of state the generator accumulates
// while walking the AST: the instruction stream, the operator
// stream aligned 1:1 with it, the constant value pool, a user-space
// cursor for statically sized globals and const arrays, a label table,
// and the fixup records resolved at Finalize. Kept separate from the
// visitor type so Generate can focus purely on AST traversal.
type Builder struct {
	precision types.Precision

	instructions Instructions
	operators    []Operator
	values       []float64

	userSpaceCursor int

	labels map[string]int // label name -> resolved byte offset
	fixups []fixup
	labelN int
}

func NewBuilder(precision types.Precision) *Builder {
	return &Builder{precision: precision, labels: map[string]int{}}
}

// Len returns the current byte offset, i.e. where the next emitted
// instruction will begin — used as a jump target or a label's address.
func (b *Builder) Len() int { return len(b.instructions) }

// emit assembles one instruction and appends it (plus its aligned
// operator-stream entry) to the builder's streams. It returns the byte
// offset the instruction was written at, for jump/call fixups.
func (b *Builder) emit(op Opcode, operator Operator, operands ...int) int {
	pos := b.Len()
	instruction, err := AssembleInstruction(op, operands...)
	if err != nil {
		panic(err)
	}
	b.instructions = append(b.instructions, instruction...)
	b.operators = append(b.operators, operator)
	return pos
}

// Emit appends a plain instruction (one with no associated operator, i.e.
// everything except OP_BINARY/OP_UNARY).
func (b *Builder) Emit(op Opcode, operands ...int) int {
	return b.emit(op, OperatorNone, operands...)
}

// EmitOperator appends an OP_BINARY or OP_UNARY instruction carrying the
// given Operator in the aligned stream.
func (b *Builder) EmitOperator(op Opcode, operator Operator) int {
	return b.emit(op, operator)
}

// EmitJumpPlaceholder emits a jump/call instruction with a zero operand
// and records a fixup against label, to be patched at Finalize once the
// label's address is known (it may be defined later in the stream, as
// every forward jump in an if/while/for/call is).
func (b *Builder) EmitJumpPlaceholder(op Opcode, label string) int {
	pos := b.emit(op, OperatorNone, 0)
	b.fixups = append(b.fixups, fixup{operandPos: pos + OPCODE_TOTAL_BYTES, label: label})
	return pos
}

// NewLabel mints a fresh, monotonically unique label name for a control-
// flow target.
func (b *Builder) NewLabel(prefix string) string {
	b.labelN++
	return fmt.Sprintf("%s_%d", prefix, b.labelN)
}

// PlaceLabel binds name to the current instruction pointer.
func (b *Builder) PlaceLabel(name string) {
	b.labels[name] = b.Len()
}

// AddValue appends v to the value pool and returns its index, the operand
// an OP_CONST instruction addresses it by.
func (b *Builder) AddValue(v float64) int {
	b.values = append(b.values, v)
	return len(b.values) - 1
}

// AllocUserSpace reserves `slots` contiguous user-space addresses (for a
// global binding or a materialised array) and returns the first address.
func (b *Builder) AllocUserSpace(slots int) int {
	addr := b.userSpaceCursor
	b.userSpaceCursor += slots
	return addr
}

// Finalize walks every recorded fixup, resolving each to its label's
// address and patching the instruction stream in place. An unresolved
// label (one with fixups but no matching PlaceLabel call) is a fatal
// generation error — it can only indicate a bug in Generate,
// never a malformed source program, since every label the generator
// creates is always eventually placed.
func (b *Builder) Finalize() (Bytecode, error) {
	for _, fx := range b.fixups {
		addr, ok := b.labels[fx.label]
		if !ok {
			return Bytecode{}, GenerationError{Message: fmt.Sprintf("unresolved label %q", fx.label)}
		}
		operand := make([]byte, OperandWidth)
		binary.BigEndian.PutUint16(operand, uint16(addr))
		copy(b.instructions[fx.operandPos:fx.operandPos+OperandWidth], operand)
	}
	return Bytecode{
		Instructions:  b.instructions,
		Operators:     b.operators,
		ConstantsPool: b.values,
		UserSpaceSize: b.userSpaceCursor,
	}, nil
}
