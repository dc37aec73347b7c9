package compiler

import (
	"encoding/binary"
	"fmt"
)

// instruction is one decoded instruction: its own byte offset, opcode,
// operand (0 if the opcode takes none), and the offset immediately after
// it (the fallthrough target).
type instruction struct {
	offset  int
	op      Opcode
	operand int
	next    int
}

// decodeInstructions walks ins sequentially, decoding each instruction in
// turn the same way DisassembleInstruction decodes one at a time.
func decodeInstructions(ins Instructions) ([]instruction, error) {
	var out []instruction
	offset := 0
	for offset < len(ins) {
		op := Opcode(ins[offset])
		def, err := Get(op)
		if err != nil {
			return nil, DeveloperError{Message: err.Error()}
		}
		length := OPCODE_TOTAL_BYTES
		for _, w := range def.OperandWidths {
			length += w
		}
		if offset+length > len(ins) {
			return nil, DeveloperError{Message: fmt.Sprintf("truncated %s instruction at offset %d", def.Name, offset)}
		}
		operand := 0
		if len(def.OperandWidths) > 0 {
			operand = int(binary.BigEndian.Uint16(ins[offset+OPCODE_TOTAL_BYTES:]))
		}
		out = append(out, instruction{offset: offset, op: op, operand: operand, next: offset + length})
		offset += length
	}
	return out, nil
}

// stackDelta is the (push, pop) pair EstimateStack walks with,
// one entry per opcode. OP_JUMP_IF_FALSE is zero/zero because it peeks
// rather than pops, a convention carried through the whole generator;
// OP_CALL is also zero/zero — a
// deliberately conservative simplification documented in DESIGN.md rather
// than a full interprocedural composition of caller depth at the call
// site with the callee's own peak.
func stackDelta(op Opcode) (push, pop int) {
	switch op {
	case OP_CONST, OP_LOAD_LOCAL, OP_LOAD_GLOBAL, OP_LOAD_ENV, OP_ADDR_LOCAL, OP_ADDR_GLOBAL:
		return 1, 0
	case OP_STORE_LOCAL, OP_STORE_GLOBAL, OP_STORE_ENV, OP_POP, OP_PRINT:
		return 0, 1
	case OP_LOAD_INDIRECT, OP_UNARY:
		return 1, 1
	case OP_STORE_INDIRECT:
		return 0, 2
	case OP_INDEX_ADDR, OP_BINARY:
		return 1, 2
	case OP_JUMP, OP_JUMP_IF_FALSE, OP_CALL, OP_RETURN, OP_END:
		return 0, 0
	default:
		return 0, 0
	}
}

// successors returns the offsets execution may continue at after in,
// read from in's own next offset and jump operand.
func successors(in instruction) []int {
	switch in.op {
	case OP_JUMP:
		return []int{in.operand}
	case OP_JUMP_IF_FALSE:
		return []int{in.next, in.operand}
	case OP_RETURN, OP_END:
		return nil
	default:
		return []int{in.next}
	}
}

// EstimateStack performs a conservative static walk over bc's
// instructions computing, per instruction, a (push, pop) pair, joining
// branches by taking the maximum of predecessor depths, and resolving
// cycles (loop back-edges, recursive OP_CALL targets treated as
// independent entry points) by relaxing repeatedly until the depths stop
// changing. A depth that is still increasing after every instruction has
// had a chance to propagate at least once is treated as a non-converging
// bound (a loop that grows the stack without matching pops) and reported
// as a GenerationError, returned directly (no panic/recover) from a
// switch-dispatch walk used for a static check rather than an evaluation.
func EstimateStack(bc Bytecode) (int, error) {
	decoded, err := decodeInstructions(bc.Instructions)
	if err != nil {
		return 0, err
	}
	if len(decoded) == 0 {
		return 0, nil
	}

	byOffset := make(map[int]instruction, len(decoded))
	for _, in := range decoded {
		byOffset[in.offset] = in
	}

	// Every OP_CALL target is treated as its own entry point (depth 0),
	// in addition to the program's real entry at offset 0: OP_CALL itself
	// is depth-neutral in this walk (see stackDelta), so a called
	// function's own body would otherwise never be reached at all.
	entries := map[int]bool{0: true}
	for _, in := range decoded {
		if in.op == OP_CALL {
			entries[in.operand] = true
		}
	}

	depth := make(map[int]int, len(decoded))
	for e := range entries {
		depth[e] = 0
	}

	limit := len(decoded) + 1
	for round := 0; ; round++ {
		changed := false
		for _, in := range decoded {
			d, ok := depth[in.offset]
			if !ok {
				continue
			}
			push, pop := stackDelta(in.op)
			out := d + push - pop
			for _, s := range successors(in) {
				if _, exists := byOffset[s]; !exists {
					return 0, GenerationError{Message: fmt.Sprintf("jump/call target %d does not address an instruction", s)}
				}
				if cur, ok := depth[s]; !ok || out > cur {
					depth[s] = out
					changed = true
				}
			}
		}
		if !changed {
			break
		}
		if round >= limit {
			return 0, GenerationError{Message: "stack depth estimate failed to converge"}
		}
	}

	max := 0
	for _, d := range depth {
		if d > max {
			max = d
		}
	}
	return max, nil
}
