// Package vm is the reference stack machine that executes compiler.Bytecode.
// It stands in for the separately-maintained GPU
// runtime this compiler's bytecode is really destined for (out of scope
// here) — just enough to let `cmd run`/`cmd repl` and the
// end-to-end tests actually run a compiled program.
package vm

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"barracuda/compiler"
)

// callRecord is what OP_CALL pushes and OP_RETURN pops: where to resume
// the caller, the caller's own frame base, and the memory height to
// truncate back to once the callee's locals are no longer needed.
type callRecord struct {
	returnIP      int
	prevFrameBase int
	memTop        int
}

// VM is a stack machine over a single flat numeric address space (a
// single flat user-space memory model, per DESIGN.md): mem holds both
// globals (addresses [0, UserSpaceSize), fixed for the run) and every
// live call frame's locals (appended above that as calls nest, truncated
// back on return) — a pointer value is nothing but a float64 holding one
// of these addresses, so `&x`, `*p`, and `p[i]` compose with the same
// arithmetic compiler/generator_expressions.go emits, with no separate
// runtime pointer type. A straight fetch-decode-execute loop over the full
// opcode table, with call frames added for OP_CALL/OP_RETURN.
type VM struct {
	stack Stack

	mem       []float64
	env       []float64
	frameBase int
	calls     []callRecord

	ip int

	// Stdout is where OP_PRINT writes; defaults to os.Stdout the first
	// time Run is called if left nil, favoring an explicit io.Writer over
	// hard-coding fmt.Println everywhere.
	Stdout io.Writer
}

// New creates a VM with its global region sized for userSpaceSize
// addresses and its environment-variable table seeded from env (indexed
// by the host index semantic.NewAnalyser assigned each `extern`).
// Both mem and env grow on demand past their initial size — the VM has no
// independent record of a program's true peak local-frame size or of each
// declared environment variable's size, only what the program's own loads
// and stores actually touch.
func New(userSpaceSize int, env []float64) *VM {
	return &VM{
		mem: make([]float64, userSpaceSize),
		env: append([]float64{}, env...),
	}
}

// Env returns the current environment-variable values, reflecting any
// OP_STORE_ENV writes the program performed — how a host reads back an
// `extern` the program uses as an output.
func (vm *VM) Env() []float64 { return append([]float64{}, vm.env...) }

func (vm *VM) ensureMem(addr int) {
	for len(vm.mem) <= addr {
		vm.mem = append(vm.mem, 0)
	}
}

func (vm *VM) ensureEnv(index int) {
	for len(vm.env) <= index {
		vm.env = append(vm.env, 0)
	}
}

func (vm *VM) push(v float64) { vm.stack.Push(v) }

func (vm *VM) pop() float64 {
	v, ok := vm.stack.Pop()
	if !ok {
		panic(RuntimeError{Message: "operand stack underflow"})
	}
	f, ok := v.(float64)
	if !ok {
		panic(RuntimeError{Message: fmt.Sprintf("expected a numeric operand, got %T", v)})
	}
	return f
}

func (vm *VM) peek() float64 {
	v, ok := vm.stack.Peek()
	if !ok {
		panic(RuntimeError{Message: "operand stack underflow"})
	}
	f, ok := v.(float64)
	if !ok {
		panic(RuntimeError{Message: fmt.Sprintf("expected a numeric operand, got %T", v)})
	}
	return f
}

// operatorIndex precomputes, for every instruction's starting byte offset,
// its position in bc.Operators — the stream is aligned 1:1 with
// instructions in program order (one entry per Builder.emit call), not
// with byte offsets, since operand-carrying instructions are wider than
// operand-less ones.
func operatorIndex(ins compiler.Instructions) (map[int]int, error) {
	idx := map[int]int{}
	offset, n := 0, 0
	for offset < len(ins) {
		op := compiler.Opcode(ins[offset])
		def, err := compiler.Get(op)
		if err != nil {
			return nil, RuntimeError{Message: err.Error()}
		}
		idx[offset] = n
		length := compiler.OPCODE_TOTAL_BYTES
		for _, w := range def.OperandWidths {
			length += w
		}
		offset += length
		n++
	}
	return idx, nil
}

// decodeOperand reads the big-endian uint16 operand immediately following
// the opcode byte at offset, matching compiler.MakeInstruction's encoding.
func decodeOperand(ins compiler.Instructions, offset int) int {
	return int(binary.BigEndian.Uint16(ins[offset+compiler.OPCODE_TOTAL_BYTES:]))
}

// instructionLength returns the total byte width (opcode + operand, if
// any) of the instruction starting at offset.
func instructionLength(ins compiler.Instructions, offset int) int {
	op := compiler.Opcode(ins[offset])
	def, err := compiler.Get(op)
	if err != nil {
		panic(RuntimeError{Message: err.Error()})
	}
	length := compiler.OPCODE_TOTAL_BYTES
	for _, w := range def.OperandWidths {
		length += w
	}
	return length
}

// Run executes bc from its entry point (offset 0) to completion (OP_END or
// the last OP_RETURN at call depth zero), leaving the VM's state — the
// operand stack, the global region, and the environment table — available
// for the caller to inspect afterwards (`cmd run` prints the global
// region is not exposed; `Env` is, for `extern` values used as outputs).
func (vm *VM) Run(bc compiler.Bytecode) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if asErr, ok := r.(error); ok {
				err = asErr
				return
			}
			err = RuntimeError{Message: fmt.Sprintf("%v", r)}
		}
	}()

	opIdx, idxErr := operatorIndex(bc.Instructions)
	if idxErr != nil {
		return idxErr
	}

	vm.ip = 0
	for vm.ip < len(bc.Instructions) {
		op := compiler.Opcode(bc.Instructions[vm.ip])
		length := instructionLength(bc.Instructions, vm.ip)
		operand := 0
		if length > compiler.OPCODE_TOTAL_BYTES {
			operand = decodeOperand(bc.Instructions, vm.ip)
		}

		switch op {
		case compiler.OP_END:
			return nil

		case compiler.OP_CONST:
			vm.push(bc.ConstantsPool[operand])

		case compiler.OP_LOAD_LOCAL:
			addr := vm.frameBase + operand
			vm.ensureMem(addr)
			vm.push(vm.mem[addr])
		case compiler.OP_LOAD_GLOBAL:
			vm.push(vm.mem[operand])
		case compiler.OP_LOAD_ENV:
			vm.ensureEnv(operand)
			vm.push(vm.env[operand])

		case compiler.OP_STORE_LOCAL:
			addr := vm.frameBase + operand
			vm.ensureMem(addr)
			vm.mem[addr] = vm.pop()
		case compiler.OP_STORE_GLOBAL:
			vm.mem[operand] = vm.pop()
		case compiler.OP_STORE_ENV:
			v := vm.pop()
			vm.ensureEnv(operand)
			vm.env[operand] = v

		case compiler.OP_ADDR_LOCAL:
			vm.push(float64(vm.frameBase + operand))
		case compiler.OP_ADDR_GLOBAL:
			vm.push(float64(operand))

		case compiler.OP_LOAD_INDIRECT:
			addr := int(vm.pop())
			vm.ensureMem(addr)
			vm.push(vm.mem[addr])
		case compiler.OP_STORE_INDIRECT:
			addr := int(vm.pop())
			v := vm.pop()
			vm.ensureMem(addr)
			vm.mem[addr] = v
		case compiler.OP_INDEX_ADDR:
			index := int(vm.pop())
			base := vm.pop()
			vm.push(base + float64(index))

		case compiler.OP_BINARY:
			operator := bc.Operators[opIdx[vm.ip]]
			right := vm.pop()
			left := vm.pop()
			vm.push(applyBinary(operator, left, right))
		case compiler.OP_UNARY:
			operator := bc.Operators[opIdx[vm.ip]]
			vm.push(applyUnary(operator, vm.pop()))

		case compiler.OP_POP:
			vm.pop()
		case compiler.OP_PRINT:
			vm.print(vm.pop())

		case compiler.OP_JUMP:
			vm.ip = operand
			continue
		case compiler.OP_JUMP_IF_FALSE:
			if vm.peek() == 0 {
				vm.ip = operand
				continue
			}

		case compiler.OP_CALL:
			vm.calls = append(vm.calls, callRecord{
				returnIP:      vm.ip + length,
				prevFrameBase: vm.frameBase,
				memTop:        len(vm.mem),
			})
			vm.frameBase = len(vm.mem)
			vm.ip = operand
			continue
		case compiler.OP_RETURN:
			if len(vm.calls) == 0 {
				return nil
			}
			rec := vm.calls[len(vm.calls)-1]
			vm.calls = vm.calls[:len(vm.calls)-1]
			vm.mem = vm.mem[:rec.memTop]
			vm.frameBase = rec.prevFrameBase
			vm.ip = rec.returnIP
			continue

		default:
			return RuntimeError{Message: fmt.Sprintf("unknown opcode %v at ip %d", op, vm.ip)}
		}

		vm.ip += length
	}
	return nil
}

func (vm *VM) print(v float64) {
	out := vm.Stdout
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out, formatNumber(v))
}

// formatNumber renders a whole-valued float the way an integer literal
// would read (no trailing ".0"), since every program value is a float64
// at runtime regardless of its source-level type.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func applyBinary(op compiler.Operator, a, b float64) float64 {
	switch op {
	case compiler.OperatorAdd:
		return a + b
	case compiler.OperatorSub:
		return a - b
	case compiler.OperatorMul:
		return a * b
	case compiler.OperatorDiv:
		return a / b
	case compiler.OperatorMod:
		return math.Mod(a, b)
	case compiler.OperatorExp:
		return math.Pow(a, b)
	case compiler.OperatorShl:
		return float64(int64(a) << uint(int64(b)))
	case compiler.OperatorShr:
		return float64(int64(a) >> uint(int64(b)))
	case compiler.OperatorEq:
		return boolFloat(a == b)
	case compiler.OperatorNeq:
		return boolFloat(a != b)
	case compiler.OperatorLt:
		return boolFloat(a < b)
	case compiler.OperatorLte:
		return boolFloat(a <= b)
	case compiler.OperatorGt:
		return boolFloat(a > b)
	case compiler.OperatorGte:
		return boolFloat(a >= b)
	default:
		panic(RuntimeError{Message: fmt.Sprintf("unknown binary operator %v", op)})
	}
}

func applyUnary(op compiler.Operator, v float64) float64 {
	switch op {
	case compiler.OperatorNeg:
		return -v
	case compiler.OperatorNot:
		return boolFloat(v == 0)
	default:
		panic(RuntimeError{Message: fmt.Sprintf("unknown unary operator %v", op)})
	}
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
