package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// WriteBCT renders bc as the line-oriented `.bct` textual format:
// a `# values` section (one decimal per line), a `# operators` section
// (one operator name per line, aligned 1:1 with instructions), and a
// `# instructions` section (one mnemonic per line, with a decoded operand
// where the opcode carries one). Generalises a hex-dump/disassembly pair
// into one textual format that ReadBCT can parse back exactly.
//
// UserSpaceSize is not part of this format — this format has exactly three
// sections, none of them a user-space size — so a bare `.bct` file only
// round-trips Instructions/Operators/ConstantsPool. compiler.Compile never
// goes through this codec itself; it builds envtable.Response directly
// from the in-memory Bytecode, carrying UserSpaceSize alongside unchanged.
// `.bct` exists for the `cmd emit`/`cmd run` boundary, where a previously
// emitted program is re-loaded without its original source.
func WriteBCT(bc Bytecode) (string, error) {
	decoded, err := decodeInstructions(bc.Instructions)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("# values\n")
	for _, v := range bc.ConstantsPool {
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		b.WriteString("\n")
	}

	b.WriteString("\n# operators\n")
	for _, o := range bc.Operators {
		b.WriteString(o.String())
		b.WriteString("\n")
	}

	b.WriteString("\n# instructions\n")
	for _, in := range decoded {
		def, err := Get(in.op)
		if err != nil {
			return "", DeveloperError{Message: err.Error()}
		}
		if len(def.OperandWidths) == 0 {
			b.WriteString(in.op.String())
		} else {
			fmt.Fprintf(&b, "%s %d", in.op.String(), in.operand)
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

// ReadBCT parses the format WriteBCT produces. Blank lines and any `#`
// line other than the three recognised section headers are ignored:
// comments (`#...`) are simply skipped.
func ReadBCT(text string) (Bytecode, error) {
	var bc Bytecode
	section := ""

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch line {
		case "# values":
			section = "values"
			continue
		case "# operators":
			section = "operators"
			continue
		case "# instructions":
			section = "instructions"
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		switch section {
		case "values":
			v, err := strconv.ParseFloat(line, 64)
			if err != nil {
				return Bytecode{}, DeveloperError{Message: fmt.Sprintf(".bct: invalid value %q: %s", line, err.Error())}
			}
			bc.ConstantsPool = append(bc.ConstantsPool, v)
		case "operators":
			op, ok := operatorByName[line]
			if !ok {
				return Bytecode{}, DeveloperError{Message: fmt.Sprintf(".bct: unknown operator %q", line)}
			}
			bc.Operators = append(bc.Operators, op)
		case "instructions":
			fields := strings.Fields(line)
			op, ok := opcodeByName[fields[0]]
			if !ok {
				return Bytecode{}, DeveloperError{Message: fmt.Sprintf(".bct: unknown opcode %q", fields[0])}
			}
			var operands []int
			if len(fields) > 1 {
				n, err := strconv.Atoi(fields[1])
				if err != nil {
					return Bytecode{}, DeveloperError{Message: fmt.Sprintf(".bct: invalid operand %q for %s", fields[1], fields[0])}
				}
				operands = append(operands, n)
			}
			instr, err := AssembleInstruction(op, operands...)
			if err != nil {
				return Bytecode{}, err
			}
			bc.Instructions = append(bc.Instructions, instr...)
		default:
			return Bytecode{}, DeveloperError{Message: fmt.Sprintf(".bct: content %q before any section header", line)}
		}
	}

	return bc, nil
}
