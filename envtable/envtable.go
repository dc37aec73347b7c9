// Package envtable is the Go mirror of the C-ABI boundary contract:
// the host supplies source text plus an ordered list of environment
// variables it will bind at execution time, and gets back textual
// bytecode, a constant-value list, and the sizing the host must allocate
// before handing the program to the (separately-maintained) runtime.
package envtable

import (
	"fmt"

	"barracuda/types"
)

// EnvVarDecl is one `--env NAME[:INDEX]` entry from the CLI, or the
// programmatic equivalent passed into a Request. HasHostIndex distinguishes
// an explicit host index from one left for sequential auto-assignment.
type EnvVarDecl struct {
	Name         string
	HostIndex    int
	HasHostIndex bool
}

// Request is the Go-level mirror of the C-ABI `compile(request)` call.
// Precision is the numeric width string packing and the value pool
// are parameterised by; the zero value (neither F32 nor F64) means
// "unspecified" and Compile defaults it to types.PrecisionF64.
type Request struct {
	CodeText  string
	EnvVars   []EnvVarDecl
	Precision types.Precision
}

// Indices turns the declared env vars into the name->host-index map the
// semantic analyser expects, validating that no two declarations claim the
// same explicit index.
func (r Request) Indices() (map[string]int, error) {
	indices := map[string]int{}
	used := map[int]string{}
	for _, decl := range r.EnvVars {
		if !decl.HasHostIndex {
			continue
		}
		if existing, taken := used[decl.HostIndex]; taken && existing != decl.Name {
			return nil, Error{Message: fmt.Sprintf("host index %d is requested by both %q and %q", decl.HostIndex, existing, decl.Name)}
		}
		used[decl.HostIndex] = decl.Name
		indices[decl.Name] = decl.HostIndex
	}
	return indices, nil
}

// Response is the Go-level mirror of the C-ABI `compile` response. Response
// owns no external (non-GC) resources, so Free is a documented no-op — the
// DLL/C-ABI shim that would actually own allocations is out of scope here.
type Response struct {
	CodeText             string
	Values               []float64
	RecommendedStackSize int
	UserSpaceSize        int
	Err error
}

// Free is the Go-level stand-in for the boundary's `free_compile_response`.
// A Response holds only GC-managed memory, so there is nothing to release;
// the call exists to keep the documented request/response/free shape intact
// for a future C-ABI shim.
func Free(Response) {}

// Error is envtable's error kind, matching the emoji-prefixed
// {Line, Column, Message} shape of parser.SyntaxError and the semantic
// errors such as semantic.TypeError (compiler.GenerationError carries only
// a Message), generalised from interpreter.RuntimeError's identical fields.
type Error struct {
	Line    int32
	Column  int
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("💥 Barracuda envtable error:\nline:%d, column:%d - %s", e.Line, e.Column, e.Message)
}
