package compiler

import (
	"barracuda/envtable"
	"barracuda/lexer"
	"barracuda/parser"
	"barracuda/semantic"
	"barracuda/types"
)

// Compile is the single package-level entry point: it runs
// the whole pipeline — lex, parse, analyse, generate, estimate — over one
// request and assembles the C-ABI-mirroring Response. It is reentrant:
// every call builds its own scope.Tree, Builder, and Analyser, so nothing
// here is shared process-wide state.
func Compile(req envtable.Request) (envtable.Response, error) {
	precision := req.Precision
	if precision != types.PrecisionF32 && precision != types.PrecisionF64 {
		precision = types.PrecisionF64
	}

	tokens, err := lexer.New(req.CodeText).Scan()
	if err != nil {
		return envtable.Response{Err: err}, err
	}

	// Response.Err is a single error, so only the first syntax error is
	// surfaced here even though the parser collects every one it can. Only
	// `emit -ast` and `repl` call parser.Make(...).Parse() directly and see
	// the full error slice; `cmd compile` goes through Compile and reports
	// this first error alone.
	statements, errs := parser.Make(tokens).Parse()
	if len(errs) > 0 {
		return envtable.Response{Err: errs[0]}, errs[0]
	}

	indices, err := req.Indices()
	if err != nil {
		return envtable.Response{Err: err}, err
	}

	result, err := semantic.NewAnalyser(precision, indices).Analyse(statements)
	if err != nil {
		return envtable.Response{Err: err}, err
	}

	bc, err := Generate(statements, result, precision)
	if err != nil {
		return envtable.Response{Err: err}, err
	}

	stackSize, err := EstimateStack(bc)
	if err != nil {
		return envtable.Response{Err: err}, err
	}

	text, err := WriteBCT(bc)
	if err != nil {
		return envtable.Response{Err: err}, err
	}

	return envtable.Response{
		CodeText:             text,
		Values:               bc.ConstantsPool,
		RecommendedStackSize: stackSize,
		UserSpaceSize:        bc.UserSpaceSize,
	}, nil
}
