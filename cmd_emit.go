package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"barracuda/ast"
	"barracuda/compiler"
	"barracuda/envtable"
	"barracuda/lexer"
	"barracuda/parser"
)

// emitCmd implements `barracuda emit <input>`: lex, parse, and compile the
// source, then write out the disassembled .bct text and, with -ast, a JSON
// dump of the parsed tree alongside it.
type emitCmd struct {
	dumpAST bool
	out     string
}

func (*emitCmd) Name() string     { return "emit" }
func (*emitCmd) Synopsis() string { return "Emit the bytecode representation of a source file" }
func (*emitCmd) Usage() string {
	return `emit <input> [-o <out>] [-ast]:
  Compile a source file and write its disassembled .bct text, optionally
  alongside a JSON AST dump.
`
}

func (cmd *emitCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.dumpAST, "ast", false, "also write a .ast.json dump of the parsed tree")
	f.StringVar(&cmd.out, "o", "", "output path for the .bct file (default: input with a .bct extension)")
}

func (cmd *emitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "💥 no input file provided")
		return subcommands.ExitUsageError
	}
	sourcePath := args[0]

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read %s: %v\n", sourcePath, err)
		return subcommands.ExitFailure
	}

	if cmd.dumpAST {
		tokens, lexErr := lexer.New(string(data)).Scan()
		if lexErr != nil {
			fmt.Fprintf(os.Stderr, "💥 lexing error: %v\n", lexErr)
			return subcommands.ExitFailure
		}
		statements, parseErrs := parser.Make(tokens).Parse()
		if len(parseErrs) > 0 {
			fmt.Fprintln(os.Stderr, "💥 parsing error:")
			for _, pErr := range parseErrs {
				fmt.Fprintf(os.Stderr, "\t%v\n", pErr)
			}
			return subcommands.ExitFailure
		}
		if err := ast.WriteJSONFile(statements, astPathFor(sourcePath)); err != nil {
			fmt.Fprintf(os.Stderr, "💥 AST dump error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	resp, err := compiler.Compile(envtable.Request{CodeText: string(data)})
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 compilation error:\n\t%v\n", err)
		return subcommands.ExitFailure
	}

	outPath := cmd.out
	if outPath == "" {
		outPath = bctPathFor(sourcePath)
	}
	if err := os.WriteFile(outPath, []byte(resp.CodeText), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to write %s: %v\n", outPath, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
