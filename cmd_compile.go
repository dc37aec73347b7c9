package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"barracuda/compiler"
	"barracuda/envtable"
)

// compileCmd implements `barracuda compile <input> [-o <out>] [--stdout]
// [--env NAME[:INDEX] ...]`: it runs the full front end over the source
// file and writes the resulting `.bct` text to -o, stdout, or (with
// neither given) a file next to the input with its extension replaced.
type compileCmd struct {
	out      string
	toStdout bool
	envVars  envFlag
}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "Compile a source file to bytecode" }
func (*compileCmd) Usage() string {
	return `compile <input> [-o <out>] [--stdout] [--env NAME[:INDEX] ...]:
  Compile a Barracuda source file, writing the textual .bct bytecode.
`
}

func (cmd *compileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.out, "o", "", "output path for the .bct file (default: input with a .bct extension)")
	f.BoolVar(&cmd.toStdout, "stdout", false, "write the .bct output to stdout instead of a file")
	f.Var(&cmd.envVars, "env", "declare a host environment variable, optionally NAME:INDEX (repeatable)")
}

func (cmd *compileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "💥 no input file provided")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read %s: %v\n", args[0], err)
		return subcommands.ExitFailure
	}

	resp, err := compiler.Compile(envtable.Request{
		CodeText: string(data),
		EnvVars:  cmd.envVars.decls,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 compilation error:\n\t%v\n", err)
		return subcommands.ExitFailure
	}

	if cmd.toStdout {
		fmt.Print(resp.CodeText)
		return subcommands.ExitSuccess
	}

	outPath := cmd.out
	if outPath == "" {
		outPath = bctPathFor(args[0])
	}
	if err := os.WriteFile(outPath, []byte(resp.CodeText), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to write %s: %v\n", outPath, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
