package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"barracuda/compiler"
	"barracuda/envtable"
	"barracuda/vm"
)

// runCmd implements `barracuda run <input> [--env ...]`: compile the
// source and execute it directly on the reference vm.VM, for exercising a
// program without a GPU-side host.
type runCmd struct {
	envVars envFlag
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Compile and execute a source file on the reference VM" }
func (*runCmd) Usage() string {
	return `run <input> [--env NAME[:INDEX][=VALUE] ...]:
  Compile a Barracuda source file and execute it on the bundled reference VM.
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&r.envVars, "env", "declare a host environment variable, optionally NAME:INDEX=VALUE (repeatable)")
}

func (r *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
		EnvVars:  r.envVars.decls,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 compilation error:\n\t%v\n", err)
		return subcommands.ExitFailure
	}

	bc, err := compiler.ReadBCT(resp.CodeText)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 internal error decoding compiled output: %v\n", err)
		return subcommands.ExitFailure
	}
	bc.UserSpaceSize = resp.UserSpaceSize

	env := buildEnvSlice(r.envVars.decls, r.envVars.values)
	machine := vm.New(resp.UserSpaceSize, env)
	if err := machine.Run(bc); err != nil {
		fmt.Fprintf(os.Stderr, "💥 runtime error:\n\t%v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
