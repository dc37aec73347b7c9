package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"barracuda/compiler"
	"barracuda/envtable"
	"barracuda/lexer"
	"barracuda/parser"
	"barracuda/token"
	"barracuda/vm"
)

// replCmd implements `barracuda repl`: an interactive session that
// compiles and runs one top-level statement at a time against a single
// long-lived reference VM. Line editing and history come from
// github.com/chzyer/readline rather than a bare bufio.Scanner, so arrow
// keys and a persistent history file work the way a real shell does.
//
// Each buffered statement is compiled in isolation (its own fresh
// scope.Tree, per compiler.Compile's reentrance contract) and run against
// the same VM instance, so user-space memory carries over from one
// statement to the next but a name declared in one statement is not
// visible to the analyser of the next — a known rough edge for an
// interactive scratchpad, not a full session-wide symbol table.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive compile-and-run session" }
func (*replCmd) Usage() string {
	return `repl:
  Start an interactive session, compiling and executing one top-level
  statement at a time.
`
}

func (*replCmd) SetFlags(*flag.FlagSet) {}

func (*replCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.New("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to start the line editor: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	fmt.Println("Barracuda")
	machine := vm.New(0, nil)
	var buffer strings.Builder

	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return subcommands.ExitSuccess
			}
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return subcommands.ExitFailure
		}

		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		source := buffer.String()

		tokens, lexErr := lexer.New(source).Scan()
		if lexErr != nil {
			fmt.Println(lexErr)
			buffer.Reset()
			continue
		}

		if !isInputReady(tokens) {
			continue
		}

		_, parseErrs := parser.Make(tokens).Parse()
		if len(parseErrs) > 0 {
			if allParseErrorsAtEOF(parseErrs, tokens[len(tokens)-1]) {
				continue
			}
			fmt.Println("parse error:")
			for _, pErr := range parseErrs {
				fmt.Printf("\t%v\n", pErr)
			}
			buffer.Reset()
			continue
		}

		resp, err := compiler.Compile(envtable.Request{CodeText: source})
		if err != nil {
			fmt.Println(err)
			buffer.Reset()
			continue
		}

		bc, err := compiler.ReadBCT(resp.CodeText)
		if err != nil {
			fmt.Printf("💥 internal error decoding compiled output: %v\n", err)
			buffer.Reset()
			continue
		}

		if runErr := machine.Run(bc); runErr != nil {
			fmt.Println(runErr)
		}
		buffer.Reset()
	}
}

// isInputReady reports whether tokens form a complete top-level statement:
// braces must balance, and the last non-EOF token must not be one that
// obviously expects a continuation (a binary operator, an opener, or a
// keyword that always introduces a body or further input).
func isInputReady(tokens []token.Token) bool {
	braceBalance := 0
	for _, tok := range tokens {
		switch tok.TokenType {
		case token.LCUR:
			braceBalance++
		case token.RCUR:
			braceBalance--
		}
	}
	if braceBalance > 0 {
		return false
	}

	last := lastNonEOF(tokens)
	if last == nil {
		return true
	}

	switch last.TokenType {
	case token.ASSIGN, token.ADD, token.SUB, token.MULT, token.DIV, token.MOD, token.EXP,
		token.BANG, token.EQUAL_EQUAL, token.NOT_EQUAL,
		token.LESS, token.LESS_EQUAL, token.LARGER, token.LARGER_EQUAL,
		token.SHIFT_LEFT, token.SHIFT_RIGHT,
		token.COMMA, token.COLON, token.ARROW, token.QUESTION, token.AMP,
		token.LPA, token.LCUR, token.LBRACKET,
		token.IF, token.ELSE, token.ELIF, token.WHILE, token.FOR,
		token.FN, token.EXTERN, token.RETURN, token.LET, token.MUT, token.CONST,
		token.AND, token.OR, token.PRINT:
		return false
	}

	return true
}

// lastNonEOF returns the last non-EOF token, or nil if tokens holds only EOF.
func lastNonEOF(tokens []token.Token) *token.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].TokenType != token.EOF {
			return &tokens[i]
		}
	}
	return nil
}

// allParseErrorsAtEOF reports whether every parse error is a syntax error
// positioned at eof, the signature of input that's merely incomplete
// rather than actually malformed.
func allParseErrorsAtEOF(parseErrs []error, eof token.Token) bool {
	for _, parseErr := range parseErrs {
		syntaxErr, ok := parseErr.(parser.SyntaxError)
		if !ok {
			return false
		}
		if syntaxErr.Line != eof.Line || syntaxErr.Column != eof.Column {
			return false
		}
	}
	return len(parseErrs) > 0
}
