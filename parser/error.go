package parser

import "fmt"

// SyntaxError is raised by the parser for any malformed construct: a
// missing token, an invalid assignment target, an unrecognised primary
// expression, and so on.
type SyntaxError struct {
	Line    int32
	Column  int
	Message string
}

func CreateSyntaxError(line int32, column int, message string) SyntaxError {
	return SyntaxError{Line: line, Column: column, Message: message}
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("💥 Barracuda Syntax error:\nline:%d, column:%d - %s", e.Line, e.Column, e.Message)
}
