// pos.go defines the source-position type embedded on every AST node.

package ast

import "barracuda/token"

// Pos is a 1-based source position, carried on every AST node so that
// semantic and generation errors can report a precise line/column without
// needing to re-walk the token stream.
type Pos struct {
	Line   int32
	Column int
}

// Node is implemented by every expression and statement node.
type Node interface {
	Position() Pos
}

// PosFrom derives a Pos from the token the node started at.
func PosFrom(tok token.Token) Pos {
	return Pos{Line: tok.Line, Column: tok.Column}
}
