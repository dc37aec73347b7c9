// typeexpr.go contains the syntactic type-annotation nodes produced by the
// parser (`i32`, `&i32`, `[i32; 4]`, ...). These are resolved into a
// types.Type by the semantic analyser's declare pass.

package ast

// TypeExpr is the syntactic form of a type annotation, as written by the
// programmer, before the semantic analyser resolves it to a types.Type.
type TypeExpr interface {
	typeExprNode()
}

// NamedType is a primitive type atom: i8..i128, f8..f128, bool, none.
type NamedType struct {
	Name string
}

func (NamedType) typeExprNode() {}

// PointerTypeExpr is `&Elem`.
type PointerTypeExpr struct {
	Elem TypeExpr
}

func (PointerTypeExpr) typeExprNode() {}

// ArrayTypeExpr is `[Elem; Len]`, where Len must fold to a non-negative
// integer constant.
type ArrayTypeExpr struct {
	Elem TypeExpr
	Len  Expression
}

func (ArrayTypeExpr) typeExprNode() {}
