// printer.go implements a JSON AST dump living in the ast package itself,
// since the AST node set lives here rather than being duplicated in
// parser. Used by the `emit --ast` CLI flag for debugging a parse.
package ast

import (
	"encoding/json"
	"fmt"
	"os"
)

type jsonPrinter struct{}

func (p jsonPrinter) VisitExpressionStmt(s *ExpressionStmt) any {
	return map[string]any{"type": "ExpressionStmt", "expression": s.Expression.Accept(p)}
}

func (p jsonPrinter) VisitPrintStmt(s *PrintStmt) any {
	return map[string]any{"type": "PrintStmt", "expression": s.Expression.Accept(p)}
}

func (p jsonPrinter) VisitLetStmt(s *LetStmt) any {
	return map[string]any{
		"type":      "LetStmt",
		"name":      s.Name.Lexeme,
		"qualifier": s.Qualifier.String(),
		"init":      nilOrAccept(s.Init, p),
	}
}

func (p jsonPrinter) VisitAssignStmt(s *AssignStmt) any {
	return map[string]any{
		"type":   "AssignStmt",
		"derefs": s.Target.Derefs,
		"name":   s.Target.Name.Lexeme,
		"value":  s.Value.Accept(p),
	}
}

func (p jsonPrinter) VisitBlockStmt(s *BlockStmt) any {
	stmts := make([]any, 0, len(s.Statements))
	for _, st := range s.Statements {
		stmts = append(stmts, st.Accept(p))
	}
	return map[string]any{"type": "BlockStmt", "statements": stmts}
}

func (p jsonPrinter) VisitIfStmt(s *IfStmt) any {
	var elseVal any
	if s.Else != nil {
		elseVal = s.Else.Accept(p)
	}
	return map[string]any{
		"type": "IfStmt", "condition": s.Condition.Accept(p),
		"then": s.Then.Accept(p), "else": elseVal,
	}
}

func (p jsonPrinter) VisitWhileStmt(s *WhileStmt) any {
	return map[string]any{"type": "WhileStmt", "condition": s.Condition.Accept(p), "body": s.Body.Accept(p)}
}

func (p jsonPrinter) VisitForStmt(s *ForStmt) any {
	var initVal, stepVal any
	if s.Init != nil {
		initVal = s.Init.Accept(p)
	}
	if s.Step != nil {
		stepVal = s.Step.Accept(p)
	}
	return map[string]any{
		"type": "ForStmt", "init": initVal, "cond": nilOrAccept(s.Cond, p),
		"step": stepVal, "body": s.Body.Accept(p),
	}
}

func (p jsonPrinter) VisitReturnStmt(s *ReturnStmt) any {
	return map[string]any{"type": "ReturnStmt", "value": nilOrAccept(s.Value, p)}
}

func (p jsonPrinter) VisitBreakStmt(s *BreakStmt) any {
	return map[string]any{"type": "BreakStmt"}
}

func (p jsonPrinter) VisitFuncDecl(s *FuncDecl) any {
	params := make([]any, 0, len(s.Params))
	for _, param := range s.Params {
		params = append(params, map[string]any{"name": param.Name.Lexeme, "qualifier": param.Qualifier.String()})
	}
	return map[string]any{"type": "FuncDecl", "name": s.Name.Lexeme, "params": params, "body": s.Body.Accept(p)}
}

func (p jsonPrinter) VisitExternDecl(s *ExternDecl) any {
	return map[string]any{"type": "ExternDecl", "name": s.Name.Lexeme}
}

func (p jsonPrinter) VisitLogicalExpression(e *Logical) any {
	return map[string]any{"type": "Logical", "operator": e.Operator.Lexeme, "left": e.Left.Accept(p), "right": e.Right.Accept(p)}
}

func (p jsonPrinter) VisitTernary(e *Ternary) any {
	return map[string]any{
		"type": "Ternary", "condition": e.Condition.Accept(p),
		"then": e.Then.Accept(p), "else": e.Else.Accept(p),
	}
}

func (p jsonPrinter) VisitVariableExpression(e *Variable) any {
	return map[string]any{"type": "Variable", "name": e.Name.Lexeme}
}

func (p jsonPrinter) VisitReference(e *Reference) any {
	return map[string]any{"type": "Reference", "name": e.Operand.Name.Lexeme}
}

func (p jsonPrinter) VisitDeref(e *Deref) any {
	return map[string]any{"type": "Deref", "operand": e.Operand.Accept(p)}
}

func (p jsonPrinter) VisitIndex(e *Index) any {
	return map[string]any{"type": "Index", "target": e.Target.Accept(p), "index": e.Index.Accept(p)}
}

func (p jsonPrinter) VisitArrayLiteral(e *ArrayLiteral) any {
	elems := make([]any, 0, len(e.Elements))
	for _, el := range e.Elements {
		elems = append(elems, el.Accept(p))
	}
	return map[string]any{"type": "ArrayLiteral", "elements": elems}
}

func (p jsonPrinter) VisitCall(e *Call) any {
	args := make([]any, 0, len(e.Args))
	for _, a := range e.Args {
		args = append(args, a.Accept(p))
	}
	return map[string]any{"type": "Call", "callee": e.Callee.Lexeme, "args": args}
}

func (p jsonPrinter) VisitBinary(e *Binary) any {
	return map[string]any{"type": "Binary", "operator": e.Operator.Lexeme, "left": e.Left.Accept(p), "right": e.Right.Accept(p)}
}

func (p jsonPrinter) VisitUnary(e *Unary) any {
	return map[string]any{"type": "Unary", "operator": e.Operator.Lexeme, "right": e.Right.Accept(p)}
}

func (p jsonPrinter) VisitLiteral(e *Literal) any {
	return e.Value
}

func (p jsonPrinter) VisitGrouping(e *Grouping) any {
	return map[string]any{"type": "Grouping", "expression": e.Expression.Accept(p)}
}

func nilOrAccept(expr Expression, p ExpressionVisitor) any {
	if expr == nil {
		return nil
	}
	return expr.Accept(p)
}

// DumpJSON renders a parsed program as prettified JSON, living alongside
// the node types it describes instead of duplicating them in a second
// package.
func DumpJSON(statements []Stmt) (string, error) {
	printer := jsonPrinter{}
	out := make([]any, 0, len(statements))
	for _, s := range statements {
		out = append(out, s.Accept(printer))
	}
	bytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WriteJSONFile writes the AST JSON for statements to path.
func WriteJSONFile(statements []Stmt, path string) error {
	s, err := DumpJSON(statements)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating AST file: %s", err.Error())
	}
	defer f.Close()
	if _, err := f.Write([]byte(s)); err != nil {
		return fmt.Errorf("error writing AST to file: %s", err.Error())
	}
	return nil
}
