// Recursive descent parser
// https://en.wikipedia.org/wiki/Recursive_descent_parser
//
// A Recursive descent parser is a top-down parser because it starts from the
// top grammar rule and works its way down into the nested sub-expressions
// before reaching the leaves of the syntax tree (terminal rules). This
// parser builds typed ast nodes directly, with no separate parse-tree
// stage.
package parser

import (
	"fmt"

	"barracuda/ast"
	"barracuda/token"
	"barracuda/types"
)

var equalityTokenTypes = []token.TokenType{token.NOT_EQUAL, token.EQUAL_EQUAL}

var comparisonTokenTypes = []token.TokenType{
	token.LARGER, token.LARGER_EQUAL, token.LESS, token.LESS_EQUAL,
}

var shiftTokenTypes = []token.TokenType{token.SHIFT_LEFT, token.SHIFT_RIGHT}

var termTokenTypes = []token.TokenType{token.SUB, token.ADD}

var factorTokenTypes = []token.TokenType{token.MULT, token.DIV, token.MOD}

type Parser struct {
	tokens   []token.Token
	position int
}

// NOTE: The parser's position is always one unit ahead of the current
// token.

func Make(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, position: 0}
}

// Print prints the AST as prettified JSON to standard output.
func (parser *Parser) Print(statements []ast.Stmt) {
	s, err := ast.DumpJSON(statements)
	if err != nil {
		fmt.Println("error producing AST JSON:", err)
		return
	}
	fmt.Println(s)
}

// PrintToFile writes the AST for the provided statements to a .json file.
func (parser *Parser) PrintToFile(statements []ast.Stmt, path string) error {
	return ast.WriteJSONFile(statements, path)
}

func (parser *Parser) peek() token.Token {
	return parser.tokens[parser.position]
}

func (parser *Parser) previous() token.Token {
	return parser.tokens[parser.position-1]
}

func (parser *Parser) advance() token.Token {
	if !parser.isFinished() {
		parser.position++
	}
	return parser.previous()
}

func (parser *Parser) isFinished() bool {
	return parser.peek().TokenType == token.EOF
}

func (parser *Parser) checkType(tokenType token.TokenType) bool {
	if parser.isFinished() {
		return tokenType == token.EOF
	}
	return parser.peek().TokenType == tokenType
}

func (parser *Parser) isMatch(tokenTypes []token.TokenType) bool {
	for _, tokenType := range tokenTypes {
		if parser.checkType(tokenType) {
			parser.advance()
			return true
		}
	}
	return false
}

// Parse parses the entire token stream into a slice of Stmt nodes,
// continuing until the end of input. Errors are collected but parsing
// continues, advancing one token past the failure, to surface additional
// errors in a single pass.
func (parser *Parser) Parse() ([]ast.Stmt, []error) {
	var statements []ast.Stmt
	var errors []error

	for !parser.isFinished() {
		statement, err := parser.declaration()
		if err != nil {
			errors = append(errors, err)
			if !parser.isFinished() {
				parser.position++
			}
			continue
		}
		statements = append(statements, statement)
	}

	return statements, errors
}

// declaration parses a top-level or block-level declaration: a function,
// an extern, a let binding, or (falling through) a general statement.
func (parser *Parser) declaration() (ast.Stmt, error) {
	if parser.isMatch([]token.TokenType{token.FN}) {
		return parser.funcDecl()
	}
	if parser.isMatch([]token.TokenType{token.EXTERN}) {
		return parser.externDecl()
	}
	if parser.isMatch([]token.TokenType{token.LET}) {
		return parser.letStmt()
	}
	return parser.statement()
}

func (parser *Parser) typeExpr() (ast.TypeExpr, error) {
	if parser.isMatch([]token.TokenType{token.AMP}) {
		elem, err := parser.typeExpr()
		if err != nil {
			return nil, err
		}
		return ast.PointerTypeExpr{Elem: elem}, nil
	}
	if parser.isMatch([]token.TokenType{token.LBRACKET}) {
		elem, err := parser.typeExpr()
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.SEMICOLON, "expected ';' between array element type and length"); err != nil {
			return nil, err
		}
		length, err := parser.expression()
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.RBRACKET, "expected ']' after array type length"); err != nil {
			return nil, err
		}
		return ast.ArrayTypeExpr{Elem: elem, Len: length}, nil
	}
	if token.TypeKeywords[parser.peek().TokenType] {
		tok := parser.advance()
		return ast.NamedType{Name: tok.Lexeme}, nil
	}
	currentToken := parser.peek()
	return nil, CreateSyntaxError(currentToken.Line, currentToken.Column, "expected a type")
}

// letStmt parses a `let` binding. The `let` keyword itself has already
// been consumed by the caller (declaration, or a for-loop initializer).
func (parser *Parser) letStmt() (ast.Stmt, error) {
	letPos := ast.PosFrom(parser.previous())

	qualifier := types.ConstQualifier
	hasQualifier := false
	if parser.isMatch([]token.TokenType{token.MUT}) {
		qualifier = types.MutQualifier
		hasQualifier = true
	} else if parser.isMatch([]token.TokenType{token.CONST}) {
		hasQualifier = true
	}

	nameTok, err := parser.consume(token.IDENTIFIER, "expected a variable name after 'let'")
	if err != nil {
		return nil, err
	}

	var typeAnn ast.TypeExpr
	if parser.isMatch([]token.TokenType{token.COLON}) {
		typeAnn, err = parser.typeExpr()
		if err != nil {
			return nil, err
		}
	}

	var init ast.Expression
	if parser.isMatch([]token.TokenType{token.ASSIGN}) {
		init, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := parser.consume(token.SEMICOLON, "expected ';' after let binding"); err != nil {
		return nil, err
	}

	return &ast.LetStmt{
		Pos: letPos, Name: nameTok, Qualifier: qualifier,
		HasQualifier: hasQualifier, TypeAnn: typeAnn, Init: init,
	}, nil
}

// externDecl parses `extern name[: Type];`. The `extern` keyword has
// already been consumed by the caller.
func (parser *Parser) externDecl() (ast.Stmt, error) {
	pos := ast.PosFrom(parser.previous())
	nameTok, err := parser.consume(token.IDENTIFIER, "expected an environment variable name after 'extern'")
	if err != nil {
		return nil, err
	}
	var typeAnn ast.TypeExpr
	if parser.isMatch([]token.TokenType{token.COLON}) {
		typeAnn, err = parser.typeExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after extern declaration"); err != nil {
		return nil, err
	}
	return &ast.ExternDecl{Pos: pos, Name: nameTok, Type: typeAnn}, nil
}

// funcDecl parses `fn name(params...) -> ReturnType { body }`. The `fn`
// keyword has already been consumed by the caller.
func (parser *Parser) funcDecl() (ast.Stmt, error) {
	pos := ast.PosFrom(parser.previous())
	nameTok, err := parser.consume(token.IDENTIFIER, "expected a function name after 'fn'")
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.LPA, "expected '(' after function name"); err != nil {
		return nil, err
	}

	var params []ast.Param
	if !parser.checkType(token.RPA) {
		for {
			qualifier := types.ConstQualifier
			if parser.isMatch([]token.TokenType{token.MUT}) {
				qualifier = types.MutQualifier
			} else {
				parser.isMatch([]token.TokenType{token.CONST})
			}
			pname, err := parser.consume(token.IDENTIFIER, "expected a parameter name")
			if err != nil {
				return nil, err
			}
			if _, err := parser.consume(token.COLON, "expected ':' after parameter name"); err != nil {
				return nil, err
			}
			ptype, err := parser.typeExpr()
			if err != nil {
				return nil, err
			}
			params = append(params, ast.Param{Name: pname, Qualifier: qualifier, Type: ptype})
			if !parser.isMatch([]token.TokenType{token.COMMA}) {
				break
			}
		}
	}
	if _, err := parser.consume(token.RPA, "expected ')' after parameter list"); err != nil {
		return nil, err
	}

	var returnType ast.TypeExpr
	if parser.isMatch([]token.TokenType{token.ARROW}) {
		returnType, err = parser.typeExpr()
		if err != nil {
			return nil, err
		}
	}

	if _, err := parser.consume(token.LCUR, "expected '{' to begin function body"); err != nil {
		return nil, err
	}
	bodyStatements, err := parser.block()
	if err != nil {
		return nil, err
	}

	return &ast.FuncDecl{
		Pos: pos, Name: nameTok, Params: params, ReturnType: returnType,
		Body: &ast.BlockStmt{Pos: pos, Statements: bodyStatements},
	}, nil
}

// statement parses a single statement.
func (parser *Parser) statement() (ast.Stmt, error) {
	if parser.isMatch([]token.TokenType{token.PRINT}) {
		return parser.printStatement()
	}
	if parser.isMatch([]token.TokenType{token.RETURN}) {
		return parser.returnStatement()
	}
	if parser.isMatch([]token.TokenType{token.BREAK}) {
		return parser.breakStatement()
	}
	if parser.isMatch([]token.TokenType{token.LCUR}) {
		pos := ast.PosFrom(parser.previous())
		statements, err := parser.block()
		if err != nil {
			return nil, err
		}
		return &ast.BlockStmt{Pos: pos, Statements: statements}, nil
	}
	if parser.isMatch([]token.TokenType{token.IF}) {
		return parser.ifStatement()
	}
	if parser.isMatch([]token.TokenType{token.WHILE}) {
		return parser.whileStatement()
	}
	if parser.isMatch([]token.TokenType{token.FOR}) {
		return parser.forStatement()
	}

	stmt, err := parser.simpleStmt()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after statement"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (parser *Parser) printStatement() (ast.Stmt, error) {
	pos := ast.PosFrom(parser.previous())
	expr, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after print statement"); err != nil {
		return nil, err
	}
	return &ast.PrintStmt{Pos: pos, Expression: expr}, nil
}

func (parser *Parser) returnStatement() (ast.Stmt, error) {
	pos := ast.PosFrom(parser.previous())
	var value ast.Expression
	if !parser.checkType(token.SEMICOLON) {
		v, err := parser.expression()
		if err != nil {
			return nil, err
		}
		value = v
	}
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after return statement"); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Pos: pos, Value: value}, nil
}

func (parser *Parser) breakStatement() (ast.Stmt, error) {
	pos := ast.PosFrom(parser.previous())
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after break statement"); err != nil {
		return nil, err
	}
	return &ast.BreakStmt{Pos: pos}, nil
}

func (parser *Parser) whileStatement() (ast.Stmt, error) {
	pos := ast.PosFrom(parser.previous())
	if _, err := parser.consume(token.LPA, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.RPA, "expected ')' after while condition"); err != nil {
		return nil, err
	}
	body, err := parser.statement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Pos: pos, Condition: cond, Body: body}, nil
}

func (parser *Parser) forStatement() (ast.Stmt, error) {
	pos := ast.PosFrom(parser.previous())
	if _, err := parser.consume(token.LPA, "expected '(' after 'for'"); err != nil {
		return nil, err
	}

	var initStmt ast.Stmt
	if parser.isMatch([]token.TokenType{token.SEMICOLON}) {
		// empty initializer clause
	} else if parser.isMatch([]token.TokenType{token.LET}) {
		s, err := parser.letStmt()
		if err != nil {
			return nil, err
		}
		initStmt = s
	} else {
		s, err := parser.simpleStmt()
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.SEMICOLON, "expected ';' after for-loop initializer"); err != nil {
			return nil, err
		}
		initStmt = s
	}

	var cond ast.Expression
	if !parser.checkType(token.SEMICOLON) {
		c, err := parser.expression()
		if err != nil {
			return nil, err
		}
		cond = c
	}
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after for-loop condition"); err != nil {
		return nil, err
	}

	var step ast.Stmt
	if !parser.checkType(token.RPA) {
		s, err := parser.simpleStmt()
		if err != nil {
			return nil, err
		}
		step = s
	}
	if _, err := parser.consume(token.RPA, "expected ')' after for-loop clauses"); err != nil {
		return nil, err
	}

	body, err := parser.statement()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{Pos: pos, Init: initStmt, Cond: cond, Step: step, Body: body}, nil
}

func (parser *Parser) ifStatement() (ast.Stmt, error) {
	pos := ast.PosFrom(parser.previous())
	if _, err := parser.consume(token.LPA, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.RPA, "expected ')' after if condition"); err != nil {
		return nil, err
	}
	thenStmt, err := parser.statement()
	if err != nil {
		return nil, err
	}

	var elseStmt ast.Stmt
	if parser.isMatch([]token.TokenType{token.ELIF}) {
		elseStmt, err = parser.ifStatement()
		if err != nil {
			return nil, err
		}
	} else if parser.isMatch([]token.TokenType{token.ELSE}) {
		elseStmt, err = parser.statement()
		if err != nil {
			return nil, err
		}
	}

	return &ast.IfStmt{Pos: pos, Condition: cond, Then: thenStmt, Else: elseStmt}, nil
}

// block parses the statements of a `{ ... }` block. The opening '{' has
// already been consumed by the caller.
func (parser *Parser) block() ([]ast.Stmt, error) {
	var statements []ast.Stmt

	for !parser.isMatch([]token.TokenType{token.RCUR}) && !parser.isFinished() {
		stmt, err := parser.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	if parser.previous().TokenType != token.RCUR {
		previousToken := parser.previous()
		errMsg := fmt.Sprintf("expected '%s' after block", token.RCUR)
		return nil, CreateSyntaxError(previousToken.Line, previousToken.Column, errMsg)
	}
	return statements, nil
}

// simpleStmt parses either an assignment statement (an lvalue with zero or
// more leading derefs and zero or more index suffixes, followed by '=')
// or, falling back, an expression statement (including a naked function
// call). It does not consume a trailing terminator — callers decide
// whether that is ';' (an ordinary statement) or ')' (a for-loop step).
func (parser *Parser) simpleStmt() (ast.Stmt, error) {
	start := parser.position
	derefs := 0
	for parser.isMatch([]token.TokenType{token.MULT}) {
		derefs++
	}

	if parser.checkType(token.IDENTIFIER) {
		nameTok := parser.peek()
		parser.advance()

		var indices []ast.Expression
		matchedAssignable := true
		for parser.checkType(token.LBRACKET) {
			parser.advance()
			idx, err := parser.expression()
			if err != nil {
				return nil, err
			}
			if _, err := parser.consume(token.RBRACKET, "expected ']'"); err != nil {
				return nil, err
			}
			indices = append(indices, idx)
		}

		if matchedAssignable && parser.checkType(token.ASSIGN) {
			parser.advance()
			value, err := parser.expression()
			if err != nil {
				return nil, err
			}
			return &ast.AssignStmt{
				Pos:   ast.PosFrom(nameTok),
				Target: ast.LValue{Pos: ast.PosFrom(nameTok), Derefs: derefs, Name: nameTok, Indices: indices},
				Value: value,
			}, nil
		}

		// Not an assignment after all; reparse this span as an expression.
		parser.position = start
	}

	expr, err := parser.expression()
	if err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{Pos: expr.Position(), Expression: expr}, nil
}

func (parser *Parser) expression() (ast.Expression, error) {
	return parser.ternary()
}

func (parser *Parser) ternary() (ast.Expression, error) {
	expr, err := parser.logicalOr()
	if err != nil {
		return nil, err
	}
	if parser.isMatch([]token.TokenType{token.QUESTION}) {
		pos := expr.Position()
		thenExpr, err := parser.expression()
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.COLON, "expected ':' in ternary expression"); err != nil {
			return nil, err
		}
		elseExpr, err := parser.ternary()
		if err != nil {
			return nil, err
		}
		return &ast.Ternary{Pos: pos, Condition: expr, Then: thenExpr, Else: elseExpr}, nil
	}
	return expr, nil
}

func (parser *Parser) logicalOr() (ast.Expression, error) {
	expr, err := parser.logicalAnd()
	if err != nil {
		return nil, err
	}
	for parser.isMatch([]token.TokenType{token.OR}) {
		op := parser.previous()
		right, err := parser.logicalAnd()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Pos: expr.Position(), Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (parser *Parser) logicalAnd() (ast.Expression, error) {
	expr, err := parser.equality()
	if err != nil {
		return nil, err
	}
	for parser.isMatch([]token.TokenType{token.AND}) {
		op := parser.previous()
		right, err := parser.equality()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Pos: expr.Position(), Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (parser *Parser) equality() (ast.Expression, error) {
	expr, err := parser.comparison()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(equalityTokenTypes) {
		operator := parser.previous()
		right, err := parser.comparison()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Pos: expr.Position(), Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (parser *Parser) comparison() (ast.Expression, error) {
	expr, err := parser.shift()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(comparisonTokenTypes) {
		operator := parser.previous()
		right, err := parser.shift()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Pos: expr.Position(), Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (parser *Parser) shift() (ast.Expression, error) {
	expr, err := parser.term()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(shiftTokenTypes) {
		operator := parser.previous()
		right, err := parser.term()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Pos: expr.Position(), Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (parser *Parser) term() (ast.Expression, error) {
	expr, err := parser.factor()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(termTokenTypes) {
		operator := parser.previous()
		right, err := parser.factor()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Pos: expr.Position(), Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (parser *Parser) factor() (ast.Expression, error) {
	expr, err := parser.exponent()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(factorTokenTypes) {
		operator := parser.previous()
		right, err := parser.exponent()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Pos: expr.Position(), Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (parser *Parser) exponent() (ast.Expression, error) {
	expr, err := parser.unary()
	if err != nil {
		return nil, err
	}
	if parser.isMatch([]token.TokenType{token.EXP}) {
		operator := parser.previous()
		right, err := parser.exponent() // right-associative
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Pos: expr.Position(), Left: expr, Operator: operator, Right: right}, nil
	}
	return expr, nil
}

func (parser *Parser) unary() (ast.Expression, error) {
	if parser.isMatch([]token.TokenType{token.BANG, token.SUB}) {
		operator := parser.previous()
		right, err := parser.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Pos: ast.PosFrom(operator), Operator: operator, Right: right}, nil
	}
	if parser.isMatch([]token.TokenType{token.MULT}) {
		pos := ast.PosFrom(parser.previous())
		operand, err := parser.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Deref{Pos: pos, Operand: operand}, nil
	}
	if parser.isMatch([]token.TokenType{token.AMP}) {
		pos := ast.PosFrom(parser.previous())
		nameTok, err := parser.consume(token.IDENTIFIER, "expected a variable name after '&'")
		if err != nil {
			return nil, err
		}
		return &ast.Reference{Pos: pos, Operand: &ast.Variable{Pos: ast.PosFrom(nameTok), Name: nameTok}}, nil
	}
	return parser.postfix()
}

func (parser *Parser) postfix() (ast.Expression, error) {
	expr, err := parser.primary()
	if err != nil {
		return nil, err
	}
	for parser.isMatch([]token.TokenType{token.LBRACKET}) {
		idx, err := parser.expression()
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.RBRACKET, "expected ']' after index expression"); err != nil {
			return nil, err
		}
		expr = &ast.Index{Pos: expr.Position(), Target: expr, Index: idx}
	}
	return expr, nil
}

func (parser *Parser) primary() (ast.Expression, error) {
	if parser.isMatch([]token.TokenType{token.FALSE}) {
		return &ast.Literal{Pos: ast.PosFrom(parser.previous()), Value: false}, nil
	}
	if parser.isMatch([]token.TokenType{token.TRUE}) {
		return &ast.Literal{Pos: ast.PosFrom(parser.previous()), Value: true}, nil
	}
	if parser.isMatch([]token.TokenType{token.NONE}) {
		return &ast.Literal{Pos: ast.PosFrom(parser.previous()), Value: nil}, nil
	}
	if parser.isMatch([]token.TokenType{token.FLOAT, token.INT, token.STRING}) {
		tok := parser.previous()
		return &ast.Literal{Pos: ast.PosFrom(tok), Value: tok.Literal}, nil
	}
	if parser.isMatch([]token.TokenType{token.LBRACKET}) {
		pos := ast.PosFrom(parser.previous())
		var elements []ast.Expression
		if !parser.checkType(token.RBRACKET) {
			for {
				el, err := parser.expression()
				if err != nil {
					return nil, err
				}
				elements = append(elements, el)
				if !parser.isMatch([]token.TokenType{token.COMMA}) {
					break
				}
			}
		}
		if _, err := parser.consume(token.RBRACKET, "expected ']' after array literal"); err != nil {
			return nil, err
		}
		return &ast.ArrayLiteral{Pos: pos, Elements: elements}, nil
	}
	if parser.isMatch([]token.TokenType{token.IDENTIFIER}) {
		nameTok := parser.previous()
		if parser.isMatch([]token.TokenType{token.LPA}) {
			var args []ast.Expression
			if !parser.checkType(token.RPA) {
				for {
					arg, err := parser.expression()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if !parser.isMatch([]token.TokenType{token.COMMA}) {
						break
					}
				}
			}
			if _, err := parser.consume(token.RPA, "expected ')' after call arguments"); err != nil {
				return nil, err
			}
			return &ast.Call{Pos: ast.PosFrom(nameTok), Callee: nameTok, Args: args}, nil
		}
		return &ast.Variable{Pos: ast.PosFrom(nameTok), Name: nameTok}, nil
	}
	if parser.isMatch([]token.TokenType{token.LPA}) {
		pos := ast.PosFrom(parser.previous())
		expr, err := parser.expression()
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.RPA, fmt.Sprintf("expression is missing '%s'", token.RPA)); err != nil {
			return nil, err
		}
		return &ast.Grouping{Pos: pos, Expression: expr}, nil
	}

	currentToken := parser.peek()
	return nil, CreateSyntaxError(currentToken.Line, currentToken.Column, "unrecognised expression")
}

// consume advances past the current token if it matches tokenType,
// otherwise it returns a SyntaxError positioned at the offending token.
func (parser *Parser) consume(tokenType token.TokenType, errorMessage string) (token.Token, error) {
	if parser.checkType(tokenType) {
		return parser.advance(), nil
	}
	currentToken := parser.peek()
	return token.Token{}, CreateSyntaxError(currentToken.Line, currentToken.Column, errorMessage)
}
