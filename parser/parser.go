package parser

import (
	"fmt"
	"strings"

	"github.com/takoeight0821/rjulia/ast"
	"github.com/takoeight0821/rjulia/token"
	"github.com/takoeight0821/rjulia/utils"
)

type Parser struct {
	tokens  []token.Token
	current int
	err     error
}

func NewParser(tokens []token.Token) *Parser {
	return &Parser{tokens, 0, nil}
}

// ParseProgram parses the whole token stream. Parsing stops at the first
// error and no partial tree is returned.
//
// program = statements EOF ;
func (p *Parser) ParseProgram() (*ast.Program, error) {
	p.err = nil
	p.current = 0
	stmts := p.statements(token.EOF)
	if p.err == nil && !p.IsAtEnd() {
		p.recover(unexpectedToken(p.peek(), "end of input"))
	}
	if p.err != nil {
		return nil, p.err
	}

	return &ast.Program{Stmts: stmts}, nil
}

// statements = (separator | statement)* ;
// separator = NEWLINE | ";" ;
func (p *Parser) statements(end token.Kind) []ast.Node {
	stmts := []ast.Node{}
	for p.err == nil && !p.IsAtEnd() && !p.match(end) {
		if p.peek().Kind.IsSeparator() {
			p.advance()
			continue
		}
		stmt := p.statement()
		if p.err != nil {
			break
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	return stmts
}

// statement = ifStmt | whileStmt | forStmt | returnStmt | functionDecl | exprStmt ;
func (p *Parser) statement() ast.Node {
	//exhaustive:ignore
	switch p.peek().Kind {
	case token.IF:
		return p.ifStmt()
	case token.WHILE:
		return p.whileStmt()
	case token.FOR:
		return p.forStmt()
	case token.RETURN:
		return p.returnStmt()
	case token.IDENT:
		if p.matchNth(1, token.BACKARROW) && p.matchNth(2, token.FUNCTION) {
			return p.functionDecl()
		}
	}

	return p.exprStmt()
}

// exprStmt = expr ;
func (p *Parser) exprStmt() ast.Node {
	expr := p.expr()
	if p.err != nil {
		return nil
	}

	switch expr.(type) {
	case *ast.Assign, *ast.AssignIndex:
		return expr
	default:
		return &ast.ExprStmt{Expr: expr}
	}
}

// ifStmt = "if" "(" expr ")" block (NEWLINE* "else" block)? ;
func (p *Parser) ifStmt() *ast.If {
	p.consume(token.IF)
	p.consume(token.LEFTPAREN)
	cond := p.expr()
	p.consume(token.RIGHTPAREN)
	then := p.block()

	var els *ast.Block
	if p.err == nil && p.elseFollows() {
		p.skipNewlines()
		p.consume(token.ELSE)
		els = p.block()
	}

	return &ast.If{Cond: cond, Then: then, Else: els}
}

// elseFollows reports whether the next non-newline token is `else`.
func (p Parser) elseFollows() bool {
	for i := p.current; i < len(p.tokens); i++ {
		switch p.tokens[i].Kind {
		case token.NEWLINE:
			continue
		case token.ELSE:
			return true
		default:
			return false
		}
	}

	return false
}

// whileStmt = "while" "(" expr ")" block ;
func (p *Parser) whileStmt() *ast.While {
	p.consume(token.WHILE)
	p.consume(token.LEFTPAREN)
	cond := p.expr()
	p.consume(token.RIGHTPAREN)
	body := p.block()

	return &ast.While{Cond: cond, Body: body}
}

// forStmt = "for" "(" IDENT "in" expr ")" block ;
func (p *Parser) forStmt() *ast.For {
	p.consume(token.FOR)
	p.consume(token.LEFTPAREN)
	name := p.consume(token.IDENT)
	p.consume(token.IN)
	iterable := p.expr()
	p.consume(token.RIGHTPAREN)
	body := p.block()

	loop := &ast.For{Var: name.Lexeme, End: iterable, Body: body}
	if rng, ok := iterable.(*ast.BinaryOp); ok && rng.Op == ":" {
		loop.Start = rng.Left
		loop.End = rng.Right
	}

	return loop
}

// returnStmt = "return" expr? ;
func (p *Parser) returnStmt() *ast.Return {
	p.consume(token.RETURN)
	if p.IsAtEnd() || p.peek().Kind.IsSeparator() || p.match(token.RIGHTBRACE) {
		return &ast.Return{}
	}

	return &ast.Return{Expr: p.expr()}
}

// functionDecl = IDENT "<-" "function" "(" params ")" block ;
func (p *Parser) functionDecl() ast.Node {
	name := p.consume(token.IDENT)
	p.consume(token.BACKARROW)
	p.consume(token.FUNCTION)
	p.consume(token.LEFTPAREN)
	params := p.params()
	p.consume(token.RIGHTPAREN)
	body := p.block()

	if op, class, ok := splitOperatorClass(name.Lexeme); ok {
		return &ast.OperatorClassFunctionDecl{Op: op, Class: class, Params: params, Body: body}
	}

	return &ast.FunctionDecl{Name: name.Lexeme, Params: params, Body: body}
}

// splitOperatorClass splits a backtick-quoted `op.Class` name.
func splitOperatorClass(name string) (string, string, bool) {
	if len(name) < 2 || !strings.HasPrefix(name, "`") || !strings.HasSuffix(name, "`") {
		return "", "", false
	}
	inner := name[1 : len(name)-1]
	if strings.Count(inner, ".") != 1 {
		return "", "", false
	}
	op, class, _ := strings.Cut(inner, ".")
	if op == "" || class == "" {
		return "", "", false
	}

	return op, class, true
}

// params = (IDENT ("," IDENT)*)? ;
func (p *Parser) params() []string {
	params := []string{}
	p.skipNewlines()
	if p.match(token.RIGHTPAREN) {
		return params
	}
	params = append(params, p.consume(token.IDENT).Lexeme)
	p.skipNewlines()
	for p.err == nil && p.match(token.COMMA) {
		p.advance()
		p.skipNewlines()
		params = append(params, p.consume(token.IDENT).Lexeme)
		p.skipNewlines()
	}

	return params
}

// block = NEWLINE* ("{" statements "}" | statement) ;
func (p *Parser) block() *ast.Block {
	if p.err != nil {
		return &ast.Block{}
	}
	p.skipNewlines()
	if p.match(token.LEFTBRACE) {
		p.advance()
		stmts := p.statements(token.RIGHTBRACE)
		p.consume(token.RIGHTBRACE)

		return &ast.Block{Stmts: stmts}
	}

	stmt := p.statement()
	if stmt == nil {
		return &ast.Block{}
	}

	return &ast.Block{Stmts: []ast.Node{stmt}}
}

// expr = assignment ;
func (p *Parser) expr() ast.Node {
	if p.IsAtEnd() {
		p.recover(unexpectedToken(p.peek(), "expression"))

		return nil
	}

	return p.assignment()
}

// assignment = binary (("<-" | "=") assignment)? ;
//
// The left side must be a variable, an index expression or a `$` access.
func (p *Parser) assignment() ast.Node {
	target := p.binary(precOr)
	if p.err != nil || !(p.match(token.BACKARROW) || p.match(token.EQUAL)) {
		return target
	}

	arrow := p.advance()
	value := p.assignment()

	switch t := target.(type) {
	case *ast.Var:
		return &ast.Assign{Name: t.Name, Expr: value}
	case *ast.IndexOp:
		return &ast.AssignIndex{Target: t.Target, Index: t.Index, Expr: value}
	case *ast.FieldAccess:
		return &ast.AssignIndex{Target: t.Target, Index: &ast.StringLiteral{Value: t.Field}, Expr: value}
	default:
		p.recover(utils.ErrorAt{Where: arrow, Err: InvalidAssignmentError{Target: target}})

		return nil
	}
}

// Binding powers of the infix operators, lowest first.
// Prefix `!` and `-` parse their operand at precNot.
const (
	precOr = iota + 1
	precAnd
	precNot
	precCompare
	precAdditive
	precMultiplicative
	precPower
	precRange
)

func infixPrecedence(kind token.Kind) (int, bool) {
	//exhaustive:ignore
	switch kind {
	case token.OR:
		return precOr, true
	case token.AND:
		return precAnd, true
	case token.EQUALEQUAL, token.BANGEQUAL, token.LESS, token.LESSEQUAL, token.GREATER, token.GREATEREQUAL:
		return precCompare, true
	case token.PLUS, token.MINUS:
		return precAdditive, true
	case token.STAR, token.SLASH:
		return precMultiplicative, true
	case token.CARET:
		return precPower, true
	case token.COLON:
		return precRange, true
	default:
		return 0, false
	}
}

// binary = unary (operator unary)* ;
//
// `^` is right-associative, comparisons are non-associative and every other
// operator is left-associative.
func (p *Parser) binary(minPrec int) ast.Node {
	left := p.unary()
	for p.err == nil {
		op := p.peek()
		prec, ok := infixPrecedence(op.Kind)
		if !ok || prec < minPrec {
			break
		}
		p.advance()

		nextMin := prec + 1
		if op.Kind == token.CARET {
			nextMin = prec
		}
		right := p.binary(nextMin)
		if p.err != nil {
			return nil
		}

		left = &ast.BinaryOp{Op: op.Lexeme, Left: left, Right: right}

		if op.Kind.IsComparison() && p.peek().Kind.IsComparison() {
			p.recover(utils.ErrorAt{Where: p.peek(), Err: NonAssociativeError{Op: p.peek().Lexeme}})

			return nil
		}
	}

	return left
}

// unary = ("!" | "-") binary | postfix ;
func (p *Parser) unary() ast.Node {
	if p.match(token.BANG) || p.match(token.MINUS) {
		op := p.advance()
		operand := p.binary(precNot)

		return &ast.UnaryOp{Op: op.Lexeme, Expr: operand}
	}

	return p.postfix()
}

// postfix = atom ("[" expr "]" | "$" IDENT)* ;
func (p *Parser) postfix() ast.Node {
	expr := p.atom()
	for p.err == nil {
		switch {
		case p.match(token.LEFTBRACKET):
			p.advance()
			index := p.expr()
			p.consume(token.RIGHTBRACKET)
			expr = &ast.IndexOp{Target: expr, Index: index}
		case p.match(token.DOLLAR):
			p.advance()
			field := p.consume(token.IDENT)
			expr = &ast.FieldAccess{Target: expr, Field: field.Lexeme}
		default:
			return expr
		}
	}

	return expr
}

// atom = INTEGER | FLOAT | STRING | BOOL | IDENT | call | "(" expr ")" ;
func (p *Parser) atom() ast.Node {
	if p.err != nil {
		return nil
	}
	if p.IsAtEnd() {
		p.recover(unexpectedToken(p.peek(), "expression"))

		return nil
	}

	//exhaustive:ignore
	switch tok := p.advance(); tok.Kind {
	case token.INTEGER:
		return &ast.IntLiteral{Digits: tok.Literal.(string)}
	case token.FLOAT:
		return &ast.FloatLiteral{Value: tok.Literal.(float64)}
	case token.STRING:
		return &ast.StringLiteral{Value: tok.Literal.(string)}
	case token.BOOL:
		return &ast.BoolLiteral{Value: tok.Literal.(bool)}
	case token.IDENT:
		if p.match(token.LEFTPAREN) {
			return p.call(tok)
		}

		return &ast.Var{Name: tok.Lexeme}
	case token.LEFTPAREN:
		p.skipNewlines()
		expr := p.expr()
		p.skipNewlines()
		p.consume(token.RIGHTPAREN)

		return expr
	default:
		p.recover(unexpectedToken(tok, "expression"))

		return nil
	}
}

// call = IDENT "(" (arg ("," arg)*)? ")" ;
//
// A call to a type test with a single positional argument becomes a
// TypePredicate.
func (p *Parser) call(name token.Token) ast.Node {
	p.consume(token.LEFTPAREN)
	args := []ast.Node{}
	p.skipNewlines()
	if !p.match(token.RIGHTPAREN) {
		args = append(args, p.arg())
		p.skipNewlines()
		for p.err == nil && p.match(token.COMMA) {
			p.advance()
			p.skipNewlines()
			args = append(args, p.arg())
			p.skipNewlines()
		}
	}
	p.consume(token.RIGHTPAREN)

	if kind, ok := ast.LookupPredicate(name.Lexeme); ok && len(args) == 1 {
		if _, named := args[0].(*ast.NamedArg); !named {
			return &ast.TypePredicate{Kind: kind, Expr: args[0]}
		}
	}

	return &ast.Call{Name: name.Lexeme, Args: args}
}

// arg = IDENT "=" binary | binary ;
func (p *Parser) arg() ast.Node {
	if p.match(token.IDENT) && p.matchNth(1, token.EQUAL) {
		name := p.advance()
		p.advance()
		p.skipNewlines()

		return &ast.NamedArg{Name: name.Lexeme, Value: p.binary(precOr)}
	}

	return p.binary(precOr)
}

func (p *Parser) skipNewlines() {
	for p.err == nil && p.match(token.NEWLINE) {
		p.advance()
	}
}

// recover records err. Only the first error is kept: parsing does not
// continue past a syntax error.
func (p *Parser) recover(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p Parser) peekNth(n int) token.Token {
	return p.tokens[p.current+n]
}

func (p *Parser) advance() token.Token {
	if !p.IsAtEnd() {
		p.current++
	}

	return p.previous()
}

func (p Parser) previous() token.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p Parser) IsAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p Parser) match(kind token.Kind) bool {
	if p.IsAtEnd() {
		return false
	}

	return p.peek().Kind == kind
}

func (p Parser) matchNth(n int, kind token.Kind) bool {
	if p.current+n >= len(p.tokens) {
		return false
	}
	if p.tokens[p.current+n].Kind == token.EOF {
		return false
	}

	return p.peekNth(n).Kind == kind
}

func (p *Parser) consume(kind token.Kind) token.Token {
	if p.match(kind) {
		return p.advance()
	}

	p.recover(unexpectedToken(p.peek(), kind.String()))

	return p.peek()
}

type UnexpectedTokenError struct {
	Expected []string
}

func (e UnexpectedTokenError) Error() string {
	var msg string
	if len(e.Expected) >= 1 {
		msg = e.Expected[0]
	}

	for _, ex := range e.Expected[1:] {
		msg = msg + ", " + ex
	}

	return "unexpected token: expected " + msg
}

type NonAssociativeError struct {
	Op string
}

func (e NonAssociativeError) Error() string {
	return fmt.Sprintf("comparison operators are non-associative: unexpected `%s`", e.Op)
}

type InvalidAssignmentError struct {
	Target ast.Node
}

func (e InvalidAssignmentError) Error() string {
	return fmt.Sprintf("invalid assignment target %v", e.Target)
}

func unexpectedToken(t token.Token, expected ...string) error {
	return utils.ErrorAt{Where: t, Err: UnexpectedTokenError{Expected: expected}}
}
