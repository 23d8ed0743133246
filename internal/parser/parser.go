// Package parser turns the token stream into a surface syntax block. It is a
// Pratt parser: each token type registers a prefix and/or infix parse
// function, and precedence climbing drives the operator grammar.
package parser

import (
	"github.com/pijama-lang/pijama/internal/ast"
	"github.com/pijama-lang/pijama/internal/diagnostics"
	"github.com/pijama-lang/pijama/internal/token"
)

// MaxRecursionDepth bounds expression nesting so that pathological input
// fails cleanly instead of exhausting the stack.
const MaxRecursionDepth = 500

// Operator precedence levels, low to high.
const (
	_ int = iota
	LOWEST
	LOGIC_OR    // ||
	LOGIC_AND   // &&
	BIT_OR      // |
	BIT_XOR     // ^
	BIT_AND     // &
	EQUALS      // == !=
	LESSGREATER // < <= > >=
	SHIFT       // << >>
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x !x
	CALL        // f(x)
)

var precedences = map[token.TokenType]int{
	token.OR:        LOGIC_OR,
	token.AND:       LOGIC_AND,
	token.PIPE:      BIT_OR,
	token.CARET:     BIT_XOR,
	token.AMPERSAND: BIT_AND,
	token.EQ:        EQUALS,
	token.NOT_EQ:    EQUALS,
	token.LT:        LESSGREATER,
	token.GT:        LESSGREATER,
	token.LTE:       LESSGREATER,
	token.GTE:       LESSGREATER,
	token.LSHIFT:    SHIFT,
	token.RSHIFT:    SHIFT,
	token.PLUS:      SUM,
	token.MINUS:     SUM,
	token.ASTERISK:  PRODUCT,
	token.SLASH:     PRODUCT,
	token.PERCENT:   PRODUCT,
	token.LPAREN:    CALL,
}

var binOps = map[token.TokenType]ast.BinOp{
	token.PLUS:      ast.Add,
	token.MINUS:     ast.Sub,
	token.ASTERISK:  ast.Mul,
	token.SLASH:     ast.Div,
	token.PERCENT:   ast.Rem,
	token.AMPERSAND: ast.BitAnd,
	token.PIPE:      ast.BitOr,
	token.CARET:     ast.BitXor,
	token.LSHIFT:    ast.Shl,
	token.RSHIFT:    ast.Shr,
	token.AND:       ast.And,
	token.OR:        ast.Or,
	token.EQ:        ast.Eq,
	token.NOT_EQ:    ast.Neq,
	token.LT:        ast.Lt,
	token.GT:        ast.Gt,
	token.LTE:       ast.Lte,
	token.GTE:       ast.Gte,
}

type (
	prefixParseFn func() ast.Node
	infixParseFn  func(ast.Node) ast.Node
)

type Parser struct {
	tokens []token.Token
	pos    int

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	depth int
	err   *diagnostics.Error
}

func New(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.INT:    p.parseIntLiteral,
		token.TRUE:   p.parseBoolLiteral,
		token.FALSE:  p.parseBoolLiteral,
		token.UNIT:   p.parseUnitLiteral,
		token.IDENT:  p.parseIdent,
		token.LPAREN: p.parseGrouped,
		token.MINUS:  p.parsePrefixExpression,
		token.BANG:   p.parsePrefixExpression,
		token.IF:     p.parseCond,
		token.FN:     p.parseFnDef,
	}

	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.LPAREN: p.parseCall,
	}
	for tokType := range binOps {
		p.infixParseFns[tokType] = p.parseInfixExpression
	}

	// Load curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses the whole token stream as one block.
func Parse(tokens []token.Token) (ast.Block, *diagnostics.Error) {
	p := New(tokens)
	blk := p.parseBlock(token.EOF)
	if p.err != nil {
		return ast.Block{}, p.err
	}
	return blk, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	} else {
		p.peekToken = token.Token{Type: token.EOF, Span: p.curToken.Span}
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// expect consumes the next token when it has the wanted type and records an
// error otherwise.
func (p *Parser) expect(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(diagnostics.ErrP002, p.peekToken.Span, "'"+string(t)+"'", p.peekToken.Lexeme)
	return false
}

func (p *Parser) errorf(code diagnostics.ErrorCode, span token.Span, args ...interface{}) {
	if p.err == nil {
		p.err = diagnostics.New(diagnostics.PhaseParser, code, span, args...)
	}
}

func (p *Parser) skipNewlines() {
	for p.curTokenIs(token.NEWLINE) {
		p.nextToken()
	}
}

// parseBlock parses statements separated by line breaks until one of the
// stop token types (or EOF) is reached. The stop token is left current.
func (p *Parser) parseBlock(stop ...token.TokenType) ast.Block {
	blk := ast.Block{Loc: p.curToken.Span}

	p.skipNewlines()
	for p.err == nil && !p.curTokenIs(token.EOF) && !p.atAny(stop) {
		node := p.parseStatement()
		if p.err != nil || node == nil {
			break
		}
		blk.Nodes = append(blk.Nodes, node)
		blk.Loc = blk.Loc.Merge(node.Span())

		// Statements end at a line break or at the end of the block.
		if p.peekTokenIs(token.NEWLINE) {
			p.nextToken()
			p.nextToken()
			p.skipNewlines()
			continue
		}
		if p.peekTokenIs(token.EOF) || p.peekAny(stop) {
			p.nextToken()
			break
		}
		p.errorf(diagnostics.ErrP001, p.peekToken.Span, p.peekToken.Lexeme)
	}
	if len(blk.Nodes) == 0 {
		blk.Loc = token.Span{Start: p.curToken.Span.Start, End: p.curToken.Span.Start}
	}
	return blk
}

func (p *Parser) atAny(types []token.TokenType) bool {
	for _, t := range types {
		if p.curTokenIs(t) {
			return true
		}
	}
	return false
}

func (p *Parser) peekAny(types []token.TokenType) bool {
	for _, t := range types {
		if p.peekTokenIs(t) {
			return true
		}
	}
	return false
}

func (p *Parser) parseStatement() ast.Node {
	if p.curTokenIs(token.LET) {
		return p.parseLetBind()
	}
	return p.parseExpression(LOWEST)
}
