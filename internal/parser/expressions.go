package parser

import (
	"github.com/pijama-lang/pijama/internal/ast"
	"github.com/pijama-lang/pijama/internal/diagnostics"
	"github.com/pijama-lang/pijama/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Node {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxRecursionDepth {
		p.errorf(diagnostics.ErrP003, p.curToken.Span, "expression too complex: recursion depth limit exceeded")
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf(diagnostics.ErrP001, p.curToken.Span, p.curToken.Lexeme)
		return nil
	}
	leftExp := prefix()

	for p.err == nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}
	return leftExp
}

func (p *Parser) parseIntLiteral() ast.Node {
	value, _ := p.curToken.Literal.(int64)
	return &ast.Lit{Value: ast.IntLit(value), Loc: p.curToken.Span}
}

func (p *Parser) parseBoolLiteral() ast.Node {
	return &ast.Lit{Value: ast.BoolLit(p.curTokenIs(token.TRUE)), Loc: p.curToken.Span}
}

func (p *Parser) parseUnitLiteral() ast.Node {
	return &ast.Lit{Value: ast.UnitLit(), Loc: p.curToken.Span}
}

func (p *Parser) parseIdent() ast.Node {
	if p.curToken.Lexeme == "print" {
		return &ast.PrimExpr{Prim: ast.PrimPrint, Loc: p.curToken.Span}
	}
	return &ast.Ident{Name: ast.Name(p.curToken.Lexeme), Loc: p.curToken.Span}
}

func (p *Parser) parseGrouped() ast.Node {
	p.nextToken()
	p.skipNewlines()
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}
	if p.peekTokenIs(token.NEWLINE) {
		p.nextToken()
		p.skipNewlines()
		if !p.curTokenIs(token.RPAREN) {
			p.errorf(diagnostics.ErrP002, p.curToken.Span, "')'", p.curToken.Lexeme)
			return nil
		}
		return exp
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parsePrefixExpression() ast.Node {
	opTok := p.curToken
	var op ast.UnOp
	if opTok.Type == token.MINUS {
		op = ast.Neg
	} else {
		op = ast.Not
	}
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.UnaryExpr{Op: op, Operand: operand, Loc: opTok.Span.Merge(operand.Span())}
}

func (p *Parser) parseInfixExpression(left ast.Node) ast.Node {
	op := binOps[p.curToken.Type]
	precedence := p.curPrecedence()
	p.nextToken()
	// A line break is allowed after the operator.
	p.skipNewlines()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.BinaryExpr{Op: op, Left: left, Right: right, Loc: left.Span().Merge(right.Span())}
}

// parseCall parses the argument list of a call; the callee has already been
// parsed. Calls without arguments denote the callee itself.
func (p *Parser) parseCall(callee ast.Node) ast.Node {
	call := &ast.CallExpr{Callee: callee, Loc: callee.Span()}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		call.Loc = call.Loc.Merge(p.curToken.Span)
		return call
	}

	p.nextToken()
	p.skipNewlines()
	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil
	}
	call.Args = append(call.Args, arg)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		p.skipNewlines()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)
	}

	if !p.expect(token.RPAREN) {
		return nil
	}
	call.Loc = call.Loc.Merge(p.curToken.Span)
	return call
}

// parseCond parses an if/else-if/else chain. The else block may be omitted,
// in which case it is an empty block ending at the same spot.
func (p *Parser) parseCond() ast.Node {
	cond := &ast.CondExpr{Loc: p.curToken.Span}

	branch, ok := p.parseBranch()
	if !ok {
		return nil
	}
	cond.If = branch

	for p.curTokenIs(token.ELSE) && p.peekTokenIs(token.IF) {
		p.nextToken()
		branch, ok := p.parseBranch()
		if !ok {
			return nil
		}
		cond.Elifs = append(cond.Elifs, branch)
	}

	switch {
	case p.curTokenIs(token.ELSE):
		p.nextToken()
		p.skipNewlines()
		cond.Else = p.parseBlock(token.END)
		if p.err != nil {
			return nil
		}
		if !p.curTokenIs(token.END) {
			p.errorf(diagnostics.ErrP002, p.curToken.Span, "'end'", p.curToken.Lexeme)
			return nil
		}
	case p.curTokenIs(token.END):
		end := p.curToken.Span.Start
		cond.Else = ast.Block{Loc: token.Span{Start: end, End: end}}
	default:
		p.errorf(diagnostics.ErrP002, p.curToken.Span, "'else' or 'end'", p.curToken.Lexeme)
		return nil
	}

	cond.Loc = cond.Loc.Merge(p.curToken.Span)
	return cond
}

// parseBranch parses `<cond> do <block>` with the leading if already
// current; it leaves the block's stop token (else or end) current.
func (p *Parser) parseBranch() (ast.Branch, bool) {
	p.nextToken()
	condExpr := p.parseExpression(LOWEST)
	if condExpr == nil {
		return ast.Branch{}, false
	}
	condBlk := ast.Block{Nodes: []ast.Node{condExpr}, Loc: condExpr.Span()}

	if !p.expect(token.DO) {
		return ast.Branch{}, false
	}
	p.nextToken()
	body := p.parseBlock(token.ELSE, token.END)
	if p.err != nil {
		return ast.Branch{}, false
	}
	if !p.curTokenIs(token.ELSE) && !p.curTokenIs(token.END) {
		p.errorf(diagnostics.ErrP002, p.curToken.Span, "'else' or 'end'", p.curToken.Lexeme)
		return ast.Branch{}, false
	}
	return ast.Branch{Cond: condBlk, Body: body}, true
}

// parseFnDef parses `fn [rec] [name](param: Ty, ...) [: Ty] do ... end`.
// The rec marker is accepted for readability; whether a definition really is
// recursive is decided later from its body.
func (p *Parser) parseFnDef() ast.Node {
	def := &ast.FnDef{Loc: p.curToken.Span}

	if p.peekTokenIs(token.REC) {
		p.nextToken()
	}

	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		if p.curToken.Lexeme == "print" {
			p.errorf(diagnostics.ErrP003, p.curToken.Span, "cannot redefine the print primitive")
			return nil
		}
		def.Named = true
		def.Name = ast.Name(p.curToken.Lexeme)
		def.NameLoc = p.curToken.Span
	}

	if !p.expect(token.LPAREN) {
		return nil
	}
	if !p.parseBindings(def) {
		return nil
	}

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		def.RetTy = p.parseType()
		if def.RetTy == nil {
			return nil
		}
	}

	if !p.expect(token.DO) {
		return nil
	}
	p.nextToken()
	def.Body = p.parseBlock(token.END)
	if p.err != nil {
		return nil
	}
	if !p.curTokenIs(token.END) {
		p.errorf(diagnostics.ErrP002, p.curToken.Span, "'end'", p.curToken.Lexeme)
		return nil
	}
	def.Loc = def.Loc.Merge(p.curToken.Span)
	return def
}

// parseBindings parses `name: Ty` pairs up to the closing bracket.
// Parameter types are mandatory.
func (p *Parser) parseBindings(def *ast.FnDef) bool {
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return true
	}

	for {
		if !p.expect(token.IDENT) {
			return false
		}
		if p.curToken.Lexeme == "print" {
			p.errorf(diagnostics.ErrP003, p.curToken.Span, "cannot redefine the print primitive")
			return false
		}
		bind := ast.Binding{
			Name:    ast.Name(p.curToken.Lexeme),
			NameLoc: p.curToken.Span,
			Loc:     p.curToken.Span,
		}
		if !p.expect(token.COLON) {
			return false
		}
		p.nextToken()
		bind.Ty = p.parseType()
		if bind.Ty == nil {
			return false
		}
		bind.Loc = bind.Loc.Merge(bind.Ty.Loc)
		def.Binds = append(def.Binds, bind)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		return p.expect(token.RPAREN)
	}
}

// parseLetBind parses `let name [: Ty] = expr`.
func (p *Parser) parseLetBind() ast.Node {
	let := &ast.LetBind{Loc: p.curToken.Span}

	if !p.expect(token.IDENT) {
		return nil
	}
	if p.curToken.Lexeme == "print" {
		p.errorf(diagnostics.ErrP003, p.curToken.Span, "cannot redefine the print primitive")
		return nil
	}
	let.Name = ast.Name(p.curToken.Lexeme)
	let.NameLoc = p.curToken.Span

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		let.Ty = p.parseType()
		if let.Ty == nil {
			return nil
		}
	}

	if !p.expect(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	p.skipNewlines()
	let.Value = p.parseExpression(LOWEST)
	if let.Value == nil {
		return nil
	}
	let.Loc = let.Loc.Merge(let.Value.Span())
	return let
}

// parseType parses a type annotation with the current token at its first
// token. Arrows are right associative.
func (p *Parser) parseType() *ast.TyNode {
	var left *ast.TyNode

	switch p.curToken.Type {
	case token.TY_BOOL:
		left = &ast.TyNode{Kind: ast.TyBool, Loc: p.curToken.Span}
	case token.TY_INT:
		left = &ast.TyNode{Kind: ast.TyInt, Loc: p.curToken.Span}
	case token.TY_UNIT:
		left = &ast.TyNode{Kind: ast.TyUnit, Loc: p.curToken.Span}
	case token.LPAREN:
		p.nextToken()
		inner := p.parseType()
		if inner == nil {
			return nil
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
		left = inner
	default:
		p.errorf(diagnostics.ErrP002, p.curToken.Span, "a type", p.curToken.Lexeme)
		return nil
	}

	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		right := p.parseType()
		if right == nil {
			return nil
		}
		return &ast.TyNode{
			Kind:  ast.TyArrow,
			Left:  left,
			Right: right,
			Loc:   left.Loc.Merge(right.Loc),
		}
	}
	return left
}
