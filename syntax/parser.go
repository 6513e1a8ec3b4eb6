package syntax

import (
	"fmt"
	"strconv"

	"kielo/logging"
)

// Parser is a recursive descent parser over the scanned token stream.  It
// uses a single token of look-ahead; binary expressions are parsed with
// precedence climbing over the levels table below.
type Parser struct {
	lctx *logging.LogContext

	tokens []*Token
	pos    int
}

// NewParser creates a parser for a scanned token stream.  The stream must be
// terminated by the EOF sentinel (ScanAll guarantees this).
func NewParser(tokens []*Token, lctx *logging.LogContext) *Parser {
	return &Parser{lctx: lctx, tokens: tokens}
}

// binaryPrecLevels orders the binary operators from the loosest binding level
// to the tightest.  All levels are left-associative; assignment is handled
// separately since it is right-associative and binds looser than all of them.
var binaryPrecLevels = [][]int{
	{OR},
	{AND},
	{EQ, NEQ},
	{LT, LTEQ, GT, GTEQ},
	{PLUS, MINUS},
	{STAR, DIVIDE, MOD},
}

// Parse parses the whole module: function definitions interleaved with
// top-level statements.  The top-level statements form an implicit block; an
// empty input produces a module with no functions and a nil top level.
func (p *Parser) Parse() (*Module, bool) {
	mod := &Module{}

	startTok := p.peek()
	stmts, result, ok := p.parseStmtSeq(EOF, &mod.Funcs)
	if !ok {
		return nil, false
	}

	if len(stmts) > 0 || result != nil {
		mod.TopLevel = &Block{
			ExprBase: NewExprBase(TextPositionOfSpan(TextPositionOfToken(startTok), TextPositionOfToken(p.peek()))),
			Stmts:    stmts,
			Result:   result,
		}
	}

	return mod, true
}

// -----------------------------------------------------------------------------

// parseStmtSeq parses a sequence of statements up to the given terminator
// token kind, returning the statements and the optional trailing result
// expression.  A statement is an expression or var declaration followed by a
// `;`; the `;` is optional after a statement that ends in `}`.  When funcs is
// non-nil, `fun` definitions are accepted and collected into it (the module
// level); inside blocks they are not.
func (p *Parser) parseStmtSeq(term int, funcs *[]*FuncDef) ([]Expr, Expr, bool) {
	var stmts []Expr
	var result Expr

	for p.peek().Kind != term {
		if p.peek().Kind == EOF {
			// premature end of input (only possible when term is `}`)
			p.rejectToken("`}`")
			return nil, nil, false
		}

		if funcs != nil && p.peek().Kind == FUN {
			fd, ok := p.parseFuncDef()
			if !ok {
				return nil, nil, false
			}

			*funcs = append(*funcs, fd)
			continue
		}

		var item Expr
		var ok bool
		if p.peek().Kind == VAR {
			item, ok = p.parseVarDecl()
		} else {
			item, ok = p.parseExpr()
		}

		if !ok {
			return nil, nil, false
		}

		switch p.peek().Kind {
		case SEMICOLON:
			p.next()
			stmts = append(stmts, item)
		case term:
			result = item
		default:
			// a block used as a statement does not need a trailing `;`
			if endsInBrace(item) {
				stmts = append(stmts, item)
				continue
			}

			p.rejectToken("`;`")
			return nil, nil, false
		}
	}

	return stmts, result, true
}

// endsInBrace indicates whether an expression's source text ends in a `}`
// (and may therefore stand as a statement without a trailing semicolon)
func endsInBrace(e Expr) bool {
	switch v := e.(type) {
	case *Block:
		return true
	case *IfExpr:
		if v.Else != nil {
			return endsInBrace(v.Else)
		}

		return endsInBrace(v.Then)
	case *WhileLoop:
		return endsInBrace(v.Body)
	default:
		return false
	}
}

// -----------------------------------------------------------------------------

// parseFuncDef parses `'fun' Ident '(' [Param {',' Param}] ')' ':' Type Block`
func (p *Parser) parseFuncDef() (*FuncDef, bool) {
	p.next() // consume `fun`

	nameTok, ok := p.expect(IDENTIFIER, "a function name")
	if !ok {
		return nil, false
	}

	if _, ok = p.expect(LPAREN, "`(`"); !ok {
		return nil, false
	}

	var params []*Param
	for p.peek().Kind != RPAREN {
		if len(params) > 0 {
			if _, ok = p.expect(COMMA, "`,`"); !ok {
				return nil, false
			}
		}

		param, ok := p.parseParam()
		if !ok {
			return nil, false
		}

		params = append(params, param)
	}
	p.next() // consume `)`

	if _, ok = p.expect(COLON, "`:`"); !ok {
		return nil, false
	}

	retTok, ok := p.expect(IDENTIFIER, "a return type")
	if !ok {
		return nil, false
	}

	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}

	return &FuncDef{
		Name:       nameTok.Value,
		NamePos:    TextPositionOfToken(nameTok),
		Params:     params,
		ReturnType: retTok.Value,
		ReturnPos:  TextPositionOfToken(retTok),
		Body:       body,
	}, true
}

// parseParam parses `Ident ':' Type`
func (p *Parser) parseParam() (*Param, bool) {
	nameTok, ok := p.expect(IDENTIFIER, "a parameter name")
	if !ok {
		return nil, false
	}

	if _, ok = p.expect(COLON, "`:`"); !ok {
		return nil, false
	}

	typeTok, ok := p.expect(IDENTIFIER, "a type name")
	if !ok {
		return nil, false
	}

	return &Param{
		Name:     nameTok.Value,
		NamePos:  TextPositionOfToken(nameTok),
		TypeName: typeTok.Value,
		TypePos:  TextPositionOfToken(typeTok),
	}, true
}

// parseVarDecl parses `'var' Ident [':' Type] '=' Expr`
func (p *Parser) parseVarDecl() (Expr, bool) {
	varTok := p.next() // consume `var`

	nameTok, ok := p.expect(IDENTIFIER, "a variable name")
	if !ok {
		return nil, false
	}

	typeName := ""
	var typePos *logging.TextPosition
	if p.peek().Kind == COLON {
		p.next()

		typeTok, ok := p.expect(IDENTIFIER, "a type name")
		if !ok {
			return nil, false
		}

		typeName = typeTok.Value
		typePos = TextPositionOfToken(typeTok)
	}

	if _, ok = p.expect(ASSIGN, "`=`"); !ok {
		return nil, false
	}

	init, ok := p.parseExpr()
	if !ok {
		return nil, false
	}

	return &VarDecl{
		ExprBase: NewExprBase(TextPositionOfSpan(TextPositionOfToken(varTok), init.Position())),
		Name:     nameTok.Value,
		NamePos:  TextPositionOfToken(nameTok),
		TypeName: typeName,
		TypePos:  typePos,
		Init:     init,
	}, true
}

// parseBlock parses `'{' { Stmt } [TrailingExpr] '}'`
func (p *Parser) parseBlock() (*Block, bool) {
	lbrace, ok := p.expect(LBRACE, "`{`")
	if !ok {
		return nil, false
	}

	stmts, result, ok := p.parseStmtSeq(RBRACE, nil)
	if !ok {
		return nil, false
	}

	rbrace := p.next() // consume `}`

	return &Block{
		ExprBase: NewExprBase(TextPositionOfSpan(TextPositionOfToken(lbrace), TextPositionOfToken(rbrace))),
		Stmts:    stmts,
		Result:   result,
	}, true
}

// -----------------------------------------------------------------------------

// parseExpr parses a full expression (assignment level and below)
func (p *Parser) parseExpr() (Expr, bool) {
	return p.parseAssignment()
}

// parseAssignment parses right-associative assignment: `a = b = c` parses as
// `a = (b = c)`.  The target of an assignment must be an identifier.
func (p *Parser) parseAssignment() (Expr, bool) {
	left, ok := p.parseBinaryExpr(0)
	if !ok {
		return nil, false
	}

	if p.peek().Kind != ASSIGN {
		return left, true
	}

	p.next() // consume `=`

	value, ok := p.parseAssignment()
	if !ok {
		return nil, false
	}

	target, isIdent := left.(*Identifier)
	if !isIdent {
		logging.LogCompileError(p.lctx, "left side of assignment must be an identifier", logging.LMKSyntax, left.Position())
		return nil, false
	}

	return &Assign{
		ExprBase: NewExprBase(TextPositionOfSpan(left.Position(), value.Position())),
		Target:   target,
		Value:    value,
	}, true
}

// parseBinaryExpr parses the binary operators at the given precedence level
// and tighter.  All levels in the table are left-associative.
func (p *Parser) parseBinaryExpr(level int) (Expr, bool) {
	if level == len(binaryPrecLevels) {
		return p.parseUnaryExpr()
	}

	left, ok := p.parseBinaryExpr(level + 1)
	if !ok {
		return nil, false
	}

	for kindIn(p.peek().Kind, binaryPrecLevels[level]) {
		opTok := p.next()

		right, ok := p.parseBinaryExpr(level + 1)
		if !ok {
			return nil, false
		}

		left = &BinaryOp{
			ExprBase: NewExprBase(TextPositionOfSpan(left.Position(), right.Position())),
			Op:       opTok.Value,
			Left:     left,
			Right:    right,
			OpPos:    TextPositionOfToken(opTok),
		}
	}

	return left, true
}

// parseUnaryExpr parses prefix `-` and `not`
func (p *Parser) parseUnaryExpr() (Expr, bool) {
	if p.peek().Kind == MINUS || p.peek().Kind == NOT {
		opTok := p.next()

		operand, ok := p.parseUnaryExpr()
		if !ok {
			return nil, false
		}

		return &UnaryOp{
			ExprBase: NewExprBase(TextPositionOfSpan(TextPositionOfToken(opTok), operand.Position())),
			Op:       opTok.Value,
			Operand:  operand,
		}, true
	}

	return p.parseAtom()
}

// parseAtom parses literals, identifiers, calls, parenthesized expressions,
// blocks, and the control-flow expressions
func (p *Parser) parseAtom() (Expr, bool) {
	tok := p.peek()

	switch tok.Kind {
	case INTLIT:
		p.next()

		value, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			logging.LogCompileError(p.lctx, "integer literal out of range", logging.LMKSyntax, TextPositionOfToken(tok))
			return nil, false
		}

		return &IntLit{ExprBase: NewExprBase(TextPositionOfToken(tok)), Value: value}, true
	case BOOLLIT:
		p.next()
		return &BoolLit{ExprBase: NewExprBase(TextPositionOfToken(tok)), Value: tok.Value == "true"}, true
	case IDENTIFIER:
		p.next()

		if p.peek().Kind == LPAREN {
			return p.parseCall(tok)
		}

		return &Identifier{ExprBase: NewExprBase(TextPositionOfToken(tok)), Name: tok.Value}, true
	case LPAREN:
		p.next()

		expr, ok := p.parseExpr()
		if !ok {
			return nil, false
		}

		if _, ok = p.expect(RPAREN, "`)`"); !ok {
			return nil, false
		}

		return expr, true
	case LBRACE:
		block, ok := p.parseBlock()
		if !ok {
			return nil, false
		}

		return block, true
	case IF:
		return p.parseIfExpr()
	case WHILE:
		return p.parseWhileLoop()
	case BREAK:
		p.next()

		var value Expr
		if canBeginExpr(p.peek().Kind) {
			var ok bool
			if value, ok = p.parseExpr(); !ok {
				return nil, false
			}
		}

		return &BreakStmt{ExprBase: NewExprBase(TextPositionOfToken(tok)), Value: value}, true
	case CONTINUE:
		p.next()
		return &ContinueStmt{ExprBase: NewExprBase(TextPositionOfToken(tok))}, true
	case RETURN:
		p.next()

		var value Expr
		if canBeginExpr(p.peek().Kind) {
			var ok bool
			if value, ok = p.parseExpr(); !ok {
				return nil, false
			}
		}

		return &ReturnStmt{ExprBase: NewExprBase(TextPositionOfToken(tok)), Value: value}, true
	default:
		p.rejectToken("an expression")
		return nil, false
	}
}

// parseCall parses a call's argument list; nameTok is the already-consumed
// callee name
func (p *Parser) parseCall(nameTok *Token) (Expr, bool) {
	p.next() // consume `(`

	var args []Expr
	for p.peek().Kind != RPAREN {
		if len(args) > 0 {
			if _, ok := p.expect(COMMA, "`,`"); !ok {
				return nil, false
			}
		}

		arg, ok := p.parseExpr()
		if !ok {
			return nil, false
		}

		args = append(args, arg)
	}

	rparen := p.next() // consume `)`

	return &Call{
		ExprBase: NewExprBase(TextPositionOfSpan(TextPositionOfToken(nameTok), TextPositionOfToken(rparen))),
		Name:     nameTok.Value,
		NamePos:  TextPositionOfToken(nameTok),
		Args:     args,
	}, true
}

// parseIfExpr parses `'if' Expr ('then' Expr | Block) ['else' Expr]`.  The
// `then` keyword is required exactly when the then-branch is not written as a
// block.
func (p *Parser) parseIfExpr() (Expr, bool) {
	ifTok := p.next() // consume `if`

	cond, ok := p.parseExpr()
	if !ok {
		return nil, false
	}

	var thenExpr Expr
	if p.peek().Kind == LBRACE {
		thenExpr, ok = p.parseBlock()
	} else {
		if _, ok = p.expect(THEN, "`then` or a block"); !ok {
			return nil, false
		}

		thenExpr, ok = p.parseExpr()
	}
	if !ok {
		return nil, false
	}

	var elseExpr Expr
	if p.peek().Kind == ELSE {
		p.next()

		if elseExpr, ok = p.parseExpr(); !ok {
			return nil, false
		}
	}

	end := thenExpr.Position()
	if elseExpr != nil {
		end = elseExpr.Position()
	}

	return &IfExpr{
		ExprBase: NewExprBase(TextPositionOfSpan(TextPositionOfToken(ifTok), end)),
		Cond:     cond,
		Then:     thenExpr,
		Else:     elseExpr,
	}, true
}

// parseWhileLoop parses `'while' Expr ('do' Expr | Block)`; like `then`, the
// `do` keyword is required exactly when the body is not written as a block
func (p *Parser) parseWhileLoop() (Expr, bool) {
	whileTok := p.next() // consume `while`

	cond, ok := p.parseExpr()
	if !ok {
		return nil, false
	}

	var body Expr
	if p.peek().Kind == LBRACE {
		body, ok = p.parseBlock()
	} else {
		if _, ok = p.expect(DO, "`do` or a block"); !ok {
			return nil, false
		}

		body, ok = p.parseExpr()
	}
	if !ok {
		return nil, false
	}

	return &WhileLoop{
		ExprBase: NewExprBase(TextPositionOfSpan(TextPositionOfToken(whileTok), body.Position())),
		Cond:     cond,
		Body:     body,
	}, true
}

// -----------------------------------------------------------------------------

// peek returns the current token without consuming it.  The EOF sentinel is
// never consumed, so peek is always valid.
func (p *Parser) peek() *Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}

	return p.tokens[p.pos]
}

// next consumes and returns the current token
func (p *Parser) next() *Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}

	return tok
}

// expect consumes a token of the given kind or reports a syntax error naming
// what was expected
func (p *Parser) expect(kind int, expected string) (*Token, bool) {
	if p.peek().Kind != kind {
		p.rejectToken(expected)
		return nil, false
	}

	return p.next(), true
}

// rejectToken reports an unexpected-token error against the current token
func (p *Parser) rejectToken(expected string) {
	tok := p.peek()

	found := fmt.Sprintf("`%s`", tok.Value)
	if tok.Kind == EOF {
		found = "end of file"
	}

	logging.LogCompileError(
		p.lctx,
		fmt.Sprintf("unexpected %s (expected %s)", found, expected),
		logging.LMKSyntax,
		TextPositionOfToken(tok),
	)
}

// canBeginExpr indicates whether a token of the given kind can begin an
// expression; it decides whether `break` and `return` carry a value
func canBeginExpr(kind int) bool {
	switch kind {
	case INTLIT, BOOLLIT, IDENTIFIER, LPAREN, LBRACE, IF, WHILE, BREAK, CONTINUE, RETURN, MINUS, NOT:
		return true
	default:
		return false
	}
}

// kindIn tests membership of a token kind in a precedence level
func kindIn(kind int, kinds []int) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}

	return false
}
