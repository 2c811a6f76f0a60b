package parser

import (
	"strconv"

	"github.com/hassan/pyfront/internal/lexer"
	"github.com/hassan/pyfront/internal/parser/ast"
)

// parseTest parses a full expression including the conditional form and
// lambdas.
//
// GRAMMAR:
//
//	test = or_test ["if" or_test "else" test] | lambda
//
// EXAMPLE:
//
//	a if cond else b
func (p *Parser) parseTest() ast.Expr {
	p.enter()
	start := p.current().Position

	var expr ast.Expr
	if p.check(lexer.TokenLambda) {
		expr = p.parseLambda()
	} else {
		expr = p.parseBinary(PrecOr)
		if p.match(lexer.TokenIf) {
			test := p.parseBinary(PrecOr)
			p.expect(lexer.TokenElse, "Expected 'else' in conditional expression")
			orelse := p.parseTest()
			expr = &ast.Conditional{BaseNode: p.node(start), Test: test, Body: expr, Orelse: orelse}
		}
	}

	p.leave()
	return expr
}

// parseNamedTest parses an expression that may be an assignment
// expression.
//
// GRAMMAR:
//
//	named_test = NAME ":=" test | test
func (p *Parser) parseNamedTest() ast.Expr {
	if !p.check(lexer.TokenIdentifier) || p.peekType(1) != lexer.TokenWalrus {
		return p.parseTest()
	}
	start := p.current().Position
	target := identFromToken(p.advance())
	p.advance()
	value := p.parseTest()
	return &ast.NamedExpr{BaseNode: p.node(start), Target: target, Value: value}
}

// parseBinary implements precedence climbing over the binary operators.
// Operands bind while their operator's precedence is at least minPrec.
//
// EXAMPLE:
//
//	1 + 2 * 3    → BinaryOp(+, 1, BinaryOp(*, 2, 3))
//	2 ** 3 ** 2  → BinaryOp(**, 2, BinaryOp(**, 3, 2))
//	a < b < c    → Compare(a, [<, <], [b, c])
func (p *Parser) parseBinary(minPrec Precedence) ast.Expr {
	start := p.current().Position
	left := p.parseUnary(minPrec)

	for {
		tt := p.current().Type
		prec := getPrecedence(tt)
		if prec < minPrec || prec == PrecNone || prec == PrecConditional || prec == PrecCall {
			return left
		}

		if prec == PrecComparison {
			if tt == lexer.TokenNot && p.peekType(1) != lexer.TokenIn {
				return left
			}
			left = p.parseComparison(start, left)
			continue
		}

		op := binaryOperators[p.advance().Type]
		var right ast.Expr
		if isRightAssociative(tt) {
			p.enter()
			right = p.parseBinary(PrecUnary)
			p.leave()
		} else {
			right = p.parseBinary(prec + 1)
		}
		left = &ast.BinaryOp{BaseNode: p.node(start), Left: left, Op: op, Right: right}
	}
}

// parseComparison collects a comparison chain into one Compare node.
//
// GRAMMAR:
//
//	comparison = expr (comp_op expr)*
//	comp_op    = "<" | ">" | "==" | ">=" | "<=" | "!=" | "in" | "not" "in"
//	           | "is" | "is" "not"
func (p *Parser) parseComparison(start lexer.Position, left ast.Expr) ast.Expr {
	cmp := &ast.Compare{Left: left}
	for {
		var op ast.CompareOperator
		switch tt := p.current().Type; {
		case tt == lexer.TokenNot && p.peekType(1) == lexer.TokenIn:
			p.advance()
			p.advance()
			op = ast.NotIn
		case tt == lexer.TokenIs && p.peekType(1) == lexer.TokenNot:
			p.advance()
			p.advance()
			op = ast.IsNot
		default:
			known, ok := compareOperators[tt]
			if !ok {
				cmp.BaseNode = p.node(start)
				return cmp
			}
			p.advance()
			op = known
		}
		cmp.Ops = append(cmp.Ops, op)
		cmp.Comparators = append(cmp.Comparators, p.parseBinary(PrecBitOr))
	}
}

// parseUnary parses prefix operators. "not" is only accepted where a
// boolean operand may appear, so "a == not b" is rejected.
func (p *Parser) parseUnary(minPrec Precedence) ast.Expr {
	start := p.current().Position

	var op ast.UnaryOperator
	switch p.current().Type {
	case lexer.TokenNot:
		if minPrec > PrecNot {
			return p.parsePostfix()
		}
		p.advance()
		p.enter()
		operand := p.parseBinary(PrecNot)
		p.leave()
		return &ast.UnaryOp{BaseNode: p.node(start), Op: ast.Not, Operand: operand}
	case lexer.TokenMinus:
		op = ast.Negate
	case lexer.TokenPlus:
		op = ast.UnaryPlus
	case lexer.TokenTilde:
		op = ast.Invert
	case lexer.TokenAwait:
		p.advance()
		value := p.parsePostfix()
		return &ast.Await{BaseNode: p.node(start), Value: value}
	default:
		return p.parsePostfix()
	}

	p.advance()
	p.enter()
	operand := p.parseBinary(PrecUnary)
	p.leave()
	return &ast.UnaryOp{BaseNode: p.node(start), Op: op, Operand: operand}
}

// parsePostfix parses a primary followed by any chain of calls,
// subscripts and attribute accesses. The chain is consumed in a loop, so
// a.b.c.d(...)[...] of any length costs no stack depth.
func (p *Parser) parsePostfix() ast.Expr {
	start := p.current().Position
	expr := p.parsePrimary()

	for {
		switch p.current().Type {
		case lexer.TokenLeftParen:
			expr = p.parseCall(start, expr)
		case lexer.TokenLeftBracket:
			p.advance()
			index := p.parseSubscriptIndex()
			p.expect(lexer.TokenRightBracket, "Expected ']' after subscript")
			expr = &ast.Subscript{BaseNode: p.node(start), Value: expr, Index: index}
		case lexer.TokenDot:
			p.advance()
			if !p.check(lexer.TokenIdentifier) {
				p.failUnexpected("attribute name after '.'")
			}
			attr := identFromToken(p.advance()).Name
			expr = &ast.Attribute{BaseNode: p.node(start), Value: expr, Attr: attr}
		default:
			return expr
		}
	}
}

// parseCall parses an argument list.
//
// GRAMMAR:
//
//	arglist  = argument ("," argument)* [","]
//	argument = test [comp_for] | NAME "=" test | "*" test | "**" test
func (p *Parser) parseCall(start lexer.Position, fn ast.Expr) ast.Expr {
	p.advance()
	call := &ast.Call{Func: fn}
	seenKeyword := false
	names := make(map[string]bool)

	for !p.check(lexer.TokenRightParen) {
		argStart := p.current().Position
		switch {
		case p.match(lexer.TokenStar):
			value := p.parseTest()
			call.Args = append(call.Args, &ast.Starred{BaseNode: p.node(argStart), Value: value})

		case p.match(lexer.TokenDoubleStar):
			seenKeyword = true
			value := p.parseTest()
			call.Keywords = append(call.Keywords, &ast.Keyword{BaseNode: p.node(argStart), Value: value})

		case p.check(lexer.TokenIdentifier) && p.peekType(1) == lexer.TokenAssign:
			name := identFromToken(p.advance()).Name
			p.advance()
			if names[name] {
				p.failAt(argStart, "Duplicate keyword argument '%s'", name)
			}
			names[name] = true
			seenKeyword = true
			value := p.parseTest()
			call.Keywords = append(call.Keywords, &ast.Keyword{BaseNode: p.node(argStart), Name: name, Value: value})

		default:
			if seenKeyword {
				p.fail("Positional argument follows keyword argument")
			}
			arg := p.parseNamedTest()
			if p.atCompFor() {
				if len(call.Args) > 0 || len(call.Keywords) > 0 {
					p.failAt(argStart, "Generator expression must be parenthesized")
				}
				gens := p.parseGenerators()
				arg = &ast.GeneratorExp{BaseNode: p.node(argStart), Elt: arg, Generators: gens}
				if !p.check(lexer.TokenRightParen) {
					p.failAt(argStart, "Generator expression must be parenthesized")
				}
			}
			call.Args = append(call.Args, arg)
		}

		if !p.match(lexer.TokenComma) {
			break
		}
	}

	p.expect(lexer.TokenRightParen, "Expected ')' after arguments")
	call.BaseNode = p.node(start)
	return call
}

// parseSubscriptIndex parses the inside of "[...]"; several items form a
// tuple index.
func (p *Parser) parseSubscriptIndex() ast.Expr {
	start := p.current().Position
	first := p.parseSliceItem()
	if !p.check(lexer.TokenComma) {
		return first
	}
	elts := []ast.Expr{first}
	for p.match(lexer.TokenComma) {
		if p.check(lexer.TokenRightBracket) {
			break
		}
		elts = append(elts, p.parseSliceItem())
	}
	return &ast.Tuple{BaseNode: p.node(start), Elts: elts}
}

// parseSliceItem parses "test" or "[lower]:[upper][:[step]]".
func (p *Parser) parseSliceItem() ast.Expr {
	start := p.current().Position
	var lower ast.Expr
	if !p.check(lexer.TokenColon) {
		lower = p.parseNamedTest()
		if !p.check(lexer.TokenColon) {
			return lower
		}
	}
	p.advance()

	slice := &ast.Slice{Lower: lower}
	if !p.atSliceEnd() {
		slice.Upper = p.parseTest()
	}
	if p.match(lexer.TokenColon) && !p.atSliceEnd() {
		slice.Step = p.parseTest()
	}
	slice.BaseNode = p.node(start)
	return slice
}

func (p *Parser) atSliceEnd() bool {
	switch p.current().Type {
	case lexer.TokenColon, lexer.TokenComma, lexer.TokenRightBracket:
		return true
	}
	return false
}

// parsePrimary parses atoms: literals, names and bracketed forms.
func (p *Parser) parsePrimary() ast.Expr {
	tok := p.current()
	start := tok.Position

	switch tok.Type {
	case lexer.TokenInt:
		p.advance()
		value, ok := tok.Value.(int64)
		if !ok {
			value, _ = strconv.ParseInt(tok.Lexeme, 0, 64)
		}
		return &ast.Literal{BaseNode: p.node(start), Kind: ast.LitInt, Value: value}

	case lexer.TokenFloat:
		p.advance()
		value, ok := tok.Value.(float64)
		if !ok {
			value, _ = strconv.ParseFloat(tok.Lexeme, 64)
		}
		return &ast.Literal{BaseNode: p.node(start), Kind: ast.LitFloat, Value: value}

	case lexer.TokenString:
		return p.parseStrings()

	case lexer.TokenTrue:
		p.advance()
		return &ast.Literal{BaseNode: p.node(start), Kind: ast.LitTrue, Value: true}
	case lexer.TokenFalse:
		p.advance()
		return &ast.Literal{BaseNode: p.node(start), Kind: ast.LitFalse, Value: false}
	case lexer.TokenNone:
		p.advance()
		return &ast.Literal{BaseNode: p.node(start), Kind: ast.LitNone}
	case lexer.TokenEllipsis:
		p.advance()
		return &ast.Literal{BaseNode: p.node(start), Kind: ast.LitEllipsis}

	case lexer.TokenIdentifier:
		return identFromToken(p.advance())

	case lexer.TokenLeftParen:
		return p.parseParenthesized()
	case lexer.TokenLeftBracket:
		return p.parseListDisplay()
	case lexer.TokenLeftBrace:
		return p.parseBraceDisplay()
	}

	p.failUnexpected("expression")
	return nil
}

// parseStrings joins adjacent string literals: "a" 'b' is "ab".
func (p *Parser) parseStrings() ast.Expr {
	first := p.advance()
	lit := &ast.Literal{Kind: ast.LitString, Prefix: first.Prefix}
	if first.Prefix.Has(lexer.PrefixBytes) {
		lit.Kind = ast.LitBytes
	}
	value := stringValue(first)

	for p.check(lexer.TokenString) {
		tok := p.advance()
		if tok.Prefix.Has(lexer.PrefixBytes) != first.Prefix.Has(lexer.PrefixBytes) {
			p.failAt(tok.Position, "Cannot mix bytes and nonbytes literals")
		}
		lit.Prefix |= tok.Prefix & lexer.PrefixFormat
		value += stringValue(tok)
	}

	lit.Value = value
	lit.BaseNode = p.node(first.Position)
	return lit
}

func stringValue(tok lexer.Token) string {
	if s, ok := tok.Value.(string); ok {
		return s
	}
	return tok.Lexeme
}

// parseParenthesized parses "()", "(e)", "(e,)", "(e, f)", a generator
// expression or a parenthesized yield.
func (p *Parser) parseParenthesized() ast.Expr {
	start := p.advance().Position

	if p.match(lexer.TokenRightParen) {
		return &ast.Tuple{BaseNode: p.node(start)}
	}
	if p.check(lexer.TokenYield) {
		inner := p.parseYield()
		p.expect(lexer.TokenRightParen, "Expected ')' after yield expression")
		return &ast.Parenthesized{BaseNode: p.node(start), Inner: inner}
	}

	p.enter()
	first := p.parseStarOrNamed()

	if p.atCompFor() {
		gens := p.parseGenerators()
		p.expect(lexer.TokenRightParen, "Expected ')' after generator expression")
		p.leave()
		return &ast.GeneratorExp{BaseNode: p.node(start), Elt: first, Generators: gens}
	}

	if p.check(lexer.TokenComma) {
		elts := []ast.Expr{first}
		for p.match(lexer.TokenComma) {
			if p.check(lexer.TokenRightParen) {
				break
			}
			elts = append(elts, p.parseStarOrNamed())
		}
		p.expect(lexer.TokenRightParen, "Expected ')' after tuple")
		p.leave()
		return &ast.Tuple{BaseNode: p.node(start), Elts: elts}
	}

	p.expect(lexer.TokenRightParen, "Expected ')' after expression")
	p.leave()
	if s, ok := first.(*ast.Starred); ok {
		p.failAt(s.Pos(), "Cannot use starred expression here")
	}
	return &ast.Parenthesized{BaseNode: p.node(start), Inner: first}
}

// parseListDisplay parses "[...]" and list comprehensions.
func (p *Parser) parseListDisplay() ast.Expr {
	start := p.advance().Position
	if p.match(lexer.TokenRightBracket) {
		return &ast.List{BaseNode: p.node(start)}
	}

	p.enter()
	first := p.parseStarOrNamed()
	if p.atCompFor() {
		gens := p.parseGenerators()
		p.expect(lexer.TokenRightBracket, "Expected ']' after list comprehension")
		p.leave()
		return &ast.ListComp{BaseNode: p.node(start), Elt: first, Generators: gens}
	}

	elts := p.parseElements(first, lexer.TokenRightBracket)
	p.expect(lexer.TokenRightBracket, "Expected ']' after list elements")
	p.leave()
	return &ast.List{BaseNode: p.node(start), Elts: elts}
}

// parseBraceDisplay parses dicts, sets and their comprehensions.
//
// GRAMMAR:
//
//	dict = "{" [(test ":" test | "**" expr) ("," ...)* [","]] "}"
//	set  = "{" star_named ("," star_named)* [","] "}"
func (p *Parser) parseBraceDisplay() ast.Expr {
	start := p.advance().Position
	if p.match(lexer.TokenRightBrace) {
		return &ast.Dict{BaseNode: p.node(start)}
	}

	p.enter()
	defer p.leave()

	if p.check(lexer.TokenDoubleStar) {
		return p.parseDictEntries(start, nil, nil)
	}

	first := p.parseStarOrNamed()
	if p.match(lexer.TokenColon) {
		if s, ok := first.(*ast.Starred); ok {
			p.failAt(s.Pos(), "Cannot use a starred expression as a dictionary key")
		}
		value := p.parseTest()
		if p.atCompFor() {
			gens := p.parseGenerators()
			p.expect(lexer.TokenRightBrace, "Expected '}' after dict comprehension")
			return &ast.DictComp{BaseNode: p.node(start), Key: first, Value: value, Generators: gens}
		}
		return p.parseDictEntries(start, []ast.Expr{first}, []ast.Expr{value})
	}

	if p.atCompFor() {
		gens := p.parseGenerators()
		p.expect(lexer.TokenRightBrace, "Expected '}' after set comprehension")
		return &ast.SetComp{BaseNode: p.node(start), Elt: first, Generators: gens}
	}

	elts := p.parseElements(first, lexer.TokenRightBrace)
	p.expect(lexer.TokenRightBrace, "Expected '}' after set elements")
	return &ast.Set{BaseNode: p.node(start), Elts: elts}
}

// parseDictEntries continues a dict display after its first entry. When
// keys is empty the first entry has not been read yet. A nil key marks a
// "**mapping" entry.
func (p *Parser) parseDictEntries(start lexer.Position, keys, values []ast.Expr) ast.Expr {
	if len(keys) == 0 {
		key, value := p.parseDictEntry()
		keys, values = append(keys, key), append(values, value)
	}
	for p.match(lexer.TokenComma) {
		if p.check(lexer.TokenRightBrace) {
			break
		}
		key, value := p.parseDictEntry()
		keys, values = append(keys, key), append(values, value)
	}
	p.expect(lexer.TokenRightBrace, "Expected '}' after dictionary entries")
	return &ast.Dict{BaseNode: p.node(start), Keys: keys, Values: values}
}

func (p *Parser) parseDictEntry() (ast.Expr, ast.Expr) {
	if p.match(lexer.TokenDoubleStar) {
		return nil, p.parseBinary(PrecBitOr)
	}
	key := p.parseTest()
	p.expect(lexer.TokenColon, "Expected ':' after dictionary key")
	return key, p.parseTest()
}

// parseElements continues a comma separated display after its first
// element, stopping before closing.
func (p *Parser) parseElements(first ast.Expr, closing lexer.TokenType) []ast.Expr {
	elts := []ast.Expr{first}
	for p.match(lexer.TokenComma) {
		if p.check(closing) {
			break
		}
		elts = append(elts, p.parseStarOrNamed())
	}
	return elts
}

// atCompFor reports whether a comprehension clause starts here.
func (p *Parser) atCompFor() bool {
	return p.check(lexer.TokenFor) || (p.check(lexer.TokenAsync) && p.peekType(1) == lexer.TokenFor)
}

// parseGenerators parses one or more comprehension clauses.
//
// GRAMMAR:
//
//	comp_for = ["async"] "for" targets "in" or_test ("if" or_test)*
func (p *Parser) parseGenerators() []*ast.Comprehension {
	var gens []*ast.Comprehension
	for p.atCompFor() {
		start := p.current().Position
		comp := &ast.Comprehension{IsAsync: p.match(lexer.TokenAsync)}
		p.advance()

		comp.Target = p.parseTargetList()
		p.checkTarget(comp.Target, "comprehension")
		p.expect(lexer.TokenIn, "Expected 'in' after comprehension target")
		comp.Iter = p.parseBinary(PrecOr)
		for p.match(lexer.TokenIf) {
			comp.Ifs = append(comp.Ifs, p.parseBinary(PrecOr))
		}
		comp.BaseNode = p.node(start)
		gens = append(gens, comp)
	}
	return gens
}

// parseLambda parses "lambda params: body". Lambda parameters take no
// annotations.
func (p *Parser) parseLambda() ast.Expr {
	start := p.advance().Position
	params := p.parseParams(lexer.TokenColon, false)
	p.expect(lexer.TokenColon, "Expected ':' after lambda parameters")
	body := p.parseTest()
	return &ast.Lambda{BaseNode: p.node(start), Params: params, Body: body}
}

// parseYield parses "yield", "yield value" and "yield from value".
func (p *Parser) parseYield() ast.Expr {
	start := p.advance().Position
	if p.match(lexer.TokenFrom) {
		value := p.parseTest()
		return &ast.Yield{BaseNode: p.node(start), Value: value, From: true}
	}
	var value ast.Expr
	if p.startsExpression() {
		value = p.parseTestListStarExpr()
	}
	return &ast.Yield{BaseNode: p.node(start), Value: value}
}

// parseStarOrNamed parses a display element: "*expr" or a named test.
func (p *Parser) parseStarOrNamed() ast.Expr {
	if p.check(lexer.TokenStar) {
		return p.parseStarred()
	}
	return p.parseNamedTest()
}

// parseBitOrStar parses a target element, where comparisons are not
// allowed so that "for x in y" stops before "in".
func (p *Parser) parseBitOrStar() ast.Expr {
	if p.check(lexer.TokenStar) {
		return p.parseStarred()
	}
	return p.parseBinary(PrecBitOr)
}

func (p *Parser) parseStarred() ast.Expr {
	start := p.advance().Position
	value := p.parseBinary(PrecBitOr)
	return &ast.Starred{BaseNode: p.node(start), Value: value}
}

// parseTestListStarExpr parses the right-hand side of an assignment or an
// expression statement. A bare comma list becomes a Tuple; a trailing
// comma is allowed.
//
// EXAMPLE:
//
//	a, *b, c
//	1,
func (p *Parser) parseTestListStarExpr() ast.Expr {
	start := p.current().Position
	first := p.parseStarOrTest()
	if !p.check(lexer.TokenComma) {
		return first
	}
	elts := []ast.Expr{first}
	for p.match(lexer.TokenComma) {
		if !p.startsExpression() {
			break
		}
		elts = append(elts, p.parseStarOrTest())
	}
	return &ast.Tuple{BaseNode: p.node(start), Elts: elts}
}

func (p *Parser) parseStarOrTest() ast.Expr {
	if p.check(lexer.TokenStar) {
		return p.parseStarred()
	}
	return p.parseTest()
}

// parseTargetList parses the target of a for loop or comprehension.
func (p *Parser) parseTargetList() ast.Expr {
	start := p.current().Position
	first := p.parseBitOrStar()
	if !p.check(lexer.TokenComma) {
		return first
	}
	elts := []ast.Expr{first}
	for p.match(lexer.TokenComma) {
		if p.check(lexer.TokenIn) {
			break
		}
		elts = append(elts, p.parseBitOrStar())
	}
	return &ast.Tuple{BaseNode: p.node(start), Elts: elts}
}

// startsExpression reports whether the current token can begin an
// expression.
func (p *Parser) startsExpression() bool {
	switch p.current().Type {
	case lexer.TokenInt, lexer.TokenFloat, lexer.TokenString, lexer.TokenIdentifier,
		lexer.TokenTrue, lexer.TokenFalse, lexer.TokenNone, lexer.TokenEllipsis,
		lexer.TokenLeftParen, lexer.TokenLeftBracket, lexer.TokenLeftBrace,
		lexer.TokenMinus, lexer.TokenPlus, lexer.TokenTilde, lexer.TokenNot,
		lexer.TokenLambda, lexer.TokenAwait, lexer.TokenStar:
		return true
	}
	return false
}
