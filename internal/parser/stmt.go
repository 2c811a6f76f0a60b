package parser

import (
	"strings"

	"github.com/hassan/pyfront/internal/lexer"
	"github.com/hassan/pyfront/internal/parser/ast"
)

// parseStatementInner dispatches on the first token of a statement.
//
// GRAMMAR:
//
//	statement = compound_stmt | simple_stmts
//	compound_stmt = if | while | for | try | with | funcdef | classdef
//	              | decorated | async_stmt
//	simple_stmts = simple_stmt (";" simple_stmt)* [";"] NEWLINE
func (p *Parser) parseStatementInner() []ast.Stmt {
	switch p.current().Type {
	case lexer.TokenIf:
		return []ast.Stmt{p.parseIf()}
	case lexer.TokenWhile:
		return []ast.Stmt{p.parseWhile()}
	case lexer.TokenFor:
		return []ast.Stmt{p.parseFor(p.current().Position, false)}
	case lexer.TokenTry:
		return []ast.Stmt{p.parseTry()}
	case lexer.TokenWith:
		return []ast.Stmt{p.parseWith(p.current().Position, false)}
	case lexer.TokenDef:
		return []ast.Stmt{p.parseFunctionDef(p.current().Position, nil, false)}
	case lexer.TokenClass:
		return []ast.Stmt{p.parseClassDef(p.current().Position, nil)}
	case lexer.TokenAt:
		return []ast.Stmt{p.parseDecorated()}
	case lexer.TokenAsync:
		return []ast.Stmt{p.parseAsync(p.current().Position, nil)}
	case lexer.TokenIndent:
		p.fail("Unexpected indent")
	case lexer.TokenElif, lexer.TokenElse, lexer.TokenExcept, lexer.TokenFinally:
		p.fail("Unexpected '%s' without a matching block", p.current().Lexeme)
	}

	if p.opts.SuggestKeywords {
		if suggestion, ok := p.suggestKeyword(); ok {
			p.fail("Unknown keyword '%s'. Did you mean '%s'?", p.current().Lexeme, suggestion)
		}
	}
	return p.parseSimpleStatements()
}

func (p *Parser) parseSimpleStatements() []ast.Stmt {
	stmts := []ast.Stmt{p.parseSimpleStatement()}
	for p.match(lexer.TokenSemicolon) {
		if p.check(lexer.TokenNewline) || p.check(lexer.TokenEOF) {
			break
		}
		stmts = append(stmts, p.parseSimpleStatement())
	}
	p.expectEndOfStatement()
	return stmts
}

func (p *Parser) expectEndOfStatement() {
	if p.match(lexer.TokenNewline) || p.check(lexer.TokenEOF) {
		return
	}
	p.fail("Expected end of statement but found %s", p.current().Describe())
}

func (p *Parser) parseSimpleStatement() ast.Stmt {
	start := p.current().Position

	switch p.current().Type {
	case lexer.TokenPass:
		p.advance()
		return &ast.Pass{BaseNode: p.node(start)}
	case lexer.TokenBreak:
		p.advance()
		return &ast.Break{BaseNode: p.node(start)}
	case lexer.TokenContinue:
		p.advance()
		return &ast.Continue{BaseNode: p.node(start)}
	case lexer.TokenReturn:
		return p.parseReturn()
	case lexer.TokenRaise:
		return p.parseRaise()
	case lexer.TokenGlobal:
		p.advance()
		return &ast.Global{Names: p.parseNameList("global"), BaseNode: p.node(start)}
	case lexer.TokenNonlocal:
		p.advance()
		return &ast.Nonlocal{Names: p.parseNameList("nonlocal"), BaseNode: p.node(start)}
	case lexer.TokenDel:
		return p.parseDel()
	case lexer.TokenAssert:
		return p.parseAssert()
	case lexer.TokenImport:
		return p.parseImport()
	case lexer.TokenFrom:
		return p.parseFromImport()
	}
	return p.parseExprOrAssign()
}

// parseExprOrAssign parses expression statements and the three forms of
// assignment.
//
// GRAMMAR:
//
//	assign     = (targets "=")+ (testlist | yield_expr)
//	ann_assign = target ":" test ["=" (testlist | yield_expr)]
//	aug_assign = target augop (testlist | yield_expr)
func (p *Parser) parseExprOrAssign() ast.Stmt {
	start := p.current().Position
	first := p.parseAssignValue()

	switch {
	case p.check(lexer.TokenAssign):
		targets := []ast.Expr{first}
		var value ast.Expr
		for p.match(lexer.TokenAssign) {
			value = p.parseAssignValue()
			if p.check(lexer.TokenAssign) {
				targets = append(targets, value)
			}
		}
		for _, target := range targets {
			p.checkTarget(target, "assignment")
		}
		return &ast.Assign{BaseNode: p.node(start), Targets: targets, Value: value}

	case p.check(lexer.TokenColon):
		if !isSingleTarget(first) {
			p.failAt(first.Pos(), "Only a single target can be annotated")
		}
		p.advance()
		annotation := p.parseTest()
		var value ast.Expr
		if p.match(lexer.TokenAssign) {
			value = p.parseAssignValue()
		}
		return &ast.AnnAssign{BaseNode: p.node(start), Target: first, Annotation: annotation, Value: value}

	case p.current().Type.IsAugmentedAssign():
		if !isSingleTarget(first) {
			p.failAt(first.Pos(), "Invalid target for augmented assignment")
		}
		op := augmentedOperators[p.advance().Type]
		value := p.parseAssignValue()
		return &ast.AugAssign{BaseNode: p.node(start), Target: first, Op: op, Value: value}
	}

	if s, ok := first.(*ast.Starred); ok {
		p.failAt(s.Pos(), "Cannot use starred expression here")
	}
	return &ast.ExprStmt{BaseNode: p.node(start), Value: first}
}

func (p *Parser) parseAssignValue() ast.Expr {
	if p.check(lexer.TokenYield) {
		return p.parseYield()
	}
	return p.parseTestListStarExpr()
}

// isSingleTarget reports whether e may be the target of an annotated or
// augmented assignment.
func isSingleTarget(e ast.Expr) bool {
	for {
		switch n := e.(type) {
		case *ast.Identifier, *ast.Attribute, *ast.Subscript:
			return true
		case *ast.Parenthesized:
			e = n.Inner
		default:
			return false
		}
	}
}

// checkTarget validates an assignment, for, with or del target. Nested
// tuples and lists are walked with an explicit stack so arbitrarily deep
// destructuring cannot exhaust the call stack.
func (p *Parser) checkTarget(target ast.Expr, context string) {
	type item struct {
		expr      ast.Expr
		inDisplay bool
	}
	stack := []item{{target, false}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var elts []ast.Expr
		switch n := it.expr.(type) {
		case *ast.Identifier, *ast.Attribute, *ast.Subscript:
			continue
		case *ast.Parenthesized:
			stack = append(stack, item{n.Inner, it.inDisplay})
			continue
		case *ast.Starred:
			if context == "del" {
				p.failAt(n.Pos(), "Cannot delete starred expression")
			}
			if !it.inDisplay {
				p.failAt(n.Pos(), "Starred assignment target must be in a list or tuple")
			}
			stack = append(stack, item{n.Value, false})
			continue
		case *ast.Tuple:
			elts = n.Elts
		case *ast.List:
			elts = n.Elts
		default:
			p.failAt(it.expr.Pos(), "Invalid %s target", context)
		}

		starred := 0
		for _, e := range elts {
			if s, ok := e.(*ast.Starred); ok {
				starred++
				if starred > 1 && context != "del" {
					p.failAt(s.Pos(), "Multiple starred expressions in %s", context)
				}
			}
			stack = append(stack, item{e, true})
		}
	}
}

func (p *Parser) parseReturn() ast.Stmt {
	start := p.advance().Position
	var value ast.Expr
	if !p.atStatementEnd() {
		value = p.parseTestListStarExpr()
	}
	return &ast.Return{BaseNode: p.node(start), Value: value}
}

// parseRaise parses "raise [exc [from cause]]".
func (p *Parser) parseRaise() ast.Stmt {
	start := p.advance().Position
	stmt := &ast.Raise{}
	if !p.atStatementEnd() {
		stmt.Exc = p.parseTest()
		if p.match(lexer.TokenFrom) {
			stmt.Cause = p.parseTest()
		}
	}
	stmt.BaseNode = p.node(start)
	return stmt
}

func (p *Parser) parseNameList(keyword string) []*ast.Identifier {
	var names []*ast.Identifier
	for {
		tok := p.expect(lexer.TokenIdentifier, "Expected name after '"+keyword+"'")
		names = append(names, identFromToken(tok))
		if !p.match(lexer.TokenComma) {
			return names
		}
	}
}

func (p *Parser) parseDel() ast.Stmt {
	start := p.advance().Position
	var targets []ast.Expr
	for {
		target := p.parseBitOrStar()
		p.checkTarget(target, "del")
		targets = append(targets, target)
		if !p.match(lexer.TokenComma) || p.atStatementEnd() {
			break
		}
	}
	return &ast.Del{BaseNode: p.node(start), Targets: targets}
}

func (p *Parser) parseAssert() ast.Stmt {
	start := p.advance().Position
	stmt := &ast.Assert{Test: p.parseTest()}
	if p.match(lexer.TokenComma) {
		stmt.Msg = p.parseTest()
	}
	stmt.BaseNode = p.node(start)
	return stmt
}

// parseImport parses "import a.b as c, d".
func (p *Parser) parseImport() ast.Stmt {
	start := p.advance().Position
	var names []*ast.Alias
	for {
		aliasStart := p.current().Position
		alias := &ast.Alias{Name: p.parseDottedName("import")}
		if p.match(lexer.TokenAs) {
			alias.AsName = nameOf(p.expect(lexer.TokenIdentifier, "Expected name after 'as'"))
		}
		alias.BaseNode = p.node(aliasStart)
		names = append(names, alias)
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	return &ast.Import{BaseNode: p.node(start), Names: names}
}

// parseFromImport parses relative and absolute from-imports.
//
// GRAMMAR:
//
//	from_import = "from" ("."* dotted_name | "."+) "import"
//	              ("*" | "(" aliases [","] ")" | aliases)
func (p *Parser) parseFromImport() ast.Stmt {
	start := p.advance().Position
	stmt := &ast.FromImport{}

	for {
		if p.match(lexer.TokenDot) {
			stmt.Level++
		} else if p.match(lexer.TokenEllipsis) {
			stmt.Level += 3
		} else {
			break
		}
	}
	if p.check(lexer.TokenIdentifier) {
		stmt.Module = p.parseDottedName("from")
	} else if stmt.Level == 0 {
		p.failUnexpected("module name after 'from'")
	}

	p.expect(lexer.TokenImport, "Expected 'import' after module name")

	if p.match(lexer.TokenStar) {
		stmt.Star = true
		stmt.BaseNode = p.node(start)
		return stmt
	}

	parenthesized := p.match(lexer.TokenLeftParen)
	for {
		aliasStart := p.current().Position
		alias := &ast.Alias{Name: nameOf(p.expect(lexer.TokenIdentifier, "Expected name to import"))}
		if p.match(lexer.TokenAs) {
			alias.AsName = nameOf(p.expect(lexer.TokenIdentifier, "Expected name after 'as'"))
		}
		alias.BaseNode = p.node(aliasStart)
		stmt.Names = append(stmt.Names, alias)
		if !p.match(lexer.TokenComma) {
			break
		}
		if parenthesized && p.check(lexer.TokenRightParen) {
			break
		}
	}
	if parenthesized {
		p.expect(lexer.TokenRightParen, "Expected ')' after imported names")
	}
	stmt.BaseNode = p.node(start)
	return stmt
}

func (p *Parser) parseDottedName(context string) string {
	var parts []string
	for {
		tok := p.expect(lexer.TokenIdentifier, "Expected module name after '"+context+"'")
		parts = append(parts, nameOf(tok))
		if !p.match(lexer.TokenDot) {
			return strings.Join(parts, ".")
		}
	}
}

// atStatementEnd reports whether the current token ends a simple statement.
func (p *Parser) atStatementEnd() bool {
	switch p.current().Type {
	case lexer.TokenNewline, lexer.TokenSemicolon, lexer.TokenEOF, lexer.TokenDedent:
		return true
	}
	return false
}

// Compound statements

// parseSuite parses the ":" and body of a compound statement: either an
// indented block or simple statements on the same line.
//
// GRAMMAR:
//
//	suite = ":" (simple_stmts | NEWLINE INDENT statement+ DEDENT)
func (p *Parser) parseSuite(context string, headerLine int) []ast.Stmt {
	p.expect(lexer.TokenColon, "Expected ':' after "+context)

	if !p.match(lexer.TokenNewline) {
		return p.parseSimpleStatements()
	}
	if !p.check(lexer.TokenIndent) {
		p.fail("Expected an indented block after %s on line %d", context, headerLine)
	}
	p.advance()

	p.enter()
	var body []ast.Stmt
	for !p.check(lexer.TokenDedent) && !p.check(lexer.TokenEOF) {
		body = append(body, p.parseStatement()...)
	}
	p.match(lexer.TokenDedent)
	p.leave()
	return body
}

// parseIf parses an if statement; elif clauses become nested If nodes in
// Orelse.
func (p *Parser) parseIf() ast.Stmt {
	tok := p.advance()
	context := "if"
	if tok.Type == lexer.TokenElif {
		context = "elif"
	}
	stmt := &ast.If{Test: p.parseNamedTest()}
	stmt.Body = p.parseSuite(context, tok.Position.Line)

	switch {
	case p.check(lexer.TokenElif):
		stmt.Orelse = []ast.Stmt{p.parseIf()}
	case p.check(lexer.TokenElse):
		elseTok := p.advance()
		stmt.Orelse = p.parseSuite("else", elseTok.Position.Line)
	}
	stmt.BaseNode = p.node(tok.Position)
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	tok := p.advance()
	stmt := &ast.While{Test: p.parseNamedTest()}
	stmt.Body = p.parseSuite("while", tok.Position.Line)
	if p.check(lexer.TokenElse) {
		elseTok := p.advance()
		stmt.Orelse = p.parseSuite("else", elseTok.Position.Line)
	}
	stmt.BaseNode = p.node(tok.Position)
	return stmt
}

// parseFor parses "for target in iter: body [else: orelse]"; start is the
// position of "async" when present.
func (p *Parser) parseFor(start lexer.Position, isAsync bool) ast.Stmt {
	tok := p.expect(lexer.TokenFor, "Expected 'for'")
	stmt := &ast.For{IsAsync: isAsync}
	stmt.Target = p.parseTargetList()
	p.checkTarget(stmt.Target, "for")
	p.expect(lexer.TokenIn, "Expected 'in' after for loop target")
	stmt.Iter = p.parseTestListStarExpr()
	stmt.Body = p.parseSuite("for", tok.Position.Line)
	if p.check(lexer.TokenElse) {
		elseTok := p.advance()
		stmt.Orelse = p.parseSuite("else", elseTok.Position.Line)
	}
	stmt.BaseNode = p.node(start)
	return stmt
}

// parseTry parses try/except/else/finally.
//
// GRAMMAR:
//
//	try = "try" suite (handler+ ["else" suite] ["finally" suite] | "finally" suite)
//	handler = "except" [test ["as" NAME]] suite
func (p *Parser) parseTry() ast.Stmt {
	tok := p.advance()
	stmt := &ast.Try{Body: p.parseSuite("try", tok.Position.Line)}

	for p.check(lexer.TokenExcept) {
		exceptTok := p.advance()
		if n := len(stmt.Handlers); n > 0 && stmt.Handlers[n-1].Type == nil {
			p.failAt(exceptTok.Position, "Default 'except:' must be last")
		}
		handler := &ast.ExceptHandler{}
		if !p.check(lexer.TokenColon) {
			handler.Type = p.parseTest()
			if p.match(lexer.TokenAs) {
				nameTok := p.expect(lexer.TokenIdentifier, "Expected name after 'as'")
				handler.Name = nameOf(nameTok)
				handler.NamePos = nameTok.Position
			} else if p.check(lexer.TokenComma) {
				p.fail("Multiple exception types must be parenthesized")
			}
		}
		handler.Body = p.parseSuite("except", exceptTok.Position.Line)
		handler.BaseNode = p.node(exceptTok.Position)
		stmt.Handlers = append(stmt.Handlers, handler)
	}

	if len(stmt.Handlers) > 0 && p.check(lexer.TokenElse) {
		elseTok := p.advance()
		stmt.Orelse = p.parseSuite("else", elseTok.Position.Line)
	}
	hasFinally := p.check(lexer.TokenFinally)
	if hasFinally {
		finallyTok := p.advance()
		stmt.Finalbody = p.parseSuite("finally", finallyTok.Position.Line)
	}
	if len(stmt.Handlers) == 0 && !hasFinally {
		p.fail("Expected 'except' or 'finally' block")
	}
	stmt.BaseNode = p.node(tok.Position)
	return stmt
}

// parseWith parses "with item, item: body".
func (p *Parser) parseWith(start lexer.Position, isAsync bool) ast.Stmt {
	tok := p.expect(lexer.TokenWith, "Expected 'with'")
	stmt := &ast.With{IsAsync: isAsync}

	parenthesized := p.check(lexer.TokenLeftParen) && p.withItemsParenthesized()
	if parenthesized {
		p.advance()
	}
	for {
		itemStart := p.current().Position
		item := &ast.WithItem{Context: p.parseTest()}
		if p.match(lexer.TokenAs) {
			item.Target = p.parseBitOrStar()
			p.checkTarget(item.Target, "with")
		}
		item.BaseNode = p.node(itemStart)
		stmt.Items = append(stmt.Items, item)
		if !p.match(lexer.TokenComma) {
			break
		}
		if parenthesized && p.check(lexer.TokenRightParen) {
			break
		}
	}
	if parenthesized {
		p.expect(lexer.TokenRightParen, "Expected ')' after with items")
	}

	stmt.Body = p.parseSuite("with", tok.Position.Line)
	stmt.BaseNode = p.node(start)
	return stmt
}

// withItemsParenthesized looks ahead from "(" to decide whether the
// parentheses group several with-items, as in "with (a as b, c):", rather
// than starting an expression, as in "with (a or b):".
func (p *Parser) withItemsParenthesized() bool {
	level := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case lexer.TokenLeftParen, lexer.TokenLeftBracket, lexer.TokenLeftBrace:
			level++
		case lexer.TokenRightParen, lexer.TokenRightBracket, lexer.TokenRightBrace:
			level--
			if level == 0 {
				return i+1 < len(p.tokens) && p.tokens[i+1].Type == lexer.TokenColon && p.hasAsAtLevel(p.pos+1, i)
			}
		case lexer.TokenNewline, lexer.TokenEOF:
			return false
		}
	}
	return false
}

// hasAsAtLevel reports whether an "as" appears between from and to at
// the outermost bracket level.
func (p *Parser) hasAsAtLevel(from, to int) bool {
	level := 0
	for i := from; i < to; i++ {
		switch p.tokens[i].Type {
		case lexer.TokenLeftParen, lexer.TokenLeftBracket, lexer.TokenLeftBrace:
			level++
		case lexer.TokenRightParen, lexer.TokenRightBracket, lexer.TokenRightBrace:
			level--
		case lexer.TokenAs:
			if level == 0 {
				return true
			}
		}
	}
	return false
}

// parseAsync parses "async def", "async for" and "async with".
func (p *Parser) parseAsync(start lexer.Position, decorators []ast.Expr) ast.Stmt {
	p.advance()
	switch p.current().Type {
	case lexer.TokenDef:
		return p.parseFunctionDef(start, decorators, true)
	case lexer.TokenFor:
		if decorators == nil {
			return p.parseFor(start, true)
		}
	case lexer.TokenWith:
		if decorators == nil {
			return p.parseWith(start, true)
		}
	}
	if decorators != nil {
		p.failUnexpected("'def' after 'async'")
	}
	p.failUnexpected("'def', 'for' or 'with' after 'async'")
	return nil
}

// parseDecorated parses "@expr NEWLINE" lines and the definition they
// decorate.
func (p *Parser) parseDecorated() ast.Stmt {
	start := p.current().Position
	var decorators []ast.Expr
	for p.match(lexer.TokenAt) {
		decorators = append(decorators, p.parseNamedTest())
		p.expect(lexer.TokenNewline, "Expected newline after decorator")
	}

	switch p.current().Type {
	case lexer.TokenDef:
		return p.parseFunctionDef(start, decorators, false)
	case lexer.TokenClass:
		return p.parseClassDef(start, decorators)
	case lexer.TokenAsync:
		return p.parseAsync(start, decorators)
	}
	p.failUnexpected("function or class definition after decorator")
	return nil
}

// parseFunctionDef parses a function definition; start is the position of
// the first decorator or of "async" when present.
//
// GRAMMAR:
//
//	funcdef = "def" NAME "(" [params] ")" ["->" test] suite
func (p *Parser) parseFunctionDef(start lexer.Position, decorators []ast.Expr, isAsync bool) ast.Stmt {
	defTok := p.expect(lexer.TokenDef, "Expected 'def'")
	nameTok := p.expect(lexer.TokenIdentifier, "Expected function name after 'def'")

	stmt := &ast.FunctionDef{
		Name:       nameOf(nameTok),
		NamePos:    nameTok.Position,
		Decorators: decorators,
		IsAsync:    isAsync,
	}

	p.expect(lexer.TokenLeftParen, "Expected '(' after function name")
	stmt.Params = p.parseParams(lexer.TokenRightParen, true)
	p.expect(lexer.TokenRightParen, "Expected ')' after parameters")

	if p.match(lexer.TokenArrow) {
		stmt.Returns = p.parseTest()
	}
	stmt.Body = p.parseSuite("function definition", defTok.Position.Line)
	stmt.BaseNode = p.node(start)
	return stmt
}

// parseParams parses a parameter list up to (not including) closing.
// Lambdas pass allowAnnotations=false because ":" ends their parameters.
//
// GRAMMAR:
//
//	params = param ("," param)* [","]
//	param  = NAME [":" test] ["=" test] | "/" | "*" [NAME [":" test]]
//	       | "**" NAME [":" test]
func (p *Parser) parseParams(closing lexer.TokenType, allowAnnotations bool) []*ast.Param {
	var params []*ast.Param
	var seenDefault, seenStar, seenSlash, seenKwargs, bareStar bool
	keywordOnly := 0

	for !p.check(closing) {
		if seenKwargs {
			p.fail("Parameters cannot follow '**' parameter")
		}
		start := p.current().Position

		switch {
		case p.match(lexer.TokenSlash):
			if seenSlash || seenStar || len(params) == 0 {
				p.failAt(start, "Invalid '/' in parameter list")
			}
			seenSlash = true
			for _, param := range params {
				param.Kind = ast.ParamPositionalOnly
			}

		case p.match(lexer.TokenStar):
			if seenStar {
				p.failAt(start, "Only one '*' is allowed in a parameter list")
			}
			seenStar = true
			if p.check(lexer.TokenIdentifier) {
				params = append(params, p.parseParam(start, ast.ParamVarArgs, allowAnnotations))
			} else {
				bareStar = true
			}

		case p.match(lexer.TokenDoubleStar):
			param := p.parseParam(start, ast.ParamVarKeywords, allowAnnotations)
			if param.Default != nil {
				p.failAt(param.Default.Pos(), "'**' parameter cannot have a default value")
			}
			params = append(params, param)
			seenKwargs = true

		default:
			kind := ast.ParamNormal
			if seenStar {
				kind = ast.ParamKeywordOnly
				keywordOnly++
			}
			param := p.parseParam(start, kind, allowAnnotations)
			if kind == ast.ParamNormal {
				if param.Default != nil {
					seenDefault = true
				} else if seenDefault {
					p.failAt(start, "Non-default argument follows default argument")
				}
			}
			params = append(params, param)
		}

		if !p.match(lexer.TokenComma) {
			break
		}
	}

	if bareStar && keywordOnly == 0 {
		p.fail("Named arguments must follow bare '*'")
	}
	return params
}

func (p *Parser) parseParam(start lexer.Position, kind ast.ParamKind, allowAnnotations bool) *ast.Param {
	nameTok := p.current()
	if nameTok.Type != lexer.TokenIdentifier {
		p.failUnexpected("parameter name")
	}
	p.advance()

	param := &ast.Param{Name: nameOf(nameTok), Kind: kind}
	if allowAnnotations && p.match(lexer.TokenColon) {
		param.Annotation = p.parseTest()
	}
	if p.match(lexer.TokenAssign) {
		if kind == ast.ParamVarArgs {
			p.fail("'*' parameter cannot have a default value")
		}
		param.Default = p.parseTest()
	}
	param.BaseNode = p.node(start)
	return param
}

// parseClassDef parses a class definition.
//
// GRAMMAR:
//
//	classdef = "class" NAME ["(" [bases] [","] ["metaclass" "=" test] [","] ")"] suite
//
// Positional bases must come before the metaclass keyword; no other
// keyword is accepted and the metaclass may only be given once.
func (p *Parser) parseClassDef(start lexer.Position, decorators []ast.Expr) ast.Stmt {
	classTok := p.expect(lexer.TokenClass, "Expected 'class'")
	nameTok := p.expect(lexer.TokenIdentifier, "Expected class name after 'class'")

	stmt := &ast.ClassDef{
		Name:       nameOf(nameTok),
		NamePos:    nameTok.Position,
		Decorators: decorators,
	}

	if p.match(lexer.TokenLeftParen) {
		for !p.check(lexer.TokenRightParen) {
			if p.check(lexer.TokenIdentifier) && p.peekType(1) == lexer.TokenAssign {
				kwTok := p.advance()
				p.advance()
				value := p.parseTest()
				if nameOf(kwTok) != "metaclass" {
					p.failAt(kwTok.Position, "Invalid keyword argument '%s' in class definition", kwTok.Lexeme)
				}
				if stmt.Metaclass != nil {
					p.failAt(kwTok.Position, "Duplicate metaclass")
				}
				stmt.Metaclass = value
			} else {
				if stmt.Metaclass != nil {
					p.fail("Base classes must come before metaclass")
				}
				stmt.Bases = append(stmt.Bases, p.parseTest())
			}
			if !p.match(lexer.TokenComma) {
				break
			}
		}
		p.expect(lexer.TokenRightParen, "Expected ')' after class bases")
	}

	stmt.Body = p.parseSuite("class definition", classTok.Position.Line)
	stmt.BaseNode = p.node(start)
	return stmt
}

// nameOf returns the name an identifier token stands for: the normalized
// form when the lexer recorded one, otherwise the source text.
func nameOf(tok lexer.Token) string {
	if s, ok := tok.Value.(string); ok && s != "" {
		return s
	}
	return tok.Lexeme
}

func identFromToken(tok lexer.Token) *ast.Identifier {
	return &ast.Identifier{
		BaseNode: ast.BaseNode{StartPos: tok.Position, EndPos: tok.End},
		Name:     nameOf(tok),
	}
}
