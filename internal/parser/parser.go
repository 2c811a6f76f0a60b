// Package parser implements a recursive descent parser for Python-syntax
// source.
//
// PARSING STRATEGY:
//   - Recursive descent for statements
//   - Precedence climbing for binary operators (see precedence.go)
//   - An explicit cursor over the token slice, so that resynchronizing
//     after an error is an index jump
//
// ERROR HANDLING STRATEGY:
//   - A failed statement records one ParseError and unwinds with
//     panic(bailout{}) to the statement boundary, where it is recovered
//   - The parser then skips to the next statement and keeps going
//   - Errors are not cascaded: after an error, reports are suppressed
//     until a later statement parses cleanly
package parser

import (
	"fmt"

	"github.com/hassan/pyfront/internal/lexer"
	"github.com/hassan/pyfront/internal/parser/ast"
)

// Options tune the parser.
type Options struct {
	// MaxNestingDepth bounds how deeply expressions and blocks may nest.
	// Deeper input is reported as a parse error. Zero means the default.
	MaxNestingDepth int

	// SuggestKeywords enables "Did you mean ...?" messages for common
	// keyword typos such as "elseif".
	SuggestKeywords bool
}

// DefaultMaxNestingDepth is used when Options.MaxNestingDepth is zero.
const DefaultMaxNestingDepth = 200

// DefaultOptions returns the options used by ParseSource.
func DefaultOptions() Options {
	return Options{MaxNestingDepth: DefaultMaxNestingDepth, SuggestKeywords: true}
}

// Parser converts a token slice into an AST.
type Parser struct {
	tokens []lexer.Token
	pos    int
	opts   Options

	errors []*ParseError

	// suppress is set when an error is recorded and cleared once a later
	// statement parses without any new error. seen counts every error,
	// reported or not.
	suppress bool
	seen     int

	depth int
}

// New creates a parser for tokens. Comment tokens are skipped; a
// trailing EOF is added when missing.
func New(tokens []lexer.Token, opts Options) *Parser {
	if opts.MaxNestingDepth <= 0 {
		opts.MaxNestingDepth = DefaultMaxNestingDepth
	}
	filtered := make([]lexer.Token, 0, len(tokens)+1)
	for _, tok := range tokens {
		if tok.Type != lexer.TokenComment {
			filtered = append(filtered, tok)
		}
	}
	if n := len(filtered); n == 0 || filtered[n-1].Type != lexer.TokenEOF {
		var end lexer.Position
		if n > 0 {
			end = filtered[n-1].End
		}
		filtered = append(filtered, lexer.Token{Type: lexer.TokenEOF, Position: end, End: end})
	}
	return &Parser{tokens: filtered, opts: opts}
}

// Parse parses a complete token sequence into a Module.
//
// GRAMMAR:
//
//	module = (NEWLINE | statement)* EOF
//
// The module is returned even when there are errors; it then holds every
// statement that parsed cleanly.
func Parse(tokens []lexer.Token, opts Options) (*ast.Module, []*ParseError) {
	p := New(tokens, opts)
	mod := p.ParseModule()

	for _, tok := range tokens {
		if tok.Type == lexer.TokenComment {
			mod.Comments = append(mod.Comments, &ast.Comment{
				BaseNode: ast.BaseNode{StartPos: tok.Position, EndPos: tok.End},
				Text:     tok.Lexeme,
			})
		}
	}
	if len(tokens) > 0 {
		mod.Filename = tokens[0].Position.Filename
	}
	return mod, p.Errors()
}

// ParseSource tokenizes and parses source with default options. A lexical
// failure is returned as err and nothing is parsed.
func ParseSource(source, filename string) (mod *ast.Module, errs []*ParseError, err error) {
	tokens, err := lexer.Tokenize(source, filename)
	if err != nil {
		return nil, nil, err
	}
	mod, errs = Parse(tokens, DefaultOptions())
	return mod, errs, nil
}

// Errors returns the reported errors in source order.
func (p *Parser) Errors() []*ParseError {
	return p.errors
}

// ParseModule parses statements until EOF.
func (p *Parser) ParseModule() *ast.Module {
	mod := &ast.Module{}
	mod.StartPos = p.current().Position

	for !p.check(lexer.TokenEOF) {
		switch p.current().Type {
		case lexer.TokenNewline:
			p.advance()
			continue
		case lexer.TokenDedent:
			// Only reachable with hand-built token streams.
			p.advance()
			continue
		}
		mod.Body = append(mod.Body, p.parseStatement()...)
	}

	mod.EndPos = p.current().End
	return mod
}

// parseStatement parses one statement line (which may hold several
// ";"-separated simple statements) or one compound statement, recovering
// from any error inside it.
func (p *Parser) parseStatement() (stmts []ast.Stmt) {
	seen := p.seen
	depth := p.depth
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			p.depth = depth
			p.synchronize()
			stmts = nil
		}
	}()

	stmts = p.parseStatementInner()
	if p.seen == seen {
		p.suppress = false
	}
	return stmts
}

// synchronize skips to the next statement boundary: past the end of the
// current line, past an indented block that directly follows it, and never
// past an unindent.
func (p *Parser) synchronize() {
	for {
		switch p.current().Type {
		case lexer.TokenEOF, lexer.TokenDedent:
			return
		case lexer.TokenIndent:
			p.skipBlock()
			return
		case lexer.TokenNewline:
			p.advance()
			if p.check(lexer.TokenIndent) {
				p.skipBlock()
			}
			return
		}
		p.advance()
	}
}

// skipBlock consumes an INDENT and everything up to its matching DEDENT.
func (p *Parser) skipBlock() {
	level := 0
	for !p.check(lexer.TokenEOF) {
		switch p.advance().Type {
		case lexer.TokenIndent:
			level++
		case lexer.TokenDedent:
			level--
			if level == 0 {
				return
			}
		}
	}
}

// Cursor helpers

func (p *Parser) current() lexer.Token {
	return p.tokens[p.pos]
}

// previous returns the last consumed token.
func (p *Parser) previous() lexer.Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

// peekType returns the type of the token n positions ahead.
func (p *Parser) peekType(n int) lexer.TokenType {
	if p.pos+n >= len(p.tokens) {
		return lexer.TokenEOF
	}
	return p.tokens[p.pos+n].Type
}

// advance consumes the current token and returns it. EOF is never
// consumed.
func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if tok.Type != lexer.TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) check(tokenType lexer.TokenType) bool {
	return p.current().Type == tokenType
}

func (p *Parser) match(tokenTypes ...lexer.TokenType) bool {
	for _, tokenType := range tokenTypes {
		if p.check(tokenType) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes a token of the given type or fails with message.
func (p *Parser) expect(tokenType lexer.TokenType, message string) lexer.Token {
	if p.check(tokenType) {
		return p.advance()
	}
	p.fail("%s", message)
	panic("unreachable")
}

// node returns a BaseNode spanning from start to the end of the last
// consumed token.
func (p *Parser) node(start lexer.Position) ast.BaseNode {
	end := p.previous().End
	if end.Offset < start.Offset {
		end = start
	}
	return ast.BaseNode{StartPos: start, EndPos: end}
}

// Error helpers

// fail records an error at the current token and unwinds to the
// enclosing statement.
func (p *Parser) fail(format string, args ...interface{}) {
	p.failAt(p.current().Position, format, args...)
}

func (p *Parser) failAt(pos lexer.Position, format string, args ...interface{}) {
	p.seen++
	if !p.suppress {
		p.errors = append(p.errors, &ParseError{Message: fmt.Sprintf(format, args...), Pos: pos})
		p.suppress = true
	}
	panic(bailout{})
}

// failUnexpected reports the current token as out of place.
func (p *Parser) failUnexpected(context string) {
	tok := p.current()
	if tok.Type == lexer.TokenEOF {
		p.fail("Unexpected end of input, expected %s", context)
	}
	p.fail("Expected %s but found %s", context, tok.Describe())
}

// enter guards recursion depth. Every enter must be paired with leave on
// the success path; parseStatement restores the depth after a bailout.
func (p *Parser) enter() {
	p.depth++
	if p.depth > p.opts.MaxNestingDepth {
		p.fail("Maximum nesting depth of %d exceeded", p.opts.MaxNestingDepth)
	}
}

func (p *Parser) leave() {
	p.depth--
}
