package parser

import (
	"github.com/hassan/pyfront/internal/lexer"
)

// keywordTypos maps identifiers people write out of habit from other
// languages to the keyword they most likely meant.
var keywordTypos = map[string]string{
	"elseif":   "elif",
	"elsif":    "elif",
	"define":   "def",
	"function": "def",
	"func":     "def",
	"cls":      "class",
	"switch":   "match",
	"foreach":  "for",
	"until":    "while not",
	"unless":   "if not",
}

// suggestKeyword reports a likely keyword for the identifier at the start
// of a statement. It only fires when the next token could not follow the
// identifier in a valid statement (another name or a literal), so that
// "func = 1" and "cls.attr" are left alone.
func (p *Parser) suggestKeyword() (string, bool) {
	tok := p.current()
	if tok.Type != lexer.TokenIdentifier {
		return "", false
	}
	suggestion, ok := keywordTypos[tok.Lexeme]
	if !ok {
		return "", false
	}
	switch p.peekType(1) {
	case lexer.TokenIdentifier, lexer.TokenInt, lexer.TokenFloat, lexer.TokenString,
		lexer.TokenNot, lexer.TokenTrue, lexer.TokenFalse, lexer.TokenNone:
		return suggestion, true
	}
	return "", false
}
