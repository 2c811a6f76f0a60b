package lexer

// TokenType identifies the kind of a token.
type TokenType int

// Token types. Ordering matters: the range helpers below (IsKeyword,
// IsOperator, IsAugmentedAssign) rely on the grouping.
const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenInvalid
	TokenComment

	// Structural markers produced by the indentation tracker
	TokenNewline
	TokenIndent
	TokenDedent

	// Literals. Keyword literals (True, False, None) are keywords below.
	TokenInt
	TokenFloat
	TokenString

	TokenIdentifier

	// Keywords
	TokenFalse
	TokenNone
	TokenTrue
	TokenAnd
	TokenAs
	TokenAssert
	TokenAsync
	TokenAwait
	TokenBreak
	TokenClass
	TokenContinue
	TokenDef
	TokenDel
	TokenElif
	TokenElse
	TokenExcept
	TokenFinally
	TokenFor
	TokenFrom
	TokenGlobal
	TokenIf
	TokenImport
	TokenIn
	TokenIs
	TokenLambda
	TokenNonlocal
	TokenNot
	TokenOr
	TokenPass
	TokenRaise
	TokenReturn
	TokenTry
	TokenWhile
	TokenWith
	TokenYield

	// Operators
	TokenPlus         // +
	TokenMinus        // -
	TokenStar         // *
	TokenSlash        // /
	TokenDoubleSlash  // //
	TokenPercent      // %
	TokenDoubleStar   // **
	TokenAt           // @
	TokenShl          // <<
	TokenShr          // >>
	TokenAmp          // &
	TokenPipe         // |
	TokenCaret        // ^
	TokenTilde        // ~
	TokenLess         // <
	TokenGreater      // >
	TokenLessEqual    // <=
	TokenGreaterEqual // >=
	TokenEqual        // ==
	TokenNotEqual     // !=
	TokenArrow        // ->
	TokenWalrus       // :=

	// Assignment operators
	TokenAssign        // =
	TokenPlusEq        // +=
	TokenMinusEq       // -=
	TokenStarEq        // *=
	TokenSlashEq       // /=
	TokenDoubleSlashEq // //=
	TokenPercentEq     // %=
	TokenDoubleStarEq  // **=
	TokenAtEq          // @=
	TokenAmpEq         // &=
	TokenPipeEq        // |=
	TokenCaretEq       // ^=
	TokenShlEq         // <<=
	TokenShrEq         // >>=

	// Delimiters
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBracket  // [
	TokenRightBracket // ]
	TokenLeftBrace    // {
	TokenRightBrace   // }
	TokenComma        // ,
	TokenColon        // :
	TokenSemicolon    // ;
	TokenDot          // .
	TokenEllipsis     // ...
)

// StringPrefix records the prefix letters of a string literal.
type StringPrefix uint8

const (
	PrefixRaw StringPrefix = 1 << iota
	PrefixFormat
	PrefixBytes
	PrefixUnicode
)

// Has reports whether all bits of flag are set.
func (sp StringPrefix) Has(flag StringPrefix) bool {
	return sp&flag == flag
}

// String returns the prefix letters in canonical order, e.g. "rb".
func (sp StringPrefix) String() string {
	var b []byte
	if sp.Has(PrefixRaw) {
		b = append(b, 'r')
	}
	if sp.Has(PrefixBytes) {
		b = append(b, 'b')
	}
	if sp.Has(PrefixFormat) {
		b = append(b, 'f')
	}
	if sp.Has(PrefixUnicode) {
		b = append(b, 'u')
	}
	return string(b)
}

// Token is a single lexical token. Tokens are plain values and are never
// modified after the lexer produces them.
type Token struct {
	Type TokenType

	// Lexeme is the exact source text of the token. Synthetic tokens
	// (NEWLINE at end of input, INDENT, DEDENT, EOF) have an empty or
	// whitespace lexeme.
	Lexeme string

	// Position is where the token starts; End is just past its last rune.
	Position Position
	End      Position

	// Length is the token's size in bytes.
	Length int

	// Value holds the decoded literal: int64 for TokenInt, float64 for
	// TokenFloat, the unescaped text for TokenString and the normalized
	// name for TokenIdentifier.
	Value interface{}

	// Prefix is only meaningful for TokenString.
	Prefix StringPrefix
}

// String returns a debugging form like "IDENTIFIER(foo) at 3:5".
func (t Token) String() string {
	return t.Type.String() + "(" + t.Lexeme + ") at " + t.Position.String()
}

// Span returns the source range covered by the token.
func (t Token) Span() Span {
	return Span{Start: t.Position, End: t.End}
}

// Describe returns the token as it should appear in an error message.
func (t Token) Describe() string {
	switch t.Type {
	case TokenEOF:
		return "end of input"
	case TokenNewline:
		return "newline"
	case TokenIndent:
		return "indent"
	case TokenDedent:
		return "unindent"
	case TokenInt, TokenFloat, TokenString:
		return t.Lexeme
	case TokenIdentifier:
		return "'" + t.Lexeme + "'"
	}
	return "'" + t.Type.Text() + "'"
}

type tokenInfo struct {
	name string
	text string
}

var tokenTable = [...]tokenInfo{
	TokenEOF:        {"EOF", ""},
	TokenInvalid:    {"INVALID", ""},
	TokenComment:    {"COMMENT", ""},
	TokenNewline:    {"NEWLINE", ""},
	TokenIndent:     {"INDENT", ""},
	TokenDedent:     {"DEDENT", ""},
	TokenInt:        {"INT", ""},
	TokenFloat:      {"FLOAT", ""},
	TokenString:     {"STRING", ""},
	TokenIdentifier: {"IDENTIFIER", ""},

	TokenFalse:    {"FALSE", "False"},
	TokenNone:     {"NONE", "None"},
	TokenTrue:     {"TRUE", "True"},
	TokenAnd:      {"AND", "and"},
	TokenAs:       {"AS", "as"},
	TokenAssert:   {"ASSERT", "assert"},
	TokenAsync:    {"ASYNC", "async"},
	TokenAwait:    {"AWAIT", "await"},
	TokenBreak:    {"BREAK", "break"},
	TokenClass:    {"CLASS", "class"},
	TokenContinue: {"CONTINUE", "continue"},
	TokenDef:      {"DEF", "def"},
	TokenDel:      {"DEL", "del"},
	TokenElif:     {"ELIF", "elif"},
	TokenElse:     {"ELSE", "else"},
	TokenExcept:   {"EXCEPT", "except"},
	TokenFinally:  {"FINALLY", "finally"},
	TokenFor:      {"FOR", "for"},
	TokenFrom:     {"FROM", "from"},
	TokenGlobal:   {"GLOBAL", "global"},
	TokenIf:       {"IF", "if"},
	TokenImport:   {"IMPORT", "import"},
	TokenIn:       {"IN", "in"},
	TokenIs:       {"IS", "is"},
	TokenLambda:   {"LAMBDA", "lambda"},
	TokenNonlocal: {"NONLOCAL", "nonlocal"},
	TokenNot:      {"NOT", "not"},
	TokenOr:       {"OR", "or"},
	TokenPass:     {"PASS", "pass"},
	TokenRaise:    {"RAISE", "raise"},
	TokenReturn:   {"RETURN", "return"},
	TokenTry:      {"TRY", "try"},
	TokenWhile:    {"WHILE", "while"},
	TokenWith:     {"WITH", "with"},
	TokenYield:    {"YIELD", "yield"},

	TokenPlus:         {"PLUS", "+"},
	TokenMinus:        {"MINUS", "-"},
	TokenStar:         {"STAR", "*"},
	TokenSlash:        {"SLASH", "/"},
	TokenDoubleSlash:  {"DOUBLESLASH", "//"},
	TokenPercent:      {"PERCENT", "%"},
	TokenDoubleStar:   {"DOUBLESTAR", "**"},
	TokenAt:           {"AT", "@"},
	TokenShl:          {"SHL", "<<"},
	TokenShr:          {"SHR", ">>"},
	TokenAmp:          {"AMP", "&"},
	TokenPipe:         {"PIPE", "|"},
	TokenCaret:        {"CARET", "^"},
	TokenTilde:        {"TILDE", "~"},
	TokenLess:         {"LESS", "<"},
	TokenGreater:      {"GREATER", ">"},
	TokenLessEqual:    {"LESSEQUAL", "<="},
	TokenGreaterEqual: {"GREATEREQUAL", ">="},
	TokenEqual:        {"EQUAL", "=="},
	TokenNotEqual:     {"NOTEQUAL", "!="},
	TokenArrow:        {"ARROW", "->"},
	TokenWalrus:       {"WALRUS", ":="},

	TokenAssign:        {"ASSIGN", "="},
	TokenPlusEq:        {"PLUSEQ", "+="},
	TokenMinusEq:       {"MINUSEQ", "-="},
	TokenStarEq:        {"STAREQ", "*="},
	TokenSlashEq:       {"SLASHEQ", "/="},
	TokenDoubleSlashEq: {"DOUBLESLASHEQ", "//="},
	TokenPercentEq:     {"PERCENTEQ", "%="},
	TokenDoubleStarEq:  {"DOUBLESTAREQ", "**="},
	TokenAtEq:          {"ATEQ", "@="},
	TokenAmpEq:         {"AMPEQ", "&="},
	TokenPipeEq:        {"PIPEEQ", "|="},
	TokenCaretEq:       {"CARETEQ", "^="},
	TokenShlEq:         {"SHLEQ", "<<="},
	TokenShrEq:         {"SHREQ", ">>="},

	TokenLeftParen:    {"LPAREN", "("},
	TokenRightParen:   {"RPAREN", ")"},
	TokenLeftBracket:  {"LBRACKET", "["},
	TokenRightBracket: {"RBRACKET", "]"},
	TokenLeftBrace:    {"LBRACE", "{"},
	TokenRightBrace:   {"RBRACE", "}"},
	TokenComma:        {"COMMA", ","},
	TokenColon:        {"COLON", ":"},
	TokenSemicolon:    {"SEMICOLON", ";"},
	TokenDot:          {"DOT", "."},
	TokenEllipsis:     {"ELLIPSIS", "..."},
}

// String returns the upper-case name of the token type, e.g. "LPAREN".
func (tt TokenType) String() string {
	if tt < 0 || int(tt) >= len(tokenTable) {
		return "UNKNOWN"
	}
	return tokenTable[tt].name
}

// Text returns the source spelling of a keyword, operator or delimiter,
// and the type name for everything else.
func (tt TokenType) Text() string {
	if tt < 0 || int(tt) >= len(tokenTable) {
		return "UNKNOWN"
	}
	if text := tokenTable[tt].text; text != "" {
		return text
	}
	return tokenTable[tt].name
}

var keywords = func() map[string]TokenType {
	m := make(map[string]TokenType, int(TokenYield-TokenFalse)+1)
	for tt := TokenFalse; tt <= TokenYield; tt++ {
		m[tokenTable[tt].text] = tt
	}
	return m
}()

// LookupKeyword returns the keyword type for identifier, or
// TokenIdentifier when it is not a keyword.
func LookupKeyword(identifier string) TokenType {
	if tt, ok := keywords[identifier]; ok {
		return tt
	}
	return TokenIdentifier
}

// Keywords returns the reserved words in token order.
func Keywords() []string {
	words := make([]string, 0, int(TokenYield-TokenFalse)+1)
	for tt := TokenFalse; tt <= TokenYield; tt++ {
		words = append(words, tokenTable[tt].text)
	}
	return words
}

// IsKeyword reports whether tt is a reserved word.
func (tt TokenType) IsKeyword() bool {
	return tt >= TokenFalse && tt <= TokenYield
}

// IsOperator reports whether tt is an operator, including assignment
// operators.
func (tt TokenType) IsOperator() bool {
	return tt >= TokenPlus && tt <= TokenShrEq
}

// IsAugmentedAssign reports whether tt is one of "+=", "-=", ... ">>=".
func (tt TokenType) IsAugmentedAssign() bool {
	return tt >= TokenPlusEq && tt <= TokenShrEq
}

// IsLiteral reports whether tt is a literal value, keyword literals
// included.
func (tt TokenType) IsLiteral() bool {
	switch tt {
	case TokenInt, TokenFloat, TokenString, TokenTrue, TokenFalse, TokenNone:
		return true
	}
	return false
}

// IsStructural reports whether tt is one of the synthetic layout tokens.
func (tt TokenType) IsStructural() bool {
	switch tt {
	case TokenNewline, TokenIndent, TokenDedent, TokenEOF:
		return true
	}
	return false
}
