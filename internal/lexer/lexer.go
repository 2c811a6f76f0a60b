package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Options tune tokenization.
type Options struct {
	// NormalizeIdentifiers applies NFKC normalization to non-ASCII
	// identifiers, so that "ﬁle" and "file" name the same variable.
	NormalizeIdentifiers bool
}

// DefaultOptions returns the options used by New and Tokenize.
func DefaultOptions() Options {
	return Options{NormalizeIdentifiers: true}
}

// Lexer converts source text into tokens.
//
// A single source character can produce several tokens (a dedent to the
// outermost level emits one DEDENT per closed block), so produced tokens
// are queued in pending and handed out one at a time by NextToken.
type Lexer struct {
	source   string
	filename string
	opts     Options

	// start is the byte offset of the token being scanned, current the
	// offset of the next unread byte.
	start   int
	current int

	// line is the 1-based line of current; lineStart is the offset at
	// which that line begins.
	line      int
	lineStart int

	// col is the 0-based rune column of colOffset on the current line.
	// pos counts forward from it instead of from lineStart.
	colOffset int
	col       int

	// tokPos is the position of start, captured before scanning so that
	// multi-line tokens report where they began.
	tokPos Position

	// indents is the stack of open indentation widths; it always starts
	// with 0. indentChar is the whitespace byte the open blocks are
	// indented with, or 0 at the outermost level.
	indents    []int
	indentChar byte

	// parenDepth counts open brackets; newlines inside brackets do not
	// end a logical line.
	parenDepth int

	atLineStart   bool
	lineHasTokens bool

	pending []Token
	err     *SyntaxError
	eof     Token
	done    bool
}

// New creates a lexer for source with DefaultOptions.
func New(source, filename string) *Lexer {
	return NewWithOptions(source, filename, DefaultOptions())
}

// NewWithOptions creates a lexer for source.
func NewWithOptions(source, filename string, opts Options) *Lexer {
	l := &Lexer{
		source:      source,
		filename:    filename,
		opts:        opts,
		line:        1,
		indents:     []int{0},
		atLineStart: true,
	}
	if strings.HasPrefix(source, "\ufeff") {
		l.current = len("\ufeff")
		l.lineStart = l.current
	}
	return l
}

// Tokenize lexes the whole source with default options.
func Tokenize(source, filename string) ([]Token, error) {
	return New(source, filename).Tokenize()
}

// Tokenize drains the lexer. The returned slice always ends with exactly
// one TokenEOF. On failure it returns nil and the *SyntaxError.
func (l *Lexer) Tokenize() ([]Token, error) {
	tokens := make([]Token, 0, len(l.source)/4+1)
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// NextToken returns the next token. Once an error has been returned every
// later call returns the same error; once EOF has been returned every
// later call returns EOF again.
func (l *Lexer) NextToken() (Token, error) {
	for {
		if len(l.pending) > 0 {
			tok := l.pending[0]
			l.pending = l.pending[1:]
			return tok, nil
		}
		if l.err != nil {
			return Token{Type: TokenInvalid, Position: l.err.Pos, End: l.err.Pos}, l.err
		}
		if l.done {
			return l.eof, nil
		}
		if err := l.scan(); err != nil {
			l.err = err
			l.pending = nil
		}
	}
}

// scan produces at least one token into pending, or consumes input that
// produces none (a newline inside brackets), or records an error.
func (l *Lexer) scan() *SyntaxError {
	if l.atLineStart && l.parenDepth == 0 {
		if err := l.scanIndentation(); err != nil {
			return err
		}
		if len(l.pending) > 0 {
			return nil
		}
	}

	if err := l.skipWhitespace(); err != nil {
		return err
	}

	l.begin()
	if l.isAtEnd() {
		l.finish()
		return nil
	}

	ch, _ := l.peek()
	switch {
	case ch == '\n':
		l.current++
		l.newline()
		if l.parenDepth > 0 {
			return nil
		}
		l.emit(TokenNewline)
		l.atLineStart = true
		l.lineHasTokens = false
		return nil
	case ch == '#':
		l.scanComment()
		return nil
	case ch == '"' || ch == '\'':
		return l.scanString(0)
	case isDigit(l.peekAt(0)) || (ch == '.' && isDigit(l.peekAt(1))):
		return l.scanNumber()
	case isIdentStart(ch):
		return l.scanIdentifier()
	}
	return l.scanOperator()
}

// finish emits the tokens that close the input: a NEWLINE for an
// unterminated last line, one DEDENT per open block, and EOF.
func (l *Lexer) finish() {
	if l.lineHasTokens {
		l.emit(TokenNewline)
		l.lineHasTokens = false
	}
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(TokenDedent)
	}
	l.eof = l.makeToken(TokenEOF)
	l.pending = append(l.pending, l.eof)
	l.done = true
}

// skipWhitespace skips blanks inside a line and explicit backslash
// continuations.
func (l *Lexer) skipWhitespace() *SyntaxError {
	for !l.isAtEnd() {
		switch l.source[l.current] {
		case ' ', '\t', '\f', '\r':
			l.current++
		case '\\':
			next := l.peekAt(1)
			if next == '\r' && l.peekAt(2) == '\n' {
				l.current += 3
			} else if next == '\n' {
				l.current += 2
			} else if next == 0 && l.current+1 >= len(l.source) {
				l.begin()
				return l.errorf(ErrUnexpectedCharacter, "unexpected end of input after line continuation")
			} else {
				return nil
			}
			l.newline()
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) scanComment() {
	for !l.isAtEnd() {
		c := l.source[l.current]
		if c == '\n' || (c == '\r' && l.peekAt(1) == '\n') {
			break
		}
		l.current++
	}
	l.pending = append(l.pending, l.makeToken(TokenComment))
}

// scanIdentifier scans a name, a keyword, or the prefix of a string
// literal such as r"..." or f'...'.
func (l *Lexer) scanIdentifier() *SyntaxError {
	for !l.isAtEnd() {
		r, size := l.peek()
		if !isIdentContinue(r) {
			break
		}
		l.current += size
	}

	text := l.source[l.start:l.current]
	if q := l.peekAt(0); q == '"' || q == '\'' {
		if prefix, ok := stringPrefix(text); ok {
			return l.scanString(prefix)
		}
	}

	name := text
	if l.opts.NormalizeIdentifiers && !isASCII(text) {
		name = norm.NFKC.String(text)
	}
	tok := l.makeToken(LookupKeyword(name))
	if tok.Type == TokenIdentifier {
		tok.Value = name
	}
	l.push(tok)
	return nil
}

// scanNumber scans integer and float literals.
//
// GRAMMAR:
//
//	int   = decimal | "0" ("x"|"o"|"b") digits
//	float = digits "." digits [exponent] | "." digits [exponent] | digits exponent
func (l *Lexer) scanNumber() *SyntaxError {
	if l.source[l.current] == '0' {
		if base, name := radixOf(l.peekAt(1)); base != 0 {
			return l.scanRadixInt(base, name)
		}
	}

	isFloat := false
	l.consumeDigits(isDigit)
	if l.peekAt(0) == '.' && isDigit(l.peekAt(1)) {
		isFloat = true
		l.current++
		l.consumeDigits(isDigit)
	}
	if c := l.peekAt(0); c == 'e' || c == 'E' {
		n := 1
		if s := l.peekAt(1); s == '+' || s == '-' {
			n = 2
		}
		if isDigit(l.peekAt(n)) {
			isFloat = true
			l.current += n
			l.consumeDigits(isDigit)
		}
	}
	if r, _ := l.peek(); isIdentContinue(r) {
		return l.errorf(ErrInvalidNumber, "invalid decimal literal")
	}

	text := l.source[l.start:l.current]
	if !validUnderscores(text) {
		return l.errorf(ErrInvalidNumber, "invalid decimal literal %q", text)
	}
	clean := strings.ReplaceAll(text, "_", "")

	tok := l.makeToken(TokenInt)
	if isFloat {
		v, err := strconv.ParseFloat(clean, 64)
		if err != nil && !isRangeError(err) {
			return l.errorf(ErrInvalidNumber, "invalid float literal %q", text)
		}
		tok.Type = TokenFloat
		tok.Value = v
		l.push(tok)
		return nil
	}

	if len(clean) > 1 && clean[0] == '0' && strings.Trim(clean, "0") != "" {
		return l.errorf(ErrInvalidNumber, "leading zeros in decimal integer literals are not permitted")
	}
	v, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return l.errorf(ErrInvalidNumber, "integer literal %s is too large", text)
	}
	tok.Value = v
	l.push(tok)
	return nil
}

func (l *Lexer) scanRadixInt(base int, name string) *SyntaxError {
	l.current += 2
	digitsStart := l.current
	l.consumeDigits(func(c byte) bool { return isRadixDigit(c, base) })
	digits := l.source[digitsStart:l.current]

	if r, _ := l.peek(); isIdentContinue(r) {
		return l.errorf(ErrInvalidNumber, "invalid %s literal", name)
	}
	if strings.Trim(digits, "_") == "" {
		return l.errorf(ErrInvalidNumber, "invalid %s literal: missing digits after %q", name, l.source[l.start:digitsStart])
	}
	if strings.HasSuffix(digits, "_") || strings.Contains(digits, "__") {
		return l.errorf(ErrInvalidNumber, "invalid %s literal", name)
	}
	v, err := strconv.ParseInt(strings.ReplaceAll(digits, "_", ""), base, 64)
	if err != nil {
		return l.errorf(ErrInvalidNumber, "integer literal %s is too large", l.source[l.start:l.current])
	}
	tok := l.makeToken(TokenInt)
	tok.Value = v
	l.push(tok)
	return nil
}

func (l *Lexer) consumeDigits(accept func(byte) bool) {
	for !l.isAtEnd() {
		c := l.source[l.current]
		if !accept(c) && c != '_' {
			return
		}
		l.current++
	}
}

// scanString scans a string literal whose opening quote is at current.
// The token value is the decoded text; the lexeme keeps prefix and quotes.
func (l *Lexer) scanString(prefix StringPrefix) *SyntaxError {
	quote := l.source[l.current]
	l.current++
	triple := l.peekAt(0) == quote && l.peekAt(1) == quote
	if triple {
		l.current += 2
	}
	raw := prefix.Has(PrefixRaw)

	var sb strings.Builder
	for {
		if l.isAtEnd() {
			if triple {
				return l.errorf(ErrUnterminatedString, "unterminated triple-quoted string literal")
			}
			return l.errorf(ErrUnterminatedString, "unterminated string literal")
		}

		c := l.source[l.current]
		switch {
		case c == quote:
			if !triple {
				l.current++
				return l.finishString(prefix, sb.String())
			}
			if l.peekAt(1) == quote && l.peekAt(2) == quote {
				l.current += 3
				return l.finishString(prefix, sb.String())
			}
			sb.WriteByte(c)
			l.current++

		case c == '\n':
			if !triple {
				return l.errorf(ErrUnterminatedString, "unterminated string literal")
			}
			sb.WriteByte(c)
			l.current++
			l.newline()

		case c == '\\':
			next := l.peekAt(1)
			if next == 0 && l.current+1 >= len(l.source) {
				l.current++
				continue
			}
			if next == '\n' {
				if raw {
					sb.WriteString("\\\n")
				}
				l.current += 2
				l.newline()
				continue
			}
			if raw {
				sb.WriteByte('\\')
				l.current++
				if next < utf8.RuneSelf {
					sb.WriteByte(next)
					l.current++
				}
				continue
			}
			if decoded, ok := simpleEscapes[next]; ok {
				sb.WriteByte(decoded)
				l.current += 2
				continue
			}
			// Unknown escapes keep their backslash.
			sb.WriteByte('\\')
			l.current++

		default:
			_, size := l.peek()
			sb.WriteString(l.source[l.current : l.current+size])
			l.current += size
		}
	}
}

var simpleEscapes = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}

func (l *Lexer) finishString(prefix StringPrefix, value string) *SyntaxError {
	tok := l.makeToken(TokenString)
	tok.Value = value
	tok.Prefix = prefix
	l.push(tok)
	return nil
}

// scanOperator scans operators and delimiters, longest match first.
func (l *Lexer) scanOperator() *SyntaxError {
	ch, size := l.peek()
	l.current += size

	var tt TokenType
	switch ch {
	case '(':
		l.parenDepth++
		tt = TokenLeftParen
	case '[':
		l.parenDepth++
		tt = TokenLeftBracket
	case '{':
		l.parenDepth++
		tt = TokenLeftBrace
	case ')':
		l.closeParen()
		tt = TokenRightParen
	case ']':
		l.closeParen()
		tt = TokenRightBracket
	case '}':
		l.closeParen()
		tt = TokenRightBrace
	case ',':
		tt = TokenComma
	case ';':
		tt = TokenSemicolon
	case '~':
		tt = TokenTilde
	case '+':
		tt = l.pick('=', TokenPlusEq, TokenPlus)
	case '%':
		tt = l.pick('=', TokenPercentEq, TokenPercent)
	case '@':
		tt = l.pick('=', TokenAtEq, TokenAt)
	case '&':
		tt = l.pick('=', TokenAmpEq, TokenAmp)
	case '|':
		tt = l.pick('=', TokenPipeEq, TokenPipe)
	case '^':
		tt = l.pick('=', TokenCaretEq, TokenCaret)
	case '=':
		tt = l.pick('=', TokenEqual, TokenAssign)
	case ':':
		tt = l.pick('=', TokenWalrus, TokenColon)
	case '-':
		if l.match('>') {
			tt = TokenArrow
		} else {
			tt = l.pick('=', TokenMinusEq, TokenMinus)
		}
	case '*':
		if l.match('*') {
			tt = l.pick('=', TokenDoubleStarEq, TokenDoubleStar)
		} else {
			tt = l.pick('=', TokenStarEq, TokenStar)
		}
	case '/':
		if l.match('/') {
			tt = l.pick('=', TokenDoubleSlashEq, TokenDoubleSlash)
		} else {
			tt = l.pick('=', TokenSlashEq, TokenSlash)
		}
	case '<':
		if l.match('<') {
			tt = l.pick('=', TokenShlEq, TokenShl)
		} else {
			tt = l.pick('=', TokenLessEqual, TokenLess)
		}
	case '>':
		if l.match('>') {
			tt = l.pick('=', TokenShrEq, TokenShr)
		} else {
			tt = l.pick('=', TokenGreaterEqual, TokenGreater)
		}
	case '!':
		if !l.match('=') {
			return l.errorf(ErrUnexpectedCharacter, "unexpected character '!' (did you mean '!=' or 'not'?)")
		}
		tt = TokenNotEqual
	case '.':
		if l.peekAt(0) == '.' && l.peekAt(1) == '.' {
			l.current += 2
			tt = TokenEllipsis
		} else {
			tt = TokenDot
		}
	default:
		if ch == utf8.RuneError && size <= 1 {
			return l.errorf(ErrUnexpectedCharacter, "invalid UTF-8 byte 0x%02x", l.source[l.start])
		}
		return l.errorf(ErrUnexpectedCharacter, "unexpected character %q", ch)
	}
	l.push(l.makeToken(tt))
	return nil
}

func (l *Lexer) closeParen() {
	if l.parenDepth > 0 {
		l.parenDepth--
	}
}

// pick consumes next and returns yes when it follows, no otherwise.
func (l *Lexer) pick(next byte, yes, no TokenType) TokenType {
	if l.match(next) {
		return yes
	}
	return no
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.current++
	return true
}

// peek decodes the rune at current without consuming it.
func (l *Lexer) peek() (rune, int) {
	if l.isAtEnd() {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.source[l.current:])
}

// peekAt returns the byte n bytes past current, or 0 past the end.
func (l *Lexer) peekAt(n int) byte {
	if l.current+n >= len(l.source) {
		return 0
	}
	return l.source[l.current+n]
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l *Lexer) newline() {
	l.line++
	l.lineStart = l.current
}

// begin marks current as the start of the next token.
func (l *Lexer) begin() {
	l.start = l.current
	l.tokPos = l.pos()
}

func (l *Lexer) pos() Position {
	if l.colOffset < l.lineStart || l.colOffset > l.current {
		l.colOffset, l.col = l.lineStart, 0
	}
	l.col += utf8.RuneCountInString(l.source[l.colOffset:l.current])
	l.colOffset = l.current
	return Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.col + 1,
		Offset:   l.current,
	}
}

func (l *Lexer) makeToken(tt TokenType) Token {
	return Token{
		Type:     tt,
		Lexeme:   l.source[l.start:l.current],
		Position: l.tokPos,
		End:      l.pos(),
		Length:   l.current - l.start,
	}
}

// emit queues a synthetic token at the current position.
func (l *Lexer) emit(tt TokenType) {
	l.push(l.makeToken(tt))
}

func (l *Lexer) push(tok Token) {
	if !tok.Type.IsStructural() && tok.Type != TokenComment {
		l.lineHasTokens = true
	}
	l.pending = append(l.pending, tok)
}

func (l *Lexer) errorf(kind ErrorKind, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Pos:     l.tokPos,
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isRadixDigit(c byte, base int) bool {
	switch base {
	case 2:
		return c == '0' || c == '1'
	case 8:
		return c >= '0' && c <= '7'
	default:
		return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	}
}

func radixOf(c byte) (int, string) {
	switch c {
	case 'x', 'X':
		return 16, "hexadecimal"
	case 'o', 'O':
		return 8, "octal"
	case 'b', 'B':
		return 2, "binary"
	}
	return 0, ""
}

// validUnderscores reports whether every '_' in a decimal literal sits
// between two digits.
func validUnderscores(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] != '_' {
			continue
		}
		if i == 0 || i == len(text)-1 || !isDigit(text[i-1]) || !isDigit(text[i+1]) {
			return false
		}
	}
	return true
}

func isRangeError(err error) bool {
	numErr, ok := err.(*strconv.NumError)
	return ok && numErr.Err == strconv.ErrRange
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// stringPrefix maps the letters before a quote to prefix flags.
func stringPrefix(text string) (StringPrefix, bool) {
	if len(text) > 2 {
		return 0, false
	}
	var prefix StringPrefix
	for i := 0; i < len(text); i++ {
		var flag StringPrefix
		switch text[i] {
		case 'r', 'R':
			flag = PrefixRaw
		case 'f', 'F':
			flag = PrefixFormat
		case 'b', 'B':
			flag = PrefixBytes
		case 'u', 'U':
			flag = PrefixUnicode
		default:
			return 0, false
		}
		if prefix&flag != 0 {
			return 0, false
		}
		prefix |= flag
	}
	switch prefix {
	case PrefixRaw, PrefixFormat, PrefixBytes, PrefixUnicode,
		PrefixRaw | PrefixBytes, PrefixRaw | PrefixFormat:
		return prefix, true
	}
	return 0, false
}
