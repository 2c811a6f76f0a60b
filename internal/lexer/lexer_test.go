package lexer

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func tokenTypes(t *testing.T, source string) []TokenType {
	t.Helper()
	tokens, err := Tokenize(source, "test.py")
	if err != nil {
		t.Fatalf("Tokenize(%q): unexpected error: %v", source, err)
	}
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func syntaxError(t *testing.T, source string) *SyntaxError {
	t.Helper()
	tokens, err := Tokenize(source, "test.py")
	if err == nil {
		t.Fatalf("Tokenize(%q): expected error, got %d tokens", source, len(tokens))
	}
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("Tokenize(%q): error %T is not a *SyntaxError", source, err)
	}
	return se
}

func TestLexer_Keywords(t *testing.T) {
	source := "if elif else for while def class return lambda not and or is in None True False"
	l := New(source, "test.py")

	expectedTypes := []TokenType{
		TokenIf,
		TokenElif,
		TokenElse,
		TokenFor,
		TokenWhile,
		TokenDef,
		TokenClass,
		TokenReturn,
		TokenLambda,
		TokenNot,
		TokenAnd,
		TokenOr,
		TokenIs,
		TokenIn,
		TokenNone,
		TokenTrue,
		TokenFalse,
		TokenNewline,
		TokenEOF,
	}

	for i, expected := range expectedTypes {
		token, err := l.NextToken()
		if err != nil {
			t.Fatalf("token %d: unexpected error: %v", i, err)
		}
		if token.Type != expected {
			t.Errorf("token %d: expected %v, got %v", i, expected, token.Type)
		}
	}
}

func TestLexer_Identifiers(t *testing.T) {
	source := "foo bar _temp myVar123 héllo 変数"
	l := New(source, "test.py")

	expected := []string{"foo", "bar", "_temp", "myVar123", "héllo", "変数"}

	for i, expectedName := range expected {
		token, err := l.NextToken()
		if err != nil {
			t.Fatalf("token %d: unexpected error: %v", i, err)
		}
		if token.Type != TokenIdentifier {
			t.Errorf("token %d: expected TokenIdentifier, got %v", i, token.Type)
		}
		if token.Lexeme != expectedName {
			t.Errorf("token %d: expected %q, got %q", i, expectedName, token.Lexeme)
		}
	}
}

func TestLexer_IdentifierNormalization(t *testing.T) {
	tokens, err := Tokenize("ﬁle", "test.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tokens[0].Value; got != "file" {
		t.Errorf("normalized value = %v, want %q", got, "file")
	}
	if tokens[0].Lexeme != "ﬁle" {
		t.Errorf("lexeme = %q, want the source text", tokens[0].Lexeme)
	}

	l := NewWithOptions("ﬁle", "test.py", Options{})
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Value != "ﬁle" {
		t.Errorf("value without normalization = %v, want %q", tok.Value, "ﬁle")
	}
}

func TestLexer_Numbers(t *testing.T) {
	tests := []struct {
		source string
		typ    TokenType
		value  interface{}
	}{
		{"42", TokenInt, int64(42)},
		{"0", TokenInt, int64(0)},
		{"000", TokenInt, int64(0)},
		{"1_000_000", TokenInt, int64(1000000)},
		{"0xFF", TokenInt, int64(255)},
		{"0o17", TokenInt, int64(15)},
		{"0b1010", TokenInt, int64(10)},
		{"0x_ff", TokenInt, int64(255)},
		{"9223372036854775807", TokenInt, int64(9223372036854775807)},
		{"3.14", TokenFloat, 3.14},
		{".5", TokenFloat, 0.5},
		{"1e10", TokenFloat, 1e10},
		{"2.5e-3", TokenFloat, 2.5e-3},
		{"1E+2", TokenFloat, 100.0},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			l := New(tt.source, "test.py")
			token, err := l.NextToken()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token.Type != tt.typ {
				t.Errorf("expected %v, got %v", tt.typ, token.Type)
			}
			if token.Value != tt.value {
				t.Errorf("value = %v (%T), want %v (%T)", token.Value, token.Value, tt.value, tt.value)
			}
			if token.Lexeme != tt.source {
				t.Errorf("lexeme = %q, want %q", token.Lexeme, tt.source)
			}
		})
	}
}

func TestLexer_NumberFollowedByDot(t *testing.T) {
	got := tokenTypes(t, "1.real")
	want := []TokenType{TokenInt, TokenDot, TokenIdentifier, TokenNewline, TokenEOF}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}

func TestLexer_NumberErrors(t *testing.T) {
	tests := []string{
		"0x",
		"0b",
		"0b102",
		"0o8",
		"0xg",
		"123abc",
		"1__0",
		"1_",
		"007",
		"9223372036854775808",
		"0xFFFFFFFFFFFFFFFFFF",
	}

	for _, source := range tests {
		t.Run(source, func(t *testing.T) {
			err := syntaxError(t, source)
			if err.Kind != ErrInvalidNumber {
				t.Errorf("kind = %v, want %v", err.Kind, ErrInvalidNumber)
			}
			if err.Pos.Line != 1 || err.Pos.Column != 1 {
				t.Errorf("position = %s, want 1:1", err.Pos.LineColumn())
			}
		})
	}
}

func TestLexer_Strings(t *testing.T) {
	tests := []struct {
		name   string
		source string
		value  string
		prefix StringPrefix
	}{
		{"double", `"hello"`, "hello", 0},
		{"single", `'hello'`, "hello", 0},
		{"escapes", `"a\tb\nc\\d\"e"`, "a\tb\nc\\d\"e", 0},
		{"unknown escape kept", `"\d\x41"`, `\d\x41`, 0},
		{"raw", `r"\n\d"`, `\n\d`, PrefixRaw},
		{"raw escaped quote", `r"a\"b"`, `a\"b`, PrefixRaw},
		{"fstring", `f"{x}"`, "{x}", PrefixFormat},
		{"bytes", `b'abc'`, "abc", PrefixBytes},
		{"raw bytes", `Rb"x"`, "x", PrefixRaw | PrefixBytes},
		{"unicode", `u"é"`, "é", PrefixUnicode},
		{"triple", "\"\"\"line1\nline2\"\"\"", "line1\nline2", 0},
		{"triple with quotes", `'''it's "fine"'''`, `it's "fine"`, 0},
		{"empty", `""`, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.source, "test.py")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tok := tokens[0]
			if tok.Type != TokenString {
				t.Fatalf("expected TokenString, got %v", tok.Type)
			}
			if tok.Value != tt.value {
				t.Errorf("value = %q, want %q", tok.Value, tt.value)
			}
			if tok.Prefix != tt.prefix {
				t.Errorf("prefix = %v, want %v", tok.Prefix, tt.prefix)
			}
			if tok.Lexeme != tt.source {
				t.Errorf("lexeme = %q, want %q", tok.Lexeme, tt.source)
			}
		})
	}
}

func TestLexer_PrefixLikeIdentifiers(t *testing.T) {
	got := tokenTypes(t, "rb fr x")
	want := []TokenType{TokenIdentifier, TokenIdentifier, TokenIdentifier, TokenNewline, TokenEOF}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}

	got = tokenTypes(t, `ab"x"`)
	want = []TokenType{TokenIdentifier, TokenString, TokenNewline, TokenEOF}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}

func TestLexer_StringErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unterminated", `"abc`},
		{"newline in single quoted", "'abc\ndef'"},
		{"unterminated triple", `"""abc`},
		{"escaped closing quote", `"abc\"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := syntaxError(t, tt.source)
			if err.Kind != ErrUnterminatedString {
				t.Errorf("kind = %v, want %v", err.Kind, ErrUnterminatedString)
			}
		})
	}
}

func TestLexer_Operators(t *testing.T) {
	source := "+ - * / // % ** @ << >> & | ^ ~ < > <= >= == != -> := = += -= *= /= //= %= **= @= &= |= ^= <<= >>= ( ) [ ] { } , : ; . ..."
	want := []TokenType{
		TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenDoubleSlash,
		TokenPercent, TokenDoubleStar, TokenAt, TokenShl, TokenShr,
		TokenAmp, TokenPipe, TokenCaret, TokenTilde, TokenLess, TokenGreater,
		TokenLessEqual, TokenGreaterEqual, TokenEqual, TokenNotEqual,
		TokenArrow, TokenWalrus, TokenAssign, TokenPlusEq, TokenMinusEq,
		TokenStarEq, TokenSlashEq, TokenDoubleSlashEq, TokenPercentEq,
		TokenDoubleStarEq, TokenAtEq, TokenAmpEq, TokenPipeEq, TokenCaretEq,
		TokenShlEq, TokenShrEq, TokenLeftParen, TokenRightParen,
		TokenLeftBracket, TokenRightBracket, TokenLeftBrace, TokenRightBrace,
		TokenComma, TokenColon, TokenSemicolon, TokenDot, TokenEllipsis,
		TokenNewline, TokenEOF,
	}

	got := tokenTypes(t, source)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens =\n%v\nwant\n%v", got, want)
	}
}

func TestLexer_UnexpectedCharacter(t *testing.T) {
	tests := []struct {
		source string
		line   int
		column int
	}{
		{"x = $", 1, 5},
		{"a = 1\nb ! c", 2, 3},
		{"é = ?", 1, 5},
		{"x = 1 \\ y", 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			err := syntaxError(t, tt.source)
			if err.Kind != ErrUnexpectedCharacter {
				t.Errorf("kind = %v, want %v", err.Kind, ErrUnexpectedCharacter)
			}
			if err.Pos.Line != tt.line || err.Pos.Column != tt.column {
				t.Errorf("position = %s, want %d:%d", err.Pos.LineColumn(), tt.line, tt.column)
			}
		})
	}
}

func TestLexer_Indentation(t *testing.T) {
	source := "if x:\n    y = 1\n    if z:\n        w\nv\n"
	want := []TokenType{
		TokenIf, TokenIdentifier, TokenColon, TokenNewline,
		TokenIndent, TokenIdentifier, TokenAssign, TokenInt, TokenNewline,
		TokenIf, TokenIdentifier, TokenColon, TokenNewline,
		TokenIndent, TokenIdentifier, TokenNewline,
		TokenDedent, TokenDedent, TokenIdentifier, TokenNewline,
		TokenEOF,
	}

	got := tokenTypes(t, source)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens =\n%v\nwant\n%v", got, want)
	}
}

func TestLexer_DedentAtEOF(t *testing.T) {
	source := "def f():\n    if x:\n        return 1"
	got := tokenTypes(t, source)
	tail := got[len(got)-4:]
	want := []TokenType{TokenNewline, TokenDedent, TokenDedent, TokenEOF}
	if !reflect.DeepEqual(tail, want) {
		t.Errorf("tail = %v, want %v", tail, want)
	}
}

func TestLexer_BlankAndCommentLines(t *testing.T) {
	source := "if x:\n\n    # leading comment\n    y\n        # deeper comment\n\n    z\n"
	want := []TokenType{
		TokenIf, TokenIdentifier, TokenColon, TokenNewline,
		TokenComment,
		TokenIndent, TokenIdentifier, TokenNewline,
		TokenComment,
		TokenIdentifier, TokenNewline,
		TokenDedent, TokenEOF,
	}

	got := tokenTypes(t, source)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens =\n%v\nwant\n%v", got, want)
	}
}

func TestLexer_TrailingComment(t *testing.T) {
	tokens, err := Tokenize("x = 1  # set x\n", "test.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[3].Type != TokenComment || tokens[3].Lexeme != "# set x" {
		t.Errorf("token 3 = %v, want comment \"# set x\"", tokens[3])
	}
	if tokens[4].Type != TokenNewline {
		t.Errorf("token 4 = %v, want NEWLINE", tokens[4])
	}
}

func TestLexer_ImplicitLineJoining(t *testing.T) {
	source := "x = (1,\n     2,\n  3)\ny = [\n]\n"
	want := []TokenType{
		TokenIdentifier, TokenAssign, TokenLeftParen, TokenInt, TokenComma,
		TokenInt, TokenComma, TokenInt, TokenRightParen, TokenNewline,
		TokenIdentifier, TokenAssign, TokenLeftBracket, TokenRightBracket, TokenNewline,
		TokenEOF,
	}

	got := tokenTypes(t, source)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens =\n%v\nwant\n%v", got, want)
	}
}

func TestLexer_ExplicitLineJoining(t *testing.T) {
	source := "x = 1 + \\\n    2\n"
	want := []TokenType{
		TokenIdentifier, TokenAssign, TokenInt, TokenPlus, TokenInt, TokenNewline, TokenEOF,
	}

	got := tokenTypes(t, source)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}

func TestLexer_InconsistentDedent(t *testing.T) {
	err := syntaxError(t, "if x:\n    y\n  z\n")
	if err.Kind != ErrInconsistentDedent {
		t.Errorf("kind = %v, want %v", err.Kind, ErrInconsistentDedent)
	}
	if err.Pos.Line != 3 {
		t.Errorf("line = %d, want 3", err.Pos.Line)
	}
}

func TestLexer_MixedIndentation(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"same line", "if x:\n \ty\n"},
		{"across lines", "if x:\n\tif y:\n        z\n"},
		{"tab then spaces", "if x:\n\tif y:\n\t    z\n"},
		{"spaces then tab", "if x:\n    if y:\n    \tz\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := syntaxError(t, tt.source)
			if err.Kind != ErrMixedIndentation {
				t.Errorf("kind = %v, want %v", err.Kind, ErrMixedIndentation)
			}
		})
	}
}

func TestLexer_TabsAloneAreFine(t *testing.T) {
	got := tokenTypes(t, "if x:\n\ty\n")
	want := []TokenType{
		TokenIf, TokenIdentifier, TokenColon, TokenNewline,
		TokenIndent, TokenIdentifier, TokenNewline, TokenDedent, TokenEOF,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}

func TestLexer_EmptyInput(t *testing.T) {
	for _, source := range []string{"", "\n\n", "   \n", "# only a comment"} {
		tokens, err := Tokenize(source, "test.py")
		if err != nil {
			t.Fatalf("Tokenize(%q): unexpected error: %v", source, err)
		}
		last := tokens[len(tokens)-1]
		if last.Type != TokenEOF {
			t.Errorf("Tokenize(%q): last token = %v, want EOF", source, last.Type)
		}
		for _, tok := range tokens[:len(tokens)-1] {
			if tok.Type != TokenComment {
				t.Errorf("Tokenize(%q): unexpected token %v", source, tok)
			}
		}
	}
}

func TestLexer_CRLF(t *testing.T) {
	got := tokenTypes(t, "if x:\r\n    y\r\n")
	want := []TokenType{
		TokenIf, TokenIdentifier, TokenColon, TokenNewline,
		TokenIndent, TokenIdentifier, TokenNewline, TokenDedent, TokenEOF,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}

func TestLexer_Positions(t *testing.T) {
	tokens, err := Tokenize("x = 'héllo'\n  \nfoo(bar)", "main.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		index  int
		line   int
		column int
	}{
		{0, 1, 1},  // x
		{1, 1, 3},  // =
		{2, 1, 5},  // 'héllo'
		{3, 1, 12}, // newline
		{4, 3, 1},  // foo
		{5, 3, 4},  // (
		{6, 3, 5},  // bar
	}

	for _, tt := range tests {
		pos := tokens[tt.index].Position
		if pos.Line != tt.line || pos.Column != tt.column {
			t.Errorf("token %d (%v): position = %s, want %d:%d",
				tt.index, tokens[tt.index].Type, pos.LineColumn(), tt.line, tt.column)
		}
		if pos.Filename != "main.py" {
			t.Errorf("token %d: filename = %q", tt.index, pos.Filename)
		}
	}

	if end := tokens[2].End; end.Column != 12 {
		t.Errorf("string end column = %d, want 12", end.Column)
	}
}

func TestLexer_ErrorIsSticky(t *testing.T) {
	l := New("x = $", "test.py")
	var first error
	for i := 0; i < 10; i++ {
		_, err := l.NextToken()
		if err != nil {
			first = err
			break
		}
	}
	if first == nil {
		t.Fatal("expected an error")
	}
	tok, err := l.NextToken()
	if err != first {
		t.Errorf("second error = %v, want the same error %v", err, first)
	}
	if tok.Type != TokenInvalid {
		t.Errorf("token after error = %v, want INVALID", tok.Type)
	}
}

func TestLexer_EOFIsRepeated(t *testing.T) {
	l := New("x", "test.py")
	for i := 0; i < 3; i++ {
		if _, err := l.NextToken(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		tok, err := l.NextToken()
		if err != nil || tok.Type != TokenEOF {
			t.Errorf("call %d after end = %v, %v; want EOF", i, tok.Type, err)
		}
	}
}

func TestLexer_Deterministic(t *testing.T) {
	source := "def f(a, b=2):\n    return a ** b  # power\nprint(f(3))\n"
	first, err := Tokenize(source, "test.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Tokenize(source, "test.py")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatal("tokenizing the same input twice produced different tokens")
		}
	}
}

func TestLexer_LongLineColumns(t *testing.T) {
	const n = 50000
	source := "x = 1" + strings.Repeat(" + 1", n) + "\n"

	start := time.Now()
	tokens, err := Tokenize(source, "test.py")
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("tokenizing a %d-byte line took %v", len(source), elapsed)
	}

	// x = 1 (+ 1)*n NEWLINE EOF
	if want := 3 + 2*n + 2; len(tokens) != want {
		t.Fatalf("got %d tokens, want %d", len(tokens), want)
	}
	last := tokens[len(tokens)-3]
	if last.Lexeme != "1" || last.Position.Column != len(source)-1 {
		t.Errorf("last operand = %q at column %d, want \"1\" at %d", last.Lexeme, last.Position.Column, len(source)-1)
	}
	if last.End.Column != len(source) {
		t.Errorf("last operand end column = %d, want %d", last.End.Column, len(source))
	}
}

func TestLexer_ColumnsCountRunes(t *testing.T) {
	tokens, err := Tokenize("s = 'ñé' + ab\nπ = 1\n", "test.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tests := []struct {
		lexeme string
		line   int
		column int
	}{
		{"+", 1, 10},
		{"ab", 1, 12},
		{"π", 2, 1},
		{"1", 2, 5},
	}
	for _, tt := range tests {
		found := false
		for _, tok := range tokens {
			if tok.Lexeme == tt.lexeme {
				found = true
				if tok.Position.Line != tt.line || tok.Position.Column != tt.column {
					t.Errorf("%q at %d:%d, want %d:%d", tt.lexeme, tok.Position.Line, tok.Position.Column, tt.line, tt.column)
				}
				break
			}
		}
		if !found {
			t.Errorf("no token %q", tt.lexeme)
		}
	}
}

func TestLexer_IndentDedentBalance(t *testing.T) {
	sources := []string{
		"if a:\n    if b:\n        if c:\n            d\n",
		"class A:\n    def f(self):\n        pass\n    def g(self):\n        pass\nx = 1",
		"while x:\n  y\n  while z:\n   w\n  q\nr\n",
	}

	for _, source := range sources {
		tokens, err := Tokenize(source, "test.py")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		depth := 0
		for _, tok := range tokens {
			switch tok.Type {
			case TokenIndent:
				depth++
			case TokenDedent:
				depth--
				if depth < 0 {
					t.Fatalf("%q: DEDENT below zero", source)
				}
			}
		}
		if depth != 0 {
			t.Errorf("%q: %d unclosed INDENT tokens", source, depth)
		}
		if n := countType(tokens, TokenEOF); n != 1 {
			t.Errorf("%q: %d EOF tokens, want 1", source, n)
		}
	}
}

func TestLexer_NoPanicOnArbitraryInput(t *testing.T) {
	inputs := []string{
		"\x00", "\xff\xfe", "(((((", ")))", "\\", "'", `"""`, "0x", "1e", "1e+",
		"\t\t\n \n\t", "if:\n\tx\n  y", "r", "b'", "\r", "...", "!", "\u00a0",
		"x\\\n", "#\n#", "'''\n\n", "🙂 = 1",
	}

	for _, input := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Tokenize(%q) panicked: %v", input, r)
				}
			}()
			tokens, err := Tokenize(input, "fuzz.py")
			if err == nil && (len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEOF) {
				t.Errorf("Tokenize(%q) succeeded without a trailing EOF", input)
			}
		}()
	}
}

func countType(tokens []Token, tt TokenType) int {
	n := 0
	for _, tok := range tokens {
		if tok.Type == tt {
			n++
		}
	}
	return n
}
