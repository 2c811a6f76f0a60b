package lexer

import (
	"testing"
)

func TestToken_String(t *testing.T) {
	tests := []struct {
		name     string
		token    Token
		expected string
	}{
		{
			name: "identifier token",
			token: Token{
				Type:     TokenIdentifier,
				Lexeme:   "foo",
				Position: Position{Filename: "test.py", Line: 1, Column: 1},
			},
			expected: "IDENTIFIER(foo) at test.py:1:1",
		},
		{
			name: "int token",
			token: Token{
				Type:     TokenInt,
				Lexeme:   "42",
				Position: Position{Filename: "test.py", Line: 5, Column: 10},
			},
			expected: "INT(42) at test.py:5:10",
		},
		{
			name: "dedent without filename",
			token: Token{
				Type:     TokenDedent,
				Position: Position{Line: 3, Column: 1},
			},
			expected: "DEDENT() at 3:1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.token.String()
			if result != tt.expected {
				t.Errorf("Token.String() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestToken_Span(t *testing.T) {
	tokens, err := Tokenize("  \nhello", "test.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	span := tokens[0].Span()

	if span.Start.Offset != 3 {
		t.Errorf("Span start offset = %d, want 3", span.Start.Offset)
	}
	if span.End.Offset != 8 {
		t.Errorf("Span end offset = %d, want 8", span.End.Offset)
	}
	if span.Length() != tokens[0].Length {
		t.Errorf("Span length = %d, token length = %d", span.Length(), tokens[0].Length)
	}
}

func TestToken_Describe(t *testing.T) {
	tests := []struct {
		token    Token
		expected string
	}{
		{Token{Type: TokenEOF}, "end of input"},
		{Token{Type: TokenNewline, Lexeme: "\n"}, "newline"},
		{Token{Type: TokenIndent, Lexeme: "    "}, "indent"},
		{Token{Type: TokenDedent}, "unindent"},
		{Token{Type: TokenIdentifier, Lexeme: "foo"}, "'foo'"},
		{Token{Type: TokenInt, Lexeme: "42"}, "42"},
		{Token{Type: TokenRightParen, Lexeme: ")"}, "')'"},
		{Token{Type: TokenDef, Lexeme: "def"}, "'def'"},
	}

	for _, tt := range tests {
		if got := tt.token.Describe(); got != tt.expected {
			t.Errorf("Describe(%v) = %q, want %q", tt.token.Type, got, tt.expected)
		}
	}
}

func TestTokenType_String(t *testing.T) {
	tests := []struct {
		tokenType TokenType
		expected  string
	}{
		{TokenEOF, "EOF"},
		{TokenIdentifier, "IDENTIFIER"},
		{TokenIndent, "INDENT"},
		{TokenElif, "ELIF"},
		{TokenPlus, "PLUS"},
		{TokenLeftParen, "LPAREN"},
		{TokenEllipsis, "ELLIPSIS"},
		{TokenType(9999), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.tokenType.String(); got != tt.expected {
				t.Errorf("TokenType.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTokenType_Text(t *testing.T) {
	tests := []struct {
		tokenType TokenType
		expected  string
	}{
		{TokenDoubleSlashEq, "//="},
		{TokenNonlocal, "nonlocal"},
		{TokenNone, "None"},
		{TokenNewline, "NEWLINE"},
	}

	for _, tt := range tests {
		if got := tt.tokenType.Text(); got != tt.expected {
			t.Errorf("%v.Text() = %q, want %q", tt.tokenType, got, tt.expected)
		}
	}
}

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		ident    string
		expected TokenType
	}{
		{"if", TokenIf},
		{"elif", TokenElif},
		{"def", TokenDef},
		{"nonlocal", TokenNonlocal},
		{"True", TokenTrue},
		{"None", TokenNone},
		{"true", TokenIdentifier},
		{"print", TokenIdentifier},
		{"elseif", TokenIdentifier},
		{"", TokenIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			if got := LookupKeyword(tt.ident); got != tt.expected {
				t.Errorf("LookupKeyword(%q) = %v, want %v", tt.ident, got, tt.expected)
			}
		})
	}
}

func TestTokenType_IsKeyword(t *testing.T) {
	for tt := TokenFalse; tt <= TokenYield; tt++ {
		if !tt.IsKeyword() {
			t.Errorf("%v.IsKeyword() = false, want true", tt)
		}
		if LookupKeyword(tt.Text()) != tt {
			t.Errorf("LookupKeyword(%q) does not round-trip", tt.Text())
		}
	}
	for _, tt := range []TokenType{TokenIdentifier, TokenInt, TokenPlus, TokenEOF} {
		if tt.IsKeyword() {
			t.Errorf("%v.IsKeyword() = true, want false", tt)
		}
	}
}

func TestTokenType_IsOperator(t *testing.T) {
	tests := []struct {
		tokenType TokenType
		expected  bool
	}{
		{TokenPlus, true},
		{TokenWalrus, true},
		{TokenAssign, true},
		{TokenShrEq, true},
		{TokenLeftParen, false},
		{TokenIdentifier, false},
		{TokenAnd, false},
	}

	for _, tt := range tests {
		if got := tt.tokenType.IsOperator(); got != tt.expected {
			t.Errorf("%v.IsOperator() = %v, want %v", tt.tokenType, got, tt.expected)
		}
	}
}

func TestTokenType_IsAugmentedAssign(t *testing.T) {
	for tt := TokenPlusEq; tt <= TokenShrEq; tt++ {
		if !tt.IsAugmentedAssign() {
			t.Errorf("%v.IsAugmentedAssign() = false, want true", tt)
		}
	}
	if TokenAssign.IsAugmentedAssign() {
		t.Error("'=' must not be an augmented assignment")
	}
}

func TestTokenType_IsLiteral(t *testing.T) {
	tests := []struct {
		tokenType TokenType
		expected  bool
	}{
		{TokenInt, true},
		{TokenFloat, true},
		{TokenString, true},
		{TokenTrue, true},
		{TokenNone, true},
		{TokenIdentifier, false},
		{TokenIf, false},
	}

	for _, tt := range tests {
		if got := tt.tokenType.IsLiteral(); got != tt.expected {
			t.Errorf("%v.IsLiteral() = %v, want %v", tt.tokenType, got, tt.expected)
		}
	}
}

func TestStringPrefix_Has(t *testing.T) {
	p := PrefixRaw | PrefixBytes
	if !p.Has(PrefixRaw) || !p.Has(PrefixBytes) {
		t.Error("expected raw and bytes flags")
	}
	if p.Has(PrefixFormat) {
		t.Error("unexpected format flag")
	}
}

func TestKeywords(t *testing.T) {
	words := Keywords()
	if len(words) != 35 {
		t.Errorf("len(Keywords()) = %d, want 35", len(words))
	}
	if words[0] != "False" || words[len(words)-1] != "yield" {
		t.Errorf("Keywords() = %v, want False first and yield last", words)
	}
	for _, w := range words {
		if tt := LookupKeyword(w); !tt.IsKeyword() {
			t.Errorf("LookupKeyword(%q) = %v, want a keyword", w, tt)
		}
	}
}
