package parser

import (
	"testing"

	"github.com/hassan/pyfront/internal/lexer"
)

func TestGetPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		token    lexer.TokenType
		expected Precedence
	}{
		// Conditional (lowest)
		{"if", lexer.TokenIf, PrecConditional},

		// Boolean
		{"or", lexer.TokenOr, PrecOr},
		{"and", lexer.TokenAnd, PrecAnd},

		// Comparison chain
		{"equal", lexer.TokenEqual, PrecComparison},
		{"not equal", lexer.TokenNotEqual, PrecComparison},
		{"less than", lexer.TokenLess, PrecComparison},
		{"greater equal", lexer.TokenGreaterEqual, PrecComparison},
		{"in", lexer.TokenIn, PrecComparison},
		{"is", lexer.TokenIs, PrecComparison},
		{"not (in)", lexer.TokenNot, PrecComparison},

		// Bitwise
		{"pipe", lexer.TokenPipe, PrecBitOr},
		{"caret", lexer.TokenCaret, PrecBitXor},
		{"amp", lexer.TokenAmp, PrecBitAnd},
		{"shift left", lexer.TokenShl, PrecShift},
		{"shift right", lexer.TokenShr, PrecShift},

		// Arithmetic
		{"plus", lexer.TokenPlus, PrecTerm},
		{"minus", lexer.TokenMinus, PrecTerm},
		{"star", lexer.TokenStar, PrecFactor},
		{"slash", lexer.TokenSlash, PrecFactor},
		{"double slash", lexer.TokenDoubleSlash, PrecFactor},
		{"percent", lexer.TokenPercent, PrecFactor},
		{"matmul", lexer.TokenAt, PrecFactor},
		{"power", lexer.TokenDoubleStar, PrecPower},

		// Postfix (highest)
		{"dot", lexer.TokenDot, PrecCall},
		{"left bracket", lexer.TokenLeftBracket, PrecCall},
		{"left paren", lexer.TokenLeftParen, PrecCall},

		// Non-operators
		{"identifier", lexer.TokenIdentifier, PrecNone},
		{"int", lexer.TokenInt, PrecNone},
		{"assign", lexer.TokenAssign, PrecNone},
		{"plus equals", lexer.TokenPlusEq, PrecNone},
		{"semicolon", lexer.TokenSemicolon, PrecNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := getPrecedence(tt.token)
			if result != tt.expected {
				t.Errorf("getPrecedence(%v) = %v, want %v", tt.token, result, tt.expected)
			}
		})
	}
}

func TestIsRightAssociative(t *testing.T) {
	tests := []struct {
		name     string
		token    lexer.TokenType
		expected bool
	}{
		{"power", lexer.TokenDoubleStar, true},

		{"plus", lexer.TokenPlus, false},
		{"minus", lexer.TokenMinus, false},
		{"star", lexer.TokenStar, false},
		{"slash", lexer.TokenSlash, false},
		{"equal", lexer.TokenEqual, false},
		{"and", lexer.TokenAnd, false},
		{"or", lexer.TokenOr, false},
		{"dot", lexer.TokenDot, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isRightAssociative(tt.token)
			if result != tt.expected {
				t.Errorf("isRightAssociative(%v) = %v, want %v", tt.token, result, tt.expected)
			}
		})
	}
}

func TestPrecedenceOrdering(t *testing.T) {
	ladder := []struct {
		name string
		prec Precedence
	}{
		{"Conditional", PrecConditional},
		{"Or", PrecOr},
		{"And", PrecAnd},
		{"Not", PrecNot},
		{"Comparison", PrecComparison},
		{"BitOr", PrecBitOr},
		{"BitXor", PrecBitXor},
		{"BitAnd", PrecBitAnd},
		{"Shift", PrecShift},
		{"Term", PrecTerm},
		{"Factor", PrecFactor},
		{"Unary", PrecUnary},
		{"Power", PrecPower},
		{"Await", PrecAwait},
		{"Call", PrecCall},
		{"Primary", PrecPrimary},
	}
	for i := 1; i < len(ladder); i++ {
		if ladder[i-1].prec >= ladder[i].prec {
			t.Errorf("%s should have lower precedence than %s", ladder[i-1].name, ladder[i].name)
		}
	}
}

func TestOperatorTables(t *testing.T) {
	for tt := range augmentedOperators {
		if !tt.IsAugmentedAssign() {
			t.Errorf("augmentedOperators has non-augmented token %v", tt)
		}
	}
	for tt := range binaryOperators {
		if getPrecedence(tt) == PrecNone {
			t.Errorf("binary operator %v has no precedence", tt)
		}
	}
	for tt := range compareOperators {
		if getPrecedence(tt) != PrecComparison {
			t.Errorf("getPrecedence(%v) = %v, want PrecComparison", tt, getPrecedence(tt))
		}
	}
}
