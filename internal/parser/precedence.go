package parser

import (
	"github.com/hassan/pyfront/internal/lexer"
	"github.com/hassan/pyfront/internal/parser/ast"
)

// Precedence represents operator binding strength; higher binds tighter.
//
// PRECEDENCE RULES (from lowest to highest):
//  1. Conditional / lambda (x if c else y, lambda: x)
//  2. Boolean or
//  3. Boolean and
//  4. Boolean not (prefix)
//  5. Comparisons, chained (== != < > <= >= in, not in, is, is not)
//  6. Bitwise or (|)
//  7. Bitwise xor (^)
//  8. Bitwise and (&)
//  9. Shift (<<, >>)
//  10. Addition/Subtraction (+, -)
//  11. Multiplication/Division (*, /, //, %, @)
//  12. Unary (-x, +x, ~x)
//  13. Exponentiation (**), right-associative; its right operand may
//     itself start with a unary operator (2 ** -1)
//  14. await
//  15. Postfix: calls, subscripts and attribute access
type Precedence int

const (
	PrecNone Precedence = iota
	PrecConditional
	PrecOr
	PrecAnd
	PrecNot
	PrecComparison
	PrecBitOr
	PrecBitXor
	PrecBitAnd
	PrecShift
	PrecTerm
	PrecFactor
	PrecUnary
	PrecPower
	PrecAwait
	PrecCall
	PrecPrimary
)

// getPrecedence returns the precedence of tokenType used as an infix
// operator, or PrecNone when it is not one. "not" is only an infix
// operator as the first half of "not in", which the caller checks.
func getPrecedence(tokenType lexer.TokenType) Precedence {
	switch tokenType {
	case lexer.TokenIf:
		return PrecConditional
	case lexer.TokenOr:
		return PrecOr
	case lexer.TokenAnd:
		return PrecAnd
	case lexer.TokenEqual, lexer.TokenNotEqual,
		lexer.TokenLess, lexer.TokenLessEqual,
		lexer.TokenGreater, lexer.TokenGreaterEqual,
		lexer.TokenIn, lexer.TokenIs, lexer.TokenNot:
		return PrecComparison
	case lexer.TokenPipe:
		return PrecBitOr
	case lexer.TokenCaret:
		return PrecBitXor
	case lexer.TokenAmp:
		return PrecBitAnd
	case lexer.TokenShl, lexer.TokenShr:
		return PrecShift
	case lexer.TokenPlus, lexer.TokenMinus:
		return PrecTerm
	case lexer.TokenStar, lexer.TokenSlash, lexer.TokenDoubleSlash,
		lexer.TokenPercent, lexer.TokenAt:
		return PrecFactor
	case lexer.TokenDoubleStar:
		return PrecPower
	case lexer.TokenDot, lexer.TokenLeftBracket, lexer.TokenLeftParen:
		return PrecCall
	default:
		return PrecNone
	}
}

// isRightAssociative reports whether a chain of tokenType groups to the
// right: 2 ** 3 ** 2 is 2 ** (3 ** 2).
func isRightAssociative(tokenType lexer.TokenType) bool {
	return tokenType == lexer.TokenDoubleStar
}

// binaryOperators maps infix tokens to their AST operator.
var binaryOperators = map[lexer.TokenType]ast.BinaryOperator{
	lexer.TokenOr:          ast.Or,
	lexer.TokenAnd:         ast.And,
	lexer.TokenPipe:        ast.BitOr,
	lexer.TokenCaret:       ast.BitXor,
	lexer.TokenAmp:         ast.BitAnd,
	lexer.TokenShl:         ast.LeftShift,
	lexer.TokenShr:         ast.RightShift,
	lexer.TokenPlus:        ast.Add,
	lexer.TokenMinus:       ast.Subtract,
	lexer.TokenStar:        ast.Multiply,
	lexer.TokenSlash:       ast.Divide,
	lexer.TokenDoubleSlash: ast.FloorDivide,
	lexer.TokenPercent:     ast.Modulo,
	lexer.TokenAt:          ast.MatMul,
	lexer.TokenDoubleStar:  ast.Power,
}

// augmentedOperators maps "op=" tokens to the operator they apply.
var augmentedOperators = map[lexer.TokenType]ast.BinaryOperator{
	lexer.TokenPlusEq:        ast.Add,
	lexer.TokenMinusEq:       ast.Subtract,
	lexer.TokenStarEq:        ast.Multiply,
	lexer.TokenSlashEq:       ast.Divide,
	lexer.TokenDoubleSlashEq: ast.FloorDivide,
	lexer.TokenPercentEq:     ast.Modulo,
	lexer.TokenDoubleStarEq:  ast.Power,
	lexer.TokenAtEq:          ast.MatMul,
	lexer.TokenAmpEq:         ast.BitAnd,
	lexer.TokenPipeEq:        ast.BitOr,
	lexer.TokenCaretEq:       ast.BitXor,
	lexer.TokenShlEq:         ast.LeftShift,
	lexer.TokenShrEq:         ast.RightShift,
}

// compareOperators maps single-token comparison operators.
var compareOperators = map[lexer.TokenType]ast.CompareOperator{
	lexer.TokenEqual:        ast.Eq,
	lexer.TokenNotEqual:     ast.NotEq,
	lexer.TokenLess:         ast.Lt,
	lexer.TokenLessEqual:    ast.LtE,
	lexer.TokenGreater:      ast.Gt,
	lexer.TokenGreaterEqual: ast.GtE,
	lexer.TokenIn:           ast.In,
	lexer.TokenIs:           ast.Is,
}
