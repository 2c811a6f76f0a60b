package lexer

// ErrorKind classifies a lexical error.
type ErrorKind int

const (
	ErrUnexpectedCharacter ErrorKind = iota
	ErrUnterminatedString
	ErrInvalidNumber
	ErrInconsistentDedent
	ErrMixedIndentation
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpectedCharacter:
		return "unexpected character"
	case ErrUnterminatedString:
		return "unterminated string"
	case ErrInvalidNumber:
		return "invalid numeric literal"
	case ErrInconsistentDedent:
		return "inconsistent dedent"
	case ErrMixedIndentation:
		return "mixed indentation"
	default:
		return "unknown"
	}
}

// SyntaxError is the single error a failed tokenization returns.
type SyntaxError struct {
	Kind    ErrorKind
	Message string
	Pos     Position
}

// Error formats the error as "SyntaxError: <message> at <line>:<column>".
func (e *SyntaxError) Error() string {
	return "SyntaxError: " + e.Message + " at " + e.Pos.LineColumn()
}
