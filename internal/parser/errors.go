package parser

import (
	"github.com/hassan/pyfront/internal/lexer"
)

// ParseError is one syntax diagnostic. A single Parse call can return
// several of them, one per independent faulty statement.
type ParseError struct {
	Message string
	Pos     lexer.Position
}

// Error formats the error as "ParseError: <message> at <line>:<column>".
func (e *ParseError) Error() string {
	return "ParseError: " + e.Message + " at " + e.Pos.LineColumn()
}

// bailout is the panic value used to unwind to the nearest statement
// boundary after an error has been recorded.
type bailout struct{}
