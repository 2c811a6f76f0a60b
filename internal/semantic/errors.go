package semantic

import (
	"fmt"
	"sort"

	"github.com/hassan/pyfront/internal/lexer"
)

// ErrorKind discriminates semantic errors.
type ErrorKind int

const (
	// UndefinedVariable is a read of a name no visible scope binds.
	UndefinedVariable ErrorKind = iota

	// Redeclaration is a second binding of a name in the same scope.
	Redeclaration

	// InvalidScope is a construct used where it is not allowed, such as
	// return outside a function or break outside a loop.
	InvalidScope
)

// String returns the kind's name.
func (k ErrorKind) String() string {
	switch k {
	case UndefinedVariable:
		return "UndefinedVariable"
	case Redeclaration:
		return "Redeclaration"
	case InvalidScope:
		return "InvalidScope"
	default:
		return "unknown"
	}
}

// Error is one semantic diagnostic.
type Error struct {
	Kind    ErrorKind
	Message string
	Pos     lexer.Position

	// Name is the offending name for UndefinedVariable and Redeclaration.
	Name string

	// FirstPos is where a redeclared name was first declared.
	FirstPos lexer.Position
}

// Error formats the error as "SemanticError: <message> at <line>:<column>".
func (e *Error) Error() string {
	return "SemanticError: " + e.Message + " at " + e.Pos.LineColumn()
}

func undefinedError(name string, pos lexer.Position) *Error {
	return &Error{
		Kind:    UndefinedVariable,
		Message: fmt.Sprintf("Undefined variable '%s'", name),
		Pos:     pos,
		Name:    name,
	}
}

func redeclarationError(name string, pos, first lexer.Position) *Error {
	return &Error{
		Kind:     Redeclaration,
		Message:  fmt.Sprintf("Redeclaration of '%s' (first declared at %s)", name, first.LineColumn()),
		Pos:      pos,
		Name:     name,
		FirstPos: first,
	}
}

func scopeError(pos lexer.Position, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    InvalidScope,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}

// sortErrors orders errors by source position. Function bodies are
// checked after the code around them, so collection order is not source
// order.
func sortErrors(errs []*Error) {
	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Pos.Before(errs[j].Pos)
	})
}
