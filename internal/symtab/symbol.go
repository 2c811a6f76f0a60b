// Package symtab implements the scope tree used for name resolution.
//
// The table tracks every name the program binds (variables, functions,
// classes and parameters) together with the scope that binds it. The
// semantic analyzer uses it to:
//  1. Resolve names to their declarations
//  2. Detect redeclarations and undefined names
//  3. Find the enclosing function for return, yield and nonlocal checks
//  4. Mark variables captured by nested functions
//
// Scopes live in an arena inside the Table and refer to each other by
// ScopeID. They are never removed, so a finished table is a complete
// record of the program's scope tree.
package symtab

import (
	"github.com/hassan/pyfront/internal/lexer"
	"github.com/hassan/pyfront/internal/semantic/types"
)

// SymbolKind represents the kind of symbol.
type SymbolKind int

const (
	// SymbolVariable is a name bound by assignment, a for target, an
	// import, a with/except target or a walrus.
	SymbolVariable SymbolKind = iota

	// SymbolFunction is a name bound by def.
	SymbolFunction

	// SymbolClass is a name bound by class.
	SymbolClass

	// SymbolParameter is a function or lambda parameter.
	SymbolParameter
)

// String returns a human-readable representation of the symbol kind.
func (sk SymbolKind) String() string {
	switch sk {
	case SymbolVariable:
		return "variable"
	case SymbolFunction:
		return "function"
	case SymbolClass:
		return "class"
	case SymbolParameter:
		return "parameter"
	default:
		return "unknown"
	}
}

// Symbol is a named declaration bound to exactly one scope.
type Symbol struct {
	// Name is the symbol's identifier
	Name string

	// Kind is what kind of symbol this is
	Kind SymbolKind

	// Type is the inferred type, Unknown when nothing better is known
	Type types.Type

	// Pos is where this symbol was first declared.
	// Redeclaration errors point back here.
	Pos lexer.Position

	// ScopeID is the scope the symbol was declared in. It never changes.
	ScopeID ScopeID

	// IsCaptured is set when a nested function reads the symbol.
	IsCaptured bool

	// IsGlobal is set when the scope declared the name "global".
	IsGlobal bool

	// IsNonlocal is set when the scope declared the name "nonlocal".
	IsNonlocal bool

	// Used tracks if this symbol has been referenced.
	Used bool
}

// String returns a human-readable representation of the symbol.
// Format: "kind name: type at position"
// Example: "variable x: int at main.py:4:1"
func (s *Symbol) String() string {
	typ := "Any"
	if s.Type != nil {
		typ = s.Type.String()
	}
	result := s.Kind.String() + " " + s.Name + ": " + typ + " at " + s.Pos.String()
	switch {
	case s.IsGlobal:
		result += " [global]"
	case s.IsNonlocal:
		result += " [nonlocal]"
	}
	if s.IsCaptured {
		result += " [captured]"
	}
	return result
}

// Rebindable reports whether assigning the name again in its own scope is
// a rebind rather than a redeclaration. Names declared global or nonlocal
// refer to a binding elsewhere, so every assignment through them rebinds.
func (s *Symbol) Rebindable() bool {
	return s.IsGlobal || s.IsNonlocal
}

// MarkUsed marks this symbol as used.
func (s *Symbol) MarkUsed() {
	s.Used = true
}
