package symtab

import (
	"fmt"
)

// ScopeKind represents the kind of scope.
//
// The kinds differ in how names flow through them:
//   - Module and Function scopes are opaque: names bound inside are
//     invisible outside.
//   - Class scopes are opaque too, and are additionally skipped when a
//     function nested in the class resolves a name.
//   - Block scopes hold comprehension variables.
type ScopeKind int

const (
	// ScopeModule is the root scope of a source file.
	ScopeModule ScopeKind = iota

	// ScopeFunction is a def or lambda body (parameters and locals).
	ScopeFunction

	// ScopeClass is a class body.
	ScopeClass

	// ScopeBlock is a comprehension.
	ScopeBlock
)

// String returns a human-readable representation of the scope kind.
func (sk ScopeKind) String() string {
	switch sk {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeClass:
		return "class"
	case ScopeBlock:
		return "block"
	default:
		return "unknown"
	}
}

// ScopeID identifies a scope within its Table.
type ScopeID int

// NoScope is the parent of the root scope.
const NoScope ScopeID = -1

// Scope is a lexical region in which declared names are visible.
//
// EXAMPLE:
//
//	x = 1              # module scope
//	def foo(n):        # function scope: n, y (sees x)
//	    y = [i for i in range(n)]   # block scope: i
//	    if y:
//	        z = 2      # if is transparent: z lives in foo's scope
//	class C:           # class scope: attr
//	    attr = x
type Scope struct {
	// ID is the scope's index in its table's arena.
	ID ScopeID

	// Kind is the kind of scope
	Kind ScopeKind

	// Parent is the enclosing scope (NoScope for the module scope)
	Parent ScopeID

	// Symbols maps names to their symbols in this scope
	Symbols map[string]*Symbol

	// Children are the scopes nested inside this one, in entry order.
	Children []ScopeID

	// Depth is the nesting depth (0 for the module scope).
	Depth int

	// Name labels the scope for debugging: the function or class name,
	// "<lambda>", "<listcomp>" and so on. Empty for the module scope.
	Name string

	order []*Symbol
}

// LookupLocal finds a symbol by name only in this scope (not parent scopes).
func (s *Scope) LookupLocal(name string) *Symbol {
	return s.Symbols[name]
}

// IsModule returns true if this is the module scope.
func (s *Scope) IsModule() bool {
	return s.Kind == ScopeModule
}

// IsFunction returns true if this is a function scope.
func (s *Scope) IsFunction() bool {
	return s.Kind == ScopeFunction
}

// IsClass returns true if this is a class scope.
func (s *Scope) IsClass() bool {
	return s.Kind == ScopeClass
}

// LocalSymbols returns all symbols declared in this scope, in
// declaration order.
func (s *Scope) LocalSymbols() []*Symbol {
	symbols := make([]*Symbol, len(s.order))
	copy(symbols, s.order)
	return symbols
}

// UnusedSymbols returns the symbols in this scope that were never read,
// in declaration order.
func (s *Scope) UnusedSymbols() []*Symbol {
	unused := make([]*Symbol, 0)
	for _, symbol := range s.order {
		if !symbol.Used {
			unused = append(unused, symbol)
		}
	}
	return unused
}

// String returns a human-readable representation of the scope.
// Shows the scope kind, name, depth and number of symbols.
func (s *Scope) String() string {
	label := s.Kind.String() + " scope"
	if s.Name != "" {
		label += " " + s.Name
	}
	return fmt.Sprintf("%s (depth %d, %d symbols)", label, s.Depth, len(s.Symbols))
}

func (s *Scope) add(symbol *Symbol) {
	s.Symbols[symbol.Name] = symbol
	s.order = append(s.order, symbol)
}
