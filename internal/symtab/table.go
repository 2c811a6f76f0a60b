package symtab

import (
	"strings"

	"github.com/hassan/pyfront/internal/lexer"
	"github.com/hassan/pyfront/internal/semantic/types"
)

// Table is the scope tree plus a cursor on the current scope.
//
// A new table has a single module scope, which is current. EnterScope
// creates a child of the current scope and moves the cursor into it;
// ExitScope moves it back to the parent.
//
// USAGE:
//
//	table := symtab.NewTable()
//	table.Declare("x", symtab.SymbolVariable, pos)
//	table.EnterScope(symtab.ScopeFunction)
//	table.Lookup("x")  // found in the module scope
//	table.ExitScope()
type Table struct {
	scopes  []*Scope
	current ScopeID
}

// NewTable creates a table holding only the module scope.
func NewTable() *Table {
	t := &Table{}
	t.current = t.newScope(ScopeModule, NoScope)
	return t
}

func (t *Table) newScope(kind ScopeKind, parent ScopeID) ScopeID {
	id := ScopeID(len(t.scopes))
	scope := &Scope{
		ID:      id,
		Kind:    kind,
		Parent:  parent,
		Symbols: make(map[string]*Symbol),
	}
	if parent != NoScope {
		p := t.scopes[parent]
		scope.Depth = p.Depth + 1
		p.Children = append(p.Children, id)
	}
	t.scopes = append(t.scopes, scope)
	return id
}

// EnterScope creates a new child of the current scope, makes it current
// and returns its ID.
func (t *Table) EnterScope(kind ScopeKind) ScopeID {
	t.current = t.newScope(kind, t.current)
	return t.current
}

// EnterNamedScope is EnterScope with a debug label.
func (t *Table) EnterNamedScope(kind ScopeKind, name string) ScopeID {
	id := t.EnterScope(kind)
	t.scopes[id].Name = name
	return id
}

// ExitScope makes the parent of the current scope current. It returns
// false, and does nothing, at the module scope.
func (t *Table) ExitScope() bool {
	parent := t.scopes[t.current].Parent
	if parent == NoScope {
		return false
	}
	t.current = parent
	return true
}

// Activate makes an existing scope current and returns the previously
// current scope. The analyzer uses it to come back to a function scope
// whose body is checked after the enclosing body.
func (t *Table) Activate(id ScopeID) ScopeID {
	prev := t.current
	if id >= 0 && int(id) < len(t.scopes) {
		t.current = id
	}
	return prev
}

// Declare binds name in the current scope.
//
// RETURNS:
//   - the new symbol and true on success
//   - the existing symbol and false if the current scope already binds
//     name; the table is left unchanged
//
// Only the current scope is checked, so shadowing an outer name always
// succeeds.
func (t *Table) Declare(name string, kind SymbolKind, pos lexer.Position) (*Symbol, bool) {
	scope := t.scopes[t.current]
	if existing, ok := scope.Symbols[name]; ok {
		return existing, false
	}
	symbol := &Symbol{
		Name:    name,
		Kind:    kind,
		Type:    types.Unknown,
		Pos:     pos,
		ScopeID: t.current,
	}
	scope.add(symbol)
	return symbol, true
}

// Lookup finds name in the current scope or any ancestor, innermost
// first, and marks the symbol used. It returns nil if no scope binds it.
func (t *Table) Lookup(name string) *Symbol {
	for id := t.current; id != NoScope; id = t.scopes[id].Parent {
		if symbol, ok := t.scopes[id].Symbols[name]; ok {
			symbol.MarkUsed()
			return symbol
		}
	}
	return nil
}

// LookupCurrentScope finds name in the current scope only.
func (t *Table) LookupCurrentScope(name string) *Symbol {
	return t.scopes[t.current].Symbols[name]
}

// LookupInEnclosingFunctionScopes finds name in the function scopes that
// strictly enclose the current one, stopping before the module scope.
// This is the search a nonlocal statement performs.
func (t *Table) LookupInEnclosingFunctionScopes(name string) *Symbol {
	for id := t.scopes[t.current].Parent; id != NoScope; id = t.scopes[id].Parent {
		scope := t.scopes[id]
		if scope.IsModule() {
			return nil
		}
		if !scope.IsFunction() {
			continue
		}
		if symbol, ok := scope.Symbols[name]; ok {
			return symbol
		}
	}
	return nil
}

// Resolve finds the binding a read of name refers to.
//
// It differs from Lookup in one way: class scopes other than the current
// one are skipped, so a method does not see the attributes of the class
// it is defined in.
//
// EXAMPLE:
//
//	class C:
//	    y = 1
//	    z = y        # resolves to C.y
//	    def m(self):
//	        return y # skips C, resolves in the module
func (t *Table) Resolve(name string) *Symbol {
	for id := t.current; id != NoScope; id = t.scopes[id].Parent {
		scope := t.scopes[id]
		if scope.IsClass() && id != t.current {
			continue
		}
		if symbol, ok := scope.Symbols[name]; ok {
			symbol.MarkUsed()
			return symbol
		}
	}
	return nil
}

// Scope returns the scope with the given ID, or nil.
func (t *Table) Scope(id ScopeID) *Scope {
	if id < 0 || int(id) >= len(t.scopes) {
		return nil
	}
	return t.scopes[id]
}

// Current returns the current scope.
func (t *Table) Current() *Scope {
	return t.scopes[t.current]
}

// CurrentID returns the ID of the current scope.
func (t *Table) CurrentID() ScopeID {
	return t.current
}

// Root returns the module scope.
func (t *Table) Root() *Scope {
	return t.scopes[0]
}

// Len returns the number of scopes in the table.
func (t *Table) Len() int {
	return len(t.scopes)
}

// EnclosingFunction returns the nearest function scope at or above the
// current scope, or nil at module level.
func (t *Table) EnclosingFunction() *Scope {
	for id := t.current; id != NoScope; id = t.scopes[id].Parent {
		if t.scopes[id].IsFunction() {
			return t.scopes[id]
		}
	}
	return nil
}

// DebugString returns the scope tree with each scope's symbols, indented
// by depth.
//
// EXAMPLE OUTPUT:
//
//	module scope (depth 0, 2 symbols)
//	  variable x: int at 1:1
//	  function foo: Callable[[Any], None] at 2:5
//	  function scope foo (depth 1, 1 symbols)
//	    parameter n: Any at 2:9
func (t *Table) DebugString() string {
	var sb strings.Builder

	type frame struct {
		id     ScopeID
		indent int
	}
	stack := []frame{{id: 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		scope := t.scopes[f.id]
		prefix := strings.Repeat("  ", f.indent)
		sb.WriteString(prefix + scope.String() + "\n")
		for _, symbol := range scope.order {
			sb.WriteString(prefix + "  " + symbol.String() + "\n")
		}

		for i := len(scope.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: scope.Children[i], indent: f.indent + 1})
		}
	}
	return sb.String()
}
