package lint

import (
	"github.com/hassan/pyfront/internal/parser/ast"
)

// UnreachablePass reports the first statement of a block that can never
// run because an earlier statement of the same block always leaves it.
//
// A statement always leaves its block when it is a return, raise, break or
// continue; an if whose branches all leave; a "while True" loop without a
// break; or a try whose finally clause leaves, or whose body and every
// handler leave. A with statement never counts, since its context manager
// may swallow an exception.
//
// EXAMPLE:
//
//	def f():
//	    return 1
//	    print("never")   # Unreachable code after 'return'
//
// Only the first dead statement of a block is reported.
type UnreachablePass struct{}

// Name returns the name of this pass.
func (u *UnreachablePass) Name() string {
	return "unreachable"
}

// Run checks every statement block in mod.
func (u *UnreachablePass) Run(mod *ast.Module) []Finding {
	var findings []Finding
	check := func(block []ast.Stmt) {
		for i, stmt := range block {
			exit, ok := exits(stmt)
			if !ok {
				continue
			}
			if i+1 < len(block) {
				dead := block[i+1]
				findings = append(findings, Finding{
					Pass:    u.Name(),
					Message: "Unreachable code after " + exit,
					Pos:     dead.Pos(),
					End:     dead.End(),
				})
			}
			return
		}
	}

	check(mod.Body)
	ast.Walk(mod, func(node ast.Node) bool {
		switch n := node.(type) {
		case *ast.If:
			check(n.Body)
			check(n.Orelse)
		case *ast.While:
			check(n.Body)
			check(n.Orelse)
		case *ast.For:
			check(n.Body)
			check(n.Orelse)
		case *ast.FunctionDef:
			check(n.Body)
		case *ast.ClassDef:
			check(n.Body)
		case *ast.Try:
			check(n.Body)
			check(n.Orelse)
			check(n.Finalbody)
		case *ast.ExceptHandler:
			check(n.Body)
		case *ast.With:
			check(n.Body)
		}
		return true
	})
	return findings
}

// exits describes how stmt always leaves its block, if it does.
func exits(stmt ast.Stmt) (string, bool) {
	switch n := stmt.(type) {
	case *ast.Return:
		return "'return'", true
	case *ast.Raise:
		return "'raise'", true
	case *ast.Break:
		return "'break'", true
	case *ast.Continue:
		return "'continue'", true
	case *ast.If:
		if blockExits(n.Body) && blockExits(n.Orelse) {
			return "an 'if' whose branches all exit", true
		}
	case *ast.While:
		if truth, ok := constantTruth(n.Test); ok && truth && !hasBreak(n.Body) {
			return "an endless 'while' loop", true
		}
	case *ast.Try:
		if blockExits(n.Finalbody) {
			return "a 'finally' that always exits", true
		}
		if len(n.Handlers) == 0 || !blockExits(n.Body) {
			return "", false
		}
		for _, h := range n.Handlers {
			if !blockExits(h.Body) {
				return "", false
			}
		}
		return "a 'try' whose body and handlers all exit", true
	}
	return "", false
}

// blockExits reports whether any statement of block always leaves it. An
// empty block falls through.
func blockExits(block []ast.Stmt) bool {
	for _, stmt := range block {
		if _, ok := exits(stmt); ok {
			return true
		}
	}
	return false
}

// hasBreak reports whether block contains a break that targets the loop
// owning block. Nested loops and definitions are not searched.
func hasBreak(block []ast.Stmt) bool {
	for _, stmt := range block {
		switch n := stmt.(type) {
		case *ast.Break:
			return true
		case *ast.If:
			if hasBreak(n.Body) || hasBreak(n.Orelse) {
				return true
			}
		case *ast.Try:
			if hasBreak(n.Body) || hasBreak(n.Orelse) || hasBreak(n.Finalbody) {
				return true
			}
			for _, h := range n.Handlers {
				if hasBreak(h.Body) {
					return true
				}
			}
		case *ast.With:
			if hasBreak(n.Body) {
				return true
			}
		case *ast.While:
			if hasBreak(n.Orelse) {
				return true
			}
		case *ast.For:
			if hasBreak(n.Orelse) {
				return true
			}
		}
	}
	return false
}
