// Package ast defines the abstract syntax tree produced by the parser.
//
// The tree is strictly owned: every child node belongs to exactly one
// parent and compound statements own their statement slices. Every node
// records where it starts and ends in the source so later stages can
// report errors with a precise location.
//
// Two traversal styles are offered. Accept dispatches to a Visitor and is
// what the semantic analyzer uses; Walk is a plain depth-first walk for
// tooling that only needs to look at nodes.
package ast

import (
	"github.com/hassan/pyfront/internal/lexer"
)

// Node is implemented by every AST node.
type Node interface {
	// Pos returns the position of the first character of the node.
	Pos() lexer.Position

	// End returns the position just past the node.
	End() lexer.Position
}

// Expr is an expression node: something that produces a value.
type Expr interface {
	Node
	Accept(v Visitor) (interface{}, error)
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	Accept(v Visitor) error
	stmtNode()
}

// Visitor is the interface for operations over the tree.
//
// Expression methods return a value so that visitors such as a type
// inferencer can hand results back to the caller; statement methods only
// report failure.
//
// EXAMPLE:
//
//	func (a *Analyzer) VisitBinaryOp(e *ast.BinaryOp) (interface{}, error) {
//	    left, _ := e.Left.Accept(a)
//	    right, _ := e.Right.Accept(a)
//	    ...
//	}
type Visitor interface {
	// Expression visitors
	VisitLiteral(expr *Literal) (interface{}, error)
	VisitIdentifier(expr *Identifier) (interface{}, error)
	VisitBinaryOp(expr *BinaryOp) (interface{}, error)
	VisitUnaryOp(expr *UnaryOp) (interface{}, error)
	VisitCompare(expr *Compare) (interface{}, error)
	VisitParenthesized(expr *Parenthesized) (interface{}, error)
	VisitCall(expr *Call) (interface{}, error)
	VisitAttribute(expr *Attribute) (interface{}, error)
	VisitSubscript(expr *Subscript) (interface{}, error)
	VisitSlice(expr *Slice) (interface{}, error)
	VisitList(expr *List) (interface{}, error)
	VisitTuple(expr *Tuple) (interface{}, error)
	VisitDict(expr *Dict) (interface{}, error)
	VisitSet(expr *Set) (interface{}, error)
	VisitLambda(expr *Lambda) (interface{}, error)
	VisitConditional(expr *Conditional) (interface{}, error)
	VisitNamedExpr(expr *NamedExpr) (interface{}, error)
	VisitListComp(expr *ListComp) (interface{}, error)
	VisitSetComp(expr *SetComp) (interface{}, error)
	VisitDictComp(expr *DictComp) (interface{}, error)
	VisitGeneratorExp(expr *GeneratorExp) (interface{}, error)
	VisitStarred(expr *Starred) (interface{}, error)
	VisitYield(expr *Yield) (interface{}, error)
	VisitAwait(expr *Await) (interface{}, error)

	// Statement visitors
	VisitExprStmt(stmt *ExprStmt) error
	VisitAssign(stmt *Assign) error
	VisitAnnAssign(stmt *AnnAssign) error
	VisitAugAssign(stmt *AugAssign) error
	VisitPass(stmt *Pass) error
	VisitBreak(stmt *Break) error
	VisitContinue(stmt *Continue) error
	VisitReturn(stmt *Return) error
	VisitAssert(stmt *Assert) error
	VisitDel(stmt *Del) error
	VisitGlobal(stmt *Global) error
	VisitNonlocal(stmt *Nonlocal) error
	VisitRaise(stmt *Raise) error
	VisitImport(stmt *Import) error
	VisitFromImport(stmt *FromImport) error
	VisitIf(stmt *If) error
	VisitWhile(stmt *While) error
	VisitFor(stmt *For) error
	VisitFunctionDef(stmt *FunctionDef) error
	VisitClassDef(stmt *ClassDef) error
	VisitTry(stmt *Try) error
	VisitWith(stmt *With) error
}

// BaseNode stores the source range of a node. All concrete nodes embed it.
type BaseNode struct {
	StartPos lexer.Position
	EndPos   lexer.Position
}

func (b *BaseNode) Pos() lexer.Position { return b.StartPos }
func (b *BaseNode) End() lexer.Position { return b.EndPos }

// Span returns the source range of the node.
func (b *BaseNode) Span() lexer.Span {
	return lexer.Span{Start: b.StartPos, End: b.EndPos}
}

// Module is the root of a parsed source unit.
type Module struct {
	BaseNode

	Body []Stmt

	// Comments holds every comment of the file in source order. They are
	// not part of the tree proper but tooling can use them.
	Comments []*Comment

	Filename string
}

// Comment is a "#" comment. Text includes the leading "#".
type Comment struct {
	BaseNode
	Text string
}
