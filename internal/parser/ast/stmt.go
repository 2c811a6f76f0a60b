package ast

import (
	"github.com/hassan/pyfront/internal/lexer"
)

// ExprStmt is an expression evaluated for its side effects: print(x)
type ExprStmt struct {
	BaseNode
	Value Expr
}

func (e *ExprStmt) stmtNode() {}
func (e *ExprStmt) Accept(v Visitor) error {
	return v.VisitExprStmt(e)
}

// Assign is "t1 = t2 = ... = value". Targets keep their structure, so
// "a, *b = xs" has a single *Tuple target containing a *Starred.
type Assign struct {
	BaseNode
	Targets []Expr
	Value   Expr
}

func (a *Assign) stmtNode() {}
func (a *Assign) Accept(v Visitor) error {
	return v.VisitAssign(a)
}

// AnnAssign is "target: annotation [= value]".
type AnnAssign struct {
	BaseNode
	Target     Expr
	Annotation Expr
	Value      Expr // nil when there is no initializer
}

func (a *AnnAssign) stmtNode() {}
func (a *AnnAssign) Accept(v Visitor) error {
	return v.VisitAnnAssign(a)
}

// AugAssign is "target op= value", e.g. x += 1.
type AugAssign struct {
	BaseNode
	Target Expr
	Op     BinaryOperator
	Value  Expr
}

func (a *AugAssign) stmtNode() {}
func (a *AugAssign) Accept(v Visitor) error {
	return v.VisitAugAssign(a)
}

// Pass is "pass".
type Pass struct {
	BaseNode
}

func (p *Pass) stmtNode() {}
func (p *Pass) Accept(v Visitor) error {
	return v.VisitPass(p)
}

// Break is "break".
type Break struct {
	BaseNode
}

func (b *Break) stmtNode() {}
func (b *Break) Accept(v Visitor) error {
	return v.VisitBreak(b)
}

// Continue is "continue".
type Continue struct {
	BaseNode
}

func (c *Continue) stmtNode() {}
func (c *Continue) Accept(v Visitor) error {
	return v.VisitContinue(c)
}

// Return is "return [value]".
type Return struct {
	BaseNode
	Value Expr
}

func (r *Return) stmtNode() {}
func (r *Return) Accept(v Visitor) error {
	return v.VisitReturn(r)
}

// Assert is "assert test [, msg]".
type Assert struct {
	BaseNode
	Test Expr
	Msg  Expr
}

func (a *Assert) stmtNode() {}
func (a *Assert) Accept(v Visitor) error {
	return v.VisitAssert(a)
}

// Del is "del t1, t2".
type Del struct {
	BaseNode
	Targets []Expr
}

func (d *Del) stmtNode() {}
func (d *Del) Accept(v Visitor) error {
	return v.VisitDel(d)
}

// Global is "global a, b".
type Global struct {
	BaseNode
	Names []*Identifier
}

func (g *Global) stmtNode() {}
func (g *Global) Accept(v Visitor) error {
	return v.VisitGlobal(g)
}

// Nonlocal is "nonlocal a, b".
type Nonlocal struct {
	BaseNode
	Names []*Identifier
}

func (n *Nonlocal) stmtNode() {}
func (n *Nonlocal) Accept(v Visitor) error {
	return v.VisitNonlocal(n)
}

// Raise is "raise [exc [from cause]]".
type Raise struct {
	BaseNode
	Exc   Expr
	Cause Expr
}

func (r *Raise) stmtNode() {}
func (r *Raise) Accept(v Visitor) error {
	return v.VisitRaise(r)
}

// Alias is one imported name: "os.path as p" has Name "os.path" and
// AsName "p".
type Alias struct {
	BaseNode
	Name   string
	AsName string
}

// BoundName returns the name the import makes visible: the alias, or the
// first component of a dotted module name.
func (a *Alias) BoundName() string {
	if a.AsName != "" {
		return a.AsName
	}
	for i := 0; i < len(a.Name); i++ {
		if a.Name[i] == '.' {
			return a.Name[:i]
		}
	}
	return a.Name
}

// Import is "import a.b as c, d".
type Import struct {
	BaseNode
	Names []*Alias
}

func (i *Import) stmtNode() {}
func (i *Import) Accept(v Visitor) error {
	return v.VisitImport(i)
}

// FromImport is "from ..module import a as b, c" or "from m import *".
// Level counts the leading dots of a relative import.
type FromImport struct {
	BaseNode
	Module string
	Level  int
	Names  []*Alias
	Star   bool
}

func (f *FromImport) stmtNode() {}
func (f *FromImport) Accept(v Visitor) error {
	return v.VisitFromImport(f)
}

// If is "if test: body [else: orelse]". An elif chain is a nested If as
// the only statement of Orelse.
type If struct {
	BaseNode
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

func (i *If) stmtNode() {}
func (i *If) Accept(v Visitor) error {
	return v.VisitIf(i)
}

// While is "while test: body [else: orelse]".
type While struct {
	BaseNode
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

func (w *While) stmtNode() {}
func (w *While) Accept(v Visitor) error {
	return v.VisitWhile(w)
}

// For is "[async] for target in iter: body [else: orelse]".
type For struct {
	BaseNode
	Target  Expr
	Iter    Expr
	Body    []Stmt
	Orelse  []Stmt
	IsAsync bool
}

func (f *For) stmtNode() {}
func (f *For) Accept(v Visitor) error {
	return v.VisitFor(f)
}

// ParamKind says how an argument is bound to a parameter.
type ParamKind int

const (
	ParamNormal         ParamKind = iota // a, a=1
	ParamPositionalOnly                  // before "/"
	ParamVarArgs                         // *args
	ParamKeywordOnly                     // after "*" or "*args"
	ParamVarKeywords                     // **kwargs
)

func (k ParamKind) String() string {
	switch k {
	case ParamNormal:
		return "normal"
	case ParamPositionalOnly:
		return "positional-only"
	case ParamVarArgs:
		return "varargs"
	case ParamKeywordOnly:
		return "keyword-only"
	case ParamVarKeywords:
		return "varkeywords"
	}
	return "?"
}

// Param is one function or lambda parameter.
type Param struct {
	BaseNode
	Name       string
	Annotation Expr
	Default    Expr
	Kind       ParamKind
}

// FunctionDef is "[@decorators] [async] def name(params) [-> returns]: body".
type FunctionDef struct {
	BaseNode
	Name       string
	NamePos    lexer.Position
	Params     []*Param
	Returns    Expr
	Body       []Stmt
	Decorators []Expr
	IsAsync    bool
}

func (f *FunctionDef) stmtNode() {}
func (f *FunctionDef) Accept(v Visitor) error {
	return v.VisitFunctionDef(f)
}

// ClassDef is "[@decorators] class name(bases, metaclass=m): body".
type ClassDef struct {
	BaseNode
	Name       string
	NamePos    lexer.Position
	Bases      []Expr
	Metaclass  Expr
	Body       []Stmt
	Decorators []Expr
}

func (c *ClassDef) stmtNode() {}
func (c *ClassDef) Accept(v Visitor) error {
	return v.VisitClassDef(c)
}

// ExceptHandler is "except [type [as name]]: body".
type ExceptHandler struct {
	BaseNode
	Type    Expr
	Name    string
	NamePos lexer.Position
	Body    []Stmt
}

// Try is "try: body except...: ... else: orelse finally: finalbody".
type Try struct {
	BaseNode
	Body      []Stmt
	Handlers  []*ExceptHandler
	Orelse    []Stmt
	Finalbody []Stmt
}

func (t *Try) stmtNode() {}
func (t *Try) Accept(v Visitor) error {
	return v.VisitTry(t)
}

// WithItem is one "context [as target]" of a with statement.
type WithItem struct {
	BaseNode
	Context Expr
	Target  Expr
}

// With is "[async] with a as b, c: body".
type With struct {
	BaseNode
	Items   []*WithItem
	Body    []Stmt
	IsAsync bool
}

func (w *With) stmtNode() {}
func (w *With) Accept(v Visitor) error {
	return v.VisitWith(w)
}
