package ast

import (
	"github.com/hassan/pyfront/internal/lexer"
)

// BinaryOperator identifies the operator of a BinaryOp or AugAssign.
type BinaryOperator int

const (
	Add BinaryOperator = iota
	Subtract
	Multiply
	Divide
	FloorDivide
	Modulo
	Power
	MatMul
	LeftShift
	RightShift
	BitOr
	BitXor
	BitAnd
	And
	Or
)

var binaryOperatorText = [...]string{
	Add:         "+",
	Subtract:    "-",
	Multiply:    "*",
	Divide:      "/",
	FloorDivide: "//",
	Modulo:      "%",
	Power:       "**",
	MatMul:      "@",
	LeftShift:   "<<",
	RightShift:  ">>",
	BitOr:       "|",
	BitXor:      "^",
	BitAnd:      "&",
	And:         "and",
	Or:          "or",
}

var binaryOperatorNames = [...]string{
	Add:         "Add",
	Subtract:    "Subtract",
	Multiply:    "Multiply",
	Divide:      "Divide",
	FloorDivide: "FloorDivide",
	Modulo:      "Modulo",
	Power:       "Power",
	MatMul:      "MatMul",
	LeftShift:   "LeftShift",
	RightShift:  "RightShift",
	BitOr:       "BitOr",
	BitXor:      "BitXor",
	BitAnd:      "BitAnd",
	And:         "And",
	Or:          "Or",
}

// String returns the operator name, e.g. "Add".
func (op BinaryOperator) String() string {
	if op < 0 || int(op) >= len(binaryOperatorNames) {
		return "?"
	}
	return binaryOperatorNames[op]
}

// Symbol returns the source spelling, e.g. "+".
func (op BinaryOperator) Symbol() string {
	if op < 0 || int(op) >= len(binaryOperatorText) {
		return "?"
	}
	return binaryOperatorText[op]
}

// IsLogical reports whether op short-circuits ("and", "or").
func (op BinaryOperator) IsLogical() bool {
	return op == And || op == Or
}

// UnaryOperator identifies the operator of a UnaryOp.
type UnaryOperator int

const (
	Not UnaryOperator = iota
	Negate
	UnaryPlus
	Invert
)

func (op UnaryOperator) String() string {
	switch op {
	case Not:
		return "Not"
	case Negate:
		return "Negate"
	case UnaryPlus:
		return "Plus"
	case Invert:
		return "Invert"
	}
	return "?"
}

// CompareOperator is one link of a comparison chain.
type CompareOperator int

const (
	Eq CompareOperator = iota
	NotEq
	Lt
	LtE
	Gt
	GtE
	In
	NotIn
	Is
	IsNot
)

var compareOperatorText = [...]string{
	Eq:    "==",
	NotEq: "!=",
	Lt:    "<",
	LtE:   "<=",
	Gt:    ">",
	GtE:   ">=",
	In:    "in",
	NotIn: "not in",
	Is:    "is",
	IsNot: "is not",
}

// String returns the source spelling, e.g. "not in".
func (op CompareOperator) String() string {
	if op < 0 || int(op) >= len(compareOperatorText) {
		return "?"
	}
	return compareOperatorText[op]
}

// LiteralKind classifies a Literal.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitBytes
	LitTrue
	LitFalse
	LitNone
	LitEllipsis
)

func (k LiteralKind) String() string {
	switch k {
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitString:
		return "str"
	case LitBytes:
		return "bytes"
	case LitTrue:
		return "True"
	case LitFalse:
		return "False"
	case LitNone:
		return "None"
	case LitEllipsis:
		return "Ellipsis"
	}
	return "?"
}

// Literal is a constant: 42, 3.14, "text", b"raw", True, False, None, ...
//
// Value holds int64, float64, string or bool; it is nil for None and the
// ellipsis. Adjacent string literals are joined into one Literal.
type Literal struct {
	BaseNode
	Kind   LiteralKind
	Value  interface{}
	Prefix lexer.StringPrefix
}

func (l *Literal) exprNode() {}
func (l *Literal) Accept(v Visitor) (interface{}, error) {
	return v.VisitLiteral(l)
}

// Identifier is a name reference: foo, _tmp, self.
type Identifier struct {
	BaseNode
	Name string
}

func (i *Identifier) exprNode() {}
func (i *Identifier) Accept(v Visitor) (interface{}, error) {
	return v.VisitIdentifier(i)
}

// BinaryOp is "left op right", including the boolean operators and/or.
type BinaryOp struct {
	BaseNode
	Left  Expr
	Op    BinaryOperator
	Right Expr
}

func (b *BinaryOp) exprNode() {}
func (b *BinaryOp) Accept(v Visitor) (interface{}, error) {
	return v.VisitBinaryOp(b)
}

// UnaryOp is "op operand": not x, -x, +x, ~x.
type UnaryOp struct {
	BaseNode
	Op      UnaryOperator
	Operand Expr
}

func (u *UnaryOp) exprNode() {}
func (u *UnaryOp) Accept(v Visitor) (interface{}, error) {
	return v.VisitUnaryOp(u)
}

// Compare is a comparison chain: a < b <= c has Left a, Ops [<, <=] and
// Comparators [b, c]. len(Ops) == len(Comparators) >= 1.
type Compare struct {
	BaseNode
	Left        Expr
	Ops         []CompareOperator
	Comparators []Expr
}

func (c *Compare) exprNode() {}
func (c *Compare) Accept(v Visitor) (interface{}, error) {
	return v.VisitCompare(c)
}

// Parenthesized is "(expr)". It is kept so that tools can reproduce the
// source; it has no semantic effect.
type Parenthesized struct {
	BaseNode
	Inner Expr
}

func (p *Parenthesized) exprNode() {}
func (p *Parenthesized) Accept(v Visitor) (interface{}, error) {
	return v.VisitParenthesized(p)
}

// Call is "func(args, name=value, *rest, **opts)". Positional "*rest"
// arguments appear in Args as *Starred; "**opts" appears in Keywords with
// an empty Name.
type Call struct {
	BaseNode
	Func     Expr
	Args     []Expr
	Keywords []*Keyword
}

func (c *Call) exprNode() {}
func (c *Call) Accept(v Visitor) (interface{}, error) {
	return v.VisitCall(c)
}

// Keyword is a "name=value" call argument, or "**value" when Name is "".
type Keyword struct {
	BaseNode
	Name  string
	Value Expr
}

// Attribute is "value.attr".
type Attribute struct {
	BaseNode
	Value Expr
	Attr  string
}

func (a *Attribute) exprNode() {}
func (a *Attribute) Accept(v Visitor) (interface{}, error) {
	return v.VisitAttribute(a)
}

// Subscript is "value[index]". A multi-dimensional index is a *Tuple and
// a slice index is a *Slice.
type Subscript struct {
	BaseNode
	Value Expr
	Index Expr
}

func (s *Subscript) exprNode() {}
func (s *Subscript) Accept(v Visitor) (interface{}, error) {
	return v.VisitSubscript(s)
}

// Slice is "lower:upper:step" inside a subscript; every part is optional.
type Slice struct {
	BaseNode
	Lower Expr
	Upper Expr
	Step  Expr
}

func (s *Slice) exprNode() {}
func (s *Slice) Accept(v Visitor) (interface{}, error) {
	return v.VisitSlice(s)
}

// List is "[a, b, c]".
type List struct {
	BaseNode
	Elts []Expr
}

func (l *List) exprNode() {}
func (l *List) Accept(v Visitor) (interface{}, error) {
	return v.VisitList(l)
}

// Tuple is "a, b" or "(a, b)" or "()".
type Tuple struct {
	BaseNode
	Elts []Expr
}

func (t *Tuple) exprNode() {}
func (t *Tuple) Accept(v Visitor) (interface{}, error) {
	return v.VisitTuple(t)
}

// Dict is "{k: v, **other}". Keys and Values have equal length; a nil key
// marks a "**" unpacking of the matching value.
type Dict struct {
	BaseNode
	Keys   []Expr
	Values []Expr
}

func (d *Dict) exprNode() {}
func (d *Dict) Accept(v Visitor) (interface{}, error) {
	return v.VisitDict(d)
}

// Set is "{a, b}".
type Set struct {
	BaseNode
	Elts []Expr
}

func (s *Set) exprNode() {}
func (s *Set) Accept(v Visitor) (interface{}, error) {
	return v.VisitSet(s)
}

// Lambda is "lambda params: body".
type Lambda struct {
	BaseNode
	Params []*Param
	Body   Expr
}

func (l *Lambda) exprNode() {}
func (l *Lambda) Accept(v Visitor) (interface{}, error) {
	return v.VisitLambda(l)
}

// Conditional is "body if test else orelse".
type Conditional struct {
	BaseNode
	Test   Expr
	Body   Expr
	Orelse Expr
}

func (c *Conditional) exprNode() {}
func (c *Conditional) Accept(v Visitor) (interface{}, error) {
	return v.VisitConditional(c)
}

// NamedExpr is the walrus form "target := value".
type NamedExpr struct {
	BaseNode
	Target *Identifier
	Value  Expr
}

func (n *NamedExpr) exprNode() {}
func (n *NamedExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitNamedExpr(n)
}

// Comprehension is one "for target in iter if cond..." clause.
type Comprehension struct {
	BaseNode
	Target  Expr
	Iter    Expr
	Ifs     []Expr
	IsAsync bool
}

// ListComp is "[elt for ...]".
type ListComp struct {
	BaseNode
	Elt        Expr
	Generators []*Comprehension
}

func (l *ListComp) exprNode() {}
func (l *ListComp) Accept(v Visitor) (interface{}, error) {
	return v.VisitListComp(l)
}

// SetComp is "{elt for ...}".
type SetComp struct {
	BaseNode
	Elt        Expr
	Generators []*Comprehension
}

func (s *SetComp) exprNode() {}
func (s *SetComp) Accept(v Visitor) (interface{}, error) {
	return v.VisitSetComp(s)
}

// DictComp is "{key: value for ...}".
type DictComp struct {
	BaseNode
	Key        Expr
	Value      Expr
	Generators []*Comprehension
}

func (d *DictComp) exprNode() {}
func (d *DictComp) Accept(v Visitor) (interface{}, error) {
	return v.VisitDictComp(d)
}

// GeneratorExp is "(elt for ...)", or a bare generator as the only call
// argument: sum(x for x in xs).
type GeneratorExp struct {
	BaseNode
	Elt        Expr
	Generators []*Comprehension
}

func (g *GeneratorExp) exprNode() {}
func (g *GeneratorExp) Accept(v Visitor) (interface{}, error) {
	return v.VisitGeneratorExp(g)
}

// Starred is "*value" in a target list, a display or a call.
type Starred struct {
	BaseNode
	Value Expr
}

func (s *Starred) exprNode() {}
func (s *Starred) Accept(v Visitor) (interface{}, error) {
	return v.VisitStarred(s)
}

// Yield is "yield value" or, when From is set, "yield from value".
// Value is nil for a bare yield.
type Yield struct {
	BaseNode
	Value Expr
	From  bool
}

func (y *Yield) exprNode() {}
func (y *Yield) Accept(v Visitor) (interface{}, error) {
	return v.VisitYield(y)
}

// Await is "await value".
type Await struct {
	BaseNode
	Value Expr
}

func (a *Await) exprNode() {}
func (a *Await) Accept(v Visitor) (interface{}, error) {
	return v.VisitAwait(a)
}
