package lint

import (
	"math"
	"strings"

	"github.com/hassan/pyfront/internal/lexer"
	"github.com/hassan/pyfront/internal/parser/ast"
)

// ConstantConditionPass reports conditions whose value is known without
// running the program, and divisions by a literal zero.
//
// Literal int, float, str and bool operands are folded through unary,
// binary, comparison and boolean operators the way Python evaluates them.
// Anything involving a name, call or container element stays unknown.
//
// EXAMPLE:
//
//	if 2 > 3:            # Condition is always false
//	while 0:             # Loop condition is always false
//	assert (x, "msg")    # Assertion on a non-empty tuple is always true
//	y = n // 0           # Division by zero
//
// "while True" and "while 1" are accepted without a warning.
type ConstantConditionPass struct{}

// Name returns the name of this pass.
func (c *ConstantConditionPass) Name() string {
	return "constant-condition"
}

// Run checks every condition and division in mod.
func (c *ConstantConditionPass) Run(mod *ast.Module) []Finding {
	var findings []Finding
	report := func(node ast.Node, msg string) {
		findings = append(findings, Finding{Pass: c.Name(), Message: msg, Pos: node.Pos(), End: node.End()})
	}

	ast.Walk(mod, func(node ast.Node) bool {
		switch n := node.(type) {
		case *ast.If:
			if truth, ok := constantTruth(n.Test); ok {
				report(n.Test, conditionMessage(truth))
			}
		case *ast.Conditional:
			if truth, ok := constantTruth(n.Test); ok {
				report(n.Test, conditionMessage(truth))
			}
		case *ast.While:
			if truth, ok := constantTruth(n.Test); ok && !truth {
				report(n.Test, "Loop condition is always false")
			}
		case *ast.Assert:
			if t, ok := unparen(n.Test).(*ast.Tuple); ok && len(t.Elts) > 0 {
				report(n.Test, "Assertion on a non-empty tuple is always true")
			}
		case *ast.BinaryOp:
			if msg := zeroDivision(n); msg != "" {
				report(n.Right, msg)
			}
		}
		return true
	})
	return findings
}

func conditionMessage(truth bool) string {
	if truth {
		return "Condition is always true"
	}
	return "Condition is always false"
}

// zeroDivision returns a message when n divides by a literal zero.
// "%" with a string on the left is formatting and is never reported.
func zeroDivision(n *ast.BinaryOp) string {
	if n.Op != ast.Divide && n.Op != ast.FloorDivide && n.Op != ast.Modulo {
		return ""
	}
	right, ok := fold(n.Right)
	if !ok || !isZero(right) {
		return ""
	}
	if n.Op == ast.Modulo {
		if left, ok := fold(n.Left); ok {
			if _, isStr := left.(string); isStr {
				return ""
			}
		}
		return "Modulo by zero"
	}
	return "Division by zero"
}

func isZero(v interface{}) bool {
	switch x := v.(type) {
	case int64:
		return x == 0
	case float64:
		return x == 0
	case bool:
		return !x
	}
	return false
}

// none is the folded value of the None literal.
type none struct{}

func unparen(e ast.Expr) ast.Expr {
	for {
		p, ok := e.(*ast.Parenthesized)
		if !ok {
			return e
		}
		e = p.Inner
	}
}

// constantTruth reports the truth value of e when it is known. Container
// displays are known to be truthy when they have elements and no
// unpacking, whatever the elements are.
func constantTruth(e ast.Expr) (bool, bool) {
	switch n := unparen(e).(type) {
	case *ast.List:
		return displayTruth(n.Elts)
	case *ast.Tuple:
		return displayTruth(n.Elts)
	case *ast.Set:
		return displayTruth(n.Elts)
	case *ast.Dict:
		for _, k := range n.Keys {
			if k == nil {
				return false, false
			}
		}
		return len(n.Values) > 0, true
	}
	v, ok := fold(e)
	if !ok {
		return false, false
	}
	return truthy(v), true
}

func displayTruth(elts []ast.Expr) (bool, bool) {
	for _, e := range elts {
		if _, ok := e.(*ast.Starred); ok {
			return false, false
		}
	}
	return len(elts) > 0, true
}

func truthy(v interface{}) bool {
	switch x := v.(type) {
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	case bool:
		return x
	}
	return false
}

// fold evaluates e if it is built from literals only. The result is an
// int64, float64, string, bool or none.
func fold(e ast.Expr) (interface{}, bool) {
	switch n := e.(type) {
	case *ast.Parenthesized:
		return fold(n.Inner)
	case *ast.Literal:
		switch n.Kind {
		case ast.LitString:
			// f-strings are not interpolated, so their value is unknown.
			if n.Prefix.Has(lexer.PrefixFormat) {
				return nil, false
			}
			return n.Value, n.Value != nil
		case ast.LitInt, ast.LitFloat:
			return n.Value, n.Value != nil
		case ast.LitTrue:
			return true, true
		case ast.LitFalse:
			return false, true
		case ast.LitNone:
			return none{}, true
		}
	case *ast.UnaryOp:
		v, ok := fold(n.Operand)
		if !ok {
			return nil, false
		}
		return foldUnary(n.Op, v)
	case *ast.BinaryOp:
		return foldBinary(n)
	case *ast.Compare:
		return foldCompare(n)
	}
	return nil, false
}

func foldUnary(op ast.UnaryOperator, v interface{}) (interface{}, bool) {
	if op == ast.Not {
		return !truthy(v), true
	}
	v = promoteBool(v)
	switch x := v.(type) {
	case int64:
		switch op {
		case ast.Negate:
			if x == math.MinInt64 {
				return nil, false
			}
			return -x, true
		case ast.UnaryPlus:
			return x, true
		case ast.Invert:
			return ^x, true
		}
	case float64:
		switch op {
		case ast.Negate:
			return -x, true
		case ast.UnaryPlus:
			return x, true
		}
	}
	return nil, false
}

func foldBinary(n *ast.BinaryOp) (interface{}, bool) {
	left, ok := fold(n.Left)
	if !ok {
		return nil, false
	}

	switch n.Op {
	case ast.And:
		if !truthy(left) {
			return left, true
		}
		return fold(n.Right)
	case ast.Or:
		if truthy(left) {
			return left, true
		}
		return fold(n.Right)
	}

	right, ok := fold(n.Right)
	if !ok {
		return nil, false
	}

	if ls, ok := left.(string); ok {
		return foldString(n.Op, ls, right)
	}

	left, right = promoteBool(left), promoteBool(right)
	li, lInt := left.(int64)
	ri, rInt := right.(int64)
	if lInt && rInt {
		return foldInt(n.Op, li, ri)
	}
	lf, lNum := toFloat(left)
	rf, rNum := toFloat(right)
	if lNum && rNum {
		return foldFloat(n.Op, lf, rf)
	}
	return nil, false
}

const maxFoldedString = 4096

func foldString(op ast.BinaryOperator, left string, right interface{}) (interface{}, bool) {
	switch op {
	case ast.Add:
		if r, ok := right.(string); ok {
			return left + r, true
		}
	case ast.Multiply:
		r, ok := promoteBool(right).(int64)
		if !ok {
			return nil, false
		}
		if r <= 0 {
			return "", true
		}
		if int64(len(left))*r > maxFoldedString {
			return nil, false
		}
		return strings.Repeat(left, int(r)), true
	}
	return nil, false
}

func foldInt(op ast.BinaryOperator, l, r int64) (interface{}, bool) {
	switch op {
	case ast.Add:
		s := l + r
		if (s > l) != (r > 0) {
			return nil, false
		}
		return s, true
	case ast.Subtract:
		d := l - r
		if (d < l) != (r > 0) {
			return nil, false
		}
		return d, true
	case ast.Multiply:
		if l == 0 || r == 0 {
			return int64(0), true
		}
		p := l * r
		if p/r != l || (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
			return nil, false
		}
		return p, true
	case ast.Divide:
		if r == 0 {
			return nil, false
		}
		return float64(l) / float64(r), true
	case ast.FloorDivide:
		if r == 0 || (l == math.MinInt64 && r == -1) {
			return nil, false
		}
		q := l / r
		if (l%r != 0) && ((l < 0) != (r < 0)) {
			q--
		}
		return q, true
	case ast.Modulo:
		if r == 0 {
			return nil, false
		}
		m := l % r
		if m != 0 && ((m < 0) != (r < 0)) {
			m += r
		}
		return m, true
	case ast.Power:
		if r < 0 {
			return foldFloat(op, float64(l), float64(r))
		}
		switch l {
		case 0:
			if r == 0 {
				return int64(1), true
			}
			return int64(0), true
		case 1:
			return int64(1), true
		case -1:
			if r%2 == 0 {
				return int64(1), true
			}
			return int64(-1), true
		}
		result := int64(1)
		for i := int64(0); i < r; i++ {
			next, ok := foldInt(ast.Multiply, result, l)
			if !ok {
				return nil, false
			}
			result = next.(int64)
		}
		return result, true
	case ast.BitAnd:
		return l & r, true
	case ast.BitOr:
		return l | r, true
	case ast.BitXor:
		return l ^ r, true
	case ast.RightShift:
		if r < 0 {
			return nil, false
		}
		if r > 63 {
			r = 63
		}
		return l >> uint(r), true
	case ast.LeftShift:
		if r < 0 || r > 62 {
			return nil, false
		}
		s := l << uint(r)
		if s>>uint(r) != l {
			return nil, false
		}
		return s, true
	}
	return nil, false
}

func foldFloat(op ast.BinaryOperator, l, r float64) (interface{}, bool) {
	var result float64
	switch op {
	case ast.Add:
		result = l + r
	case ast.Subtract:
		result = l - r
	case ast.Multiply:
		result = l * r
	case ast.Divide:
		if r == 0 {
			return nil, false
		}
		result = l / r
	case ast.FloorDivide:
		if r == 0 {
			return nil, false
		}
		result = math.Floor(l / r)
	case ast.Modulo:
		if r == 0 {
			return nil, false
		}
		result = l - r*math.Floor(l/r)
	case ast.Power:
		result = math.Pow(l, r)
	default:
		return nil, false
	}
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return nil, false
	}
	return result, true
}

// foldCompare folds comparison chains. Identity and membership tests stay
// unknown.
func foldCompare(n *ast.Compare) (interface{}, bool) {
	left, ok := fold(n.Left)
	if !ok {
		return nil, false
	}
	for i, op := range n.Ops {
		right, ok := fold(n.Comparators[i])
		if !ok {
			return nil, false
		}
		result, ok := compare(op, left, right)
		if !ok {
			return nil, false
		}
		if !result {
			return false, true
		}
		left = right
	}
	return true, true
}

func compare(op ast.CompareOperator, left, right interface{}) (bool, bool) {
	if op != ast.Eq && op != ast.NotEq && op != ast.Lt && op != ast.LtE && op != ast.Gt && op != ast.GtE {
		return false, false
	}

	ls, lStr := left.(string)
	rs, rStr := right.(string)
	if lStr && rStr {
		return ordered(op, strings.Compare(ls, rs)), true
	}

	lf, lNum := toFloat(promoteBool(left))
	rf, rNum := toFloat(promoteBool(right))
	if lNum && rNum {
		li, lInt := promoteBool(left).(int64)
		ri, rInt := promoteBool(right).(int64)
		if lInt && rInt {
			return ordered(op, cmpInt(li, ri)), true
		}
		return ordered(op, cmpFloat(lf, rf)), true
	}

	// Values of unrelated types are never equal and cannot be ordered.
	_, lNone := left.(none)
	_, rNone := right.(none)
	switch op {
	case ast.Eq:
		return lNone && rNone, true
	case ast.NotEq:
		return !(lNone && rNone), true
	}
	return false, false
}

func ordered(op ast.CompareOperator, c int) bool {
	switch op {
	case ast.Eq:
		return c == 0
	case ast.NotEq:
		return c != 0
	case ast.Lt:
		return c < 0
	case ast.LtE:
		return c <= 0
	case ast.Gt:
		return c > 0
	default:
		return c >= 0
	}
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func promoteBool(v interface{}) interface{} {
	if b, ok := v.(bool); ok {
		if b {
			return int64(1)
		}
		return int64(0)
	}
	return v
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
