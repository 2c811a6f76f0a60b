package semantic

import (
	"github.com/hassan/pyfront/internal/parser/ast"
	"github.com/hassan/pyfront/internal/semantic/types"
	"github.com/hassan/pyfront/internal/symtab"
)

// expr visits an expression, records its type and returns it.
func (a *Analyzer) expr(e ast.Expr) types.Type {
	if e == nil {
		return types.Unknown
	}
	result, _ := e.Accept(a)
	t, ok := result.(types.Type)
	if !ok || t == nil {
		t = types.Unknown
	}
	a.exprTypes[e] = t
	return t
}

// Expression visitor methods for semantic analysis

func (a *Analyzer) VisitLiteral(expr *ast.Literal) (interface{}, error) {
	switch expr.Kind {
	case ast.LitInt:
		return types.Int, nil
	case ast.LitFloat:
		return types.Float, nil
	case ast.LitString:
		return types.Str, nil
	case ast.LitBytes:
		return types.Bytes, nil
	case ast.LitTrue, ast.LitFalse:
		return types.Bool, nil
	case ast.LitNone:
		return types.None, nil
	}
	return types.Unknown, nil
}

func (a *Analyzer) VisitIdentifier(expr *ast.Identifier) (interface{}, error) {
	return a.resolve(expr.Name, expr.Pos()), nil
}

func (a *Analyzer) VisitBinaryOp(expr *ast.BinaryOp) (interface{}, error) {
	left := a.expr(expr.Left)
	right := a.expr(expr.Right)
	return binaryResult(expr.Op, left, right), nil
}

// binaryResult infers the type of "left op right". Combinations it does
// not model are Unknown; the language is dynamic, so they are not errors.
func binaryResult(op ast.BinaryOperator, left, right types.Type) types.Type {
	numeric := types.IsNumeric(left) && types.IsNumeric(right)

	switch op {
	case ast.And, ast.Or:
		return types.Join(left, right)

	case ast.Add:
		if numeric {
			return types.Promote(left, right)
		}
		if types.IsSequence(left) && left.Equals(right) {
			return left
		}
		l, lok := left.(*types.ListType)
		r, rok := right.(*types.ListType)
		if lok && rok {
			return types.NewList(types.Join(l.Elem, r.Elem))
		}

	case ast.Subtract, ast.FloorDivide, ast.Power:
		if numeric {
			return types.Promote(left, right)
		}
		if op == ast.Subtract {
			if s, ok := left.(*types.SetType); ok && left.Equals(right) {
				return s
			}
		}

	case ast.Multiply:
		switch {
		case numeric:
			return types.Promote(left, right)
		case types.IsSequence(left) && types.IsIntegerType(right):
			return left
		case types.IsIntegerType(left) && types.IsSequence(right):
			return right
		}

	case ast.Modulo:
		if numeric {
			return types.Promote(left, right)
		}
		switch left.(type) {
		case *types.StrType:
			return types.Str
		case *types.BytesType:
			return types.Bytes
		}

	case ast.Divide:
		if numeric {
			return types.Float
		}

	case ast.LeftShift, ast.RightShift:
		if types.IsIntegerType(left) && types.IsIntegerType(right) {
			return types.Int
		}

	case ast.BitAnd, ast.BitOr, ast.BitXor:
		_, lbool := left.(*types.BoolType)
		_, rbool := right.(*types.BoolType)
		switch {
		case lbool && rbool:
			return types.Bool
		case types.IsIntegerType(left) && types.IsIntegerType(right):
			return types.Int
		}
		if _, ok := left.(*types.SetType); ok && left.Equals(right) {
			return left
		}
		if _, ok := left.(*types.DictType); ok && op == ast.BitOr && left.Equals(right) {
			return left
		}
	}
	return types.Unknown
}

func (a *Analyzer) VisitUnaryOp(expr *ast.UnaryOp) (interface{}, error) {
	operand := a.expr(expr.Operand)

	switch expr.Op {
	case ast.Not:
		return types.Bool, nil
	case ast.Negate, ast.UnaryPlus:
		if _, ok := operand.(*types.BoolType); ok {
			return types.Int, nil
		}
		if types.IsNumeric(operand) {
			return operand, nil
		}
	case ast.Invert:
		if types.IsIntegerType(operand) {
			return types.Int, nil
		}
	}
	return types.Unknown, nil
}

func (a *Analyzer) VisitCompare(expr *ast.Compare) (interface{}, error) {
	a.expr(expr.Left)
	for _, comparator := range expr.Comparators {
		a.expr(comparator)
	}
	return types.Bool, nil
}

func (a *Analyzer) VisitParenthesized(expr *ast.Parenthesized) (interface{}, error) {
	return a.expr(expr.Inner), nil
}

func (a *Analyzer) VisitCall(expr *ast.Call) (interface{}, error) {
	callee := a.expr(expr.Func)
	for _, arg := range expr.Args {
		a.expr(arg)
	}
	for _, kw := range expr.Keywords {
		a.expr(kw.Value)
	}

	switch c := callee.(type) {
	case *types.FunctionType:
		return c.ReturnType, nil
	case *types.ClassType:
		return c.Instance, nil
	}
	return types.Unknown, nil
}

func (a *Analyzer) VisitAttribute(expr *ast.Attribute) (interface{}, error) {
	a.expr(expr.Value)
	return types.Unknown, nil
}

func (a *Analyzer) VisitSubscript(expr *ast.Subscript) (interface{}, error) {
	value := a.expr(expr.Value)
	index := a.expr(expr.Index)

	if _, ok := expr.Index.(*ast.Slice); ok {
		switch value.(type) {
		case *types.ListType, *types.StrType, *types.BytesType:
			return value, nil
		}
		return types.Unknown, nil
	}

	switch v := value.(type) {
	case *types.ListType:
		return v.Elem, nil
	case *types.DictType:
		return v.Value, nil
	case *types.StrType:
		return types.Str, nil
	case *types.BytesType:
		return types.Int, nil
	case *types.TupleType:
		if i, ok := constantIndex(expr.Index); ok {
			if i < 0 {
				i += len(v.Elems)
			}
			if i >= 0 && i < len(v.Elems) {
				return v.Elems[i], nil
			}
		}
		return types.JoinAll(v.Elems), nil
	case *types.ClassType:
		return genericAlias(v, index), nil
	}
	return types.Unknown, nil
}

// constantIndex extracts an integer literal index, allowing a leading
// minus sign.
func constantIndex(e ast.Expr) (int, bool) {
	sign := 1
	if u, ok := e.(*ast.UnaryOp); ok && u.Op == ast.Negate {
		sign = -1
		e = u.Operand
	}
	lit, ok := e.(*ast.Literal)
	if !ok || lit.Kind != ast.LitInt {
		return 0, false
	}
	n, ok := lit.Value.(int64)
	if !ok {
		return 0, false
	}
	return sign * int(n), true
}

// genericAlias types a parameterized builtin class used as an annotation,
// such as list[int] or dict[str, float].
func genericAlias(class *types.ClassType, index types.Type) types.Type {
	instance := func(t types.Type) types.Type {
		if c, ok := t.(*types.ClassType); ok {
			return c.Instance
		}
		return types.Unknown
	}
	args := []types.Type{index}
	if tuple, ok := index.(*types.TupleType); ok {
		args = tuple.Elems
	}

	switch class.Name {
	case "list":
		return types.NewClass("list", types.NewList(instance(args[0])))
	case "set":
		return types.NewClass("set", types.NewSet(instance(args[0])))
	case "dict":
		if len(args) == 2 {
			return types.NewClass("dict", types.NewDict(instance(args[0]), instance(args[1])))
		}
	case "tuple":
		elems := make([]types.Type, len(args))
		for i, arg := range args {
			elems[i] = instance(arg)
		}
		return types.NewClass("tuple", types.NewTuple(elems))
	}
	return types.Unknown
}

func (a *Analyzer) VisitSlice(expr *ast.Slice) (interface{}, error) {
	for _, part := range []ast.Expr{expr.Lower, expr.Upper, expr.Step} {
		if part != nil {
			a.expr(part)
		}
	}
	return types.Unknown, nil
}

// elementTypes visits the elements of a display. A starred element
// contributes the element type of what it unpacks.
func (a *Analyzer) elementTypes(elts []ast.Expr) []types.Type {
	result := make([]types.Type, len(elts))
	for i, elt := range elts {
		t := a.expr(elt)
		if isStarred(elt) {
			t = types.ElementType(t)
		}
		result[i] = t
	}
	return result
}

func (a *Analyzer) VisitList(expr *ast.List) (interface{}, error) {
	return types.NewList(types.JoinAll(a.elementTypes(expr.Elts))), nil
}

func (a *Analyzer) VisitTuple(expr *ast.Tuple) (interface{}, error) {
	elems := a.elementTypes(expr.Elts)
	for _, elt := range expr.Elts {
		if isStarred(elt) {
			return types.Unknown, nil
		}
	}
	return types.NewTuple(elems), nil
}

func (a *Analyzer) VisitDict(expr *ast.Dict) (interface{}, error) {
	var keys, values []types.Type
	for i, value := range expr.Values {
		if expr.Keys[i] == nil {
			if d, ok := a.expr(value).(*types.DictType); ok {
				keys = append(keys, d.Key)
				values = append(values, d.Value)
			} else {
				keys = append(keys, types.Unknown)
				values = append(values, types.Unknown)
			}
			continue
		}
		keys = append(keys, a.expr(expr.Keys[i]))
		values = append(values, a.expr(value))
	}
	return types.NewDict(types.JoinAll(keys), types.JoinAll(values)), nil
}

func (a *Analyzer) VisitSet(expr *ast.Set) (interface{}, error) {
	return types.NewSet(types.JoinAll(a.elementTypes(expr.Elts))), nil
}

func (a *Analyzer) VisitLambda(expr *ast.Lambda) (interface{}, error) {
	paramTypes := a.paramTypes(expr.Params)
	sig := types.NewFunction(paramTypes, nil)

	scope := a.table.EnterNamedScope(symtab.ScopeFunction, "<lambda>")
	a.declareParams(expr.Params, paramTypes)
	a.table.ExitScope()

	a.pending = append(a.pending, &deferredBody{scope: scope, expr: expr.Body, sig: sig})
	return sig, nil
}

func (a *Analyzer) VisitConditional(expr *ast.Conditional) (interface{}, error) {
	a.expr(expr.Test)
	body := a.expr(expr.Body)
	orelse := a.expr(expr.Orelse)
	return types.Join(body, orelse), nil
}

// VisitNamedExpr binds the walrus target through the normal declaration
// path, so rebinding a name already bound in that scope is a
// Redeclaration. Inside a comprehension the target is bound in the
// scope that contains the comprehension.
func (a *Analyzer) VisitNamedExpr(expr *ast.NamedExpr) (interface{}, error) {
	value := a.expr(expr.Value)

	target := a.table.Current()
	for target.Kind == symtab.ScopeBlock && target.Parent != symtab.NoScope {
		target = a.table.Scope(target.Parent)
	}
	prev := a.table.Activate(target.ID)
	a.bind(expr.Target.Name, symtab.SymbolVariable, expr.Target.Pos(), value)
	a.table.Activate(prev)

	a.exprTypes[expr.Target] = value
	return value, nil
}

// comprehension checks the generators of a comprehension and then body.
// The first iterable is evaluated in the enclosing scope; everything else
// runs in a new block scope holding the loop variables.
func (a *Analyzer) comprehension(name string, generators []*ast.Comprehension, body func()) {
	if len(generators) == 0 {
		body()
		return
	}

	first := a.expr(generators[0].Iter)
	a.table.EnterNamedScope(symtab.ScopeBlock, name)
	for i, gen := range generators {
		iter := first
		if i > 0 {
			iter = a.expr(gen.Iter)
		}
		if gen.IsAsync {
			a.checkAwaitAllowed(gen.Pos(), "asynchronous comprehension")
		}
		a.bindTarget(gen.Target, types.ElementType(iter))
		for _, cond := range gen.Ifs {
			a.expr(cond)
		}
	}
	body()
	a.table.ExitScope()
}

func (a *Analyzer) VisitListComp(expr *ast.ListComp) (interface{}, error) {
	var elt types.Type
	a.comprehension("<listcomp>", expr.Generators, func() {
		elt = a.expr(expr.Elt)
	})
	return types.NewList(elt), nil
}

func (a *Analyzer) VisitSetComp(expr *ast.SetComp) (interface{}, error) {
	var elt types.Type
	a.comprehension("<setcomp>", expr.Generators, func() {
		elt = a.expr(expr.Elt)
	})
	return types.NewSet(elt), nil
}

func (a *Analyzer) VisitDictComp(expr *ast.DictComp) (interface{}, error) {
	var key, value types.Type
	a.comprehension("<dictcomp>", expr.Generators, func() {
		key = a.expr(expr.Key)
		value = a.expr(expr.Value)
	})
	return types.NewDict(key, value), nil
}

func (a *Analyzer) VisitGeneratorExp(expr *ast.GeneratorExp) (interface{}, error) {
	a.comprehension("<genexpr>", expr.Generators, func() {
		a.expr(expr.Elt)
	})
	return types.Unknown, nil
}

// VisitStarred returns the type of the unpacked value; displays and
// targets take its element type.
func (a *Analyzer) VisitStarred(expr *ast.Starred) (interface{}, error) {
	return a.expr(expr.Value), nil
}

func (a *Analyzer) VisitYield(expr *ast.Yield) (interface{}, error) {
	if !a.fn.inFunction {
		what := "'yield'"
		if expr.From {
			what = "'yield from'"
		}
		a.report(scopeError(expr.Pos(), "%s outside function", what))
	}
	if expr.Value != nil {
		a.expr(expr.Value)
	}
	return types.Unknown, nil
}

func (a *Analyzer) VisitAwait(expr *ast.Await) (interface{}, error) {
	a.checkAwaitAllowed(expr.Pos(), "'await'")
	a.expr(expr.Value)
	return types.Unknown, nil
}
