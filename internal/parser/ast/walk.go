package ast

// WalkFunc is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type WalkFunc func(node Node) bool

// Walk traverses the tree rooted at node in depth-first, source order.
//
// Nil children are skipped, so fn never sees a nil Node.
func Walk(node Node, fn WalkFunc) {
	if isNil(node) || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Module:
		walkStmts(n.Body, fn)

	// Statements
	case *ExprStmt:
		Walk(n.Value, fn)
	case *Assign:
		walkExprs(n.Targets, fn)
		Walk(n.Value, fn)
	case *AnnAssign:
		Walk(n.Target, fn)
		Walk(n.Annotation, fn)
		walkOptional(n.Value, fn)
	case *AugAssign:
		Walk(n.Target, fn)
		Walk(n.Value, fn)
	case *Pass, *Break, *Continue:
	case *Return:
		walkOptional(n.Value, fn)
	case *Assert:
		Walk(n.Test, fn)
		walkOptional(n.Msg, fn)
	case *Del:
		walkExprs(n.Targets, fn)
	case *Global:
		for _, name := range n.Names {
			Walk(name, fn)
		}
	case *Nonlocal:
		for _, name := range n.Names {
			Walk(name, fn)
		}
	case *Raise:
		walkOptional(n.Exc, fn)
		walkOptional(n.Cause, fn)
	case *Import:
		for _, alias := range n.Names {
			Walk(alias, fn)
		}
	case *FromImport:
		for _, alias := range n.Names {
			Walk(alias, fn)
		}
	case *If:
		Walk(n.Test, fn)
		walkStmts(n.Body, fn)
		walkStmts(n.Orelse, fn)
	case *While:
		Walk(n.Test, fn)
		walkStmts(n.Body, fn)
		walkStmts(n.Orelse, fn)
	case *For:
		Walk(n.Target, fn)
		Walk(n.Iter, fn)
		walkStmts(n.Body, fn)
		walkStmts(n.Orelse, fn)
	case *FunctionDef:
		walkExprs(n.Decorators, fn)
		for _, p := range n.Params {
			Walk(p, fn)
		}
		walkOptional(n.Returns, fn)
		walkStmts(n.Body, fn)
	case *ClassDef:
		walkExprs(n.Decorators, fn)
		walkExprs(n.Bases, fn)
		walkOptional(n.Metaclass, fn)
		walkStmts(n.Body, fn)
	case *Try:
		walkStmts(n.Body, fn)
		for _, h := range n.Handlers {
			Walk(h, fn)
		}
		walkStmts(n.Orelse, fn)
		walkStmts(n.Finalbody, fn)
	case *ExceptHandler:
		walkOptional(n.Type, fn)
		walkStmts(n.Body, fn)
	case *With:
		for _, item := range n.Items {
			Walk(item, fn)
		}
		walkStmts(n.Body, fn)
	case *WithItem:
		Walk(n.Context, fn)
		walkOptional(n.Target, fn)
	case *Param:
		walkOptional(n.Annotation, fn)
		walkOptional(n.Default, fn)

	// Expressions
	case *Literal, *Identifier, *Alias, *Comment:
	case *BinaryOp:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *UnaryOp:
		Walk(n.Operand, fn)
	case *Compare:
		Walk(n.Left, fn)
		walkExprs(n.Comparators, fn)
	case *Parenthesized:
		Walk(n.Inner, fn)
	case *Call:
		Walk(n.Func, fn)
		walkExprs(n.Args, fn)
		for _, kw := range n.Keywords {
			Walk(kw, fn)
		}
	case *Keyword:
		Walk(n.Value, fn)
	case *Attribute:
		Walk(n.Value, fn)
	case *Subscript:
		Walk(n.Value, fn)
		Walk(n.Index, fn)
	case *Slice:
		walkOptional(n.Lower, fn)
		walkOptional(n.Upper, fn)
		walkOptional(n.Step, fn)
	case *List:
		walkExprs(n.Elts, fn)
	case *Tuple:
		walkExprs(n.Elts, fn)
	case *Set:
		walkExprs(n.Elts, fn)
	case *Dict:
		for i := range n.Values {
			walkOptional(n.Keys[i], fn)
			Walk(n.Values[i], fn)
		}
	case *Lambda:
		for _, p := range n.Params {
			Walk(p, fn)
		}
		Walk(n.Body, fn)
	case *Conditional:
		Walk(n.Body, fn)
		Walk(n.Test, fn)
		Walk(n.Orelse, fn)
	case *NamedExpr:
		Walk(n.Target, fn)
		Walk(n.Value, fn)
	case *ListComp:
		Walk(n.Elt, fn)
		walkGenerators(n.Generators, fn)
	case *SetComp:
		Walk(n.Elt, fn)
		walkGenerators(n.Generators, fn)
	case *GeneratorExp:
		Walk(n.Elt, fn)
		walkGenerators(n.Generators, fn)
	case *DictComp:
		Walk(n.Key, fn)
		Walk(n.Value, fn)
		walkGenerators(n.Generators, fn)
	case *Comprehension:
		Walk(n.Target, fn)
		Walk(n.Iter, fn)
		walkExprs(n.Ifs, fn)
	case *Starred:
		Walk(n.Value, fn)
	case *Yield:
		walkOptional(n.Value, fn)
	case *Await:
		Walk(n.Value, fn)
	}
}

func walkStmts(stmts []Stmt, fn WalkFunc) {
	for _, s := range stmts {
		Walk(s, fn)
	}
}

func walkExprs(exprs []Expr, fn WalkFunc) {
	for _, e := range exprs {
		Walk(e, fn)
	}
}

func walkGenerators(gens []*Comprehension, fn WalkFunc) {
	for _, g := range gens {
		Walk(g, fn)
	}
}

func walkOptional(e Expr, fn WalkFunc) {
	if e != nil {
		Walk(e, fn)
	}
}

// isNil catches both a nil interface and an interface holding a nil
// pointer, which is what an unset optional child looks like once it has
// been passed through a Node parameter.
func isNil(node Node) bool {
	if node == nil {
		return true
	}
	switch n := node.(type) {
	case *Identifier:
		return n == nil
	case *Module:
		return n == nil
	}
	return false
}
