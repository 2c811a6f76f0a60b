// Package semantic implements name resolution and scope checking over a
// parsed module.
//
// SEMANTIC ANALYSIS:
// The parser guarantees the tree is syntactically valid. The analyzer
// walks it once, building the symbol table as it goes, and checks:
//  1. Name resolution: every read refers to a visible binding
//  2. Redeclaration: a scope binds each name at most once
//  3. Placement: return, yield, await, break, continue, nonlocal and
//     "import *" appear only where they are allowed
//
// Along the way it infers a best-effort static type for every expression
// (see the types package); inference never produces an error.
//
// SCOPING MODEL:
//   - if, while, for, try and with bodies do not open a scope
//   - def, lambda and class bodies do
//   - comprehensions open a block scope for their loop variables
//   - a function body may refer to names bound later in the enclosing
//     body, so function and lambda bodies are checked once the enclosing
//     module or function body is finished
//   - a class body is checked in place, and its name is bound after it
//   - a class body reads module-level names and builtins like any other
//     block; methods skip the class scope and see only the enclosing
//     function and module scopes
//
// All errors are collected; analysis always walks the whole tree.
package semantic

import (
	"github.com/hassan/pyfront/internal/lexer"
	"github.com/hassan/pyfront/internal/parser/ast"
	"github.com/hassan/pyfront/internal/semantic/types"
	"github.com/hassan/pyfront/internal/symtab"
)

// Builtins lists the names every module can read without binding them.
var Builtins = []string{
	"print", "range", "len", "str", "int", "float", "bool",
	"list", "dict", "set", "tuple", "True", "False", "None",
}

var builtinTypes = map[string]types.Type{
	"print": types.NewFunction([]types.Type{types.Unknown}, types.None),
	"range": types.NewFunction([]types.Type{types.Int}, types.NewList(types.Int)),
	"len":   types.NewFunction([]types.Type{types.Unknown}, types.Int),
	"str":   types.NewClass("str", types.Str),
	"int":   types.NewClass("int", types.Int),
	"float": types.NewClass("float", types.Float),
	"bool":  types.NewClass("bool", types.Bool),
	"list":  types.NewClass("list", types.NewList(types.Unknown)),
	"dict":  types.NewClass("dict", types.NewDict(types.Unknown, types.Unknown)),
	"set":   types.NewClass("set", types.NewSet(types.Unknown)),
	"tuple": types.NewClass("tuple", types.Unknown),
	"True":  types.Bool,
	"False": types.Bool,
	"None":  types.None,
}

// Options tune the analyzer.
type Options struct {
	// ExtraBuiltins are additional names treated as always defined, for
	// hosts that inject globals.
	ExtraBuiltins []string
}

// Analyzer performs semantic analysis on an AST.
//
// It implements ast.Visitor. Expression visits return the inferred
// types.Type of the expression.
type Analyzer struct {
	opts Options

	table *symtab.Table

	// builtins are kept outside the table: the module scope holds only
	// what the program itself binds, and a program may shadow a builtin.
	builtins map[string]types.Type

	errors []*Error

	// exprTypes maps expressions to their inferred types.
	exprTypes map[ast.Expr]types.Type

	fn      funcState
	pending []*deferredBody
}

// funcState describes the body being checked.
type funcState struct {
	inFunction bool
	isAsync    bool
	loopDepth  int

	// returns collects the types of return statements, for inferring
	// the function's return type.
	returns []types.Type
}

// deferredBody is a function or lambda body waiting for its enclosing
// body to finish.
type deferredBody struct {
	scope   symtab.ScopeID
	body    []ast.Stmt
	expr    ast.Expr
	isAsync bool
	sig     *types.FunctionType
}

// New creates a new semantic analyzer.
func New(opts Options) *Analyzer {
	a := &Analyzer{
		opts:     opts,
		builtins: make(map[string]types.Type, len(builtinTypes)+len(opts.ExtraBuiltins)),
	}
	for name, t := range builtinTypes {
		a.builtins[name] = t
	}
	for _, name := range opts.ExtraBuiltins {
		a.builtins[name] = types.Unknown
	}
	return a
}

// Analyze checks mod with a fresh analyzer. The table is returned even
// when there are errors; errs is nil for a clean module.
func Analyze(mod *ast.Module, opts Options) (*symtab.Table, []*Error) {
	return New(opts).Analyze(mod)
}

// Analyze checks mod and returns the populated symbol table together with
// every error found, in source order.
func (a *Analyzer) Analyze(mod *ast.Module) (*symtab.Table, []*Error) {
	a.table = symtab.NewTable()
	a.errors = nil
	a.exprTypes = make(map[ast.Expr]types.Type)
	a.fn = funcState{}
	a.pending = nil

	if mod != nil {
		a.visitBody(mod.Body)
	}
	a.drain()

	if len(a.errors) == 0 {
		return a.table, nil
	}
	sortErrors(a.errors)
	return a.table, a.errors
}

// TypeOf returns the inferred type of an expression visited by the last
// Analyze call, or Unknown.
func (a *Analyzer) TypeOf(expr ast.Expr) types.Type {
	if t, ok := a.exprTypes[expr]; ok {
		return t
	}
	return types.Unknown
}

// IsBuiltin reports whether name is predefined for this analyzer.
func (a *Analyzer) IsBuiltin(name string) bool {
	_, ok := a.builtins[name]
	return ok
}

func (a *Analyzer) report(err *Error) {
	a.errors = append(a.errors, err)
}

func (a *Analyzer) visitBody(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		_ = stmt.Accept(a)
	}
}

// drain checks every queued function body. Bodies queued while draining
// belong to the body being checked and are drained by it.
func (a *Analyzer) drain() {
	for len(a.pending) > 0 {
		next := a.pending[0]
		a.pending = a.pending[1:]
		a.checkDeferred(next)
	}
}

func (a *Analyzer) checkDeferred(d *deferredBody) {
	savedFn, savedPending := a.fn, a.pending
	prev := a.table.Activate(d.scope)
	a.fn = funcState{inFunction: true, isAsync: d.isAsync}
	a.pending = nil

	if d.expr != nil {
		a.fn.returns = append(a.fn.returns, a.expr(d.expr))
	} else {
		a.visitBody(d.body)
	}
	a.drain()

	if d.sig != nil {
		if d.expr == nil && !endsWithReturn(d.body) {
			a.fn.returns = append(a.fn.returns, types.None)
		}
		d.sig.ReturnType = types.JoinAll(a.fn.returns)
	}

	a.table.Activate(prev)
	a.fn, a.pending = savedFn, savedPending
}

func endsWithReturn(body []ast.Stmt) bool {
	if len(body) == 0 {
		return false
	}
	switch body[len(body)-1].(type) {
	case *ast.Return, *ast.Raise:
		return true
	}
	return false
}

// bind declares name in the current scope. A second binding in the same
// scope is a Redeclaration unless the name was declared global or
// nonlocal there, in which case it rebinds.
func (a *Analyzer) bind(name string, kind symtab.SymbolKind, pos lexer.Position, t types.Type) *symtab.Symbol {
	sym, ok := a.table.Declare(name, kind, pos)
	if ok {
		sym.Type = orUnknown(t)
		return sym
	}
	if sym.Rebindable() {
		sym.Type = types.Join(sym.Type, t)
		return sym
	}
	a.report(redeclarationError(name, pos, sym.Pos))
	return sym
}

// rebind binds name, reusing an existing binding in the current scope.
// Except-clause targets use it: each handler rebinds the same name.
func (a *Analyzer) rebind(name string, pos lexer.Position, t types.Type) *symtab.Symbol {
	if sym := a.table.LookupCurrentScope(name); sym != nil {
		sym.Type = types.Join(sym.Type, t)
		return sym
	}
	return a.bind(name, symtab.SymbolVariable, pos, t)
}

// resolve looks up a read of name. It reports UndefinedVariable when
// neither a scope nor the builtins define it, and marks bindings of
// enclosing functions as captured.
func (a *Analyzer) resolve(name string, pos lexer.Position) types.Type {
	sym := a.table.Resolve(name)
	if sym == nil {
		if t, ok := a.builtins[name]; ok {
			return t
		}
		a.report(undefinedError(name, pos))
		return types.Unknown
	}

	if sym.IsGlobal {
		if g := a.table.Root().LookupLocal(name); g != nil && g != sym {
			g.MarkUsed()
			return orUnknown(g.Type)
		}
	}

	a.markCaptured(sym)
	return orUnknown(sym.Type)
}

func (a *Analyzer) markCaptured(sym *symtab.Symbol) {
	owner := a.table.Scope(sym.ScopeID)
	if owner == nil || !owner.IsFunction() {
		return
	}
	if fn := a.table.EnclosingFunction(); fn == nil || fn.ID != sym.ScopeID {
		sym.IsCaptured = true
	}
}

func orUnknown(t types.Type) types.Type {
	if t == nil {
		return types.Unknown
	}
	return t
}

// Visitor implementation for statements

func (a *Analyzer) VisitExprStmt(stmt *ast.ExprStmt) error {
	a.expr(stmt.Value)
	return nil
}

func (a *Analyzer) VisitAssign(stmt *ast.Assign) error {
	// The value is evaluated before any target is bound: "x = x" with x
	// unbound is an undefined read.
	value := a.expr(stmt.Value)
	for _, target := range stmt.Targets {
		a.bindTarget(target, value)
	}
	return nil
}

func (a *Analyzer) VisitAnnAssign(stmt *ast.AnnAssign) error {
	declared := a.annotation(stmt.Annotation)

	var value types.Type
	if stmt.Value != nil {
		value = a.expr(stmt.Value)
	}
	if types.IsUnknown(declared) && value != nil {
		declared = value
	}
	a.bindTarget(stmt.Target, declared)
	return nil
}

func (a *Analyzer) VisitAugAssign(stmt *ast.AugAssign) error {
	// The target is read before it is written, so it must already be
	// bound. Nothing new is declared.
	current := a.expr(stmt.Target)
	value := a.expr(stmt.Value)
	if id, ok := stmt.Target.(*ast.Identifier); ok {
		if sym := a.table.LookupCurrentScope(id.Name); sym != nil {
			sym.Type = types.Join(sym.Type, binaryResult(stmt.Op, current, value))
		}
	}
	return nil
}

func (a *Analyzer) VisitPass(stmt *ast.Pass) error {
	return nil
}

func (a *Analyzer) VisitBreak(stmt *ast.Break) error {
	if a.fn.loopDepth == 0 {
		a.report(scopeError(stmt.Pos(), "'break' outside loop"))
	}
	return nil
}

func (a *Analyzer) VisitContinue(stmt *ast.Continue) error {
	if a.fn.loopDepth == 0 {
		a.report(scopeError(stmt.Pos(), "'continue' not properly in loop"))
	}
	return nil
}

func (a *Analyzer) VisitReturn(stmt *ast.Return) error {
	if !a.fn.inFunction {
		a.report(scopeError(stmt.Pos(), "'return' outside function"))
	}
	t := types.Type(types.None)
	if stmt.Value != nil {
		t = a.expr(stmt.Value)
	}
	a.fn.returns = append(a.fn.returns, t)
	return nil
}

func (a *Analyzer) VisitAssert(stmt *ast.Assert) error {
	a.expr(stmt.Test)
	if stmt.Msg != nil {
		a.expr(stmt.Msg)
	}
	return nil
}

func (a *Analyzer) VisitDel(stmt *ast.Del) error {
	// Deleting reads the binding; the symbol itself stays in the table.
	for _, target := range stmt.Targets {
		a.expr(target)
	}
	return nil
}

func (a *Analyzer) VisitGlobal(stmt *ast.Global) error {
	for _, name := range stmt.Names {
		if existing := a.table.LookupCurrentScope(name.Name); existing != nil {
			switch {
			case existing.IsGlobal:
			case existing.Kind == symtab.SymbolParameter:
				a.report(scopeError(name.Pos(), "Name '%s' is parameter and global", name.Name))
			case existing.IsNonlocal:
				a.report(scopeError(name.Pos(), "Name '%s' is nonlocal and global", name.Name))
			default:
				a.report(scopeError(name.Pos(), "Name '%s' is assigned to before global declaration", name.Name))
			}
			continue
		}
		sym, _ := a.table.Declare(name.Name, symtab.SymbolVariable, name.Pos())
		sym.IsGlobal = true
	}
	return nil
}

func (a *Analyzer) VisitNonlocal(stmt *ast.Nonlocal) error {
	if a.table.Current().IsModule() {
		a.report(scopeError(stmt.Pos(), "nonlocal declaration not allowed at module level"))
		return nil
	}
	for _, name := range stmt.Names {
		if existing := a.table.LookupCurrentScope(name.Name); existing != nil {
			switch {
			case existing.IsNonlocal:
			case existing.Kind == symtab.SymbolParameter:
				a.report(scopeError(name.Pos(), "Name '%s' is parameter and nonlocal", name.Name))
			case existing.IsGlobal:
				a.report(scopeError(name.Pos(), "Name '%s' is nonlocal and global", name.Name))
			default:
				a.report(scopeError(name.Pos(), "Name '%s' is assigned to before nonlocal declaration", name.Name))
			}
			continue
		}

		outer := a.table.LookupInEnclosingFunctionScopes(name.Name)
		if outer == nil {
			a.report(scopeError(name.Pos(), "No binding for nonlocal '%s' found", name.Name))
			continue
		}
		outer.IsCaptured = true
		outer.MarkUsed()

		sym, _ := a.table.Declare(name.Name, symtab.SymbolVariable, name.Pos())
		sym.IsNonlocal = true
		sym.Type = outer.Type
	}
	return nil
}

func (a *Analyzer) VisitRaise(stmt *ast.Raise) error {
	if stmt.Exc != nil {
		a.expr(stmt.Exc)
	}
	if stmt.Cause != nil {
		a.expr(stmt.Cause)
	}
	return nil
}

func (a *Analyzer) VisitImport(stmt *ast.Import) error {
	for _, alias := range stmt.Names {
		a.bind(alias.BoundName(), symtab.SymbolVariable, alias.Pos(), types.Unknown)
	}
	return nil
}

func (a *Analyzer) VisitFromImport(stmt *ast.FromImport) error {
	if stmt.Star {
		if !a.table.Current().IsModule() {
			a.report(scopeError(stmt.Pos(), "'import *' only allowed at module level"))
		}
		return nil
	}
	for _, alias := range stmt.Names {
		a.bind(alias.BoundName(), symtab.SymbolVariable, alias.Pos(), types.Unknown)
	}
	return nil
}

// Compound statements. None of them opens a scope.

func (a *Analyzer) VisitIf(stmt *ast.If) error {
	a.expr(stmt.Test)
	a.visitBody(stmt.Body)
	a.visitBody(stmt.Orelse)
	return nil
}

func (a *Analyzer) VisitWhile(stmt *ast.While) error {
	a.expr(stmt.Test)
	a.loopBody(stmt.Body)
	a.visitBody(stmt.Orelse)
	return nil
}

func (a *Analyzer) VisitFor(stmt *ast.For) error {
	iter := a.expr(stmt.Iter)
	if stmt.IsAsync {
		a.checkAwaitAllowed(stmt.Pos(), "'async for'")
	}
	a.bindTarget(stmt.Target, types.ElementType(iter))
	a.loopBody(stmt.Body)
	a.visitBody(stmt.Orelse)
	return nil
}

// loopBody visits a loop body. The else clause is not part of the loop:
// break there belongs to an outer loop.
func (a *Analyzer) loopBody(body []ast.Stmt) {
	a.fn.loopDepth++
	a.visitBody(body)
	a.fn.loopDepth--
}

func (a *Analyzer) VisitTry(stmt *ast.Try) error {
	a.visitBody(stmt.Body)
	for _, handler := range stmt.Handlers {
		var exc types.Type = types.Unknown
		if handler.Type != nil {
			if class, ok := a.expr(handler.Type).(*types.ClassType); ok {
				exc = class.Instance
			}
		}
		if handler.Name != "" {
			a.rebind(handler.Name, handler.NamePos, exc)
		}
		a.visitBody(handler.Body)
	}
	a.visitBody(stmt.Orelse)
	a.visitBody(stmt.Finalbody)
	return nil
}

func (a *Analyzer) VisitWith(stmt *ast.With) error {
	if stmt.IsAsync {
		a.checkAwaitAllowed(stmt.Pos(), "'async with'")
	}
	for _, item := range stmt.Items {
		a.expr(item.Context)
		if item.Target != nil {
			a.bindTarget(item.Target, types.Unknown)
		}
	}
	a.visitBody(stmt.Body)
	return nil
}

// Definitions

func (a *Analyzer) VisitFunctionDef(stmt *ast.FunctionDef) error {
	// Decorators, defaults and annotations are evaluated where the def
	// appears, before the name is bound.
	for _, dec := range stmt.Decorators {
		a.expr(dec)
	}
	paramTypes := a.paramTypes(stmt.Params)
	var declared types.Type
	if stmt.Returns != nil {
		declared = a.annotation(stmt.Returns)
	}

	sig := types.NewFunction(paramTypes, nil)
	namePos := stmt.NamePos
	if !namePos.IsValid() {
		namePos = stmt.Pos()
	}
	a.bind(stmt.Name, symtab.SymbolFunction, namePos, sig)

	scope := a.table.EnterNamedScope(symtab.ScopeFunction, stmt.Name)
	a.declareParams(stmt.Params, paramTypes)
	a.table.ExitScope()

	d := &deferredBody{scope: scope, body: stmt.Body, isAsync: stmt.IsAsync, sig: sig}
	if !types.IsUnknown(declared) {
		// An explicit return annotation wins over inference.
		sig.ReturnType = declared
		d.sig = nil
	}
	a.pending = append(a.pending, d)
	return nil
}

func (a *Analyzer) VisitClassDef(stmt *ast.ClassDef) error {
	for _, dec := range stmt.Decorators {
		a.expr(dec)
	}
	for _, base := range stmt.Bases {
		a.expr(base)
	}
	if stmt.Metaclass != nil {
		a.expr(stmt.Metaclass)
	}

	// The body runs in place with no enclosing function or loop. Methods
	// queue on the enclosing body and see the class name once it is bound.
	saved := a.fn
	a.fn = funcState{}
	a.table.EnterNamedScope(symtab.ScopeClass, stmt.Name)
	a.visitBody(stmt.Body)
	a.table.ExitScope()
	a.fn = saved

	namePos := stmt.NamePos
	if !namePos.IsValid() {
		namePos = stmt.Pos()
	}
	a.bind(stmt.Name, symtab.SymbolClass, namePos, types.NewClass(stmt.Name, nil))
	return nil
}

// paramTypes evaluates parameter defaults and annotations in the current
// scope and returns one type per parameter.
func (a *Analyzer) paramTypes(params []*ast.Param) []types.Type {
	result := make([]types.Type, len(params))
	for i, param := range params {
		var t types.Type = types.Unknown
		if param.Annotation != nil {
			t = a.annotation(param.Annotation)
		}
		if param.Default != nil {
			def := a.expr(param.Default)
			if types.IsUnknown(t) {
				t = def
			}
		}
		switch param.Kind {
		case ast.ParamVarArgs:
			t = types.Unknown
		case ast.ParamVarKeywords:
			t = types.NewDict(types.Str, t)
		}
		result[i] = t
	}
	return result
}

// declareParams binds parameters in the current (function) scope. A
// repeated parameter name is a Redeclaration.
func (a *Analyzer) declareParams(params []*ast.Param, paramTypes []types.Type) {
	for i, param := range params {
		a.bind(param.Name, symtab.SymbolParameter, param.Pos(), paramTypes[i])
	}
}

// annotation evaluates an annotation expression and converts it to the
// type it names: a builtin class gives its instance type.
func (a *Analyzer) annotation(expr ast.Expr) types.Type {
	t := a.expr(expr)
	switch v := t.(type) {
	case *types.ClassType:
		return v.Instance
	case *types.NoneType:
		return types.None
	}
	return types.Unknown
}

// targetItem is a pending part of an assignment target and the type of
// the value it receives.
type targetItem struct {
	expr ast.Expr
	typ  types.Type
}

// bindTarget declares every name an assignment target binds, with the
// type of the part of value it receives.
//
// Targets nest arbitrarily ("a, (b, *c), d[i] = ..."), so they are walked
// with an explicit worklist. Identifiers are bound in source order;
// attribute and subscript targets bind nothing and only read their parts.
func (a *Analyzer) bindTarget(target ast.Expr, value types.Type) {
	work := []targetItem{{target, orUnknown(value)}}

	for len(work) > 0 {
		it := work[len(work)-1]
		work = work[:len(work)-1]

		switch t := it.expr.(type) {
		case *ast.Identifier:
			a.bind(t.Name, symtab.SymbolVariable, t.Pos(), it.typ)
			a.exprTypes[t] = it.typ

		case *ast.Parenthesized:
			work = append(work, targetItem{t.Inner, it.typ})

		case *ast.Starred:
			work = append(work, targetItem{t.Value, types.NewList(types.ElementType(it.typ))})

		case *ast.Tuple:
			work = pushElements(work, t.Elts, it.typ)

		case *ast.List:
			work = pushElements(work, t.Elts, it.typ)

		case *ast.Attribute:
			a.expr(t.Value)
			a.exprTypes[t] = it.typ

		case *ast.Subscript:
			a.expr(t.Value)
			a.expr(t.Index)
			a.exprTypes[t] = it.typ

		default:
			a.expr(t)
		}
	}
}

// pushElements queues the elements of a destructuring target in reverse so
// that they pop in source order. A tuple type of exactly the right length
// hands each element its own type; otherwise every element receives the
// value's element type and a starred element the whole value.
func pushElements(work []targetItem, elts []ast.Expr, value types.Type) []targetItem {
	tuple, exact := value.(*types.TupleType)
	exact = exact && len(tuple.Elems) == len(elts)
	for _, elt := range elts {
		if isStarred(elt) {
			exact = false
		}
	}

	for i := len(elts) - 1; i >= 0; i-- {
		var t types.Type
		switch {
		case exact:
			t = tuple.Elems[i]
		case isStarred(elts[i]):
			t = value
		default:
			t = types.ElementType(value)
		}
		work = append(work, targetItem{elts[i], t})
	}
	return work
}

func isStarred(e ast.Expr) bool {
	_, ok := e.(*ast.Starred)
	return ok
}

func (a *Analyzer) checkAwaitAllowed(pos lexer.Position, what string) {
	switch {
	case !a.fn.inFunction:
		a.report(scopeError(pos, "%s outside function", what))
	case !a.fn.isAsync:
		a.report(scopeError(pos, "%s outside async function", what))
	}
}
