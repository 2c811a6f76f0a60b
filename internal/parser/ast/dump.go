package ast

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// tree is a format-neutral rendering of a node: its type name, position
// and ordered fields. Field values are scalars, *tree or []interface{}.
type tree struct {
	kind   string
	pos    string
	fields []field
}

type field struct {
	name  string
	value interface{}
}

func (t *tree) add(name string, value interface{}) *tree {
	t.fields = append(t.fields, field{name, value})
	return t
}

// opt adds a child only when it is present.
func (t *tree) opt(name string, e Expr) *tree {
	if e != nil {
		t.add(name, toTree(e))
	}
	return t
}

func newTree(kind string, n Node) *tree {
	return &tree{kind: kind, pos: n.Pos().LineColumn()}
}

func toTree(node Node) *tree {
	switch n := node.(type) {
	case *Module:
		t := &tree{kind: "Module", pos: n.Pos().LineColumn()}
		if n.Filename != "" {
			t.add("filename", n.Filename)
		}
		return t.add("body", stmtList(n.Body))

	case *ExprStmt:
		return newTree("ExprStmt", n).add("value", toTree(n.Value))
	case *Assign:
		return newTree("Assign", n).add("targets", exprList(n.Targets)).add("value", toTree(n.Value))
	case *AnnAssign:
		return newTree("AnnAssign", n).add("target", toTree(n.Target)).
			add("annotation", toTree(n.Annotation)).opt("value", n.Value)
	case *AugAssign:
		return newTree("AugAssign", n).add("target", toTree(n.Target)).
			add("op", n.Op.String()).add("value", toTree(n.Value))
	case *Pass:
		return newTree("Pass", n)
	case *Break:
		return newTree("Break", n)
	case *Continue:
		return newTree("Continue", n)
	case *Return:
		return newTree("Return", n).opt("value", n.Value)
	case *Assert:
		return newTree("Assert", n).add("test", toTree(n.Test)).opt("msg", n.Msg)
	case *Del:
		return newTree("Del", n).add("targets", exprList(n.Targets))
	case *Global:
		return newTree("Global", n).add("names", identNames(n.Names))
	case *Nonlocal:
		return newTree("Nonlocal", n).add("names", identNames(n.Names))
	case *Raise:
		return newTree("Raise", n).opt("exc", n.Exc).opt("cause", n.Cause)
	case *Import:
		return newTree("Import", n).add("names", aliasList(n.Names))
	case *FromImport:
		t := newTree("FromImport", n).add("module", n.Module)
		if n.Level > 0 {
			t.add("level", n.Level)
		}
		if n.Star {
			return t.add("star", true)
		}
		return t.add("names", aliasList(n.Names))
	case *Alias:
		t := newTree("Alias", n).add("name", n.Name)
		if n.AsName != "" {
			t.add("as", n.AsName)
		}
		return t
	case *If:
		return newTree("If", n).add("test", toTree(n.Test)).
			add("body", stmtList(n.Body)).add("orelse", stmtList(n.Orelse))
	case *While:
		return newTree("While", n).add("test", toTree(n.Test)).
			add("body", stmtList(n.Body)).add("orelse", stmtList(n.Orelse))
	case *For:
		t := newTree("For", n)
		if n.IsAsync {
			t.add("async", true)
		}
		return t.add("target", toTree(n.Target)).add("iter", toTree(n.Iter)).
			add("body", stmtList(n.Body)).add("orelse", stmtList(n.Orelse))
	case *FunctionDef:
		t := newTree("FunctionDef", n).add("name", n.Name)
		if n.IsAsync {
			t.add("async", true)
		}
		return t.add("decorators", exprList(n.Decorators)).add("params", paramList(n.Params)).
			opt("returns", n.Returns).add("body", stmtList(n.Body))
	case *Param:
		t := newTree("Param", n).add("name", n.Name)
		if n.Kind != ParamNormal {
			t.add("kind", n.Kind.String())
		}
		return t.opt("annotation", n.Annotation).opt("default", n.Default)
	case *ClassDef:
		return newTree("ClassDef", n).add("name", n.Name).
			add("decorators", exprList(n.Decorators)).add("bases", exprList(n.Bases)).
			opt("metaclass", n.Metaclass).add("body", stmtList(n.Body))
	case *Try:
		handlers := make([]interface{}, len(n.Handlers))
		for i, h := range n.Handlers {
			handlers[i] = toTree(h)
		}
		return newTree("Try", n).add("body", stmtList(n.Body)).add("handlers", handlers).
			add("orelse", stmtList(n.Orelse)).add("finalbody", stmtList(n.Finalbody))
	case *ExceptHandler:
		t := newTree("ExceptHandler", n).opt("type", n.Type)
		if n.Name != "" {
			t.add("name", n.Name)
		}
		return t.add("body", stmtList(n.Body))
	case *With:
		items := make([]interface{}, len(n.Items))
		for i, item := range n.Items {
			items[i] = toTree(item)
		}
		t := newTree("With", n)
		if n.IsAsync {
			t.add("async", true)
		}
		return t.add("items", items).add("body", stmtList(n.Body))
	case *WithItem:
		return newTree("WithItem", n).add("context", toTree(n.Context)).opt("target", n.Target)

	case *Literal:
		t := newTree("Literal", n).add("kind", n.Kind.String())
		if n.Value != nil {
			t.add("value", n.Value)
		}
		if n.Prefix != 0 {
			t.add("prefix", n.Prefix.String())
		}
		return t
	case *Identifier:
		return newTree("Identifier", n).add("name", n.Name)
	case *BinaryOp:
		return newTree("BinaryOp", n).add("op", n.Op.String()).
			add("left", toTree(n.Left)).add("right", toTree(n.Right))
	case *UnaryOp:
		return newTree("UnaryOp", n).add("op", n.Op.String()).add("operand", toTree(n.Operand))
	case *Compare:
		ops := make([]interface{}, len(n.Ops))
		for i, op := range n.Ops {
			ops[i] = op.String()
		}
		return newTree("Compare", n).add("left", toTree(n.Left)).
			add("ops", ops).add("comparators", exprList(n.Comparators))
	case *Parenthesized:
		return newTree("Parenthesized", n).add("inner", toTree(n.Inner))
	case *Call:
		kws := make([]interface{}, len(n.Keywords))
		for i, kw := range n.Keywords {
			kws[i] = toTree(kw)
		}
		return newTree("Call", n).add("func", toTree(n.Func)).
			add("args", exprList(n.Args)).add("keywords", kws)
	case *Keyword:
		t := newTree("Keyword", n)
		if n.Name != "" {
			t.add("name", n.Name)
		}
		return t.add("value", toTree(n.Value))
	case *Attribute:
		return newTree("Attribute", n).add("value", toTree(n.Value)).add("attr", n.Attr)
	case *Subscript:
		return newTree("Subscript", n).add("value", toTree(n.Value)).add("index", toTree(n.Index))
	case *Slice:
		return newTree("Slice", n).opt("lower", n.Lower).opt("upper", n.Upper).opt("step", n.Step)
	case *List:
		return newTree("List", n).add("elts", exprList(n.Elts))
	case *Tuple:
		return newTree("Tuple", n).add("elts", exprList(n.Elts))
	case *Set:
		return newTree("Set", n).add("elts", exprList(n.Elts))
	case *Dict:
		keys := make([]interface{}, len(n.Keys))
		for i, k := range n.Keys {
			if k != nil {
				keys[i] = toTree(k)
			}
		}
		return newTree("Dict", n).add("keys", keys).add("values", exprList(n.Values))
	case *Lambda:
		return newTree("Lambda", n).add("params", paramList(n.Params)).add("body", toTree(n.Body))
	case *Conditional:
		return newTree("Conditional", n).add("test", toTree(n.Test)).
			add("body", toTree(n.Body)).add("orelse", toTree(n.Orelse))
	case *NamedExpr:
		return newTree("NamedExpr", n).add("target", toTree(n.Target)).add("value", toTree(n.Value))
	case *ListComp:
		return newTree("ListComp", n).add("elt", toTree(n.Elt)).add("generators", generatorList(n.Generators))
	case *SetComp:
		return newTree("SetComp", n).add("elt", toTree(n.Elt)).add("generators", generatorList(n.Generators))
	case *GeneratorExp:
		return newTree("GeneratorExp", n).add("elt", toTree(n.Elt)).add("generators", generatorList(n.Generators))
	case *DictComp:
		return newTree("DictComp", n).add("key", toTree(n.Key)).add("value", toTree(n.Value)).
			add("generators", generatorList(n.Generators))
	case *Comprehension:
		t := newTree("Comprehension", n)
		if n.IsAsync {
			t.add("async", true)
		}
		return t.add("target", toTree(n.Target)).add("iter", toTree(n.Iter)).add("ifs", exprList(n.Ifs))
	case *Starred:
		return newTree("Starred", n).add("value", toTree(n.Value))
	case *Yield:
		t := newTree("Yield", n)
		if n.From {
			t.add("from", true)
		}
		return t.opt("value", n.Value)
	case *Await:
		return newTree("Await", n).add("value", toTree(n.Value))
	}
	return &tree{kind: fmt.Sprintf("%T", node)}
}

func stmtList(stmts []Stmt) []interface{} {
	out := make([]interface{}, len(stmts))
	for i, s := range stmts {
		out[i] = toTree(s)
	}
	return out
}

func exprList(exprs []Expr) []interface{} {
	out := make([]interface{}, len(exprs))
	for i, e := range exprs {
		out[i] = toTree(e)
	}
	return out
}

func paramList(params []*Param) []interface{} {
	out := make([]interface{}, len(params))
	for i, p := range params {
		out[i] = toTree(p)
	}
	return out
}

func aliasList(names []*Alias) []interface{} {
	out := make([]interface{}, len(names))
	for i, a := range names {
		out[i] = toTree(a)
	}
	return out
}

func generatorList(gens []*Comprehension) []interface{} {
	out := make([]interface{}, len(gens))
	for i, g := range gens {
		out[i] = toTree(g)
	}
	return out
}

func identNames(ids []*Identifier) []interface{} {
	out := make([]interface{}, len(ids))
	for i, id := range ids {
		out[i] = id.Name
	}
	return out
}

// Fprint writes an indented, human-readable rendering of the tree to w.
//
// EXAMPLE (for "x = 1 + 2"):
//
//	Module 1:1
//	  body:
//	    Assign 1:1
//	      targets:
//	        Identifier 1:1 name=x
//	      value:
//	        BinaryOp 1:5 op=Add
//	          left:
//	            Literal 1:5 kind=int value=1
//	          right:
//	            Literal 1:9 kind=int value=2
func Fprint(w io.Writer, node Node) error {
	p := &printer{w: w}
	p.node(toTree(node), 0)
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(depth int, format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s"+format+"\n", append([]interface{}{strings.Repeat("  ", depth)}, args...)...)
}

func (p *printer) node(t *tree, depth int) {
	var header strings.Builder
	header.WriteString(t.kind)
	if t.pos != "" {
		header.WriteString(" " + t.pos)
	}
	var children []field
	for _, f := range t.fields {
		switch f.value.(type) {
		case *tree, []interface{}:
			children = append(children, f)
		default:
			header.WriteString(" " + f.name + "=" + scalarString(f.value))
		}
	}
	p.line(depth, "%s", header.String())

	for _, f := range children {
		switch v := f.value.(type) {
		case *tree:
			p.line(depth+1, "%s:", f.name)
			p.node(v, depth+2)
		case []interface{}:
			if len(v) == 0 {
				continue
			}
			p.line(depth+1, "%s:", f.name)
			for _, item := range v {
				switch it := item.(type) {
				case *tree:
					p.node(it, depth+2)
				case nil:
					p.line(depth+2, "<nil>")
				default:
					p.line(depth+2, "%s", scalarString(it))
				}
			}
		}
	}
}

func scalarString(v interface{}) string {
	switch x := v.(type) {
	case string:
		if x == "" || strings.ContainsAny(x, " \t\n\"'\\") {
			return strconv.Quote(x)
		}
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// FprintJSON writes a JSON representation of the tree to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(toTree(node)))
}

func toJSON(v interface{}) interface{} {
	switch x := v.(type) {
	case *tree:
		m := map[string]interface{}{"type": x.kind}
		if x.pos != "" {
			m["pos"] = x.pos
		}
		for _, f := range x.fields {
			m[f.name] = toJSON(f.value)
		}
		return m
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, item := range x {
			out[i] = toJSON(item)
		}
		return out
	}
	return v
}

// FprintYAML writes a YAML representation of the tree to w. Unlike the
// JSON form, mapping keys keep the field order of the node.
func FprintYAML(w io.Writer, node Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toYAML(toTree(node))); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func toYAML(v interface{}) *yaml.Node {
	switch x := v.(type) {
	case *tree:
		m := &yaml.Node{Kind: yaml.MappingNode}
		m.Content = append(m.Content, yamlScalar("type"), yamlScalar(x.kind))
		if x.pos != "" {
			m.Content = append(m.Content, yamlScalar("pos"), yamlScalar(x.pos))
		}
		for _, f := range x.fields {
			m.Content = append(m.Content, yamlScalar(f.name), toYAML(f.value))
		}
		return m
	case []interface{}:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: flowStyleIfEmpty(len(x))}
		for _, item := range x {
			seq.Content = append(seq.Content, toYAML(item))
		}
		return seq
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return yamlScalar(fmt.Sprint(v))
	}
	return n
}

func yamlScalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func flowStyleIfEmpty(n int) yaml.Style {
	if n == 0 {
		return yaml.FlowStyle
	}
	return 0
}
