package semantic

import (
	"testing"

	"github.com/hassan/pyfront/internal/parser/ast"
	"github.com/hassan/pyfront/internal/semantic/types"
)

func TestInferredVariableTypes(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		variable string
		expected string
	}{
		{"int literal", "x = 42", "x", "int"},
		{"float literal", "x = 1.5", "x", "float"},
		{"string", "x = 'hi'", "x", "str"},
		{"bytes", "x = b'hi'", "x", "bytes"},
		{"bool", "x = True", "x", "bool"},
		{"none", "x = None", "x", "None"},
		{"promotion", "x = 1 + 2.0", "x", "float"},
		{"true division", "x = 4 / 2", "x", "float"},
		{"floor division", "x = 7 // 2", "x", "int"},
		{"string concat", "x = 'a' + 'b'", "x", "str"},
		{"string repeat", "x = 'a' * 3", "x", "str"},
		{"format", "x = '%d' % 3", "x", "str"},
		{"comparison", "x = 1 < 2 < 3", "x", "bool"},
		{"not", "x = not 0", "x", "bool"},
		{"negate bool", "x = -True", "x", "int"},
		{"bitwise bools", "x = True & False", "x", "bool"},
		{"shift", "x = 1 << 3", "x", "int"},
		{"list", "x = [1, 2, 3]", "x", "list[int]"},
		{"mixed list", "x = [1, 2.5]", "x", "list[float]"},
		{"empty list", "x = []", "x", "list[Any]"},
		{"list concat", "x = [1] + [2]", "x", "list[int]"},
		{"starred display", "x = [*[1, 2], 3]", "x", "list[int]"},
		{"tuple", "x = (1, 'a')", "x", "tuple[int, str]"},
		{"empty tuple", "x = ()", "x", "tuple[()]"},
		{"dict", "x = {'a': 1}", "x", "dict[str, int]"},
		{"dict unpack", "x = {**{'a': 1}, 'b': 2}", "x", "dict[str, int]"},
		{"set", "x = {1, 2}", "x", "set[int]"},
		{"list comp", "x = [str(i) for i in range(3)]", "x", "list[str]"},
		{"set comp", "x = {i for i in [1.5]}", "x", "set[float]"},
		{"dict comp", "x = {c: 1 for c in 'ab'}", "x", "dict[str, int]"},
		{"conditional", "x = 1 if True else 2.0", "x", "float"},
		{"unrelated conditional", "x = 1 if True else 'a'", "x", "Any"},
		{"builtin call", "x = len('abc')", "x", "int"},
		{"class call", "x = float(1)", "x", "float"},
		{"subscript list", "x = [1, 2][0]", "x", "int"},
		{"subscript dict", "x = {'a': 1.5}['a']", "x", "float"},
		{"subscript tuple", "x = (1, 'a')[1]", "x", "str"},
		{"negative tuple index", "x = (1, 'a')[-2]", "x", "int"},
		{"slice", "x = 'abc'[1:]", "x", "str"},
		{"for target", "for x in [1, 2]:\n    pass", "x", "int"},
		{"range target", "for x in range(3):\n    pass", "x", "int"},
		{"string iteration", "for x in 'abc':\n    pass", "x", "str"},
		{"walrus", "if (x := 2.5):\n    pass", "x", "float"},
		{"annotation wins", "x: float = 1", "x", "float"},
		{"generic annotation", "x: list[int] = []", "x", "list[int]"},
		{"dict annotation", "x: dict[str, float] = {}", "x", "dict[str, float]"},
		{"attribute", "x = 'a'.upper", "x", "Any"},
		{"annotated return", "def f() -> str:\n    return g()\ndef g():\n    pass\nx = f()", "x", "str"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := expectNoErrors(t, tt.source+"\n")
			sym := table.Root().LookupLocal(tt.variable)
			if sym == nil {
				t.Fatalf("no symbol %q", tt.variable)
			}
			if got := sym.Type.String(); got != tt.expected {
				t.Errorf("%s: type = %s, want %s", tt.variable, got, tt.expected)
			}
		})
	}
}

func TestDestructuringTypes(t *testing.T) {
	table := expectNoErrors(t, "a, (b, *rest) = 1, ('s', 2.5, 3.5)\n")

	tests := []struct {
		name     string
		expected string
	}{
		{"a", "int"},
		{"b", "Any"},
		{"rest", "list[Any]"},
	}
	for _, tt := range tests {
		sym := table.Root().LookupLocal(tt.name)
		if sym == nil {
			t.Fatalf("no symbol %q", tt.name)
		}
		if got := sym.Type.String(); got != tt.expected {
			t.Errorf("%s: type = %s, want %s", tt.name, got, tt.expected)
		}
	}
}

func TestFunctionSignature(t *testing.T) {
	table := expectNoErrors(t, "def f(a: int, b=1.5, *args, **kw):\n    return a\n")

	sym := table.Root().LookupLocal("f")
	sig, ok := sym.Type.(*types.FunctionType)
	if !ok {
		t.Fatalf("f type = %s, want a function type", sym.Type)
	}
	expected := "Callable[[int, float, Any, dict[str, Any]], int]"
	if got := sig.String(); got != expected {
		t.Errorf("f type = %s, want %s", got, expected)
	}
}

func TestInferredReturnTypes(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"value", "def f():\n    return 1\n", "Callable[[], int]"},
		{"no return", "def f():\n    pass\n", "Callable[[], None]"},
		{"fallthrough", "def f(a):\n    if a:\n        return 1\n", "Callable[[Any], Any]"},
		{"mixed numbers", "def f(a):\n    if a:\n        return 1\n    return 2.5\n", "Callable[[Any], float]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := expectNoErrors(t, tt.source)
			if got := table.Root().LookupLocal("f").Type.String(); got != tt.expected {
				t.Errorf("f type = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestLambdaSignature(t *testing.T) {
	table := expectNoErrors(t, "inc = lambda n=0: n + 1\n")

	sym := table.Root().LookupLocal("inc")
	if got := sym.Type.String(); got != "Callable[[int], int]" {
		t.Errorf("inc type = %s, want Callable[[int], int]", got)
	}
}

func TestTypeOf(t *testing.T) {
	mod := parseModule(t, "y = 1 + 2\nprint(y)\n")
	a := New(Options{})
	if _, errs := a.Analyze(mod); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}

	assign := mod.Body[0].(*ast.Assign)
	if got := a.TypeOf(assign.Value); !got.Equals(types.Int) {
		t.Errorf("TypeOf(1 + 2) = %s, want int", got)
	}
	call := mod.Body[1].(*ast.ExprStmt).Value.(*ast.Call)
	if got := a.TypeOf(call); !got.Equals(types.None) {
		t.Errorf("TypeOf(print(y)) = %s, want None", got)
	}
	if got := a.TypeOf(call.Args[0]); !got.Equals(types.Int) {
		t.Errorf("TypeOf(y) = %s, want int", got)
	}
	if got := a.TypeOf(&ast.Identifier{Name: "never visited"}); !got.Equals(types.Unknown) {
		t.Errorf("TypeOf(unvisited) = %s, want Any", got)
	}
}

func TestBinaryResult(t *testing.T) {
	tests := []struct {
		name     string
		op       ast.BinaryOperator
		left     types.Type
		right    types.Type
		expected types.Type
	}{
		{"int add", ast.Add, types.Int, types.Int, types.Int},
		{"float sub", ast.Subtract, types.Int, types.Float, types.Float},
		{"power", ast.Power, types.Int, types.Int, types.Int},
		{"divide", ast.Divide, types.Int, types.Int, types.Float},
		{"str plus int", ast.Add, types.Str, types.Int, types.Unknown},
		{"int times list", ast.Multiply, types.Int, types.NewList(types.Str), types.NewList(types.Str)},
		{"set union", ast.BitOr, types.NewSet(types.Int), types.NewSet(types.Int), types.NewSet(types.Int)},
		{"set difference", ast.Subtract, types.NewSet(types.Int), types.NewSet(types.Int), types.NewSet(types.Int)},
		{"dict merge", ast.BitOr, types.NewDict(types.Str, types.Int), types.NewDict(types.Str, types.Int), types.NewDict(types.Str, types.Int)},
		{"or joins", ast.Or, types.None, types.Str, types.Unknown},
		{"and same", ast.And, types.Str, types.Str, types.Str},
		{"matmul", ast.MatMul, types.Int, types.Int, types.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := binaryResult(tt.op, tt.left, tt.right); !got.Equals(tt.expected) {
				t.Errorf("binaryResult(%s, %s, %s) = %s, want %s", tt.op, tt.left, tt.right, got, tt.expected)
			}
		})
	}
}
