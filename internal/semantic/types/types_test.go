package types

import (
	"testing"
)

func TestType_String(t *testing.T) {
	tests := []struct {
		typ      Type
		expected string
	}{
		{Int, "int"},
		{Float, "float"},
		{Bool, "bool"},
		{Str, "str"},
		{Bytes, "bytes"},
		{None, "None"},
		{Unknown, "Any"},
		{NewList(Int), "list[int]"},
		{NewList(nil), "list[Any]"},
		{NewTuple(nil), "tuple[()]"},
		{NewTuple([]Type{Int, Str}), "tuple[int, str]"},
		{NewDict(Str, NewList(Float)), "dict[str, list[float]]"},
		{NewSet(Bool), "set[bool]"},
		{NewFunction([]Type{Int, Int}, Bool), "Callable[[int, int], bool]"},
		{NewClass("Point", nil), "type[Point]"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := tt.typ.String()
			if result != tt.expected {
				t.Errorf("Type.String() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestType_Equals(t *testing.T) {
	tests := []struct {
		name     string
		t1       Type
		t2       Type
		expected bool
	}{
		{"int equals int", Int, Int, true},
		{"int not equals float", Int, Float, false},
		{"bool not equals int", Bool, Int, false},
		{"unknown equals unknown", Unknown, Unknown, true},
		{"unknown not equals int", Unknown, Int, false},
		{"lists by element", NewList(Int), NewList(Int), true},
		{"lists differ", NewList(Int), NewList(Str), false},
		{"tuples by arity", NewTuple([]Type{Int}), NewTuple([]Type{Int, Int}), false},
		{"dicts", NewDict(Str, Int), NewDict(Str, Int), true},
		{"classes by name", NewClass("A", nil), NewClass("A", Int), true},
		{"classes differ", NewClass("A", nil), NewClass("B", nil), false},
		{"functions structural", NewFunction([]Type{Int}, Str), NewFunction([]Type{Int}, Str), true},
		{"functions differ", NewFunction([]Type{Int}, Str), NewFunction(nil, Str), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.t1.Equals(tt.t2)
			if result != tt.expected {
				t.Errorf("%s.Equals(%s) = %v, want %v", tt.t1, tt.t2, result, tt.expected)
			}
		})
	}
}

func TestType_AssignableTo(t *testing.T) {
	tests := []struct {
		name     string
		value    Type
		target   Type
		expected bool
	}{
		{"int to int", Int, Int, true},
		{"int to float", Int, Float, true},
		{"bool to int", Bool, Int, true},
		{"float to int", Float, Int, false},
		{"str to int", Str, Int, false},
		{"anything to unknown", Str, Unknown, true},
		{"unknown to anything", Unknown, Int, true},
		{"none to str", None, Str, false},
		{"list[int] to list[float]", NewList(Int), NewList(Float), true},
		{"list[str] to list[int]", NewList(Str), NewList(Int), false},
		{"tuple elementwise", NewTuple([]Type{Bool, Int}), NewTuple([]Type{Int, Float}), true},
		{"dict value mismatch", NewDict(Str, Str), NewDict(Str, Int), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.value.AssignableTo(tt.target)
			if result != tt.expected {
				t.Errorf("%s.AssignableTo(%s) = %v, want %v", tt.value, tt.target, result, tt.expected)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Type
		expected Type
	}{
		{"same", Int, Int, Int},
		{"numeric promotion", Int, Float, Float},
		{"bool and int", Bool, Int, Int},
		{"unrelated", Int, Str, Unknown},
		{"nil left", nil, Str, Str},
		{"nil right", Str, nil, Str},
		{"containers", NewList(Int), NewList(Int), NewList(Int)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Join(tt.a, tt.b)
			if !result.Equals(tt.expected) {
				t.Errorf("Join(%v, %v) = %s, want %s", tt.a, tt.b, result, tt.expected)
			}
		})
	}

	if got := JoinAll(nil); !got.Equals(Unknown) {
		t.Errorf("JoinAll(nil) = %s, want Any", got)
	}
	if got := JoinAll([]Type{Int, Int, Float}); !got.Equals(Float) {
		t.Errorf("JoinAll(int, int, float) = %s, want float", got)
	}
}

func TestElementType(t *testing.T) {
	tests := []struct {
		name     string
		typ      Type
		expected Type
	}{
		{"list", NewList(Str), Str},
		{"set", NewSet(Int), Int},
		{"dict keys", NewDict(Str, Int), Str},
		{"tuple", NewTuple([]Type{Int, Int}), Int},
		{"str", Str, Str},
		{"bytes", Bytes, Int},
		{"int", Int, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ElementType(tt.typ)
			if !result.Equals(tt.expected) {
				t.Errorf("ElementType(%s) = %s, want %s", tt.typ, result, tt.expected)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		typ                        Type
		numeric, integer, sequence bool
	}{
		{Int, true, true, false},
		{Bool, true, true, false},
		{Float, true, false, false},
		{Str, false, false, true},
		{Bytes, false, false, true},
		{NewList(Int), false, false, true},
		{NewDict(Str, Int), false, false, false},
		{Unknown, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := IsNumeric(tt.typ); got != tt.numeric {
				t.Errorf("IsNumeric(%s) = %v, want %v", tt.typ, got, tt.numeric)
			}
			if got := IsIntegerType(tt.typ); got != tt.integer {
				t.Errorf("IsIntegerType(%s) = %v, want %v", tt.typ, got, tt.integer)
			}
			if got := IsSequence(tt.typ); got != tt.sequence {
				t.Errorf("IsSequence(%s) = %v, want %v", tt.typ, got, tt.sequence)
			}
		})
	}

	if !IsUnknown(nil) || !IsUnknown(Unknown) || IsUnknown(Int) {
		t.Error("IsUnknown misclassifies nil, Any or int")
	}
}
