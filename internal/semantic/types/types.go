// Package types implements the static type lattice used by the analyzer's
// inference pass.
//
// The source language is dynamically typed, so inference is best effort:
// every expression gets a type, and anything the analyzer cannot pin down
// is Unknown. Unknown is compatible with every other type, which keeps
// inference from ever producing a false error.
//
// TYPES:
//  1. Scalars: int, float, bool, str, bytes, None
//  2. Containers: list[T], tuple[T, ...], dict[K, V], set[T]
//  3. Callables: functions (parameter and return types) and classes
//  4. Unknown, the top of the lattice
package types

import (
	"strings"
)

// Type is the interface that all types implement.
type Type interface {
	// String returns the type in Python annotation syntax, e.g. "list[int]".
	String() string

	// Equals reports whether two types are identical.
	Equals(other Type) bool

	// AssignableTo reports whether a value of this type may be used where
	// other is expected. Unknown is assignable both ways, bool widens to
	// int and int widens to float.
	AssignableTo(other Type) bool

	kind() TypeKind
}

// TypeKind is used internally for quick type checks.
type TypeKind int

const (
	KindUnknown TypeKind = iota
	KindNone
	KindInt
	KindFloat
	KindBool
	KindStr
	KindBytes
	KindList
	KindTuple
	KindDict
	KindSet
	KindFunction
	KindClass
)

// UnknownType is the type of expressions the analyzer cannot infer.
type UnknownType struct{}

func (u *UnknownType) String() string         { return "Any" }
func (u *UnknownType) Equals(other Type) bool { _, ok := other.(*UnknownType); return ok }
func (u *UnknownType) AssignableTo(Type) bool { return true }
func (u *UnknownType) kind() TypeKind         { return KindUnknown }

// NoneType is the type of None.
type NoneType struct{}

func (n *NoneType) String() string               { return "None" }
func (n *NoneType) Equals(other Type) bool       { _, ok := other.(*NoneType); return ok }
func (n *NoneType) AssignableTo(other Type) bool { return n.Equals(other) || isUnknown(other) }
func (n *NoneType) kind() TypeKind               { return KindNone }

// IntType is the type of integer literals and int() results.
type IntType struct{}

func (i *IntType) String() string         { return "int" }
func (i *IntType) Equals(other Type) bool { _, ok := other.(*IntType); return ok }
func (i *IntType) AssignableTo(other Type) bool {
	switch other.(type) {
	case *IntType, *FloatType, *UnknownType:
		return true
	}
	return false
}
func (i *IntType) kind() TypeKind { return KindInt }

// FloatType is the type of float literals.
type FloatType struct{}

func (f *FloatType) String() string               { return "float" }
func (f *FloatType) Equals(other Type) bool       { _, ok := other.(*FloatType); return ok }
func (f *FloatType) AssignableTo(other Type) bool { return f.Equals(other) || isUnknown(other) }
func (f *FloatType) kind() TypeKind               { return KindFloat }

// BoolType is the type of True, False and comparisons.
type BoolType struct{}

func (b *BoolType) String() string         { return "bool" }
func (b *BoolType) Equals(other Type) bool { _, ok := other.(*BoolType); return ok }
func (b *BoolType) AssignableTo(other Type) bool {
	switch other.(type) {
	case *BoolType, *IntType, *FloatType, *UnknownType:
		return true
	}
	return false
}
func (b *BoolType) kind() TypeKind { return KindBool }

// StrType is the type of string literals.
type StrType struct{}

func (s *StrType) String() string               { return "str" }
func (s *StrType) Equals(other Type) bool       { _, ok := other.(*StrType); return ok }
func (s *StrType) AssignableTo(other Type) bool { return s.Equals(other) || isUnknown(other) }
func (s *StrType) kind() TypeKind               { return KindStr }

// BytesType is the type of b"..." literals.
type BytesType struct{}

func (b *BytesType) String() string               { return "bytes" }
func (b *BytesType) Equals(other Type) bool       { _, ok := other.(*BytesType); return ok }
func (b *BytesType) AssignableTo(other Type) bool { return b.Equals(other) || isUnknown(other) }
func (b *BytesType) kind() TypeKind               { return KindBytes }

// Containers

// ListType is list[Elem].
type ListType struct {
	Elem Type
}

func (l *ListType) String() string { return "list[" + l.Elem.String() + "]" }

func (l *ListType) Equals(other Type) bool {
	if o, ok := other.(*ListType); ok {
		return l.Elem.Equals(o.Elem)
	}
	return false
}

func (l *ListType) AssignableTo(other Type) bool {
	if o, ok := other.(*ListType); ok {
		return l.Elem.AssignableTo(o.Elem)
	}
	return isUnknown(other)
}

func (l *ListType) kind() TypeKind { return KindList }

// TupleType is a fixed-length tuple with one type per element.
type TupleType struct {
	Elems []Type
}

func (t *TupleType) String() string {
	if len(t.Elems) == 0 {
		return "tuple[()]"
	}
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "tuple[" + strings.Join(parts, ", ") + "]"
}

func (t *TupleType) Equals(other Type) bool {
	o, ok := other.(*TupleType)
	if !ok || len(o.Elems) != len(t.Elems) {
		return false
	}
	for i, e := range t.Elems {
		if !e.Equals(o.Elems[i]) {
			return false
		}
	}
	return true
}

func (t *TupleType) AssignableTo(other Type) bool {
	o, ok := other.(*TupleType)
	if !ok {
		return isUnknown(other)
	}
	if len(o.Elems) != len(t.Elems) {
		return false
	}
	for i, e := range t.Elems {
		if !e.AssignableTo(o.Elems[i]) {
			return false
		}
	}
	return true
}

func (t *TupleType) kind() TypeKind { return KindTuple }

// DictType is dict[Key, Value].
type DictType struct {
	Key   Type
	Value Type
}

func (d *DictType) String() string {
	return "dict[" + d.Key.String() + ", " + d.Value.String() + "]"
}

func (d *DictType) Equals(other Type) bool {
	if o, ok := other.(*DictType); ok {
		return d.Key.Equals(o.Key) && d.Value.Equals(o.Value)
	}
	return false
}

func (d *DictType) AssignableTo(other Type) bool {
	if o, ok := other.(*DictType); ok {
		return d.Key.AssignableTo(o.Key) && d.Value.AssignableTo(o.Value)
	}
	return isUnknown(other)
}

func (d *DictType) kind() TypeKind { return KindDict }

// SetType is set[Elem].
type SetType struct {
	Elem Type
}

func (s *SetType) String() string { return "set[" + s.Elem.String() + "]" }

func (s *SetType) Equals(other Type) bool {
	if o, ok := other.(*SetType); ok {
		return s.Elem.Equals(o.Elem)
	}
	return false
}

func (s *SetType) AssignableTo(other Type) bool {
	if o, ok := other.(*SetType); ok {
		return s.Elem.AssignableTo(o.Elem)
	}
	return isUnknown(other)
}

func (s *SetType) kind() TypeKind { return KindSet }

// Callables

// FunctionType is the type of a def, a lambda or a builtin function.
//
// STRUCTURAL TYPING: two functions are equal when their parameter and
// return types are, whatever they are called.
type FunctionType struct {
	Parameters []Type
	ReturnType Type
}

func (f *FunctionType) String() string {
	params := make([]string, len(f.Parameters))
	for i, param := range f.Parameters {
		params[i] = param.String()
	}
	return "Callable[[" + strings.Join(params, ", ") + "], " + f.ReturnType.String() + "]"
}

func (f *FunctionType) Equals(other Type) bool {
	o, ok := other.(*FunctionType)
	if !ok {
		return false
	}
	if !f.ReturnType.Equals(o.ReturnType) || len(f.Parameters) != len(o.Parameters) {
		return false
	}
	for i, param := range f.Parameters {
		if !param.Equals(o.Parameters[i]) {
			return false
		}
	}
	return true
}

func (f *FunctionType) AssignableTo(other Type) bool {
	return f.Equals(other) || isUnknown(other)
}

func (f *FunctionType) kind() TypeKind { return KindFunction }

// ClassType is the type of a class object. Calling it produces Instance.
//
// NOMINAL TYPING: classes are equal only when they have the same name.
type ClassType struct {
	Name string

	// Instance is what a call to the class returns. For builtin classes
	// such as int it is the matching scalar type; for user classes it is
	// Unknown.
	Instance Type
}

func (c *ClassType) String() string { return "type[" + c.Name + "]" }

func (c *ClassType) Equals(other Type) bool {
	if o, ok := other.(*ClassType); ok {
		return c.Name == o.Name
	}
	return false
}

func (c *ClassType) AssignableTo(other Type) bool {
	return c.Equals(other) || isUnknown(other)
}

func (c *ClassType) kind() TypeKind { return KindClass }

// Predefined type instances (singletons).
var (
	Unknown = &UnknownType{}
	None    = &NoneType{}
	Int     = &IntType{}
	Float   = &FloatType{}
	Bool    = &BoolType{}
	Str     = &StrType{}
	Bytes   = &BytesType{}
)

// Helper functions

func isUnknown(t Type) bool {
	_, ok := t.(*UnknownType)
	return ok
}

// IsUnknown reports whether t carries no information.
func IsUnknown(t Type) bool {
	return t == nil || isUnknown(t)
}

// IsNumeric reports whether t takes part in arithmetic: bool, int or float.
func IsNumeric(t Type) bool {
	switch t.(type) {
	case *BoolType, *IntType, *FloatType:
		return true
	default:
		return false
	}
}

// IsIntegerType reports whether t is int or bool.
func IsIntegerType(t Type) bool {
	switch t.(type) {
	case *IntType, *BoolType:
		return true
	default:
		return false
	}
}

// IsSequence reports whether t supports "+" concatenation and "*"
// repetition.
func IsSequence(t Type) bool {
	switch t.(type) {
	case *StrType, *BytesType, *ListType, *TupleType:
		return true
	default:
		return false
	}
}

// Join returns the least type both a and b are assignable to: the type
// itself when they are equal, float for mixed numbers and Unknown
// otherwise.
func Join(a, b Type) Type {
	switch {
	case a == nil:
		return orUnknown(b)
	case b == nil:
		return a
	case a.Equals(b):
		return a
	case IsNumeric(a) && IsNumeric(b):
		return Promote(a, b)
	}
	return Unknown
}

// JoinAll folds Join over ts. An empty slice joins to Unknown.
func JoinAll(ts []Type) Type {
	var result Type
	for _, t := range ts {
		result = Join(result, t)
	}
	return orUnknown(result)
}

// Promote returns the result type of arithmetic between two numeric
// types: float if either is a float, int otherwise.
func Promote(a, b Type) Type {
	if _, ok := a.(*FloatType); ok {
		return Float
	}
	if _, ok := b.(*FloatType); ok {
		return Float
	}
	return Int
}

// ElementType returns what iterating over t yields, or Unknown.
func ElementType(t Type) Type {
	switch c := t.(type) {
	case *ListType:
		return c.Elem
	case *SetType:
		return c.Elem
	case *DictType:
		return c.Key
	case *TupleType:
		return JoinAll(c.Elems)
	case *StrType:
		return Str
	case *BytesType:
		return Int
	}
	return Unknown
}

func orUnknown(t Type) Type {
	if t == nil {
		return Unknown
	}
	return t
}

// NewList creates a list type.
func NewList(elem Type) *ListType {
	return &ListType{Elem: orUnknown(elem)}
}

// NewTuple creates a tuple type.
func NewTuple(elems []Type) *TupleType {
	return &TupleType{Elems: elems}
}

// NewDict creates a dict type.
func NewDict(key, value Type) *DictType {
	return &DictType{Key: orUnknown(key), Value: orUnknown(value)}
}

// NewSet creates a set type.
func NewSet(elem Type) *SetType {
	return &SetType{Elem: orUnknown(elem)}
}

// NewFunction creates a new function type.
func NewFunction(parameters []Type, returnType Type) *FunctionType {
	return &FunctionType{
		Parameters: parameters,
		ReturnType: orUnknown(returnType),
	}
}

// NewClass creates a class type whose instances have type instance.
func NewClass(name string, instance Type) *ClassType {
	return &ClassType{Name: name, Instance: orUnknown(instance)}
}
