package schema

import (
	"fmt"
	"strings"
)

// Kind discriminates the three shapes a parameter type can take.
type Kind int

const (
	KindScalar Kind = iota
	KindArray
	KindTuple
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ScalarKind selects the editing behaviour of a scalar leaf. Only Bool and
// Numeric get specialised handling; the rest are edited as opaque text.
type ScalarKind int

const (
	ScalarOther ScalarKind = iota
	ScalarBool
	ScalarNumeric
	ScalarAddress
	ScalarBytes
	ScalarString
)

func (s ScalarKind) String() string {
	switch s {
	case ScalarBool:
		return "bool"
	case ScalarNumeric:
		return "numeric"
	case ScalarAddress:
		return "address"
	case ScalarBytes:
		return "bytes"
	case ScalarString:
		return "string"
	default:
		return "other"
	}
}

// Component is one named position of a tuple.
type Component struct {
	Name string
	Type *Type
}

// Type is an immutable description of one parameter type. Construct it with
// Scalar, ArrayOf, FixedArrayOf or TupleOf.
type Type struct {
	kind       Kind
	name       string
	scalar     ScalarKind
	elem       *Type
	length     int
	components []Component
}

// Scalar builds a scalar type from its type name, e.g. "uint256" or "address".
func Scalar(name string) *Type {
	return &Type{kind: KindScalar, name: name, scalar: scalarKindOf(name)}
}

// ArrayOf builds an unbounded homogeneous array type.
func ArrayOf(elem *Type) *Type {
	return &Type{kind: KindArray, name: elem.name + "[]", elem: elem, length: -1}
}

// FixedArrayOf builds an array type whose length is fixed at n.
func FixedArrayOf(elem *Type, n int) *Type {
	return &Type{kind: KindArray, name: fmt.Sprintf("%s[%d]", elem.name, n), elem: elem, length: n}
}

// TupleOf builds a positional tuple type.
func TupleOf(components ...Component) *Type {
	cs := make([]Component, len(components))
	copy(cs, components)
	return &Type{kind: KindTuple, name: "tuple", components: cs}
}

func (t *Type) Kind() Kind { return t.kind }

// Name is the declared type name, e.g. "tuple[]" or "uint8[4]".
func (t *Type) Name() string { return t.name }

func (t *Type) ScalarKind() ScalarKind { return t.scalar }

// Elem is the element type of an array, nil otherwise.
func (t *Type) Elem() *Type { return t.elem }

// FixedLength reports the declared length of a fixed-size array.
func (t *Type) FixedLength() (int, bool) {
	if t.kind != KindArray || t.length < 0 {
		return 0, false
	}
	return t.length, true
}

// NumComponents is the arity of a tuple, zero for other kinds.
func (t *Type) NumComponents() int { return len(t.components) }

func (t *Type) Component(i int) Component { return t.components[i] }

// Components returns a copy of the tuple components.
func (t *Type) Components() []Component {
	cs := make([]Component, len(t.components))
	copy(cs, t.components)
	return cs
}

func (t *Type) IsBool() bool    { return t.kind == KindScalar && t.scalar == ScalarBool }
func (t *Type) IsNumeric() bool { return t.kind == KindScalar && t.scalar == ScalarNumeric }

// Canonical renders the type the way it appears in a function selector,
// with tuples expanded to their component list.
func (t *Type) Canonical() string {
	switch t.kind {
	case KindArray:
		if t.length >= 0 {
			return fmt.Sprintf("%s[%d]", t.elem.Canonical(), t.length)
		}
		return t.elem.Canonical() + "[]"
	case KindTuple:
		parts := make([]string, len(t.components))
		for i, c := range t.components {
			parts[i] = c.Type.Canonical()
		}
		return "(" + strings.Join(parts, ",") + ")"
	default:
		return t.name
	}
}

func (t *Type) String() string { return t.Canonical() }

func scalarKindOf(name string) ScalarKind {
	switch {
	case name == "bool":
		return ScalarBool
	case name == "address":
		return ScalarAddress
	case name == "string":
		return ScalarString
	case name == "function", strings.HasPrefix(name, "bytes"):
		return ScalarBytes
	case strings.HasPrefix(name, "uint"), strings.HasPrefix(name, "int"):
		return ScalarNumeric
	default:
		return ScalarOther
	}
}
