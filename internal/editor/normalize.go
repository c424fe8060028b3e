package editor

import (
	"strings"

	"github.com/miaoxn/soliditytool/internal/schema"
	"github.com/miaoxn/soliditytool/internal/value"
)

const (
	boolTrue  = "true"
	boolFalse = "false"
)

// Default builds the initial value for t: empty text for scalars, "false"
// for booleans, an empty list for arrays (k defaults for fixed arrays) and
// one default per tuple component.
func Default(t *schema.Type) value.Node {
	switch t.Kind() {
	case schema.KindArray:
		n, fixed := t.FixedLength()
		if !fixed {
			return value.List()
		}
		items := make([]value.Node, n)
		for i := range items {
			items[i] = Default(t.Elem())
		}
		return value.List(items...)
	case schema.KindTuple:
		items := make([]value.Node, t.NumComponents())
		for i := range items {
			items[i] = Default(t.Component(i).Type)
		}
		return value.List(items...)
	default:
		if t.IsBool() {
			return value.Scalar(boolFalse)
		}
		return value.Scalar("")
	}
}

// Defaults returns one default value per type.
func Defaults(types []*schema.Type) []value.Node {
	out := make([]value.Node, len(types))
	for i, t := range types {
		out[i] = Default(t)
	}
	return out
}

// Normalize coerces v into the shape of t, keeping whatever existing data
// fits. Absent or malformed arrays become empty, tuples are rebuilt
// positionally with defaults filling the gaps, and booleans collapse to one
// of the two literals.
func Normalize(t *schema.Type, v value.Node) value.Node {
	switch t.Kind() {
	case schema.KindArray:
		if !v.IsList() {
			return Default(t)
		}
		n, fixed := t.FixedLength()
		if !fixed {
			n = v.Len()
		}
		items := make([]value.Node, n)
		for i := range items {
			if i < v.Len() {
				items[i] = Normalize(t.Elem(), v.At(i))
			} else {
				items[i] = Default(t.Elem())
			}
		}
		return value.List(items...)

	case schema.KindTuple:
		items := make([]value.Node, t.NumComponents())
		for i := range items {
			ct := t.Component(i).Type
			if v.IsList() && i < v.Len() {
				items[i] = Normalize(ct, v.At(i))
			} else {
				items[i] = Default(ct)
			}
		}
		return value.List(items...)

	default:
		if !v.IsScalar() {
			return Default(t)
		}
		if t.IsBool() {
			return value.Scalar(boolLiteral(v.Text()))
		}
		return v
	}
}

// NormalizeAll normalizes each argument against its input type. Missing
// trailing arguments are filled with defaults.
func NormalizeAll(types []*schema.Type, args []value.Node) []value.Node {
	out := make([]value.Node, len(types))
	for i, t := range types {
		var v value.Node
		if i < len(args) {
			v = args[i]
		}
		out[i] = Normalize(t, v)
	}
	return out
}

// Conforms reports whether v already has the shape of t.
func Conforms(t *schema.Type, v value.Node) bool {
	switch t.Kind() {
	case schema.KindArray:
		if !v.IsList() {
			return false
		}
		if n, fixed := t.FixedLength(); fixed && v.Len() != n {
			return false
		}
		for i := 0; i < v.Len(); i++ {
			if !Conforms(t.Elem(), v.At(i)) {
				return false
			}
		}
		return true
	case schema.KindTuple:
		if !v.IsList() || v.Len() != t.NumComponents() {
			return false
		}
		for i := 0; i < v.Len(); i++ {
			if !Conforms(t.Component(i).Type, v.At(i)) {
				return false
			}
		}
		return true
	default:
		if !v.IsScalar() {
			return false
		}
		if t.IsBool() {
			return v.Text() == boolTrue || v.Text() == boolFalse
		}
		return true
	}
}

func boolLiteral(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), boolTrue) {
		return boolTrue
	}
	return boolFalse
}
