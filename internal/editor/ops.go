package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/miaoxn/soliditytool/internal/schema"
	"github.com/miaoxn/soliditytool/internal/units"
	"github.com/miaoxn/soliditytool/internal/value"
)

var (
	ErrInvalidPath  = errors.New("path does not address a value")
	ErrNotArray     = errors.New("value is not an array")
	ErrNotTuple     = errors.New("value is not a tuple")
	ErrNotScalar    = errors.New("value is not a scalar")
	ErrNotBool      = errors.New("value is not a boolean")
	ErrNotNumeric   = errors.New("value is not numeric")
	ErrFixedLength  = errors.New("array has a fixed length")
	ErrInvalidBool  = errors.New("boolean must be true or false")
	ErrIndexInvalid = errors.New("index out of range")
)

// Path addresses a node by child indices from the parameter root. The empty
// path is the root itself.
type Path []int

func (p Path) String() string {
	var b strings.Builder
	for _, i := range p {
		fmt.Fprintf(&b, "[%d]", i)
	}
	return b.String()
}

// Child extends p by one index without aliasing p.
func (p Path) Child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// WithElementReplaced substitutes element i of an array value and returns
// the whole new array. The replacement is normalized to the element type.
func WithElementReplaced(t *schema.Type, array value.Node, i int, elem value.Node) (value.Node, error) {
	if t.Kind() != schema.KindArray {
		return array, ErrNotArray
	}
	array = Normalize(t, array)
	if i < 0 || i >= array.Len() {
		return array, fmt.Errorf("%w: %d of %d", ErrIndexInvalid, i, array.Len())
	}
	return array.WithChildReplaced(i, Normalize(t.Elem(), elem))
}

// WithComponentReplaced substitutes position i of a tuple value and returns
// the whole new tuple. Other positions are untouched.
func WithComponentReplaced(t *schema.Type, tuple value.Node, i int, component value.Node) (value.Node, error) {
	if t.Kind() != schema.KindTuple {
		return tuple, ErrNotTuple
	}
	tuple = Normalize(t, tuple)
	if i < 0 || i >= t.NumComponents() {
		return tuple, fmt.Errorf("%w: %d of %d", ErrIndexInvalid, i, t.NumComponents())
	}
	return tuple.WithChildReplaced(i, Normalize(t.Component(i).Type, component))
}

// Lookup returns the type and value addressed by path.
func Lookup(t *schema.Type, v value.Node, path Path) (*schema.Type, value.Node, error) {
	v = Normalize(t, v)
	for depth, i := range path {
		ct, err := childType(t, v, i)
		if err != nil {
			return nil, value.Node{}, fmt.Errorf("%w at %s: %v", ErrInvalidPath, path[:depth+1], err)
		}
		t, v = ct, v.At(i)
	}
	return t, v, nil
}

// Append pushes a default element onto the array addressed by path.
func Append(t *schema.Type, v value.Node, path Path) (value.Node, error) {
	return update(t, v, path, func(t *schema.Type, v value.Node) (value.Node, error) {
		if t.Kind() != schema.KindArray {
			return v, ErrNotArray
		}
		if _, fixed := t.FixedLength(); fixed {
			return v, ErrFixedLength
		}
		return v.Appended(Default(t.Elem()))
	})
}

// Remove deletes element i of the array addressed by path.
func Remove(t *schema.Type, v value.Node, path Path, i int) (value.Node, error) {
	return update(t, v, path, func(t *schema.Type, v value.Node) (value.Node, error) {
		if t.Kind() != schema.KindArray {
			return v, ErrNotArray
		}
		if _, fixed := t.FixedLength(); fixed {
			return v, ErrFixedLength
		}
		if i < 0 || i >= v.Len() {
			return v, fmt.Errorf("%w: %d of %d", ErrIndexInvalid, i, v.Len())
		}
		return v.Removed(i)
	})
}

// SetText replaces the text of the scalar addressed by path. Booleans accept
// only their two literals.
func SetText(t *schema.Type, v value.Node, path Path, text string) (value.Node, error) {
	return update(t, v, path, func(t *schema.Type, v value.Node) (value.Node, error) {
		if t.Kind() != schema.KindScalar {
			return v, ErrNotScalar
		}
		if t.IsBool() {
			lit := strings.ToLower(strings.TrimSpace(text))
			if lit != boolTrue && lit != boolFalse {
				return v, ErrInvalidBool
			}
			return value.Scalar(lit), nil
		}
		return value.Scalar(text), nil
	})
}

// SetBool sets the boolean addressed by path.
func SetBool(t *schema.Type, v value.Node, path Path, b bool) (value.Node, error) {
	return update(t, v, path, func(t *schema.Type, v value.Node) (value.Node, error) {
		if !t.IsBool() {
			return v, ErrNotBool
		}
		if b {
			return value.Scalar(boolTrue), nil
		}
		return value.Scalar(boolFalse), nil
	})
}

// Toggle flips the boolean addressed by path.
func Toggle(t *schema.Type, v value.Node, path Path) (value.Node, error) {
	return update(t, v, path, func(t *schema.Type, v value.Node) (value.Node, error) {
		if !t.IsBool() {
			return v, ErrNotBool
		}
		if v.Text() == boolTrue {
			return value.Scalar(boolFalse), nil
		}
		return value.Scalar(boolTrue), nil
	})
}

// ToSmallestUnit rewrites the numeric scalar at path from the display unit
// to the smallest unit. Text that does not convert is left as it is.
func ToSmallestUnit(t *schema.Type, v value.Node, path Path) (value.Node, error) {
	return convert(t, v, path, units.ToSmallestUnit)
}

// ToDisplayUnit rewrites the numeric scalar at path from the smallest unit
// to the display unit. Text that does not convert is left as it is.
func ToDisplayUnit(t *schema.Type, v value.Node, path Path) (value.Node, error) {
	return convert(t, v, path, units.ToDisplayUnit)
}

func convert(t *schema.Type, v value.Node, path Path, fn func(string) (string, error)) (value.Node, error) {
	return update(t, v, path, func(t *schema.Type, v value.Node) (value.Node, error) {
		if !t.IsNumeric() {
			return v, ErrNotNumeric
		}
		converted, err := fn(v.Text())
		if err != nil {
			// malformed or overflowing input keeps the current text
			return v, nil
		}
		return value.Scalar(converted), nil
	})
}

// update applies fn to the node addressed by path and rebuilds every
// ancestor by replacement. On error the original tree is returned.
func update(t *schema.Type, v value.Node, path Path, fn func(*schema.Type, value.Node) (value.Node, error)) (value.Node, error) {
	v = Normalize(t, v)
	if len(path) == 0 {
		next, err := fn(t, v)
		if err != nil {
			return v, err
		}
		return next, nil
	}

	i := path[0]
	ct, err := childType(t, v, i)
	if err != nil {
		return v, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	child, err := update(ct, v.At(i), path[1:], fn)
	if err != nil {
		return v, err
	}
	if t.Kind() == schema.KindArray {
		return WithElementReplaced(t, v, i, child)
	}
	return WithComponentReplaced(t, v, i, child)
}

// childType resolves the type of child i of a normalized value.
func childType(t *schema.Type, v value.Node, i int) (*schema.Type, error) {
	switch t.Kind() {
	case schema.KindArray:
		if i < 0 || i >= v.Len() {
			return nil, fmt.Errorf("element %d of %d", i, v.Len())
		}
		return t.Elem(), nil
	case schema.KindTuple:
		if i < 0 || i >= t.NumComponents() {
			return nil, fmt.Errorf("component %d of %d", i, t.NumComponents())
		}
		return t.Component(i).Type, nil
	default:
		return nil, fmt.Errorf("%s has no children", t.Name())
	}
}
