package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotList         = errors.New("value is not a list")
	ErrIndexOutOfRange = errors.New("index out of range")
)

type nodeKind int

const (
	kindAbsent nodeKind = iota
	kindScalar
	kindList
)

// Node is an immutable argument value: absent, a scalar text payload, or an
// ordered list of child nodes. Arrays and tuples are both lists; which one a
// list stands for is decided by the type it is paired with. The zero Node is
// absent.
type Node struct {
	kind  nodeKind
	text  string
	items []Node
}

// Absent is the value of a parameter that has never been initialised.
func Absent() Node { return Node{} }

// Scalar wraps a text payload.
func Scalar(text string) Node { return Node{kind: kindScalar, text: text} }

// List builds a list node from its children.
func List(items ...Node) Node {
	cp := make([]Node, len(items))
	copy(cp, items)
	return Node{kind: kindList, items: cp}
}

func (n Node) IsAbsent() bool { return n.kind == kindAbsent }
func (n Node) IsScalar() bool { return n.kind == kindScalar }
func (n Node) IsList() bool   { return n.kind == kindList }

// Text is the scalar payload, empty for lists and absent nodes.
func (n Node) Text() string { return n.text }

// Len is the number of children of a list, zero otherwise.
func (n Node) Len() int { return len(n.items) }

// At returns child i. It panics when i is out of range, like a slice index.
func (n Node) At(i int) Node { return n.items[i] }

// Items returns a copy of the children.
func (n Node) Items() []Node {
	cp := make([]Node, len(n.items))
	copy(cp, n.items)
	return cp
}

// WithChildReplaced returns a new list with child i substituted.
func (n Node) WithChildReplaced(i int, child Node) (Node, error) {
	if n.kind != kindList {
		return n, ErrNotList
	}
	if i < 0 || i >= len(n.items) {
		return n, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(n.items))
	}
	items := n.Items()
	items[i] = child
	return Node{kind: kindList, items: items}, nil
}

// Appended returns a new list with child pushed onto the end.
func (n Node) Appended(child Node) (Node, error) {
	if n.kind != kindList {
		return n, ErrNotList
	}
	items := make([]Node, len(n.items), len(n.items)+1)
	copy(items, n.items)
	return Node{kind: kindList, items: append(items, child)}, nil
}

// Removed returns a new list without child i; later children shift down.
func (n Node) Removed(i int) (Node, error) {
	if n.kind != kindList {
		return n, ErrNotList
	}
	if i < 0 || i >= len(n.items) {
		return n, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(n.items))
	}
	items := make([]Node, 0, len(n.items)-1)
	items = append(items, n.items[:i]...)
	items = append(items, n.items[i+1:]...)
	return Node{kind: kindList, items: items}, nil
}

// Map rebuilds the tree bottom-up, applying fn to every scalar leaf.
func (n Node) Map(fn func(Node) Node) Node {
	switch n.kind {
	case kindScalar:
		return fn(n)
	case kindList:
		items := make([]Node, len(n.items))
		for i, c := range n.items {
			items[i] = c.Map(fn)
		}
		return Node{kind: kindList, items: items}
	default:
		return n
	}
}

// Equal reports deep equality.
func (n Node) Equal(o Node) bool {
	if n.kind != o.kind || n.text != o.text || len(n.items) != len(o.items) {
		return false
	}
	for i := range n.items {
		if !n.items[i].Equal(o.items[i]) {
			return false
		}
	}
	return true
}

// Interface converts the tree to plain strings and slices, nil for absent.
func (n Node) Interface() any {
	switch n.kind {
	case kindScalar:
		return n.text
	case kindList:
		out := make([]any, len(n.items))
		for i, c := range n.items {
			out[i] = c.Interface()
		}
		return out
	default:
		return nil
	}
}

func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Interface())
}

func (n Node) String() string {
	switch n.kind {
	case kindScalar:
		return fmt.Sprintf("%q", n.text)
	case kindList:
		parts := make([]string, len(n.items))
		for i, c := range n.items {
			parts[i] = c.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "<absent>"
	}
}

// Interfaces converts a list of argument trees for logging.
func Interfaces(args []Node) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a.Interface()
	}
	return out
}
