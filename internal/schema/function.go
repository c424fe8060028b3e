package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Mutability is the state mutability class of a function.
type Mutability int

const (
	Pure Mutability = iota
	View
	NonPayable
	Payable
)

func (m Mutability) String() string {
	switch m {
	case Pure:
		return "pure"
	case View:
		return "view"
	case NonPayable:
		return "nonpayable"
	case Payable:
		return "payable"
	default:
		return fmt.Sprintf("mutability(%d)", int(m))
	}
}

// IsRead reports whether calls to the function never change state.
func (m Mutability) IsRead() bool {
	return m == Pure || m == View
}

// ParseMutability maps a stateMutability literal to its enumerated value.
func ParseMutability(s string) (Mutability, error) {
	switch s {
	case "pure":
		return Pure, nil
	case "view":
		return View, nil
	case "nonpayable":
		return NonPayable, nil
	case "payable":
		return Payable, nil
	default:
		return 0, fmt.Errorf("unknown state mutability %q", s)
	}
}

// Param is one declared input or output.
type Param struct {
	Name         string
	InternalType string
	Type         *Type
}

// Function describes one callable entry of an interface definition.
type Function struct {
	Name       string
	Mutability Mutability
	Inputs     []Param
	Outputs    []Param

	raw json.RawMessage
}

// Descriptor returns a single-entry interface definition containing only
// this function, suitable for handing to an ABI encoder.
func (f Function) Descriptor() []byte {
	out := make([]byte, 0, len(f.raw)+2)
	out = append(out, '[')
	out = append(out, f.raw...)
	return append(out, ']')
}

// Signature renders name(type,...) with canonical parameter types.
func (f Function) Signature() string {
	parts := make([]string, len(f.Inputs))
	for i, in := range f.Inputs {
		parts[i] = in.Type.Canonical()
	}
	return f.Name + "(" + strings.Join(parts, ",") + ")"
}

// InputTypes returns the descriptor of each input, in order.
func (f Function) InputTypes() []*Type {
	ts := make([]*Type, len(f.Inputs))
	for i, in := range f.Inputs {
		ts[i] = in.Type
	}
	return ts
}

// Label is the display label of input i: its name, or argN when unnamed.
func (p Param) Label(i int) string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("arg%d", i)
}
