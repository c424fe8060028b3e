package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// abiEntry is the subset of an interface definition item that is read here.
// Parameter descriptors reuse go-ethereum's marshaling shape so nested
// components decode the same way the encoder later sees them.
type abiEntry struct {
	Type            string                   `json:"type"`
	Name            string                   `json:"name"`
	StateMutability string                   `json:"stateMutability"`
	Constant        bool                     `json:"constant"`
	Payable         bool                     `json:"payable"`
	Inputs          []abi.ArgumentMarshaling `json:"inputs"`
	Outputs         []abi.ArgumentMarshaling `json:"outputs"`
}

// Parse returns the functions declared in an interface definition. A
// malformed definition yields an empty list; use ParseStrict to see why.
func Parse(text string) []Function {
	fns, err := ParseStrict(text)
	if err != nil {
		return []Function{}
	}
	return fns
}

// ParseStrict is Parse with the failure reported. Items whose type is not
// "function" are ignored and function items that fail to parse are
// skipped. Only a definition that is not a JSON array is an error.
func ParseStrict(text string) ([]Function, error) {
	fns, _, err := ParseItems(text)
	return fns, err
}

// ParseItems is ParseStrict that also returns one error per skipped item.
func ParseItems(text string) ([]Function, []error, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &items); err != nil {
		return nil, nil, fmt.Errorf("interface definition is not a JSON array: %w", err)
	}

	fns := make([]Function, 0, len(items))
	var skipped []error
	for i, item := range items {
		var entry abiEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			skipped = append(skipped, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		if entry.Type != "function" {
			continue
		}
		fn, err := entry.function(item)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("function %q: %w", entry.Name, err))
			continue
		}
		fns = append(fns, fn)
	}
	return fns, skipped, nil
}

func (e abiEntry) function(raw json.RawMessage) (Function, error) {
	mutability, err := e.mutability()
	if err != nil {
		return Function{}, err
	}
	inputs, err := parseParams(e.Inputs)
	if err != nil {
		return Function{}, fmt.Errorf("inputs: %w", err)
	}
	outputs, err := parseParams(e.Outputs)
	if err != nil {
		return Function{}, fmt.Errorf("outputs: %w", err)
	}

	rawCopy := make(json.RawMessage, len(raw))
	copy(rawCopy, raw)

	return Function{
		Name:       e.Name,
		Mutability: mutability,
		Inputs:     inputs,
		Outputs:    outputs,
		raw:        rawCopy,
	}, nil
}

// mutability falls back to the pre-0.4.16 constant/payable flags when
// stateMutability is absent.
func (e abiEntry) mutability() (Mutability, error) {
	if e.StateMutability != "" {
		return ParseMutability(e.StateMutability)
	}
	switch {
	case e.Constant:
		return View, nil
	case e.Payable:
		return Payable, nil
	default:
		return NonPayable, nil
	}
}

func parseParams(args []abi.ArgumentMarshaling) ([]Param, error) {
	params := make([]Param, len(args))
	for i, arg := range args {
		t, err := ParseType(arg.Type, arg.Components)
		if err != nil {
			return nil, fmt.Errorf("parameter %d (%s): %w", i, arg.Name, err)
		}
		params[i] = Param{Name: arg.Name, InternalType: arg.InternalType, Type: t}
	}
	return params, nil
}

// ParseType builds a Type from a declared type name and, for tuple types,
// its components. Array suffixes are peeled from the right so "tuple[2][]"
// is an unbounded array of two-element arrays of tuples.
func ParseType(name string, components []abi.ArgumentMarshaling) (*Type, error) {
	if name == "" {
		return nil, fmt.Errorf("empty type name")
	}

	if strings.HasSuffix(name, "]") {
		open := strings.LastIndex(name, "[")
		if open <= 0 {
			return nil, fmt.Errorf("malformed array type %q", name)
		}
		elem, err := ParseType(name[:open], components)
		if err != nil {
			return nil, err
		}
		size := name[open+1 : len(name)-1]
		if size == "" {
			return ArrayOf(elem), nil
		}
		n, err := strconv.Atoi(size)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("malformed array length in %q", name)
		}
		return FixedArrayOf(elem, n), nil
	}

	if name == "tuple" {
		cs := make([]Component, len(components))
		for i, c := range components {
			t, err := ParseType(c.Type, c.Components)
			if err != nil {
				return nil, fmt.Errorf("component %d (%s): %w", i, c.Name, err)
			}
			cs[i] = Component{Name: c.Name, Type: t}
		}
		return TupleOf(cs...), nil
	}

	if strings.ContainsAny(name, "[]") {
		return nil, fmt.Errorf("malformed type %q", name)
	}
	if _, err := abi.NewType(name, "", nil); err != nil {
		return nil, fmt.Errorf("unsupported type %q: %w", name, err)
	}
	return Scalar(name), nil
}
