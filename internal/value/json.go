package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/miaoxn/soliditytool/internal/schema"
)

// FromJSON decodes a JSON argument into a tree shaped like t. Numbers keep
// their literal text, booleans become "true"/"false", arrays map onto
// arrays and tuples, and tuples may also be given as objects keyed by
// component name. Any shape mismatch is an error.
func FromJSON(t *schema.Type, raw json.RawMessage) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Node{}, fmt.Errorf("invalid JSON argument: %w", err)
	}
	return fromAny(t, v, "$")
}

// ArgsFromJSON decodes a JSON array holding one element per input type.
func ArgsFromJSON(types []*schema.Type, raw json.RawMessage) ([]Node, error) {
	var items []json.RawMessage
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("arguments must be a JSON array: %w", err)
		}
	}
	if len(items) != len(types) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(types), len(items))
	}
	out := make([]Node, len(types))
	for i, t := range types {
		n, err := FromJSON(t, items[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}

func fromAny(t *schema.Type, v any, path string) (Node, error) {
	switch t.Kind() {
	case schema.KindArray:
		items, ok := v.([]any)
		if !ok {
			return Node{}, fmt.Errorf("%s: expected array for %s", path, t.Name())
		}
		if n, fixed := t.FixedLength(); fixed && len(items) != n {
			return Node{}, fmt.Errorf("%s: %s needs exactly %d elements, got %d", path, t.Name(), n, len(items))
		}
		children := make([]Node, len(items))
		for i, item := range items {
			c, err := fromAny(t.Elem(), item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return Node{}, err
			}
			children[i] = c
		}
		return List(children...), nil

	case schema.KindTuple:
		return tupleFromAny(t, v, path)

	default:
		return scalarFromAny(t, v, path)
	}
}

func tupleFromAny(t *schema.Type, v any, path string) (Node, error) {
	components := t.Components()
	children := make([]Node, len(components))

	switch x := v.(type) {
	case []any:
		if len(x) != len(components) {
			return Node{}, fmt.Errorf("%s: tuple needs %d components, got %d", path, len(components), len(x))
		}
		for i, c := range components {
			child, err := fromAny(c.Type, x[i], fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return Node{}, err
			}
			children[i] = child
		}
	case map[string]any:
		for i, c := range components {
			raw, ok := x[c.Name]
			if !ok || c.Name == "" {
				return Node{}, fmt.Errorf("%s: missing tuple component %q", path, c.Name)
			}
			child, err := fromAny(c.Type, raw, path+"."+c.Name)
			if err != nil {
				return Node{}, err
			}
			children[i] = child
		}
	default:
		return Node{}, fmt.Errorf("%s: expected array or object for tuple", path)
	}
	return List(children...), nil
}

func scalarFromAny(t *schema.Type, v any, path string) (Node, error) {
	switch x := v.(type) {
	case string:
		if t.IsBool() {
			b := strings.ToLower(strings.TrimSpace(x))
			if b != "true" && b != "false" {
				return Node{}, fmt.Errorf("%s: %q is not a boolean", path, x)
			}
			return Scalar(b), nil
		}
		return Scalar(x), nil
	case json.Number:
		if t.IsBool() {
			return Node{}, fmt.Errorf("%s: expected boolean, got number", path)
		}
		return Scalar(x.String()), nil
	case bool:
		if x {
			return Scalar("true"), nil
		}
		return Scalar("false"), nil
	default:
		return Node{}, fmt.Errorf("%s: expected scalar for %s", path, t.Name())
	}
}
