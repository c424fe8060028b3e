package editor

import (
	"fmt"

	"github.com/miaoxn/soliditytool/internal/schema"
	"github.com/miaoxn/soliditytool/internal/value"
)

// LineKind tells a presenter which controls a line offers.
type LineKind int

const (
	LineText LineKind = iota
	LineBool
	LineNumeric
	LineArray
	LineTuple
)

// Line is one row of a flattened value tree. Depth only drives indentation.
type Line struct {
	Path     Path
	Depth    int
	Label    string
	TypeName string
	Kind     LineKind
	Text     string
	// Len is the element count of an array line.
	Len   int
	Fixed bool
}

// Editable reports whether the line holds a text payload.
func (l Line) Editable() bool {
	return l.Kind == LineText || l.Kind == LineNumeric
}

// Lines walks t and v together in display order: a container line first,
// then its children one level deeper.
func Lines(label string, t *schema.Type, v value.Node) []Line {
	var out []Line
	walk(&out, nil, 0, label, t, Normalize(t, v))
	return out
}

func walk(out *[]Line, path Path, depth int, label string, t *schema.Type, v value.Node) {
	line := Line{
		Path:     path,
		Depth:    depth,
		Label:    label,
		TypeName: t.Name(),
	}

	switch t.Kind() {
	case schema.KindArray:
		line.Kind = LineArray
		line.Len = v.Len()
		_, line.Fixed = t.FixedLength()
		*out = append(*out, line)
		for i := 0; i < v.Len(); i++ {
			walk(out, path.Child(i), depth+1, fmt.Sprintf("[%d]", i), t.Elem(), v.At(i))
		}

	case schema.KindTuple:
		line.Kind = LineTuple
		*out = append(*out, line)
		for i := 0; i < t.NumComponents(); i++ {
			c := t.Component(i)
			name := c.Name
			if name == "" {
				name = fmt.Sprintf("[%d]", i)
			}
			walk(out, path.Child(i), depth+1, name, c.Type, v.At(i))
		}

	default:
		switch {
		case t.IsBool():
			line.Kind = LineBool
		case t.IsNumeric():
			line.Kind = LineNumeric
		default:
			line.Kind = LineText
		}
		line.Text = v.Text()
		*out = append(*out, line)
	}
}
