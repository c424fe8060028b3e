package editor

import (
	"github.com/miaoxn/soliditytool/internal/schema"
	"github.com/miaoxn/soliditytool/internal/value"
)

// Editor edits the value of one parameter. It never mutates a tree in place:
// each operation computes a replacement and hands it to onChange, whose
// owner holds the authoritative copy.
type Editor struct {
	typ      *schema.Type
	label    string
	current  value.Node
	onChange func(value.Node)
}

// New creates an editor for a parameter. An absent or malformed v is
// normalized first; that normalization is not published.
func New(label string, t *schema.Type, v value.Node, onChange func(value.Node)) *Editor {
	return &Editor{
		typ:      t,
		label:    label,
		current:  Normalize(t, v),
		onChange: onChange,
	}
}

func (e *Editor) Type() *schema.Type { return e.typ }
func (e *Editor) Value() value.Node  { return e.current }
func (e *Editor) Label() string      { return e.label }

// Reset replaces the held value without publishing it, used when the owner
// changed the value through another path.
func (e *Editor) Reset(v value.Node) {
	e.current = Normalize(e.typ, v)
}

func (e *Editor) Append(path Path) error {
	return e.publish(Append(e.typ, e.current, path))
}

func (e *Editor) Remove(path Path, i int) error {
	return e.publish(Remove(e.typ, e.current, path, i))
}

func (e *Editor) SetText(path Path, text string) error {
	return e.publish(SetText(e.typ, e.current, path, text))
}

func (e *Editor) SetBool(path Path, b bool) error {
	return e.publish(SetBool(e.typ, e.current, path, b))
}

func (e *Editor) Toggle(path Path) error {
	return e.publish(Toggle(e.typ, e.current, path))
}

func (e *Editor) ToSmallestUnit(path Path) error {
	return e.publish(ToSmallestUnit(e.typ, e.current, path))
}

func (e *Editor) ToDisplayUnit(path Path) error {
	return e.publish(ToDisplayUnit(e.typ, e.current, path))
}

// Lines flattens the current value for display.
func (e *Editor) Lines() []Line {
	return Lines(e.label, e.typ, e.current)
}

func (e *Editor) publish(next value.Node, err error) error {
	if err != nil {
		return err
	}
	if next.Equal(e.current) {
		return nil
	}
	e.current = next
	if e.onChange != nil {
		e.onChange(next)
	}
	return nil
}
