package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miaoxn/soliditytool/internal/schema"
)

func orderType() *schema.Type {
	return schema.TupleOf(
		schema.Component{Name: "maker", Type: schema.Scalar("address")},
		schema.Component{Name: "amounts", Type: schema.ArrayOf(schema.Scalar("uint256"))},
		schema.Component{Name: "active", Type: schema.Scalar("bool")},
	)
}

func TestFromJSON(t *testing.T) {
	tests := []struct {
		name string
		typ  *schema.Type
		raw  string
		want any
	}{
		{"number keeps literal text", schema.Scalar("uint256"), `123456789012345678901234567890`, "123456789012345678901234567890"},
		{"string", schema.Scalar("string"), `"hi"`, "hi"},
		{"bool", schema.Scalar("bool"), `true`, "true"},
		{"bool from text", schema.Scalar("bool"), `"False"`, "false"},
		{"array", schema.ArrayOf(schema.Scalar("uint8")), `[1,2]`, []any{"1", "2"}},
		{"tuple positional", orderType(), `["0x01",[5],false]`, []any{"0x01", []any{"5"}, "false"}},
		{"tuple by name", orderType(), `{"maker":"0x01","amounts":[],"active":true}`, []any{"0x01", []any{}, "true"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := FromJSON(tt.typ, []byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Interface())
		})
	}
}

func TestFromJSON_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name string
		typ  *schema.Type
		raw  string
	}{
		{"scalar for array", schema.ArrayOf(schema.Scalar("uint8")), `1`},
		{"wrong tuple arity", orderType(), `["0x01"]`},
		{"missing component", orderType(), `{"maker":"0x01"}`},
		{"fixed array length", schema.FixedArrayOf(schema.Scalar("bool"), 2), `[true]`},
		{"number for bool", schema.Scalar("bool"), `1`},
		{"not json", schema.Scalar("string"), `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON(tt.typ, []byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestArgsFromJSON(t *testing.T) {
	types := []*schema.Type{schema.Scalar("address"), schema.Scalar("uint256")}

	args, err := ArgsFromJSON(types, []byte(`["0xabc", "10"]`))
	require.NoError(t, err)
	assert.Equal(t, []any{"0xabc", "10"}, Interfaces(args))

	_, err = ArgsFromJSON(types, []byte(`["0xabc"]`))
	assert.Error(t, err)

	none, err := ArgsFromJSON(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
