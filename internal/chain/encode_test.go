package chain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miaoxn/soliditytool/internal/value"
)

func mustType(t *testing.T, name string, components []abi.ArgumentMarshaling) abi.Type {
	t.Helper()
	typ, err := abi.NewType(name, "", components)
	require.NoError(t, err)
	return typ
}

func TestEncodeValue_Scalars(t *testing.T) {
	tests := []struct {
		name string
		typ  string
		in   string
		want interface{}
	}{
		{"uint256 decimal", "uint256", " 42 ", big.NewInt(42)},
		{"uint256 hex", "uint256", "0xff", big.NewInt(255)},
		{"uint8 narrowed", "uint8", "255", uint8(255)},
		{"int8 min", "int8", "-128", int8(-128)},
		{"int64", "int64", "-9000000000", int64(-9000000000)},
		{"uint24 stays big", "uint24", "7", big.NewInt(7)},
		{"bool", "bool", "true", true},
		{"address", "address", "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")},
		{"string kept verbatim", "string", " hi ", " hi "},
		{"bytes", "bytes", "0xdead", []byte{0xde, 0xad}},
		{"empty bytes", "bytes", "", []byte{}},
		{"bytes2", "bytes2", "0xbeef", [2]byte{0xbe, 0xef}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeValue(mustType(t, tt.typ, nil), value.Scalar(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeValue_Rejects(t *testing.T) {
	tests := []struct {
		name string
		typ  string
		in   value.Node
	}{
		{"uint8 overflow", "uint8", value.Scalar("256")},
		{"negative uint", "uint256", value.Scalar("-1")},
		{"int8 overflow", "int8", value.Scalar("128")},
		{"not a number", "uint256", value.Scalar("1.5")},
		{"bad bool", "bool", value.Scalar("yes")},
		{"bad address", "address", value.Scalar("0x1234")},
		{"bytes2 wrong size", "bytes2", value.Scalar("0xbe")},
		{"odd hex", "bytes", value.Scalar("0xabc")},
		{"scalar for slice", "uint8[]", value.Scalar("1")},
		{"fixed array length", "uint8[2]", value.List(value.Scalar("1"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encodeValue(mustType(t, tt.typ, nil), tt.in)
			assert.Error(t, err)
		})
	}
}

func TestEncodeValue_NestedTuples(t *testing.T) {
	typ := mustType(t, "tuple[]", []abi.ArgumentMarshaling{
		{Name: "maker", Type: "address"},
		{Name: "amounts", Type: "uint16[]"},
		{Name: "legs", Type: "tuple[2]", Components: []abi.ArgumentMarshaling{
			{Name: "on", Type: "bool"},
		}},
	})
	in := value.List(value.List(
		value.Scalar("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
		value.List(value.Scalar("1"), value.Scalar("2")),
		value.List(value.List(value.Scalar("true")), value.List(value.Scalar("false"))),
	))

	got, err := encodeValue(typ, in)
	require.NoError(t, err)

	args := abi.Arguments{{Type: typ}}
	packed, err := args.Pack(got)
	require.NoError(t, err)

	unpacked, err := args.Unpack(packed)
	require.NoError(t, err)
	require.Len(t, unpacked, 1)
	assert.Equal(t, got, unpacked[0])
}
