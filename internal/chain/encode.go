package chain

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/miaoxn/soliditytool/internal/value"
)

var bigIntPtr = reflect.TypeOf((*big.Int)(nil))

// encodeArgs converts argument trees into the Go values abi.Pack expects.
func encodeArgs(args abi.Arguments, values []value.Node) ([]interface{}, error) {
	if len(args) != len(values) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(args), len(values))
	}
	out := make([]interface{}, len(args))
	for i, arg := range args {
		v, err := encodeValue(arg.Type, values[i])
		if err != nil {
			name := arg.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s: %w", name, err)
		}
		out[i] = v
	}
	return out, nil
}

func encodeValue(t abi.Type, v value.Node) (interface{}, error) {
	switch t.T {
	case abi.BoolTy:
		switch strings.TrimSpace(v.Text()) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return nil, fmt.Errorf("invalid bool %q", v.Text())
		}

	case abi.IntTy, abi.UintTy:
		return encodeInteger(t, v.Text())

	case abi.AddressTy:
		text := strings.TrimSpace(v.Text())
		if !common.IsHexAddress(text) {
			return nil, fmt.Errorf("invalid address %q", text)
		}
		return common.HexToAddress(text), nil

	case abi.StringTy:
		return v.Text(), nil

	case abi.BytesTy:
		return decodeHex(v.Text())

	case abi.FixedBytesTy, abi.FunctionTy:
		b, err := decodeHex(v.Text())
		if err != nil {
			return nil, err
		}
		size := t.Size
		if t.T == abi.FunctionTy {
			size = 24
		}
		if len(b) != size {
			return nil, fmt.Errorf("%s needs %d bytes, got %d", t.String(), size, len(b))
		}
		rv := reflect.New(t.GetType()).Elem()
		reflect.Copy(rv, reflect.ValueOf(b))
		return rv.Interface(), nil

	case abi.SliceTy:
		if !v.IsList() {
			return nil, fmt.Errorf("%s needs a list", t.String())
		}
		rv := reflect.MakeSlice(t.GetType(), v.Len(), v.Len())
		if err := fillElements(rv, *t.Elem, v); err != nil {
			return nil, err
		}
		return rv.Interface(), nil

	case abi.ArrayTy:
		if !v.IsList() || v.Len() != t.Size {
			return nil, fmt.Errorf("%s needs exactly %d elements", t.String(), t.Size)
		}
		rv := reflect.New(t.GetType()).Elem()
		if err := fillElements(rv, *t.Elem, v); err != nil {
			return nil, err
		}
		return rv.Interface(), nil

	case abi.TupleTy:
		if !v.IsList() || v.Len() != len(t.TupleElems) {
			return nil, fmt.Errorf("tuple needs exactly %d components", len(t.TupleElems))
		}
		rv := reflect.New(t.TupleType).Elem()
		for i, elem := range t.TupleElems {
			ev, err := encodeValue(*elem, v.At(i))
			if err != nil {
				return nil, fmt.Errorf("component %s: %w", t.TupleRawNames[i], err)
			}
			rv.Field(i).Set(reflect.ValueOf(ev))
		}
		return rv.Interface(), nil

	default:
		return nil, fmt.Errorf("unsupported type %s", t.String())
	}
}

func fillElements(rv reflect.Value, elem abi.Type, v value.Node) error {
	for i := 0; i < v.Len(); i++ {
		ev, err := encodeValue(elem, v.At(i))
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		rv.Index(i).Set(reflect.ValueOf(ev))
	}
	return nil
}

// encodeInteger parses decimal or 0x hex text and narrows it to the Go type
// go-ethereum uses for the declared width.
func encodeInteger(t abi.Type, text string) (interface{}, error) {
	text = strings.TrimSpace(text)
	neg := strings.HasPrefix(text, "-")
	digits := strings.TrimPrefix(text, "-")

	var (
		n  *big.Int
		ok bool
	)
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		n, ok = new(big.Int).SetString(digits[2:], 16)
	} else {
		n, ok = new(big.Int).SetString(digits, 10)
	}
	if !ok || digits == "" || strings.ContainsAny(digits, "+-_") {
		return nil, fmt.Errorf("invalid integer %q", text)
	}
	if neg {
		n.Neg(n)
	}

	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, fmt.Errorf("%s out of range for %s", text, t.String())
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("%s out of range for %s", text, t.String())
		}
	}

	goType := t.GetType()
	if goType == bigIntPtr {
		return n, nil
	}
	rv := reflect.New(goType).Elem()
	if t.T == abi.UintTy {
		rv.SetUint(n.Uint64())
	} else {
		rv.SetInt(n.Int64())
	}
	return rv.Interface(), nil
}

func decodeHex(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "0x" {
		return []byte{}, nil
	}
	b, err := hexutil.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", text, err)
	}
	return b, nil
}
