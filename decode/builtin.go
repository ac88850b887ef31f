package decode

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/movechain/moveclient/types"
)

// ASCIIStringName is the paramless name of the standard library's ASCII
// string type. Nodes serialize it as a bare JSON string even though it is
// nominally a struct.
const ASCIIStringName = "0x1::ASCII::String"

var (
	maxU8   = big.NewInt(math.MaxUint8)
	maxU64  = new(big.Int).SetUint64(math.MaxUint64)
	maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

func registerBuiltins(r *Registry) {
	r.Register("bool", decodeBool)
	r.Register("u8", decodeUint(maxU8))
	r.Register("u64", decodeUint(maxU64))
	r.Register("u128", decodeUint(maxU128))
	r.Register("address", decodeAddress)
	r.Register("vector", decodeVector)
	r.Register(ASCIIStringName, decodeASCIIString)
}

func decodeBool(raw any, tag types.TypeTag, _ *Registry) (types.DecodedValue, error) {
	b, ok := raw.(bool)
	if !ok {
		return nil, shapeError(tag, raw, "expected a bool")
	}
	return types.BoolValue(b), nil
}

// decodeUint builds the decoder for one unsigned integer width. Values
// arrive as JSON numbers or as decimal strings (nodes string-encode u64 and
// u128 to dodge float64 truncation); either way the result is
// arbitrary-precision.
func decodeUint(max *big.Int) Func {
	return func(raw any, tag types.TypeTag, _ *Registry) (types.DecodedValue, error) {
		n, err := rawBigInt(raw, tag)
		if err != nil {
			return nil, err
		}
		if n.Sign() < 0 || n.Cmp(max) > 0 {
			return nil, &types.DecodeError{
				Type: types.FullName(tag),
				Msg:  fmt.Sprintf("value %s out of range [0, %s]", n, max),
			}
		}
		return types.IntValue{Int: n}, nil
	}
}

func rawBigInt(raw any, tag types.TypeTag) (*big.Int, error) {
	var text string
	switch v := raw.(type) {
	case json.Number:
		text = v.String()
	case string:
		text = v
	case float64:
		// Plain json.Unmarshal output. Integral values only. Rendered to
		// decimal text instead of converting through a machine integer,
		// which would wrap or saturate above 2^63.
		if v != math.Trunc(v) {
			return nil, shapeError(tag, raw, "expected an integer")
		}
		text = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return nil, shapeError(tag, raw, "expected an integer")
	}
	n, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil, shapeError(tag, raw, "expected a decimal integer")
	}
	return n, nil
}

func decodeAddress(raw any, tag types.TypeTag, _ *Registry) (types.DecodedValue, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, shapeError(tag, raw, "expected a 0x-prefixed address string")
	}
	if !strings.HasPrefix(s, "0x") || len(s) < 3 {
		return nil, shapeError(tag, raw, "expected a 0x-prefixed address string")
	}
	for i := 2; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return nil, shapeError(tag, raw, "address contains non-hex characters")
		}
	}
	return types.AddressValue(strings.ToLower(s)), nil
}

// decodeVector decodes vector<T>. vector<u8> is special-cased: nodes encode
// byte vectors as 0x-prefixed hex strings rather than JSON arrays, so the
// bytes are converted directly instead of recursing per element.
func decodeVector(raw any, tag types.TypeTag, reg *Registry) (types.DecodedValue, error) {
	vt, ok := tag.(*types.VectorTag)
	if !ok {
		return nil, shapeError(tag, raw, "vector decoder invoked with a non-vector tag")
	}
	if vt.Elem == types.U8 {
		s, ok := raw.(string)
		if !ok || !strings.HasPrefix(s, "0x") {
			return nil, shapeError(tag, raw, "expected a 0x-prefixed hex string")
		}
		b, err := hex.DecodeString(s[2:])
		if err != nil {
			return nil, shapeError(tag, raw, "malformed hex encoding")
		}
		return types.BytesValue(b), nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, shapeError(tag, raw, "expected an array")
	}
	out := make(types.VectorValue, len(items))
	for i, item := range items {
		v, err := reg.Decode(item, vt.Elem)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func decodeASCIIString(raw any, tag types.TypeTag, _ *Registry) (types.DecodedValue, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, shapeError(tag, raw, "expected a string")
	}
	return types.StringValue(s), nil
}

func shapeError(tag types.TypeTag, raw any, msg string) *types.DecodeError {
	return &types.DecodeError{
		Type: types.FullName(tag),
		Msg:  fmt.Sprintf("%s, got %T", msg, raw),
	}
}
