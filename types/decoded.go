package types

import (
	"encoding/hex"
	"math/big"
)

// DecodedValue is the typed result of decoding a raw wire value. It is a
// closed sum over the value shapes a decoder can produce; generated struct
// bindings may add their own implementations via a schema constructor.
type DecodedValue interface {
	decodedValue()
}

// BoolValue is a decoded bool.
type BoolValue bool

// IntValue is a decoded unsigned integer. All integer widths decode into an
// arbitrary-precision value because u64 and u128 routinely exceed the safe
// range of a float64.
type IntValue struct {
	Int *big.Int
}

// AddressValue is a decoded account address, lower-case 0x-prefixed hex.
type AddressValue string

// BytesValue is a decoded vector<u8>.
type BytesValue []byte

// StringValue is a decoded ASCII string value.
type StringValue string

// VectorValue is a decoded vector of any element type other than u8.
type VectorValue []DecodedValue

// StructValue is the generic decoded form of a struct resource: the
// concrete tag it was decoded under plus one decoded value per field. It is
// what the default schema constructor produces.
type StructValue struct {
	Tag    *StructTag
	Fields map[string]DecodedValue
}

func (BoolValue) decodedValue()    {}
func (IntValue) decodedValue()     {}
func (AddressValue) decodedValue() {}
func (BytesValue) decodedValue()   {}
func (StringValue) decodedValue()  {}
func (VectorValue) decodedValue()  {}
func (*StructValue) decodedValue() {}

// NewIntValue wraps a uint64 for convenience in tests and constructors.
func NewIntValue(v uint64) IntValue {
	return IntValue{Int: new(big.Int).SetUint64(v)}
}

func (b BytesValue) String() string {
	return "0x" + hex.EncodeToString(b)
}
