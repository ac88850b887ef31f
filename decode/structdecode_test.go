package decode

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movechain/moveclient/types"
)

// coinSchema mirrors the classic generated binding for
// 0x1::Coin::Coin<phantom CoinType> { value: u64 }.
func coinSchema() *types.StructSchema {
	return &types.StructSchema{
		ModuleAddress: "0x1",
		ModuleName:    "Coin",
		Name:          "Coin",
		TypeParams:    []types.TypeParam{{Name: "CoinType", IsPhantom: true}},
		Fields:        []types.Field{{Name: "value", Type: types.U64}},
	}
}

// boxSchema declares a field whose type is the struct's own generic
// parameter: 0x2::Box::Box<T> { item: T }.
func boxSchema() *types.StructSchema {
	return &types.StructSchema{
		ModuleAddress: "0x2",
		ModuleName:    "Box",
		Name:          "Box",
		TypeParams:    []types.TypeParam{{Name: "T"}},
		Fields:        []types.Field{{Name: "item", Type: &types.TypeParamTag{Index: 0}}},
	}
}

func mustTag(t *testing.T, text string) types.TypeTag {
	t.Helper()
	tag, err := types.ParseTypeTag(text)
	require.NoError(t, err)
	return tag
}

func TestDecodeStructDefaultConstructor(t *testing.T) {
	r := NewRegistry()
	schema := coinSchema()
	tag := mustTag(t, "0x1::Coin::Coin<0x1::USD::USD>").(*types.StructTag)

	v, err := DecodeStruct(map[string]any{"value": "100"}, tag, schema, r)
	require.NoError(t, err)

	sv, ok := v.(*types.StructValue)
	require.True(t, ok)
	assert.Equal(t, tag, sv.Tag)
	assert.Equal(t, int64(100), sv.Fields["value"].(types.IntValue).Int.Int64())
}

func TestDecodeStructCustomConstructor(t *testing.T) {
	type coin struct {
		types.StructValue
	}
	r := NewRegistry()
	schema := coinSchema()
	schema.New = func(fields map[string]types.DecodedValue, tag *types.StructTag) (types.DecodedValue, error) {
		return &coin{types.StructValue{Tag: tag, Fields: fields}}, nil
	}
	tag := mustTag(t, "0x1::Coin::Coin<0x1::USD::USD>").(*types.StructTag)

	v, err := DecodeStruct(map[string]any{"value": "1"}, tag, schema, r)
	require.NoError(t, err)
	_, ok := v.(*coin)
	assert.True(t, ok)
}

func TestSingleDecoderManyInstantiations(t *testing.T) {
	r := NewRegistry()
	r.RegisterSchema(coinSchema())

	// one registration serves every instantiation
	for _, text := range []string{
		"0x1::Coin::Coin<0x1::USD::USD>",
		"0x1::Coin::Coin<0x1::EUR::EUR>",
		"0x1::Coin::Coin<vector<u8>>",
	} {
		v, err := r.Decode(map[string]any{"value": "42"}, mustTag(t, text))
		require.NoError(t, err, "tag %s", text)
		assert.Equal(t, int64(42), v.(*types.StructValue).Fields["value"].(types.IntValue).Int.Int64())
	}
}

func TestFieldTypeParamSubstitution(t *testing.T) {
	r := NewRegistry()
	schema := boxSchema()

	// Box<u64>: the item field must go through the u64 decoder
	v, err := DecodeStruct(map[string]any{"item": "42"}, mustTag(t, "0x2::Box::Box<u64>").(*types.StructTag), schema, r)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.(*types.StructValue).Fields["item"].(types.IntValue).Int.Int64())

	// Box<bool>: same schema, different substitution
	v, err = DecodeStruct(map[string]any{"item": true}, mustTag(t, "0x2::Box::Box<bool>").(*types.StructTag), schema, r)
	require.NoError(t, err)
	assert.Equal(t, types.BoolValue(true), v.(*types.StructValue).Fields["item"])

	// substituted type still validates shape
	_, err = DecodeStruct(map[string]any{"item": json.Number("300")}, mustTag(t, "0x2::Box::Box<u8>").(*types.StructTag), schema, r)
	var decodeErr *types.DecodeError
	require.True(t, errors.As(err, &decodeErr))
}

func TestNestedTypeParamSubstitution(t *testing.T) {
	r := NewRegistry()
	schema := &types.StructSchema{
		ModuleAddress: "0x2",
		ModuleName:    "Bag",
		Name:          "Bag",
		TypeParams:    []types.TypeParam{{Name: "T"}},
		Fields:        []types.Field{{Name: "items", Type: &types.VectorTag{Elem: &types.TypeParamTag{Index: 0}}}},
	}

	v, err := DecodeStruct(
		map[string]any{"items": []any{"1", "2"}},
		mustTag(t, "0x2::Bag::Bag<u64>").(*types.StructTag),
		schema, r,
	)
	require.NoError(t, err)
	items := v.(*types.StructValue).Fields["items"].(types.VectorValue)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[1].(types.IntValue).Int.Int64())
}

func TestGenericStructFieldRecursion(t *testing.T) {
	r := NewRegistry()
	r.RegisterSchema(coinSchema())
	// 0x3::Vault::Vault<T> { balance: 0x1::Coin::Coin<T> }
	schema := &types.StructSchema{
		ModuleAddress: "0x3",
		ModuleName:    "Vault",
		Name:          "Vault",
		TypeParams:    []types.TypeParam{{Name: "T", IsPhantom: true}},
		Fields: []types.Field{{
			Name: "balance",
			Type: &types.StructTag{
				Address: "0x1", Module: "Coin", Name: "Coin",
				TypeParams: []types.TypeTag{&types.TypeParamTag{Index: 0}},
			},
		}},
	}

	v, err := DecodeStruct(
		map[string]any{"balance": map[string]any{"value": "9"}},
		mustTag(t, "0x3::Vault::Vault<0x1::USD::USD>").(*types.StructTag),
		schema, r,
	)
	require.NoError(t, err)
	balance := v.(*types.StructValue).Fields["balance"].(*types.StructValue)
	assert.Equal(t, "0x1::Coin::Coin<0x1::USD::USD>", types.FullName(balance.Tag))
	assert.Equal(t, int64(9), balance.Fields["value"].(types.IntValue).Int.Int64())
}

func TestTagSchemaMismatch(t *testing.T) {
	r := NewRegistry()
	schema := coinSchema()

	cases := map[string]string{
		"0x2::Coin::Coin<0x1::USD::USD>":  "0x2",     // wrong address
		"0x1::Token::Coin<0x1::USD::USD>": "Token",   // wrong module
		"0x1::Coin::Balance":              "Balance", // wrong name
	}
	for text, actual := range cases {
		_, err := DecodeStruct(map[string]any{"value": "1"}, mustTag(t, text), schema, r)
		var mismatch *types.SchemaMismatchError
		require.True(t, errors.As(err, &mismatch), "tag %s", text)
		assert.Equal(t, actual, mismatch.Actual, "tag %s", text)
	}

	// non-struct tag
	_, err := DecodeStruct(true, types.Bool, schema, r)
	var mismatch *types.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
}

func TestMissingField(t *testing.T) {
	r := NewRegistry()
	schema := &types.StructSchema{
		ModuleAddress: "0x4",
		ModuleName:    "Person",
		Name:          "Person",
		Fields:        []types.Field{{Name: "age", Type: types.U8}},
	}
	tag := mustTag(t, "0x4::Person::Person").(*types.StructTag)

	_, err := DecodeStruct(map[string]any{"name": "ada"}, tag, schema, r)
	var mismatch *types.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "age", mismatch.Field)
	assert.Contains(t, err.Error(), `"age"`)
}

func TestASCIIStringBareValue(t *testing.T) {
	r := NewRegistry()
	schema := &types.StructSchema{
		ModuleAddress: "0x1",
		ModuleName:    "ASCII",
		Name:          "String",
		Fields:        []types.Field{{Name: "bytes", Type: &types.VectorTag{Elem: types.U8}}},
	}
	tag := mustTag(t, ASCIIStringName).(*types.StructTag)

	// on the wire the type is a bare string, returned verbatim
	v, err := DecodeStruct("hello", tag, schema, r)
	require.NoError(t, err)
	assert.Equal(t, types.StringValue("hello"), v)

	// any other schema still requires a record
	_, err = DecodeStruct("hello", mustTag(t, "0x4::Person::Person").(*types.StructTag), &types.StructSchema{
		ModuleAddress: "0x4", ModuleName: "Person", Name: "Person",
	}, r)
	var mismatch *types.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
}

func TestSchemaTagArity(t *testing.T) {
	schema := coinSchema()

	_, err := schema.Tag()
	require.Error(t, err)
	_, err = schema.Tag(types.U64, types.U64)
	require.Error(t, err)
	_, err = schema.Tag(&types.TypeParamTag{Index: 0})
	require.Error(t, err)

	tag, err := schema.Tag(mustTag(t, "0x1::USD::USD"))
	require.NoError(t, err)
	assert.Equal(t, "0x1::Coin::Coin<0x1::USD::USD>", types.FullName(tag))
}
