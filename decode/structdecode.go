package decode

import (
	"fmt"

	"github.com/movechain/moveclient/types"
)

// DecodeStruct validates raw against schema under the concrete tag and
// produces the schema's decoded value. It is a one-pass, depth-first,
// schema-directed walk: each field's declared type is resolved against the
// concrete tag's type arguments before dispatching through the registry, so
// a single schema decodes every generic instantiation.
func DecodeStruct(raw any, tag types.TypeTag, schema *types.StructSchema, reg *Registry) (types.DecodedValue, error) {
	st, ok := tag.(*types.StructTag)
	if !ok {
		return nil, &types.SchemaMismatchError{
			Schema:   schema.ParamlessName(),
			Msg:      "tag is not a struct type",
			Expected: schema.ParamlessName(),
			Actual:   types.FullName(tag),
		}
	}
	if st.Address != schema.ModuleAddress {
		return nil, tagMismatch(schema, "wrong module address", schema.ModuleAddress, st.Address)
	}
	if st.Module != schema.ModuleName {
		return nil, tagMismatch(schema, "wrong module name", schema.ModuleName, st.Module)
	}
	if st.Name != schema.Name {
		return nil, tagMismatch(schema, "wrong struct name", schema.Name, st.Name)
	}

	record, ok := raw.(map[string]any)
	if !ok {
		// The standard library's ASCII string is a struct on-chain but a
		// bare string on the wire.
		if schema.ParamlessName() == ASCIIStringName {
			if s, isString := raw.(string); isString {
				return types.StringValue(s), nil
			}
		}
		return nil, &types.SchemaMismatchError{
			Schema: schema.ParamlessName(),
			Msg:    fmt.Sprintf("expected a record, got %T", raw),
		}
	}

	fields := make(map[string]types.DecodedValue, len(schema.Fields))
	for _, field := range schema.Fields {
		rawField, present := record[field.Name]
		if !present {
			return nil, &types.SchemaMismatchError{
				Schema: schema.ParamlessName(),
				Field:  field.Name,
			}
		}
		fieldType, err := resolveTypeParams(field.Type, st.TypeParams)
		if err != nil {
			return nil, fmt.Errorf("field %s of %s: %w", field.Name, schema.ParamlessName(), err)
		}
		value, err := reg.Decode(rawField, fieldType)
		if err != nil {
			return nil, err
		}
		fields[field.Name] = value
	}

	construct := schema.New
	if construct == nil {
		construct = types.NewStructValue
	}
	return construct(fields, st)
}

// resolveTypeParams substitutes TypeParamTag references in a declared field
// type with the enclosing tag's concrete type arguments, recursing into
// vectors and nested struct instantiations. An out-of-range index means the
// schema generator produced a broken schema and is reported as a plain
// internal error, not a decode failure.
func resolveTypeParams(decl types.TypeTag, params []types.TypeTag) (types.TypeTag, error) {
	switch t := decl.(type) {
	case *types.AtomicTag:
		return t, nil
	case *types.TypeParamTag:
		if t.Index < 0 || t.Index >= len(params) {
			return nil, fmt.Errorf("type parameter index %d out of range (have %d)", t.Index, len(params))
		}
		return params[t.Index], nil
	case *types.VectorTag:
		elem, err := resolveTypeParams(t.Elem, params)
		if err != nil {
			return nil, err
		}
		if elem == t.Elem {
			return t, nil
		}
		return &types.VectorTag{Elem: elem}, nil
	case *types.StructTag:
		if len(t.TypeParams) == 0 {
			return t, nil
		}
		resolved := make([]types.TypeTag, len(t.TypeParams))
		for i, p := range t.TypeParams {
			r, err := resolveTypeParams(p, params)
			if err != nil {
				return nil, err
			}
			resolved[i] = r
		}
		return &types.StructTag{
			Address:    t.Address,
			Module:     t.Module,
			Name:       t.Name,
			TypeParams: resolved,
		}, nil
	default:
		return nil, fmt.Errorf("unknown type tag %T", decl)
	}
}

func tagMismatch(schema *types.StructSchema, msg, expected, actual string) *types.SchemaMismatchError {
	return &types.SchemaMismatchError{
		Schema:   schema.ParamlessName(),
		Msg:      msg,
		Expected: expected,
		Actual:   actual,
	}
}
