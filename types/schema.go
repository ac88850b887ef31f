package types

import (
	"fmt"
)

// TypeParam declares one generic parameter of a struct schema.
type TypeParam struct {
	Name      string
	IsPhantom bool
}

// Field declares one struct field. Type may contain TypeParamTag references
// that are resolved against a concrete tag at decode time.
type Field struct {
	Name string
	Type TypeTag
}

// Constructor assembles the final decoded value from the decoded fields and
// the concrete tag a struct was decoded under. Generated bindings supply a
// constructor producing their own typed struct; NewStructValue is the
// generic fallback.
type Constructor func(fields map[string]DecodedValue, tag *StructTag) (DecodedValue, error)

// StructSchema is the generator-produced declaration of an on-chain struct:
// its identity, generic parameters, fields, and construction function. It is
// immutable after creation and shared by every decode call for the type.
type StructSchema struct {
	ModuleAddress string
	ModuleName    string
	Name          string
	TypeParams    []TypeParam
	Fields        []Field
	New           Constructor
}

// ParamlessName is the registry key for every instantiation of this struct.
func (s *StructSchema) ParamlessName() string {
	return s.ModuleAddress + "::" + s.ModuleName + "::" + s.Name
}

// Tag builds a concrete StructTag for this schema from the given type
// arguments. The argument count must match the declared parameter count and
// every argument must itself be concrete.
func (s *StructSchema) Tag(typeParams ...TypeTag) (*StructTag, error) {
	if len(typeParams) != len(s.TypeParams) {
		return nil, fmt.Errorf("%s takes %d type parameter(s), got %d", s.ParamlessName(), len(s.TypeParams), len(typeParams))
	}
	for i, p := range typeParams {
		if !IsConcrete(p) {
			return nil, fmt.Errorf("%s: type parameter %d (%s) is not concrete", s.ParamlessName(), i, FullName(p))
		}
	}
	return &StructTag{
		Address:    s.ModuleAddress,
		Module:     s.ModuleName,
		Name:       s.Name,
		TypeParams: typeParams,
	}, nil
}

// NewStructValue is the default schema constructor. It keeps the decoded
// fields in a generic StructValue.
func NewStructValue(fields map[string]DecodedValue, tag *StructTag) (DecodedValue, error) {
	return &StructValue{Tag: tag, Fields: fields}, nil
}
