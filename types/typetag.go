package types

import (
	"fmt"
	"strings"
)

// TypeTag is the structural representation of a Move type signature.
// It is a closed sum: the only implementations are AtomicTag, VectorTag,
// StructTag and TypeParamTag. Consumers dispatch with a type switch.
type TypeTag interface {
	typeTag()
}

// AtomicTag is a primitive chain type. The five instances below are
// singletons; compare them by identity, not structurally.
type AtomicTag struct {
	name string
}

var (
	Bool    = &AtomicTag{"bool"}
	U8      = &AtomicTag{"u8"}
	U64     = &AtomicTag{"u64"}
	U128    = &AtomicTag{"u128"}
	Address = &AtomicTag{"address"}
)

// VectorTag is a homogeneous sequence type.
type VectorTag struct {
	Elem TypeTag
}

// StructTag is a nominal type identified by (Address, Module, Name) plus
// zero or more generic arguments.
type StructTag struct {
	Address    string
	Module     string
	Name       string
	TypeParams []TypeTag
}

// TypeParamTag is an unresolved reference to the Index-th generic parameter
// of the enclosing struct. It may only appear in struct schema field
// declarations; a tag handed to a decoder must never contain one.
type TypeParamTag struct {
	Index int
}

func (*AtomicTag) typeTag()    {}
func (*VectorTag) typeTag()    {}
func (*StructTag) typeTag()    {}
func (*TypeParamTag) typeTag() {}

// FullName renders the canonical identity of a tag including generic
// arguments, e.g. "0x1::Coin::Coin<0x1::USD::USD>". It is the inverse of
// ParseTypeTag for every well-formed input.
func FullName(tag TypeTag) string {
	switch t := tag.(type) {
	case *AtomicTag:
		return t.name
	case *VectorTag:
		return "vector<" + FullName(t.Elem) + ">"
	case *StructTag:
		base := t.Address + "::" + t.Module + "::" + t.Name
		if len(t.TypeParams) == 0 {
			return base
		}
		parts := make([]string, len(t.TypeParams))
		for i, p := range t.TypeParams {
			parts[i] = FullName(p)
		}
		return base + "<" + strings.Join(parts, ", ") + ">"
	case *TypeParamTag:
		return fmt.Sprintf("T%d", t.Index)
	default:
		panic(fmt.Sprintf("unknown type tag %T", tag))
	}
}

// ParamlessName renders the identity of a tag with generic arguments
// erased: "vector" for any vector, "0x1::Coin::Coin" for any Coin
// instantiation. The decoder registry is keyed by this name so a single
// decoder serves every instantiation of a generic struct.
func ParamlessName(tag TypeTag) string {
	switch t := tag.(type) {
	case *AtomicTag:
		return t.name
	case *VectorTag:
		return "vector"
	case *StructTag:
		return t.Address + "::" + t.Module + "::" + t.Name
	case *TypeParamTag:
		return fmt.Sprintf("T%d", t.Index)
	default:
		panic(fmt.Sprintf("unknown type tag %T", tag))
	}
}

// IsConcrete reports whether a tag is free of unresolved generic parameter
// references anywhere in its structure.
func IsConcrete(tag TypeTag) bool {
	switch t := tag.(type) {
	case *AtomicTag:
		return true
	case *VectorTag:
		return IsConcrete(t.Elem)
	case *StructTag:
		for _, p := range t.TypeParams {
			if !IsConcrete(p) {
				return false
			}
		}
		return true
	case *TypeParamTag:
		return false
	default:
		panic(fmt.Sprintf("unknown type tag %T", tag))
	}
}
