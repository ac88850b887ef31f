// Package decode turns raw wire values into typed in-memory values, driven
// by a registry of per-type decode functions and by generator-produced
// struct schemas.
package decode

import (
	"sync"

	"github.com/movechain/moveclient/types"
)

// Func decodes a raw wire value against a concrete type tag. The registry is
// passed back in so container decoders can recurse through it.
type Func func(raw any, tag types.TypeTag, reg *Registry) (types.DecodedValue, error)

// Registry maps a type's paramless name to its decode function. Dispatch is
// always by paramless name, never by full name, so one registered decoder
// serves Coin<USD>, Coin<EUR> and every other instantiation of a generic
// struct. Registration happens once at startup; reads are concurrent.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Func
}

// NewRegistry returns a registry pre-loaded with the built-in decoders for
// the atomic types, vectors, and the well-known ASCII string type.
func NewRegistry() *Registry {
	r := &Registry{decoders: make(map[string]Func)}
	registerBuiltins(r)
	return r
}

// Register binds a decode function to a paramless type name, replacing any
// prior binding.
func (r *Registry) Register(paramlessName string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[paramlessName] = fn
}

// RegisterSchema binds a struct schema's type to a decoder that runs the
// struct decode protocol against the schema. This is what generated module
// bindings call for each struct they declare.
func (r *Registry) RegisterSchema(schema *types.StructSchema) {
	r.Register(schema.ParamlessName(), func(raw any, tag types.TypeTag, reg *Registry) (types.DecodedValue, error) {
		return DecodeStruct(raw, tag, schema, reg)
	})
}

// DecoderFor looks up the decode function for a tag by its paramless name.
func (r *Registry) DecoderFor(tag types.TypeTag) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.decoders[types.ParamlessName(tag)]
	return fn, ok
}

// Decode dispatches raw to the decoder registered for tag. The tag must be
// fully concrete.
func (r *Registry) Decode(raw any, tag types.TypeTag) (types.DecodedValue, error) {
	if !types.IsConcrete(tag) {
		return nil, &types.DecodeError{
			Type: types.FullName(tag),
			Msg:  "tag contains unresolved generic parameters",
		}
	}
	fn, ok := r.DecoderFor(tag)
	if !ok {
		return nil, &types.DecodeError{
			Type: types.FullName(tag),
			Msg:  "no decoder for type " + types.ParamlessName(tag),
		}
	}
	return fn(raw, tag, r)
}
