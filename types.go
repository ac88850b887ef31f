package moveclient

import (
	"github.com/movechain/moveclient/types"
)

// Aliases for the types most callers touch, so simple consumers only import
// the root package.

// TypeTag is the structural representation of a type signature.
type TypeTag = types.TypeTag

// StructTag is a nominal type plus its generic arguments.
type StructTag = types.StructTag

// StructSchema is a generator-produced struct declaration.
type StructSchema = types.StructSchema

// DecodedValue is the typed result of decoding a raw wire value.
type DecodedValue = types.DecodedValue

// TransactionResult is the node's view of a submitted transaction.
type TransactionResult = types.TransactionResult
