// Package moveclient is the runtime decoding core of a Move-chain client:
// it parses textual type signatures into structural type tags, decodes raw
// wire values against generator-produced struct schemas through a
// generic-aware decoder registry, and keeps a client-side resource cache in
// sync with on-chain state.
//
// The usual wiring is one registry and one cache per client, created by the
// caller and threaded through explicitly:
//
//	registry := decode.NewRegistry()
//	coin.RegisterSchemas(registry) // generated module bindings
//	cache := moveclient.NewResourceCache(moveclient.NewNodeClient(cfg), registry, logger)
package moveclient

import (
	"github.com/rs/zerolog"

	"github.com/movechain/moveclient/decode"
)

// New builds a cache backed by the bundled node client and a registry
// pre-loaded with the built-in decoders. Callers register their generated
// schemas on the returned registry before loading.
func New(cfg ClientConfig, logger zerolog.Logger) (*ResourceCache, *decode.Registry) {
	registry := decode.NewRegistry()
	return NewResourceCache(NewNodeClient(cfg), registry, logger), registry
}
