package moveclient

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/movechain/moveclient/decode"
	"github.com/movechain/moveclient/types"
)

// Listener observes one resource key. ID identifies the subscriber:
// registering two listeners with the same ID on the same key keeps only the
// first. Either callback may be nil. Callbacks run isolated; a panic in one
// subscriber is logged and does not reach the others or the caller.
type Listener struct {
	ID       string
	OnUpdate func(key string, value types.DecodedValue)
	OnDelete func(key string)
}

// Metrics are cumulative counters over a cache's lifetime.
type Metrics struct {
	// Loads counts every upsert, silent inserts included.
	Loads uint64
	// Updates counts upserts that replaced an existing entry.
	Updates uint64
	// Deletes counts entries removed by transaction change-sets.
	Deletes uint64
	// SkippedResources counts account resources dropped because no decoder
	// could handle them.
	SkippedResources uint64
	// ListenerPanics counts recovered subscriber callback panics.
	ListenerPanics uint64
}

// replayTuple is everything needed to re-issue a Load for a key.
type replayTuple struct {
	schema     *types.StructSchema
	address    string
	typeParams []types.TypeTag
}

// ResourceCache keeps decoded on-chain resources in sync with the node. It
// loads resources individually or per account, re-loads them on demand,
// applies a submitted transaction's change-set without a network round
// trip, and notifies subscribers when entries change.
//
// Entries are keyed by "ownerAddress/fullTypeName", so two instantiations
// of the same generic struct are distinct resources. Last write wins per
// key; concurrent Loads of an identical key share a single network fetch.
type ResourceCache struct {
	client   NetworkClient
	registry *decode.Registry
	logger   zerolog.Logger

	flight singleflight.Group

	mu        sync.RWMutex
	entries   map[string]types.DecodedValue
	rawStore  dbm.DB // raw wire bytes per key, in-memory only
	replay    map[string]replayTuple
	listeners map[string][]Listener
	watched   map[string]struct{}
	metrics   Metrics
}

// NewResourceCache creates an empty cache on top of a node client and a
// decoder registry.
func NewResourceCache(client NetworkClient, registry *decode.Registry, logger zerolog.Logger) *ResourceCache {
	return &ResourceCache{
		client:    client,
		registry:  registry,
		logger:    logger,
		entries:   make(map[string]types.DecodedValue),
		rawStore:  dbm.NewMemDB(),
		replay:    make(map[string]replayTuple),
		listeners: make(map[string][]Listener),
		watched:   make(map[string]struct{}),
	}
}

// ResourceKey builds the cache key for a resource: owner address plus the
// full (generics included) type name.
func ResourceKey(address string, tag types.TypeTag) string {
	return strings.ToLower(address) + "/" + types.FullName(tag)
}

// Load fetches one resource, decodes it against schema under the concrete
// tag built from typeParams, and caches it. A brand-new key is inserted
// silently; an existing key is replaced and every registered listener is
// notified. The (schema, address, typeParams) tuple is recorded so
// GlobalRefresh can replay this load later. If listener is non-nil it is
// registered for the key before the fetch.
//
// Concurrent Loads of the same key share one network fetch and one decoded
// result.
func (c *ResourceCache) Load(ctx context.Context, schema *types.StructSchema, address string, typeParams []types.TypeTag, listener *Listener) (types.DecodedValue, error) {
	tag, err := schema.Tag(typeParams...)
	if err != nil {
		return nil, err
	}
	address = strings.ToLower(address)
	key := ResourceKey(address, tag)

	c.mu.Lock()
	c.replay[key] = replayTuple{schema: schema, address: address, typeParams: typeParams}
	c.mu.Unlock()
	if listener != nil {
		c.AddListener(key, *listener)
	}

	v, err, _ := c.flight.Do(key, func() (any, error) {
		raw, err := c.client.GetResource(ctx, address, types.FullName(tag))
		if err != nil {
			return nil, err
		}
		value, err := decode.DecodeStruct(raw, tag, schema, c.registry)
		if err != nil {
			return nil, err
		}
		c.upsert(key, value, raw)
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(types.DecodedValue), nil
}

// LoadAccount fetches the full resource list of an account and caches every
// resource the registry can decode. Resources with no registered decoder,
// or with a shape the decoder rejects, are logged and skipped; partial
// success is the expected outcome. The address is marked as watched so
// GlobalRefresh re-fetches its whole resource set. Returns the keys that
// were cached.
func (c *ResourceCache) LoadAccount(ctx context.Context, address string, listener *Listener) ([]string, error) {
	address = strings.ToLower(address)
	resources, err := c.client.GetResourcesForAccount(ctx, address)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(resources))
	for _, res := range resources {
		key, err := c.cacheAccountResource(address, res, listener)
		if err != nil {
			c.mu.Lock()
			c.metrics.SkippedResources++
			c.mu.Unlock()
			c.logger.Warn().
				Str("address", address).
				Str("type", res.Type).
				Err(err).
				Msg("skipping undecodable resource")
			continue
		}
		keys = append(keys, key)
	}

	c.mu.Lock()
	c.watched[address] = struct{}{}
	c.mu.Unlock()
	return keys, nil
}

func (c *ResourceCache) cacheAccountResource(address string, res types.AccountResource, listener *Listener) (string, error) {
	tag, err := types.ParseTypeTag(res.Type)
	if err != nil {
		return "", err
	}
	raw, err := types.DecodeRaw(res.Data)
	if err != nil {
		return "", err
	}
	value, err := c.registry.Decode(raw, tag)
	if err != nil {
		return "", err
	}
	key := ResourceKey(address, tag)
	if listener != nil {
		c.AddListener(key, *listener)
	}
	c.upsert(key, value, raw)
	return key, nil
}

// GlobalRefresh re-fetches everything the cache tracks, in two phases.
// Phase 1 re-loads every watched account wholesale. Phase 2 replays, with
// its recorded load tuple, every cached key phase 1 did not touch. A
// failure in either phase is logged and does not stop the remaining
// iterations. Keys the node no longer reports are NOT evicted; a stale
// entry persists until a transaction change-set deletes it.
func (c *ResourceCache) GlobalRefresh(ctx context.Context) error {
	c.mu.RLock()
	addrs := make([]string, 0, len(c.watched))
	for a := range c.watched {
		addrs = append(addrs, a)
	}
	c.mu.RUnlock()
	sort.Strings(addrs)

	touched := make(map[string]struct{})
	for _, addr := range addrs {
		if err := ctx.Err(); err != nil {
			return err
		}
		keys, err := c.LoadAccount(ctx, addr, nil)
		if err != nil {
			c.logger.Warn().Str("address", addr).Err(err).Msg("account refresh failed")
			continue
		}
		for _, k := range keys {
			touched[k] = struct{}{}
		}
	}

	c.mu.RLock()
	remaining := make(map[string]replayTuple)
	for key, tuple := range c.replay {
		if _, ok := touched[key]; ok {
			continue
		}
		if _, cached := c.entries[key]; !cached {
			continue
		}
		remaining[key] = tuple
	}
	c.mu.RUnlock()

	keys := make([]string, 0, len(remaining))
	for k := range remaining {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		tuple := remaining[key]
		if _, err := c.Load(ctx, tuple.schema, tuple.address, tuple.typeParams, nil); err != nil {
			c.logger.Warn().Str("key", key).Err(err).Msg("resource replay failed")
		}
	}
	return nil
}

// UpdateFromTransactionResult applies a committed transaction's change-set
// to the cache without any network fetch. Only changes for keys that are
// already cached are applied: writes re-decode the new payload and notify
// update listeners, deletes evict the entry and notify delete listeners.
// Transactions that failed or carry no hash are ignored.
func (c *ResourceCache) UpdateFromTransactionResult(tx *types.TransactionResult) error {
	if tx == nil || !tx.Success || tx.Hash == "" {
		return nil
	}
	for _, change := range tx.Changes {
		switch change.Kind {
		case types.ChangeWriteResource:
			if err := c.applyWrite(change); err != nil {
				return err
			}
		case types.ChangeDeleteResource:
			if err := c.applyDelete(change); err != nil {
				return err
			}
		default:
			c.logger.Debug().Str("kind", change.Kind).Msg("ignoring unknown change kind")
		}
	}
	return nil
}

func (c *ResourceCache) applyWrite(change types.ResourceChange) error {
	tag, err := types.ParseTypeTag(change.ResourceType)
	if err != nil {
		return err
	}
	key := ResourceKey(change.Address, tag)
	c.mu.RLock()
	_, cached := c.entries[key]
	c.mu.RUnlock()
	if !cached {
		return nil
	}
	raw, err := types.DecodeRaw(change.Data)
	if err != nil {
		return fmt.Errorf("change for %s: %w", key, err)
	}
	value, err := c.registry.Decode(raw, tag)
	if err != nil {
		return err
	}
	c.upsert(key, value, raw)
	return nil
}

func (c *ResourceCache) applyDelete(change types.ResourceChange) error {
	tag, err := types.ParseTypeTag(change.ResourceType)
	if err != nil {
		return err
	}
	key := ResourceKey(change.Address, tag)

	c.mu.Lock()
	if _, cached := c.entries[key]; !cached {
		c.mu.Unlock()
		return nil
	}
	delete(c.entries, key)
	if err := c.rawStore.Delete([]byte(key)); err != nil {
		c.logger.Error().Str("key", key).Err(err).Msg("raw store delete failed")
	}
	c.metrics.Deletes++
	toNotify := append([]Listener(nil), c.listeners[key]...)
	c.mu.Unlock()

	for _, l := range toNotify {
		c.notifyDelete(l, key)
	}
	return nil
}

// upsert stores a decoded value (and its raw wire form) under key. Inserts
// are silent; replacing an existing entry notifies every listener in
// registration order.
func (c *ResourceCache) upsert(key string, value types.DecodedValue, raw any) {
	bz, err := json.Marshal(raw)
	if err != nil {
		// raw came out of a JSON decoder, so this only trips on exotic
		// registry-injected values.
		c.logger.Error().Str("key", key).Err(err).Msg("cannot re-encode raw value")
		bz = nil
	}

	c.mu.Lock()
	_, existed := c.entries[key]
	c.entries[key] = value
	if bz != nil {
		if err := c.rawStore.Set([]byte(key), bz); err != nil {
			c.logger.Error().Str("key", key).Err(err).Msg("raw store write failed")
		}
	}
	c.metrics.Loads++
	var toNotify []Listener
	if existed {
		c.metrics.Updates++
		toNotify = append([]Listener(nil), c.listeners[key]...)
	}
	c.mu.Unlock()

	for _, l := range toNotify {
		c.notifyUpdate(l, key, value)
	}
}

// AddListener registers a listener for a key. Re-registering a listener
// with an ID already present on that key is a no-op.
func (c *ResourceCache) AddListener(key string, l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.listeners[key] {
		if existing.ID == l.ID {
			return
		}
	}
	c.listeners[key] = append(c.listeners[key], l)
}

// RemoveListener drops the listener with the given ID from a key.
func (c *ResourceCache) RemoveListener(key, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ls := c.listeners[key]
	for i, existing := range ls {
		if existing.ID == id {
			c.listeners[key] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// Get returns the cached decoded value for a key.
func (c *ResourceCache) Get(key string) (types.DecodedValue, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// RawEntry returns the raw wire bytes last stored for a key.
func (c *ResourceCache) RawEntry(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	bz, err := c.rawStore.Get([]byte(key))
	if err != nil || bz == nil {
		return nil, false
	}
	out := make([]byte, len(bz))
	copy(out, bz)
	return out, true
}

// Keys lists every cached key in lexical order. The entry map is the source
// of truth; the raw store can lag it when a raw payload could not be
// re-encoded.
func (c *ResourceCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Metrics returns a snapshot of the cache's counters.
func (c *ResourceCache) Metrics() Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metrics
}

func (c *ResourceCache) notifyUpdate(l Listener, key string, value types.DecodedValue) {
	if l.OnUpdate == nil {
		return
	}
	defer c.recoverListener(l.ID, key)
	l.OnUpdate(key, value)
}

func (c *ResourceCache) notifyDelete(l Listener, key string) {
	if l.OnDelete == nil {
		return
	}
	defer c.recoverListener(l.ID, key)
	l.OnDelete(key)
}

// recoverListener keeps one failing subscriber from aborting the remaining
// notifications or the operation that triggered them.
func (c *ResourceCache) recoverListener(id, key string) {
	if r := recover(); r != nil {
		c.mu.Lock()
		c.metrics.ListenerPanics++
		c.mu.Unlock()
		c.logger.Error().
			Str("listener", id).
			Str("key", key).
			Interface("panic", r).
			Msg("listener callback panicked")
	}
}
