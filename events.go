package moveclient

import (
	"context"

	"github.com/movechain/moveclient/types"
)

// DecodedEvent is one event payload decoded through the registry.
type DecodedEvent struct {
	Type           types.TypeTag
	SequenceNumber uint64
	Value          types.DecodedValue
}

// LoadEvents fetches events for the given handle field and decodes each
// payload by registry dispatch. Like LoadAccount this is best-effort:
// events whose type has no registered decoder, or whose payload does not
// match it, are logged and skipped. Events are not cached; the decoded
// slice is returned to the caller in node order.
func (c *ResourceCache) LoadEvents(ctx context.Context, address, handleFullTypeName, field string, q EventQuery) ([]DecodedEvent, error) {
	events, err := c.client.GetEventsForHandle(ctx, address, handleFullTypeName, field, q)
	if err != nil {
		return nil, err
	}

	decoded := make([]DecodedEvent, 0, len(events))
	for _, ev := range events {
		tag, err := types.ParseTypeTag(ev.Type)
		if err != nil {
			c.logEventSkip(address, ev.Type, err)
			continue
		}
		raw, err := types.DecodeRaw(ev.Data)
		if err != nil {
			c.logEventSkip(address, ev.Type, err)
			continue
		}
		value, err := c.registry.Decode(raw, tag)
		if err != nil {
			c.logEventSkip(address, ev.Type, err)
			continue
		}
		decoded = append(decoded, DecodedEvent{
			Type:           tag,
			SequenceNumber: uint64(ev.SequenceNumber),
			Value:          value,
		})
	}
	return decoded, nil
}

func (c *ResourceCache) logEventSkip(address, eventType string, err error) {
	c.logger.Warn().
		Str("address", address).
		Str("type", eventType).
		Err(err).
		Msg("skipping undecodable event")
}
