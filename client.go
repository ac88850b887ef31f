package moveclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/movechain/moveclient/types"
)

// EventQuery narrows an event listing. Nil fields use the node's defaults.
type EventQuery struct {
	Start *uint64
	Limit *uint64
}

// NetworkClient is the node API surface the cache depends on. Errors from
// the node are propagated unchanged; no retry logic is layered on top.
type NetworkClient interface {
	// GetResource fetches a single resource owned by address, identified by
	// its full type name (generics included). The returned value is the raw
	// JSON payload in dynamic form (numbers as json.Number).
	GetResource(ctx context.Context, address, fullTypeName string) (any, error)

	// GetResourcesForAccount fetches every resource owned by address.
	GetResourcesForAccount(ctx context.Context, address string) ([]types.AccountResource, error)

	// GetEventsForHandle fetches events emitted through the event handle
	// stored in the given field of the handle struct owned by address.
	GetEventsForHandle(ctx context.Context, address, handleFullTypeName, field string, q EventQuery) ([]types.ContractEvent, error)
}

// NodeClient is the bundled NetworkClient implementation over a node's REST
// API.
type NodeClient struct {
	baseURL   string
	http      *http.Client
	pageLimit uint64
}

var _ NetworkClient = (*NodeClient)(nil)

// NewNodeClient builds a NodeClient from the given configuration.
func NewNodeClient(cfg ClientConfig) *NodeClient {
	return &NodeClient{
		baseURL:   cfg.NodeURL,
		http:      &http.Client{Timeout: cfg.RequestTimeout},
		pageLimit: cfg.EventPageLimit,
	}
}

func (c *NodeClient) GetResource(ctx context.Context, address, fullTypeName string) (any, error) {
	var res types.AccountResource
	path := fmt.Sprintf("/accounts/%s/resource/%s", url.PathEscape(address), url.PathEscape(fullTypeName))
	if err := c.getJSON(ctx, path, nil, &res); err != nil {
		return nil, err
	}
	return types.DecodeRaw(res.Data)
}

func (c *NodeClient) GetResourcesForAccount(ctx context.Context, address string) ([]types.AccountResource, error) {
	var res []types.AccountResource
	path := fmt.Sprintf("/accounts/%s/resources", url.PathEscape(address))
	if err := c.getJSON(ctx, path, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *NodeClient) GetEventsForHandle(ctx context.Context, address, handleFullTypeName, field string, q EventQuery) ([]types.ContractEvent, error) {
	query := url.Values{}
	if q.Start != nil {
		query.Set("start", strconv.FormatUint(*q.Start, 10))
	}
	switch {
	case q.Limit != nil:
		query.Set("limit", strconv.FormatUint(*q.Limit, 10))
	case c.pageLimit > 0:
		query.Set("limit", strconv.FormatUint(c.pageLimit, 10))
	}
	var events []types.ContractEvent
	path := fmt.Sprintf("/accounts/%s/events/%s/%s",
		url.PathEscape(address), url.PathEscape(handleFullTypeName), url.PathEscape(field))
	if err := c.getJSON(ctx, path, query, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *NodeClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &NodeError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return json.Unmarshal(body, out)
}

// NodeError is a non-200 response from the node.
type NodeError struct {
	StatusCode int
	Body       string
}

var _ error = (*NodeError)(nil)

func (e *NodeError) Error() string {
	body := e.Body
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Sprintf("node returned status %d: %s", e.StatusCode, body)
}
