package moveclient

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// ClientConfig configures the bundled node client. The decoding core itself
// needs no configuration.
type ClientConfig struct {
	// NodeURL is the base URL of the node's REST API, without a trailing
	// slash.
	NodeURL string
	// RequestTimeout bounds each node request end to end.
	RequestTimeout time.Duration
	// EventPageLimit is the default page size for event listings when the
	// caller does not set one.
	EventPageLimit uint64
}

// DefaultClientConfig returns the settings used when no config file is
// given.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		NodeURL:        "http://localhost:8080",
		RequestTimeout: 30 * time.Second,
		EventPageLimit: 25,
	}
}

// fileConfig is the TOML shape of a client config file.
type fileConfig struct {
	NodeURL          string `toml:"node_url"`
	RequestTimeoutMS int64  `toml:"request_timeout_ms"`
	EventPageLimit   uint64 `toml:"event_page_limit"`
}

// LoadClientConfig overlays a TOML config file on the defaults. Keys absent
// from the file keep their default values.
func LoadClientConfig(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("load client config: %w", err)
	}

	if meta.IsDefined("node_url") {
		cfg.NodeURL = raw.NodeURL
	}
	if meta.IsDefined("request_timeout_ms") {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutMS) * time.Millisecond
	}
	if meta.IsDefined("event_page_limit") {
		cfg.EventPageLimit = raw.EventPageLimit
	}
	return cfg, nil
}
