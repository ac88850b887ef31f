package moveclient

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClientConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
node_url = "https://fullnode.example.net"
request_timeout_ms = 5000
`), 0o600))

	cfg, err := LoadClientConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://fullnode.example.net", cfg.NodeURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	// keys absent from the file keep their defaults
	assert.Equal(t, DefaultClientConfig().EventPageLimit, cfg.EventPageLimit)
}

func TestLoadClientConfigMissingFile(t *testing.T) {
	_, err := LoadClientConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
