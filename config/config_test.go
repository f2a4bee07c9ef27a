package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/p4forest/config"
	"github.com/katalvlaran/p4forest/internal/logging"
)

func TestLoadFromReaderAppliesDefaults(t *testing.T) {
	cfg, err := config.LoadFromReader("yaml", []byte(""))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Brick.Dim)
	assert.Equal(t, 1, cfg.Brick.Mi)
	assert.Equal(t, 2, cfg.Forest.Level)
	assert.Equal(t, "faces", cfg.Forest.Selector)
	assert.Equal(t, "local", cfg.Transport.Kind)
	assert.Equal(t, logging.LevelInfo, cfg.LogLevel())
}

func TestLoadFromReaderOverridesDefaults(t *testing.T) {
	yaml := []byte(`
brick:
  dim: 3
  mi: 2
  ni: 2
  ki: 2
forest:
  level: 3
  selector: corners
log:
  level: debug
`)
	cfg, err := config.LoadFromReader("yaml", yaml)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Brick.Dim)
	assert.Equal(t, 2, cfg.Brick.Ki)
	assert.Equal(t, 3, cfg.Forest.Level)
	assert.Equal(t, "corners", cfg.Forest.Selector)
	assert.Equal(t, logging.LevelDebug, cfg.LogLevel())
}

func TestValidateRejectsBadDim(t *testing.T) {
	_, err := config.LoadFromReader("yaml", []byte("brick:\n  dim: 4\n"))
	assert.Error(t, err)
}

func TestValidateRejectsUnknownSelector(t *testing.T) {
	_, err := config.LoadFromReader("yaml", []byte("forest:\n  selector: diagonals\n"))
	assert.Error(t, err)
}

func TestValidateRequiresAddrsForGRPCTransport(t *testing.T) {
	_, err := config.LoadFromReader("yaml", []byte("transport:\n  kind: grpc\n"))
	assert.Error(t, err)

	cfg, err := config.LoadFromReader("yaml", []byte(`
transport:
  kind: grpc
  rank: 0
  addrs:
    - "127.0.0.1:9001"
    - "127.0.0.1:9002"
`))
	require.NoError(t, err)
	assert.Equal(t, "grpc", cfg.Transport.Kind)
	assert.Len(t, cfg.Transport.Addrs, 2)
}
