package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeAddrFlagMovesDefaultCatalog(t *testing.T) {
	orig := serverAddr
	defer func() { serverAddr = orig }()

	serverAddr = "127.0.0.1:9090"
	cfg, err := serveConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr)
	assert.Equal(t, "http://127.0.0.1:9090/data.json", cfg.CatalogURL())
}

func TestServeKeepsExplicitCatalogURL(t *testing.T) {
	orig := serverAddr
	defer func() { serverAddr = orig }()

	t.Setenv("PASADIAS_CATALOG_URL", "https://stiventours.com/data.json")
	serverAddr = "127.0.0.1:9090"
	cfg, err := serveConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://stiventours.com/data.json", cfg.CatalogURL())
}
