package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")

	cfg := Load("")

	require.Equal(t, "memory", cfg.Storage.Driver)
	require.Equal(t, 20*time.Second, cfg.Platform.Timeout)
	require.Len(t, cfg.Sites, 1)
	require.Equal(t, "storefront", cfg.Sites[0].Scanner)
	require.Len(t, cfg.Sites[0].Collections, 18)
	require.Equal(t, DefaultSelectors(), cfg.Sites[0].Selectors)
	require.Zero(t, cfg.Scraper.MaxConcurrency)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
scraper:
  maxConcurrency: 4
sites:
  - name: staging
    collections:
      - https://shop.test/brands-1-Anua.html
    selectors:
      listing: .product-card
platform:
  feedUrl: https://platform.test/products.json
  timeout: 5s
`)

	cfg := Load(path)

	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, 4, cfg.Scraper.MaxConcurrency)
	require.Equal(t, "StockReconciler/1.0", cfg.Scraper.UserAgent)
	require.Equal(t, "https://platform.test/products.json", cfg.Platform.FeedURL)
	require.Equal(t, 5*time.Second, cfg.Platform.Timeout)
	require.Equal(t, "mapping.json", cfg.Mapping.Path)

	require.Len(t, cfg.Sites, 1)
	site := cfg.Sites[0]
	require.Equal(t, "storefront", site.Scanner)
	require.Equal(t, ".product-card", site.Selectors.Listing)
	require.Equal(t, ".caption h3 a", site.Selectors.TitleLink)
	require.Equal(t, "Out of stock", site.Selectors.OutOfStockMarker)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(databaseDSNEnv, "postgres://u:p@db:5432/stock")
	t.Setenv(storageDriverEnv, "postgres")
	t.Setenv(feedURLEnv, "https://feed.test/products.json")
	t.Setenv(portEnv, "9090")

	cfg := Load("")

	require.Equal(t, "postgres", cfg.Storage.Driver)
	require.Equal(t, "postgres://u:p@db:5432/stock", cfg.Storage.Postgres.DSN)
	require.Equal(t, "https://feed.test/products.json", cfg.Platform.FeedURL)
	require.Equal(t, "9090", cfg.Server.Port)
}

func TestLoadBrokenFileFallsBack(t *testing.T) {
	path := writeConfig(t, "sites: [unterminated")

	cfg := Load(path)

	require.Equal(t, defaultConfig().Platform.FeedURL, cfg.Platform.FeedURL)
	require.Len(t, cfg.Sites, 1)
}
