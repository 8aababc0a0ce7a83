package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenscan/backend/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "8080", Environment: "test"},
		Cache:  config.CacheConfig{Type: "memory", TTL: time.Minute, Capacity: 10, CleanupInterval: time.Minute},
		Search: config.SearchConfig{DefaultLimit: 5, MaxLimit: 10},
	}
}

func TestNew_MemoryDefaults(t *testing.T) {
	ctx := context.Background()
	app, err := New(ctx, testConfig(), nil)
	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, app.Resolver)
	assert.NotNil(t, app.Search)
	require.NotNil(t, app.FoodTable)

	count, err := app.FoodTable.Count(ctx)
	require.NoError(t, err)
	assert.Greater(t, count, 10)

	ref, err := app.FoodTable.FindByName(ctx, "lettmelk")
	require.NoError(t, err)
	assert.Equal(t, "Lettmelk", ref.Name)
}

func TestNew_SeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foods.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Tran","protein":0,"saturatedFat":20,"energyKcal":900}]`), 0o600))

	cfg := testConfig()
	cfg.FoodTable.SeedFile = path

	app, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer app.Close()

	ref, err := app.FoodTable.FindByName(context.Background(), "tran")
	require.NoError(t, err)
	assert.Equal(t, 20.0, ref.SaturatedFat)
}

func TestNew_MissingSeedFile(t *testing.T) {
	cfg := testConfig()
	cfg.FoodTable.SeedFile = filepath.Join(t.TempDir(), "missing.json")

	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestNew_InvalidRedisURL(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Type = "redis"
	cfg.Cache.RedisURL = "not-a-redis-url"

	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestApp_CloseIsRepeatable(t *testing.T) {
	app, err := New(context.Background(), testConfig(), nil)
	require.NoError(t, err)

	assert.NoError(t, app.Close())
	assert.NoError(t, app.Close())
}
