package run

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridesim/internal/modules/monitor"
	"ridesim/internal/modules/pricing"
	"ridesim/internal/types"
)

func TestStore_CreateGetList(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	older := &Run{
		ID:        types.ID(uuid.NewString()),
		Name:      "older",
		InputHash: inputHash(pricing.Rate{}, "a"),
		Events:    "0 DriverRequest A 0,0 1\n",
		Report:    monitor.Report{monitor.MetricRidesCompleted: 0},
		CreatedAt: base,
	}
	newer := &Run{
		ID:        types.ID(uuid.NewString()),
		Name:      "newer",
		InputHash: inputHash(pricing.Rate{}, "b"),
		Events:    "0 DriverRequest B 0,0 1\n",
		Report:    monitor.Report{monitor.MetricRidesCompleted: 2, monitor.MetricAverageFare: 550},
		Cached:    true,
		CreatedAt: base.Add(time.Minute),
	}
	require.NoError(t, store.Create(ctx, older))
	require.NoError(t, store.Create(ctx, newer))

	got, err := store.Get(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, newer.Name, got.Name)
	assert.Equal(t, newer.Report, got.Report)
	assert.True(t, got.Cached)
	assert.True(t, newer.CreatedAt.Equal(got.CreatedAt))

	_, err = store.Get(ctx, types.ID(uuid.NewString()))
	assert.ErrorIs(t, err, ErrNotFound)

	runs, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, older.ID, runs[1].ID)
}

func TestCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("RIDESIM_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("RIDESIM_TEST_REDIS_ADDR not set; skipping Redis-backed cache tests")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewCache(client, time.Minute)
	hash := inputHash(pricing.Rate{}, t.Name()+time.Now().String())
	t.Cleanup(func() { client.Del(ctx, reportKey(hash)) })

	_, ok, err := cache.Get(ctx, hash)
	require.NoError(t, err)
	assert.False(t, ok)

	want := monitor.Report{monitor.MetricRiderWaitTime: 2, monitor.MetricDriverTotalDistance: 13.5}
	require.NoError(t, cache.Set(ctx, hash, want))

	got, ok, err := cache.Get(ctx, hash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	ttl, err := client.TTL(ctx, reportKey(hash)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

// ---- helpers ----

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("RIDESIM_TEST_DSN")
	if dsn == "" {
		t.Skip("RIDESIM_TEST_DSN not set; skipping DB-backed store tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigration(ctx, db); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE simulation_runs"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return NewStore(db)
}

func applyMigration(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	content, err := os.ReadFile(filepath.Join(root, "migrations", "0001_init.sql"))
	if err != nil {
		return err
	}
	for _, stmt := range strings.Split(string(content), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
