package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hackgods/clinic-calendar/internal/db"
	redisclient "github.com/hackgods/clinic-calendar/internal/redis"
)

// These run against real servers and are skipped unless
// TEST_REDIS_ADDR or TEST_POSTGRES_DSN is set.

func TestRedisKV_Integration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rdb, err := redisclient.NewRedisClient(ctx, redisclient.Options{Addr: addr})
	require.NoError(t, err)
	defer rdb.Close()

	prefix := "clinic-test:" + uuid.NewString() + ":"
	exerciseRepository(t, ctx, NewRedisKV(rdb, prefix))
}

func TestPgKV_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	kv := NewPgKV(pool)
	require.NoError(t, kv.EnsureSchema(ctx))
	require.NoError(t, kv.EnsureSchema(ctx), "schema creation is idempotent")

	exerciseRepository(t, ctx, kv)
}

func exerciseRepository(t *testing.T, ctx context.Context, kv KV) {
	t.Helper()

	require.NoError(t, kv.Ping(ctx))

	key := "appointments-" + uuid.NewString()
	repo := NewAppointmentRepository(kv, zap.NewNop(), WithKey(key))
	defer func() { _ = repo.Clear(ctx) }()

	// first run seeds and persists
	assert.Equal(t, SampleAppointments(), repo.Load(ctx))

	coll := SampleAppointments()[:2]
	require.NoError(t, repo.Save(ctx, coll))
	assert.Equal(t, coll, repo.Load(ctx))

	require.NoError(t, repo.Clear(ctx))
	_, err := kv.Get(ctx, key)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
