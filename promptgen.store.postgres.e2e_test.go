//go:build integration

package promptgen

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer creates an ephemeral PostgreSQL container for testing.
func setupPostgresContainer(t *testing.T) (*PostgresStore, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15",
		postgres.WithDatabase("promptgen_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	store, err := NewPostgresStore(PostgresConfig{
		ConnectionString: connStr,
		AutoMigrate:      true,
		QueryTimeout:     30 * time.Second,
	})
	require.NoError(t, err, "failed to create postgres store")

	cleanup := func() {
		if store != nil {
			_ = store.Close()
		}
		if container != nil {
			_ = container.Terminate(ctx)
		}
	}

	return store, cleanup
}

func TestPostgres_E2E_PutGetList(t *testing.T) {
	store, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	capitol := serializedFile(t, "capitol", "Capitol", testCapitolText)
	packing := serializedFile(t, "travel", "Packing", "Pack for {{$trip}}.")

	t.Run("Put", func(t *testing.T) {
		written, err := store.Put(ctx, capitol)
		require.NoError(t, err)
		assert.True(t, written)

		written, err = store.Put(ctx, packing)
		require.NoError(t, err)
		assert.True(t, written)
	})

	t.Run("PutUnchanged", func(t *testing.T) {
		written, err := store.Put(ctx, capitol)
		require.NoError(t, err)
		assert.False(t, written)
	})

	t.Run("PutChanged", func(t *testing.T) {
		changed := serializedFile(t, "capitol", "Capitol", "Name the capital of {{$state}}.")
		written, err := store.Put(ctx, changed)
		require.NoError(t, err)
		assert.True(t, written)

		got, err := store.Get(ctx, "capitol", "CapitolPrompt")
		require.NoError(t, err)
		assert.Equal(t, changed, *got)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "capitol", "MissingPrompt")
		assert.ErrorIs(t, err, ErrArtifactNotFound)
	})

	t.Run("List", func(t *testing.T) {
		all, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"capitol.CapitolPrompt", "travel.PackingPrompt"}, fileKeys(all))

		travel, err := store.List(ctx, "travel")
		require.NoError(t, err)
		assert.Equal(t, []string{"travel.PackingPrompt"}, fileKeys(travel))
	})
}

func TestPostgres_E2E_Generate(t *testing.T) {
	store, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	gen := NewGenerator(WithConcurrency(4))
	first, err := gen.Generate(ctx, testCandidates(), store)
	require.NoError(t, err)
	assert.Len(t, first.Written, 3)

	second, err := gen.Generate(ctx, testCandidates(), store)
	require.NoError(t, err)
	assert.Empty(t, second.Written)
	assert.Len(t, second.Unchanged, 3)
}

func TestPostgres_E2E_ConcurrentPut(t *testing.T) {
	store, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()
	file := serializedFile(t, "capitol", "Capitol", testCapitolText)

	var wg sync.WaitGroup
	var mu sync.Mutex
	writes := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			written, err := store.Put(ctx, file)
			assert.NoError(t, err)
			if written {
				mu.Lock()
				writes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, writes)
}

func TestPostgres_E2E_Close(t *testing.T) {
	store, cleanup := setupPostgresContainer(t)
	defer cleanup()

	require.NoError(t, store.Close())
	err := store.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgPostgresAlreadyClosed)

	_, err = store.Put(context.Background(), serializedFile(t, "capitol", "Capitol", testCapitolText))
	assert.ErrorIs(t, err, ErrStoreClosed)
}
