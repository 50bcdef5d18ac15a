package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// testStoreContract runs the behaviour every backend must share.
func testStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "investment-history", []byte(`[{"id":"1"}]`)))
	got, err := store.Get(ctx, "investment-history")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))

	// Overwrite
	require.NoError(t, store.Set(ctx, "investment-history", []byte(`[]`)))
	got, err = store.Get(ctx, "investment-history")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, store.Remove(ctx, "investment-history"))
	_, err = store.Get(ctx, "investment-history")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Removing an absent key is not an error
	assert.NoError(t, store.Remove(ctx, "investment-history"))
}

func TestMemory(t *testing.T) {
	store := NewMemory()
	defer store.Close()
	testStoreContract(t, store)
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestSQLiteInMemory(t *testing.T) {
	store, err := NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	defer store.Close()
	testStoreContract(t, store)
}

func TestSQLiteFilePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := NewSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "k", []byte("persisted")))
	require.NoError(t, store.Close())

	reopened, err := NewSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(got))
}

// postgresDSN returns DEPOSITS_TEST_POSTGRES_DSN or, with
// DEPOSITS_TEST_CONTAINERS set, starts a throwaway postgres container.
func postgresDSN(t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("DEPOSITS_TEST_POSTGRES_DSN"); dsn != "" {
		return dsn
	}
	if os.Getenv("DEPOSITS_TEST_CONTAINERS") == "" || testing.Short() {
		t.Skip("set DEPOSITS_TEST_POSTGRES_DSN or DEPOSITS_TEST_CONTAINERS to run postgres tests")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("deposits_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		postgres.BasicWaitStrategies(),
		testcontainers.WithLabels(map[string]string{"test": "kvstore"}),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestPostgres(t *testing.T) {
	store, err := NewPostgres(context.Background(), postgresDSN(t))
	require.NoError(t, err)
	defer store.Close()
	testStoreContract(t, store)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, Options{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, store)

	store, err = Open(ctx, Options{Driver: DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, store)
	require.NoError(t, store.Close())

	_, err = Open(ctx, Options{Driver: DriverPostgres})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Driver: "redis"})
	assert.Error(t, err)
}
