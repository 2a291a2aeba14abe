// Package testdb starts a disposable postgres container for integration
// tests. Tests that use it must be opted in with INTEGRATION=1 so the
// regular suite stays docker-free.
package testdb

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/Denis-Shtanskiy/foodgram/config"
	"github.com/Denis-Shtanskiy/foodgram/internal/database"
)

// Setup boots a postgres container, connects through the regular database
// layer and migrates the full schema. The container is terminated via
// t.Cleanup.
func Setup(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run tests against a postgres container")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections"),
			wait.ForListeningPort("5432/tcp"),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminating postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	t.Setenv("FOODGRAM_DB_HOST", host)
	t.Setenv("FOODGRAM_DB_PORT", port.Port())
	t.Setenv("FOODGRAM_DB_USER", "test")
	t.Setenv("FOODGRAM_DB_PASSWORD", "test")
	t.Setenv("FOODGRAM_DB_NAME", "test")
	t.Setenv("FOODGRAM_JWT_SECRET", "test-secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := database.New(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}
