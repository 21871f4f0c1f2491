//go:build integration

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/patotaccc/api-patota/internal/utils/db"
)

// AbrirPostgres sobe um Postgres descartável em container e migra os modelos.
// Precisa de Docker; o container é removido ao fim do teste.
func AbrirPostgres(t *testing.T, modelos ...any) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("teste com container ignorado em modo -short")
	}
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "patota",
				"POSTGRES_PASSWORD": "patota",
				"POSTGRES_DB":       "patota",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	porta, err := c.MappedPort(ctx, "5432")
	require.NoError(t, err)

	database, err := db.ConnectDataBase(db.DriverPostgres,
		db.DSNPostgres(host, porta.Int(), "patota", "patota", "patota", true))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, db.Migrar(database, modelos...))
	return database
}
