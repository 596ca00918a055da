//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestStratusWithMySQL tests the stratus CLI with a MySQL run store.
func TestStratusWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "stratus",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/stratus", host, port.Port())

	_ = os.Setenv("STRATUS_STORE_BACKEND", "mysql")
	_ = os.Setenv("STRATUS_STORE_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("STRATUS_STORE_BACKEND") }()
	defer func() { _ = os.Unsetenv("STRATUS_STORE_DB_CONNECT") }()

	runStoreSmoke(t)
}

// TestStratusWithPostgres tests the stratus CLI with a PostgreSQL run store.
func TestStratusWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	_ = os.Setenv("STRATUS_STORE_BACKEND", "postgresql")
	_ = os.Setenv("STRATUS_STORE_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("STRATUS_STORE_BACKEND") }()
	defer func() { _ = os.Unsetenv("STRATUS_STORE_DB_CONNECT") }()

	runStoreSmoke(t)
}

// runStoreSmoke exercises the run store through the CLI against whatever
// backend the environment selects.
func runStoreSmoke(t *testing.T) {
	t.Helper()

	// Start from a clean slate
	err := runStratusCommand(t, "runs", "clear")
	require.NoError(t, err)

	// An offline forecast run persists a record
	err = runStratusCommand(t, "forecast", "--offline", "--lat", "48.85", "--lon", "2.35", "--ahead", "12h")
	require.NoError(t, err)

	// List the persisted runs
	err = runStratusCommand(t, "runs", "status")
	require.NoError(t, err)

	// Apply schema migrations on top of the live database
	err = runStratusCommand(t, "runs", "migrate")
	require.NoError(t, err)

	// And clear again
	err = runStratusCommand(t, "runs", "clear")
	require.NoError(t, err)
}
