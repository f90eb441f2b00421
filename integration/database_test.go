//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestGitpulseWithMySQL tests the gitpulse CLI with a MySQL backend.
func TestGitpulseWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "gitpulse",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/gitpulse?parseTime=true", host, port.Port())
	env := []string{
		"GITPULSE_STORE_BACKEND=mysql",
		"GITPULSE_STORE_DB_CONNECT=" + connStr,
		"GITPULSE_COLOR=no",
	}

	runBackendFlow(t, env)
}

// TestGitpulseWithPostgres tests the gitpulse CLI with a PostgreSQL backend.
func TestGitpulseWithPostgres(t *testing.T) {
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

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	env := []string{
		"GITPULSE_STORE_BACKEND=postgresql",
		"GITPULSE_STORE_DB_CONNECT=" + connStr,
		"GITPULSE_COLOR=no",
	}

	runBackendFlow(t, env)
}

// runBackendFlow exercises the full CLI surface against one database backend.
func runBackendFlow(t *testing.T, env []string) {
	t.Helper()

	repoDir := makeFixtureRepo(t)

	// Apply schema migrations on the fresh database
	_, err := runGitpulse(t, repoDir, env, "store", "migrate")
	require.NoError(t, err)

	// Clear any prior state
	_, err = runGitpulse(t, repoDir, env, "store", "clear")
	require.NoError(t, err)

	// Analyze the fixture repository
	_, err = runGitpulse(t, repoDir, env, "analyze", repoDir, "--no-llm")
	require.NoError(t, err)

	// Render the leaderboard
	_, err = runGitpulse(t, repoDir, env, "leaderboard", "--limit", "5")
	require.NoError(t, err)

	// Check store status
	_, err = runGitpulse(t, repoDir, env, "store", "status")
	require.NoError(t, err)

	// Check run history
	_, err = runGitpulse(t, repoDir, env, "runs")
	require.NoError(t, err)
}
