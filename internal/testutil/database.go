// Package testutil provides a shared PostgreSQL testcontainer for
// integration tests across packages, grounded on
// codeready-toolchain-tarsy's test/util/database.go: one container started
// once per test binary, with per-test isolation — here via a dedicated
// database per test rather than a schema + search_path, since pkg/store's
// Config selects a database, not a schema.
package testutil

import (
	"context"
	stdsql "database/sql"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/codeready-toolchain/interviewplatform/pkg/store"
)

var (
	sharedConnStr string
	containerOnce sync.Once
	containerErr  error
)

// NewTestStoreConfig starts (or reuses) the shared PostgreSQL testcontainer
// and returns a store.Config pointing at a freshly created, empty database
// dedicated to the calling test. The database is dropped on test cleanup.
func NewTestStoreConfig(t *testing.T) store.Config {
	t.Helper()
	base := getOrCreateSharedDatabase(t)

	host, port, user, password, _, sslmode := mustParseDSN(t, base)
	dbName := generateDatabaseName(t)

	admin, err := stdsql.Open("pgx", base)
	require.NoError(t, err)
	defer admin.Close()

	ctx := context.Background()
	_, err = admin.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE %s", dbName))
	require.NoError(t, err)

	t.Cleanup(func() {
		admin, err := stdsql.Open("pgx", base)
		if err != nil {
			t.Logf("testutil: failed to reopen admin connection for cleanup: %v", err)
			return
		}
		defer admin.Close()
		if _, err := admin.ExecContext(context.Background(), fmt.Sprintf("DROP DATABASE IF EXISTS %s WITH (FORCE)", dbName)); err != nil {
			t.Logf("testutil: failed to drop test database %s: %v", dbName, err)
		}
	})

	return store.Config{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		Database: dbName,
		SSLMode:  sslmode,
	}
}

// NewTestStore builds a fully migrated *store.Store against a fresh
// per-test database, closed automatically on test cleanup.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()
	cfg := NewTestStoreConfig(t)
	st, err := store.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(st.Close)
	return st
}

func getOrCreateSharedDatabase(t *testing.T) string {
	t.Helper()
	if ci := os.Getenv("CI_DATABASE_URL"); ci != "" {
		return ci
	}

	containerOnce.Do(func() {
		ctx := context.Background()
		pgContainer, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("test"),
			postgres.WithUsername("test"),
			postgres.WithPassword("test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			containerErr = fmt.Errorf("start postgres container: %w", err)
			return
		}
		connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			containerErr = fmt.Errorf("get connection string: %w", err)
			return
		}
		sharedConnStr = connStr
	})

	require.NoError(t, containerErr, "failed to start shared postgres testcontainer")
	return sharedConnStr
}

func mustParseDSN(t *testing.T, dsn string) (host string, port int, user, password, dbname, sslmode string) {
	t.Helper()
	u, err := url.Parse(dsn)
	require.NoError(t, err)

	host = u.Hostname()
	port, err = strconv.Atoi(u.Port())
	require.NoError(t, err)
	user = u.User.Username()
	password, _ = u.User.Password()
	dbname = strings.TrimPrefix(u.Path, "/")
	sslmode = u.Query().Get("sslmode")
	if sslmode == "" {
		sslmode = "disable"
	}
	return
}

func generateDatabaseName(t *testing.T) string {
	t.Helper()
	name := strings.ToLower(t.Name())
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, name)
	if len(name) > 32 {
		name = name[:32]
	}
	randomBytes := make([]byte, 4)
	_, err := rand.Read(randomBytes)
	require.NoError(t, err)
	return fmt.Sprintf("test_%s_%s", name, hex.EncodeToString(randomBytes))
}
