package postgres

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func init() {
	// Configure testcontainers to use podman.
	// Detect the podman socket from `podman machine inspect`.
	if os.Getenv("DOCKER_HOST") == "" {
		out, err := exec.Command("podman", "machine", "inspect", "--format", "{{.ConnectionInfo.PodmanSocket.Path}}").Output()
		if err == nil {
			sock := strings.TrimSpace(string(out))
			if sock != "" {
				os.Setenv("DOCKER_HOST", "unix://"+sock)
			}
		}
	}
	// Ryuk needs privileged mode with podman.
	if os.Getenv("TESTCONTAINERS_RYUK_CONTAINER_PRIVILEGED") == "" {
		os.Setenv("TESTCONTAINERS_RYUK_CONTAINER_PRIVILEGED", "true")
	}
}

// setupTestAdapter starts a PostgreSQL container, runs the migrations and
// returns a connected adapter. Tests are skipped if no container runtime
// is available.
func setupTestAdapter(t *testing.T) *Adapter {
	t.Helper()

	if os.Getenv("SKIP_INTEGRATION") == "true" {
		t.Skip("SKIP_INTEGRATION=true, skipping PostgreSQL integration tests")
	}

	if _, err := exec.LookPath("podman"); err != nil {
		t.Skip("podman not found, skipping integration tests")
	}

	ctx := context.Background()

	container, err := pgmodule.Run(ctx,
		"postgres:16-alpine",
		pgmodule.WithDatabase("iri_test"),
		pgmodule.WithUsername("test"),
		pgmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("skipping: could not start PostgreSQL container (is podman running?): %v", err)
	}

	t.Cleanup(func() {
		container.Terminate(context.Background())
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("getting connection string: %v", err)
	}

	a := NewWithConfig(Config{
		DSN:            connStr,
		MaxConns:       5,
		MinConns:       1,
		MigrateOnStart: true,
	})
	if err := a.HealthCheck(ctx); err != nil {
		t.Fatalf("connecting adapter: %v", err)
	}

	t.Cleanup(func() {
		a.Close()
	})

	return a
}

// seedUser inserts a user with one API key. The key is stored hashed,
// the same way a provisioning tool would write it.
func seedUser(t *testing.T, a *Adapter, userID, name, email, key string) {
	t.Helper()
	ctx := context.Background()

	if _, err := a.pool.Exec(ctx, `
		INSERT INTO users (id, name, email) VALUES ($1, $2, $3)
	`, userID, name, email); err != nil {
		t.Fatalf("seeding user %s: %v", userID, err)
	}
	if _, err := a.pool.Exec(ctx, `
		INSERT INTO api_keys (key_hash, user_id) VALUES ($1, $2)
	`, hashKey(key), userID); err != nil {
		t.Fatalf("seeding key for %s: %v", userID, err)
	}
}

func TestPostgres_ResolveIdentity(t *testing.T) {
	a := setupTestAdapter(t)
	ctx := context.Background()

	seedUser(t, a, "alice", "Alice", "alice@example.org", "secret-alice")

	id, err := a.ResolveIdentity(ctx, "secret-alice", "10.0.0.7")
	if err != nil {
		t.Fatalf("ResolveIdentity: %v", err)
	}
	if id != "alice" {
		t.Errorf("id = %q, want alice", id)
	}

	if _, err := a.ResolveIdentity(ctx, "unknown-key", ""); err == nil {
		t.Error("unknown key accepted")
	}

	// The successful lookup should have recorded usage.
	var lastIP *string
	err = a.pool.QueryRow(ctx, `
		SELECT last_used_ip FROM api_keys WHERE key_hash = $1
	`, hashKey("secret-alice")).Scan(&lastIP)
	if err != nil {
		t.Fatalf("reading last_used_ip: %v", err)
	}
	if lastIP == nil || *lastIP != "10.0.0.7" {
		t.Errorf("last_used_ip = %v, want 10.0.0.7", lastIP)
	}
}

func TestPostgres_RevokedKeyDenied(t *testing.T) {
	a := setupTestAdapter(t)
	ctx := context.Background()

	seedUser(t, a, "bob", "Bob", "bob@example.org", "secret-bob")

	if _, err := a.pool.Exec(ctx, `
		UPDATE api_keys SET revoked_at = now() WHERE key_hash = $1
	`, hashKey("secret-bob")); err != nil {
		t.Fatalf("revoking key: %v", err)
	}

	if _, err := a.ResolveIdentity(ctx, "secret-bob", ""); err == nil {
		t.Error("revoked key accepted")
	}
	if _, err := a.GetUser(ctx, "bob", "secret-bob"); err == nil {
		t.Error("revoked key served a profile")
	}
}

func TestPostgres_GetUser(t *testing.T) {
	a := setupTestAdapter(t)
	ctx := context.Background()

	seedUser(t, a, "carol", "Carol", "carol@example.org", "secret-carol")

	u, err := a.GetUser(ctx, "carol", "secret-carol")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u.ID != "carol" || u.Name != "Carol" || u.Email != "carol@example.org" {
		t.Errorf("user = %+v", u)
	}

	// The credential must belong to the requested identity.
	seedUser(t, a, "dave", "Dave", "dave@example.org", "secret-dave")
	if _, err := a.GetUser(ctx, "carol", "secret-dave"); err == nil {
		t.Error("profile served with another user's credential")
	}
}

func TestPostgres_MigrationsIdempotent(t *testing.T) {
	a := setupTestAdapter(t)
	ctx := context.Background()

	// Running the migrations again on a migrated database is a no-op.
	if err := migrate(ctx, a.pool); err != nil {
		t.Fatalf("re-running migrations: %v", err)
	}
}

func TestPostgres_MissingDSN(t *testing.T) {
	t.Setenv("IRI_API_PARAMS", `{"max_conns": 3}`)
	a := New()

	if _, err := a.ResolveIdentity(context.Background(), "whatever", ""); err == nil {
		t.Error("adapter without dsn did not deny")
	}
}
