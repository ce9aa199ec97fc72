package testsupport

import (
	"context"
	"os"
	"testing"

	"roulette/internal/config"
	"roulette/internal/store"
)

// PostgresDSNEnv names the variable that enables postgres-backed tests.
const PostgresDSNEnv = "ROULETTE_TEST_POSTGRES_DSN"

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// MustOpenPostgresStore opens an emptied postgres store, skipping the test
// when PostgresDSNEnv is unset.
func MustOpenPostgresStore(t testing.TB) *store.Store {
	t.Helper()

	dsn := os.Getenv(PostgresDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", PostgresDSNEnv)
	}
	st := MustOpenStore(t, NewConfig(t, WithPostgres(dsn)))
	if _, err := st.Clear(context.Background()); err != nil {
		t.Fatalf("clear postgres store: %v", err)
	}
	return st
}
