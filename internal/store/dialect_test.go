package store

import (
	"context"
	"errors"
	"testing"
)

func TestRebind(t *testing.T) {
	q := "SELECT * FROM movies WHERE id = ? AND year IN (?,?)"
	if got := dialectSQLite.rebind(q); got != q {
		t.Fatalf("sqlite rebind changed query: %q", got)
	}
	want := "SELECT * FROM movies WHERE id = $1 AND year IN ($2,$3)"
	if got := dialectPostgres.rebind(q); got != want {
		t.Fatalf("postgres rebind = %q, want %q", got, want)
	}
}

func TestRetryOnBusyRetriesLockedErrors(t *testing.T) {
	attempts := 0
	err := retryOnBusy(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("database is locked (SQLITE_BUSY)")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryOnBusyStopsOnOtherErrors(t *testing.T) {
	attempts := 0
	boom := errors.New("constraint failed")
	err := retryOnBusy(context.Background(), func() error {
		attempts++
		return boom
	})
	if !errors.Is(err, boom) || attempts != 1 {
		t.Fatalf("expected single attempt with original error, got %d %v", attempts, err)
	}
}
