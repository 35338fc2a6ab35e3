package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ashureev/dsa90/internal/domain"
	"github.com/google/go-cmp/cmp"
)

func openStores(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()
	stores := map[string]KV{}
	for _, driver := range []string{DriverSQLite, DriverBolt} {
		kv, err := Open(driver, filepath.Join(dir, driver, "state.db"))
		if err != nil {
			t.Fatalf("Open(%s) failed: %v", driver, err)
		}
		t.Cleanup(func() { _ = kv.Close() })
		stores[driver] = kv
	}
	return stores
}

func TestKVBasics(t *testing.T) {
	ctx := context.Background()
	for name, kv := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := kv.Ping(ctx); err != nil {
				t.Fatalf("Ping failed: %v", err)
			}
			if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}

			if err := kv.Put(ctx, "b", []byte("one")); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			if err := kv.Put(ctx, "b", []byte("two")); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}
			if err := kv.Put(ctx, "a", []byte("x")); err != nil {
				t.Fatalf("Put failed: %v", err)
			}

			got, err := kv.Get(ctx, "b")
			if err != nil || string(got) != "two" {
				t.Fatalf("Get = %q, %v", got, err)
			}

			keys, err := kv.Keys(ctx)
			if err != nil {
				t.Fatalf("Keys failed: %v", err)
			}
			if diff := cmp.Diff([]string{"a", "b"}, keys); diff != "" {
				t.Fatalf("keys mismatch (-want +got):\n%s", diff)
			}

			if err := kv.Delete(ctx, "b"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if err := kv.Delete(ctx, "b"); err != nil {
				t.Fatalf("deleting a missing key should succeed: %v", err)
			}
			if _, err := kv.Get(ctx, "b"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	want := []domain.Problem{{
		ID:            "v1",
		Title:         "Arrays | Two Sum #easy",
		Topic:         domain.TopicArrays,
		Difficulty:    domain.Easy,
		Companies:     []domain.Company{domain.CompanyGoogle, domain.CompanyAmazon},
		QuestionLink:  "https://leetcode.com/problems/two-sum",
		VideoID:       "v1",
		Starred:       true,
		AddedAt:       at,
		LastAttempted: &at,
		Attempts:      []domain.Attempt{{Date: at, Successful: true}},
	}}

	for name, kv := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := SaveJSON(ctx, kv, KeyProblemsState, want); err != nil {
				t.Fatalf("SaveJSON failed: %v", err)
			}
			got, err := LoadJSON[[]domain.Problem](ctx, kv, KeyProblemsState)
			if err != nil {
				t.Fatalf("LoadJSON failed: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadJSONErrors(t *testing.T) {
	ctx := context.Background()
	for name, kv := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadJSON[domain.Progress](ctx, kv, KeyProgress); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if err := kv.Put(ctx, KeyProgress, []byte("{not json")); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			_, err := LoadJSON[domain.Progress](ctx, kv, KeyProgress)
			if err == nil || errors.Is(err, ErrNotFound) {
				t.Fatalf("expected unmarshal error, got %v", err)
			}
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("postgres", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	if err := s.Put(ctx, KeyPreferences, []byte(`{"sortBy":"title"}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = s.Close() }()
	got, err := s.Get(ctx, KeyPreferences)
	if err != nil || string(got) != `{"sortBy":"title"}` {
		t.Fatalf("Get after reopen = %q, %v", got, err)
	}
}
