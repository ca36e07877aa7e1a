package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"forummini/pkg/domain"
)

func TestRedisBackendDocuments(t *testing.T) {
	redis := miniredis.RunT(t)
	b, err := NewRedisBackend(redis.Addr(), "", "test:docs")
	if err != nil {
		t.Fatalf("new redis backend: %v", err)
	}
	defer b.Close()
	ctx := context.Background()

	if _, err := b.Read(ctx, "users"); !errors.Is(err, ErrDocumentMissing) {
		t.Fatalf("expected ErrDocumentMissing, got %v", err)
	}
	if err := b.Init(ctx, "users", []byte("[]")); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := b.Write(ctx, "users", []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := b.Init(ctx, "users", []byte("[]")); err != nil {
		t.Fatalf("second init: %v", err)
	}
	got, err := redis.Get("test:docs:users")
	if err != nil {
		t.Fatalf("miniredis get: %v", err)
	}
	if got != `[{"id":1}]` {
		t.Fatalf("unexpected stored value %q", got)
	}
}

func TestRedisBackendRequiresAddr(t *testing.T) {
	if _, err := NewRedisBackend("", "", ""); err == nil {
		t.Fatalf("expected error for empty redis addr")
	}
}

func TestStoreOverRedis(t *testing.T) {
	redis := miniredis.RunT(t)
	b, err := NewRedisBackend(redis.Addr(), "", "")
	if err != nil {
		t.Fatalf("new redis backend: %v", err)
	}
	defer b.Close()
	ctx := context.Background()
	s, err := New(ctx, b)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	u, err := s.Users.Add(ctx, domain.User{Username: "ann", Password: "pw"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if u.ID != 1 {
		t.Fatalf("id = %d, want 1", u.ID)
	}
	got, err := s.Users.GetSingle(ctx, 1)
	if err != nil {
		t.Fatalf("get single: %v", err)
	}
	if got.Username != "ann" {
		t.Fatalf("unexpected user %+v", got)
	}

	redis.Close()
	if _, err := s.Users.GetMany(ctx); domain.KindOf(err) != domain.KindPersistence {
		t.Fatalf("expected persistence failure with redis down, got %v", err)
	}
}
