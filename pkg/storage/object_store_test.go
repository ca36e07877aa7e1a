package storage

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/minio/minio-go/v7"

	"forummini/internal/util"
	"forummini/pkg/domain"
	"forummini/pkg/store"
)

func TestIsMissing(t *testing.T) {
	if !isMissing(minio.ErrorResponse{Code: "NoSuchKey"}) {
		t.Fatalf("NoSuchKey should be missing")
	}
	if !isMissing(minio.ErrorResponse{StatusCode: http.StatusNotFound}) {
		t.Fatalf("404 should be missing")
	}
	if isMissing(minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}) {
		t.Fatalf("AccessDenied should not be missing")
	}
	if isMissing(errors.New("boom")) {
		t.Fatalf("plain error should not be missing")
	}
}

func TestObjectKey(t *testing.T) {
	if got := objectKey(store.PostsDocument); got != "posts.json" {
		t.Fatalf("objectKey = %q, want posts.json", got)
	}
}

func TestMinioStoreDocuments(t *testing.T) {
	endpoint := os.Getenv("FORUM_TEST_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("FORUM_TEST_MINIO_ENDPOINT not set")
	}
	bucket := "forum-test-" + util.NewID()[:8]
	m, err := NewMinioStore(endpoint, os.Getenv("FORUM_TEST_MINIO_ACCESS_KEY"), os.Getenv("FORUM_TEST_MINIO_SECRET_KEY"), bucket, false)
	if err != nil {
		t.Fatalf("new minio store: %v", err)
	}
	ctx := context.Background()

	if _, err := m.Read(ctx, "users"); !errors.Is(err, store.ErrDocumentMissing) {
		t.Fatalf("expected ErrDocumentMissing, got %v", err)
	}
	if err := m.Init(ctx, "users", []byte("[]")); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := m.Write(ctx, "users", []byte(`[{"id":1,"username":"a","password":"p"}]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := m.Init(ctx, "users", []byte("[]")); err != nil {
		t.Fatalf("second init: %v", err)
	}
	got, err := m.Read(ctx, "users")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != `[{"id":1,"username":"a","password":"p"}]` {
		t.Fatalf("init overwrote document: %s", got)
	}

	s, err := store.New(ctx, m)
	if err != nil {
		t.Fatalf("new store over minio: %v", err)
	}
	added, err := s.Users.Add(ctx, domain.User{Username: "b", Password: "p"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.ID != 2 {
		t.Fatalf("id = %d, want 2", added.ID)
	}
}
