package store

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"

	"forummini/pkg/domain"
)

func newFileStore(t *testing.T) (*Store, *FileBackend) {
	t.Helper()
	backend, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}
	s, err := New(context.Background(), backend)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s, backend
}

func readDoc(t *testing.T, backend *FileBackend, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(backend.Path(name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return data
}

func TestNewInitializesEmptyDocuments(t *testing.T) {
	_, backend := newFileStore(t)
	for _, name := range []string{UsersDocument, PostsDocument, CommentsDocument} {
		if got := readDoc(t, backend, name); string(got) != "[]" {
			t.Fatalf("%s = %q, want []", name, got)
		}
	}
}

func TestNewKeepsExistingDocuments(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}
	existing := []byte(`[{"id":4,"username":"ann","password":"pw"}]`)
	if err := os.WriteFile(backend.Path(UsersDocument), existing, 0o644); err != nil {
		t.Fatalf("seed users: %v", err)
	}
	if _, err := New(context.Background(), backend); err != nil {
		t.Fatalf("new store: %v", err)
	}
	if got := readDoc(t, backend, UsersDocument); !bytes.Equal(got, existing) {
		t.Fatalf("users document changed: %q", got)
	}
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()
	for want := 1; want <= 5; want++ {
		// caller supplied ids are ignored
		u, err := s.Users.Add(ctx, domain.User{ID: 99, Username: "u", Password: "p"})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if u.ID != want {
			t.Fatalf("id = %d, want %d", u.ID, want)
		}
	}
}

func TestAddUsesMaxExistingID(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := s.Posts.Add(ctx, domain.Post{Title: "t", UserID: 1}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := s.Posts.Delete(ctx, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	p, err := s.Posts.Add(ctx, domain.Post{Title: "t", UserID: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if p.ID != 4 {
		t.Fatalf("id = %d, want 4", p.ID)
	}
}

func TestUpdateReplacesInPlace(t *testing.T) {
	s, backend := newFileStore(t)
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		if _, err := s.Posts.Add(ctx, domain.Post{Title: title, UserID: 1}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := s.Posts.Update(ctx, domain.Post{ID: 2, Title: "B", Body: "x", UserID: 1}); err != nil {
		t.Fatalf("update: %v", err)
	}
	posts, err := s.Posts.GetMany(ctx)
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	if len(posts) != 3 || posts[1].ID != 2 || posts[1].Title != "B" || posts[1].Body != "x" {
		t.Fatalf("unexpected posts after update: %+v", posts)
	}

	before := readDoc(t, backend, PostsDocument)
	if err := s.Posts.Update(ctx, posts[1]); err != nil {
		t.Fatalf("update unchanged: %v", err)
	}
	if after := readDoc(t, backend, PostsDocument); !bytes.Equal(before, after) {
		t.Fatalf("unchanged update rewrote content:\nbefore %s\nafter  %s", before, after)
	}
}

func TestMissingIDIsNotFoundAndLeavesDocument(t *testing.T) {
	s, backend := newFileStore(t)
	ctx := context.Background()
	if _, err := s.Comments.Add(ctx, domain.Comment{Body: "hi", UserID: 1, PostID: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	before := readDoc(t, backend, CommentsDocument)

	_, err := s.Comments.GetSingle(ctx, 42)
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("get single: expected not found, got %v", err)
	}
	if err.Error() != "comment with ID '42' not found" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if err := s.Comments.Update(ctx, domain.Comment{ID: 42, Body: "x"}); !domain.IsNotFound(err) {
		t.Fatalf("update: expected not found, got %v", err)
	}
	if err := s.Comments.Delete(ctx, 42); !domain.IsNotFound(err) {
		t.Fatalf("delete: expected not found, got %v", err)
	}
	if after := readDoc(t, backend, CommentsDocument); !bytes.Equal(before, after) {
		t.Fatalf("document mutated by failed operations: %s", after)
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()
	u, err := s.Users.Add(ctx, domain.User{Username: "ann", Password: "pw"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Users.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	users, err := s.Users.GetMany(ctx)
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected empty collection, got %+v", users)
	}
}

func TestCorruptDocumentIsPersistenceFailure(t *testing.T) {
	s, backend := newFileStore(t)
	if err := os.WriteFile(backend.Path(UsersDocument), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt users: %v", err)
	}
	_, err := s.Users.GetMany(context.Background())
	if domain.KindOf(err) != domain.KindPersistence {
		t.Fatalf("expected persistence failure, got %v", err)
	}
	_, err = s.Users.Add(context.Background(), domain.User{Username: "x"})
	if domain.KindOf(err) != domain.KindPersistence {
		t.Fatalf("expected persistence failure on add, got %v", err)
	}
}

func TestLoadRecreatesRemovedDocument(t *testing.T) {
	s, backend := newFileStore(t)
	if err := os.Remove(backend.Path(PostsDocument)); err != nil {
		t.Fatalf("remove posts: %v", err)
	}
	posts, err := s.Posts.GetMany(context.Background())
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected empty posts, got %+v", posts)
	}
	if got := readDoc(t, backend, PostsDocument); string(got) != "[]" {
		t.Fatalf("posts = %q, want []", got)
	}
}

func TestRoundTripIsByteIdentical(t *testing.T) {
	s, backend := newFileStore(t)
	ctx := context.Background()
	if _, err := s.Users.Add(ctx, domain.User{Username: "Zoë \"quoted\" <tag>", Password: "p&w"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.Users.Add(ctx, domain.User{Username: "bob", Password: ""}); err != nil {
		t.Fatalf("add: %v", err)
	}
	first := readDoc(t, backend, UsersDocument)
	users, err := s.Users.GetMany(ctx)
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	second, err := Encode(users)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("round trip differs:\n%s\n%s", first, second)
	}
}

func TestConcurrentAddsGetDistinctIDs(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()
	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Comments.Add(ctx, domain.Comment{Body: "c", UserID: 1, PostID: 1}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent add: %v", err)
	}
	comments, err := s.Comments.GetMany(ctx)
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	if len(comments) != n {
		t.Fatalf("expected %d comments, got %d", n, len(comments))
	}
	seen := make(map[int]bool, n)
	for _, c := range comments {
		if seen[c.ID] {
			t.Fatalf("duplicate id %d", c.ID)
		}
		seen[c.ID] = true
	}
}
