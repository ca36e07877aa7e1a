package store

import (
	"testing"

	"forummini/pkg/domain"
)

func postTitle(p domain.Post) string { return p.Title }
func postUserID(p domain.Post) int   { return p.UserID }

func TestFilterComposition(t *testing.T) {
	posts := []domain.Post{
		{ID: 1, Title: "Hello", UserID: 5},
		{ID: 2, Title: "World", UserID: 7},
	}

	got := Filter(posts, ContainsFold(postTitle, "ELL"))
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("title filter = %+v, want [post 1]", got)
	}

	seven := 7
	got = Filter(posts, ContainsFold(postTitle, "ell"), Equals(postUserID, &seven))
	if len(got) != 0 {
		t.Fatalf("combined filter = %+v, want empty", got)
	}

	got = Filter(posts, Equals(postUserID, &seven))
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("userId filter = %+v, want [post 2]", got)
	}
}

func TestFilterWithoutCriteriaKeepsOrder(t *testing.T) {
	posts := []domain.Post{{ID: 3}, {ID: 1}, {ID: 2}}
	got := Filter(posts, ContainsFold(postTitle, "   "), Equals(postUserID, nil))
	if len(got) != 3 || got[0].ID != 3 || got[1].ID != 1 || got[2].ID != 2 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestContainsFoldString(t *testing.T) {
	cases := []struct {
		s, sub string
		want   bool
	}{
		{"Hello", "hell", true},
		{"hello", "LLO", true},
		{"hello", "world", false},
		{"ÄPFEL", "äpf", true},
		{"STRASSE", "straße", false},
	}
	for _, tc := range cases {
		if got := ContainsFoldString(tc.s, tc.sub); got != tc.want {
			t.Fatalf("ContainsFoldString(%q, %q) = %v, want %v", tc.s, tc.sub, got, tc.want)
		}
	}
}
