package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func strPtr(s string) *string { return &s }

func TestBuildCommentTree(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	comments := []Comment{
		{ID: "a", CreatedAt: base},
		{ID: "b", CreatedAt: base.Add(time.Hour)},
		{ID: "a2", ParentID: strPtr("a"), CreatedAt: base.Add(3 * time.Minute)},
		{ID: "a1", ParentID: strPtr("a"), CreatedAt: base.Add(time.Minute)},
		{ID: "a1x", ParentID: strPtr("a1"), CreatedAt: base.Add(2 * time.Minute)},
		{ID: "orphan", ParentID: strPtr("gone"), CreatedAt: base.Add(30 * time.Minute)},
	}

	roots := BuildCommentTree(comments)

	type shape struct {
		ID      string
		Replies []shape
	}
	var flatten func(nodes []*CommentNode) []shape
	flatten = func(nodes []*CommentNode) []shape {
		var out []shape
		for _, n := range nodes {
			out = append(out, shape{ID: n.ID, Replies: flatten(n.Replies)})
		}
		return out
	}

	want := []shape{
		{ID: "b"},
		{ID: "orphan"},
		{ID: "a", Replies: []shape{
			{ID: "a1", Replies: []shape{{ID: "a1x"}}},
			{ID: "a2"},
		}},
	}
	if diff := cmp.Diff(want, flatten(roots)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCommentTree_Empty(t *testing.T) {
	if roots := BuildCommentTree(nil); len(roots) != 0 {
		t.Fatalf("expected no roots, got %d", len(roots))
	}
}
