package domain

import (
	"slices"
	"time"
)

// Comment is a threaded remark on a deal. Top-level comments have no ParentID.
type Comment struct {
	ID         string
	DealID     string
	AuthorID   string
	AuthorName string
	ParentID   *string
	Body       string
	LikeCount  int64
	Deleted    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CommentNode is a comment with its replies resolved.
type CommentNode struct {
	Comment
	Replies []*CommentNode
}

// BuildCommentTree threads a flat comment list. Roots are ordered newest
// first, replies oldest first. Comments whose parent is missing from the list
// are promoted to roots.
func BuildCommentTree(comments []Comment) []*CommentNode {
	nodes := make(map[string]*CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &CommentNode{Comment: comments[i]}
	}

	var roots []*CommentNode
	for i := range comments {
		n := nodes[comments[i].ID]
		if n.ParentID != nil {
			if parent, ok := nodes[*n.ParentID]; ok {
				parent.Replies = append(parent.Replies, n)
				continue
			}
		}
		roots = append(roots, n)
	}

	sortNodes(roots, true)
	for _, n := range nodes {
		sortNodes(n.Replies, false)
	}
	return roots
}

func sortNodes(nodes []*CommentNode, newestFirst bool) {
	slices.SortStableFunc(nodes, func(a, b *CommentNode) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if newestFirst {
			return -c
		}
		return c
	})
}
