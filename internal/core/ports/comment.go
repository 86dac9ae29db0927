package ports

import (
	"context"

	"github.com/dealspot/dealspot/internal/core/domain"
)

var CommentSortFields = []string{"createdAt", "likes"}

type CommentFilter struct {
	DealID         string
	AuthorID       string
	Search         string
	IncludeDeleted bool
}

type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	SoftDelete(ctx context.Context, id string) error
	AdjustLikes(ctx context.Context, id string, by int64) (*domain.Comment, error)
	Find(ctx context.Context, filter CommentFilter, sort domain.Sort, page domain.Page) ([]*domain.Comment, error)
	Count(ctx context.Context, filter CommentFilter) (int64, error)
}

type CommentInput struct {
	Body     string
	ParentID string
}

type CommentService interface {
	Thread(ctx context.Context, dealID string) ([]*domain.CommentNode, error)
	Create(ctx context.Context, actor Actor, dealID string, in CommentInput) (*domain.Comment, error)
	Like(ctx context.Context, actor Actor, commentID string) (*domain.Comment, error)
	Delete(ctx context.Context, actor Actor, commentID string) error
}
