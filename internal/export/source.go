package export

import (
	"context"

	"github.com/dealspot/dealspot/internal/core/domain"
)

// Source is a filtered, sortable record set. A zero Page returns every record.
type Source[T any] interface {
	Count(ctx context.Context) (int64, error)
	Find(ctx context.Context, sort domain.Sort, page domain.Page) ([]T, error)
}

type funcSource[T any] struct {
	count func(ctx context.Context) (int64, error)
	find  func(ctx context.Context, sort domain.Sort, page domain.Page) ([]T, error)
}

// SourceFunc adapts a pair of closures, typically a repository's Count and
// Find bound to one filter, into a Source.
func SourceFunc[T any](
	count func(ctx context.Context) (int64, error),
	find func(ctx context.Context, sort domain.Sort, page domain.Page) ([]T, error),
) Source[T] {
	return &funcSource[T]{count: count, find: find}
}

func (s *funcSource[T]) Count(ctx context.Context) (int64, error) {
	return s.count(ctx)
}

func (s *funcSource[T]) Find(ctx context.Context, sort domain.Sort, page domain.Page) ([]T, error) {
	return s.find(ctx, sort, page)
}
