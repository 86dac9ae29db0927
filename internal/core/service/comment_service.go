package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// deletedBody replaces the text of soft-deleted comments in threads.
const deletedBody = "[deleted]"

type CommentService struct {
	comments  ports.CommentRepository
	deals     ports.DealRepository
	users     ports.UserRepository
	reactions ports.ReactionRepository
	log       zerolog.Logger
	now       func() time.Time
}

func NewCommentService(
	comments ports.CommentRepository,
	deals ports.DealRepository,
	users ports.UserRepository,
	reactions ports.ReactionRepository,
	log zerolog.Logger,
) *CommentService {
	return &CommentService{
		comments:  comments,
		deals:     deals,
		users:     users,
		reactions: reactions,
		log:       log,
		now:       time.Now,
	}
}

var _ ports.CommentService = (*CommentService)(nil)

// Thread returns the comment tree of a deal. Deleted comments stay in the
// tree so their replies keep their place, but their text is masked.
func (s *CommentService) Thread(ctx context.Context, dealID string) ([]*domain.CommentNode, error) {
	if _, err := s.deals.FindByID(ctx, dealID); err != nil {
		return nil, err
	}

	list, err := s.comments.Find(ctx,
		ports.CommentFilter{DealID: dealID, IncludeDeleted: true},
		domain.Sort{Field: "createdAt"},
		domain.Page{},
	)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}

	flat := make([]domain.Comment, len(list))
	for i, c := range list {
		flat[i] = *c
		if c.Deleted {
			flat[i].Body = deletedBody
		}
	}
	return domain.BuildCommentTree(flat), nil
}

func (s *CommentService) Create(ctx context.Context, actor ports.Actor, dealID string, in ports.CommentInput) (*domain.Comment, error) {
	user, err := activeUser(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.deals.FindByID(ctx, dealID); err != nil {
		return nil, err
	}

	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, fmt.Errorf("%w: empty comment", domain.ErrInvalidQuery)
	}

	now := s.now().UTC()
	c := &domain.Comment{
		DealID:     dealID,
		AuthorID:   user.ID,
		AuthorName: user.Username,
		Body:       body,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if in.ParentID != "" {
		parent, err := s.comments.FindByID(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.DealID != dealID {
			return nil, domain.ErrInvalidParent
		}
		parentID := parent.ID
		c.ParentID = &parentID
	}

	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	if err := s.deals.AdjustCommentCount(ctx, dealID, 1); err != nil {
		s.log.Warn().Err(err).Str("deal_id", dealID).Msg("failed to bump comment count")
	}
	return c, nil
}

// Like records one like per user per comment.
func (s *CommentService) Like(ctx context.Context, actor ports.Actor, commentID string) (*domain.Comment, error) {
	if _, err := activeUser(ctx, s.users, actor); err != nil {
		return nil, err
	}
	c, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.Deleted {
		return nil, domain.ErrCommentNotFound
	}

	prev, err := s.reactions.Put(ctx, &domain.Reaction{
		Kind:      domain.ReactionCommentLike,
		TargetID:  commentID,
		UserID:    actor.UserID,
		Value:     1,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("like comment: %w", err)
	}
	if prev == 1 {
		return nil, domain.ErrAlreadyReacted
	}
	return s.comments.AdjustLikes(ctx, commentID, 1)
}

// Delete soft-deletes a comment. Only its author or an admin may do so.
func (s *CommentService) Delete(ctx context.Context, actor ports.Actor, commentID string) error {
	c, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c.AuthorID != actor.UserID && actor.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	if c.Deleted {
		return nil
	}

	if err := s.comments.SoftDelete(ctx, commentID); err != nil {
		return err
	}
	if err := s.deals.AdjustCommentCount(ctx, c.DealID, -1); err != nil {
		s.log.Warn().Err(err).Str("deal_id", c.DealID).Msg("failed to decrement comment count")
	}
	return nil
}
