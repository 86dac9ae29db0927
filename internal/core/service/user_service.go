package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// UserService implements admin user management.
type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log, now: time.Now}
}

var _ ports.UserService = (*UserService)(nil)

func (s *UserService) List(ctx context.Context, filter ports.UserFilter, page, limit int) ([]*domain.User, int64, error) {
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	users, err := s.repo.Find(ctx, filter, domain.Sort{Field: "createdAt", Desc: true}, domain.PageFor(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// Block bars a user from logging in and interacting. Admins cannot block
// themselves.
func (s *UserService) Block(ctx context.Context, actor ports.Actor, id, reason string) error {
	if err := s.guard(actor, id); err != nil {
		return err
	}
	at := s.now().UTC()
	if err := s.repo.SetBlocked(ctx, id, true, reason, &at); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Str("by", actor.UserID).Msg("user blocked")
	return nil
}

func (s *UserService) Unblock(ctx context.Context, actor ports.Actor, id string) error {
	if err := s.guard(actor, id); err != nil {
		return err
	}
	if err := s.repo.SetBlocked(ctx, id, false, "", nil); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Str("by", actor.UserID).Msg("user unblocked")
	return nil
}

func (s *UserService) SetRole(ctx context.Context, actor ports.Actor, id, role string) error {
	if !domain.ValidRole(role) {
		return domain.ErrInvalidRole
	}
	if err := s.guard(actor, id); err != nil {
		return err
	}
	if err := s.repo.SetRole(ctx, id, role); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Str("role", role).Str("by", actor.UserID).Msg("user role changed")
	return nil
}

func (s *UserService) guard(actor ports.Actor, targetID string) error {
	if actor.Role != domain.RoleAdmin || actor.UserID == targetID {
		return domain.ErrForbidden
	}
	return nil
}
