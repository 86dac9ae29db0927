package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// UserStoreService backs the seller my-store portal.
type UserStoreService struct {
	repo     ports.UserStoreRepository
	settings ports.SettingsRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewUserStoreService(repo ports.UserStoreRepository, settings ports.SettingsRepository, log zerolog.Logger) *UserStoreService {
	return &UserStoreService{repo: repo, settings: settings, log: log, now: time.Now}
}

var _ ports.UserStoreService = (*UserStoreService)(nil)

// Create opens the seller's storefront. Each seller owns at most one.
func (s *UserStoreService) Create(ctx context.Context, actor ports.Actor, in ports.UserStoreInput) (*domain.UserStore, error) {
	if actor.Role != domain.RoleSeller {
		return nil, domain.ErrForbidden
	}
	switch _, err := s.repo.FindByOwner(ctx, actor.UserID); {
	case err == nil:
		return nil, domain.ErrUserStoreExists
	case !errors.Is(err, domain.ErrUserStoreNotFound):
		return nil, fmt.Errorf("lookup user store of %s: %w", actor.UserID, err)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	us := &domain.UserStore{
		OwnerID:     actor.UserID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Approved:    settings.AutoPublish,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	slug, err := uniqueSlug(ctx, us.Name, "", s.repo.SlugExists)
	if err != nil {
		return nil, err
	}
	us.Slug = slug

	if err := s.repo.Create(ctx, us); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_store_id", us.ID).Str("owner_id", actor.UserID).Msg("user store created")
	return us, nil
}

func (s *UserStoreService) Get(ctx context.Context, actor ports.Actor) (*domain.UserStore, error) {
	return s.repo.FindByOwner(ctx, actor.UserID)
}

func (s *UserStoreService) Update(ctx context.Context, actor ports.Actor, in ports.UserStoreInput) (*domain.UserStore, error) {
	us, err := s.repo.FindByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	us.Name = strings.TrimSpace(in.Name)
	us.Description = in.Description
	us.UpdatedAt = s.now().UTC()

	slug, err := uniqueSlug(ctx, us.Name, us.Slug, s.repo.SlugExists)
	if err != nil {
		return nil, err
	}
	us.Slug = slug

	if err := s.repo.Update(ctx, us); err != nil {
		return nil, err
	}
	return us, nil
}

// List returns the storefront review queue for catalog managers.
func (s *UserStoreService) List(ctx context.Context, actor ports.Actor, filter ports.UserStoreFilter, page, limit int) ([]*domain.UserStore, int64, error) {
	if !canManageCatalog(actor) {
		return nil, 0, domain.ErrForbidden
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count user stores: %w", err)
	}
	if total == 0 {
		return []*domain.UserStore{}, 0, nil
	}
	stores, err := s.repo.Find(ctx, filter, domain.PageFor(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list user stores: %w", err)
	}
	return stores, total, nil
}

// SetApproved opens or closes a storefront for posting. Sellers of an
// unapproved storefront cannot create or edit deals.
func (s *UserStoreService) SetApproved(ctx context.Context, actor ports.Actor, id string, approved bool) (*domain.UserStore, error) {
	if !canManageCatalog(actor) {
		return nil, domain.ErrForbidden
	}
	us, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if us.Approved == approved {
		return us, nil
	}
	us.Approved = approved
	us.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, us); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("user_store_id", us.ID).
		Bool("approved", approved).
		Str("by", actor.UserID).
		Msg("user store review updated")
	return us, nil
}
