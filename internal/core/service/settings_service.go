package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

type SettingsService struct {
	repo ports.SettingsRepository
	now  func() time.Time
}

func NewSettingsService(repo ports.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo, now: time.Now}
}

var _ ports.SettingsService = (*SettingsService)(nil)

func (s *SettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	return s.repo.Get(ctx)
}

func (s *SettingsService) Update(ctx context.Context, in domain.Settings) (*domain.Settings, error) {
	in.SiteName = strings.TrimSpace(in.SiteName)
	if in.SiteName == "" {
		return nil, fmt.Errorf("%w: site name is required", domain.ErrInvalidQuery)
	}
	if in.DealsPerPage < 1 || in.DealsPerPage > domain.MaxPageSize {
		return nil, fmt.Errorf("%w: deals per page must be between 1 and %d", domain.ErrInvalidQuery, domain.MaxPageSize)
	}
	in.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}
