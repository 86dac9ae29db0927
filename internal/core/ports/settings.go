package ports

import (
	"context"

	"github.com/dealspot/dealspot/internal/core/domain"
)

type SettingsRepository interface {
	// Get returns the stored settings, or domain.DefaultSettings when none were saved.
	Get(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, s *domain.Settings) error
}

type SettingsService interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, s domain.Settings) (*domain.Settings, error)
}
