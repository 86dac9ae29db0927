package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/rs/zerolog"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

type SubscriberService struct {
	repo ports.SubscriberRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewSubscriberService(repo ports.SubscriberRepository, log zerolog.Logger) *SubscriberService {
	return &SubscriberService{repo: repo, log: log, now: time.Now}
}

var _ ports.SubscriberService = (*SubscriberService)(nil)

// Subscribe adds an address, reactivating it if it had unsubscribed.
func (s *SubscriberService) Subscribe(ctx context.Context, email string) (*domain.Subscriber, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidQuery)
	}
	now := s.now().UTC()

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Active {
			return nil, domain.ErrSubscriberExists
		}
		existing.Active = true
		existing.SubscribedAt = now
		existing.UnsubscribedAt = nil
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case !errors.Is(err, domain.ErrSubscriberMissing):
		return nil, err
	}

	sub := &domain.Subscriber{Email: email, Active: true, SubscribedAt: now}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}
	s.log.Info().Str("subscriber_id", sub.ID).Msg("subscriber added")
	return sub, nil
}

// Unsubscribe deactivates an address. Repeating it is a no-op.
func (s *SubscriberService) Unsubscribe(ctx context.Context, email string) error {
	sub, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if !sub.Active {
		return nil
	}
	at := s.now().UTC()
	sub.Active = false
	sub.UnsubscribedAt = &at
	return s.repo.Update(ctx, sub)
}
