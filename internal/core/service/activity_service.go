package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dealspot/dealspot/internal/api/metrics"
	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// DedupChecker abstracts the activity dedup store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, dealID, kind, visitorID string) (bool, error)
	Mark(ctx context.Context, dealID, kind, visitorID string) error
}

type activityService struct {
	repo  ports.ActivityRepository
	dedup DedupChecker
	log   zerolog.Logger
}

// NewActivityService returns an ActivityService implementation.
func NewActivityService(repo ports.ActivityRepository, dedup DedupChecker, log zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, dedup: dedup, log: log}
}

// Process deduplicates a view/click event, bumps the deal counter and writes
// the audit record.
func (s *activityService) Process(ctx context.Context, in ports.ActivityInput) error {
	kind := domain.ActivityKind(in.Kind)
	if _, err := kind.CounterField(); err != nil {
		metrics.ActivityErrorsTotal.WithLabelValues("invalid_kind").Inc()
		return fmt.Errorf("process activity: %w", err)
	}

	// 1. Dedup per visitor; a Redis outage must not lose counts.
	if in.VisitorID != "" {
		isDup, err := s.dedup.IsDuplicate(ctx, in.DealID, in.Kind, in.VisitorID)
		if err != nil {
			s.log.Warn().Err(err).Str("deal_id", in.DealID).Msg("dedup check failed, processing anyway")
		} else if isDup {
			metrics.ActivityDedupTotal.WithLabelValues("hit").Inc()
			s.log.Debug().Str("deal_id", in.DealID).Str("kind", in.Kind).Msg("duplicate activity skipped")
			return nil
		}
		metrics.ActivityDedupTotal.WithLabelValues("miss").Inc()
	}

	// 2. Counter update.
	if err := s.repo.IncrementCounter(ctx, in.DealID, kind); err != nil {
		reason := "update_failed"
		if errors.Is(err, domain.ErrDealNotFound) {
			reason = "deal_not_found"
		}
		metrics.ActivityErrorsTotal.WithLabelValues(reason).Inc()
		return fmt.Errorf("process activity: %w", err)
	}

	// 3. Mark after the write so a failed increment can be retried.
	if in.VisitorID != "" {
		if err := s.dedup.Mark(ctx, in.DealID, in.Kind, in.VisitorID); err != nil {
			s.log.Warn().Err(err).Str("deal_id", in.DealID).Msg("failed to set dedup key")
		}
	}

	// 4. Audit trail (non-fatal on failure).
	event := &domain.ActivityEvent{
		DealID:    in.DealID,
		Kind:      kind,
		VisitorID: in.VisitorID,
		Timestamp: in.Timestamp,
		Referrer:  in.Referrer,
	}
	if err := s.repo.InsertEvent(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("deal_id", in.DealID).Msg("failed to insert activity event")
	}

	metrics.ActivityProcessedTotal.WithLabelValues(in.Kind).Inc()
	s.log.Debug().Str("deal_id", in.DealID).Str("kind", in.Kind).Msg("activity processed")
	return nil
}
