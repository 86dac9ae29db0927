package domain

import (
	"errors"
	"time"
)

// ActivityKind distinguishes the deal interactions that are counted.
type ActivityKind string

const (
	ActivityView  ActivityKind = "view"
	ActivityClick ActivityKind = "click"
)

var ErrInvalidActivity = errors.New("invalid activity kind")

// CounterField returns the deal counter incremented by this kind.
func (k ActivityKind) CounterField() (string, error) {
	switch k {
	case ActivityView:
		return "view_count", nil
	case ActivityClick:
		return "click_count", nil
	}
	return "", ErrInvalidActivity
}

// ActivityEvent records a single view or click on a deal.
type ActivityEvent struct {
	DealID    string
	Kind      ActivityKind
	VisitorID string // user id, or client IP for anonymous visitors
	Timestamp time.Time
	Referrer  string
}
