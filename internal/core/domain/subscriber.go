package domain

import "time"

// Subscriber is a newsletter sign-up.
type Subscriber struct {
	ID             string
	Email          string
	Active         bool
	SubscribedAt   time.Time
	UnsubscribedAt *time.Time
}
