package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// ActivityDispatcher is the interface handlers use to enqueue view and click
// events. Enqueue never blocks; it reports false when the event was dropped.
type ActivityDispatcher interface {
	Enqueue(event ports.ActivityInput) bool
}

// track enqueues one activity event for the current request.
func track(c echo.Context, dispatcher ActivityDispatcher, dealID string, kind domain.ActivityKind) {
	if dispatcher == nil {
		return
	}
	dispatcher.Enqueue(toActivityInput(c, dealID, kind))
}

// toActivityInput maps the HTTP request to the service DTO.
func toActivityInput(c echo.Context, dealID string, kind domain.ActivityKind) ports.ActivityInput {
	return ports.ActivityInput{
		DealID:    dealID,
		Kind:      string(kind),
		VisitorID: visitorID(c),
		Timestamp: time.Now().UTC(),
		Referrer:  c.Request().Referer(),
	}
}
