package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dealspot/dealspot/internal/core/ports"
)

type SubscriberHandler struct {
	service ports.SubscriberService
}

func NewSubscriberHandler(service ports.SubscriberService) *SubscriberHandler {
	return &SubscriberHandler{service: service}
}

// Subscribe handles POST /v1/subscribers.
//
// @Summary      Subscribe to the newsletter
// @Tags         subscribers
// @Accept       json
// @Produce      json
// @Param        body  body      subscribeRequest  true  "Email"
// @Success      201   {object}  subscriberResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /v1/subscribers [post]
func (h *SubscriberHandler) Subscribe(c echo.Context) error {
	var req subscribeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := h.service.Subscribe(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, subscriberResponse{
		Email:        s.Email,
		Active:       s.Active,
		SubscribedAt: s.SubscribedAt.UTC(),
	})
}

// Unsubscribe handles POST /v1/subscribers/unsubscribe.
//
// @Summary      Unsubscribe from the newsletter
// @Tags         subscribers
// @Accept       json
// @Produce      json
// @Param        body  body      subscribeRequest  true  "Email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/subscribers/unsubscribe [post]
func (h *SubscriberHandler) Unsubscribe(c echo.Context) error {
	var req subscribeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.Unsubscribe(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "unsubscribed"})
}
