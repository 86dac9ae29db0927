package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// MyStoreHandler serves the seller's own storefront and the dashboard
// storefront review queue.
type MyStoreHandler struct {
	service ports.UserStoreService
}

func NewMyStoreHandler(service ports.UserStoreService) *MyStoreHandler {
	return &MyStoreHandler{service: service}
}

// Create handles POST /v1/my-store.
//
// @Summary      Open the seller's storefront
// @Tags         my-store
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      userStoreRequest  true  "Storefront"
// @Success      201   {object}  userStoreResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/my-store [post]
func (h *MyStoreHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req userStoreRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := h.service.Create(c.Request().Context(), actor, ports.UserStoreInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserStoreResponse(s))
}

// Get handles GET /v1/my-store.
//
// @Summary      Get the seller's storefront
// @Tags         my-store
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userStoreResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/my-store [get]
func (h *MyStoreHandler) Get(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	s, err := h.service.Get(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserStoreResponse(s))
}

// Update handles PUT /v1/my-store.
//
// @Summary      Update the seller's storefront
// @Tags         my-store
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      userStoreRequest  true  "Storefront"
// @Success      200   {object}  userStoreResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/my-store [put]
func (h *MyStoreHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req userStoreRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := h.service.Update(c.Request().Context(), actor, ports.UserStoreInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserStoreResponse(s))
}

// ListReview handles GET /v1/dashboard/user-stores.
//
// @Summary      List seller storefronts for review
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        approved  query     boolean  false  "Review state"
// @Param        page      query     int      false  "Page number (default 1)"
// @Param        limit     query     int      false  "Items per page (max 100)"
// @Success      200       {object}  listUserStoresResponse
// @Failure      400       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Router       /v1/dashboard/user-stores [get]
func (h *MyStoreHandler) ListReview(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	q := listUserStoresQuery{pageQuery: pageQuery{Page: 1}}
	if err := bindQuery(c, &q, q.fill); err != nil {
		return err
	}
	var filter ports.UserStoreFilter
	if present(c, "approved") {
		filter.Approved = &q.Approved
	}

	stores, total, err := h.service.List(c.Request().Context(), actor, filter, q.Page, q.Limit)
	if err != nil {
		return err
	}
	page := max(q.Page, 1)
	window := domain.PageFor(page, q.Limit)
	return c.JSON(http.StatusOK, listUserStoresResponse{
		Data: mapSlice(stores, toUserStoreResponse),
		Pagination: paginationResponse{
			Total:      total,
			Page:       page,
			Limit:      int(window.Limit),
			TotalPages: domain.TotalPages(total, int(window.Limit)),
		},
	})
}

// SetApproval handles PATCH /v1/dashboard/user-stores/:id/approval.
//
// @Summary      Approve or suspend a seller storefront
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "User store id"
// @Param        body  body      userStoreApprovalRequest  true  "Review decision"
// @Success      200   {object}  userStoreResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/dashboard/user-stores/{id}/approval [patch]
func (h *MyStoreHandler) SetApproval(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req userStoreApprovalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := h.service.SetApproved(c.Request().Context(), actor, c.Param("id"), *req.Approved)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserStoreResponse(s))
}
