package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// AdminHandler serves admin-only user management and site settings.
type AdminHandler struct {
	users    ports.UserService
	settings ports.SettingsService
}

func NewAdminHandler(users ports.UserService, settings ports.SettingsService) *AdminHandler {
	return &AdminHandler{users: users, settings: settings}
}

type listUsersResponse struct {
	Data       []*domain.User     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// ListUsers handles GET /v1/dashboard/users.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        q        query     string   false  "Search username or email"
// @Param        role     query     string   false  "Role"
// @Param        blocked  query     boolean  false  "Block state"
// @Param        page     query     int      false  "Page number (default 1)"
// @Param        limit    query     int      false  "Items per page (max 100)"
// @Success      200      {object}  listUsersResponse
// @Failure      403      {object}  errorResponse
// @Router       /v1/dashboard/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	q := listUsersQuery{pageQuery: pageQuery{Page: 1}}
	if err := bindQuery(c, &q, q.fill); err != nil {
		return err
	}
	page, limit := q.Page, q.Limit
	filter := ports.UserFilter{
		Search: strings.TrimSpace(q.Search),
		Role:   q.Role,
	}
	if present(c, "blocked") {
		filter.Blocked = &q.Blocked
	}

	users, total, err := h.users.List(c.Request().Context(), filter, page, limit)
	if err != nil {
		return err
	}
	window := domain.PageFor(page, limit)
	if page < 1 {
		page = 1
	}
	return c.JSON(http.StatusOK, listUsersResponse{
		Data: users,
		Pagination: paginationResponse{
			Total:      total,
			Page:       page,
			Limit:      int(window.Limit),
			TotalPages: domain.TotalPages(total, int(window.Limit)),
		},
	})
}

// Block handles POST /v1/dashboard/users/:id/block.
//
// @Summary      Block a user
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string        true   "User id"
// @Param        body  body  blockRequest  false  "Reason"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/dashboard/users/{id}/block [post]
func (h *AdminHandler) Block(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req blockRequest
	if c.Request().ContentLength != 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
	}
	if err := h.users.Block(c.Request().Context(), actor, c.Param("id"), req.Reason); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Unblock handles DELETE /v1/dashboard/users/:id/block.
//
// @Summary      Unblock a user
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "User id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/dashboard/users/{id}/block [delete]
func (h *AdminHandler) Unblock(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.users.Unblock(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetRole handles PUT /v1/dashboard/users/:id/role.
//
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string       true  "User id"
// @Param        body  body  roleRequest  true  "Role"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/dashboard/users/{id}/role [put]
func (h *AdminHandler) SetRole(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req roleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.users.SetRole(c.Request().Context(), actor, c.Param("id"), req.Role); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetSettings handles GET /v1/dashboard/settings.
//
// @Summary      Get site settings
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Settings
// @Router       /v1/dashboard/settings [get]
func (h *AdminHandler) GetSettings(c echo.Context) error {
	s, err := h.settings.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// UpdateSettings handles PUT /v1/dashboard/settings.
//
// @Summary      Update site settings
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      settingsRequest  true  "Settings"
// @Success      200   {object}  domain.Settings
// @Failure      400   {object}  errorResponse
// @Router       /v1/dashboard/settings [put]
func (h *AdminHandler) UpdateSettings(c echo.Context) error {
	var req settingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := h.settings.Update(c.Request().Context(), domain.Settings{
		SiteName:         req.SiteName,
		DealsPerPage:     req.DealsPerPage,
		AutoPublish:      req.AutoPublish,
		AffiliateEnabled: req.AffiliateEnabled,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}
