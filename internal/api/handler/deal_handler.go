package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// DealHandler serves deals on the public site, the dashboard and the
// my-store portal. Role scoping is enforced by the service.
type DealHandler struct {
	service    ports.DealService
	dispatcher ActivityDispatcher
}

func NewDealHandler(service ports.DealService, dispatcher ActivityDispatcher) *DealHandler {
	return &DealHandler{service: service, dispatcher: dispatcher}
}

// List handles GET /v1/deals.
//
// @Summary      Search published deals
// @Tags         deals
// @Produce      json
// @Param        q         query     string   false  "Search in title and description"
// @Param        store     query     string   false  "Store slug"
// @Param        type      query     string   false  "Deal type slug"
// @Param        featured  query     boolean  false  "Only featured deals"
// @Param        minPrice  query     number   false  "Minimum price"
// @Param        maxPrice  query     number   false  "Maximum price"
// @Param        sort      query     string   false  "newest, popular, price_asc, price_desc, expiring"
// @Param        page      query     int      false  "Page number (default 1)"
// @Param        limit     query     int      false  "Items per page (max 100)"
// @Success      200       {object}  listDealsResponse
// @Failure      400       {object}  errorResponse
// @Router       /v1/deals [get]
func (h *DealHandler) List(c echo.Context) error {
	in, err := listInput(c)
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDealListResponse(page))
}

// DashboardList handles GET /v1/dashboard/deals. Without a status filter
// every status is listed.
//
// @Summary      List deals in any status
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Comma-separated statuses"
// @Param        q       query     string  false  "Search in title and description"
// @Param        sort    query     string  false  "newest, popular, price_asc, price_desc, expiring"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (max 100)"
// @Success      200     {object}  listDealsResponse
// @Failure      400     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /v1/dashboard/deals [get]
func (h *DealHandler) DashboardList(c echo.Context) error {
	in, err := listInput(c)
	if err != nil {
		return err
	}
	in.Statuses, err = parseStatuses(c.QueryParam("status"))
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDealListResponse(page))
}

// Get handles GET /v1/deals/:slug and records a view.
//
// @Summary      Get a deal by slug
// @Tags         deals
// @Produce      json
// @Param        slug  path      string  true  "Deal slug"
// @Success      200   {object}  dealResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/deals/{slug} [get]
func (h *DealHandler) Get(c echo.Context) error {
	d, err := h.service.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	track(c, h.dispatcher, d.ID, domain.ActivityView)
	return c.JSON(http.StatusOK, toDealResponse(d))
}

// GetByID handles GET /v1/dashboard/deals/:id.
//
// @Summary      Get a deal by id
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Deal id"
// @Success      200  {object}  dealResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/dashboard/deals/{id} [get]
func (h *DealHandler) GetByID(c echo.Context) error {
	d, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDealResponse(d))
}

// Go handles GET /v1/deals/:id/go: records a click and redirects to the
// affiliate URL.
//
// @Summary      Follow a deal link
// @Tags         deals
// @Param        id   path  string  true  "Deal id"
// @Success      302
// @Failure      404  {object}  errorResponse
// @Router       /v1/deals/{id}/go [get]
func (h *DealHandler) Go(c echo.Context) error {
	d, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if d.Status != domain.DealPublished && d.Status != domain.DealExpired {
		return domain.ErrDealNotFound
	}
	if d.URL == "" {
		return domain.ErrDealNotFound
	}
	track(c, h.dispatcher, d.ID, domain.ActivityClick)
	return c.Redirect(http.StatusFound, d.URL)
}

// Vote handles POST /v1/deals/:id/vote.
//
// @Summary      Vote on a deal
// @Tags         deals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Deal id"
// @Param        body  body      voteRequest  true  "1 for up, -1 for down"
// @Success      200   {object}  voteResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/deals/{id}/vote [post]
func (h *DealHandler) Vote(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req voteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	d, err := h.service.Vote(c.Request().Context(), actor, c.Param("id"), req.Value)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, voteResponse{Likes: d.LikeCount, Dislikes: d.DislikeCount, Score: d.Score()})
}

// Create handles POST /v1/dashboard/deals and POST /v1/my-store/deals.
//
// @Summary      Create a deal
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dealRequest  true  "Deal"
// @Success      201   {object}  dealResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/dashboard/deals [post]
// @Router       /v1/my-store/deals [post]
func (h *DealHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dealRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	d, err := h.service.Create(c.Request().Context(), actor, toDealInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toDealResponse(d))
}

// Update handles PUT /v1/dashboard/deals/:id and PUT /v1/my-store/deals/:id.
//
// @Summary      Update a deal
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Deal id"
// @Param        body  body      dealRequest  true  "Deal"
// @Success      200   {object}  dealResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/dashboard/deals/{id} [put]
// @Router       /v1/my-store/deals/{id} [put]
func (h *DealHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dealRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	d, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), toDealInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDealResponse(d))
}

// Delete handles DELETE /v1/dashboard/deals/:id and DELETE /v1/my-store/deals/:id.
//
// @Summary      Delete a deal
// @Tags         dashboard
// @Security     BearerAuth
// @Param        id   path  string  true  "Deal id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/dashboard/deals/{id} [delete]
// @Router       /v1/my-store/deals/{id} [delete]
func (h *DealHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetStatus handles PATCH /v1/dashboard/deals/:id/status (approve, reject, expire).
//
// @Summary      Change a deal's status
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Deal id"
// @Param        body  body      dealStatusRequest  true  "New status"
// @Success      200   {object}  dealResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/dashboard/deals/{id}/status [patch]
func (h *DealHandler) SetStatus(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dealStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	d, err := h.service.SetStatus(c.Request().Context(), actor, c.Param("id"), domain.DealStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDealResponse(d))
}

// ListMine handles GET /v1/my-store/deals.
//
// @Summary      List the seller's deals
// @Tags         my-store
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (max 100)"
// @Success      200    {object}  listDealsResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/my-store/deals [get]
func (h *DealHandler) ListMine(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	q, err := bindPage(c)
	if err != nil {
		return err
	}

	result, err := h.service.ListMine(c.Request().Context(), actor, q.Page, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDealListResponse(result))
}

func listInput(c echo.Context) (ports.ListDealsInput, error) {
	q := listDealsQuery{pageQuery: pageQuery{Page: 1}}
	if err := bindQuery(c, &q, q.fill); err != nil {
		return ports.ListDealsInput{}, err
	}

	in := ports.ListDealsInput{
		Search:    q.Search,
		StoreSlug: q.Store,
		TypeSlug:  q.Type,
		Sort:      q.Sort,
		Page:      q.Page,
		Limit:     q.Limit,
	}
	if present(c, "featured") {
		in.Featured = &q.Featured
	}
	if present(c, "minPrice") {
		in.MinPrice = &q.MinPrice
	}
	if present(c, "maxPrice") {
		in.MaxPrice = &q.MaxPrice
	}
	return in, nil
}

var allStatuses = []domain.DealStatus{domain.DealPending, domain.DealPublished, domain.DealRejected, domain.DealExpired}

func parseStatuses(raw string) ([]domain.DealStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return allStatuses, nil
	}
	var out []domain.DealStatus
	for _, part := range strings.Split(raw, ",") {
		s := domain.DealStatus(strings.TrimSpace(part))
		if !s.Valid() {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "unknown status "+string(s))
		}
		out = append(out, s)
	}
	return out, nil
}
