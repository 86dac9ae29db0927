package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// CatalogHandler serves stores, deal types and coupons.
type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListStores handles GET /v1/stores.
//
// @Summary      List stores
// @Tags         catalog
// @Produce      json
// @Param        q      query     string  false  "Search by name"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Items per page (max 100)"
// @Success      200    {object}  listStoresResponse
// @Router       /v1/stores [get]
func (h *CatalogHandler) ListStores(c echo.Context) error {
	q, err := bindPage(c)
	if err != nil {
		return err
	}
	page, limit := q.Page, q.Limit
	stores, total, err := h.service.ListStores(c.Request().Context(), c.QueryParam("q"), page, limit)
	if err != nil {
		return err
	}

	window := domain.PageFor(page, limit)
	if page < 1 {
		page = 1
	}
	return c.JSON(http.StatusOK, listStoresResponse{
		Data: mapSlice(stores, toStoreResponse),
		Pagination: paginationResponse{
			Total:      total,
			Page:       page,
			Limit:      int(window.Limit),
			TotalPages: domain.TotalPages(total, int(window.Limit)),
		},
	})
}

// GetStore handles GET /v1/stores/:slug.
//
// @Summary      Get a store
// @Tags         catalog
// @Produce      json
// @Param        slug  path      string  true  "Store slug"
// @Success      200   {object}  storeResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/stores/{slug} [get]
func (h *CatalogHandler) GetStore(c echo.Context) error {
	s, err := h.service.GetStore(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStoreResponse(s))
}

// CreateStore handles POST /v1/dashboard/stores.
//
// @Summary      Create a store
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      storeRequest  true  "Store"
// @Success      201   {object}  storeResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/dashboard/stores [post]
func (h *CatalogHandler) CreateStore(c echo.Context) error {
	var req storeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := h.service.CreateStore(c.Request().Context(), toStoreInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toStoreResponse(s))
}

// UpdateStore handles PUT /v1/dashboard/stores/:id.
//
// @Summary      Update a store
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Store id"
// @Param        body  body      storeRequest  true  "Store"
// @Success      200   {object}  storeResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/dashboard/stores/{id} [put]
func (h *CatalogHandler) UpdateStore(c echo.Context) error {
	var req storeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := h.service.UpdateStore(c.Request().Context(), c.Param("id"), toStoreInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStoreResponse(s))
}

// DeleteStore handles DELETE /v1/dashboard/stores/:id.
//
// @Summary      Delete a store
// @Tags         dashboard
// @Security     BearerAuth
// @Param        id   path  string  true  "Store id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/dashboard/stores/{id} [delete]
func (h *CatalogHandler) DeleteStore(c echo.Context) error {
	if err := h.service.DeleteStore(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListDealTypes handles GET /v1/deal-types.
//
// @Summary      List deal types
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  dealTypeResponse
// @Router       /v1/deal-types [get]
func (h *CatalogHandler) ListDealTypes(c echo.Context) error {
	types, err := h.service.ListDealTypes(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapSlice(types, toDealTypeResponse))
}

// CreateDealType handles POST /v1/dashboard/deal-types.
//
// @Summary      Create a deal type
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dealTypeRequest  true  "Deal type"
// @Success      201   {object}  dealTypeResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/dashboard/deal-types [post]
func (h *CatalogHandler) CreateDealType(c echo.Context) error {
	var req dealTypeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	t, err := h.service.CreateDealType(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toDealTypeResponse(t))
}

// UpdateDealType handles PUT /v1/dashboard/deal-types/:id.
//
// @Summary      Rename a deal type
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Deal type id"
// @Param        body  body      dealTypeRequest  true  "Deal type"
// @Success      200   {object}  dealTypeResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/dashboard/deal-types/{id} [put]
func (h *CatalogHandler) UpdateDealType(c echo.Context) error {
	var req dealTypeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	t, err := h.service.UpdateDealType(c.Request().Context(), c.Param("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDealTypeResponse(t))
}

// DeleteDealType handles DELETE /v1/dashboard/deal-types/:id.
//
// @Summary      Delete a deal type
// @Tags         dashboard
// @Security     BearerAuth
// @Param        id   path  string  true  "Deal type id"
// @Success      204
// @Router       /v1/dashboard/deal-types/{id} [delete]
func (h *CatalogHandler) DeleteDealType(c echo.Context) error {
	if err := h.service.DeleteDealType(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCoupons handles GET /v1/coupons.
//
// @Summary      List coupons
// @Tags         catalog
// @Produce      json
// @Param        store  query    string  false  "Store slug"
// @Success      200    {array}  couponResponse
// @Router       /v1/coupons [get]
func (h *CatalogHandler) ListCoupons(c echo.Context) error {
	coupons, err := h.service.ListCoupons(c.Request().Context(), c.QueryParam("store"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapSlice(coupons, toCouponResponse))
}

// CreateCoupon handles POST /v1/dashboard/coupons.
//
// @Summary      Create a coupon
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      couponRequest  true  "Coupon"
// @Success      201   {object}  couponResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/dashboard/coupons [post]
func (h *CatalogHandler) CreateCoupon(c echo.Context) error {
	var req couponRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	coupon, err := h.service.CreateCoupon(c.Request().Context(), toCouponInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCouponResponse(coupon))
}

// UpdateCoupon handles PUT /v1/dashboard/coupons/:id.
//
// @Summary      Update a coupon
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Coupon id"
// @Param        body  body      couponRequest  true  "Coupon"
// @Success      200   {object}  couponResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/dashboard/coupons/{id} [put]
func (h *CatalogHandler) UpdateCoupon(c echo.Context) error {
	var req couponRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	coupon, err := h.service.UpdateCoupon(c.Request().Context(), c.Param("id"), toCouponInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCouponResponse(coupon))
}

// DeleteCoupon handles DELETE /v1/dashboard/coupons/:id.
//
// @Summary      Delete a coupon
// @Tags         dashboard
// @Security     BearerAuth
// @Param        id   path  string  true  "Coupon id"
// @Success      204
// @Router       /v1/dashboard/coupons/{id} [delete]
func (h *CatalogHandler) DeleteCoupon(c echo.Context) error {
	if err := h.service.DeleteCoupon(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
