package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dealspot/dealspot/internal/api/middleware"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// actorFrom extracts the claims injected by the Auth middleware. A missing
// role means the route was reached without authentication.
func actorFrom(c echo.Context) (ports.Actor, error) {
	role, _ := c.Get(middleware.CtxRole).(string)
	userID, _ := c.Get(middleware.CtxUserID).(string)
	if role == "" || userID == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	username, _ := c.Get(middleware.CtxUsername).(string)
	return ports.Actor{UserID: userID, Username: username, Role: role}, nil
}

// visitorID identifies the caller for activity dedup: the user id when a
// valid token was presented, the client IP otherwise.
func visitorID(c echo.Context) string {
	if id, _ := c.Get(middleware.CtxUserID).(string); id != "" {
		return id
	}
	return c.RealIP()
}

// bindQuery runs fill against Echo's query binder and then the registered
// validator on dst. A malformed parameter is a 400 naming the parameter.
func bindQuery(c echo.Context, dst any, fill func(b *echo.ValueBinder) *echo.ValueBinder) error {
	if err := fill(echo.QueryParamsBinder(c)).BindError(); err != nil {
		var be *echo.BindingError
		if errors.As(err, &be) {
			return echo.NewHTTPError(http.StatusBadRequest, be.Field+" has an invalid value")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// present reports whether the query carries a non-empty value for name, so
// optional filters can stay nil when absent.
func present(c echo.Context, name string) bool {
	return c.QueryParam(name) != ""
}

// bindPage reads page and limit. Page defaults to 1; a zero limit lets the
// service apply the site default.
func bindPage(c echo.Context) (pageQuery, error) {
	q := pageQuery{Page: 1}
	err := bindQuery(c, &q, q.fill)
	return q, err
}

// bindAndValidate binds the request body into req and runs the registered
// validator on it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
