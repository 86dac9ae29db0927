package handler

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dealspot/dealspot/internal/api/middleware"
	"github.com/dealspot/dealspot/internal/core/ports"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newCtx builds a context for a JSON request. A nil actor leaves the request
// anonymous.
func newCtx(e *echo.Echo, method, target string, body io.Reader, actor *ports.Actor) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor != nil {
		c.Set(middleware.CtxUserID, actor.UserID)
		c.Set(middleware.CtxUsername, actor.Username)
		c.Set(middleware.CtxRole, actor.Role)
	}
	return c, rec
}

// httpStatus returns the code carried by an *echo.HTTPError.
func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}

var (
	adminActor   = &ports.Actor{UserID: "u-admin", Username: "root", Role: "admin"}
	sellerActor  = &ports.Actor{UserID: "u-seller", Username: "shop", Role: "seller"}
	regularActor = &ports.Actor{UserID: "u-1", Username: "alice", Role: "user"}
)
