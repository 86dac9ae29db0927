package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set from the token claims.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
)

var errNoToken = errors.New("missing authorization header")

// Auth validates the JWT and injects claims into context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseBearer(c, jwtSecret)
			if errors.Is(err, errNoToken) {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}
			setClaims(c, claims)
			return next(c)
		}
	}
}

// OptionalAuth injects claims when a valid token is present and otherwise
// lets the request through anonymously. Public pages use it to attribute
// activity to signed-in visitors.
func OptionalAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, err := parseBearer(c, jwtSecret); err == nil {
				setClaims(c, claims)
			}
			return next(c)
		}
	}
}

func parseBearer(c echo.Context, jwtSecret string) (jwt.MapClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, errNoToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, errors.New("invalid authorization header")
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func setClaims(c echo.Context, claims jwt.MapClaims) {
	sub, _ := claims.GetSubject()
	c.Set(CtxUserID, sub)
	c.Set(CtxUsername, claims["username"])
	c.Set(CtxRole, claims["role"])
}
