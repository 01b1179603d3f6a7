package http

import (
	"net/http"
	"strings"

	"tindo/internal/pkg/auth"

	"github.com/labstack/echo/v4"
)

const claimsContextKey = "agentClaims"

// AgentAuth returns middleware that verifies the bearer token on
// agent-facing endpoints and stores the claims on the request context.
func AgentAuth(verifier auth.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return c.JSON(http.StatusUnauthorized, Error{
					Code:    http.StatusUnauthorized,
					Message: "missing bearer token",
				})
			}

			claims, err := verifier.Verify(token)
			if err != nil || claims.Role != auth.RoleAgent {
				return c.JSON(http.StatusUnauthorized, Error{
					Code:    http.StatusUnauthorized,
					Message: "invalid token",
				})
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// agentClaims extracts the verified claims stored by AgentAuth.
func agentClaims(c echo.Context) (auth.Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(auth.Claims)
	return claims, ok
}
