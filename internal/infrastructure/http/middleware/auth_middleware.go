package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/mom-generator/pkg/jwt"
	"github.com/johnquangdev/mom-generator/pkg/opcontext"
)

// TokenValidator validates access tokens
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// EchoAuth returns an Echo middleware that validates the JWT, sets
// "user_id" and "claims" into the Echo context and attaches the
// performer to the request context.
func EchoAuth(validator TokenValidator, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization token")
			}

			claims, err := validator.ValidateAccessToken(token)
			if err != nil {
				logger.Debug("🔒 Rejected access token",
					zap.String("path", c.Path()),
					zap.Error(err),
				)
				if errors.Is(err, jwt.ErrTokenExpired) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Token has expired")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set("claims", claims)
			c.Set("user_id", claims.UserID)

			req := c.Request()
			ctx := opcontext.WithPerformer(req.Context(), opcontext.Performer{
				ID:   claims.UserID,
				Name: claims.Name,
				Role: claims.Role,
			})
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}

// extractToken reads the bearer token, falling back to the access_token cookie
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}

	return ""
}
