package middleware

import (
	"strings"

	"gatekeeper/internal/delivery/http/response"
	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ContextKeyIdentity is the echo.Context key holding the resolved identity.
const ContextKeyIdentity = "identity"

// AuthMiddleware guards routes behind bearer-token authentication.
type AuthMiddleware struct {
	identityUC usecase.IdentityUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(identityUC usecase.IdentityUsecase) *AuthMiddleware {
	return &AuthMiddleware{identityUC: identityUC}
}

// Authenticate validates the bearer token and resolves it to a live account.
// Resolution re-reads the store, so a token for a deleted account is refused
// even while its signature and expiry are still valid.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "UNAUTHORIZED", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "UNAUTHORIZED", "Invalid token format, must be Bearer token")
		}

		identity, err := m.identityUC.Resolve(c.Request().Context(), tokenString)
		if err != nil {
			return response.Unauthorized(c, "UNAUTHORIZED", "Invalid or expired token")
		}

		c.Set(ContextKeyIdentity, identity)

		return next(c)
	}
}

// IdentityFromContext returns the identity stored by Authenticate, or nil when
// the route was not guarded.
func IdentityFromContext(c echo.Context) *entity.Identity {
	identity, _ := c.Get(ContextKeyIdentity).(*entity.Identity)

	return identity
}
