package middleware

import (
	"context"
	"strings"

	"inventory-backend/internal/application/auth"
	"inventory-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const userLocal = "user"

// TokenVerifier validates bearer credentials.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// BlockChecker reports whether an authenticated user has been blocked since the token was issued.
type BlockChecker interface {
	IsBlocked(ctx context.Context, id uint) (bool, error)
}

// RequireAuth reads "Authorization: Bearer <token>" and stores the claims in Locals.
// Missing token -> 401 "Unauthorized"; bad or expired token -> 401 "Invalid token";
// blocked user -> 403. users may be nil.
func RequireAuth(tokens TokenVerifier, users BlockChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return response.Unauthorized(c, "Unauthorized")
		}
		claims, err := tokens.Verify(token)
		if err != nil {
			return response.Unauthorized(c, "Invalid token")
		}
		if users != nil {
			blocked, err := users.IsBlocked(c.UserContext(), claims.UserID)
			if err != nil {
				log.Error().Err(err).Uint("user_id", claims.UserID).Msg("auth: status lookup failed")
				return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
			}
			if blocked {
				return response.Error(c, "Your account has been blocked. Please contact administrator.", fiber.StatusForbidden, nil)
			}
		}
		c.Locals(userLocal, claims)
		return c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// GetUser returns the authenticated claims from Locals (nil if not authenticated).
func GetUser(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(userLocal).(*auth.Claims)
	return claims
}
