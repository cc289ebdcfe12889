package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jupiter-hub/jupiter-go-api/internal/auth"
	"github.com/jupiter-hub/jupiter-go-api/internal/utils"
	"github.com/jupiter-hub/jupiter-go-api/pkg/token"
)

const identityLocal = "identity"

// AccessTokenCookie is the cookie checked when no Authorization header is
// present. Header and cookie are interchangeable.
const AccessTokenCookie = "access_token"

// Authenticate verifies the bearer access token and binds the resulting
// identity to the request. Requests without a usable token are rejected.
func Authenticate(tokens *token.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c)
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		identity, err := resolveIdentity(tokens, tokenString)
		if err != nil {
			if errors.Is(err, token.ErrExpiredToken) {
				return utils.SendError(c, fiber.StatusUnauthorized, "token has expired")
			}
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(identityLocal, identity)
		return c.Next()
	}
}

// OptionalAuthenticate binds an identity when a valid token is presented but
// lets anonymous requests through. Registration uses this: creating elevated
// accounts needs an ADMIN identity, plain sign-up does not.
func OptionalAuthenticate(tokens *token.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString := extractToken(c); tokenString != "" {
			if identity, err := resolveIdentity(tokens, tokenString); err == nil {
				c.Locals(identityLocal, identity)
			}
		}
		return c.Next()
	}
}

// IdentityFromContext returns the identity bound by Authenticate, or nil.
func IdentityFromContext(c *fiber.Ctx) *auth.Identity {
	if value := c.Locals(identityLocal); value != nil {
		if identity, ok := value.(*auth.Identity); ok {
			return identity
		}
	}
	return nil
}

func resolveIdentity(tokens *token.Service, tokenString string) (*auth.Identity, error) {
	claims, err := tokens.Verify(tokenString, token.KindAccess)
	if err != nil {
		return nil, err
	}

	identity, err := auth.FromClaims(claims)
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

func extractToken(c *fiber.Ctx) string {
	const bearer = "bearer "

	authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if authorization != "" {
		if strings.HasPrefix(strings.ToLower(authorization), bearer) {
			return strings.TrimSpace(authorization[len(bearer):])
		}
		return ""
	}

	return strings.TrimSpace(c.Cookies(AccessTokenCookie))
}
