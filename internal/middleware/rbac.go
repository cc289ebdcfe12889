package middleware

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jupiter-hub/jupiter-go-api/internal/auth"
	"github.com/jupiter-hub/jupiter-go-api/internal/models"
	"github.com/jupiter-hub/jupiter-go-api/internal/utils"
)

// RequireRoles ensures the bound identity carries one of the allowed roles.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := auth.Authorize(IdentityFromContext(c), roles...); err != nil {
			return sendAuthError(c, err)
		}
		return c.Next()
	}
}

// Capability presets mirrored from the route table.
func AdminOnly() fiber.Handler {
	return RequireRoles(models.RoleAdmin)
}

func HROnly() fiber.Handler {
	return RequireRoles(models.RoleHR)
}

func AdminOrHR() fiber.Handler {
	return RequireRoles(models.RoleAdmin, models.RoleHR)
}

func StudentOnly() fiber.Handler {
	return RequireRoles(models.RoleStudent)
}

func AnyAuthenticated() fiber.Handler {
	return RequireRoles(models.RoleAdmin, models.RoleHR, models.RoleStudent)
}

// StudentSelfOrElevated scopes a single-record endpoint: elevated roles pass,
// STUDENT identities only when the route parameter names their own linked
// student.
func StudentSelfOrElevated(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := IdentityFromContext(c)
		if identity == nil {
			return sendAuthError(c, auth.ErrUnauthenticated)
		}

		studentID, err := strconv.ParseUint(c.Params(param), 10, 64)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
		}

		if err := auth.SelfStudentOrElevated(identity, uint(studentID)); err != nil {
			return sendAuthError(c, err)
		}
		return c.Next()
	}
}

// BlockStudentListing keeps STUDENT identities off enumeration endpoints.
func BlockStudentListing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := auth.BlockStudentListing(IdentityFromContext(c)); err != nil {
			return sendAuthError(c, err)
		}
		return c.Next()
	}
}

func sendAuthError(c *fiber.Ctx, err error) error {
	if errors.Is(err, auth.ErrUnauthenticated) {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}
	return utils.SendError(c, fiber.StatusForbidden, "access forbidden")
}
