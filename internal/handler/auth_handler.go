package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jupiter-hub/jupiter-go-api/internal/auth"
	"github.com/jupiter-hub/jupiter-go-api/internal/dto"
	"github.com/jupiter-hub/jupiter-go-api/internal/middleware"
	"github.com/jupiter-hub/jupiter-go-api/internal/service"
	"github.com/jupiter-hub/jupiter-go-api/internal/utils"
	"github.com/jupiter-hub/jupiter-go-api/pkg/token"
)

// AuthHandler wires the session lifecycle HTTP routes.
type AuthHandler struct {
	service      service.AuthService
	accessExpiry time.Duration
	logger       zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, accessExpiry time.Duration, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:      service,
		accessExpiry: accessExpiry,
		logger:       logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the auth endpoints to the router group. The limiter
// guards the credential-bearing routes; authenticate protects session ones.
func (h *AuthHandler) Register(router fiber.Router, authenticate, optionalAuth, limiter fiber.Handler) {
	router.Post("/register", optionalAuth, h.register)
	router.Post("/login", limiter, h.login)
	router.Post("/refresh", limiter, h.refresh)
	router.Post("/logout", authenticate, h.logout)
	router.Post("/change-password", authenticate, h.changePassword)
	router.Get("/me", authenticate, h.me)
	router.Patch("/me", authenticate, h.updateMe)
	router.Get("/profile", authenticate, h.me)
	router.Put("/profile", authenticate, h.updateMe)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.service.Register(c.Context(), payload, identityFromContext(c))
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithDetail(c, fiber.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, service.ErrStudentIDRequired):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrUnauthenticated):
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		case errors.Is(err, auth.ErrForbidden):
			return utils.SendError(c, fiber.StatusForbidden, "only admins can create this account type")
		case errors.Is(err, service.ErrEmailRegistered):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrStudentAlreadyLinked):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		}
		return h.internalError(c, err)
	}

	h.setAccessCookie(c, session.AccessToken)
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account registered", session)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.service.Login(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithDetail(c, fiber.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, service.ErrInvalidCredentials):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, service.ErrAccountDeactivated):
			return utils.SendError(c, fiber.StatusForbidden, "account is deactivated")
		}
		return h.internalError(c, err)
	}

	h.setAccessCookie(c, session.AccessToken)
	return utils.SendSuccess(c, "login successful", session)
}

func (h *AuthHandler) refresh(c *fiber.Ctx) error {
	var payload dto.RefreshRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if payload.RefreshToken == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "refresh token is required")
	}

	pair, err := h.service.Refresh(c.Context(), payload.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrExpiredToken):
			return utils.SendError(c, fiber.StatusUnauthorized, "refresh token has expired")
		case errors.Is(err, service.ErrInvalidRefreshToken):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid refresh token")
		}
		return h.internalError(c, err)
	}

	h.setAccessCookie(c, pair.AccessToken)
	return utils.SendSuccess(c, "token refreshed", pair)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	identity := identityFromContext(c)
	if identity == nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	if err := h.service.Logout(c.Context(), identity.UserID); err != nil {
		return h.internalError(c, err)
	}

	h.clearAccessCookie(c)
	return utils.SendSuccess(c, "logged out", nil)
}

func (h *AuthHandler) changePassword(c *fiber.Ctx) error {
	identity := identityFromContext(c)
	if identity == nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.ChangePasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ChangePassword(c.Context(), identity.UserID, payload); err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithDetail(c, fiber.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrIncorrectPassword):
			return utils.SendError(c, fiber.StatusBadRequest, "current password is incorrect")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "password changed", nil)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	identity := identityFromContext(c)
	if identity == nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	profile, err := h.service.Profile(c.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "profile retrieved", profile)
}

func (h *AuthHandler) updateMe(c *fiber.Ctx) error {
	identity := identityFromContext(c)
	if identity == nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.UpdateProfileRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	profile, err := h.service.UpdateProfile(c.Context(), identity.UserID, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithDetail(c, fiber.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "profile updated", profile)
}

func (h *AuthHandler) setAccessCookie(c *fiber.Ctx, accessToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    accessToken,
		Expires:  time.Now().Add(h.accessExpiry),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearAccessCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Str("path", c.Path()).Msg("auth request failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
