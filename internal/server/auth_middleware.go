package server

import (
	"tactac/internal/middleware"
	"tactac/internal/models"
	"tactac/internal/service"

	"github.com/gofiber/fiber/v2"
)

// setCaller stores the authenticated user on the request for handlers, spans and logs.
func setCaller(c *fiber.Ctx, user *models.User) {
	c.Locals(localsUserID, user.ID)
	c.Locals(localsCaller, service.CallerFor(user))
	c.SetUserContext(middleware.WithUserID(c.UserContext(), user.ID))
}

// AuthRequired rejects requests without a valid bearer token of an active account.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := middleware.BearerToken(c)
		if !ok {
			return respondError(c, models.NewUnauthorizedError("Authorization required"))
		}

		user, err := s.authService.Authenticate(c.UserContext(), token)
		if err != nil {
			return respondError(c, err)
		}

		setCaller(c, user)
		return c.Next()
	}
}

// OptionalAuth identifies the caller when a usable token is present. Missing,
// invalid and blocked credentials all proceed anonymously.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := middleware.BearerToken(c)
		if !ok {
			return c.Next()
		}
		if user, err := s.authService.Authenticate(c.UserContext(), token); err == nil {
			setCaller(c, user)
		}
		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that the caller is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := callerFrom(c)
		if caller == nil {
			return respondError(c, models.NewUnauthorizedError("Authorization required"))
		}
		if !caller.IsAdmin() {
			return respondError(c, models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}
