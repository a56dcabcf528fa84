package server

import (
	"tactac/internal/models"
	"tactac/internal/service"

	"github.com/gofiber/fiber/v2"
)

// authPayload is the data of a successful register or login.
type authPayload struct {
	User  models.OwnProfile `json:"user"`
	Token string            `json:"token"`
}

// Register handles POST /api/auth/register
// @Summary Register
// @Description Create an account and receive a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration"
// @Success 201 {object} models.SuccessResponse{data=authPayload}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	res, err := s.authService.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusCreated, "Registration successful",
		authPayload{User: res.User.Own(), Token: res.Token})
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Authenticate with an email address or username
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Credentials"
// @Success 200 {object} models.SuccessResponse{data=authPayload}
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	res, err := s.authService.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Login successful",
		authPayload{User: res.User.Own(), Token: res.Token})
}

// GetMe handles GET /api/auth/me
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.SuccessResponse{data=object{user=models.OwnProfile}}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/me [get]
func (s *Server) GetMe(c *fiber.Ctx) error {
	own, err := s.userService.Me(c.UserContext(), callerFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "", fiber.Map{"user": own})
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so the client
// discards its copy.
// @Summary Log out
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.SuccessResponse
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	return models.RespondSuccess(c, fiber.StatusOK, "Logged out successfully", nil)
}
