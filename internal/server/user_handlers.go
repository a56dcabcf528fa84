package server

import (
	"tactac/internal/models"
	"tactac/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/:username
// @Summary User profile
// @Description The owner and admins see the full profile, everyone else the public one
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.SuccessResponse{data=service.ProfileResult}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	profile, err := s.userService.GetProfile(c.UserContext(), callerFrom(c), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "", profile)
}

// GetUserPosts handles GET /api/users/:username/posts
// @Summary Posts by a user
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Param page query int false "Page (1-indexed)"
// @Param limit query int false "Page size"
// @Success 200 {object} models.SuccessResponse{data=service.PostPage}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username}/posts [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	posts, err := s.postService.ListUserPosts(c.UserContext(), callerFrom(c), c.Params("username"), page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "", posts)
}

// UpdateMyProfile handles PATCH /api/users/profile
// @Summary Update own profile
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param username formData string false "New username"
// @Param bio formData string false "Bio"
// @Param profileImage formData file false "Profile image"
// @Success 200 {object} models.SuccessResponse{data=object{user=models.OwnProfile}}
// @Failure 409 {object} models.ErrorResponse
// @Router /users/profile [patch]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var in service.UpdateProfileInput
	if form, err := c.MultipartForm(); err == nil {
		if v, ok := form.Value["username"]; ok && len(v) > 0 {
			in.Username = &v[0]
		}
		if v, ok := form.Value["bio"]; ok && len(v) > 0 {
			in.Bio = &v[0]
		}
	} else {
		// JSON bodies carry the text fields only.
		var req struct {
			Username *string `json:"username"`
			Bio      *string `json:"bio"`
		}
		if err := parseBody(c, &req); err != nil {
			return nil
		}
		in.Username, in.Bio = req.Username, req.Bio
	}

	image, err := formImage(c, "profileImage")
	if err != nil {
		return respondError(c, err)
	}
	in.Image = image

	own, err := s.userService.UpdateProfile(c.UserContext(), callerFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Profile updated successfully", fiber.Map{"user": own})
}

// UpdateMyEmail handles PATCH /api/users/email
// @Summary Change email
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{email=string,currentPassword=string} true "New email"
// @Success 200 {object} models.SuccessResponse{data=object{user=models.OwnProfile}}
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/email [patch]
func (s *Server) UpdateMyEmail(c *fiber.Ctx) error {
	var req struct {
		Email           string `json:"email"`
		CurrentPassword string `json:"currentPassword"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	own, err := s.userService.UpdateEmail(c.UserContext(), callerFrom(c), req.Email, req.CurrentPassword)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Email updated successfully", fiber.Map{"user": own})
}

// UpdateMyPassword handles PATCH /api/users/password
// @Summary Change password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{currentPassword=string,newPassword=string} true "Passwords"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /users/password [patch]
func (s *Server) UpdateMyPassword(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	if err := s.userService.UpdatePassword(c.UserContext(), callerFrom(c), req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Password updated successfully", nil)
}

// DeleteMyAccount handles DELETE /api/users/account
// @Summary Delete own account
// @Description Removes the account with its posts, comments and likes
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{password=string} true "Password confirmation"
// @Success 200 {object} models.SuccessResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /users/account [delete]
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	if err := s.userService.DeleteAccount(c.UserContext(), callerFrom(c), req.Password); err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Account deleted successfully", nil)
}
