package server

import (
	"tactac/internal/models"
	"tactac/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAdminMetrics handles GET /api/admin/metrics
// @Summary Dashboard metrics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.SuccessResponse{data=service.AdminMetrics}
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/metrics [get]
func (s *Server) GetAdminMetrics(c *fiber.Ctx) error {
	metrics, err := s.moderationService.Metrics(c.UserContext(), callerFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "", metrics)
}

// GetAdminUsers handles GET /api/admin/users
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Username or email substring"
// @Param status query string false "active, suspended or deactivated"
// @Param page query int false "Page (1-indexed)"
// @Param limit query int false "Page size"
// @Success 200 {object} models.SuccessResponse{data=service.UserPage}
// @Router /admin/users [get]
func (s *Server) GetAdminUsers(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	users, err := s.moderationService.ListUsers(c.UserContext(), callerFrom(c), service.UserQuery{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "", users)
}

// GetAdminUser handles GET /api/admin/users/:userId
// @Summary User detail with activity stats
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} models.SuccessResponse{data=service.AdminUserDetail}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{userId} [get]
func (s *Server) GetAdminUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}

	detail, err := s.moderationService.GetUser(c.UserContext(), callerFrom(c), userID)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "", detail)
}

// UpdateAdminUser handles PATCH /api/admin/users/:userId
// @Summary Change status or role
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param request body service.UpdateUserInput true "Fields to change"
// @Success 200 {object} models.SuccessResponse{data=object{user=models.OwnProfile}}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/users/{userId} [patch]
func (s *Server) UpdateAdminUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	var req service.UpdateUserInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.moderationService.UpdateUser(c.UserContext(), callerFrom(c), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "User updated successfully", fiber.Map{"user": user})
}

// DeleteAdminUser handles DELETE /api/admin/users/:userId
// @Summary Delete a user and their content
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/users/{userId} [delete]
func (s *Server) DeleteAdminUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.moderationService.DeleteUser(c.UserContext(), callerFrom(c), userID); err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "User deleted successfully", nil)
}

// DeleteAdminPost handles DELETE /api/admin/posts/:postId
// @Summary Remove a post
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/posts/{postId} [delete]
func (s *Server) DeleteAdminPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.moderationService.DeletePost(c.UserContext(), callerFrom(c), postID); err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Post deleted successfully", nil)
}

// DeleteAdminComment handles DELETE /api/admin/comments/:commentId
// @Summary Remove a comment
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/comments/{commentId} [delete]
func (s *Server) DeleteAdminComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.moderationService.DeleteComment(c.UserContext(), callerFrom(c), commentID); err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Comment deleted successfully", nil)
}
