package server

import (
	"tactac/internal/models"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content string `json:"content"`
}

// GetComments handles GET /api/posts/:id/comments
// @Summary List comments
// @Tags comments
// @Produce json
// @Param id path int true "Post ID"
// @Param page query int false "Page (1-indexed)"
// @Param limit query int false "Page size"
// @Success 200 {object} models.SuccessResponse{data=service.CommentPage}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	page, limit := pageParams(c)

	comments, err := s.commentService.ListComments(c.UserContext(), callerFrom(c), postID, page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "", comments)
}

// CreateComment handles POST /api/comments/:postId
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Param request body commentRequest true "Comment"
// @Success 201 {object} models.SuccessResponse{data=object{comment=models.CommentView}}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{postId} [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	var req commentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), callerFrom(c), postID, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusCreated, "Comment added", fiber.Map{"comment": comment})
}

// UpdateComment handles PATCH /api/comments/:id
// @Summary Edit a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param request body commentRequest true "Comment"
// @Success 200 {object} models.SuccessResponse{data=object{comment=models.CommentView}}
// @Failure 403 {object} models.ErrorResponse
// @Router /comments/{id} [patch]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req commentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), callerFrom(c), commentID, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Comment updated", fiber.Map{"comment": comment})
}

// DeleteComment handles DELETE /api/comments/:id
// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.UserContext(), callerFrom(c), commentID); err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Comment deleted", nil)
}
