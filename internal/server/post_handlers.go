package server

import (
	"tactac/internal/models"
	"tactac/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// @Summary Post feed
// @Description Recent or trending posts, newest first or most liked first
// @Tags posts
// @Produce json
// @Param page query int false "Page (1-indexed)"
// @Param limit query int false "Page size"
// @Param filter query string false "recent or trending"
// @Success 200 {object} models.SuccessResponse{data=service.PostPage}
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	mode, err := service.ParseFeedMode(c.Query("filter"))
	if err != nil {
		return respondError(c, err)
	}
	page, limit := pageParams(c)

	feed, err := s.postService.GetFeed(c.UserContext(), callerFrom(c), service.FeedQuery{
		Mode:  mode,
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "", feed)
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image (JPEG, PNG, GIF or WebP, up to 5MB)"
// @Param caption formData string false "Caption"
// @Success 201 {object} models.SuccessResponse{data=object{post=models.PostView}}
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	image, err := formImage(c, "image")
	if err != nil {
		return respondError(c, err)
	}
	if image == nil {
		return respondError(c, models.NewValidationError("Image is required"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), callerFrom(c), service.CreatePostInput{
		Caption: c.FormValue("caption"),
		Image:   *image,
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusCreated, "Post created successfully", fiber.Map{"post": post})
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.SuccessResponse{data=object{post=models.PostView}}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), callerFrom(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "", fiber.Map{"post": post})
}

// UpdatePost handles PATCH /api/posts/:id
// @Summary Edit a caption
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{caption=string} true "New caption"
// @Success 200 {object} models.SuccessResponse{data=object{post=models.PostView}}
// @Failure 403 {object} models.ErrorResponse
// @Router /posts/{id} [patch]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Caption string `json:"caption"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.UpdateCaption(c.UserContext(), callerFrom(c), postID, req.Caption)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Post updated successfully", fiber.Map{"post": post})
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Description Owners delete their posts; admins may delete any post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), callerFrom(c), postID); err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Post deleted successfully", nil)
}

// LikePost handles POST /api/posts/:id/like
// @Summary Like a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.SuccessResponse{data=service.LikeState}
// @Failure 409 {object} models.ErrorResponse
// @Router /posts/{id}/like [post]
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	state, err := s.postService.Like(c.UserContext(), callerFrom(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Post liked", state)
}

// UnlikePost handles DELETE /api/posts/:id/like
// @Summary Remove a like
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.SuccessResponse{data=service.LikeState}
// @Failure 400 {object} models.ErrorResponse
// @Router /posts/{id}/like [delete]
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	state, err := s.postService.Unlike(c.UserContext(), callerFrom(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Like removed", state)
}
