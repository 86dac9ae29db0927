package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dealspot/dealspot/internal/core/ports"
)

type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// Thread handles GET /v1/deals/:id/comments.
//
// @Summary      Threaded comments of a deal
// @Description  Roots newest first, replies oldest first. Deleted comments keep their place with a masked body.
// @Tags         comments
// @Produce      json
// @Param        id   path      string  true  "Deal id"
// @Success      200  {array}   commentResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/deals/{id}/comments [get]
func (h *CommentHandler) Thread(c echo.Context) error {
	nodes, err := h.service.Thread(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentTree(nodes))
}

// Create handles POST /v1/deals/:id/comments.
//
// @Summary      Comment on a deal
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Deal id"
// @Param        body  body      commentRequest  true  "Comment"
// @Success      201   {object}  commentResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/deals/{id}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.service.Create(c.Request().Context(), actor, c.Param("id"), ports.CommentInput{
		Body:     req.Body,
		ParentID: req.ParentID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// Like handles POST /v1/comments/:id/like.
//
// @Summary      Like a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Comment id"
// @Success      200  {object}  commentResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/comments/{id}/like [post]
func (h *CommentHandler) Like(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	comment, err := h.service.Like(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}

// Delete handles DELETE /v1/comments/:id. Only the author or an admin may
// delete.
//
// @Summary      Delete a comment
// @Tags         comments
// @Security     BearerAuth
// @Param        id   path  string  true  "Comment id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
