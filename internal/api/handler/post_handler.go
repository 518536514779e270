package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/photoshare/internal/api/middleware"
	"github.com/d60-Lab/photoshare/internal/service"
	"github.com/d60-Lab/photoshare/pkg/response"
)

// CreatePost 发帖
// @Summary 发布照片帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreatePostInput true "帖子内容"
// @Success 200 {object} model.Post
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	claims := middleware.MustClaims(c)
	var req service.CreatePostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "imageUrl is required")
		return
	}
	post, err := h.postSvc.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, post)
}

// ListPosts 列出全部帖子，最新在前
// @Summary 帖子流
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Post
// @Failure 401 {object} response.ErrorBody
// @Router /posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.postSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, posts)
}

// ToggleLike 点赞翻转
// @Summary 点赞 / 取消点赞
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /posts/{id}/like [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	claims := middleware.MustClaims(c)
	res, err := h.postSvc.ToggleLike(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	msg := "unliked"
	if res.Liked {
		msg = "liked"
	}
	response.Success(c, gin.H{"message": msg, "likes": res.Likes})
}

// DeletePost 删帖（帖主或管理员）
// @Summary 删除帖子
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	claims := middleware.MustClaims(c)
	err := h.postSvc.Delete(c.Request.Context(), claims.UserID, claims.IsAdmin, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrNotPostOwner):
			response.Forbidden(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, gin.H{"success": true})
}
