package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/photoshare/internal/api/middleware"
	"github.com/d60-Lab/photoshare/internal/service"
	"github.com/d60-Lab/photoshare/pkg/response"
)

// Profile 按用户名取档案（帖子倒序，含点赞）
// @Summary 用户档案
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param username path string true "用户名"
// @Success 200 {object} model.User
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /profile/{username} [get]
func (h *Handler) Profile(c *gin.Context) {
	u, err := h.userSvc.Profile(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "profile not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, u)
}

// ListUsers 目录页：除调用者外全部用户
// @Summary 用户目录
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {array} repository.UserWithCounts
// @Failure 401 {object} response.ErrorBody
// @Router /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	claims := middleware.MustClaims(c)
	users, err := h.userSvc.Directory(c.Request.Context(), claims.Email)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, users)
}

// GetUser 公开用户卡片（含关注计数）
// @Summary 用户卡片
// @Tags 用户
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} service.PublicUser
// @Failure 404 {object} response.ErrorBody
// @Router /users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.userSvc.PublicByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, u)
}

// Search 用户搜索
// @Summary 搜索用户
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param q query string true "搜索词"
// @Success 200 {array} repository.UserWithCounts
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /search [get]
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.BadRequest(c, "search query is required")
		return
	}
	claims := middleware.MustClaims(c)
	users, err := h.userSvc.Search(c.Request.Context(), query, claims.Email)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, users)
}
