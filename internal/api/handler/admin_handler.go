package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/photoshare/internal/service"
	"github.com/d60-Lab/photoshare/pkg/response"
)

// AdminListUsers 全量用户列表
// @Summary 管理端用户列表
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {array} repository.UserWithCounts
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /admin/users [get]
func (h *Handler) AdminListUsers(c *gin.Context) {
	users, err := h.adminSvc.ListUsers(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, users)
}

// AdminDeleteUser 删除用户（管理员账号受保护）
// @Summary 管理端删除用户
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /admin/users/{id} [delete]
func (h *Handler) AdminDeleteUser(c *gin.Context) {
	err := h.adminSvc.DeleteUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrAdminProtected):
			response.Forbidden(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, gin.H{"message": "user deleted"})
}

// AdminListPosts 全量帖子列表
// @Summary 管理端帖子列表
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Post
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /admin/posts [get]
func (h *Handler) AdminListPosts(c *gin.Context) {
	posts, err := h.adminSvc.ListPosts(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, posts)
}

// AdminDeletePost 无条件删帖
// @Summary 管理端删除帖子
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /admin/posts/{id} [delete]
func (h *Handler) AdminDeletePost(c *gin.Context) {
	err := h.adminSvc.DeletePost(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"success": true})
}

// AdminSetup 初始化管理员账号（幂等保护：已有管理员则 400）
// @Summary 初始化管理员
// @Tags 管理
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /admin/setup [post]
func (h *Handler) AdminSetup(c *gin.Context) {
	admin, err := h.adminSvc.Bootstrap(c.Request.Context(), h.adminCfg.Email, h.adminCfg.Password)
	if err != nil {
		if errors.Is(err, service.ErrAdminExists) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "admin user created", "admin": admin})
}
