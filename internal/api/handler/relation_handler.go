package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/photoshare/internal/api/middleware"
	"github.com/d60-Lab/photoshare/internal/service"
	"github.com/d60-Lab/photoshare/pkg/response"
)

// ToggleFollow 关注翻转
// @Summary 关注 / 取消关注用户
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param id path string true "目标用户ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /users/{id}/follow [post]
func (h *Handler) ToggleFollow(c *gin.Context) {
	claims := middleware.MustClaims(c)
	following, err := h.relSvc.ToggleFollow(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrFollowSelf) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	msg := "unfollowed"
	if following {
		msg = "followed"
	}
	response.Success(c, gin.H{"message": msg})
}
