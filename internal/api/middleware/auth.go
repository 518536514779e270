package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/photoshare/pkg/response"
	"github.com/d60-Lab/photoshare/pkg/token"
)

// ClaimsKey 请求上下文里已验证 claims 的键
const ClaimsKey = "claims"

// Auth 提取 Bearer 令牌并校验；通过后把 claims 放入请求上下文。
// 无状态，逐请求执行。
func Auth(codec *token.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "authentication required")
			return
		}
		claims, err := codec.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "invalid token")
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// Admin 在 Auth 之后使用，要求 isAdmin claim
func Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := MustClaims(c)
		if claims == nil || !claims.IsAdmin {
			response.Forbidden(c, "admin privileges required")
			return
		}
		c.Next()
	}
}

// MustClaims 取出 Auth 放入的 claims；未经过 Auth 时返回 nil
func MustClaims(c *gin.Context) *token.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*token.Claims)
	return claims
}
