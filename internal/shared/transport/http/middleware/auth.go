package middleware

import (
	"net/http"
	"strings"

	"Skirmish/internal/shared/security"
	"Skirmish/internal/shared/transport"

	"github.com/gin-gonic/gin"
)

const claimsKey = "skirmish.claims"

type TokenParser interface {
	Parse(token string) (*security.Claims, error)
}

// BearerAuth 校验 Authorization: Bearer <token>，通过后把 claims 放进 gin.Context。
func BearerAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || token == "" {
			reject(c, "missing bearer token")
			return
		}
		claims, err := parser.Parse(token)
		if err != nil {
			reject(c, err.Error())
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom 返回 BearerAuth 写入的 claims。
func ClaimsFrom(c *gin.Context) (*security.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*security.Claims)
	return claims, ok
}

func reject(c *gin.Context, reason string) {
	ctx := c.Request.Context()
	transport.SetBizCode(ctx, transport.Unauthorized)
	transport.SetErrorReason(ctx, reason)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": int(transport.Unauthorized), "msg": "unauthorized"})
}
