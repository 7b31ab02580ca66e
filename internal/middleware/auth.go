package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aliasgate/backend/internal/auth"
)

// authHeader 管理接口携带共享密钥的请求头
const authHeader = "Authentication"

// SecretAuth 共享密钥鉴权中间件。
type SecretAuth struct {
	verifier *auth.Verifier
}

// NewSecretAuth 创建鉴权中间件。
func NewSecretAuth(verifier *auth.Verifier) *SecretAuth {
	return &SecretAuth{verifier: verifier}
}

// RequireSecret 校验请求头中的共享密钥，失败时返回 401 纯文本。
func (a *SecretAuth) RequireSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.verifier.Verify(c.GetHeader(authHeader)) {
			c.String(http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}
