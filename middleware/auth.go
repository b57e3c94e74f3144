package middleware

import (
	"Ninety/pkg/context"
	"Ninety/pkg/jwt"
	"Ninety/pkg/log"
	"Ninety/pkg/response"
	gocontext "context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth 校验 Bearer token 的签名与角色，主体写入上下文
// 机器 token 的主体是机器编号，管理员 token 的主体是 LINE user id
func Auth(secret []byte, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "缺少 Authorization")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, http.StatusUnauthorized, "Authorization 格式错误")
			return
		}

		claims, err := jwt.ParseToken(secret, role, parts[1])
		if err != nil {
			log.L.Debug("token rejected", zap.String("role", role), zap.Error(err))
			response.Abort(c, http.StatusUnauthorized, "token 无效")
			return
		}

		c.Set(context.CtxSubject, claims.Subject)
		c.Set(context.CtxRole, claims.Role)
		c.Next()
	}
}

// RoleMember LIFF 会员，主体是 LINE user id
const RoleMember = "member"

type IDTokenVerifier interface {
	VerifyIDToken(ctx gocontext.Context, idToken string) (string, error)
}

// MemberAuth 校验 LIFF ID token，把其中的 LINE user id 作为主体
func MemberAuth(verifier IDTokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		idToken, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "缺少 LIFF ID token")
			return
		}

		sub, err := verifier.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			log.L.Debug("id token rejected", zap.Error(err))
			response.Abort(c, http.StatusUnauthorized, "ID token 无效")
			return
		}

		c.Set(context.CtxSubject, sub)
		c.Set(context.CtxRole, RoleMember)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, tok, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || tok == "" {
		return "", false
	}
	return tok, true
}
