package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"taskboard/internal/core/auth"
	resp "taskboard/internal/transport/http/response"
)

const (
	KeyClaims = "claims"
	KeyUserID = "userId"
)

// TokenVerifier 由 auth.JWTer 实现
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthJWT 缺少令牌或令牌过期 -> 401；伪造或格式错误 -> 403
func AuthJWT(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearerToken(c.GetHeader("Authorization"))
		if tok == "" {
			resp.Abort(c, resp.KindUnauthenticated, "Access token required")
			return
		}
		claims, err := v.Verify(tok)
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			resp.Abort(c, resp.KindTokenExpired, "Token expired")
			return
		case err != nil:
			resp.Abort(c, resp.KindForbidden, "Invalid token")
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, claims.UserID)
		c.Next()
	}
}

func bearerToken(h string) string {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(tok)
}

// ClaimsFrom 只能在 AuthJWT 之后调用
func ClaimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
