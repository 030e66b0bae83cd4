package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/symposium-hq/sympro/internal/dto"
	"github.com/symposium-hq/sympro/internal/model"
	"github.com/symposium-hq/sympro/internal/service"
)

const callerKey = "caller"

// Authenticate validates the bearer token and stores the resolved caller on
// the request context.
func Authenticate(auth service.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "missing bearer token"})
			return
		}
		caller, err := auth.ParseToken(token)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid or expired token"})
			return
		}
		ctx.Set(callerKey, *caller)
		ctx.Next()
	}
}

// RequireRoles rejects callers outside the allowed roles. Must run after
// Authenticate.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	allowed := make(map[model.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(ctx *gin.Context) {
		caller, ok := CallerFrom(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "missing bearer token"})
			return
		}
		if _, ok := allowed[caller.Role]; !ok {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "insufficient permissions"})
			return
		}
		ctx.Next()
	}
}

// CallerFrom returns the authenticated caller stored by Authenticate.
func CallerFrom(ctx *gin.Context) (model.Caller, bool) {
	val, ok := ctx.Get(callerKey)
	if !ok {
		return model.Caller{}, false
	}
	caller, ok := val.(model.Caller)
	return caller, ok
}
