package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/blogicum/blogicum/models"
	"github.com/blogicum/blogicum/utils"
)

// ContextActorKey is the gin context key holding the authenticated actor.
const ContextActorKey = "actor"

// LoginPath is where unauthenticated mutation attempts are sent.
const LoginPath = "/auth/login"

// Authenticate resolves the request's actor from a bearer token or the
// auth cookie set at login. It never rejects: anonymous requests simply
// carry no actor. Guards below decide what anonymity means per route.
func Authenticate() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := TokenFromRequest(ctx)
		if token == "" || utils.IsTokenBlacklisted(token) {
			ctx.Next()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			ctx.Next()
			return
		}

		ctx.Set(ContextActorKey, &models.Actor{ID: claims.UserID, Username: claims.Username})
		ctx.Next()
	}
}

// AuthRequired rejects anonymous requests with a 401; used on JSON
// endpoints that return data about the current account.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if CurrentActor(ctx) == nil {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// LoginRequired sends anonymous requests to the login entry point; used on
// every mutating flow, where denial is navigational rather than an error.
func LoginRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if CurrentActor(ctx) == nil {
			ctx.Redirect(http.StatusSeeOther, LoginPath)
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// CurrentActor returns the request's actor, or nil for anonymous viewers.
func CurrentActor(ctx *gin.Context) *models.Actor {
	value, exists := ctx.Get(ContextActorKey)
	if !exists {
		return nil
	}
	actor, ok := value.(*models.Actor)
	if !ok {
		return nil
	}
	return actor
}

// TokenFromRequest extracts the auth token from the Authorization header
// or, failing that, the auth cookie set at login.
func TokenFromRequest(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	if c, err := ctx.Cookie("auth_token"); err == nil {
		return c
	}
	return ""
}
