package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tutorbook/tutorbook/internal/auth"
	"github.com/tutorbook/tutorbook/internal/config"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/types"
)

const bearerPrefix = "Bearer "

// AuthenticateMiddleware validates the bearer token of the Authorization header
// and binds the tutor of its claims to the request context.
// Every downstream repository call is scoped to that tutor.
func AuthenticateMiddleware(cfg *config.Configuration, log *logger.Logger) gin.HandlerFunc {
	authProvider := auth.NewProvider(cfg)

	return func(c *gin.Context) {
		authHeader := c.GetHeader(types.HeaderAuthorization)
		if authHeader == "" {
			abortUnauthorized(c, "Unauthorized")
			return
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
		claims, err := authProvider.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			log.Debugw("failed to validate token", "error", err)
			abortUnauthorized(c, "Invalid token")
			return
		}

		if claims == nil || claims.TutorID == "" {
			abortUnauthorized(c, "Invalid token claims")
			return
		}

		ctx := context.WithValue(c.Request.Context(), types.CtxTutorID, claims.TutorID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, hint string) {
	_ = c.Error(ierr.NewError("request is not authenticated").
		WithHint(hint).
		Mark(ierr.ErrUnauthorized))
	c.Abort()
}
