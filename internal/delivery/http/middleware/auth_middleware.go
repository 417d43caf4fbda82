package middleware

import (
	"context"
	"net/http"
	"strings"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/auth"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// bearerToken reads the Authorization header, falling back to the
// auth_token cookie.
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie("auth_token"); err == nil {
		return cookie
	}
	return ""
}

// setViewer exposes the authenticated user both to gin handlers and to
// anything reading the request context.
func setViewer(c *gin.Context, claims *auth.Claims, role string) {
	c.Set(string(domain.KeyUserID), claims.Subject)
	c.Set(string(domain.KeyUserEmail), claims.Email)
	c.Set(string(domain.KeyUserRole), role)

	ctx := context.WithValue(c.Request.Context(), domain.KeyUserID, claims.Subject)
	ctx = context.WithValue(ctx, domain.KeyUserEmail, claims.Email)
	c.Request = c.Request.WithContext(ctx)
}

// AuthMiddleware requires a valid owner token. Users seen for the first
// time are provisioned with an empty profile.
func AuthMiddleware(verifier *auth.Verifier, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required",
				response.ErrorBody{Kind: string(apperror.KindUnauthorized)})
			c.Abort()
			return
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			security.DefaultLogger().LogUnauthorized(c.Request.Context(), c.ClientIP(),
				c.GetHeader("User-Agent"), c.GetString(response.RequestIDKey), err.Error())
			response.Error(c, http.StatusUnauthorized, "Invalid token", response.ErrorBody{Kind: string(apperror.KindUnauthorized)})
			c.Abort()
			return
		}

		user := &domain.User{ID: claims.Subject, Email: claims.Email, Role: domain.DefaultUserRole}
		if err := authUC.EnsureUserExists(c.Request.Context(), user); err != nil {
			logger.Log.Error("Failed to provision user", "user_id", claims.Subject, "error", err)
			response.Error(c, http.StatusInternalServerError, "Failed to load account", response.ErrorBody{Kind: string(apperror.KindInternal)})
			c.Abort()
			return
		}

		setViewer(c, claims, user.Role)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and
// treats everyone else as anonymous.
func OptionalAuth(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if claims, err := verifier.Verify(tokenString); err == nil {
				setViewer(c, claims, domain.DefaultUserRole)
			}
		}
		c.Next()
	}
}
