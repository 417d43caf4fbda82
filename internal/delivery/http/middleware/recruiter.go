package middleware

import (
	"context"
	"strings"

	"portfolio-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

const RecruiterTokenHeader = "X-Recruiter-Token"

// RecruiterSecret picks up a recruiter token from the access query
// parameter or the X-Recruiter-Token header. The value is not checked here.
func RecruiterSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := strings.TrimSpace(c.Query("access"))
		if secret == "" {
			secret = strings.TrimSpace(c.GetHeader(RecruiterTokenHeader))
		}
		if secret != "" {
			c.Set(string(domain.KeyRecruiterSecret), secret)
			ctx := context.WithValue(c.Request.Context(), domain.KeyRecruiterSecret, secret)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
