package middleware

import (
	"errors"
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			// Never expose internal error details to clients.
			logger.Log.Error("Internal server error", "path", c.FullPath(), "error", err)
			response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.",
				response.ErrorBody{Kind: string(apperror.KindInternal)})
			return
		}

		body := response.ErrorBody{Kind: string(appErr.Kind)}
		var verrs validator.ValidationErrors
		if errors.As(appErr.Err, &verrs) {
			body.Details = validation.FormatValidationErrors(verrs)
		}
		if appErr.Code >= http.StatusInternalServerError {
			logger.Log.Error("Request failed", "path", c.FullPath(), "error", appErr.Err)
		}
		response.Error(c, appErr.Code, appErr.Message, body)
	}
}
