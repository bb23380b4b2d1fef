package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/shotboard/internal/logger"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
)

// ErrorResponse - тело ответа об ошибке.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ErrorHandler обрабатывает ошибки, добавленные через c.Error.
// Ошибки приложения отдаются со своим кодом и статусом, остальные маскируются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status, body := Describe(err)

		entry := logger.Entry(logrus.Fields{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"status": status,
		})
		if status >= http.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Debug("request rejected")
		}

		c.JSON(status, body)
	}
}

// Describe переводит ошибку в статус и тело ответа.
func Describe(err error) (int, ErrorResponse) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, ErrorResponse{Error: "внутренняя ошибка сервера", Code: string(apperror.ErrCodeInternal)}
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = apperror.StatusOf(appErr)
	}
	if status >= http.StatusInternalServerError {
		return status, ErrorResponse{Error: "внутренняя ошибка сервера", Code: string(appErr.Code)}
	}
	return status, ErrorResponse{Error: appErr.Message, Code: string(appErr.Code)}
}
