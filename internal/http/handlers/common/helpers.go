package common

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/shotboard/internal/dto"
	"github.com/ignatzorin/shotboard/internal/http/middleware"
	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
)

// ErrNoUser возвращается, если в контексте нет пользователя.
var ErrNoUser = errors.New("пользователь не найден в контексте")

// CurrentUser извлекает пользователя, установленного AuthMiddleware.
func CurrentUser(c *gin.Context) (models.User, error) {
	raw, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return models.User{}, ErrNoUser
	}
	user, ok := raw.(models.User)
	if !ok {
		return models.User{}, ErrNoUser
	}
	return user, nil
}

// MustUser возвращает пользователя или отвечает 401. Второе значение false - ответ уже отправлен.
func MustUser(c *gin.Context) (models.User, bool) {
	user, err := CurrentUser(c)
	if err != nil {
		RespondUnauthorized(c, "")
		return models.User{}, false
	}
	return user, true
}

// BindJSON разбирает тело запроса; при ошибке отвечает 400.
func BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		Fail(c, apperror.Wrap(err, apperror.ErrCodeValidation, "ошибка валидации запроса"))
		return false
	}
	return true
}

// Fail передаёт ошибку в ErrorHandler и прерывает обработку.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// RespondError отправляет ошибку с указанным статусом.
func RespondError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, middleware.ErrorResponse{Error: message})
}

// RespondSuccess отправляет сообщение об успехе.
func RespondSuccess(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, dto.SuccessResponse{Message: message, Data: data})
}

// RespondUnauthorized отправляет 401.
func RespondUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "требуется авторизация"
	}
	RespondError(c, http.StatusUnauthorized, message)
}

// QueryBool читает логический параметр: 1, true, yes.
func QueryBool(c *gin.Context, key string) bool {
	switch strings.ToLower(c.Query(key)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// QueryList читает параметр-список из повторяющегося ключа: ?tags=a&tags=b.
// Значения не делятся по запятой: теги и имена папок могут её содержать.
func QueryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParseIntQuery читает целый параметр со значением по умолчанию.
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// GetPagination извлекает limit и offset; limit 0 - без ограничения.
func GetPagination(c *gin.Context) (limit, offset int) {
	limit = ParseIntQuery(c, "limit", 0)
	offset = ParseIntQuery(c, "offset", 0)
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	return
}
