package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/service"
)

// ContextUserKey - ключ текущего пользователя в gin.Context.
const ContextUserKey = "user"

// UserLookup находит пользователя справочника по email.
type UserLookup interface {
	Get(email string) (models.User, error)
}

// BearerToken извлекает токен из заголовка Authorization или параметра token.
func BearerToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return c.Query("token")
}

// AuthMiddleware проверяет JWT токен сессии. Роль берётся из справочника,
// поэтому удалённый пользователь теряет доступ сразу.
func AuthMiddleware(tokens *service.TokenManager, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := BearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
			return
		}

		email, _, err := tokens.Parse(raw)
		if err != nil {
			msg := "токен невалиден"
			if service.IsExpired(err) {
				msg = "срок действия токена истёк"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		user, err := users.Get(email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "пользователь не найден"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// AdminOnly пропускает только администраторов. Ставится после AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Get(ContextUserKey)
		user, ok := raw.(models.User)
		if !ok || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "доступно только администратору"})
			return
		}
		c.Next()
	}
}
