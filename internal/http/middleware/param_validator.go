package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ParamValidator проверяет параметр пути функцией validate.
// Использование: router.DELETE("/folders/:name", ParamValidator("name", validation.ValidateFolderName), h.Remove)
func ParamValidator(paramName string, validate func(string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		value := c.Param(paramName)
		if value == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "параметр " + paramName + " обязателен",
			})
			return
		}

		if err := validate(value); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "параметр " + paramName + ": " + err.Error(),
			})
			return
		}

		c.Next()
	}
}
