package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/shotboard/internal/dto"
	"github.com/ignatzorin/shotboard/internal/http/handlers/common"
	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/service"
)

// UserHandler обслуживает справочник пользователей.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler создаёт хэндлер пользователей.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.users.Directory())
}

// Create POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	actor, ok := common.MustUser(c)
	if !ok {
		return
	}
	var req dto.CreateUserRequest
	if !common.BindJSON(c, &req) {
		return
	}

	user, err := h.users.Add(c.Request.Context(), actor, models.User{Email: req.Email, Name: req.Name, Role: req.Role})
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Delete DELETE /api/users/:email
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := common.MustUser(c)
	if !ok {
		return
	}
	if err := h.users.Remove(c.Request.Context(), actor, c.Param("email")); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
