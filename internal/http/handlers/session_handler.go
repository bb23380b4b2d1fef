package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/shotboard/internal/dto"
	"github.com/ignatzorin/shotboard/internal/http/handlers/common"
	"github.com/ignatzorin/shotboard/internal/logger"
	"github.com/ignatzorin/shotboard/internal/service"
)

// SessionHandler выдаёт токены сессии пользователям справочника.
type SessionHandler struct {
	users  *service.UserService
	tokens *service.TokenManager
}

// NewSessionHandler создаёт хэндлер сессий.
func NewSessionHandler(users *service.UserService, tokens *service.TokenManager) *SessionHandler {
	return &SessionHandler{users: users, tokens: tokens}
}

// Create POST /api/session - вход под пользователем по email.
func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if !common.BindJSON(c, &req) {
		return
	}

	user, err := h.users.SetCurrent(c.Request.Context(), req.Email)
	if err != nil {
		common.Fail(c, err)
		return
	}

	session, err := h.tokens.Issue(user)
	if err != nil {
		common.Fail(c, err)
		return
	}

	logger.Entry(logrus.Fields{"user": user.Email}).Info("session: вход")
	c.JSON(http.StatusCreated, session)
}

// Current GET /api/session
func (h *SessionHandler) Current(c *gin.Context) {
	user, ok := common.MustUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
