package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/shotboard/internal/http/middleware"
	"github.com/ignatzorin/shotboard/internal/logger"
	"github.com/ignatzorin/shotboard/internal/service"
	"github.com/ignatzorin/shotboard/internal/ws"
)

// WSHandler отвечает за установку WebSocket соединений.
type WSHandler struct {
	hub      *ws.Hub
	tokens   *service.TokenManager
	users    middleware.UserLookup
	upgrader websocket.Upgrader
}

// NewWSHandler создаёт новый хэндлер.
func NewWSHandler(hub *ws.Hub, tokens *service.TokenManager, users middleware.UserLookup) *WSHandler {
	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		users:  users,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle обслуживает GET /api/ws?token=...
func (h *WSHandler) Handle(c *gin.Context) {
	rawToken := middleware.BearerToken(c)
	if rawToken == "" {
		c.JSON(http.StatusUnauthorized, middleware.ErrorResponse{Error: "токен сессии обязателен"})
		return
	}

	email, _, err := h.tokens.Parse(rawToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, middleware.ErrorResponse{Error: "невалидный токен сессии"})
		return
	}
	if _, err := h.users.Get(email); err != nil {
		c.JSON(http.StatusUnauthorized, middleware.ErrorResponse{Error: "пользователь не найден"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Entry(logrus.Fields{"error": err, "user": email}).Warn("ws: upgrade не удался")
		return
	}

	client := ws.NewClient(conn, h.hub, email)
	h.hub.Register(client)

	client.Run(c.Request.Context())
}
