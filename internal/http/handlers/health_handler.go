package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/shotboard/internal/service"
	"github.com/ignatzorin/shotboard/internal/ws"
)

const (
	checkHealthy   = "healthy"
	checkUnhealthy = "unhealthy"
)

// HealthHandler проверяет базу, хранилище файлов и каталог.
type HealthHandler struct {
	db        *sqlx.DB
	catalog   *service.CatalogService
	mediaRoot string
	hub       *ws.Hub
}

func NewHealthHandler(db *sqlx.DB, catalog *service.CatalogService, mediaRoot string, hub *ws.Hub) *HealthHandler {
	return &HealthHandler{db: db, catalog: catalog, mediaRoot: mediaRoot, hub: hub}
}

// HealthResponse - ответ GET /health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Folders   int               `json:"folders"`
	Shots     int               `json:"shots"`
	Clients   int               `json:"wsClients"`
}

// Health GET /health. 503, если база или каталог файлов недоступны.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{
		"database": checkResult(h.db.PingContext(ctx)),
		"media":    checkResult(h.mediaDir()),
	}

	status, code := checkHealthy, http.StatusOK
	for _, v := range checks {
		if v != checkHealthy {
			status, code = checkUnhealthy, http.StatusServiceUnavailable
			break
		}
	}

	resp := HealthResponse{Status: status, Timestamp: time.Now().UTC(), Checks: checks}
	st := h.catalog.Snapshot()
	resp.Folders = len(st.SourceFolders())
	resp.Shots = len(st.Shots)
	if h.hub != nil {
		resp.Clients = h.hub.Clients()
	}
	c.JSON(code, resp)
}

func (h *HealthHandler) mediaDir() error {
	info, err := os.Stat(h.mediaRoot)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return os.ErrInvalid
	}
	return nil
}

func checkResult(err error) string {
	if err != nil {
		return checkUnhealthy + ": " + err.Error()
	}
	return checkHealthy
}
