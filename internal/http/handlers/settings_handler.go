package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/shotboard/internal/http/handlers/common"
	"github.com/ignatzorin/shotboard/internal/service"
)

// SettingsHandler отдаёт и меняет настройки интерфейса.
type SettingsHandler struct {
	catalog *service.CatalogService
}

// NewSettingsHandler создаёт хэндлер настроек.
func NewSettingsHandler(catalog *service.CatalogService) *SettingsHandler {
	return &SettingsHandler{catalog: catalog}
}

// Get GET /api/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Settings())
}

// Patch PUT /api/settings - частичное изменение предпочтений.
func (h *SettingsHandler) Patch(c *gin.Context) {
	var patch service.SettingsPatch
	if !common.BindJSON(c, &patch) {
		return
	}
	settings, err := h.catalog.UpdateSettings(c.Request.Context(), patch)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
