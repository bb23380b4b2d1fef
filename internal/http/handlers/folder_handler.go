package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/shotboard/internal/dto"
	"github.com/ignatzorin/shotboard/internal/http/handlers/common"
	"github.com/ignatzorin/shotboard/internal/logger"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
	"github.com/ignatzorin/shotboard/internal/service"
	"github.com/ignatzorin/shotboard/internal/source"
)

// FolderHandler добавляет и удаляет папки-источники.
type FolderHandler struct {
	catalog *service.CatalogService
}

// NewFolderHandler создаёт хэндлер папок.
func NewFolderHandler(catalog *service.CatalogService) *FolderHandler {
	return &FolderHandler{catalog: catalog}
}

// List GET /api/folders
func (h *FolderHandler) List(c *gin.Context) {
	folders := h.catalog.Folders()
	counts := make(map[string]int, len(folders))
	for _, s := range h.catalog.Snapshot().Shots {
		counts[s.FolderID]++
	}
	c.JSON(http.StatusOK, gin.H{"folders": folders, "shotCounts": counts})
}

// Upload POST /api/folders/upload - multipart: files[] и параллельное поле paths[].
func (h *FolderHandler) Upload(c *gin.Context) {
	user, ok := common.MustUser(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		common.Fail(c, apperror.Wrap(err, apperror.ErrCodeValidation, "ожидается multipart форма"))
		return
	}
	defer func() { _ = form.RemoveAll() }()

	parts, err := source.Parts(form)
	if err != nil {
		common.Fail(c, err)
		return
	}

	shots, err := h.catalog.AddUpload(c.Request.Context(), parts)
	if err != nil {
		common.Fail(c, err)
		return
	}

	folders := source.Folders(parts)
	logger.Entry(logrus.Fields{"user": user.Email, "folders": folders, "files": len(parts)}).Info("folders: загрузка")
	c.JSON(http.StatusCreated, dto.UploadResponse{Folders: folders, Shots: shots})
}

// Scan POST /api/folders/scan - импорт каталога на сервере.
func (h *FolderHandler) Scan(c *gin.Context) {
	var req dto.ScanFolderRequest
	if !common.BindJSON(c, &req) {
		return
	}

	shots, err := h.catalog.ImportDirectory(c.Request.Context(), req.Path, req.Name)
	if err != nil {
		common.Fail(c, err)
		return
	}

	folders := make([]string, 0, 1)
	seen := map[string]bool{}
	for _, s := range shots {
		if !seen[s.FolderID] {
			seen[s.FolderID] = true
			folders = append(folders, s.FolderID)
		}
	}
	c.JSON(http.StatusCreated, dto.UploadResponse{Folders: folders, Shots: shots})
}

// Delete DELETE /api/folders/:name
func (h *FolderHandler) Delete(c *gin.Context) {
	user, ok := common.MustUser(c)
	if !ok {
		return
	}
	if err := h.catalog.RemoveFolder(c.Request.Context(), user, c.Param("name")); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
