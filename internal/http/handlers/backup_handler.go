package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/shotboard/internal/http/handlers/common"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
	"github.com/ignatzorin/shotboard/internal/service"
)

// BackupHandler выгружает и восстанавливает пользовательские данные.
type BackupHandler struct {
	backups *service.BackupService
}

// NewBackupHandler создаёт хэндлер резервных копий.
func NewBackupHandler(backups *service.BackupService) *BackupHandler {
	return &BackupHandler{backups: backups}
}

// Export GET /api/backup
func (h *BackupHandler) Export(c *gin.Context) {
	name := "shotboard-" + time.Now().Format("20060102-150405") + ".json"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.JSON(http.StatusOK, h.backups.Export())
}

// Restore POST /api/backup/restore
func (h *BackupHandler) Restore(c *gin.Context) {
	user, ok := common.MustUser(c)
	if !ok {
		return
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxStateBody))
	if err != nil {
		common.Fail(c, apperror.Wrap(err, apperror.ErrCodeBadRequest, "не удалось прочитать тело запроса"))
		return
	}
	b, err := service.DecodeBackup(raw)
	if err != nil {
		common.Fail(c, err)
		return
	}
	if err := h.backups.Restore(c.Request.Context(), user, b); err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, "резервная копия восстановлена", nil)
}

// Snapshot POST /api/backup/snapshot - сохранить копию в каталог резервных копий сервера.
func (h *BackupHandler) Snapshot(c *gin.Context) {
	path, err := h.backups.Snapshot()
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusCreated, "резервная копия сохранена", gin.H{"path": path})
}
