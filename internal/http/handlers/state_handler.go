package handlers

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/blake2b"

	"github.com/ignatzorin/shotboard/internal/http/handlers/common"
	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
	"github.com/ignatzorin/shotboard/internal/service"
)

// Имена документов состояния.
const (
	DocUsers       = "users"
	DocPlaylists   = "playlists"
	DocTags        = "tags"
	DocGlobalTags  = "globalTags"
	DocDirectories = "directories"
	DocSettings    = "settings"
)

const maxStateBody = 8 << 20

// StateHandler синхронизирует документы состояния целиком.
type StateHandler struct {
	catalog *service.CatalogService
	users   *service.UserService
}

// NewStateHandler создаёт хэндлер документов.
func NewStateHandler(catalog *service.CatalogService, users *service.UserService) *StateHandler {
	return &StateHandler{catalog: catalog, users: users}
}

// ETag возвращает тег документа: blake2b-256 от его JSON.
func ETag(doc any) (string, []byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", nil, err
	}
	sum := blake2b.Sum256(raw)
	return `"` + hex.EncodeToString(sum[:]) + `"`, raw, nil
}

func (h *StateHandler) current(name string) (any, bool) {
	switch name {
	case DocUsers:
		return h.users.Directory(), true
	case DocPlaylists:
		return h.catalog.Snapshot().Playlists, true
	case DocTags:
		return h.catalog.Tags(), true
	case DocGlobalTags:
		return h.catalog.GlobalTags(), true
	case DocDirectories:
		return h.catalog.Folders(), true
	case DocSettings:
		return h.catalog.Settings(), true
	}
	return nil, false
}

// Get GET /api/state/:doc
func (h *StateHandler) Get(c *gin.Context) {
	doc, ok := h.current(c.Param("doc"))
	if !ok {
		common.Fail(c, apperror.Newf(apperror.ErrCodeNotFound, "документ %q не найден", c.Param("doc")))
		return
	}
	h.write(c, http.StatusOK, doc)
}

// Put PUT /api/state/:doc - замена документа целиком. If-Match защищает от перезаписи чужих изменений.
func (h *StateHandler) Put(c *gin.Context) {
	name := c.Param("doc")
	doc, ok := h.current(name)
	if !ok {
		common.Fail(c, apperror.Newf(apperror.ErrCodeNotFound, "документ %q не найден", name))
		return
	}

	if match := c.GetHeader("If-Match"); match != "" && match != "*" {
		tag, _, err := ETag(doc)
		if err != nil {
			common.Fail(c, err)
			return
		}
		if tag != match {
			common.RespondError(c, http.StatusPreconditionFailed, "документ изменился")
			return
		}
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxStateBody))
	if err != nil {
		common.Fail(c, apperror.Wrap(err, apperror.ErrCodeBadRequest, "не удалось прочитать тело запроса"))
		return
	}

	next, err := h.replace(c, name, raw)
	if err != nil {
		common.Fail(c, err)
		return
	}
	h.write(c, http.StatusOK, next)
}

func (h *StateHandler) replace(c *gin.Context, name string, raw []byte) (any, error) {
	ctx := c.Request.Context()
	switch name {
	case DocUsers:
		var dir models.UserDirectory
		if err := decodeDoc(raw, &dir); err != nil {
			return nil, err
		}
		return h.users.Replace(ctx, dir)
	case DocPlaylists:
		var ps models.Playlists
		if err := decodeDoc(raw, &ps); err != nil {
			return nil, err
		}
		return h.catalog.ReplacePlaylists(ctx, ps)
	case DocTags:
		var tags models.Tags
		if err := decodeDoc(raw, &tags); err != nil {
			return nil, err
		}
		return h.catalog.ReplaceTags(ctx, tags)
	case DocGlobalTags:
		var globals []string
		if err := decodeDoc(raw, &globals); err != nil {
			return nil, err
		}
		return h.catalog.ReplaceGlobalTags(ctx, globals)
	case DocDirectories:
		var names []string
		if err := decodeDoc(raw, &names); err != nil {
			return nil, err
		}
		return h.catalog.ReplaceDirectories(ctx, names)
	default:
		var settings models.Settings
		if err := decodeDoc(raw, &settings); err != nil {
			return nil, err
		}
		return h.catalog.ReplaceSettings(ctx, settings)
	}
}

func decodeDoc(raw []byte, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "документ не является корректным JSON")
	}
	return nil
}

func (h *StateHandler) write(c *gin.Context, status int, doc any) {
	tag, raw, err := ETag(doc)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.Header("ETag", tag)
	if status == http.StatusOK && c.Request.Method == http.MethodGet && c.GetHeader("If-None-Match") == tag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(status, "application/json; charset=utf-8", raw)
}
