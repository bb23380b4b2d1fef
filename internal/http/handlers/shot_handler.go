package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/shotboard/internal/catalog"
	"github.com/ignatzorin/shotboard/internal/dto"
	"github.com/ignatzorin/shotboard/internal/http/handlers/common"
	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
	"github.com/ignatzorin/shotboard/internal/preview"
	"github.com/ignatzorin/shotboard/internal/service"
	"github.com/ignatzorin/shotboard/internal/validation"
)

// ShotHandler отдаёт шоты каталога. ID шота содержит "/", поэтому передаётся в query.
type ShotHandler struct {
	catalog *service.CatalogService
}

// NewShotHandler создаёт хэндлер шотов.
func NewShotHandler(catalog *service.CatalogService) *ShotHandler {
	return &ShotHandler{catalog: catalog}
}

// FilterFromQuery собирает контекст фильтра из параметров запроса.
func FilterFromQuery(c *gin.Context) catalog.FilterContext {
	return catalog.FilterContext{
		ActiveFolder:   c.Query("folder"),
		ActivePlaylist: c.Query("playlist"),
		InvertPlaylist: common.QueryBool(c, "invertPlaylist"),
		SelectedTags:   common.QueryList(c, "tags"),
		InvertTags:     common.QueryBool(c, "invertTags"),
		Advanced: models.AdvancedFilterState{
			Tags:      common.QueryList(c, "advTags"),
			Playlists: common.QueryList(c, "advPlaylists"),
			Formats:   common.QueryList(c, "advFormats"),
			Folders:   common.QueryList(c, "advFolders"),
		},
		SearchQuery: validation.SanitizeSearchQuery(c.Query("q")),
	}
}

// List GET /api/shots
func (h *ShotHandler) List(c *gin.Context) {
	shots := h.catalog.Shots(FilterFromQuery(c))
	total := len(shots)

	limit, offset := common.GetPagination(c)
	if offset > len(shots) {
		offset = len(shots)
	}
	shots = shots[offset:]
	if limit > 0 && limit < len(shots) {
		shots = shots[:limit]
	}
	c.JSON(http.StatusOK, dto.NewShotsResponse(shots, total))
}

// Get GET /api/shots/one?id=
func (h *ShotHandler) Get(c *gin.Context) {
	id := c.Query("id")
	shot, err := h.catalog.Shot(id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	tags, _ := h.catalog.ShotTags(id)
	c.JSON(http.StatusOK, dto.ShotResponse{
		Shot:      shot,
		Tags:      tags,
		Playlists: h.catalog.Memberships(id),
	})
}

// SetCover PUT /api/shots/cover
func (h *ShotHandler) SetCover(c *gin.Context) {
	var req dto.SetCoverRequest
	if !common.BindJSON(c, &req) {
		return
	}
	shot, err := h.catalog.SetCover(c.Request.Context(), req.ShotID, req.FileName)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, shot)
}

// Prompt GET /api/shots/prompt?id=&name=[&plain=1]
func (h *ShotHandler) Prompt(c *gin.Context) {
	id, name := c.Query("id"), c.Query("name")
	if id == "" || name == "" {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "параметры id и name обязательны"))
		return
	}

	p, err := h.catalog.Prompt(id, name)
	if err != nil {
		common.Fail(c, err)
		return
	}

	resp := dto.PromptResponse{Name: p.Name, Type: p.Type, Content: p.Content}
	if p.Type == models.PromptHTML {
		resp.Title = preview.Title(p.Content)
	}
	if common.QueryBool(c, "plain") {
		text, err := h.catalog.PlainPrompt(id, name)
		if err != nil {
			common.Fail(c, err)
			return
		}
		resp.Content = text
		resp.Plain = true
	}
	c.JSON(http.StatusOK, resp)
}
