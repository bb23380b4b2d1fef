package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/shotboard/internal/dto"
	"github.com/ignatzorin/shotboard/internal/http/handlers/common"
	"github.com/ignatzorin/shotboard/internal/service"
)

// PlaylistHandler управляет плейлистами текущего пользователя.
type PlaylistHandler struct {
	catalog *service.CatalogService
}

// NewPlaylistHandler создаёт хэндлер плейлистов.
func NewPlaylistHandler(catalog *service.CatalogService) *PlaylistHandler {
	return &PlaylistHandler{catalog: catalog}
}

// List GET /api/playlists
func (h *PlaylistHandler) List(c *gin.Context) {
	user, ok := common.MustUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"playlists": h.catalog.Playlists(user)})
}

// Get GET /api/playlists/:id
func (h *PlaylistHandler) Get(c *gin.Context) {
	user, ok := common.MustUser(c)
	if !ok {
		return
	}
	p, err := h.catalog.Playlist(user, c.Param("id"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Create POST /api/playlists
func (h *PlaylistHandler) Create(c *gin.Context) {
	user, ok := common.MustUser(c)
	if !ok {
		return
	}
	var req dto.PlaylistNameRequest
	if !common.BindJSON(c, &req) {
		return
	}
	p, err := h.catalog.CreatePlaylist(c.Request.Context(), user, req.Name)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Rename PUT /api/playlists/:id
func (h *PlaylistHandler) Rename(c *gin.Context) {
	user, ok := common.MustUser(c)
	if !ok {
		return
	}
	var req dto.PlaylistNameRequest
	if !common.BindJSON(c, &req) {
		return
	}
	p, err := h.catalog.RenamePlaylist(c.Request.Context(), user, c.Param("id"), req.Name)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete DELETE /api/playlists/:id
func (h *PlaylistHandler) Delete(c *gin.Context) {
	user, ok := common.MustUser(c)
	if !ok {
		return
	}
	if err := h.catalog.DeletePlaylist(c.Request.Context(), user, c.Param("id")); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Duplicate POST /api/playlists/:id/duplicate
func (h *PlaylistHandler) Duplicate(c *gin.Context) {
	user, ok := common.MustUser(c)
	if !ok {
		return
	}
	p, err := h.catalog.DuplicatePlaylist(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Toggle POST /api/playlists/:id/toggle
func (h *PlaylistHandler) Toggle(c *gin.Context) {
	user, ok := common.MustUser(c)
	if !ok {
		return
	}
	var req dto.ToggleShotRequest
	if !common.BindJSON(c, &req) {
		return
	}
	p, added, err := h.catalog.ToggleShot(c.Request.Context(), user, c.Param("id"), req.ShotID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToggleResponse{Playlist: p, Added: added})
}

// BulkAdd POST /api/playlists/:id/bulk
func (h *PlaylistHandler) BulkAdd(c *gin.Context) {
	user, ok := common.MustUser(c)
	if !ok {
		return
	}
	var req dto.BulkAddRequest
	if !common.BindJSON(c, &req) {
		return
	}
	p, err := h.catalog.BulkAdd(c.Request.Context(), user, c.Param("id"), req.ShotIDs)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Share PUT /api/playlists/:id/share
func (h *PlaylistHandler) Share(c *gin.Context) {
	user, ok := common.MustUser(c)
	if !ok {
		return
	}
	var req dto.SharePlaylistRequest
	if !common.BindJSON(c, &req) {
		return
	}
	p, err := h.catalog.SharePlaylist(c.Request.Context(), user, c.Param("id"), req.Emails)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
