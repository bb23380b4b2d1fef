package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/shotboard/internal/dto"
	"github.com/ignatzorin/shotboard/internal/http/handlers/common"
	"github.com/ignatzorin/shotboard/internal/service"
)

// TagHandler управляет тегами шотов и общим словарём.
type TagHandler struct {
	catalog *service.CatalogService
}

// NewTagHandler создаёт хэндлер тегов.
func NewTagHandler(catalog *service.CatalogService) *TagHandler {
	return &TagHandler{catalog: catalog}
}

// List GET /api/tags
func (h *TagHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, dto.TagsResponse{Tags: h.catalog.Tags(), AllGlobalTags: h.catalog.GlobalTags()})
}

// AddToShot POST /api/tags/shot
func (h *TagHandler) AddToShot(c *gin.Context) {
	var req dto.ShotTagRequest
	if !common.BindJSON(c, &req) {
		return
	}
	tags, err := h.catalog.AddTag(c.Request.Context(), req.ShotID, req.Tag)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shotId": req.ShotID, "tags": tags})
}

// RemoveFromShot DELETE /api/tags/shot?id=&tag=
func (h *TagHandler) RemoveFromShot(c *gin.Context) {
	shotID, tag := c.Query("id"), c.Query("tag")
	tags, err := h.catalog.RemoveTag(c.Request.Context(), shotID, tag)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shotId": shotID, "tags": tags})
}

// Bulk POST /api/tags/bulk
func (h *TagHandler) Bulk(c *gin.Context) {
	var req service.BulkTagRequest
	if !common.BindJSON(c, &req) {
		return
	}
	tags, err := h.catalog.BulkTag(c.Request.Context(), req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TagsResponse{Tags: tags, AllGlobalTags: h.catalog.GlobalTags()})
}

// AddGlobal POST /api/tags/global
func (h *TagHandler) AddGlobal(c *gin.Context) {
	user, ok := common.MustUser(c)
	if !ok {
		return
	}
	var req dto.GlobalTagRequest
	if !common.BindJSON(c, &req) {
		return
	}
	globals, err := h.catalog.AddGlobalTag(c.Request.Context(), user, req.Tag)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"allGlobalTags": globals})
}

// RenameGlobal PUT /api/tags/global
func (h *TagHandler) RenameGlobal(c *gin.Context) {
	user, ok := common.MustUser(c)
	if !ok {
		return
	}
	var req dto.RenameGlobalTagRequest
	if !common.BindJSON(c, &req) {
		return
	}
	globals, err := h.catalog.RenameGlobalTag(c.Request.Context(), user, req.OldTag, req.NewTag)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TagsResponse{Tags: h.catalog.Tags(), AllGlobalTags: globals})
}

// DeleteGlobal DELETE /api/tags/global?tag=
func (h *TagHandler) DeleteGlobal(c *gin.Context) {
	user, ok := common.MustUser(c)
	if !ok {
		return
	}
	globals, err := h.catalog.DeleteGlobalTag(c.Request.Context(), user, c.Query("tag"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TagsResponse{Tags: h.catalog.Tags(), AllGlobalTags: globals})
}
