package handler

import (
	"net/http"

	"github.com/zihao-lin/photoframe/internal/domain"
	"github.com/zihao-lin/photoframe/internal/handler/dto"
	"github.com/zihao-lin/photoframe/internal/pkg/response"
	"github.com/zihao-lin/photoframe/internal/service"

	"github.com/gin-gonic/gin"
)

// PhotoHandler serves the slideshow photo list and proxied bytes.
type PhotoHandler struct {
	cache *service.PhotoCache
	proxy *service.ImageProxy
}

func NewPhotoHandler(cache *service.PhotoCache, proxy *service.ImageProxy) *PhotoHandler {
	return &PhotoHandler{
		cache: cache,
		proxy: proxy,
	}
}

// List returns the current photo set, refreshing from the vendor first if
// the cache has gone stale. Refresh failures degrade to the last-known-good
// set, so this endpoint never fails on vendor trouble.
// GET /api/v1/photos
func (h *PhotoHandler) List(c *gin.Context) {
	items := h.cache.List(c.Request.Context())
	response.Success(c, dto.PhotosFromDomain(items))
}

// Raw streams the bytes for one photo.
// GET /api/v1/photos/:id/raw
func (h *PhotoHandler) Raw(c *gin.Context) {
	id := c.Param("id")
	data, mimeType, err := h.proxy.Resolve(c.Request.Context(), id)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	// Bytes for an id never change, so let the browser cache aggressively.
	c.Header("Cache-Control", "private, max-age=86400")
	c.Data(http.StatusOK, mimeType, data)
}

// ShuffleRequest selects a random subset of the full session pool.
type ShuffleRequest struct {
	Count int `json:"count"`
}

// Shuffle re-samples the photo set from the full session pool.
// POST /api/v1/photos/shuffle
func (h *PhotoHandler) Shuffle(c *gin.Context) {
	var req ShuffleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	items, err := h.cache.Shuffle(c.Request.Context(), req.Count)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.Success(c, dto.PhotosFromDomain(items))
}

// RestoreItem is one client-supplied snapshot entry.
type RestoreItem struct {
	ID        string `json:"id" binding:"required"`
	SourceURL string `json:"source_url"`
	Filename  string `json:"filename"`
	MimeType  string `json:"mime_type"`
	Source    string `json:"source"`
}

// RestoreRequest re-seeds an empty cache from a snapshot the client kept.
type RestoreRequest struct {
	Items []RestoreItem `json:"items" binding:"required"`
}

// Restore applies a client snapshot if the cache is empty; a populated
// cache wins and is returned unchanged.
// POST /api/v1/photos/restore
func (h *PhotoHandler) Restore(c *gin.Context) {
	var req RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	snapshot := make([]domain.PhotoDescriptor, 0, len(req.Items))
	for _, item := range req.Items {
		origin := item.Source
		if origin != domain.OriginLocal {
			origin = domain.OriginVendor
		}
		snapshot = append(snapshot, domain.PhotoDescriptor{
			ID:        item.ID,
			SourceURL: item.SourceURL,
			MimeType:  item.MimeType,
			Filename:  item.Filename,
			Origin:    origin,
		})
	}

	items, err := h.cache.Restore(snapshot)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.Success(c, dto.PhotosFromDomain(items))
}

// Delete removes one photo everywhere: memory, persisted selection, and
// the byte cache.
// DELETE /api/v1/photos/:id
func (h *PhotoHandler) Delete(c *gin.Context) {
	if err := h.cache.DeleteOne(c.Request.Context(), c.Param("id")); err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// Disconnect clears all photo, session, token, and byte-cache state.
// POST /api/v1/disconnect
func (h *PhotoHandler) Disconnect(c *gin.Context) {
	h.cache.Disconnect(c.Request.Context())
	response.Success(c, gin.H{"disconnected": true})
}
