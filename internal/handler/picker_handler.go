package handler

import (
	"github.com/zihao-lin/photoframe/internal/handler/dto"
	"github.com/zihao-lin/photoframe/internal/pkg/response"
	"github.com/zihao-lin/photoframe/internal/service"

	"github.com/gin-gonic/gin"
)

// PickerHandler drives the vendor picker session lifecycle.
type PickerHandler struct {
	picker service.PickerClient
	tokens service.AccessTokenSource
	cache  *service.PhotoCache
}

func NewPickerHandler(picker service.PickerClient, tokens service.AccessTokenSource, cache *service.PhotoCache) *PickerHandler {
	return &PickerHandler{
		picker: picker,
		tokens: tokens,
		cache:  cache,
	}
}

// CreateSession opens a new picker session and returns its picker URI.
// POST /api/v1/picker/session
func (h *PickerHandler) CreateSession(c *gin.Context) {
	token, err := h.tokens.AccessToken(c.Request.Context())
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}

	session, err := h.picker.CreateSession(c.Request.Context(), token)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.Success(c, dto.PickerSessionFromDomain(session))
}

// PollSession reports whether the user has finished picking. The frontend
// polls this every couple of seconds until media_items_set is true or its
// own ceiling elapses; the server does no looping.
// GET /api/v1/picker/session/:id
func (h *PickerHandler) PollSession(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		response.BadRequest(c, "session id is required")
		return
	}

	token, err := h.tokens.AccessToken(c.Request.Context())
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}

	session, err := h.picker.PollSession(c.Request.Context(), sessionID, token)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.Success(c, dto.PickerSessionFromDomain(session))
}

// ConfirmSession makes the session's selection the authoritative photo set.
// POST /api/v1/picker/session/:id/confirm
func (h *PickerHandler) ConfirmSession(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		response.BadRequest(c, "session id is required")
		return
	}

	items, err := h.cache.Confirm(c.Request.Context(), sessionID)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.Success(c, dto.PhotosFromDomain(items))
}
