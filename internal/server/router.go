package server

import (
	"net/http"

	"github.com/zihao-lin/photoframe/internal/config"
	"github.com/zihao-lin/photoframe/internal/handler"
	"github.com/zihao-lin/photoframe/internal/server/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires middleware and routes onto the engine.
func SetupRouter(r *gin.Engine, handlers *handler.Handlers, cfg *config.Config) *gin.Engine {
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLogger())
	r.Use(middleware.CORS(cfg.CORS))

	registerRoutes(r, handlers)

	return r
}

func registerRoutes(r *gin.Engine, h *handler.Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	picker := v1.Group("/picker")
	{
		picker.POST("/session", h.Picker.CreateSession)
		picker.GET("/session/:id", h.Picker.PollSession)
		picker.POST("/session/:id/confirm", h.Picker.ConfirmSession)
	}

	photos := v1.Group("/photos")
	{
		photos.GET("", h.Photo.List)
		photos.GET("/:id/raw", h.Photo.Raw)
		photos.POST("/shuffle", h.Photo.Shuffle)
		photos.POST("/restore", h.Photo.Restore)
		photos.DELETE("/:id", h.Photo.Delete)
	}

	v1.POST("/disconnect", h.Photo.Disconnect)
}
