package server

import (
	"net/http"
	"time"

	"github.com/zihao-lin/photoframe/internal/config"
	"github.com/zihao-lin/photoframe/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
)

// ProvideGinEngine creates the engine in the configured mode.
func ProvideGinEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	return engine
}

// ProvideHTTPServer wraps the configured router in an http.Server.
func ProvideHTTPServer(engine *gin.Engine, handlers *handler.Handlers, cfg *config.Config) *http.Server {
	router := SetupRouter(engine, handlers, cfg)
	return &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadHeaderTimeout) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}
}

// ProviderSet is the server layer provider set.
var ProviderSet = wire.NewSet(
	ProvideGinEngine,
	ProvideHTTPServer,
)
