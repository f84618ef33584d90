//go:build wireinject
// +build wireinject

package main

import (
	"net/http"

	"github.com/zihao-lin/photoframe/internal/config"
	"github.com/zihao-lin/photoframe/internal/handler"
	"github.com/zihao-lin/photoframe/internal/repository"
	"github.com/zihao-lin/photoframe/internal/server"
	"github.com/zihao-lin/photoframe/internal/service"

	"github.com/google/wire"
)

type Application struct {
	Config    *config.Config
	Server    *http.Server
	Scheduler *service.RefreshScheduler
	Cleanup   func()
}

func initializeApplication() (*Application, error) {
	wire.Build(
		config.ProviderSet,

		repository.ProviderSet,
		service.ProviderSet,
		handler.ProviderSet,

		server.ProviderSet,

		provideCleanup,

		wire.Struct(new(Application), "Config", "Server", "Scheduler", "Cleanup"),
	)
	return nil, nil
}

func provideCleanup(scheduler *service.RefreshScheduler) func() {
	return func() {
		if scheduler != nil {
			scheduler.Stop()
		}
	}
}
