package service

import (
	"github.com/zihao-lin/photoframe/internal/config"

	"github.com/google/wire"
)

// ProvidePhotoCache builds the photo cache from config-derived settings.
func ProvidePhotoCache(cfg *config.Config, store SessionStore, tokenStore TokenStore, picker PickerClient, tokens AccessTokenSource, blobs BlobCache) *PhotoCache {
	return NewPhotoCache(cfg.Cache.TTL(), store, tokenStore, picker, tokens, blobs)
}

// ProvideRefreshScheduler builds the background refresh job.
func ProvideRefreshScheduler(cfg *config.Config, cache *PhotoCache) *RefreshScheduler {
	return NewRefreshScheduler(cache, cfg.Scheduler.RefreshSpec)
}

// ProviderSet is the service layer provider set.
var ProviderSet = wire.NewSet(
	NewTokenProvider,
	wire.Bind(new(AccessTokenSource), new(*TokenProvider)),
	ProvidePhotoCache,
	NewImageProxy,
	ProvideRefreshScheduler,
)
