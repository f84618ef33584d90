package repository

import (
	"github.com/zihao-lin/photoframe/internal/config"
	"github.com/zihao-lin/photoframe/internal/service"

	"github.com/google/wire"
)

// ProvideStore builds the credential/session store under the data dir.
func ProvideStore(cfg *config.Config) (*Store, error) {
	return NewStore(cfg.Cache.DataDir)
}

// ProvideBlobCache builds the on-disk byte cache with its hot in-memory
// tier in front.
func ProvideBlobCache(cfg *config.Config) (*HotBlobCache, error) {
	disk, err := NewFileBlobCache(cfg.Cache.BlobDir())
	if err != nil {
		return nil, err
	}
	return NewHotBlobCache(disk, cfg.Cache.HotCacheMaxBytes)
}

// ProviderSet is the repository layer provider set.
var ProviderSet = wire.NewSet(
	ProvideStore,
	wire.Bind(new(service.TokenStore), new(*Store)),
	wire.Bind(new(service.SessionStore), new(*Store)),
	ProvideBlobCache,
	wire.Bind(new(service.BlobCache), new(*HotBlobCache)),
	NewGooglePickerAPI,
	wire.Bind(new(service.PickerClient), new(*GooglePickerAPI)),
	wire.Bind(new(service.ImageFetcher), new(*GooglePickerAPI)),
	NewGoogleOAuthClient,
)
