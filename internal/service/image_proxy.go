package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/zihao-lin/photoframe/internal/domain"
	infraerrors "github.com/zihao-lin/photoframe/internal/pkg/errors"
	"github.com/zihao-lin/photoframe/internal/pkg/logger"

	"go.uber.org/zap"
)

// ImageFetcher downloads bytes from a signed vendor URL.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url, accessToken string) (data []byte, mimeType string, err error)
}

// ImageProxy resolves photo bytes: byte cache first, then a vendor fetch.
// The same BlobCache the photo cache cleans up on delete/disconnect serves
// here, so a removed photo is gone from every tier at once.
type ImageProxy struct {
	cache   *PhotoCache
	blobs   BlobCache
	fetcher ImageFetcher
	tokens  AccessTokenSource
}

func NewImageProxy(cache *PhotoCache, blobs BlobCache, fetcher ImageFetcher, tokens AccessTokenSource) *ImageProxy {
	return &ImageProxy{
		cache:   cache,
		blobs:   blobs,
		fetcher: fetcher,
		tokens:  tokens,
	}
}

// Resolve returns the bytes and mime type for a photo id.
//
// Signed vendor URLs expire roughly an hour after issue, independent of the
// photo cache TTL, so a 401/403 on the first fetch forces a cache refresh
// and exactly one retry with the refreshed descriptor. Any other failure,
// or a failed retry, surfaces the vendor status verbatim.
func (p *ImageProxy) Resolve(ctx context.Context, id string) ([]byte, string, error) {
	if data, mimeType, ok := p.blobs.Get(id); ok {
		return data, mimeType, nil
	}

	desc, ok := p.cache.Descriptor(id)
	if !ok {
		return nil, "", ErrPhotoNotFound
	}

	data, mimeType, err := p.fetch(ctx, desc)
	if isExpiredURL(err) {
		p.cache.Refresh(ctx)
		desc, ok = p.cache.Descriptor(id)
		if !ok {
			return nil, "", ErrPhotoNotFound
		}
		data, mimeType, err = p.fetch(ctx, desc)
	}
	if err != nil {
		return nil, "", err
	}

	if mimeType == "" {
		mimeType = desc.MimeType
	}

	// Write-through is best-effort: the bytes are already in hand, so a
	// cache write failure must not fail the response.
	if err := p.blobs.Put(id, data, mimeType); err != nil {
		logger.FromContext(ctx).Warn("image cache write failed", zap.String("photo_id", id), zap.Error(err))
	}

	return data, mimeType, nil
}

func (p *ImageProxy) fetch(ctx context.Context, desc domain.PhotoDescriptor) ([]byte, string, error) {
	token := ""
	if desc.Origin == domain.OriginVendor {
		var err error
		token, err = p.tokens.AccessToken(ctx)
		if err != nil {
			return nil, "", err
		}
	}
	return p.fetcher.FetchImage(ctx, downloadURL(desc), token)
}

// downloadURL appends the download parameter Google requires on baseUrl
// style signed URLs.
func downloadURL(desc domain.PhotoDescriptor) string {
	if desc.Origin != domain.OriginVendor {
		return desc.SourceURL
	}
	if strings.Contains(desc.SourceURL, "=") {
		return desc.SourceURL
	}
	return desc.SourceURL + "=d"
}

func isExpiredURL(err error) bool {
	if err == nil {
		return false
	}
	code := infraerrors.Code(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
