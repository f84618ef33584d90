package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/zihao-lin/photoframe/internal/domain"
	infraerrors "github.com/zihao-lin/photoframe/internal/pkg/errors"
	"github.com/zihao-lin/photoframe/internal/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	ErrPhotoNotFound = infraerrors.NotFound("PHOTO_NOT_FOUND", "photo not found")
	ErrNoSession     = infraerrors.BadRequest("NO_ACTIVE_SESSION", "no picker session is active")
	ErrInvalidCount  = infraerrors.BadRequest("INVALID_COUNT", "count must not be negative")
)

// SessionStore persists the selection state for the active picker session.
type SessionStore interface {
	LoadSession() (*domain.SessionConfig, bool, error)
	SaveSession(cfg *domain.SessionConfig) error
	DeleteSession() error
}

// PickerClient performs the vendor session calls.
type PickerClient interface {
	CreateSession(ctx context.Context, accessToken string) (*domain.PickerSession, error)
	PollSession(ctx context.Context, sessionID, accessToken string) (*domain.PickerSession, error)
	ListAllMediaItems(ctx context.Context, sessionID, accessToken string) ([]domain.RawMediaItem, error)
}

// BlobCache stores resolved photo bytes by id.
type BlobCache interface {
	Get(id string) (data []byte, mimeType string, ok bool)
	Put(id string, data []byte, mimeType string) error
	Delete(id string) error
	Clear() error
}

// PhotoCache holds the resolved photo set for the active picker session.
//
// Mutating verbs (Confirm, Shuffle, Restore, DeleteOne) are
// last-writer-wins under concurrent use; the deployment is a single
// low-concurrency slideshow, so they are not serialized. Refresh is the one
// call that storms (every stale read triggers it), so it is collapsed
// through singleflight.
type PhotoCache struct {
	mu        sync.RWMutex
	items     []domain.PhotoDescriptor
	fetchedAt time.Time

	ttl        time.Duration
	store      SessionStore
	tokenStore TokenStore
	picker     PickerClient
	tokens     AccessTokenSource
	blobs      BlobCache

	refreshGroup singleflight.Group
	now          func() time.Time
}

// PhotoCacheOption mutates construction-time settings.
type PhotoCacheOption func(*PhotoCache)

// WithNowFunc injects the clock, primarily for tests.
func WithNowFunc(now func() time.Time) PhotoCacheOption {
	return func(c *PhotoCache) { c.now = now }
}

func NewPhotoCache(ttl time.Duration, store SessionStore, tokenStore TokenStore, picker PickerClient, tokens AccessTokenSource, blobs BlobCache, options ...PhotoCacheOption) *PhotoCache {
	c := &PhotoCache{
		ttl:        ttl,
		store:      store,
		tokenStore: tokenStore,
		picker:     picker,
		tokens:     tokens,
		blobs:      blobs,
		now:        time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Items returns a copy of the current photo set.
func (c *PhotoCache) Items() []domain.PhotoDescriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.PhotoDescriptor, len(c.items))
	copy(out, c.items)
	return out
}

// FetchedAt returns the time of the last successful population.
func (c *PhotoCache) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

// Descriptor looks up one photo by id.
func (c *PhotoCache) Descriptor(id string) (domain.PhotoDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.PhotoDescriptor{}, false
}

func (c *PhotoCache) stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt.IsZero() || c.now().Sub(c.fetchedAt) > c.ttl
}

// List refreshes the cache if stale and returns the photo set.
func (c *PhotoCache) List(ctx context.Context) []domain.PhotoDescriptor {
	if c.stale() {
		c.Refresh(ctx)
	}
	return c.Items()
}

// Refresh rebuilds the photo set from the vendor. It never returns an
// error: with no session the cache resets to empty, with no usable token it
// falls back to the persisted snapshot, and on a vendor failure it keeps
// serving the current in-memory set (availability over freshness).
// Concurrent callers share one underlying vendor call.
func (c *PhotoCache) Refresh(ctx context.Context) {
	_, _, _ = c.refreshGroup.Do("refresh", func() (any, error) {
		c.refreshOnce(ctx)
		return nil, nil
	})
}

func (c *PhotoCache) refreshOnce(ctx context.Context) {
	log := logger.FromContext(ctx)

	cfg, ok, err := c.store.LoadSession()
	if err != nil {
		log.Warn("refresh: session config unreadable, keeping current cache", zap.Error(err))
		return
	}
	if !ok {
		c.reset()
		return
	}

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		if len(cfg.SavedSnapshot) > 0 {
			log.Info("refresh: no usable token, serving persisted snapshot", zap.Int("photos", len(cfg.SavedSnapshot)))
			c.replace(cfg.SavedSnapshot, c.now())
		} else {
			c.reset()
		}
		return
	}

	raw, err := c.picker.ListAllMediaItems(ctx, cfg.SessionID, token)
	if err != nil {
		// Keep whatever is already cached; stale photos beat a blank
		// slideshow.
		log.Warn("refresh: vendor listing failed, keeping current cache", zap.Error(err))
		return
	}

	items := mapMediaItems(raw, cfg.SelectedIDs)
	c.replace(items, c.now())

	cfg.SavedSnapshot = items
	cfg.UpdatedAt = c.now()
	if err := c.store.SaveSession(cfg); err != nil {
		log.Warn("refresh: failed to persist snapshot", zap.Error(err))
	}
}

// Confirm is the authoritative replacement after the user finishes picking:
// it fetches everything in the session, ignoring any previously selected
// ids, and persists a fresh session config.
func (c *PhotoCache) Confirm(ctx context.Context, sessionID string) ([]domain.PhotoDescriptor, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := c.picker.ListAllMediaItems(ctx, sessionID, token)
	if err != nil {
		return nil, err
	}

	items := mapMediaItems(raw, nil)
	now := c.now()
	c.replace(items, now)

	cfg := &domain.SessionConfig{
		SessionID:     sessionID,
		SelectedIDs:   descriptorIDs(items),
		SavedSnapshot: items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := c.store.SaveSession(cfg); err != nil {
		return nil, infraerrors.InternalServer("SESSION_SAVE_FAILED", "failed to persist session config").WithCause(err)
	}
	return items, nil
}

// Shuffle re-fetches the full pool for the current session so previously
// dropped items are available again, applies a Fisher-Yates permutation,
// and keeps the first count items (count<=0 keeps all, only reordered). The
// resulting subset becomes the new selection, snapshot, and cache.
func (c *PhotoCache) Shuffle(ctx context.Context, count int) ([]domain.PhotoDescriptor, error) {
	if count < 0 {
		return nil, ErrInvalidCount
	}

	cfg, ok, err := c.store.LoadSession()
	if err != nil {
		return nil, infraerrors.InternalServer("SESSION_LOAD_FAILED", "failed to load session config").WithCause(err)
	}
	if !ok || cfg.SessionID == "" {
		return nil, ErrNoSession
	}

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := c.picker.ListAllMediaItems(ctx, cfg.SessionID, token)
	if err != nil {
		return nil, err
	}

	pool := mapMediaItems(raw, nil)
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	if count > 0 {
		if count > len(pool) {
			count = len(pool)
		}
		pool = pool[:count]
	}

	now := c.now()
	c.replace(pool, now)

	cfg.SelectedIDs = descriptorIDs(pool)
	cfg.SavedSnapshot = pool
	cfg.UpdatedAt = now
	if err := c.store.SaveSession(cfg); err != nil {
		return nil, infraerrors.InternalServer("SESSION_SAVE_FAILED", "failed to persist session config").WithCause(err)
	}
	return pool, nil
}

// Restore applies a client-supplied snapshot, but only when the in-memory
// cache is empty; a populated cache is never overwritten. The restored set
// is persisted so it survives a restart.
func (c *PhotoCache) Restore(snapshot []domain.PhotoDescriptor) ([]domain.PhotoDescriptor, error) {
	c.mu.Lock()
	if len(c.items) > 0 {
		current := make([]domain.PhotoDescriptor, len(c.items))
		copy(current, c.items)
		c.mu.Unlock()
		return current, nil
	}
	restored := dedupeByID(snapshot)
	c.items = restored
	c.fetchedAt = c.now()
	c.mu.Unlock()

	cfg, ok, err := c.store.LoadSession()
	if err != nil || !ok {
		cfg = &domain.SessionConfig{CreatedAt: c.now()}
	}
	if len(cfg.SelectedIDs) == 0 {
		cfg.SelectedIDs = vendorIDs(restored)
	}
	cfg.SavedSnapshot = restored
	cfg.UpdatedAt = c.now()
	if err := c.store.SaveSession(cfg); err != nil {
		logger.L().Warn("restore: failed to persist snapshot", zap.Error(err))
	}
	return restored, nil
}

// DeleteOne removes a photo from the in-memory set, the persisted
// selection/snapshot, and the byte cache. Cleanup is best-effort: a failure
// in one store must not block removal from the others. An id absent from
// memory is still scrubbed from the byte cache and the persisted state,
// since a cold start may not have materialized the snapshot yet, but it
// reports not found.
func (c *PhotoCache) DeleteOne(ctx context.Context, id string) error {
	c.mu.Lock()
	found := false
	kept := c.items[:0]
	for _, item := range c.items {
		if item.ID == id {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	c.items = kept
	c.mu.Unlock()

	log := logger.FromContext(ctx)
	if err := c.blobs.Delete(id); err != nil {
		log.Warn("delete: failed to remove cached bytes", zap.String("photo_id", id), zap.Error(err))
	}

	cfg, ok, err := c.store.LoadSession()
	if err != nil {
		log.Warn("delete: session config unreadable", zap.Error(err))
	} else if ok {
		selected := removeString(cfg.SelectedIDs, id)
		snapshot := removeDescriptor(cfg.SavedSnapshot, id)
		if len(selected) != len(cfg.SelectedIDs) || len(snapshot) != len(cfg.SavedSnapshot) {
			cfg.SelectedIDs = selected
			cfg.SavedSnapshot = snapshot
			cfg.UpdatedAt = c.now()
			if err := c.store.SaveSession(cfg); err != nil {
				// The photo would resurrect on the next refresh, so this is
				// worth a loud log even though the other removals happened.
				log.Warn("delete: failed to persist updated selection", zap.String("photo_id", id), zap.Error(err))
			}
		}
	}

	if !found {
		return ErrPhotoNotFound
	}
	return nil
}

// Disconnect clears all cache, config, token, and byte-cache state
// unconditionally. Each cleanup step is best-effort.
func (c *PhotoCache) Disconnect(ctx context.Context) {
	log := logger.FromContext(ctx)
	c.reset()
	if err := c.store.DeleteSession(); err != nil {
		log.Warn("disconnect: failed to delete session config", zap.Error(err))
	}
	if err := c.tokenStore.DeleteTokens(); err != nil {
		log.Warn("disconnect: failed to delete stored tokens", zap.Error(err))
	}
	if err := c.blobs.Clear(); err != nil {
		log.Warn("disconnect: failed to clear byte cache", zap.Error(err))
	}
}

func (c *PhotoCache) reset() {
	c.mu.Lock()
	c.items = nil
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

func (c *PhotoCache) replace(items []domain.PhotoDescriptor, fetchedAt time.Time) {
	c.mu.Lock()
	c.items = items
	if fetchedAt.After(c.fetchedAt) {
		c.fetchedAt = fetchedAt
	}
	c.mu.Unlock()
}

// mapMediaItems drops placeholder items, applies the selection filter when
// one exists, and deduplicates by id.
func mapMediaItems(raw []domain.RawMediaItem, selectedIDs []string) []domain.PhotoDescriptor {
	var selected map[string]struct{}
	if len(selectedIDs) > 0 {
		selected = make(map[string]struct{}, len(selectedIDs))
		for _, id := range selectedIDs {
			selected[id] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(raw))
	items := make([]domain.PhotoDescriptor, 0, len(raw))
	for _, item := range raw {
		if !item.HasMediaFile() {
			continue
		}
		if selected != nil {
			if _, ok := selected[item.ID]; !ok {
				continue
			}
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		items = append(items, domain.PhotoDescriptor{
			ID:        item.ID,
			SourceURL: item.MediaFile.BaseURL,
			MimeType:  item.MediaFile.MimeType,
			Filename:  item.MediaFile.Filename,
			Origin:    domain.OriginVendor,
		})
	}
	return items
}

func descriptorIDs(items []domain.PhotoDescriptor) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func vendorIDs(items []domain.PhotoDescriptor) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.Origin == domain.OriginVendor {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

func dedupeByID(items []domain.PhotoDescriptor) []domain.PhotoDescriptor {
	seen := make(map[string]struct{}, len(items))
	out := make([]domain.PhotoDescriptor, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

func removeString(values []string, target string) []string {
	out := values[:0]
	for _, v := range values {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}

func removeDescriptor(items []domain.PhotoDescriptor, id string) []domain.PhotoDescriptor {
	out := items[:0]
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// IsNotFound reports whether err is the photo-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPhotoNotFound)
}
