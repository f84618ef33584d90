package service

import (
	"context"
	"testing"
	"time"

	"github.com/zihao-lin/photoframe/internal/domain"

	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, store *fakeSessionStore, tokenStore *fakeTokenStore, picker *fakePicker, tokens *fakeTokenSource, blobs *fakeBlobCache) *PhotoCache {
	t.Helper()
	return NewPhotoCache(50*time.Minute, store, tokenStore, picker, tokens, blobs)
}

func TestRefreshPopulatesAndPersistsSnapshot(t *testing.T) {
	store := &fakeSessionStore{cfg: &domain.SessionConfig{
		SessionID:   "sess-1",
		SelectedIDs: []string{"a", "b"},
	}}
	picker := &fakePicker{items: []domain.RawMediaItem{
		vendorItem("a", "https://lh3.example.com/a"),
		vendorItem("b", "https://lh3.example.com/b"),
		vendorItem("c", "https://lh3.example.com/c"),
		{ID: "placeholder", Type: "PHOTO"},
	}}
	cache := newTestCache(t, store, &fakeTokenStore{}, picker, &fakeTokenSource{token: "tok"}, newFakeBlobCache())

	cache.Refresh(context.Background())

	items := cache.Items()
	require.Len(t, items, 2, "only selected, resolvable items survive")
	require.Equal(t, "a", items[0].ID)
	require.Equal(t, "b", items[1].ID)
	require.False(t, cache.FetchedAt().IsZero())

	require.Equal(t, 1, store.saves)
	require.Len(t, store.cfg.SavedSnapshot, 2)
}

func TestRefreshVendorFailureKeepsCurrentSet(t *testing.T) {
	store := &fakeSessionStore{cfg: &domain.SessionConfig{SessionID: "sess-1"}}
	picker := &fakePicker{items: []domain.RawMediaItem{vendorItem("a", "https://lh3.example.com/a")}}
	cache := newTestCache(t, store, &fakeTokenStore{}, picker, &fakeTokenSource{token: "tok"}, newFakeBlobCache())

	cache.Refresh(context.Background())
	require.Len(t, cache.Items(), 1)
	firstFetch := cache.FetchedAt()

	picker.listErr = ErrNoSession // any error will do
	cache.Refresh(context.Background())

	require.Len(t, cache.Items(), 1, "vendor failure must not blank the slideshow")
	require.Equal(t, firstFetch, cache.FetchedAt())
}

func TestRefreshNoTokenFallsBackToSnapshot(t *testing.T) {
	snapshot := []domain.PhotoDescriptor{vendorDescriptor("a", "https://lh3.example.com/a")}
	store := &fakeSessionStore{cfg: &domain.SessionConfig{
		SessionID:     "sess-1",
		SavedSnapshot: snapshot,
	}}
	picker := &fakePicker{}
	cache := newTestCache(t, store, &fakeTokenStore{}, picker, &fakeTokenSource{err: ErrNotAuthenticated}, newFakeBlobCache())

	cache.Refresh(context.Background())

	items := cache.Items()
	require.Len(t, items, 1)
	require.Equal(t, "a", items[0].ID)
	require.Zero(t, picker.listCalls, "no vendor call without a token")
}

func TestRefreshNoTokenNoSnapshotResets(t *testing.T) {
	store := &fakeSessionStore{cfg: &domain.SessionConfig{SessionID: "sess-1"}}
	cache := newTestCache(t, store, &fakeTokenStore{}, &fakePicker{}, &fakeTokenSource{err: ErrNotAuthenticated}, newFakeBlobCache())

	cache.Refresh(context.Background())

	require.Empty(t, cache.Items())
	require.True(t, cache.FetchedAt().IsZero())
}

func TestRefreshNoSessionResets(t *testing.T) {
	store := &fakeSessionStore{}
	picker := &fakePicker{items: []domain.RawMediaItem{vendorItem("a", "https://lh3.example.com/a")}}
	cache := newTestCache(t, store, &fakeTokenStore{}, picker, &fakeTokenSource{token: "tok"}, newFakeBlobCache())

	// Populate first, then drop the session.
	store.cfg = &domain.SessionConfig{SessionID: "sess-1"}
	cache.Refresh(context.Background())
	require.Len(t, cache.Items(), 1)

	store.cfg = nil
	cache.Refresh(context.Background())

	require.Empty(t, cache.Items())
	require.True(t, cache.FetchedAt().IsZero())
}

func TestListRefreshesWhenStale(t *testing.T) {
	store := &fakeSessionStore{cfg: &domain.SessionConfig{SessionID: "sess-1"}}
	picker := &fakePicker{items: []domain.RawMediaItem{vendorItem("a", "https://lh3.example.com/a")}}

	current := time.Now()
	cache := NewPhotoCache(50*time.Minute, store, &fakeTokenStore{}, picker, &fakeTokenSource{token: "tok"}, newFakeBlobCache(),
		WithNowFunc(func() time.Time { return current }))

	items := cache.List(context.Background())
	require.Len(t, items, 1)
	require.Equal(t, 1, picker.listCalls)

	// Within the TTL no vendor call happens.
	current = current.Add(10 * time.Minute)
	cache.List(context.Background())
	require.Equal(t, 1, picker.listCalls)

	// Past the TTL the next read refreshes.
	current = current.Add(45 * time.Minute)
	cache.List(context.Background())
	require.Equal(t, 2, picker.listCalls)
}

func TestConfirmIgnoresPriorSelection(t *testing.T) {
	store := &fakeSessionStore{cfg: &domain.SessionConfig{
		SessionID:   "sess-old",
		SelectedIDs: []string{"old-only"},
	}}
	picker := &fakePicker{items: []domain.RawMediaItem{
		vendorItem("x", "https://lh3.example.com/x"),
		vendorItem("y", "https://lh3.example.com/y"),
		vendorItem("z", "https://lh3.example.com/z"),
		{ID: "pending", Type: "PHOTO"},
	}}
	cache := newTestCache(t, store, &fakeTokenStore{}, picker, &fakeTokenSource{token: "tok"}, newFakeBlobCache())

	items, err := cache.Confirm(context.Background(), "sess-new")
	require.NoError(t, err)
	require.Len(t, items, 3, "the placeholder is dropped silently")

	require.Equal(t, "sess-new", store.cfg.SessionID)
	require.Equal(t, []string{"x", "y", "z"}, store.cfg.SelectedIDs)
	require.Len(t, store.cfg.SavedSnapshot, 3)
}

func TestConfirmTokenFailurePropagates(t *testing.T) {
	cache := newTestCache(t, &fakeSessionStore{}, &fakeTokenStore{}, &fakePicker{}, &fakeTokenSource{err: ErrNotAuthenticated}, newFakeBlobCache())

	_, err := cache.Confirm(context.Background(), "sess-1")
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestShuffleValidation(t *testing.T) {
	cache := newTestCache(t, &fakeSessionStore{}, &fakeTokenStore{}, &fakePicker{}, &fakeTokenSource{token: "tok"}, newFakeBlobCache())

	_, err := cache.Shuffle(context.Background(), -1)
	require.ErrorIs(t, err, ErrInvalidCount)

	_, err = cache.Shuffle(context.Background(), 3)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestShuffleClampsCountAndPersists(t *testing.T) {
	store := &fakeSessionStore{cfg: &domain.SessionConfig{
		SessionID:   "sess-1",
		SelectedIDs: []string{"a"},
	}}
	picker := &fakePicker{items: []domain.RawMediaItem{
		vendorItem("a", "https://lh3.example.com/a"),
		vendorItem("b", "https://lh3.example.com/b"),
		vendorItem("c", "https://lh3.example.com/c"),
	}}
	cache := newTestCache(t, store, &fakeTokenStore{}, picker, &fakeTokenSource{token: "tok"}, newFakeBlobCache())

	items, err := cache.Shuffle(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 3, "count above the pool size keeps the whole pool")

	items, err = cache.Shuffle(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Subset(t, []string{"a", "b", "c"}, descriptorIDs(items))
	require.NotEqual(t, items[0].ID, items[1].ID)

	require.Equal(t, descriptorIDs(items), store.cfg.SelectedIDs)
	require.Equal(t, items, store.cfg.SavedSnapshot)
	require.Equal(t, items, cache.Items())
}

func TestShuffleZeroCountKeepsAll(t *testing.T) {
	store := &fakeSessionStore{cfg: &domain.SessionConfig{
		SessionID:   "sess-1",
		SelectedIDs: []string{"a", "b"},
	}}
	picker := &fakePicker{items: []domain.RawMediaItem{
		vendorItem("a", "https://lh3.example.com/a"),
		vendorItem("b", "https://lh3.example.com/b"),
		vendorItem("c", "https://lh3.example.com/c"),
	}}
	cache := newTestCache(t, store, &fakeTokenStore{}, picker, &fakeTokenSource{token: "tok"}, newFakeBlobCache())

	items, err := cache.Shuffle(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, items, 3, "shuffle draws from the full pool, not the prior selection")
	require.ElementsMatch(t, []string{"a", "b", "c"}, descriptorIDs(items), "zero count reorders without dropping")
}

func TestRestoreOnlyWhenEmpty(t *testing.T) {
	store := &fakeSessionStore{}
	cache := newTestCache(t, store, &fakeTokenStore{}, &fakePicker{}, &fakeTokenSource{token: "tok"}, newFakeBlobCache())

	snapshot := []domain.PhotoDescriptor{
		vendorDescriptor("a", "https://lh3.example.com/a"),
		vendorDescriptor("a", "https://lh3.example.com/a"),
		vendorDescriptor("b", "https://lh3.example.com/b"),
	}
	items, err := cache.Restore(snapshot)
	require.NoError(t, err)
	require.Len(t, items, 2, "duplicate ids collapse")
	require.Equal(t, []string{"a", "b"}, store.cfg.SelectedIDs)

	// A populated cache wins over any later snapshot.
	items, err = cache.Restore([]domain.PhotoDescriptor{vendorDescriptor("z", "https://lh3.example.com/z")})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "a", items[0].ID)
}

func TestDeleteOneRemovesEverywhere(t *testing.T) {
	store := &fakeSessionStore{cfg: &domain.SessionConfig{
		SessionID:   "sess-1",
		SelectedIDs: []string{"a", "b"},
		SavedSnapshot: []domain.PhotoDescriptor{
			vendorDescriptor("a", "https://lh3.example.com/a"),
			vendorDescriptor("b", "https://lh3.example.com/b"),
		},
	}}
	blobs := newFakeBlobCache()
	require.NoError(t, blobs.Put("a", []byte("bytes"), "image/jpeg"))

	picker := &fakePicker{items: []domain.RawMediaItem{
		vendorItem("a", "https://lh3.example.com/a"),
		vendorItem("b", "https://lh3.example.com/b"),
	}}
	cache := newTestCache(t, store, &fakeTokenStore{}, picker, &fakeTokenSource{token: "tok"}, blobs)
	cache.Refresh(context.Background())

	require.NoError(t, cache.DeleteOne(context.Background(), "a"))

	items := cache.Items()
	require.Len(t, items, 1)
	require.Equal(t, "b", items[0].ID)
	require.Equal(t, []string{"b"}, store.cfg.SelectedIDs)
	require.Len(t, store.cfg.SavedSnapshot, 1)
	_, _, ok := blobs.Get("a")
	require.False(t, ok)

	// Deleting again reports not found and changes nothing.
	err := cache.DeleteOne(context.Background(), "a")
	require.ErrorIs(t, err, ErrPhotoNotFound)
	require.Len(t, cache.Items(), 1)
}

func TestDeleteOneColdStartCleansPersistedState(t *testing.T) {
	store := &fakeSessionStore{cfg: &domain.SessionConfig{
		SessionID:   "sess-1",
		SelectedIDs: []string{"a", "b"},
		SavedSnapshot: []domain.PhotoDescriptor{
			vendorDescriptor("a", "https://lh3.example.com/a"),
			vendorDescriptor("b", "https://lh3.example.com/b"),
		},
	}}
	blobs := newFakeBlobCache()
	require.NoError(t, blobs.Put("a", []byte("bytes"), "image/jpeg"))

	// No refresh: the in-memory set is empty, as right after a restart.
	cache := newTestCache(t, store, &fakeTokenStore{}, &fakePicker{}, &fakeTokenSource{token: "tok"}, blobs)

	err := cache.DeleteOne(context.Background(), "a")
	require.ErrorIs(t, err, ErrPhotoNotFound)

	// The persisted selection and snapshot are scrubbed anyway, or the photo
	// would come back on the next refresh.
	require.Equal(t, []string{"b"}, store.cfg.SelectedIDs)
	require.Len(t, store.cfg.SavedSnapshot, 1)
	require.Equal(t, "b", store.cfg.SavedSnapshot[0].ID)
	_, _, ok := blobs.Get("a")
	require.False(t, ok)

	// An id that exists nowhere triggers no save at all.
	saves := store.saves
	err = cache.DeleteOne(context.Background(), "zz")
	require.ErrorIs(t, err, ErrPhotoNotFound)
	require.Equal(t, saves, store.saves)
}

func TestDisconnectClearsAllState(t *testing.T) {
	store := &fakeSessionStore{cfg: &domain.SessionConfig{SessionID: "sess-1"}}
	tokenStore := &fakeTokenStore{doc: []byte(`{"access_token":"tok"}`)}
	blobs := newFakeBlobCache()
	require.NoError(t, blobs.Put("a", []byte("bytes"), "image/jpeg"))

	picker := &fakePicker{items: []domain.RawMediaItem{vendorItem("a", "https://lh3.example.com/a")}}
	cache := newTestCache(t, store, tokenStore, picker, &fakeTokenSource{token: "tok"}, blobs)
	cache.Refresh(context.Background())
	require.NotEmpty(t, cache.Items())

	cache.Disconnect(context.Background())

	require.Empty(t, cache.Items())
	require.True(t, cache.FetchedAt().IsZero())
	require.Nil(t, store.cfg)
	require.Nil(t, tokenStore.doc)
	require.Equal(t, 1, blobs.clears)
}

func TestMapMediaItemsDeduplicates(t *testing.T) {
	raw := []domain.RawMediaItem{
		vendorItem("a", "https://lh3.example.com/a"),
		vendorItem("a", "https://lh3.example.com/a-again"),
		vendorItem("b", "https://lh3.example.com/b"),
	}
	items := mapMediaItems(raw, nil)
	require.Len(t, items, 2)
	require.Equal(t, "https://lh3.example.com/a", items[0].SourceURL, "first occurrence wins")
}
