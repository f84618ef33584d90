package repository

import (
	"testing"
	"time"

	"github.com/zihao-lin/photoframe/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestStoreTokenRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, ok, err := store.LoadTokens()
	require.NoError(t, err)
	require.False(t, ok, "missing file reads as absent")

	doc := []byte(`{"access_token":"tok","refresh_token":"rt"}`)
	require.NoError(t, store.SaveTokens(doc))

	loaded, ok, err := store.LoadTokens()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, doc, loaded, "the document round-trips byte for byte")

	require.NoError(t, store.DeleteTokens())
	_, ok, err = store.LoadTokens()
	require.NoError(t, err)
	require.False(t, ok)

	// Deleting again is not an error.
	require.NoError(t, store.DeleteTokens())
}

func TestStoreSessionRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, ok, err := store.LoadSession()
	require.NoError(t, err)
	require.False(t, ok)

	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	cfg := &domain.SessionConfig{
		SessionID:   "sess-1",
		SelectedIDs: []string{"a", "b"},
		SavedSnapshot: []domain.PhotoDescriptor{
			{ID: "a", SourceURL: "https://lh3.example.com/a", MimeType: "image/jpeg", Origin: domain.OriginVendor},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, store.SaveSession(cfg))

	loaded, ok, err := store.LoadSession()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, cfg, loaded)

	require.NoError(t, store.DeleteSession())
	_, ok, err = store.LoadSession()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStoreSaveOverwritesWholeDocument(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.SaveTokens([]byte(`{"access_token":"one","extra":"field"}`)))
	require.NoError(t, store.SaveTokens([]byte(`{"access_token":"two"}`)))

	loaded, ok, err := store.LoadTokens()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte(`{"access_token":"two"}`), loaded, "writes replace, callers merge in memory")
}
