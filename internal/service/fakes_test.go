package service

import (
	"context"

	"github.com/zihao-lin/photoframe/internal/domain"
)

type fakeSessionStore struct {
	cfg     *domain.SessionConfig
	loadErr error
	saveErr error
	saves   int
	deletes int
}

func (f *fakeSessionStore) LoadSession() (*domain.SessionConfig, bool, error) {
	if f.loadErr != nil {
		return nil, false, f.loadErr
	}
	if f.cfg == nil {
		return nil, false, nil
	}
	clone := *f.cfg
	return &clone, true, nil
}

func (f *fakeSessionStore) SaveSession(cfg *domain.SessionConfig) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	clone := *cfg
	f.cfg = &clone
	return nil
}

func (f *fakeSessionStore) DeleteSession() error {
	f.deletes++
	f.cfg = nil
	return nil
}

type fakeTokenStore struct {
	doc     []byte
	loadErr error
	saveErr error
	saves   int
	deletes int
}

func (f *fakeTokenStore) LoadTokens() ([]byte, bool, error) {
	if f.loadErr != nil {
		return nil, false, f.loadErr
	}
	if f.doc == nil {
		return nil, false, nil
	}
	return f.doc, true, nil
}

func (f *fakeTokenStore) SaveTokens(doc []byte) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.doc = append([]byte(nil), doc...)
	return nil
}

func (f *fakeTokenStore) DeleteTokens() error {
	f.deletes++
	f.doc = nil
	return nil
}

type fakePicker struct {
	session   *domain.PickerSession
	items     []domain.RawMediaItem
	listErr   error
	listCalls int
}

func (f *fakePicker) CreateSession(ctx context.Context, accessToken string) (*domain.PickerSession, error) {
	return f.session, nil
}

func (f *fakePicker) PollSession(ctx context.Context, sessionID, accessToken string) (*domain.PickerSession, error) {
	return f.session, nil
}

func (f *fakePicker) ListAllMediaItems(ctx context.Context, sessionID, accessToken string) ([]domain.RawMediaItem, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

type fakeTokenSource struct {
	token string
	err   error
	calls int
}

func (f *fakeTokenSource) AccessToken(ctx context.Context) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

type blobEntry struct {
	data     []byte
	mimeType string
}

type fakeBlobCache struct {
	entries map[string]blobEntry
	putErr  error
	delErr  error
	deletes []string
	clears  int
}

func newFakeBlobCache() *fakeBlobCache {
	return &fakeBlobCache{entries: map[string]blobEntry{}}
}

func (f *fakeBlobCache) Get(id string) ([]byte, string, bool) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, "", false
	}
	return entry.data, entry.mimeType, true
}

func (f *fakeBlobCache) Put(id string, data []byte, mimeType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.entries[id] = blobEntry{data: append([]byte(nil), data...), mimeType: mimeType}
	return nil
}

func (f *fakeBlobCache) Delete(id string) error {
	f.deletes = append(f.deletes, id)
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeBlobCache) Clear() error {
	f.clears++
	f.entries = map[string]blobEntry{}
	return nil
}

func vendorItem(id, baseURL string) domain.RawMediaItem {
	return domain.RawMediaItem{
		ID:   id,
		Type: "PHOTO",
		MediaFile: &domain.MediaFile{
			BaseURL:  baseURL,
			MimeType: "image/jpeg",
			Filename: id + ".jpg",
		},
	}
}

func vendorDescriptor(id, sourceURL string) domain.PhotoDescriptor {
	return domain.PhotoDescriptor{
		ID:        id,
		SourceURL: sourceURL,
		MimeType:  "image/jpeg",
		Filename:  id + ".jpg",
		Origin:    domain.OriginVendor,
	}
}
