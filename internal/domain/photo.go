// Package domain holds the shared data model for the photo session cache.
package domain

import "time"

// Photo origin values.
const (
	OriginVendor = "vendor"
	OriginLocal  = "local"
)

// PhotoDescriptor is one resolved photo. Descriptors are immutable once
// constructed; a refresh replaces the whole set instead of mutating entries.
type PhotoDescriptor struct {
	ID        string `json:"id"`
	SourceURL string `json:"source_url"`
	MimeType  string `json:"mime_type"`
	Filename  string `json:"filename"`
	Origin    string `json:"origin"`
}

// SessionConfig is the persisted selection state for the active picker
// session. It is owned by the credential store; the photo cache reads it and
// writes back SavedSnapshot after a successful refresh.
type SessionConfig struct {
	SessionID     string            `json:"session_id"`
	SelectedIDs   []string          `json:"selected_ids"`
	SavedSnapshot []PhotoDescriptor `json:"saved_snapshot"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// PickerSession mirrors the vendor session resource.
type PickerSession struct {
	ID            string    `json:"id"`
	PickerURI     string    `json:"picker_uri"`
	ExpireTime    time.Time `json:"expire_time"`
	MediaItemsSet bool      `json:"media_items_set"`
}

// MediaFile is the downloadable part of a vendor media item. BaseURL is a
// time-limited signed URL; items still being picked may lack one entirely.
type MediaFile struct {
	BaseURL  string `json:"base_url"`
	MimeType string `json:"mime_type"`
	Filename string `json:"filename"`
}

// RawMediaItem is a vendor media item as returned by the picking API,
// before placeholder filtering.
type RawMediaItem struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	CreateTime time.Time  `json:"create_time"`
	MediaFile  *MediaFile `json:"media_file,omitempty"`
}

// HasMediaFile reports whether the item carries a resolvable file reference.
// The picker returns placeholder entries while a selection is in progress;
// those are dropped silently by callers.
func (m RawMediaItem) HasMediaFile() bool {
	return m.MediaFile != nil && m.MediaFile.BaseURL != ""
}
