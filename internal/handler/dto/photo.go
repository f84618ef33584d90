// Package dto holds the JSON shapes exposed to the slideshow frontend.
package dto

import (
	"net/url"
	"time"

	"github.com/zihao-lin/photoframe/internal/domain"
)

// Photo is one slideshow entry. URL points at this server's byte proxy,
// never at the vendor's signed URL, so the frontend is insulated from URL
// expiry.
type Photo struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Source   string `json:"source"`
}

func PhotoFromDomain(d domain.PhotoDescriptor) Photo {
	return Photo{
		ID:       d.ID,
		URL:      "/api/v1/photos/" + url.PathEscape(d.ID) + "/raw",
		Filename: d.Filename,
		MimeType: d.MimeType,
		Source:   d.Origin,
	}
}

func PhotosFromDomain(items []domain.PhotoDescriptor) []Photo {
	out := make([]Photo, 0, len(items))
	for _, item := range items {
		out = append(out, PhotoFromDomain(item))
	}
	return out
}

// PickerSession mirrors the vendor session state for the frontend poller.
type PickerSession struct {
	ID            string    `json:"id"`
	PickerURI     string    `json:"picker_uri"`
	ExpireTime    time.Time `json:"expire_time"`
	MediaItemsSet bool      `json:"media_items_set"`
}

func PickerSessionFromDomain(s *domain.PickerSession) PickerSession {
	return PickerSession{
		ID:            s.ID,
		PickerURI:     s.PickerURI,
		ExpireTime:    s.ExpireTime,
		MediaItemsSet: s.MediaItemsSet,
	}
}
