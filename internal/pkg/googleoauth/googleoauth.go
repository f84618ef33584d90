// Package googleoauth provides the constants and token-document helpers for
// Google's OAuth refresh flow.
package googleoauth

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Google OAuth endpoints.
const (
	AuthorizeURL = "https://accounts.google.com/o/oauth2/v2/auth"
	TokenURL     = "https://oauth2.googleapis.com/token"

	// ScopePicker grants read access to media items the user selected in
	// the Photos Picker.
	ScopePicker = "https://www.googleapis.com/auth/photospicker.mediaitems.readonly"
)

// expirySkew is subtracted from the token lifetime so a token is renewed
// before the vendor actually rejects it.
const expirySkew = 60 * time.Second

// TokenResponse represents the token endpoint response. Refresh responses
// routinely omit refresh_token; persistence must merge, not replace.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// AccessToken reads the access token from a stored token document.
func AccessToken(doc []byte) string {
	return gjson.GetBytes(doc, "access_token").String()
}

// RefreshTokenValue reads the refresh token from a stored token document.
func RefreshTokenValue(doc []byte) string {
	return gjson.GetBytes(doc, "refresh_token").String()
}

// Expired reports whether the document's access token is past (or within
// expirySkew of) its recorded expiry. Documents without an expiry are
// treated as expired so a refresh is attempted.
func Expired(doc []byte, now time.Time) bool {
	expiresAt := gjson.GetBytes(doc, "expires_at").Int()
	if expiresAt == 0 {
		return true
	}
	return !now.Add(expirySkew).Before(time.Unix(expiresAt, 0))
}

// MergeTokenDocument overlays a renewal response onto the stored token
// document. Every field present in the renewal wins; fields the renewal
// omits (typically refresh_token) survive from the stored document, and an
// absolute expires_at is recorded from expires_in.
func MergeTokenDocument(stored, renewal []byte, now time.Time) ([]byte, error) {
	merged := stored
	if len(strings.TrimSpace(string(merged))) == 0 {
		merged = []byte("{}")
	}

	var mergeErr error
	gjson.ParseBytes(renewal).ForEach(func(key, value gjson.Result) bool {
		merged, mergeErr = sjson.SetRawBytes(merged, key.String(), []byte(value.Raw))
		return mergeErr == nil
	})
	if mergeErr != nil {
		return nil, mergeErr
	}

	if expiresIn := gjson.GetBytes(renewal, "expires_in").Int(); expiresIn > 0 {
		merged, mergeErr = sjson.SetBytes(merged, "expires_at", now.Unix()+expiresIn)
		if mergeErr != nil {
			return nil, mergeErr
		}
	}
	return merged, nil
}
