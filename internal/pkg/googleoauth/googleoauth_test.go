package googleoauth

import (
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/stretchr/testify/require"
)

func TestExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name    string
		doc     string
		expired bool
	}{
		{"no expiry recorded", `{"access_token":"tok"}`, true},
		{"well within lifetime", `{"expires_at":1700003600}`, false},
		{"past expiry", `{"expires_at":1699990000}`, true},
		{"inside the renewal skew", `{"expires_at":1700000030}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expired, Expired([]byte(tt.doc), now))
		})
	}
}

func TestMergeTokenDocumentKeepsOmittedFields(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	stored := []byte(`{"access_token":"old","refresh_token":"rt","scope":"photos"}`)
	renewal := []byte(`{"access_token":"new","expires_in":3600,"token_type":"Bearer"}`)

	merged, err := MergeTokenDocument(stored, renewal, now)
	require.NoError(t, err)

	require.Equal(t, "new", gjson.GetBytes(merged, "access_token").String())
	require.Equal(t, "rt", gjson.GetBytes(merged, "refresh_token").String())
	require.Equal(t, "photos", gjson.GetBytes(merged, "scope").String())
	require.Equal(t, "Bearer", gjson.GetBytes(merged, "token_type").String())
	require.Equal(t, now.Unix()+3600, gjson.GetBytes(merged, "expires_at").Int())
}

func TestMergeTokenDocumentEmptyStored(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	renewal := []byte(`{"access_token":"new","refresh_token":"rt","expires_in":3599}`)

	merged, err := MergeTokenDocument(nil, renewal, now)
	require.NoError(t, err)
	require.Equal(t, "new", gjson.GetBytes(merged, "access_token").String())
	require.Equal(t, "rt", gjson.GetBytes(merged, "refresh_token").String())
	require.Equal(t, now.Unix()+3599, gjson.GetBytes(merged, "expires_at").Int())
}

func TestAccessTokenAndRefreshTokenValue(t *testing.T) {
	doc := []byte(`{"access_token":"at","refresh_token":"rt"}`)
	require.Equal(t, "at", AccessToken(doc))
	require.Equal(t, "rt", RefreshTokenValue(doc))
	require.Empty(t, AccessToken([]byte(`{}`)))
}
