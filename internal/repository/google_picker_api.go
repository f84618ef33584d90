package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zihao-lin/photoframe/internal/config"
	"github.com/zihao-lin/photoframe/internal/domain"
	infraerrors "github.com/zihao-lin/photoframe/internal/pkg/errors"
	"github.com/zihao-lin/photoframe/internal/pkg/httpclient"

	"github.com/imroc/req/v3"
)

// GooglePickerAPI talks to the Photos Picker REST API. JSON calls go
// through a req client with a bounded timeout; image downloads use the
// shared http.Client pool since they move larger bodies.
type GooglePickerAPI struct {
	baseURL  string
	pageSize int
	client   *req.Client
	download *http.Client
}

// NewGooglePickerAPI builds the picker client from config.
func NewGooglePickerAPI(cfg *config.Config) *GooglePickerAPI {
	return &GooglePickerAPI{
		baseURL:  cfg.Picker.BaseURL,
		pageSize: cfg.Picker.PageSize,
		client:   req.C().SetTimeout(cfg.Picker.Timeout()),
		download: httpclient.GetClient(httpclient.Options{
			Timeout:               cfg.Picker.DownloadTimeout(),
			ResponseHeaderTimeout: cfg.Picker.Timeout(),
		}),
	}
}

// Wire shapes of the picker API.
type pickerSessionResponse struct {
	ID            string `json:"id"`
	PickerURI     string `json:"pickerUri"`
	ExpireTime    string `json:"expireTime"`
	MediaItemsSet bool   `json:"mediaItemsSet"`
}

type pickerMediaFile struct {
	BaseURL  string `json:"baseUrl"`
	MimeType string `json:"mimeType"`
	Filename string `json:"filename"`
}

type pickerMediaItem struct {
	ID         string           `json:"id"`
	Type       string           `json:"type"`
	CreateTime string           `json:"createTime"`
	MediaFile  *pickerMediaFile `json:"mediaFile"`
}

type pickerMediaItemsPage struct {
	MediaItems    []pickerMediaItem `json:"mediaItems"`
	NextPageToken string            `json:"nextPageToken"`
}

func (a *GooglePickerAPI) CreateSession(ctx context.Context, accessToken string) (*domain.PickerSession, error) {
	var out pickerSessionResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetBearerAuthToken(accessToken).
		SetSuccessResult(&out).
		Post(a.baseURL + "/sessions")

	if err != nil {
		return nil, infraerrors.ServiceUnavailable("PICKER_UNREACHABLE", "create session request failed").WithCause(err)
	}
	if !resp.IsSuccessState() {
		return nil, vendorStatusError("create session", resp.StatusCode)
	}
	return out.toDomain(), nil
}

func (a *GooglePickerAPI) PollSession(ctx context.Context, sessionID, accessToken string) (*domain.PickerSession, error) {
	var out pickerSessionResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetBearerAuthToken(accessToken).
		SetSuccessResult(&out).
		Get(a.baseURL + "/sessions/" + sessionID)

	if err != nil {
		return nil, infraerrors.ServiceUnavailable("PICKER_UNREACHABLE", "poll session request failed").WithCause(err)
	}
	if !resp.IsSuccessState() {
		return nil, vendorStatusError("poll session", resp.StatusCode)
	}
	return out.toDomain(), nil
}

// ListAllMediaItems follows nextPageToken until the selection is fully
// materialized. Placeholder items are returned as-is; filtering is the
// caller's concern.
func (a *GooglePickerAPI) ListAllMediaItems(ctx context.Context, sessionID, accessToken string) ([]domain.RawMediaItem, error) {
	var items []domain.RawMediaItem
	pageToken := ""
	for {
		var page pickerMediaItemsPage
		r := a.client.R().
			SetContext(ctx).
			SetBearerAuthToken(accessToken).
			SetQueryParam("sessionId", sessionID).
			SetQueryParam("pageSize", fmt.Sprintf("%d", a.pageSize)).
			SetSuccessResult(&page)
		if pageToken != "" {
			r.SetQueryParam("pageToken", pageToken)
		}

		resp, err := r.Get(a.baseURL + "/mediaItems")
		if err != nil {
			return nil, infraerrors.ServiceUnavailable("PICKER_UNREACHABLE", "list media items request failed").WithCause(err)
		}
		if !resp.IsSuccessState() {
			return nil, vendorStatusError("list media items", resp.StatusCode)
		}

		for _, item := range page.MediaItems {
			items = append(items, item.toDomain())
		}
		if page.NextPageToken == "" {
			return items, nil
		}
		pageToken = page.NextPageToken
	}
}

// FetchImage downloads bytes from a signed URL. Non-2xx statuses come back
// as status-coded errors so the proxy can pass the vendor status through.
func (a *GooglePickerAPI) FetchImage(ctx context.Context, url, accessToken string) ([]byte, string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", infraerrors.BadRequest("INVALID_SOURCE_URL", "invalid source url").WithCause(err)
	}
	if accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := a.download.Do(httpReq)
	if err != nil {
		return nil, "", infraerrors.ServiceUnavailable("PICKER_UNREACHABLE", "image download failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, "", vendorStatusError("image download", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", infraerrors.ServiceUnavailable("PICKER_UNREACHABLE", "image download interrupted").WithCause(err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// vendorStatusError keeps the vendor's status code on the error so upper
// layers can branch on 401/403 and pass the status through.
func vendorStatusError(op string, status int) error {
	return infraerrors.New(status, "VENDOR_STATUS", fmt.Sprintf("%s: vendor returned status %d", op, status))
}

func (r pickerSessionResponse) toDomain() *domain.PickerSession {
	return &domain.PickerSession{
		ID:            r.ID,
		PickerURI:     r.PickerURI,
		ExpireTime:    parseVendorTime(r.ExpireTime),
		MediaItemsSet: r.MediaItemsSet,
	}
}

func (i pickerMediaItem) toDomain() domain.RawMediaItem {
	out := domain.RawMediaItem{
		ID:         i.ID,
		Type:       i.Type,
		CreateTime: parseVendorTime(i.CreateTime),
	}
	if i.MediaFile != nil {
		out.MediaFile = &domain.MediaFile{
			BaseURL:  i.MediaFile.BaseURL,
			MimeType: i.MediaFile.MimeType,
			Filename: i.MediaFile.Filename,
		}
	}
	return out
}

func parseVendorTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
