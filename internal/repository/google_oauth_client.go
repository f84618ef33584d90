package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/zihao-lin/photoframe/internal/config"
	infraerrors "github.com/zihao-lin/photoframe/internal/pkg/errors"
	"github.com/zihao-lin/photoframe/internal/pkg/googleoauth"
	"github.com/zihao-lin/photoframe/internal/pkg/logger"
	"github.com/zihao-lin/photoframe/internal/service"
	"github.com/zihao-lin/photoframe/internal/util/logredact"

	"github.com/imroc/req/v3"
	"go.uber.org/zap"
)

// NewGoogleOAuthClient returns the client used to renew access tokens
// against Google's token endpoint.
func NewGoogleOAuthClient(cfg *config.Config) service.OAuthClient {
	return &googleOAuthClient{
		tokenURL:     googleoauth.TokenURL,
		clientID:     cfg.Google.ClientID,
		clientSecret: cfg.Google.ClientSecret,
		client: req.C().
			SetTimeout(30 * time.Second),
	}
}

type googleOAuthClient struct {
	tokenURL     string
	clientID     string
	clientSecret string
	client       *req.Client
}

// RefreshToken exchanges a refresh token for a new access token and returns
// the raw response document so the caller can merge it over the stored one.
func (c *googleOAuthClient) RefreshToken(ctx context.Context, refreshToken string) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": refreshToken,
			"client_id":     c.clientID,
			"client_secret": c.clientSecret,
		}).
		Post(c.tokenURL)

	if err != nil {
		return nil, infraerrors.ServiceUnavailable("TOKEN_ENDPOINT_UNREACHABLE", "google token endpoint request failed").WithCause(err)
	}

	if !resp.IsSuccessState() {
		logger.FromContext(ctx).Warn("token refresh rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("body", logredact.RedactJSON(resp.Bytes())))
		return nil, infraerrors.Unauthorized("TOKEN_REFRESH_REJECTED",
			fmt.Sprintf("token refresh failed: status %d", resp.StatusCode))
	}

	return resp.Bytes(), nil
}
