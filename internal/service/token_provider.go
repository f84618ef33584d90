package service

import (
	"context"
	"time"

	infraerrors "github.com/zihao-lin/photoframe/internal/pkg/errors"
	"github.com/zihao-lin/photoframe/internal/pkg/googleoauth"
	"github.com/zihao-lin/photoframe/internal/pkg/logger"

	"go.uber.org/zap"
)

// ErrNotAuthenticated is returned when no usable vendor credentials exist.
var ErrNotAuthenticated = infraerrors.Unauthorized("NOT_AUTHENTICATED", "no usable google credentials")

// TokenStore persists the opaque vendor token document.
type TokenStore interface {
	LoadTokens() ([]byte, bool, error)
	SaveTokens(doc []byte) error
	DeleteTokens() error
}

// OAuthClient renews access tokens against the vendor's token endpoint.
// The renewal comes back as a raw JSON document for merge-not-replace
// persistence.
type OAuthClient interface {
	RefreshToken(ctx context.Context, refreshToken string) ([]byte, error)
}

// AccessTokenSource yields a bearer token, renewing transparently.
type AccessTokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// TokenProvider implements AccessTokenSource over the credential store and
// the vendor OAuth client.
type TokenProvider struct {
	store TokenStore
	oauth OAuthClient
	now   func() time.Time
}

func NewTokenProvider(store TokenStore, oauth OAuthClient) *TokenProvider {
	return &TokenProvider{
		store: store,
		oauth: oauth,
		now:   time.Now,
	}
}

// AccessToken returns a valid bearer token. An expired token triggers a
// renewal; the renewal response is merged over the stored document (a
// refresh response may omit the refresh token) and persisted before the new
// token is handed out.
func (p *TokenProvider) AccessToken(ctx context.Context) (string, error) {
	doc, ok, err := p.store.LoadTokens()
	if err != nil {
		return "", infraerrors.InternalServer("TOKEN_LOAD_FAILED", "failed to load stored credentials").WithCause(err)
	}
	if !ok {
		return "", ErrNotAuthenticated
	}

	now := p.now()
	if token := googleoauth.AccessToken(doc); token != "" && !googleoauth.Expired(doc, now) {
		return token, nil
	}

	refreshToken := googleoauth.RefreshTokenValue(doc)
	if refreshToken == "" {
		// No way to renew; hand out whatever is stored and let the vendor
		// reject it if it is truly dead.
		if token := googleoauth.AccessToken(doc); token != "" {
			return token, nil
		}
		return "", ErrNotAuthenticated
	}

	renewal, err := p.oauth.RefreshToken(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	merged, err := googleoauth.MergeTokenDocument(doc, renewal, now)
	if err != nil {
		return "", infraerrors.InternalServer("TOKEN_MERGE_FAILED", "failed to merge renewed credentials").WithCause(err)
	}
	if err := p.store.SaveTokens(merged); err != nil {
		return "", infraerrors.InternalServer("TOKEN_SAVE_FAILED", "failed to persist renewed credentials").WithCause(err)
	}

	token := googleoauth.AccessToken(merged)
	if token == "" {
		return "", ErrNotAuthenticated
	}
	logger.L().Debug("access token renewed", zap.Time("renewed_at", now))
	return token, nil
}
