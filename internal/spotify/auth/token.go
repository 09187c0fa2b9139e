package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"

	"github.com/tessro/tuneboard/internal/core"
	tberrors "github.com/tessro/tuneboard/internal/errors"
	"github.com/tessro/tuneboard/internal/logging"
)

// ExchangeCode exchanges an authorization code for tokens.
func ExchangeCode(ctx context.Context, cfg *Config, code, codeVerifier string) (*oauth2.Token, error) {
	token, err := cfg.OAuth2().Exchange(ctx, code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	return token, nil
}

// Source hands out access tokens from the stored OAuth token, refreshing
// and re-saving it when it expires. It implements core.CredentialSource.
type Source struct {
	mu         sync.Mutex
	cfg        *oauth2.Config
	storage    *TokenStorage
	token      *oauth2.Token
	httpClient *http.Client
}

// NewSource creates a Source backed by storage.
func NewSource(cfg *Config, storage *TokenStorage) *Source {
	return &Source{cfg: cfg.OAuth2(), storage: storage}
}

// SetHTTPClient sets the client used for refresh requests.
func (s *Source) SetHTTPClient(c *http.Client) {
	s.httpClient = c
}

// Credential implements core.CredentialSource.
func (s *Source) Credential(ctx context.Context) (core.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil {
		stored, err := s.storage.Load()
		if err != nil {
			return "", err
		}
		if stored == nil {
			return "", tberrors.ErrNotAuthenticated
		}
		s.token = stored
	}

	if s.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	}

	fresh, err := s.cfg.TokenSource(ctx, s.token).Token()
	if err != nil {
		return "", fmt.Errorf("%w: refresh failed: %v", tberrors.ErrNotAuthenticated, err)
	}

	if fresh.AccessToken != s.token.AccessToken {
		if fresh.RefreshToken == "" {
			fresh.RefreshToken = s.token.RefreshToken
		}
		s.token = fresh
		if err := s.storage.Save(fresh); err != nil {
			logging.Warn().Err(err).Str("path", s.storage.Path()).Msg("failed to persist refreshed token")
		}
	}

	return core.Credential(fresh.AccessToken), nil
}
