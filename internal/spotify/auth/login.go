package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/tessro/tuneboard/internal/logging"
)

// ErrStateMismatch is returned when the callback state does not match the
// one sent with the authorization request.
var ErrStateMismatch = errors.New("oauth state mismatch")

// LoginOptions configures an interactive login.
type LoginOptions struct {
	// Timeout bounds the wait for the browser callback. Default 5 minutes.
	Timeout time.Duration

	// OpenURL is called with the authorization URL. When nil the URL is
	// only logged.
	OpenURL func(string) error
}

// Login runs the PKCE authorization code flow: it serves the redirect URI on
// loopback, sends the user to Spotify, exchanges the returned code and saves
// the token.
func Login(ctx context.Context, cfg *Config, storage *TokenStorage, opts LoginOptions) (*oauth2.Token, error) {
	port, path, err := callbackAddr(cfg.OAuth2().RedirectURL)
	if err != nil {
		return nil, err
	}

	pkce, err := NewPKCE()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PKCE: %w", err)
	}

	server, err := NewCallbackServer(port, path)
	if err != nil {
		return nil, err
	}
	server.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := cfg.BuildAuthURL(pkce)
	logging.Info().Str("url", authURL).Msg("waiting for spotify authorization")
	if opts.OpenURL != nil {
		if err := opts.OpenURL(authURL); err != nil {
			logging.Warn().Err(err).Msg("failed to open browser")
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := server.Wait(waitCtx)
	if err != nil {
		return nil, fmt.Errorf("waiting for callback: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("authorization denied: %s", result.Error)
	}
	if result.State != pkce.State {
		return nil, ErrStateMismatch
	}

	token, err := ExchangeCode(ctx, cfg, result.Code, pkce.Verifier)
	if err != nil {
		return nil, err
	}
	if err := storage.Save(token); err != nil {
		return nil, err
	}
	return token, nil
}

func callbackAddr(redirect string) (int, string, error) {
	u, err := url.Parse(redirect)
	if err != nil {
		return 0, "", fmt.Errorf("invalid redirect URI %q: %w", redirect, err)
	}
	portStr := u.Port()
	if portStr == "" {
		return 0, "", fmt.Errorf("redirect URI %q must include a port", redirect)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, "", fmt.Errorf("invalid redirect port %q: %w", portStr, err)
	}
	return port, u.Path, nil
}
