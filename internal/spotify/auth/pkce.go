package auth

import (
	"crypto/rand"
	"encoding/base64"

	"golang.org/x/oauth2"
)

// StateLength is the length of the state parameter for CSRF protection.
const StateLength = 32

// PKCE holds the code verifier and CSRF state for one login attempt.
type PKCE struct {
	Verifier string
	State    string
}

// NewPKCE generates a new PKCE code verifier and state.
func NewPKCE() (*PKCE, error) {
	state, err := generateRandomString(StateLength)
	if err != nil {
		return nil, err
	}
	return &PKCE{
		Verifier: oauth2.GenerateVerifier(),
		State:    state,
	}, nil
}

// Challenge returns the S256 code challenge for the verifier.
func (p *PKCE) Challenge() string {
	return oauth2.S256ChallengeFromVerifier(p.Verifier)
}

// generateRandomString creates a cryptographically secure random string
// using URL-safe base64 characters (A-Z, a-z, 0-9, -, _).
func generateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	encoded := base64.RawURLEncoding.EncodeToString(bytes)
	if len(encoded) > length {
		encoded = encoded[:length]
	}
	return encoded, nil
}
