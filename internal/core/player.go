package core

import (
	"context"
	"time"
)

// Credential is an opaque bearer token for the streaming API. It is passed
// through to every call that needs it and never inspected.
type Credential string

// CredentialSource hands out a currently valid credential.
type CredentialSource interface {
	Credential(ctx context.Context) (Credential, error)
}

// StaticCredential is a CredentialSource that always returns the same token.
type StaticCredential Credential

// Credential implements CredentialSource.
func (s StaticCredential) Credential(context.Context) (Credential, error) {
	return Credential(s), nil
}

// Player defines the read and control operations against a streaming service.
type Player interface {
	// State queries
	CurrentlyPlaying(ctx context.Context, cred Credential) (*PlaybackSnapshot, error)
	RecentlyPlayed(ctx context.Context, cred Credential, limit int) ([]RecentlyPlayed, error)

	// Playback control
	Play(ctx context.Context, cred Credential) error
	Pause(ctx context.Context, cred Credential) error
	Next(ctx context.Context, cred Credential) error
	Prev(ctx context.Context, cred Credential) error
}

// RecentlyPlayed represents a recently played track.
type RecentlyPlayed struct {
	Track    *Track    `json:"track"`
	PlayedAt time.Time `json:"played_at"`
}
