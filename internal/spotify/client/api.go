package client

import (
	"context"
	"strconv"

	"github.com/tessro/tuneboard/internal/core"
)

// GetCurrentUser returns the current user's profile.
func (c *Client) GetCurrentUser(ctx context.Context, cred core.Credential) (*User, error) {
	var user User
	if err := c.Get(ctx, cred, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetPlaybackState returns the current playback state, or nil when nothing
// is playing (Spotify answers 204).
func (c *Client) GetPlaybackState(ctx context.Context, cred core.Credential) (*PlaybackState, error) {
	var state PlaybackState
	if err := c.Get(ctx, cred, "/me/player", &state); err != nil {
		return nil, err
	}
	if state.Timestamp == 0 && state.Item == nil && state.Device.ID == "" {
		return nil, nil
	}
	return &state, nil
}

// GetRecentlyPlayed returns the user's recently played tracks.
func (c *Client) GetRecentlyPlayed(ctx context.Context, cred core.Credential, limit int) (*RecentlyPlayedResponse, error) {
	params := make(map[string]string)
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}

	var resp RecentlyPlayedResponse
	if err := c.Get(ctx, cred, BuildURL("/me/player/recently-played", params), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
