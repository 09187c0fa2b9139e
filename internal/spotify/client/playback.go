package client

import (
	"context"

	"github.com/tessro/tuneboard/internal/core"
)

// Play resumes playback. If deviceID is empty, uses the currently active device.
func (c *Client) Play(ctx context.Context, cred core.Credential, deviceID string) error {
	// Spotify requires a JSON body even for resume.
	return c.Put(ctx, cred, devicePath("/me/player/play", deviceID), struct{}{}, nil)
}

// Pause pauses playback.
func (c *Client) Pause(ctx context.Context, cred core.Credential, deviceID string) error {
	return c.Put(ctx, cred, devicePath("/me/player/pause", deviceID), nil, nil)
}

// Next skips to the next track.
func (c *Client) Next(ctx context.Context, cred core.Credential, deviceID string) error {
	return c.Post(ctx, cred, devicePath("/me/player/next", deviceID), nil, nil)
}

// Previous skips to the previous track.
func (c *Client) Previous(ctx context.Context, cred core.Credential, deviceID string) error {
	return c.Post(ctx, cred, devicePath("/me/player/previous", deviceID), nil, nil)
}

func devicePath(path, deviceID string) string {
	if deviceID == "" {
		return path
	}
	return BuildURL(path, map[string]string{"device_id": deviceID})
}
