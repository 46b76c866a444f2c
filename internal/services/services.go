// package services defines interface Gateway for the journey backend
package services

import (
	"context"

	"github.com/Lesmash/spotify-playlist-creator/internal/journey"
	"github.com/Lesmash/spotify-playlist-creator/internal/models"
)

// RequestIDHeader is set on every outgoing request.
const RequestIDHeader = "X-Request-ID"

// Gateway is every backend call the client makes.
type Gateway interface {
	// LoginURL returns the provider authorization URL to open in a browser.
	LoginURL(ctx context.Context) (string, error)

	// Profile fetches the signed-in user's display name and avatar.
	Profile(ctx context.Context, token string) (models.Profile, error)

	// TopArtists fetches the user's top artists.
	TopArtists(ctx context.Context, token string) ([]models.TopArtist, error)

	// TopTracks fetches the user's top tracks.
	TopTracks(ctx context.Context, token string) ([]models.TopTrack, error)

	// CreateJourney sends prompt and returns the decided result.
	// A returned error means transport or HTTP failure; backend-reported errors are a [journey.Failure].
	CreateJourney(ctx context.Context, token, prompt string) (journey.Result, error)

	// Health reports whether the backend is up.
	Health(ctx context.Context) (Health, error)
}

// Health is the backend's root endpoint payload.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// OK reports whether the backend says it is running.
func (h Health) OK() bool { return h.Status == "ok" }
