// Journey backend [Gateway] implementation
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/zmb3/spotify"

	"github.com/Lesmash/spotify-playlist-creator/internal/journey"
	"github.com/Lesmash/spotify-playlist-creator/internal/models"
	"github.com/Lesmash/spotify-playlist-creator/internal/shared"
)

var _ Gateway = (*Backend)(nil)

// Backend implements [Gateway] over HTTP.
type Backend struct {
	baseURL    string
	topLimit   int
	timeRange  string
	httpClient *http.Client
	logger     *log.Logger
}

// NewBackend creates a [Backend] from config. A nil client uses [http.DefaultClient].
func NewBackend(cfg shared.BackendConfig, client *http.Client, logger *log.Logger) *Backend {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Backend{
		baseURL:    baseURL,
		topLimit:   cfg.TopLimit,
		timeRange:  cfg.TimeRange,
		httpClient: client,
		logger:     logger,
	}
}

// BaseURL returns the backend root URL.
func (b *Backend) BaseURL() string { return b.baseURL }

func (b *Backend) doRequest(ctx context.Context, method, endpoint string, query url.Values, payload, result any) error {
	apiURL := b.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := b.logger.With("method", method, "endpoint", endpoint, "request_id", requestID)
	logger.Debug("backend request")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		logger.Error("backend unreachable", "error", err)
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		httpErr := &HTTPError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			httpErr.Detail = errResp.Error
		}
		logger.Error("backend error", "status", resp.StatusCode, "detail", httpErr.Detail)
		return httpErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrPayload, err)
		}
	}

	logger.Debug("backend response", "status", resp.StatusCode)
	return nil
}

func tokenQuery(token string) (url.Values, error) {
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}
	return url.Values{"access_token": {token}}, nil
}

func (b *Backend) topQuery(token string) (url.Values, error) {
	q, err := tokenQuery(token)
	if err != nil {
		return nil, err
	}
	if b.timeRange != "" {
		q.Set("time_range", b.timeRange)
	}
	if b.topLimit > 0 {
		q.Set("limit", strconv.Itoa(b.topLimit))
	}
	return q, nil
}

// LoginURL calls GET /login.
func (b *Backend) LoginURL(ctx context.Context) (string, error) {
	var resp struct {
		AuthURL string `json:"auth_url"`
	}
	if err := b.doRequest(ctx, http.MethodGet, "/login", nil, nil, &resp); err != nil {
		return "", err
	}
	if resp.AuthURL == "" {
		return "", fmt.Errorf("%w: login response has no auth_url", shared.ErrPayload)
	}
	return resp.AuthURL, nil
}

// Profile calls GET /user-profile.
func (b *Backend) Profile(ctx context.Context, token string) (models.Profile, error) {
	q, err := tokenQuery(token)
	if err != nil {
		return models.Profile{}, err
	}

	var user spotify.PrivateUser
	if err := b.doRequest(ctx, http.MethodGet, "/user-profile", q, nil, &user); err != nil {
		return models.Profile{}, err
	}

	return models.Profile{DisplayName: user.DisplayName, ImageURL: firstImage(user.Images)}, nil
}

// TopArtists calls GET /top-artists.
func (b *Backend) TopArtists(ctx context.Context, token string) ([]models.TopArtist, error) {
	q, err := b.topQuery(token)
	if err != nil {
		return nil, err
	}

	var page spotify.FullArtistPage
	if err := b.doRequest(ctx, http.MethodGet, "/top-artists", q, nil, &page); err != nil {
		return nil, err
	}

	artists := make([]models.TopArtist, len(page.Artists))
	for i, a := range page.Artists {
		artists[i] = models.TopArtist{Name: a.Name, ImageURL: firstImage(a.Images)}
	}
	return artists, nil
}

// TopTracks calls GET /top-tracks.
func (b *Backend) TopTracks(ctx context.Context, token string) ([]models.TopTrack, error) {
	q, err := b.topQuery(token)
	if err != nil {
		return nil, err
	}

	var page spotify.FullTrackPage
	if err := b.doRequest(ctx, http.MethodGet, "/top-tracks", q, nil, &page); err != nil {
		return nil, err
	}

	tracks := make([]models.TopTrack, len(page.Tracks))
	for i, t := range page.Tracks {
		names := make([]string, len(t.Artists))
		for j, a := range t.Artists {
			names[j] = a.Name
		}
		tracks[i] = models.TopTrack{
			Name:     t.Name,
			Artist:   strings.Join(names, ", "),
			ImageURL: firstImage(t.Album.Images),
		}
	}
	return tracks, nil
}

// CreateJourney calls POST /create-journey.
func (b *Backend) CreateJourney(ctx context.Context, token, prompt string) (journey.Result, error) {
	payload := map[string]string{"prompt": prompt}
	if token != "" {
		payload["access_token"] = token
	}

	var resp JourneyResponse
	if err := b.doRequest(ctx, http.MethodPost, "/create-journey", nil, payload, &resp); err != nil {
		return nil, err
	}
	return resp.Decide(), nil
}

// Health calls GET /.
func (b *Backend) Health(ctx context.Context) (Health, error) {
	var h Health
	if err := b.doRequest(ctx, http.MethodGet, "/", nil, nil, &h); err != nil {
		return Health{}, err
	}
	return h, nil
}

// JourneyResponse is the union of every recommendation endpoint's body.
//
// external_url is the playlist link name used by the playlist-creation endpoint.
type JourneyResponse struct {
	Name        string         `json:"name,omitempty"`
	Warning     string         `json:"warning,omitempty"`
	Error       string         `json:"error,omitempty"`
	Tracks      []models.Track `json:"tracks"`
	PlaylistURL string         `json:"playlist_url,omitempty"`
	ExternalURL string         `json:"external_url,omitempty"`
}

// Decide turns the response into a [journey.Success] or, when the body carries an error, a [journey.Failure].
func (r JourneyResponse) Decide() journey.Result {
	if r.Error != "" {
		return journey.Failure{Message: r.Error}
	}

	playlistURL := r.PlaylistURL
	if playlistURL == "" {
		playlistURL = r.ExternalURL
	}
	return journey.Success{
		Name:        r.Name,
		Warning:     r.Warning,
		PlaylistURL: playlistURL,
		Tracks:      r.Tracks,
	}
}

func firstImage(images []spotify.Image) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}
