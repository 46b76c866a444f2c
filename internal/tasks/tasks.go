// package tasks implements the concurrent sign-in fetches against the journey backend.
package tasks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/Lesmash/spotify-playlist-creator/internal/models"
	"github.com/Lesmash/spotify-playlist-creator/internal/shared"
)

// DefaultRateLimit is used when no requests-per-second limit is configured.
const DefaultRateLimit = 5.0

// Fetcher is the part of the backend gateway the dashboard needs.
type Fetcher interface {
	Profile(ctx context.Context, token string) (models.Profile, error)
	TopArtists(ctx context.Context, token string) ([]models.TopArtist, error)
	TopTracks(ctx context.Context, token string) ([]models.TopTrack, error)
}

// EndpointResult represents the result of fetching data from a single endpoint.
type EndpointResult struct {
	Endpoint string
	Error    error
}

// Dashboard is the signed-in landing data. Each region has its own error.
type Dashboard struct {
	Profile    models.Profile
	ProfileErr error
	Artists    []models.TopArtist
	ArtistsErr error
	Tracks     []models.TopTrack
	TracksErr  error
}

// Errors lists the failed regions in a fixed order.
func (d *Dashboard) Errors() []EndpointResult {
	var errs []EndpointResult
	if d.ProfileErr != nil {
		errs = append(errs, EndpointResult{Endpoint: "/user-profile", Error: d.ProfileErr})
	}
	if d.ArtistsErr != nil {
		errs = append(errs, EndpointResult{Endpoint: "/top-artists", Error: d.ArtistsErr})
	}
	if d.TracksErr != nil {
		errs = append(errs, EndpointResult{Endpoint: "/top-tracks", Error: d.TracksErr})
	}
	return errs
}

type fetch struct {
	name  string
	phase Phase
	run   func(ctx context.Context) (any, error)
}

// Loader runs the dashboard fan-out.
type Loader struct {
	fetcher Fetcher
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewLoader creates a [Loader]. rps <= 0 uses [DefaultRateLimit].
func NewLoader(fetcher Fetcher, rps float64, logger *log.Logger) *Loader {
	if rps <= 0 {
		rps = DefaultRateLimit
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Loader{
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}
}

// Load fetches profile, top artists and top tracks concurrently.
//
// It only returns an error when no fetch could be attempted; per-region failures are on the [Dashboard].
func (l *Loader) Load(ctx context.Context, token string, progress chan<- ProgressUpdate) (*Dashboard, error) {
	if l.fetcher == nil {
		return nil, fmt.Errorf("%w: backend client not initialized", shared.ErrServiceUnavailable)
	}
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	d := &Dashboard{}
	fetches := []struct {
		fetch
		store func(any, error)
	}{
		{
			fetch: fetch{name: "profile", phase: FetchProfile, run: func(ctx context.Context) (any, error) {
				return l.fetcher.Profile(ctx, token)
			}},
			store: func(v any, err error) {
				d.ProfileErr = err
				if err == nil {
					d.Profile = v.(models.Profile)
				}
			},
		},
		{
			fetch: fetch{name: "top artists", phase: FetchTopArtists, run: func(ctx context.Context) (any, error) {
				return l.fetcher.TopArtists(ctx, token)
			}},
			store: func(v any, err error) {
				d.ArtistsErr = err
				if err == nil {
					d.Artists = v.([]models.TopArtist)
				}
			},
		},
		{
			fetch: fetch{name: "top tracks", phase: FetchTopTracks, run: func(ctx context.Context) (any, error) {
				return l.fetcher.TopTracks(ctx, token)
			}},
			store: func(v any, err error) {
				d.TracksErr = err
				if err == nil {
					d.Tracks = v.([]models.TopTrack)
				}
			},
		},
	}

	total := len(fetches)
	var completed, failed atomic.Int32
	var wg sync.WaitGroup

	for i, f := range fetches {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sendProgress(progress, startedUpdate(f.fetch, i+1, total))

			v, err := l.run(ctx, f.fetch)
			f.store(v, err)

			step := int(completed.Add(1))
			if err != nil {
				failed.Add(1)
				l.logger.Error("dashboard fetch failed", "fetch", f.name, "error", err)
				sendProgress(progress, failedUpdate(f.fetch, step, total, err))
				return
			}
			sendProgress(progress, completedUpdate(f.fetch, step, total, v))
		}()
	}

	wg.Wait()
	sendProgress(progress, doneUpdate(total, int(failed.Load())))
	return d, nil
}

func (l *Loader) run(ctx context.Context, f fetch) (any, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", f.name, err)
	}
	return f.run(ctx)
}
