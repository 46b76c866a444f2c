// package session holds the signed-in state of one client: the access token captured from the
// login redirect and the persisted theme preference.
//
// The token lives only in memory. Only the theme is written to storage.
package session

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/Lesmash/spotify-playlist-creator/internal/models"
	"github.com/Lesmash/spotify-playlist-creator/internal/shared"
)

const (
	// ThemeKey is the storage key of the theme preference.
	ThemeKey = "theme"
	// TokenParam is the redirect parameter carrying the access token.
	TokenParam = "access_token"
)

// Session is the explicit session context shared by the history store, the gateway callers and the controller.
type Session struct {
	mu      sync.RWMutex
	token   *oauth2.Token
	theme   models.Theme
	storage models.Storage
	logger  *log.Logger
}

// New creates a logged-out [Session] with the default theme.
func New(storage models.Storage, logger *log.Logger) *Session {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Session{storage: storage, theme: models.ThemeDark, logger: logger}
}

// Load reads the persisted theme. A missing or unreadable value leaves the default in place.
func (s *Session) Load() models.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok, err := s.storage.Get(ThemeKey)
	if err != nil {
		s.logger.Warn("failed to read theme", "error", err)
		return s.theme
	}
	if ok {
		s.theme = models.ParseTheme(value)
	}
	return s.theme
}

// Active reports whether an access token is held.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token.Valid()
}

// AccessToken returns the held token, or "" when logged out.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return ""
	}
	return s.token.AccessToken
}

// Token returns a copy of the held token, or nil when logged out.
func (s *Session) Token() *oauth2.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return nil
	}
	t := *s.token
	return &t
}

// SetToken replaces the held token. An empty string logs the session out.
func (s *Session) SetToken(accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		s.token = nil
		return
	}
	s.token = &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
}

// CaptureRedirect extracts the token from a redirect URL and stores it.
//
// It returns the URL with the fragment removed so callers can show it without leaking the token.
func (s *Session) CaptureRedirect(rawURL string) (string, error) {
	token, cleaned, err := FromFragment(rawURL)
	if err != nil {
		return "", err
	}
	if token == "" {
		return cleaned, fmt.Errorf("%w: no %s in redirect", shared.ErrNotAuthenticated, TokenParam)
	}

	s.SetToken(token)
	s.logger.Debug("captured access token from redirect", "url", cleaned)
	return cleaned, nil
}

// Theme returns the current theme.
func (s *Session) Theme() models.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme stores and persists the theme. The in-memory value changes even when persisting fails.
func (s *Session) SetTheme(t models.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.theme = t
	if err := s.storage.Set(ThemeKey, string(t)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

// ToggleTheme flips between light and dark and persists the result.
func (s *Session) ToggleTheme() (models.Theme, error) {
	next := s.Theme().Toggle()
	return next, s.SetTheme(next)
}

// FromFragment reads access_token from the fragment of rawURL.
//
// When a token is present the returned URL has its fragment removed; otherwise rawURL is returned unchanged.
// A URL without a token is not an error.
func FromFragment(rawURL string) (token, cleaned string, err error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	fragment := u.EscapedFragment()
	if fragment == "" {
		return "", rawURL, nil
	}

	values, err := url.ParseQuery(fragment)
	if err != nil {
		return "", "", fmt.Errorf("%w: malformed fragment: %v", shared.ErrInvalidInput, err)
	}

	token = values.Get(TokenParam)
	if token == "" {
		return "", rawURL, nil
	}

	u.Fragment = ""
	u.RawFragment = ""
	return token, u.String(), nil
}

// IsLoggedOut reports whether err means a token is required.
func IsLoggedOut(err error) bool {
	return errors.Is(err, shared.ErrNotAuthenticated)
}
