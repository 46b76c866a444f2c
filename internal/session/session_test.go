package session

import (
	"errors"
	"io"
	"testing"

	"github.com/Lesmash/spotify-playlist-creator/internal/models"
	"github.com/Lesmash/spotify-playlist-creator/internal/shared"
	th "github.com/Lesmash/spotify-playlist-creator/internal/testing"
)

func TestFromFragment(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantToken   string
		wantCleaned string
		wantErr     bool
	}{
		{
			name:        "token in fragment",
			raw:         "http://127.0.0.1:3000/#access_token=abc123",
			wantToken:   "abc123",
			wantCleaned: "http://127.0.0.1:3000/",
		},
		{
			name:        "token among other params",
			raw:         "http://localhost:3000/callback?x=1#token_type=Bearer&access_token=t%2Bk&expires_in=3600",
			wantToken:   "t+k",
			wantCleaned: "http://localhost:3000/callback?x=1",
		},
		{
			name:        "no fragment",
			raw:         "http://localhost:3000/",
			wantCleaned: "http://localhost:3000/",
		},
		{
			name:        "fragment without token is kept",
			raw:         "http://localhost:3000/#section",
			wantCleaned: "http://localhost:3000/#section",
		},
		{
			name:    "unparseable url",
			raw:     "http://[::1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, cleaned, err := FromFragment(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token != tt.wantToken {
				t.Errorf("token = %q, want %q", token, tt.wantToken)
			}
			if cleaned != tt.wantCleaned {
				t.Errorf("cleaned = %q, want %q", cleaned, tt.wantCleaned)
			}
		})
	}
}

func TestSession(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("starts logged out", func(t *testing.T) {
		s := New(th.NewMemoryStorage(nil), logger)
		if s.Active() || s.AccessToken() != "" || s.Token() != nil {
			t.Error("new session should be logged out")
		}
	})

	t.Run("CaptureRedirect", func(t *testing.T) {
		s := New(th.NewMemoryStorage(nil), logger)

		cleaned, err := s.CaptureRedirect("http://127.0.0.1:3000/#access_token=abc123")
		if err != nil {
			t.Fatalf("CaptureRedirect failed: %v", err)
		}
		if cleaned != "http://127.0.0.1:3000/" {
			t.Errorf("cleaned = %q", cleaned)
		}
		if !s.Active() || s.AccessToken() != "abc123" {
			t.Errorf("expected active session with abc123, got %q", s.AccessToken())
		}
	})

	t.Run("CaptureRedirect without token", func(t *testing.T) {
		s := New(th.NewMemoryStorage(nil), logger)
		if _, err := s.CaptureRedirect("http://127.0.0.1:3000/"); !IsLoggedOut(err) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if s.Active() {
			t.Error("session should stay logged out")
		}
	})

	t.Run("token is never persisted", func(t *testing.T) {
		storage := th.NewMemoryStorage(nil)
		s := New(storage, logger)
		s.SetToken("abc123")
		if storage.Writes != 0 {
			t.Errorf("expected no writes, got %d", storage.Writes)
		}
	})

	t.Run("blank token logs out", func(t *testing.T) {
		s := New(th.NewMemoryStorage(nil), logger)
		s.SetToken("abc")
		s.SetToken("  ")
		if s.Active() {
			t.Error("blank token should log out")
		}
	})

	t.Run("Token returns a copy", func(t *testing.T) {
		s := New(th.NewMemoryStorage(nil), logger)
		s.SetToken("abc")
		tok := s.Token()
		tok.AccessToken = "changed"
		if s.AccessToken() != "abc" {
			t.Error("mutating the copy changed the session")
		}
	})
}

func TestTheme(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("defaults to dark", func(t *testing.T) {
		s := New(th.NewMemoryStorage(nil), logger)
		if got := s.Load(); got != models.ThemeDark {
			t.Errorf("Load() = %q, want dark", got)
		}
	})

	t.Run("loads persisted theme", func(t *testing.T) {
		s := New(th.NewMemoryStorage(map[string]string{ThemeKey: "light"}), logger)
		if got := s.Load(); got != models.ThemeLight {
			t.Errorf("Load() = %q, want light", got)
		}
	})

	t.Run("toggle persists", func(t *testing.T) {
		storage := th.NewMemoryStorage(nil)
		s := New(storage, logger)

		next, err := s.ToggleTheme()
		if err != nil {
			t.Fatalf("ToggleTheme failed: %v", err)
		}
		if next != models.ThemeLight || storage.Value(ThemeKey) != "light" {
			t.Errorf("expected light persisted, got %q / %q", next, storage.Value(ThemeKey))
		}

		next, _ = s.ToggleTheme()
		if next != models.ThemeDark || storage.Value(ThemeKey) != "dark" {
			t.Errorf("expected dark persisted, got %q / %q", next, storage.Value(ThemeKey))
		}
	})

	t.Run("storage failures", func(t *testing.T) {
		s := New(th.FStorage{}, logger)
		if got := s.Load(); got != models.ThemeDark {
			t.Errorf("Load() = %q, want dark on read failure", got)
		}
		if _, err := s.ToggleTheme(); err == nil {
			t.Error("expected error from failing storage")
		}
		if s.Theme() != models.ThemeLight {
			t.Error("theme should change in memory even when persisting fails")
		}
	})
}
