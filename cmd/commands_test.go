package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Lesmash/spotify-playlist-creator/internal/history"
	"github.com/Lesmash/spotify-playlist-creator/internal/session"
	"github.com/Lesmash/spotify-playlist-creator/internal/shared"
	tu "github.com/Lesmash/spotify-playlist-creator/internal/testing"
)

type fakeBackend struct {
	mu      sync.Mutex
	tokens  []string
	prompts []string
}

func (f *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
	track := func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.tokens = append(f.tokens, r.URL.Query().Get("access_token"))
		f.mu.Unlock()
	}

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"status":"ok","message":"Spotify Mood Journey API is running"}`)
	})
	mux.HandleFunc("GET /login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"auth_url":"https://accounts.example.com/authorize"}`)
	})
	mux.HandleFunc("GET /user-profile", func(w http.ResponseWriter, r *http.Request) {
		track(w, r)
		writeJSON(w, http.StatusOK, `{"display_name":"Ada","images":[{"url":"https://img/ada.png"}]}`)
	})
	mux.HandleFunc("GET /top-artists", func(w http.ResponseWriter, r *http.Request) {
		track(w, r)
		writeJSON(w, http.StatusBadGateway, `{"error":"upstream down"}`)
	})
	mux.HandleFunc("GET /top-tracks", func(w http.ResponseWriter, r *http.Request) {
		track(w, r)
		writeJSON(w, http.StatusOK, `{"items":[{"name":"Idioteque","artists":[{"name":"Radiohead"}],"album":{"images":[]}}]}`)
	})
	mux.HandleFunc("POST /create-journey", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad create body: %v", err)
		}
		f.mu.Lock()
		f.prompts = append(f.prompts, body.Prompt)
		f.mu.Unlock()

		switch body.Prompt {
		case "explode":
			writeJSON(w, http.StatusInternalServerError, `{"error":"boom"}`)
		case "inline":
			writeJSON(w, http.StatusOK, `{"error":"No tracks could be generated"}`)
		default:
			writeJSON(w, http.StatusOK, `{"name":"Rainy Day","playlist_url":"https://open.spotify.com/playlist/1","tracks":[`+
				`{"name":"Halo","artists":[{"name":"Bey"}],"mood":"happy"},`+
				`{"name":"Hurt","artists":[{"name":"Cash"}],"mood":"sad"}]}`)
		}
	})
	return mux
}

type testEnv struct {
	runner  *Runner
	out     *bytes.Buffer
	storage *tu.MemoryStorage
	backend *fakeBackend
	srv     *httptest.Server
	copied  string
}

func newTestEnv(t *testing.T, seed map[string]string) *testEnv {
	t.Helper()
	env := &testEnv{
		out:     &bytes.Buffer{},
		storage: tu.NewMemoryStorage(seed),
		backend: &fakeBackend{},
	}
	env.srv = httptest.NewServer(env.backend.handler(t))
	t.Cleanup(env.srv.Close)

	env.runner = NewRunner(RunnerOpts{
		Logger:  shared.NewLogger(io.Discard),
		Output:  env.out,
		Storage: env.storage,
		Login: func(ctx context.Context, authURL string) (string, error) {
			if authURL != "https://accounts.example.com/authorize" {
				t.Errorf("unexpected auth url %q", authURL)
			}
			return "fresh-token", nil
		},
		Clipboard: func(s string) error {
			env.copied = s
			return nil
		},
	})
	return env
}

func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	base := []string{"journey", "--config", filepath.Join(t.TempDir(), "missing.toml"), "--backend-url", e.srv.URL}
	return e.runner.app().Run(context.Background(), append(base, args...))
}

const seededHistory = `[{"id":2,"prompt":"second prompt","timestamp":"2025-01-02T10:00:00Z","trackCount":4},` +
	`{"id":1,"prompt":"first prompt","timestamp":"2025-01-01T10:00:00Z","trackCount":3}]`

func TestStatusCommand(t *testing.T) {
	env := newTestEnv(t, nil)
	if err := env.run(t, "status"); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	for _, want := range []string{"✓ Backend is running", "Status: ok", env.srv.URL} {
		if !strings.Contains(env.out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, env.out.String())
		}
	}
}

func TestLoginCommand(t *testing.T) {
	env := newTestEnv(t, nil)
	if err := env.run(t, "login", "--print-token"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	out := env.out.String()
	if !strings.Contains(out, "✓ Logged in as Ada") || !strings.Contains(out, "Access token: fresh-token") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if env.storage.Writes != 0 {
		t.Errorf("login must not write to storage, got %d writes", env.storage.Writes)
	}
}

func TestProfileCommand(t *testing.T) {
	t.Run("requires a token", func(t *testing.T) {
		env := newTestEnv(t, nil)
		err := env.run(t, "profile")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("token from redirect fans out", func(t *testing.T) {
		env := newTestEnv(t, nil)
		err := env.run(t, "profile", "--redirect", "http://127.0.0.1:3000/#access_token=abc123")
		if err != nil {
			t.Fatalf("profile failed: %v", err)
		}

		env.backend.mu.Lock()
		tokens := env.backend.tokens
		env.backend.mu.Unlock()
		if len(tokens) != 3 {
			t.Fatalf("expected 3 fetches, got %v", tokens)
		}
		for _, tok := range tokens {
			if tok != "abc123" {
				t.Errorf("fetch used token %q", tok)
			}
		}

		out := env.out.String()
		for _, want := range []string{"Ada", "HTTP error! Status: 502", "Idioteque - Radiohead"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json output", func(t *testing.T) {
		env := newTestEnv(t, nil)
		if err := env.run(t, "profile", "--token", "abc123", "--json"); err != nil {
			t.Fatalf("profile failed: %v", err)
		}

		var got dashboardJSON
		if err := json.Unmarshal(env.out.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, env.out.String())
		}
		if got.Profile == nil || got.Profile.DisplayName != "Ada" {
			t.Errorf("profile = %+v", got.Profile)
		}
		if _, ok := got.Errors["/top-artists"]; !ok {
			t.Errorf("expected top-artists error, got %v", got.Errors)
		}
	})
}

func TestCreateCommand(t *testing.T) {
	t.Run("prints grouped journey and records history", func(t *testing.T) {
		env := newTestEnv(t, nil)
		if err := env.run(t, "create", "--token", "abc123", "rainy", "day"); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		out := env.out.String()
		for _, want := range []string{"Rainy Day", "Happy & Upbeat", "Halo - Bey", "Hurt - Cash", "https://open.spotify.com/playlist/1"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
		if !strings.Contains(env.storage.Value(history.Key), `"prompt":"rainy day"`) {
			t.Errorf("history not recorded: %s", env.storage.Value(history.Key))
		}
		if len(env.backend.tokens) != 0 {
			t.Errorf("create should not load the dashboard, got %d calls", len(env.backend.tokens))
		}
	})

	t.Run("without a token history is untouched", func(t *testing.T) {
		env := newTestEnv(t, nil)
		if err := env.run(t, "create", "rainy"); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if env.storage.Value(history.Key) != "" {
			t.Error("history should not be written while logged out")
		}
	})

	t.Run("empty prompt", func(t *testing.T) {
		env := newTestEnv(t, nil)
		err := env.run(t, "create", "--token", "abc123")
		if !errors.Is(err, shared.ErrEmptyPrompt) {
			t.Errorf("expected ErrEmptyPrompt, got %v", err)
		}
		if len(env.backend.prompts) != 0 {
			t.Error("no request should be sent for an empty prompt")
		}
	})

	t.Run("template", func(t *testing.T) {
		env := newTestEnv(t, nil)
		if err := env.run(t, "create", "--template", "2"); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if len(env.backend.prompts) != 1 || !strings.Contains(env.backend.prompts[0], "rainy Sunday") {
			t.Errorf("unexpected prompts %v", env.backend.prompts)
		}
	})

	t.Run("http failure", func(t *testing.T) {
		env := newTestEnv(t, nil)
		err := env.run(t, "create", "--token", "abc123", "explode")
		if err == nil {
			t.Fatal("expected error")
		}
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest in chain, got %v", err)
		}
		if !strings.HasPrefix(err.Error(), "Failed to create music journey: HTTP error! Status: 500") {
			t.Errorf("unexpected message %q", err.Error())
		}
		if env.storage.Value(history.Key) != "" {
			t.Error("failed create must not record history")
		}
	})

	t.Run("inline backend error", func(t *testing.T) {
		env := newTestEnv(t, nil)
		if err := env.run(t, "create", "--token", "abc123", "inline"); err != nil {
			t.Fatalf("inline errors render, got %v", err)
		}
		if !strings.Contains(env.out.String(), "Error: No tracks could be generated") {
			t.Errorf("unexpected output %q", env.out.String())
		}
		if env.storage.Value(history.Key) != "" {
			t.Error("inline error must not record history")
		}
	})

	t.Run("writes csv file", func(t *testing.T) {
		env := newTestEnv(t, nil)
		path := filepath.Join(t.TempDir(), "out.csv")
		if err := env.run(t, "create", "--token", "abc123", "--format", "csv", "--output", path, "rainy"); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		tu.AssertFileExists(t, path)
		content := tu.MustReadFile(t, path)
		if !strings.Contains(content, "Halo") || !strings.HasPrefix(content, "Mood,Name,Artists,Album,Reason") {
			t.Errorf("unexpected csv:\n%s", content)
		}
		if !strings.Contains(env.out.String(), "✓ Saved 2 tracks to "+path) {
			t.Errorf("unexpected output %q", env.out.String())
		}
	})

	t.Run("bad format", func(t *testing.T) {
		env := newTestEnv(t, nil)
		err := env.run(t, "create", "--format", "xml", "rainy")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestHistoryCommands(t *testing.T) {
	seed := map[string]string{history.Key: seededHistory}

	t.Run("hidden while logged out", func(t *testing.T) {
		env := newTestEnv(t, seed)
		if err := env.run(t, "history", "list"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("list", func(t *testing.T) {
		env := newTestEnv(t, seed)
		if err := env.run(t, "history", "list", "--token", "abc123"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		out := env.out.String()
		second := strings.Index(out, "second prompt")
		first := strings.Index(out, "first prompt")
		if second < 0 || first < 0 || second > first {
			t.Errorf("expected newest first:\n%s", out)
		}
		if !strings.Contains(out, "4 tracks") {
			t.Errorf("track count missing:\n%s", out)
		}
	})

	t.Run("list empty", func(t *testing.T) {
		env := newTestEnv(t, nil)
		if err := env.run(t, "history", "list", "--token", "abc123"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(env.out.String(), "No journeys yet.") {
			t.Errorf("unexpected output %q", env.out.String())
		}
	})

	t.Run("delete", func(t *testing.T) {
		env := newTestEnv(t, seed)
		if err := env.run(t, "history", "delete", "--token", "abc123", "2"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if strings.Contains(env.storage.Value(history.Key), "second prompt") {
			t.Error("entry not removed")
		}
	})

	t.Run("delete missing does not write", func(t *testing.T) {
		env := newTestEnv(t, seed)
		err := env.run(t, "history", "delete", "--token", "abc123", "99")
		if !errors.Is(err, shared.ErrHistoryNotFound) {
			t.Errorf("expected ErrHistoryNotFound, got %v", err)
		}
		if env.storage.Writes != 0 {
			t.Errorf("expected no writes, got %d", env.storage.Writes)
		}
	})

	t.Run("delete bad id", func(t *testing.T) {
		env := newTestEnv(t, seed)
		if err := env.run(t, "history", "delete", "--token", "abc123", "abc"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("reuse copies prompt", func(t *testing.T) {
		env := newTestEnv(t, seed)
		if err := env.run(t, "history", "reuse", "--token", "abc123", "--copy", "1"); err != nil {
			t.Fatalf("reuse failed: %v", err)
		}
		if env.out.String() != "first prompt\n" {
			t.Errorf("unexpected output %q", env.out.String())
		}
		if env.copied != "first prompt" {
			t.Errorf("clipboard = %q", env.copied)
		}
	})
}

func TestThemeCommand(t *testing.T) {
	t.Run("default is dark", func(t *testing.T) {
		env := newTestEnv(t, nil)
		if err := env.run(t, "theme"); err != nil {
			t.Fatal(err)
		}
		if env.out.String() != "dark\n" {
			t.Errorf("unexpected output %q", env.out.String())
		}
	})

	t.Run("toggle persists", func(t *testing.T) {
		env := newTestEnv(t, map[string]string{session.ThemeKey: "dark"})
		if err := env.run(t, "theme", "toggle"); err != nil {
			t.Fatal(err)
		}
		if env.storage.Value(session.ThemeKey) != "light" {
			t.Errorf("theme = %q", env.storage.Value(session.ThemeKey))
		}
	})

	t.Run("set explicit", func(t *testing.T) {
		env := newTestEnv(t, nil)
		if err := env.run(t, "theme", "LIGHT"); err != nil {
			t.Fatal(err)
		}
		if env.storage.Value(session.ThemeKey) != "light" {
			t.Errorf("theme = %q", env.storage.Value(session.ThemeKey))
		}
	})

	t.Run("invalid", func(t *testing.T) {
		env := newTestEnv(t, nil)
		if err := env.run(t, "theme", "neon"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestAPICommands(t *testing.T) {
	t.Run("get prints json", func(t *testing.T) {
		env := newTestEnv(t, nil)
		if err := env.run(t, "api", "get", "--json", "/"); err != nil {
			t.Fatalf("api get failed: %v", err)
		}
		if !strings.Contains(env.out.String(), `"status":"ok"`) {
			t.Errorf("unexpected output %q", env.out.String())
		}
	})

	t.Run("get non-2xx", func(t *testing.T) {
		env := newTestEnv(t, nil)
		err := env.run(t, "api", "get", "top-artists")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("post rejects invalid json", func(t *testing.T) {
		env := newTestEnv(t, nil)
		err := env.run(t, "api", "post", "--data", "{nope", "/create-journey")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("post", func(t *testing.T) {
		env := newTestEnv(t, nil)
		if err := env.run(t, "api", "post", "--data", `{"prompt":"rainy"}`, "/create-journey"); err != nil {
			t.Fatalf("api post failed: %v", err)
		}
		if !strings.Contains(env.out.String(), "Rainy Day") {
			t.Errorf("unexpected output %q", env.out.String())
		}
	})
}

func TestSetupCommand(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")

	t.Chdir(dir)

	runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}})
	defer runner.Close()

	if err := runner.app().Run(context.Background(), []string{"journey", "--config", configPath, "setup"}); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	tu.AssertFileExists(t, configPath)
	tu.AssertFileExists(t, filepath.Join(dir, "journey.db"))
}
