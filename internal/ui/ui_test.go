package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Lesmash/spotify-playlist-creator/internal/controller"
	"github.com/Lesmash/spotify-playlist-creator/internal/history"
	"github.com/Lesmash/spotify-playlist-creator/internal/journey"
	"github.com/Lesmash/spotify-playlist-creator/internal/models"
	"github.com/Lesmash/spotify-playlist-creator/internal/services"
	"github.com/Lesmash/spotify-playlist-creator/internal/session"
	"github.com/Lesmash/spotify-playlist-creator/internal/shared"
	"github.com/Lesmash/spotify-playlist-creator/internal/tasks"
	th "github.com/Lesmash/spotify-playlist-creator/internal/testing"
)

type stubGateway struct {
	result    journey.Result
	createErr error
}

func (s *stubGateway) LoginURL(context.Context) (string, error) {
	return "https://accounts.example.com/authorize", nil
}

func (s *stubGateway) Profile(context.Context, string) (models.Profile, error) {
	return models.Profile{DisplayName: "Ada"}, nil
}

func (s *stubGateway) TopArtists(context.Context, string) ([]models.TopArtist, error) {
	return []models.TopArtist{{Name: "Radiohead"}, {Name: "Bjork"}}, nil
}

func (s *stubGateway) TopTracks(context.Context, string) ([]models.TopTrack, error) {
	return []models.TopTrack{{Name: "Idioteque", Artist: "Radiohead"}}, nil
}

func (s *stubGateway) CreateJourney(context.Context, string, string) (journey.Result, error) {
	return s.result, s.createErr
}

func (s *stubGateway) Health(context.Context) (services.Health, error) {
	return services.Health{Status: "ok"}, nil
}

func newTestModel(t *testing.T, token string, seed map[string]string) (*Model, *stubGateway) {
	t.Helper()
	logger := shared.NewLogger(io.Discard)
	storage := th.NewMemoryStorage(seed)
	sess := session.New(storage, logger)
	sess.SetToken(token)

	gw := &stubGateway{result: journey.Success{
		Name:        "Rainy Day",
		PlaylistURL: "https://open.spotify.com/playlist/1",
		Tracks: []models.Track{
			{Name: "Halo", Artists: []models.Artist{{Name: "Bey"}}, Mood: "happy"},
		},
	}}
	ctrl := controller.New(controller.Options{
		Gateway: gw,
		Session: sess,
		History: history.NewStore(storage, sess.Active, history.WithLogger(logger)),
		Logger:  logger,
		Login: func(context.Context, string) (string, error) {
			return "fresh", nil
		},
	})

	m := NewModel(context.Background(), ctrl, nil)
	m.Update(startedMsg{state: ctrl.Start(context.Background())})
	return m, gw
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and feeds the resulting message back into m.
func run(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	m.Update(cmd())
}

func TestModelStart(t *testing.T) {
	t.Run("logged out shows login view", func(t *testing.T) {
		m, _ := newTestModel(t, "", nil)
		if m.view != LoginView {
			t.Errorf("expected LoginView, got %v", m.view)
		}
		if !strings.Contains(m.View(), "Press enter to log in") {
			t.Errorf("login prompt missing:\n%s", m.View())
		}
	})

	t.Run("active session shows dashboard", func(t *testing.T) {
		m, _ := newTestModel(t, "abc123", nil)
		if m.view != PromptView {
			t.Fatalf("expected PromptView, got %v", m.view)
		}
		out := m.View()
		for _, want := range []string{"Logged in as Ada", "Radiohead, Bjork", "Idioteque (Radiohead)"} {
			if !strings.Contains(out, want) {
				t.Errorf("view missing %q:\n%s", want, out)
			}
		}
	})
}

func TestModelLogin(t *testing.T) {
	m, _ := newTestModel(t, "", nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.loggingIn {
		t.Fatal("expected login in progress")
	}
	run(m, cmd)

	if m.loggingIn || m.view != PromptView {
		t.Errorf("expected PromptView after login, got %v", m.view)
	}
}

func TestModelCreate(t *testing.T) {
	t.Run("success switches to results", func(t *testing.T) {
		m, _ := newTestModel(t, "abc123", nil)
		m.prompt.SetValue("rainy day")

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		run(m, cmd)

		if m.view != ResultView {
			t.Fatalf("expected ResultView, got %v", m.view)
		}
		content := m.View()
		for _, want := range []string{"Rainy Day", "Happy", "Halo - Bey"} {
			if !strings.Contains(content, want) {
				t.Errorf("result missing %q:\n%s", want, content)
			}
		}
		if rows := m.ctrl.State().History.Rows; len(rows) != 1 || rows[0].Prompt != "rainy day" {
			t.Errorf("history not recorded: %+v", rows)
		}

		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if m.view != PromptView {
			t.Errorf("esc should return to PromptView, got %v", m.view)
		}
	})

	t.Run("empty prompt raises alert", func(t *testing.T) {
		m, _ := newTestModel(t, "abc123", nil)

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		run(m, cmd)

		if !strings.Contains(m.View(), shared.ErrEmptyPrompt.Error()) {
			t.Errorf("alert missing:\n%s", m.View())
		}

		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if m.ctrl.State().HasAlert() {
			t.Error("enter should dismiss the alert")
		}
	})

	t.Run("transport failure keeps prompt view", func(t *testing.T) {
		m, gw := newTestModel(t, "abc123", nil)
		gw.createErr = &services.HTTPError{StatusCode: 500}
		m.prompt.SetValue("x")

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		run(m, cmd)

		if m.view != PromptView {
			t.Errorf("expected PromptView, got %v", m.view)
		}
		if alert := m.ctrl.State().Alert; !strings.HasPrefix(alert, controller.AlertPrefix) {
			t.Errorf("alert = %q", alert)
		}
	})

	t.Run("busy result is ignored", func(t *testing.T) {
		m, _ := newTestModel(t, "abc123", nil)
		m.creating = true
		m.Update(createDoneMsg{err: shared.ErrBusy})
		if m.creating || m.view != PromptView {
			t.Errorf("unexpected state after busy: creating=%v view=%v", m.creating, m.view)
		}
	})
}

func TestModelHistory(t *testing.T) {
	seed := map[string]string{
		history.Key: `[{"id":2,"prompt":"second","timestamp":"2025-01-02T00:00:00Z","trackCount":4},` +
			`{"id":1,"prompt":"first","timestamp":"2025-01-01T00:00:00Z","trackCount":3}]`,
	}

	t.Run("reuse fills the prompt", func(t *testing.T) {
		m, _ := newTestModel(t, "abc123", seed)

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if m.view != HistoryView {
			t.Fatalf("expected HistoryView, got %v", m.view)
		}

		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if m.view != PromptView || m.prompt.Value() != "second" {
			t.Errorf("expected prompt %q in PromptView, got %q in %v", "second", m.prompt.Value(), m.view)
		}
	})

	t.Run("edits after reuse survive a delete", func(t *testing.T) {
		m, _ := newTestModel(t, "abc123", seed)
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m.Update(keyRunes(" plus my edits"))
		if m.ctrl.State().FocusPrompt {
			t.Fatal("reused prompt should be taken once")
		}

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m.Update(keyRunes("d"))
		m.Update(tea.KeyMsg{Type: tea.KeyEsc})

		if got := m.prompt.Value(); got != "second plus my edits" {
			t.Errorf("prompt = %q, want the edited text", got)
		}
	})

	t.Run("delete removes the entry", func(t *testing.T) {
		m, _ := newTestModel(t, "abc123", seed)
		m.Update(tea.KeyMsg{Type: tea.KeyTab})

		m.Update(keyRunes("d"))
		rows := m.ctrl.State().History.Rows
		if len(rows) != 1 || rows[0].Prompt != "first" {
			t.Errorf("unexpected rows after delete: %+v", rows)
		}

		m.Update(keyRunes("d"))
		if m.view != PromptView {
			t.Errorf("empty history should return to PromptView, got %v", m.view)
		}
	})

	t.Run("tab without history stays", func(t *testing.T) {
		m, _ := newTestModel(t, "abc123", nil)
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if m.view != PromptView {
			t.Errorf("expected PromptView, got %v", m.view)
		}
	})
}

func TestModelKeys(t *testing.T) {
	t.Run("ctrl+t toggles theme", func(t *testing.T) {
		m, _ := newTestModel(t, "abc123", nil)
		before := m.ctrl.State().Theme

		m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
		if after := m.ctrl.State().Theme; after == before {
			t.Errorf("theme unchanged: %q", after)
		}
	})

	t.Run("ctrl+n cycles templates", func(t *testing.T) {
		m, _ := newTestModel(t, "abc123", nil)

		m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
		if m.prompt.Value() != controller.Templates[0] {
			t.Errorf("prompt = %q", m.prompt.Value())
		}
		m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
		if m.prompt.Value() != controller.Templates[1] {
			t.Errorf("prompt = %q", m.prompt.Value())
		}
	})

	t.Run("ctrl+c quits", func(t *testing.T) {
		m, _ := newTestModel(t, "abc123", nil)
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestWaitForProgress(t *testing.T) {
	ch := make(chan tasks.ProgressUpdate, 1)
	m := NewModel(context.Background(), nil, ch)

	ch <- tasks.ProgressUpdate{Phase: tasks.FetchProfile, Message: "Fetching profile..."}
	msg := m.waitForProgress()()
	if u, ok := msg.(progressUpdateMsg); !ok || u.Message != "Fetching profile..." {
		t.Errorf("unexpected msg %#v", msg)
	}

	close(ch)
	if _, ok := m.waitForProgress()().(progressClosedMsg); !ok {
		t.Error("expected progressClosedMsg after close")
	}
}

func TestRenderDashboard(t *testing.T) {
	p := paletteFor(models.ThemeDark)

	t.Run("failed region keeps others", func(t *testing.T) {
		d := &tasks.Dashboard{
			Profile:    models.Profile{DisplayName: "Ada"},
			ArtistsErr: errors.New("HTTP error! Status: 502"),
			Tracks:     []models.TopTrack{{Name: "Halo", Artist: "Bey"}},
		}
		out := renderDashboard(d, tasks.ProgressUpdate{}, p)
		for _, want := range []string{"Logged in as Ada", "Top artists unavailable: HTTP error! Status: 502", "Halo (Bey)"} {
			if !strings.Contains(out, want) {
				t.Errorf("missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("loading shows progress", func(t *testing.T) {
		out := renderDashboard(nil, tasks.ProgressUpdate{Message: "Fetching top tracks..."}, p)
		if !strings.Contains(out, "Fetching top tracks...") {
			t.Errorf("progress missing: %q", out)
		}
	})

	t.Run("caps lists", func(t *testing.T) {
		d := &tasks.Dashboard{}
		for _, n := range []string{"a1", "a2", "a3", "a4", "a5", "a6"} {
			d.Artists = append(d.Artists, models.TopArtist{Name: n})
		}
		out := renderDashboard(d, tasks.ProgressUpdate{}, p)
		if !strings.Contains(out, "a5") || strings.Contains(out, "a6") {
			t.Errorf("expected the first %d artists:\n%s", dashboardLimit, out)
		}
	})
}

func TestRenderJourney(t *testing.T) {
	p := paletteFor(models.ThemeLight)

	t.Run("failure", func(t *testing.T) {
		out := renderJourney(journey.Render(journey.Failure{Message: "quota exceeded"}), p)
		if !strings.Contains(out, "Error: quota exceeded") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("warning and link", func(t *testing.T) {
		v := journey.Render(journey.Success{
			Warning:     "Some tracks were skipped",
			PlaylistURL: "https://open.spotify.com/playlist/9",
			Tracks:      []models.Track{{Name: "A", Artists: []models.Artist{{Name: "X"}}, Reason: "because"}},
		})
		out := renderJourney(v, p)
		for _, want := range []string{journey.DefaultTitle, "Some tracks were skipped", "A - X", "because", "https://open.spotify.com/playlist/9"} {
			if !strings.Contains(out, want) {
				t.Errorf("missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("empty", func(t *testing.T) {
		out := renderJourney(journey.Render(journey.Success{}), p)
		if !strings.Contains(out, journey.NoTracksMessage) {
			t.Errorf("placeholder missing:\n%s", out)
		}
	})
}

func TestPaletteFor(t *testing.T) {
	if paletteFor(models.Theme("neon")) != palettes[models.ThemeDark] {
		t.Error("unknown theme should fall back to dark")
	}
	if paletteFor(models.ThemeLight) == paletteFor(models.ThemeDark) {
		t.Error("light and dark should differ")
	}
}
