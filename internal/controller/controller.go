package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Lesmash/spotify-playlist-creator/internal/history"
	"github.com/Lesmash/spotify-playlist-creator/internal/journey"
	"github.com/Lesmash/spotify-playlist-creator/internal/models"
	"github.com/Lesmash/spotify-playlist-creator/internal/services"
	"github.com/Lesmash/spotify-playlist-creator/internal/session"
	"github.com/Lesmash/spotify-playlist-creator/internal/shared"
	"github.com/Lesmash/spotify-playlist-creator/internal/tasks"
)

// AlertPrefix starts every create-failure alert.
const AlertPrefix = "Failed to create music journey: "

// Action is a user intent.
type Action int

const (
	Login Action = iota
	Create
	Reuse
	Delete
	ToggleTheme
	UseTemplate
	SetPrompt
	DismissAlert
	ClearFocus
)

func (a Action) String() string {
	switch a {
	case Login:
		return "login"
	case Create:
		return "create"
	case Reuse:
		return "reuse"
	case Delete:
		return "delete"
	case ToggleTheme:
		return "toggle_theme"
	case UseTemplate:
		return "use_template"
	case SetPrompt:
		return "set_prompt"
	case DismissAlert:
		return "dismiss_alert"
	case ClearFocus:
		return "clear_focus"
	default:
		return ""
	}
}

// Event is one dispatched action with its arguments.
type Event struct {
	Action Action
	Prompt string // Create, SetPrompt
	ID     int64  // Reuse, Delete
	Index  int    // UseTemplate
}

// Handler runs one action.
type Handler func(ctx context.Context, c *Controller, ev Event) error

// LoginFunc performs the browser round trip for authURL and returns the captured access token.
type LoginFunc func(ctx context.Context, authURL string) (string, error)

// Options contains the controller's dependencies.
type Options struct {
	Gateway services.Gateway
	Session *session.Session
	History *history.Store
	Loader  *tasks.Loader
	Login   LoginFunc
	Logger  *log.Logger
	// Progress receives dashboard updates; may be nil.
	Progress chan<- tasks.ProgressUpdate
}

// Controller owns the [ViewState] and the action table.
type Controller struct {
	gateway  services.Gateway
	session  *session.Session
	history  *history.Store
	loader   *tasks.Loader
	login    LoginFunc
	logger   *log.Logger
	progress chan<- tasks.ProgressUpdate

	handlers map[Action]Handler

	mu       sync.Mutex
	state    ViewState
	creating sync.Mutex
}

// New creates a [Controller] in the LoggedOut state. Session is required.
func New(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Loader == nil && opts.Gateway != nil {
		opts.Loader = tasks.NewLoader(opts.Gateway, 0, opts.Logger)
	}

	c := &Controller{
		gateway:  opts.Gateway,
		session:  opts.Session,
		history:  opts.History,
		loader:   opts.Loader,
		login:    opts.Login,
		logger:   opts.Logger,
		progress: opts.Progress,
		handlers: DefaultHandlers(),
		state:    ViewState{Phase: LoggedOut, Theme: opts.Session.Theme()},
	}

	if c.history != nil {
		c.history.Subscribe(c.onHistory)
	}
	return c
}

// DefaultHandlers returns the built-in action table.
func DefaultHandlers() map[Action]Handler {
	return map[Action]Handler{
		Login:        handleLogin,
		Create:       handleCreate,
		Reuse:        handleReuse,
		Delete:       handleDelete,
		ToggleTheme:  handleToggleTheme,
		UseTemplate:  handleUseTemplate,
		SetPrompt:    handleSetPrompt,
		DismissAlert: handleDismissAlert,
		ClearFocus:   handleClearFocus,
	}
}

// Register replaces the handler for action.
func (c *Controller) Register(action Action, h Handler) {
	c.handlers[action] = h
}

// State returns a copy of the current view state.
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) update(fn func(*ViewState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
}

func (c *Controller) onHistory(entries []models.HistoryEntry) {
	rendered := history.Render(entries)
	c.update(func(s *ViewState) { s.History = rendered })
}

// Start loads the theme and, if the session already holds a token, enters LoggedIn.
func (c *Controller) Start(ctx context.Context) ViewState {
	theme := c.session.Load()
	c.update(func(s *ViewState) { s.Theme = theme })

	if c.session.Active() {
		c.enterLoggedIn(ctx)
	}
	return c.State()
}

// Resume is [Controller.Start] without the dashboard fan-out, for one-shot commands
// that only need the theme and history.
func (c *Controller) Resume() ViewState {
	theme := c.session.Load()
	c.update(func(s *ViewState) { s.Theme = theme })

	if c.session.Active() {
		c.update(func(s *ViewState) { s.Phase = LoggedIn })
		if c.history != nil {
			c.history.Load()
		}
	}
	return c.State()
}

// Dispatch runs the handler registered for ev.Action and returns the resulting state.
func (c *Controller) Dispatch(ctx context.Context, ev Event) (ViewState, error) {
	h, ok := c.handlers[ev.Action]
	if !ok {
		return c.State(), fmt.Errorf("%w: no handler for action %d", shared.ErrInvalidArgument, ev.Action)
	}

	c.logger.Debug("dispatch", "action", ev.Action)
	err := h(ctx, c, ev)
	return c.State(), err
}

func (c *Controller) enterLoggedIn(ctx context.Context) {
	c.update(func(s *ViewState) { s.Phase = LoggedIn })

	if c.history != nil {
		c.history.Load()
	}

	if c.loader == nil {
		return
	}
	dashboard, err := c.loader.Load(ctx, c.session.AccessToken(), c.progress)
	if err != nil {
		c.logger.Error("dashboard load failed", "error", err)
		return
	}
	c.update(func(s *ViewState) { s.Dashboard = dashboard })
}

func (c *Controller) alert(msg string) {
	c.update(func(s *ViewState) { s.Alert = msg })
}

func handleLogin(ctx context.Context, c *Controller, _ Event) error {
	if c.session.Active() {
		if !c.State().LoggedIn() {
			c.enterLoggedIn(ctx)
		}
		return nil
	}
	if c.gateway == nil || c.login == nil {
		return fmt.Errorf("%w: login is not configured", shared.ErrServiceUnavailable)
	}

	authURL, err := c.gateway.LoginURL(ctx)
	if err != nil {
		c.logger.Error("failed to get login url", "error", err)
		c.alert("Login failed: " + err.Error())
		return err
	}

	token, err := c.login(ctx, authURL)
	if err != nil {
		c.logger.Error("login failed", "error", err)
		c.alert("Login failed: " + err.Error())
		return err
	}

	c.session.SetToken(token)
	if !c.session.Active() {
		err := fmt.Errorf("%w: empty token", shared.ErrAuthFailed)
		c.alert("Login failed: " + err.Error())
		return err
	}

	c.enterLoggedIn(ctx)
	return nil
}

func handleCreate(ctx context.Context, c *Controller, ev Event) error {
	prompt := ev.Prompt
	if prompt == "" {
		prompt = c.State().Prompt
	}
	prompt = strings.TrimSpace(prompt)

	if prompt == "" {
		c.alert(shared.ErrEmptyPrompt.Error())
		return shared.ErrEmptyPrompt
	}
	if c.gateway == nil {
		return fmt.Errorf("%w: backend client not initialized", shared.ErrServiceUnavailable)
	}

	if !c.creating.TryLock() {
		return shared.ErrBusy
	}
	defer c.creating.Unlock()

	c.update(func(s *ViewState) {
		s.Prompt = prompt
		s.Busy = true
	})
	defer c.update(func(s *ViewState) { s.Busy = false })

	result, err := c.gateway.CreateJourney(ctx, c.session.AccessToken(), prompt)
	if err != nil {
		c.logger.Error("create journey failed", "error", err)
		c.alert(AlertPrefix + err.Error())
		return err
	}

	view := journey.Render(result)
	c.update(func(s *ViewState) { s.Journey = &view })

	if failure, ok := result.(journey.Failure); ok {
		c.logger.Warn("backend reported an error", "error", failure.Message)
		return nil
	}

	if view.TrackCount > 0 && c.history != nil {
		if _, err := c.history.Record(prompt, view.TrackCount); err != nil {
			c.logger.Warn("failed to record history", "error", err)
		}
	}
	return nil
}

func handleReuse(_ context.Context, c *Controller, ev Event) error {
	if c.history == nil {
		return shared.ErrHistoryNotFound
	}
	entry, err := c.history.Find(ev.ID)
	if err != nil {
		return err
	}

	c.update(func(s *ViewState) {
		s.Prompt = entry.Prompt
		s.FocusPrompt = true
	})
	return nil
}

func handleDelete(_ context.Context, c *Controller, ev Event) error {
	if c.history == nil {
		return nil
	}
	if _, err := c.history.Delete(ev.ID); err != nil {
		c.logger.Warn("failed to delete history entry", "id", ev.ID, "error", err)
		return err
	}
	return nil
}

func handleToggleTheme(_ context.Context, c *Controller, _ Event) error {
	theme, err := c.session.ToggleTheme()
	c.update(func(s *ViewState) { s.Theme = theme })
	if err != nil {
		c.logger.Warn("failed to save theme", "error", err)
	}
	return err
}

func handleUseTemplate(_ context.Context, c *Controller, ev Event) error {
	if ev.Index < 0 || ev.Index >= len(Templates) {
		return fmt.Errorf("%w: template %d", shared.ErrInvalidArgument, ev.Index)
	}
	c.update(func(s *ViewState) {
		s.Prompt = Templates[ev.Index]
		s.FocusPrompt = true
	})
	return nil
}

func handleSetPrompt(_ context.Context, c *Controller, ev Event) error {
	c.update(func(s *ViewState) {
		s.Prompt = ev.Prompt
		s.FocusPrompt = false
	})
	return nil
}

func handleDismissAlert(_ context.Context, c *Controller, _ Event) error {
	c.update(func(s *ViewState) { s.Alert = "" })
	return nil
}

// handleClearFocus marks a reused or templated prompt as taken by the front end.
func handleClearFocus(_ context.Context, c *Controller, _ Event) error {
	c.update(func(s *ViewState) { s.FocusPrompt = false })
	return nil
}
