package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Lesmash/spotify-playlist-creator/internal/controller"
	"github.com/Lesmash/spotify-playlist-creator/internal/journey"
	"github.com/Lesmash/spotify-playlist-creator/internal/shared"
	"github.com/Lesmash/spotify-playlist-creator/internal/tasks"
)

const (
	appTitle        = "🎵 Music Journey"
	promptHint      = "Describe the journey, e.g. " + `"from calm focus to an energetic finish"`
	dashboardLimit  = 5
	defaultWidth    = 80
	defaultHeight   = 24
	reservedRows    = 10
	loginWaitNotice = "Waiting for the browser login to finish..."
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	PromptView
	ResultView
	HistoryView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	ctrl         *controller.Controller
	view         ViewState
	width        int
	height       int
	prompt       textarea.Model
	spinner      spinner.Model
	historyList  list.Model
	result       viewport.Model
	progressChan <-chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	starting     bool
	loggingIn    bool
	creating     bool
	template     int
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model over ctrl. progress may be nil.
func NewModel(ctx context.Context, ctrl *controller.Controller, progress <-chan tasks.ProgressUpdate) *Model {
	keys := newKeyMap()

	ta := textarea.New()
	ta.Placeholder = promptHint
	ta.ShowLineNumbers = false
	ta.CharLimit = 1000
	ta.SetWidth(defaultWidth - 4)
	ta.SetHeight(4)
	ta.KeyMap.InsertNewline = keys.newline

	hl := list.New(nil, list.NewDefaultDelegate(), defaultWidth-4, defaultHeight-reservedRows)
	hl.Title = "Recent Journeys"
	hl.SetShowHelp(false)
	hl.SetFilteringEnabled(false)

	return &Model{
		ctx:          ctx,
		ctrl:         ctrl,
		view:         LoginView,
		width:        defaultWidth,
		height:       defaultHeight,
		prompt:       ta,
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		historyList:  hl,
		result:       viewport.New(defaultWidth-4, defaultHeight-reservedRows),
		progressChan: progress,
		starting:     true,
		template:     -1,
		help:         help.New(),
		keys:         keys,
	}
}

// Init loads the session and starts listening for dashboard progress.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.start(), m.spinner.Tick, textarea.Blink, m.waitForProgress())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.forceQ) {
			return m, tea.Quit
		}
		if m.ctrl.State().HasAlert() {
			return m.handleAlertKeys(msg)
		}
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case PromptView:
			return m.handlePromptKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		case HistoryView:
			return m.handleHistoryKeys(msg)
		}

	case startedMsg:
		m.starting = false
		return m, m.sync()

	case loginDoneMsg:
		m.loggingIn = false
		return m, m.sync()

	case createDoneMsg:
		m.creating = false
		if errors.Is(msg.err, shared.ErrBusy) {
			return m, nil
		}
		st := m.ctrl.State()
		if st.Journey != nil && msg.err == nil {
			m.result.SetContent(renderJourney(*st.Journey, paletteFor(st.Theme)))
			m.result.GotoTop()
			m.view = ResultView
			m.prompt.Blur()
		}
		return m, m.sync()

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case progressClosedMsg:
		m.progressChan = nil
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateComponents(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	st := m.ctrl.State()
	p := paletteFor(st.Theme)

	var b strings.Builder
	b.WriteString(p.title.Render(fmt.Sprintf("%s  %s", appTitle, p.help.Render("["+string(st.Theme)+"]"))))
	b.WriteString("\n")

	if st.HasAlert() {
		b.WriteString(p.alert.Render(st.Alert))
		b.WriteString("\n")
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.dismiss}))
		return b.String()
	}

	switch m.view {
	case LoginView:
		b.WriteString(m.renderLogin(p))
	case PromptView:
		b.WriteString(m.renderPrompt(st, p))
	case ResultView:
		b.WriteString(m.renderResult(p))
	case HistoryView:
		b.WriteString(m.renderHistory())
	}
	return b.String()
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.prompt.SetWidth(max(w-4, 20))
	m.historyList.SetSize(max(w-4, 20), max(h-reservedRows, 5))
	m.result.Width = max(w-4, 20)
	m.result.Height = max(h-reservedRows, 5)
}

// sync moves the view to match the controller's phase and refreshes the history list.
func (m *Model) sync() tea.Cmd {
	st := m.ctrl.State()
	cmds := []tea.Cmd{m.historyList.SetItems(historyItems(st.History))}

	switch {
	case !st.LoggedIn():
		m.view = LoginView
		m.prompt.Blur()
	case m.view == LoginView:
		m.view = PromptView
		cmds = append(cmds, m.prompt.Focus())
	case m.view == HistoryView && !st.History.Visible:
		m.view = PromptView
		cmds = append(cmds, m.prompt.Focus())
	}

	m.takePrompt(st)
	return tea.Batch(cmds...)
}

// takePrompt copies a reused or templated prompt into the textarea once.
// Later syncs leave the user's edits alone.
func (m *Model) takePrompt(st controller.ViewState) {
	if !st.FocusPrompt {
		return
	}
	m.prompt.SetValue(st.Prompt)
	m.ctrl.Dispatch(m.ctx, controller.Event{Action: controller.ClearFocus})
}

func (m *Model) handleAlertKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.dismiss) {
		m.ctrl.Dispatch(m.ctx, controller.Event{Action: controller.DismissAlert})
	}
	return m, nil
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.theme), msg.String() == "t":
		m.ctrl.Dispatch(m.ctx, controller.Event{Action: controller.ToggleTheme})
		return m, nil
	case key.Matches(msg, m.keys.login):
		if m.loggingIn || m.starting {
			return m, nil
		}
		m.loggingIn = true
		return m, m.login()
	}
	return m, nil
}

func (m *Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		if m.creating {
			return m, nil
		}
		m.ctrl.Dispatch(m.ctx, controller.Event{Action: controller.SetPrompt, Prompt: m.prompt.Value()})
		m.creating = true
		return m, m.create(m.prompt.Value())
	case key.Matches(msg, m.keys.template):
		m.template = (m.template + 1) % len(controller.Templates)
		st, _ := m.ctrl.Dispatch(m.ctx, controller.Event{Action: controller.UseTemplate, Index: m.template})
		m.takePrompt(st)
		return m, nil
	case key.Matches(msg, m.keys.theme):
		m.ctrl.Dispatch(m.ctx, controller.Event{Action: controller.ToggleTheme})
		if st := m.ctrl.State(); st.Journey != nil {
			m.result.SetContent(renderJourney(*st.Journey, paletteFor(st.Theme)))
		}
		return m, nil
	case key.Matches(msg, m.keys.history):
		if !m.ctrl.State().History.Visible {
			return m, nil
		}
		m.view = HistoryView
		m.prompt.Blur()
		return m, nil
	case key.Matches(msg, m.keys.results):
		if m.ctrl.State().Journey == nil {
			return m, nil
		}
		m.view = ResultView
		m.prompt.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = PromptView
		return m, m.prompt.Focus()
	}

	var cmd tea.Cmd
	m.result, cmd = m.result.Update(msg)
	return m, cmd
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = PromptView
		return m, m.prompt.Focus()
	case key.Matches(msg, m.keys.reuse):
		item, ok := m.historyList.SelectedItem().(historyItem)
		if !ok {
			return m, nil
		}
		st, err := m.ctrl.Dispatch(m.ctx, controller.Event{Action: controller.Reuse, ID: item.row.ID})
		if err != nil {
			return m, nil
		}
		m.takePrompt(st)
		m.view = PromptView
		return m, m.prompt.Focus()
	case key.Matches(msg, m.keys.remove):
		item, ok := m.historyList.SelectedItem().(historyItem)
		if !ok {
			return m, nil
		}
		m.ctrl.Dispatch(m.ctx, controller.Event{Action: controller.Delete, ID: item.row.ID})
		return m, m.sync()
	}

	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return m, cmd
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PromptView:
		m.prompt, cmd = m.prompt.Update(msg)
	case ResultView:
		m.result, cmd = m.result.Update(msg)
	case HistoryView:
		m.historyList, cmd = m.historyList.Update(msg)
	}
	return m, cmd
}

func (m *Model) start() tea.Cmd {
	return func() tea.Msg {
		return startedMsg{state: m.ctrl.Start(m.ctx)}
	}
}

func (m *Model) login() tea.Cmd {
	return func() tea.Msg {
		_, err := m.ctrl.Dispatch(m.ctx, controller.Event{Action: controller.Login})
		return loginDoneMsg{err: err}
	}
}

func (m *Model) create(prompt string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.ctrl.Dispatch(m.ctx, controller.Event{Action: controller.Create, Prompt: prompt})
		return createDoneMsg{err: err}
	}
}

func (m *Model) waitForProgress() tea.Cmd {
	ch := m.progressChan
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return progressClosedMsg{}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderLogin(p *Palette) string {
	var b strings.Builder
	b.WriteString("Connect your Spotify account to create mood-based journeys.\n\n")

	switch {
	case m.starting:
		fmt.Fprintf(&b, "%s Loading...\n", m.spinner.View())
	case m.loggingIn:
		fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), loginWaitNotice)
	default:
		b.WriteString(p.ok.Render("Press enter to log in with Spotify"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.login, m.keys.theme, m.keys.quit}))
	return b.String()
}

func (m *Model) renderPrompt(st controller.ViewState, p *Palette) string {
	var b strings.Builder
	b.WriteString(renderDashboard(st.Dashboard, m.progress, p))
	b.WriteString("\n")
	b.WriteString(m.prompt.View())
	b.WriteString("\n")

	if m.creating || st.Busy {
		fmt.Fprintf(&b, "%s Creating your journey...\n", m.spinner.View())
	}

	b.WriteString("\n")
	keys := []key.Binding{m.keys.submit, m.keys.template, m.keys.theme}
	if st.History.Visible {
		keys = append(keys, m.keys.history)
	}
	if st.Journey != nil {
		keys = append(keys, m.keys.results)
	}
	keys = append(keys, m.keys.forceQ)
	b.WriteString(m.help.ShortHelpView(keys))
	return b.String()
}

func (m *Model) renderResult(p *Palette) string {
	return fmt.Sprintf("%s\n%s\n%s",
		p.box.Render(m.result.View()),
		p.help.Render(fmt.Sprintf("%3.f%%", m.result.ScrollPercent()*100)),
		m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.back, m.keys.quit}),
	)
}

func (m *Model) renderHistory() string {
	keys := []key.Binding{m.keys.reuse, m.keys.remove, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.historyList.View(), m.help.ShortHelpView(keys))
}

// renderDashboard draws the profile, top artists and top tracks regions.
// A failed region shows its own error and leaves the others intact.
func renderDashboard(d *tasks.Dashboard, progress tasks.ProgressUpdate, p *Palette) string {
	if d == nil {
		if progress.Message == "" {
			return ""
		}
		return p.help.Render(progress.Message) + "\n"
	}

	var b strings.Builder
	if d.ProfileErr != nil {
		b.WriteString(p.err.Render("Profile unavailable: " + d.ProfileErr.Error()))
	} else {
		b.WriteString(p.ok.Render("Logged in as " + d.Profile.DisplayName))
	}
	b.WriteString("\n")

	if d.ArtistsErr != nil {
		b.WriteString(p.err.Render("Top artists unavailable: " + d.ArtistsErr.Error()))
	} else {
		names := make([]string, 0, dashboardLimit)
		for i, a := range d.Artists {
			if i == dashboardLimit {
				break
			}
			names = append(names, a.Name)
		}
		b.WriteString(p.heading.Render("Top artists") + " " + strings.Join(names, ", "))
	}
	b.WriteString("\n")

	if d.TracksErr != nil {
		b.WriteString(p.err.Render("Top tracks unavailable: " + d.TracksErr.Error()))
	} else {
		names := make([]string, 0, dashboardLimit)
		for i, t := range d.Tracks {
			if i == dashboardLimit {
				break
			}
			names = append(names, fmt.Sprintf("%s (%s)", t.Name, t.Artist))
		}
		b.WriteString(p.heading.Render("Top tracks") + " " + strings.Join(names, ", "))
	}
	b.WriteString("\n")
	return b.String()
}

// renderJourney draws a [journey.View] with the palette's styles.
func renderJourney(v journey.View, p *Palette) string {
	if v.Failed() {
		return p.err.Render("Error: " + v.Error)
	}

	var b strings.Builder
	b.WriteString(p.title.Render(v.Title))
	b.WriteString("\n")
	if v.Warning != "" {
		b.WriteString(p.warn.Render("⚠ " + v.Warning))
		b.WriteString("\n")
	}

	if v.Empty {
		b.WriteString(p.help.Render(v.Placeholder))
		b.WriteString("\n")
	}

	for _, s := range v.Sections {
		b.WriteString("\n")
		b.WriteString(p.heading.Render(s.Heading))
		b.WriteString("\n")
		for _, item := range s.Items {
			fmt.Fprintf(&b, "  • %s\n", p.text.Render(item.Line))
			if item.Album != "" {
				fmt.Fprintf(&b, "    %s\n", p.help.Render(item.Album))
			}
			if item.Reason != "" {
				fmt.Fprintf(&b, "    %s\n", p.help.Render(item.Reason))
			}
		}
	}

	if v.PlaylistURL != "" {
		b.WriteString("\n")
		b.WriteString(p.ok.Render("Open in Spotify: ") + lipgloss.NewStyle().Underline(true).Render(v.PlaylistURL))
		b.WriteString("\n")
	}
	return b.String()
}
