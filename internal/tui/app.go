// Package tui implements the terminal dashboard: now playing tinted with
// the album-art colors, recently played, and the local history log.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tuneboard/internal/core"
	"github.com/tessro/tuneboard/internal/history"
	"github.com/tessro/tuneboard/internal/nowplaying"
	"github.com/tessro/tuneboard/internal/tui/components"
	"github.com/tessro/tuneboard/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelNowPlaying Panel = iota
	PanelRecent
	PanelHistory
	panelCount
)

const (
	requestTimeout = 5 * time.Second
	// stateTimeout also covers the album art download.
	stateTimeout = 15 * time.Second
)

// App holds the services the dashboard reads from. Watcher supplies the
// snapshot and theme; Player and Creds serve the recent list and controls.
type App struct {
	Watcher     *nowplaying.Watcher
	Player      core.Player
	Creds       core.CredentialSource
	Recorder    *history.Recorder // optional
	RefreshRate time.Duration
	RecentLimit int
	Light       bool // light terminal background
}

// Model is the main TUI model
type Model struct {
	app          *App
	width        int
	height       int
	focusedPanel Panel

	// State
	snap    *core.PlaybackSnapshot
	artURL  string
	theme   styles.Theme
	recent  []core.RecentlyPlayed
	records []history.Record

	// Components
	nowPlaying  *components.NowPlaying
	recentView  *components.TrackList
	historyView *components.TrackList

	showHelp bool

	// Error handling
	lastError   error
	errorExpiry time.Time

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(app *App) Model {
	if app.RefreshRate <= 0 {
		app.RefreshRate = time.Second
	}
	if app.RecentLimit <= 0 {
		app.RecentLimit = 10
	}
	return Model{
		app:          app,
		focusedPanel: PanelNowPlaying,
		theme:        styles.NewTheme(app.Watcher.Current().Theme, app.Light),
		nowPlaying:   components.NewNowPlaying(),
		recentView:   components.NewTrackList("Recently Played", "Nothing played recently"),
		historyView:  components.NewTrackList("History", "No history recorded yet"),
	}
}

// Messages
type tickMsg time.Time
type stateMsg struct{ state nowplaying.State }
type recentMsg []core.RecentlyPlayed
type historyMsg []history.Record
type errMsg struct{ err error }
type refreshAfterActionMsg struct{}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.app.RefreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// withCredential runs fn with a bounded context and a fresh credential.
func (m Model) withCredential(fn func(ctx context.Context, cred core.Credential) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		cred, err := m.app.Creds.Credential(ctx)
		if err != nil {
			return errMsg{err}
		}
		return fn(ctx, cred)
	}
}

func (m Model) fetchState() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), stateTimeout)
		defer cancel()

		state, err := m.app.Watcher.Refresh(ctx)
		if err != nil {
			return errMsg{err}
		}
		return stateMsg{state}
	}
}

func (m Model) fetchRecent() tea.Cmd {
	return m.withCredential(func(ctx context.Context, cred core.Credential) tea.Msg {
		items, err := m.app.Player.RecentlyPlayed(ctx, cred, m.app.RecentLimit)
		if err != nil {
			return errMsg{err}
		}
		return recentMsg(items)
	})
}

func (m Model) fetchHistory() tea.Cmd {
	if m.app.Recorder == nil {
		return nil
	}
	return func() tea.Msg {
		records, err := m.app.Recorder.Last(50)
		if err != nil {
			return errMsg{err}
		}
		return historyMsg(records)
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tick(),
		m.fetchState(),
		m.fetchRecent(),
		m.fetchHistory(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.tick(), m.fetchState())

	case stateMsg:
		m.clearExpiredError()
		oldTrack := trackURI(m.snap)
		m.snap = msg.state.Snapshot

		if msg.state.ArtURL != m.artURL {
			m.artURL = msg.state.ArtURL
			m.theme = styles.NewTheme(msg.state.Theme, m.app.Light)
		}
		if trackURI(m.snap) != oldTrack {
			return m, tea.Batch(m.fetchRecent(), m.fetchHistory())
		}
		return m, nil

	case recentMsg:
		m.clearExpiredError()
		m.recent = msg
		return m, nil

	case historyMsg:
		m.clearExpiredError()
		m.records = msg
		return m, nil

	case errMsg:
		m.lastError = msg.err
		m.errorExpiry = time.Now().Add(5 * time.Second)
		return m, nil

	case refreshAfterActionMsg:
		return m, m.fetchState()
	}

	return m, nil
}

func (m *Model) clearExpiredError() {
	if time.Now().After(m.errorExpiry) {
		m.lastError = nil
	}
}

func trackURI(s *core.PlaybackSnapshot) string {
	if !s.HasTrack() {
		return ""
	}
	return s.Track.URI
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc":
			m.showHelp = false
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil
	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		return m, nil
	case " ":
		return m, m.togglePlayPause()
	case "n":
		return m, m.control(m.app.Player.Next)
	case "p":
		return m, m.control(m.app.Player.Prev)
	case "r":
		return m, tea.Batch(m.fetchState(), m.fetchRecent(), m.fetchHistory())
	}
	return m, nil
}

func (m Model) togglePlayPause() tea.Cmd {
	if m.snap != nil && m.snap.IsPlaying {
		return m.control(m.app.Player.Pause)
	}
	return m.control(m.app.Player.Play)
}

// control runs a playback command and then refreshes state.
func (m Model) control(fn func(context.Context, core.Credential) error) tea.Cmd {
	return m.withCredential(func(ctx context.Context, cred core.Credential) tea.Msg {
		if err := fn(ctx, cred); err != nil {
			return errMsg{err}
		}
		// Small delay to let Spotify update state
		time.Sleep(200 * time.Millisecond)
		return refreshAfterActionMsg{}
	})
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	// Left: Now Playing. Right: Recently Played (top), History (bottom).
	leftWidth := m.width * 55 / 100
	rightWidth := m.width - leftWidth - 2
	mainHeight := m.height - 1
	topHeight := mainHeight / 2
	bottomHeight := mainHeight - topHeight

	now := time.Now()
	nowPlaying := m.nowPlaying.Render(m.snap, m.theme, leftWidth-2, mainHeight-2, m.focusedPanel == PanelNowPlaying)
	recent := m.recentView.Render(components.RecentRows(m.recent, now), m.theme, rightWidth-2, topHeight-2, m.focusedPanel == PanelRecent)
	hist := m.historyView.Render(components.HistoryRows(m.records, now), m.theme, rightWidth-2, bottomHeight-2, m.focusedPanel == PanelHistory)

	rightCol := lipgloss.JoinVertical(lipgloss.Left, recent, hist)
	main := lipgloss.JoinHorizontal(lipgloss.Top, nowPlaying, rightCol)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  space:play/pause  n:next  p:prev  r:refresh  tab:switch panel")

	if m.lastError != nil {
		status = styles.ErrorText.Render("Error: " + m.lastError.Error())
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	help := `
  tuneboard - Keyboard Shortcuts
  ══════════════════════════════

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  Tab          Next panel
  Shift+Tab    Previous panel
  r            Refresh

  Playback
  ────────
  Space        Play/Pause
  n            Next track
  p            Previous track

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.BorderForeground(m.theme.Accent).Render(help))
}

// Run starts the TUI application
func Run(app *App) error {
	p := tea.NewProgram(NewModel(app), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
