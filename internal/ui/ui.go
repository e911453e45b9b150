package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vidtrack/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	VideoListView ViewState = iota
	ConfirmView
)

// Model represents the review TUI application state.
type Model struct {
	view      ViewState
	game      string
	videos    []models.Video
	newCount  int
	width     int
	height    int
	videoList list.Model
	approved  bool
	done      bool
	help      help.Model
	keys      keyMap
}

// NewModel creates a review model for the matched videos of one game.
// The newIDs set marks which videos are not yet present on the sheet.
func NewModel(game string, videos []models.Video, newIDs map[string]bool) *Model {
	items := make([]list.Item, len(videos))
	newCount := 0
	for i, v := range videos {
		isNew := newIDs[v.VideoID]
		if isNew {
			newCount++
		}
		items[i] = videoItem{video: v, isNew: isNew}
	}

	videoList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	videoList.Title = fmt.Sprintf("Matches for '%s'", game)

	return &Model{
		view:      VideoListView,
		game:      game,
		videos:    videos,
		newCount:  newCount,
		videoList: videoList,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Approved reports whether the user confirmed appending the new matches.
func (m *Model) Approved() bool { return m.approved }

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.videoList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case VideoListView:
			return m.handleVideoListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}
	}

	var cmd tea.Cmd
	m.videoList, cmd = m.videoList.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case VideoListView:
		return m.renderVideoList()
	case ConfirmView:
		return m.renderConfirm()
	default:
		return ""
	}
}

func (m *Model) handleVideoListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.done = true
		return m, tea.Quit
	case "enter":
		if m.newCount == 0 {
			m.done = true
			return m, tea.Quit
		}
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.videoList, cmd = m.videoList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.done = true
		return m, tea.Quit
	case "n", "esc":
		m.view = VideoListView
		return m, nil
	case "y":
		m.approved = true
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) renderVideoList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	status := styles.help.Render(fmt.Sprintf("%d matched, %d new", len(m.videos), m.newCount))
	return fmt.Sprintf("%s\n%s\n\n%s", m.videoList.View(), status, helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Append %d new videos for '%s' to the sheet?", m.newCount, m.game))

	var lines string
	for _, item := range m.videoList.Items() {
		if vi, ok := item.(videoItem); ok && vi.isNew {
			lines += fmt.Sprintf("  • %s\n", vi.video.Title)
		}
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, lines, helpView)
}

// ReviewVideos runs the review TUI and reports whether the user approved
// appending the new matches.
func ReviewVideos(game string, videos []models.Video, newIDs map[string]bool) (bool, error) {
	model := NewModel(game, videos, newIDs)

	program := tea.NewProgram(model, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("review interface failed: %w", err)
	}

	if m, ok := final.(*Model); ok {
		return m.Approved(), nil
	}
	return model.Approved(), nil
}
