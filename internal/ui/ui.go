package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/djx/internal/models"
	"github.com/desertthunder/djx/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ResultListView ViewState = iota
	FeatureView
)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	service    services.Service
	query      string
	limit      int
	width      int
	height     int
	resultList list.Model
	tracks     []models.Track
	selected   *models.Track
	features   *models.AudioFeatures
	loading    bool
	err        error
	help       help.Model
	keys       keyMap
}

type resultsFetchedMsg struct {
	tracks []models.Track
	err    error
}

type featuresFetchedMsg struct {
	features *models.AudioFeatures
	err      error
}

// NewModel creates a new TUI model searching for query with the provided service.
func NewModel(ctx context.Context, service services.Service, query string, limit int) *Model {
	return &Model{
		ctx:     ctx,
		view:    ResultListView,
		service: service,
		query:   query,
		limit:   limit,
		loading: true,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by searching the catalog.
func (m *Model) Init() tea.Cmd {
	return m.fetchResults()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.resultList.Width() == 0 {
			m.resultList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ResultListView:
			return m.handleResultListKeys(msg)
		case FeatureView:
			return m.handleFeatureKeys(msg)
		}

	case resultsFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.tracks = msg.tracks
		items := make([]list.Item, len(msg.tracks))
		for i, track := range msg.tracks {
			items[i] = trackItem{track: track}
		}
		m.resultList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.resultList.Title = fmt.Sprintf("Results for '%s'", m.query)
		m.resultList.SetSize(m.width-4, m.height-8)
		return m, nil

	case featuresFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.view = ResultListView
			return m, nil
		}
		m.features = msg.features
		m.view = FeatureView
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.loading {
		return styles.help.Render("Loading...")
	}

	if m.err != nil && m.view != ResultListView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ResultListView:
		return m.renderResultList()
	case FeatureView:
		return m.renderFeatures()
	default:
		return ""
	}
}

func (m *Model) handleResultListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.resultList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(trackItem); ok {
				m.selected = &item.track
				m.loading = true
				return m, m.fetchFeatures(item.track.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) handleFeatureKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "r":
		m.view = ResultListView
		m.selected = nil
		m.features = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == ResultListView {
		m.resultList, cmd = m.resultList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchResults() tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.service.SearchTracks(m.ctx, m.query, m.limit)
		return resultsFetchedMsg{tracks: tracks, err: err}
	}
}

func (m *Model) fetchFeatures(trackID string) tea.Cmd {
	return func() tea.Msg {
		features, err := m.service.AudioFeatures(m.ctx, trackID)
		return featuresFetchedMsg{features: features, err: err}
	}
}

func (m *Model) renderResultList() string {
	analyzeKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(analyzeKeys)

	var errLine string
	if m.err != nil {
		errLine = "\n" + styles.warn.Render(fmt.Sprintf("Last error: %v", m.err))
	}

	return fmt.Sprintf("%s%s\n\n%s", m.resultList.View(), errLine, helpView)
}

func (m *Model) renderFeatures() string {
	if m.selected == nil || m.features == nil {
		return styles.err.Render("No track selected\n\nPress esc to go back")
	}

	title := styles.title.Render(fmt.Sprintf("%s - %s", m.selected.Artist, m.selected.Title))

	var b strings.Builder
	rows := []struct {
		label string
		value string
	}{
		{"Tempo", fmt.Sprintf("%.1f BPM", m.features.Tempo)},
		{"Danceability", fmt.Sprintf("%.3f", m.features.Danceability)},
		{"Energy", fmt.Sprintf("%.3f", m.features.Energy)},
		{"Valence", fmt.Sprintf("%.3f", m.features.Valence)},
		{"Acousticness", fmt.Sprintf("%.3f", m.features.Acousticness)},
		{"Instrumentalness", fmt.Sprintf("%.3f", m.features.Instrumentalness)},
		{"Liveness", fmt.Sprintf("%.3f", m.features.Liveness)},
		{"Speechiness", fmt.Sprintf("%.3f", m.features.Speechiness)},
		{"Loudness", fmt.Sprintf("%.1f dB", m.features.Loudness)},
		{"Time signature", fmt.Sprintf("%d/4", m.features.TimeSignature)},
	}

	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%-18s %s\n", row.label, row.value))
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, b.String(), helpView)
}
