// Package tui is the terminal board for a tasker server.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rpggio/tasker/internal/domain/task"
	"github.com/rpggio/tasker/internal/live"
	"github.com/rpggio/tasker/internal/view"
)

// Subscriber opens the server change feed.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan live.Event, error)
}

// Mode is the current input mode.
type Mode int

const (
	ModeList Mode = iota
	ModeSearch
	ModeAssign
	ModeConfirmDelete
)

type tasksLoadedMsg struct{}

// tasksChangedMsg follows a mutation; focusID keeps the cursor on a task.
type tasksChangedMsg struct {
	focusID string
	note    string
}

type errMsg struct{ err error }

type feedOpenedMsg struct{ events <-chan live.Event }

type eventMsg struct{ event live.Event }

type feedClosedMsg struct{}

// Model is the board.
type Model struct {
	ctx       context.Context
	store     *view.Store
	feed      Subscriber
	projectID string

	keys   KeyMap
	styles *Styles
	help   help.Model
	search textinput.Model
	assign textinput.Model

	mode   Mode
	cursor int
	note   string
	err    error
	events <-chan live.Event

	width  int
	height int
}

// New creates a board over store. feed may be nil to disable live updates.
func New(ctx context.Context, store *view.Store, feed Subscriber) *Model {
	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100

	assign := textinput.New()
	assign.Placeholder = "Assignee"
	assign.CharLimit = 100

	return &Model{
		ctx:       ctx,
		store:     store,
		feed:      feed,
		projectID: store.Criteria().ProjectID,
		keys:      DefaultKeyMap(),
		styles:    NewStyles(TokyoNight),
		help:      help.New(),
		search:    search,
		assign:    assign,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refresh, m.subscribe)
}

func (m *Model) refresh() tea.Msg {
	if err := m.store.Refresh(m.ctx); err != nil {
		return errMsg{err}
	}
	return tasksLoadedMsg{}
}

func (m *Model) subscribe() tea.Msg {
	if m.feed == nil {
		return nil
	}
	events, err := m.feed.Subscribe(m.ctx)
	if err != nil {
		return errMsg{fmt.Errorf("live updates unavailable: %w", err)}
	}
	return feedOpenedMsg{events: events}
}

func waitForEvent(events <-chan live.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return feedClosedMsg{}
		}
		return eventMsg{event: ev}
	}
}

// mutate runs fn against the store and reports the outcome.
func (m *Model) mutate(focusID, note string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(m.ctx); err != nil {
			return errMsg{err}
		}
		return tasksChangedMsg{focusID: focusID, note: note}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tasksLoadedMsg:
		m.err = nil
		m.clampCursor()
		return m, nil

	case tasksChangedMsg:
		m.err = nil
		m.note = msg.note
		if msg.focusID != "" {
			m.focus(msg.focusID)
		}
		m.clampCursor()
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case feedOpenedMsg:
		m.events = msg.events
		return m, waitForEvent(m.events)

	case eventMsg:
		return m, tea.Batch(m.refresh, waitForEvent(m.events))

	case feedClosedMsg:
		m.events = nil
		m.note = "live updates disconnected"
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeSearch:
			return m.updateSearch(msg)
		case ModeAssign:
			return m.updateAssign(msg)
		case ModeConfirmDelete:
			return m.updateConfirmDelete(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.rows()
	selected, hasSelection := m.selected(visible)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.MoveUp), key.Matches(msg, m.keys.MoveDown):
		if !hasSelection {
			return m, nil
		}
		delta := 1
		if key.Matches(msg, m.keys.MoveUp) {
			delta = -1
		}
		return m, m.mutate(selected.ID, "", func(ctx context.Context) error {
			return m.store.MoveBy(ctx, selected.ID, delta)
		})

	case key.Matches(msg, m.keys.Status):
		if !hasSelection {
			return m, nil
		}
		return m, m.mutate(selected.ID, "", func(ctx context.Context) error {
			_, err := m.store.CycleStatus(ctx, selected.ID)
			return err
		})

	case key.Matches(msg, m.keys.Filter):
		m.store.SetFilter(nextOption(m.store.FilterOptions(), m.store.Criteria().ActiveFilter))
		m.cursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.mode = ModeSearch
		m.search.SetValue(m.store.Criteria().SearchTerm)
		m.search.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Assign):
		if !hasSelection {
			return m, nil
		}
		m.mode = ModeAssign
		m.assign.SetValue(selected.Assignee)
		m.assign.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		if hasSelection {
			m.mode = ModeConfirmDelete
		}
		return m, nil

	case key.Matches(msg, m.keys.Scope):
		if m.store.Criteria().ProjectID != "" {
			m.store.SetProject("")
		} else {
			m.store.SetProject(m.projectID)
		}
		m.cursor = 0
		return m, m.refresh

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh
	}

	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.search.Blur()
		m.mode = ModeList
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		m.search.Blur()
		m.mode = ModeList
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.store.SetSearch(m.search.Value())
	m.cursor = 0
	return m, cmd
}

func (m *Model) updateAssign(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.assign.Blur()
		m.mode = ModeList
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		m.assign.Blur()
		m.mode = ModeList
		selected, ok := m.selected(m.rows())
		assignee := strings.TrimSpace(m.assign.Value())
		if !ok || assignee == "" {
			return m, nil
		}
		return m, m.mutate(selected.ID, "", func(ctx context.Context) error {
			_, err := m.store.SetAssignee(ctx, selected.ID, assignee)
			return err
		})
	}

	var cmd tea.Cmd
	m.assign, cmd = m.assign.Update(msg)
	return m, cmd
}

func (m *Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeList
	if msg.String() != "y" {
		return m, nil
	}
	selected, ok := m.selected(m.rows())
	if !ok {
		return m, nil
	}
	return m, m.mutate("", "task deleted", func(ctx context.Context) error {
		return m.store.Delete(ctx, selected.ID)
	})
}

// rows is the display order: the derived view, grouped by project when
// every project is shown.
func (m *Model) rows() []task.Task {
	visible := m.store.Visible()
	if m.store.Criteria().ProjectID != "" {
		return visible
	}
	out := make([]task.Task, 0, len(visible))
	for _, g := range view.Groups(visible) {
		out = append(out, g.Tasks...)
	}
	return out
}

func (m *Model) selected(visible []task.Task) (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(visible) {
		return task.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) focus(id string) {
	if i := slices.IndexFunc(m.rows(), func(t task.Task) bool { return t.ID == id }); i >= 0 {
		m.cursor = i
	}
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

// nextOption returns the option after current, wrapping around.
func nextOption(options []string, current string) string {
	if len(options) == 0 {
		return view.ShowAll
	}
	i := slices.Index(options, current)
	return options[(i+1)%len(options)]
}

func (m *Model) View() string {
	var b strings.Builder

	c := m.store.Criteria()
	scope := c.ProjectID
	if scope == "" {
		scope = "all projects"
	}
	b.WriteString(m.styles.Title.Render("tasker") + m.styles.TitleMuted.Render(scope))
	b.WriteString("\n")

	search := c.SearchTerm
	if m.mode == ModeSearch {
		search = m.search.View()
	} else if search == "" {
		search = m.styles.Muted.Render("none")
	}
	b.WriteString(m.styles.FilterBar.Render(fmt.Sprintf("Search: %s   Filter: %s", search, c.ActiveFilter)))
	b.WriteString("\n")

	visible := m.rows()
	if len(visible) == 0 {
		b.WriteString(m.styles.Muted.Render("  No tasks"))
		b.WriteString("\n")
	}

	row := 0
	for _, g := range view.Groups(visible) {
		if c.ProjectID == "" {
			b.WriteString(m.styles.Group.Render(g.ProjectID))
			b.WriteString("\n")
		}
		for _, t := range g.Tasks {
			b.WriteString(m.renderRow(t, row == m.cursor))
			b.WriteString("\n")
			row++
		}
	}

	switch m.mode {
	case ModeAssign:
		b.WriteString("\n" + m.assign.View() + "\n")
	case ModeConfirmDelete:
		if t, ok := m.selected(visible); ok {
			b.WriteString("\n" + m.styles.Confirm.Render(fmt.Sprintf("Delete %q? (y/n)", t.Object)) + "\n")
		}
	}

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(m.err.Error()) + "\n")
	} else if m.note != "" {
		b.WriteString(m.styles.StatusBar.Render(m.note) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderRow(t task.Task, selected bool) string {
	order := "-"
	if n, ok := t.OrderValue(); ok {
		order = fmt.Sprintf("%d", n)
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top,
		fmt.Sprintf("%3s ", order),
		m.styles.Badge(t.Status),
		fmt.Sprintf(" %s · %s · %s · %s", t.Object, t.Task, t.Assignee, t.Date),
	)
	if len(t.SubTasks) > 0 {
		line += m.styles.Muted.Render(fmt.Sprintf(" [%d]", len(t.SubTasks)))
	}
	if selected {
		return m.styles.Selected.Render(line)
	}
	return m.styles.Row.Render(line)
}
