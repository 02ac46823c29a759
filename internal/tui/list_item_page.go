package tui

import (
	"github.com/brizzai/swagger-split/internal/partition"
	"github.com/brizzai/swagger-split/internal/tui/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"

	tea "github.com/charmbracelet/bubbletea"
)

// listKeyMap holds key bindings for the list actions.
type listKeyMap struct {
	finish key.Binding
	quit   key.Binding
}

// DoneMsg is sent when the user finishes reviewing
type DoneMsg struct {
	Exclude map[string]bool
}

// newListKeyMap creates a new listKeyMap with default bindings.
func newListKeyMap() *listKeyMap {
	return &listKeyMap{
		finish: key.NewBinding(
			key.WithKeys("F", "f"),
			key.WithHelp("F", "Finish"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
	}
}

// ListItemModel lists every path entry with its bucket
type ListItemModel struct {
	list list.Model
	keys *listKeyMap
}

// NewListItemModel creates the path list for a plan
func NewListItemModel(plan *partition.Plan) ListItemModel {
	listKeys := newListKeyMap()

	items := make([]list.Item, len(plan.Result.Assignments))
	for i, a := range plan.Result.Assignments {
		items[i] = models.EntryItem{
			Assignment: a,
			IsExcluded: plan.Options.Exclude[a.OriginalKey],
		}
	}
	delegate := newItemDelegate(newDelegateKeyMap())

	l := list.New(items, delegate, 0, 0)
	l.Title = titleStyle.Render("Swagger paths")
	l.SetShowFilter(true)

	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			listKeys.finish,
			listKeys.quit,
		}
	}
	return ListItemModel{list: l, keys: listKeys}
}

// Init returns the initial command for the list model.
func (m ListItemModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the list
func (m ListItemModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Keys typed into the filter belong to the filter
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.finish):
			exclude := m.Excluded()
			return m, func() tea.Msg {
				return DoneMsg{Exclude: exclude}
			}
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list
func (m ListItemModel) View() string {
	return docStyle.Render(m.list.View())
}

// Excluded returns the original keys the user excluded, across all items
// regardless of the current filter
func (m ListItemModel) Excluded() map[string]bool {
	exclude := make(map[string]bool)
	for _, item := range m.list.Items() {
		entry := item.(models.EntryItem)
		if entry.IsExcluded {
			exclude[entry.Assignment.OriginalKey] = true
		}
	}
	return exclude
}
