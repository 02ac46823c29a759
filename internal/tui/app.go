package tui

import (
	"github.com/brizzai/swagger-split/internal/partition"
	tea "github.com/charmbracelet/bubbletea"
)

// AppModel is the main application model that manages page switching
type AppModel struct {
	mainPage    MainPageModel
	listView    ListItemModel
	confirmView ConfirmView
	plan        *partition.Plan
	page        string // "main", "list" or "confirm"
}

// NewAppModel creates a new AppModel reviewing the given plan
func NewAppModel(plan *partition.Plan) AppModel {
	return AppModel{
		mainPage:    NewMainPageModel(plan),
		listView:    NewListItemModel(plan),
		confirmView: NewConfirmView(plan, nil),
		plan:        plan,
		page:        "main",
	}
}

// Init initializes the AppModel
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.mainPage.Init(),
		m.listView.Init(),
	)
}

// Update handles app-level messages and delegates to the appropriate page model
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case OpenListItemMsg:
		m.page = "list"
		return m, m.listView.Init()

	case DoneMsg:
		m.page = "confirm"
		width, height := m.confirmView.width, m.confirmView.height
		m.confirmView = NewConfirmView(m.plan, msg.Exclude)
		m.confirmView.width, m.confirmView.height = width, height
		return m, m.confirmView.Init()

	case BackToListMsg:
		m.page = "list"
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "esc" && m.page == "list" {
			m.page = "main"
			return m, nil
		}

	case tea.WindowSizeMsg:
		var cmd tea.Cmd
		var tempModel tea.Model

		// Update all models with the window size
		tempModel, cmd = m.mainPage.Update(msg)
		m.mainPage = tempModel.(MainPageModel)
		cmds = append(cmds, cmd)

		tempModel, cmd = m.listView.Update(msg)
		m.listView = tempModel.(ListItemModel)
		cmds = append(cmds, cmd)

		tempModel, cmd = m.confirmView.Update(msg)
		m.confirmView = tempModel.(ConfirmView)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	// Delegate message to the active page
	var cmd tea.Cmd
	var tempModel tea.Model
	switch m.page {
	case "main":
		tempModel, cmd = m.mainPage.Update(msg)
		m.mainPage = tempModel.(MainPageModel)
	case "list":
		tempModel, cmd = m.listView.Update(msg)
		m.listView = tempModel.(ListItemModel)
	case "confirm":
		tempModel, cmd = m.confirmView.Update(msg)
		m.confirmView = tempModel.(ConfirmView)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the active page
func (m AppModel) View() string {
	switch m.page {
	case "main":
		return m.mainPage.View()
	case "confirm":
		return m.confirmView.View()
	default: // list
		return m.listView.View()
	}
}

// Excluded returns the original keys the user excluded
func (m AppModel) Excluded() map[string]bool {
	return m.listView.Excluded()
}

// IsFinished reports whether the user confirmed writing the documents
func (m AppModel) IsFinished() bool {
	return m.confirmView.Confirmed
}

// Review runs the review TUI for plan. It returns the exclusions chosen and
// whether the user confirmed writing.
func Review(plan *partition.Plan, opts ...tea.ProgramOption) (map[string]bool, bool, error) {
	p := tea.NewProgram(NewAppModel(plan), opts...)
	m, err := p.Run()
	if err != nil {
		return nil, false, err
	}
	final := m.(AppModel)
	return final.Excluded(), final.IsFinished(), nil
}
