package tui

import (
	"fmt"
	"strings"

	"github.com/brizzai/swagger-split/internal/models"
	"github.com/brizzai/swagger-split/internal/partition"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MainPageKeyMap holds key bindings for the main page actions
type MainPageKeyMap struct {
	open key.Binding
	quit key.Binding
}

func newMainPageKeyMap() *MainPageKeyMap {
	return &MainPageKeyMap{
		open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Review paths"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("ctrl+c/q", "Quit"),
		),
	}
}

// MainPageModel is the landing page summarising the split
type MainPageModel struct {
	keys   *MainPageKeyMap
	width  int
	height int
	plan   *partition.Plan
}

// OpenListItemMsg is sent when the user chooses to open the path list
type OpenListItemMsg struct{}

// NewMainPageModel creates a new main page model
func NewMainPageModel(plan *partition.Plan) MainPageModel {
	return MainPageModel{
		keys: newMainPageKeyMap(),
		plan: plan,
	}
}

// Init initializes the model
func (m MainPageModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the main page
func (m MainPageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.open):
			return m, func() tea.Msg {
				return OpenListItemMsg{}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the main page
func (m MainPageModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render("Swagger Split Review")

	descStyle := lipgloss.NewStyle().
		Padding(1, 0).
		Width(m.width - 4).
		Align(lipgloss.Center)

	description := descStyle.Render(
		"Review how " + m.plan.Document.Source + " will be split.\n" +
			"Paths containing " + fmt.Sprintf("%q", m.plan.Options.Marker) + " go to the public document.\n\n" +
			summaryLine(m.plan),
	)

	rulesStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#f56a96")).
		Padding(1, 1).
		Width(m.width - 10).
		Align(lipgloss.Left)

	var rules strings.Builder
	if len(m.plan.Options.Rules) == 0 {
		rules.WriteString("No rewrite rules")
	}
	for _, rule := range m.plan.Options.Rules {
		replacement := rule.Replacement
		if replacement == "" {
			replacement = "(delete)"
		}
		rules.WriteString(fmt.Sprintf("%q → %s\n", rule.Match, replacement))
	}

	instructionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f56a96")).
		Padding(1, 0).
		Width(m.width - 4).
		Align(lipgloss.Center)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		title,
		"",
		description,
		"",
		rulesStyle.Render(rules.String()),
		"",
		instructionStyle.Render("Press ENTER to review paths"),
		"",
		helpStyle.Width(m.width-4).Align(lipgloss.Center).Render("Press q or Ctrl+C to quit without writing"),
	)

	return docStyle.Render(content)
}

func summaryLine(plan *partition.Plan) string {
	counts := finalKeyCounts(plan.Result.Assignments, nil)
	line := pluralize(counts[models.BucketPublic], "public path")
	if plan.Result.Admin != nil {
		line += ", " + pluralize(counts[models.BucketAdmin], "admin path")
	} else {
		line += ", admin paths discarded"
	}
	if plan.Result.Collisions > 0 {
		line += ", " + pluralize(plan.Result.Collisions, "collision")
	}
	return line
}

// pluralize returns the count followed by the noun, pluralized when needed
func pluralize(count int, singular string) string {
	if count == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %ss", count, singular)
}
