package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/brizzai/swagger-split/internal/models"
	"github.com/brizzai/swagger-split/internal/parser"
	"github.com/brizzai/swagger-split/internal/partition"
	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmView asks the user to confirm writing the output documents
type ConfirmView struct {
	plan      *partition.Plan
	exclude   map[string]bool
	width     int
	height    int
	Confirmed bool
}

// NewConfirmView creates a confirmation view for the given exclusions
func NewConfirmView(plan *partition.Plan, exclude map[string]bool) ConfirmView {
	return ConfirmView{
		plan:    plan,
		exclude: exclude,
	}
}

// Init initializes the confirm view
func (m ConfirmView) Init() tea.Cmd {
	return nil
}

// Update handles messages for the confirm view
func (m ConfirmView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			return m, func() tea.Msg { return BackToListMsg{} }
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the confirm view
func (m ConfirmView) View() string {
	var sb strings.Builder

	verticalPadding := (m.height - 8) / 2
	for i := 0; i < verticalPadding; i++ {
		sb.WriteString("\n")
	}

	sb.WriteString(centerText(titleStyle.Render("Write documents"), m.width))
	sb.WriteString("\n\n")

	for _, line := range m.outputLines() {
		sb.WriteString(centerText(line, m.width))
		sb.WriteString("\n")
	}
	if len(m.exclude) > 0 {
		sb.WriteString(centerText(statusMessageStyle(pluralize(len(m.exclude), "path")+" excluded"), m.width))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(centerText("(esc) Back to list | (enter) Write | (q) Quit", m.width))

	return sb.String()
}

func (m ConfirmView) outputLines() []string {
	if m.plan == nil {
		return nil
	}
	counts := finalKeyCounts(m.plan.Result.Assignments, m.exclude)

	lines := make([]string, 0, len(m.plan.Outputs))
	for _, out := range m.plan.Outputs {
		lines = append(lines, fmt.Sprintf("%s → %s",
			completeMessageStyle(pluralize(counts[out.Bucket], string(out.Bucket)+" path")),
			filepath.Join(filepath.Base(filepath.Dir(out.Path)), parser.SwaggerFileName)))
	}
	return lines
}

// finalKeyCounts counts the distinct final keys each bucket will hold, so
// entries that collide are counted once
func finalKeyCounts(assignments []partition.Assignment, exclude map[string]bool) map[models.Bucket]int {
	seen := map[models.Bucket]map[string]bool{}
	for _, a := range assignments {
		if a.Dropped || exclude[a.OriginalKey] {
			continue
		}
		if seen[a.Bucket] == nil {
			seen[a.Bucket] = map[string]bool{}
		}
		seen[a.Bucket][a.FinalKey] = true
	}

	counts := make(map[models.Bucket]int, len(seen))
	for bucket, keys := range seen {
		counts[bucket] = len(keys)
	}
	return counts
}

// BackToListMsg signals to go back to the path list
type BackToListMsg struct{}

// centerText centers text horizontally
func centerText(text string, width int) string {
	if width <= len(text) {
		return text
	}

	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}
