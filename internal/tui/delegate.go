package tui

import (
	"github.com/brizzai/swagger-split/internal/tui/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// newItemDelegate returns a list.DefaultDelegate with custom update and help functions.
func newItemDelegate(keys *delegateKeyMap) list.DefaultDelegate {
	d := list.NewDefaultDelegate()

	d.UpdateFunc = func(msg tea.Msg, m *list.Model) tea.Cmd {
		item, ok := m.SelectedItem().(models.EntryItem)
		if !ok {
			return nil
		}

		switch msg := msg.(type) {
		case tea.KeyMsg:
			if key.Matches(msg, keys.exclude) {
				updatedItem := item.ToggleExcluded()
				m.SetItem(m.Index(), updatedItem)
				if updatedItem.IsExcluded {
					return m.NewStatusMessage(statusMessageStyle("Excluded " + item.Assignment.OriginalKey))
				}
				return m.NewStatusMessage(statusMessageStyle("Included " + item.Assignment.OriginalKey))
			}
		}
		return nil
	}

	help := []key.Binding{keys.exclude}

	d.ShortHelpFunc = func() []key.Binding {
		return help
	}

	d.FullHelpFunc = func() [][]key.Binding {
		return [][]key.Binding{help}
	}

	return d
}

// delegateKeyMap holds key bindings for list item actions.
type delegateKeyMap struct {
	exclude key.Binding
}

// newDelegateKeyMap creates a new delegateKeyMap with default bindings.
func newDelegateKeyMap() *delegateKeyMap {
	return &delegateKeyMap{
		exclude: key.NewBinding(
			key.WithKeys("x", "backspace"),
			key.WithHelp("x", "Exclude from output"),
		),
	}
}
