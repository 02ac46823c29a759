package models

import (
	"fmt"

	"github.com/brizzai/swagger-split/internal/models"
	"github.com/brizzai/swagger-split/internal/partition"
	"github.com/charmbracelet/lipgloss"
)

var (
	publicStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#56FF4E"))
	adminStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f5a623"))
	excludedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
)

// EntryItem wraps a partition Assignment for display in the list
// Implements list.Item
type EntryItem struct {
	Assignment partition.Assignment
	IsExcluded bool
}

func (i EntryItem) Title() string {
	if i.Assignment.OriginalKey == i.Assignment.FinalKey {
		return i.Assignment.OriginalKey
	}
	return fmt.Sprintf("%s → %s", i.Assignment.OriginalKey, i.Assignment.FinalKey)
}

func (i EntryItem) Description() string {
	if i.IsExcluded {
		return excludedStyle.Render("[Excluded]")
	}
	label := "[" + string(i.Assignment.Bucket) + "]"
	if i.Assignment.Bucket == models.BucketPublic {
		label = publicStyle.Render(label)
	} else {
		label = adminStyle.Render(label)
	}
	if i.Assignment.Dropped {
		label += " discarded by policy"
	}
	if i.Assignment.Replaced {
		label += " replaces an earlier entry"
	}
	return label
}

func (i EntryItem) ToggleExcluded() EntryItem {
	i.IsExcluded = !i.IsExcluded
	return i
}

func (i EntryItem) FilterValue() string {
	return i.Assignment.OriginalKey + " " + i.Assignment.FinalKey + " " + string(i.Assignment.Bucket)
}
