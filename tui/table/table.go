// Package table renders themed tables for command-line output.
package table

import (
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/grovetools/clueitems/tui/theme"
)

// Options provides additional configuration for the table
type Options struct {
	Bordered bool
	// Width caps the table width. Zero leaves it unbounded.
	Width int
	Theme *theme.Theme
}

// DefaultOptions returns the default table options
func DefaultOptions() Options {
	return Options{
		Bordered: true,
		Theme:    theme.DefaultTheme,
	}
}

// New creates a table with the given headers and default styling.
func New(headers ...string) *ltable.Table {
	return NewWithOptions(DefaultOptions(), headers...)
}

// NewWithOptions creates a table with custom options.
func NewWithOptions(opts Options, headers ...string) *ltable.Table {
	if opts.Theme == nil {
		opts.Theme = theme.DefaultTheme
	}
	t := opts.Theme

	table := ltable.New().Headers(headers...)
	if opts.Bordered {
		table = table.
			Border(lipgloss.RoundedBorder()).
			BorderStyle(t.Muted)
	} else {
		table = table.
			Border(lipgloss.HiddenBorder()).
			BorderTop(false).
			BorderBottom(false)
	}
	if opts.Width > 0 {
		table = table.Width(opts.Width)
	}

	return table.StyleFunc(func(row, col int) lipgloss.Style {
		if row == ltable.HeaderRow {
			return t.TableHeader.Padding(0, 1)
		}
		return lipgloss.NewStyle().Padding(0, 1)
	})
}
