// Package tui renders the address book one page at a time, interactively
// on a terminal and as plain text otherwise.
package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/phonebook/internal/commands"
	"github.com/mesh-intelligence/phonebook/pkg/types"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Model is the bubbletea model for browsing pages of contacts.
type Model struct {
	pages    []types.Page
	total    int
	index    int
	keys     keyMap
	help     help.Model
	quitting bool
}

// NewModel paginates book with pageSize and starts on the first page.
func NewModel(book *types.AddressBook, pageSize int) Model {
	return Model{
		pages: slices.Collect(book.Paginate(pageSize).Pages()),
		total: book.Len(),
		keys:  defaultKeyMap(),
		help:  help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			if m.index < len(m.pages)-1 {
				m.index++
			}
		case key.Matches(msg, m.keys.Prev):
			if m.index > 0 {
				m.index--
			}
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if len(m.pages) == 0 {
		return "There are no contacts in the phone book yet\n\n" + m.help.View(m.keys) + "\n"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Phone book, page %d of %d", m.index+1, len(m.pages))))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  (%d contacts)", m.total)))
	b.WriteString("\n")
	b.WriteString(commands.StyledTable(slices.Values(m.pages[m.index].Records())))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// Page returns the zero-based index of the page on screen.
func (m Model) Page() int { return m.index }

// PageCount returns the number of pages.
func (m Model) PageCount() int { return len(m.pages) }
