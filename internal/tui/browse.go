package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/mesh-intelligence/phonebook/internal/commands"
	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// BrowseOptions configures Browse.
type BrowseOptions struct {
	Writer     io.Writer // Output destination (default: os.Stdout).
	Input      io.Reader // Key input for the pager (default: os.Stdin).
	PageSize   int
	ForcePlain bool // Print plain pages even on a terminal.
}

// Browse shows book page by page. On a terminal it runs an interactive
// pager; otherwise every page is printed as plain text.
func Browse(ctx context.Context, book *types.AddressBook, opts BrowseOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.ForcePlain || !IsTTY(opts.Writer) {
		return WritePages(opts.Writer, book, opts.PageSize)
	}
	p := tea.NewProgram(NewModel(book, opts.PageSize),
		tea.WithContext(ctx),
		tea.WithInput(opts.Input),
		tea.WithOutput(opts.Writer),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running pager: %w", err)
	}
	return nil
}

// WritePages prints every page of book as a plain table under a
// "Page N of M" heading.
func WritePages(w io.Writer, book *types.AddressBook, pageSize int) error {
	pager := book.Paginate(pageSize)
	if pager.PageCount() == 0 {
		_, err := fmt.Fprintln(w, "There are no contacts in the phone book yet")
		return err
	}
	n := 0
	for page := range pager.Pages() {
		n++
		if n > 1 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "Page %d of %d\n%s", n, pager.PageCount(), commands.PlainTable(slices.Values(page.Records()))); err != nil {
			return err
		}
	}
	return nil
}

// IsTTY reports whether w is connected to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
