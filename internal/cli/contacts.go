package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// contactCmd describes a one-shot subcommand that runs a single shell
// command against the stored book.
type contactCmd struct {
	use     string
	short   string
	keyword string
	args    cobra.PositionalArgs
	mutates bool
}

var contactCmds = []contactCmd{
	{use: "add <name> <phone>", short: "Add a contact or another phone to it", keyword: "add", args: cobra.ExactArgs(2), mutates: true},
	{use: "phone <name>", short: "Show the phones of a contact", keyword: "phone", args: cobra.ExactArgs(1)},
	{use: "change <name> <old-phone> <new-phone>", short: "Replace a phone", keyword: "change", args: cobra.ExactArgs(3), mutates: true},
	{use: "delete <name> <phone>", short: "Remove a phone from a contact", keyword: "delete", args: cobra.ExactArgs(2), mutates: true},
	{use: "find <text>", short: "Search names and phones", keyword: "find", args: cobra.ExactArgs(1)},
	{use: "show", short: "List every contact", keyword: "show all", args: cobra.NoArgs},
	{use: "birthday <name> [DD-MM-YYYY]", short: "Set a birthday and count the days to it", keyword: "birthday", args: cobra.RangeArgs(1, 2), mutates: true},
}

func newContactCmds(a *app) []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(contactCmds))
	for _, c := range contactCmds {
		cmds = append(cmds, &cobra.Command{
			Use:   c.use,
			Short: c.short,
			Args:  c.args,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withStore(c.mutates, func(book *types.AddressBook) error {
					return a.shell(cmd, book).Call(c.keyword, args...)
				})
			},
		})
	}
	return cmds
}
