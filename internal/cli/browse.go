package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/phonebook/internal/tui"
	"github.com/mesh-intelligence/phonebook/pkg/types"
)

func newBrowseCmd(a *app) *cobra.Command {
	var pageSize int
	var plain bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through contacts",
		Long:  "Page through contacts interactively on a terminal, or print every page when output is redirected.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			size := a.cfg.Pages()
			if pageSize > 0 {
				size = pageSize
			}
			return a.withStore(false, func(book *types.AddressBook) error {
				return tui.Browse(cmd.Context(), book, tui.BrowseOptions{
					Writer:     cmd.OutOrStdout(),
					Input:      cmd.InOrStdin(),
					PageSize:   size,
					ForcePlain: plain,
				})
			})
		},
	}
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "contacts per page (default: page_size from config)")
	cmd.Flags().BoolVar(&plain, "plain", false, "print plain pages even on a terminal")
	return cmd
}
