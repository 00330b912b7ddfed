package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/api"
	"github.com/quillhq/quill/internal/pagination"
	"github.com/quillhq/quill/internal/tui"
)

// newBrowseCmd creates "browse", the interactive post browser.
func newBrowseCmd(a *app) *cobra.Command {
	var (
		pageSize     int
		siblingCount int
		plain        bool
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse posts interactively",
		Long: "Browse posts in a full-screen terminal UI with paging, search, " +
			"and a post reader. Falls back to a plain listing when stdout is " +
			"not a terminal.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			size := pageSize
			if size == 0 {
				size = a.cfg.Defaults.PageSize
			}
			siblings := siblingCount
			if siblings < 0 {
				siblings = a.cfg.Defaults.SiblingCount
			}

			client, err := a.newClient()
			if err != nil {
				return err
			}

			if tui.DetectOutputMode(plain) == tui.OutputModePlain {
				return runBrowsePlain(cmd, client, size, siblings)
			}

			model := tui.NewBrowseModel(cmd.Context(), client, size, siblings)
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("running browser: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&pageSize, "page-size", 0, "posts per page (0 = config default)")
	cmd.Flags().IntVar(&siblingCount, "sibling-count", -1, "page numbers shown around the current page (-1 = config default)")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the first page as a plain table and exit")
	return cmd
}

// runBrowsePlain prints the first page as a static table. Used when
// stdout is piped or --plain is set.
func runBrowsePlain(cmd *cobra.Command, client *api.Client, pageSize, siblingCount int) error {
	params := pagination.NewParams()
	params.PageSize = pageSize
	params.SiblingCount = siblingCount
	if err := params.Validate(); err != nil {
		return err
	}

	page, err := client.ListPosts(cmd.Context(), api.ListPostsOptions{
		Page:     params.Page,
		PageSize: params.PageSize,
	})
	if err != nil {
		return err
	}
	return renderPostsTable(cmd.OutOrStdout(), page, params)
}
