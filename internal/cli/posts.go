package cli

import (
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/api"
	"github.com/quillhq/quill/internal/pagination"
)

// Output formats for listing commands.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// postsFlags holds the listing flags shared by list and search.
type postsFlags struct {
	page         int
	pageSize     int
	siblingCount int
	sort         string
	category     string
	output       string
}

// register adds the shared listing flags to cmd.
func (f *postsFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", pagination.DefaultPage, "page to fetch (1-based)")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "posts per page (0 = config default)")
	cmd.Flags().IntVar(&f.siblingCount, "sibling-count", -1, "page numbers shown around the current page (-1 = config default)")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort order: 'field' or 'field:order' (e.g. 'published_at:desc')")
	cmd.Flags().StringVar(&f.category, "category", "", "filter by category slug")
	cmd.Flags().StringVarP(&f.output, "output", "o", outputTable, "output format: table or json")
}

// params resolves flags into validated pagination parameters.
func (f *postsFlags) params(a *app) (pagination.Params, error) {
	params := pagination.NewParams()
	params.Page = f.page
	params.PageSize = f.pageSize
	if params.PageSize == 0 {
		params.PageSize = a.cfg.Defaults.PageSize
	}
	params.SiblingCount = f.siblingCount
	if params.SiblingCount < 0 {
		params.SiblingCount = a.cfg.Defaults.SiblingCount
	}

	field, order, err := pagination.ParseSort(f.sort)
	if err != nil {
		return pagination.Params{}, err
	}
	params.SortField = field
	params.SortOrder = order

	if err := params.Validate(); err != nil {
		return pagination.Params{}, err
	}
	return params, nil
}

// newPostsCmd creates the posts command group.
func newPostsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "posts", Short: "List, search, and read posts"}
	cmd.AddCommand(newPostsListCmd(a), newPostsSearchCmd(a), newPostsViewCmd(a))
	return cmd
}

// newPostsListCmd creates "posts list".
func newPostsListCmd(a *app) *cobra.Command {
	var flags postsFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runListing(cmd, a, &flags, "")
		},
	}
	flags.register(cmd)
	return cmd
}

// newPostsSearchCmd creates "posts search <query>".
func newPostsSearchCmd(a *app) *cobra.Command {
	var flags postsFlags

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListing(cmd, a, &flags, args[0])
		},
	}
	flags.register(cmd)
	return cmd
}

// runListing executes a listing request and renders the result.
func runListing(cmd *cobra.Command, a *app, flags *postsFlags, query string) error {
	params, err := flags.params(a)
	if err != nil {
		return err
	}

	client, err := a.newClient()
	if err != nil {
		return err
	}

	page, err := client.ListPosts(cmd.Context(), api.ListPostsOptions{
		Page:      params.Page,
		PageSize:  params.PageSize,
		Query:     query,
		Category:  flags.category,
		SortField: params.SortField,
		SortOrder: params.SortOrder,
	})
	if err != nil {
		return err
	}

	if flags.output == outputJSON {
		return renderJSON(cmd.OutOrStdout(), page)
	}
	return renderPostsTable(cmd.OutOrStdout(), page, params)
}

// newPostsViewCmd creates "posts view <id-or-slug>".
func newPostsViewCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "view <id-or-slug>",
		Short: "Show one post in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}

			post, err := client.GetPost(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if output == outputJSON {
				return renderJSON(cmd.OutOrStdout(), post)
			}
			return renderPost(cmd.OutOrStdout(), post)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table or json")
	return cmd
}
