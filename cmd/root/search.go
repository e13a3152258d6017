package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sysid/bkmr/pkg/bookmark"
	"github.com/sysid/bkmr/pkg/query"
)

type searchFlags struct {
	fts        string
	exact      string
	tagsAll    string
	tagsAllNot string
	tagsAny    string
	tagsAnyNot string
	prefix     []string
	desc       bool
	asc        bool
	limit      int
	np         bool
	fuzzy      bool
	json       bool
	interpolate bool
	shellStubs bool
}

// newSearchCmd implements the search command: the structured tag filters
// map onto query.BookmarkQuery, then results are rendered by one of
// --np/--json/--shell-stubs/the default human-readable printer, or fed into
// the --fuzzy interactive selector.
func newSearchCmd(app *App) *cobra.Command {
	f := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search bookmarks by full-text term and tag filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := app.Open(ctx); err != nil {
				return err
			}

			q := &query.BookmarkQuery{
				Text:       f.fts,
				TagsExact:  tagSet(f.exact),
				TagsAll:    tagSet(f.tagsAll),
				TagsAllNot: tagSet(f.tagsAllNot),
				TagsAny:    tagSet(f.tagsAny),
				TagsAnyNot: tagSet(f.tagsAnyNot),
				TagsPrefix: f.prefix,
				Limit:      f.limit,
			}
			switch {
			case f.desc:
				q.Sort = query.SortDescending
			case f.asc:
				q.Sort = query.SortAscending
			}

			results, err := app.svc.Search(ctx, q)
			if err != nil {
				return err
			}

			if f.fuzzy {
				return runFuzzySearch(ctx, app, results)
			}
			return printSearchResults(ctx, app, cmd, f, results)
		},
	}

	cmd.Flags().StringVar(&f.fts, "fts", "", "Full-text search term")
	cmd.Flags().StringVarP(&f.exact, "exact", "e", "", "Comma-separated tags the bookmark must match exactly")
	cmd.Flags().StringVar(&f.tagsAll, "tags", "", "Comma-separated tags the bookmark must carry all of")
	cmd.Flags().StringVar(&f.tagsAllNot, "Tags", "", "Comma-separated tags the bookmark must not carry all of")
	cmd.Flags().StringVarP(&f.tagsAny, "ntags", "n", "", "Comma-separated tags the bookmark must carry any of")
	cmd.Flags().StringVarP(&f.tagsAnyNot, "Ntags", "N", "", "Comma-separated tags the bookmark must carry none of")
	cmd.Flags().StringArrayVar(&f.prefix, "prefix", nil, "Tag prefix filter (repeatable)")
	cmd.Flags().BoolVarP(&f.desc, "desc", "o", false, "Sort by updated-at, descending")
	cmd.Flags().BoolVarP(&f.asc, "asc", "O", false, "Sort by updated-at, ascending")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Limit the number of results (0 = unlimited)")
	cmd.Flags().BoolVar(&f.np, "np", false, "Non-interactive: print comma-joined ids to stdout")
	cmd.Flags().BoolVar(&f.fuzzy, "fuzzy", false, "Fuzzy-select a single result interactively, then open it")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print results as a JSON array")
	cmd.Flags().BoolVar(&f.interpolate, "interpolate", false, "Render each result's URL through the template engine before printing")
	cmd.Flags().BoolVar(&f.shellStubs, "shell-stubs", false, "Emit a shell function wrapper per _shell_-tagged hit")
	return cmd
}

func printSearchResults(ctx context.Context, app *App, cmd *cobra.Command, f *searchFlags, results []*bookmark.Bookmark) error {
	if f.interpolate {
		results = interpolateResults(ctx, app, results)
	}

	switch {
	case f.np:
		app.printer.PrintIDsCSV(results)
	case f.json:
		return app.printer.PrintJSON(results)
	case f.shellStubs:
		app.printer.PrintShellStubs(results)
	default:
		for _, b := range results {
			app.printer.PrintBookmark(b, true, true)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d result(s)\n", len(results))
	}
	return nil
}

// interpolateResults renders each bookmark's URL through the template
// engine for display, returning shallow copies so the originals (and any
// subsequent persistence) are untouched. A render failure falls back to
// the raw URL.
func interpolateResults(ctx context.Context, app *App, results []*bookmark.Bookmark) []*bookmark.Bookmark {
	out := make([]*bookmark.Bookmark, len(results))
	for i, b := range results {
		cp := *b
		if rendered, err := app.svc.Engine.Render(ctx, b.URL); err == nil {
			cp.URL = rendered
		}
		out[i] = &cp
	}
	return out
}
