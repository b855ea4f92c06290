package commands

import (
	"fmt"
	"io"
	"os"

	"hnassist/internal/scrapers/hackernews"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	itemsPage  int
	itemsLimit int
)

func init() {
	itemsCmd.Flags().IntVar(&itemsPage, "page", 1, "The page of items to show.")
	itemsCmd.Flags().IntVar(&itemsLimit, "limit", 30, "The number of items on a page.")
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(storiesCmd)
}

func field(item hackernews.Item, key string) string {
	value, ok := item[key]
	if !ok || value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

func renderItems(out io.Writer, results []hackernews.ItemResult) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Id", "Type", "By", "Title", "Score", "Error"})

	for _, r := range results {
		if r.Err != nil {
			t.AppendRow(table.Row{r.Id, "", "", "", "", r.Err.Error()})
			continue
		}
		if r.Item == nil {
			t.AppendRow(table.Row{r.Id, "", "", "", "", "not found"})
			continue
		}
		t.AppendRow(table.Row{
			r.Id,
			field(r.Item, "type"),
			field(r.Item, "by"),
			field(r.Item, "title"),
			field(r.Item, "score"),
			"",
		})
	}
	t.Render()
}

func toItemIds(args []string) []hackernews.ItemId {
	ids := make([]hackernews.ItemId, len(args))
	for i, arg := range args {
		ids[i] = hackernews.ItemId(arg)
	}
	return ids
}

var itemsCmd = &cobra.Command{
	Use:   "items <id>... [--page N] [--limit N]",
	Short: "Fetches items by id, at most 21 of them.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := getApp(cmd.Context())
		results := a.api.GetItems(cmd.Context(), itemsPage, itemsLimit, toItemIds(args))
		renderItems(os.Stdout, results)
		return nil
	},
}

var storiesCmd = &cobra.Command{
	Use:       "stories [kind]",
	Short:     "Fetches the head of a story list (topstories by default).",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: hackernews.StoryKinds,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := "topstories"
		if len(args) > 0 {
			kind = args[0]
		}

		a := getApp(cmd.Context())
		ids, err := a.api.Items.FetchStoryIds(cmd.Context(), kind)
		if err != nil {
			return err
		}
		results := a.api.GetItems(cmd.Context(), 1, len(ids), ids)
		renderItems(os.Stdout, results)
		return nil
	},
}
