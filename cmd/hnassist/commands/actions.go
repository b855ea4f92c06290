package commands

import (
	"context"
	"fmt"
	"strings"

	"hnassist/internal/scrapers/hackernews"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(upvoteCmd)
	rootCmd.AddCommand(commentCmd)
}

func (a *app) login(ctx context.Context) error {
	username, password, err := a.config.credentials()
	if err != nil {
		return err
	}
	if !a.api.Login(ctx, username, password) {
		return errActionFailed
	}
	return nil
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Checks that the configured credentials are accepted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := getApp(cmd.Context())
		err := a.login(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s\n", a.config.Username)
		return nil
	},
}

var upvoteCmd = &cobra.Command{
	Use:   "upvote <id>",
	Short: "Logs in and upvotes an item.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := getApp(cmd.Context())
		err := a.login(cmd.Context())
		if err != nil {
			return err
		}
		if !a.api.Upvote(cmd.Context(), hackernews.ItemId(args[0])) {
			return errActionFailed
		}
		fmt.Printf("upvoted %s\n", args[0])
		return nil
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment <id> <text>...",
	Short: "Logs in and replies to an item, the remaining arguments are joined into the comment.",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := getApp(cmd.Context())
		err := a.login(cmd.Context())
		if err != nil {
			return err
		}
		text := strings.Join(args[1:], " ")
		if !a.api.Comment(cmd.Context(), hackernews.ItemId(args[0]), text) {
			return errActionFailed
		}
		fmt.Printf("commented on %s\n", args[0])
		return nil
	},
}
