// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCommand(app *App) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the download cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var list bool
	path := &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: app.handle(func(cmd *cobra.Command, _ []string) error {
			c, err := app.cache(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, c.Dir())
			if !list {
				return nil
			}
			entries, err := c.Entries()
			if err != nil {
				return err
			}
			for _, name := range entries {
				fmt.Fprintln(app.stdout, "  "+name)
			}
			return nil
		}),
	}
	path.Flags().BoolVarP(&list, "list", "l", false, "also list the cached files")

	cacheCmd.AddCommand(
		path,
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every cached download",
			Args:  cobra.NoArgs,
			RunE: app.handle(func(cmd *cobra.Command, _ []string) error {
				c, err := app.cache(cmd.Context())
				if err != nil {
					return err
				}
				if err := c.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(app.stdout, SuccessStyle.Render("✓ ")+"Cleared "+CmdStyle.Render(c.Dir()))
				return nil
			}),
		},
	)
	return cacheCmd
}
