package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Cache maintenance",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all cached metadata and album art",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromContext(cmd)

			if err := a.art.Clear(); err != nil {
				return err
			}
			if err := a.meta.Clear(); err != nil {
				return err
			}
			if !a.quiet && !a.json {
				pterm.Success.Println("cache cleared")
			}
			return nil
		},
	})

	return cmd
}
