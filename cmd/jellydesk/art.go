package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func artCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "art <itemId>",
		Short: "Fetch album art for an item (cached on disk)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromContext(cmd)
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := withTimeout(context.Background(), a.timeout)
			defer cancel()

			data, err := a.fetcher.Image(ctx, args[0])
			if err != nil {
				return err
			}

			path := outPath
			if path == "" {
				path = args[0] + ".jpg"
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			if !a.quiet && !a.json {
				pterm.Success.Printfln("wrote %s (%d bytes)", path, len(data))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <itemId>.jpg)")
	return cmd
}

func urlCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "url <itemId>",
		Short: "Print the stream address for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromContext(cmd)
			if err := a.requireAuth(); err != nil {
				return err
			}
			_, err := fmt.Fprintln(os.Stdout, a.fetcher.StreamURI(args[0]))
			return err
		},
	}
}
