package main

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func viewsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List library roots",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromContext(cmd)
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := withTimeout(context.Background(), a.timeout)
			defer cancel()

			views, err := a.client.Views(ctx)
			if err != nil {
				return err
			}
			return a.printer.Print(views)
		},
	}
}

func syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync <libraryId>",
		Short: "Refresh the full library from the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromContext(cmd)
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := withTimeout(context.Background(), a.timeout)
			defer cancel()

			var spinner *pterm.SpinnerPrinter
			if !a.quiet && !a.json {
				spinner, _ = pterm.DefaultSpinner.Start("syncing library")
			}

			snap, err := a.client.Library(ctx, args[0], true)
			if err != nil {
				if spinner != nil {
					spinner.Fail(err.Error())
				}
				return err
			}
			a.snapshot.Swap(snap)

			if spinner != nil {
				spinner.Success(fmt.Sprintf("%d of %d tracks", len(snap.Tracks), snap.TotalRecordCount))
				return nil
			}
			return a.printer.Print(snap)
		},
	}
}

func lsCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "ls <libraryId>",
		Short: "List library tracks (cached unless --refresh)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromContext(cmd)
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := withTimeout(context.Background(), a.timeout)
			defer cancel()

			snap, err := a.client.Library(ctx, args[0], refresh)
			if err != nil {
				return err
			}
			a.snapshot.Swap(snap)
			return a.printer.Print(snap)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache")
	return cmd
}

func rescanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rescan <libraryId>",
		Short: "Ask the server to rescan a library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromContext(cmd)
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := withTimeout(context.Background(), a.timeout)
			defer cancel()

			if err := a.client.RequestLibraryRescan(ctx, args[0]); err != nil {
				return err
			}
			if !a.quiet && !a.json {
				pterm.Success.Println("rescan requested")
			}
			return nil
		},
	}
}
