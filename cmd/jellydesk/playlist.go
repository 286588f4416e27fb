package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mikey-austin/jellydesk/internal/adapters/output"
)

func playlistCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playlist",
		Short: "Playlist commands",
	}

	cmd.AddCommand(playlistListCommand())
	cmd.AddCommand(playlistShowCommand())
	cmd.AddCommand(playlistAddCommand())
	cmd.AddCommand(playlistMoveCommand())
	cmd.AddCommand(playlistRemoveCommand())

	return cmd
}

func playlistListCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List playlists (cached unless --refresh)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromContext(cmd)
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := withTimeout(context.Background(), a.timeout)
			defer cancel()

			playlists, err := a.client.Playlists(ctx, refresh)
			if err != nil {
				return err
			}
			return a.printer.Print(playlists)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache")
	return cmd
}

func playlistShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <playlistId>",
		Short: "Show playlist item ids in server order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromContext(cmd)
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := withTimeout(context.Background(), a.timeout)
			defer cancel()

			items, err := a.client.PlaylistItems(ctx, args[0])
			if err != nil {
				return err
			}
			return a.printer.Print(output.PlaylistItemsOutput{PlaylistID: args[0], ItemIDs: items})
		},
	}
}

func playlistAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <playlistId> <itemId>",
		Short: "Append an item to a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromContext(cmd)
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := withTimeout(context.Background(), a.timeout)
			defer cancel()

			return a.client.AddPlaylistItem(ctx, args[0], args[1])
		},
	}
}

func playlistMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <playlistId> <itemId> <newIndex>",
		Short: "Reorder an item within a playlist",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromContext(cmd)
			if err := a.requireAuth(); err != nil {
				return err
			}
			index, err := strconv.Atoi(args[2])
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(context.Background(), a.timeout)
			defer cancel()

			return a.client.MovePlaylistItem(ctx, args[0], args[1], index)
		},
	}
}

func playlistRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <playlistId> <entryId>",
		Short: "Remove an entry from a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromContext(cmd)
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := withTimeout(context.Background(), a.timeout)
			defer cancel()

			return a.client.RemovePlaylistItem(ctx, args[0], args[1])
		},
	}
}
