package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey-austin/jellydesk/internal/player"
)

func playCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "play <itemId>",
		Short: "Stream an item through the playback pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromContext(cmd)
			if err := a.requireAuth(); err != nil {
				return err
			}

			drv, err := player.NewDriver(a.log, a.cfg.Playback.Pipeline, a.cfg.Playback.Device)
			if err != nil {
				return err
			}
			defer drv.Close()

			uri := a.fetcher.StreamURI(args[0])
			if err := drv.SetURI(uri); err != nil {
				return err
			}
			if err := drv.Play(); err != nil {
				return err
			}
			if !a.quiet && !a.json {
				pterm.Info.Printfln("playing %s", args[0])
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			events := drv.Events()
			for {
				select {
				case <-ctx.Done():
					return drv.Stop()
				case event, ok := <-events:
					if !ok {
						return nil
					}
					if event.Err != nil {
						return event.Err
					}
					a.log.Debug("playback event",
						zap.Stringer("state", event.State),
						zap.Int64("position_ms", event.PositionMS))
					if event.State == player.StateStopped {
						return nil
					}
				}
			}
		},
	}
}
