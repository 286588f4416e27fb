package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey-austin/jellydesk/internal/adapters/output"
	"github.com/mikey-austin/jellydesk/internal/app"
	"github.com/mikey-austin/jellydesk/internal/diskcache"
	"github.com/mikey-austin/jellydesk/internal/jellyfin"
	"github.com/mikey-austin/jellydesk/internal/media"
)

type cli struct {
	configPath string
	cfg        app.Config
	log        *zap.Logger
	printer    output.Printer
	client     *jellyfin.Client
	meta       *diskcache.Cache
	art        *diskcache.Cache
	fetcher    *media.Fetcher
	snapshot   *jellyfin.SnapshotCell
	quiet      bool
	json       bool
	timeout    time.Duration
}

func main() {
	root := &cobra.Command{
		Use:   "jellydesk",
		Short: "Jellyfin desktop client",
	}

	var (
		configPath string
		logLevel   string
		timeout    time.Duration
		quiet      bool
		jsonOut    bool
	)

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override")
	root.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 30*time.Second, "command timeout")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	root.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output json")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			var err error
			path, err = app.DefaultConfigPath()
			if err != nil {
				return err
			}
		}

		cfg, err := app.LoadConfig(path)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if cfg.Server.DeviceID == "" {
			cfg.EnsureDeviceID()
			if err := app.SaveConfig(path, cfg); err != nil {
				return fmt.Errorf("persist device id: %w", err)
			}
		}

		logger, err := app.NewLogger(cfg.Log)
		if err != nil {
			return err
		}

		meta, err := diskcache.New(logger, cfg.CacheRoot())
		if err != nil {
			return err
		}
		art, err := diskcache.New(logger, cfg.ArtCacheRoot())
		if err != nil {
			return err
		}

		creds := jellyfin.Credentials{
			Host:     cfg.Server.Host,
			Token:    cfg.Server.Token,
			UserID:   cfg.Server.UserID,
			DeviceID: cfg.Server.DeviceID,
		}
		client := jellyfin.New(logger, creds, meta)

		var printer output.Printer
		if jsonOut {
			printer = output.JSONPrinter{}
		} else {
			printer = output.HumanPrinter{}
		}

		cmd.SetContext(context.WithValue(cmd.Context(), cliKey{}, &cli{
			configPath: path,
			cfg:        cfg,
			log:        logger,
			printer:    printer,
			client:     client,
			meta:       meta,
			art:        art,
			fetcher:    media.NewFetcher(logger, client, art),
			snapshot:   &jellyfin.SnapshotCell{},
			quiet:      quiet,
			json:       jsonOut,
			timeout:    timeout,
		}))
		return nil
	}

	root.AddCommand(loginCommand())
	root.AddCommand(viewsCommand())
	root.AddCommand(syncCommand())
	root.AddCommand(lsCommand())
	root.AddCommand(rescanCommand())
	root.AddCommand(playlistCommand())
	root.AddCommand(artCommand())
	root.AddCommand(urlCommand())
	root.AddCommand(playCommand())
	root.AddCommand(cacheCommand())

	if err := root.Execute(); err != nil {
		if jellyfin.IsAuthFailed(err) {
			pterm.Error.Println("bad credentials; run jellydesk login")
		}
		os.Exit(1)
	}
}

type cliKey struct{}

func fromContext(cmd *cobra.Command) *cli {
	val := cmd.Context().Value(cliKey{})
	if val == nil {
		return nil
	}
	return val.(*cli)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// requireAuth guards commands that talk to the server with a session.
func (a *cli) requireAuth() error {
	if !a.client.Credentials().Authenticated() {
		return fmt.Errorf("not logged in; run jellydesk login")
	}
	return nil
}
