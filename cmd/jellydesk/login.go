package main

import (
	"context"
	"errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mikey-austin/jellydesk/internal/app"
	"github.com/mikey-austin/jellydesk/internal/jellyfin"
)

func loginCommand() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <host> <username>",
		Short: "Authenticate against a server and persist the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromContext(cmd)
			ctx, cancel := withTimeout(context.Background(), a.timeout)
			defer cancel()

			host, username := args[0], args[1]
			pass := password
			if pass == "" {
				pass = a.cfg.Server.Password
			}
			if pass == "" {
				return errors.New("password required (--password or config)")
			}

			// Anonymous client; the login call itself carries no token.
			anon := jellyfin.New(a.log, jellyfin.Credentials{
				Host:     host,
				DeviceID: a.cfg.Server.DeviceID,
			}, nil)

			creds, err := anon.Authenticate(ctx, username, pass)
			if err != nil {
				return err
			}

			a.cfg.Server.Host = creds.Host
			a.cfg.Server.Username = username
			a.cfg.Server.Token = creds.Token
			a.cfg.Server.UserID = creds.UserID
			if err := app.SaveConfig(a.configPath, a.cfg); err != nil {
				return err
			}

			if !a.quiet && !a.json {
				pterm.Success.Printfln("logged in to %s as %s", creds.Host, username)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password (falls back to config)")
	return cmd
}
