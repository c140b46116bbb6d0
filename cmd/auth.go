package main

import (
	"context"

	"github.com/CarterSwain/sonic-circle-backend/internal/services"
	"github.com/CarterSwain/sonic-circle-backend/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthURL prints the Spotify authorization URL, optionally opening it in a browser.
//
// The callback itself is served by the HTTP API, so a server must be running
// on the configured redirect URI for the flow to complete.
func (r *Runner) AuthURL(ctx context.Context, cmd *cli.Command) error {
	authenticator, err := services.NewSpotifyAuthenticator(r.config.Credentials.Spotify.Map())
	if err != nil {
		return err
	}

	state, err := shared.GenerateState()
	if err != nil {
		return err
	}

	url := authenticator.AuthURL(state)

	if err := r.writePlain("%s\n", url); err != nil {
		return err
	}

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	return nil
}
