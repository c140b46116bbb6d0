package main

import (
	"context"
	"fmt"

	"github.com/CarterSwain/sonic-circle-backend/internal/models"
	"github.com/CarterSwain/sonic-circle-backend/internal/shared"
	"github.com/urfave/cli/v3"
)

// AccountsList prints every registered account.
func (r *Runner) AccountsList(ctx context.Context, cmd *cli.Command) error {
	stores, err := r.openStores()
	if err != nil {
		return err
	}
	defer stores.Close()

	accounts, err := stores.accounts.List(nil)
	if err != nil {
		return err
	}

	return r.renderAccounts(accounts, cmd.Bool("json"))
}

// AccountsSearch prints accounts matching the query substring.
func (r *Runner) AccountsSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: query is required", shared.ErrMissingArgument)
	}

	stores, err := r.openStores()
	if err != nil {
		return err
	}
	defer stores.Close()

	accounts, err := stores.accounts.Search(query)
	if err != nil {
		return err
	}

	return r.renderAccounts(accounts, cmd.Bool("json"))
}

func (r *Runner) renderAccounts(accounts []*models.Account, asJSON bool) error {
	if asJSON {
		type row struct {
			ID        string `json:"id"`
			SpotifyID string `json:"spotify_id"`
			Email     string `json:"email,omitempty"`
		}

		rows := []row{}
		for _, account := range accounts {
			rows = append(rows, row{ID: account.ID(), SpotifyID: account.SpotifyID(), Email: account.Email()})
		}
		return r.writeJSON(rows, true)
	}

	if len(accounts) == 0 {
		return r.writePlain("No accounts found.\n")
	}

	for _, account := range accounts {
		line := fmt.Sprintf("%s  %s", account.ID(), account.SpotifyID())
		if email := account.Email(); email != "" {
			line += "  " + email
		}
		if err := r.writePlain("%s\n", line); err != nil {
			return err
		}
	}

	return nil
}
