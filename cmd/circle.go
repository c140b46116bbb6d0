package main

import (
	"context"
	"fmt"

	"github.com/CarterSwain/sonic-circle-backend/internal/formatter"
	"github.com/CarterSwain/sonic-circle-backend/internal/shared"
	"github.com/urfave/cli/v3"
)

// Suggest ranks other accounts by top-artist overlap with the given account.
func (r *Runner) Suggest(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: account id is required", shared.ErrMissingArgument)
	}

	stores, err := r.openStores()
	if err != nil {
		return err
	}
	defer stores.Close()

	suggestions, err := stores.engine.Suggest(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(suggestions, true)
	}

	return r.writePlain("%s", formatter.RenderSuggestions(suggestions))
}

// Compare builds the pairwise taste comparison between two accounts.
func (r *Runner) Compare(ctx context.Context, cmd *cli.Command) error {
	id, other := cmd.StringArg("id"), cmd.StringArg("other")
	if id == "" || other == "" {
		return fmt.Errorf("%w: two account ids are required", shared.ErrMissingArgument)
	}

	stores, err := r.openStores()
	if err != nil {
		return err
	}
	defer stores.Close()

	comparison, err := stores.engine.Compare(ctx, id, other)
	if err != nil {
		return err
	}

	if base := cmd.String("export"); base != "" {
		result, err := formatter.WriteComparisonExport(comparison, base)
		if err != nil {
			return err
		}
		r.logger.Info("comparison exported", "csv", result.CSVFile, "markdown", result.MarkdownFile)
	}

	if cmd.Bool("json") {
		return r.writeJSON(comparison, true)
	}

	return r.writePlain("%s", formatter.RenderComparison(comparison))
}

// Connect creates the mutual link between two accounts.
func (r *Runner) Connect(ctx context.Context, cmd *cli.Command) error {
	id, other := cmd.StringArg("id"), cmd.StringArg("other")
	if id == "" || other == "" {
		return fmt.Errorf("%w: two account ids are required", shared.ErrMissingArgument)
	}

	stores, err := r.openStores()
	if err != nil {
		return err
	}
	defer stores.Close()

	for _, accountID := range []string{id, other} {
		if _, err := stores.accounts.Get(accountID); err != nil {
			return err
		}
	}

	if err := stores.connections.Connect(id, other); err != nil {
		return err
	}

	return r.writePlain("✓ Accounts connected\n")
}

// Linked lists the accounts connected to the given account.
func (r *Runner) Linked(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: account id is required", shared.ErrMissingArgument)
	}

	stores, err := r.openStores()
	if err != nil {
		return err
	}
	defer stores.Close()

	linked, err := stores.connections.Linked(id)
	if err != nil {
		return err
	}

	return r.renderAccounts(linked, cmd.Bool("json"))
}

// Profile composes the compact public summary for an account.
func (r *Runner) Profile(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: account id is required", shared.ErrMissingArgument)
	}

	stores, err := r.openStores()
	if err != nil {
		return err
	}
	defer stores.Close()

	card, err := stores.engine.Profile(ctx, id)
	if err != nil {
		return err
	}

	return r.writeJSON(card, cmd.Bool("pretty"))
}
