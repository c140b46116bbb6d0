package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/CarterSwain/sonic-circle-backend/internal/affinity"
	"github.com/CarterSwain/sonic-circle-backend/internal/auth"
	"github.com/CarterSwain/sonic-circle-backend/internal/repositories"
	"github.com/CarterSwain/sonic-circle-backend/internal/services"
	"github.com/CarterSwain/sonic-circle-backend/internal/shared"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
	}
}

// stores bundles the per-invocation persistence and affinity dependencies.
// Commands open it, use it, and close it before returning.
type stores struct {
	db          *sql.DB
	accounts    *repositories.AccountRepository
	connections *repositories.ConnectionRepository
	engine      *affinity.Engine
	auth        *services.SpotifyAuthenticator
}

func (s *stores) Close() error { return s.db.Close() }

// openStores opens the database and wires the repositories, token refresher,
// and affinity engine on top of it.
func (r *Runner) openStores() (*stores, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	authenticator, err := services.NewSpotifyAuthenticator(r.config.Credentials.Spotify.Map())
	if err != nil {
		db.Close()
		return nil, err
	}

	accounts := repositories.NewAccountRepository(db)
	connections := repositories.NewConnectionRepository(db)
	refresher := auth.NewRefresher(accounts, authenticator, r.logger)
	engine := affinity.NewEngine(accounts, refresher, r.logger)

	return &stores{
		db:          db,
		accounts:    accounts,
		connections: connections,
		engine:      engine,
		auth:        authenticator,
	}, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, authCommand, accountsCommand,
		suggestCommand, compareCommand, connectCommand, linkedCommand, profileCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
