package repositories

import (
	"database/sql"
	"fmt"

	"github.com/CarterSwain/sonic-circle-backend/internal/models"
	"github.com/CarterSwain/sonic-circle-backend/internal/shared"
)

// ConnectionRepository persists the mutual connection graph as directed edges.
type ConnectionRepository struct {
	db *sql.DB
}

// NewConnectionRepository creates a new [ConnectionRepository] with the given database connection
func NewConnectionRepository(db *sql.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// Exists reports whether a forward edge accountID -> linkedAccountID is present.
func (r *ConnectionRepository) Exists(accountID, linkedAccountID string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM connections
			WHERE account_id = ? AND linked_account_id = ?
		)
	`

	if err := r.db.QueryRow(query, accountID, linkedAccountID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check connection: %w", err)
	}

	return exists, nil
}

// Connect creates the mutual link between two accounts.
//
// Duplicate prevention checks the forward edge only; the reverse direction is
// not independently inspected. Both edges are inserted in one transaction so
// a half-created link never becomes visible.
func (r *ConnectionRepository) Connect(accountID, linkedAccountID string) error {
	exists, err := r.Exists(accountID, linkedAccountID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s -> %s", shared.ErrDuplicateConnection, accountID, linkedAccountID)
	}

	forward := models.NewConnection(0, accountID, linkedAccountID)
	reverse := models.NewConnection(0, linkedAccountID, accountID)

	for _, edge := range []*models.Connection{forward, reverse} {
		if err := edge.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	forwardSeq, err := NextSequence(r.db, "connections")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	reverseSeq, err := NextSequence(r.db, "connections")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO connections (id, sequence, account_id, linked_account_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	forward.SetID(shared.GenerateID())
	if _, err := tx.Exec(query, forward.ID(), forwardSeq, forward.AccountID(), forward.LinkedAccountID(), forward.CreatedAt()); err != nil {
		return fmt.Errorf("failed to insert forward edge: %w", err)
	}

	reverse.SetID(shared.GenerateID())
	if _, err := tx.Exec(query, reverse.ID(), reverseSeq, reverse.AccountID(), reverse.LinkedAccountID(), reverse.CreatedAt()); err != nil {
		return fmt.Errorf("failed to insert reverse edge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit connection: %w", err)
	}

	return nil
}

// Linked returns all live accounts the given account has an outgoing edge to.
//
// The join drops edges pointing at soft-deleted accounts. In-scope accounts
// are never deleted, so a dangling edge is unreachable today, but the query
// handles it rather than surfacing a phantom row.
func (r *ConnectionRepository) Linked(accountID string) ([]*models.Account, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM accounts
		INNER JOIN connections ON connections.linked_account_id = accounts.id
		WHERE connections.account_id = ? AND accounts.deleted_at IS NULL
		ORDER BY connections.sequence ASC
	`, prefixedAccountColumns)

	rows, err := r.db.Query(query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query linked accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan linked account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return accounts, nil
}

const prefixedAccountColumns = `accounts.id, accounts.sequence, accounts.spotify_id, accounts.email,
	accounts.access_token, accounts.refresh_token, accounts.token_expiry,
	accounts.created_at, accounts.updated_at, accounts.deleted_at`
