package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/CarterSwain/sonic-circle-backend/internal/models"
	"github.com/CarterSwain/sonic-circle-backend/internal/shared"
)

// AccountRepository implements [models.Repository] for [models.Account] persistence.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new [AccountRepository] with the given database connection
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, sequence, spotify_id, email, access_token, refresh_token, token_expiry, created_at, updated_at, deleted_at`

// Create inserts a new account into the database with generated ID and sequence
func (r *AccountRepository) Create(account *models.Account) error {
	sequence, err := NextSequence(r.db, "accounts")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	account.SetID(id)

	if err := account.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO accounts (id, sequence, spotify_id, email, access_token, refresh_token, token_expiry, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, account.SpotifyID(), nullableString(account.Email()),
		account.AccessToken(), account.RefreshToken(), nullableTime(account.TokenExpiry()),
		account.CreatedAt(), account.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return nil
}

// Get retrieves an account by ID, excluding soft-deleted accounts
func (r *AccountRepository) Get(id string) (*models.Account, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM accounts
		WHERE id = ? AND deleted_at IS NULL
	`, accountColumns)

	account, err := scanAccount(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	return account, nil
}

// GetBySpotifyID retrieves an account by its Spotify identity.
func (r *AccountRepository) GetBySpotifyID(spotifyID string) (*models.Account, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM accounts
		WHERE spotify_id = ? AND deleted_at IS NULL
	`, accountColumns)

	account, err := scanAccount(r.db.QueryRow(query, spotifyID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: spotify id %s", shared.ErrNotFound, spotifyID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	return account, nil
}

// Update modifies an existing account in the database
func (r *AccountRepository) Update(account *models.Account) error {
	if err := account.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	account.SetUpdatedAt(now)

	query := `
		UPDATE accounts
		SET email = ?, access_token = ?, refresh_token = ?, token_expiry = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, nullableString(account.Email()), account.AccessToken(),
		account.RefreshToken(), nullableTime(account.TokenExpiry()), now, account.ID())
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, account.ID())
	}

	return nil
}

// UpdateTokens persists the credential triple for an account in a single statement.
//
// Last write wins: concurrent refreshes for the same account each produce a
// valid token pair and the store keeps whichever lands last.
func (r *AccountRepository) UpdateTokens(id, access, refresh string, expiry *time.Time) error {
	query := `
		UPDATE accounts
		SET access_token = ?, refresh_token = ?, token_expiry = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, access, refresh, nullableTime(expiry), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, id)
	}

	return nil
}

// UpsertBySpotifyID creates an account on first authentication or supersedes
// the stored credential triple on every subsequent one.
func (r *AccountRepository) UpsertBySpotifyID(spotifyID, email, access, refresh string, expiry *time.Time) (*models.Account, error) {
	account, err := r.GetBySpotifyID(spotifyID)
	if err == nil {
		if email != "" {
			account.SetEmail(email)
		}
		account.SetTokens(access, refresh, expiry)
		if err := r.Update(account); err != nil {
			return nil, err
		}
		return account, nil
	}

	account = models.NewAccount(0, spotifyID, email)
	account.SetTokens(access, refresh, expiry)
	if err := r.Create(account); err != nil {
		return nil, err
	}

	return account, nil
}

// Delete soft-deletes an account by ID
func (r *AccountRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE accounts
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, id)
	}

	return nil
}

// List retrieves all accounts matching the given criteria, excluding soft-deleted accounts.
//
// Supported criteria: "spotify_id" (exact match), "exclude_id" (omit one account).
func (r *AccountRepository) List(criteria map[string]any) ([]*models.Account, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM accounts
		WHERE deleted_at IS NULL
	`, accountColumns)

	args := []any{}

	if spotifyID, ok := criteria["spotify_id"].(string); ok && spotifyID != "" {
		query += " AND spotify_id = ?"
		args = append(args, spotifyID)
	}

	if excludeID, ok := criteria["exclude_id"].(string); ok && excludeID != "" {
		query += " AND id != ?"
		args = append(args, excludeID)
	}

	query += " ORDER BY sequence ASC"

	return r.queryAccounts(query, args...)
}

// Search retrieves accounts whose spotify id or email contains the given substring.
func (r *AccountRepository) Search(q string) ([]*models.Account, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM accounts
		WHERE deleted_at IS NULL AND (spotify_id LIKE ? OR email LIKE ?)
		ORDER BY sequence ASC
	`, accountColumns)

	pattern := "%" + q + "%"
	return r.queryAccounts(query, pattern, pattern)
}

func (r *AccountRepository) queryAccounts(query string, args ...any) ([]*models.Account, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return accounts, nil
}

// scanner abstracts over [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*models.Account, error) {
	var (
		id           string
		sequence     int
		spotifyID    string
		email        sql.NullString
		accessToken  string
		refreshToken string
		tokenExpiry  sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := row.Scan(&id, &sequence, &spotifyID, &email, &accessToken, &refreshToken,
		&tokenExpiry, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	account := models.NewAccount(sequence, spotifyID, email.String)
	account.SetID(id)
	account.SetUpdatedAt(updatedAt)

	var expiry *time.Time
	if tokenExpiry.Valid {
		expiry = &tokenExpiry.Time
	}
	account.SetTokens(accessToken, refreshToken, expiry)

	if deletedAt.Valid {
		account.SetDeletedAt(&deletedAt.Time)
	}

	return account, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
