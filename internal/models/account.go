package models

import (
	"fmt"
	"time"
)

// Account represents a person authenticated against Spotify.
//
// An account owns exactly one credential record: the access/refresh token
// pair and its expiry. Tokens are always superseded in place, never appended.
// The internal id is immutable once assigned.
type Account struct {
	id           string
	sequence     int
	spotifyID    string
	email        string
	accessToken  string
	refreshToken string
	tokenExpiry  *time.Time
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewAccount creates an Account for the given Spotify identity.
// The email may be empty when Spotify does not expose one.
func NewAccount(sequence int, spotifyID, email string) *Account {
	now := time.Now()
	return &Account{
		sequence:  sequence,
		spotifyID: spotifyID,
		email:     email,
		createdAt: now,
		updatedAt: now,
	}
}

func (a *Account) ID() string { return a.id }
func (a *Account) Sequence() int { return a.sequence }
func (a *Account) SpotifyID() string { return a.spotifyID }
func (a *Account) Email() string { return a.email }
func (a *Account) AccessToken() string { return a.accessToken }
func (a *Account) RefreshToken() string { return a.refreshToken }
func (a *Account) CreatedAt() time.Time { return a.createdAt }
func (a *Account) UpdatedAt() time.Time { return a.updatedAt }
func (a *Account) DeletedAt() *time.Time { return a.deletedAt }

// TokenExpiry returns the access token expiry, or nil when the expiry is
// unknown and the token must be used optimistically.
func (a *Account) TokenExpiry() *time.Time { return a.tokenExpiry }

func (a *Account) SetID(id string) { a.id = id }
func (a *Account) SetEmail(email string) { a.email = email }
func (a *Account) SetUpdatedAt(t time.Time) { a.updatedAt = t }
func (a *Account) SetDeletedAt(t *time.Time) { a.deletedAt = t }

// SetTokens replaces the credential triple in one step.
func (a *Account) SetTokens(access, refresh string, expiry *time.Time) {
	a.accessToken = access
	a.refreshToken = refresh
	a.tokenExpiry = expiry
}

// Validate checks if the account's data is valid.
func (a *Account) Validate() error {
	if a.spotifyID == "" {
		return fmt.Errorf("account requires a spotify id")
	}
	return nil
}
