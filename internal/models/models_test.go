package models

import (
	"testing"
	"time"
)

func TestAccount(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		account := NewAccount(1, "listener", "listener@example.com")

		if account.SpotifyID() != "listener" {
			t.Errorf("expected spotify id 'listener', got %s", account.SpotifyID())
		}
		if account.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", account.Sequence())
		}
		if account.ID() != "" {
			t.Error("expected no id before persistence")
		}
		if account.TokenExpiry() != nil {
			t.Error("expected unknown expiry for a new account")
		}
	})

	t.Run("SetTokens", func(t *testing.T) {
		t.Run("Replaces The Whole Triple", func(t *testing.T) {
			account := NewAccount(0, "listener", "")
			expiry := time.Now().Add(time.Hour)

			account.SetTokens("access", "refresh", &expiry)

			if account.AccessToken() != "access" || account.RefreshToken() != "refresh" {
				t.Error("expected token pair to be set")
			}
			if account.TokenExpiry() == nil || !account.TokenExpiry().Equal(expiry) {
				t.Error("expected expiry to be set")
			}
		})

		t.Run("Can Clear The Expiry", func(t *testing.T) {
			account := NewAccount(0, "listener", "")
			expiry := time.Now()
			account.SetTokens("a", "r", &expiry)

			account.SetTokens("a2", "r2", nil)

			if account.TokenExpiry() != nil {
				t.Error("expected expiry to become unknown")
			}
		})
	})

	t.Run("Validate", func(t *testing.T) {
		t.Run("Accepts Missing Email", func(t *testing.T) {
			if err := NewAccount(0, "listener", "").Validate(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("Rejects Missing Spotify ID", func(t *testing.T) {
			if err := NewAccount(0, "", "").Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	})
}

func TestConnection(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		connection := NewConnection(0, "a1", "a2")

		if connection.AccountID() != "a1" || connection.LinkedAccountID() != "a2" {
			t.Error("expected both endpoints to be set")
		}
		if !connection.UpdatedAt().Equal(connection.CreatedAt()) {
			t.Error("expected updated at to mirror created at")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		t.Run("Accepts Two Endpoints", func(t *testing.T) {
			if err := NewConnection(0, "a1", "a2").Validate(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("Rejects Missing Endpoint", func(t *testing.T) {
			if err := NewConnection(0, "a1", "").Validate(); err == nil {
				t.Error("expected validation error")
			}
			if err := NewConnection(0, "", "a2").Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	})
}
