// package services wraps the external Spotify Web API
//
// The Catalog interface is the contract the rest of the service programs
// against; SpotifyClient is its production implementation.
package services

import (
	"context"

	"github.com/CarterSwain/sonic-circle-backend/internal/models"
)

// Catalog defines the read operations the service needs from a music catalog.
//
// All fetches are scoped to the account whose access token backs the client
// handle. Implementations do not retry; transport and authorization failures
// propagate to the caller.
type Catalog interface {
	// CurrentUser retrieves the authenticated user's public profile.
	CurrentUser(ctx context.Context) (*models.ProfileSummary, error)

	// TopArtists retrieves up to limit top artists for the medium-term window.
	TopArtists(ctx context.Context, limit int) ([]models.ArtistSummary, error)

	// TopTracks retrieves up to limit top tracks for the medium-term window.
	TopTracks(ctx context.Context, limit int) ([]models.TrackSummary, error)
}

// Identity is the raw profile returned by the catalog's current-user endpoint.
type Identity struct {
	SpotifyID string
	Email     string
	Profile   models.ProfileSummary
}
