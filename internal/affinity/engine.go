// package affinity computes listening-taste overlap between accounts.
//
// The core abstraction is Engine, which ranks candidate accounts by shared
// top artists, builds detailed pairwise comparisons, and composes compact
// profile cards. All taste data is fetched fresh per operation; nothing is
// cached or persisted.
package affinity

import (
	"context"
	"fmt"
	"sort"

	"github.com/CarterSwain/sonic-circle-backend/internal/models"
	"github.com/CarterSwain/sonic-circle-backend/internal/services"
	"github.com/CarterSwain/sonic-circle-backend/internal/shared"
	"github.com/charmbracelet/log"
)

// topWindow is the fixed top-N page pulled from the catalog for set algebra.
const topWindow = 50

// AccountSource provides the account records the engine works over.
type AccountSource interface {
	Get(id string) (*models.Account, error)
	List(criteria map[string]any) ([]*models.Account, error)
}

// ClientProvider builds a ready catalog client for an account, refreshing
// stored credentials when needed.
type ClientProvider interface {
	ClientFor(ctx context.Context, account *models.Account) (services.Catalog, error)
}

// Suggestion pairs a candidate account with its artist overlap against the subject.
type Suggestion struct {
	ID                string `json:"id"`
	SpotifyID         string `json:"spotify_id"`
	SharedArtistCount int    `json:"shared_artist_count"`
}

// ComparisonSide is one account's half of a pairwise comparison.
type ComparisonSide struct {
	models.ProfileSummary
	TopTrack  models.TrackSummary  `json:"top_track"`
	TopArtist models.ArtistSummary `json:"top_artist"`
}

// Comparison is the full payload for a pairwise taste comparison.
//
// Shared records are materialized from the first account's copy of the data,
// so the counts are symmetric between the two accounts but the record
// provenance is not.
type Comparison struct {
	UserA             ComparisonSide         `json:"user1"`
	UserB             ComparisonSide         `json:"user2"`
	SharedTrackCount  int                    `json:"shared_track_count"`
	SharedArtistCount int                    `json:"shared_artist_count"`
	SharedTracks      []models.TrackSummary  `json:"shared_tracks"`
	SharedArtists     []models.ArtistSummary `json:"shared_artists"`
}

// ProfileCard is the compact public summary for a single account.
type ProfileCard struct {
	ID        string               `json:"id"`
	SpotifyID string               `json:"spotify_id"`
	TopArtist models.ArtistSummary `json:"top_artist"`
	TopTrack  models.TrackSummary  `json:"top_track"`
}

// Engine computes affinity between accounts using fresh catalog data.
type Engine struct {
	accounts AccountSource
	clients  ClientProvider
	logger   *log.Logger
}

// NewEngine creates an Engine with the provided dependencies.
func NewEngine(accounts AccountSource, clients ClientProvider, logger *log.Logger) *Engine {
	return &Engine{
		accounts: accounts,
		clients:  clients,
		logger:   logger,
	}
}

// Suggest ranks every other account by top-artist overlap with the subject.
//
// Candidates are fetched sequentially; a candidate whose fetch fails is
// logged and skipped so the operation always returns whatever candidates
// were reachable. Zero-overlap candidates are excluded. The result is sorted
// by overlap descending with ties left in enumeration order.
func (e *Engine) Suggest(ctx context.Context, accountID string) ([]Suggestion, error) {
	subject, err := e.accounts.Get(accountID)
	if err != nil {
		return nil, err
	}

	client, err := e.clients.ClientFor(ctx, subject)
	if err != nil {
		return nil, err
	}

	artists, err := client.TopArtists(ctx, topWindow)
	if err != nil {
		return nil, err
	}

	subjectIDs := make(map[string]struct{}, len(artists))
	for _, artist := range artists {
		subjectIDs[artist.ID] = struct{}{}
	}

	candidates, err := e.accounts.List(map[string]any{"exclude_id": accountID})
	if err != nil {
		return nil, err
	}

	suggestions := []Suggestion{}
	for _, candidate := range candidates {
		overlap, err := e.candidateOverlap(ctx, candidate, subjectIDs)
		if err != nil {
			e.logger.Warn("skipping unreachable candidate", "account", candidate.ID(), "error", err)
			continue
		}

		if overlap > 0 {
			suggestions = append(suggestions, Suggestion{
				ID:                candidate.ID(),
				SpotifyID:         candidate.SpotifyID(),
				SharedArtistCount: overlap,
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].SharedArtistCount > suggestions[j].SharedArtistCount
	})

	return suggestions, nil
}

// candidateOverlap fetches one candidate's top artists and counts the intersection.
func (e *Engine) candidateOverlap(ctx context.Context, candidate *models.Account, subjectIDs map[string]struct{}) (int, error) {
	client, err := e.clients.ClientFor(ctx, candidate)
	if err != nil {
		return 0, err
	}

	artists, err := client.TopArtists(ctx, topWindow)
	if err != nil {
		return 0, err
	}

	overlap := 0
	for _, artist := range artists {
		if _, ok := subjectIDs[artist.ID]; ok {
			overlap++
		}
	}

	return overlap, nil
}

// Compare builds the detailed pairwise comparison between two accounts.
//
// Both accounts must exist and every fetch must succeed: unlike Suggest,
// nothing is caught here, so any upstream failure aborts the whole
// comparison. Shared records are materialized from account A's copies in
// A's enumeration order.
func (e *Engine) Compare(ctx context.Context, aID, bID string) (*Comparison, error) {
	accountA, err := e.accounts.Get(aID)
	if err != nil {
		return nil, err
	}
	accountB, err := e.accounts.Get(bID)
	if err != nil {
		return nil, err
	}

	clientA, err := e.clients.ClientFor(ctx, accountA)
	if err != nil {
		return nil, err
	}
	clientB, err := e.clients.ClientFor(ctx, accountB)
	if err != nil {
		return nil, err
	}

	sideA, tracksA, artistsA, err := e.comparisonSide(ctx, clientA)
	if err != nil {
		return nil, err
	}
	sideB, tracksB, artistsB, err := e.comparisonSide(ctx, clientB)
	if err != nil {
		return nil, err
	}

	trackIDsB := make(map[string]struct{}, len(tracksB))
	for _, track := range tracksB {
		trackIDsB[track.ID] = struct{}{}
	}

	sharedTracks := []models.TrackSummary{}
	for _, track := range tracksA {
		if _, ok := trackIDsB[track.ID]; ok {
			sharedTracks = append(sharedTracks, track)
		}
	}

	artistIDsB := make(map[string]struct{}, len(artistsB))
	for _, artist := range artistsB {
		artistIDsB[artist.ID] = struct{}{}
	}

	sharedArtists := []models.ArtistSummary{}
	for _, artist := range artistsA {
		if _, ok := artistIDsB[artist.ID]; ok {
			sharedArtists = append(sharedArtists, artist)
		}
	}

	return &Comparison{
		UserA:             *sideA,
		UserB:             *sideB,
		SharedTrackCount:  len(sharedTracks),
		SharedArtistCount: len(sharedArtists),
		SharedTracks:      sharedTracks,
		SharedArtists:     sharedArtists,
	}, nil
}

// comparisonSide assembles one account's half of a comparison and returns the
// full top-50 sets for the overlap computation.
func (e *Engine) comparisonSide(ctx context.Context, client services.Catalog) (*ComparisonSide, []models.TrackSummary, []models.ArtistSummary, error) {
	profile, err := client.CurrentUser(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	artists, err := client.TopArtists(ctx, topWindow)
	if err != nil {
		return nil, nil, nil, err
	}

	tracks, err := client.TopTracks(ctx, topWindow)
	if err != nil {
		return nil, nil, nil, err
	}

	if len(artists) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: no top artists", shared.ErrInsufficientData)
	}
	if len(tracks) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: no top tracks", shared.ErrInsufficientData)
	}

	side := &ComparisonSide{
		ProfileSummary: *profile,
		TopTrack:       tracks[0],
		TopArtist:      artists[0],
	}

	return side, tracks, artists, nil
}

// Profile composes the compact public summary for one account.
//
// An account with no top artist or track yields ErrInsufficientData rather
// than a generic failure.
func (e *Engine) Profile(ctx context.Context, accountID string) (*ProfileCard, error) {
	account, err := e.accounts.Get(accountID)
	if err != nil {
		return nil, err
	}

	client, err := e.clients.ClientFor(ctx, account)
	if err != nil {
		return nil, err
	}

	artists, err := client.TopArtists(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(artists) == 0 {
		return nil, fmt.Errorf("%w: no top artist", shared.ErrInsufficientData)
	}

	tracks, err := client.TopTracks(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no top track", shared.ErrInsufficientData)
	}

	return &ProfileCard{
		ID:        account.ID(),
		SpotifyID: account.SpotifyID(),
		TopArtist: artists[0],
		TopTrack:  tracks[0],
	}, nil
}

// TopArtists returns the normalized top-50 artists for one account.
func (e *Engine) TopArtists(ctx context.Context, accountID string) ([]models.ArtistSummary, error) {
	client, err := e.clientForAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return client.TopArtists(ctx, topWindow)
}

// TopTracks returns the normalized top-50 tracks for one account.
func (e *Engine) TopTracks(ctx context.Context, accountID string) ([]models.TrackSummary, error) {
	client, err := e.clientForAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return client.TopTracks(ctx, topWindow)
}

func (e *Engine) clientForAccount(ctx context.Context, accountID string) (services.Catalog, error) {
	account, err := e.accounts.Get(accountID)
	if err != nil {
		return nil, err
	}
	return e.clients.ClientFor(ctx, account)
}
