// Spotify API implementation of [Catalog]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/CarterSwain/sonic-circle-backend/internal/models"
	"github.com/CarterSwain/sonic-circle-backend/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// timeRange is the fixed affinity window; other ranges are out of scope.
	timeRange = "medium_term"

	// maxTopItems is the Spotify API ceiling for a single top-items page.
	maxTopItems = 50

	defaultTimeout = 10 * time.Second
)

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID           string         `json:"id"`
	DisplayName  string         `json:"display_name"`
	Email        string         `json:"email"`
	ExternalURLs externalURLs   `json:"external_urls"`
	Images       []SpotifyImage `json:"images"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Genres       []string       `json:"genres"`
	Popularity   int            `json:"popularity"`
	Images       []SpotifyImage `json:"images"`
	ExternalURLs externalURLs   `json:"external_urls"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	ExternalURLs externalURLs    `json:"external_urls"`
}

type topArtistsPage struct {
	Items []SpotifyArtist `json:"items"`
}

type topTracksPage struct {
	Items []SpotifyTrack `json:"items"`
}

// SpotifyAuthenticator owns the OAuth2 application configuration and performs
// code exchanges and token refreshes against the Spotify accounts service.
type SpotifyAuthenticator struct {
	config *oauth2.Config
}

// NewSpotifyAuthenticator creates an authenticator from the given OAuth2 credentials.
func NewSpotifyAuthenticator(credentials map[string]string) (*SpotifyAuthenticator, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-top-read",
			"user-read-private",
			"user-read-email",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyAuthenticator{config: config}, nil
}

// AuthURL returns the OAuth2 authorization URL for user login.
func (a *SpotifyAuthenticator) AuthURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token triple.
func (a *SpotifyAuthenticator) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange: %v", shared.ErrAuthExchange, err)
	}
	return token, nil
}

// Refresh trades a refresh token for a new token triple.
//
// Spotify may omit the refresh token from the response; [oauth2] carries the
// old one forward so the returned triple is always complete.
func (a *SpotifyAuthenticator) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, shared.ErrNoRefreshToken
	}

	source := a.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: refresh: %v", shared.ErrAuthExchange, err)
	}

	return token, nil
}

// SpotifyClient is a per-request catalog handle bound to one account's access token.
//
// The token is used as-is: the client never refreshes it mid-request, so a
// request performs at most the one refresh its caller did up front.
type SpotifyClient struct {
	accessToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
	baseURL     string
}

// NewSpotifyClient creates a client for the given access token.
// A nil limiter disables outbound pacing.
func NewSpotifyClient(accessToken string, limiter *rate.Limiter) *SpotifyClient {
	return &SpotifyClient{
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		limiter:     limiter,
		baseURL:     spotifyBaseURL,
	}
}

// doRequest performs an authenticated GET against the Spotify API.
func (c *SpotifyClient) doRequest(ctx context.Context, endpoint string, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrUpstreamFetch, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrUpstreamFetch, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: decode: %v", shared.ErrUpstreamFetch, err)
		}
	}

	return nil
}

// CurrentUser retrieves the authenticated user's public profile.
func (c *SpotifyClient) CurrentUser(ctx context.Context) (*models.ProfileSummary, error) {
	identity, err := c.Identity(ctx)
	if err != nil {
		return nil, err
	}
	return &identity.Profile, nil
}

// Identity retrieves the full current-user record, including the Spotify id
// and email needed when upserting an account after authentication.
func (c *SpotifyClient) Identity(ctx context.Context) (*Identity, error) {
	var user SpotifyUser
	if err := c.doRequest(ctx, "/me", &user); err != nil {
		return nil, err
	}

	return &Identity{
		SpotifyID: user.ID,
		Email:     user.Email,
		Profile: models.ProfileSummary{
			DisplayName:  user.DisplayName,
			ProfileImage: firstImageURL(user.Images),
			SpotifyURL:   user.ExternalURLs.Spotify,
		},
	}, nil
}

// TopArtists retrieves up to limit top artists for the medium-term window.
func (c *SpotifyClient) TopArtists(ctx context.Context, limit int) ([]models.ArtistSummary, error) {
	endpoint := fmt.Sprintf("/me/top/artists?limit=%d&time_range=%s", clampLimit(limit), timeRange)

	var page topArtistsPage
	if err := c.doRequest(ctx, endpoint, &page); err != nil {
		return nil, err
	}

	artists := make([]models.ArtistSummary, 0, len(page.Items))
	for _, item := range page.Items {
		artists = append(artists, normalizeArtist(item))
	}

	return artists, nil
}

// TopTracks retrieves up to limit top tracks for the medium-term window.
func (c *SpotifyClient) TopTracks(ctx context.Context, limit int) ([]models.TrackSummary, error) {
	endpoint := fmt.Sprintf("/me/top/tracks?limit=%d&time_range=%s", clampLimit(limit), timeRange)

	var page topTracksPage
	if err := c.doRequest(ctx, endpoint, &page); err != nil {
		return nil, err
	}

	tracks := make([]models.TrackSummary, 0, len(page.Items))
	for _, item := range page.Items {
		tracks = append(tracks, normalizeTrack(item))
	}

	return tracks, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxTopItems {
		return maxTopItems
	}
	return limit
}

// normalizeArtist flattens a raw artist into the [models.ArtistSummary] shape.
// Genres is coerced to an empty slice, never nil.
func normalizeArtist(artist SpotifyArtist) models.ArtistSummary {
	genres := artist.Genres
	if genres == nil {
		genres = []string{}
	}

	return models.ArtistSummary{
		ID:         artist.ID,
		Name:       artist.Name,
		Genres:     genres,
		Popularity: artist.Popularity,
		SpotifyURL: artist.ExternalURLs.Spotify,
		Image:      firstImageURL(artist.Images),
	}
}

// normalizeTrack flattens a raw track into the [models.TrackSummary] shape.
func normalizeTrack(track SpotifyTrack) models.TrackSummary {
	artistName := ""
	if len(track.Artists) > 0 {
		artistName = track.Artists[0].Name
	}

	return models.TrackSummary{
		ID:         track.ID,
		Name:       track.Name,
		Artist:     artistName,
		Album:      track.Album.Name,
		SpotifyURL: track.ExternalURLs.Spotify,
		AlbumImage: firstImageURL(track.Album.Images),
	}
}

// firstImageURL returns the first image URL, or nil when no artwork exists.
func firstImageURL(images []SpotifyImage) *string {
	if len(images) == 0 {
		return nil
	}
	return &images[0].URL
}
