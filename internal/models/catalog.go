package models

// ArtistSummary is a normalized top-artist item from the Spotify catalog.
// Genres is never nil; an artist without genre tags carries an empty slice.
type ArtistSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	SpotifyURL string   `json:"spotify_url"`
	Image      *string  `json:"image"`
}

// TrackSummary is a normalized top-track item from the Spotify catalog.
// AlbumImage is nil when the parent album carries no artwork.
type TrackSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Artist     string  `json:"artist"`
	Album      string  `json:"album"`
	SpotifyURL string  `json:"spotify_url"`
	AlbumImage *string `json:"album_image"`
}

// ProfileSummary is the public-facing profile card for an account.
type ProfileSummary struct {
	DisplayName  string  `json:"display_name"`
	ProfileImage *string `json:"profile_image"`
	SpotifyURL   string  `json:"spotify_url"`
}
