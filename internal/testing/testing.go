// package testing contains shared testing utilities
package testing

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/CarterSwain/sonic-circle-backend/internal/models"
)

// MockCatalog is a test double for [services.Catalog] returning canned data.
type MockCatalog struct {
	Profile *models.ProfileSummary
	Artists []models.ArtistSummary
	Tracks  []models.TrackSummary
	Err     error
}

func (m *MockCatalog) CurrentUser(ctx context.Context) (*models.ProfileSummary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Profile == nil {
		return &models.ProfileSummary{}, nil
	}
	return m.Profile, nil
}

func (m *MockCatalog) TopArtists(ctx context.Context, limit int) ([]models.ArtistSummary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit < len(m.Artists) {
		return m.Artists[:limit], nil
	}
	return m.Artists, nil
}

func (m *MockCatalog) TopTracks(ctx context.Context, limit int) ([]models.TrackSummary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit < len(m.Tracks) {
		return m.Tracks[:limit], nil
	}
	return m.Tracks, nil
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// Artists builds artist summaries with sequential ids for overlap tests.
func Artists(ids ...string) []models.ArtistSummary {
	artists := make([]models.ArtistSummary, 0, len(ids))
	for _, id := range ids {
		artists = append(artists, models.ArtistSummary{ID: id, Name: "Artist " + id, Genres: []string{}})
	}
	return artists
}

// Tracks builds track summaries with sequential ids for overlap tests.
func Tracks(ids ...string) []models.TrackSummary {
	tracks := make([]models.TrackSummary, 0, len(ids))
	for _, id := range ids {
		tracks = append(tracks, models.TrackSummary{ID: id, Name: "Track " + id, Artist: "Artist " + id})
	}
	return tracks
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
