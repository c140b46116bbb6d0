package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CarterSwain/sonic-circle-backend/internal/shared"
	tu "github.com/CarterSwain/sonic-circle-backend/internal/testing"
)

func TestSpotifyAuthenticator(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			authenticator, err := NewSpotifyAuthenticator(map[string]string{
				"client_id":     "id",
				"client_secret": "secret",
				"redirect_uri":  "http://localhost:9999/callback",
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if authenticator.config.RedirectURL != "http://localhost:9999/callback" {
				t.Errorf("expected custom redirect URI, got %s", authenticator.config.RedirectURL)
			}
		})

		t.Run("With Missing Client ID", func(t *testing.T) {
			_, err := NewSpotifyAuthenticator(map[string]string{"client_secret": "secret"})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("With Missing Client Secret", func(t *testing.T) {
			_, err := NewSpotifyAuthenticator(map[string]string{"client_id": "id"})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("With Default Redirect URI", func(t *testing.T) {
			authenticator, err := NewSpotifyAuthenticator(map[string]string{
				"client_id":     "id",
				"client_secret": "secret",
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if authenticator.config.RedirectURL != "http://localhost:3000/callback" {
				t.Errorf("expected default redirect URI, got %s", authenticator.config.RedirectURL)
			}
		})
	})

	t.Run("AuthURL", func(t *testing.T) {
		authenticator, _ := NewSpotifyAuthenticator(map[string]string{
			"client_id":     "id",
			"client_secret": "secret",
		})

		url := authenticator.AuthURL("state-123")

		for _, want := range []string{"state=state-123", "user-top-read", "access_type=offline"} {
			if !strings.Contains(url, want) {
				t.Errorf("expected auth URL to contain %q, got %s", want, url)
			}
		}
	})

	t.Run("Refresh", func(t *testing.T) {
		t.Run("Without Refresh Token", func(t *testing.T) {
			authenticator, _ := NewSpotifyAuthenticator(map[string]string{
				"client_id":     "id",
				"client_secret": "secret",
			})

			_, err := authenticator.Refresh(context.Background(), "")
			if !errors.Is(err, shared.ErrNoRefreshToken) {
				t.Errorf("expected ErrNoRefreshToken, got %v", err)
			}
		})
	})
}

func TestSpotifyClient(t *testing.T) {
	newTestClient := func(t *testing.T, handler http.HandlerFunc) *SpotifyClient {
		t.Helper()
		server := httptest.NewServer(handler)
		t.Cleanup(server.Close)

		client := NewSpotifyClient("test-token", nil)
		client.baseURL = server.URL
		return client
	}

	t.Run("Identity", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/me" {
				t.Errorf("expected path '/me', got %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("expected bearer token header, got %s", got)
			}

			json.NewEncoder(w).Encode(SpotifyUser{
				ID:           "spotify-user",
				DisplayName:  "Listener",
				Email:        "listener@example.com",
				ExternalURLs: externalURLs{Spotify: "https://open.spotify.com/user/spotify-user"},
			})
		})

		identity, err := client.Identity(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if identity.SpotifyID != "spotify-user" {
			t.Errorf("expected spotify id 'spotify-user', got %s", identity.SpotifyID)
		}
		if identity.Profile.DisplayName != "Listener" {
			t.Errorf("expected display name 'Listener', got %s", identity.Profile.DisplayName)
		}
		if identity.Profile.ProfileImage != nil {
			t.Error("expected nil profile image when no artwork exists")
		}
	})

	t.Run("TopArtists", func(t *testing.T) {
		t.Run("Normalizes Missing Genres And Images", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("time_range"); got != "medium_term" {
					t.Errorf("expected time_range 'medium_term', got %s", got)
				}
				if got := r.URL.Query().Get("limit"); got != "50" {
					t.Errorf("expected limit '50', got %s", got)
				}

				json.NewEncoder(w).Encode(topArtistsPage{Items: []SpotifyArtist{
					{ID: "a1", Name: "First"},
					{ID: "a2", Name: "Second", Genres: []string{"indie"}, Images: []SpotifyImage{{URL: "http://img/a2"}}},
				}})
			})

			artists, err := client.TopArtists(context.Background(), 50)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(artists) != 2 {
				t.Fatalf("expected 2 artists, got %d", len(artists))
			}
			if artists[0].Genres == nil || len(artists[0].Genres) != 0 {
				t.Error("expected empty genre slice, not nil")
			}
			if artists[0].Image != nil {
				t.Error("expected nil image when no artwork exists")
			}
			if artists[1].Image == nil || *artists[1].Image != "http://img/a2" {
				t.Error("expected first image URL to be selected")
			}
		})

		t.Run("Clamps Out Of Range Limit", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("limit"); got != "50" {
					t.Errorf("expected clamped limit '50', got %s", got)
				}
				json.NewEncoder(w).Encode(topArtistsPage{})
			})

			if _, err := client.TopArtists(context.Background(), 500); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("TopTracks", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(topTracksPage{Items: []SpotifyTrack{
				{
					ID:      "t1",
					Name:    "Song",
					Artists: []SpotifyArtist{{Name: "Primary"}, {Name: "Feature"}},
					Album:   SpotifyAlbum{Name: "Record", Images: []SpotifyImage{{URL: "http://img/t1"}}},
				},
				{ID: "t2", Name: "Orphan"},
			}})
		})

		tracks, err := client.TopTracks(context.Background(), 50)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tracks[0].Artist != "Primary" {
			t.Errorf("expected first artist name, got %s", tracks[0].Artist)
		}
		if tracks[0].Album != "Record" {
			t.Errorf("expected album name 'Record', got %s", tracks[0].Album)
		}
		if tracks[1].Artist != "" {
			t.Errorf("expected empty artist for track without artists, got %s", tracks[1].Artist)
		}
		if tracks[1].AlbumImage != nil {
			t.Error("expected nil album image when no artwork exists")
		}
	})

	t.Run("Upstream Errors", func(t *testing.T) {
		t.Run("Non-2xx Status", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			})

			_, err := client.TopArtists(context.Background(), 50)
			if !errors.Is(err, shared.ErrUpstreamFetch) {
				t.Errorf("expected ErrUpstreamFetch, got %v", err)
			}
		})

		t.Run("Transport Failure", func(t *testing.T) {
			client := NewSpotifyClient("test-token", nil)
			client.httpClient = &http.Client{
				Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed")),
			}

			_, err := client.TopTracks(context.Background(), 50)
			if !errors.Is(err, shared.ErrUpstreamFetch) {
				t.Errorf("expected ErrUpstreamFetch, got %v", err)
			}
		})
	})
}
