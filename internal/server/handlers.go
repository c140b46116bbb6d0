package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/CarterSwain/sonic-circle-backend/internal/affinity"
	"github.com/CarterSwain/sonic-circle-backend/internal/models"
	"github.com/CarterSwain/sonic-circle-backend/internal/services"
	"github.com/CarterSwain/sonic-circle-backend/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
)

const stateCookie = "sonic_oauth_state"

// AccountStore is the account persistence surface the API needs.
type AccountStore interface {
	Get(id string) (*models.Account, error)
	Search(q string) ([]*models.Account, error)
	UpsertBySpotifyID(spotifyID, email, access, refresh string, expiry *time.Time) (*models.Account, error)
}

// ConnectionStore is the connection-graph surface the API needs.
type ConnectionStore interface {
	Connect(accountID, linkedAccountID string) error
	Linked(accountID string) ([]*models.Account, error)
}

// AffinityService computes taste overlap and profile summaries.
type AffinityService interface {
	Suggest(ctx context.Context, accountID string) ([]affinity.Suggestion, error)
	Compare(ctx context.Context, aID, bID string) (*affinity.Comparison, error)
	Profile(ctx context.Context, accountID string) (*affinity.ProfileCard, error)
	TopArtists(ctx context.Context, accountID string) ([]models.ArtistSummary, error)
	TopTracks(ctx context.Context, accountID string) ([]models.TrackSummary, error)
}

// Authenticator performs the OAuth2 authorization-code flow.
type Authenticator interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// IdentityFunc fetches the authenticated user's identity with a fresh access token.
type IdentityFunc func(ctx context.Context, accessToken string) (*services.Identity, error)

// APIHandler wires the HTTP surface to the stores and the affinity engine.
// Every handler is a thin adapter: decode, delegate, encode.
type APIHandler struct {
	accounts    AccountStore
	connections ConnectionStore
	engine      AffinityService
	auth        Authenticator
	identify    IdentityFunc
	logger      *log.Logger
}

// NewAPIHandler creates an APIHandler with the given dependencies.
func NewAPIHandler(accounts AccountStore, connections ConnectionStore, engine AffinityService, auth Authenticator, logger *log.Logger) *APIHandler {
	return &APIHandler{
		accounts:    accounts,
		connections: connections,
		engine:      engine,
		auth:        auth,
		identify: func(ctx context.Context, accessToken string) (*services.Identity, error) {
			return services.NewSpotifyClient(accessToken, nil).Identity(ctx)
		},
		logger: logger,
	}
}

// Register mounts every API route on the router.
func (h *APIHandler) Register(r Router) {
	r.Handle("GET", "/{$}", http.HandlerFunc(h.Root))
	r.Handle("GET", "/login", http.HandlerFunc(h.Login))
	r.Handle("GET", "/callback", http.HandlerFunc(h.Callback))
	r.Handle("GET", "/top-tracks", http.HandlerFunc(h.TopTracks))
	r.Handle("GET", "/top-artists", http.HandlerFunc(h.TopArtists))
	r.Handle("GET", "/users/search", http.HandlerFunc(h.SearchUsers))
	r.Handle("GET", "/suggested-links/{id}", http.HandlerFunc(h.SuggestedLinks))
	r.Handle("POST", "/connect/{id}/{other}", http.HandlerFunc(h.Connect))
	r.Handle("GET", "/linked-users/{id}", http.HandlerFunc(h.LinkedUsers))
	r.Handle("GET", "/profile/{id}", http.HandlerFunc(h.Profile))
	r.Handle("GET", "/compare/{id}/{other}", http.HandlerFunc(h.Compare))
}

// Root returns the welcome message.
func (h *APIHandler) Root(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to Sonic Circle API"})
}

// Login redirects the browser to the Spotify authorization page.
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := shared.GenerateState()
	if err != nil {
		h.writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
	})

	http.Redirect(w, r, h.auth.AuthURL(state), http.StatusTemporaryRedirect)
}

// Callback completes the OAuth2 flow: exchanges the code, fetches the
// authenticated identity, and upserts the account with the new token triple.
func (h *APIHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		h.writeError(w, shared.ErrMissingArgument)
		return
	}

	if cookie, err := r.Cookie(stateCookie); err == nil {
		if cookie.Value != r.URL.Query().Get("state") {
			h.writeError(w, shared.ErrInvalidArgument)
			return
		}
	}

	token, err := h.auth.Exchange(r.Context(), code)
	if err != nil {
		h.writeError(w, err)
		return
	}

	identity, err := h.identify(r.Context(), token.AccessToken)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var expiry *time.Time
	if !token.Expiry.IsZero() {
		expiry = &token.Expiry
	}

	account, err := h.accounts.UpsertBySpotifyID(identity.SpotifyID, identity.Email,
		token.AccessToken, token.RefreshToken, expiry)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Info("authenticated account", "account", account.ID(), "spotify_id", account.SpotifyID())

	h.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Successfully authenticated",
		"user_id": account.ID(),
	})
}

// TopTracks returns an account's normalized top-50 tracks.
func (h *APIHandler) TopTracks(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		h.writeError(w, shared.ErrMissingArgument)
		return
	}

	tracks, err := h.engine.TopTracks(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"tracks": tracks})
}

// TopArtists returns an account's normalized top-50 artists.
func (h *APIHandler) TopArtists(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		h.writeError(w, shared.ErrMissingArgument)
		return
	}

	artists, err := h.engine.TopArtists(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"artists": artists})
}

// accountSummary is the public projection of an account record.
type accountSummary struct {
	ID        string  `json:"id"`
	SpotifyID string  `json:"spotify_id"`
	Email     *string `json:"email,omitempty"`
}

func summarize(account *models.Account, withEmail bool) accountSummary {
	summary := accountSummary{ID: account.ID(), SpotifyID: account.SpotifyID()}
	if withEmail {
		email := account.Email()
		if email != "" {
			summary.Email = &email
		}
	}
	return summary
}

// SearchUsers returns accounts whose spotify id or email contains the query substring.
func (h *APIHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		h.writeError(w, shared.ErrMissingArgument)
		return
	}

	accounts, err := h.accounts.Search(q)
	if err != nil {
		h.writeError(w, err)
		return
	}

	results := []accountSummary{}
	for _, account := range accounts {
		results = append(results, summarize(account, true))
	}

	h.writeJSON(w, http.StatusOK, results)
}

// SuggestedLinks returns candidates ranked by shared top artists.
func (h *APIHandler) SuggestedLinks(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.engine.Suggest(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, suggestions)
}

// Connect creates the mutual link between two accounts.
func (h *APIHandler) Connect(w http.ResponseWriter, r *http.Request) {
	id, other := r.PathValue("id"), r.PathValue("other")

	for _, accountID := range []string{id, other} {
		if _, err := h.accounts.Get(accountID); err != nil {
			h.writeError(w, err)
			return
		}
	}

	if err := h.connections.Connect(id, other); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Users connected successfully (mutual)"})
}

// LinkedUsers returns every account linked to the given one.
func (h *APIHandler) LinkedUsers(w http.ResponseWriter, r *http.Request) {
	linked, err := h.connections.Linked(r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	results := []accountSummary{}
	for _, account := range linked {
		results = append(results, summarize(account, false))
	}

	h.writeJSON(w, http.StatusOK, results)
}

// Profile returns the compact public summary for one account.
func (h *APIHandler) Profile(w http.ResponseWriter, r *http.Request) {
	card, err := h.engine.Profile(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, card)
}

// Compare returns the detailed pairwise comparison between two accounts.
func (h *APIHandler) Compare(w http.ResponseWriter, r *http.Request) {
	comparison, err := h.engine.Compare(r.Context(), r.PathValue("id"), r.PathValue("other"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, comparison)
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps the shared error taxonomy onto HTTP statuses.
func (h *APIHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, shared.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, shared.ErrDuplicateConnection),
		errors.Is(err, shared.ErrAuthExchange),
		errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, shared.ErrInsufficientData):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, shared.ErrUpstreamFetch):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": err.Error()})
}
