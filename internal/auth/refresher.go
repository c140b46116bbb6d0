// package auth keeps per-account Spotify credentials usable.
//
// The Refresher is the single entry point for obtaining a catalog client: it
// inspects the stored expiry, performs at most one refresh exchange, persists
// the superseded token triple, and hands back a ready client handle.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/CarterSwain/sonic-circle-backend/internal/models"
	"github.com/CarterSwain/sonic-circle-backend/internal/services"
	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// refreshWindow is how close to expiry a token must be before it is renewed.
const refreshWindow = 60 * time.Second

// TokenStore persists superseded credential triples.
type TokenStore interface {
	UpdateTokens(id, access, refresh string, expiry *time.Time) error
}

// Exchanger performs refresh exchanges against the identity provider.
type Exchanger interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// Refresher builds ready-to-use catalog clients for accounts, renewing the
// stored access token first when it is about to expire.
type Refresher struct {
	store   TokenStore
	oauth   Exchanger
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewRefresher creates a Refresher. The shared limiter paces all outbound
// catalog calls made through clients it hands out.
func NewRefresher(store TokenStore, oauth Exchanger, logger *log.Logger) *Refresher {
	return &Refresher{
		store:   store,
		oauth:   oauth,
		limiter: rate.NewLimiter(rate.Limit(10), 5),
		logger:  logger,
	}
}

// ClientFor returns a catalog client holding a usable access token for the account.
//
// When the stored expiry is within the refresh window, the refresh token is
// exchanged and all three credential fields are persisted before the client
// is returned; the client itself never refreshes again, so one request
// performs at most one refresh. When the expiry is unknown the stored token
// is used optimistically and a downstream 401 is the only detection. Two
// concurrent refreshes for one account are both valid; the store keeps the
// last write.
func (r *Refresher) ClientFor(ctx context.Context, account *models.Account) (services.Catalog, error) {
	access := account.AccessToken()

	if exp := account.TokenExpiry(); exp != nil && time.Until(*exp) < refreshWindow {
		token, err := r.oauth.Refresh(ctx, account.RefreshToken())
		if err != nil {
			return nil, err
		}

		expiry := tokenExpiry(token)
		if err := r.store.UpdateTokens(account.ID(), token.AccessToken, token.RefreshToken, expiry); err != nil {
			return nil, fmt.Errorf("failed to persist refreshed tokens: %w", err)
		}

		account.SetTokens(token.AccessToken, token.RefreshToken, expiry)
		access = token.AccessToken

		r.logger.Info("refreshed access token", "account", account.ID())
	}

	return services.NewSpotifyClient(access, r.limiter), nil
}

func tokenExpiry(token *oauth2.Token) *time.Time {
	if token.Expiry.IsZero() {
		return nil
	}
	expiry := token.Expiry
	return &expiry
}
